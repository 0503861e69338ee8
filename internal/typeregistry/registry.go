package typeregistry

import "fmt"

// Named is the minimal interface the generic upsert policy needs: any
// registry value exposing a mutable Name. All three entry kinds
// (StructInfo, EnumInfo, UnionInfo) satisfy it, so the insertion policy is
// written once instead of copied three times.
type Named interface {
	GetName() string
	SetName(string)
}

// TypeCollision is a warn-level diagnostic: the registry observed the same
// canonical id with two differing non-empty names. The first entry is kept.
type TypeCollision struct {
	ID       uint64
	Kept     string
	Rejected string
}

func (c *TypeCollision) Error() string {
	return fmt.Sprintf("typeregistry: id %d already named %q, ignoring %q", c.ID, c.Kept, c.Rejected)
}

// Registry holds the three keyed tables plus the running maximum alignment
// observed across every successful insertion. It accumulates monotonically
// during one resolution pass and is read-only once handed to a consumer.
type Registry struct {
	Structs map[uint64]*StructInfo
	Enums   map[uint64]*EnumInfo
	Unions  map[uint64]*UnionInfo

	MaxAlignment int64

	// Collisions accumulates every TypeCollision observed, in insertion
	// order, for the caller to surface as diagnostics.
	Collisions []*TypeCollision
}

// NewRegistry returns an empty Registry ready to accumulate entries.
func NewRegistry() *Registry {
	return &Registry{
		Structs: make(map[uint64]*StructInfo),
		Enums:   make(map[uint64]*EnumInfo),
		Unions:  make(map[uint64]*UnionInfo),
	}
}

// upsert is the single generic operation behind Registry.addStruct/addEnum/
// addUnion: first-non-empty-name-wins, equal non-empty names idempotent,
// unequal non-empty names recorded as a TypeCollision with the first entry
// kept.
func upsert[T Named](table map[uint64]T, id uint64, incoming T) (kept T, inserted bool, collision *TypeCollision) {
	existing, ok := table[id]
	if !ok {
		table[id] = incoming
		return incoming, true, nil
	}
	existingName := existing.GetName()
	incomingName := incoming.GetName()
	if existingName == "" && incomingName != "" {
		existing.SetName(incomingName)
		return existing, false, nil
	}
	if existingName != "" && incomingName != "" && existingName != incomingName {
		return existing, false, &TypeCollision{ID: id, Kept: existingName, Rejected: incomingName}
	}
	return existing, false, nil
}

// addStruct inserts or merges s under id, updating MaxAlignment on success
// and recording any collision.
func (r *Registry) addStruct(id uint64, s *StructInfo) *StructInfo {
	kept, _, coll := upsert(r.Structs, id, s)
	r.afterInsert(coll, kept.Alignment)
	return kept
}

func (r *Registry) addEnum(id uint64, e *EnumInfo) *EnumInfo {
	e.index()
	kept, _, coll := upsert(r.Enums, id, e)
	r.afterInsert(coll, kept.Alignment)
	return kept
}

func (r *Registry) addUnion(id uint64, u *UnionInfo) *UnionInfo {
	kept, _, coll := upsert(r.Unions, id, u)
	r.afterInsert(coll, kept.Alignment)
	return kept
}

func (r *Registry) afterInsert(coll *TypeCollision, alignment int64) {
	if coll != nil {
		r.Collisions = append(r.Collisions, coll)
	}
	if alignment > r.MaxAlignment {
		r.MaxAlignment = alignment
	}
}
