package typeregistry

// Planner is the thin declaration-planner collaborator the Resolver calls
// into when a function-field's return type points to a struct not yet
// present in the current package's declared-type set. It is "out of scope
// for content, in scope for the scheduling call": Planner only records
// which canonical ids need a forward declaration before the generator's
// sibling stub-synthesis stage runs; it does not itself decide what that
// declaration looks like.
type Planner struct {
	pending []uint64
	seen    map[uint64]struct{}
}

// NewPlanner returns an empty Planner.
func NewPlanner() *Planner {
	return &Planner{seen: make(map[uint64]struct{})}
}

// Schedule records id as needing a forward declaration, ignoring duplicate
// requests for the same id.
func (p *Planner) Schedule(id uint64) {
	if _, ok := p.seen[id]; ok {
		return
	}
	p.seen[id] = struct{}{}
	p.pending = append(p.pending, id)
}

// Pending returns every scheduled id in scheduling order.
func (p *Planner) Pending() []uint64 {
	out := make([]uint64, len(p.pending))
	copy(out, p.pending)
	return out
}

// Clear empties the pending list, e.g. once the caller has emitted forward
// declarations for every scheduled id.
func (p *Planner) Clear() {
	p.pending = nil
	p.seen = make(map[uint64]struct{})
}
