// Package typeregistry reconstructs a typed semantic model — records,
// enumerations, and unions, with layout — from a loaded go/packages result.
// It is the Go-native analog of a C++ AST type resolver: where that system
// walks struct/class/enum/union declarations, this one walks *types.Named
// struct types, iota-based const blocks, and //cldk:union-tagged structs.
package typeregistry

// Field is one member of a StructInfo or UnionInfo.
type Field struct {
	Name   string
	Type   string // canonical spelling
	Used   string // as-written (sugared) spelling
	Size   int64
	Offset int64 // always 0 for union fields

	// Func is non-nil when Type denotes a func(...)..., []func(...)... or
	// [N]func(...)... value, per the function-pointer-field rule.
	Func *FunctionSignature
}

// FunctionSignature is the synthesized descriptor for a function-typed
// field: return type, auto-named positional parameters, and whether the
// field itself is an array/slice of such functions.
type FunctionSignature struct {
	Name       string
	ReturnType string
	ReturnUsed string
	Params     []Param
	IsArray    bool
}

// Param is one positional, auto-named parameter of a FunctionSignature.
type Param struct {
	Name string // "param1", "param2", ...
	Type string
}

// StructInfo is a resolved struct (record) entry.
type StructInfo struct {
	ID        uint64
	Name      string
	File      string
	Line      int
	Access    string // "::"-joined outermost-first scope chain
	Size      int64
	Alignment int64
	Fields    []Field
	// ToDeclare lists struct ids referenced by a function-pointer field's
	// return type that are not yet present in this package's declared-type
	// set, scheduled for forward declaration by the Planner.
	ToDeclare []uint64
}

// GetName/SetName satisfy the generic upsert policy (§ first-non-empty-
// name-wins).
func (s *StructInfo) GetName() string     { return s.Name }
func (s *StructInfo) SetName(name string) { s.Name = name }

// Enumerator is one named, valued member of an EnumInfo.
type Enumerator struct {
	Name  string
	Value string // stringified constant value
}

// EnumInfo is a resolved enumeration entry: a named integer/string type with
// a const (...) block sharing that named type.
type EnumInfo struct {
	ID          uint64
	Name        string
	File        string
	Line        int
	Access      string
	Size        int64
	Alignment   int64
	Enumerators []Enumerator
	// byName/byValue double-index the enumerators for O(1) lookup.
	byName  map[string]Enumerator
	byValue map[string]Enumerator
}

func (e *EnumInfo) GetName() string     { return e.Name }
func (e *EnumInfo) SetName(name string) { e.Name = name }

// ByName looks up an enumerator by its declared constant name.
func (e *EnumInfo) ByName(name string) (Enumerator, bool) {
	v, ok := e.byName[name]
	return v, ok
}

// ByValue looks up an enumerator by its stringified value; when multiple
// enumerators share a value, the first one indexed wins.
func (e *EnumInfo) ByValue(value string) (Enumerator, bool) {
	v, ok := e.byValue[value]
	return v, ok
}

// index (re)builds byName/byValue from Enumerators. Called once after all
// enumerators for this entry are collected.
func (e *EnumInfo) index() {
	e.byName = make(map[string]Enumerator, len(e.Enumerators))
	e.byValue = make(map[string]Enumerator, len(e.Enumerators))
	for _, en := range e.Enumerators {
		if _, ok := e.byName[en.Name]; !ok {
			e.byName[en.Name] = en
		}
		if _, ok := e.byValue[en.Value]; !ok {
			e.byValue[en.Value] = en
		}
	}
}

// UnionInfo is a resolved union entry: identical to StructInfo except no
// field offsets are computed (always 0) and no function-field synthesis
// runs, per the //cldk:union contract.
type UnionInfo struct {
	ID        uint64
	Name      string
	File      string
	Line      int
	Access    string
	Size      int64
	Alignment int64
	Fields    []Field
}

func (u *UnionInfo) GetName() string     { return u.Name }
func (u *UnionInfo) SetName(name string) { u.Name = name }
