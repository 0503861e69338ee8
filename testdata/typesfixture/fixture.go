// Package typesfixture exercises type-resolution corner cases: a struct
// field whose type is a function (not just a function parameter), a
// union-tagged struct, and an enum backed by a named basic type.
package typesfixture

// Status is an enum backed by an int, declared via an adjacent const block.
type Status int

const (
	StatusPending Status = iota
	StatusRunning
	StatusDone
)

// Node points back into the tree via a callback field rather than a direct
// pointer, forcing forward-declaration scheduling for Tree.
type Node struct {
	Value    int
	OnVisit  func(*Tree) *Tree
	Children []func(int) int
}

// Tree is declared after Node so Node.OnVisit's return type is not yet
// present in the package's declared-type set when Node is resolved.
type Tree struct {
	Root   *Node
	Status Status
}

// Payload is a union-tagged struct: its fields alias the same storage and
// never carry field offsets.
//
//cldk:union
type Payload struct {
	AsInt    int64
	AsFloat  float64
	AsString string
}
