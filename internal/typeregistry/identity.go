package typeregistry

import (
	"go/types"

	"github.com/cespare/xxhash/v2"
)

// fullQualifier always prints full import paths, never shortening to the
// package's local name — the "no sugar/alias shortening" canonical form
// the identity hash is computed over.
func fullQualifier(p *types.Package) string {
	if p == nil {
		return ""
	}
	return p.Path()
}

// CanonicalString returns the canonical printed form of t: its underlying
// type when t is a *types.Named (so that a named type and its anonymous
// underlying literal print identically), qualified with full import paths.
func CanonicalString(t types.Type) string {
	canon := t
	if named, ok := t.(*types.Named); ok {
		canon = named.Underlying()
	}
	return types.TypeString(canon, fullQualifier)
}

// CanonicalID derives the 64-bit canonical-type identity: xxhash.Sum64String
// over CanonicalString(t), the stable hash the design calls for. Two
// spellings of the same canonical type (a named type and its underlying
// anonymous literal) hash identically.
func CanonicalID(t types.Type) uint64 {
	return xxhash.Sum64String(CanonicalString(t))
}
