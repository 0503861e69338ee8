package typeregistry

import (
	"fmt"
	"go/token"
	"go/types"
	"strconv"
	"strings"
)

// Declaration is what the AST-based declaration walker (Collect, in collect.go)
// hands to the Resolver once it has already classified a package-level type
// declaration's kind by inspecting its AST (struct vs enum-by-adjacent-
// const-block vs //cldk:union-tagged struct) — the same division of labor
// as the original's visitor dispatching on DeclContext kind before calling
// into a generic resolve routine.
type Declaration struct {
	Name        string
	Named       *types.Named
	Consts      []*types.Const // populated only for enum candidates
	IsUnion     bool           // true when the doc comment carries //cldk:union
	Pos         token.Position
	PackagePath string
	Enclosing   []string // outermost-first chain of enclosing scope names
	// DeclaredTypes is the set of canonical ids already declared in the
	// current package, used to decide whether a function field's return
	// type needs forward-declaration scheduling.
	DeclaredTypes map[uint64]struct{}
}

// Resolver owns a Registry and the layout calculator used to compute size,
// alignment, and field offsets.
type Resolver struct {
	Registry *Registry
	Sizes     types.Sizes
	// RunnerModuleRoot is the vendored test-runner module's path prefix;
	// declarations whose file falls under it are dropped silently, mirroring
	// the original's gtest-path skip.
	RunnerModuleRoot string
	Planner          *Planner
}

// NewResolver returns a Resolver backed by a fresh Registry, using
// types.SizesFor("gc", runtime.GOARCH)-equivalent sizes supplied by the
// caller (so tests can pin a deterministic architecture).
func NewResolver(sizes types.Sizes) *Resolver {
	return &Resolver{Registry: NewRegistry(), Sizes: sizes}
}

func (r *Resolver) skip(file string) bool {
	return r.RunnerModuleRoot != "" && strings.HasPrefix(file, r.RunnerModuleRoot)
}

func accessChain(pkgPath string, enclosing []string) string {
	parts := make([]string, 0, 1+len(enclosing))
	if pkgPath != "" {
		parts = append(parts, pkgPath)
	}
	parts = append(parts, enclosing...)
	return strings.Join(parts, "::")
}

// Resolve dispatches on the declaration's already-classified kind: struct,
// enum, or union. It is the single entry point Collect calls for every
// type declaration it visits.
func (r *Resolver) Resolve(d Declaration) error {
	if r.skip(d.Pos.Filename) {
		return nil
	}
	if d.IsUnion {
		_, err := r.resolveUnion(d)
		return err
	}
	if len(d.Consts) > 0 {
		_, err := r.resolveEnum(d)
		return err
	}
	_, err := r.resolveStruct(d)
	return err
}

func (r *Resolver) resolveStruct(d Declaration) (*StructInfo, error) {
	st, ok := d.Named.Underlying().(*types.Struct)
	if !ok {
		return nil, fmt.Errorf("typeregistry: %s is not a struct", d.Name)
	}
	id := CanonicalID(d.Named)
	if existing, ok := r.Registry.Structs[id]; ok && existing.Name != "" {
		return existing, nil
	}

	info := &StructInfo{
		ID:        id,
		Name:      d.Name,
		File:      d.Pos.Filename,
		Line:      d.Pos.Line,
		Access:    accessChain(d.PackagePath, d.Enclosing),
		Size:      r.Sizes.Sizeof(st),
		Alignment: int64(r.Sizes.Alignof(st)),
	}

	offsets := offsetsOf(r.Sizes, st)
	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		field := Field{
			Name:   f.Name(),
			Type:   CanonicalString(f.Type()),
			Used:   types.TypeString(f.Type(), types.RelativeTo(d.Named.Obj().Pkg())),
			Size:   r.Sizes.Sizeof(f.Type()),
			Offset: offsets[i],
		}
		if sig, arr := funcSignatureOf(f.Type()); sig != nil {
			sig.Name = f.Name()
			field.Func = sig
			if retID, ok := returnStructID(f.Type()); ok {
				if _, declared := d.DeclaredTypes[retID]; !declared {
					info.ToDeclare = append(info.ToDeclare, retID)
					if r.Planner != nil {
						r.Planner.Schedule(retID)
					}
				}
			}
			_ = arr
		}
		info.Fields = append(info.Fields, field)
	}

	return r.Registry.addStruct(id, info), nil
}

func (r *Resolver) resolveUnion(d Declaration) (*UnionInfo, error) {
	st, ok := d.Named.Underlying().(*types.Struct)
	if !ok {
		return nil, fmt.Errorf("typeregistry: %s is not a union-tagged struct", d.Name)
	}
	id := CanonicalID(d.Named)
	if existing, ok := r.Registry.Unions[id]; ok && existing.Name != "" {
		return existing, nil
	}

	info := &UnionInfo{
		ID:        id,
		Name:      d.Name,
		File:      d.Pos.Filename,
		Line:      d.Pos.Line,
		Access:    accessChain(d.PackagePath, d.Enclosing),
		Size:      r.Sizes.Sizeof(st),
		Alignment: int64(r.Sizes.Alignof(st)),
	}

	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		info.Fields = append(info.Fields, Field{
			Name: f.Name(),
			Type: CanonicalString(f.Type()),
			Used: types.TypeString(f.Type(), types.RelativeTo(d.Named.Obj().Pkg())),
			Size: r.Sizes.Sizeof(f.Type()),
			// Offset intentionally left at 0: union fields alias storage.
		})
	}

	return r.Registry.addUnion(id, info), nil
}

func (r *Resolver) resolveEnum(d Declaration) (*EnumInfo, error) {
	underlying := d.Named.Underlying()
	basic, ok := underlying.(*types.Basic)
	if !ok {
		return nil, fmt.Errorf("typeregistry: %s has non-basic underlying type for an enum", d.Name)
	}
	id := CanonicalID(d.Named)
	if existing, ok := r.Registry.Enums[id]; ok && existing.Name != "" {
		return existing, nil
	}

	info := &EnumInfo{
		ID:        id,
		Name:      d.Name,
		File:      d.Pos.Filename,
		Line:      d.Pos.Line,
		Access:    accessChain(d.PackagePath, d.Enclosing),
		Size:      r.Sizes.Sizeof(basic),
		Alignment: int64(r.Sizes.Alignof(basic)),
	}

	for _, c := range d.Consts {
		val := c.Val().ExactString()
		info.Enumerators = append(info.Enumerators, Enumerator{
			Name:  c.Name(),
			Value: val,
		})
	}

	return r.Registry.addEnum(id, info), nil
}

// offsetsOf wraps Sizes.Offsetsof, which a few types.Sizes implementations
// can return empty/mismatched lengths for pathological structs; callers
// must not index past st.NumFields().
func offsetsOf(sizes types.Sizes, st *types.Struct) []int64 {
	n := st.NumFields()
	fields := make([]*types.Var, n)
	for i := 0; i < n; i++ {
		fields[i] = st.Field(i)
	}
	offs := sizes.Offsetsof(fields)
	if len(offs) < n {
		padded := make([]int64, n)
		copy(padded, offs)
		return padded
	}
	return offs
}

// funcSignatureOf reports whether t is func(...)..., []func(...)... or
// [N]func(...)..., synthesizing the FunctionSignature descriptor with
// auto-named positional parameters when it is. The second return value
// reports whether t was a slice/array of functions rather than a bare one.
func funcSignatureOf(t types.Type) (*FunctionSignature, bool) {
	isArray := false
	switch elem := t.(type) {
	case *types.Slice:
		t = elem.Elem()
		isArray = true
	case *types.Array:
		t = elem.Elem()
		isArray = true
	}
	sig, ok := t.(*types.Signature)
	if !ok {
		return nil, false
	}
	fs := &FunctionSignature{
		IsArray: isArray,
	}
	if sig.Results() != nil && sig.Results().Len() > 0 {
		ret := sig.Results().At(0).Type()
		fs.ReturnType = CanonicalString(ret)
		fs.ReturnUsed = types.TypeString(ret, nil)
	} else {
		fs.ReturnType = "void"
		fs.ReturnUsed = "void"
	}
	params := sig.Params()
	for i := 0; i < params.Len(); i++ {
		p := params.At(i)
		fs.Params = append(fs.Params, Param{
			Name: "param" + strconv.Itoa(i+1),
			Type: CanonicalString(p.Type()),
		})
	}
	return fs, isArray
}

// returnStructID reports the canonical id of a function field's return
// type when that return type is a pointer to (or bare) named struct, so the
// caller can decide whether it needs forward-declaration scheduling.
func returnStructID(t types.Type) (uint64, bool) {
	sig, ok := unwrapFuncType(t)
	if !ok || sig.Results() == nil || sig.Results().Len() == 0 {
		return 0, false
	}
	ret := sig.Results().At(0).Type()
	if ptr, ok := ret.(*types.Pointer); ok {
		ret = ptr.Elem()
	}
	named, ok := ret.(*types.Named)
	if !ok {
		return 0, false
	}
	if _, ok := named.Underlying().(*types.Struct); !ok {
		return 0, false
	}
	return CanonicalID(named), true
}

func unwrapFuncType(t types.Type) (*types.Signature, bool) {
	switch elem := t.(type) {
	case *types.Slice:
		t = elem.Elem()
	case *types.Array:
		t = elem.Elem()
	}
	sig, ok := t.(*types.Signature)
	return sig, ok
}
