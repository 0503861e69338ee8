package typeregistry

import (
	"go/ast"
	"go/token"
	"go/types"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/codellm-devkit/harnessgen-go/internal/loader"
)

// unionTag is the sentinel doc-comment marker that makes a struct type
// declaration resolve as a union instead of a record, since Go has no
// native union keyword.
const unionTag = "//cldk:union"

// Collect walks every package in result and resolves each package-level
// type declaration into r's Registry: struct types as records, //cldk:union
// -tagged struct types as unions, and named basic types with an adjacent
// const (...) block sharing that type as enumerations.
func Collect(r *Resolver, result *loader.LoadResult) error {
	for _, pkg := range result.Packages {
		if pkg == nil || pkg.Types == nil {
			continue
		}
		if err := collectPackage(r, pkg, result.Fset); err != nil {
			return err
		}
	}
	return nil
}

func collectPackage(r *Resolver, pkg *packages.Package, fset *token.FileSet) error {
	// declared grows in source-declaration order as each type spec is
	// resolved, so a function field whose return type was declared earlier
	// in the same package never gets scheduled for forward declaration,
	// while one declared later (or in another file processed afterwards)
	// does — mirroring a real forward-declaration need instead of always
	// seeing the whole package's final type set.
	declared := make(map[uint64]struct{})
	enumConsts := constsByNamedType(pkg)

	for _, file := range pkg.Syntax {
		var enclosing []string
		var funcEnd token.Pos
		ast.Inspect(file, func(n ast.Node) bool {
			switch node := n.(type) {
			case *ast.FuncDecl:
				enclosing = []string{node.Name.Name}
				funcEnd = node.End()
			case *ast.GenDecl:
				if node.Pos() > funcEnd {
					enclosing = nil
				}
				if node.Tok != token.TYPE {
					return true
				}
				for _, spec := range node.Specs {
					ts, ok := spec.(*ast.TypeSpec)
					if !ok {
						continue
					}
					if err := collectTypeSpec(r, pkg, fset, node, ts, declared, enumConsts, enclosing); err != nil {
						// Resolution errors for one declaration must not abort the
						// whole package walk; the Resolver's own dispatch already
						// limits itself to declarations it recognizes.
						continue
					}
				}
			}
			return true
		})
	}
	return nil
}

func collectTypeSpec(r *Resolver, pkg *packages.Package, fset *token.FileSet, gd *ast.GenDecl, ts *ast.TypeSpec, declared map[uint64]struct{}, enumConsts map[string][]*types.Const, enclosing []string) error {
	obj := pkg.TypesInfo.Defs[ts.Name]
	tn, ok := obj.(*types.TypeName)
	if !ok || tn == nil {
		return nil
	}
	named, ok := tn.Type().(*types.Named)
	if !ok {
		return nil
	}

	pos := fset.Position(ts.Pos())
	doc := docText(gd, ts)
	isUnion := strings.Contains(doc, unionTag)

	decl := Declaration{
		Name:          ts.Name.Name,
		Named:         named,
		Pos:           pos,
		PackagePath:   pkg.PkgPath,
		Enclosing:     append([]string(nil), enclosing...),
		DeclaredTypes: declared,
	}

	switch named.Underlying().(type) {
	case *types.Struct:
		decl.IsUnion = isUnion
	case *types.Basic:
		if consts := enumConsts[ts.Name.Name]; len(consts) > 0 {
			decl.Consts = consts
		} else {
			return nil
		}
	default:
		return nil
	}

	if err := r.Resolve(decl); err != nil {
		return err
	}
	declared[CanonicalID(named)] = struct{}{}
	return nil
}

// docText joins a GenDecl's own doc comment with a lone TypeSpec's doc
// comment, since "//cldk:union" may be written directly above either
// depending on whether the type is declared inside a parenthesized
// type (...) block or standalone. It joins the raw comment lines rather
// than CommentGroup.Text(), which drops directive-style lines such as
// "//cldk:union".
func docText(gd *ast.GenDecl, ts *ast.TypeSpec) string {
	var b strings.Builder
	for _, cg := range []*ast.CommentGroup{gd.Doc, ts.Doc, ts.Comment} {
		if cg == nil {
			continue
		}
		for _, c := range cg.List {
			b.WriteString(c.Text)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// constsByNamedType indexes package-level constants by the name of their
// declared named type, so a const (...) block sharing a named basic type
// can be recognized as that type's enumerator set.
func constsByNamedType(pkg *packages.Package) map[string][]*types.Const {
	out := make(map[string][]*types.Const)
	if pkg.Types == nil {
		return out
	}
	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		obj := scope.Lookup(name)
		c, ok := obj.(*types.Const)
		if !ok {
			continue
		}
		named, ok := c.Type().(*types.Named)
		if !ok {
			continue
		}
		typeName := named.Obj().Name()
		out[typeName] = append(out[typeName], c)
	}
	return out
}
