package loader

import (
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/packages"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

// Program is a simple file listing rooted at Root.
type Program struct {
	Root  string
	Files []string // absolute paths to .go files
}

// Options controlla il comportamento del loader.
type Options struct {
	IncludeTest bool
	ExcludeDirs []string // basenames da escludere
	OnlyPkg     []string // filtra per sottostringa nel path relativo
	NeedSSA     bool      // se true, LoadWithSSA costruisce anche il programma SSA
}

// LoadResult è il risultato di un caricamento go/packages, opzionalmente
// arricchito con un programma SSA pronto per la costruzione del call graph.
type LoadResult struct {
	Root        string
	Fset        *token.FileSet
	Packages    []*packages.Package
	SSAProgram  *ssa.Program
	SSAPackages []*ssa.Package
}

// Load walks the root directory and collects .go files, excluding vendor/.git/testdata.
func Load(root string) (*Program, error) {
	return LoadWithOptions(root, Options{})
}

// LoadWithOptions cammina la directory root e raccoglie i file .go secondo le opzioni.
func LoadWithOptions(root string, opts Options) (*Program, error) {
	ex := map[string]struct{}{
		"vendor":   {},
		".git":     {},
		"testdata": {},
	}
	for _, d := range opts.ExcludeDirs {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		ex[d] = struct{}{}
	}

	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			base := filepath.Base(path)
			if _, skip := ex[base]; skip || strings.HasPrefix(base, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, ".go") {
			if !opts.IncludeTest && strings.HasSuffix(path, "_test.go") {
				return nil
			}
			// only-pkg filtro su path relativo
			if len(opts.OnlyPkg) > 0 {
				rel := path
				if rp, err := filepath.Rel(root, path); err == nil {
					rel = rp
				}
				keep := false
				rp := filepath.ToSlash(rel)
				for _, s := range opts.OnlyPkg {
					s = strings.TrimSpace(s)
					if s == "" {
						continue
					}
					if strings.Contains(rp, s) {
						keep = true
						break
					}
				}
				if !keep {
					return nil
				}
			}
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Program{Root: root, Files: files}, nil
}

// packagesPattern traduce OnlyPkg in un pattern go/packages; senza filtro
// carica l'intero albero sotto root.
func packagesPattern(opts Options) []string {
	if len(opts.OnlyPkg) == 0 {
		return []string{"./..."}
	}
	patterns := make([]string, 0, len(opts.OnlyPkg))
	for _, p := range opts.OnlyPkg {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		patterns = append(patterns, p)
	}
	if len(patterns) == 0 {
		return []string{"./..."}
	}
	return patterns
}

// LoadWithSSA carica i pacchetti Go radicati in root tramite go/packages e,
// se opts.NeedSSA è true, costruisce anche il programma SSA corrispondente
// (necessario per internal/callgraph).
func LoadWithSSA(root string, opts Options) (*LoadResult, error) {
	fset := token.NewFileSet()
	mode := packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles |
		packages.NeedImports | packages.NeedDeps | packages.NeedTypes |
		packages.NeedSyntax | packages.NeedTypesInfo
	if opts.NeedSSA {
		mode |= packages.NeedDeps
	}
	cfg := &packages.Config{
		Mode:  mode,
		Dir:   root,
		Fset:  fset,
		Tests: opts.IncludeTest,
	}

	pkgs, err := packages.Load(cfg, packagesPattern(opts)...)
	if err != nil {
		return nil, fmt.Errorf("load packages from %s: %w", root, err)
	}
	if packages.PrintErrors(pkgs) > 0 {
		return nil, fmt.Errorf("errors encountered while loading packages from %s", root)
	}

	pkgs = filterOnlyPkg(pkgs, opts.OnlyPkg)

	result := &LoadResult{
		Root:     root,
		Fset:     fset,
		Packages: pkgs,
	}

	if opts.NeedSSA {
		prog, ssaPkgs := ssautil.AllPackages(pkgs, ssa.InstantiateGenerics)
		prog.Build()
		result.SSAProgram = prog
		result.SSAPackages = ssaPkgs
	}

	return result, nil
}

// filterOnlyPkg applica un secondo filtro per sottostringa sui path dei
// pacchetti già caricati, a copertura dei casi in cui il pattern passato a
// go/packages sia stato più ampio del necessario (es. "./...").
func filterOnlyPkg(pkgs []*packages.Package, only []string) []*packages.Package {
	if len(only) == 0 {
		return pkgs
	}
	filters := make([]string, 0, len(only))
	for _, s := range only {
		s = strings.TrimSpace(s)
		if s != "" {
			filters = append(filters, s)
		}
	}
	if len(filters) == 0 {
		return pkgs
	}
	var out []*packages.Package
	for _, p := range pkgs {
		for _, f := range filters {
			if strings.Contains(p.PkgPath, f) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}
