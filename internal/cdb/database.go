// Package cdb is a read-only projection over a loaded package/build-target
// universe: for any import path or link-output path, its effective compile
// or link command plus metadata. It never mutates what it was built from.
package cdb

import (
	"errors"
	"fmt"

	"github.com/codellm-devkit/harnessgen-go/internal/buildplan"
)

// ErrUnknownUnit is returned by CompileUnit/LinkUnit when the requested key
// was never registered.
var ErrUnknownUnit = errors.New("cdb: unknown unit")

// CompileUnit is the client compilation-unit info for one translation unit
// (one Go package, in this domain).
type CompileUnit struct {
	ImportPath string
	Command    buildplan.Command
}

// LinkUnitInfo is the client link-unit info for one link-output path: the
// commands that produce it, plus its declared inputs.
type LinkUnitInfo struct {
	Output   string
	Commands []buildplan.Command
	Inputs   []string
	Kind     buildplan.Kind
}

// Database is immutable after construction: Add* calls happen only while
// the caller (typically a loader adapter) is populating it; once handed to
// the type resolver or the plan emitter, it is read-only.
type Database struct {
	byImportPath map[string]CompileUnit
	byOutput     map[string]LinkUnitInfo
}

// New returns an empty Database ready to be populated.
func New() *Database {
	return &Database{
		byImportPath: make(map[string]CompileUnit),
		byOutput:     make(map[string]LinkUnitInfo),
	}
}

// AddCompileUnit registers the compile command for a package import path.
func (d *Database) AddCompileUnit(importPath string, cmd buildplan.Command) {
	d.byImportPath[importPath] = CompileUnit{ImportPath: importPath, Command: cmd}
}

// AddLinkUnit registers the link commands and inputs for an output path.
func (d *Database) AddLinkUnit(info LinkUnitInfo) {
	d.byOutput[info.Output] = info
}

// CompileUnit looks up the compile command for importPath.
func (d *Database) CompileUnit(importPath string) (CompileUnit, error) {
	cu, ok := d.byImportPath[importPath]
	if !ok {
		return CompileUnit{}, fmt.Errorf("%w: compile unit %q", ErrUnknownUnit, importPath)
	}
	return cu, nil
}

// LinkUnit looks up the link-unit info for a given output path.
func (d *Database) LinkUnit(output string) (LinkUnitInfo, error) {
	lu, ok := d.byOutput[output]
	if !ok {
		return LinkUnitInfo{}, fmt.Errorf("%w: link unit %q", ErrUnknownUnit, output)
	}
	return lu, nil
}

// ImportPaths returns every registered compile-unit import path, order
// unspecified; callers needing determinism must sort.
func (d *Database) ImportPaths() []string {
	out := make([]string, 0, len(d.byImportPath))
	for k := range d.byImportPath {
		out = append(out, k)
	}
	return out
}

// Outputs returns every registered link-unit output path, order
// unspecified; callers needing determinism must sort.
func (d *Database) Outputs() []string {
	out := make([]string, 0, len(d.byOutput))
	for k := range d.byOutput {
		out = append(out, k)
	}
	return out
}

// Validate checks that every registered link unit's declared Kind agrees
// with the category of its own commands — an object-kind unit must carry
// only compile commands, an archive-kind unit an archive command, and so
// on. A mismatch is a programmer error in whatever populated the database,
// surfaced eagerly rather than discovered mid-traversal.
func (d *Database) Validate() error {
	for output, lu := range d.byOutput {
		for _, cmd := range lu.Commands {
			if !kindAgrees(lu.Kind, cmd.Category) {
				return fmt.Errorf("cdb: link unit %q declares kind %s but carries a %s command", output, lu.Kind, cmd.Category)
			}
		}
	}
	return nil
}

func kindAgrees(k buildplan.Kind, c buildplan.Category) bool {
	switch k {
	case buildplan.KindObject:
		return c == buildplan.CategoryCompile
	case buildplan.KindStaticLibrary:
		return c == buildplan.CategoryArchive
	case buildplan.KindSharedLibrary:
		return c == buildplan.CategorySharedLink
	case buildplan.KindExecutable:
		return c == buildplan.CategoryExecutableLink
	default:
		return false
	}
}
