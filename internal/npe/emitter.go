package npe

import (
	"fmt"
	"sort"

	"github.com/codellm-devkit/harnessgen-go/internal/buildplan"
	"github.com/codellm-devkit/harnessgen-go/internal/cdb"
	"github.com/codellm-devkit/harnessgen-go/internal/pathmap"
)

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ProjectContext carries the filesystem roots the emitter needs: the
// project's module root, the build root under which recompiled artifacts
// and the generated plan live, the test-output directory, and the vendored
// test-runner module's own root (its sources are compiled with its own
// flags, not the recompiled-unit flags).
type ProjectContext struct {
	ModuleRoot       string
	BuildRoot        string
	TestOutputDir    string
	RunnerModuleRoot string
	RunnerSources    []string // support sources compiled into GTEST_ALL (e.g. <runner>/src/gtest-all.cc)
	RunnerMainSource string   // entry-point source compiled into GTEST_MAIN (e.g. <runner>/src/gtest_main.cc)
}

// Emitter is the native plan emitter. Its state — the memoization map,
// accumulated artifact list, rule stream, and sharedOutput tracker — lives
// only for one plan emission; it is not safe for concurrent use.
type Emitter struct {
	ctx      ProjectContext
	db       *cdb.Database
	mapper   *pathmap.Mapper
	toolchain Toolchain
	stubs    map[string]struct{}

	Plan *buildplan.Plan

	// visited memoizes AddLinkTargetRecursively by output path.
	visited map[string]buildplan.BuildResult
	// sharedOutput tracks the deepest-last-processed shared artifact; this
	// ordering is load-bearing, not incidental, per the design notes.
	sharedOutput string
	artifacts    []string
	// rootOutput is the traversal's starting point, set once by EmitRoot,
	// needed to detect the root-is-static-archive special case.
	rootOutput string
}

// EmitRoot is the public entry point into the recursive traversal: it
// records output as the traversal's root (so the static-archive-root
// special case can be detected) and delegates to AddLinkTargetRecursively.
func (e *Emitter) EmitRoot(output string) (buildplan.BuildResult, error) {
	e.rootOutput = output
	return e.AddLinkTargetRecursively(output)
}

// SharedOutput returns the deepest-last-processed shared artifact recorded
// during the traversal, or "" if none was produced.
func (e *Emitter) SharedOutput() string {
	return e.sharedOutput
}

// NewEmitter constructs an Emitter for one plan emission, given a project
// context, a populated CDB, a path mapper, the resolved toolchain, and the
// stub set (package import paths or absolute file paths understood to be
// stub translation units).
func NewEmitter(ctx ProjectContext, db *cdb.Database, mapper *pathmap.Mapper, toolchain Toolchain, stubs map[string]struct{}) *Emitter {
	if stubs == nil {
		stubs = map[string]struct{}{}
	}
	return &Emitter{
		ctx:       ctx,
		db:        db,
		mapper:    mapper,
		toolchain: toolchain,
		stubs:     stubs,
		Plan:      buildplan.NewPlan(),
		visited:   make(map[string]buildplan.BuildResult),
	}
}

// AddStubs declares the STUB_OBJECT_FILES shell variable, growing it by one
// recompiled object path per call; later link commands reference it via
// $(STUB_OBJECT_FILES).
func (e *Emitter) AddStubs(objectPath string) {
	e.Plan.AppendVar(StubObjectsVar, e.mapper.Relativize(objectPath))
}

// isStub reports whether unit (an import path or absolute file path) is a
// member of the stub set.
func (e *Emitter) isStub(unit string) bool {
	_, ok := e.stubs[unit]
	return ok
}

// Init performs the one-time setup of the plan: build/dependency directory
// rules, the FORCE sentinel, and the test-runner compile rules bound to
// GTEST_ALL/GTEST_MAIN, each emitted only when its runner sources are set.
func (e *Emitter) Init() error {
	e.Plan.AddRule(buildplan.Rule{
		Targets: []string{e.ctx.BuildRoot},
		Actions: []string{fmt.Sprintf("mkdir -p %s", e.mapper.Relativize(e.ctx.BuildRoot))},
		Phony:   false,
	})
	depDir := e.ctx.BuildRoot + "/dependencies"
	e.Plan.AddRule(buildplan.Rule{
		Targets: []string{depDir},
		Actions: []string{fmt.Sprintf("mkdir -p %s", e.mapper.Relativize(depDir))},
	})

	e.Plan.AddRule(buildplan.Rule{
		Targets: []string{ForceTarget},
		Phony:   true,
	})

	if err := e.addRunnerRule(GTestAllVar, e.ctx.RunnerSources, e.ctx.BuildRoot+"/gtest-all.cc.o"); err != nil {
		return err
	}
	if e.ctx.RunnerMainSource != "" {
		if err := e.addRunnerRule(GTestMainVar, []string{e.ctx.RunnerMainSource}, e.ctx.BuildRoot+"/gtest_main.cc.o"); err != nil {
			return err
		}
	}

	return nil
}

// addRunnerRule compiles the vendored runner's support sources (or its
// entry point) into an object bound to the given shell variable, using
// -std=c++11 -fPIC and the runner module's own include directories — never
// the recompiled-unit flags.
func (e *Emitter) addRunnerRule(varName string, sources []string, output string) error {
	if len(sources) == 0 {
		return nil
	}
	e.Plan.SetVar(varName, e.mapper.Relativize(output))
	compiler := e.toolchain.CxxCompilerPath
	cmd := buildplan.Command{
		Argv:     append([]string{compiler, "-std=c++11", "-fPIC", "-c", "-o", output}, sources...),
		Compiler: compiler,
		Output:   output,
		Category: buildplan.CategoryCompile,
		Env:      map[string]string{EnvCInclude: e.ctx.RunnerModuleRoot},
	}
	e.Plan.AddRule(buildplan.Rule{
		Targets:   []string{e.mapper.Relativize(output)},
		Prereqs:   relativizeAll(e.mapper, sources),
		OrderOnly: []string{e.mapper.Relativize(e.ctx.BuildRoot)},
		Actions:   []string{renderAction(e.mapper, cmd)},
	})
	e.artifacts = append(e.artifacts, output)
	return nil
}

func relativizeAll(m *pathmap.Mapper, paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = m.Relativize(p)
	}
	return out
}

// renderAction renders one shell action line for cmd, changing directory
// first when cmd.Dir is set, and exporting any declared Env entries.
func renderAction(m *pathmap.Mapper, cmd buildplan.Command) string {
	argv := m.RelativizeArgv(cmd.Argv)
	line := ""
	for _, k := range sortedKeys(cmd.Env) {
		line += fmt.Sprintf("%s=%s ", k, cmd.Env[k])
	}
	for i, a := range argv {
		if i > 0 {
			line += " "
		}
		line += a
	}
	if cmd.Dir != "" {
		return fmt.Sprintf("cd %s && %s", m.Relativize(cmd.Dir), line)
	}
	return line
}
