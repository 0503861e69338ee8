package npe

import (
	"fmt"
	"path"
	"strings"

	"github.com/codellm-devkit/harnessgen-go/internal/buildplan"
	"github.com/codellm-devkit/harnessgen-go/internal/cdb"
)

// AddObjectFile compiles source into target and tags the result: a source
// in the stub set yields BuildResult.Type AllStubs, any other NoStubs.
// Stub membership affects only that tag; a stub unit is compiled from its
// own registered compile unit into the same recompiled path as any other
// unit, with no replacement source and no stub-specific output path.
func (e *Emitter) AddObjectFile(source string) (buildplan.BuildResult, error) {
	if target, ok := e.mapper.RecompiledOf(source); ok {
		if res, done := e.visited[target]; done {
			return res, nil
		}
	}

	target := e.mapper.RegisterUnit(source)
	isStub := e.isStub(source)

	// The wrapper-file case: a non-C++ translation unit (an assembly .s
	// source) needs a synthesized wrapper before it can link into the C++
	// test harness. The wrapper itself is content generation, out of scope;
	// the emitter only records the substitution by compiling the wrapped
	// source's own registered compile unit, same as any other unit.
	compileSource := source
	if isWrapperCandidate(source) {
		compileSource = wrapperSourceFor(source)
	}

	cu, err := e.db.CompileUnit(compileSource)
	if err != nil {
		return buildplan.BuildResult{}, err
	}
	if err := e.AddCompileTarget(compileSource, target, cu); err != nil {
		return buildplan.BuildResult{}, err
	}

	resultType := buildplan.ResultNoStubs
	if isStub {
		resultType = buildplan.ResultAllStubs
	}
	res := buildplan.BuildResult{Output: target, Type: resultType}
	e.visited[target] = res
	return res, nil
}

// isWrapperCandidate reports whether source is a non-C++ unit that needs a
// wrapper before linking (a plain .s/.S assembly source).
func isWrapperCandidate(source string) bool {
	return hasSuffix(source, ".s") || hasSuffix(source, ".S")
}

func wrapperSourceFor(source string) string {
	return source + ".wrapper.cc"
}

// AddLinkTargetRecursively is the core recursive, memoized DAG traversal
// over the link unit rooted at output: recurse into every input first
// (post-order), union their BuildResult.Type with this unit's own
// contribution, transform this unit's own commands, and emit the
// corresponding rule. sharedOutput is updated, unconditionally, by every
// shared-library-kind unit processed — because children are visited before
// this unit in post-order, the assignment that survives is whichever
// shared unit is closest to the traversal's starting point among those
// visited, i.e. the deepest-processed-last one. This ordering is
// load-bearing: a worklist-based reimplementation must preserve it.
func (e *Emitter) AddLinkTargetRecursively(output string) (buildplan.BuildResult, error) {
	if res, ok := e.visited[output]; ok {
		return res, nil
	}
	// Cycle guard: the link DAG is assumed acyclic; a revisit mid-traversal
	// would otherwise recurse forever.
	e.visited[output] = buildplan.BuildResult{Output: output, Type: buildplan.ResultNone}

	lu, err := e.db.LinkUnit(output)
	if err != nil {
		return buildplan.BuildResult{}, err
	}

	childResults := make([]buildplan.BuildResult, 0, len(lu.Inputs))
	for _, input := range lu.Inputs {
		childRes, err := e.resolveInput(input)
		if err != nil {
			return buildplan.BuildResult{}, err
		}
		childResults = append(childResults, childRes)
	}

	selfType := buildplan.ResultNone
	if lu.Kind == buildplan.KindObject {
		if e.isStub(output) {
			selfType = buildplan.ResultAllStubs
		} else {
			selfType = buildplan.ResultNoStubs
		}
	}
	unionType := buildplan.UnionResults(append(childResults, buildplan.BuildResult{Type: selfType})...)

	recompiledOutput := e.recompiledLinkOutput(output, lu.Kind, unionType)

	// transform-to-lib: an executable consumed as another unit's input
	// (i.e. not this traversal's own root) must be wrapped as a shared
	// library rather than left as a standalone relocatable binary.
	isLibraryOutput := lu.Kind == buildplan.KindSharedLibrary ||
		(lu.Kind == buildplan.KindExecutable && output != e.rootOutput)

	if err := e.emitLinkRule(recompiledOutput, lu, childResults, isLibraryOutput); err != nil {
		return buildplan.BuildResult{}, err
	}

	if lu.Kind == buildplan.KindSharedLibrary || (lu.Kind == buildplan.KindExecutable && isLibraryOutput) {
		e.sharedOutput = recompiledOutput
	}

	// Root-is-static-archive special case: when the traversal's starting
	// point is itself a static archive, a synthetic shared library wrapping
	// it is additionally emitted so the test target always has something
	// loadable at LD_PRELOAD/run time.
	if lu.Kind == buildplan.KindStaticLibrary && e.rootOutput == output {
		if err := e.emitSyntheticSharedLibrary(recompiledOutput); err != nil {
			return buildplan.BuildResult{}, err
		}
	}

	res := buildplan.BuildResult{Output: recompiledOutput, Type: unionType}
	e.visited[output] = res
	return res, nil
}

// resolveInput dispatches an input path to either AddObjectFile (a plain
// source/object leaf) or a further AddLinkTargetRecursively call (another
// link unit's output), based on whether the CDB has a link-unit entry for
// it.
func (e *Emitter) resolveInput(input string) (buildplan.BuildResult, error) {
	if _, err := e.db.LinkUnit(input); err == nil {
		return e.AddLinkTargetRecursively(input)
	}
	return e.AddObjectFile(input)
}

// stubSuffix derives the stub-provenance suffix applied to a recompiled
// link-unit output path: no suffix for the common NONE/NO_STUBS case,
// "_stub" when every reachable object is a stub, "_mixed" when the unioned
// type straddles both.
func stubSuffix(t buildplan.ResultType) string {
	switch t {
	case buildplan.ResultAllStubs:
		return "_stub"
	case buildplan.ResultMixed:
		return "_mixed"
	default:
		return ""
	}
}

// recompiledLinkOutput derives the recompiled output path for a link unit:
// executables being left as executables keep an object extension
// (relocatable output); static and shared libraries are renamed through
// the recompiled_ infix and wrapped as lib<name>.{a,so}. The
// stub-provenance suffix from step 4 is applied in every case.
func (e *Emitter) recompiledLinkOutput(output string, kind buildplan.Kind, unionType buildplan.ResultType) string {
	base := path.Base(output)
	dir := e.ctx.BuildRoot
	suffix := stubSuffix(unionType)
	switch kind {
	case buildplan.KindStaticLibrary:
		name := strings.TrimPrefix(stripExtBase(base), "lib")
		return path.Join(dir, "librecompiled_"+name+suffix+".a")
	case buildplan.KindSharedLibrary:
		name := strings.TrimPrefix(stripExtBase(base), "lib")
		return path.Join(dir, "librecompiled_"+name+suffix+".so")
	case buildplan.KindExecutable:
		return path.Join(dir, stripExtBase(base)+suffix+".o")
	default:
		return path.Join(dir, base+suffix)
	}
}

func stripExtBase(base string) string {
	if i := lastIndexByte(base, '.'); i >= 0 {
		return base[:i]
	}
	return base
}

// emitLinkRule transforms lu's own commands and emits the corresponding
// rule: every generated rule's first action is a freshness-guaranteeing
// removal of its own output. An executable's relocatable-link rule gets an
// extra objcopy action so the harness can supply its own main. Before each
// command is transformed, every argument naming one of lu's inputs is
// replaced by that input's recompiled output.
func (e *Emitter) emitLinkRule(recompiledOutput string, lu cdb.LinkUnitInfo, children []buildplan.BuildResult, isLibraryOutput bool) error {
	rel := e.mapper.Relativize
	prereqs := make([]string, 0, len(children))
	recompiledOf := make(map[string]string, len(children))
	for i, c := range children {
		prereqs = append(prereqs, rel(c.Output))
		recompiledOf[lu.Inputs[i]] = c.Output
	}

	actions := []string{fmt.Sprintf("rm -f %s", rel(recompiledOutput))}
	for _, cmd := range lu.Commands {
		argv := make([]string, len(cmd.Argv))
		for i, a := range cmd.Argv {
			if r, ok := recompiledOf[a]; ok && i > 0 {
				a = r
			}
			argv[i] = a
		}
		cmd.Argv = argv
		transformed, err := e.transformLinkCommand(cmd, recompiledOutput, lu, isLibraryOutput)
		if err != nil {
			return err
		}
		actions = append(actions, renderAction(e.mapper, transformed))
	}
	if lu.Kind == buildplan.KindExecutable && !isLibraryOutput {
		actions = append(actions, fmt.Sprintf("objcopy --redefine-sym main=main__ %s", rel(recompiledOutput)))
	}

	e.Plan.AddRule(buildplan.Rule{
		Targets:   []string{rel(recompiledOutput)},
		Prereqs:   append(prereqs, ForceTarget),
		OrderOnly: []string{rel(e.ctx.BuildRoot)},
		Actions:   actions,
	})
	e.artifacts = append(e.artifacts, recompiledOutput)
	return nil
}

// splitLinkArgv separates a link command's positional input files from its
// flag arguments, discarding the old "-o <output>" pair entirely (the
// caller reconstructs it explicitly). Positional-vs-flag classification is
// the simple, CDB-wide convention: anything not starting with '-' is an
// input.
func splitLinkArgv(rest []string) (inputs, flags []string) {
	for i := 0; i < len(rest); i++ {
		a := rest[i]
		if a == "-o" {
			i++ // skip the old output value
			continue
		}
		if strings.HasPrefix(a, "-") {
			flags = append(flags, a)
			continue
		}
		inputs = append(inputs, a)
	}
	return inputs, flags
}

// stripScriptAndSoname removes --version-script=... and -soname entries
// from a single argument if it is a -Wl,... compound flag, leaving every
// other argument untouched. Returns keep=false when a -Wl,... argument's
// filtered vector collapses to empty, signaling the caller to omit it.
func stripScriptAndSoname(arg string) (string, bool) {
	if !strings.HasPrefix(arg, "-Wl,") {
		return arg, true
	}
	out, keep := cdb.RemoveSonameFlag(arg)
	if !keep {
		return "", false
	}
	return cdb.RemoveVersionScriptFlag(out)
}

// transformLinkCommand applies the full per-command transform sequence
// from the recursive link-target synthesis algorithm: archive commands
// only get their compiler/output substituted (ar has no flag vocabulary in
// common with a linker); every other command has the unsupported-flag
// deny-list applied, is retargeted either at the system linker `ld`
// directly (relocatable executables) or the bundled C++ linker driver
// (everything else, with -Wl,... exploded into bare arguments only for the
// ld case), has script/soname entries stripped from its -Wl,... arguments,
// gains a recompiled -L for every library-dir argument that resolves under
// the project build tree, and — for library and transform-to-lib outputs —
// is wrapped in --allow-multiple-definition/--whole-archive/
// --no-whole-archive with coverage/sanitizer link flags and $(LDFLAGS)
// prepended, $(STUB_OBJECT_FILES) appended for shared-link commands.
func (e *Emitter) transformLinkCommand(cmd buildplan.Command, output string, lu cdb.LinkUnitInfo, isLibraryOutput bool) (buildplan.Command, error) {
	if cmd.Category == buildplan.CategoryArchive {
		return e.transformArchiveCommand(cmd, output)
	}

	cmd = cmd.EraseIf(isUnsupportedLinkFlag)

	relocatable := cmd.Category == buildplan.CategoryExecutableLink && !isLibraryOutput
	compiler := e.toolchain.LinkerPath
	if relocatable {
		compiler = systemLinkerPath
	}

	inputs, flags := splitLinkArgv(cmd.Argv[1:])

	// Strip before exploding: once exploded, soname/script entries are no
	// longer -Wl,... arguments and stripScriptAndSoname would keep them.
	kept := make([]string, 0, len(flags))
	for _, a := range flags {
		if out, keep := stripScriptAndSoname(a); keep {
			kept = append(kept, out)
		}
	}
	flags = kept

	if relocatable {
		flags = explodeAllWlFlags(flags)
		inputs = explodeAllWlFlags(inputs)
	}
	flags = append(flags, e.recompiledLibraryDirFlags(flags)...)

	head := make([]string, 0, 8)
	tail := make([]string, 0, 4)
	if cmd.Category == buildplan.CategoryExecutableLink {
		if isLibraryOutput {
			head = append(head, "-shared")
		} else if relocatable {
			head = append(head, "-r")
		}
	}
	if !relocatable {
		head = append(head, "$("+EnvLDFlags+")")
	}
	if isLibraryOutput {
		head = append(head, "-O0", "-Wl,--allow-multiple-definition")
		head = append(head, coverageLinkFlags...)
		head = append(head, sanitizerLinkFlags...)
		head = append(head, "-Wl,--whole-archive")
		if cmd.Category == buildplan.CategorySharedLink {
			tail = append(tail, "$("+StubObjectsVar+")")
		}
		tail = append(tail, "-Wl,--no-whole-archive")
	}

	argv := []string{compiler}
	argv = append(argv, head...)
	argv = append(argv, flags...)
	argv = append(argv, "-o", output)
	argv = append(argv, inputs...)
	argv = append(argv, tail...)

	cmd.Argv = argv
	cmd.Compiler = compiler
	cmd.Output = output
	return cmd, nil
}

// transformArchiveCommand rewrites an `ar` command's archiver path and
// output, keeping the input list it is given (Argv[3:]).
func (e *Emitter) transformArchiveCommand(cmd buildplan.Command, output string) (buildplan.Command, error) {
	archiver := e.toolchain.ArchiverPath
	var inputs []string
	if len(cmd.Argv) > 3 {
		inputs = append([]string(nil), cmd.Argv[3:]...)
	}
	cmd.Argv = append([]string{archiver, "rcs", output}, inputs...)
	cmd.Compiler = archiver
	cmd.Output = output
	return cmd, nil
}

// explodeAllWlFlags replaces every -Wl,... argument in args with its
// decomposed bare-argument vector, leaving non--Wl, arguments untouched —
// the transform applied when a command is re-targeted directly at `ld`.
func explodeAllWlFlags(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if strings.HasPrefix(a, "-Wl,") {
			out = append(out, cdb.ExplodeWlFlag(a)...)
			continue
		}
		out = append(out, a)
	}
	return out
}

// recompiledLibraryDirFlags returns one -L<build root> flag for every
// library-dir flag among flags that resolves under the project module root.
// The original -L flags are not removed; the caller keeps them alongside.
func (e *Emitter) recompiledLibraryDirFlags(flags []string) []string {
	var out []string
	for _, a := range flags {
		if cdb.Classify(a) != cdb.FlagLibraryDir {
			continue
		}
		dir := strings.TrimPrefix(a, "-L")
		if !strings.HasPrefix(dir, e.ctx.ModuleRoot) {
			continue
		}
		out = append(out, "-L"+e.mapper.Relativize(e.ctx.BuildRoot))
	}
	return out
}

func hasPrefix(s, prefix string) bool {
	if len(s) < len(prefix) {
		return false
	}
	return s[:len(prefix)] == prefix
}

// emitSyntheticSharedLibrary wraps a static-archive root in a synthetic
// shared library rule: `-Wl,--whole-archive <archive> $(STUB_OBJECT_FILES)
// -Wl,--no-whole-archive` under `--allow-multiple-definition`, exactly as
// the root-is-static-archive special case requires.
func (e *Emitter) emitSyntheticSharedLibrary(archiveOutput string) error {
	soOutput := stripExtBase(archiveOutput) + ".so"
	rel := e.mapper.Relativize
	compiler := e.toolchain.LinkerPath
	argv := []string{compiler, "$(" + EnvLDFlags + ")", "-O0", "-Wl,--allow-multiple-definition"}
	argv = append(argv, coverageLinkFlags...)
	argv = append(argv, sanitizerLinkFlags...)
	argv = append(argv, "-Wl,--whole-archive", archiveOutput, "$("+StubObjectsVar+")", "-Wl,--no-whole-archive")
	argv = append(argv, "-shared", "-o", soOutput)

	cmd := buildplan.Command{
		Argv:     argv,
		Compiler: compiler,
		Output:   soOutput,
		Category: buildplan.CategorySharedLink,
	}
	e.Plan.AddRule(buildplan.Rule{
		Targets: []string{rel(soOutput)},
		Prereqs: []string{rel(archiveOutput), ForceTarget},
		Actions: []string{
			fmt.Sprintf("rm -f %s", rel(soOutput)),
			renderAction(e.mapper, cmd),
		},
	})
	e.sharedOutput = soOutput
	e.artifacts = append(e.artifacts, soOutput)
	return nil
}
