// Package npe is the native plan emitter: it walks the import/link DAG of a
// chosen root build target and emits a declarative, POSIX-make-compatible
// build plan that, executed, recompiles the target and its dependency
// closure into a test-instrumented executable linked against a vendored
// test-runner library.
package npe

import "github.com/codellm-devkit/harnessgen-go/internal/buildplan"

// Fixed public tokens of the emitted plan. GTEST_ALL/GTEST_MAIN name the
// compiled test-runner library objects; neither may be renamed, since
// downstream consumers of the plan (the make driver, the harness's own
// documentation) depend on these exact identifiers.
const (
	GTestAllVar     = "GTEST_ALL"
	GTestMainVar    = "GTEST_MAIN"
	StubObjectsVar  = "STUB_OBJECT_FILES"
	ForceTarget     = "FORCE"
	CleanTarget     = "clean"
	BinTarget       = "bin"
	BuildTarget     = "build"
	RunTarget       = "run"
	PreciousPattern = "%.d"
)

// Environment variables referenced by generated actions.
const (
	EnvLDFlags       = "LDFLAGS"
	EnvGTestFlags    = "GTEST_FLAGS"
	EnvLaunchInclude = "UTBOT_LAUNCH_INCLUDE_PATH"
	EnvCInclude      = "C_INCLUDE_PATH"
	EnvPath          = "PATH"
	EnvLDPreload     = "LD_PRELOAD"
)

// Flags that the emitter always forces onto a test-compile command,
// regardless of what the original command carried. coverageCompileFlags
// and sanitizerCompileFlags (and their link counterparts) are fixed empty
// lists: no coverage or sanitizer instrumentation is added, whatever the
// compiler. The always-on debug flags below are unconditional because they cost nothing
// at -O0 and make every recompiled unit sanitizer-ready.
var (
	debugNoOptimizeFlags  = []string{"-O0"}
	positionIndependent   = []string{"-fPIC"}
	sanitizerDebugFlags   = []string{"-g", "-fno-omit-frame-pointer", "-fno-optimize-sibling-calls"}
	coverageCompileFlags  = []string{}
	sanitizerCompileFlags = []string{}
	coverageLinkFlags     = []string{}
	sanitizerLinkFlags    = []string{}
)

// BuildMode picks the kind of bundled toolchain a plan emission targets.
type BuildMode string

const (
	ModeExecutable    BuildMode = "gcc"
	ModeSharedLibrary BuildMode = "gcc-shared"
	ModeStaticArchive BuildMode = "gcc-archive"
)

// Toolchain describes the bundled compiler/archiver/linker set used for a
// given build mode, mirroring the original's fixed compiler-substitution
// table keyed by compiler name (gcc<->g++, clang<->clang++), with the
// system linker used directly for relocatable outputs.
type Toolchain struct {
	Name           string
	CompilerPath   string // the C compiler, e.g. "gcc"
	CxxCompilerPath string // the derived C++ compiler, e.g. "g++"
	LinkerPath     string // the bundled linker driver, same as the C++ compiler
	ArchiverPath   string // "ar"
	Mode           BuildMode
	ExternalLinker bool // true for shared-library/static-archive modes, false for a plain executable
}

// toolchainTable is the fixed substitution table keyed by build mode.
// Compiler-name mapping follows the original's fixed table: gcc<->g++.
var toolchainTable = map[BuildMode]Toolchain{
	ModeExecutable:    {Name: "gcc", CompilerPath: "gcc", CxxCompilerPath: "g++", LinkerPath: "g++", ArchiverPath: "ar", Mode: ModeExecutable, ExternalLinker: false},
	ModeSharedLibrary: {Name: "gcc", CompilerPath: "gcc", CxxCompilerPath: "g++", LinkerPath: "g++", ArchiverPath: "ar", Mode: ModeSharedLibrary, ExternalLinker: true},
	ModeStaticArchive: {Name: "gcc", CompilerPath: "gcc", CxxCompilerPath: "g++", LinkerPath: "g++", ArchiverPath: "ar", Mode: ModeStaticArchive, ExternalLinker: true},
}

// systemLinkerPath is the direct linker invoked for relocatable outputs,
// bypassing the compiler driver entirely, per the toolchain-substitution
// rule "ld is used directly for relocatable outputs".
const systemLinkerPath = "ld"

// ResolveToolchain looks up the bundled-toolchain equivalent for mode. An
// unrecognized mode is ErrToolchainUnresolved, fatal to the current plan.
func ResolveToolchain(mode BuildMode) (Toolchain, error) {
	tc, ok := toolchainTable[mode]
	if !ok {
		return Toolchain{}, ErrToolchainUnresolved
	}
	return tc, nil
}

// unsupportedLinkFlags is the UNSUPPORTED_FLAGS_AND_OPTIONS deny-list:
// flags stripped unconditionally from a recompiled link command.
var unsupportedLinkFlags = map[string]struct{}{
	"-static": {},
}

func isUnsupportedLinkFlag(arg string) bool {
	_, bad := unsupportedLinkFlags[arg]
	return bad
}

// kindFromOutput derives a buildplan.Kind from an output path's extension.
func kindFromOutput(output string) buildplan.Kind {
	switch {
	case hasSuffix(output, ".a"):
		return buildplan.KindStaticLibrary
	case hasSuffix(output, ".so"):
		return buildplan.KindSharedLibrary
	case hasSuffix(output, ".o"):
		return buildplan.KindObject
	default:
		return buildplan.KindExecutable
	}
}

func hasSuffix(s, suffix string) bool {
	if len(s) < len(suffix) {
		return false
	}
	return s[len(s)-len(suffix):] == suffix
}
