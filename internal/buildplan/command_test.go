package buildplan

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommand_WithOutputRewritesArgvInPlace(t *testing.T) {
	cmd := Command{
		Argv:     []string{"go", "build", "-o", "pkg.a", "pkg"},
		Compiler: "go",
		Output:   "pkg.a",
	}
	out := cmd.WithOutput("pkg.so")
	require.Equal(t, "pkg.so", out.Output)
	require.Equal(t, []string{"go", "build", "-o", "pkg.so", "pkg"}, out.Argv)
	// original untouched — mutators never alias the receiver.
	require.Equal(t, "pkg.a", cmd.Output)
	require.Equal(t, []string{"go", "build", "-o", "pkg.a", "pkg"}, cmd.Argv)
}

func TestCommand_WithCompilerPreservesArgvZeroInvariant(t *testing.T) {
	cmd := Command{Argv: []string{"gcc", "-c", "a.c"}, Compiler: "gcc"}
	out := cmd.WithCompiler("go")
	require.Equal(t, "go", out.Compiler)
	require.Equal(t, "go", out.Argv[0])
}

func TestCommand_PrependFlagsInsertsAfterCompiler(t *testing.T) {
	cmd := Command{Argv: []string{"go", "build", "pkg"}, Compiler: "go"}
	out := cmd.PrependFlags("-race", "-cover")
	require.Equal(t, []string{"go", "-race", "-cover", "build", "pkg"}, out.Argv)
}

func TestCommand_EraseIfRemovesMatchingArgs(t *testing.T) {
	cmd := Command{Argv: []string{"go", "build", "-static", "-o", "out", "pkg"}}
	out := cmd.EraseIf(func(a string) bool { return a == "-static" })
	require.Equal(t, []string{"go", "build", "-o", "out", "pkg"}, out.Argv)
}

func TestCommand_WithEnvDoesNotMutateSharedMap(t *testing.T) {
	base := Command{Env: map[string]string{"A": "1"}}
	out := base.WithEnv("B", "2")
	require.Len(t, base.Env, 1)
	require.Len(t, out.Env, 2)
}

func TestResultType_UnionMonoid(t *testing.T) {
	require.Equal(t, ResultNoStubs, ResultNone.Union(ResultNoStubs))
	require.Equal(t, ResultAllStubs, ResultAllStubs.Union(ResultNone))
	require.Equal(t, ResultMixed, ResultNoStubs.Union(ResultAllStubs))
	require.Equal(t, ResultMixed, ResultAllStubs.Union(ResultNoStubs))
	require.Equal(t, ResultMixed, ResultMixed.Union(ResultNoStubs))
	require.Equal(t, ResultNoStubs, ResultNoStubs.Union(ResultNoStubs))
}

func TestUnionResults_FoldsAcrossAllResults(t *testing.T) {
	got := UnionResults(
		BuildResult{Type: ResultNoStubs},
		BuildResult{Type: ResultAllStubs},
	)
	require.Equal(t, ResultMixed, got)
	require.Equal(t, ResultNone, UnionResults())
}
