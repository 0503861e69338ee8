package cdb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	cases := map[string]FlagCategory{
		"-fsanitize=address": FlagSanitizer,
		"--coverage":         FlagCoverage,
		"-fprofile-arcs":     FlagCoverage,
		"-fPIC":              FlagPositionIndependent,
		"-pie":               FlagPositionIndependent,
		"-O0":                FlagOptimization,
		"-O2":                FlagOptimization,
		"-I/usr/include":     FlagIncludePath,
		"-iquote/src":        FlagIncludePath,
		"-L/usr/lib":         FlagLibraryDir,
		"-lpthread":          FlagLibraryName,
		"-static":            FlagStaticSharedRelocate,
		"-shared":            FlagStaticSharedRelocate,
		"-ffreestanding":     FlagUnsupportedInTestCompile,
		"-fopenmp":           FlagUnsupportedInTestCompile,
		"-std=gnu11":         FlagUnsupportedInTestCompile,
		"-o":                 FlagOther,
	}
	for arg, want := range cases {
		require.Equalf(t, want, Classify(arg), "Classify(%q)", arg)
	}
}

func TestClassifyWlFlag(t *testing.T) {
	require.Equal(t, FlagLinkScript, Classify(`-Wl,--version-script=v.lds`))
	require.Equal(t, FlagSoname, Classify(`-Wl,-soname,libx.so.1`))
	require.Equal(t, FlagOther, Classify(`-Wl,-rpath,/lib`))
}

func TestDecomposeAndRenormalizeWlFlag(t *testing.T) {
	entries := DecomposeWlFlag(`-Wl,-soname,libx.so.1,--version-script=v.lds,-rpath,/lib`)
	require.Equal(t, []string{"-soname", "libx.so.1", "--version-script=v.lds", "-rpath", "/lib"}, entries)
	require.Equal(t, `-Wl,-soname,libx.so.1,--version-script=v.lds,-rpath,/lib`, RenormalizeWlFlag(entries))
	require.Equal(t, "", RenormalizeWlFlag(nil))
}

func TestExplodeWlFlag(t *testing.T) {
	require.Equal(t, []string{"-rpath", "/lib"}, ExplodeWlFlag(`-Wl,-rpath,/lib`))
}

// TestS2NormalizeBoundaryScenario exercises the literal boundary example:
// -Wl,-soname,libx.so.1,--version-script=v.lds,-rpath,/lib normalizes to
// -Wl,-rpath,/lib once soname and version-script entries are stripped.
func TestS2NormalizeBoundaryScenario(t *testing.T) {
	arg := `-Wl,-soname,libx.so.1,--version-script=v.lds,-rpath,/lib`

	out, keep := RemoveSonameFlag(arg)
	require.True(t, keep)
	require.Equal(t, `-Wl,--version-script=v.lds,-rpath,/lib`, out)

	out, keep = RemoveVersionScriptFlag(out)
	require.True(t, keep)
	require.Equal(t, `-Wl,-rpath,/lib`, out)
}

func TestRemoveSonameFlag_CollapsesToEmpty(t *testing.T) {
	_, keep := RemoveSonameFlag(`-Wl,-soname,libfoo.so.1`)
	require.False(t, keep)
}

func TestRemoveVersionScriptFlag_CollapsesToEmpty(t *testing.T) {
	_, keep := RemoveVersionScriptFlag(`-Wl,--version-script=v.lds`)
	require.False(t, keep)
}

func TestRemoveSonameAndVersionScript_Idempotent(t *testing.T) {
	arg := `-Wl,-soname,libx.so.1,--version-script=v.lds,-rpath,/lib`
	once, _ := RemoveSonameFlag(arg)
	twice, _ := RemoveSonameFlag(once)
	require.Equal(t, once, twice)

	once, _ = RemoveVersionScriptFlag(arg)
	twice, _ = RemoveVersionScriptFlag(once)
	require.Equal(t, once, twice)
}
