package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefault(t *testing.T) {
	p, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.NoError(t, err)
	require.Equal(t, Default(), p)
}

func TestLoad_EmptyPathReturnsDefault(t *testing.T) {
	p, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), p)
}

func TestLoad_DecodesTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "harnessgen.toml")
	content := `
module_root = "/repo"
build_dir = "build-out"
stubs = ["example.com/stub"]

[path_substitution]
"/old" = "/new"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/repo", p.ModuleRoot)
	require.Equal(t, "build-out", p.BuildDir)
	require.Equal(t, []string{"example.com/stub"}, p.Stubs)
	require.Equal(t, "/new", p.PathSubstitution["/old"])
	// TestOutputDir wasn't overridden — the default is preserved.
	require.Equal(t, Default().TestOutputDir, p.TestOutputDir)
}

func TestProject_MergeOverridesOnlyNonZero(t *testing.T) {
	base := Default()
	base.ModuleRoot = "/repo"
	base.Stubs = []string{"a"}

	merged := base.Merge(Project{BuildDir: "custom-build"})
	require.Equal(t, "/repo", merged.ModuleRoot, "unset override field leaves base untouched")
	require.Equal(t, "custom-build", merged.BuildDir)
	require.Equal(t, []string{"a"}, merged.Stubs)

	merged = base.Merge(Project{Stubs: []string{"b", "c"}})
	require.Equal(t, []string{"b", "c"}, merged.Stubs)
}
