package pathmap

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapper_RegisterAndLookup(t *testing.T) {
	root := filepath.FromSlash("/proj")
	build := filepath.FromSlash("/proj/.build")
	m := New(root, build)

	src := filepath.FromSlash("/proj/pkg/file.go")
	rec := m.RegisterUnit(src)
	require.Contains(t, filepath.ToSlash(rec), ".cldkbuild/pkg/file.go.o")

	got, ok := m.RecompiledOf(src)
	require.True(t, ok)
	require.Equal(t, rec, got)

	orig, ok := m.OriginalOf(rec)
	require.True(t, ok)
	require.Equal(t, src, orig)

	// Registering the same unit twice is idempotent.
	require.Equal(t, rec, m.RegisterUnit(src))
}

func TestMapper_RecompiledOf_UnknownIsFalse(t *testing.T) {
	m := New("/proj", "/proj/.build")
	_, ok := m.RecompiledOf("/proj/unregistered.go")
	require.False(t, ok)
}

func TestMapper_Relativize(t *testing.T) {
	m := New("/proj", "/proj/.build")

	require.Equal(t, "sub/out.o", m.Relativize(filepath.FromSlash("/proj/.build/sub/out.o")))
	require.Equal(t, "already/rel", m.Relativize("already/rel"))
	// Outside BuildRoot: returned as-is (slash-normalized).
	require.Equal(t, filepath.ToSlash(filepath.FromSlash("/other/place")), m.Relativize(filepath.FromSlash("/other/place")))
}

func TestMapper_RelativizeArgv(t *testing.T) {
	m := New("/proj", "/proj/.build")
	argv := []string{
		"go",
		"-I" + filepath.FromSlash("/proj/.build/include"),
		"-o", filepath.FromSlash("/proj/.build/bin/out"),
		"-race",
	}
	out := m.RelativizeArgv(argv)
	require.Equal(t, []string{"go", "-Iinclude", "-o", "bin/out", "-race"}, out)
}
