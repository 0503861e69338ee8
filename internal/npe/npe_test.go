package npe

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codellm-devkit/harnessgen-go/internal/buildplan"
	"github.com/codellm-devkit/harnessgen-go/internal/cdb"
	"github.com/codellm-devkit/harnessgen-go/internal/pathmap"
)

// buildFixtureDB wires a two-unit link DAG: a leaf static library
// "libroot.a" and a root executable "app" that depends on it plus its own
// object file, mirroring the recursive link-target synthesis algorithm's
// canonical shapes.
func buildFixtureDB() *cdb.Database {
	db := cdb.New()

	db.AddCompileUnit("/proj/root.o", buildplan.Command{
		Argv:     []string{"gcc", "-c", "-o", "/proj/root.o", "/proj/root.c"},
		Compiler: "gcc",
		Output:   "/proj/root.o",
		Category: buildplan.CategoryCompile,
	})
	db.AddLinkUnit(cdb.LinkUnitInfo{
		Output: "/proj/libroot.a",
		Kind:   buildplan.KindStaticLibrary,
		Inputs: []string{"/proj/root.o"},
		Commands: []buildplan.Command{{
			Argv:     []string{"ar", "rcs", "/proj/libroot.a", "/proj/root.o"},
			Compiler: "ar",
			Output:   "/proj/libroot.a",
			Category: buildplan.CategoryArchive,
		}},
	})

	db.AddCompileUnit("/proj/a.o", buildplan.Command{
		Argv:     []string{"gcc", "-c", "-o", "/proj/a.o", "/proj/a.c"},
		Compiler: "gcc",
		Output:   "/proj/a.o",
		Category: buildplan.CategoryCompile,
	})
	db.AddLinkUnit(cdb.LinkUnitInfo{
		Output: "/proj/app",
		Kind:   buildplan.KindExecutable,
		Inputs: []string{"/proj/a.o", "/proj/libroot.a"},
		Commands: []buildplan.Command{{
			Argv:     []string{"gcc", "/proj/a.o", "/proj/libroot.a", "-o", "/proj/app"},
			Compiler: "gcc",
			Output:   "/proj/app",
			Category: buildplan.CategoryExecutableLink,
		}},
	})

	return db
}

func TestEmitter_FullPlanOverExecutableRoot(t *testing.T) {
	db := buildFixtureDB()
	mapper := pathmap.New("/proj", "/proj/.build")
	toolchain, err := ResolveToolchain(ModeExecutable)
	require.NoError(t, err)

	e := NewEmitter(ProjectContext{
		ModuleRoot:    "/proj",
		BuildRoot:     "/proj/.build",
		TestOutputDir: "/proj/test-output",
	}, db, mapper, toolchain, nil)

	require.NoError(t, e.Init())

	root, err := e.EmitRoot("/proj/app")
	require.NoError(t, err)
	require.Equal(t, buildplan.ResultNoStubs, root.Type)

	lu, err := db.LinkUnit("/proj/app")
	require.NoError(t, err)
	require.NoError(t, e.AddTestTarget(root, lu.Kind))

	plan := e.Close()
	rendered := plan.Render()

	require.Contains(t, rendered, ForceTarget+":")
	require.Contains(t, rendered, CleanTarget+":")
	require.Contains(t, rendered, ".PRECIOUS:")
	require.True(t, strings.Contains(rendered, "app"))
}

// TestEmitter_ExecutableRootProducesRelocatableLink exercises Scenario
// S1's shape directly: a single translation unit linked by the bundled
// compiler driver into an executable must be recompiled as a relocatable
// `ld -r` link plus an objcopy main-rename, not left as a plain executable
// link.
func TestEmitter_ExecutableRootProducesRelocatableLink(t *testing.T) {
	db := buildFixtureDB()
	mapper := pathmap.New("/proj", "/proj/.build")
	toolchain, err := ResolveToolchain(ModeExecutable)
	require.NoError(t, err)

	e := NewEmitter(ProjectContext{
		ModuleRoot:    "/proj",
		BuildRoot:     "/proj/.build",
		TestOutputDir: "/proj/test-output",
	}, db, mapper, toolchain, nil)
	require.NoError(t, e.Init())

	_, err = e.EmitRoot("/proj/app")
	require.NoError(t, err)

	rendered := e.Close().Render()
	require.Contains(t, rendered, "ld -r -o")
	require.Contains(t, rendered, "objcopy --redefine-sym main=main__")
	require.Contains(t, rendered, "-MMD -MT")
	require.Contains(t, rendered, "-MF")
}

func TestEmitter_StubObjectMarksResultAllStubs(t *testing.T) {
	db := buildFixtureDB()
	mapper := pathmap.New("/proj", "/proj/.build")
	toolchain, err := ResolveToolchain(ModeExecutable)
	require.NoError(t, err)

	e := NewEmitter(ProjectContext{
		ModuleRoot:    "/proj",
		BuildRoot:     "/proj/.build",
		TestOutputDir: "/proj/test-output",
	}, db, mapper, toolchain, map[string]struct{}{"/proj/a.o": {}})
	require.NoError(t, e.Init())

	root, err := e.EmitRoot("/proj/app")
	require.NoError(t, err)
	// a.o is a stub, libroot's object is not: the union is Mixed.
	require.Equal(t, buildplan.ResultMixed, root.Type)
}

// TestEmitter_StaticArchiveRootEmitsSyntheticSharedLibrary exercises
// Scenario S3's shape: a static-library traversal root gets both its own
// recompiled archive rule and a synthetic shared-library rule wrapping it
// in --whole-archive/--no-whole-archive with $(STUB_OBJECT_FILES) spliced
// in between.
func TestEmitter_StaticArchiveRootEmitsSyntheticSharedLibrary(t *testing.T) {
	db := buildFixtureDB()
	mapper := pathmap.New("/proj", "/proj/.build")
	toolchain, err := ResolveToolchain(ModeStaticArchive)
	require.NoError(t, err)

	e := NewEmitter(ProjectContext{
		ModuleRoot:    "/proj",
		BuildRoot:     "/proj/.build",
		TestOutputDir: "/proj/test-output",
	}, db, mapper, toolchain, map[string]struct{}{"/proj/root.o": {}})
	require.NoError(t, e.Init())

	root, err := e.EmitRoot("/proj/libroot.a")
	require.NoError(t, err)
	require.Equal(t, buildplan.ResultAllStubs, root.Type)
	require.True(t, strings.Contains(root.Output, "librecompiled_root_stub.a"))

	rendered := e.Close().Render()
	require.Contains(t, rendered, "librecompiled_root_stub.so")
	require.Contains(t, rendered, "-Wl,--whole-archive")
	require.Contains(t, rendered, "-Wl,--no-whole-archive")
	require.Contains(t, rendered, "--allow-multiple-definition")
	require.Contains(t, rendered, "$(STUB_OBJECT_FILES)")
}

func TestResolveToolchain_UnknownModeErrors(t *testing.T) {
	_, err := ResolveToolchain(BuildMode("bogus"))
	require.ErrorIs(t, err, ErrToolchainUnresolved)
}
