package cdb

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codellm-devkit/harnessgen-go/internal/buildplan"
)

func TestDatabase_CompileAndLinkUnitRoundTrip(t *testing.T) {
	db := New()
	db.AddCompileUnit("example.com/foo", buildplan.Command{
		Argv: []string{"go", "build", "-o", "foo.o", "example.com/foo"},
	})
	db.AddLinkUnit(LinkUnitInfo{
		Output: "example.com/foo",
		Kind:   buildplan.KindStaticLibrary,
		Inputs: []string{"foo.o"},
		Commands: []buildplan.Command{{
			Argv:     []string{"go", "build", "-o", "example.com/foo"},
			Category: buildplan.CategoryArchive,
		}},
	})

	cu, err := db.CompileUnit("example.com/foo")
	require.NoError(t, err)
	require.Equal(t, "example.com/foo", cu.ImportPath)

	lu, err := db.LinkUnit("example.com/foo")
	require.NoError(t, err)
	require.Equal(t, buildplan.KindStaticLibrary, lu.Kind)

	require.NoError(t, db.Validate())
}

func TestDatabase_UnknownUnit(t *testing.T) {
	db := New()
	_, err := db.CompileUnit("nope")
	require.ErrorIs(t, err, ErrUnknownUnit)
	_, err = db.LinkUnit("nope")
	require.ErrorIs(t, err, ErrUnknownUnit)
}

func TestDatabase_ValidateRejectsKindCategoryMismatch(t *testing.T) {
	db := New()
	db.AddLinkUnit(LinkUnitInfo{
		Output: "bad",
		Kind:   buildplan.KindObject,
		Commands: []buildplan.Command{{
			Category: buildplan.CategoryExecutableLink,
		}},
	})
	err := db.Validate()
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrUnknownUnit))
}
