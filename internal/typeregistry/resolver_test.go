package typeregistry

import (
	"go/types"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codellm-devkit/harnessgen-go/internal/loader"
)

func loadFixture(t *testing.T) *loader.LoadResult {
	t.Helper()
	_, file, _, _ := runtime.Caller(0)
	root := filepath.Clean(filepath.Join(filepath.Dir(file), "..", "..", "testdata", "typesfixture"))
	result, err := loader.LoadWithSSA(root, loader.Options{})
	require.NoError(t, err)
	require.NotEmpty(t, result.Packages)
	return result
}

func TestCollect_ResolvesStructEnumAndUnion(t *testing.T) {
	result := loadFixture(t)

	r := NewResolver(types.SizesFor("gc", "amd64"))
	r.Planner = NewPlanner()
	require.NoError(t, Collect(r, result))

	var tree, node *StructInfo
	for _, s := range r.Registry.Structs {
		switch s.Name {
		case "Tree":
			tree = s
		case "Node":
			node = s
		}
	}
	require.NotNil(t, node, "Node struct should be resolved")
	require.NotNil(t, tree, "Tree struct should be resolved")

	var onVisit *Field
	for i := range node.Fields {
		if node.Fields[i].Name == "OnVisit" {
			onVisit = &node.Fields[i]
		}
	}
	require.NotNil(t, onVisit, "OnVisit field should be present")
	require.NotNil(t, onVisit.Func, "OnVisit should synthesize a FunctionSignature")
	require.Len(t, onVisit.Func.Params, 1)
	require.Equal(t, "param1", onVisit.Func.Params[0].Name)

	// Node.OnVisit returns *Tree, declared after Node in the source — this
	// exercises the forward-declaration scheduling path.
	require.NotEmpty(t, node.ToDeclare, "Node should schedule a forward declaration for Tree")
	require.NotEmpty(t, r.Planner.Pending())

	var status *EnumInfo
	for _, e := range r.Registry.Enums {
		if e.Name == "Status" {
			status = e
		}
	}
	require.NotNil(t, status, "Status enum should be resolved")
	require.Len(t, status.Enumerators, 3)
	_, ok := status.ByName("StatusRunning")
	require.True(t, ok)

	var payload *UnionInfo
	for _, u := range r.Registry.Unions {
		if u.Name == "Payload" {
			payload = u
		}
	}
	require.NotNil(t, payload, "Payload union should be resolved")
	require.Len(t, payload.Fields, 3)
	for _, f := range payload.Fields {
		require.Zero(t, f.Offset, "union fields must not carry offsets")
	}
}
