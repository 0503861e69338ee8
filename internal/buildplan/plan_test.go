package buildplan

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlan_SetVarAndAppendVar(t *testing.T) {
	p := NewPlan()
	p.SetVar("A", "1")
	p.SetVar("B", "2")
	p.SetVar("A", "overwritten")
	p.AppendVar("B", "3")
	p.AppendVar("C", "first")

	rendered := p.Render()
	require.Contains(t, rendered, "A = overwritten\n")
	require.Contains(t, rendered, "B = 2 3\n")
	require.Contains(t, rendered, "C = first\n")

	// Declaration order is preserved: A before B before C.
	idxA := indexOf(rendered, "A = overwritten")
	idxB := indexOf(rendered, "B = 2 3")
	idxC := indexOf(rendered, "C = first")
	require.True(t, idxA < idxB && idxB < idxC)
}

func TestPlan_RenderRule(t *testing.T) {
	p := NewPlan()
	p.AddRule(Rule{
		Targets:   []string{"out.o"},
		Prereqs:   []string{"in.go"},
		OrderOnly: []string{"build-dir"},
		Actions:   []string{"go build -o out.o in.go"},
	})
	rendered := p.Render()
	require.Contains(t, rendered, "out.o: in.go | build-dir\n")
	require.Contains(t, rendered, "\tgo build -o out.o in.go\n")
}

func TestPlan_PhonyRuleRendersBareHeader(t *testing.T) {
	// Phony only marks intent (no real file output); it does not itself
	// change what Render emits — a phony rule with no prereqs/actions
	// renders as a bare "target:" header.
	p := NewPlan()
	p.AddRule(Rule{Targets: []string{"FORCE"}, Phony: true})
	rendered := p.Render()
	require.Contains(t, rendered, "FORCE:\n")
}

func TestPlan_PreciousAndIncludeStanza(t *testing.T) {
	p := NewPlan()
	p.Precious = []string{"build/%.d", "build/other/%.d"}
	p.IncludeDirs = []string{"build/a.d", "build/b.d"}
	rendered := p.Render()
	require.Contains(t, rendered, ".PRECIOUS: build/%.d build/other/%.d\n")
	require.Contains(t, rendered, "-include build/a.d build/b.d\n")
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
