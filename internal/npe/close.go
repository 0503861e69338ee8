package npe

import (
	"sort"

	"github.com/codellm-devkit/harnessgen-go/internal/buildplan"
)

// Close finishes the plan: a clean target over every accumulated artifact,
// a .PRECIOUS pattern rule over the dependency-file glob with an empty
// recipe, and -include of every *.d/*.Td dependency file collected during
// compile-target synthesis.
func (e *Emitter) Close() *buildplan.Plan {
	artifacts := append([]string(nil), e.artifacts...)
	sort.Strings(artifacts)
	rel := make([]string, len(artifacts))
	for i, a := range artifacts {
		rel[i] = e.mapper.Relativize(a)
	}

	actions := make([]string, 0, len(rel))
	for _, a := range rel {
		actions = append(actions, "rm -f "+a)
	}
	e.Plan.AddRule(buildplan.Rule{
		Targets: []string{CleanTarget},
		Actions: actions,
		Phony:   true,
	})

	e.Plan.Precious = append(e.Plan.Precious, PreciousPattern)
	// A tab-only recipe line is make's empty recipe: a missing .d file on
	// the first build is then treated as up to date instead of an error.
	e.Plan.AddRule(buildplan.Rule{Targets: []string{PreciousPattern}, Actions: []string{""}})
	e.Plan.IncludeDirs = append(e.Plan.IncludeDirs, e.ctx.BuildRoot+"/**/*.d", e.ctx.BuildRoot+"/**/*.Td")

	return e.Plan
}
