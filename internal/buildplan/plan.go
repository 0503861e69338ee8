package buildplan

import (
	"fmt"
	"sort"
	"strings"
)

// Rule is one POSIX-make rule: one or more targets, their prerequisites, and
// the shell actions (recipe lines) that produce them. OrderOnly holds
// prerequisites placed after a "|" (directory-creation rules the make
// manual calls "order-only").
type Rule struct {
	Targets   []string
	Prereqs   []string
	OrderOnly []string
	Actions   []string
	// Phony marks a rule with no real file output (FORCE, clean, bin/build/run).
	Phony bool
}

// Plan is the emitter's accumulated output: shell-variable declarations in
// declaration order, then rules in the order they were emitted (deterministic
// post-order of the link DAG), then the closing stanza (.PRECIOUS / -include).
type Plan struct {
	varOrder    []string
	vars        map[string]string
	Rules       []Rule
	Precious    []string // patterns for .PRECIOUS
	IncludeDirs []string // globs for -include
}

// NewPlan returns an empty Plan ready to accumulate rules.
func NewPlan() *Plan {
	return &Plan{vars: make(map[string]string)}
}

// SetVar declares (or overwrites in place, preserving original position) a
// shell variable, e.g. STUB_OBJECT_FILES or GTEST_ALL.
func (p *Plan) SetVar(name, value string) {
	if _, ok := p.vars[name]; !ok {
		p.varOrder = append(p.varOrder, name)
	}
	p.vars[name] = value
}

// AppendVar appends value (space-joined) to an existing variable, or sets
// it if absent — used to grow STUB_OBJECT_FILES incrementally.
func (p *Plan) AppendVar(name, value string) {
	if cur, ok := p.vars[name]; ok && cur != "" {
		p.SetVar(name, cur+" "+value)
		return
	}
	p.SetVar(name, value)
}

// AddRule appends a rule to the plan in emission order.
func (p *Plan) AddRule(r Rule) {
	p.Rules = append(p.Rules, r)
}

// Render produces the POSIX-make-compatible text of the plan: variable
// declarations, FORCE and other rules in emission order, then the closing
// clean/.PRECIOUS/-include stanza.
func (p *Plan) Render() string {
	var b strings.Builder

	for _, name := range p.varOrder {
		fmt.Fprintf(&b, "%s = %s\n", name, p.vars[name])
	}
	if len(p.varOrder) > 0 {
		b.WriteString("\n")
	}

	for _, r := range p.Rules {
		renderRule(&b, r)
	}

	if len(p.Precious) > 0 {
		sorted := append([]string(nil), p.Precious...)
		sort.Strings(sorted)
		fmt.Fprintf(&b, ".PRECIOUS: %s\n\n", strings.Join(sorted, " "))
	}
	if len(p.IncludeDirs) > 0 {
		fmt.Fprintf(&b, "-include %s\n", strings.Join(p.IncludeDirs, " "))
	}

	return b.String()
}

func renderRule(b *strings.Builder, r Rule) {
	header := strings.Join(r.Targets, " ") + ":"
	if len(r.Prereqs) > 0 {
		header += " " + strings.Join(r.Prereqs, " ")
	}
	if len(r.OrderOnly) > 0 {
		header += " | " + strings.Join(r.OrderOnly, " ")
	}
	b.WriteString(header)
	b.WriteString("\n")
	for _, a := range r.Actions {
		fmt.Fprintf(b, "\t%s\n", a)
	}
	b.WriteString("\n")
}
