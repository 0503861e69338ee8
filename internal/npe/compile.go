package npe

import (
	"fmt"

	"github.com/codellm-devkit/harnessgen-go/internal/buildplan"
	"github.com/codellm-devkit/harnessgen-go/internal/cdb"
)

// AddCompileTarget synthesizes the test-instrumented compile rule for one
// translation unit: replace the compiler, relativize paths, force -O0,
// prepend PIC/sanitizer-debug/coverage/sanitizer-compile flags, inject
// -MT/-MMD/-MP/-MF dependency-tracking flags wired to a .Td temp file, add
// the -iquote-equivalent include, export C_INCLUDE_PATH, and emit the rule
// whose actions create the dependency directory, run the compile command,
// then atomically rename the temp dep file to the final one.
func (e *Emitter) AddCompileTarget(source, target string, unit cdb.CompileUnit) error {
	cmd := unit.Command
	cmd = cmd.WithCompiler(e.toolchain.CompilerPath)
	cmd = cmd.WithOutput(target)
	cmd = cmd.WithOptimizationLevel(debugNoOptimizeFlags...)
	cmd = cmd.PrependFlags(sanitizerCompileFlags...)
	cmd = cmd.PrependFlags(coverageCompileFlags...)
	cmd = cmd.PrependFlags(sanitizerDebugFlags...)
	cmd = cmd.PrependFlags(positionIndependent...)

	tempDep, finalDep := e.dependencyFiles(source)
	rel := e.mapper.Relativize

	cmd = cmd.PrependFlags("-MMD", "-MT", rel(target), "-MP", "-MF", rel(tempDep))

	sourceDir := dirOf(source)
	cmd = cmd.PrependFlags(fmt.Sprintf("-iquote%s", sourceDir))
	cmd = cmd.WithEnv(EnvCInclude, sourceDir)

	actions := []string{
		fmt.Sprintf("mkdir -p %s", rel(dirOf(tempDep))),
		renderAction(e.mapper, cmd),
		fmt.Sprintf("mv -f %s %s", rel(tempDep), rel(finalDep)),
	}

	e.Plan.AddRule(buildplan.Rule{
		Targets:   []string{rel(target)},
		Prereqs:   []string{rel(source), rel(finalDep), ForceTarget},
		OrderOnly: []string{rel(e.ctx.BuildRoot)},
		Actions:   actions,
	})
	e.Plan.IncludeDirs = append(e.Plan.IncludeDirs, rel(finalDep))
	e.Plan.Precious = append(e.Plan.Precious, rel(dirOf(finalDep))+"/%.d")
	e.artifacts = append(e.artifacts, target)

	return nil
}

// dependencyFiles returns the .Td (written first, in-progress) and .d
// (final, renamed-into) dependency file paths for the translation unit
// compiled from source, both rooted under the plan's dependency directory.
func (e *Emitter) dependencyFiles(source string) (temp, final string) {
	name := baseOf(source)
	depDir := e.ctx.BuildRoot + "/dependencies"
	return depDir + "/" + name + ".Td", depDir + "/" + name + ".d"
}

func dirOf(p string) string {
	i := lastIndexByte(p, '/')
	if i < 0 {
		return "."
	}
	return p[:i]
}

func baseOf(p string) string {
	i := lastIndexByte(p, '/')
	if i < 0 {
		return p
	}
	return p[i+1:]
}

func lastIndexByte(s string, b byte) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == b {
			return i
		}
	}
	return -1
}
