package npe

import (
	"fmt"
	"path"

	"github.com/codellm-devkit/harnessgen-go/internal/buildplan"
)

// AddTestTarget synthesizes the final test executable and the bin/build/run
// convenience targets. Both root kinds link with the same fresh argument
// vector (freshLinkArgv) over the recompiled root output. A static-archive
// root uses it as is; any other root additionally has every -I argument
// removed, the runner module root prepended as the only -I directory, and
// UTBOT_LAUNCH_INCLUDE_PATH set to that root. The root's own original link
// command is not cloned, so none of its flags carry over into the test link.
func (e *Emitter) AddTestTarget(root buildplan.BuildResult, rootKind buildplan.Kind) error {
	testExe := e.getTestExecutablePath()
	rel := e.mapper.Relativize

	var cmd buildplan.Command
	if rootKind == buildplan.KindStaticLibrary {
		cmd = e.freshTestLinkCommand(root, testExe)
	} else {
		cmd = e.clonedTestLinkCommand(root, testExe)
	}

	e.Plan.AddRule(buildplan.Rule{
		Targets: []string{rel(testExe)},
		Prereqs: []string{rel(root.Output), GTestAllVar, GTestMainVar, ForceTarget},
		Actions: []string{
			fmt.Sprintf("rm -f %s", rel(testExe)),
			renderAction(e.mapper, cmd),
		},
	})
	e.artifacts = append(e.artifacts, testExe)

	e.Plan.AddRule(buildplan.Rule{Targets: []string{BinTarget}, Prereqs: []string{rel(testExe)}, Phony: true})
	e.Plan.AddRule(buildplan.Rule{Targets: []string{BuildTarget}, Prereqs: []string{rel(testExe)}, Phony: true})

	runActions := []string{fmt.Sprintf("PATH=%s:$$PATH %s", rel(e.ctx.BuildRoot), rel(testExe))}
	if e.toolchain.ExternalLinker && e.sharedOutput != "" {
		runActions = []string{fmt.Sprintf("LD_PRELOAD=%s PATH=%s:$$PATH %s", rel(e.sharedOutput), rel(e.ctx.BuildRoot), rel(testExe))}
	}
	e.Plan.AddRule(buildplan.Rule{
		Targets: []string{RunTarget},
		Prereqs: []string{rel(testExe)},
		Actions: runActions,
		Phony:   true,
	})

	return nil
}

// getTestExecutablePath returns the fixed path of the generated test
// binary, rooted under the test output directory.
func (e *Emitter) getTestExecutablePath() string {
	return path.Join(e.ctx.TestOutputDir, "harness_test")
}

// freshLinkArgv assembles the fixed left-to-right argument shape shared by
// both test-link strategies: <linker> $(LDFLAGS) -pthread <coverage>
// <sanitizer> -o <test-exe> $(GTEST_MAIN) $(GTEST_ALL) <root-output>
// $(STUB_OBJECT_FILES).
func (e *Emitter) freshLinkArgv(root buildplan.BuildResult, output string) []string {
	argv := []string{e.toolchain.CxxCompilerPath, "$(" + EnvLDFlags + ")", "-pthread"}
	argv = append(argv, coverageLinkFlags...)
	argv = append(argv, sanitizerLinkFlags...)
	argv = append(argv, "-o", output, "$("+GTestMainVar+")", "$("+GTestAllVar+")", root.Output, "$("+StubObjectsVar+")")
	return argv
}

func (e *Emitter) freshTestLinkCommand(root buildplan.BuildResult, output string) buildplan.Command {
	return buildplan.Command{
		Argv:     e.freshLinkArgv(root, output),
		Compiler: e.toolchain.CxxCompilerPath,
		Output:   output,
		Category: buildplan.CategoryExecutableLink,
	}
}

func (e *Emitter) clonedTestLinkCommand(root buildplan.BuildResult, output string) buildplan.Command {
	cmd := buildplan.Command{
		Argv:     e.freshLinkArgv(root, output),
		Compiler: e.toolchain.CxxCompilerPath,
		Output:   output,
		Category: buildplan.CategoryExecutableLink,
		Env:      map[string]string{EnvLaunchInclude: e.ctx.RunnerModuleRoot},
	}
	// Strip every include flag, then re-add only the runner's own.
	cmd = cmd.EraseIf(func(a string) bool { return hasPrefix(a, "-I") })
	cmd = cmd.PrependFlags("-I" + e.ctx.RunnerModuleRoot)
	return cmd
}
