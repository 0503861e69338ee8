// Package config loads the optional harnessgen.toml project configuration:
// settings better suited to a file than a CLI flag (project root, build
// subdirectory, test-runner module path, stub package list, path
// substitution table). CLI flags always override values loaded here.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Project is the decoded shape of harnessgen.toml.
type Project struct {
	ModuleRoot       string            `toml:"module_root"`
	BuildDir         string            `toml:"build_dir"`
	TestOutputDir    string            `toml:"test_output_dir"`
	RunnerModuleRoot string            `toml:"runner_module_root"`
	Stubs            []string          `toml:"stubs"`
	PathSubstitution map[string]string `toml:"path_substitution"`
}

// Default returns a Project with the same defaults the CLI flags fall back
// to in the absence of a config file.
func Default() Project {
	return Project{
		BuildDir:      ".cldkbuild",
		TestOutputDir: "test-output",
	}
}

// Load reads and decodes path as TOML. A missing file is not an error: the
// caller receives Default() unchanged, since the config file is optional.
func Load(path string) (Project, error) {
	p := Default()
	if path == "" {
		return p, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return p, nil
	}
	if _, err := toml.DecodeFile(path, &p); err != nil {
		return Project{}, err
	}
	return p, nil
}

// Merge overlays non-zero-value fields of override onto p, implementing
// "CLI flags override file values" without requiring the caller to hand-roll
// per-field precedence checks at every call site.
func (p Project) Merge(override Project) Project {
	if override.ModuleRoot != "" {
		p.ModuleRoot = override.ModuleRoot
	}
	if override.BuildDir != "" {
		p.BuildDir = override.BuildDir
	}
	if override.TestOutputDir != "" {
		p.TestOutputDir = override.TestOutputDir
	}
	if override.RunnerModuleRoot != "" {
		p.RunnerModuleRoot = override.RunnerModuleRoot
	}
	if len(override.Stubs) > 0 {
		p.Stubs = override.Stubs
	}
	if len(override.PathSubstitution) > 0 {
		p.PathSubstitution = override.PathSubstitution
	}
	return p
}
