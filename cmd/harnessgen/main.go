package main

import (
	"fmt"
	"go/types"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/codellm-devkit/harnessgen-go/internal/buildplan"
	"github.com/codellm-devkit/harnessgen-go/internal/callgraph"
	"github.com/codellm-devkit/harnessgen-go/internal/cdb"
	"github.com/codellm-devkit/harnessgen-go/internal/config"
	"github.com/codellm-devkit/harnessgen-go/internal/loader"
	"github.com/codellm-devkit/harnessgen-go/internal/logging"
	"github.com/codellm-devkit/harnessgen-go/internal/npe"
	"github.com/codellm-devkit/harnessgen-go/internal/output"
	"github.com/codellm-devkit/harnessgen-go/internal/pathmap"
	"github.com/codellm-devkit/harnessgen-go/internal/symbols"
	"github.com/codellm-devkit/harnessgen-go/internal/typeregistry"
	"github.com/codellm-devkit/harnessgen-go/pkg/schema"
)

const (
	version = "2.0.0"

	// Analysis levels
	levelSymbolTable = "symbol_table"
	levelCallGraph   = "call_graph"
	levelPDG         = "pdg"
	levelSDG         = "sdg"
	levelFull        = "full"
)

type appConfig struct {
	// Flag principali CLDK
	input         string
	outputDir     string
	format        string
	analysisLevel string

	// Flag avanzati
	cgAlgo        string
	includeTests  bool
	excludeDirs   string
	onlyPkg       string
	emitPositions string
	includeBody   bool
	verbose       bool
	quiet         bool

	// Flag legacy (retrocompatibilità)
	root string
	mode string
	out  string

	// Flag di dominio: quando rootPkg è impostato, il comando emette un
	// build plan (CDB → TR → NPE) invece dell'analisi simbolica CLDK.
	rootPkg    string
	stubs      []string
	configPath string
}

func main() {
	cfg := &appConfig{}

	root := &cobra.Command{
		Use:     "harnessgen",
		Short:   "Recompile a Go project and its dependency closure into a test-instrumented build plan",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			handleLegacyFlags(cfg)
			if err := validateConfig(cfg); err != nil {
				return fmt.Errorf("configuration error: %w", err)
			}
			log := logging.New(cfg.verbose, cfg.quiet)
			if cfg.rootPkg != "" {
				return runPlan(cfg, log)
			}
			return runAnalysis(cfg, log)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&cfg.input, "input", "i", ".", "Path to the root of the Go project to analyze")
	flags.StringVarP(&cfg.outputDir, "output", "o", "", "Output directory (omit for stdout)")
	flags.StringVarP(&cfg.format, "format", "f", "json", "Output format: json|msgpack")
	flags.StringVarP(&cfg.analysisLevel, "analysis-level", "a", "full", "Analysis level: symbol_table|call_graph|pdg|sdg|full")

	flags.StringVar(&cfg.cgAlgo, "cg", "rta", "Call graph algorithm: cha|rta")
	flags.BoolVar(&cfg.includeTests, "include-tests", false, "Include *_test.go files in analysis")
	flags.StringVar(&cfg.excludeDirs, "exclude-dirs", "", "Comma-separated directory basenames to exclude (e.g., vendor,.git)")
	flags.StringVar(&cfg.onlyPkg, "only-pkg", "", "Comma-separated package path filters (substring match)")
	flags.StringVar(&cfg.emitPositions, "emit-positions", "detailed", "Position verbosity: detailed|minimal")
	flags.BoolVar(&cfg.includeBody, "include-body", false, "Include function body information")
	flags.BoolVarP(&cfg.verbose, "verbose", "v", false, "Enable verbose logging to stderr")
	flags.BoolVarP(&cfg.quiet, "quiet", "q", false, "Suppress all non-error output")

	flags.StringVar(&cfg.root, "root", "", "[DEPRECATED] Use --input instead")
	flags.StringVar(&cfg.mode, "mode", "", "[DEPRECATED] Use --analysis-level instead")
	flags.StringVar(&cfg.out, "out", "", "[DEPRECATED] Use --output instead")
	flags.BoolVar(&cfg.includeTests, "include-test", false, "[DEPRECATED] Use --include-tests instead")

	flags.StringVar(&cfg.rootPkg, "root-pkg", "", "Root package import path to emit a recompiled test build plan for")
	flags.StringSliceVar(&cfg.stubs, "stub", nil, "Package import path to treat as a stub translation unit (repeatable)")
	flags.StringVar(&cfg.configPath, "config", "", "Path to an optional harnessgen.toml project config file")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "[error] %v\n", err)
		os.Exit(1)
	}
}

func handleLegacyFlags(cfg *appConfig) {
	log := logging.New(true, false)
	if cfg.root != "" {
		log.Warning("--root is deprecated, use --input instead")
		if cfg.input == "." {
			cfg.input = cfg.root
		}
	}
	if cfg.mode != "" {
		log.Warning("--mode is deprecated, use --analysis-level instead")
		if cfg.analysisLevel == "full" {
			switch cfg.mode {
			case "symbol-table":
				cfg.analysisLevel = levelSymbolTable
			case "call-graph":
				cfg.analysisLevel = levelCallGraph
			case "full":
				cfg.analysisLevel = levelFull
			default:
				cfg.analysisLevel = cfg.mode
			}
		}
	}
	if cfg.out != "" {
		log.Warning("--out is deprecated, use --output instead")
		if cfg.outputDir == "" && cfg.out != "-" {
			cfg.outputDir = filepath.Dir(cfg.out)
		}
	}
}

func validateConfig(cfg *appConfig) error {
	absInput, err := filepath.Abs(cfg.input)
	if err != nil {
		return fmt.Errorf("invalid input path: %w", err)
	}
	cfg.input = absInput

	if _, err := os.Stat(cfg.input); os.IsNotExist(err) {
		return fmt.Errorf("input path does not exist: %s", cfg.input)
	}

	validLevels := map[string]bool{
		levelSymbolTable: true,
		levelCallGraph:   true,
		levelPDG:         true,
		levelSDG:         true,
		levelFull:        true,
	}
	if !validLevels[cfg.analysisLevel] {
		return fmt.Errorf("invalid analysis-level: %s (valid: symbol_table, call_graph, pdg, sdg, full)", cfg.analysisLevel)
	}

	if cfg.format != "json" && cfg.format != "msgpack" {
		return fmt.Errorf("invalid format: %s (valid: json, msgpack)", cfg.format)
	}

	cgAlgo := strings.ToLower(cfg.cgAlgo)
	if cgAlgo != "cha" && cgAlgo != "rta" {
		return fmt.Errorf("invalid cg algorithm: %s (valid: cha, rta)", cfg.cgAlgo)
	}
	cfg.cgAlgo = cgAlgo

	if cfg.emitPositions != "detailed" && cfg.emitPositions != "minimal" {
		return fmt.Errorf("invalid emit-positions: %s (valid: detailed, minimal)", cfg.emitPositions)
	}

	return nil
}

func runAnalysis(cfg *appConfig, log *logging.Logger) error {
	startTime := time.Now()
	runID := uuid.NewString()

	log.Verbose("Starting analysis (run %s)...", runID)
	log.Verbose("  Input: %s", cfg.input)
	log.Verbose("  Level: %s", cfg.analysisLevel)
	log.Verbose("  Algorithm: %s", cfg.cgAlgo)
	log.Verbose("  Go version: %s", runtime.Version())

	needSSA := cfg.analysisLevel == levelCallGraph || cfg.analysisLevel == levelFull

	loaderOpts := loader.Options{
		IncludeTest: cfg.includeTests,
		ExcludeDirs: splitCSV(cfg.excludeDirs),
		OnlyPkg:     splitCSV(cfg.onlyPkg),
		NeedSSA:     needSSA,
	}

	log.Verbose("Loading packages...")
	result, err := loader.LoadWithSSA(cfg.input, loaderOpts)
	if err != nil {
		return fmt.Errorf("load packages: %w", err)
	}
	log.Verbose("Loaded %d packages", len(result.Packages))

	analysis := &schema.CLDKAnalysis{
		Metadata: schema.Metadata{
			Analyzer:      "harnessgen-go",
			Version:       version,
			Language:      "go",
			AnalysisLevel: cfg.analysisLevel,
			Timestamp:     time.Now().UTC().Format(time.RFC3339),
			ProjectPath:   cfg.input,
			GoVersion:     runtime.Version(),
			RunID:         runID,
		},
		PDG:    nil,
		SDG:    nil,
		Issues: []schema.Issue{},
	}

	if cfg.analysisLevel == levelSymbolTable || cfg.analysisLevel == levelFull {
		log.Verbose("Extracting symbols...")
		symbolCfg := symbols.ExtractConfig{
			IncludeBody:      cfg.includeBody,
			EmitPositions:    cfg.emitPositions,
			IncludeCallSites: cfg.includeBody,
		}
		analysis.SymbolTable = symbols.Extract(result, symbolCfg)
		log.Verbose("Extracted %d packages", len(analysis.SymbolTable.Packages))
	}

	if cfg.analysisLevel == levelCallGraph || cfg.analysisLevel == levelFull {
		log.Verbose("Building call graph with %s...", cfg.cgAlgo)
		cgCfg := callgraph.Config{
			Algorithm:     cfg.cgAlgo,
			EmitPositions: cfg.emitPositions,
			OnlyPkg:       splitCSV(cfg.onlyPkg),
		}
		cg, err := callgraph.Build(result, cgCfg)
		if err != nil {
			analysis.Issues = append(analysis.Issues, schema.Issue{
				Severity: "warning",
				Code:     "CALLGRAPH_ERROR",
				Message:  fmt.Sprintf("Failed to build call graph: %v", err),
			})
			log.Warning("call graph build failed: %v", err)
		} else {
			analysis.CallGraph = cg
			log.Verbose("Call graph: %d nodes, %d edges", len(cg.Nodes), len(cg.Edges))
		}
	}

	if cfg.analysisLevel == levelPDG || cfg.analysisLevel == levelSDG {
		analysis.Issues = append(analysis.Issues, schema.Issue{
			Severity: "info",
			Code:     "NOT_IMPLEMENTED",
			Message:  fmt.Sprintf("%s analysis is not yet implemented", strings.ToUpper(cfg.analysisLevel)),
		})
	}

	analysis.Metadata.AnalysisDurationMs = time.Since(startTime).Milliseconds()

	log.Verbose("Writing output...")
	outCfg := output.Config{
		OutputDir: cfg.outputDir,
		Format:    output.Format(cfg.format),
		Indent:    true,
	}
	if err := output.Write(analysis, outCfg); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	log.Verbose("Analysis completed in %dms", analysis.Metadata.AnalysisDurationMs)
	return nil
}

// runPlan runs the domain-specific core of the tool: load packages,
// resolve their types into a registry, project them into a compilation
// database, and emit a native test build plan rooted at cfg.rootPkg.
func runPlan(cfg *appConfig, log *logging.Logger) error {
	proj, err := config.Load(cfg.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	proj = proj.Merge(config.Project{
		ModuleRoot: cfg.input,
		Stubs:      cfg.stubs,
	})

	log.Verbose("Loading packages for plan emission...")
	result, err := loader.LoadWithSSA(cfg.input, loader.Options{
		IncludeTest: cfg.includeTests,
		ExcludeDirs: splitCSV(cfg.excludeDirs),
		OnlyPkg:     splitCSV(cfg.onlyPkg),
	})
	if err != nil {
		return fmt.Errorf("load packages: %w", err)
	}

	sizes := types.SizesFor("gc", runtime.GOARCH)
	resolver := typeregistry.NewResolver(sizes)
	resolver.RunnerModuleRoot = proj.RunnerModuleRoot
	resolver.Planner = typeregistry.NewPlanner()
	if err := typeregistry.Collect(resolver, result); err != nil {
		return fmt.Errorf("resolve types: %w", err)
	}
	log.Verbose("Resolved %d structs, %d enums, %d unions", len(resolver.Registry.Structs), len(resolver.Registry.Enums), len(resolver.Registry.Unions))

	database, objectLeafOf := buildDatabase(result)
	if err := database.Validate(); err != nil {
		return fmt.Errorf("validate compilation database: %w", err)
	}

	buildRoot := filepath.Join(cfg.input, proj.BuildDir)
	testOutputDir := filepath.Join(cfg.input, proj.TestOutputDir)
	mapper := pathmap.New(cfg.input, buildRoot)

	toolchain, err := npe.ResolveToolchain(npe.ModeExecutable)
	if err != nil {
		return fmt.Errorf("resolve toolchain: %w", err)
	}

	// Stubs are configured by import path; the emitter checks stub
	// membership against the object-leaf identifier AddObjectFile actually
	// sees, so each configured import path is translated through the
	// package-to-object-leaf map buildDatabase produced.
	stubSet := make(map[string]struct{}, len(proj.Stubs))
	for _, s := range proj.Stubs {
		if leaf, ok := objectLeafOf[s]; ok {
			stubSet[leaf] = struct{}{}
			continue
		}
		stubSet[s] = struct{}{}
	}

	emitter := npe.NewEmitter(npe.ProjectContext{
		ModuleRoot:       cfg.input,
		BuildRoot:        buildRoot,
		TestOutputDir:    testOutputDir,
		RunnerModuleRoot: proj.RunnerModuleRoot,
	}, database, mapper, toolchain, stubSet)

	if err := emitter.Init(); err != nil {
		return fmt.Errorf("init plan: %w", err)
	}

	rootResult, err := emitter.EmitRoot(cfg.rootPkg)
	if err != nil {
		return fmt.Errorf("emit link target: %w", err)
	}

	lu, err := database.LinkUnit(cfg.rootPkg)
	if err != nil {
		return fmt.Errorf("lookup root link unit: %w", err)
	}
	if err := emitter.AddTestTarget(rootResult, lu.Kind); err != nil {
		return fmt.Errorf("emit test target: %w", err)
	}

	plan := emitter.Close()

	if cfg.outputDir != "" {
		if err := os.MkdirAll(cfg.outputDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		outPath := filepath.Join(cfg.outputDir, "Makefile")
		if err := os.WriteFile(outPath, []byte(plan.Render()), 0o644); err != nil {
			return fmt.Errorf("write plan: %w", err)
		}
		log.Verbose("Wrote plan to %s", outPath)
		return nil
	}
	fmt.Print(plan.Render())
	return nil
}

// buildDatabase synthesizes a cdb.Database from a loaded package set: one
// compile unit per package, and one link unit per package output treating
// "main" packages as executables and everything else as static libraries —
// the domain-retargeted analog of a real compile_commands.json. The second
// return value maps each package's import path to its object-leaf
// identifier, needed to translate an import-path stub declaration (as
// configured in harnessgen.toml) into the identifier the emitter actually
// checks stub membership against.
func buildDatabase(result *loader.LoadResult) (*cdb.Database, map[string]string) {
	db := cdb.New()
	objectLeafOf := make(map[string]string, len(result.Packages))
	for _, pkg := range result.Packages {
		if pkg == nil {
			continue
		}
		// The object leaf is keyed by a real filesystem path derived from the
		// package's own directory, never by pkg.PkgPath itself: the path
		// mapper needs a genuine path to relativize, and the key must never
		// collide with the link unit's own output key (pkg.PkgPath) or
		// resolveInput would mistake the leaf for a link unit and recurse
		// into it instead of compiling it.
		objectLeaf := pkg.PkgPath + ".o"
		if len(pkg.CompiledGoFiles) > 0 {
			objectLeaf = filepath.Join(filepath.Dir(pkg.CompiledGoFiles[0]), pkg.Name+".pkg.o")
		}
		objectLeafOf[pkg.PkgPath] = objectLeaf
		compileCmd := buildplan.Command{
			Argv:     []string{"go", "build", "-o", objectLeaf, pkg.PkgPath},
			Compiler: "go",
			Input:    pkg.PkgPath,
			Output:   objectLeaf,
			Category: buildplan.CategoryCompile,
		}
		db.AddCompileUnit(objectLeaf, compileCmd)

		kind := buildplan.KindStaticLibrary
		category := buildplan.CategoryArchive
		if pkg.Name == "main" {
			kind = buildplan.KindExecutable
			category = buildplan.CategoryExecutableLink
		}
		inputs := make([]string, 0, len(pkg.Imports)+1)
		inputs = append(inputs, objectLeaf)
		for imp := range pkg.Imports {
			inputs = append(inputs, imp)
		}
		db.AddLinkUnit(cdb.LinkUnitInfo{
			Output: pkg.PkgPath,
			Kind:   kind,
			Inputs: inputs,
			Commands: []buildplan.Command{{
				Argv:     []string{"go", "build", "-o", pkg.PkgPath, objectLeaf},
				Compiler: "go",
				Output:   pkg.PkgPath,
				Category: category,
			}},
		})
	}
	return db, objectLeafOf
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
