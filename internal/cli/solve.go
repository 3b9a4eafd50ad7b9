package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gridlock-dev/gridlock/pkg/layout"
	"github.com/gridlock-dev/gridlock/pkg/layout/dsl"
	"github.com/gridlock-dev/gridlock/pkg/pipeline"
)

// solveOpts holds the command-line flags for the solve command.
type solveOpts struct {
	output    string   // output file path (or base path for multiple formats)
	formats   []string // output formats: "text", "json", "dot", "svg"
	name      string   // scene name stored in JSON output
	legend    bool     // append a component legend to text output
	detailed  bool     // include positions in DOT node labels
	noCache   bool     // disable the local result cache
	refresh   bool     // recompute even on a cache hit
	timeout   time.Duration
	maxIter   int
	maxSlide  int
	maxExtent int
}

// solveCommand creates the solve command.
func (c *CLI) solveCommand() *cobra.Command {
	var formatsStr string
	opts := solveOpts{timeout: 30 * time.Second}

	cmd := &cobra.Command{
		Use:   "solve [spec.md]",
		Short: "Solve a scene spec and print or save the result",
		Long: `Solve a scene spec and print or save the result.

The spec lists components with ASCII tiles and ADJACENT(a, b, dir)
constraints. The solver searches for a placement of every component that
satisfies every constraint and renders the assembled grid.

Results are cached locally; identical specs solve instantly on repeat runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			return c.runSolve(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): text (default), json, dot, svg (comma-separated)")
	cmd.Flags().StringVar(&opts.name, "name", "", "scene name (defaults to the spec filename)")
	cmd.Flags().BoolVar(&opts.legend, "legend", false, "append a component legend to text output")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show positions and sizes in DOT output")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even if a cached result exists")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", opts.timeout, "abort the solve after this duration")
	cmd.Flags().IntVar(&opts.maxIter, "max-iterations", 0, "search iteration limit (0 = default)")
	cmd.Flags().IntVar(&opts.maxSlide, "max-slide", 0, "maximum conflict slide distance (0 = default)")
	cmd.Flags().IntVar(&opts.maxExtent, "max-extent", 0, "maximum grid dimension (0 = default)")

	return cmd
}

func (c *CLI) runSolve(ctx context.Context, input string, opts solveOpts) error {
	specText, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read spec %s: %w", input, err)
	}
	name := opts.name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	spinner := newSpinnerWithContext(ctx, "Solving...")
	spinner.Start()

	result, err := runner.Execute(ctx, pipeline.Options{
		SpecText: string(specText),
		Name:     name,
		Limits: layout.Limits{
			MaxIterations:    opts.maxIter,
			MaxSlideDistance: opts.maxSlide,
			MaxGridExtent:    opts.maxExtent,
		},
		Formats:  opts.formats,
		Legend:   opts.legend,
		Detailed: opts.detailed,
		Refresh:  opts.refresh,
		Logger:   c.Logger,
	})
	if err != nil {
		spinner.StopWithError("Solve failed")
		return err
	}
	spinner.Stop()

	if !result.Scene.Solved {
		printError("No placement satisfies every constraint")
		printStats(result.Stats.Components, result.Scene.Stats.Iterations,
			result.Scene.Stats.Backtracks, result.CacheInfo.SolveHit)
		return fmt.Errorf("unsatisfiable spec")
	}

	printSuccess("Placed %d components", result.Stats.Components)
	printStats(result.Stats.Components, result.Scene.Stats.Iterations,
		result.Scene.Stats.Backtracks, result.CacheInfo.SolveHit)

	return writeArtifacts(result.Artifacts, opts.formats, input, opts.output)
}

// writeArtifacts writes rendered outputs to stdout or files. With no output
// path and a single text format the artifact goes to stdout; otherwise each
// format gets a file named after the input (or the given base path).
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) error {
	if output == "" && len(formats) == 1 && formats[0] == pipeline.FormatText {
		fmt.Println(string(artifacts[pipeline.FormatText]))
		return nil
	}

	base := output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	}
	for _, format := range formats {
		path := base
		if len(formats) > 1 || output == "" || filepath.Ext(output) == "" {
			path = base + "." + extensionFor(format)
		}
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}

func extensionFor(format string) string {
	if format == pipeline.FormatText {
		return "txt"
	}
	return format
}

// parseSpecFile loads and parses a spec, shared by check and solve paths
// that need the parsed form rather than the pipeline.
func parseSpecFile(input string) (*dsl.Spec, error) {
	spec, err := dsl.ParseFile(input)
	if err != nil {
		return nil, fmt.Errorf("parse spec %s: %w", input, err)
	}
	return spec, nil
}
