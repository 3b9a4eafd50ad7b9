package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gridlock-dev/gridlock/pkg/layout"
	"github.com/gridlock-dev/gridlock/pkg/render"
)

// checkCommand creates the check command for validating specs.
func (c *CLI) checkCommand() *cobra.Command {
	var (
		timeout  time.Duration
		treePath string
	)

	cmd := &cobra.Command{
		Use:   "check [spec.md]",
		Short: "Validate a spec and report constraint satisfaction",
		Long: `Validate a spec and report constraint satisfaction.

The spec is parsed and solved without caching, then every constraint is
listed with its outcome. The command exits non-zero if the spec cannot be
parsed or no valid placement exists. With --tree the recorded search tree is
written as a Graphviz DOT file, including rejected branches.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCheck(cmd.Context(), args[0], timeout, treePath)
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "abort the solve after this duration")
	cmd.Flags().StringVar(&treePath, "tree", "", "write the search tree as DOT to this file")

	return cmd
}

func (c *CLI) runCheck(ctx context.Context, input string, timeout time.Duration, treePath string) error {
	spec, err := parseSpecFile(input)
	if err != nil {
		return err
	}
	printInfo("Parsed %d components, %d constraints", len(spec.Components), len(spec.Constraints))

	solver := layout.NewSolver(layout.Limits{})
	if err := spec.Apply(solver); err != nil {
		return fmt.Errorf("invalid spec: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	p := newProgress(c.Logger)
	solved, err := solver.Solve(ctx)
	if err != nil {
		return fmt.Errorf("solve: %w", err)
	}
	stats := solver.Stats()
	p.done(fmt.Sprintf("Searched %d iterations, %d backtracks", stats.Iterations, stats.Backtracks))

	if treePath != "" {
		dot := render.TreeDOT(solver.Tree())
		if err := os.WriteFile(treePath, []byte(dot), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", treePath, err)
		}
		printFile(treePath)
	}

	for _, ct := range solver.Constraints() {
		ok, err := solver.Satisfied(ct)
		if err != nil {
			return err
		}
		if ok {
			printSuccess("%s", ct.String())
		} else {
			printError("%s", ct.String())
		}
	}

	if !solved {
		return fmt.Errorf("unsatisfiable spec")
	}
	printDetail("All constraints satisfied")
	return nil
}
