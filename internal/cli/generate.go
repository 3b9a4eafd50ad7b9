package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/gridlock-dev/gridlock/pkg/integrations/llm"
)

// generateCommand creates the generate command for model-written specs.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		apiKey  string
		baseURL string
		model   string
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "generate [structure]",
		Short: "Generate a scene spec with a language model",
		Long: `Generate a scene spec with a language model.

The model designs components, constraints, and ASCII tiles for the given
structure type (castle, village, dungeon, ...). Run without arguments for an
interactive menu. The generated spec is printed or saved, ready for 'solve'.

The API key is read from --api-key or the OPENAI_API_KEY environment
variable.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			structure := ""
			if len(args) == 1 {
				structure = args[0]
			} else {
				selected, err := pickStructure()
				if err != nil {
					return err
				}
				if selected == "" {
					return nil // user quit the menu
				}
				structure = selected
			}

			if apiKey == "" {
				apiKey = os.Getenv("OPENAI_API_KEY")
			}
			store, err := newCache(noCache)
			if err != nil {
				return err
			}
			defer store.Close()

			client, err := llm.NewClient(llm.Config{
				APIKey:  apiKey,
				BaseURL: baseURL,
				Model:   model,
				Cache:   store,
			})
			if err != nil {
				return err
			}
			return c.runGenerate(cmd.Context(), client, structure, output)
		},
	}

	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key (defaults to $OPENAI_API_KEY)")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "API endpoint for OpenAI-compatible providers")
	cmd.Flags().StringVar(&model, "model", "", "completion model")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the spec to a file instead of stdout")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching of generated specs")

	return cmd
}

func (c *CLI) runGenerate(ctx context.Context, client *llm.Client, structure, output string) error {
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Generating %s spec...", structure))
	spinner.Start()

	spec, err := client.GenerateSpec(ctx, structure)
	if err != nil {
		spinner.StopWithError("Generation failed")
		return err
	}
	spinner.Stop()

	if output == "" {
		fmt.Println(spec)
		return nil
	}
	if err := os.WriteFile(output, []byte(spec), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	printSuccess("Generated %s spec", structure)
	printFile(output)
	return nil
}

// pickStructure shows the interactive structure menu. An empty return with
// no error means the user quit.
func pickStructure() (string, error) {
	m := NewStructureListModel(llm.Structures)
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return "", fmt.Errorf("run menu: %w", err)
	}
	picked, ok := final.(StructureListModel)
	if !ok {
		return "", nil
	}
	return picked.Selected, nil
}
