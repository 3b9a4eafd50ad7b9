package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// completionCommand creates the shell completion generator.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for the given shell on stdout.

Load it for the current session:

  bash:       source <(gridlock completion bash)
  zsh:        source <(gridlock completion zsh)
  fish:       gridlock completion fish | source
  powershell: gridlock completion powershell | Out-String | Invoke-Expression

To install permanently, write the script where your shell picks it up, e.g.
/etc/bash_completion.d/gridlock for bash or "${fpath[1]}/_gridlock" for zsh
(zsh needs compinit enabled first).`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
}
