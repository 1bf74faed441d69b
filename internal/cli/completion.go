package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// completionShells lists the shells completion scripts can be generated for.
var completionShells = []string{"bash", "zsh", "fish", "powershell"}

// completionCommand creates the completion command.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for popcon and write it to stdout.

Load completions in the current shell:

  bash:        source <(popcon completion bash)
  zsh:         source <(popcon completion zsh)
  fish:        popcon completion fish | source
  powershell:  popcon completion powershell | Out-String | Invoke-Expression

To load them in every session, write the script to your shell's completion
directory, for example:

  popcon completion bash > /etc/bash_completion.d/popcon
  popcon completion zsh > "${fpath[1]}/_popcon"
  popcon completion fish > ~/.config/fish/completions/popcon.fish
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             completionShells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, out := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(out)
			}
			return fmt.Errorf("unsupported shell %q", args[0])
		},
	}

	return cmd
}
