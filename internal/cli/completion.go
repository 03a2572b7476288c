package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for sastopo2svg.

To load completions:

Bash:
  $ source <(sastopo2svg completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ sastopo2svg completion bash > /etc/bash_completion.d/sastopo2svg
  # macOS:
  $ sastopo2svg completion bash > $(brew --prefix)/etc/bash_completion.d/sastopo2svg

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ sastopo2svg completion zsh > "${fpath[1]}/_sastopo2svg"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ sastopo2svg completion fish | source

  # To load completions for each session, execute once:
  $ sastopo2svg completion fish > ~/.config/fish/completions/sastopo2svg.fish

PowerShell:
  PS> sastopo2svg completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> sastopo2svg completion powershell > sastopo2svg.ps1
  # and source this file from your PowerShell profile.
`,
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

	return cmd
}
