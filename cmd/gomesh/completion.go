package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion script for gomesh.

To load completions:

Bash:

  $ source <(gomesh completion bash)

  To load completions for each session, execute once:
  Linux:
    $ gomesh completion bash > /etc/bash_completion.d/gomesh
  macOS:
    $ gomesh completion bash > /usr/local/etc/bash_completion.d/gomesh

Zsh:

  If shell completion is not already enabled in your environment,
  you will need to enable it. You can execute the following once:

  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  To load completions for each session, execute once:
  $ gomesh completion zsh > "${fpath[1]}/_gomesh"

  You will need to start a new shell for this setup to take effect.

Fish:

  $ gomesh completion fish | source

  To load completions for each session, execute once:
  $ gomesh completion fish > ~/.config/fish/completions/gomesh.fish
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletionV2(out, true)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletionWithDesc(out)
		}
		return fmt.Errorf("unsupported shell %q", args[0])
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

// meshFileCompletion completes the arguments of commands that read meshes
func meshFileCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{"stl", "obj"}, cobra.ShellCompDirectiveFilterFileExt
}
