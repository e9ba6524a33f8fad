// Package completion provides shell completion generation commands.
package completion

import (
	"io"

	"github.com/spf13/cobra"
)

type shell struct {
	name     string
	short    string
	long     string
	example  string
	generate func(root *cobra.Command, w io.Writer) error
}

var shells = []shell{
	{
		name:  "bash",
		short: "Generate bash completion script",
		long: `To load completions in your current shell session:

  source <(noca completion bash)

To load completions for every new session:

  # Linux
  noca completion bash > /etc/bash_completion.d/noca

  # macOS (requires bash-completion)
  noca completion bash > $(brew --prefix)/etc/bash_completion.d/noca`,
		example: `  source <(noca completion bash)`,
		generate: func(root *cobra.Command, w io.Writer) error {
			return root.GenBashCompletionV2(w, true)
		},
	},
	{
		name:  "zsh",
		short: "Generate zsh completion script",
		long: `If shell completion is not already enabled, add this to ~/.zshrc:

  autoload -Uz compinit && compinit

Then add the completion script to your fpath:

  noca completion zsh > "${fpath[1]}/_noca"

Start a new shell for completions to take effect.`,
		example: `  noca completion zsh > ~/.zsh/completions/_noca`,
		generate: func(root *cobra.Command, w io.Writer) error {
			return root.GenZshCompletion(w)
		},
	},
	{
		name:  "fish",
		short: "Generate fish completion script",
		long: `To load completions in your current shell session:

  noca completion fish | source

To load completions for every new session:

  noca completion fish > ~/.config/fish/completions/noca.fish`,
		example: `  noca completion fish | source`,
		generate: func(root *cobra.Command, w io.Writer) error {
			return root.GenFishCompletion(w, true)
		},
	},
	{
		name:  "powershell",
		short: "Generate PowerShell completion script",
		long: `To load completions in your current shell session:

  noca completion powershell | Out-String | Invoke-Expression

To load completions for every new session, add the output to your
PowerShell profile ($PROFILE).`,
		example: `  noca completion powershell >> $PROFILE`,
		generate: func(root *cobra.Command, w io.Writer) error {
			return root.GenPowerShellCompletionWithDesc(w)
		},
	},
}

// NewCmdCompletion creates the completion command.
func NewCmdCompletion() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for noca.

These scripts complete commands, flags, and the dates that have captures.
See each sub-command's help for installation instructions.`,
	}

	for _, s := range shells {
		cmd.AddCommand(newCmdShell(s))
	}

	return cmd
}

func newCmdShell(s shell) *cobra.Command {
	return &cobra.Command{
		Use:                   s.name,
		Short:                 s.short,
		Long:                  s.short + " for noca.\n\n" + s.long,
		Example:               s.example,
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return s.generate(cmd.Root(), cmd.OutOrStdout())
		},
	}
}
