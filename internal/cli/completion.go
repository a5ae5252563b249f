package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/linkdrift/pkg/pipeline"
	"github.com/matzehuels/linkdrift/pkg/seed"
)

// sceneExtensions are the file types a scene argument completes to.
var sceneExtensions = []string{"json", "toml"}

// completionCommand prints a shell completion script.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for linkdrift.

Scene arguments complete to .json and .toml files; --policy and --format
complete to the values linkdrift accepts.

  bash:        source <(linkdrift completion bash)
  zsh:         linkdrift completion zsh > "${fpath[1]}/_linkdrift"
  fish:        linkdrift completion fish > ~/.config/fish/completions/linkdrift.fish
  powershell:  linkdrift completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return fmt.Errorf("unsupported shell %q", args[0])
		},
	}
}

// completeScene makes cmd's single positional argument complete to scene files.
func completeScene(cmd *cobra.Command) {
	cmd.ValidArgsFunction = func(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return sceneExtensions, cobra.ShellCompDirectiveFilterFileExt
	}
}

func completePolicy(cmd *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return []string{
		seed.PolicyDeterministic + "\tsame seeds for the same link on every run",
		seed.PolicyRandom + "\tfresh seeds, kept for the session",
	}, cobra.ShellCompDirectiveNoFileComp
}

// completeFormats completes the comma-separated --format list, offering only
// formats not already given.
func completeFormats(cmd *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	done := ""
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		done = toComplete[:i+1]
	}
	var given []string
	if done != "" {
		given = parseFormats(done)
	}

	var out []string
	for _, f := range pipeline.ValidFormats {
		if !slices.Contains(given, f) {
			out = append(out, done+f)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}
