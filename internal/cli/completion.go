package cli

import (
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sankey/pkg/pipeline"
	"github.com/matzehuels/sankey/pkg/tree"
)

var completionShells = map[string]func(root *cobra.Command, w io.Writer) error{
	"bash":       func(r *cobra.Command, w io.Writer) error { return r.GenBashCompletionV2(w, true) },
	"zsh":        func(r *cobra.Command, w io.Writer) error { return r.GenZshCompletion(w) },
	"fish":       func(r *cobra.Command, w io.Writer) error { return r.GenFishCompletion(w, true) },
	"powershell": func(r *cobra.Command, w io.Writer) error { return r.GenPowerShellCompletionWithDesc(w) },
}

func (c *CLI) completionCommand() *cobra.Command {
	shells := make([]string, 0, len(completionShells))
	for name := range completionShells {
		shells = append(shells, name)
	}
	slices.Sort(shells)

	return &cobra.Command{
		Use:   "completion [" + strings.Join(shells, "|") + "]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for sankey.

  $ source <(sankey completion bash)
  $ sankey completion zsh > "${fpath[1]}/_sankey"
  $ sankey completion fish > ~/.config/fish/completions/sankey.fish
  PS> sankey completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             shells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return completionShells[args[0]](cmd.Root(), cmd.OutOrStdout())
		},
	}
}

// registerFlagCompletions offers the fixed value sets of the render flags
// that cmd defines.
func registerFlagCompletions(cmd *cobra.Command) {
	fixed := map[string][]string{
		"type":         sortedKeys(pipeline.ValidVizTypes),
		"align":        sortedKeys(pipeline.ValidAligns),
		"label-policy": {"wrap", "ellipsis"},
		"input-format": {tree.FormatJSON, tree.FormatYAML},
	}
	for name, values := range fixed {
		if cmd.Flags().Lookup(name) == nil {
			continue
		}
		_ = cmd.RegisterFlagCompletionFunc(name, cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp))
	}
	if cmd.Flags().Lookup("format") != nil {
		_ = cmd.RegisterFlagCompletionFunc("format", completeFormatList)
	}
}

// completeFormatList completes the last entry of a comma-separated --format
// value, skipping formats already listed.
func completeFormatList(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	done, _, _ := cutLast(toComplete, ",")
	var matches []string
	for _, f := range sortedKeys(pipeline.ValidFormats) {
		if done != "" && slices.Contains(strings.Split(done, ","), f) {
			continue
		}
		if done == "" {
			matches = append(matches, f)
		} else {
			matches = append(matches, done+","+f)
		}
	}
	return matches, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

func cutLast(s, sep string) (before, after string, found bool) {
	if i := strings.LastIndex(s, sep); i >= 0 {
		return s[:i], s[i+len(sep):], true
	}
	return "", s, false
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
