package cli

import (
	"bytes"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			root := New(&bytes.Buffer{}, log.InfoLevel).RootCommand()
			var buf bytes.Buffer
			root.SetOut(&buf)
			root.SetArgs([]string{"completion", shell})
			if err := root.Execute(); err != nil {
				t.Fatalf("completion %s: %v", shell, err)
			}
			if !strings.Contains(buf.String(), "sankey") {
				t.Errorf("%s script does not mention the command name", shell)
			}
		})
	}
}

func TestCompleteFormatList(t *testing.T) {
	tests := []struct {
		toComplete string
		want       []string
	}{
		{"", []string{"json", "pdf", "png", "svg"}},
		{"s", []string{"json", "pdf", "png", "svg"}},
		{"svg,", []string{"svg,json", "svg,pdf", "svg,png"}},
		{"svg,png,j", []string{"svg,png,json", "svg,png,pdf"}},
	}
	for _, tt := range tests {
		t.Run(tt.toComplete, func(t *testing.T) {
			got, directive := completeFormatList(nil, nil, tt.toComplete)
			if !slices.Equal(got, tt.want) {
				t.Errorf("completeFormatList(%q) = %v, want %v", tt.toComplete, got, tt.want)
			}
			if directive&cobra.ShellCompDirectiveNoSpace == 0 {
				t.Error("format completion should not append a space")
			}
		})
	}
}

func TestFlagCompletionsRegistered(t *testing.T) {
	c := New(&bytes.Buffer{}, log.InfoLevel)
	render := c.renderCommand()
	for _, flag := range []string{"format", "type", "align", "label-policy", "input-format"} {
		if _, ok := render.GetFlagCompletionFunc(flag); !ok {
			t.Errorf("render --%s has no completion", flag)
		}
	}
}
