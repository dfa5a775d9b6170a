package cli

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

// captureOut redirects status output into a buffer until restoreOut.
func captureOut() *bytes.Buffer {
	var buf bytes.Buffer
	out = &buf
	return &buf
}

func restoreOut() { out = os.Stdout }

func TestPrintStats(t *testing.T) {
	tests := []struct {
		name      string
		truncated int
		cached    bool
		want      []string
		wantNot   []string
	}{
		{"fresh", 0, false, []string{"18 nodes", "17 links", "fresh"}, []string{"truncated", "cached"}},
		{"cached", 0, true, []string{"cached"}, []string{"fresh"}},
		{"truncated", 2, false, []string{"2 truncated labels"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureOut()
			defer restoreOut()

			printStats(18, 17, tt.truncated, tt.cached)
			got := buf.String()
			for _, s := range tt.want {
				if !strings.Contains(got, s) {
					t.Errorf("printStats output %q missing %q", got, s)
				}
			}
			for _, s := range tt.wantNot {
				if strings.Contains(got, s) {
					t.Errorf("printStats output %q should not contain %q", got, s)
				}
			}
		})
	}
}

func TestPrintHelpers(t *testing.T) {
	tests := []struct {
		name  string
		print func()
		want  string
	}{
		{"success", func() { printSuccess("wrote %d", 3) }, "wrote 3"},
		{"error", func() { printError("failed") }, iconError},
		{"warning", func() { printWarning("careful") }, "careful"},
		{"info", func() { printInfo("note") }, iconInfo},
		{"detail", func() { printDetail("dir %s", "/tmp") }, "dir /tmp"},
		{"file", func() { printFile("out.svg") }, "out.svg"},
		{"key value", func() { printKeyValue("Listening", ":8080") }, ":8080"},
		{"next step", func() { printNextStep("Browse", "sankey nodes -i t.json") }, "sankey nodes -i t.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureOut()
			defer restoreOut()

			tt.print()
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output %q missing %q", buf.String(), tt.want)
			}
			if !strings.HasSuffix(buf.String(), "\n") {
				t.Error("output should end with a newline")
			}
		})
	}
}
