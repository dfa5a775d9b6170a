package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Terminal palette. Light variants keep status lines readable on white
// backgrounds.
var (
	colorCyan   = lipgloss.AdaptiveColor{Light: "30", Dark: "36"}
	colorGreen  = lipgloss.AdaptiveColor{Light: "28", Dark: "35"}
	colorYellow = lipgloss.AdaptiveColor{Light: "136", Dark: "220"}
	colorRed    = lipgloss.AdaptiveColor{Light: "124", Dark: "167"}
	colorBlue   = lipgloss.AdaptiveColor{Light: "25", Dark: "75"}
	colorWhite  = lipgloss.AdaptiveColor{Light: "232", Dark: "255"}
	colorGray   = lipgloss.AdaptiveColor{Light: "242", Dark: "245"}
	colorDim    = lipgloss.AdaptiveColor{Light: "247", Dark: "240"}
)

var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
)

const (
	iconError = "✗"
	iconInfo  = "›"
	iconArrow = "→"
	separator = " · "
)

// statusKind pairs a leading icon with its color.
type statusKind struct {
	icon  string
	style lipgloss.Style
}

var (
	statusSuccess = statusKind{"✓", lipgloss.NewStyle().Foreground(colorGreen)}
	statusError   = statusKind{iconError, styleIconError}
	statusWarning = statusKind{"!", lipgloss.NewStyle().Foreground(colorYellow)}
	statusInfo    = statusKind{iconInfo, lipgloss.NewStyle().Foreground(colorGray)}
)

// out is where status lines go. Tests swap it for a buffer.
var out io.Writer = os.Stdout

func (k statusKind) print(body string) {
	fmt.Fprintln(out, k.style.Render(k.icon)+" "+body)
}

func printSuccess(format string, args ...any) { statusSuccess.print(fmt.Sprintf(format, args...)) }
func printError(format string, args ...any)   { statusError.print(fmt.Sprintf(format, args...)) }
func printInfo(format string, args ...any)    { statusInfo.print(fmt.Sprintf(format, args...)) }

func printWarning(format string, args ...any) {
	statusWarning.print(StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printDetail prints an indented secondary line under a status line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(out, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile lists one written artifact.
func printFile(path string) {
	fmt.Fprintf(out, "  %s %s\n", StyleDim.Render(iconArrow), StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(out, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printStats summarizes a render pass, e.g.
// "18 nodes · 17 links · 3 truncated labels · cached".
func printStats(nodeCount, linkCount, truncated int, cached bool) {
	parts := []string{
		StyleDim.Render(fmt.Sprintf("%d nodes", nodeCount)),
		StyleDim.Render(fmt.Sprintf("%d links", linkCount)),
	}
	if truncated > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d truncated labels", truncated)))
	}
	if cached {
		parts = append(parts, statusSuccess.style.Render("cached"))
	} else {
		parts = append(parts, statusInfo.style.Render("fresh"))
	}
	fmt.Fprintln(out, "  "+strings.Join(parts, StyleDim.Render(separator)))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Fprintf(out, "%s %s\n", StyleDim.Render(description+":"), styleCommand.Render(cmd))
}
