package cli

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sankey/pkg/labelfit"
	"github.com/matzehuels/sankey/pkg/pipeline"
	"github.com/matzehuels/sankey/pkg/render/scene"
	"github.com/matzehuels/sankey/pkg/render/style"
	"github.com/matzehuels/sankey/pkg/sankey"
)

// cellWidth is the pixel width assumed for one terminal cell when labels
// are fitted for the browser.
const cellWidth = 7.0

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	detailBoxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
)

// nodesCommand creates the nodes command.
func (c *CLI) nodesCommand() *cobra.Command {
	var (
		interactive bool
		policy      string
	)

	cmd := &cobra.Command{
		Use:   "nodes [tree.json|tree.yaml]",
		Short: "List the flattened nodes of a tree",
		Long: `List the flattened nodes of a tree with their fitted labels.

With --interactive (-i) the nodes open in a browser: moving the cursor onto
a node hovers its label, which reveals the full text of truncated labels.
Resizing the terminal re-fits every label.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := cfg.Options()
			if cmd.Flags().Changed("label-policy") {
				opts.Policy = policy
			}
			opts.Logger = loggerFromContext(cmd.Context())

			b, err := newNodeBrowser(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			defer b.surface.Clear()

			if !interactive {
				if err := b.rebuild(int(opts.Style.LabelWidth / cellWidth)); err != nil {
					return err
				}
				fmt.Fprintln(out, b.table(0, len(b.nodes)))
				return nil
			}
			_, err = tea.NewProgram(b, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse nodes interactively")
	cmd.Flags().StringVar(&policy, "label-policy", "wrap", "label fitting: wrap, ellipsis")
	registerFlagCompletions(cmd)

	return cmd
}

// =============================================================================
// nodeBrowser - Interactive node browser
// =============================================================================

// nodeBrowser is the bubbletea model behind `sankey nodes -i`. The cursor
// plays the pointer: entering a row calls Enter on the node's hover
// binding, leaving it calls Leave.
type nodeBrowser struct {
	ctx     context.Context
	opts    pipeline.Options
	nodes   []sankey.PositionedNode
	height  float64
	surface *scene.Surface

	texts  map[int]scene.Text
	cursor int
	offset int
	rows   int
	detail viewport.Model
	err    error
}

// newNodeBrowser runs the layout stages once. Scenes are built per
// terminal width by rebuild.
func newNodeBrowser(ctx context.Context, input string, opts pipeline.Options) (*nodeBrowser, error) {
	root, err := pipeline.Load(input)
	if err != nil {
		return nil, err
	}
	g, err := pipeline.Flatten(ctx, root)
	if err != nil {
		return nil, err
	}
	pos, height, err := pipeline.ComputeLayout(ctx, g, opts)
	if err != nil {
		return nil, err
	}
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	return &nodeBrowser{
		ctx:     ctx,
		opts:    opts,
		nodes:   pos.Nodes,
		height:  height,
		surface: &scene.Surface{},
		rows:    15,
		detail:  viewport.New(60, 6),
	}, nil
}

// rebuild fits labels into labelCells terminal cells and installs the new
// scene. The cursor row is hovered again on the new scene.
func (b *nodeBrowser) rebuild(labelCells int) error {
	st := style.Default()
	if b.opts.Style != nil {
		st = *b.opts.Style
	}
	st.LabelWidth = float64(max(labelCells, 4)) * cellWidth
	st.FontSize = cellWidth * 2
	st.LineHeight = 1

	opts := b.opts
	opts.Style = &st
	opts.Measurer = labelfit.CellMeasurer{CellWidth: cellWidth}
	opts.Surface = b.surface

	sc, err := pipeline.BuildScene(b.ctx, sankey.Positioned{Nodes: b.nodes}, b.height, opts)
	if err != nil {
		return err
	}
	b.texts = make(map[int]scene.Text, len(sc.Texts))
	for _, t := range sc.Texts {
		b.texts[t.Node] = t
	}
	b.enter()
	return nil
}

func (b *nodeBrowser) scene() *scene.Scene { return b.surface.Current() }

// hovered returns the live binding under the cursor, if it is shown.
func (b *nodeBrowser) hovered() *scene.HoverBinding {
	sc := b.scene()
	if sc == nil || len(b.nodes) == 0 {
		return nil
	}
	if hb, ok := sc.Binding(b.nodes[b.cursor].Index); ok && hb.Visible() {
		return hb
	}
	return nil
}

func (b *nodeBrowser) enter() {
	if sc := b.scene(); sc != nil && len(b.nodes) > 0 {
		if hb, ok := sc.Binding(b.nodes[b.cursor].Index); ok {
			hb.Enter()
		}
	}
}

func (b *nodeBrowser) leave() {
	if sc := b.scene(); sc != nil && len(b.nodes) > 0 {
		if hb, ok := sc.Binding(b.nodes[b.cursor].Index); ok {
			hb.Leave()
		}
	}
}

// move shifts the cursor by delta rows, leaving the old row and entering
// the new one.
func (b *nodeBrowser) move(delta int) {
	next := min(max(b.cursor+delta, 0), len(b.nodes)-1)
	if next == b.cursor || next < 0 {
		return
	}
	b.leave()
	b.cursor = next
	b.enter()
	if b.cursor < b.offset {
		b.offset = b.cursor
	}
	if b.cursor >= b.offset+b.rows {
		b.offset = b.cursor - b.rows + 1
	}
}

func (b *nodeBrowser) Init() tea.Cmd {
	return nil
}

func (b *nodeBrowser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return b, tea.Quit
		case "up", "k":
			b.move(-1)
		case "down", "j":
			b.move(1)
		case "pgup":
			b.move(-b.rows)
		case "pgdown":
			b.move(b.rows)
		}
	case tea.WindowSizeMsg:
		b.rows = max(msg.Height-14, 3)
		b.detail.Width = max(msg.Width-4, 20)
		b.detail.Height = 6
		if err := b.rebuild(msg.Width / 4); err != nil {
			b.err = err
			return b, tea.Quit
		}
	}
	if b.scene() == nil {
		if err := b.rebuild(int(style.Default().LabelWidth / cellWidth)); err != nil {
			b.err = err
			return b, tea.Quit
		}
	}
	b.detail.SetContent(b.details())
	return b, nil
}

func (b *nodeBrowser) View() string {
	if b.err != nil {
		return styleIconError.Render(iconError) + " " + b.err.Error() + "\n"
	}
	var s strings.Builder
	s.WriteString(StyleTitle.Render("Nodes"))
	s.WriteString("\n")
	s.WriteString(listDimStyle.Render("↑/↓ navigate  pgup/pgdn page  q quit"))
	s.WriteString("\n\n")
	s.WriteString(b.table(b.offset, min(b.offset+b.rows, len(b.nodes))))
	s.WriteString("\n")
	s.WriteString(detailBoxStyle.Render(b.detail.View()))
	s.WriteString("\n")
	s.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", b.cursor+1, len(b.nodes))))
	return s.String()
}

// table renders rows [from, to) of the node list.
func (b *nodeBrowser) table(from, to int) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, 0, to-from)
	for i := from; i < to; i++ {
		n := b.nodes[i]
		cursor := "  "
		if i == b.cursor {
			cursor = "▸ "
		}
		label := strings.Join(b.texts[n.Index].Lines, " / ")
		rows = append(rows, []string{
			cursor,
			strconv.Itoa(n.Index),
			strings.Repeat("  ", n.Depth) + label,
			strconv.FormatFloat(n.Value, 'f', -1, 64),
			"■",
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "Label", "Value", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			i := from + row
			if i >= to {
				return lipgloss.NewStyle()
			}
			if col == 4 {
				return lipgloss.NewStyle().Foreground(lipgloss.Color(b.nodes[i].Color))
			}
			if i == b.cursor {
				return listSelectedStyle
			}
			if b.texts[b.nodes[i].Index].Truncated {
				return StyleWarning
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// details describes the node under the cursor, including the label
// overlay when its binding shows it.
func (b *nodeBrowser) details() string {
	if len(b.nodes) == 0 {
		return listDimStyle.Render("empty tree")
	}
	n := b.nodes[b.cursor]
	var s strings.Builder
	fmt.Fprintf(&s, "%s %s\n", StyleHighlight.Render("value"), plainText(n.TooltipMarkup))
	fmt.Fprintf(&s, "%s %d  %s %d  %s %.1fpx\n",
		StyleHighlight.Render("depth"), n.Depth,
		StyleHighlight.Render("column"), n.Column,
		StyleHighlight.Render("height"), n.Height())
	if hb := b.hovered(); hb != nil {
		if o, ok := b.scene().Overlay(hb.OverlayID()); ok {
			fmt.Fprintf(&s, "%s %s\n", StyleHighlight.Render("label"), StyleValue.Render(o.Text))
		}
	} else if t, ok := b.texts[n.Index]; ok {
		fmt.Fprintf(&s, "%s %s\n", StyleHighlight.Render("label"), strings.Join(t.Lines, " "))
	}
	return s.String()
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// plainText strips tooltip markup down to its text.
func plainText(markup string) string {
	return html.UnescapeString(tagPattern.ReplaceAllString(markup, ""))
}
