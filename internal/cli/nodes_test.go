package cli

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/sankey/pkg/config"
)

func newTestBrowser(t *testing.T) *nodeBrowser {
	t.Helper()
	input := writeTestTree(t)
	b, err := newNodeBrowser(context.Background(), input, config.Default().Options())
	if err != nil {
		t.Fatalf("newNodeBrowser: %v", err)
	}
	t.Cleanup(b.surface.Clear)
	return b
}

// truncatedRow returns the first row whose label was cut.
func truncatedRow(t *testing.T, b *nodeBrowser) int {
	t.Helper()
	for i, n := range b.nodes {
		if b.texts[n.Index].Truncated {
			return i
		}
	}
	t.Fatal("no truncated label")
	return -1
}

func TestNodeBrowserHoverFollowsCursor(t *testing.T) {
	b := newTestBrowser(t)
	if err := b.rebuild(10); err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if len(b.texts) != len(b.nodes) {
		t.Fatalf("texts = %d, want one per node (%d)", len(b.texts), len(b.nodes))
	}

	row := truncatedRow(t, b)
	b.move(row - b.cursor)
	hb := b.hovered()
	if hb == nil {
		t.Fatal("cursor on a truncated label should show its overlay")
	}
	if !strings.Contains(b.details(), "by the risk team") {
		t.Errorf("details should show the full label, got %q", b.details())
	}

	if row > 0 {
		b.move(-1)
	} else {
		b.move(1)
	}
	if hb.Visible() {
		t.Error("leaving the row should hide the overlay")
	}
}

func TestNodeBrowserRebuildReleasesBindings(t *testing.T) {
	b := newTestBrowser(t)
	if err := b.rebuild(10); err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	row := truncatedRow(t, b)
	b.move(row - b.cursor)
	old := b.hovered()
	if old == nil {
		t.Fatal("expected a hovered binding")
	}

	if err := b.rebuild(12); err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if !old.Released() {
		t.Error("bindings of the previous scene should be released")
	}
	if old.Visible() {
		t.Error("released binding should be hidden")
	}
	if b.cursor != row {
		t.Errorf("cursor = %d, rebuild should keep %d", b.cursor, row)
	}
}

func TestNodeBrowserMoveClamps(t *testing.T) {
	b := newTestBrowser(t)
	if err := b.rebuild(20); err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	b.move(-5)
	if b.cursor != 0 {
		t.Errorf("cursor = %d, want 0", b.cursor)
	}
	b.move(100)
	if b.cursor != len(b.nodes)-1 {
		t.Errorf("cursor = %d, want %d", b.cursor, len(b.nodes)-1)
	}
}

func TestNodeBrowserUpdate(t *testing.T) {
	b := newTestBrowser(t)

	_, cmd := b.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	if cmd != nil || b.err != nil {
		t.Fatalf("resize: cmd=%v err=%v", cmd, b.err)
	}
	if b.rows != 26 {
		t.Errorf("rows = %d, want 26", b.rows)
	}

	b.Update(tea.KeyMsg{Type: tea.KeyDown})
	if b.cursor != 1 {
		t.Errorf("cursor = %d after down, want 1", b.cursor)
	}

	_, cmd = b.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Error("q should quit")
	}

	view := b.View()
	if !strings.Contains(view, "Card") || !strings.Contains(view, "[2/6]") {
		t.Errorf("view missing rows or position:\n%s", view)
	}
}

func TestPlainText(t *testing.T) {
	got := plainText(`<div class="v">1K &amp; more</div><div>100%</div>`)
	if got != "1K & more100%" {
		t.Errorf("plainText = %q", got)
	}
}
