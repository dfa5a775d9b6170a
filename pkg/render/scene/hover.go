package scene

import "sync/atomic"

// HoverBinding toggles one label overlay. Enter shows it, Leave hides it,
// and the last event wins. Bindings share no state with each other.
type HoverBinding struct {
	node      int
	overlayID string
	visible   atomic.Bool
	released  atomic.Bool
}

func newHoverBinding(node int, overlayID string) *HoverBinding {
	return &HoverBinding{node: node, overlayID: overlayID}
}

// Node returns the index of the node whose label is bound.
func (b *HoverBinding) Node() int { return b.node }

// OverlayID returns the ID of the overlay this binding toggles.
func (b *HoverBinding) OverlayID() string { return b.overlayID }

// Enter handles pointer-enter on the label. It is a no-op once released.
func (b *HoverBinding) Enter() {
	if b.released.Load() {
		return
	}
	b.visible.Store(true)
}

// Leave handles pointer-exit. It always hides the overlay.
func (b *HoverBinding) Leave() {
	b.visible.Store(false)
}

// Visible reports whether the overlay is shown.
func (b *HoverBinding) Visible() bool {
	return !b.released.Load() && b.visible.Load()
}

// Release detaches the binding and hides its overlay.
func (b *HoverBinding) Release() {
	b.released.Store(true)
	b.visible.Store(false)
}

// Released reports whether Release was called.
func (b *HoverBinding) Released() bool { return b.released.Load() }
