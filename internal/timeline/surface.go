package timeline

// ScrollOptions controls how a surface performs a scroll.
type ScrollOptions struct {
	Animated bool
}

// ScrollSurface abstracts the scrollable viewport that displays the timeline.
//
// Extents and offsets are in the surface's own unit (pixels, terminal rows).
// ContentExtent must reflect the most recently published snapshot by the
// time the Anchor handles that snapshot's change, so the renderer that lays
// out content has to subscribe to the Store before the Anchor does.
type ScrollSurface interface {
	// ContentExtent is the total scrollable content height.
	ContentExtent() int
	// VisibleOffset is the distance from the content top to the viewport top.
	VisibleOffset() int
	// ScrollTo moves the viewport top to offset, clamped to the scrollable range.
	ScrollTo(offset int, opts ScrollOptions)
	// IsNearTop reports whether the top-of-history sentinel is fully visible.
	IsNearTop() bool
	// IsAtBottom reports whether the viewport is within epsilon of the bottom.
	IsAtBottom() bool
}

// scrollToBottom scrolls the surface so the last content row is visible.
func scrollToBottom(surface ScrollSurface, animated bool) {
	surface.ScrollTo(surface.ContentExtent(), ScrollOptions{Animated: animated})
}
