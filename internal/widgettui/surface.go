package widgettui

import (
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/tOgg1/chatline/internal/timeline"
)

// sentinelLines is the height of the top-of-history marker.
const sentinelLines = 1

// viewportSurface exposes a bubbles viewport as a timeline.ScrollSurface.
// Units are terminal rows.
type viewportSurface struct {
	vp *viewport.Model
}

var _ timeline.ScrollSurface = viewportSurface{}

func (s viewportSurface) ContentExtent() int {
	return s.vp.TotalLineCount()
}

func (s viewportSurface) VisibleOffset() int {
	return s.vp.YOffset
}

// ScrollTo ignores Animated: a terminal repaint is already instantaneous.
func (s viewportSurface) ScrollTo(offset int, _ timeline.ScrollOptions) {
	s.vp.SetYOffset(offset)
}

// IsNearTop reports whether the sentinel row is fully visible.
func (s viewportSurface) IsNearTop() bool {
	return s.vp.YOffset <= 0 && s.vp.TotalLineCount() >= sentinelLines
}

func (s viewportSurface) IsAtBottom() bool {
	return s.vp.AtBottom()
}
