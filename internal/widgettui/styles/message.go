package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

const avatarGlyph = "◉"

// MessageStyles contains pre-built styles for message rendering.
type MessageStyles struct {
	Theme Theme

	Timestamp lipgloss.Style
	Client    lipgloss.Style
	Response  lipgloss.Style
	Link      lipgloss.Style
	LinkTitle lipgloss.Style
	Component lipgloss.Style
	Avatar    lipgloss.Style
	Unread    lipgloss.Style
	Sentinel  lipgloss.Style
}

// NewMessageStyles builds a reusable style set for messages.
func NewMessageStyles(theme Theme) MessageStyles {
	return MessageStyles{
		Theme:     theme,
		Timestamp: theme.mutedStyle().Align(lipgloss.Center),
		Client:    lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Bubble.Client)),
		Response:  lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Bubble.Response)),
		Link: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Bubble.Link)).
			Underline(true),
		LinkTitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Base.Foreground)).
			Bold(true),
		Component: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Bubble.Component)).
			Border(theme.Border()).
			BorderForeground(lipgloss.Color(theme.Bubble.Component)).
			Padding(0, 1),
		Avatar: theme.accentStyle(),
		Unread: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Chrome.Badge)).
			Bold(true),
		Sentinel: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Chrome.Sentinel)).
			Italic(true).
			Align(lipgloss.Center),
	}
}

// RenderTimestamp renders a centered burst timestamp across width.
func (s MessageStyles) RenderTimestamp(label string, width int) string {
	return s.Timestamp.Width(maxInt(0, width)).Render(label)
}

// RenderAvatar renders the response avatar column, blank when hidden.
func (s MessageStyles) RenderAvatar(show bool) string {
	if !show {
		return " "
	}
	return s.Avatar.Render(avatarGlyph)
}

// RenderUnreadIndicator renders a bold unread dot.
func (s MessageStyles) RenderUnreadIndicator(unread bool) string {
	if !unread {
		return ""
	}
	return s.Unread.Render("●")
}

// RenderSentinel renders the top-of-history marker.
func (s MessageStyles) RenderSentinel(label string, width int) string {
	return s.Sentinel.Width(maxInt(0, width)).Render(label)
}

// RightAlign pads every line of block so it ends at width.
func RightAlign(block string, width int) string {
	return lipgloss.PlaceHorizontal(maxInt(lipgloss.Width(block), width), lipgloss.Right, block)
}

// WrapBody wraps each paragraph of body to width.
func WrapBody(body string, width int) string {
	if width <= 0 {
		return body
	}

	parts := strings.Split(body, "\n")
	for i := range parts {
		parts[i] = wordwrap.String(parts[i], width)
	}
	return strings.Join(parts, "\n")
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
