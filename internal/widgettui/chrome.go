package widgettui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m *Model) View() string {
	if !m.widget.IsOpen() {
		return lipgloss.Place(m.width, m.height, lipgloss.Right, lipgloss.Bottom, m.renderLauncher())
	}
	rows := []string{
		m.renderHeader(),
		m.viewport.View(),
		m.renderTyping(),
	}
	if buttons := m.renderQuickButtons(); buttons != "" {
		rows = append(rows, buttons)
	}
	return strings.Join(append(rows, m.renderInput(), m.renderFooter()), "\n")
}

func (m *Model) renderInput() string {
	if !m.widget.InputDisabled() {
		return m.input.View()
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Base.Muted)).
		Render(m.input.Prompt + "input disabled (ctrl+l)")
}

// renderQuickButtons draws the offered buttons on one row, highlighting the
// selected one.
func (m *Model) renderQuickButtons() string {
	buttons := m.widget.QuickButtons()
	if len(buttons) == 0 {
		return ""
	}
	parts := make([]string, len(buttons))
	for i, button := range buttons {
		style := lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.theme.Bubble.Link)).
			Padding(0, 1)
		label := "[" + button.Label + "]"
		if i == m.quickFocus {
			style = style.
				Foreground(lipgloss.Color("231")).
				Background(lipgloss.Color(m.theme.Chrome.Badge)).
				Bold(true)
			label = "›" + button.Label + "‹"
		}
		parts[i] = style.Render(label)
	}
	return truncateVis(" "+strings.Join(parts, " "), m.width)
}

func (m *Model) renderHeader() string {
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Base.Foreground)).
		Background(lipgloss.Color(m.theme.Chrome.Header)).
		Padding(0, 1).
		Width(maxInt(0, m.width))

	title := lipgloss.NewStyle().Bold(true).Render(m.cfg.Title)
	line := joinHeader(title, m.renderBadge(), m.width-2)
	return style.Render(line) + "\n" + style.Render(truncateVis(m.cfg.Subtitle, m.width-2))
}

func (m *Model) renderBadge() string {
	n := m.widget.BadgeCount()
	if n <= 0 {
		return ""
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("231")).
		Background(lipgloss.Color(m.theme.Chrome.Badge)).
		Bold(true).
		Padding(0, 1).
		Render(fmt.Sprintf("%d", n))
}

func (m *Model) renderTyping() string {
	if !m.widget.Typing() {
		return ""
	}
	return m.delegate.styles.Timestamp.UnsetAlign().Render("  typing…")
}

func (m *Model) renderFooter() string {
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Base.Muted)).
		Background(lipgloss.Color(m.theme.Chrome.Footer)).
		Padding(0, 1).
		Width(maxInt(0, m.width))

	base := "enter send  ↑/↓ pgup/pgdn scroll  ctrl+o close  ctrl+c quit"
	if len(m.widget.QuickButtons()) > 0 {
		base = "tab pick  enter choose  esc cancel  " + base
	}
	return style.Render(truncateVis(base, maxInt(0, m.width-2)))
}

func (m *Model) renderLauncher() string {
	label := " chat "
	if badge := m.renderBadge(); badge != "" {
		label += badge + " "
	}
	return lipgloss.NewStyle().
		Border(m.theme.Border()).
		BorderForeground(lipgloss.Color(m.theme.Chrome.Launcher)).
		Render(label + "\n" + lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Base.Muted)).Render(" ctrl+o "))
}

func joinHeader(left, right string, width int) string {
	if width <= 0 {
		return left
	}
	space := width - lipgloss.Width(left) - lipgloss.Width(right)
	if space < 1 {
		return truncateVis(left, width)
	}
	return left + strings.Repeat(" ", space) + right
}

// truncateVis trims s to at most width visible cells.
func truncateVis(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes)) > width-1 {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
