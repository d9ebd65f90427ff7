package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/marquee/internal/state"
)

// renderToast renders the notification line. An empty line keeps the
// layout stable when nothing is shown.
func (m Model) renderToast() string {
	bg := NewBgStyle(m.theme.Background)
	n := m.snap.Notification
	if n == nil {
		return bg.FillLine("", m.width)
	}

	styles := m.theme.Styles()
	icon := "✓"
	if n.Kind == state.NotifyFailure {
		icon = "✗"
	}
	badge := styles.StatusStyle(n.Kind.String()).Render(icon)
	msgStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.StatusColor(n.Kind.String())))
	hint := bg.Render("c: dismiss", styles.FaintText)

	room := m.width - lipgloss.Width(badge) - lipgloss.Width(hint) - 4
	line := badge + bg.Space() + bg.Render(truncate(n.Message, room), msgStyle) + bg.Spaces(2) + hint
	return bg.FillLine(line, m.width)
}
