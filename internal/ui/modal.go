package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Modal is a dialog drawn over the main layout.
type Modal interface {
	View(theme Theme, width, height int) string
}

var (
	_ Modal = editForm{}
	_ Modal = confirmDialog{}
)

// placeModal frames content and centers it on screen.
func placeModal(theme Theme, width, height, modalWidth int, content string) string {
	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Accent)).
		Padding(1, 2).
		Width(modalWidth)

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(content),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}
