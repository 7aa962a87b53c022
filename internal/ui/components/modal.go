package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	modalMaxWidth = 80
	modalMinWidth = 24
)

// ModalBodyWidth is the usable text width inside a modal for the given
// terminal width
func ModalBodyWidth(width int) int {
	w := width - 8
	if w > modalMaxWidth {
		w = modalMaxWidth
	}
	if w < modalMinWidth {
		w = modalMinWidth
	}
	return w
}

// RenderModal draws a bordered dialog box with a title, body and key help
func RenderModal(width int, title, body, help string) string {
	bodyW := ModalBodyWidth(width)

	parts := []string{TitleStyle().Render(title), "", body}
	if help != "" {
		parts = append(parts, "", MutedStyle().Width(bodyW).Render(help))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2).
		Width(bodyW + 4).
		Render(strings.Join(parts, "\n"))
}

// RenderConfirm draws a delete confirmation dialog
func RenderConfirm(width int, title, body string) string {
	return RenderModal(width, title, body, "y/enter: confirm   n/esc: cancel")
}
