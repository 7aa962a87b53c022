package ui

import (
	"os"
	"strings"

	"specter/internal/colormode"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ThemeStore is the persisted light/dark flag
type ThemeStore interface {
	Mode() colormode.Mode
	Toggle() (colormode.Mode, error)
}

// applyColorProfile honors NO_COLOR and otherwise follows the terminal
func applyColorProfile() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	lipgloss.SetColorProfile(termenv.ColorProfile())
}

// applyMode points adaptive palette colors at the light or dark variant
func applyMode(mode colormode.Mode) {
	lipgloss.SetHasDarkBackground(mode.IsDark())
}
