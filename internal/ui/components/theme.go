package components

import "github.com/charmbracelet/lipgloss"

// Palette colors adapt to lipgloss's dark background flag, which the shell
// sets from the persisted color mode.
var (
	ColorPrimary = lipgloss.AdaptiveColor{Light: "25", Dark: "39"}
	ColorText    = lipgloss.AdaptiveColor{Light: "235", Dark: "252"}
	ColorMuted   = lipgloss.AdaptiveColor{Light: "244", Dark: "241"}
	ColorSuccess = lipgloss.AdaptiveColor{Light: "28", Dark: "10"}
	ColorError   = lipgloss.AdaptiveColor{Light: "160", Dark: "196"}
	ColorBorder  = lipgloss.AdaptiveColor{Light: "250", Dark: "238"}
	ColorAccent  = lipgloss.AdaptiveColor{Light: "127", Dark: "205"}
)

func TitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
}

func MutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorMuted)
}

func TextStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorText)
}

func SelectedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
}
