package components

import "github.com/charmbracelet/lipgloss"

// BannerKind separates success notices from errors
type BannerKind int

const (
	BannerNone BannerKind = iota
	BannerSuccess
	BannerError
)

// Banner is the dismissible notice shown above a page's content
type Banner struct {
	Kind BannerKind
	Text string
}

func Success(text string) Banner { return Banner{Kind: BannerSuccess, Text: text} }

func Error(text string) Banner { return Banner{Kind: BannerError, Text: text} }

func (b Banner) Visible() bool { return b.Kind != BannerNone && b.Text != "" }

func (b Banner) IsError() bool { return b.Kind == BannerError }

// View renders the banner, or an empty string when nothing is shown
func (b Banner) View(width int) string {
	if !b.Visible() {
		return ""
	}

	color := ColorSuccess
	icon := "✓"
	if b.Kind == BannerError {
		color = ColorError
		icon = "✗"
	}

	style := lipgloss.NewStyle().
		Bold(true).
		Foreground(color).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(color).
		Padding(0, 1)
	if width > 4 {
		style = style.Width(width - 2)
	}

	return style.Render(icon+" "+b.Text) + "\n" + MutedStyle().PaddingLeft(2).Render("esc/x: dismiss")
}
