package pages

import (
	"errors"
	"log/slog"

	"specter/internal/api"
	"specter/internal/logging"
	"specter/internal/ui/components"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Options carries what every page needs besides its API
type Options struct {
	Logger *slog.Logger
	Dark   bool

	// Where downloaded reports are written; empty means the working directory
	DownloadDir string

	// Where the file chooser starts; empty means the working directory
	StartDir string
}

// state shared by all pages: loading flag, banner, submit guard and size
type base struct {
	logger     *slog.Logger
	spinner    spinner.Model
	banner     components.Banner
	loading    bool
	submitting bool
	fetchSeq   int
	width      int
	height     int
	dark       bool
}

func newBase(opts Options) base {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(components.ColorAccent)

	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	return base{
		logger:  logger,
		spinner: s,
		dark:    opts.Dark,
	}
}

// Banner returns the current notice
func (b *base) Banner() components.Banner { return b.banner }

func (b *base) Loading() bool { return b.loading }

func (b *base) Submitting() bool { return b.submitting }

func (b *base) SetSize(width, height int) {
	b.width = width
	b.height = height
}

// SetDark switches markdown and palette rendering to the given mode
func (b *base) SetDark(dark bool) { b.dark = dark }

// fail logs err and shows text as an error banner
func (b *base) fail(op, text string, err error) {
	b.logger.Error("operation failed", "op", op, "error", err)
	b.banner = components.Error(text)
}

func (b *base) succeed(text string) {
	b.banner = components.Success(text)
}

// dismiss clears a visible banner on esc or x
func (b *base) dismiss(msg tea.KeyMsg) bool {
	if b.banner.Visible() && key.Matches(msg, Keys.Dismiss) {
		b.banner = components.Banner{}
		return true
	}
	return false
}

func (b *base) updateSpinner(msg spinner.TickMsg) tea.Cmd {
	var cmd tea.Cmd
	b.spinner, cmd = b.spinner.Update(msg)
	return cmd
}

func (b *base) loadingView(what string) string {
	return b.spinner.View() + " " + components.MutedStyle().Render("Loading "+what+"...")
}

// frame stacks the page header, banner and body
func (b *base) frame(title, body string) string {
	parts := []string{components.TitleStyle().PaddingLeft(1).Render(title)}
	if banner := b.banner.View(b.width); banner != "" {
		parts = append(parts, banner)
	}
	parts = append(parts, body)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// overlay centers a modal in the page body area
func (b *base) overlay(modal string) string {
	if b.width <= 0 || b.height <= 0 {
		return modal
	}
	return lipgloss.Place(b.width, b.bodyHeight(), lipgloss.Center, lipgloss.Center, modal)
}

func (b *base) bodyHeight() int {
	h := b.height - 2
	if b.banner.Visible() {
		h -= 2
	}
	if h < 3 {
		h = 3
	}
	return h
}

// apiErrorText returns the backend error text when err carries one, and
// fallback otherwise
func apiErrorText(err error, fallback string) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	return fallback
}
