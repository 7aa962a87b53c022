package ui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"specter/internal/logging"
	"specter/internal/models"
	"specter/internal/ui/components"
	"specter/internal/ui/pages"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// API is everything the dashboard calls on the backend
type API interface {
	pages.ProjectsAPI
	pages.ConfigurationsAPI
	pages.ReportsAPI
	WhoAmI(ctx context.Context) (*models.WhoAmI, error)
}

// Page is a routed dashboard screen
type Page interface {
	Title() string
	Enter() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View() string
	SetSize(width, height int)
	SetDark(dark bool)
	CapturingInput() bool
	SelectedID() (string, bool)
	ShortHelp() []key.Binding
}

// Options configures the dashboard
type Options struct {
	Logger      *slog.Logger
	Route       string
	DownloadDir string

	// Copy writes text to the system clipboard; defaults to atotto/clipboard
	Copy func(text string) error
}

type whoAmIMsg struct {
	me  *models.WhoAmI
	err error
}

// chrome lines above and below the page body
const (
	headerHeight = 2
	footerHeight = 2
)

// Model represents the dashboard shell
type Model struct {
	api    API
	theme  ThemeStore
	logger *slog.Logger
	copy   func(string) error

	pages  []Page
	active int

	me       *models.WhoAmI
	status   string
	help     help.Model
	showHelp bool
	quitting bool

	Width  int
	Height int
}

// NewModel creates the dashboard shell with its three routed pages
func NewModel(client API, theme ThemeStore, opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	copyFn := opts.Copy
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	dark := theme.Mode().IsDark()
	applyMode(theme.Mode())

	pageOpts := pages.Options{Logger: logger, Dark: dark, DownloadDir: opts.DownloadDir}
	return &Model{
		api:    client,
		theme:  theme,
		logger: logger,
		copy:   copyFn,
		pages: []Page{
			pages.NewProjects(client, pageOpts),
			pages.NewConfigurations(client, pageOpts),
			pages.NewReports(client, pageOpts),
		},
		active: routeIndex(opts.Route),
		help:   help.New(),
	}
}

// Route returns the path of the active page
func (m *Model) Route() string { return Routes[m.active] }

// ActivePage returns the page currently shown
func (m *Model) ActivePage() Page { return m.pages[m.active] }

// Me returns the signed-in user once fetched
func (m *Model) Me() *models.WhoAmI { return m.me }

// Init fetches the signed-in user and enters the initial route
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.fetchWhoAmI(), m.ActivePage().Enter())
}

func (m *Model) fetchWhoAmI() tea.Cmd {
	client := m.api
	return func() tea.Msg {
		me, err := client.WhoAmI(context.Background())
		return whoAmIMsg{me: me, err: err}
	}
}

// Navigate switches to the route at path, entering its page
func (m *Model) Navigate(path string) tea.Cmd {
	return m.navigateTo(routeIndex(path))
}

func (m *Model) navigateTo(i int) tea.Cmd {
	if i == m.active {
		return nil
	}
	m.active = i
	m.status = ""
	return m.ActivePage().Enter()
}

// Update handles UI updates
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.help.Width = msg.Width
		bodyHeight := max(3, msg.Height-headerHeight-footerHeight)
		for _, p := range m.pages {
			p.SetSize(msg.Width, bodyHeight)
		}
		return m, nil

	case whoAmIMsg:
		if msg.err != nil {
			m.logger.Error("operation failed", "op", "whoami", "error", msg.err)
			return m, nil
		}
		m.me = msg.me
		return m, nil
	}

	// Results are addressed by type, so every page sees them and ignores
	// the ones that are not its own.
	cmds := make([]tea.Cmd, 0, len(m.pages))
	for _, p := range m.pages {
		cmds = append(cmds, p.Update(msg))
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, shellKeys.ForceQuit) {
		m.quitting = true
		return tea.Quit
	}

	page := m.ActivePage()
	if page.CapturingInput() {
		return page.Update(msg)
	}

	switch {
	case key.Matches(msg, shellKeys.Quit):
		m.quitting = true
		return tea.Quit
	case key.Matches(msg, shellKeys.Help):
		m.showHelp = !m.showHelp
		return nil
	case key.Matches(msg, shellKeys.Theme):
		m.toggleTheme()
		return nil
	case key.Matches(msg, shellKeys.Projects):
		return m.Navigate(RouteProjects)
	case key.Matches(msg, shellKeys.Configurations):
		return m.Navigate(RouteConfigurations)
	case key.Matches(msg, shellKeys.Reports):
		return m.Navigate(RouteReports)
	case key.Matches(msg, shellKeys.Next):
		return m.navigateTo((m.active + 1) % len(m.pages))
	case key.Matches(msg, shellKeys.Prev):
		return m.navigateTo((m.active + len(m.pages) - 1) % len(m.pages))
	case key.Matches(msg, shellKeys.Copy):
		m.copySelectedID()
		return nil
	}
	return page.Update(msg)
}

func (m *Model) toggleTheme() {
	mode, err := m.theme.Toggle()
	if err != nil {
		m.logger.Error("operation failed", "op", "toggle theme", "error", err)
		m.status = "Could not save theme"
	}
	applyMode(mode)
	for _, p := range m.pages {
		p.SetDark(mode.IsDark())
	}
}

func (m *Model) copySelectedID() {
	id, ok := m.ActivePage().SelectedID()
	if !ok {
		return
	}
	if err := m.copy(id); err != nil {
		m.logger.Warn("clipboard unavailable", "error", err)
		m.status = "Clipboard unavailable"
		return
	}
	m.status = fmt.Sprintf("Copied id %s", id)
}

// Quitting reports whether the dashboard asked to exit
func (m *Model) Quitting() bool { return m.quitting }

// View renders the UI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.headerView(),
		m.ActivePage().View(),
		m.footerView(),
	)
}

func (m *Model) headerView() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(components.ColorPrimary).
		Padding(0, 1).
		Render("Specter")

	tabs := make([]string, len(m.pages))
	for i, p := range m.pages {
		label := fmt.Sprintf("%d %s", i+1, p.Title())
		if i == m.active {
			tabs[i] = components.SelectedStyle().Underline(true).Padding(0, 1).Render(label)
		} else {
			tabs[i] = components.MutedStyle().Padding(0, 1).Render(label)
		}
	}

	var right []string
	if m.me != nil {
		right = append(right, displayUser(m.me))
	}
	right = append(right, "theme: "+string(m.theme.Mode()))

	left := lipgloss.JoinHorizontal(lipgloss.Top, title, strings.Join(tabs, ""))
	status := components.MutedStyle().Padding(0, 1).Render(strings.Join(right, " · "))

	gap := m.Width - lipgloss.Width(left) - lipgloss.Width(status)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + status + "\n"
}

func displayUser(me *models.WhoAmI) string {
	switch {
	case me.Username != "":
		return me.Username
	case me.Email != "":
		return me.Email
	default:
		return me.UserID
	}
}

func (m *Model) footerView() string {
	var parts []string
	if m.status != "" {
		parts = append(parts, components.MutedStyle().Padding(0, 1).Render(m.status))
	}

	if m.showHelp {
		groups := append([][]key.Binding{m.ActivePage().ShortHelp()}, shellKeys.FullHelp()...)
		parts = append(parts, lipgloss.NewStyle().Padding(0, 1).Render(m.help.FullHelpView(groups)))
	} else {
		bindings := append(m.ActivePage().ShortHelp(), shellKeys.ShortHelp()...)
		parts = append(parts, lipgloss.NewStyle().Padding(0, 1).Render(m.help.ShortHelpView(bindings)))
	}
	return strings.Join(parts, "\n")
}

// Run starts the dashboard and blocks until it exits
func Run(ctx context.Context, client API, theme ThemeStore, opts Options) error {
	applyColorProfile()

	p := tea.NewProgram(NewModel(client, theme, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}
