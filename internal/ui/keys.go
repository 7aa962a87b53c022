package ui

import "github.com/charmbracelet/bubbles/key"

type shellKeyMap struct {
	Projects       key.Binding
	Configurations key.Binding
	Reports        key.Binding
	Next           key.Binding
	Prev           key.Binding
	Theme          key.Binding
	Copy           key.Binding
	Help           key.Binding
	Quit           key.Binding
	ForceQuit      key.Binding
}

var shellKeys = shellKeyMap{
	Projects:       key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "projects")),
	Configurations: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "configurations")),
	Reports:        key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "reports")),
	Next:           key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next page")),
	Prev:           key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous page")),
	Theme:          key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "toggle theme")),
	Copy:           key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy id")),
	Help:           key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:           key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	ForceQuit:      key.NewBinding(key.WithKeys("ctrl+c")),
}

func (k shellKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Theme, k.Help, k.Quit}
}

func (k shellKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Projects, k.Configurations, k.Reports, k.Next, k.Prev},
		{k.Theme, k.Copy, k.Help, k.Quit},
	}
}
