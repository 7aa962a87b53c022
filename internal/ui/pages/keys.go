package pages

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the page-level key bindings
type KeyMap struct {
	New      key.Binding
	Edit     key.Binding
	Delete   key.Binding
	View     key.Binding
	Refresh  key.Binding
	Dismiss  key.Binding
	Confirm  key.Binding
	Cancel   key.Binding
	Submit   key.Binding
	Save     key.Binding
	Up       key.Binding
	Down     key.Binding
	AddUser  key.Binding
	Remove   key.Binding
	Download key.Binding
	Pick     key.Binding
}

// Keys are the bindings shared by every page
var Keys = KeyMap{
	New:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
	Edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	View:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "view")),
	Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Dismiss:  key.NewBinding(key.WithKeys("esc", "x"), key.WithHelp("esc/x", "dismiss")),
	Confirm:  key.NewBinding(key.WithKeys("y", "enter"), key.WithHelp("y", "confirm")),
	Cancel:   key.NewBinding(key.WithKeys("esc", "n"), key.WithHelp("esc", "cancel")),
	Submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
	Save:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	AddUser:  key.NewBinding(key.WithKeys("a", "/"), key.WithHelp("a", "add user")),
	Remove:   key.NewBinding(key.WithKeys("delete", "backspace"), key.WithHelp("del", "remove user")),
	Download: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "download")),
	Pick:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pick project")),
}

// escOnly matches esc alone, for dialogs where letters are typed text
var escOnly = key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel"))
