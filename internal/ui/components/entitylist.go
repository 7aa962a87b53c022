package components

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DescribeFunc returns the title and description line of an entity
type DescribeFunc[T any] func(T) (title, description string)

// EntityItem represents one entity in the list
type EntityItem[T any] struct {
	Value T
	title string
	desc  string
}

// FilterValue returns the filter value for the item
func (i EntityItem[T]) FilterValue() string {
	return i.title
}

// Title returns the title for the item
func (i EntityItem[T]) Title() string {
	return i.title
}

// Description returns the description for the item
func (i EntityItem[T]) Description() string {
	return i.desc
}

// EntityListModel is a filterable list of backend entities
type EntityListModel[T any] struct {
	List     list.Model
	describe DescribeFunc[T]
}

// NewEntityListModel creates a new entity list model
func NewEntityListModel[T any](title string, describe DescribeFunc[T]) EntityListModel[T] {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(ColorAccent).
		BorderForeground(ColorAccent)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(ColorAccent).
		BorderForeground(ColorAccent)

	listModel := list.New([]list.Item{}, delegate, 0, 0)
	listModel.Title = title
	listModel.SetShowStatusBar(false)
	listModel.SetShowHelp(false)
	listModel.SetFilteringEnabled(true)
	listModel.Styles.Title = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true).
		MarginLeft(2)

	// The shell owns quitting and help
	listModel.KeyMap.Quit.SetEnabled(false)
	listModel.KeyMap.ForceQuit.SetEnabled(false)
	listModel.KeyMap.ShowFullHelp.SetEnabled(false)
	listModel.KeyMap.CloseFullHelp.SetEnabled(false)

	return EntityListModel[T]{
		List:     listModel,
		describe: describe,
	}
}

// SetItems replaces the entities in the list, keeping the cursor in range
func (m *EntityListModel[T]) SetItems(values []T) {
	items := make([]list.Item, len(values))
	for i, v := range values {
		title, desc := m.describe(v)
		items[i] = EntityItem[T]{Value: v, title: title, desc: desc}
	}
	m.List.SetItems(items)
}

// Selected returns the entity under the cursor
func (m EntityListModel[T]) Selected() (T, bool) {
	if item, ok := m.List.SelectedItem().(EntityItem[T]); ok {
		return item.Value, true
	}
	var zero T
	return zero, false
}

// Len returns the number of entities
func (m EntityListModel[T]) Len() int {
	return len(m.List.Items())
}

// Filtering reports whether the user is typing a filter, in which case
// keys belong to the list
func (m EntityListModel[T]) Filtering() bool {
	return m.List.FilterState() == list.Filtering
}

func (m *EntityListModel[T]) SetSize(width, height int) {
	m.List.SetSize(width, height)
}

// Update handles list updates
func (m EntityListModel[T]) Update(msg tea.Msg) (EntityListModel[T], tea.Cmd) {
	var cmd tea.Cmd
	m.List, cmd = m.List.Update(msg)
	return m, cmd
}

// View renders the list
func (m EntityListModel[T]) View() string {
	return m.List.View()
}
