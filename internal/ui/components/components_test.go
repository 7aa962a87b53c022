package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type row struct {
	ID   int
	Name string
}

func describeRow(r row) (string, string) {
	return r.Name, "row"
}

func TestEntityListSelected(t *testing.T) {
	m := NewEntityListModel[row]("Rows", describeRow)
	_, ok := m.Selected()
	assert.False(t, ok)

	m.SetItems([]row{{ID: 1, Name: "one"}, {ID: 2, Name: "two"}})
	assert.Equal(t, 2, m.Len())

	got, ok := m.Selected()
	assert.True(t, ok)
	assert.Equal(t, 1, got.ID)
	assert.False(t, m.Filtering())
}

func TestBanner(t *testing.T) {
	var none Banner
	assert.False(t, none.Visible())
	assert.Empty(t, none.View(80))

	b := Error("Failed to load projects")
	assert.True(t, b.IsError())
	assert.Contains(t, b.View(80), "Failed to load projects")

	assert.False(t, Success("Saved").IsError())
}

func TestModalBodyWidth(t *testing.T) {
	assert.Equal(t, modalMinWidth, ModalBodyWidth(10))
	assert.Equal(t, 72, ModalBodyWidth(80))
	assert.Equal(t, modalMaxWidth, ModalBodyWidth(300))
}

func TestRenderMarkdownFallsBackOnEmpty(t *testing.T) {
	assert.Empty(t, RenderMarkdown("   ", 40, false))
	assert.Contains(t, RenderMarkdown("# Heading", 40, true), "Heading")
}
