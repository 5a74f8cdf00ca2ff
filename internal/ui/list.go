package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/desertthunder/ecoleta/internal/models"
)

var (
	_ list.Item = optionItem{}
	_ list.Item = catalogItem{}
	_ list.Item = pointItem{}
)

// optionItem wraps [models.Option] to implement [list.Item].
type optionItem struct {
	option models.Option
}

func (i optionItem) FilterValue() string { return i.option.Label }
func (i optionItem) Title() string       { return i.option.Label }
func (i optionItem) Description() string { return "" }

// catalogItem wraps [models.Item] with its selection state.
type catalogItem struct {
	item     models.Item
	selected bool
}

func (i catalogItem) FilterValue() string { return i.item.Title }
func (i catalogItem) Title() string {
	if i.selected {
		return "[x] " + i.item.Title
	}
	return "[ ] " + i.item.Title
}
func (i catalogItem) Description() string { return fmt.Sprintf("item #%d", i.item.ID) }

// pointItem wraps [models.Point] to implement [list.Item].
type pointItem struct {
	point models.Point
}

func (i pointItem) FilterValue() string { return i.point.Name }
func (i pointItem) Title() string       { return i.point.Name }
func (i pointItem) Description() string {
	return fmt.Sprintf("%s/%s • %s", i.point.City, i.point.UF, i.point.Whatsapp)
}
