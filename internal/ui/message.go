package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/ecoleta/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgStatesFetched MsgKind = iota
	MsgCitiesFetched
	MsgItemsFetched
	MsgPointsFetched
	MsgDetailFetched
)

type optionsResult struct {
	options []models.Option
	err     error
}

type itemsResult struct {
	items []models.Item
	err   error
}

type pointsResult struct {
	filter models.PointFilter
	points []models.Point
	err    error
}

type detailResult struct {
	detail *models.PointDetail
	err    error
}

// statesFetchedMsg is the constructor for [MsgStatesFetched]
func statesFetchedMsg(options []models.Option, err error) Msg {
	return Msg{kind: MsgStatesFetched, data: optionsResult{options, err}}
}

// citiesFetchedMsg is the constructor for [MsgCitiesFetched]
func citiesFetchedMsg(options []models.Option, err error) Msg {
	return Msg{kind: MsgCitiesFetched, data: optionsResult{options, err}}
}

// itemsFetchedMsg is the constructor for [MsgItemsFetched]
func itemsFetchedMsg(items []models.Item, err error) Msg {
	return Msg{kind: MsgItemsFetched, data: itemsResult{items, err}}
}

// pointsFetchedMsg is the constructor for [MsgPointsFetched]
//
// The filter travels with the result so stale responses can be discarded.
func pointsFetchedMsg(filter models.PointFilter, points []models.Point, err error) Msg {
	return Msg{kind: MsgPointsFetched, data: pointsResult{filter, points, err}}
}

// detailFetchedMsg is the constructor for [MsgDetailFetched]
func detailFetchedMsg(detail *models.PointDetail, err error) Msg {
	return Msg{kind: MsgDetailFetched, data: detailResult{detail, err}}
}
