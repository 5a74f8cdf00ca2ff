package ui

import (
	"github.com/charmbracelet/lipgloss"
)

const (
	colorGreen = "#34CB79"
	colorLeaf  = "#2FB86E"
	colorRed   = "#FF4D4D"
	colorAmber = "#FFA500"
	colorMuted = "#6C6C80"
)

var styles = NewPalette(colorGreen, colorLeaf, colorRed, colorAmber, colorMuted)

// struct Palette holds the named [lipgloss.Style] values the views render with
type Palette struct {
	title lipgloss.Style // point name in the detail view
	ok    lipgloss.Style // result counts and labels
	err   lipgloss.Style // fatal errors
	warn  lipgloss.Style // degraded lookups
	help  lipgloss.Style // hints
}

func NewPalette(title, ok, err, warn, help string) *Palette {
	return &Palette{
		title: NewBold(title).MarginBottom(1),
		ok:    NewBold(ok),
		err:   NewBold(err),
		warn:  NewStyle(warn),
		help:  NewEm(help),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
