package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	colorBorder = lipgloss.Color("#37474f")
	colorHeader = lipgloss.Color("#007acc")

	styleTitle = lipgloss.NewStyle().
			Foreground(colorHeader).
			Bold(true).
			Padding(0, 1)

	styleHeader = lipgloss.NewStyle().
			Foreground(colorHeader).
			Bold(true).
			Padding(0, 1)

	styleCell = lipgloss.NewStyle().
			Padding(0, 1)

	styleWarn = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ef6c00"))
)

// newTable returns a bordered table with the given headers.
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			return styleCell
		}).
		Headers(headers...)
}

// swatch renders a colour sample followed by its hex code.
func swatch(hex string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("■") + " " + hex
}
