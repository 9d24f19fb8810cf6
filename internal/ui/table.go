package ui

import (
	"io"

	"github.com/olekukonko/tablewriter"
)

// Table is a wrapper around tablewriter for consistent table formatting.
type Table struct {
	writer *tablewriter.Table
}

// NewTable creates a new table with headers on Out.
func NewTable(headers []string) *Table {
	return NewTableTo(Out, headers)
}

// NewTableTo creates a new table with headers writing to w.
func NewTableTo(w io.Writer, headers []string) *Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(headers)
	table.SetBorder(false)
	table.SetHeaderLine(false)
	table.SetColumnSeparator("  ")
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)

	// One color per header; tablewriter panics on a count mismatch.
	headerColors := make([]tablewriter.Colors, len(headers))
	for i := range headerColors {
		headerColors[i] = tablewriter.Colors{tablewriter.Bold, tablewriter.FgCyanColor}
	}
	table.SetHeaderColor(headerColors...)

	return &Table{writer: table}
}

// AddRow adds a row to the table.
func (t *Table) AddRow(row []string) {
	t.writer.Append(row)
}

// AddColoredRow adds a row with custom colors.
func (t *Table) AddColoredRow(row []string, colors []tablewriter.Colors) {
	t.writer.Rich(row, colors)
}

// Render prints the table.
func (t *Table) Render() {
	t.writer.Render()
}

// TableColor holds the cell colors used by session tables.
var TableColor = struct {
	Yellow tablewriter.Colors
	Blue   tablewriter.Colors
	Cyan   tablewriter.Colors
	Normal tablewriter.Colors
}{
	Yellow: tablewriter.Colors{tablewriter.FgYellowColor},
	Blue:   tablewriter.Colors{tablewriter.FgBlueColor},
	Cyan:   tablewriter.Colors{tablewriter.FgCyanColor},
	Normal: tablewriter.Colors{},
}
