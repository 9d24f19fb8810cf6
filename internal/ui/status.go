package ui

import (
	"github.com/olekukonko/tablewriter"

	"github.com/undrift/sessionboard/internal/status"
)

// statusPaint returns the color for an active status, or nil for idle and
// unknown ones.
func statusPaint(st status.Status) func(a ...interface{}) string {
	switch st {
	case status.Thinking:
		return Cyan
	case status.Processing:
		return Blue
	case status.Waiting:
		return Yellow
	default:
		return nil
	}
}

// StatusBadge returns the status label in brackets, colored while the
// session is active.
func StatusBadge(st status.Status) string {
	badge := "[" + st.Label() + "]"
	if paint := statusPaint(st); paint != nil {
		return paint(badge)
	}
	return badge
}

// StatusText colors the status name. Idle sessions are dimmed.
func StatusText(st status.Status) string {
	if paint := statusPaint(st); paint != nil {
		return paint(string(st))
	}
	return Dim(string(st))
}

// StatusTableColor returns the table cell color for a status.
func StatusTableColor(st status.Status) tablewriter.Colors {
	switch st {
	case status.Thinking:
		return TableColor.Cyan
	case status.Processing:
		return TableColor.Blue
	case status.Waiting:
		return TableColor.Yellow
	default:
		return TableColor.Normal
	}
}
