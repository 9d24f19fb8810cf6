package dashboard

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/undrift/sessionboard/internal/status"
)

// Color constants matching the CLI palette in internal/ui.
const (
	colorCyan   = lipgloss.Color("#00BCD4")
	colorGreen  = lipgloss.Color("#4CAF50")
	colorYellow = lipgloss.Color("#FFC107")
	colorRed    = lipgloss.Color("#F44336")
	colorBlue   = lipgloss.Color("#2196F3")
	colorDim    = lipgloss.Color("#666666")
	colorWhite  = lipgloss.Color("#FFFFFF")
	colorBorder = lipgloss.Color("#333355")
	colorSelect = lipgloss.Color("#16213e")
)

// Styles holds all lipgloss styles for the dashboard.
type Styles struct {
	HeaderTitle      lipgloss.Style
	HeaderStat       lipgloss.Style
	HeaderWaiting    lipgloss.Style
	StaleBadge       lipgloss.Style
	SessionRow       lipgloss.Style
	SelectedRow      lipgloss.Style
	StatusThinking   lipgloss.Style
	StatusProcessing lipgloss.Style
	StatusWaiting    lipgloss.Style
	StatusIdle       lipgloss.Style
	CustomName       lipgloss.Style
	ProjectName      lipgloss.Style
	DimText          lipgloss.Style
	BranchText       lipgloss.Style
	LinkText         lipgloss.Style
	DetailTitle      lipgloss.Style
	DetailKey        lipgloss.Style
	Footer           lipgloss.Style
	FooterKey        lipgloss.Style
	FooterDesc       lipgloss.Style
	Notice           lipgloss.Style
	NoticeError      lipgloss.Style
	Overlay          lipgloss.Style
	OverlayTitle     lipgloss.Style
	DangerOverlay    lipgloss.Style
	DangerTitle      lipgloss.Style
	EmptyState       lipgloss.Style
	PanelLeft        lipgloss.Style
	PanelRight       lipgloss.Style
}

// DefaultStyles returns the default style set.
func DefaultStyles() Styles {
	return Styles{
		HeaderTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan),
		HeaderStat: lipgloss.NewStyle().
			Foreground(colorDim),
		HeaderWaiting: lipgloss.NewStyle().
			Foreground(colorYellow).
			Bold(true),
		StaleBadge: lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true),
		SessionRow: lipgloss.NewStyle().
			Padding(0, 1),
		SelectedRow: lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(colorWhite).
			Background(colorSelect),
		StatusThinking: lipgloss.NewStyle().
			Foreground(colorCyan),
		StatusProcessing: lipgloss.NewStyle().
			Foreground(colorBlue),
		StatusWaiting: lipgloss.NewStyle().
			Foreground(colorYellow).
			Bold(true),
		StatusIdle: lipgloss.NewStyle().
			Foreground(colorDim),
		CustomName: lipgloss.NewStyle().
			Foreground(colorGreen).
			Bold(true),
		ProjectName: lipgloss.NewStyle().
			Bold(true),
		DimText: lipgloss.NewStyle().
			Foreground(colorDim),
		BranchText: lipgloss.NewStyle().
			Foreground(colorCyan),
		LinkText: lipgloss.NewStyle().
			Foreground(colorBlue).
			Underline(true),
		DetailTitle: lipgloss.NewStyle().
			Foreground(colorCyan).
			Bold(true),
		DetailKey: lipgloss.NewStyle().
			Foreground(colorDim).
			Width(12),
		Footer: lipgloss.NewStyle().
			Foreground(colorDim).
			Padding(0, 1),
		FooterKey: lipgloss.NewStyle().
			Foreground(colorCyan).
			Bold(true),
		FooterDesc: lipgloss.NewStyle().
			Foreground(colorDim),
		Notice: lipgloss.NewStyle().
			Foreground(colorGreen).
			Padding(0, 1),
		NoticeError: lipgloss.NewStyle().
			Foreground(colorRed).
			Padding(0, 1),
		Overlay: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorCyan).
			Padding(1, 3),
		OverlayTitle: lipgloss.NewStyle().
			Foreground(colorCyan).
			Bold(true),
		DangerOverlay: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorRed).
			Padding(1, 3).
			Align(lipgloss.Center),
		DangerTitle: lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true),
		EmptyState: lipgloss.NewStyle().
			Foreground(colorDim).
			Align(lipgloss.Center).
			Padding(2, 0),
		PanelLeft: lipgloss.NewStyle().
			Padding(0, 1),
		PanelRight: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1),
	}
}

// Status returns the style for a session status.
func (s Styles) Status(st status.Status) lipgloss.Style {
	switch st {
	case status.Thinking:
		return s.StatusThinking
	case status.Processing:
		return s.StatusProcessing
	case status.Waiting:
		return s.StatusWaiting
	default:
		return s.StatusIdle
	}
}
