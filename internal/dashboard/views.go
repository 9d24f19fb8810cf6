package dashboard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/undrift/sessionboard/internal/session"
)

// View renders the full dashboard.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	switch m.mode {
	case modeConfirmKill:
		return m.renderConfirmOverlay()
	case modeRename, modeURL:
		return m.renderEditOverlay()
	case modeHotkey:
		return m.renderHotkeyOverlay()
	}

	header := m.renderHeader()
	footer := m.renderFooter()

	content := lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.PanelLeft.Width(m.leftWidth()).Height(m.contentHeight()).Render(m.renderSessionList()),
		m.renderDetail(),
	)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

// renderHeader renders the top title bar with aggregate stats.
func (m Model) renderHeader() string {
	s := m.styles

	title := s.HeaderTitle.Render("SESSIONBOARD")

	stats := s.HeaderStat.Render(fmt.Sprintf("  %d sessions  |  ", m.total))
	waiting := s.HeaderStat.Render("0 waiting")
	if m.waiting > 0 {
		waiting = s.HeaderWaiting.Render(fmt.Sprintf("%d waiting", m.waiting))
	}

	bar := lipgloss.JoinHorizontal(lipgloss.Center, title, stats, waiting)

	if m.stale {
		bar += s.StaleBadge.Render("  [stale]")
		if !m.updatedAt.IsZero() {
			bar += s.DimText.Render(" " + m.updatedAt.Format("15:04:05"))
		}
	}

	divider := s.DimText.Render(strings.Repeat("─", m.width))

	return bar + "\n" + divider
}

// renderSessionList renders the left panel with one row per session.
func (m Model) renderSessionList() string {
	s := m.styles

	if m.loading {
		return s.EmptyState.Width(m.leftWidth()).Render(m.spinner.View() + " Loading sessions...")
	}

	if len(m.cards) == 0 {
		msg := "No sessions running"
		if m.stale && m.fetchErr != nil {
			msg = "Could not fetch sessions\n\n" + s.DimText.Render(m.fetchErr.Error())
		}
		return s.EmptyState.Width(m.leftWidth()).Render(msg)
	}

	var b strings.Builder
	for i, card := range m.cards {
		b.WriteString(m.renderSessionRow(card, i))
		b.WriteString("\n")
	}
	return b.String()
}

// renderSessionRow renders a single session line.
func (m Model) renderSessionRow(card session.Card, idx int) string {
	s := m.styles
	isSelected := idx == m.cursor

	var parts []string

	if isSelected {
		parts = append(parts, "*")
	} else {
		parts = append(parts, " ")
	}

	parts = append(parts, s.Status(card.Status).Render("●"))

	if card.CustomName {
		parts = append(parts, s.CustomName.Render(card.DisplayName))
	} else {
		parts = append(parts, s.ProjectName.Render(card.DisplayName))
	}

	if card.GitBranch != "" {
		parts = append(parts, s.BranchText.Render(card.GitBranch))
	}

	if card.Status.NeedsAttention() {
		parts = append(parts, s.StatusWaiting.Render(card.Status.Label()))
	}

	if card.ActiveSubagentCount > 0 {
		parts = append(parts, s.DimText.Render("+"+strconv.Itoa(card.ActiveSubagentCount)))
	}

	row := strings.Join(parts, " ")

	if isSelected {
		return s.SelectedRow.Width(m.leftWidth()).Render(row)
	}
	return s.SessionRow.Render(row)
}

// renderDetail renders the right panel for the selected session.
func (m Model) renderDetail() string {
	s := m.styles
	panel := s.PanelRight.Width(m.rightWidth()).Height(m.contentHeight())

	card, ok := m.Selected()
	if !ok {
		return panel.Render(s.DimText.Render("No session selected"))
	}

	var b strings.Builder
	b.WriteString(s.DetailTitle.Render(card.DisplayName))
	b.WriteString("\n\n")

	row := func(k, v string) {
		if v == "" {
			return
		}
		b.WriteString(s.DetailKey.Render(k) + v + "\n")
	}

	row("Status", s.Status(card.Status).Render(card.Status.Label()))
	row("Agent", card.AgentType)
	row("Project", card.ProjectName)
	row("Path", card.ProjectPath)
	row("Branch", s.BranchText.Render(card.GitBranch))
	if card.PID > 0 {
		row("PID", strconv.Itoa(card.PID))
	}
	row("CPU", fmt.Sprintf("%.1f%%", card.CPUUsage))
	if card.ActiveSubagentCount > 0 {
		row("Subagents", strconv.Itoa(card.ActiveSubagentCount))
	}
	if t, ok := card.LastActivity(); ok {
		row("Activity", humanize.Time(t))
	}
	if card.QuickURL != "" {
		row("Link", s.LinkText.Render(card.QuickURL))
	}
	if card.GithubURL != "" {
		row("GitHub", s.LinkText.Render(card.GithubURL))
	}

	if preview := card.Preview(); preview != "" {
		b.WriteString("\n")
		if card.LastMessageRole != "" {
			b.WriteString(s.DimText.Render(card.LastMessageRole+":") + "\n")
		}
		b.WriteString(lipgloss.NewStyle().Width(m.rightWidth() - 2).Render(preview))
	}

	return panel.Render(b.String())
}

// renderFooter renders the notice line and keybinding help at the bottom.
func (m Model) renderFooter() string {
	s := m.styles

	notice := ""
	if m.notice != "" {
		if m.noticeError {
			notice = s.NoticeError.Render(m.notice) + "\n"
		} else {
			notice = s.Notice.Render(m.notice) + "\n"
		}
	}

	divider := s.DimText.Render(strings.Repeat("─", m.width))
	return divider + "\n" + notice + s.Footer.Render(m.help.View(m.keys))
}

// renderConfirmOverlay renders a centered kill confirmation dialog.
func (m Model) renderConfirmOverlay() string {
	card, ok := m.Selected()
	if !ok {
		return ""
	}

	s := m.styles
	content := s.DangerTitle.Render("Kill Session") + "\n\n" +
		fmt.Sprintf("Stop %s (pid %d)?", s.ProjectName.Render(card.DisplayName), card.PID) + "\n\n" +
		s.FooterKey.Render("y") + " confirm  " +
		s.FooterKey.Render("n") + " cancel"

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, s.DangerOverlay.Render(content))
}

// renderEditOverlay renders the rename or link editor.
func (m Model) renderEditOverlay() string {
	s := m.styles

	title := "Rename Session"
	hint := "Leave empty to use the project name"
	if m.mode == modeURL {
		title = "Quick Link"
		hint = "Leave empty to remove the link"
	}

	content := s.OverlayTitle.Render(title) + "\n\n" +
		m.input.View() + "\n\n" +
		s.DimText.Render(hint) + "\n" +
		s.FooterKey.Render("enter") + " save  " +
		s.FooterKey.Render("esc") + " cancel"

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, s.Overlay.Render(content))
}

// renderHotkeyOverlay shows the shortcut being recorded.
func (m Model) renderHotkeyOverlay() string {
	s := m.styles

	current := "none"
	if m.deps.Hotkeys != nil {
		if c := m.deps.Hotkeys.Current(); c != "" {
			current = c
		}
	}

	pending := m.deps.Recorder.Pending()
	if pending == "" {
		pending = s.DimText.Render("press a key combination")
	}

	content := s.OverlayTitle.Render("Record Hotkey") + "\n\n" +
		s.DetailKey.Render("Current") + current + "\n" +
		s.DetailKey.Render("New") + pending + "\n\n"
	if m.notice != "" {
		content += s.DimText.Render(m.notice) + "\n\n"
	}
	content += s.FooterKey.Render("esc") + " cancel"

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, s.Overlay.Render(content))
}

// leftWidth returns the width of the left panel.
func (m Model) leftWidth() int {
	return int(float64(m.width) * 0.45)
}

// rightWidth returns the width of the right panel.
func (m Model) rightWidth() int {
	return m.width - m.leftWidth() - 4 // account for borders and padding
}

// contentHeight returns the usable content height.
func (m Model) contentHeight() int {
	return m.height - 6 // header + footer + notice + padding
}
