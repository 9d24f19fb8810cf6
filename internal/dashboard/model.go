// Package dashboard implements the live TUI that renders poll frames and
// turns key presses into session actions.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/undrift/sessionboard/internal/hotkey"
	"github.com/undrift/sessionboard/internal/log"
	"github.com/undrift/sessionboard/internal/overlay"
	"github.com/undrift/sessionboard/internal/session"
)

const actionTimeout = 10 * time.Second

// Focuser brings a session's window to the front.
type Focuser interface {
	Focus(ctx context.Context, pid int, projectPath string) error
}

// Killer stops a session process.
type Killer interface {
	Kill(ctx context.Context, pid int) error
}

// Opener opens a URL.
type Opener interface {
	Open(ctx context.Context, url string) error
}

// Deps are the collaborators behind the dashboard's key bindings. Nil
// actions are reported as not configured.
type Deps struct {
	Focuser       Focuser
	Killer        Killer
	Opener        Opener
	Overlays      *overlay.Overlays
	Hotkeys       *hotkey.Manager
	Keys          *hotkey.ChanSource
	Recorder      *hotkey.Recorder
	DefaultScheme string
}

type mode int

const (
	modeList mode = iota
	modeConfirmKill
	modeRename
	modeURL
	modeHotkey
)

// Messages for the bubbletea event loop.
type (
	actionDoneMsg struct {
		action string
		err    error
	}
	captureDoneMsg struct {
		combo string
		err   error
	}
	hotkeyAppliedMsg struct {
		combo string
		err   error
	}
	hotkeyClearedMsg struct{ err error }
)

// Model is the bubbletea model for the dashboard.
type Model struct {
	deps Deps

	cards     []session.Card
	total     int
	waiting   int
	stale     bool
	fetchErr  error
	updatedAt time.Time

	cursor     int
	selectedID string

	mode          mode
	input         textinput.Model
	editID        string
	editProject   string
	captureCancel context.CancelFunc

	notice      string
	noticeError bool

	keys          KeyMap
	styles        Styles
	help          help.Model
	spinner       spinner.Model
	loading       bool
	width, height int
}

// NewModel creates a dashboard model waiting for its first frame.
func NewModel(deps Deps) Model {
	if deps.Keys == nil {
		deps.Keys = hotkey.NewChanSource()
	}
	if deps.Recorder == nil {
		deps.Recorder = hotkey.NewRecorder()
	}
	if deps.DefaultScheme == "" {
		deps.DefaultScheme = overlay.DefaultScheme
	}

	input := textinput.New()
	input.CharLimit = 200

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorCyan)

	return Model{
		deps:    deps,
		input:   input,
		keys:    DefaultKeyMap(),
		styles:  DefaultStyles(),
		help:    help.New(),
		spinner: sp,
		loading: true,
	}
}

// Cards returns the cards currently displayed.
func (m Model) Cards() []session.Card {
	return m.cards
}

// Selected returns the card under the cursor.
func (m Model) Selected() (session.Card, bool) {
	if m.cursor < 0 || m.cursor >= len(m.cards) {
		return session.Card{}, false
	}
	return m.cards[m.cursor], true
}

// Notice returns the last status line message.
func (m Model) Notice() string {
	return m.notice
}

// Init starts the loading spinner. Frames arrive from the poll loop.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles all messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case FrameMsg:
		m.applyFrame(msg)
		return m, nil

	case TitleMsg:
		return m, tea.SetWindowTitle(string(msg))

	case actionDoneMsg:
		// Failures are already in the log; the list carries on unchanged.
		if msg.err == nil {
			m.setNotice(msg.action + " done")
		}
		return m, nil

	case captureDoneMsg:
		if m.mode != modeHotkey {
			return m, nil
		}
		m.mode = modeList
		m.captureCancel = nil
		switch {
		case errors.Is(msg.err, context.Canceled):
			m.setNotice("Hotkey recording cancelled")
			return m, nil
		case msg.err != nil:
			m.setError(msg.err)
			return m, nil
		}
		m.setNotice("Registering " + msg.combo + "...")
		return m, m.applyHotkeyCmd(msg.combo)

	case hotkeyAppliedMsg:
		if msg.err != nil {
			m.setError(msg.err)
		} else {
			m.setNotice("Hotkey set to " + msg.combo)
		}
		return m, nil

	case hotkeyClearedMsg:
		if msg.err != nil {
			m.setError(msg.err)
		} else {
			m.setNotice("Hotkey cleared")
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// applyFrame replaces the displayed cards, keeping the cursor on the same session.
func (m *Model) applyFrame(f FrameMsg) {
	m.loading = false
	m.cards = f.Cards
	m.total = f.Total
	m.waiting = f.Waiting
	m.stale = f.Stale
	m.fetchErr = f.Err
	m.updatedAt = f.UpdatedAt
	m.restoreSelection()
}

func (m *Model) restoreSelection() {
	if m.selectedID != "" {
		for i, c := range m.cards {
			if c.ID == m.selectedID {
				m.cursor = i
				return
			}
		}
	}

	if m.cursor >= len(m.cards) {
		m.cursor = max(0, len(m.cards)-1)
	}
	m.selectedID = ""
	if card, ok := m.Selected(); ok {
		m.selectedID = card.ID
	}
}

func (m *Model) moveCursor(delta int) {
	next := m.cursor + delta
	if next < 0 || next >= len(m.cards) {
		return
	}
	m.cursor = next
	m.selectedID = m.cards[next].ID
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeConfirmKill:
		return m.handleConfirmKey(msg)
	case modeRename, modeURL:
		return m.handleEditKey(msg)
	case modeHotkey:
		return m.handleHotkeyKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
		return m, nil

	case key.Matches(msg, m.keys.Focus):
		return m, m.focusCmd()

	case key.Matches(msg, m.keys.Kill):
		if _, ok := m.Selected(); ok {
			m.mode = modeConfirmKill
		}
		return m, nil

	case key.Matches(msg, m.keys.Rename):
		return m.startEdit(modeRename)

	case key.Matches(msg, m.keys.URL):
		return m.startEdit(modeURL)

	case key.Matches(msg, m.keys.Open):
		return m, m.openCmd()

	case key.Matches(msg, m.keys.Hotkey):
		return m.startCapture()

	case key.Matches(msg, m.keys.ClearHotkey):
		return m, m.clearHotkeyCmd()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	return m, nil
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.mode = modeList
		return m, m.killCmd()
	case key.Matches(msg, m.keys.Cancel):
		m.mode = modeList
	}
	return m, nil
}

// startEdit opens the text input for the selected card's name or link.
func (m Model) startEdit(md mode) (tea.Model, tea.Cmd) {
	card, ok := m.Selected()
	if !ok {
		return m, nil
	}
	if m.deps.Overlays == nil {
		m.setError(fmt.Errorf("metadata store not available"))
		return m, nil
	}

	m.mode = md
	m.editID = card.ID
	m.editProject = card.ProjectName
	m.input.Reset()

	if md == modeRename {
		m.input.Placeholder = card.ProjectName
		if card.CustomName {
			m.input.SetValue(card.DisplayName)
		}
	} else {
		m.input.Placeholder = "localhost:3000"
		m.input.SetValue(card.QuickURL)
	}
	m.input.CursorEnd()
	return m, m.input.Focus()
}

func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		m.input.Blur()
		return m, nil

	case "enter":
		value := m.input.Value()
		var err error
		if m.mode == modeRename {
			err = m.deps.Overlays.Names.Set(m.editID, value, m.editProject)
		} else {
			err = m.deps.Overlays.URLs.Set(m.editID, value)
		}
		m.mode = modeList
		m.input.Blur()

		if err != nil {
			log.ErrorLog.Printf("failed to save metadata for %s: %v", m.editID, err)
			m.setError(err)
			return m, nil
		}
		m.redecorate()
		m.setNotice("Saved")
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// redecorate reapplies overlays so an edit shows before the next poll.
func (m *Model) redecorate() {
	snapshots := make([]session.Snapshot, len(m.cards))
	for i, c := range m.cards {
		snapshots[i] = c.Snapshot
	}
	m.cards = m.deps.Overlays.Decorate(snapshots)
}

// startCapture begins recording a global shortcut from the next key presses.
func (m Model) startCapture() (tea.Model, tea.Cmd) {
	if m.deps.Hotkeys == nil {
		m.setError(fmt.Errorf("hotkey manager not available"))
		return m, nil
	}

	// Attach before returning so keys pressed ahead of the capture goroutine
	// are buffered instead of dropped.
	events, detach, err := m.deps.Keys.Attach()
	if err != nil {
		m.setError(fmt.Errorf("cannot record hotkey: %w", err))
		return m, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.mode = modeHotkey
	m.captureCancel = cancel
	m.notice = ""

	recorder, keys := m.deps.Recorder, attachedKeys{events: events, detach: detach}
	return m, func() tea.Msg {
		combo, err := recorder.Capture(ctx, keys)
		return captureDoneMsg{combo: combo, err: err}
	}
}

// attachedKeys hands an already attached listener to Recorder.Capture, which
// then owns the detach.
type attachedKeys struct {
	events <-chan hotkey.KeyEvent
	detach func()
}

func (a attachedKeys) Attach() (<-chan hotkey.KeyEvent, func(), error) {
	return a.events, a.detach, nil
}

func (m Model) handleHotkeyKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		if m.captureCancel != nil {
			m.captureCancel()
		}
		return m, nil
	}

	ev, ok := hotkey.TerminalKey(msg.String())
	if !ok {
		return m, nil
	}
	// Terminals only report presses, so each key is a full press and release.
	if !m.deps.Keys.Send(ev) || !m.deps.Keys.Send(ev.Release()) {
		m.setNotice("Key not recorded, press it again")
	}
	return m, nil
}

func (m Model) applyHotkeyCmd(combo string) tea.Cmd {
	manager := m.deps.Hotkeys
	return func() tea.Msg {
		return hotkeyAppliedMsg{combo: combo, err: manager.Apply(combo)}
	}
}

func (m Model) clearHotkeyCmd() tea.Cmd {
	manager := m.deps.Hotkeys
	if manager == nil {
		return nil
	}
	return func() tea.Msg {
		return hotkeyClearedMsg{err: manager.Clear()}
	}
}

func (m *Model) focusCmd() tea.Cmd {
	card, ok := m.Selected()
	if !ok {
		return nil
	}
	if m.deps.Focuser == nil {
		m.setError(fmt.Errorf("focus is not configured"))
		return nil
	}
	focuser := m.deps.Focuser
	return actionCmd("Focus", func(ctx context.Context) error {
		return focuser.Focus(ctx, card.PID, card.ProjectPath)
	})
}

func (m *Model) killCmd() tea.Cmd {
	card, ok := m.Selected()
	if !ok {
		return nil
	}
	if m.deps.Killer == nil {
		m.setError(fmt.Errorf("kill is not configured"))
		return nil
	}
	killer := m.deps.Killer
	return actionCmd("Kill", func(ctx context.Context) error {
		return killer.Kill(ctx, card.PID)
	})
}

func (m *Model) openCmd() tea.Cmd {
	card, ok := m.Selected()
	if !ok {
		return nil
	}
	url := overlay.OpenTarget(card, m.deps.DefaultScheme)
	if url == "" {
		m.setError(fmt.Errorf("no link for %s", card.DisplayName))
		return nil
	}
	if m.deps.Opener == nil {
		m.setError(fmt.Errorf("opener is not configured"))
		return nil
	}
	opener := m.deps.Opener
	return actionCmd("Open", func(ctx context.Context) error {
		return opener.Open(ctx, url)
	})
}

// actionCmd runs a desktop action off the event loop. Failures are logged only.
func actionCmd(action string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()

		err := fn(ctx)
		if err != nil {
			log.ErrorLog.Printf("%s: %v", action, err)
		}
		return actionDoneMsg{action: action, err: err}
	}
}

func (m *Model) setNotice(s string) {
	m.notice = s
	m.noticeError = false
}

func (m *Model) setError(err error) {
	m.notice = err.Error()
	m.noticeError = true
}
