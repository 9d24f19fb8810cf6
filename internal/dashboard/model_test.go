package dashboard

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/undrift/sessionboard/internal/hotkey"
	"github.com/undrift/sessionboard/internal/kv"
	"github.com/undrift/sessionboard/internal/log"
	"github.com/undrift/sessionboard/internal/overlay"
	"github.com/undrift/sessionboard/internal/poll"
	"github.com/undrift/sessionboard/internal/session"
	"github.com/undrift/sessionboard/internal/status"
)

type fakeActions struct {
	focused []string
	killed  []int
	opened  []string
	err     error
}

func (f *fakeActions) Focus(_ context.Context, pid int, path string) error {
	f.focused = append(f.focused, path)
	return f.err
}

func (f *fakeActions) Kill(_ context.Context, pid int) error {
	f.killed = append(f.killed, pid)
	return f.err
}

func (f *fakeActions) Open(_ context.Context, url string) error {
	f.opened = append(f.opened, url)
	return f.err
}

type acceptingRegistrar struct{ active string }

func (r *acceptingRegistrar) Register(combo string) error { r.active = combo; return nil }
func (r *acceptingRegistrar) Unregister() error           { r.active = ""; return nil }

func card(id, project string, st status.Status, pid int) session.Card {
	return session.Card{
		Snapshot:    session.Snapshot{ID: id, ProjectName: project, ProjectPath: "/src/" + project, Status: st, PID: pid},
		DisplayName: project,
	}
}

func frame(cards ...session.Card) FrameMsg {
	return FrameMsg(poll.Frame{Cards: cards, Total: len(cards), UpdatedAt: time.Now()})
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func newTestModel(actions *fakeActions) (Model, *overlay.Overlays) {
	store := kv.NewMemoryStore()
	overlays := overlay.New(store)
	m := NewModel(Deps{
		Focuser:  actions,
		Killer:   actions,
		Opener:   actions,
		Overlays: overlays,
		Hotkeys:  hotkey.NewManager(&acceptingRegistrar{}, store),
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model), overlays
}

func TestModel_SelectionFollowsSessionAcrossFrames(t *testing.T) {
	m, _ := newTestModel(&fakeActions{})

	m, _ = update(t, m, frame(card("a", "api", status.Idle, 1), card("b", "web", status.Idle, 2)))
	m, _ = update(t, m, keyRunes("j"))

	selected, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "b", selected.ID)

	// "b" moves to the top after a resync; the cursor follows it.
	m, _ = update(t, m, frame(card("b", "web", status.Waiting, 2), card("a", "api", status.Idle, 1)))

	selected, _ = m.Selected()
	assert.Equal(t, "b", selected.ID)
}

func TestModel_SelectionClampsWhenSessionEnds(t *testing.T) {
	m, _ := newTestModel(&fakeActions{})

	m, _ = update(t, m, frame(card("a", "api", status.Idle, 1), card("b", "web", status.Idle, 2)))
	m, _ = update(t, m, keyRunes("j"))
	m, _ = update(t, m, frame(card("a", "api", status.Idle, 1)))

	selected, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "a", selected.ID)

	m, _ = update(t, m, frame())
	_, ok = m.Selected()
	assert.False(t, ok)
}

func TestModel_FocusRunsAction(t *testing.T) {
	actions := &fakeActions{}
	m, _ := newTestModel(actions)
	m, _ = update(t, m, frame(card("a", "api", status.Waiting, 1)))

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	assert.Equal(t, []string{"/src/api"}, actions.focused)
	assert.Equal(t, "Focus done", m.Notice())
}

func TestModel_FocusFailureIsLoggedNotShown(t *testing.T) {
	var logged bytes.Buffer
	log.SetOutput(&logged)
	defer log.SetOutput(io.Discard)

	actions := &fakeActions{err: errors.New("no tmux pane")}
	m, _ := newTestModel(actions)
	m, _ = update(t, m, frame(card("a", "api", status.Waiting, 1)))

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = update(t, m, cmd())

	assert.False(t, m.noticeError)
	assert.NotContains(t, m.Notice(), "no tmux pane")
	assert.Contains(t, logged.String(), "Focus: no tmux pane")
	assert.Len(t, m.Cards(), 1)
}

func TestModel_KillNeedsConfirmation(t *testing.T) {
	actions := &fakeActions{}
	m, _ := newTestModel(actions)
	m, _ = update(t, m, frame(card("a", "api", status.Idle, 4242)))

	m, cmd := update(t, m, keyRunes("x"))
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "Kill Session")

	m, _ = update(t, m, keyRunes("n"))
	assert.Empty(t, actions.killed)

	m, _ = update(t, m, keyRunes("x"))
	m, cmd = update(t, m, keyRunes("y"))
	require.NotNil(t, cmd)
	cmd()

	assert.Equal(t, []int{4242}, actions.killed)
}

func TestModel_RenameUpdatesCardImmediately(t *testing.T) {
	m, overlays := newTestModel(&fakeActions{})
	m, _ = update(t, m, frame(card("a", "api", status.Idle, 1)))

	m, _ = update(t, m, keyRunes("r"))
	m, _ = update(t, m, keyRunes("backend"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	selected, _ := m.Selected()
	assert.Equal(t, "backend", selected.DisplayName)
	assert.True(t, selected.CustomName)

	name, ok := overlays.Names.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "backend", name)
}

func TestModel_RenameToProjectNameClears(t *testing.T) {
	m, overlays := newTestModel(&fakeActions{})
	require.NoError(t, overlays.Names.Set("a", "custom", "api"))
	m, _ = update(t, m, frame(overlays.Decorate([]session.Snapshot{card("a", "api", status.Idle, 1).Snapshot})...))

	m, _ = update(t, m, keyRunes("r"))
	for i := 0; i < len("custom"); i++ {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	}
	m, _ = update(t, m, keyRunes("api"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	_, ok := overlays.Names.Get("a")
	assert.False(t, ok)
	selected, _ := m.Selected()
	assert.Equal(t, "api", selected.DisplayName)
	assert.False(t, selected.CustomName)
}

func TestModel_EditEscapeDiscards(t *testing.T) {
	m, overlays := newTestModel(&fakeActions{})
	m, _ = update(t, m, frame(card("a", "api", status.Idle, 1)))

	m, _ = update(t, m, keyRunes("u"))
	m, _ = update(t, m, keyRunes("localhost:8080"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.Empty(t, overlays.URLs.All())
	assert.NotContains(t, m.View(), "Quick Link")
}

func TestModel_OpenUsesNormalizedQuickURL(t *testing.T) {
	actions := &fakeActions{}
	m, _ := newTestModel(actions)
	c := card("a", "api", status.Idle, 1)
	c.QuickURL = "localhost:3000"
	m, _ = update(t, m, frame(c))

	_, cmd := update(t, m, keyRunes("o"))
	require.NotNil(t, cmd)
	cmd()

	assert.Equal(t, []string{"http://localhost:3000"}, actions.opened)
}

func TestModel_OpenWithoutLink(t *testing.T) {
	actions := &fakeActions{}
	m, _ := newTestModel(actions)
	m, _ = update(t, m, frame(card("a", "api", status.Idle, 1)))

	m, cmd := update(t, m, keyRunes("o"))

	assert.Nil(t, cmd)
	assert.Contains(t, m.Notice(), "no link")
}

func TestModel_StaleFrameKeepsCards(t *testing.T) {
	m, _ := newTestModel(&fakeActions{})
	m, _ = update(t, m, frame(card("a", "api", status.Idle, 1)))

	stale := FrameMsg(poll.Frame{
		Cards: m.Cards(),
		Total: 1,
		Stale: true,
		Err:   &poll.FetchError{Err: errors.New("timeout")},
	})
	m, _ = update(t, m, stale)

	assert.Len(t, m.Cards(), 1)
	assert.Contains(t, m.View(), "[stale]")
}

func TestModel_TitleMsgSetsWindowTitle(t *testing.T) {
	m, _ := newTestModel(&fakeActions{})

	_, cmd := update(t, m, TitleMsg("sessionboard: 2 sessions"))

	assert.NotNil(t, cmd)
}

func TestModel_RecordHotkey(t *testing.T) {
	m, _ := newTestModel(&fakeActions{})

	m, cmd := update(t, m, keyRunes("h"))
	require.NotNil(t, cmd)
	require.True(t, m.deps.Keys.Attached())

	result := make(chan tea.Msg, 1)
	go func() { result <- cmd() }()

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k"), Alt: true})

	var captured tea.Msg
	select {
	case captured = <-result:
	case <-time.After(time.Second):
		t.Fatal("capture did not finish")
	}
	assert.False(t, m.deps.Keys.Attached())

	m, cmd = update(t, m, captured)
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	assert.Equal(t, "Option+K", m.deps.Hotkeys.Current())
	assert.Equal(t, "Hotkey set to Option+K", m.Notice())
}

func TestModel_RecordHotkeyCancel(t *testing.T) {
	m, _ := newTestModel(&fakeActions{})

	m, cmd := update(t, m, keyRunes("h"))
	require.True(t, m.deps.Keys.Attached())
	result := make(chan tea.Msg, 1)
	go func() { result <- cmd() }()

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	var captured tea.Msg
	select {
	case captured = <-result:
	case <-time.After(time.Second):
		t.Fatal("capture did not stop after esc")
	}
	m, cmd = update(t, m, captured)

	assert.Nil(t, cmd)
	assert.False(t, m.deps.Keys.Attached())
	assert.Empty(t, m.deps.Hotkeys.Current())
	assert.Equal(t, "Hotkey recording cancelled", m.Notice())
}

func TestModel_RecordHotkeyKeepsKeysPressedBeforeCaptureRuns(t *testing.T) {
	m, _ := newTestModel(&fakeActions{})

	m, cmd := update(t, m, keyRunes("h"))
	require.NotNil(t, cmd)

	// The key arrives before the capture command has started.
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j"), Alt: true})
	assert.Empty(t, m.Notice())

	captured, ok := cmd().(captureDoneMsg)
	require.True(t, ok)
	require.NoError(t, captured.err)
	assert.Equal(t, "Option+J", captured.combo)
	assert.False(t, m.deps.Keys.Attached())
}

func TestModel_RecordHotkeyReportsDroppedKey(t *testing.T) {
	m, _ := newTestModel(&fakeActions{})

	m, cmd := update(t, m, keyRunes("h"))
	require.NotNil(t, cmd)

	// Nothing drains the buffer until the capture command runs.
	for i := 0; i < 8; i++ {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x"), Alt: true})
	}
	assert.Empty(t, m.Notice())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x"), Alt: true})
	assert.Equal(t, "Key not recorded, press it again", m.Notice())
	assert.False(t, m.noticeError)
}

func TestModel_RecordHotkeyWhileSourceBusy(t *testing.T) {
	m, _ := newTestModel(&fakeActions{})
	_, detach, err := m.deps.Keys.Attach()
	require.NoError(t, err)
	defer detach()

	m, cmd := update(t, m, keyRunes("h"))

	assert.Nil(t, cmd)
	assert.Equal(t, modeList, m.mode)
	assert.True(t, m.noticeError)
	assert.Contains(t, m.Notice(), "already attached")
}

func TestTarget_DropsAfterClose(t *testing.T) {
	target := NewTarget()
	assert.False(t, target.Closed())

	// Without an attached program frames are dropped.
	target.Publish(poll.Frame{})
	assert.NoError(t, target.UpdateTrayTitle(1, 0))

	target.Close()
	assert.True(t, target.Closed())
	target.Publish(poll.Frame{})
}
