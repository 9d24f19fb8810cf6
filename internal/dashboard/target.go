package dashboard

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/undrift/sessionboard/internal/desktop"
	"github.com/undrift/sessionboard/internal/poll"
)

// Messages delivered from outside the bubbletea event loop.
type (
	// FrameMsg carries a poll result into the model.
	FrameMsg poll.Frame
	// TitleMsg asks the model to set the window title.
	TitleMsg string
)

// Target forwards poll frames and tray titles to a running program. It
// reports Closed once the program has exited so late polls are discarded.
type Target struct {
	mu      sync.Mutex
	program *tea.Program
	closed  bool
}

// NewTarget creates a Target. Frames are dropped until Attach.
func NewTarget() *Target {
	return &Target{}
}

// Attach connects the program that receives frames.
func (t *Target) Attach(p *tea.Program) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.program = p
}

// Close marks the target torn down.
func (t *Target) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	t.program = nil
}

// Closed reports whether the program has exited.
func (t *Target) Closed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

// Publish sends a frame to the program.
func (t *Target) Publish(f poll.Frame) {
	t.send(FrameMsg(f))
}

// UpdateTrayTitle sets the terminal window title to the session counts.
func (t *Target) UpdateTrayTitle(total, waiting int) error {
	t.send(TitleMsg(desktop.TrayTitle(total, waiting)))
	return nil
}

func (t *Target) send(msg tea.Msg) {
	t.mu.Lock()
	p := t.program
	closed := t.closed
	t.mu.Unlock()

	if p == nil || closed {
		return
	}
	// Send returns once the program has stopped, so it never blocks forever.
	p.Send(msg)
}
