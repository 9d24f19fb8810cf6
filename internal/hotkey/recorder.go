package hotkey

import (
	"strings"
	"sync"
)

// Recorder turns key events into a shortcut string.
//
// It is idle until Start. While recording, every press replaces the buffer
// with the held modifiers followed by the pressed key, so when two ordinary
// keys are pressed before a release only the last one is kept. Releasing an
// ordinary key finalizes the buffer and returns the recorder to idle.
type Recorder struct {
	mu        sync.Mutex
	recording bool
	combo     []string
}

// NewRecorder returns an idle Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Start enters recording and clears any previous buffer.
func (r *Recorder) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recording = true
	r.combo = nil
}

// Cancel leaves recording without producing a shortcut.
func (r *Recorder) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recording = false
	r.combo = nil
}

// Recording reports whether the recorder is capturing.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

// Pending returns the shortcut built so far, for display while recording.
func (r *Recorder) Pending() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return strings.Join(r.combo, Separator)
}

// Handle feeds one event to the recorder. It returns the finished shortcut
// and true when the event completed a recording.
func (r *Recorder) Handle(ev KeyEvent) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.recording {
		return "", false
	}

	switch ev.Kind {
	case Press:
		combo := ev.Modifiers.Tokens()
		if tok, ok := modifierToken(ev.Key); ok {
			combo = withModifier(ev.Modifiers, tok).Tokens()
		} else if ev.Key != "" {
			combo = append(combo, NormalizeKey(ev.Key))
		}
		r.combo = combo
		return "", false

	case Release:
		if IsModifier(ev.Key) || len(r.combo) == 0 {
			return "", false
		}
		shortcut := strings.Join(r.combo, Separator)
		r.recording = false
		r.combo = nil
		return shortcut, true
	}

	return "", false
}
