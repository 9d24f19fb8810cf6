package hotkey

import (
	"context"
	"errors"
	"sync"
)

// ErrSourceClosed is returned by Capture when the key source stops delivering events.
var ErrSourceClosed = errors.New("key source closed")

// KeySource delivers raw key events to one listener at a time. Attach starts
// delivery and returns a detach func that must be called exactly once.
type KeySource interface {
	Attach() (<-chan KeyEvent, func(), error)
}

// Capture records one shortcut from src. The listener is attached for the
// duration of the call and detached on every return path: a finished
// shortcut, context cancellation or the source closing.
func (r *Recorder) Capture(ctx context.Context, src KeySource) (string, error) {
	events, detach, err := src.Attach()
	if err != nil {
		return "", err
	}
	defer detach()

	r.Start()
	defer r.Cancel()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return "", ErrSourceClosed
			}
			if shortcut, done := r.Handle(ev); done {
				return shortcut, nil
			}
		}
	}
}

// ChanSource is a KeySource fed by Send. Events sent while nothing is
// attached are dropped.
type ChanSource struct {
	mu       sync.Mutex
	ch       chan KeyEvent
	attached bool
}

// NewChanSource creates a ChanSource.
func NewChanSource() *ChanSource {
	return &ChanSource{}
}

// Attach starts delivery. Only one listener may be attached at a time.
func (s *ChanSource) Attach() (<-chan KeyEvent, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attached {
		return nil, nil, errors.New("key source already attached")
	}
	ch := make(chan KeyEvent, 16)
	s.ch = ch
	s.attached = true

	var once sync.Once
	detach := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.attached = false
			s.ch = nil
		})
	}
	return ch, detach, nil
}

// Attached reports whether a listener is attached.
func (s *ChanSource) Attached() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attached
}

// Send delivers ev to the attached listener. It reports false when the event was dropped.
func (s *ChanSource) Send(ev KeyEvent) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return false
	}
	select {
	case s.ch <- ev:
		return true
	default:
		return false
	}
}
