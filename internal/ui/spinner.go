package ui

import (
	"os"
	"time"

	"github.com/briandowns/spinner"
)

// Spinner shows progress on stderr so stdout stays clean for piping.
type Spinner struct {
	s *spinner.Spinner
}

// NewSpinner creates a spinner with the given message.
func NewSpinner(msg string) *Spinner {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond,
		spinner.WithWriter(os.Stderr),
		spinner.WithHiddenCursor(true),
	)
	s.Suffix = " " + msg
	s.Color("cyan")
	return &Spinner{s: s}
}

// Start starts the spinner.
func (sp *Spinner) Start() {
	sp.s.Start()
}

// Stop stops the spinner and clears its line.
func (sp *Spinner) Stop() {
	sp.s.Stop()
}

// WithSpinner runs fn while showing a spinner.
func WithSpinner(msg string, fn func() error) error {
	sp := NewSpinner(msg)
	sp.Start()
	defer sp.Stop()
	return fn()
}
