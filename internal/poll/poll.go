// Package poll drives the refresh cycle: fetch a snapshot, classify it, merge
// it into the displayed list without needless reordering, decorate it with
// user metadata and hand the result to the presentation target.
package poll

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/undrift/sessionboard/internal/log"
	"github.com/undrift/sessionboard/internal/order"
	"github.com/undrift/sessionboard/internal/session"
)

// DefaultInterval is the pause between the end of one poll and the start of the next.
const DefaultInterval = 2000 * time.Millisecond

// Frame is what the presentation target renders after each poll.
type Frame struct {
	Cards     []session.Card
	Total     int
	Waiting   int
	Stale     bool
	Err       error
	UpdatedAt time.Time
}

// Target receives frames. Closed reports that the target has been torn down,
// after which results are discarded.
type Target interface {
	Publish(Frame)
	Closed() bool
}

// Tray shows the session counts somewhere outside the main view.
type Tray interface {
	UpdateTrayTitle(total, waiting int) error
}

// Enricher fills in details the producer left out. It may modify sessions in place.
type Enricher interface {
	Enrich(ctx context.Context, sessions []session.Snapshot)
}

// Decorator turns the display list into cards.
type Decorator interface {
	Decorate([]session.Snapshot) []session.Card
}

// Observation describes one finished poll for an Observer.
type Observation struct {
	Duration  time.Duration
	Err       error
	Discarded bool
	Resync    bool
	Sessions  []session.Snapshot
}

// Observer is notified after every poll.
type Observer interface {
	ObservePoll(Observation)
}

// FetchError is a failed fetch. The previous list stays on screen and the
// next poll retries.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch sessions: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Options holds the optional collaborators of a Loop.
type Options struct {
	Interval  time.Duration
	Tray      Tray
	Enricher  Enricher
	Decorator Decorator
	Observer  Observer
}

// Loop owns the display list and the poll schedule.
type Loop struct {
	fetcher session.Fetcher
	target  Target
	opts    Options

	// step serializes polls so a manual refresh never overlaps a scheduled one.
	step sync.Mutex

	mu      sync.Mutex
	display []session.Snapshot
	total   int
	waiting int
}

// New creates a Loop. A zero interval means DefaultInterval.
func New(fetcher session.Fetcher, target Target, opts Options) *Loop {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	return &Loop{fetcher: fetcher, target: target, opts: opts}
}

// Interval returns the pause between polls.
func (l *Loop) Interval() time.Duration {
	return l.opts.Interval
}

// Display returns a copy of the current display list.
func (l *Loop) Display() []session.Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]session.Snapshot, len(l.display))
	copy(out, l.display)
	return out
}

// Run polls immediately and then again Interval after each poll finishes,
// until ctx is cancelled or the target closes.
func (l *Loop) Run(ctx context.Context) error {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}

		_ = l.Step(ctx)

		if l.target.Closed() {
			log.InfoLog.Printf("poll loop stopping: target closed")
			return nil
		}
		timer.Reset(l.opts.Interval)
	}
}

var errNoResponse = errors.New("fetcher returned no response")

// Step runs one poll. It returns a *FetchError when the fetch failed; the
// stale frame has already been published by then.
func (l *Loop) Step(ctx context.Context) error {
	l.step.Lock()
	defer l.step.Unlock()

	defer log.Timed("poll")()

	start := time.Now()
	resp, err := l.fetcher.GetAllSessions(ctx)
	if err == nil && resp == nil {
		err = errNoResponse
	}

	if l.target.Closed() {
		log.Debug("discarding poll result: target closed")
		l.observe(Observation{Duration: time.Since(start), Err: err, Discarded: true})
		return nil
	}

	if err != nil {
		fetchErr := &FetchError{Err: err}
		log.WarningLog.Printf("%v", fetchErr)
		l.publishStale(fetchErr)
		l.observe(Observation{Duration: time.Since(start), Err: fetchErr, Sessions: l.Display()})
		return fetchErr
	}

	resp.Classify()
	if l.opts.Enricher != nil {
		l.opts.Enricher.Enrich(ctx, resp.Sessions)
	}

	l.mu.Lock()
	resync := order.NeedsResync(l.display, resp.Sessions)
	merged := order.Merge(l.display, resp.Sessions)
	l.display = merged
	l.total = resp.TotalCount
	l.waiting = resp.WaitingCount
	l.mu.Unlock()

	l.target.Publish(Frame{
		Cards:     l.decorate(merged),
		Total:     resp.TotalCount,
		Waiting:   resp.WaitingCount,
		UpdatedAt: time.Now(),
	})
	l.updateTray(resp.TotalCount, resp.WaitingCount)
	l.observe(Observation{Duration: time.Since(start), Resync: resync, Sessions: merged})
	return nil
}

func (l *Loop) publishStale(err error) {
	l.mu.Lock()
	display := l.display
	total, waiting := l.total, l.waiting
	l.mu.Unlock()

	l.target.Publish(Frame{
		Cards:     l.decorate(display),
		Total:     total,
		Waiting:   waiting,
		Stale:     true,
		Err:       err,
		UpdatedAt: time.Now(),
	})
}

func (l *Loop) decorate(list []session.Snapshot) []session.Card {
	if l.opts.Decorator != nil {
		return l.opts.Decorator.Decorate(list)
	}
	cards := make([]session.Card, len(list))
	for i, s := range list {
		cards[i] = session.Card{Snapshot: s, DisplayName: s.ProjectName}
	}
	return cards
}

// updateTray never fails the poll.
func (l *Loop) updateTray(total, waiting int) {
	if l.opts.Tray == nil {
		return
	}
	if err := l.opts.Tray.UpdateTrayTitle(total, waiting); err != nil {
		log.WarningLog.Printf("failed to update tray title: %v", err)
	}
}

func (l *Loop) observe(o Observation) {
	if l.opts.Observer != nil {
		l.opts.Observer.ObservePoll(o)
	}
}
