// Package status classifies raw session states reported by the snapshot
// producer into the four states the dashboard understands.
package status

import "strings"

// Status is the canonical state of a session.
type Status string

const (
	Thinking   Status = "thinking"
	Processing Status = "processing"
	Waiting    Status = "waiting"
	Idle       Status = "idle"
)

// Reorder tiers. Cards only move when their tier changes.
const (
	TierActive   = 0
	TierWaiting  = 1
	TierInactive = 2
)

// Classify maps a raw status string to a canonical Status.
// Unrecognized values are treated as idle.
func Classify(raw string) Status {
	switch Status(strings.ToLower(strings.TrimSpace(raw))) {
	case Thinking:
		return Thinking
	case Processing:
		return Processing
	case Waiting:
		return Waiting
	default:
		return Idle
	}
}

// Tier returns the reorder tier for a status.
// Thinking and processing share a tier so flipping between them keeps a card in place.
func Tier(s Status) int {
	switch s {
	case Thinking, Processing:
		return TierActive
	case Waiting:
		return TierWaiting
	default:
		return TierInactive
	}
}

// Tier returns the reorder tier for s.
func (s Status) Tier() int {
	return Tier(s)
}

// String returns the canonical lower-case name.
func (s Status) String() string {
	return string(s)
}

// Label returns a human-readable label for output.
func (s Status) Label() string {
	switch s {
	case Thinking:
		return "Thinking"
	case Processing:
		return "Processing"
	case Waiting:
		return "Waiting for input"
	default:
		return "Idle"
	}
}

// NeedsAttention reports whether the session is blocked on the user.
func (s Status) NeedsAttention() bool {
	return s == Waiting
}

// All returns every status in display order.
func All() []Status {
	return []Status{Thinking, Processing, Waiting, Idle}
}
