// Package order merges each new session snapshot into the list currently on
// screen so that cards only move when something worth moving for happened.
package order

import (
	"github.com/undrift/sessionboard/internal/session"
)

// Merge combines the displayed list with a fresh snapshot.
//
// The snapshot order is taken as-is when nothing is displayed yet, when any
// session changed tier, or when a session appeared. Otherwise the displayed
// order is kept, ended sessions are dropped and every card shows its new data.
// Merge never modifies its arguments.
func Merge(previous, incoming []session.Snapshot) []session.Snapshot {
	next := Dedupe(incoming)
	if NeedsResync(previous, next) {
		return next
	}

	byID := make(map[string]session.Snapshot, len(next))
	for _, s := range next {
		byID[s.ID] = s
	}

	merged := make([]session.Snapshot, 0, len(next))
	emitted := make(map[string]bool, len(next))
	for _, old := range previous {
		s, ok := byID[old.ID]
		if !ok || emitted[old.ID] {
			continue
		}
		merged = append(merged, s)
		emitted[old.ID] = true
	}

	// Unreachable after NeedsResync, kept so no incoming id is ever lost.
	for _, s := range next {
		if !emitted[s.ID] {
			merged = append(merged, s)
			emitted[s.ID] = true
		}
	}

	return merged
}

// NeedsResync reports whether incoming should replace the displayed order
// outright: nothing is displayed, a shared id changed tier, or a new id appeared.
func NeedsResync(previous, incoming []session.Snapshot) bool {
	if len(previous) == 0 {
		return true
	}

	tiers := make(map[string]int, len(previous))
	for _, s := range previous {
		tiers[s.ID] = s.Status.Tier()
	}

	for _, s := range incoming {
		tier, seen := tiers[s.ID]
		if !seen || tier != s.Status.Tier() {
			return true
		}
	}
	return false
}

// Dedupe returns a copy of sessions with one entry per id. A repeated id keeps
// the position of its first occurrence and the data of its last.
func Dedupe(sessions []session.Snapshot) []session.Snapshot {
	out := make([]session.Snapshot, 0, len(sessions))
	pos := make(map[string]int, len(sessions))
	for _, s := range sessions {
		if i, ok := pos[s.ID]; ok {
			out[i] = s
			continue
		}
		pos[s.ID] = len(out)
		out = append(out, s)
	}
	return out
}
