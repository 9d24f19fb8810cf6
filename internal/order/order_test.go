package order

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/undrift/sessionboard/internal/session"
	"github.com/undrift/sessionboard/internal/status"
)

func snap(id string, st status.Status) session.Snapshot {
	return session.Snapshot{ID: id, Status: st, ProjectName: id}
}

func ids(list []session.Snapshot) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		out = append(out, s.ID)
	}
	return out
}

func TestMerge_EmptyPreviousTakesIncoming(t *testing.T) {
	incoming := []session.Snapshot{snap("b", status.Idle), snap("a", status.Thinking)}

	got := Merge(nil, incoming)

	assert.Equal(t, incoming, got)
}

func TestMerge_SameTierKeepsOrder(t *testing.T) {
	previous := []session.Snapshot{snap("A", status.Processing), snap("B", status.Idle)}
	incoming := []session.Snapshot{snap("B", status.Idle), snap("A", status.Thinking)}

	got := Merge(previous, incoming)

	assert.Equal(t, []string{"A", "B"}, ids(got))
	assert.Equal(t, status.Thinking, got[0].Status)
}

func TestMerge_TierFlipForcesResync(t *testing.T) {
	previous := []session.Snapshot{snap("A", status.Thinking), snap("B", status.Idle)}
	incoming := []session.Snapshot{snap("A", status.Idle), snap("B", status.Thinking)}

	got := Merge(previous, incoming)

	assert.Equal(t, incoming, got)
}

func TestMerge_SingleTierChangeResyncsEverything(t *testing.T) {
	previous := []session.Snapshot{snap("A", status.Idle), snap("B", status.Idle), snap("C", status.Idle)}
	incoming := []session.Snapshot{snap("C", status.Waiting), snap("B", status.Idle), snap("A", status.Idle)}

	got := Merge(previous, incoming)

	assert.Equal(t, []string{"C", "B", "A"}, ids(got))
}

func TestMerge_NewIDForcesResync(t *testing.T) {
	previous := []session.Snapshot{snap("A", status.Idle)}
	incoming := []session.Snapshot{snap("C", status.Idle), snap("A", status.Idle)}

	got := Merge(previous, incoming)

	assert.Equal(t, []string{"C", "A"}, ids(got))
}

func TestMerge_RemovalWithoutArrivals(t *testing.T) {
	previous := []session.Snapshot{snap("A", status.Idle), snap("B", status.Waiting)}
	incoming := []session.Snapshot{snap("B", status.Waiting)}

	got := Merge(previous, incoming)

	assert.Equal(t, []string{"B"}, ids(got))
}

func TestMerge_RemovalKeepsRemainingOrder(t *testing.T) {
	previous := []session.Snapshot{snap("A", status.Idle), snap("B", status.Idle), snap("C", status.Idle)}
	incoming := []session.Snapshot{snap("C", status.Idle), snap("A", status.Idle)}

	got := Merge(previous, incoming)

	assert.Equal(t, []string{"A", "C"}, ids(got))
}

func TestMerge_EmptyIncomingClearsList(t *testing.T) {
	previous := []session.Snapshot{snap("A", status.Idle)}

	got := Merge(previous, nil)

	assert.Empty(t, got)
}

func TestMerge_RefreshesFieldsInPlace(t *testing.T) {
	previous := []session.Snapshot{snap("A", status.Waiting), snap("B", status.Idle)}
	updated := snap("B", status.Idle)
	updated.LastMessage = "done"
	incoming := []session.Snapshot{updated, snap("A", status.Waiting)}

	got := Merge(previous, incoming)

	assert.Equal(t, []string{"A", "B"}, ids(got))
	assert.Equal(t, "done", got[1].LastMessage)
}

func TestMerge_Idempotent(t *testing.T) {
	previous := []session.Snapshot{snap("A", status.Thinking), snap("B", status.Waiting), snap("C", status.Idle)}
	incoming := []session.Snapshot{snap("C", status.Idle), snap("B", status.Waiting), snap("A", status.Processing)}

	once := Merge(previous, incoming)
	twice := Merge(once, incoming)

	assert.Equal(t, once, twice)
}

func TestMerge_DuplicateIncomingLaterWins(t *testing.T) {
	first := snap("A", status.Idle)
	second := snap("A", status.Idle)
	second.LastMessage = "latest"
	incoming := []session.Snapshot{first, snap("B", status.Idle), second}

	got := Merge(nil, incoming)

	assert.Equal(t, []string{"A", "B"}, ids(got))
	assert.Equal(t, "latest", got[0].LastMessage)
}

func TestMerge_DoesNotModifyInputs(t *testing.T) {
	previous := []session.Snapshot{snap("A", status.Idle), snap("B", status.Idle)}
	incoming := []session.Snapshot{snap("B", status.Idle), snap("A", status.Idle)}
	prevCopy := append([]session.Snapshot(nil), previous...)
	inCopy := append([]session.Snapshot(nil), incoming...)

	_ = Merge(previous, incoming)

	assert.Equal(t, prevCopy, previous)
	assert.Equal(t, inCopy, incoming)
}

func TestMerge_NeverDropsIncomingIDs(t *testing.T) {
	cases := []struct {
		name     string
		previous []session.Snapshot
		incoming []session.Snapshot
	}{
		{"empty", nil, []session.Snapshot{snap("A", status.Idle)}},
		{"stable", []session.Snapshot{snap("A", status.Idle), snap("B", status.Idle)}, []session.Snapshot{snap("B", status.Idle), snap("A", status.Idle)}},
		{"tier", []session.Snapshot{snap("A", status.Idle)}, []session.Snapshot{snap("A", status.Waiting)}},
		{"new", []session.Snapshot{snap("A", status.Idle)}, []session.Snapshot{snap("A", status.Idle), snap("Z", status.Idle)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Merge(tc.previous, tc.incoming)
			assert.ElementsMatch(t, ids(tc.incoming), ids(got))
		})
	}
}

func TestNeedsResync(t *testing.T) {
	a := []session.Snapshot{snap("A", status.Thinking)}

	assert.True(t, NeedsResync(nil, a))
	assert.False(t, NeedsResync(a, []session.Snapshot{snap("A", status.Processing)}))
	assert.True(t, NeedsResync(a, []session.Snapshot{snap("A", status.Waiting)}))
	assert.True(t, NeedsResync(a, []session.Snapshot{snap("A", status.Thinking), snap("B", status.Idle)}))
	assert.False(t, NeedsResync(a, nil))
}

func TestDedupe(t *testing.T) {
	got := Dedupe([]session.Snapshot{snap("A", status.Idle), snap("A", status.Waiting), snap("B", status.Idle)})

	assert.Equal(t, []string{"A", "B"}, ids(got))
	assert.Equal(t, status.Waiting, got[0].Status)
}
