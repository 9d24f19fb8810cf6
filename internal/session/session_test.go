package session

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/undrift/sessionboard/internal/status"
)

func TestResponseClassify_CanonicalizesStatuses(t *testing.T) {
	resp := &Response{
		Sessions: []Snapshot{
			{ID: "a", Status: "Thinking"},
			{ID: "b", Status: "weird"},
			{ID: "c", Status: "waiting"},
		},
		TotalCount:   3,
		WaitingCount: 1,
	}

	resp.Classify()

	assert.Equal(t, status.Thinking, resp.Sessions[0].Status)
	assert.Equal(t, status.Idle, resp.Sessions[1].Status)
	assert.Equal(t, status.Waiting, resp.Sessions[2].Status)
}

func TestResponseClassify_DerivesMissingCounts(t *testing.T) {
	resp := &Response{
		Sessions: []Snapshot{
			{ID: "a", Status: "waiting"},
			{ID: "b", Status: "waiting"},
			{ID: "c", Status: "idle"},
		},
	}

	resp.Classify()

	assert.Equal(t, 3, resp.TotalCount)
	assert.Equal(t, 2, resp.WaitingCount)
}

func TestResponseClassify_KeepsReportedCounts(t *testing.T) {
	resp := &Response{
		Sessions:   []Snapshot{{ID: "a", Status: "waiting"}},
		TotalCount: 5,
	}

	resp.Classify()

	assert.Equal(t, 5, resp.TotalCount)
	assert.Equal(t, 0, resp.WaitingCount)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 100))
	assert.Equal(t, "abc...", Truncate("abcdef", 3))
	assert.Equal(t, "héé...", Truncate("hééllo", 3))

	long := strings.Repeat("x", 150)
	preview := Snapshot{LastMessage: long}.Preview()
	assert.Equal(t, strings.Repeat("x", 100)+"...", preview)
}

func TestLastActivity(t *testing.T) {
	ts, ok := Snapshot{LastActivityAt: "2025-01-02T03:04:05Z"}.LastActivity()
	assert.True(t, ok)
	assert.Equal(t, 2025, ts.Year())

	_, ok = Snapshot{LastActivityAt: "yesterday"}.LastActivity()
	assert.False(t, ok)

	_, ok = Snapshot{}.LastActivity()
	assert.False(t, ok)
}

func TestSortByPriority(t *testing.T) {
	sessions := []Snapshot{
		{ID: "idle", Status: status.Idle, LastActivityAt: "2025-01-01T00:00:09Z"},
		{ID: "old-think", Status: status.Thinking, LastActivityAt: "2025-01-01T00:00:01Z"},
		{ID: "wait", Status: status.Waiting, LastActivityAt: "2025-01-01T00:00:05Z"},
		{ID: "new-proc", Status: status.Processing, LastActivityAt: "2025-01-01T00:00:08Z"},
	}

	SortByPriority(sessions)

	var ids []string
	for _, s := range sessions {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"new-proc", "old-think", "wait", "idle"}, ids)
}
