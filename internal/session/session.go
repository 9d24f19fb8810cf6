// Package session defines the snapshot types exchanged with the session
// producer and the presentation values built from them.
package session

import (
	"sort"
	"time"
	"unicode/utf8"

	"github.com/undrift/sessionboard/internal/status"
)

// Agent types reported by the producer. Other values pass through untouched.
const (
	AgentClaude   = "claude"
	AgentOpenCode = "opencode"
)

// previewLength is the number of characters of the last message shown on a card.
const previewLength = 100

// Snapshot is the reported state of one running session for a single poll.
type Snapshot struct {
	ID                  string        `json:"id"`
	AgentType           string        `json:"agentType"`
	ProjectName         string        `json:"projectName"`
	ProjectPath         string        `json:"projectPath"`
	GitBranch           string        `json:"gitBranch,omitempty"`
	GithubURL           string        `json:"githubUrl,omitempty"`
	Status              status.Status `json:"status"`
	LastMessage         string        `json:"lastMessage,omitempty"`
	LastMessageRole     string        `json:"lastMessageRole,omitempty"`
	LastActivityAt      string        `json:"lastActivityAt"`
	PID                 int           `json:"pid"`
	CPUUsage            float64       `json:"cpuUsage"`
	ActiveSubagentCount int           `json:"activeSubagentCount"`
}

// LastActivity parses LastActivityAt as an RFC 3339 timestamp.
func (s Snapshot) LastActivity() (time.Time, bool) {
	if s.LastActivityAt == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, s.LastActivityAt)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Preview returns the last message shortened for display.
func (s Snapshot) Preview() string {
	return Truncate(s.LastMessage, previewLength)
}

// Truncate shortens text to n characters, appending "..." when cut.
func Truncate(text string, n int) string {
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	return string(runes[:n]) + "..."
}

// Response is the full result of one producer call.
type Response struct {
	Sessions     []Snapshot `json:"sessions"`
	TotalCount   int        `json:"totalCount"`
	WaitingCount int        `json:"waitingCount"`
}

// Classify canonicalizes every session status in place. When the producer
// left both counts at zero they are derived from the classified sessions.
func (r *Response) Classify() {
	for i := range r.Sessions {
		r.Sessions[i].Status = status.Classify(string(r.Sessions[i].Status))
	}

	if r.TotalCount == 0 && r.WaitingCount == 0 && len(r.Sessions) > 0 {
		r.TotalCount = len(r.Sessions)
		r.WaitingCount = CountWaiting(r.Sessions)
	}
}

// CountWaiting returns how many sessions need the user's attention.
func CountWaiting(sessions []Snapshot) int {
	n := 0
	for _, s := range sessions {
		if s.Status.NeedsAttention() {
			n++
		}
	}
	return n
}

// SortByPriority orders sessions by tier, most recent activity first within a tier.
func SortByPriority(sessions []Snapshot) {
	sort.SliceStable(sessions, func(i, j int) bool {
		ti, tj := sessions[i].Status.Tier(), sessions[j].Status.Tier()
		if ti != tj {
			return ti < tj
		}
		return sessions[i].LastActivityAt > sessions[j].LastActivityAt
	})
}

// Card is a snapshot decorated with user metadata, ready to render.
type Card struct {
	Snapshot
	DisplayName string
	CustomName  bool
	QuickURL    string
}
