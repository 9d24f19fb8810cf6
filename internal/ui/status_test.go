package ui

import (
	"strings"
	"testing"

	"github.com/undrift/sessionboard/internal/status"
)

func TestStatusBadge(t *testing.T) {
	for _, st := range status.All() {
		t.Run(string(st), func(t *testing.T) {
			want := "[" + st.Label() + "]"
			if result := StatusBadge(st); !strings.Contains(result, want) {
				t.Errorf("StatusBadge(%s) = %q, want it to contain %q", st, result, want)
			}
		})
	}
}

func TestStatusBadge_IdleIsPlain(t *testing.T) {
	if got, want := StatusBadge(status.Idle), "["+status.Idle.Label()+"]"; got != want {
		t.Errorf("StatusBadge(idle) = %q, want %q", got, want)
	}
}

func TestStatusText(t *testing.T) {
	for _, st := range status.All() {
		if result := StatusText(st); !strings.Contains(result, string(st)) {
			t.Errorf("StatusText(%s) = %q, want it to contain the status", st, result)
		}
	}
}

func TestStatusTableColor(t *testing.T) {
	for _, st := range []status.Status{status.Thinking, status.Processing, status.Waiting} {
		if len(StatusTableColor(st)) == 0 {
			t.Errorf("StatusTableColor(%s) should be colored", st)
		}
	}
	if len(StatusTableColor(status.Idle)) != 0 {
		t.Error("StatusTableColor(idle) should be uncolored")
	}
}
