package desktop

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/undrift/sessionboard/pkg/shell"
)

// Focus strategies accepted by NewFocuser.
const (
	FocusTmux    = "tmux"
	FocusCommand = "command"
	FocusNone    = "none"
)

// Focuser brings the window running a session to the front.
type Focuser interface {
	Focus(ctx context.Context, pid int, projectPath string) error
}

// NewFocuser returns the Focuser for a configured strategy.
func NewFocuser(strategy, command string, runner shell.Runner) (Focuser, error) {
	switch strategy {
	case "", FocusTmux:
		return &TmuxFocuser{Runner: runner}, nil
	case FocusCommand:
		if command == "" {
			return nil, fmt.Errorf("focus strategy %q needs focus.command", strategy)
		}
		return &CommandFocuser{Runner: runner, Command: command}, nil
	case FocusNone:
		return NoopFocuser{}, nil
	default:
		return nil, fmt.Errorf("unknown focus strategy %q (want tmux, command or none)", strategy)
	}
}

// TmuxFocuser switches the tmux client to the session whose pane sits in the
// project directory.
type TmuxFocuser struct {
	Runner shell.Runner
}

// Focus finds the tmux session and switches to it.
func (f *TmuxFocuser) Focus(ctx context.Context, pid int, projectPath string) error {
	target, err := f.FindSession(ctx, projectPath)
	if err != nil {
		return &ActionError{Action: "focus", Target: projectPath, Err: err}
	}

	if _, err := run(ctx, f.Runner, "tmux", "switch-client", "-t", target); err != nil {
		return &ActionError{Action: "focus", Target: target, Err: err}
	}
	return nil
}

// FindSession returns the tmux session owning a pane in projectPath. An exact
// directory match wins over a pane in a subdirectory.
func (f *TmuxFocuser) FindSession(ctx context.Context, projectPath string) (string, error) {
	if projectPath == "" {
		return "", fmt.Errorf("session has no project path")
	}

	result, err := run(ctx, f.Runner, "tmux", "list-panes", "-a", "-F", "#{session_name}|#{pane_current_path}")
	if err != nil {
		return "", err
	}

	want := filepath.Clean(projectPath)
	nested := ""
	for _, line := range strings.Split(result.Stdout, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "|", 2)
		if len(parts) != 2 {
			continue
		}
		name, dir := parts[0], filepath.Clean(parts[1])
		if dir == want {
			return name, nil
		}
		if nested == "" && strings.HasPrefix(dir, want+string(filepath.Separator)) {
			nested = name
		}
	}

	if nested != "" {
		return nested, nil
	}
	return "", fmt.Errorf("no tmux pane in %s", projectPath)
}

// CommandFocuser runs a configured command. The template may use {pid} and {path}.
type CommandFocuser struct {
	Runner  shell.Runner
	Command string
}

// Focus runs the focus command for the session.
func (f *CommandFocuser) Focus(ctx context.Context, pid int, projectPath string) error {
	line := shell.Expand(f.Command, map[string]string{
		"pid":  strconv.Itoa(pid),
		"path": projectPath,
	})
	if err := runLine(ctx, f.Runner, line); err != nil {
		return &ActionError{Action: "focus", Target: projectPath, Err: err}
	}
	return nil
}

// NoopFocuser does nothing.
type NoopFocuser struct{}

func (NoopFocuser) Focus(context.Context, int, string) error { return nil }
