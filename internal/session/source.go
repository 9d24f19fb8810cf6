package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/undrift/sessionboard/pkg/shell"
)

// Fetcher produces a fresh snapshot of every running session.
type Fetcher interface {
	GetAllSessions(ctx context.Context) (*Response, error)
}

// CommandSource runs an external command that prints a Response as JSON.
type CommandSource struct {
	Runner  shell.Runner
	Command string
	Timeout time.Duration
}

// NewCommandSource creates a CommandSource using the default runner.
func NewCommandSource(command string, timeout time.Duration) *CommandSource {
	return &CommandSource{
		Runner:  shell.NewRunner(),
		Command: command,
		Timeout: timeout,
	}
}

// GetAllSessions runs the configured command and decodes its stdout.
func (c *CommandSource) GetAllSessions(ctx context.Context) (*Response, error) {
	if c.Command == "" {
		return nil, fmt.Errorf("no fetch command configured")
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	name, args := shell.CommandLine(c.Command)
	result, err := c.Runner.Run(ctx, name, args...)
	if err != nil {
		return nil, err
	}
	if result.ExitCode != 0 {
		return nil, fmt.Errorf("fetch command exited with code %d: %s", result.ExitCode, result.Stderr)
	}

	return Decode([]byte(result.Stdout))
}

// FileSource reads a Response from a JSON file written by another process.
type FileSource struct {
	Path string
}

// GetAllSessions reads and decodes the file.
func (f *FileSource) GetAllSessions(ctx context.Context) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sessions file: %w", err)
	}
	return Decode(data)
}

// Decode parses a producer payload. A bare JSON array of sessions is also accepted.
func Decode(data []byte) (*Response, error) {
	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		var sessions []Snapshot
		if arrErr := json.Unmarshal(data, &sessions); arrErr != nil {
			return nil, fmt.Errorf("failed to decode sessions: %w", err)
		}
		resp.Sessions = sessions
	}
	if resp.Sessions == nil {
		resp.Sessions = []Snapshot{}
	}
	return &resp, nil
}
