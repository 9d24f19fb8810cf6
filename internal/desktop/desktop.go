// Package desktop performs the side effects a user triggers from a session
// card: focusing its window, stopping it, opening its link and binding the
// global shortcut. Every action shells out through a shell.Runner.
package desktop

import (
	"context"
	"fmt"
	"strings"

	"github.com/undrift/sessionboard/pkg/shell"
)

// ActionError reports a desktop action that did not complete. Callers log it
// and carry on.
type ActionError struct {
	Action string
	Target string
	Err    error
}

func (e *ActionError) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("%s failed: %v", e.Action, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Action, e.Target, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// run executes a command and turns a non-zero exit into an error carrying stderr.
func run(ctx context.Context, runner shell.Runner, name string, args ...string) (*shell.Result, error) {
	result, err := runner.Run(ctx, name, args...)
	if err != nil {
		return nil, err
	}
	if result.ExitCode != 0 {
		msg := strings.TrimSpace(result.Stderr)
		if msg == "" {
			msg = strings.TrimSpace(result.Stdout)
		}
		return result, fmt.Errorf("%s exited with code %d: %s", name, result.ExitCode, msg)
	}
	return result, nil
}

// runLine executes a configured command line through the platform shell.
func runLine(ctx context.Context, runner shell.Runner, line string) error {
	name, args := shell.CommandLine(line)
	_, err := run(ctx, runner, name, args...)
	return err
}
