// Package shell provides utilities for executing external commands.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// Result holds the output and exit code of a command execution.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// Runner executes external commands. Adapters take a Runner so tests can fake it.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (*Result, error)
	RunInDir(ctx context.Context, dir, name string, args ...string) (*Result, error)
	RunInteractive(ctx context.Context, name string, args ...string) error
}

// DefaultRunner implements the Runner interface using real process execution.
type DefaultRunner struct{}

// NewRunner creates a new DefaultRunner.
func NewRunner() Runner {
	return &DefaultRunner{}
}

// Run executes a command with context support.
func (r *DefaultRunner) Run(ctx context.Context, name string, args ...string) (*Result, error) {
	return runCmd(ctx, "", false, name, args...)
}

// RunInDir runs a command in a specific directory with context support.
func (r *DefaultRunner) RunInDir(ctx context.Context, dir, name string, args ...string) (*Result, error) {
	return runCmd(ctx, dir, false, name, args...)
}

// RunInteractive runs a command with stdin/stdout/stderr attached.
func (r *DefaultRunner) RunInteractive(ctx context.Context, name string, args ...string) error {
	_, err := runCmd(ctx, "", true, name, args...)
	return err
}

func runCmd(ctx context.Context, dir string, interactive bool, name string, args ...string) (*Result, error) {
	start := time.Now()
	cmd := exec.CommandContext(ctx, name, args...)

	if dir != "" {
		cmd.Dir = dir
	}

	var stdout, stderr bytes.Buffer
	if interactive {
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	} else {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	}

	err := cmd.Run()

	result := &Result{
		Stdout:   strings.TrimSpace(stdout.String()),
		Stderr:   strings.TrimSpace(stderr.String()),
		Duration: time.Since(start),
	}

	if err == nil {
		return result, nil
	}

	// A context deadline kills the process; report it as a failure, not an exit code.
	if ctxErr := ctx.Err(); ctxErr != nil {
		result.ExitCode = -1
		return result, fmt.Errorf("'%s' did not finish: %w", name, ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}

	result.ExitCode = -1
	return result, fmt.Errorf("failed to execute '%s': %w", name, err)
}

// RunWithTimeout runs a command with a timeout.
func RunWithTimeout(timeout time.Duration, name string, args ...string) (*Result, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return runCmd(ctx, "", false, name, args...)
}

// Which returns the full path to a command, or empty string if not found.
func Which(name string) string {
	path, err := exec.LookPath(name)
	if err != nil {
		return ""
	}
	return path
}

// CommandLine turns a configured command line into a program and arguments
// by handing it to the platform shell.
func CommandLine(line string) (string, []string) {
	if runtime.GOOS == "windows" {
		return "cmd", []string{"/C", line}
	}
	return "sh", []string{"-c", line}
}

// Expand substitutes {key} placeholders in a command template. Values are
// single-quoted so paths with spaces survive the shell.
func Expand(template string, values map[string]string) string {
	out := template
	for k, v := range values {
		out = strings.ReplaceAll(out, "{"+k+"}", Quote(v))
	}
	return out
}

// Quote wraps s in single quotes for a POSIX shell.
func Quote(s string) string {
	if runtime.GOOS == "windows" {
		return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
