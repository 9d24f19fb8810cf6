package desktop

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	"github.com/undrift/sessionboard/pkg/shell"
)

// Killer stops a session process.
type Killer struct {
	Runner shell.Runner
	goos   string
}

// NewKiller creates a Killer for the current platform.
func NewKiller(runner shell.Runner) *Killer {
	return &Killer{Runner: runner, goos: runtime.GOOS}
}

// Kill asks the process to terminate.
func (k *Killer) Kill(ctx context.Context, pid int) error {
	target := strconv.Itoa(pid)
	if pid <= 0 {
		return &ActionError{Action: "kill", Target: target, Err: fmt.Errorf("invalid pid")}
	}

	var err error
	if k.goos == "windows" {
		_, err = run(ctx, k.Runner, "taskkill", "/PID", target)
	} else {
		_, err = run(ctx, k.Runner, "kill", "-TERM", target)
	}
	if err != nil {
		return &ActionError{Action: "kill", Target: target, Err: err}
	}
	return nil
}
