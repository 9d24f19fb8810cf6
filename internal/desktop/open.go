package desktop

import (
	"context"
	"fmt"
	"runtime"

	"github.com/undrift/sessionboard/pkg/shell"
)

// Opener hands a URL to the system browser, or to a configured command
// whose template may use {url}.
type Opener struct {
	Runner  shell.Runner
	Command string
	goos    string
}

// NewOpener creates an Opener for the current platform.
func NewOpener(runner shell.Runner, command string) *Opener {
	return &Opener{Runner: runner, Command: command, goos: runtime.GOOS}
}

// Open opens url.
func (o *Opener) Open(ctx context.Context, url string) error {
	if url == "" {
		return &ActionError{Action: "open", Err: fmt.Errorf("no URL")}
	}

	var err error
	switch {
	case o.Command != "":
		err = runLine(ctx, o.Runner, shell.Expand(o.Command, map[string]string{"url": url}))
	case o.goos == "darwin":
		_, err = run(ctx, o.Runner, "open", url)
	case o.goos == "windows":
		_, err = run(ctx, o.Runner, "rundll32", "url.dll,FileProtocolHandler", url)
	default:
		_, err = run(ctx, o.Runner, "xdg-open", url)
	}
	if err != nil {
		return &ActionError{Action: "open", Target: url, Err: err}
	}
	return nil
}
