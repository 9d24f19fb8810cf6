package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/undrift/sessionboard/internal/desktop"
	"github.com/undrift/sessionboard/internal/poll"
	"github.com/undrift/sessionboard/internal/ui"
)

var (
	watchInterval time.Duration
	watchTitle    bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print session changes as they happen",
	Long: `Poll the session producer and print a line per session whenever the
snapshot changes. Positions are stable the same way as in the dashboard.

With --title the terminal window title shows the waiting count.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "poll interval (default from poll.interval)")
	watchCmd.Flags().BoolVar(&watchTitle, "title", true, "show counts in the terminal title")
	rootCmd.AddCommand(watchCmd)
}

// printTarget writes frames to a terminal, skipping frames identical to the last one.
type printTarget struct {
	mu   sync.Mutex
	w    io.Writer
	last string
}

func (t *printTarget) Closed() bool { return false }

func (t *printTarget) Publish(f poll.Frame) {
	text := renderFrame(f)

	t.mu.Lock()
	defer t.mu.Unlock()
	if text == t.last {
		return
	}
	t.last = text
	fmt.Fprintf(t.w, "%s %s", ui.Dim(f.UpdatedAt.Format("15:04:05")), text)
}

func renderFrame(f poll.Frame) string {
	var out string
	switch {
	case f.Stale:
		out = ui.Red(fmt.Sprintf("stale: %v", f.Err)) + "\n"
	case f.Waiting > 0:
		out = fmt.Sprintf("%d sessions, %s\n", f.Total, ui.Yellow(fmt.Sprintf("%d waiting", f.Waiting)))
	default:
		out = fmt.Sprintf("%d sessions\n", f.Total)
	}

	for _, c := range f.Cards {
		line := fmt.Sprintf("  %s %s", ui.StatusText(c.Status), ui.Bold(c.DisplayName))
		if c.GitBranch != "" {
			line += " " + ui.Cyan(c.GitBranch)
		}
		if preview := c.Preview(); preview != "" {
			line += " " + ui.Dim(preview)
		}
		out += line + "\n"
	}
	return out
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if watchInterval > 0 {
		a.cfg.Poll.Interval = watchInterval
	}

	var tray poll.Tray
	if watchTitle {
		tray = &desktop.TerminalTitle{W: os.Stdout}
	}

	loop, err := a.newLoop(&printTarget{w: os.Stdout}, tray, nil)
	if err != nil {
		return err
	}

	ui.Infof("Watching sessions every %s (Ctrl+C to stop)", loop.Interval())
	if err := loop.Run(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
