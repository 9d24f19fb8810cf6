package cmd

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/undrift/sessionboard/internal/dashboard"
	"github.com/undrift/sessionboard/internal/log"
	"github.com/undrift/sessionboard/internal/metrics"
	"github.com/undrift/sessionboard/internal/poll"
	"github.com/undrift/sessionboard/internal/ui"
)

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"ui"},
	Short:   "Open the live session dashboard",
	Long: `Interactive TUI showing every session, polled on a fixed interval.

Cards keep their position until their state tier changes. From the list you
can focus a session, kill it, rename it, attach a quick link, open that link,
and record the global hotkey.

When metrics.addr is set, Prometheus metrics are served on /metrics while
the dashboard runs.`,
	RunE: runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	focuser, err := a.focuser()
	if err != nil {
		return err
	}

	hotkeys := a.hotkeys()
	if err := hotkeys.Restore(); err != nil {
		ui.Warningf("Saved hotkey could not be registered: %v", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	var observer poll.Observer
	if addr := a.cfg.Metrics.Addr; addr != "" {
		m := metrics.New()
		observer = m
		go func() {
			if err := m.Serve(ctx, addr); err != nil {
				log.ErrorLog.Printf("metrics server: %v", err)
			}
		}()
	}

	target := dashboard.NewTarget()
	loop, err := a.newLoop(target, target, observer)
	if err != nil {
		return err
	}

	model := dashboard.NewModel(dashboard.Deps{
		Focuser:       focuser,
		Killer:        a.killer(),
		Opener:        a.opener(),
		Overlays:      a.overlays,
		Hotkeys:       hotkeys,
		DefaultScheme: a.cfg.Opener.DefaultScheme,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	target.Attach(p)

	go func() {
		if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.ErrorLog.Printf("poll loop stopped: %v", err)
		}
	}()

	_, err = p.Run()
	target.Close()
	cancel()

	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("dashboard error: %w", err)
	}
	if IsVerbose() && log.FileName() != "" {
		ui.Infof("Log written to %s", log.FileName())
	}
	return nil
}
