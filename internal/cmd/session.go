package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/undrift/sessionboard/internal/overlay"
	"github.com/undrift/sessionboard/internal/session"
	"github.com/undrift/sessionboard/internal/ui"
)

var focusCmd = &cobra.Command{
	Use:   "focus <session>",
	Short: "Bring a session's window to the front",
	Long: `Focus the terminal running a session, using focus.strategy.

A session can be given by id, id prefix, custom name or project name.`,
	Args: cobra.ExactArgs(1),
	RunE: runFocus,
}

var killCmd = &cobra.Command{
	Use:   "kill <session>",
	Short: "Stop a session process",
	Long:  `Send SIGTERM to a session's process (taskkill on Windows). Asks first unless --yes is set.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runKill,
}

var openCmd = &cobra.Command{
	Use:   "open <session>",
	Short: "Open a session's quick link or GitHub page",
	Long: `Open the quick link set with 'sessionboard url', falling back to the
repository's GitHub page when no link is set.`,
	Args: cobra.ExactArgs(1),
	RunE: runOpen,
}

func init() {
	rootCmd.AddCommand(focusCmd)
	rootCmd.AddCommand(killCmd)
	rootCmd.AddCommand(openCmd)
}

// resolveLive fetches a snapshot and finds query in it.
func resolveLive(cmd *cobra.Command, a *app, query string) (session.Card, error) {
	_, cards, err := a.snapshot(cmd.Context())
	if err != nil {
		return session.Card{}, err
	}
	return findCard(cards, query)
}

func runFocus(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	focuser, err := a.focuser()
	if err != nil {
		return err
	}

	card, err := resolveLive(cmd, a, args[0])
	if err != nil {
		return err
	}

	if err := focuser.Focus(cmd.Context(), card.PID, card.ProjectPath); err != nil {
		return err
	}
	ui.Successf("Focused %s", card.DisplayName)
	return nil
}

func runKill(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	card, err := resolveLive(cmd, a, args[0])
	if err != nil {
		return err
	}

	if !IsYes() {
		ok, err := ui.PromptYesNo(fmt.Sprintf("Kill %s %s (pid %d)?", card.DisplayName, ui.StatusBadge(card.Status), card.PID), false)
		if err != nil {
			return err
		}
		if !ok {
			ui.Info("Cancelled")
			return nil
		}
	}

	if err := a.killer().Kill(cmd.Context(), card.PID); err != nil {
		return err
	}
	ui.Successf("Stopped %s (pid %d)", card.DisplayName, card.PID)
	return nil
}

func runOpen(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	card, err := resolveLive(cmd, a, args[0])
	if err != nil {
		return err
	}

	url := overlay.OpenTarget(card, a.cfg.Opener.DefaultScheme)
	if url == "" {
		return fmt.Errorf("%s has no quick link or GitHub URL; set one with 'sessionboard url %s <url>'", card.DisplayName, card.ID)
	}

	if err := a.opener().Open(cmd.Context(), url); err != nil {
		return err
	}
	ui.Successf("Opened %s", url)
	return nil
}
