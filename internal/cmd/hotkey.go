package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/undrift/sessionboard/internal/hotkey"
	"github.com/undrift/sessionboard/internal/ui"
)

var hotkeyCmd = &cobra.Command{
	Use:   "hotkey",
	Short: "Manage the global hotkey",
	Long: `Show, set or clear the system-wide shortcut that brings up sessionboard.

Binding is done by hotkey.register_command and hotkey.unregister_command,
which receive the shortcut as {combo}. A shortcut is only saved once the
register command succeeds. Shortcuts can also be recorded from the
dashboard with 'h'.`,
}

var hotkeyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the saved hotkey",
	RunE:  runHotkeyShow,
}

var hotkeySetCmd = &cobra.Command{
	Use:   "set [shortcut]",
	Short: "Register and save a hotkey",
	Example: `  sessionboard hotkey set cmd+shift+k
  sessionboard hotkey set "Option+Space"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHotkeySet,
}

var hotkeyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Unregister and forget the hotkey",
	RunE:  runHotkeyClear,
}

func init() {
	hotkeyCmd.AddCommand(hotkeyShowCmd)
	hotkeyCmd.AddCommand(hotkeySetCmd)
	hotkeyCmd.AddCommand(hotkeyClearCmd)
	rootCmd.AddCommand(hotkeyCmd)
}

func runHotkeyShow(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	current := a.hotkeys().Current()
	if current == "" {
		ui.Info("No hotkey set")
	} else {
		ui.KeyValue("Hotkey", ui.Cyan(current))
	}
	if !a.cfg.Hotkey.Enabled() {
		ui.Warning("hotkey.register_command is not set; shortcuts are saved but not bound")
	}
	return nil
}

func runHotkeySet(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	var combo string
	if len(args) == 1 {
		combo = args[0]
	} else {
		if IsYes() {
			return fmt.Errorf("a shortcut is required with --yes")
		}
		combo, err = ui.PromptString("Shortcut (e.g. cmd+shift+k)", a.hotkeys().Current())
		if err != nil {
			return err
		}
	}

	manager := a.hotkeys()
	if err := manager.Apply(combo); err != nil {
		var regErr *hotkey.RegistrationError
		if errors.As(err, &regErr) && manager.Current() != "" {
			ui.Infof("Keeping %s", manager.Current())
		}
		return err
	}

	ui.Successf("Hotkey set to %s", manager.Current())
	return nil
}

func runHotkeyClear(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.hotkeys().Clear(); err != nil {
		return err
	}
	ui.Success("Hotkey cleared")
	return nil
}
