// Package cmd implements the sessionboard CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	cfgFile string
	verbose bool
	noColor bool
	yesFlag bool
)

// SetVersion sets the version string (called from main).
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "sessionboard",
	Short: "Live dashboard for running coding-assistant sessions",
	Long: `sessionboard shows every running coding-assistant session in one place:
which ones are thinking, processing, waiting for you, or idle.

Sessions are read from an external producer (a command or a JSON file).
Cards keep their position until their state tier changes, custom names and
quick links survive restarts, and a global hotkey can be recorded.

Get started:
  sessionboard config init    Write a commented config file
  sessionboard doctor         Check the configuration and tools
  sessionboard                Open the dashboard
  sessionboard list           Print the current sessions`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runDashboard,
}

// Execute runs the root command until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/sessionboard/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output and debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&yesFlag, "yes", "y", false, "skip confirmation prompts")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("sessionboard version {{.Version}}\n")
}

func initConfig() {
	if noColor {
		os.Setenv("NO_COLOR", "1")
		color.NoColor = true
	}
}

// IsVerbose returns whether verbose mode is enabled.
func IsVerbose() bool {
	return verbose
}

// IsYes returns whether the --yes flag is set (skip confirmations).
func IsYes() bool {
	return yesFlag
}

// GetConfigFile returns the config file path if specified.
func GetConfigFile() string {
	return cfgFile
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		PrintVersion()
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// PrintVersion prints the version information.
func PrintVersion() {
	fmt.Printf("sessionboard version %s\n", version)
}
