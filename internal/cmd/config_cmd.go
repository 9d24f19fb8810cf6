package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/undrift/sessionboard/internal/config"
	"github.com/undrift/sessionboard/internal/ui"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
	Long: `View and create the sessionboard configuration.

Every key can be overridden from the environment with the SESSIONBOARD_
prefix, e.g. SESSIONBOARD_POLL_INTERVAL=5s.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	RunE:  runConfigPath,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented config file with the defaults",
	Example: `  sessionboard config init
  sessionboard config init --force   # Replace an existing file`,
	RunE: runConfigInit,
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing file")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

// configFilePath is the file config commands read and write.
func configFilePath() string {
	if path := GetConfigFile(); path != "" {
		return path
	}
	return config.DefaultPath()
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ui.Header("sessionboard Configuration")

	source := cfg.ConfigPath()
	if source == "" {
		source = "(defaults, no file at " + config.DefaultPath() + ")"
	}
	ui.KeyValue("Config File", source)
	ui.NewLine()

	section := ""
	for _, s := range cfg.Settings() {
		name, key := splitSetting(s.Key)
		if name != section {
			if section != "" {
				ui.NewLine()
			}
			ui.SubHeader(name)
			section = name
		}

		value := s.Value
		if value == "" {
			value = ui.Dim("(not set)")
		}
		ui.KeyValue(key, value)
	}

	if !cfg.HasSource() {
		ui.NewLine()
		ui.Warning("No session source configured (poll.fetch_command or poll.fetch_file)")
	}
	return nil
}

func splitSetting(key string) (string, string) {
	for i := 0; i < len(key); i++ {
		if key[i] == '.' {
			return key[:i], key[i+1:]
		}
	}
	return key, key
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	path := configFilePath()
	fmt.Println(path)
	if _, err := os.Stat(path); err != nil {
		ui.Warning("File does not exist yet; run 'sessionboard config init'")
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configFilePath()
	if err := config.WriteTemplate(path, configForce); err != nil {
		return err
	}

	ui.Successf("Wrote %s", path)
	ui.Info("Set poll.fetch_command or poll.fetch_file to point at your session producer")
	return nil
}
