package cmd

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/undrift/sessionboard/internal/config"
	"github.com/undrift/sessionboard/internal/desktop"
	"github.com/undrift/sessionboard/internal/git"
	"github.com/undrift/sessionboard/internal/kv"
	"github.com/undrift/sessionboard/internal/session"
	"github.com/undrift/sessionboard/internal/ui"
	"github.com/undrift/sessionboard/pkg/shell"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration and tools",
	Long: `Check that sessionboard can run with the current configuration.

This command verifies:
  - The config file parses and validates
  - The session producer answers with valid JSON
  - The metadata store opens
  - Tools used for focus, links and git details are installed`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// toolTimeout bounds each tool version check.
const toolTimeout = 5 * time.Second

type checkResult struct {
	name    string
	status  string // "ok", "warning", "error"
	message string
	version string
}

func runDoctor(cmd *cobra.Command, args []string) error {
	ui.Header("sessionboard Doctor")

	// System info
	ui.SubHeader("System Information")
	ui.KeyValue("OS", runtime.GOOS)
	ui.KeyValue("Arch", runtime.GOARCH)
	ui.KeyValue("sessionboard", version)
	ui.NewLine()

	ui.SubHeader("Configuration")
	cfg, cfgResult := checkConfig()
	printCheckResult(cfgResult)
	if cfg == nil {
		ui.NewLine()
		ui.Error("Fix the configuration before running other checks.")
		return fmt.Errorf("doctor checks failed")
	}

	results := []checkResult{
		checkSource(cmd.Context(), cfg),
		checkStore(cfg),
	}
	for _, r := range results {
		printCheckResult(r)
	}
	ui.NewLine()

	ui.SubHeader("Tools")
	tools := []checkResult{
		checkFocus(cfg),
		checkOptionalTool("git", "git --version", "branch and GitHub details"),
		checkOpener(cfg),
		checkHotkey(cfg),
	}
	for _, r := range tools {
		printCheckResult(r)
	}
	ui.NewLine()

	for _, r := range append(append(results, cfgResult), tools...) {
		if r.status == "error" {
			ui.Error("Some checks failed.")
			return fmt.Errorf("doctor checks failed")
		}
	}

	ui.Success("All checks passed!")
	return nil
}

func checkConfig() (*config.Config, checkResult) {
	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return nil, checkResult{name: "config", status: "error", message: err.Error()}
	}
	if cfg.ConfigPath() == "" {
		return cfg, checkResult{
			name:    "config",
			status:  "warning",
			message: fmt.Sprintf("No file at %s (using defaults). Run 'sessionboard config init'", config.DefaultPath()),
		}
	}
	return cfg, checkResult{name: "config", status: "ok", message: cfg.ConfigPath()}
}

func checkSource(ctx context.Context, cfg *config.Config) checkResult {
	var fetcher session.Fetcher
	switch {
	case cfg.Poll.FetchCommand != "":
		fetcher = session.NewCommandSource(cfg.Poll.FetchCommand, cfg.Poll.FetchTimeout)
	case cfg.Poll.FetchFile != "":
		fetcher = &session.FileSource{Path: cfg.Poll.FetchFile}
	default:
		return checkResult{
			name:    "session source",
			status:  "error",
			message: "Set poll.fetch_command or poll.fetch_file",
		}
	}

	start := time.Now()
	resp, err := fetcher.GetAllSessions(ctx)
	if err != nil {
		return checkResult{name: "session source", status: "error", message: err.Error()}
	}
	if resp == nil {
		return checkResult{name: "session source", status: "error", message: "Producer returned no response"}
	}
	resp.Classify()
	elapsed := time.Since(start).Round(time.Millisecond)

	result := checkResult{
		name:    "session source",
		status:  "ok",
		version: fmt.Sprintf("%d sessions in %s", resp.TotalCount, elapsed),
	}
	if resp.TotalCount > 0 {
		result.message = fmt.Sprintf("%d of %d projects are git repositories", countRepositories(ctx, resp.Sessions), resp.TotalCount)
	}
	return result
}

// countRepositories counts the sessions whose project directory is a git work
// tree; the rest show no branch or GitHub link.
func countRepositories(ctx context.Context, sessions []session.Snapshot) int {
	repos := 0
	for _, s := range sessions {
		if s.ProjectPath != "" && git.IsRepository(ctx, s.ProjectPath) {
			repos++
		}
	}
	return repos
}

func checkStore(cfg *config.Config) checkResult {
	store, err := kv.Open(cfg.Store.Backend, cfg.Store.Dir)
	if err != nil {
		return checkResult{name: "store", status: "error", message: err.Error()}
	}
	defer store.Close()

	if _, err := store.All(kv.NamespaceDisplayNames); err != nil {
		return checkResult{
			name:    "store",
			status:  "warning",
			message: fmt.Sprintf("Display names unreadable, treated as empty: %v", err),
		}
	}
	return checkResult{
		name:    "store",
		status:  "ok",
		message: fmt.Sprintf("%s backend in %s", cfg.Store.Backend, cfg.Store.Dir),
	}
}

func checkFocus(cfg *config.Config) checkResult {
	switch cfg.Focus.Strategy {
	case desktop.FocusNone:
		return checkResult{name: "focus", status: "warning", message: "Disabled (focus.strategy is none)"}
	case desktop.FocusCommand:
		return checkConfiguredCommand("focus", cfg.Focus.Command)
	default:
		return checkOptionalTool("tmux", "tmux -V", "focusing sessions")
	}
}

func checkOpener(cfg *config.Config) checkResult {
	if cfg.Opener.Command != "" {
		return checkConfiguredCommand("opener", cfg.Opener.Command)
	}

	var name string
	switch runtime.GOOS {
	case "darwin":
		name = "open"
	case "windows":
		name = "rundll32"
	default:
		name = "xdg-open"
	}
	path := shell.Which(name)
	if path == "" {
		return checkResult{name: "opener", status: "warning", message: fmt.Sprintf("%s not found (used for opening links)", name)}
	}
	return checkResult{name: "opener", status: "ok", version: path}
}

func checkHotkey(cfg *config.Config) checkResult {
	if !cfg.Hotkey.Enabled() {
		return checkResult{
			name:    "hotkey",
			status:  "warning",
			message: "hotkey.register_command not set; shortcuts are saved but not bound",
		}
	}
	return checkConfiguredCommand("hotkey", cfg.Hotkey.RegisterCommand)
}

// checkConfiguredCommand verifies the program a configured command line starts with.
func checkConfiguredCommand(check, line string) checkResult {
	name, _ := splitFirstWord(line)
	path := shell.Which(name)
	if path == "" {
		return checkResult{name: check, status: "error", message: fmt.Sprintf("%s not found in PATH", name)}
	}
	return checkResult{name: check, status: "ok", version: path, message: line}
}

func checkOptionalTool(name, versionCmd, purpose string) checkResult {
	parts := strings.Split(versionCmd, " ")
	result, err := shell.RunWithTimeout(toolTimeout, parts[0], parts[1:]...)
	if err != nil || result.ExitCode != 0 {
		return checkResult{
			name:    name,
			status:  "warning",
			message: fmt.Sprintf("Not installed (used for %s)", purpose),
		}
	}

	// First line of the version output
	version := strings.TrimSpace(strings.Split(result.Stdout, "\n")[0])

	return checkResult{
		name:    name,
		status:  "ok",
		version: version,
	}
}

func splitFirstWord(line string) (string, string) {
	line = strings.TrimSpace(line)
	if i := strings.IndexAny(line, " \t"); i >= 0 {
		return line[:i], strings.TrimSpace(line[i+1:])
	}
	return line, ""
}

func printCheckResult(r checkResult) {
	switch r.status {
	case "ok":
		version := ""
		if r.version != "" {
			version = ui.Dim(fmt.Sprintf(" (%s)", r.version))
		}
		ui.Success(fmt.Sprintf("%s%s", r.name, version))
		if r.message != "" {
			ui.Info(fmt.Sprintf("  %s", r.message))
		}
	case "warning":
		ui.Warning(fmt.Sprintf("%s - %s", r.name, r.message))
	case "error":
		ui.Error(fmt.Sprintf("%s - %s", r.name, r.message))
	}
}
