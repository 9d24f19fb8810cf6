package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/undrift/sessionboard/internal/session"
	"github.com/undrift/sessionboard/internal/ui"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Print the current sessions",
	Long: `Fetch one snapshot and print it, most urgent first.

Sessions waiting for input are listed after active ones and before idle
ones, matching the dashboard's tiers.`,
	Example: `  sessionboard list          # Table output
  sessionboard list --json   # Machine-readable output`,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "print JSON instead of a table")
	rootCmd.AddCommand(listCmd)
}

// listEntry is the JSON shape of one card.
type listEntry struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	ProjectName         string `json:"projectName"`
	ProjectPath         string `json:"projectPath"`
	AgentType           string `json:"agentType,omitempty"`
	Status              string `json:"status"`
	GitBranch           string `json:"gitBranch,omitempty"`
	GithubURL           string `json:"githubUrl,omitempty"`
	QuickURL            string `json:"quickUrl,omitempty"`
	LastMessage         string `json:"lastMessage,omitempty"`
	LastActivityAt      string `json:"lastActivityAt,omitempty"`
	PID                 int    `json:"pid"`
	ActiveSubagentCount int    `json:"activeSubagentCount"`
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	var (
		resp  *session.Response
		cards []session.Card
	)
	fetch := func() error {
		resp, cards, err = a.snapshot(cmd.Context())
		return err
	}

	if listJSON {
		if err := fetch(); err != nil {
			return err
		}
		return writeJSON(os.Stdout, cards)
	}

	if err := ui.WithSpinner("Fetching sessions...", fetch); err != nil {
		return err
	}

	if len(cards) == 0 {
		ui.Info("No sessions running")
		return nil
	}

	writeTable(os.Stdout, cards)
	ui.NewLine()
	if resp.WaitingCount > 0 {
		ui.Warningf("%d of %d sessions waiting for input", resp.WaitingCount, resp.TotalCount)
	} else {
		ui.Infof("%d sessions", resp.TotalCount)
	}
	return nil
}

func writeJSON(w io.Writer, cards []session.Card) error {
	entries := make([]listEntry, len(cards))
	for i, c := range cards {
		entries[i] = listEntry{
			ID:                  c.ID,
			Name:                c.DisplayName,
			ProjectName:         c.ProjectName,
			ProjectPath:         c.ProjectPath,
			AgentType:           c.AgentType,
			Status:              string(c.Status),
			GitBranch:           c.GitBranch,
			GithubURL:           c.GithubURL,
			QuickURL:            c.QuickURL,
			LastMessage:         c.LastMessage,
			LastActivityAt:      c.LastActivityAt,
			PID:                 c.PID,
			ActiveSubagentCount: c.ActiveSubagentCount,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

func writeTable(w io.Writer, cards []session.Card) {
	table := ui.NewTableTo(w, []string{"Name", "Status", "Branch", "Activity", "ID", "Last message"})
	for _, c := range cards {
		activity := "-"
		if t, ok := c.LastActivity(); ok {
			activity = humanize.Time(t)
		}
		branch := c.GitBranch
		if branch == "" {
			branch = "-"
		}
		name := c.DisplayName
		if c.ActiveSubagentCount > 0 {
			name = fmt.Sprintf("%s (+%d)", name, c.ActiveSubagentCount)
		}

		table.AddColoredRow(
			[]string{name, c.Status.Label(), branch, activity, c.ID, session.Truncate(c.LastMessage, 50)},
			[]tablewriter.Colors{
				ui.TableColor.Normal,
				ui.StatusTableColor(c.Status),
				ui.TableColor.Cyan,
				ui.TableColor.Normal,
				ui.TableColor.Normal,
				ui.TableColor.Normal,
			},
		)
	}
	table.Render()
}
