package cmd

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/undrift/sessionboard/internal/log"
	"github.com/undrift/sessionboard/internal/overlay"
	"github.com/undrift/sessionboard/internal/ui"
)

var (
	clearFlag bool
	listFlag  bool
)

var nameCmd = &cobra.Command{
	Use:   "name [session] [name]",
	Short: "Set or clear a session's display name",
	Long: `Give a session a custom display name. Names are kept by session id and
survive the session ending.

Setting the name back to the project name, or to an empty string, clears it.
Without a name you are prompted for one.`,
	Example: `  sessionboard name 7f3a backend      # Rename by id prefix
  sessionboard name api --clear       # Back to the project name
  sessionboard name --list            # Show every custom name`,
	Args: cobra.MaximumNArgs(2),
	RunE: runName,
}

var urlCmd = &cobra.Command{
	Use:   "url [session] [url]",
	Short: "Set or clear a session's quick link",
	Long: `Attach a quick-launch URL to a session, e.g. its dev server.

Links without a scheme get opener.default_scheme when opened, so
"localhost:3000" opens as http://localhost:3000.`,
	Example: `  sessionboard url web localhost:3000
  sessionboard url web --clear
  sessionboard url --list`,
	Args: cobra.MaximumNArgs(2),
	RunE: runURL,
}

func init() {
	for _, c := range []*cobra.Command{nameCmd, urlCmd} {
		c.Flags().BoolVar(&clearFlag, "clear", false, "remove the stored value")
		c.Flags().BoolVar(&listFlag, "list", false, "list stored values")
		rootCmd.AddCommand(c)
	}
}

// metadataTarget identifies whose metadata is being edited.
type metadataTarget struct {
	id          string
	projectName string
	current     string
}

// resolveMetadataTarget prefers a live session but accepts a raw id, since
// stored metadata outlives the session.
func resolveMetadataTarget(cmd *cobra.Command, a *app, query string) (metadataTarget, error) {
	_, cards, err := a.snapshot(cmd.Context())
	if err != nil {
		log.WarningLog.Printf("editing metadata without a snapshot: %v", err)
		return metadataTarget{id: query}, nil
	}

	card, err := findCard(cards, query)
	if errors.Is(err, errNoMatch) {
		return metadataTarget{id: query}, nil
	}
	if err != nil {
		return metadataTarget{}, err
	}
	return metadataTarget{id: card.ID, projectName: card.ProjectName}, nil
}

func runName(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if listFlag {
		printMapping("Display names", a.overlays.Names.All())
		return nil
	}
	if len(args) == 0 {
		return fmt.Errorf("a session is required")
	}

	target, err := resolveMetadataTarget(cmd, a, args[0])
	if err != nil {
		return err
	}
	target.current, _ = a.overlays.Names.Get(target.id)

	value, err := metadataValue(args, target, "Display name")
	if err != nil {
		return err
	}

	if err := a.overlays.Names.Set(target.id, value, target.projectName); err != nil {
		return err
	}
	if name, ok := a.overlays.Names.Get(target.id); ok {
		ui.Successf("%s is now shown as %s", target.id, ui.Bold(name))
	} else {
		ui.Successf("Cleared the display name of %s", target.id)
	}
	return nil
}

func runURL(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if listFlag {
		printMapping("Quick links", a.overlays.URLs.All())
		return nil
	}
	if len(args) == 0 {
		return fmt.Errorf("a session is required")
	}

	target, err := resolveMetadataTarget(cmd, a, args[0])
	if err != nil {
		return err
	}
	target.current, _ = a.overlays.URLs.Get(target.id)

	value, err := metadataValue(args, target, "Quick link")
	if err != nil {
		return err
	}

	if err := a.overlays.URLs.Set(target.id, value); err != nil {
		return err
	}
	if link, ok := a.overlays.URLs.Get(target.id); ok {
		ui.Successf("%s links to %s", target.id, overlay.NormalizeURL(link, a.cfg.Opener.DefaultScheme))
	} else {
		ui.Successf("Cleared the quick link of %s", target.id)
	}
	return nil
}

// metadataValue returns the new value from the arguments, the --clear flag
// or an interactive prompt.
func metadataValue(args []string, target metadataTarget, label string) (string, error) {
	switch {
	case clearFlag:
		return "", nil
	case len(args) == 2:
		return args[1], nil
	}

	if IsYes() {
		return "", fmt.Errorf("%s value required with --yes", label)
	}
	return ui.PromptString(label, target.current)
}

func printMapping(title string, values map[string]string) {
	if len(values) == 0 {
		ui.Infof("No %s stored", title)
		return
	}

	ids := make([]string, 0, len(values))
	for id := range values {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	table := ui.NewTable([]string{"Session", title})
	for _, id := range ids {
		table.AddRow([]string{id, values[id]})
	}
	table.Render()
}
