package cmd

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/undrift/sessionboard/internal/config"
	"github.com/undrift/sessionboard/internal/desktop"
	"github.com/undrift/sessionboard/internal/git"
	"github.com/undrift/sessionboard/internal/hotkey"
	"github.com/undrift/sessionboard/internal/kv"
	"github.com/undrift/sessionboard/internal/log"
	"github.com/undrift/sessionboard/internal/overlay"
	"github.com/undrift/sessionboard/internal/poll"
	"github.com/undrift/sessionboard/internal/session"
	"github.com/undrift/sessionboard/pkg/shell"
)

// app holds what every session command shares: configuration, the open
// metadata store and the process runner.
type app struct {
	cfg      *config.Config
	runner   shell.Runner
	store    kv.Store
	overlays *overlay.Overlays
}

// loadApp reads the configuration, starts logging and opens the store.
// Callers must Close the result.
func loadApp() (*app, error) {
	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := log.Initialize(cfg.Log.File); err != nil {
		return nil, err
	}
	log.InitDebug(cfg.Log.Debug || IsVerbose())

	store, err := kv.Open(cfg.Store.Backend, cfg.Store.Dir)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store.Backend, err)
	}

	return &app{
		cfg:      cfg,
		runner:   shell.NewRunner(),
		store:    store,
		overlays: overlay.New(store),
	}, nil
}

// Close releases the store and log files.
func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		log.ErrorLog.Printf("failed to close store: %v", err)
	}
	log.Close()
}

// fetcher returns the configured snapshot producer.
func (a *app) fetcher() (session.Fetcher, error) {
	switch {
	case a.cfg.Poll.FetchCommand != "":
		src := session.NewCommandSource(a.cfg.Poll.FetchCommand, a.cfg.Poll.FetchTimeout)
		src.Runner = a.runner
		return src, nil
	case a.cfg.Poll.FetchFile != "":
		return &session.FileSource{Path: a.cfg.Poll.FetchFile}, nil
	default:
		return nil, fmt.Errorf("no session source configured: set poll.fetch_command or poll.fetch_file (see 'sessionboard config init')")
	}
}

// enricher returns the git enricher, or nil when enrichment is off.
func (a *app) enricher() poll.Enricher {
	if !a.cfg.Git.Enrich {
		return nil
	}
	return git.NewEnricher(a.cfg.Git.CacheTTL)
}

// newLoop builds a poll loop publishing to target.
func (a *app) newLoop(target poll.Target, tray poll.Tray, observer poll.Observer) (*poll.Loop, error) {
	fetcher, err := a.fetcher()
	if err != nil {
		return nil, err
	}
	return poll.New(fetcher, target, poll.Options{
		Interval:  a.cfg.Poll.Interval,
		Tray:      tray,
		Enricher:  a.enricher(),
		Decorator: a.overlays,
		Observer:  observer,
	}), nil
}

// hotkeys returns a manager bound to the configured registrar. Without a
// register command shortcuts are saved but not bound system-wide.
func (a *app) hotkeys() *hotkey.Manager {
	var registrar hotkey.Registrar
	if a.cfg.Hotkey.Enabled() {
		registrar = desktop.NewCommandRegistrar(a.runner,
			a.cfg.Hotkey.RegisterCommand,
			a.cfg.Hotkey.UnregisterCommand,
			hotkey.Saved(a.store))
	}
	return hotkey.NewManager(registrar, a.store)
}

func (a *app) focuser() (desktop.Focuser, error) {
	return desktop.NewFocuser(a.cfg.Focus.Strategy, a.cfg.Focus.Command, a.runner)
}

func (a *app) killer() *desktop.Killer {
	return desktop.NewKiller(a.runner)
}

func (a *app) opener() *desktop.Opener {
	return desktop.NewOpener(a.runner, a.cfg.Opener.Command)
}

// snapshot fetches once and returns decorated cards in priority order.
func (a *app) snapshot(ctx context.Context) (*session.Response, []session.Card, error) {
	fetcher, err := a.fetcher()
	if err != nil {
		return nil, nil, err
	}

	defer log.Timed("snapshot")()

	resp, err := fetcher.GetAllSessions(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch sessions: %w", err)
	}
	if resp == nil {
		return nil, nil, errors.New("failed to fetch sessions: producer returned no response")
	}
	resp.Classify()

	if enricher := a.enricher(); enricher != nil {
		enricher.Enrich(ctx, resp.Sessions)
	}
	session.SortByPriority(resp.Sessions)

	return resp, a.overlays.Decorate(resp.Sessions), nil
}

// errNoMatch is returned by findCard when nothing matches the query.
var errNoMatch = errors.New("no session matches")

// findCard resolves a user query to one card: an exact id, an exact display
// or project name (case-insensitive), then a unique id prefix.
func findCard(cards []session.Card, query string) (session.Card, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return session.Card{}, fmt.Errorf("no session given")
	}

	for _, c := range cards {
		if c.ID == query {
			return c, nil
		}
	}

	var named []session.Card
	for _, c := range cards {
		if strings.EqualFold(c.DisplayName, query) || strings.EqualFold(c.ProjectName, query) {
			named = append(named, c)
		}
	}
	if len(named) == 1 {
		return named[0], nil
	}
	if len(named) > 1 {
		return session.Card{}, ambiguous(query, named)
	}

	var prefixed []session.Card
	for _, c := range cards {
		if strings.HasPrefix(c.ID, query) {
			prefixed = append(prefixed, c)
		}
	}
	switch len(prefixed) {
	case 0:
		return session.Card{}, fmt.Errorf("%w %q", errNoMatch, query)
	case 1:
		return prefixed[0], nil
	default:
		return session.Card{}, ambiguous(query, prefixed)
	}
}

func ambiguous(query string, cards []session.Card) error {
	ids := make([]string, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
	}
	sort.Strings(ids)
	return fmt.Errorf("%q matches %d sessions: %s", query, len(cards), strings.Join(ids, ", "))
}
