package git

import (
	"context"
	"sync"
	"time"

	"github.com/undrift/sessionboard/internal/log"
	"github.com/undrift/sessionboard/internal/session"
)

// DefaultCacheTTL is how long repository details are reused before git is asked again.
const DefaultCacheTTL = 30 * time.Second

// Info is what the enricher learns about a project directory.
type Info struct {
	Branch    string
	GithubURL string
}

type cacheEntry struct {
	info    Info
	fetched time.Time
}

// Enricher fills in the branch and GitHub link a producer left out.
type Enricher struct {
	ttl time.Duration
	now func() time.Time

	mu    sync.Mutex
	cache map[string]cacheEntry
}

// NewEnricher creates an Enricher. A zero ttl means DefaultCacheTTL.
func NewEnricher(ttl time.Duration) *Enricher {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Enricher{ttl: ttl, now: time.Now, cache: make(map[string]cacheEntry)}
}

// Enrich sets GitBranch and GithubURL where they are empty. Values the
// producer reported are never overwritten.
func (e *Enricher) Enrich(ctx context.Context, sessions []session.Snapshot) {
	for i := range sessions {
		s := &sessions[i]
		if s.ProjectPath == "" || (s.GitBranch != "" && s.GithubURL != "") {
			continue
		}

		info := e.Lookup(ctx, s.ProjectPath)
		if s.GitBranch == "" {
			s.GitBranch = info.Branch
		}
		if s.GithubURL == "" {
			s.GithubURL = info.GithubURL
		}
	}
}

// Lookup returns the repository details for dir, from cache when fresh.
// Directories that are not repositories cache an empty Info.
func (e *Enricher) Lookup(ctx context.Context, dir string) Info {
	e.mu.Lock()
	entry, ok := e.cache[dir]
	e.mu.Unlock()
	if ok && e.now().Sub(entry.fetched) < e.ttl {
		return entry.info
	}

	var info Info
	if branch, err := CurrentBranch(ctx, dir); err == nil {
		info.Branch = branch
		if remote, err := RemoteURL(ctx, dir, ""); err == nil {
			info.GithubURL = GithubURL(remote)
		}
	} else {
		log.Debug("git lookup for %s: %v", dir, err)
	}

	e.mu.Lock()
	e.cache[dir] = cacheEntry{info: info, fetched: e.now()}
	e.mu.Unlock()
	return info
}
