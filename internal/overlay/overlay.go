// Package overlay stores user metadata keyed by session id: custom display
// names and quick-launch URLs. Entries outlive the sessions they describe
// and are removed only by an explicit clear.
package overlay

import (
	"fmt"
	"strings"

	"github.com/undrift/sessionboard/internal/kv"
	"github.com/undrift/sessionboard/internal/log"
	"github.com/undrift/sessionboard/internal/session"
)

// DefaultScheme is prepended to quick URLs that carry no scheme.
const DefaultScheme = "http"

// Names holds custom display names.
type Names struct {
	store kv.Store
}

// NewNames creates a Names store backed by the display_names namespace.
func NewNames(store kv.Store) *Names {
	return &Names{store: store}
}

// Set stores a custom name for id. A blank value, or one equal to the
// session's own project name, removes the entry instead.
func (n *Names) Set(id, value, projectName string) error {
	value = strings.TrimSpace(value)
	if value == "" || value == strings.TrimSpace(projectName) {
		return n.Delete(id)
	}
	if err := n.store.Set(kv.NamespaceDisplayNames, id, value); err != nil {
		return fmt.Errorf("failed to save display name: %w", err)
	}
	return nil
}

// Delete removes the custom name for id.
func (n *Names) Delete(id string) error {
	if err := n.store.Delete(kv.NamespaceDisplayNames, id); err != nil {
		return fmt.Errorf("failed to clear display name: %w", err)
	}
	return nil
}

// Get returns the custom name for id.
func (n *Names) Get(id string) (string, bool) {
	v, ok := readAll(n.store, kv.NamespaceDisplayNames)[id]
	return v, ok
}

// All returns every custom name. Unreadable state yields an empty map.
func (n *Names) All() map[string]string {
	return readAll(n.store, kv.NamespaceDisplayNames)
}

// URLs holds quick-launch URLs.
type URLs struct {
	store kv.Store
}

// NewURLs creates a URLs store backed by the quick_urls namespace.
func NewURLs(store kv.Store) *URLs {
	return &URLs{store: store}
}

// Set stores a quick URL for id exactly as typed, trimmed. A blank value
// removes the entry.
func (u *URLs) Set(id, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return u.Delete(id)
	}
	if err := u.store.Set(kv.NamespaceQuickURLs, id, value); err != nil {
		return fmt.Errorf("failed to save quick URL: %w", err)
	}
	return nil
}

// Delete removes the quick URL for id.
func (u *URLs) Delete(id string) error {
	if err := u.store.Delete(kv.NamespaceQuickURLs, id); err != nil {
		return fmt.Errorf("failed to clear quick URL: %w", err)
	}
	return nil
}

// Get returns the stored quick URL for id.
func (u *URLs) Get(id string) (string, bool) {
	v, ok := readAll(u.store, kv.NamespaceQuickURLs)[id]
	return v, ok
}

// All returns every quick URL. Unreadable state yields an empty map.
func (u *URLs) All() map[string]string {
	return readAll(u.store, kv.NamespaceQuickURLs)
}

func readAll(store kv.Store, namespace string) map[string]string {
	all, err := store.All(namespace)
	if err != nil {
		log.WarningLog.Printf("treating %s as empty: %v", namespace, err)
		return map[string]string{}
	}
	if all == nil {
		return map[string]string{}
	}
	return all
}

// NormalizeURL returns raw with defaultScheme prepended when it has no
// scheme of its own. The stored value is never rewritten.
func NormalizeURL(raw, defaultScheme string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if defaultScheme == "" {
		defaultScheme = DefaultScheme
	}
	if hasScheme(raw) {
		return raw
	}
	return defaultScheme + "://" + strings.TrimPrefix(raw, "//")
}

// hasScheme reports whether s starts with "scheme:" per RFC 3986, and is not
// just a host:port pair such as "localhost:3000".
func hasScheme(s string) bool {
	i := strings.Index(s, ":")
	if i <= 0 {
		return false
	}
	for j, c := range s[:i] {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case j > 0 && (c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return false
		}
	}
	rest := s[i+1:]
	if strings.HasPrefix(rest, "//") {
		return true
	}
	// host:port, not a scheme
	if rest != "" && strings.Trim(strings.SplitN(rest, "/", 2)[0], "0123456789") == "" {
		return false
	}
	return true
}

// Overlays joins both stores and applies them to snapshots.
type Overlays struct {
	Names *Names
	URLs  *URLs
}

// New creates Overlays over a single kv.Store.
func New(store kv.Store) *Overlays {
	return &Overlays{
		Names: NewNames(store),
		URLs:  NewURLs(store),
	}
}

// Decorate resolves display names and quick URLs for each snapshot. Order is preserved.
func (o *Overlays) Decorate(list []session.Snapshot) []session.Card {
	names := o.Names.All()
	urls := o.URLs.All()

	cards := make([]session.Card, 0, len(list))
	for _, s := range list {
		card := session.Card{
			Snapshot:    s,
			DisplayName: s.ProjectName,
			QuickURL:    urls[s.ID],
		}
		if name, ok := names[s.ID]; ok && name != "" {
			card.DisplayName = name
			card.CustomName = true
		}
		if card.DisplayName == "" {
			card.DisplayName = s.ID
		}
		cards = append(cards, card)
	}
	return cards
}

// OpenTarget returns the URL to open for a card: its quick URL when set,
// otherwise its GitHub URL. The empty string means nothing to open.
func OpenTarget(card session.Card, defaultScheme string) string {
	if card.QuickURL != "" {
		return NormalizeURL(card.QuickURL, defaultScheme)
	}
	return card.GithubURL
}
