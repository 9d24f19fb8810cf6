// Package kv is the small namespaced key-value capability behind every piece
// of state sessionboard keeps between runs.
package kv

import (
	"fmt"
	"path/filepath"
)

// Namespaces used by sessionboard.
const (
	NamespaceHotkey       = "hotkey"
	NamespaceDisplayNames = "display_names"
	NamespaceQuickURLs    = "quick_urls"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Store holds flat string maps, one per namespace.
type Store interface {
	Get(namespace, key string) (string, bool, error)
	Set(namespace, key, value string) error
	Delete(namespace, key string) error
	All(namespace string) (map[string]string, error)
	Close() error
}

// ParseError reports a namespace document that could not be decoded.
// Readers treat it as an empty namespace.
type ParseError struct {
	Namespace string
	Path      string
	Err       error
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to parse %s (%s): %v", e.Namespace, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to parse %s: %v", e.Namespace, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Open creates the store for a backend rooted at dir.
func Open(backend, dir string) (Store, error) {
	switch backend {
	case "", BackendFile:
		return NewFileStore(dir)
	case BackendSQLite:
		return NewSQLiteStore(filepath.Join(dir, "sessionboard.db"))
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q (want file, sqlite or memory)", backend)
	}
}
