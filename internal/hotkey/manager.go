package hotkey

import (
	"errors"
	"fmt"
	"sync"

	"github.com/undrift/sessionboard/internal/kv"
	"github.com/undrift/sessionboard/internal/log"
)

// storeKey is the key under the hotkey namespace holding the shortcut.
const storeKey = "shortcut"

// Registrar binds a shortcut system-wide. Register replaces the active
// shortcut only on success. Unregister succeeds when nothing is registered.
type Registrar interface {
	Register(combo string) error
	Unregister() error
}

// NoopRegistrar accepts every shortcut. It is used when no registrar is configured.
type NoopRegistrar struct{}

func (NoopRegistrar) Register(string) error { return nil }
func (NoopRegistrar) Unregister() error     { return nil }

// RegistrationError reports a shortcut the registrar rejected.
type RegistrationError struct {
	Combo string
	Err   error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("could not register %s: %v", e.Combo, e.Err)
}

func (e *RegistrationError) Unwrap() error {
	return e.Err
}

// Manager applies shortcuts through a Registrar and remembers the last one
// that registered successfully.
type Manager struct {
	mu        sync.Mutex
	registrar Registrar
	store     kv.Store
}

// NewManager creates a Manager. A nil registrar behaves like NoopRegistrar.
func NewManager(registrar Registrar, store kv.Store) *Manager {
	if registrar == nil {
		registrar = NoopRegistrar{}
	}
	return &Manager{registrar: registrar, store: store}
}

// Current returns the persisted shortcut, or "" when none is saved or the
// saved state is unreadable.
func (m *Manager) Current() string {
	return Saved(m.store)
}

// Saved reads the persisted shortcut straight from store.
func Saved(store kv.Store) string {
	v, _, err := store.Get(kv.NamespaceHotkey, storeKey)
	if err != nil {
		log.WarningLog.Printf("treating saved hotkey as unset: %v", err)
		return ""
	}
	return v
}

// Apply registers combo and persists it once the registrar accepts it.
// A rejected combo returns a *RegistrationError and leaves both the previous
// registration and the saved value as they were.
func (m *Manager) Apply(combo string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	canonical, err := ParseShortcut(combo)
	if err != nil {
		return &RegistrationError{Combo: combo, Err: err}
	}

	previous := Saved(m.store)
	if err := m.registrar.Register(canonical); err != nil {
		return &RegistrationError{Combo: canonical, Err: err}
	}

	if err := m.store.Set(kv.NamespaceHotkey, storeKey, canonical); err != nil {
		m.rollback(canonical, previous)
		return fmt.Errorf("registered %s but failed to save it: %w", canonical, err)
	}

	log.InfoLog.Printf("registered hotkey %s", canonical)
	return nil
}

// rollback puts the binding back to the saved shortcut after a failed save.
func (m *Manager) rollback(combo, previous string) {
	var err error
	if previous != "" && previous != combo {
		err = m.registrar.Register(previous)
	} else if previous == "" {
		err = m.registrar.Unregister()
	}
	if err != nil {
		log.ErrorLog.Printf("failed to roll back hotkey %s: %v", combo, err)
	}
}

// Clear unregisters the active shortcut and forgets the saved one. It
// succeeds when nothing is registered.
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	if err := m.registrar.Unregister(); err != nil {
		errs = append(errs, fmt.Errorf("failed to unregister hotkey: %w", err))
	}
	if err := m.store.Delete(kv.NamespaceHotkey, storeKey); err != nil {
		errs = append(errs, fmt.Errorf("failed to forget hotkey: %w", err))
	}
	return errors.Join(errs...)
}

// Restore re-registers the saved shortcut at startup. Failures are logged
// and returned for callers that want them; the saved value is kept.
func (m *Manager) Restore() error {
	combo := m.Current()
	if combo == "" {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.registrar.Register(combo); err != nil {
		log.ErrorLog.Printf("failed to restore hotkey %s: %v", combo, err)
		return &RegistrationError{Combo: combo, Err: err}
	}
	log.InfoLog.Printf("restored hotkey %s", combo)
	return nil
}
