// Package hotkey records global shortcuts from raw key events and keeps the
// registered shortcut in sync with the system registrar and local state.
package hotkey

import (
	"strings"
	"unicode/utf8"
)

// Modifier tokens in canonical order.
const (
	Command = "Command"
	Control = "Control"
	Option  = "Option"
	Shift   = "Shift"
)

// Separator joins shortcut tokens.
const Separator = "+"

// Modifiers is the set of modifier keys held during an event.
type Modifiers struct {
	Command bool
	Control bool
	Option  bool
	Shift   bool
}

// Tokens returns the held modifiers in canonical order.
func (m Modifiers) Tokens() []string {
	var out []string
	if m.Command {
		out = append(out, Command)
	}
	if m.Control {
		out = append(out, Control)
	}
	if m.Option {
		out = append(out, Option)
	}
	if m.Shift {
		out = append(out, Shift)
	}
	return out
}

// EventKind distinguishes key presses from releases.
type EventKind int

const (
	Press EventKind = iota
	Release
)

// KeyEvent is one raw key transition.
type KeyEvent struct {
	Kind      EventKind
	Key       string
	Modifiers Modifiers
}

var modifierAliases = map[string]string{
	"command": Command,
	"cmd":     Command,
	"meta":    Command,
	"super":   Command,
	"control": Control,
	"ctrl":    Control,
	"option":  Option,
	"opt":     Option,
	"alt":     Option,
	"shift":   Shift,
}

// modifierToken returns the canonical modifier for a key name.
func modifierToken(key string) (string, bool) {
	tok, ok := modifierAliases[strings.ToLower(strings.TrimSpace(key))]
	return tok, ok
}

// IsModifier reports whether key names a modifier key.
func IsModifier(key string) bool {
	_, ok := modifierToken(key)
	return ok
}

// NormalizeKey maps a non-modifier key to its shortcut token: space becomes
// "Space", a single character is upper-cased and named keys are unchanged.
func NormalizeKey(key string) string {
	if key == " " || strings.EqualFold(key, "space") {
		return "Space"
	}
	if utf8.RuneCountInString(key) == 1 {
		return strings.ToUpper(key)
	}
	return key
}
