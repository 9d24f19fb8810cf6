package hotkey

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// terminalKeys maps terminal key names to shortcut key names.
var terminalKeys = map[string]string{
	"up":        "Up",
	"down":      "Down",
	"left":      "Left",
	"right":     "Right",
	"enter":     "Enter",
	"tab":       "Tab",
	"backspace": "Backspace",
	"delete":    "Delete",
	"insert":    "Insert",
	"home":      "Home",
	"end":       "End",
	"pgup":      "PageUp",
	"pgdown":    "PageDown",
	"space":     "Space",
}

// TerminalKey converts a terminal key description such as "ctrl+alt+k" or
// "shift+f5" into a press event. Terminals report no modifier-only presses
// and no Command key, so every event carries an ordinary key.
func TerminalKey(s string) (KeyEvent, bool) {
	if s == "" {
		return KeyEvent{}, false
	}

	ev := KeyEvent{Kind: Press}
	for {
		switch {
		case strings.HasPrefix(s, "ctrl+") && len(s) > len("ctrl+"):
			ev.Modifiers.Control = true
			s = s[len("ctrl+"):]
			continue
		case strings.HasPrefix(s, "alt+") && len(s) > len("alt+"):
			ev.Modifiers.Option = true
			s = s[len("alt+"):]
			continue
		case strings.HasPrefix(s, "shift+") && len(s) > len("shift+"):
			ev.Modifiers.Shift = true
			s = s[len("shift+"):]
			continue
		}
		break
	}

	if name, ok := terminalKeys[s]; ok {
		ev.Key = name
		return ev, true
	}
	if len(s) >= 2 && s[0] == 'f' && strings.Trim(s[1:], "0123456789") == "" {
		ev.Key = strings.ToUpper(s)
		return ev, true
	}
	if utf8.RuneCountInString(s) == 1 {
		r, _ := utf8.DecodeRuneInString(s)
		if unicode.IsUpper(r) {
			ev.Modifiers.Shift = true
		}
		ev.Key = s
		return ev, true
	}
	return KeyEvent{}, false
}

// Release returns the release event matching a press.
func (ev KeyEvent) Release() KeyEvent {
	return KeyEvent{Kind: Release, Key: ev.Key, Modifiers: ev.Modifiers}
}
