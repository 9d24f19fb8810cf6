package hotkey

import (
	"fmt"
	"strings"
)

// ParseShortcut validates a typed shortcut such as "cmd+shift+k" and returns
// it in canonical form ("Command+Shift+K"). Exactly one ordinary key is required.
func ParseShortcut(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("empty shortcut")
	}

	var held Modifiers
	var key string
	for _, part := range splitTokens(s) {
		if tok, ok := modifierToken(part); ok {
			held = withModifier(held, tok)
			continue
		}
		if key != "" {
			return "", fmt.Errorf("shortcut %q has more than one key (%s, %s)", s, key, part)
		}
		key = NormalizeKey(part)
	}

	if key == "" {
		return "", fmt.Errorf("shortcut %q has no key besides modifiers", s)
	}

	return strings.Join(append(held.Tokens(), key), Separator), nil
}

// splitTokens splits on "+" while allowing "+" itself as the final key.
func splitTokens(s string) []string {
	var parts []string
	for _, p := range strings.Split(s, Separator) {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		parts = append(parts, p)
	}
	if strings.HasSuffix(s, Separator+Separator) || s == Separator {
		parts = append(parts, Separator)
	}
	return parts
}

func withModifier(m Modifiers, tok string) Modifiers {
	switch tok {
	case Command:
		m.Command = true
	case Control:
		m.Control = true
	case Option:
		m.Option = true
	case Shift:
		m.Shift = true
	}
	return m
}
