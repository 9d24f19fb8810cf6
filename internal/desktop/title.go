package desktop

import (
	"fmt"
	"io"
)

// TrayTitle is the text shown in the tray or window title.
func TrayTitle(total, waiting int) string {
	if waiting > 0 {
		return fmt.Sprintf("sessionboard: %d waiting / %d", waiting, total)
	}
	return fmt.Sprintf("sessionboard: %d sessions", total)
}

// TerminalTitle sets the terminal window title with an OSC escape sequence.
type TerminalTitle struct {
	W io.Writer
}

// UpdateTrayTitle writes the title for the given counts.
func (t *TerminalTitle) UpdateTrayTitle(total, waiting int) error {
	_, err := fmt.Fprintf(t.W, "\x1b]0;%s\x07", TrayTitle(total, waiting))
	return err
}
