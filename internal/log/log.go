// Package log provides the file-backed loggers used across sessionboard.
// The dashboard owns the terminal, so diagnostics never go to stdout.
package log

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

var (
	InfoLog    = log.New(io.Discard, "", 0)
	WarningLog = log.New(io.Discard, "", 0)
	ErrorLog   = log.New(io.Discard, "", 0)
)

var (
	logFile     *os.File
	logFileName string
)

// DefaultLogFile is used when no log file is configured.
func DefaultLogFile() string {
	return filepath.Join(os.TempDir(), "sessionboard.log")
}

// Initialize opens path for appending and points every logger at it.
// An empty path selects DefaultLogFile. Call Close when done.
func Initialize(path string) error {
	if path == "" {
		path = DefaultLogFile()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("could not open log file: %w", err)
	}

	setOutput(f)
	logFile = f
	logFileName = path
	return nil
}

// SetOutput points every logger at w. Intended for tests.
func SetOutput(w io.Writer) {
	setOutput(w)
}

func setOutput(w io.Writer) {
	flags := log.Ldate | log.Ltime | log.Lshortfile
	InfoLog = log.New(w, "INFO:", flags)
	WarningLog = log.New(w, "WARNING:", flags)
	ErrorLog = log.New(w, "ERROR:", flags)
}

// FileName returns the active log file path, or empty before Initialize.
func FileName() string {
	return logFileName
}

// Close flushes and closes the log file.
func Close() {
	CloseDebug()
	if logFile == nil {
		return
	}
	_ = logFile.Close()
	logFile = nil
	setOutput(io.Discard)
}
