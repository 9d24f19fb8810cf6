package log

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

// DebugEnv enables debug logging when set to 1.
const DebugEnv = "SESSIONBOARD_DEBUG"

var (
	DebugEnabled bool
	DebugLog     = log.New(io.Discard, "", 0)
	debugLogFile *os.File
)

// DebugLogFile is where debug output goes.
var DebugLogFile = filepath.Join(os.TempDir(), "sessionboard-debug.log")

// InitDebug enables debug logging if SESSIONBOARD_DEBUG=1 or force is set.
func InitDebug(force bool) {
	if !force && os.Getenv(DebugEnv) != "1" {
		DebugEnabled = false
		DebugLog = log.New(io.Discard, "", 0)
		return
	}

	f, err := os.OpenFile(DebugLogFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		ErrorLog.Printf("could not open debug log file: %v", err)
		DebugEnabled = false
		DebugLog = log.New(io.Discard, "", 0)
		return
	}

	DebugEnabled = true
	DebugLog = log.New(f, "DEBUG:", log.Ldate|log.Ltime|log.Lmicroseconds)
	debugLogFile = f
	DebugLog.Printf("debug log: %s", DebugLogFile)
}

// CloseDebug closes the debug log file.
func CloseDebug() {
	if debugLogFile == nil {
		return
	}
	_ = debugLogFile.Close()
	debugLogFile = nil
	DebugEnabled = false
	DebugLog = log.New(io.Discard, "", 0)
}

// Debug logs a message when debug mode is on.
func Debug(format string, v ...interface{}) {
	if DebugEnabled && DebugLog != nil {
		DebugLog.Printf(format, v...)
	}
}

// Timed returns a func that logs how long the named step took.
func Timed(step string) func() {
	if !DebugEnabled {
		return func() {}
	}
	start := time.Now()
	return func() {
		Debug("[%s] took %v", step, time.Since(start))
	}
}
