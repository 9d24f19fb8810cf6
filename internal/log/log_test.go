package log

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoggersUsableBeforeInitialize(t *testing.T) {
	// Must not panic.
	InfoLog.Printf("hello %s", "world")
	WarningLog.Println("warn")
	ErrorLog.Print("err")
}

func TestInitialize_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "board.log")

	if err := Initialize(path); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	InfoLog.Printf("poll ok")
	WarningLog.Printf("store unreadable")
	if FileName() != path {
		t.Errorf("FileName() = %q, want %q", FileName(), path)
	}
	Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "INFO:") || !strings.Contains(content, "poll ok") {
		t.Errorf("log file missing info line: %q", content)
	}
	if !strings.Contains(content, "WARNING:") {
		t.Errorf("log file missing warning line: %q", content)
	}
}

func TestSetOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(&bytes.Buffer{})

	ErrorLog.Printf("focus failed")
	if !strings.Contains(buf.String(), "ERROR:") {
		t.Errorf("SetOutput() buffer = %q, want ERROR prefix", buf.String())
	}
}

func TestDebugDisabledByDefault(t *testing.T) {
	t.Setenv(DebugEnv, "")
	InitDebug(false)

	if DebugEnabled {
		t.Error("debug should be disabled by default")
	}
	Debug("ignored %d", 1)
	Timed("noop")()
}

func TestDebugEnabledWithEnvVar(t *testing.T) {
	DebugLogFile = filepath.Join(t.TempDir(), "debug.log")
	t.Setenv(DebugEnv, "1")

	InitDebug(false)
	defer CloseDebug()

	if !DebugEnabled {
		t.Fatal("debug should be enabled with SESSIONBOARD_DEBUG=1")
	}
	Debug("merge resync=%v", true)
	Timed("step")()

	data, err := os.ReadFile(DebugLogFile)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "merge resync=true") {
		t.Errorf("debug log = %q, want merge line", string(data))
	}
}
