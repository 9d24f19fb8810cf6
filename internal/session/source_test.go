package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/undrift/sessionboard/pkg/shell"
)

type fakeRunner struct {
	result *shell.Result
	err    error
	name   string
	args   []string
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) (*shell.Result, error) {
	f.name = name
	f.args = args
	return f.result, f.err
}

func (f *fakeRunner) RunInDir(ctx context.Context, dir, name string, args ...string) (*shell.Result, error) {
	return f.Run(ctx, name, args...)
}

func (f *fakeRunner) RunInteractive(ctx context.Context, name string, args ...string) error {
	_, err := f.Run(ctx, name, args...)
	return err
}

const payload = `{
  "sessions": [
    {"id": "s1", "agentType": "claude", "projectName": "api", "projectPath": "/src/api",
     "status": "waiting", "lastActivityAt": "2025-01-01T00:00:00Z", "pid": 42,
     "cpuUsage": 1.5, "activeSubagentCount": 2, "gitBranch": "main"}
  ],
  "totalCount": 1,
  "waitingCount": 1
}`

func TestDecode(t *testing.T) {
	resp, err := Decode([]byte(payload))
	require.NoError(t, err)
	require.Len(t, resp.Sessions, 1)

	s := resp.Sessions[0]
	assert.Equal(t, "s1", s.ID)
	assert.Equal(t, AgentClaude, s.AgentType)
	assert.Equal(t, 42, s.PID)
	assert.Equal(t, 2, s.ActiveSubagentCount)
	assert.Equal(t, "main", s.GitBranch)
	assert.InDelta(t, 1.5, s.CPUUsage, 0.001)
	assert.Equal(t, 1, resp.WaitingCount)
}

func TestDecode_BareArray(t *testing.T) {
	resp, err := Decode([]byte(`[{"id": "a", "status": "idle"}, {"id": "b", "status": "thinking"}]`))
	require.NoError(t, err)
	assert.Len(t, resp.Sessions, 2)
	assert.Equal(t, 0, resp.TotalCount)
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode([]byte("not json"))
	assert.Error(t, err)
}

func TestDecode_EmptySessions(t *testing.T) {
	resp, err := Decode([]byte(`{"totalCount": 0, "waitingCount": 0}`))
	require.NoError(t, err)
	assert.NotNil(t, resp.Sessions)
	assert.Empty(t, resp.Sessions)
}

func TestCommandSource_DecodesStdout(t *testing.T) {
	runner := &fakeRunner{result: &shell.Result{Stdout: payload}}
	src := &CommandSource{Runner: runner, Command: "producer --json"}

	resp, err := src.GetAllSessions(context.Background())
	require.NoError(t, err)
	assert.Len(t, resp.Sessions, 1)
	assert.NotEmpty(t, runner.name)
}

func TestCommandSource_NonZeroExit(t *testing.T) {
	runner := &fakeRunner{result: &shell.Result{ExitCode: 2, Stderr: "boom"}}
	src := &CommandSource{Runner: runner, Command: "producer"}

	_, err := src.GetAllSessions(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestCommandSource_NoCommand(t *testing.T) {
	src := &CommandSource{Runner: &fakeRunner{}}
	_, err := src.GetAllSessions(context.Background())
	assert.Error(t, err)
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.json")
	require.NoError(t, os.WriteFile(path, []byte(payload), 0644))

	src := &FileSource{Path: path}
	resp, err := src.GetAllSessions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "api", resp.Sessions[0].ProjectName)
}

func TestFileSource_Missing(t *testing.T) {
	src := &FileSource{Path: filepath.Join(t.TempDir(), "nope.json")}
	_, err := src.GetAllSessions(context.Background())
	assert.Error(t, err)
}
