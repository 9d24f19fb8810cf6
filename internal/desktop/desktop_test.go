package desktop

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/undrift/sessionboard/pkg/shell"
)

type call struct {
	name string
	args []string
}

func (c call) line() string {
	return strings.TrimSpace(c.name + " " + strings.Join(c.args, " "))
}

// fakeRunner answers commands by the first matching prefix of their command line.
type fakeRunner struct {
	calls   []call
	results map[string]*shell.Result
	errs    map[string]error
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{results: map[string]*shell.Result{}, errs: map[string]error{}}
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) (*shell.Result, error) {
	c := call{name: name, args: args}
	f.calls = append(f.calls, c)
	line := c.line()
	for prefix, err := range f.errs {
		if strings.HasPrefix(line, prefix) {
			return nil, err
		}
	}
	for prefix, res := range f.results {
		if strings.HasPrefix(line, prefix) {
			return res, nil
		}
	}
	return &shell.Result{}, nil
}

func (f *fakeRunner) RunInDir(ctx context.Context, dir, name string, args ...string) (*shell.Result, error) {
	return f.Run(ctx, name, args...)
}

func (f *fakeRunner) RunInteractive(ctx context.Context, name string, args ...string) error {
	_, err := f.Run(ctx, name, args...)
	return err
}

func (f *fakeRunner) lines() []string {
	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.line()
	}
	return out
}

const panes = "main|/home/dev/api\nweb|/home/dev/web/src\nweb|/home/dev/web\nother|/tmp\n"

func TestTmuxFocuser_ExactMatch(t *testing.T) {
	runner := newFakeRunner()
	runner.results["tmux list-panes"] = &shell.Result{Stdout: panes}
	f := &TmuxFocuser{Runner: runner}

	require.NoError(t, f.Focus(context.Background(), 42, "/home/dev/web/"))

	assert.Equal(t, "tmux switch-client -t web", runner.lines()[1])
}

func TestTmuxFocuser_NestedPane(t *testing.T) {
	runner := newFakeRunner()
	runner.results["tmux list-panes"] = &shell.Result{Stdout: "svc|/srv/app/cmd\n"}
	f := &TmuxFocuser{Runner: runner}

	name, err := f.FindSession(context.Background(), "/srv/app")

	require.NoError(t, err)
	assert.Equal(t, "svc", name)
}

func TestTmuxFocuser_NoMatch(t *testing.T) {
	runner := newFakeRunner()
	runner.results["tmux list-panes"] = &shell.Result{Stdout: panes}
	f := &TmuxFocuser{Runner: runner}

	err := f.Focus(context.Background(), 42, "/home/dev/missing")

	var actionErr *ActionError
	require.True(t, errors.As(err, &actionErr))
	assert.Equal(t, "focus", actionErr.Action)
	assert.Len(t, runner.calls, 1)
}

func TestTmuxFocuser_TmuxNotRunning(t *testing.T) {
	runner := newFakeRunner()
	runner.results["tmux list-panes"] = &shell.Result{ExitCode: 1, Stderr: "no server running"}
	f := &TmuxFocuser{Runner: runner}

	err := f.Focus(context.Background(), 1, "/x")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no server running")
}

func TestCommandFocuser(t *testing.T) {
	runner := newFakeRunner()
	f := &CommandFocuser{Runner: runner, Command: "focus-window --pid {pid} --dir {path}"}

	require.NoError(t, f.Focus(context.Background(), 42, "/home/dev/my app"))

	require.Len(t, runner.calls, 1)
	assert.Equal(t, "sh", runner.calls[0].name)
	assert.Equal(t, []string{"-c", "focus-window --pid '42' --dir '/home/dev/my app'"}, runner.calls[0].args)
}

func TestNewFocuser(t *testing.T) {
	runner := newFakeRunner()

	f, err := NewFocuser("", "", runner)
	require.NoError(t, err)
	assert.IsType(t, &TmuxFocuser{}, f)

	f, err = NewFocuser(FocusNone, "", runner)
	require.NoError(t, err)
	assert.NoError(t, f.Focus(context.Background(), 1, "/x"))

	_, err = NewFocuser(FocusCommand, "", runner)
	assert.Error(t, err)

	_, err = NewFocuser("wayland", "", runner)
	assert.Error(t, err)
}

func TestKiller(t *testing.T) {
	runner := newFakeRunner()
	k := &Killer{Runner: runner, goos: "linux"}

	require.NoError(t, k.Kill(context.Background(), 4242))
	assert.Equal(t, []string{"kill -TERM 4242"}, runner.lines())

	win := &Killer{Runner: runner, goos: "windows"}
	require.NoError(t, win.Kill(context.Background(), 7))
	assert.Equal(t, "taskkill /PID 7", runner.lines()[1])
}

func TestKiller_Errors(t *testing.T) {
	runner := newFakeRunner()
	runner.results["kill"] = &shell.Result{ExitCode: 1, Stderr: "No such process"}
	k := &Killer{Runner: runner, goos: "linux"}

	err := k.Kill(context.Background(), 99)
	var actionErr *ActionError
	require.True(t, errors.As(err, &actionErr))
	assert.Equal(t, "99", actionErr.Target)

	assert.Error(t, k.Kill(context.Background(), 0))
	assert.Len(t, runner.calls, 1)
}

func TestOpener(t *testing.T) {
	tests := []struct {
		goos string
		want string
	}{
		{"darwin", "open https://example.com"},
		{"linux", "xdg-open https://example.com"},
		{"windows", "rundll32 url.dll,FileProtocolHandler https://example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			runner := newFakeRunner()
			o := &Opener{Runner: runner, goos: tt.goos}

			require.NoError(t, o.Open(context.Background(), "https://example.com"))
			assert.Equal(t, []string{tt.want}, runner.lines())
		})
	}
}

func TestOpener_CustomCommand(t *testing.T) {
	runner := newFakeRunner()
	o := &Opener{Runner: runner, Command: "firefox {url}", goos: "linux"}

	require.NoError(t, o.Open(context.Background(), "http://localhost:3000"))

	assert.Equal(t, []string{"-c", "firefox 'http://localhost:3000'"}, runner.calls[0].args)
}

func TestOpener_EmptyURL(t *testing.T) {
	o := &Opener{Runner: newFakeRunner(), goos: "linux"}
	assert.Error(t, o.Open(context.Background(), ""))
}

func TestCommandRegistrar_ReplacesOnlyAfterSuccess(t *testing.T) {
	runner := newFakeRunner()
	r := NewCommandRegistrar(runner, "bind {combo}", "unbind {combo}", "Option+Space")

	runner.results["sh -c bind 'Command+K'"] = &shell.Result{ExitCode: 1, Stderr: "taken"}
	assert.Error(t, r.Register("Command+K"))
	assert.Equal(t, "Option+Space", r.active)
	assert.Equal(t, []string{"sh -c bind 'Command+K'"}, runner.lines())

	require.NoError(t, r.Register("Control+J"))
	assert.Equal(t, "Control+J", r.active)
	assert.Equal(t, "sh -c bind 'Control+J'", runner.lines()[1])
	assert.Equal(t, "sh -c unbind 'Option+Space'", runner.lines()[2])
}

func TestCommandRegistrar_SameComboNotReleased(t *testing.T) {
	runner := newFakeRunner()
	r := NewCommandRegistrar(runner, "bind {combo}", "unbind {combo}", "F9")

	require.NoError(t, r.Register("F9"))

	assert.Equal(t, []string{"sh -c bind 'F9'"}, runner.lines())
}

func TestCommandRegistrar_UnregisterIdempotent(t *testing.T) {
	runner := newFakeRunner()
	r := NewCommandRegistrar(runner, "bind {combo}", "unbind {combo}", "")

	require.NoError(t, r.Unregister())
	assert.Empty(t, runner.calls)

	require.NoError(t, r.Register("F9"))
	require.NoError(t, r.Unregister())
	require.NoError(t, r.Unregister())
	assert.Equal(t, []string{"sh -c bind 'F9'", "sh -c unbind 'F9'"}, runner.lines())
	assert.Empty(t, r.active)
}

func TestCommandRegistrar_NoCommand(t *testing.T) {
	r := NewCommandRegistrar(newFakeRunner(), "", "", "")
	assert.Error(t, r.Register("F9"))
}

func TestTerminalTitle(t *testing.T) {
	var buf bytes.Buffer
	tray := &TerminalTitle{W: &buf}

	require.NoError(t, tray.UpdateTrayTitle(4, 1))

	assert.Equal(t, "\x1b]0;sessionboard: 1 waiting / 4\x07", buf.String())
	assert.Equal(t, "sessionboard: 3 sessions", TrayTitle(3, 0))
}

func TestRun_RunnerError(t *testing.T) {
	runner := newFakeRunner()
	runner.errs["kill"] = context.DeadlineExceeded
	k := &Killer{Runner: runner, goos: "linux"}

	err := k.Kill(context.Background(), 5)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
