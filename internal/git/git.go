// Package git reads repository details for a session's project directory.
package git

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/undrift/sessionboard/pkg/shell"
)

// cmdTimeout bounds every git invocation so a hung repository cannot stall a poll.
const cmdTimeout = 3 * time.Second

// runner executes git. Tests may replace it.
var runner shell.Runner = shell.NewRunner()

// gitIn runs git in dir and returns trimmed stdout, failing on a non-zero exit.
func gitIn(ctx context.Context, dir string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, cmdTimeout)
	defer cancel()

	result, err := runner.RunInDir(ctx, dir, "git", args...)
	if err != nil {
		return "", err
	}
	if result.ExitCode != 0 {
		return "", fmt.Errorf("git %s: %s", args[0], result.Stderr)
	}
	return result.Stdout, nil
}

// IsRepository reports whether dir is inside a git work tree.
func IsRepository(ctx context.Context, dir string) bool {
	out, err := gitIn(ctx, dir, "rev-parse", "--is-inside-work-tree")
	return err == nil && out == "true"
}

// RemoteURL returns the URL of the specified remote (default: origin).
func RemoteURL(ctx context.Context, dir, remote string) (string, error) {
	if remote == "" {
		remote = "origin"
	}

	url, err := gitIn(ctx, dir, "remote", "get-url", remote)
	if err != nil {
		return "", fmt.Errorf("failed to get remote URL: %w", err)
	}
	return url, nil
}

// GithubURL converts a GitHub remote into its web URL. Remotes on other hosts
// return "".
func GithubURL(remote string) string {
	remote = strings.TrimSpace(remote)

	var path string
	switch {
	case strings.HasPrefix(remote, "git@github.com:"):
		path = strings.TrimPrefix(remote, "git@github.com:")
	case strings.HasPrefix(remote, "ssh://git@github.com/"):
		path = strings.TrimPrefix(remote, "ssh://git@github.com/")
	case strings.HasPrefix(remote, "https://github.com/"):
		path = strings.TrimPrefix(remote, "https://github.com/")
	case strings.HasPrefix(remote, "http://github.com/"):
		path = strings.TrimPrefix(remote, "http://github.com/")
	default:
		return ""
	}

	path = strings.TrimSuffix(strings.TrimSuffix(path, "/"), ".git")
	if path == "" {
		return ""
	}
	return "https://github.com/" + path
}
