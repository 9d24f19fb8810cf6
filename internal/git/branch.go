package git

import (
	"context"
	"fmt"
)

// CurrentBranch returns the branch checked out in dir. A detached HEAD
// returns the short commit hash instead.
func CurrentBranch(ctx context.Context, dir string) (string, error) {
	branch, err := gitIn(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to get current branch: %w", err)
	}

	if branch == "HEAD" {
		return ShortCommitHash(ctx, dir, "HEAD")
	}
	return branch, nil
}

// ShortCommitHash returns the short commit hash for a ref.
func ShortCommitHash(ctx context.Context, dir, ref string) (string, error) {
	if ref == "" {
		ref = "HEAD"
	}

	hash, err := gitIn(ctx, dir, "rev-parse", "--short", ref)
	if err != nil {
		return "", fmt.Errorf("failed to get short commit hash for %s: %w", ref, err)
	}
	return hash, nil
}
