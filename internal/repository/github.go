package repository

import "context"

// GithubRepository resolves repositories hosted on GitHub.
type GithubRepository interface {
	CloneURL(ctx context.Context, owner, repo string) (string, error)
	DefaultBranch(ctx context.Context, owner, repo string) (string, error)
}
