package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/compozy/gitagent/internal/config"
	"github.com/google/go-github/v74/github"
	"golang.org/x/oauth2"
)

// githubRepository is the implementation of the GithubRepository interface.
type githubRepository struct {
	client *github.Client
}

// NewGithubRepository creates a GithubRepository. An empty token uses anonymous
// access, which is enough for public repositories.
func NewGithubRepository(token string) (GithubRepository, error) {
	if token == "" {
		return &githubRepository{client: github.NewClient(nil)}, nil
	}
	if err := config.ValidateGitHubToken(token); err != nil {
		return nil, fmt.Errorf("invalid GitHub token: %w", err)
	}
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: strings.TrimSpace(token)},
	)
	tc := oauth2.NewClient(context.Background(), ts)
	return &githubRepository{client: github.NewClient(tc)}, nil
}

// NewGithubRepositoryWithClient wraps an existing client, e.g. one pointed at GitHub Enterprise.
func NewGithubRepositoryWithClient(client *github.Client) GithubRepository {
	return &githubRepository{client: client}
}

func (r *githubRepository) get(ctx context.Context, owner, repo string) (*github.Repository, error) {
	if err := config.ValidateGitHubOwnerRepo(owner, repo); err != nil {
		return nil, fmt.Errorf("invalid repository: %w", err)
	}
	ghRepo, _, err := r.client.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to get repository %s/%s: %w", owner, repo, err)
	}
	return ghRepo, nil
}

// CloneURL returns the HTTPS clone URL of owner/repo.
func (r *githubRepository) CloneURL(ctx context.Context, owner, repo string) (string, error) {
	ghRepo, err := r.get(ctx, owner, repo)
	if err != nil {
		return "", err
	}
	url := ghRepo.GetCloneURL()
	if url == "" {
		return "", fmt.Errorf("repository %s/%s has no clone url", owner, repo)
	}
	return url, nil
}

// DefaultBranch returns the default branch of owner/repo.
func (r *githubRepository) DefaultBranch(ctx context.Context, owner, repo string) (string, error) {
	ghRepo, err := r.get(ctx, owner, repo)
	if err != nil {
		return "", err
	}
	return ghRepo.GetDefaultBranch(), nil
}
