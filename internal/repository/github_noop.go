package repository

import (
	"context"
	"fmt"

	"github.com/compozy/gitagent/internal/domain"
)

type githubNoopRepository struct{}

// NewGithubNoopRepository returns a GithubRepository whose operations fail with domain.ErrGithubDisabled.
func NewGithubNoopRepository() GithubRepository {
	return &githubNoopRepository{}
}

func (r *githubNoopRepository) CloneURL(_ context.Context, owner, repo string) (string, error) {
	return "", r.operationError("resolve clone url", owner, repo)
}

func (r *githubNoopRepository) DefaultBranch(_ context.Context, owner, repo string) (string, error) {
	return "", r.operationError("resolve default branch", owner, repo)
}

func (r *githubNoopRepository) operationError(action, owner, repo string) error {
	return fmt.Errorf("%w: unable to %s for %s/%s", domain.ErrGithubDisabled, action, owner, repo)
}
