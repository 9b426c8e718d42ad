package repository

import (
	"context"

	"github.com/compozy/gitagent/internal/domain"
	"github.com/compozy/gitagent/internal/service"
)

// GitRepository defines the named git operations on one working directory.
// Every operation checks the exit status and returns a *domain.ProcessExecutionError on failure.
type GitRepository interface {
	Path() string
	SetPath(path string)
	Agent() service.CommandAgent

	Init(ctx context.Context) error
	AddRemote(ctx context.Context, name, url string) error
	Remotes(ctx context.Context) ([]string, error)
	CloneFrom(ctx context.Context, url string) error

	CreateBranch(ctx context.Context, name, startPoint string, checkout bool) error
	DeleteBranch(ctx context.Context, name string) error
	Checkout(ctx context.Context, ref string, create bool) error
	CurrentBranch(ctx context.Context) (string, error)
	HeadCommit(ctx context.Context) (string, error)
	Branch(ctx context.Context, name string) (*domain.Branch, error)
	BranchNames(ctx context.Context, includeRemote bool) ([]string, error)
	Branches(ctx context.Context, includeRemote bool) ([]domain.Branch, error)

	ListTree(ctx context.Context, ref, path string, recursive bool) ([]domain.TreeEntry, error)

	CheckoutAllRemoteBranches(ctx context.Context, observers ...SyncObserver) (*SyncReport, error)
}

// SyncReport describes one run of CheckoutAllRemoteBranches. On failure it holds
// the progress made before the error.
type SyncReport struct {
	Original   string   `json:"original"`
	Detached   bool     `json:"detached,omitempty"`
	Candidates []string `json:"candidates"`
	CheckedOut []string `json:"checked_out"`
}

// SyncObserver is notified while remote branches are checked out.
type SyncObserver interface {
	Planned(report *SyncReport)
	CheckedOut(branch string)
}
