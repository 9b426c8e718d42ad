package orchestrator

import (
	"context"

	"github.com/compozy/gitagent/internal/domain"
	"github.com/compozy/gitagent/internal/repository"
	"github.com/compozy/gitagent/internal/service"
	"github.com/stretchr/testify/mock"
)

// Mock for GitRepository - implements ALL methods from GitRepository interface
type mockGitRepository struct{ mock.Mock }

func (m *mockGitRepository) Path() string {
	args := m.Called()
	return args.String(0)
}
func (m *mockGitRepository) SetPath(path string) {
	m.Called(path)
}
func (m *mockGitRepository) Agent() service.CommandAgent {
	return nil
}
func (m *mockGitRepository) Init(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *mockGitRepository) AddRemote(ctx context.Context, name, url string) error {
	args := m.Called(ctx, name, url)
	return args.Error(0)
}
func (m *mockGitRepository) Remotes(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}
func (m *mockGitRepository) CloneFrom(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}
func (m *mockGitRepository) CreateBranch(ctx context.Context, name, startPoint string, checkout bool) error {
	args := m.Called(ctx, name, startPoint, checkout)
	return args.Error(0)
}
func (m *mockGitRepository) DeleteBranch(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}
func (m *mockGitRepository) Checkout(ctx context.Context, ref string, create bool) error {
	args := m.Called(ctx, ref, create)
	return args.Error(0)
}
func (m *mockGitRepository) CurrentBranch(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}
func (m *mockGitRepository) HeadCommit(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}
func (m *mockGitRepository) Branch(ctx context.Context, name string) (*domain.Branch, error) {
	args := m.Called(ctx, name)
	if b := args.Get(0); b != nil {
		return b.(*domain.Branch), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockGitRepository) BranchNames(ctx context.Context, includeRemote bool) ([]string, error) {
	args := m.Called(ctx, includeRemote)
	return args.Get(0).([]string), args.Error(1)
}
func (m *mockGitRepository) Branches(ctx context.Context, includeRemote bool) ([]domain.Branch, error) {
	args := m.Called(ctx, includeRemote)
	return args.Get(0).([]domain.Branch), args.Error(1)
}
func (m *mockGitRepository) ListTree(
	ctx context.Context,
	ref, path string,
	recursive bool,
) ([]domain.TreeEntry, error) {
	args := m.Called(ctx, ref, path, recursive)
	return args.Get(0).([]domain.TreeEntry), args.Error(1)
}
func (m *mockGitRepository) CheckoutAllRemoteBranches(
	ctx context.Context,
	observers ...repository.SyncObserver,
) (*repository.SyncReport, error) {
	args := m.Called(ctx, observers)
	if r := args.Get(0); r != nil {
		return r.(*repository.SyncReport), args.Error(1)
	}
	return nil, args.Error(1)
}

// notifyObservers replays a sync report to the observers passed to CheckoutAllRemoteBranches.
func notifyObservers(report *repository.SyncReport) func(mock.Arguments) {
	return func(args mock.Arguments) {
		for _, o := range args.Get(1).([]repository.SyncObserver) {
			o.Planned(report)
			for _, b := range report.CheckedOut {
				o.CheckedOut(b)
			}
		}
	}
}
