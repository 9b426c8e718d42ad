package usecase

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/compozy/gitagent/internal/domain"
	"github.com/compozy/gitagent/internal/repository"
	"github.com/spf13/afero"
)

// TempDirPattern names the directories created for clones without an explicit target.
const TempDirPattern = "gitagent-*"

// CreateFromRemoteUseCase contains the logic for the clone command.
type CreateFromRemoteUseCase struct {
	GitRepo repository.GitRepository
	FsRepo  repository.FileSystemRepository
}

// Execute clones source into path, or into a fresh temp directory when path is empty, and checks out
// every remote branch. The repository stays bound to the clone and the sync report is returned.
func (uc *CreateFromRemoteUseCase) Execute(
	ctx context.Context,
	source, path string,
) (*repository.SyncReport, error) {
	if path == "" {
		dir, err := repository.MakeTempDir(uc.FsRepo, TempDirPattern)
		if err != nil {
			return nil, fmt.Errorf("failed to create clone directory: %w", err)
		}
		path = dir
	}
	uc.GitRepo.SetPath(path)
	if err := uc.GitRepo.CloneFrom(ctx, source); err != nil {
		return nil, err
	}
	report, err := uc.GitRepo.CheckoutAllRemoteBranches(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to check out remote branches of %s: %w", source, err)
	}
	return report, nil
}

// Open binds the repository to an existing directory.
func (uc *CreateFromRemoteUseCase) Open(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return domain.NewConfigurationError("cannot resolve working directory", path, err)
	}
	ok, err := afero.DirExists(uc.FsRepo, abs)
	if err != nil || !ok {
		return domain.NewConfigurationError("working directory does not exist", abs, err)
	}
	uc.GitRepo.SetPath(abs)
	return nil
}
