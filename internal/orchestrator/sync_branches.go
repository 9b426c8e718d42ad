package orchestrator

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/compozy/gitagent/internal/domain"
	"github.com/compozy/gitagent/internal/repository"
	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// SyncConfig contains configuration for the branch sync workflow.
type SyncConfig struct {
	// StateDir holds the journal and the repository lock
	StateDir    string
	// StorageDir, when set, is the repository storage StateDir lives in. It must
	// already exist: the orchestrator never creates repository storage itself.
	StorageDir  string
	LockTimeout time.Duration
}

// SyncOrchestrator runs CheckoutAllRemoteBranches under a repository lock and
// journals every run so an interrupted one can be restored.
type SyncOrchestrator struct {
	gitRepo   repository.GitRepository
	stateRepo repository.StateRepository
	fsRepo    repository.FileSystemRepository
	cfg       SyncConfig
	logger    *zap.Logger
	newID     func() string
}

// NewSyncOrchestrator creates a new sync orchestrator.
func NewSyncOrchestrator(
	gitRepo repository.GitRepository,
	stateRepo repository.StateRepository,
	fsRepo repository.FileSystemRepository,
	cfg SyncConfig,
	logger *zap.Logger,
) *SyncOrchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.LockTimeout <= 0 {
		cfg.LockTimeout = repository.LockTimeout
	}
	return &SyncOrchestrator{
		gitRepo:   gitRepo,
		stateRepo: stateRepo,
		fsRepo:    fsRepo,
		cfg:       cfg,
		logger:    logger,
		newID:     func() string { return uuid.New().String() },
	}
}

// Sync checks out every remote branch that has no local branch and returns the journaled state.
// On failure the state is returned together with the error.
func (o *SyncOrchestrator) Sync(ctx context.Context) (*domain.SyncState, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultSyncTimeout)
	defer cancel()
	lock, err := o.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer o.unlock(lock)

	state := domain.NewSyncState(o.newID(), o.gitRepo.Path())
	if err := o.stateRepo.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to save sync state: %w", err)
	}
	log := o.logger.With(zap.String("session_id", state.SessionID))
	log.Info("starting remote branch sync", zap.String("workdir", state.Workdir))

	journal := &journalObserver{ctx: ctx, state: state, stateRepo: o.stateRepo, logger: log}
	report, syncErr := o.gitRepo.CheckoutAllRemoteBranches(ctx, journal)
	if syncErr != nil {
		state.MarkFailed(failingBranch(report), syncErr)
		o.save(ctx, state, log)
		log.Error("remote branch sync failed", zap.Error(syncErr))
		return state, fmt.Errorf("failed to sync remote branches (session %s): %w", state.SessionID, syncErr)
	}
	state.MarkCompleted()
	if err := o.stateRepo.Save(ctx, state); err != nil {
		return state, fmt.Errorf("failed to save sync state: %w", err)
	}
	log.Info("remote branch sync completed", zap.Strings("checked_out", state.CheckedOut()))
	return state, nil
}

// Restore checks out the original ref of an unfinished run. An empty sessionID selects the latest run.
func (o *SyncOrchestrator) Restore(ctx context.Context, sessionID string) (*domain.SyncState, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultSyncTimeout)
	defer cancel()
	lock, err := o.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer o.unlock(lock)

	var state *domain.SyncState
	if sessionID == "" {
		state, err = o.stateRepo.LoadLatest(ctx)
	} else {
		state, err = o.stateRepo.Load(ctx, sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load sync state: %w", err)
	}
	log := o.logger.With(zap.String("session_id", state.SessionID))
	if !state.NeedsRestore() {
		log.Info("nothing to restore", zap.String("status", string(state.Status)))
		return state, nil
	}
	if state.OriginalRef != "" {
		if err := o.gitRepo.Checkout(ctx, state.OriginalRef, false); err != nil {
			return state, fmt.Errorf("failed to restore %s: %w", state.OriginalRef, err)
		}
	}
	state.MarkRestored()
	if err := o.stateRepo.Save(ctx, state); err != nil {
		return state, fmt.Errorf("failed to save sync state: %w", err)
	}
	log.Info("restored original ref", zap.String("ref", state.OriginalRef))
	return state, nil
}

func (o *SyncOrchestrator) lock(ctx context.Context) (*flock.Flock, error) {
	if o.cfg.StorageDir != "" {
		ok, err := afero.DirExists(o.fsRepo, o.cfg.StorageDir)
		if err != nil || !ok {
			return nil, domain.NewConfigurationError("repository storage not found", o.cfg.StorageDir, err)
		}
	}
	if err := o.fsRepo.MkdirAll(o.cfg.StateDir, DirPermissionsDefault); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	lock, err := repository.AcquireLock(ctx, filepath.Join(o.cfg.StateDir, LockFileName), false, o.cfg.LockTimeout)
	if err != nil {
		return nil, fmt.Errorf("another sync is running: %w", err)
	}
	return lock, nil
}

func (o *SyncOrchestrator) unlock(lock *flock.Flock) {
	if err := lock.Unlock(); err != nil {
		o.logger.Warn("failed to release sync lock", zap.Error(err))
	}
}

func (o *SyncOrchestrator) save(ctx context.Context, state *domain.SyncState, log *zap.Logger) {
	if err := o.stateRepo.Save(ctx, state); err != nil {
		log.Warn("failed to save sync state", zap.Error(err))
	}
}

// failingBranch is the candidate that was being checked out when the run stopped,
// or "" when it stopped before or after the checkouts.
func failingBranch(report *repository.SyncReport) string {
	if report == nil || len(report.CheckedOut) >= len(report.Candidates) {
		return ""
	}
	return report.Candidates[len(report.CheckedOut)]
}

// journalObserver persists progress as branches are checked out.
type journalObserver struct {
	ctx       context.Context
	state     *domain.SyncState
	stateRepo repository.StateRepository
	logger    *zap.Logger
}

func (j *journalObserver) Planned(report *repository.SyncReport) {
	j.state.Start(report.Original, report.Detached, report.Candidates)
	j.save()
}

func (j *journalObserver) CheckedOut(branch string) {
	j.state.MarkCheckedOut(branch)
	j.save()
}

func (j *journalObserver) save() {
	if err := j.stateRepo.Save(j.ctx, j.state); err != nil {
		j.logger.Warn("failed to save sync state", zap.Error(err))
	}
}
