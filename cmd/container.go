package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/compozy/gitagent/internal/config"
	"github.com/compozy/gitagent/internal/logging"
	"github.com/compozy/gitagent/internal/orchestrator"
	"github.com/compozy/gitagent/internal/repository"
	"github.com/compozy/gitagent/internal/service"
	"github.com/compozy/gitagent/internal/usecase"
	"github.com/compozy/gitagent/pkg/version"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// container holds all the dependencies for the application.
// It is populated by the root command's pre-run hook, after flags are bound.
type container struct {
	cfg    *config.Config
	logger *zap.Logger

	fsRepo    repository.FileSystemRepository
	binary    service.BinaryLocator
	agent     service.CommandAgent
	gitRepo   repository.GitRepository
	ghRepo    repository.GithubRepository
	stateRepo repository.StateRepository
	syncOrch  *orchestrator.SyncOrchestrator
	cloneUC   *usecase.CreateFromRemoteUseCase

	closers []func()
}

// init loads the configuration and builds every dependency from it.
func (c *container) init() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	logger, closeLog, err := logging.New(logging.Options{
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAge,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	c.closers = append(c.closers, closeLog)

	fsRepo := repository.NewOsFileSystem()
	binary, err := service.NewBinaryLocator(cfg.BinaryPath)
	if err != nil {
		return err
	}
	workdir, err := filepath.Abs(cfg.Workdir)
	if err != nil {
		return fmt.Errorf("failed to resolve workdir %s: %w", cfg.Workdir, err)
	}
	agent := service.NewCommandAgent(binary, workdir,
		service.WithLogger(logger),
		service.WithFileSystem(fsRepo),
	)
	gitRepo := repository.NewGitRepository(agent, fsRepo, logger)

	// GitHub lookups are optional and anonymous without a token
	ghRepo := repository.NewGithubNoopRepository()
	if cfg.GithubEnabled {
		ghRepo, err = repository.NewGithubRepository(cfg.GithubToken)
		if err != nil {
			return err
		}
	}

	// the journal lives in the repository storage unless configured elsewhere
	stateDir, storageDir := cfg.StateDir, ""
	if stateDir == "" {
		storageDir, _ = service.StorageDir(fsRepo, workdir)
		stateDir = repository.DefaultStateDir(storageDir)
	}
	stateRepo := repository.NewJSONStateRepository(fsRepo, stateDir, cfg.LockTimeout, logger)
	syncOrch := orchestrator.NewSyncOrchestrator(
		gitRepo,
		stateRepo,
		fsRepo,
		orchestrator.SyncConfig{StateDir: stateDir, StorageDir: storageDir, LockTimeout: cfg.LockTimeout},
		logger,
	)

	c.cfg = cfg
	c.logger = logger
	c.fsRepo = fsRepo
	c.binary = binary
	c.agent = agent
	c.gitRepo = gitRepo
	c.ghRepo = ghRepo
	c.stateRepo = stateRepo
	c.syncOrch = syncOrch
	c.cloneUC = &usecase.CreateFromRemoteUseCase{GitRepo: gitRepo, FsRepo: fsRepo}
	return nil
}

// applyTimeout bounds the command context by the configured command timeout.
func (c *container) applyTimeout(cmd *cobra.Command) {
	if c.cfg == nil || c.cfg.CommandTimeout <= 0 {
		return
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, c.cfg.CommandTimeout)
	cmd.SetContext(ctx)
	c.closers = append(c.closers, cancel)
}

func (c *container) close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

// InitCommands initializes all commands with their dependencies
func InitCommands() error {
	c := &container{}
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if err := c.init(); err != nil {
			return err
		}
		c.applyTimeout(cmd)
		return nil
	}
	// finalizers also run when RunE fails, unlike PersistentPostRun
	cobra.OnFinalize(c.close)
	rootCmd.Version = version.Summary()
	if err := bindFlags(); err != nil {
		return err
	}
	rootCmd.AddCommand(
		newVersionCmd(),
		newInitCmd(c),
		newCloneCmd(c),
		newRemoteCmd(c),
		newBranchCmd(c),
		newCheckoutCmd(c),
		newCurrentCmd(c),
		newSyncCmd(c),
		newRestoreCmd(c),
		newLsTreeCmd(c),
	)
	return nil
}
