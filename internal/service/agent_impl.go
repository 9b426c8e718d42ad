package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/compozy/gitagent/internal/domain"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// commandAgent is the implementation of the CommandAgent interface.
type commandAgent struct {
	binary BinaryLocator
	fs     afero.Fs
	logger *zap.Logger

	mu      sync.RWMutex
	workdir string
}

// AgentOption configures a CommandAgent.
type AgentOption func(*commandAgent)

// WithLogger sets the logger used for per-command debug records.
func WithLogger(logger *zap.Logger) AgentOption {
	return func(a *commandAgent) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithFileSystem sets the file system used to check working directories.
func WithFileSystem(fs afero.Fs) AgentOption {
	return func(a *commandAgent) {
		if fs != nil {
			a.fs = fs
		}
	}
}

// NewCommandAgent creates a CommandAgent bound to workdir. The directory is
// checked when a command runs, not here.
func NewCommandAgent(binary BinaryLocator, workdir string, opts ...AgentOption) CommandAgent {
	a := &commandAgent{
		binary:  binary,
		fs:      afero.NewOsFs(),
		logger:  zap.NewNop(),
		workdir: workdir,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *commandAgent) Binary() BinaryLocator {
	return a.binary
}

func (a *commandAgent) Workdir() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.workdir
}

func (a *commandAgent) SetWorkdir(dir string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.workdir = dir
}

// Execute runs git in the bound working directory.
func (a *commandAgent) Execute(ctx context.Context, args ...string) (*domain.CommandResult, error) {
	return a.ExecuteIn(ctx, "", args)
}

// ExecuteIn runs git in workdir, or in the bound working directory when workdir is empty.
func (a *commandAgent) ExecuteIn(
	ctx context.Context,
	workdir string,
	args []string,
	opts ...ExecOption,
) (*domain.CommandResult, error) {
	dir, err := a.resolveWorkdir(workdir)
	if err != nil {
		return nil, err
	}
	var o execOptions
	for _, opt := range opts {
		opt(&o)
	}
	argv := append([]string(nil), args...)
	gitDir := ""
	if !o.unscoped {
		gitDir = a.gitDir(dir)
	}

	cmd := exec.CommandContext(ctx, a.binary.Path(), argv...)
	cmd.Dir = dir
	cmd.Env = commandEnv(os.Environ(), gitDir)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	status := 0
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("git %s interrupted: %w", strings.Join(argv, " "), ctxErr)
		}
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, domain.NewConfigurationError("failed to start git", a.binary.Path(), err)
		}
		status = exitErr.ExitCode()
	}
	a.logger.Debug("git command",
		zap.Strings("args", argv),
		zap.String("workdir", dir),
		zap.String("git_dir", gitDir),
		zap.Int("status", status),
		zap.Duration("duration", time.Since(start)),
	)
	return domain.NewCommandResult(argv, dir, stdout.String(), stderr.String(), status), nil
}

func (a *commandAgent) resolveWorkdir(workdir string) (string, error) {
	if workdir == "" {
		workdir = a.Workdir()
	}
	if workdir == "" {
		return "", domain.NewConfigurationError("no working directory bound", "", nil)
	}
	abs, err := filepath.Abs(workdir)
	if err != nil {
		return "", domain.NewConfigurationError("cannot resolve working directory", workdir, err)
	}
	ok, err := afero.DirExists(a.fs, abs)
	if err != nil {
		return "", domain.NewConfigurationError("cannot inspect working directory", abs, err)
	}
	if !ok {
		return "", domain.NewConfigurationError("working directory does not exist", abs, nil)
	}
	return abs, nil
}

func (a *commandAgent) gitDir(workdir string) string {
	return GitDir(a.fs, workdir)
}

// commandEnv drops inherited repository overrides and applies gitDir when set.
func commandEnv(base []string, gitDir string) []string {
	env := make([]string, 0, len(base)+1)
	for _, kv := range base {
		if strings.HasPrefix(kv, envGitDir+"=") || strings.HasPrefix(kv, envGitWorkTree+"=") {
			continue
		}
		env = append(env, kv)
	}
	if gitDir != "" {
		env = append(env, envGitDir+"="+gitDir)
	}
	return env
}
