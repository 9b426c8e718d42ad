package service

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/compozy/gitagent/internal/domain"
	"github.com/spf13/afero"
)

// binaryLocator is the implementation of the BinaryLocator interface.
type binaryLocator struct {
	path string
	// timeout for `git --version`
	timeout time.Duration
}

// NewBinaryLocator resolves the git binary. An explicit path is used verbatim;
// otherwise git is looked up on PATH once.
func NewBinaryLocator(path string) (BinaryLocator, error) {
	return NewBinaryLocatorWithFs(afero.NewOsFs(), path)
}

// NewBinaryLocatorWithFs is NewBinaryLocator with the file system used to check an explicit path.
func NewBinaryLocatorWithFs(fs afero.Fs, path string) (BinaryLocator, error) {
	if path == "" {
		found, err := exec.LookPath(DefaultBinaryName)
		if err != nil {
			return nil, domain.NewConfigurationError("git binary not found on PATH", "", err)
		}
		return &binaryLocator{path: found, timeout: DefaultVersionTimeout}, nil
	}
	info, err := fs.Stat(path)
	if err != nil {
		return nil, domain.NewConfigurationError("git binary not found", path, err)
	}
	if info.IsDir() {
		return nil, domain.NewConfigurationError("git binary path is a directory", path, nil)
	}
	return &binaryLocator{path: path, timeout: DefaultVersionTimeout}, nil
}

func (b *binaryLocator) Path() string {
	return b.path
}

// Version runs `git --version` and parses the reported release.
func (b *binaryLocator) Version(ctx context.Context) (*domain.Version, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, b.path, "--version")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("git --version timed out after %v", b.timeout)
		}
		if errMsg := stderr.String(); errMsg != "" {
			return nil, fmt.Errorf("failed to query git version: %w (stderr: %s)", err, errMsg)
		}
		return nil, fmt.Errorf("failed to query git version: %w", err)
	}
	return domain.ParseGitVersion(stdout.String())
}
