package service

import (
	"context"

	"github.com/compozy/gitagent/internal/domain"
)

// CommandAgent runs git subcommands against a working directory.
// A nonzero exit status is reported in the result, not as an error.
type CommandAgent interface {
	Binary() BinaryLocator
	Workdir() string
	SetWorkdir(dir string)
	Execute(ctx context.Context, args ...string) (*domain.CommandResult, error)
	ExecuteIn(ctx context.Context, workdir string, args []string, opts ...ExecOption) (*domain.CommandResult, error)
}

// ExecOption adjusts a single invocation.
type ExecOption func(*execOptions)

type execOptions struct {
	unscoped bool
}

// WithoutScope runs git without the GIT_DIR override, for commands such as clone
// that create the repository storage themselves.
func WithoutScope() ExecOption {
	return func(o *execOptions) {
		o.unscoped = true
	}
}
