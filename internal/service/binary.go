package service

import (
	"context"

	"github.com/compozy/gitagent/internal/domain"
)

// BinaryLocator resolves the git executable once and reports its version.
type BinaryLocator interface {
	Path() string
	Version(ctx context.Context) (*domain.Version, error)
}
