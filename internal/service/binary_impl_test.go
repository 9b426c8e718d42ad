package service

import (
	"context"
	"os/exec"
	"testing"

	"github.com/compozy/gitagent/internal/domain"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireGit(t *testing.T) BinaryLocator {
	t.Helper()
	if _, err := exec.LookPath(DefaultBinaryName); err != nil {
		t.Skip("git not available on PATH")
	}
	bin, err := NewBinaryLocator("")
	require.NoError(t, err)
	return bin
}

func TestNewBinaryLocator(t *testing.T) {
	t.Run("Should use an explicit path verbatim", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "/opt/git/bin/git", []byte("#!/bin/sh"), 0o755))
		bin, err := NewBinaryLocatorWithFs(fs, "/opt/git/bin/git")
		require.NoError(t, err)
		assert.Equal(t, "/opt/git/bin/git", bin.Path())
	})
	t.Run("Should fail when the explicit path does not exist", func(t *testing.T) {
		_, err := NewBinaryLocatorWithFs(afero.NewMemMapFs(), "/missing/git")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrConfiguration)
		var ce *domain.ConfigurationError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "/missing/git", ce.Path)
	})
	t.Run("Should fail when the explicit path is a directory", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, fs.MkdirAll("/usr/bin", 0o755))
		_, err := NewBinaryLocatorWithFs(fs, "/usr/bin")
		assert.ErrorIs(t, err, domain.ErrConfiguration)
	})
	t.Run("Should find git on PATH", func(t *testing.T) {
		bin := requireGit(t)
		assert.NotEmpty(t, bin.Path())
	})
}

func TestBinaryLocator_Version(t *testing.T) {
	t.Run("Should report the installed git version", func(t *testing.T) {
		bin := requireGit(t)
		v, err := bin.Version(context.Background())
		require.NoError(t, err)
		ok, err := v.AtLeast("1.0.0")
		require.NoError(t, err)
		assert.True(t, ok)
	})
}
