package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(wd)) })
}

func TestLoad(t *testing.T) {
	t.Run("Should apply defaults without a config file", func(t *testing.T) {
		chdir(t, t.TempDir())
		t.Setenv("GITHUB_TOKEN", "")
		t.Setenv("GIT_BINARY", "")
		cfg, err := Load(viper.New())
		require.NoError(t, err)
		assert.Equal(t, ".", cfg.Workdir)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, 30*time.Second, cfg.LockTimeout)
		assert.Equal(t, time.Duration(0), cfg.CommandTimeout)
		assert.True(t, cfg.GithubEnabled)
	})
	t.Run("Should read the config file", func(t *testing.T) {
		dir := t.TempDir()
		chdir(t, dir)
		t.Setenv("GITHUB_TOKEN", "")
		t.Setenv("GIT_BINARY", "")
		content := strings.Join([]string{
			"binary_path: /usr/local/bin/git",
			"workdir: /srv/repo",
			"command_timeout: 45s",
			"log_level: debug",
			"github_enabled: false",
		}, "\n")
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitagent.yaml"), []byte(content), 0o644))
		cfg, err := Load(viper.New())
		require.NoError(t, err)
		assert.Equal(t, "/usr/local/bin/git", cfg.BinaryPath)
		assert.Equal(t, "/srv/repo", cfg.Workdir)
		assert.Equal(t, 45*time.Second, cfg.CommandTimeout)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.False(t, cfg.GithubEnabled)
	})
	t.Run("Should read environment aliases", func(t *testing.T) {
		chdir(t, t.TempDir())
		t.Setenv("GIT_BINARY", "/opt/git/bin/git")
		t.Setenv("GITHUB_TOKEN", "")
		t.Setenv("GITAGENT_LOG_LEVEL", "warn")
		t.Setenv("GITAGENT_STATE_DIR", "/tmp/journal")
		cfg, err := Load(viper.New())
		require.NoError(t, err)
		assert.Equal(t, "/opt/git/bin/git", cfg.BinaryPath)
		assert.Equal(t, "warn", cfg.LogLevel)
		assert.Equal(t, "/tmp/journal", cfg.StateDir)
	})
	t.Run("Should reject an invalid log level", func(t *testing.T) {
		chdir(t, t.TempDir())
		t.Setenv("GITHUB_TOKEN", "")
		t.Setenv("GITAGENT_LOG_LEVEL", "verbose")
		_, err := Load(viper.New())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "log_level")
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Run("Should accept defaults", func(t *testing.T) {
		assert.NoError(t, DefaultConfig().Validate())
	})
	t.Run("Should reject a malformed token", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.GithubToken = "short"
		assert.Error(t, cfg.Validate())
	})
	t.Run("Should accept a personal access token", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.GithubToken = "ghp_" + strings.Repeat("a", 36)
		assert.NoError(t, cfg.Validate())
	})
	t.Run("Should reject negative timeouts", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.CommandTimeout = -time.Second
		assert.Error(t, cfg.Validate())
		cfg = DefaultConfig()
		cfg.LockTimeout = 0
		assert.Error(t, cfg.Validate())
	})
}

func TestParseRepoSlug(t *testing.T) {
	cases := []struct {
		slug      string
		wantOwner string
		wantRepo  string
		wantErr   bool
	}{
		{slug: "compozy/gitagent", wantOwner: "compozy", wantRepo: "gitagent"},
		{slug: "octo/widget.git", wantOwner: "octo", wantRepo: "widget"},
		{slug: "no-slash", wantErr: true},
		{slug: "/repo", wantErr: true},
		{slug: "owner/-bad-", wantErr: true},
	}
	for _, tc := range cases {
		t.Run("Should parse "+tc.slug, func(t *testing.T) {
			owner, repo, err := ParseRepoSlug(tc.slug)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantOwner, owner)
			assert.Equal(t, tc.wantRepo, repo)
		})
	}
}
