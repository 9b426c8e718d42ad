package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	BinaryPath     string        `mapstructure:"binary_path"`
	Workdir        string        `mapstructure:"workdir"`
	StateDir       string        `mapstructure:"state_dir"`
	CommandTimeout time.Duration `mapstructure:"command_timeout"`
	LockTimeout    time.Duration `mapstructure:"lock_timeout"`
	LogLevel       string        `mapstructure:"log_level"`
	LogFile        string        `mapstructure:"log_file"`
	LogMaxSize     int           `mapstructure:"log_max_size"`
	LogMaxBackups  int           `mapstructure:"log_max_backups"`
	LogMaxAge      int           `mapstructure:"log_max_age"`
	GithubToken    string        `mapstructure:"github_token"`
	GithubEnabled  bool          `mapstructure:"github_enabled"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		Workdir:       ".",
		LockTimeout:   30 * time.Second,
		LogLevel:      "info",
		LogMaxSize:    1,
		LogMaxBackups: 2,
		LogMaxAge:     30,
		GithubEnabled: true,
	}
}

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate validates the configuration
func (c *Config) Validate() error {
	// GitHub token is optional - only validate if provided
	if c.GithubToken != "" {
		if err := ValidateGitHubToken(c.GithubToken); err != nil {
			return fmt.Errorf("invalid github_token: %w", err)
		}
	}
	if c.Workdir == "" {
		return fmt.Errorf("workdir cannot be empty")
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log_level: %s", c.LogLevel)
	}
	if c.CommandTimeout < 0 {
		return fmt.Errorf("command_timeout cannot be negative")
	}
	if c.LockTimeout <= 0 {
		return fmt.Errorf("lock_timeout must be positive")
	}
	if c.LogMaxSize <= 0 || c.LogMaxBackups < 0 || c.LogMaxAge < 0 {
		return fmt.Errorf("invalid log rotation settings")
	}
	return nil
}

// ValidateGitHubToken validates GitHub token format (exported for reuse)
func ValidateGitHubToken(token string) error {
	token = strings.TrimSpace(token)
	if len(token) < 40 {
		return fmt.Errorf("token too short: expected at least 40 characters")
	}
	classicPAT := regexp.MustCompile(`^[a-fA-F0-9]{40}$`)
	fineGrainedPAT := regexp.MustCompile(`^github_pat_[a-zA-Z0-9_]{82}$`)
	appToken := regexp.MustCompile(`^ghs_[a-zA-Z0-9]{36}$`)
	oauthToken := regexp.MustCompile(`^gho_[a-zA-Z0-9]{36}$`)
	personalToken := regexp.MustCompile(`^ghp_[a-zA-Z0-9]{36}$`)
	if !classicPAT.MatchString(token) &&
		!fineGrainedPAT.MatchString(token) &&
		!appToken.MatchString(token) &&
		!oauthToken.MatchString(token) &&
		!personalToken.MatchString(token) {
		return fmt.Errorf("invalid token format")
	}
	return nil
}

// ValidateGitHubOwnerRepo validates GitHub owner and repository names (exported for reuse)
func ValidateGitHubOwnerRepo(owner, repo string) error {
	if owner == "" {
		return fmt.Errorf("owner cannot be empty")
	}
	if repo == "" {
		return fmt.Errorf("repository cannot be empty")
	}
	validName := regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9\-_.]*[a-zA-Z0-9]$|^[a-zA-Z0-9]$`)
	if !validName.MatchString(owner) {
		return fmt.Errorf("invalid owner format: %s", owner)
	}
	if len(owner) > 39 {
		return fmt.Errorf("owner too long: maximum 39 characters")
	}
	if !validName.MatchString(repo) {
		return fmt.Errorf("invalid repository format: %s", repo)
	}
	if len(repo) > 100 {
		return fmt.Errorf("repository too long: maximum 100 characters")
	}
	return nil
}

// ParseRepoSlug splits and validates an "owner/repo" slug.
func ParseRepoSlug(slug string) (string, string, error) {
	owner, repo, ok := strings.Cut(strings.TrimSpace(slug), "/")
	if !ok {
		return "", "", fmt.Errorf("expected owner/repo, got %q", slug)
	}
	repo = strings.TrimSuffix(repo, ".git")
	if err := ValidateGitHubOwnerRepo(owner, repo); err != nil {
		return "", "", err
	}
	return owner, repo, nil
}

// LoadConfig reads configuration through the global viper instance.
func LoadConfig() (*Config, error) {
	return Load(viper.GetViper())
}

// Load reads .gitagent.yaml from the working directory, GITAGENT_* environment
// variables and the aliases bound below, then validates the result.
func Load(v *viper.Viper) (*Config, error) {
	v.SetConfigName(".gitagent")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix("GITAGENT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// BindEnv allows multiple env vars - it will check them in order
	if err := v.BindEnv("binary_path", "GITAGENT_BINARY_PATH", "GIT_BINARY"); err != nil {
		return nil, fmt.Errorf("failed to bind binary_path env: %w", err)
	}
	if err := v.BindEnv("github_token", "GITAGENT_GITHUB_TOKEN", "GITHUB_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind github_token env: %w", err)
	}
	defaults := DefaultConfig()
	v.SetDefault("workdir", defaults.Workdir)
	v.SetDefault("lock_timeout", defaults.LockTimeout)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("log_max_size", defaults.LogMaxSize)
	v.SetDefault("log_max_backups", defaults.LogMaxBackups)
	v.SetDefault("log_max_age", defaults.LogMaxAge)
	v.SetDefault("github_enabled", defaults.GithubEnabled)
	for _, key := range []string{"state_dir", "command_timeout", "log_file"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s env: %w", key, err)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &config, nil
}
