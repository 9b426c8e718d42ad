package service

import "time"

const (
	// DefaultBinaryName is looked up on PATH when no explicit binary is configured
	DefaultBinaryName = "git"
	// DefaultVersionTimeout bounds `git --version`
	DefaultVersionTimeout = 10 * time.Second
)

// Environment variables the agent controls on every invocation
const (
	envGitDir      = "GIT_DIR"
	envGitWorkTree = "GIT_WORK_TREE"
)
