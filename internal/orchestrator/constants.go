package orchestrator

import (
	"os"
	"strings"
	"time"
)

// Timeout constants for branch sync runs
var (
	// DefaultSyncTimeout bounds a whole sync or restore run
	DefaultSyncTimeout = getTimeoutOrDefault("GITAGENT_SYNC_TIMEOUT", 30*time.Minute, 30*time.Second)
)

// isTestEnvironment detects if we're running in a test environment
func isTestEnvironment() bool {
	for _, arg := range os.Args {
		if strings.Contains(arg, ".test") || strings.Contains(arg, "go test") {
			return true
		}
	}
	return os.Getenv("GO_TEST") == "true" || os.Getenv("TEST_MODE") == "true"
}

// getTimeoutOrDefault returns production timeout or test timeout based on environment
func getTimeoutOrDefault(envVar string, prodDefault, testDefault time.Duration) time.Duration {
	if env := os.Getenv(envVar); env != "" {
		if duration, err := time.ParseDuration(env); err == nil {
			return duration
		}
	}
	if isTestEnvironment() {
		return testDefault
	}
	return prodDefault
}

const (
	// DirPermissionsDefault is the permission for the lock directory
	DirPermissionsDefault = 0700
	// LockFileName is the repository-wide sync lock inside the state directory
	LockFileName = "sync.lock"
)
