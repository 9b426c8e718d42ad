package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/compozy/gitagent/internal/domain"
	"github.com/gofrs/flock"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	// StateSchemaVersion defines the current schema version for journal files
	StateSchemaVersion = "1.0.0"
	// StateFilePermissions defines the permissions for journal files
	StateFilePermissions = 0600
	// StateDirPermissions defines the permissions for the journal directory
	StateDirPermissions = 0700
	// DefaultStateDirName is the journal directory inside the repository storage
	DefaultStateDirName = "gitagent"
)

// ErrStateNotFound is returned when no journal exists for a session.
var ErrStateNotFound = errors.New("sync state not found")

// StateRepository defines the interface for the branch sync journal
type StateRepository interface {
	Save(ctx context.Context, state *domain.SyncState) error
	Load(ctx context.Context, sessionID string) (*domain.SyncState, error)
	LoadLatest(ctx context.Context) (*domain.SyncState, error)
	Delete(ctx context.Context, sessionID string) error
	Exists(ctx context.Context, sessionID string) (bool, error)
}

// StateMetadata contains metadata about the journal file
type StateMetadata struct {
	SchemaVersion string    `json:"schema_version"`
	Checksum      string    `json:"checksum"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// StateWrapper wraps the state with metadata
type StateWrapper struct {
	Metadata StateMetadata     `json:"metadata"`
	State    *domain.SyncState `json:"state"`
}

// JSONStateRepository implements StateRepository using JSON file storage.
// Per-session file locks are OS locks, so stateDir must live on the real file system.
type JSONStateRepository struct {
	fs          afero.Fs
	stateDir    string
	lockTimeout time.Duration
	logger      *zap.Logger
	mu          sync.RWMutex
}

// DefaultStateDir returns the journal directory inside a repository's storage
// directory (see service.StorageDir).
func DefaultStateDir(storageDir string) string {
	return filepath.Join(storageDir, DefaultStateDirName)
}

// NewJSONStateRepository creates a new JSON-based journal
func NewJSONStateRepository(
	fs afero.Fs,
	stateDir string,
	lockTimeout time.Duration,
	logger *zap.Logger,
) StateRepository {
	if stateDir == "" {
		stateDir = DefaultStateDirName
	}
	if lockTimeout <= 0 {
		lockTimeout = LockTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JSONStateRepository{
		fs:          fs,
		stateDir:    stateDir,
		lockTimeout: lockTimeout,
		logger:      logger,
	}
}

// Save persists the sync state to a JSON file under an exclusive session lock
func (r *JSONStateRepository) Save(ctx context.Context, state *domain.SyncState) error {
	if state == nil || state.SessionID == "" {
		return fmt.Errorf("sync state requires a session id")
	}
	if err := r.ensureStateDir(); err != nil {
		return fmt.Errorf("failed to ensure state directory: %w", err)
	}
	filename := r.getStateFilename(state.SessionID)
	lock, err := AcquireLock(ctx, r.getLockFilename(state.SessionID), false, r.lockTimeout)
	if err != nil {
		return err
	}
	defer r.unlock(lock)

	wrapper := StateWrapper{
		Metadata: StateMetadata{
			SchemaVersion: StateSchemaVersion,
			CreatedAt:     state.StartedAt,
			UpdatedAt:     time.Now(),
		},
		State: state,
	}
	stateData, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal state for checksum: %w", err)
	}
	wrapper.Metadata.Checksum = r.calculateChecksum(stateData)
	data, err := json.MarshalIndent(wrapper, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state wrapper: %w", err)
	}
	if err := r.writeAtomic(filename, data); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := r.updateLatestLink(filename); err != nil {
		return fmt.Errorf("failed to update latest link: %w", err)
	}
	return nil
}

// Load retrieves a session's sync state, validating schema and checksum
func (r *JSONStateRepository) Load(ctx context.Context, sessionID string) (*domain.SyncState, error) {
	filename := r.getStateFilename(sessionID)
	exists, err := afero.Exists(r.fs, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to check state file: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: session %s", ErrStateNotFound, sessionID)
	}
	lock, err := AcquireLock(ctx, r.getLockFilename(sessionID), true, r.lockTimeout)
	if err != nil {
		return nil, err
	}
	defer r.unlock(lock)

	data, err := afero.ReadFile(r.fs, filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: session %s", ErrStateNotFound, sessionID)
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}
	var wrapper StateWrapper
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state wrapper: %w", err)
	}
	if wrapper.Metadata.SchemaVersion != StateSchemaVersion {
		return nil, fmt.Errorf("incompatible schema version: expected %s, got %s",
			StateSchemaVersion, wrapper.Metadata.SchemaVersion)
	}
	stateData, err := json.Marshal(wrapper.State)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal state for checksum validation: %w", err)
	}
	if wrapper.Metadata.Checksum != r.calculateChecksum(stateData) {
		return nil, fmt.Errorf("state checksum mismatch: data may be corrupted")
	}
	return wrapper.State, nil
}

// LoadLatest retrieves the most recently saved sync state
func (r *JSONStateRepository) LoadLatest(ctx context.Context) (*domain.SyncState, error) {
	r.mu.RLock()
	data, err := afero.ReadFile(r.fs, r.getLatestLink())
	r.mu.RUnlock()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: no latest session", ErrStateNotFound)
		}
		return nil, fmt.Errorf("failed to read latest link: %w", err)
	}
	target := strings.TrimSpace(string(data))
	sessionID := r.extractSessionID(target)
	if sessionID == "" {
		return nil, fmt.Errorf("invalid latest link target: %s", target)
	}
	return r.Load(ctx, sessionID)
}

// Delete removes a session's journal
func (r *JSONStateRepository) Delete(ctx context.Context, sessionID string) error {
	filename := r.getStateFilename(sessionID)
	lockFile := r.getLockFilename(sessionID)
	if err := r.ensureStateDir(); err != nil {
		return fmt.Errorf("failed to ensure state directory: %w", err)
	}
	lock, err := AcquireLock(ctx, lockFile, false, r.lockTimeout)
	if err != nil {
		return err
	}
	defer r.unlock(lock)
	if err := r.fs.Remove(filename); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete state file: %w", err)
	}
	if err := r.fs.Remove(lockFile); err != nil && !os.IsNotExist(err) {
		r.logger.Warn("failed to remove lock file", zap.String("path", lockFile), zap.Error(err))
	}
	return nil
}

// Exists checks if a session's journal exists
func (r *JSONStateRepository) Exists(_ context.Context, sessionID string) (bool, error) {
	exists, err := afero.Exists(r.fs, r.getStateFilename(sessionID))
	if err != nil {
		return false, fmt.Errorf("failed to check state file: %w", err)
	}
	return exists, nil
}

func (r *JSONStateRepository) unlock(lock *flock.Flock) {
	if err := lock.Unlock(); err != nil {
		r.logger.Warn("failed to unlock file", zap.String("path", lock.Path()), zap.Error(err))
	}
}

// writeAtomic writes data to a temp file and renames it over filename
func (r *JSONStateRepository) writeAtomic(filename string, data []byte) error {
	tempFile := filename + ".tmp"
	if err := afero.WriteFile(r.fs, tempFile, data, StateFilePermissions); err != nil {
		return err
	}
	if err := r.fs.Rename(tempFile, filename); err != nil {
		if removeErr := r.fs.Remove(tempFile); removeErr != nil {
			r.logger.Warn("failed to remove temp file", zap.String("path", tempFile), zap.Error(removeErr))
		}
		return err
	}
	return nil
}

// calculateChecksum calculates SHA-256 checksum of data
func (r *JSONStateRepository) calculateChecksum(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

func (r *JSONStateRepository) ensureStateDir() error {
	return r.fs.MkdirAll(r.stateDir, StateDirPermissions)
}

func (r *JSONStateRepository) getStateFilename(sessionID string) string {
	return filepath.Join(r.stateDir, fmt.Sprintf("sync-%s.json", sessionID))
}

func (r *JSONStateRepository) getLockFilename(sessionID string) string {
	return filepath.Join(r.stateDir, fmt.Sprintf(".sync-%s.lock", sessionID))
}

func (r *JSONStateRepository) getLatestLink() string {
	return filepath.Join(r.stateDir, "latest.txt")
}

// updateLatestLink points latest.txt at the given journal file
func (r *JSONStateRepository) updateLatestLink(target string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writeAtomic(r.getLatestLink(), []byte(target))
}

// extractSessionID extracts the session ID from a journal filename
func (r *JSONStateRepository) extractSessionID(filename string) string {
	base := filepath.Base(filename)
	if !strings.HasPrefix(base, "sync-") || !strings.HasSuffix(base, ".json") {
		return ""
	}
	return strings.TrimSuffix(strings.TrimPrefix(base, "sync-"), ".json")
}
