package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/flock"
	"github.com/sethvargo/go-retry"
)

const (
	// LockTimeout defines the default maximum time to wait for a lock
	LockTimeout = 30 * time.Second
	// LockRetryInterval defines the interval between lock retry attempts
	LockRetryInterval = 100 * time.Millisecond
)

// ErrLockBusy is returned when a lock is still held by another process after the wait.
var ErrLockBusy = errors.New("lock is held by another process")

// AcquireLock takes a file lock on path, retrying at LockRetryInterval until
// timeout elapses or ctx is done. The caller must Unlock the returned lock.
func AcquireLock(ctx context.Context, path string, shared bool, timeout time.Duration) (*flock.Flock, error) {
	if timeout <= 0 {
		timeout = LockTimeout
	}
	lock := flock.New(path)
	backoff := retry.WithMaxDuration(timeout, retry.NewConstant(LockRetryInterval))
	err := retry.Do(ctx, backoff, func(_ context.Context) error {
		tryLock := lock.TryLock
		if shared {
			tryLock = lock.TryRLock
		}
		locked, err := tryLock()
		if err != nil {
			return err
		}
		if !locked {
			return retry.RetryableError(ErrLockBusy)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to lock %s: %w", path, err)
	}
	return lock, nil
}
