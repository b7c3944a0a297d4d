package session

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrSessionLocked is returned when another process is triaging the same input directory.
var ErrSessionLocked = errors.New("input directory is locked by another session")

// Lock is an exclusive claim on one input directory.
type Lock struct {
	lock *flock.Flock
	path string
}

// LockPath returns the lock file used for inputDir.
func LockPath(stateDir, inputDir string) string {
	abs, err := filepath.Abs(inputDir)
	if err != nil {
		abs = filepath.Clean(inputDir)
	}
	sum := sha256.Sum256([]byte(abs))
	return filepath.Join(stateDir, "locks", hex.EncodeToString(sum[:8])+".lock")
}

// AcquireLock takes the per-directory lock without blocking.
func AcquireLock(stateDir, inputDir string) (*Lock, error) {
	path := LockPath(stateDir, inputDir)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure lock directory: %w", err)
	}

	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s (lock file %s)", ErrSessionLocked, inputDir, path)
	}
	return &Lock{lock: fl, path: path}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string { return l.path }

// Release gives up the lock. It is safe to call on a nil Lock.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
