// Package lockfile guards singleton-supervisor semantics with a single
// exclusive advisory lock on a well-known path (spec.md §5).
package lockfile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// DefaultPath returns the well-known lock path under $XDG_RUNTIME_DIR
// (falling back to the system temp dir).
func DefaultPath() string {
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "papdieo-supervisor.lock")
}

// Lock is a held exclusive advisory lock; Release drops it.
type Lock struct {
	fl *flock.Flock
}

// Acquire takes the exclusive lock at path without blocking. Acquisition
// failure is a hard error (spec.md §7.vi).
func Acquire(path string) (*Lock, error) {
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire supervisor lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("another papdieo supervisor already holds %s", path)
	}
	return &Lock{fl: fl}, nil
}

// Release drops the lock.
func (l *Lock) Release() error {
	return l.fl.Unlock()
}
