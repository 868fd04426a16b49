package fsutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// ErrLocked is returned by Lock when another process holds the lock past the
// timeout.
var ErrLocked = errors.New("lock is held by another process")

// Lock takes an exclusive cross-process lock on path, polling until timeout.
// The returned func releases it.
func Lock(path string, timeout time.Duration) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return func() {}, fmt.Errorf("cannot create lock directory: %w", err)
	}
	l := flock.New(path)
	deadline := time.Now().Add(timeout)
	for {
		locked, err := l.TryLock()
		if err != nil {
			return func() {}, fmt.Errorf("cannot acquire lock %s: %w", path, err)
		}
		if locked {
			return func() { _ = l.Unlock() }, nil
		}
		if time.Now().After(deadline) {
			return func() {}, fmt.Errorf("%w (lock: %s)", ErrLocked, path)
		}
		time.Sleep(200 * time.Millisecond)
	}
}
