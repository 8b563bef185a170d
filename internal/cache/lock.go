package cache

import (
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"time"
)

// ErrLocked reports that a refresh already holds the lock.
var ErrLocked = errors.New("refresh already running")

// Lock serializes refreshes process- and host-wide through an exclusive
// lock directory. Directory creation is atomic on every platform the Go
// toolchain targets, which gives the required test-and-set.
type Lock struct {
	dir   string
	stale time.Duration
}

// NewLock creates a Lock at dir. A held lock older than stale is treated
// as abandoned by a crashed refresh and reclaimed; stale <= 0 disables
// reclaiming.
func NewLock(dir string, stale time.Duration) *Lock {
	return &Lock{dir: dir, stale: stale}
}

var reclaimSeq atomic.Int64

// Acquire takes the lock, or fails immediately with ErrLocked when a
// refresh is already in flight. It never blocks.
func (l *Lock) Acquire() error {
	err := os.Mkdir(l.dir, 0o755)
	if err == nil {
		return nil
	}
	if !os.IsExist(err) {
		return fmt.Errorf("creating lock: %w", err)
	}
	if l.stale <= 0 {
		return ErrLocked
	}

	info, statErr := os.Stat(l.dir)
	if statErr != nil || time.Since(info.ModTime()) <= l.stale {
		return ErrLocked
	}

	// Abandoned by a crashed refresh. Move the directory aside before
	// deleting it: rename is atomic, so only one contender gets the
	// stale directory and the rest fail straight to ErrLocked. A
	// contender that instead moves a lock freshly recreated by the
	// winner sees the recent ModTime and puts it back.
	discard := fmt.Sprintf("%s.reclaim.%d.%d", l.dir, os.Getpid(), reclaimSeq.Add(1))
	if err := os.Rename(l.dir, discard); err != nil {
		return ErrLocked
	}
	if info, err := os.Stat(discard); err == nil && time.Since(info.ModTime()) <= l.stale {
		if err := os.Rename(discard, l.dir); err != nil {
			os.RemoveAll(discard)
		}
		return ErrLocked
	}
	os.RemoveAll(discard)
	if err := os.Mkdir(l.dir, 0o755); err != nil {
		return ErrLocked
	}
	return nil
}

// Release drops the lock. Safe to call when the lock is not held.
func (l *Lock) Release() {
	os.RemoveAll(l.dir)
}
