// Package wclock provides an interprocess advisory lock guarding exclusive
// access to a single backing file.
package wclock

import (
	"errors"
	"fmt"
	"os"
	"syscall"
	"time"
)

// DefaultTimeout is the timeout used by Acquire when the caller does not
// need a custom one.
const DefaultTimeout = 5 * time.Second

// Errors returned by Acquire.
var (
	ErrTimeout  = errors.New("wclock: lock timeout")
	ErrOpenFile = errors.New("wclock: failed to open lock file")
)

const lockFilePerms = 0o600

// Lock represents an acquired exclusive lock on a sibling ".lock" file.
type Lock struct {
	path string
	file *os.File
}

// Acquire tries to acquire an exclusive, non-blocking lock on path+".lock",
// retrying until timeout elapses.
func Acquire(path string, timeout time.Duration) (*Lock, error) {
	lockPath := path + ".lock"

	file, openErr := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, lockFilePerms)
	if openErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenFile, openErr)
	}

	deadline := time.Now().Add(timeout)

	const retryInterval = 10 * time.Millisecond

	for {
		flockErr := syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
		if flockErr == nil {
			return &Lock{path: lockPath, file: file}, nil
		}

		if time.Now().After(deadline) {
			_ = file.Close()

			return nil, fmt.Errorf("%w: %s", ErrTimeout, path)
		}

		time.Sleep(retryInterval)
	}
}

// Release releases the lock. Safe to call on a nil *Lock.
func (l *Lock) Release() {
	if l == nil || l.file == nil {
		return
	}

	_ = syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN)
	_ = l.file.Close()
}
