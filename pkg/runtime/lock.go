package runtime

import (
	"fmt"
	"os"
	"syscall"
)

// ProcessLock is an advisory file lock guarding one-shot tick mode: a
// second tick invocation while a first is running fails fast instead
// of racing it.
type ProcessLock struct {
	file *os.File
}

// AcquireLock opens (creating if needed) path and takes a non-blocking
// exclusive flock. It returns an error immediately if another process
// already holds it.
func AcquireLock(path string) (*ProcessLock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("runtime: open lock file: %w", err)
	}

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		f.Close()
		return nil, fmt.Errorf("runtime: another process holds the lock at %s", path)
	}

	return &ProcessLock{file: f}, nil
}

// Release drops the lock and closes the underlying file.
func (l *ProcessLock) Release() error {
	if err := syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN); err != nil {
		l.file.Close()
		return fmt.Errorf("runtime: unlock: %w", err)
	}
	return l.file.Close()
}
