// OS-level advisory record locking for the DRM file.
//
// fileLock wraps a whole-file fcntl(F_SETLKW) exclusive lock with a mutex
// that guards the file handle's lifetime, so that Fd() cannot race with
// Close() on the same *os.File. Callers use setFile(nil) before closing the
// underlying file; this blocks until any in-flight lock call completes,
// then makes subsequent Lock/Unlock calls no-ops.
//
// This uses F_SETLKW (fcntl record locking), not flock(2): all DRM
// readers and writers take the same exclusive lock kind, blocking, with
// no timeout, since the expected concurrency for a given file is low.
package cowolf

import (
	"os"
	"sync"
)

// fileLock serialises fcntl(F_SETLKW) calls against setFile so that a
// concurrent Close cannot invalidate the fd mid-syscall.
type fileLock struct {
	mu sync.Mutex
	f  *os.File
}

// Lock acquires the whole-file exclusive advisory lock. Returns nil
// immediately if the handle has been cleared via setFile(nil).
func (l *fileLock) Lock() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		return nil
	}
	return l.lock()
}

// Unlock releases the lock. Returns nil immediately if the handle has been
// cleared via setFile(nil).
func (l *fileLock) Unlock() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		return nil
	}
	return l.unlock()
}

// setFile swaps the underlying file handle. Passing nil drains any
// in-flight lock call (blocks until the mutex is available) and disables
// further locking. Used before closing the fd.
func (l *fileLock) setFile(f *os.File) {
	l.mu.Lock()
	l.f = f
	l.mu.Unlock()
}
