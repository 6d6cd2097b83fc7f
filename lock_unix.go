//go:build unix || linux || darwin

// fcntl(F_SETLKW) implementation for Unix platforms.
// Both methods are called with l.mu held by the exported Lock/Unlock.
package cowolf

import "golang.org/x/sys/unix"

func (l *fileLock) lock() error {
	// Start, Len, Whence left zero: SEEK_SET at offset 0, length 0 means
	// "lock the whole file" per fcntl(2).
	lk := unix.Flock_t{Type: unix.F_WRLCK}
	// Blocking: F_SETLKW waits for the lock, no timeout.
	return unix.FcntlFlock(l.f.Fd(), unix.F_SETLKW, &lk)
}

func (l *fileLock) unlock() error {
	lk := unix.Flock_t{Type: unix.F_UNLCK}
	return unix.FcntlFlock(l.f.Fd(), unix.F_SETLKW, &lk)
}
