//go:build windows

// COWOLF is a subsystem of a FUSE-based union filesystem, which has no
// meaning on Windows (no FUSE, no symlink-based lower-branch tracking, no
// fcntl record locking). This file exists only so the package builds on
// Windows for tooling purposes (e.g. running `go vet` in CI); any actual
// lock attempt fails loudly rather than silently using non-equivalent
// Windows locking semantics.
package cowolf

import "errors"

var errUnsupportedPlatform = errors.New("cowolf: unsupported platform")

func (l *fileLock) lock() error   { return errUnsupportedPlatform }
func (l *fileLock) unlock() error { return errUnsupportedPlatform }
