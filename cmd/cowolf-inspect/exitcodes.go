package main

import (
	"errors"

	cowolf "github.com/safai-labs/unionfs-fuse"
)

// Exit codes: 0 success, 1 usage error, 2 corruption detected, 3 I/O
// failure.
const (
	exitSuccess    = 0
	exitUsageError = 1
	exitCorrupt    = 2
	exitIOFailure  = 3
)

func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return exitSuccess
	case errors.Is(err, cowolf.ErrCorrupt):
		return exitCorrupt
	case errors.Is(err, errUsage):
		return exitUsageError
	default:
		return exitIOFailure
	}
}
