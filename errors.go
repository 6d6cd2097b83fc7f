// Package cowolf implements the Copy-On-Write Optimized for Large Files
// subsystem of a two-branch union filesystem: a sparse upper-branch file
// plus a Data-Range Map (DRM) that routes reads between the upper file and
// a read-only lower branch.
package cowolf

import "errors"

// Sentinel errors returned by DRM Store and facade operations. Callers
// use errors.Is to decide how to handle failures; each maps to exactly
// one failure mode in a small taxonomy.
var (
	// ErrNotFound is returned when a DRM or the file it describes does
	// not exist. Idempotent destructors treat this as success; Open
	// treats it as "file has complete data, use upper only".
	ErrNotFound = errors.New("cowolf: drm not found")

	// ErrCorrupt is returned when a DRM file's length is not a multiple
	// of the record size, or its last record is missing the sentinel.
	ErrCorrupt = errors.New("cowolf: corrupt data-range map")

	// ErrNameTooLong is returned when a composed DRM or link path
	// exceeds PathLenMax.
	ErrNameTooLong = errors.New("cowolf: composed path exceeds PathLenMax")

	// ErrStaleLowerDRM is returned by Open when a DRM file is found on
	// a lower branch — a leftover from a prior mount with a different
	// branch order. The file cannot be read reliably and this is
	// treated as corruption, not a recoverable condition.
	ErrStaleLowerDRM = errors.New("cowolf: stale data-range map on lower branch")

	// ErrNotEligible is returned by CreateDataMap when COWOLF is not
	// eligible for the call (feature disabled, wrong branch count, or
	// file below the size threshold). This is a skip signal, not a
	// failure.
	ErrNotEligible = errors.New("cowolf: not eligible for cowolf")

	// ErrExists is returned when an operation that must not clobber an
	// existing entity finds one already present.
	ErrExists = errors.New("cowolf: already exists")
)
