package cowolf

import "os"

// Handle is the per-file state produced by Open, consumed by Read/Write,
// and released by Close. Ownership of both descriptors is exclusive to
// the handle.
type Handle struct {
	// On is true iff the upper file is sparse and the DRM governs reads.
	On bool

	// Lower is the corresponding lower-branch file, valid iff On.
	Lower *os.File

	// DRMap is the open DRM file, valid iff On.
	DRMap *drmHandle
}

// passthroughHandle is the handle for a file with no DRM: reads are
// answered entirely by the caller's own pread against the upper file,
// without COWOLF's involvement.
func passthroughHandle() *Handle {
	return &Handle{On: false}
}
