package cowolf

import (
	"fmt"
	"os"
)

// DumpRecords loads and returns every record in the DRM file at path,
// without acquiring the advisory write lock — this is a read-only
// inspection entry point for operator tooling, not part of the
// concurrency-sensitive facade path.
func DumpRecords(path string) ([]Record, error) {
	h, err := OpenDRM(path)
	if err != nil {
		return nil, err
	}
	defer h.Close()

	recs, n, err := loadRecords(h.f, 0)
	if err != nil {
		return nil, err
	}
	return recs[:n], nil
}

// VerifyFile re-validates the size-multiple and sentinel invariants of
// the DRM file at path without mutating it. Returns a wrapped ErrCorrupt
// on any violation.
func VerifyFile(path string) error {
	h, err := OpenDRM(path)
	if err != nil {
		return err
	}
	defer h.Close()

	recs, n, err := loadRecords(h.f, 0)
	if err != nil {
		return err
	}

	for i := 0; i < n-1; i++ {
		if recs[i].End+1 >= recs[i+1].Start {
			return fmt.Errorf("%w: %s: records %d and %d are not disjoint-non-adjacent", ErrCorrupt, path, i, i+1)
		}
	}
	return nil
}

// OpenDRMForInspection opens a DRM file for read-only tooling use outside
// the normal facade lifecycle (e.g. the inspector CLI's selfcheck,
// which is handed a DRM path directly rather than deriving one from a
// branch and logical path).
func OpenDRMForInspection(path string) (*drmHandle, error) {
	return OpenDRM(path)
}

// NewHandleForInspection builds a Handle around an already-open lower
// file and DRM, for tooling that assembles a scatter-gather read outside
// of Open's branch/link resolution.
func NewHandleForInspection(lower *os.File, drm *drmHandle) *Handle {
	return &Handle{On: true, Lower: lower, DRMap: drm}
}
