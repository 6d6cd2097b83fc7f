// COWOLF Facade: per-file lifecycle and the scatter-gather read/write
// hook. Unlike a process-global option struct, every function here
// takes an explicit *Config.
package cowolf

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// MetadataEnsurer ensures the reserved metadata directory exists for a
// logical path on a branch.
type MetadataEnsurer interface {
	EnsureMetaPath(path string, branch int) error
}

// eligible reports the four-condition enablement check: cow enabled,
// cowolf enabled, exactly two branches configured, and the file's size
// at or above the threshold.
func eligible(c Config, fileSize int64) bool {
	if len(c.Branches) != 2 {
		return false
	}
	return c.Eligible(fileSize)
}

// CreateDataMap creates a DRM and its auxiliary link for path on the
// upper branch, sized to fileSize. Returns ErrNotEligible if the file
// does not qualify.
func CreateDataMap(c Config, ensurer MetadataEnsurer, path string, fileSize int64) error {
	if !eligible(c, fileSize) {
		return ErrNotEligible
	}

	upper := c.Branches[0]
	if err := ensurer.EnsureMetaPath(path, 0); err != nil {
		return fmt.Errorf("cowolf: ensure metadata dir for %s: %w", path, err)
	}

	drm, err := drmPath(upper.Path, path)
	if err != nil {
		return err
	}
	link, err := linkPath(upper.Path, path)
	if err != nil {
		return err
	}

	if err := Create(drm, uint64(fileSize)); err != nil {
		return fmt.Errorf("cowolf: create datamap for %s: %w", path, err)
	}

	os.Remove(link) // stale link from a prior, incomplete create; best-effort
	if err := os.Symlink(path, link); err != nil {
		return fmt.Errorf("cowolf: create link for %s: %w", path, err)
	}

	logrus.WithFields(logrus.Fields{"path": path, "size": fileSize}).Debug("cowolf: created data map")
	return nil
}

// DestroyDataMap removes the DRM and link for path on the upper branch.
// Idempotent: returns nil if no DRM exists. Both the DRM and link removal
// are attempted regardless of whether the other failed; the first
// error encountered is returned.
func DestroyDataMap(c Config, path string) error {
	upper := c.Branches[0]

	drm, err := drmPath(upper.Path, path)
	if err != nil {
		return err
	}
	link, err := linkPath(upper.Path, path)
	if err != nil {
		return err
	}

	var firstErr error
	if err := Destroy(drm); err != nil && !errors.Is(err, os.ErrNotExist) {
		firstErr = fmt.Errorf("cowolf: destroy datamap for %s: %w", path, err)
	}
	if err := os.Remove(link); err != nil && !errors.Is(err, os.ErrNotExist) && firstErr == nil {
		firstErr = fmt.Errorf("cowolf: remove link for %s: %w", path, err)
	}
	return firstErr
}

// RenameDataMap moves the DRM and its link from oldPath to newPath on the
// upper branch. Returns nil if no DRM exists for oldPath. The link's
// target (the lower-branch original path) is unchanged; only the link's
// own path moves.
func RenameDataMap(c Config, ensurer MetadataEnsurer, oldPath, newPath string) error {
	upper := c.Branches[0]

	oldDRM, err := drmPath(upper.Path, oldPath)
	if err != nil {
		return err
	}
	if _, statErr := os.Stat(oldDRM); errors.Is(statErr, os.ErrNotExist) {
		return nil
	}

	if err := ensurer.EnsureMetaPath(newPath, 0); err != nil {
		return fmt.Errorf("cowolf: ensure metadata dir for %s: %w", newPath, err)
	}

	newDRM, err := drmPath(upper.Path, newPath)
	if err != nil {
		return err
	}
	if err := RenameDRM(oldDRM, newDRM); err != nil {
		return fmt.Errorf("cowolf: rename datamap %s to %s: %w", oldPath, newPath, err)
	}

	oldLink, err := linkPath(upper.Path, oldPath)
	if err != nil {
		return err
	}
	newLink, err := linkPath(upper.Path, newPath)
	if err != nil {
		return err
	}
	if err := os.Rename(oldLink, newLink); err != nil {
		return fmt.Errorf("cowolf: rename link %s to %s: %w", oldPath, newPath, err)
	}
	return nil
}

// TruncateDataMap applies a truncation to path's DRM on the upper
// branch. Returns nil if no DRM exists.
func TruncateDataMap(c Config, path string, newSize uint64) error {
	upper := c.Branches[0]

	drm, err := drmPath(upper.Path, path)
	if err != nil {
		return err
	}

	h, err := OpenDRM(drm)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	defer h.Close()

	return h.Truncate(newSize)
}

// Open builds the per-file handle for path on branch, selecting whether
// reads fall through to the scatter-gather path.
//
// On a lower branch (branch > 0), finding a DRM is treated as corruption
// left over from a prior mount with a different branch order: it returns
// ErrStaleLowerDRM rather than succeeding silently.
//
// On the upper branch (branch == 0): no DRM means the upper file has
// complete data (passthrough); a DRM present means the upper file is
// sparse, and the lower-branch path is recovered from the auxiliary
// symlink.
func Open(c Config, branch int, path string, flags int) (*Handle, error) {
	b := c.Branches[branch]

	drm, err := drmPath(b.Path, path)
	if err != nil {
		return nil, err
	}

	if branch > 0 {
		if _, statErr := os.Stat(drm); statErr == nil {
			return nil, fmt.Errorf("%w: %s", ErrStaleLowerDRM, path)
		}
		return passthroughHandle(), nil
	}

	drmHandle, err := OpenDRM(drm)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return passthroughHandle(), nil
		}
		return nil, err
	}

	link, err := linkPath(b.Path, path)
	if err != nil {
		drmHandle.Close()
		return nil, err
	}
	lowerRel, err := os.Readlink(link)
	if err != nil {
		drmHandle.Close()
		return nil, fmt.Errorf("cowolf: read link for %s: %w", path, err)
	}

	lowerBranch := c.Branches[1]
	lowerPath, err := joinBranch(lowerBranch.Path, lowerRel)
	if err != nil {
		drmHandle.Close()
		return nil, err
	}

	lowerFile, err := os.OpenFile(lowerPath, flags, 0)
	if err != nil {
		drmHandle.Close()
		return nil, fmt.Errorf("cowolf: open lower branch file for %s: %w", path, err)
	}

	return &Handle{On: true, Lower: lowerFile, DRMap: drmHandle}, nil
}

// Close releases the handle's descriptors. Both are closed on a best
// effort basis; a failure on one does not prevent the other from being
// attempted.
func Close(h *Handle) error {
	if !h.On {
		return nil
	}

	var firstErr error
	if err := h.DRMap.Close(); err != nil {
		firstErr = err
	}
	if err := h.Lower.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// Read performs the scatter-gather read: it fills buf with size bytes
// starting at offset by alternating pread calls against
// the lower file (to fill holes) and upperFile (to serve mapped ranges),
// as directed by the handle's DRM. Returns the number of bytes
// successfully transferred, which may be less than size on a short read
// or mid-stream error.
func Read(upperFile *os.File, h *Handle, buf []byte, offset uint64) (int, error) {
	size := uint64(len(buf))
	if !h.On {
		return 0, fmt.Errorf("cowolf: Read called on a passthrough handle; caller must pread the upper file directly")
	}

	entries, err := h.DRMap.GetEntries(offset, size)
	if err != nil {
		return 0, err
	}

	start := offset
	remain := size
	m := 0

	for remain > 0 {
		var lowerSz, upperSz uint64
		if m >= len(entries) {
			lowerSz = remain
		} else {
			e := entries[m]
			lowerSz = e.Offset - start
			upperSz = e.Len
		}

		if lowerSz > 0 {
			n, err := h.Lower.ReadAt(buf[size-remain:size-remain+lowerSz], int64(start))
			start += uint64(n)
			remain -= uint64(n)
			if err != nil {
				return int(size - remain), err
			}
			if uint64(n) < lowerSz {
				return int(size - remain), nil
			}
		}

		if upperSz > 0 {
			n, err := upperFile.ReadAt(buf[size-remain:size-remain+upperSz], int64(start))
			start += uint64(n)
			remain -= uint64(n)
			if err != nil {
				return int(size - remain), err
			}
			if uint64(n) < upperSz {
				return int(size - remain), nil
			}
		}

		m++
	}

	return int(size), nil
}

// Write records [offset, offset+size-1] as authoritative on the upper
// branch. It does not perform the data write itself — callers pwrite the
// upper file first, then call Write to update the map.
func Write(h *Handle, offset, size uint64) error {
	if !h.On {
		return nil
	}
	return h.DRMap.AddEntry(offset, size)
}
