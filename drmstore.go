// DRM Store: file-level operations over the on-disk Data-Range Map.
//
// The wire format is a sequence of 16-byte records (two little-endian
// uint64s: Start, End) with no header, magic, or version field — detection
// of a valid DRM relies on the size-multiple and sentinel invariants alone.
// Every mutating operation follows the discipline: acquire
// the advisory write lock on the DRM fd, load the full array, mutate in
// memory, save the full array (overwrite then truncate), release the lock.
// This full-rewrite approach is acceptable because DRMs are bounded in
// practice: a well-behaved workload keeps the record count in the tens to
// low thousands.
package cowolf

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// recordSize is the on-disk size of a single Record: two little-endian
// uint64 fields.
const recordSize = 16

// Entry is a public, owned {offset, length} pair describing a byte range
// clipped to a caller's query window. Unlike the original C API, which
// returned a heap buffer and count the caller had to free, GetEntries
// returns an owned []Entry the caller's scope cleans up automatically.
type Entry struct {
	Offset uint64
	Len    uint64
}

// Create creates a new DRM file at path with a single sentinel record
// {sizeInitial, SentinelEnd}. Exclusive-create semantics: if the file
// already exists, this is treated as success (a concurrent creator is
// assumed to be racing toward the same initial state: if two creators
// pass different sizeInitial values, the loser's view is silently
// discarded).
func Create(path string, sizeInitial uint64) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil
		}
		return fmt.Errorf("cowolf: create %s: %w", path, err)
	}
	defer f.Close()

	l := &fileLock{f: f}
	if err := l.Lock(); err != nil {
		return fmt.Errorf("cowolf: lock %s: %w", path, err)
	}
	defer l.Unlock()

	sentinel := []Record{{sizeInitial, SentinelEnd}}
	if err := writeRecords(f, sentinel); err != nil {
		return fmt.Errorf("cowolf: create %s: %w", path, err)
	}
	return nil
}

// Destroy removes the DRM file at path.
func Destroy(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("cowolf: destroy %s: %w", path, err)
	}
	return nil
}

// RenameDRM renames a DRM file from oldpath to newpath.
func RenameDRM(oldpath, newpath string) error {
	if err := os.Rename(oldpath, newpath); err != nil {
		return fmt.Errorf("cowolf: rename %s to %s: %w", oldpath, newpath, err)
	}
	return nil
}

// drmHandle is an open DRM file plus its advisory lock, the unit of work
// AddEntry/GetEntries/Truncate operate on.
type drmHandle struct {
	f    *os.File
	lock *fileLock
}

// OpenDRM opens the DRM file at path read/write. Returns ErrNotFound
// (wrapping the underlying error) if the file does not exist — this is a
// signal to the facade (open a passthrough, not a failure), not a failure
// of the store itself.
func OpenDRM(path string) (*drmHandle, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0o600)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return nil, fmt.Errorf("cowolf: open %s: %w", path, err)
	}
	return &drmHandle{f: f, lock: &fileLock{f: f}}, nil
}

// Close closes the DRM file descriptor.
func (h *drmHandle) Close() error {
	h.lock.setFile(nil)
	if err := h.f.Close(); err != nil {
		return fmt.Errorf("cowolf: close drm: %w", err)
	}
	return nil
}

// AddEntry records [off, off+length-1] as authoritative: lock, load (with
// one spare slot for the insert), insert-with-merge, save, unlock.
func (h *drmHandle) AddEntry(off, length uint64) error {
	if err := h.lock.Lock(); err != nil {
		return fmt.Errorf("cowolf: lock drm: %w", err)
	}
	defer h.lock.Unlock()

	recs, n, err := loadRecords(h.f, 1)
	if err != nil {
		return err
	}

	n = Insert(Record{off, off + length - 1}, recs, n)

	if err := writeRecords(h.f, recs[:n]); err != nil {
		return err
	}
	return nil
}

// GetEntries returns every record overlapping [off, off+length-1], clipped
// to that window, sorted and disjoint. Returns an empty slice if length is
// zero. The lock is held only for the load; clipping and allocation happen
// after release.
func (h *drmHandle) GetEntries(off, length uint64) ([]Entry, error) {
	if length == 0 {
		return nil, nil
	}

	if err := h.lock.Lock(); err != nil {
		return nil, fmt.Errorf("cowolf: lock drm: %w", err)
	}
	recs, n, err := loadRecords(h.f, 0)
	h.lock.Unlock()
	if err != nil {
		return nil, err
	}

	first, count := FindOverlaps(off, length, recs, n)
	if count == 0 {
		return nil, nil
	}

	rangeEnd := off + length - 1
	entries := make([]Entry, count)
	for i := 0; i < count; i++ {
		r := recs[first+i]
		entryOff := r.Start
		if off > entryOff {
			entryOff = off
		}
		entryEnd := r.End
		if rangeEnd < entryEnd {
			entryEnd = rangeEnd
		}
		entries[i] = Entry{Offset: entryOff, Len: entryEnd - entryOff + 1}
	}
	return entries, nil
}

// Truncate shrinks the map to cover only [0, newSize-1] plus a sentinel
// starting at min(pre-truncate sentinel Start, newSize). When newSize is
// at or beyond the old sentinel's Start (growth), the sentinel is left as
// it was. When the truncation point lands in an unmapped hole, the new
// sentinel starts exactly at newSize. When it cuts through a mapped
// region, the clipped tail ends at newSize-1 and the sentinel insert
// merges it, so the sentinel then starts at that region's Start.
func (h *drmHandle) Truncate(newSize uint64) error {
	if err := h.lock.Lock(); err != nil {
		return fmt.Errorf("cowolf: lock drm: %w", err)
	}
	defer h.lock.Unlock()

	recs, n, err := loadRecords(h.f, 1)
	if err != nil {
		return err
	}

	savedLastStart := recs[n-1].Start
	n = Truncate(newSize, recs, n-1)

	sentinelStart := newSize
	if savedLastStart < newSize {
		sentinelStart = savedLastStart
	}
	n = Insert(Record{sentinelStart, SentinelEnd}, recs, n)

	if err := writeRecords(h.f, recs[:n]); err != nil {
		return err
	}
	return nil
}

// loadRecords reads the full record array from f and sanity-checks it:
// the file size must be a positive multiple of recordSize,
// and the last record's End must be SentinelEnd. extraSlots grows the
// returned slice's capacity beyond its length so a subsequent Insert has
// room to grow in place.
func loadRecords(f *os.File, extraSlots int) ([]Record, int, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, 0, fmt.Errorf("cowolf: stat drm: %w", err)
	}

	size := info.Size()
	if size <= 0 || size%recordSize != 0 {
		logrus.WithFields(logrus.Fields{"path": f.Name(), "size": size}).
			Error("drm file size is not a positive multiple of the record size")
		return nil, 0, fmt.Errorf("%w: %s: size %d is not a positive multiple of %d", ErrCorrupt, f.Name(), size, recordSize)
	}

	n := int(size / recordSize)
	buf := make([]byte, size)
	if _, err := f.ReadAt(buf, 0); err != nil {
		return nil, 0, fmt.Errorf("cowolf: read drm: %w", err)
	}

	recs := make([]Record, n, n+extraSlots)
	for i := 0; i < n; i++ {
		recs[i] = Record{
			Start: binary.LittleEndian.Uint64(buf[i*recordSize:]),
			End:   binary.LittleEndian.Uint64(buf[i*recordSize+8:]),
		}
	}

	if recs[n-1].End != SentinelEnd {
		logrus.WithField("path", f.Name()).Error("drm file missing sentinel record")
		return nil, 0, fmt.Errorf("%w: %s: last record End=%d, want sentinel", ErrCorrupt, f.Name(), recs[n-1].End)
	}

	return recs, n, nil
}

// writeRecords overwrites f's contents with recs and truncates it to the
// exact new size, in that order — the lock-held truncate-last ordering
// this relies on for crash-safety: a crash between the overwrite and the
// truncate can leave trailing stale bytes, which the next load rejects as
// corruption (an accepted failure mode).
func writeRecords(f *os.File, recs []Record) error {
	if len(recs) == 0 {
		return fmt.Errorf("cowolf: refusing to write an empty record array")
	}
	if recs[len(recs)-1].End != SentinelEnd {
		return fmt.Errorf("cowolf: refusing to write records missing a sentinel")
	}

	buf := make([]byte, len(recs)*recordSize)
	for i, r := range recs {
		binary.LittleEndian.PutUint64(buf[i*recordSize:], r.Start)
		binary.LittleEndian.PutUint64(buf[i*recordSize+8:], r.End)
	}

	if _, err := f.WriteAt(buf, 0); err != nil {
		return fmt.Errorf("cowolf: write drm: %w", err)
	}
	if err := f.Truncate(int64(len(buf))); err != nil {
		return fmt.Errorf("cowolf: truncate drm: %w", err)
	}
	return nil
}
