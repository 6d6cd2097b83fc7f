// Tests for the read-only inspection entry points used by cmd/cowolf-inspect.
package cowolf

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDumpRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.drm")
	require.NoError(t, Create(path, 500))

	h, err := OpenDRM(path)
	require.NoError(t, err)
	require.NoError(t, h.AddEntry(100, 50))
	require.NoError(t, h.Close())

	recs, err := DumpRecords(path)
	require.NoError(t, err)
	require.Equal(t, []Record{{100, 149}, {500, SentinelEnd}}, recs)
}

func TestVerifyFileAcceptsValidMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.drm")
	require.NoError(t, Create(path, 500))
	require.NoError(t, VerifyFile(path))
}

func TestVerifyFileRejectsCorruptMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.drm")
	require.NoError(t, Create(path, 500))

	h, err := OpenDRM(path)
	require.NoError(t, err)
	require.NoError(t, writeRecordsRaw(h.f, []Record{{0, 99}}))
	require.NoError(t, h.Close())

	err = VerifyFile(path)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrCorrupt))
}

func TestOpenDRMForInspectionAndNewHandle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.drm")
	require.NoError(t, Create(path, 500))

	drm, err := OpenDRMForInspection(path)
	require.NoError(t, err)
	defer drm.Close()

	lowerPath := filepath.Join(t.TempDir(), "lower.bin")
	require.NoError(t, os.WriteFile(lowerPath, make([]byte, 500), 0o644))
	lower, err := os.Open(lowerPath)
	require.NoError(t, err)
	defer lower.Close()

	h := NewHandleForInspection(lower, drm)
	require.True(t, h.On)
	require.Equal(t, drm, h.DRMap)
}
