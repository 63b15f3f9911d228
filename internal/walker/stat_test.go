package walker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatTimes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "track.flac")
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))

	ctime, mtime, err := statTimes(path)
	require.NoError(t, err)
	require.False(t, mtime.IsZero())
	// ctime may be nil on platforms without Stat_t.Ctim, but must never
	// error when present.
	_ = ctime
}

func TestStatTimesMissingFile(t *testing.T) {
	_, _, err := statTimes(filepath.Join(t.TempDir(), "missing.flac"))
	require.Error(t, err)
}
