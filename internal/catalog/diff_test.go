package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"hify/internal/ids"
)

func trackAt(path string, mtime time.Time) Track {
	return Track{ID: ids.HashTrack(path), RelativePath: path, MTime: mtime}
}

func TestDiffEmptyPrior(t *testing.T) {
	walked := map[string]time.Time{"/a.flac": time.Unix(1, 0), "/b.flac": time.Unix(2, 0)}
	res := Diff(walked, nil)
	require.ElementsMatch(t, []string{"/a.flac", "/b.flac"}, res.ToAnalyze)
	require.Empty(t, res.Kept)
	require.Empty(t, res.Deleted)
}

func TestDiffEmptyWalk(t *testing.T) {
	prior := []Track{trackAt("/a.flac", time.Unix(1, 0))}
	res := Diff(nil, prior)
	require.Equal(t, prior, res.Deleted)
	require.Empty(t, res.Kept)
	require.Empty(t, res.ToAnalyze)
}

func TestDiffKeepsUnchangedMTime(t *testing.T) {
	mtime := time.Unix(100, 0)
	prior := []Track{trackAt("/a.flac", mtime)}
	walked := map[string]time.Time{"/a.flac": mtime}
	res := Diff(walked, prior)

	require.Equal(t, prior, res.Kept)
	require.Empty(t, res.Deleted)
	require.Empty(t, res.ToAnalyze)
}

func TestDiffReanalyzesChangedMTime(t *testing.T) {
	prior := []Track{trackAt("/a.flac", time.Unix(100, 0))}
	walked := map[string]time.Time{"/a.flac": time.Unix(200, 0)}
	res := Diff(walked, prior)

	require.Empty(t, res.Kept)
	require.Empty(t, res.Deleted)
	require.Equal(t, []string{"/a.flac"}, res.ToAnalyze)
}

func TestDiffPartitionsDisjointPaths(t *testing.T) {
	prior := []Track{
		trackAt("/a.flac", time.Unix(1, 0)),
		trackAt("/removed.flac", time.Unix(1, 0)),
	}
	walked := map[string]time.Time{
		"/a.flac": time.Unix(1, 0),
		"/new.flac": time.Unix(5, 0),
	}
	res := Diff(walked, prior)

	require.Len(t, res.Kept, 1)
	require.Equal(t, "/a.flac", res.Kept[0].RelativePath)
	require.Len(t, res.Deleted, 1)
	require.Equal(t, "/removed.flac", res.Deleted[0].RelativePath)
	require.Equal(t, []string{"/new.flac"}, res.ToAnalyze)
}
