package serving

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"hify/internal/catalog"
	"hify/internal/ids"
	"hify/internal/metadata"
)

func oneTrackIndex(t *testing.T, musicDir string) *catalog.Index {
	t.Helper()
	path := filepath.Join(musicDir, "song.flac")
	require.NoError(t, os.WriteFile(path, []byte("fake audio"), 0o644))

	tracks := []catalog.Track{{
		ID:           ids.HashTrack("song.flac"),
		RelativePath: "song.flac",
		Metadata: metadata.TrackMetadata{
			Codec: metadata.FLAC,
			Tags: metadata.Tags{
				Title:   "Song",
				Artists: []string{"Someone"},
				Album:   "Album",
			},
		},
	}}
	return catalog.Build(tracks)
}

func TestStateSwapIsVisibleToReaders(t *testing.T) {
	s := &State{}
	idx1, _ := s.Index()
	require.Nil(t, idx1)

	want := catalog.Build(nil)
	s.Swap(want, nil)

	got, _ := s.Index()
	require.Same(t, want, got)
}

func TestHandleHealthReportsCounts(t *testing.T) {
	dir := t.TempDir()
	idx := oneTrackIndex(t, dir)
	s := &State{MusicDir: dir}
	s.Swap(idx, nil)

	srv := NewServer(":0", s)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.http.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"tracks":1`)
}

func TestHandleStreamServesKnownTrack(t *testing.T) {
	dir := t.TempDir()
	idx := oneTrackIndex(t, dir)
	s := &State{MusicDir: dir}
	s.Swap(idx, nil)

	srv := NewServer(":0", s)
	trackID := idx.Tracks.Keys()[0]
	req := httptest.NewRequest(http.MethodGet, "/stream/"+trackID.String(), nil)
	rec := httptest.NewRecorder()
	srv.http.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "fake audio", rec.Body.String())
}

func TestHandleStreamUnknownTrackIsNotFound(t *testing.T) {
	dir := t.TempDir()
	idx := oneTrackIndex(t, dir)
	s := &State{MusicDir: dir}
	s.Swap(idx, nil)

	srv := NewServer(":0", s)
	req := httptest.NewRequest(http.MethodGet, "/stream/zzzzzzzz99", nil)
	rec := httptest.NewRecorder()
	srv.http.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWriteStatusBeforeFirstBuild(t *testing.T) {
	var buf bytes.Buffer
	WriteStatus(&buf, nil)
	require.Contains(t, buf.String(), "Waiting")
}

func TestWriteStatusAfterBuild(t *testing.T) {
	dir := t.TempDir()
	idx := oneTrackIndex(t, dir)

	var buf bytes.Buffer
	WriteStatus(&buf, idx)
	require.Contains(t, buf.String(), "1 tracks")
}
