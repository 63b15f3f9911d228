package userdata

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"hify/internal/ids"
)

func TestExportImportM3URoundTrips(t *testing.T) {
	path := t.TempDir() + "/userdata.json"
	s, err := Load(path)
	require.NoError(t, err)

	p, err := s.CreatePlaylist("road trip")
	require.NoError(t, err)
	require.NoError(t, s.AddToPlaylist(p.ID, []ids.TrackID{1, 2}, 0))

	paths := map[ids.TrackID]string{1: "/music/a.flac", 2: "/music/b.flac"}
	lookup := func(id ids.TrackID) (string, string, time.Duration, bool) {
		path, ok := paths[id]
		return path, path, 3 * time.Minute, ok
	}

	var buf bytes.Buffer
	require.NoError(t, s.ExportPlaylistM3U(p.ID, &buf, lookup))
	require.True(t, strings.Contains(buf.String(), "a.flac"))
	require.True(t, strings.Contains(buf.String(), "b.flac"))

	resolve := func(path string) (ids.TrackID, bool) {
		for id, p := range paths {
			if p == path {
				return id, true
			}
		}
		return 0, false
	}
	imported, err := s.ImportPlaylist("imported", &buf, resolve)
	require.NoError(t, err)
	require.Len(t, imported.Entries, 2)
}
