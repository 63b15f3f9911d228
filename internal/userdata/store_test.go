package userdata

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"hify/internal/ids"
)

type fakeIndex struct{ known map[ids.TrackID]bool }

func (f fakeIndex) ContainsKey(id ids.TrackID) bool { return f.known[id] }

func TestStoreLoadMissingFileStartsEmpty(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "userdata.json"))
	require.NoError(t, err)
	require.Empty(t, s.Playlists())
}

func TestStoreLogListeningPersistsAcrossLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "userdata.json")
	s, err := Load(path)
	require.NoError(t, err)

	require.NoError(t, s.LogListening(1, time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC), 120))
	require.Equal(t, 1, s.ListenCount(1))
	require.Equal(t, 120, s.TotalListenedS(1))

	reloaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 1, reloaded.ListenCount(1))
	require.Equal(t, 120, reloaded.TotalListenedS(1))
}

func TestStoreLogListeningBelowThresholdIsDropped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "userdata.json")
	s, err := Load(path)
	require.NoError(t, err)

	require.NoError(t, s.LogListening(1, time.Now(), 5))
	require.Equal(t, 0, s.ListenCount(1))
}

func TestStoreLogListeningRejectsOverlap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "userdata.json")
	s, err := Load(path)
	require.NoError(t, err)

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.LogListening(1, base, 180))
	err = s.LogListening(2, base.Add(time.Minute), 300)
	require.Error(t, err)
}

func TestStoreTrackRating(t *testing.T) {
	path := filepath.Join(t.TempDir(), "userdata.json")
	s, err := Load(path)
	require.NoError(t, err)

	five := 5
	require.NoError(t, s.SetTrackRating(1, &five))
	r, ok := s.TrackRating(1)
	require.True(t, ok)
	require.Equal(t, 5, r)

	require.Error(t, s.SetTrackRating(1, intPtr(42)))

	require.NoError(t, s.SetTrackRating(1, nil))
	_, ok = s.TrackRating(1)
	require.False(t, ok)
}

func intPtr(n int) *int { return &n }

func TestStorePlaylistLifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "userdata.json")
	s, err := Load(path)
	require.NoError(t, err)

	p, err := s.CreatePlaylist("favorites")
	require.NoError(t, err)

	require.NoError(t, s.AddToPlaylist(p.ID, []ids.TrackID{1, 2, 3}, 0))
	got, ok := s.Playlist(p.ID)
	require.True(t, ok)
	require.Len(t, got.Entries, 3)

	require.NoError(t, s.RemoveFromPlaylist(p.ID, []ids.PlaylistEntryID{got.Entries[1].ID}))
	got, _ = s.Playlist(p.ID)
	require.Len(t, got.Entries, 2)

	require.NoError(t, s.DeletePlaylist(p.ID))
	_, ok = s.Playlist(p.ID)
	require.False(t, ok)
}

func TestStoreMixLifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "userdata.json")
	s, err := Load(path)
	require.NoError(t, err)

	m, err := s.RegisterMix([]ids.TrackID{1, 2, 3})
	require.NoError(t, err)

	tracks, err := s.NextMixTracks(m.ID, 2)
	require.NoError(t, err)
	require.Equal(t, []ids.TrackID{1, 2}, tracks)

	require.NoError(t, s.DeleteMix(m.ID))
	_, err = s.NextMixTracks(m.ID, 1)
	require.Error(t, err)
}

func TestStoreCleanupDropsDanglingReferences(t *testing.T) {
	path := filepath.Join(t.TempDir(), "userdata.json")
	s, err := Load(path)
	require.NoError(t, err)

	require.NoError(t, s.LogListening(1, time.Now(), 120))
	require.NoError(t, s.LogListening(2, time.Now().Add(time.Hour), 120))
	five := 5
	require.NoError(t, s.SetTrackRating(1, &five))
	require.NoError(t, s.SetTrackRating(2, &five))
	p, err := s.CreatePlaylist("mix")
	require.NoError(t, err)
	require.NoError(t, s.AddToPlaylist(p.ID, []ids.TrackID{1, 2}, 0))

	require.NoError(t, s.Cleanup(fakeIndex{known: map[ids.TrackID]bool{1: true}}))

	require.Equal(t, 1, s.ListenCount(1))
	require.Equal(t, 0, s.ListenCount(2))
	_, ok := s.TrackRating(2)
	require.False(t, ok)
	got, _ := s.Playlist(p.ID)
	require.Len(t, got.Entries, 1)
	require.Equal(t, ids.TrackID(1), got.Entries[0].TrackID)
}
