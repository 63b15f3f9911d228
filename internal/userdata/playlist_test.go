package userdata

import (
	"testing"

	"github.com/stretchr/testify/require"

	"hify/internal/ids"
)

func trackIDsOf(p *Playlist) []ids.TrackID {
	out := make([]ids.TrackID, len(p.Entries))
	for i, e := range p.Entries {
		out[i] = e.TrackID
	}
	return out
}

func TestPlaylistAddAtPosition(t *testing.T) {
	p := newPlaylist("road trip")
	require.NoError(t, p.add([]ids.TrackID{1, 2, 3}, 0))
	require.NoError(t, p.add([]ids.TrackID{9}, 1))

	require.Equal(t, []ids.TrackID{1, 9, 2, 3}, trackIDsOf(p))
}

func TestPlaylistAddRejectsOutOfBounds(t *testing.T) {
	p := newPlaylist("x")
	require.Error(t, p.add([]ids.TrackID{1}, 5))
}

func TestPlaylistRemove(t *testing.T) {
	p := newPlaylist("x")
	require.NoError(t, p.add([]ids.TrackID{1, 2, 3}, 0))
	toRemove := []ids.PlaylistEntryID{p.Entries[1].ID}

	require.NoError(t, p.remove(toRemove))
	require.Equal(t, []ids.TrackID{1, 3}, trackIDsOf(p))
}

func TestPlaylistRemoveUnknownEntryIsError(t *testing.T) {
	p := newPlaylist("x")
	require.NoError(t, p.add([]ids.TrackID{1}, 0))
	require.Error(t, p.remove([]ids.PlaylistEntryID{ids.NewPlaylistEntryID()}))
}

func TestPlaylistMoveConsecutiveBlock(t *testing.T) {
	p := newPlaylist("x")
	require.NoError(t, p.add([]ids.TrackID{1, 2, 3, 4, 5}, 0))

	block := []ids.PlaylistEntryID{p.Entries[1].ID, p.Entries[2].ID}
	require.NoError(t, p.move(block, 2))

	require.Equal(t, []ids.TrackID{1, 4, 2, 3, 5}, trackIDsOf(p))
}

func TestPlaylistMoveToFront(t *testing.T) {
	p := newPlaylist("x")
	require.NoError(t, p.add([]ids.TrackID{1, 2, 3, 4}, 0))

	block := []ids.PlaylistEntryID{p.Entries[2].ID, p.Entries[3].ID}
	require.NoError(t, p.move(block, 0))

	require.Equal(t, []ids.TrackID{3, 4, 1, 2}, trackIDsOf(p))
}

func TestPlaylistMoveRejectsNonConsecutive(t *testing.T) {
	p := newPlaylist("x")
	require.NoError(t, p.add([]ids.TrackID{1, 2, 3, 4}, 0))

	block := []ids.PlaylistEntryID{p.Entries[0].ID, p.Entries[2].ID}
	require.Error(t, p.move(block, 1))
}

func TestPlaylistCleanupDropsUnknownTracks(t *testing.T) {
	p := newPlaylist("x")
	require.NoError(t, p.add([]ids.TrackID{1, 2, 3}, 0))

	p.cleanup(func(id ids.TrackID) bool { return id != 2 })
	require.Equal(t, []ids.TrackID{1, 3}, trackIDsOf(p))
}
