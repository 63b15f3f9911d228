package userdata

import (
	"testing"

	"github.com/stretchr/testify/require"

	"hify/internal/ids"
)

func TestMixNextTracksDrains(t *testing.T) {
	m := newMix([]ids.TrackID{1, 2, 3, 4, 5})

	first := m.NextTracks(2)
	require.Equal(t, []ids.TrackID{1, 2}, first)
	require.Equal(t, []ids.TrackID{3, 4, 5}, m.Selection)

	rest := m.NextTracks(10)
	require.Equal(t, []ids.TrackID{3, 4, 5}, rest)
	require.Empty(t, m.Selection)

	require.Empty(t, m.NextTracks(1))
}

func TestMixCleanupDropsUnknownTracks(t *testing.T) {
	m := newMix([]ids.TrackID{1, 2, 3})
	m.cleanup(func(id ids.TrackID) bool { return id != 2 })
	require.Equal(t, []ids.TrackID{1, 3}, m.Selection)
}
