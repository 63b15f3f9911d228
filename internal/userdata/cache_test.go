package userdata

import (
	"testing"

	"github.com/stretchr/testify/require"

	"hify/internal/ids"
)

func TestCacheRecordTracksCountsAndRecency(t *testing.T) {
	c := newCache()
	c.record(OneListening{TrackID: 1, DurationS: 100})
	c.record(OneListening{TrackID: 2, DurationS: 50})
	c.record(OneListening{TrackID: 1, DurationS: 60})

	require.Equal(t, 2, c.ListenCount(1))
	require.Equal(t, 160, c.TotalListenedS(1))
	require.Equal(t, 1, c.ListenCount(2))

	require.Equal(t, []ids.TrackID{1, 2}, c.Recent)
}

func TestCacheRebuildFromHistory(t *testing.T) {
	h := History{Entries: []OneListening{
		{TrackID: 1, DurationS: 100},
		{TrackID: 2, DurationS: 50},
	}}
	c := newCache()
	c.rebuild(&h)

	require.Equal(t, 1, c.ListenCount(1))
	require.Equal(t, 1, c.ListenCount(2))
	require.Equal(t, []ids.TrackID{2, 1}, c.Recent)
}

func TestCacheCleanupDropsUnknownTracks(t *testing.T) {
	c := newCache()
	c.record(OneListening{TrackID: 1, DurationS: 10})
	c.record(OneListening{TrackID: 2, DurationS: 10})

	c.cleanup(func(id ids.TrackID) bool { return id == 1 })

	require.Equal(t, []ids.TrackID{1}, c.Recent)
	require.Equal(t, 1, c.ListenCount(1))
	require.Equal(t, 0, c.ListenCount(2))
}
