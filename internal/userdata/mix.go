package userdata

import (
	"time"

	"hify/internal/ids"
)

// Mix is an ordered pool of tracks a client draws from via
// NextTracks, e.g. a shuffled "play all" queue. Unlike a Playlist it is
// consumed: each draw removes tracks from Selection. Grounded on
// original_source's userdata/mix.rs.
type Mix struct {
	ID         ids.MixID     `json:"id"`
	LastUsedAt time.Time     `json:"last_used_at"`
	Selection  []ids.TrackID `json:"selection"`
}

func newMix(selection []ids.TrackID) *Mix {
	return &Mix{ID: ids.NewMixID(), LastUsedAt: time.Now(), Selection: append([]ids.TrackID{}, selection...)}
}

// NextTracks drains up to n tracks from the front of Selection and returns
// them, updating LastUsedAt. An exhausted mix returns an empty slice.
func (m *Mix) NextTracks(n int) []ids.TrackID {
	if n > len(m.Selection) {
		n = len(m.Selection)
	}
	out := append([]ids.TrackID{}, m.Selection[:n]...)
	m.Selection = m.Selection[n:]
	m.LastUsedAt = time.Now()
	return out
}

// cleanup drops tracks no longer present in the catalog from the remaining
// selection.
func (m *Mix) cleanup(knownTrack func(ids.TrackID) bool) {
	kept := m.Selection[:0:0]
	for _, id := range m.Selection {
		if knownTrack(id) {
			kept = append(kept, id)
		}
	}
	m.Selection = kept
}
