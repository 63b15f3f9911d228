package userdata

import (
	"hify/internal/ids"
)

// cacheCapacity bounds how many of the most recent distinct tracks the
// dedup cache remembers, mirroring original_source's userdata/cache.rs
// fixed-size recency cache.
const cacheCapacity = 200

// Cache is a derived view over History: a capped list of the most recently
// listened-to distinct tracks (most recent first), plus running totals used
// to answer "how many times" and "for how long" without rescanning History.
// It is rebuilt from scratch by rebuild and kept live by record as new
// listenings are logged.
type Cache struct {
	Recent []ids.TrackID       `json:"recent"`
	Counts map[ids.TrackID]int `json:"counts"`
	Totals map[ids.TrackID]int `json:"totals_s"`
}

func newCache() *Cache {
	return &Cache{Counts: make(map[ids.TrackID]int), Totals: make(map[ids.TrackID]int)}
}

// rebuild recomputes the cache from History's full entry list. Used on load
// and after cleanup, where incremental maintenance isn't worth the
// complexity of tracking removals.
func (c *Cache) rebuild(h *History) {
	c.Recent = c.Recent[:0]
	c.Counts = make(map[ids.TrackID]int, len(h.Entries))
	c.Totals = make(map[ids.TrackID]int, len(h.Entries))
	for _, e := range h.Entries {
		c.record(e)
	}
}

// record folds one more listening into the cache: bumps its count and
// duration total, and moves it to the front of Recent (de-duplicating any
// earlier occurrence), trimming to cacheCapacity.
func (c *Cache) record(e OneListening) {
	c.Counts[e.TrackID]++
	c.Totals[e.TrackID] += e.DurationS

	for i, id := range c.Recent {
		if id == e.TrackID {
			c.Recent = append(c.Recent[:i], c.Recent[i+1:]...)
			break
		}
	}
	c.Recent = append([]ids.TrackID{e.TrackID}, c.Recent...)
	if len(c.Recent) > cacheCapacity {
		c.Recent = c.Recent[:cacheCapacity]
	}
}

// ListenCount returns how many times trackID has been logged.
func (c *Cache) ListenCount(trackID ids.TrackID) int { return c.Counts[trackID] }

// TotalListenedS returns the cumulative logged duration, in seconds, for
// trackID.
func (c *Cache) TotalListenedS(trackID ids.TrackID) int { return c.Totals[trackID] }

// cleanup drops cached data for tracks no longer present in the catalog.
func (c *Cache) cleanup(knownTrack func(ids.TrackID) bool) {
	kept := c.Recent[:0:0]
	for _, id := range c.Recent {
		if knownTrack(id) {
			kept = append(kept, id)
		}
	}
	c.Recent = kept
	for id := range c.Counts {
		if !knownTrack(id) {
			delete(c.Counts, id)
		}
	}
	for id := range c.Totals {
		if !knownTrack(id) {
			delete(c.Totals, id)
		}
	}
}
