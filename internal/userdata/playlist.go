package userdata

import (
	"time"

	"hify/internal/ids"
)

// PlaylistEntry is one track slot inside a Playlist. It carries its own id,
// distinct from TrackID, so the same track can appear more than once in a
// playlist and still be addressed unambiguously by Remove/Move.
type PlaylistEntry struct {
	ID      ids.PlaylistEntryID `json:"id"`
	TrackID ids.TrackID         `json:"track_id"`
}

// Playlist is a user-ordered, user-named sequence of tracks.
type Playlist struct {
	ID            ids.PlaylistID  `json:"id"`
	Name          string          `json:"name"`
	CreatedAt     time.Time       `json:"created_at"`
	LastUpdatedAt time.Time       `json:"last_updated_at"`
	Entries       []PlaylistEntry `json:"entries"`
}

func newPlaylist(name string) *Playlist {
	now := time.Now()
	return &Playlist{
		ID:             ids.NewPlaylistID(),
		Name:           name,
		CreatedAt:      now,
		LastUpdatedAt:  now,
	}
}

func (p *Playlist) indexOfEntry(entryID ids.PlaylistEntryID) (int, bool) {
	for i, e := range p.Entries {
		if e.ID == entryID {
			return i, true
		}
	}
	return 0, false
}

// add inserts tracks at position, shifting later entries right. position
// must be in [0, len(Entries)]; the empty-playlist/append case is position
// == len(Entries).
func (p *Playlist) add(trackIDs []ids.TrackID, position int) error {
	if position < 0 || position > len(p.Entries) {
		return errOutOfBounds("playlist insertion position is out of bounds")
	}
	newEntries := make([]PlaylistEntry, len(trackIDs))
	for i, tid := range trackIDs {
		newEntries[i] = PlaylistEntry{ID: ids.NewPlaylistEntryID(), TrackID: tid}
	}
	merged := make([]PlaylistEntry, 0, len(p.Entries)+len(newEntries))
	merged = append(merged, p.Entries[:position]...)
	merged = append(merged, newEntries...)
	merged = append(merged, p.Entries[position:]...)
	p.Entries = merged
	p.LastUpdatedAt = time.Now()
	return nil
}

// remove drops the given entries, by entry id, wherever they occur.
func (p *Playlist) remove(entryIDs []ids.PlaylistEntryID) error {
	toRemove := make(map[ids.PlaylistEntryID]struct{}, len(entryIDs))
	for _, id := range entryIDs {
		if _, ok := p.indexOfEntry(id); !ok {
			return errNotFound("playlist entry", id.String())
		}
		toRemove[id] = struct{}{}
	}
	kept := p.Entries[:0:0]
	for _, e := range p.Entries {
		if _, drop := toRemove[e.ID]; !drop {
			kept = append(kept, e)
		}
	}
	p.Entries = kept
	p.LastUpdatedAt = time.Now()
	return nil
}

// move relocates entryIDs, which must currently occupy consecutive
// positions in the playlist (in some order), so that the block starts at
// moveAt, an index into the playlist as it stands once the block has been
// lifted out (i.e. 0 means "move to the front", len(Entries)-len(entryIDs)
// means "move to the end"). Grounded on original_source's playlist.rs
// Move, which rejects a non-consecutive selection rather than silently
// reordering around it.
func (p *Playlist) move(entryIDs []ids.PlaylistEntryID, moveAt int) error {
	if len(entryIDs) == 0 {
		return nil
	}

	positions := make([]int, 0, len(entryIDs))
	want := make(map[ids.PlaylistEntryID]struct{}, len(entryIDs))
	for _, id := range entryIDs {
		want[id] = struct{}{}
	}
	for i, e := range p.Entries {
		if _, ok := want[e.ID]; ok {
			positions = append(positions, i)
		}
	}
	if len(positions) != len(entryIDs) {
		return errNotFound("playlist entry", "one of the requested entries")
	}
	minPos, maxPos := positions[0], positions[0]
	for _, i := range positions {
		if i < minPos {
			minPos = i
		}
		if i > maxPos {
			maxPos = i
		}
	}
	if maxPos-minPos+1 != len(positions) {
		return errOutOfBounds("playlist entries to move must be consecutive")
	}

	block := append([]PlaylistEntry{}, p.Entries[minPos:maxPos+1]...)
	without := make([]PlaylistEntry, 0, len(p.Entries)-len(block))
	without = append(without, p.Entries[:minPos]...)
	without = append(without, p.Entries[maxPos+1:]...)

	if moveAt < 0 || moveAt > len(without) {
		return errOutOfBounds("playlist move target position is out of bounds")
	}
	merged := make([]PlaylistEntry, 0, len(p.Entries))
	merged = append(merged, without[:moveAt]...)
	merged = append(merged, block...)
	merged = append(merged, without[moveAt:]...)
	p.Entries = merged
	p.LastUpdatedAt = time.Now()
	return nil
}

func (p *Playlist) rename(name string) {
	p.Name = name
	p.LastUpdatedAt = time.Now()
}

// cleanup drops entries referencing tracks no longer present in the
// catalog, leaving the surrounding order untouched.
func (p *Playlist) cleanup(knownTrack func(ids.TrackID) bool) {
	kept := p.Entries[:0:0]
	for _, e := range p.Entries {
		if knownTrack(e.TrackID) {
			kept = append(kept, e)
		}
	}
	p.Entries = kept
}
