// Package userdata implements the single persisted document of everything
// the catalog itself does not know about: listening history, the derived
// recency/count cache, track ratings, playlists and mixes. Grounded on
// original_source's userdata/{wrapper,cache,history,mix,playlist}.rs, which
// this package ports to Go behind one RWMutex-guarded Store, following the
// teacher's resources.Manager for the on-disk atomic-write idiom.
package userdata

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	l "github.com/sirupsen/logrus"

	"hify/internal/hifyerr"
	"hify/internal/ids"
)

var log *l.Entry = l.WithFields(l.Fields{"pkg": "userdata"})

// minListeningS is the minimum playback duration, in seconds, a reported
// listening must reach before it is recorded in history. Short skips are
// noise, not listens.
const minListeningS = 30

// Config is the small set of user-adjustable settings persisted alongside
// the rest of the document (distinct from internal/config's startup
// configuration, which governs the process, not the library).
type Config struct {
	MinListeningS int `json:"min_listening_s"`
}

// data is the on-disk shape of the whole store: a single JSON document.
type data struct {
	Config    Config                       `json:"config"`
	History   History                      `json:"history"`
	Cache     *Cache                       `json:"cache"`
	Ratings   map[ids.TrackID]int          `json:"track_ratings"`
	Playlists map[ids.PlaylistID]*Playlist `json:"playlists"`
	Mixes     map[ids.MixID]*Mix           `json:"mixes"`
}

func newData() *data {
	return &data{
		Config:    Config{MinListeningS: minListeningS},
		Cache:     newCache(),
		Ratings:   make(map[ids.TrackID]int),
		Playlists: make(map[ids.PlaylistID]*Playlist),
		Mixes:     make(map[ids.MixID]*Mix),
	}
}

// Store is the process-wide handle to the user-data document: every
// exported method is safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	path string
	d    *data
}

// Load reads the user-data document from path, creating a fresh empty one
// in memory if the file does not yet exist (first run).
func Load(path string) (*Store, error) {
	s := &Store{path: path, d: newData()}

	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, hifyerr.Wrapf(hifyerr.UserData, err, "reading user data file %q", path)
	}
	if err := json.Unmarshal(b, s.d); err != nil {
		return nil, hifyerr.Wrapf(hifyerr.UserData, err, "parsing user data file %q", path)
	}
	if s.d.Cache == nil {
		s.d.Cache = newCache()
		s.d.Cache.rebuild(&s.d.History)
	}
	if s.d.Ratings == nil {
		s.d.Ratings = make(map[ids.TrackID]int)
	}
	if s.d.Playlists == nil {
		s.d.Playlists = make(map[ids.PlaylistID]*Playlist)
	}
	if s.d.Mixes == nil {
		s.d.Mixes = make(map[ids.MixID]*Mix)
	}
	return s, nil
}

// save persists the document atomically: write to a sibling temp file,
// then rename over path, so a crash mid-write never corrupts the last
// good document. Caller must hold at least a read lock on s.mu.
func (s *Store) save() error {
	b, err := json.MarshalIndent(s.d, "", "  ")
	if err != nil {
		return hifyerr.Wrap(hifyerr.UserData, err, "encoding user data")
	}

	dir := filepath.Dir(s.path)
	tmp := filepath.Join(dir, ".userdata-"+uuid.New().String()+".tmp")
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return hifyerr.Wrapf(hifyerr.UserData, err, "writing temp user data file %q", tmp)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return hifyerr.Wrapf(hifyerr.UserData, err, "replacing user data file %q", s.path)
	}
	return nil
}

// LogListening records a completed (or partially completed) playback,
// rejecting it if it overlaps the previous entry or falls short of the
// configured minimum duration. Short listenings are silently dropped, not
// an error, matching a player reporting an accidental skip.
func (s *Store) LogListening(trackID ids.TrackID, at time.Time, durationS int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if durationS < s.d.Config.MinListeningS {
		return nil
	}
	entry := OneListening{At: at, TrackID: trackID, DurationS: durationS}
	if err := s.d.History.push(entry); err != nil {
		return err
	}
	s.d.Cache.record(entry)
	return s.save()
}

// ListenCount returns how many times trackID has been logged.
func (s *Store) ListenCount(trackID ids.TrackID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.d.Cache.ListenCount(trackID)
}

// TotalListenedS returns the cumulative logged duration, in seconds, for
// trackID.
func (s *Store) TotalListenedS(trackID ids.TrackID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.d.Cache.TotalListenedS(trackID)
}

// RecentlyPlayed returns up to n of the most recently listened-to distinct
// tracks, most recent first.
func (s *Store) RecentlyPlayed(n int) []ids.TrackID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n > len(s.d.Cache.Recent) {
		n = len(s.d.Cache.Recent)
	}
	out := make([]ids.TrackID, n)
	copy(out, s.d.Cache.Recent[:n])
	return out
}

// SetTrackRating sets or clears (rating == nil) a track's user rating.
func (s *Store) SetTrackRating(trackID ids.TrackID, rating *int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rating == nil {
		delete(s.d.Ratings, trackID)
	} else {
		if *rating < 0 || *rating > 10 {
			return hifyerr.New(hifyerr.UserData, "rating must be between 0 and 10")
		}
		s.d.Ratings[trackID] = *rating
	}
	return s.save()
}

// TrackRating returns a track's user rating, if any.
func (s *Store) TrackRating(trackID ids.TrackID) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.d.Ratings[trackID]
	return r, ok
}

// CreatePlaylist creates and persists a new, empty playlist.
func (s *Store) CreatePlaylist(name string) (*Playlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := newPlaylist(name)
	s.d.Playlists[p.ID] = p
	if err := s.save(); err != nil {
		return nil, err
	}
	return p, nil
}

// DeletePlaylist removes a playlist.
func (s *Store) DeletePlaylist(id ids.PlaylistID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.d.Playlists[id]; !ok {
		return errNotFound("playlist", id.String())
	}
	delete(s.d.Playlists, id)
	return s.save()
}

// RenamePlaylist changes a playlist's name.
func (s *Store) RenamePlaylist(id ids.PlaylistID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.d.Playlists[id]
	if !ok {
		return errNotFound("playlist", id.String())
	}
	p.rename(name)
	return s.save()
}

// AddToPlaylist inserts trackIDs into playlist id at position.
func (s *Store) AddToPlaylist(id ids.PlaylistID, trackIDs []ids.TrackID, position int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.d.Playlists[id]
	if !ok {
		return errNotFound("playlist", id.String())
	}
	if err := p.add(trackIDs, position); err != nil {
		return err
	}
	return s.save()
}

// RemoveFromPlaylist drops the given entries from playlist id.
func (s *Store) RemoveFromPlaylist(id ids.PlaylistID, entryIDs []ids.PlaylistEntryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.d.Playlists[id]
	if !ok {
		return errNotFound("playlist", id.String())
	}
	if err := p.remove(entryIDs); err != nil {
		return err
	}
	return s.save()
}

// MovePlaylistEntries relocates a consecutive block of entries within
// playlist id to start at moveAt.
func (s *Store) MovePlaylistEntries(id ids.PlaylistID, entryIDs []ids.PlaylistEntryID, moveAt int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.d.Playlists[id]
	if !ok {
		return errNotFound("playlist", id.String())
	}
	if err := p.move(entryIDs, moveAt); err != nil {
		return err
	}
	return s.save()
}

// Playlist returns a copy of a playlist's current state.
func (s *Store) Playlist(id ids.PlaylistID) (Playlist, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.d.Playlists[id]
	if !ok {
		return Playlist{}, false
	}
	return *p, true
}

// Playlists returns every playlist, in no particular order.
func (s *Store) Playlists() []Playlist {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Playlist, 0, len(s.d.Playlists))
	for _, p := range s.d.Playlists {
		out = append(out, *p)
	}
	return out
}

// ExportPlaylistM3U writes playlist id to w as an M3U file.
func (s *Store) ExportPlaylistM3U(id ids.PlaylistID, w io.Writer, lookup TrackLookup) error {
	s.mu.RLock()
	p, ok := s.d.Playlists[id]
	if !ok {
		s.mu.RUnlock()
		return errNotFound("playlist", id.String())
	}
	snapshot := *p
	s.mu.RUnlock()
	return ExportM3U(w, snapshot, lookup)
}

// ImportPlaylist creates a new playlist named name from an M3U file read
// from r, resolving each entry's path via resolve and silently dropping
// entries that don't match any known track.
func (s *Store) ImportPlaylist(name string, r io.Reader, resolve func(path string) (ids.TrackID, bool)) (*Playlist, error) {
	trackIDs, err := ImportM3U(r, resolve)
	if err != nil {
		return nil, err
	}
	p, err := s.CreatePlaylist(name)
	if err != nil {
		return nil, err
	}
	if len(trackIDs) == 0 {
		return p, nil
	}
	if err := s.AddToPlaylist(p.ID, trackIDs, 0); err != nil {
		return nil, err
	}
	got, _ := s.Playlist(p.ID)
	return &got, nil
}

// RegisterMix saves a new mix around a fixed selection of tracks.
func (s *Store) RegisterMix(selection []ids.TrackID) (*Mix, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := newMix(selection)
	s.d.Mixes[m.ID] = m
	if err := s.save(); err != nil {
		return nil, err
	}
	return m, nil
}

// DeleteMix removes a mix.
func (s *Store) DeleteMix(id ids.MixID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.d.Mixes[id]; !ok {
		return errNotFound("mix", id.String())
	}
	delete(s.d.Mixes, id)
	return s.save()
}

// NextMixTracks draws up to n tracks from mix id.
func (s *Store) NextMixTracks(id ids.MixID, n int) ([]ids.TrackID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.d.Mixes[id]
	if !ok {
		return nil, errNotFound("mix", id.String())
	}
	tracks := m.NextTracks(n)
	if err := s.save(); err != nil {
		return nil, err
	}
	return tracks, nil
}

// knownTrack is implemented by catalog.Index.Tracks (an ordmap.Map);
// accepted here as an interface
// so this package need not import catalog.
type knownTrack interface {
	ContainsKey(id ids.TrackID) bool
}

// Cleanup drops every reference to a track no longer present in idx from
// history, the derived cache, ratings, playlists and mixes, then persists
// the result. Called by the orchestrator after every successful Index
// rebuild.
func (s *Store) Cleanup(idx knownTrack) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	known := idx.ContainsKey
	s.d.History.cleanup(known)
	s.d.Cache.cleanup(known)
	for trackID := range s.d.Ratings {
		if !known(trackID) {
			delete(s.d.Ratings, trackID)
		}
	}
	for _, p := range s.d.Playlists {
		p.cleanup(known)
	}
	for _, m := range s.d.Mixes {
		m.cleanup(known)
	}
	if err := s.save(); err != nil {
		return errors.Wrap(err, "persisting user data after cleanup")
	}
	log.Debug("user data cleanup complete")
	return nil
}
