// Package catalog builds and holds the in-memory music index: tracks
// cross-indexed by album, artist and genre, plus the derived views (most
// recent albums, non-album-artist participations, mean ratings) that the
// serving layer reads directly rather than recomputing per request.
package catalog

import (
	"time"

	"hify/internal/ids"
	"hify/internal/metadata"
)

// Track is one analyzed file, identified by the hash of its relative path so
// the same id survives a rescan as long as the path doesn't move.
type Track struct {
	ID           ids.TrackID
	RelativePath string
	MTime        time.Time
	CTime        *time.Time
	Metadata     metadata.TrackMetadata
}

// AlbumInfos is the identity of an album: its canonical name plus the set of
// artists credited on the album as a whole. Two tracks belong to the same
// album iff these fields match.
type AlbumInfos struct {
	Name         string
	AlbumArtists []string
}

// ID derives this album's stable identifier.
func (a AlbumInfos) ID() ids.AlbumID { return ids.HashAlbum(a.Name, a.AlbumArtists) }

// ArtistInfos is the identity of an artist: its name.
type ArtistInfos struct {
	Name string
}

// ID derives this artist's stable identifier.
func (a ArtistInfos) ID() ids.ArtistID { return ids.HashArtist(a.Name) }

// GenreInfos is the identity of a genre: its name.
type GenreInfos struct {
	Name string
}

// ID derives this genre's stable identifier.
func (g GenreInfos) ID() ids.GenreID { return ids.HashGenre(g.Name) }

// lessNatural orders two tracks within an album or artist listing: disc
// ascending, then track number ascending, then title, then id — ties broken
// deterministically rather than left to map iteration order. Tracks missing
// a disc or track number sort after every track that has one, per the
// original's natural_order comparator.
func lessNatural(a, b Track) bool {
	ad, bd := a.Metadata.Tags.Disc, b.Metadata.Tags.Disc
	if c, ok := compareOptionalInt(ad, bd); ok {
		return c < 0
	}
	at, bt := a.Metadata.Tags.TrackNo, b.Metadata.Tags.TrackNo
	if c, ok := compareOptionalInt(at, bt); ok {
		return c < 0
	}
	if a.Metadata.Tags.Title != b.Metadata.Tags.Title {
		return a.Metadata.Tags.Title < b.Metadata.Tags.Title
	}
	return a.ID < b.ID
}

// compareOptionalInt compares two *int, treating nil as "greater than any
// value". ok is false only when both sides are equal (including both nil),
// meaning the caller should fall through to the next sort key.
func compareOptionalInt(a, b *int) (cmp int, ok bool) {
	switch {
	case a == nil && b == nil:
		return 0, false
	case a == nil:
		return 1, true
	case b == nil:
		return -1, true
	case *a < *b:
		return -1, true
	case *a > *b:
		return 1, true
	default:
		return 0, false
	}
}
