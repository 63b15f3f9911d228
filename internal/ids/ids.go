// Package ids implements the stable, base-36 encoded 64-bit identifiers
// used throughout the catalog (tracks, albums, artists, genres) as well as
// the randomly generated identifiers used for user-created playlists and
// mixes.
package ids

import (
	"crypto/rand"
	"encoding/binary"
	"strconv"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	utils "gitlab.com/mipimipi/go-utils"
)

// TrackID identifies a track. Derived from the hash of its relative path.
type TrackID uint64

// AlbumID identifies an album. Derived from the hash of its AlbumInfos.
type AlbumID uint64

// ArtistID identifies an artist. Derived from the hash of its ArtistInfos.
type ArtistID uint64

// GenreID identifies a genre. Derived from the hash of its GenreInfos.
type GenreID uint64

// PlaylistID identifies a user-created playlist. Randomly generated.
type PlaylistID uint64

// PlaylistEntryID identifies a single entry inside a playlist, distinct
// from the track it references so the same track may appear more than once.
type PlaylistEntryID uint64

// MixID identifies a user-created mix. Randomly generated.
type MixID uint64

// base36 encodes n the same way the base-36 string IDs in the on-disk
// format do: lower-case digits 0-9a-z, no padding.
func base36(n uint64) string {
	return strconv.FormatUint(n, 36)
}

func parseBase36(s string) (uint64, error) {
	n, err := strconv.ParseUint(s, 36, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "could not parse id %q", s)
	}
	return n, nil
}

func (id TrackID) String() string          { return base36(uint64(id)) }
func (id AlbumID) String() string          { return base36(uint64(id)) }
func (id ArtistID) String() string         { return base36(uint64(id)) }
func (id GenreID) String() string          { return base36(uint64(id)) }
func (id PlaylistID) String() string       { return base36(uint64(id)) }
func (id PlaylistEntryID) String() string  { return base36(uint64(id)) }
func (id MixID) String() string            { return base36(uint64(id)) }

// MarshalText/UnmarshalText make every id type serialize as its base-36
// string form in JSON, both as struct fields and as map keys
// (encoding/json uses encoding.TextMarshaler for map keys when present) --
// required for the persisted Index/UserData JSON documents (§6) to use
// base-36 ids rather than encoding/json's default decimal-integer form.
func (id TrackID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id *TrackID) UnmarshalText(b []byte) error {
	v, err := ParseTrackID(string(b))
	*id = v
	return err
}

func (id AlbumID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id *AlbumID) UnmarshalText(b []byte) error {
	v, err := ParseAlbumID(string(b))
	*id = v
	return err
}

func (id ArtistID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id *ArtistID) UnmarshalText(b []byte) error {
	v, err := ParseArtistID(string(b))
	*id = v
	return err
}

func (id GenreID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id *GenreID) UnmarshalText(b []byte) error {
	v, err := ParseGenreID(string(b))
	*id = v
	return err
}

func (id PlaylistID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id *PlaylistID) UnmarshalText(b []byte) error {
	v, err := ParsePlaylistID(string(b))
	*id = v
	return err
}

func (id PlaylistEntryID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id *PlaylistEntryID) UnmarshalText(b []byte) error {
	v, err := parseBase36(string(b))
	*id = PlaylistEntryID(v)
	return err
}

func (id MixID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id *MixID) UnmarshalText(b []byte) error {
	v, err := ParseMixID(string(b))
	*id = v
	return err
}

// ParseTrackID decodes a base-36 track id string.
func ParseTrackID(s string) (TrackID, error) {
	n, err := parseBase36(s)
	return TrackID(n), err
}

// ParseAlbumID decodes a base-36 album id string.
func ParseAlbumID(s string) (AlbumID, error) {
	n, err := parseBase36(s)
	return AlbumID(n), err
}

// ParseArtistID decodes a base-36 artist id string.
func ParseArtistID(s string) (ArtistID, error) {
	n, err := parseBase36(s)
	return ArtistID(n), err
}

// ParseGenreID decodes a base-36 genre id string.
func ParseGenreID(s string) (GenreID, error) {
	n, err := parseBase36(s)
	return GenreID(n), err
}

// ParsePlaylistID decodes a base-36 playlist id string.
func ParsePlaylistID(s string) (PlaylistID, error) {
	n, err := parseBase36(s)
	return PlaylistID(n), err
}

// ParseMixID decodes a base-36 mix id string.
func ParseMixID(s string) (MixID, error) {
	n, err := parseBase36(s)
	return MixID(n), err
}

// HashTrack derives a TrackID from a track's relative path.
func HashTrack(relPath string) TrackID {
	return TrackID(utils.HashUint64("%s", relPath))
}

// HashAlbum derives an AlbumID from an album's canonical infos.
func HashAlbum(name string, albumArtists []string) AlbumID {
	return AlbumID(utils.HashUint64("%s\x1f%v", name, albumArtists))
}

// HashArtist derives an ArtistID from an artist name.
func HashArtist(name string) ArtistID {
	return ArtistID(utils.HashUint64("%s", name))
}

// HashGenre derives a GenreID from a genre name.
func HashGenre(name string) GenreID {
	return GenreID(utils.HashUint64("%s", name))
}

// HashFile computes the source-hash of a single source image: a 64-bit
// fingerprint of (path, mtime, size). Used by the resource manager and the
// art pipeline to decide whether a derivative needs regenerating.
func HashFile(path string, mtimeUnixNano int64, size int64) uint64 {
	return utils.HashUint64("%s\x1f%d\x1f%d", path, mtimeUnixNano, size)
}

// HashPaths computes the source-hash of a composite source (e.g. an artist
// mosaic assembled from several album-art paths): the hash of the ordered
// list of source paths.
func HashPaths(paths []string) uint64 {
	return utils.HashUint64("%v", paths)
}

// newRandomUint64 draws 8 bytes from a CSPRNG. Used as the entropy source
// for playlist/mix/entry identifiers, which are not content-derived.
func newRandomUint64() uint64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand failing is catastrophic for the host; fall back to a
		// UUID, hashed down to 64 bits through the same primitive used for
		// content ids, rather than panicking.
		return utils.HashUint64("%s", uuid.New().String())
	}
	return binary.BigEndian.Uint64(buf[:])
}

// NewPlaylistID generates a fresh, randomly chosen playlist id.
func NewPlaylistID() PlaylistID { return PlaylistID(newRandomUint64()) }

// NewPlaylistEntryID generates a fresh, randomly chosen playlist-entry id.
func NewPlaylistEntryID() PlaylistEntryID { return PlaylistEntryID(newRandomUint64()) }

// NewMixID generates a fresh, randomly chosen mix id.
func NewMixID() MixID { return MixID(newRandomUint64()) }
