// Package metadata normalizes raw audio-file tags into the canonical
// TrackMetadata the catalog builder consumes. The actual tag decoding is
// delegated to a Decoder — the "external audio-decoding library"
// collaborator the spec calls out as out of scope for the core — with a
// concrete adapter over github.com/dhowden/tag, the library the teacher
// uses for the same purpose in fileinfo.go.
package metadata

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Codec is one of the six audio codecs the catalog recognizes.
type Codec string

const (
	MP3    Codec = "MP3"
	FLAC   Codec = "FLAC"
	WAV    Codec = "WAV"
	AAC    Codec = "AAC"
	VORBIS Codec = "VORBIS"
	OPUS   Codec = "OPUS"
)

func parseCodec(raw string) (Codec, error) {
	switch Codec(strings.ToUpper(strings.TrimSpace(raw))) {
	case MP3:
		return MP3, nil
	case FLAC:
		return FLAC, nil
	case WAV:
		return WAV, nil
	case AAC:
		return AAC, nil
	case VORBIS:
		return VORBIS, nil
	case OPUS:
		return OPUS, nil
	default:
		return "", errors.Errorf("unrecognized codec %q", raw)
	}
}

// blacklistedExt are extensions explicitly rejected as "unsupported by web
// players", distinct from simply not being audio at all.
var blacklistedExt = map[string]bool{
	".mpeg": true,
	".mp4":  true,
	".webm": true,
	".alac": true,
	".aiff": true,
	".dsf":  true,
}

// whitelistedExt are the only extensions treated as audio files.
var whitelistedExt = map[string]bool{
	".mp3":  true,
	".flac": true,
	".wav":  true,
	".aac":  true,
	".m4a":  true,
	".ogg":  true,
	".opus": true,
}

// Classification is the outcome of inspecting a path's extension, prior to
// ever invoking the decoder.
type Classification int

const (
	// NotAudio means the extension is neither blacklisted nor whitelisted;
	// the file is silently ignored.
	NotAudio Classification = iota
	// Unsupported means the extension is blacklisted: a real audio format
	// web players can't play.
	Unsupported
	// Audio means the extension is whitelisted and the decoder should run.
	Audio
)

// Classify inspects path's extension only.
func Classify(path string) Classification {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case blacklistedExt[ext]:
		return Unsupported
	case whitelistedExt[ext]:
		return Audio
	default:
		return NotAudio
	}
}

// Date is a tag-derived release date; Month and Day are absent when the
// source tag only carried a year.
type Date struct {
	Year  int
	Month *int
	Day   *int
}

// Tags is the normalized tag set extracted from a single file.
type Tags struct {
	Title        string
	Artists      []string
	Composers    []string
	Album        string
	AlbumArtists []string
	Disc         *int
	TrackNo      *int
	Date         *Date
	Genres       []string
	Rating       *int
}

// TrackMetadata is the canonical, normalized output of analyzing one file.
type TrackMetadata struct {
	Codec     Codec
	FileSize  int64
	DurationS int
	Tags      Tags
}

// RawTags is what the external decoder collaborator supplies: a codec tag,
// rounded integer duration, file size, and a flat key-value tag map using
// the standard key names listed in the spec's external-interfaces section.
type RawTags struct {
	Codec     string
	DurationS int
	FileSize  int64
	Values    map[string]string
}

// Standard tag key names the decoder is expected to populate.
const (
	KeyTrackTitle  = "TrackTitle"
	KeyArtist      = "Artist"
	KeyComposer    = "Composer"
	KeyAlbum       = "Album"
	KeyAlbumArtist = "AlbumArtist"
	KeyDiscNumber  = "DiscNumber"
	KeyTrackNumber = "TrackNumber"
	KeyReleaseDate = "ReleaseDate"
	KeyGenre       = "Genre"
	KeyRating      = "Rating"
)

// Decoder is the external audio-decoding collaborator. Any type reading tags
// from a file and reporting them in the RawTags shape satisfies it.
type Decoder interface {
	Decode(path string) (RawTags, error)
}

// FileResult pairs a path with either its normalized metadata or an error.
type FileResult struct {
	Path     string
	Metadata TrackMetadata
	Err      error
}

// Normalize converts a decoder's RawTags into TrackMetadata, enforcing every
// invariant the spec requires of a Track's tags.
func Normalize(raw RawTags) (TrackMetadata, error) {
	codec, err := parseCodec(raw.Codec)
	if err != nil {
		return TrackMetadata{}, errors.Wrap(err, "metadata")
	}

	title := strings.TrimSpace(raw.Values[KeyTrackTitle])
	album := strings.TrimSpace(raw.Values[KeyAlbum])
	if title == "" {
		return TrackMetadata{}, errors.New("metadata: missing required tag Title")
	}
	if album == "" {
		return TrackMetadata{}, errors.New("metadata: missing required tag Album")
	}

	artists := splitMulti(raw.Values[KeyArtist])
	albumArtists := splitMulti(raw.Values[KeyAlbumArtist])
	composers := splitMulti(raw.Values[KeyComposer])
	genres := splitMulti(raw.Values[KeyGenre])

	// Compilation / missing-album-artist fallback: if no album artists were
	// supplied, the track's own artists stand in for them (teacher's
	// fileinfo.go metadata() heuristic).
	if len(albumArtists) == 0 {
		albumArtists = artists
	}
	if len(artists) == 0 && len(albumArtists) == 0 {
		return TrackMetadata{}, errors.New("metadata: track has neither artists nor album artists")
	}

	disc, err := parseOptionalSetNumber(raw.Values[KeyDiscNumber])
	if err != nil {
		return TrackMetadata{}, errors.Wrap(err, "metadata: disc number")
	}
	trackNo, err := parseOptionalSetNumber(raw.Values[KeyTrackNumber])
	if err != nil {
		return TrackMetadata{}, errors.Wrap(err, "metadata: track number")
	}
	date, err := parseOptionalDate(raw.Values[KeyReleaseDate])
	if err != nil {
		return TrackMetadata{}, errors.Wrap(err, "metadata: release date")
	}
	rating, err := parseOptionalRating(raw.Values[KeyRating])
	if err != nil {
		return TrackMetadata{}, errors.Wrap(err, "metadata: rating")
	}

	return TrackMetadata{
		Codec:     codec,
		FileSize:  raw.FileSize,
		DurationS: raw.DurationS,
		Tags: Tags{
			Title:        title,
			Artists:      artists,
			Composers:    composers,
			Album:        album,
			AlbumArtists: albumArtists,
			Disc:         disc,
			TrackNo:      trackNo,
			Date:         date,
			Genres:       genres,
			Rating:       rating,
		},
	}, nil
}

// Analyze runs Classify + Decoder.Decode + Normalize over every path,
// collecting per-file errors without aborting the batch.
func Analyze(paths []string, dec Decoder) []FileResult {
	results := make([]FileResult, 0, len(paths))
	for _, p := range paths {
		switch Classify(p) {
		case NotAudio:
			continue
		case Unsupported:
			results = append(results, FileResult{Path: p, Err: errors.Errorf("%q: unsupported by web players", p)})
			continue
		}

		raw, err := dec.Decode(p)
		if err != nil {
			results = append(results, FileResult{Path: p, Err: errors.Wrapf(err, "decoding %q", p)})
			continue
		}
		m, err := Normalize(raw)
		if err != nil {
			results = append(results, FileResult{Path: p, Err: errors.Wrapf(err, "normalizing %q", p)})
			continue
		}
		results = append(results, FileResult{Path: p, Metadata: m})
	}
	return results
}

// splitMulti splits a raw tag value on ';', ',' and '/', trims whitespace
// and drops empty entries. Grounded on the teacher's
// fileinfo.go:splitMultipleEntries and original_source's parse_array_tag,
// which agree on this exact delimiter set.
func splitMulti(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ';' || r == ',' || r == '/'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
