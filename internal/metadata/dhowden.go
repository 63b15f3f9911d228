package metadata

import (
	"fmt"
	"os"

	"github.com/dhowden/tag"
	"github.com/pkg/errors"
)

// TagDecoder is the concrete Decoder backed by github.com/dhowden/tag, the
// same tag-reading library the teacher uses in fileinfo.go (there via a
// fork, here via upstream). It satisfies the external audio-decoder
// contract (§6) for tag extraction; duration is not something dhowden/tag
// computes (it reads container metadata, not audio frames), so DurationS is
// always reported as 0.
// A deployment that needs accurate durations pairs this adapter with a
// dedicated probe (e.g. ffprobe) ahead of Normalize — the core only depends
// on the RawTags contract, not on how DurationS was computed.
type TagDecoder struct{}

var _ Decoder = TagDecoder{}

func (TagDecoder) Decode(path string) (RawTags, error) {
	f, err := os.Open(path)
	if err != nil {
		return RawTags{}, errors.Wrapf(err, "cannot open %q", path)
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return RawTags{}, errors.Wrapf(err, "cannot read tags from %q", path)
	}

	info, err := f.Stat()
	if err != nil {
		return RawTags{}, errors.Wrapf(err, "cannot stat %q", path)
	}

	values := map[string]string{
		KeyTrackTitle:  m.Title(),
		KeyArtist:      m.Artist(),
		KeyAlbumArtist: m.AlbumArtist(),
		KeyComposer:    m.Composer(),
		KeyAlbum:       m.Album(),
		KeyGenre:       m.Genre(),
	}
	if trackNo, total := m.Track(); trackNo > 0 {
		values[KeyTrackNumber] = setNumberString(trackNo, total)
	}
	if discNo, total := m.Disc(); discNo > 0 {
		values[KeyDiscNumber] = setNumberString(discNo, total)
	}
	if year := m.Year(); year > 0 {
		values[KeyReleaseDate] = fmt.Sprintf("%04d", year)
	}
	if raw, ok := m.Raw()["rating"]; ok {
		values[KeyRating] = fmt.Sprintf("%v", raw)
	} else if raw, ok := m.Raw()["POPM"]; ok {
		values[KeyRating] = fmt.Sprintf("%v", raw)
	}

	return RawTags{
		Codec:     codecFromFileType(m.FileType()),
		DurationS: 0,
		FileSize:  info.Size(),
		Values:    values,
	}, nil
}

func setNumberString(n, total int) string {
	if total > 0 {
		return fmt.Sprintf("%d/%d", n, total)
	}
	return fmt.Sprintf("%d", n)
}

// codecFromFileType maps dhowden/tag's container FileType to the raw codec
// string Normalize expects. dhowden/tag identifies containers, not codecs
// proper (e.g. "OGG" covers both Vorbis and Opus payloads); where the
// container is unambiguous this is a direct mapping, otherwise it defaults
// to the container's most common payload codec.
func codecFromFileType(ft tag.FileType) string {
	switch ft {
	case tag.MP3:
		return string(MP3)
	case tag.FLAC:
		return string(FLAC)
	case tag.OGG:
		return string(VORBIS)
	case tag.M4A, tag.M4B, tag.M4P, tag.ALAC:
		return string(AAC)
	case tag.DSF:
		return string(WAV)
	default:
		return string(ft)
	}
}
