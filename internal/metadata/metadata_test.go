package metadata

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	require.Equal(t, Audio, Classify("/music/a.flac"))
	require.Equal(t, Audio, Classify("/music/A.MP3"))
	require.Equal(t, Unsupported, Classify("/music/video.webm"))
	require.Equal(t, NotAudio, Classify("/music/cover.jpg"))
}

func TestNormalizeRequiresTitleAndAlbum(t *testing.T) {
	_, err := Normalize(RawTags{Codec: "MP3", Values: map[string]string{
		KeyAlbum:  "X",
		KeyArtist: "P",
	}})
	require.Error(t, err)

	_, err = Normalize(RawTags{Codec: "MP3", Values: map[string]string{
		KeyTrackTitle: "A",
		KeyArtist:     "P",
	}})
	require.Error(t, err)
}

func TestNormalizeAlbumArtistFallback(t *testing.T) {
	m, err := Normalize(RawTags{Codec: "FLAC", Values: map[string]string{
		KeyTrackTitle: "A",
		KeyAlbum:      "X",
		KeyArtist:     "P",
	}})
	require.NoError(t, err)
	require.Equal(t, []string{"P"}, m.Tags.Artists)
	require.Equal(t, []string{"P"}, m.Tags.AlbumArtists)
}

func TestNormalizeRejectsUnknownCodec(t *testing.T) {
	_, err := Normalize(RawTags{Codec: "REALAUDIO", Values: map[string]string{
		KeyTrackTitle: "A", KeyAlbum: "X", KeyArtist: "P",
	}})
	require.Error(t, err)
}

func TestSplitMulti(t *testing.T) {
	require.Equal(t, []string{"Air", "Daft Punk"}, splitMulti("Air; Daft Punk"))
	require.Equal(t, []string{"Air", "Daft Punk"}, splitMulti("Air, Daft Punk"))
	require.Equal(t, []string{"Air", "Daft Punk"}, splitMulti("Air/Daft Punk"))
	require.Nil(t, splitMulti(""))
	require.Nil(t, splitMulti("  "))
}

func TestParseOptionalSetNumber(t *testing.T) {
	cases := map[string]int{"3": 3, "3/12": 3, "3 of 12": 3}
	for raw, want := range cases {
		n, err := parseOptionalSetNumber(raw)
		require.NoError(t, err)
		require.Equal(t, want, *n)
	}
	n, err := parseOptionalSetNumber("")
	require.NoError(t, err)
	require.Nil(t, n)

	_, err = parseOptionalSetNumber("track three")
	require.Error(t, err)
}

func TestParseOptionalDate(t *testing.T) {
	d, err := parseOptionalDate("1998-03-16")
	require.NoError(t, err)
	require.Equal(t, 1998, d.Year)
	require.Equal(t, 3, *d.Month)
	require.Equal(t, 16, *d.Day)

	d, err = parseOptionalDate("2005;original release info")
	require.NoError(t, err)
	require.Equal(t, 2005, d.Year)
	require.Nil(t, d.Month)

	_, err = parseOptionalDate("not a date")
	require.Error(t, err)
}

func TestParseOptionalRating(t *testing.T) {
	r, err := parseOptionalRating("0")
	require.NoError(t, err)
	require.Nil(t, r)

	r, err = parseOptionalRating("80")
	require.NoError(t, err)
	require.Equal(t, 8, *r)

	r, err = parseOptionalRating("196")
	require.NoError(t, err)
	require.Equal(t, 8, *r)

	r, err = parseOptionalRating("255")
	require.NoError(t, err)
	require.Equal(t, 10, *r)

	_, err = parseOptionalRating("999")
	require.Error(t, err)
}
