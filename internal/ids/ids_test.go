package ids

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBase36RoundTrip(t *testing.T) {
	id := HashTrack("Artist/Album/01 Track.flac")
	parsed, err := ParseTrackID(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)
}

func TestHashAlbumDeterministic(t *testing.T) {
	a := HashAlbum("Moon Safari", []string{"Air"})
	b := HashAlbum("Moon Safari", []string{"Air"})
	require.Equal(t, a, b)

	c := HashAlbum("Moon Safari", []string{"Daft Punk"})
	require.NotEqual(t, a, c)
}

func TestHashFileChangesWithMtimeOrSize(t *testing.T) {
	base := HashFile("/music/a.flac", 1000, 2048)
	diffMtime := HashFile("/music/a.flac", 2000, 2048)
	diffSize := HashFile("/music/a.flac", 1000, 4096)

	require.NotEqual(t, base, diffMtime)
	require.NotEqual(t, base, diffSize)
}

func TestHashPathsOrderSensitive(t *testing.T) {
	a := HashPaths([]string{"/a/cover.jpg", "/b/cover.jpg"})
	b := HashPaths([]string{"/b/cover.jpg", "/a/cover.jpg"})
	require.NotEqual(t, a, b)
}

func TestNewPlaylistIDIsRandom(t *testing.T) {
	a := NewPlaylistID()
	b := NewPlaylistID()
	require.NotEqual(t, a, b)
}
