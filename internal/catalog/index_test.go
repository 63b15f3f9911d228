package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"

	"hify/internal/ids"
	"hify/internal/metadata"
)

func track(path, title, album string, artists, albumArtists []string, disc, trackNo, rating *int) Track {
	return Track{
		ID:           ids.HashTrack(path),
		RelativePath: path,
		Metadata: metadata.TrackMetadata{
			Codec: metadata.FLAC,
			Tags: metadata.Tags{
				Title:        title,
				Artists:      artists,
				AlbumArtists: albumArtists,
				Album:        album,
				Disc:         disc,
				TrackNo:      trackNo,
				Rating:       rating,
			},
		},
	}
}

func intp(n int) *int { return &n }

func TestBuildEveryAlbumIDResolvesInAlbumsInfos(t *testing.T) {
	tracks := []Track{
		track("/a/01.flac", "One", "Album A", []string{"Artist X"}, []string{"Artist X"}, intp(1), intp(1), nil),
		track("/a/02.flac", "Two", "Album A", []string{"Artist X"}, []string{"Artist X"}, intp(1), intp(2), nil),
		track("/b/01.flac", "Three", "Album B", []string{"Artist Y"}, []string{"Artist Y"}, intp(1), intp(1), nil),
	}
	idx := Build(tracks)

	for albumID := range idx.AlbumsTracks {
		require.True(t, idx.AlbumsInfos.ContainsKey(albumID))
	}
	for _, albumID := range idx.MostRecentAlbums {
		require.True(t, idx.AlbumsInfos.ContainsKey(albumID))
	}
}

func TestBuildMostRecentAlbumsIsPermutationOfAlbumsInfosKeys(t *testing.T) {
	tracks := []Track{
		track("/a/01.flac", "One", "Album A", []string{"X"}, []string{"X"}, nil, nil, nil),
		track("/b/01.flac", "Two", "Album B", []string{"Y"}, []string{"Y"}, nil, nil, nil),
	}
	idx := Build(tracks)

	require.ElementsMatch(t, idx.AlbumsInfos.Keys(), idx.MostRecentAlbums)
}

func TestBuildAlbumsTracksSortedByNaturalOrder(t *testing.T) {
	tracks := []Track{
		track("/a/02.flac", "Two", "Album A", []string{"X"}, []string{"X"}, intp(1), intp(2), nil),
		track("/a/01.flac", "One", "Album A", []string{"X"}, []string{"X"}, intp(1), intp(1), nil),
	}
	idx := Build(tracks)

	albumID := AlbumInfos{Name: "Album A", AlbumArtists: []string{"X"}}.ID()
	got := idx.AlbumsTracks[albumID]
	require.Len(t, got, 2)

	first, _ := idx.Tracks.Get(got[0])
	second, _ := idx.Tracks.Get(got[1])
	require.Equal(t, "One", first.Metadata.Tags.Title)
	require.Equal(t, "Two", second.Metadata.Tags.Title)
}

func TestBuildNonAlbumArtistParticipation(t *testing.T) {
	// "Featured" plays on a track of Album A but is not an album artist.
	tracks := []Track{
		track("/a/01.flac", "One", "Album A", []string{"X", "Featured"}, []string{"X"}, nil, nil, nil),
	}
	idx := Build(tracks)

	featuredID := ArtistInfos{Name: "Featured"}.ID()
	xID := ArtistInfos{Name: "X"}.ID()
	albumID := AlbumInfos{Name: "Album A", AlbumArtists: []string{"X"}}.ID()

	require.True(t, idx.ArtistsAlbumParticipations[featuredID].ContainsKey(albumID))
	require.Nil(t, idx.ArtistsAlbumParticipations[xID])
	require.True(t, idx.ArtistsAlbums[xID].ContainsKey(albumID))
}

func TestBuildMeanScoreOmitsUnratedAlbums(t *testing.T) {
	tracks := []Track{
		track("/a/01.flac", "One", "Album A", []string{"X"}, []string{"X"}, nil, nil, intp(8)),
		track("/a/02.flac", "Two", "Album A", []string{"X"}, []string{"X"}, nil, nil, intp(6)),
		track("/b/01.flac", "Three", "Album B", []string{"Y"}, []string{"Y"}, nil, nil, nil),
	}
	idx := Build(tracks)

	albumA := AlbumInfos{Name: "Album A", AlbumArtists: []string{"X"}}.ID()
	albumB := AlbumInfos{Name: "Album B", AlbumArtists: []string{"Y"}}.ID()

	require.Equal(t, 7.0, idx.AlbumsMeanScore[albumA])
	_, unrated := idx.AlbumsMeanScore[albumB]
	require.False(t, unrated)
}

func TestBuildAlbumsGenresDeduped(t *testing.T) {
	tracks := []Track{
		{
			ID:           ids.HashTrack("/a/01.flac"),
			RelativePath: "/a/01.flac",
			Metadata: metadata.TrackMetadata{
				Codec: metadata.FLAC,
				Tags: metadata.Tags{
					Title: "One", Album: "Album A",
					Artists: []string{"X"}, AlbumArtists: []string{"X"},
					Genres: []string{"Rock", "Pop"},
				},
			},
		},
		{
			ID:           ids.HashTrack("/a/02.flac"),
			RelativePath: "/a/02.flac",
			Metadata: metadata.TrackMetadata{
				Codec: metadata.FLAC,
				Tags: metadata.Tags{
					Title: "Two", Album: "Album A",
					Artists: []string{"X"}, AlbumArtists: []string{"X"},
					Genres: []string{"Rock"},
				},
			},
		},
	}
	idx := Build(tracks)
	albumID := AlbumInfos{Name: "Album A", AlbumArtists: []string{"X"}}.ID()
	require.Equal(t, []ids.GenreID{GenreInfos{Name: "Rock"}.ID(), GenreInfos{Name: "Pop"}.ID()}, idx.AlbumsGenres[albumID])
}
