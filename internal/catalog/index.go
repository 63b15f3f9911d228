package catalog

import (
	"sort"
	"time"

	"hify/internal/ids"
	"hify/internal/ordmap"
)

// Index is the immutable catalog snapshot the Change Orchestrator produces
// and the serving layer reads. Every secondary structure below is
// cross-referential with tracks/albums_infos/artists_infos/genres_infos:
// any id that appears in a secondary structure is guaranteed to be a key of
// its primary ValueOrdMap.
type Index struct {
	Tracks           *ordmap.Map[ids.TrackID, Track]
	TracksFilesMTime map[string]time.Time

	AlbumsInfos           *ordmap.Map[ids.AlbumID, AlbumInfos]
	AlbumsTracks          map[ids.AlbumID][]ids.TrackID
	AlbumsGenres          map[ids.AlbumID][]ids.GenreID
	AlbumsMeanScore       map[ids.AlbumID]float64
	AlbumArtistsMeanScore map[ids.ArtistID]float64

	ArtistsInfos      *ordmap.Map[ids.ArtistID, ArtistInfos]
	AlbumArtistsInfos *ordmap.Map[ids.ArtistID, ArtistInfos]

	ArtistsAlbums                  map[ids.ArtistID]*ordmap.Map[ids.AlbumID, AlbumInfos]
	ArtistsAlbumParticipations     map[ids.ArtistID]*ordmap.Map[ids.AlbumID, AlbumInfos]
	ArtistsAlbumsAndParticipations map[ids.ArtistID]*ordmap.Map[ids.AlbumID, AlbumInfos]

	ArtistsAlbumTracks             map[ids.ArtistID][]ids.TrackID
	ArtistsTrackParticipations     map[ids.ArtistID][]ids.TrackID
	ArtistsTracksAndParticipations map[ids.ArtistID][]ids.TrackID

	TracksAllArtists map[ids.TrackID]map[ids.ArtistID]struct{}

	GenresInfos   *ordmap.Map[ids.GenreID, GenreInfos]
	GenresAlbums  map[ids.GenreID][]ids.AlbumID
	GenresTracks  map[ids.GenreID][]ids.TrackID
	NoGenreTracks []ids.TrackID

	MostRecentAlbums []ids.AlbumID
	AlbumArts        map[ids.AlbumID]string
}

func toSet(names []string) map[ids.ArtistID]struct{} {
	s := make(map[ids.ArtistID]struct{}, len(names))
	for _, n := range names {
		s[ArtistInfos{Name: n}.ID()] = struct{}{}
	}
	return s
}

// Build assembles an Index from an unordered slice of analyzed tracks. It is
// a pure function: the same input, byte for byte, always yields the same
// Index. Grounded on original_source's index/builder.rs seven-step scan.
func Build(tracks []Track) *Index {
	// Step 1: sort by natural order, wrap in a ValueOrdMap.
	entries := make([]ordmap.Entry[ids.TrackID, Track], len(tracks))
	for i, t := range tracks {
		entries[i] = ordmap.Entry[ids.TrackID, Track]{Key: t.ID, Value: t}
	}
	tracksMap := ordmap.New(entries, lessNatural)

	idx := &Index{
		Tracks:                         tracksMap,
		TracksFilesMTime:               make(map[string]time.Time, len(tracks)),
		AlbumsTracks:                   make(map[ids.AlbumID][]ids.TrackID),
		AlbumsGenres:                   make(map[ids.AlbumID][]ids.GenreID),
		AlbumsMeanScore:                make(map[ids.AlbumID]float64),
		AlbumArtistsMeanScore:          make(map[ids.ArtistID]float64),
		ArtistsAlbums:                  make(map[ids.ArtistID]*ordmap.Map[ids.AlbumID, AlbumInfos]),
		ArtistsAlbumParticipations:     make(map[ids.ArtistID]*ordmap.Map[ids.AlbumID, AlbumInfos]),
		ArtistsAlbumsAndParticipations: make(map[ids.ArtistID]*ordmap.Map[ids.AlbumID, AlbumInfos]),
		ArtistsAlbumTracks:             make(map[ids.ArtistID][]ids.TrackID),
		ArtistsTrackParticipations:     make(map[ids.ArtistID][]ids.TrackID),
		ArtistsTracksAndParticipations: make(map[ids.ArtistID][]ids.TrackID),
		TracksAllArtists:               make(map[ids.TrackID]map[ids.ArtistID]struct{}, len(tracks)),
		GenresAlbums:                   make(map[ids.GenreID][]ids.AlbumID),
		GenresTracks:                   make(map[ids.GenreID][]ids.TrackID),
		AlbumArts:                      make(map[ids.AlbumID]string),
	}

	albumsInfos := make(map[ids.AlbumID]AlbumInfos)
	artistsInfos := make(map[ids.ArtistID]ArtistInfos)
	albumArtistsInfos := make(map[ids.ArtistID]ArtistInfos)
	genresInfos := make(map[ids.GenreID]GenreInfos)

	albumArtistAlbums := make(map[ids.ArtistID]map[ids.AlbumID]AlbumInfos)
	albumArtistParticipationAlbums := make(map[ids.ArtistID]map[ids.AlbumID]AlbumInfos)

	albumRatings := make(map[ids.AlbumID][]int)
	artistRatings := make(map[ids.ArtistID][]int)

	albumMinTime := make(map[ids.AlbumID]time.Time)

	// Step 2+3: single pass over tracks in natural order.
	for _, tid := range tracksMap.Keys() {
		t, _ := tracksMap.Get(tid)

		album := AlbumInfos{Name: t.Metadata.Tags.Album, AlbumArtists: t.Metadata.Tags.AlbumArtists}
		albumID := album.ID()
		albumsInfos[albumID] = album
		idx.TracksFilesMTime[t.RelativePath] = t.MTime

		albumArtistSet := toSet(t.Metadata.Tags.AlbumArtists)
		trackArtistSet := toSet(t.Metadata.Tags.Artists)
		allArtists := make(map[ids.ArtistID]struct{}, len(albumArtistSet)+len(trackArtistSet))
		for id := range albumArtistSet {
			allArtists[id] = struct{}{}
		}
		for id := range trackArtistSet {
			allArtists[id] = struct{}{}
		}
		idx.TracksAllArtists[tid] = allArtists

		idx.AlbumsTracks[albumID] = append(idx.AlbumsTracks[albumID], tid)

		for _, name := range t.Metadata.Tags.AlbumArtists {
			ai := ArtistInfos{Name: name}
			aid := ai.ID()
			artistsInfos[aid] = ai
			albumArtistsInfos[aid] = ai
			if albumArtistAlbums[aid] == nil {
				albumArtistAlbums[aid] = make(map[ids.AlbumID]AlbumInfos)
			}
			albumArtistAlbums[aid][albumID] = album
			idx.ArtistsAlbumTracks[aid] = append(idx.ArtistsAlbumTracks[aid], tid)
		}
		for _, name := range t.Metadata.Tags.Artists {
			ai := ArtistInfos{Name: name}
			aid := ai.ID()
			artistsInfos[aid] = ai
			if _, isAlbumArtist := albumArtistSet[aid]; isAlbumArtist {
				continue
			}
			// Non-album-artist: track_artists \ album_artists.
			if albumArtistParticipationAlbums[aid] == nil {
				albumArtistParticipationAlbums[aid] = make(map[ids.AlbumID]AlbumInfos)
			}
			albumArtistParticipationAlbums[aid][albumID] = album
			idx.ArtistsTrackParticipations[aid] = append(idx.ArtistsTrackParticipations[aid], tid)
		}

		for _, gname := range t.Metadata.Tags.Genres {
			gi := GenreInfos{Name: gname}
			gid := gi.ID()
			genresInfos[gid] = gi
			idx.GenresTracks[gid] = append(idx.GenresTracks[gid], tid)
			idx.AlbumsGenres[albumID] = append(idx.AlbumsGenres[albumID], gid)
		}
		if len(t.Metadata.Tags.Genres) == 0 {
			idx.NoGenreTracks = append(idx.NoGenreTracks, tid)
		}

		if t.Metadata.Tags.Rating != nil {
			albumRatings[albumID] = append(albumRatings[albumID], *t.Metadata.Tags.Rating)
			for aid := range albumArtistSet {
				artistRatings[aid] = append(artistRatings[aid], *t.Metadata.Tags.Rating)
			}
		}

		touched := t.MTime
		if t.CTime != nil && t.CTime.Before(touched) {
			touched = *t.CTime
		}
		if cur, ok := albumMinTime[albumID]; !ok || touched.Before(cur) {
			albumMinTime[albumID] = touched
		}
	}

	// Union structures and AlbumsGenres dedup.
	for aid, albums := range albumArtistAlbums {
		idx.ArtistsAlbums[aid] = ordmapAlbums(albums)
	}
	for aid, albums := range albumArtistParticipationAlbums {
		idx.ArtistsAlbumParticipations[aid] = ordmapAlbums(albums)
	}
	for aid := range artistsInfos {
		union := make(map[ids.AlbumID]AlbumInfos)
		for aid2, info := range albumArtistAlbums[aid] {
			union[aid2] = info
		}
		for aid2, info := range albumArtistParticipationAlbums[aid] {
			union[aid2] = info
		}
		idx.ArtistsAlbumsAndParticipations[aid] = ordmapAlbums(union)

		combined := append(append([]ids.TrackID{}, idx.ArtistsAlbumTracks[aid]...), idx.ArtistsTrackParticipations[aid]...)
		sortTracksNatural(combined, tracksMap)
		idx.ArtistsTracksAndParticipations[aid] = combined
	}

	for albumID, genres := range idx.AlbumsGenres {
		idx.AlbumsGenres[albumID] = dedupGenres(genres)
	}

	// Step 4: per-album track order.
	for albumID, trackIDs := range idx.AlbumsTracks {
		cp := append([]ids.TrackID{}, trackIDs...)
		sortTracksNatural(cp, tracksMap)
		idx.AlbumsTracks[albumID] = cp
	}
	for aid, trackIDs := range idx.ArtistsAlbumTracks {
		cp := append([]ids.TrackID{}, trackIDs...)
		sortTracksNatural(cp, tracksMap)
		idx.ArtistsAlbumTracks[aid] = cp
	}
	for aid, trackIDs := range idx.ArtistsTrackParticipations {
		cp := append([]ids.TrackID{}, trackIDs...)
		sortTracksNatural(cp, tracksMap)
		idx.ArtistsTrackParticipations[aid] = cp
	}

	// Step 6: most recent albums, descending by min(ctime??mtime).
	idx.MostRecentAlbums = make([]ids.AlbumID, 0, len(albumsInfos))
	for albumID := range albumsInfos {
		idx.MostRecentAlbums = append(idx.MostRecentAlbums, albumID)
	}
	sortAlbumsByRecency(idx.MostRecentAlbums, albumMinTime)

	// Step 7: mean scores, omitting unrated items.
	for albumID, ratings := range albumRatings {
		if len(ratings) > 0 {
			idx.AlbumsMeanScore[albumID] = mean(ratings)
		}
	}
	for aid, ratings := range artistRatings {
		if len(ratings) > 0 {
			idx.AlbumArtistsMeanScore[aid] = mean(ratings)
		}
	}

	idx.AlbumsInfos = ordmap.New(toAlbumEntries(albumsInfos), func(a, b AlbumInfos) bool {
		return a.Name < b.Name || (a.Name == b.Name && a.ID() < b.ID())
	})
	idx.ArtistsInfos = ordmap.New(toArtistEntries(artistsInfos), func(a, b ArtistInfos) bool { return a.Name < b.Name })
	idx.AlbumArtistsInfos = ordmap.New(toArtistEntries(albumArtistsInfos), func(a, b ArtistInfos) bool { return a.Name < b.Name })
	idx.GenresInfos = ordmap.New(toGenreEntries(genresInfos), func(a, b GenreInfos) bool { return a.Name < b.Name })

	for gid := range genresInfos {
		seen := make(map[ids.AlbumID]struct{})
		var albumsList []ids.AlbumID
		for _, tid := range idx.GenresTracks[gid] {
			t, _ := tracksMap.Get(tid)
			a := AlbumInfos{Name: t.Metadata.Tags.Album, AlbumArtists: t.Metadata.Tags.AlbumArtists}
			aid := a.ID()
			if _, ok := seen[aid]; ok {
				continue
			}
			seen[aid] = struct{}{}
			albumsList = append(albumsList, aid)
		}
		idx.GenresAlbums[gid] = albumsList
	}

	return idx
}

func ordmapAlbums(m map[ids.AlbumID]AlbumInfos) *ordmap.Map[ids.AlbumID, AlbumInfos] {
	entries := make([]ordmap.Entry[ids.AlbumID, AlbumInfos], 0, len(m))
	for id, info := range m {
		entries = append(entries, ordmap.Entry[ids.AlbumID, AlbumInfos]{Key: id, Value: info})
	}
	return ordmap.New(entries, func(a, b AlbumInfos) bool {
		return a.Name < b.Name || (a.Name == b.Name && a.ID() < b.ID())
	})
}

func toAlbumEntries(m map[ids.AlbumID]AlbumInfos) []ordmap.Entry[ids.AlbumID, AlbumInfos] {
	out := make([]ordmap.Entry[ids.AlbumID, AlbumInfos], 0, len(m))
	for id, info := range m {
		out = append(out, ordmap.Entry[ids.AlbumID, AlbumInfos]{Key: id, Value: info})
	}
	return out
}

func toArtistEntries(m map[ids.ArtistID]ArtistInfos) []ordmap.Entry[ids.ArtistID, ArtistInfos] {
	out := make([]ordmap.Entry[ids.ArtistID, ArtistInfos], 0, len(m))
	for id, info := range m {
		out = append(out, ordmap.Entry[ids.ArtistID, ArtistInfos]{Key: id, Value: info})
	}
	return out
}

func toGenreEntries(m map[ids.GenreID]GenreInfos) []ordmap.Entry[ids.GenreID, GenreInfos] {
	out := make([]ordmap.Entry[ids.GenreID, GenreInfos], 0, len(m))
	for id, info := range m {
		out = append(out, ordmap.Entry[ids.GenreID, GenreInfos]{Key: id, Value: info})
	}
	return out
}

func dedupGenres(genres []ids.GenreID) []ids.GenreID {
	seen := make(map[ids.GenreID]struct{}, len(genres))
	out := make([]ids.GenreID, 0, len(genres))
	for _, g := range genres {
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	return out
}

func sortTracksNatural(trackIDs []ids.TrackID, tracks *ordmap.Map[ids.TrackID, Track]) {
	sort.Slice(trackIDs, func(i, j int) bool {
		ti, _ := tracks.Get(trackIDs[i])
		tj, _ := tracks.Get(trackIDs[j])
		return lessNatural(ti, tj)
	})
}

func sortAlbumsByRecency(albumIDs []ids.AlbumID, minTime map[ids.AlbumID]time.Time) {
	sort.Slice(albumIDs, func(i, j int) bool {
		ti, tj := minTime[albumIDs[i]], minTime[albumIDs[j]]
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return albumIDs[i] < albumIDs[j]
	})
}

func mean(xs []int) float64 {
	sum := 0
	for _, x := range xs {
		sum += x
	}
	return float64(sum) / float64(len(xs))
}
