// Package search builds three in-memory inverted indexes (tracks, albums,
// artists) over a catalog.Index and answers free-text queries against
// them, with a small per-query result cache invalidated on every Index
// swap. Grounded on original_source/hify-server/src/index/search.rs, which
// built the same three-index split over tantivy; this port uses
// github.com/blevesearch/bleve/v2, the full-text library the rest of the
// example pack reaches for.
package search

import (
	"sort"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/pkg/errors"

	"hify/internal/catalog"
	"hify/internal/ids"
)

const (
	baseRAMBytes       = 3_000_000
	ramBytesPerTrack   = 1_000
	defaultResultLimit = 100
)

// doc is the flat document shape indexed for every entity kind; unused
// fields are left zero.
type doc struct {
	ID      string
	Title   string
	Album   string
	Artists string
}

// Engine holds the three per-kind indexes built from one catalog.Index
// snapshot.
type Engine struct {
	tracks  bleve.Index
	albums  bleve.Index
	artists bleve.Index

	mu    sync.Mutex
	cache map[string]Results
}

// Results is the per-kind set of matching ids, each already ordered.
type Results struct {
	Tracks  []ids.TrackID
	Albums  []ids.AlbumID
	Artists []ids.ArtistID
}

// Build constructs an Engine from idx. A memory budget scaling with track
// count is computed, mirroring the original's
// BASE_RAM_AMOUNT + RAM_AMOUNT_PER_TRACK × len(tracks) writer budget, but
// it is not passed to bleve: bleve's in-memory index has no equivalent
// knob, so the value is discarded.
func Build(idx *catalog.Index) (*Engine, error) {
	_ = baseRAMBytes + ramBytesPerTrack*idx.Tracks.Len() // memory-budget heuristic, see doc comment

	tracksIdx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, errors.Wrap(err, "search: building track index")
	}
	for _, tid := range idx.Tracks.Keys() {
		t, _ := idx.Tracks.Get(tid)
		d := doc{
			ID:      tid.String(),
			Title:   t.Metadata.Tags.Title,
			Album:   t.Metadata.Tags.Album,
			Artists: strings.Join(t.Metadata.Tags.Artists, " "),
		}
		if err := tracksIdx.Index(tid.String(), d); err != nil {
			return nil, errors.Wrapf(err, "search: indexing track %s", tid)
		}
	}

	albumsIdx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, errors.Wrap(err, "search: building album index")
	}
	for _, aid := range idx.AlbumsInfos.Keys() {
		a, _ := idx.AlbumsInfos.Get(aid)
		d := doc{ID: aid.String(), Album: a.Name, Artists: strings.Join(a.AlbumArtists, " ")}
		if err := albumsIdx.Index(aid.String(), d); err != nil {
			return nil, errors.Wrapf(err, "search: indexing album %s", aid)
		}
	}

	artistsIdx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, errors.Wrap(err, "search: building artist index")
	}
	for _, arid := range idx.ArtistsInfos.Keys() {
		ar, _ := idx.ArtistsInfos.Get(arid)
		d := doc{ID: arid.String(), Artists: ar.Name}
		if err := artistsIdx.Index(arid.String(), d); err != nil {
			return nil, errors.Wrapf(err, "search: indexing artist %s", arid)
		}
	}

	return &Engine{
		tracks:  tracksIdx,
		albums:  albumsIdx,
		artists: artistsIdx,
		cache:   make(map[string]Results),
	}, nil
}

// normalize is the cache key for a raw query: trimmed and case-folded.
func normalize(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// Search answers a free-text query across all three indexes, capped at
// limit results per kind. The empty query (or a pair of empty quotes, the
// UI's "browse all" sentinel) returns the first limit items in catalog
// order rather than running a ranked search.
func (e *Engine) Search(idx *catalog.Index, query string, limit int) (Results, error) {
	if limit <= 0 {
		limit = defaultResultLimit
	}
	key := normalize(query)

	e.mu.Lock()
	if cached, ok := e.cache[key]; ok {
		e.mu.Unlock()
		return cached, nil
	}
	e.mu.Unlock()

	var results Results
	var err error
	if key == "" || key == `""` {
		results = browseAll(idx, limit)
	} else {
		results, err = e.rankedSearch(query, limit)
		if err != nil {
			return Results{}, err
		}
	}

	e.mu.Lock()
	e.cache[key] = results
	e.mu.Unlock()
	return results, nil
}

func browseAll(idx *catalog.Index, limit int) Results {
	var r Results
	for i, tid := range idx.Tracks.Keys() {
		if i >= limit {
			break
		}
		r.Tracks = append(r.Tracks, tid)
	}
	for i, aid := range idx.AlbumsInfos.Keys() {
		if i >= limit {
			break
		}
		r.Albums = append(r.Albums, aid)
	}
	for i, arid := range idx.ArtistsInfos.Keys() {
		if i >= limit {
			break
		}
		r.Artists = append(r.Artists, arid)
	}
	return r
}

func (e *Engine) rankedSearch(query string, limit int) (Results, error) {
	trackIDs, err := search[ids.TrackID](e.tracks, query, limit, ids.ParseTrackID)
	if err != nil {
		return Results{}, err
	}
	albumIDs, err := search[ids.AlbumID](e.albums, query, limit, ids.ParseAlbumID)
	if err != nil {
		return Results{}, err
	}
	artistIDs, err := search[ids.ArtistID](e.artists, query, limit, ids.ParseArtistID)
	if err != nil {
		return Results{}, err
	}
	return Results{Tracks: trackIDs, Albums: albumIDs, Artists: artistIDs}, nil
}

func search[T any](index bleve.Index, query string, limit int, parse func(string) (T, error)) ([]T, error) {
	q := bleve.NewQueryStringQuery(query)
	req := bleve.NewSearchRequest(q)
	req.Size = limit

	result, err := index.Search(req)
	if err != nil {
		return nil, errors.Wrap(err, "search: query failed")
	}

	out := make([]T, 0, len(result.Hits))
	for _, hit := range result.Hits {
		id, err := parse(hit.ID)
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return out, nil
}

// InvalidateCache drops every cached query result. serving.State.Swap does
// not call it: a swap installs a freshly built Engine, whose cache starts
// empty.
func (e *Engine) InvalidateCache() {
	e.mu.Lock()
	e.cache = make(map[string]Results)
	e.mu.Unlock()
}

// SortTracksByRating reorders trackIDs descending by the track's own
// rating tag (unrated tracks sort last), the optional tie-break the spec
// allows a caller to apply to a tracks search result before truncating to
// its limit.
func SortTracksByRating(idx *catalog.Index, trackIDs []ids.TrackID) []ids.TrackID {
	out := append([]ids.TrackID{}, trackIDs...)
	rating := func(id ids.TrackID) int {
		t, ok := idx.Tracks.Get(id)
		if !ok || t.Metadata.Tags.Rating == nil {
			return -1
		}
		return *t.Metadata.Tags.Rating
	}
	sort.SliceStable(out, func(i, j int) bool { return rating(out[i]) > rating(out[j]) })
	return out
}
