package userdata

import (
	"io"
	"time"

	"github.com/ushis/m3u"

	"hify/internal/hifyerr"
	"hify/internal/ids"
)

// TrackLookup resolves a TrackID to the information an M3U entry needs:
// its absolute/playable path, display title and duration. Supplied by the
// caller (the serving layer) so this package stays free of any dependency
// on the catalog's track representation.
type TrackLookup func(ids.TrackID) (path, title string, length time.Duration, ok bool)

// ExportM3U writes a playlist's current track order to w in extended M3U
// format, via github.com/ushis/m3u, matching the teacher's dependency on
// this library for the same concern (playlist import/export, dropped by
// the spec distillation but implied by original_source's on-disk format
// expectations).
func ExportM3U(w io.Writer, p Playlist, lookup TrackLookup) error {
	playlist := make(m3u.Playlist, 0, len(p.Entries))
	for _, e := range p.Entries {
		path, title, length, ok := lookup(e.TrackID)
		if !ok {
			continue
		}
		playlist = append(playlist, m3u.Track{
			Path:  path,
			Title: title,
			Time:  int(length.Seconds()),
		})
	}
	if _, err := playlist.WriteTo(w); err != nil {
		return hifyerr.Wrap(hifyerr.UserData, err, "writing m3u playlist")
	}
	return nil
}

// ImportM3U reads an M3U file and resolves each entry's path to a TrackID
// via resolve, skipping entries that don't match any known track.
func ImportM3U(r io.Reader, resolve func(path string) (ids.TrackID, bool)) ([]ids.TrackID, error) {
	tracks, err := m3u.Parse(r)
	if err != nil {
		return nil, hifyerr.Wrap(hifyerr.UserData, err, "parsing m3u playlist")
	}
	out := make([]ids.TrackID, 0, len(tracks))
	for _, t := range tracks {
		if id, ok := resolve(t.Path); ok {
			out = append(out, id)
		}
	}
	return out, nil
}
