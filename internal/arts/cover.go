package arts

import (
	"os"
	"path/filepath"
	"strings"

	"hify/internal/catalog"
	"hify/internal/ids"
)

var coverFilenames = []string{"cover", "folder"}
var coverExtensions = []string{"jpg", "jpeg", "jfif", "png"}

// FindAlbumCovers resolves, for every album in idx, the first directory,
// starting at its first track's own directory and walking up through its
// ancestors, containing a file named {cover,folder}.{jpg,jpeg,jfif,png}
// (matched case-insensitively). Albums with no match are omitted from the result,
// mirroring original_source's find_albums_arts, which logs a warning and
// moves on rather than failing the batch.
func FindAlbumCovers(baseDir string, idx *catalog.Index) map[ids.AlbumID]string {
	found := make(map[ids.AlbumID]string)
	for albumID, trackIDs := range idx.AlbumsTracks {
		if len(trackIDs) == 0 {
			continue
		}
		track, ok := idx.Tracks.Get(trackIDs[0])
		if !ok {
			continue
		}
		trackPath := filepath.Join(baseDir, track.RelativePath)
		trackDir := filepath.Dir(trackPath)
		if cover, ok := findCoverAbove(trackDir); ok {
			found[albumID] = cover
		}
	}
	return found
}

// findCoverAbove walks dir and its ancestors, stopping at filesystem root,
// looking for a cover file in each.
func findCoverAbove(dir string) (string, bool) {
	for {
		if path, ok := findCoverIn(dir); ok {
			return path, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func findCoverIn(dir string) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	for _, name := range coverFilenames {
		for _, ext := range coverExtensions {
			want := name + "." + ext
			for _, e := range entries {
				if e.IsDir() {
					continue
				}
				if strings.EqualFold(e.Name(), want) {
					return filepath.Join(dir, e.Name()), true
				}
			}
		}
	}
	return "", false
}
