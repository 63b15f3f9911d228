package arts

import (
	"image"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	l "github.com/sirupsen/logrus"

	"hify/internal/catalog"
	"hify/internal/ids"
	"hify/internal/resources"
	"hify/internal/taskset"
)

var log *l.Entry = l.WithFields(l.Fields{"pkg": "arts"})

// GenerateAlbumArt re-encodes each album's cover (idx.AlbumArts, populated
// by FindAlbumCovers) to WebP at three constrained sizes and registers it
// with res, skipping albums whose source hash is unchanged. Albums that had
// a cover in prior.AlbumArts but have none in idx.AlbumArts (albums no
// longer present included) have their entries deleted from res.
func GenerateAlbumArt(idx *catalog.Index, prior *catalog.Index, res *resources.Manager) []error {
	ts := taskset.New[struct{}]()
	for albumID, coverPath := range idx.AlbumArts {
		albumID, coverPath := albumID, coverPath
		ts.Add(func() (struct{}, error) {
			return struct{}{}, generateOneAlbumArt(albumID, coverPath, res)
		})
	}

	if prior != nil {
		for albumID := range prior.AlbumArts {
			if _, ok := idx.AlbumArts[albumID]; ok {
				continue
			}
			if res.Has(albumID.String()) {
				if err := res.DeleteArts(albumID.String()); err != nil {
					log.Warnf("failed to delete stale album art for %s: %v", albumID, err)
				}
			}
		}
	}

	return collectErrors(ts.Run(taskset.Options{}))
}

func generateOneAlbumArt(albumID ids.AlbumID, coverPath string, res *resources.Manager) error {
	info, err := os.Stat(coverPath)
	if err != nil {
		return errors.Wrapf(err, "stat cover %q", coverPath)
	}
	sourceHash := ids.HashFile(coverPath, info.ModTime().UnixNano(), info.Size())

	return res.RegisterArt(albumID.String(), sourceHash, func(dir string) error {
		src, err := loadRGB(coverPath)
		if err != nil {
			return err
		}
		sizes := []struct {
			derivative resources.Derivative
			sidePx     int
		}{
			{resources.Large, LargeArtSidePx},
			{resources.Medium, MediumArtSidePx},
			{resources.Small, SmallArtSidePx},
		}
		for _, s := range sizes {
			if err := saveWebP(resizeConstraint(src, s.sidePx), filepath.Join(dir, string(s.derivative))); err != nil {
				return err
			}
		}
		return nil
	})
}

// generateOneAlbumArt's write callback receives a directory (Manager's
// versioned layout); generateOneArtistArt's receives the exact target file
// path (Manager's flat layout) — see resources.Manager.RegisterArt.

// GenerateArtistArt assembles a mosaic for every artist in
// idx.ArtistsAlbumsAndParticipations from up to four of its albums' large
// covers (in that map's order) and registers the result with res.
func GenerateArtistArt(idx *catalog.Index, res *resources.Manager) []error {
	ts := taskset.New[struct{}]()
	for artistID := range idx.ArtistsAlbumsAndParticipations {
		artistID := artistID
		ts.Add(func() (struct{}, error) {
			return struct{}{}, generateOneArtistArt(artistID, idx, res)
		})
	}
	return collectErrors(ts.Run(taskset.Options{}))
}

func generateOneArtistArt(artistID ids.ArtistID, idx *catalog.Index, res *resources.Manager) error {
	albums := idx.ArtistsAlbumsAndParticipations[artistID]
	if albums == nil {
		return nil
	}

	var coverPaths []string
	for _, albumID := range albums.Keys() {
		path, ok := res.Path(albumID.String(), resources.Large)
		if !ok {
			continue
		}
		coverPaths = append(coverPaths, path)
		if len(coverPaths) == 4 {
			break
		}
	}
	if len(coverPaths) == 0 {
		return nil
	}

	sourceHash := ids.HashPaths(coverPaths)
	return res.RegisterArt(artistID.String(), sourceHash, func(target string) error {
		images := make([]image.Image, 0, len(coverPaths))
		for _, p := range coverPaths {
			img, err := loadRGB(p)
			if err != nil {
				return err
			}
			images = append(images, img)
		}
		mosaic, err := assembleMosaic(images)
		if err != nil {
			return err
		}
		return saveWebP(mosaic, target)
	})
}

func collectErrors(results []taskset.Result[struct{}]) []error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errs
}
