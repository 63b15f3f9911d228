// Package arts locates album cover source files, assembles artist mosaics
// from them, and re-encodes everything to WebP at the three sizes the
// serving layer streams. Grounded on
// original_source/hify-server/src/arts/{tools,albums,artists,generate}.rs;
// resizing uses github.com/disintegration/imaging's Lanczos filter (the
// closest Go equivalent of the original's image::imageops::FilterType::
// Lanczos3), WebP encoding uses github.com/chai2010/webp.
package arts

import (
	"image"
	"os"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

const (
	LargeArtSidePx  = 2000
	MediumArtSidePx = 500
	SmallArtSidePx  = 200
	mosaicCanvasPx  = 2000
	mosaicTilePx    = 1000
)

// resizeConstraint scales img down so its longest side is at most sidePx,
// preserving aspect ratio; images already within the constraint are
// returned unchanged.
func resizeConstraint(img image.Image, sidePx int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= sidePx && h <= sidePx {
		return img
	}
	if w >= h {
		return imaging.Resize(img, sidePx, 0, imaging.Lanczos)
	}
	return imaging.Resize(img, 0, sidePx, imaging.Lanczos)
}

// saveWebP re-encodes img as WebP (quality 70, matching the original's
// fixed encoder quality) and writes it to path.
func saveWebP(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %q", path)
	}
	defer f.Close()

	if err := webp.Encode(f, img, &webp.Options{Quality: 70}); err != nil {
		return errors.Wrapf(err, "encoding %q as webp", path)
	}
	return nil
}

// loadRGB opens path and returns the decoded image as-is; an alpha channel,
// if the source has one, is kept.
func loadRGB(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening image %q", path)
	}
	return img, nil
}

// assembleMosaic builds a mosaicCanvasPx square canvas from up to four
// source images, tiling per the original's TL/TR/BL/BR rules:
//   - 1 image:  constrained to the canvas size, no tiling.
//   - 2 images: TL=A, TR=B, BL=B, BR=A.
//   - 3 images: TL=A, TR=B, BL=C, BR=A.
//   - 4+ images: TL/TR/BL/BR of the first four, in order.
func assembleMosaic(sources []image.Image) (image.Image, error) {
	switch len(sources) {
	case 0:
		return nil, errors.New("arts: cannot assemble mosaic from zero images")
	case 1:
		return resizeConstraint(sources[0], mosaicCanvasPx), nil
	case 2:
		return tile(sources[0], sources[1], sources[1], sources[0]), nil
	case 3:
		return tile(sources[0], sources[1], sources[2], sources[0]), nil
	default:
		return tile(sources[0], sources[1], sources[2], sources[3]), nil
	}
}

func tile(topLeft, topRight, bottomLeft, bottomRight image.Image) image.Image {
	canvas := imaging.New(mosaicCanvasPx, mosaicCanvasPx, image.White)
	resize := func(img image.Image) image.Image {
		return imaging.Resize(img, mosaicTilePx, mosaicTilePx, imaging.Lanczos)
	}
	canvas = imaging.Paste(canvas, resize(topLeft), image.Pt(0, 0))
	canvas = imaging.Paste(canvas, resize(topRight), image.Pt(mosaicTilePx, 0))
	canvas = imaging.Paste(canvas, resize(bottomLeft), image.Pt(0, mosaicTilePx))
	canvas = imaging.Paste(canvas, resize(bottomRight), image.Pt(mosaicTilePx, mosaicTilePx))
	return canvas
}
