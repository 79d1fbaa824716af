// Package raster composes stroke rasters into classifier input and turns
// vector ink into stroke rasters.
package raster

import (
	"image"
	"math"

	"github.com/nfnt/resize"

	"github.com/mathboard/mathboard/stroke"
)

// MNISTSize is the side of the square raster the digit classifier expects.
const MNISTSize = 28

// Merge draws the strokes at the given arena indices into one raster that
// covers the union of their bounding boxes. Overlapping samples keep the
// brightest value.
func Merge(arena stroke.Arena, idx []int) *image.Gray {
	bb := arena.BoundingBox(idx)
	origin := image.Pt(int(math.Floor(bb.Min.X)), int(math.Floor(bb.Min.Y)))
	w := int(math.Ceil(bb.Max.X)) - origin.X
	h := int(math.Ceil(bb.Max.Y)) - origin.Y
	if w <= 0 || h <= 0 {
		return image.NewGray(image.Rect(0, 0, 1, 1))
	}
	dst := image.NewGray(image.Rect(0, 0, w, h))

	for _, i := range idx {
		s := arena[i]
		if s.Raster == nil {
			continue
		}
		src := s.Raster
		off := image.Pt(int(math.Round(s.Position.X)), int(math.Round(s.Position.Y))).Sub(origin)
		sb := src.Bounds()
		for y := sb.Min.Y; y < sb.Max.Y; y++ {
			dy := y - sb.Min.Y + off.Y
			if dy < 0 || dy >= h {
				continue
			}
			srow := src.Pix[(y-sb.Min.Y)*src.Stride:]
			drow := dst.Pix[dy*dst.Stride:]
			for x := sb.Min.X; x < sb.Max.X; x++ {
				dx := x - sb.Min.X + off.X
				if dx < 0 || dx >= w {
					continue
				}
				if v := srow[x-sb.Min.X]; v > drow[dx] {
					drow[dx] = v
				}
			}
		}
	}
	return dst
}

// ToMNIST scales img to a size x size gray raster with bicubic
// interpolation. Aspect ratio is not preserved.
func ToMNIST(img image.Image, size int) *image.Gray {
	if size <= 0 {
		size = MNISTSize
	}
	scaled := resize.Resize(uint(size), uint(size), img, resize.Bicubic)

	if g, ok := scaled.(*image.Gray); ok && g.Rect.Min == (image.Point{}) {
		return g
	}
	b := scaled.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			out.Set(x, y, scaled.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return out
}

// Composer merges strokes and scales the result for the classifier.
type Composer struct {
	Size int
}

// Compose implements the merge step of the segmentation search.
func (c Composer) Compose(arena stroke.Arena, idx []int) image.Image {
	return ToMNIST(Merge(arena, idx), c.Size)
}
