// Package render draws a segmentation over its strokes as a PNG, for
// eyeballing what the search grouped together.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/mathboard/mathboard/segment"
	"github.com/mathboard/mathboard/stroke"
)

// Palette colors hypothesis boxes in turn.
var Palette = []color.RGBA{
	{R: 0xe6, G: 0x19, B: 0x4b, A: 0xff},
	{R: 0x3c, G: 0xb4, B: 0x4b, A: 0xff},
	{R: 0x43, G: 0x63, B: 0xd8, A: 0xff},
	{R: 0xf5, G: 0x82, B: 0x31, A: 0xff},
	{R: 0x91, G: 0x1e, B: 0xb4, A: 0xff},
	{R: 0x46, G: 0xf0, B: 0xf0, A: 0xff},
}

// Margin is the blank border around the ink, in pixels. Labels are drawn
// inside it when a box touches the top edge.
const Margin = 16

var (
	background = color.White
	ink        = color.Black
)

// Overlay paints the strokes in black and frames every hypothesis of group
// with a colored box and its label.
func Overlay(arena stroke.Arena, group segment.Group) *image.RGBA {
	ext := arena.Bounds()
	origin := image.Pt(int(math.Floor(ext.Min.X))-Margin, int(math.Floor(ext.Min.Y))-Margin)
	size := image.Pt(int(math.Ceil(ext.Max.X))+Margin, int(math.Ceil(ext.Max.Y))+Margin).Sub(origin)

	img := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	draw.Draw(img, img.Bounds(), &image.Uniform{background}, image.Point{}, draw.Src)

	for _, s := range arena {
		paintStroke(img, s, origin)
	}
	for i, h := range group {
		c := Palette[i%len(Palette)]
		r := toImage(h.Rect, origin)
		frame(img, r, c)
		label(img, r.Min, h.Label.String(), c)
	}
	return img
}

// WritePNG encodes the overlay of group to w.
func WritePNG(w io.Writer, arena stroke.Arena, group segment.Group) error {
	return png.Encode(w, Overlay(arena, group))
}

func toImage(r stroke.Rect, origin image.Point) image.Rectangle {
	return image.Rect(
		int(math.Floor(r.Min.X)), int(math.Floor(r.Min.Y)),
		int(math.Ceil(r.Max.X)), int(math.Ceil(r.Max.Y)),
	).Sub(origin)
}

func paintStroke(dst *image.RGBA, s stroke.Stroke, origin image.Point) {
	if s.Raster == nil {
		return
	}
	src := s.Raster
	sb := src.Bounds()
	off := image.Pt(int(math.Round(s.Position.X)), int(math.Round(s.Position.Y))).Sub(origin)
	mask := &image.Alpha{Pix: src.Pix, Stride: src.Stride, Rect: sb}
	r := image.Rectangle{Min: off, Max: off.Add(sb.Size())}
	draw.DrawMask(dst, r, &image.Uniform{ink}, image.Point{}, mask, sb.Min, draw.Over)
}

func frame(dst *image.RGBA, r image.Rectangle, c color.RGBA) {
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		dst.SetRGBA(x, r.Min.Y, c)
		dst.SetRGBA(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		dst.SetRGBA(r.Min.X, y, c)
		dst.SetRGBA(r.Max.X-1, y, c)
	}
}

func label(dst *image.RGBA, at image.Point, text string, c color.RGBA) {
	face := basicfont.Face7x13
	y := at.Y - 2
	if y-face.Ascent < 0 {
		y = at.Y + face.Ascent + 1
	}
	d := &font.Drawer{
		Dst:  dst,
		Src:  &image.Uniform{c},
		Face: face,
		Dot:  fixed.P(at.X+1, y),
	}
	d.DrawString(text)
}
