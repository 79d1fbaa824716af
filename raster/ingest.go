package raster

import (
	"image"
	"math"

	"github.com/pkg/errors"

	"github.com/mathboard/mathboard/encoding/rm"
	"github.com/mathboard/mathboard/log"
	"github.com/mathboard/mathboard/stroke"
)

// IngestOptions control how vector lines become stroke rasters.
type IngestOptions struct {
	// BrushScale multiplies the nominal brush size to get the ink width.
	BrushScale float64
	// MinWidth is the smallest ink width in pixels.
	MinWidth float64
}

// DefaultIngestOptions matches fineliner ink at device resolution.
func DefaultIngestOptions() IngestOptions {
	return IngestOptions{BrushScale: 2, MinWidth: 2}
}

// ErrNoInk is returned for a page without drawable lines.
var ErrNoInk = errors.New("raster: page has no drawable lines")

// FromRm turns every drawable line of a page into a stroke. Stroke IDs are
// assigned in file order starting at 0.
func FromRm(page *rm.Rm, opts IngestOptions) (stroke.Arena, error) {
	if opts.BrushScale <= 0 {
		opts.BrushScale = DefaultIngestOptions().BrushScale
	}

	var arena stroke.Arena
	skipped := 0
	for _, line := range page.Lines() {
		if !line.BrushType.Drawable() || len(line.Points) == 0 {
			skipped++
			continue
		}
		path := make([]stroke.Point, 0, len(line.Points))
		for _, p := range line.Points {
			path = append(path, stroke.Point{X: float64(p.X), Y: float64(p.Y)})
		}
		width := math.Max(float64(line.BrushSize)*opts.BrushScale, opts.MinWidth)
		arena = append(arena, FromPath(stroke.ID(len(arena)), path, width))
	}

	log.Trace.Printf("FromRm: %d strokes, %d lines skipped", len(arena), skipped)
	if len(arena) == 0 {
		return nil, ErrNoInk
	}
	return arena, nil
}

// FromPath rasterizes a polyline of the given ink width into a stroke whose
// position is the top-left corner of the ink.
func FromPath(id stroke.ID, path []stroke.Point, width float64) stroke.Stroke {
	r := width / 2
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range path {
		minX, minY = math.Min(minX, p.X), math.Min(minY, p.Y)
		maxX, maxY = math.Max(maxX, p.X), math.Max(maxY, p.Y)
	}
	origin := stroke.Point{X: math.Floor(minX - r), Y: math.Floor(minY - r)}
	w := int(math.Ceil(maxX+r-origin.X)) + 1
	h := int(math.Ceil(maxY+r-origin.Y)) + 1

	g := image.NewGray(image.Rect(0, 0, w, h))
	for i := range path {
		a := path[i]
		b := a
		if i+1 < len(path) {
			b = path[i+1]
		}
		drawSegment(g, a.X-origin.X, a.Y-origin.Y, b.X-origin.X, b.Y-origin.Y, r)
	}

	s := stroke.New(id, origin, g)
	s.Path = path
	return s
}

// drawSegment inks every pixel whose center lies within r of segment ab.
func drawSegment(g *image.Gray, ax, ay, bx, by, r float64) {
	x0 := int(math.Max(0, math.Floor(math.Min(ax, bx)-r)))
	y0 := int(math.Max(0, math.Floor(math.Min(ay, by)-r)))
	x1 := int(math.Min(float64(g.Rect.Dx()-1), math.Ceil(math.Max(ax, bx)+r)))
	y1 := int(math.Min(float64(g.Rect.Dy()-1), math.Ceil(math.Max(ay, by)+r)))

	dx, dy := bx-ax, by-ay
	l2 := dx*dx + dy*dy
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5
			t := 0.0
			if l2 > 0 {
				t = math.Max(0, math.Min(1, ((px-ax)*dx+(py-ay)*dy)/l2))
			}
			ex, ey := ax+t*dx-px, ay+t*dy-py
			if ex*ex+ey*ey <= r*r {
				g.Pix[y*g.Stride+x] = 0xff
			}
		}
	}
}
