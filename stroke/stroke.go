package stroke

import (
	"errors"
	"fmt"
	"image"
)

// ErrDuplicateID is returned when two strokes in one arena share an ID.
var ErrDuplicateID = errors.New("stroke: duplicate stroke id")

// ID identifies a stroke for the lifetime of one recognition request.
type ID uint32

// Stroke is a positioned raster patch of ink. A stroke is created once at
// ingestion and never mutated; the raster is shared read-only.
type Stroke struct {
	ID       ID
	Position Point
	Raster   *image.Gray
	// Path is the source polyline in board coordinates, when known.
	Path []Point

	ink image.Rectangle
}

// New builds a stroke and computes the bounding box of its ink, i.e. of
// every raster sample above zero.
func New(id ID, position Point, raster *image.Gray) Stroke {
	return Stroke{
		ID:       id,
		Position: position,
		Raster:   raster,
		ink:      inkBounds(raster),
	}
}

// Equal compares strokes by ID only.
func (s Stroke) Equal(o Stroke) bool {
	return s.ID == o.ID
}

// BoundingBox returns the ink bounds in board coordinates.
func (s Stroke) BoundingBox() Rect {
	if s.ink.Empty() {
		return Rect{Min: s.Position, Max: s.Position}
	}
	origin := image.Point{}
	if s.Raster != nil {
		origin = s.Raster.Rect.Min
	}
	min := s.ink.Min.Sub(origin)
	max := s.ink.Max.Sub(origin)
	return Rect{
		Min: Point{s.Position.X + float64(min.X), s.Position.Y + float64(min.Y)},
		Max: Point{s.Position.X + float64(max.X), s.Position.Y + float64(max.Y)},
	}
}

// Size returns the size of the ink bounding box.
func (s Stroke) Size() Size {
	return Size{Width: float64(s.ink.Dx()), Height: float64(s.ink.Dy())}
}

func (s Stroke) String() string {
	bb := s.BoundingBox()
	return fmt.Sprintf("stroke %d @(%.1f,%.1f) %.0fx%.0f", s.ID, bb.Min.X, bb.Min.Y, bb.Width(), bb.Height())
}

func inkBounds(g *image.Gray) image.Rectangle {
	if g == nil {
		return image.Rectangle{}
	}
	b := g.Bounds()
	ink := image.Rectangle{}
	found := false
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := g.Pix[(y-b.Min.Y)*g.Stride:]
		for x := b.Min.X; x < b.Max.X; x++ {
			if row[x-b.Min.X] == 0 {
				continue
			}
			px := image.Rect(x, y, x+1, y+1)
			if !found {
				ink = px
				found = true
			} else {
				ink = ink.Union(px)
			}
		}
	}
	return ink
}

// Arena is the caller-owned storage of every stroke of one request.
// Other components refer to strokes by their index in the arena.
type Arena []Stroke

// Validate checks that stroke IDs are unique.
func (a Arena) Validate() error {
	seen := make(map[ID]struct{}, len(a))
	for _, s := range a {
		if _, ok := seen[s.ID]; ok {
			return fmt.Errorf("%w: %d", ErrDuplicateID, s.ID)
		}
		seen[s.ID] = struct{}{}
	}
	return nil
}

// Bounds returns the union of every stroke bounding box.
func (a Arena) Bounds() Rect {
	var r Rect
	for _, s := range a {
		r = r.Union(s.BoundingBox())
	}
	return r
}

// Select returns the strokes at the given indices.
func (a Arena) Select(idx []int) []Stroke {
	res := make([]Stroke, 0, len(idx))
	for _, i := range idx {
		res = append(res, a[i])
	}
	return res
}

// IDs maps indices to stroke IDs.
func (a Arena) IDs(idx []int) []ID {
	res := make([]ID, 0, len(idx))
	for _, i := range idx {
		res = append(res, a[i].ID)
	}
	return res
}

// BoundingBox returns the union of the bounding boxes at the given indices.
func (a Arena) BoundingBox(idx []int) Rect {
	var r Rect
	for _, i := range idx {
		r = r.Union(a[i].BoundingBox())
	}
	return r
}

// Filled returns a stroke whose raster is fully inked over r. It is mostly
// useful to build synthetic boards.
func Filled(id ID, r Rect) Stroke {
	w, h := int(r.Width()), int(r.Height())
	g := image.NewGray(image.Rect(0, 0, w, h))
	for i := range g.Pix {
		g.Pix[i] = 0xff
	}
	return New(id, r.Min, g)
}
