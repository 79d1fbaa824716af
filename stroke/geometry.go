package stroke

import "math"

// Point is a position on the board in pixels.
type Point struct {
	X, Y float64
}

// Size is a width/height pair in pixels.
type Size struct {
	Width, Height float64
}

// Rect is an axis-aligned rectangle. Min is the top-left corner and Max the
// bottom-right one; Max is exclusive.
type Rect struct {
	Min, Max Point
}

// NewRect builds a rectangle from its top-left corner and size.
func NewRect(x, y, width, height float64) Rect {
	return Rect{Min: Point{x, y}, Max: Point{x + width, y + height}}
}

func (r Rect) Width() float64  { return r.Max.X - r.Min.X }
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Max.X <= r.Min.X || r.Max.Y <= r.Min.Y
}

// Area returns width*height, or 0 for empty rectangles.
func (r Rect) Area() float64 {
	if r.Empty() {
		return 0
	}
	return r.Width() * r.Height()
}

// Intersect returns the largest rectangle contained by both r and o.
func (r Rect) Intersect(o Rect) Rect {
	res := Rect{
		Min: Point{math.Max(r.Min.X, o.Min.X), math.Max(r.Min.Y, o.Min.Y)},
		Max: Point{math.Min(r.Max.X, o.Max.X), math.Min(r.Max.Y, o.Max.Y)},
	}
	if res.Empty() {
		return Rect{}
	}
	return res
}

// Overlaps reports whether r and o share a region of positive area.
// Rectangles that only touch along an edge do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.Intersect(o).Area() != 0
}

// Union returns the smallest rectangle containing both r and o. An empty
// operand is ignored.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	return Rect{
		Min: Point{math.Min(r.Min.X, o.Min.X), math.Min(r.Min.Y, o.Min.Y)},
		Max: Point{math.Max(r.Max.X, o.Max.X), math.Max(r.Max.Y, o.Max.Y)},
	}
}

// ContainsPoint reports whether p lies in r: the top and left edges are
// inside, the bottom and right edges are not.
func (r Rect) ContainsPoint(p Point) bool {
	return r.Min.X <= p.X && p.X < r.Max.X &&
		r.Min.Y <= p.Y && p.Y < r.Max.Y
}

// Contains reports whether both corners of o lie inside r.
func (r Rect) Contains(o Rect) bool {
	return r.ContainsPoint(o.Min) && r.ContainsPoint(o.Max)
}

// Nested reports whether either rectangle contains the other.
func Nested(a, b Rect) bool {
	return a.Contains(b) || b.Contains(a)
}
