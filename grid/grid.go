// Package grid implements the broad phase of stroke segmentation: a uniform
// grid over the board in which every stroke is bucketed by its bounding box.
// Strokes that never share a cell can never overlap, so only strokes that do
// are worth testing together.
package grid

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/mathboard/mathboard/stroke"
)

var (
	// ErrInvalidCellSize is returned for a zero or negative cell size.
	ErrInvalidCellSize = errors.New("grid: cell width and height must be positive")
	// ErrInvalidBoard is returned when the board corners span no area.
	ErrInvalidBoard = errors.New("grid: bottom-right corner must lie below and right of top-left corner")
)

// Pair is an unordered pair of strokes sharing at least one cell. A < B.
type Pair struct {
	A, B stroke.ID
}

// Index buckets arena indices into grid cells. It is built once per request
// and never updated.
type Index struct {
	arena   stroke.Arena
	origin  stroke.Point
	cell    stroke.Size
	rows    int
	columns int
	cells   [][]int
	// cell span of every stroke, indexed like the arena
	spans []span
}

type span struct {
	minRow, maxRow, minCol, maxCol int
}

// Build creates the grid covering topLeft..bottomRight and inserts every
// stroke of the arena into each cell its bounding box touches.
func Build(arena stroke.Arena, topLeft, bottomRight stroke.Point, cell stroke.Size) (*Index, error) {
	if !(cell.Width > 0) || !(cell.Height > 0) {
		return nil, fmt.Errorf("%w: got %vx%v", ErrInvalidCellSize, cell.Width, cell.Height)
	}
	if bottomRight.X <= topLeft.X || bottomRight.Y <= topLeft.Y {
		return nil, fmt.Errorf("%w: %v..%v", ErrInvalidBoard, topLeft, bottomRight)
	}

	idx := &Index{
		arena:   arena,
		origin:  topLeft,
		cell:    cell,
		rows:    int(math.Ceil((bottomRight.Y - topLeft.Y) / cell.Height)),
		columns: int(math.Ceil((bottomRight.X - topLeft.X) / cell.Width)),
	}
	idx.cells = make([][]int, idx.rows*idx.columns)
	idx.spans = make([]span, len(arena))

	for i := range arena {
		idx.insert(i)
	}
	return idx, nil
}

func (g *Index) insert(i int) {
	bb := g.arena[i].BoundingBox()
	sp := span{
		minCol: g.column(bb.Min.X),
		maxCol: g.column(bb.Max.X),
		minRow: g.row(bb.Min.Y),
		maxRow: g.row(bb.Max.Y),
	}
	g.spans[i] = sp

	for r := sp.minRow; r <= sp.maxRow; r++ {
		for c := sp.minCol; c <= sp.maxCol; c++ {
			k := c + g.columns*r
			g.cells[k] = append(g.cells[k], i)
		}
	}
}

func (g *Index) column(x float64) int {
	return clamp(int(math.Floor((x-g.origin.X)/g.cell.Width)), 0, g.columns-1)
}

func (g *Index) row(y float64) int {
	return clamp(int(math.Floor((y-g.origin.Y)/g.cell.Height)), 0, g.rows-1)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Rows returns the number of grid rows.
func (g *Index) Rows() int { return g.rows }

// Columns returns the number of grid columns.
func (g *Index) Columns() int { return g.columns }

// Size returns the number of strokes in the index.
func (g *Index) Size() int { return len(g.arena) }

// Cell returns the arena indices bucketed in the given cell, or nil when the
// coordinates are outside the grid.
func (g *Index) Cell(row, col int) []int {
	if row < 0 || row >= g.rows || col < 0 || col >= g.columns {
		return nil
	}
	return g.cells[col+g.columns*row]
}

// CandidatesFor returns, in ascending order, every arena index that shares
// at least one cell with stroke i. Stroke i itself is part of the result.
func (g *Index) CandidatesFor(i int) []int {
	if i < 0 || i >= len(g.spans) {
		return nil
	}
	sp := g.spans[i]
	seen := make(map[int]struct{})
	var res []int
	for r := sp.minRow; r <= sp.maxRow; r++ {
		for c := sp.minCol; c <= sp.maxCol; c++ {
			for _, j := range g.cells[c+g.columns*r] {
				if _, ok := seen[j]; ok {
					continue
				}
				seen[j] = struct{}{}
				res = append(res, j)
			}
		}
	}
	sort.Ints(res)
	return res
}

// Pairs returns every unordered pair of strokes sharing a cell. A pair found
// in several cells is reported once, in the order it was first found.
func (g *Index) Pairs() []Pair {
	checked := make(map[stroke.ID][]stroke.ID)
	var pairs []Pair

	for _, cell := range g.cells {
		// no possible intersection in this cell
		if len(cell) <= 1 {
			continue
		}
		for a := 1; a < len(cell); a++ {
			for b := 0; b < a; b++ {
				p := newPair(g.arena[cell[a]].ID, g.arena[cell[b]].ID)
				if hasBeenChecked(checked, p) {
					continue
				}
				checked[p.A] = append(checked[p.A], p.B)
				pairs = append(pairs, p)
			}
		}
	}
	return pairs
}

func newPair(a, b stroke.ID) Pair {
	if a < b {
		return Pair{A: a, B: b}
	}
	return Pair{A: b, B: a}
}

func hasBeenChecked(checked map[stroke.ID][]stroke.ID, p Pair) bool {
	for _, b := range checked[p.A] {
		if b == p.B {
			return true
		}
	}
	return false
}
