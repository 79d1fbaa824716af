package grid

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathboard/mathboard/stroke"
)

var (
	topLeft     = stroke.Point{X: 0, Y: 0}
	bottomRight = stroke.Point{X: 100, Y: 100}
	cellSize    = stroke.Size{Width: 10, Height: 10}
)

func build(t *testing.T, arena stroke.Arena) *Index {
	t.Helper()
	idx, err := Build(arena, topLeft, bottomRight, cellSize)
	require.NoError(t, err)
	return idx
}

func TestBuildDimensions(t *testing.T) {
	idx, err := Build(nil, stroke.Point{}, stroke.Point{X: 95, Y: 41}, cellSize)
	require.NoError(t, err)

	assert.Equal(t, 5, idx.Rows())
	assert.Equal(t, 10, idx.Columns())
	assert.Equal(t, 0, idx.Size())
}

func TestBuildRejectsBadConfiguration(t *testing.T) {
	_, err := Build(nil, topLeft, bottomRight, stroke.Size{Width: 0, Height: 10})
	assert.True(t, errors.Is(err, ErrInvalidCellSize))

	_, err = Build(nil, topLeft, bottomRight, stroke.Size{Width: 10, Height: -1})
	assert.True(t, errors.Is(err, ErrInvalidCellSize))

	_, err = Build(nil, topLeft, bottomRight, stroke.Size{Width: math.NaN(), Height: 10})
	assert.True(t, errors.Is(err, ErrInvalidCellSize))

	_, err = Build(nil, bottomRight, topLeft, cellSize)
	assert.True(t, errors.Is(err, ErrInvalidBoard))
}

func TestInsertCoversBoundingBox(t *testing.T) {
	s := stroke.Filled(0, stroke.NewRect(40, 0, 10, 10))
	idx := build(t, stroke.Arena{s})

	// 40..50 spans columns 4 and 5, rows 0 and 1
	for _, rc := range [][2]int{{0, 4}, {0, 5}, {1, 4}, {1, 5}} {
		assert.Equal(t, []int{0}, idx.Cell(rc[0], rc[1]), "cell %v", rc)
	}
	assert.Empty(t, idx.Cell(2, 4))
	assert.Empty(t, idx.Cell(0, 3))
}

func TestInsertClampsOutsideBoard(t *testing.T) {
	s := stroke.Filled(0, stroke.NewRect(-30, 95, 20, 40))
	idx := build(t, stroke.Arena{s})

	assert.Equal(t, []int{0}, idx.Cell(9, 0))
	assert.Nil(t, idx.Cell(10, 0))
	assert.Nil(t, idx.Cell(-1, 0))
}

func TestNoIntersection(t *testing.T) {
	arena := stroke.Arena{
		stroke.Filled(0, stroke.NewRect(40, 40, 9, 5)),
		stroke.Filled(1, stroke.NewRect(4, 60, 5, 5)),
		stroke.Filled(2, stroke.NewRect(20, 90, 6, 6)),
	}
	idx := build(t, arena)

	assert.Empty(t, idx.Pairs())
	assert.Equal(t, []int{1}, idx.CandidatesFor(1))
}

func TestExistingIntersection(t *testing.T) {
	arena := stroke.Arena{
		stroke.Filled(0, stroke.NewRect(21, 69, 10, 5)),
		stroke.Filled(1, stroke.NewRect(21, 69, 20, 20)),
		stroke.Filled(2, stroke.NewRect(21, 69, 6, 6)),
	}
	idx := build(t, arena)

	pairs := idx.Pairs()
	require.Len(t, pairs, 3)
	assert.ElementsMatch(t, []Pair{{0, 1}, {0, 2}, {1, 2}}, pairs)
	assert.Equal(t, []int{0, 1, 2}, idx.CandidatesFor(2))
}

func TestPairsNormalizeOrder(t *testing.T) {
	arena := stroke.Arena{
		stroke.Filled(9, stroke.NewRect(0, 0, 5, 5)),
		stroke.Filled(4, stroke.NewRect(2, 2, 5, 5)),
	}
	idx := build(t, arena)

	assert.Equal(t, []Pair{{A: 4, B: 9}}, idx.Pairs())
}

func TestBuildIsIdempotent(t *testing.T) {
	arena := randomArena(rand.New(rand.NewSource(7)), 40)

	a := build(t, arena)
	b := build(t, arena)

	for r := 0; r < a.Rows(); r++ {
		for c := 0; c < a.Columns(); c++ {
			assert.Equal(t, a.Cell(r, c), b.Cell(r, c))
		}
	}
	assert.Equal(t, a.Pairs(), b.Pairs())
}

func TestRandomBoardsProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 20; round++ {
		arena := randomArena(rng, 1+rng.Intn(30))
		idx := build(t, arena)

		members := make(map[int]map[[2]int]bool)
		for r := 0; r < idx.Rows(); r++ {
			for c := 0; c < idx.Columns(); c++ {
				for _, i := range idx.Cell(r, c) {
					if members[i] == nil {
						members[i] = make(map[[2]int]bool)
					}
					members[i][[2]int{r, c}] = true
				}
			}
		}

		for i, s := range arena {
			bb := s.BoundingBox()
			r0, c0 := idx.row(bb.Min.Y), idx.column(bb.Min.X)
			assert.True(t, members[i][[2]int{r0, c0}], "stroke %d missing from top-left cell", i)
			for rc := range members[i] {
				assert.True(t, rc[0] >= 0 && rc[0] < idx.Rows() && rc[1] >= 0 && rc[1] < idx.Columns())
			}
		}

		seen := make(map[Pair]bool)
		byID := make(map[stroke.ID]int)
		for i, s := range arena {
			byID[s.ID] = i
		}
		for _, p := range idx.Pairs() {
			assert.False(t, seen[p], "pair %v reported twice", p)
			seen[p] = true
			assert.True(t, p.A < p.B)

			shared := false
			for rc := range members[byID[p.A]] {
				if members[byID[p.B]][rc] {
					shared = true
				}
			}
			assert.True(t, shared, "pair %v shares no cell", p)
		}
	}
}

func randomArena(rng *rand.Rand, n int) stroke.Arena {
	arena := make(stroke.Arena, 0, n)
	for i := 0; i < n; i++ {
		r := stroke.NewRect(
			float64(rng.Intn(110)-5),
			float64(rng.Intn(110)-5),
			float64(1+rng.Intn(25)),
			float64(1+rng.Intn(25)),
		)
		arena = append(arena, stroke.Filled(stroke.ID(i), r))
	}
	return arena
}
