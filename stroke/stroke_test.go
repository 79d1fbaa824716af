package stroke

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundingBoxFollowsInk(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 20, 20))
	g.SetGray(5, 4, grayInk)
	g.SetGray(9, 12, grayInk)

	s := New(3, Point{100, 200}, g)

	assert.Equal(t, NewRect(105, 204, 5, 9), s.BoundingBox())
	assert.Equal(t, Size{5, 9}, s.Size())
}

func TestBoundingBoxOfBlankRaster(t *testing.T) {
	s := New(1, Point{10, 10}, image.NewGray(image.Rect(0, 0, 4, 4)))

	bb := s.BoundingBox()
	assert.True(t, bb.Empty())
	assert.Equal(t, Point{10, 10}, bb.Min)
}

func TestEqualComparesIDOnly(t *testing.T) {
	a := Filled(7, NewRect(0, 0, 2, 2))
	b := Filled(7, NewRect(50, 50, 9, 9))
	c := Filled(8, NewRect(0, 0, 2, 2))

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestArenaValidate(t *testing.T) {
	arena := Arena{Filled(1, NewRect(0, 0, 2, 2)), Filled(2, NewRect(0, 0, 2, 2))}
	require.NoError(t, arena.Validate())

	arena = append(arena, Filled(1, NewRect(5, 5, 2, 2)))
	err := arena.Validate()
	assert.True(t, errors.Is(err, ErrDuplicateID))
}

func TestRectOverlaps(t *testing.T) {
	a := NewRect(0, 0, 10, 10)

	assert.True(t, a.Overlaps(NewRect(5, 5, 10, 10)))
	assert.False(t, a.Overlaps(NewRect(10, 0, 5, 5)), "touching edges")
	assert.False(t, a.Overlaps(NewRect(20, 20, 5, 5)))
}

func TestRectContains(t *testing.T) {
	outer := NewRect(0, 0, 10, 10)
	inner := NewRect(2, 2, 3, 3)

	assert.True(t, outer.Contains(inner))
	assert.False(t, inner.Contains(outer))
	assert.True(t, Nested(inner, outer))
	assert.False(t, outer.Contains(outer), "bottom-right corner is exclusive")
	assert.False(t, Nested(NewRect(0, 0, 5, 5), NewRect(3, 3, 5, 5)))
}

func TestArenaBounds(t *testing.T) {
	arena := Arena{
		Filled(1, NewRect(10, 10, 5, 5)),
		Filled(2, NewRect(30, 0, 5, 20)),
	}

	assert.Equal(t, Rect{Min: Point{10, 0}, Max: Point{35, 20}}, arena.Bounds())
	assert.Equal(t, []ID{2, 1}, arena.IDs([]int{1, 0}))
	assert.Equal(t, NewRect(30, 0, 5, 20), arena.BoundingBox([]int{1}))
}

var grayInk = color.Gray{Y: 0xff}
