package raster

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathboard/mathboard/encoding/rm"
	"github.com/mathboard/mathboard/stroke"
)

func TestMergeCoversUnion(t *testing.T) {
	arena := stroke.Arena{
		stroke.Filled(0, stroke.NewRect(10, 10, 4, 4)),
		stroke.Filled(1, stroke.NewRect(20, 12, 2, 6)),
	}

	g := Merge(arena, []int{0, 1})
	assert.Equal(t, image.Rect(0, 0, 12, 8), g.Bounds())

	assert.Equal(t, uint8(0xff), g.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(0xff), g.GrayAt(11, 7).Y)
	assert.Equal(t, uint8(0), g.GrayAt(5, 0).Y)
	assert.Equal(t, uint8(0), g.GrayAt(0, 7).Y)
}

func TestMergeKeepsBrightest(t *testing.T) {
	dim := image.NewGray(image.Rect(0, 0, 2, 2))
	for i := range dim.Pix {
		dim.Pix[i] = 0x40
	}
	arena := stroke.Arena{
		stroke.New(0, stroke.Point{X: 0, Y: 0}, dim),
		stroke.Filled(1, stroke.NewRect(1, 1, 2, 2)),
	}

	g := Merge(arena, []int{1, 0})
	assert.Equal(t, uint8(0x40), g.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(0xff), g.GrayAt(1, 1).Y)
	assert.Equal(t, uint8(0xff), g.GrayAt(2, 2).Y)
}

func TestMergeBlank(t *testing.T) {
	arena := stroke.Arena{stroke.New(0, stroke.Point{}, image.NewGray(image.Rect(0, 0, 3, 3)))}
	g := Merge(arena, []int{0})
	assert.Equal(t, 1, g.Bounds().Dx())
}

func TestToMNIST(t *testing.T) {
	arena := stroke.Arena{stroke.Filled(0, stroke.NewRect(0, 0, 100, 40))}
	g := ToMNIST(Merge(arena, []int{0}), MNISTSize)

	assert.Equal(t, image.Rect(0, 0, MNISTSize, MNISTSize), g.Bounds())
	assert.Greater(t, g.GrayAt(14, 14).Y, uint8(0xf0))

	g = Composer{}.Compose(arena, []int{0}).(*image.Gray)
	assert.Equal(t, MNISTSize, g.Bounds().Dx())
}

func TestFromPath(t *testing.T) {
	path := []stroke.Point{{X: 10, Y: 10}, {X: 30, Y: 10}}
	s := FromPath(7, path, 4)

	assert.Equal(t, stroke.ID(7), s.ID)
	assert.Equal(t, path, s.Path)

	bb := s.BoundingBox()
	assert.InDelta(t, 8, bb.Min.X, 1)
	assert.InDelta(t, 32, bb.Max.X, 1)
	assert.InDelta(t, 8, bb.Min.Y, 1)
	assert.InDelta(t, 12, bb.Max.Y, 1)
}

func TestFromPathSinglePoint(t *testing.T) {
	s := FromPath(0, []stroke.Point{{X: 5, Y: 5}}, 3)
	bb := s.BoundingBox()
	assert.False(t, bb.Empty())
	assert.True(t, bb.ContainsPoint(stroke.Point{X: 5, Y: 5}))
}

func TestFromRm(t *testing.T) {
	page := &rm.Rm{
		Version: rm.V5,
		Layers: []rm.Layer{{Lines: []rm.Line{
			{BrushType: rm.Fineliner, BrushSize: rm.Medium, Points: []rm.Point{{X: 10, Y: 10}, {X: 10, Y: 40}}},
			{BrushType: rm.Eraser, BrushSize: rm.Large, Points: []rm.Point{{X: 0, Y: 0}, {X: 50, Y: 50}}},
			{BrushType: rm.Fineliner, BrushSize: rm.Small},
			{BrushType: rm.BallPoint, BrushSize: rm.Small, Points: []rm.Point{{X: 60, Y: 10}, {X: 80, Y: 10}}},
		}}},
	}

	arena, err := FromRm(page, DefaultIngestOptions())
	require.NoError(t, err)
	require.Len(t, arena, 2)
	assert.Equal(t, stroke.ID(0), arena[0].ID)
	assert.Equal(t, stroke.ID(1), arena[1].ID)
	assert.False(t, arena[0].BoundingBox().Overlaps(arena[1].BoundingBox()))
	assert.NoError(t, arena.Validate())
}

func TestFromRmNoInk(t *testing.T) {
	page := &rm.Rm{Version: rm.V5, Layers: []rm.Layer{{Lines: []rm.Line{
		{BrushType: rm.Eraser, Points: []rm.Point{{X: 1, Y: 1}}},
	}}}}
	_, err := FromRm(page, IngestOptions{})
	assert.ErrorIs(t, err, ErrNoInk)
}
