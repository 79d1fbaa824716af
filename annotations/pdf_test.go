package annotations

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathboard/mathboard/segment"
	"github.com/mathboard/mathboard/stroke"
)

func sample() (stroke.Arena, []segment.Group) {
	withPath := stroke.Filled(1, stroke.NewRect(400, 300, 40, 80))
	withPath.Path = []stroke.Point{{X: 420, Y: 300}, {X: 420, Y: 380}}
	arena := stroke.Arena{
		stroke.Filled(0, stroke.NewRect(100, 300, 60, 80)),
		withPath,
	}
	groups := []segment.Group{
		{
			{Label: '0', Confidence: 0.93, Strokes: []int{0}, Rect: arena[0].BoundingBox()},
			{Label: '1', Confidence: 0.99, Position: 1, Strokes: []int{1}, Rect: arena[1].BoundingBox()},
		},
		{
			{Label: '7', Confidence: 0.40, Strokes: []int{0, 1}, Rect: arena.BoundingBox([]int{0, 1})},
		},
	}
	return arena, groups
}

func TestGenerate(t *testing.T) {
	arena, groups := sample()
	var buf bytes.Buffer
	err := CreatePdfGenerator(arena, groups, PdfGeneratorOptions{AddPageNumbers: true, AllGroups: true}).Generate(&buf)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
	// one rectangle annotation per symbol
	assert.Contains(t, buf.String(), "/Annots")
}

func TestWriteFileStrokesOnly(t *testing.T) {
	arena, _ := sample()
	path := filepath.Join(t.TempDir(), "board.pdf")
	require.NoError(t, CreatePdfGenerator(arena, nil, PdfGeneratorOptions{StrokesOnly: true}).WriteFile(path))
	assert.FileExists(t, path)
}

func TestGenerateEmptyBoard(t *testing.T) {
	var buf bytes.Buffer
	err := CreatePdfGenerator(nil, nil, PdfGeneratorOptions{}).Generate(&buf)
	assert.ErrorIs(t, err, segment.ErrNoStrokes)
}
