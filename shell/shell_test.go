package shell

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathboard/mathboard/classifier"
	"github.com/mathboard/mathboard/config"
	"github.com/mathboard/mathboard/encoding/rm"
	"github.com/mathboard/mathboard/segment"
)

func writePage(t *testing.T) string {
	page := &rm.Rm{Version: rm.V5, Layers: []rm.Layer{{Lines: []rm.Line{
		{BrushType: rm.Fineliner, BrushSize: rm.Medium, Points: []rm.Point{{X: 100, Y: 100}, {X: 100, Y: 160}}},
		{BrushType: rm.Fineliner, BrushSize: rm.Medium, Points: []rm.Point{{X: 90, Y: 130}, {X: 110, Y: 130}}},
		{BrushType: rm.Fineliner, BrushSize: rm.Medium, Points: []rm.Point{{X: 300, Y: 100}, {X: 300, Y: 160}}},
	}}}}
	content, err := page.MarshalBinary()
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "page.rm")
	require.NoError(t, os.WriteFile(path, content, 0600))
	return path
}

func newCtx() *ShellCtxt {
	c := classifier.Func(func(context.Context, image.Image) (classifier.Prediction, error) {
		return classifier.Prediction{Label: '4', Confidence: 0.96}, nil
	})
	return NewShellCtxt(config.Default(), c)
}

func TestLoadAndSegment(t *testing.T) {
	ctx := newCtx()
	assert.Equal(t, "[mathboard]>", ctx.prompt())

	_, err := ctx.segment(context.Background())
	assert.ErrorIs(t, err, errNothingLoaded)

	require.NoError(t, ctx.load(writePage(t)))
	assert.Len(t, ctx.arena, 3)
	assert.Equal(t, "[page.rm]>", ctx.prompt())

	pairs, err := ctx.pairs()
	require.NoError(t, err)
	assert.NotEmpty(t, pairs)

	res, err := ctx.segment(context.Background())
	require.NoError(t, err)
	assert.Equal(t, res, ctx.result)
	// the crossing strokes beat the group floor together
	require.Len(t, res.Best, 2)
	assert.Equal(t, []int{0, 1}, res.Best[0].Strokes)
	assert.Equal(t, "44", res.Text)

	out := groupsToJSON(res.Arena, []segment.Group{res.Best})
	assert.Equal(t, []uint32{0, 1}, out[0].Symbols[0].Strokes)
}

func TestLoadErrors(t *testing.T) {
	ctx := newCtx()
	assert.Error(t, ctx.load(filepath.Join(t.TempDir(), "missing.rm")))

	path := filepath.Join(t.TempDir(), "junk.rm")
	require.NoError(t, os.WriteFile(path, []byte("junk"), 0600))
	assert.Error(t, ctx.load(path))
	assert.Empty(t, ctx.Path)
}

func TestExport(t *testing.T) {
	ctx := newCtx()
	dir := t.TempDir()
	assert.Error(t, ctx.export(filepath.Join(dir, "out.png")))

	require.NoError(t, ctx.load(writePage(t)))
	_, err := ctx.segment(context.Background())
	require.NoError(t, err)

	require.NoError(t, ctx.export(filepath.Join(dir, "out.png")))
	assert.FileExists(t, filepath.Join(dir, "out.png"))
	require.NoError(t, ctx.export(filepath.Join(dir, "out.pdf")))
	assert.FileExists(t, filepath.Join(dir, "out.pdf"))
	assert.Error(t, ctx.export(filepath.Join(dir, "out.svg")))
}

func TestSet(t *testing.T) {
	ctx := newCtx()
	require.NoError(t, ctx.set("threshold", "0.5"))
	assert.Equal(t, 0.5, ctx.cfg.Search.GroupThreshold)
	require.NoError(t, ctx.set("reuse", "exclusive"))
	require.NoError(t, ctx.set("cell", "32"))
	assert.Equal(t, 32.0, ctx.cfg.Board.CellHeight)
	require.NoError(t, ctx.set("json", "true"))
	assert.True(t, ctx.JSONOutput)

	assert.ErrorIs(t, ctx.set("threshold", "95"), config.ErrInvalid)
	assert.Equal(t, 0.5, ctx.cfg.Search.GroupThreshold)
	assert.Error(t, ctx.set("candidates", "many"))
	assert.Error(t, ctx.set("colour", "red"))
}

func TestFsCompleter(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.rm"), nil, 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), nil, 0600))

	got := createFsEntryCompleter(".rm")([]string{filepath.Join(dir, "") + string(filepath.Separator)})
	assert.Equal(t, []string{filepath.Join(dir, "a.rm")}, got)
}
