package rm

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePage() Rm {
	points := make([]Point, 0, 50)
	for i := 0; i < 50; i++ {
		points = append(points, Point{X: 100, Y: float32(i), Speed: 2, Direction: 3, Width: 2, Pressure: .3})
	}
	return Rm{
		Version: V5,
		Layers: []Layer{
			{Lines: []Line{
				{BrushSize: Medium, BrushColor: Black, BrushType: FinelinerV5, Points: points},
				{BrushSize: Large, BrushColor: Black, BrushType: FinelinerV5, Points: []Point{
					{X: 100, Y: 100, Speed: 2, Direction: 1, Width: 3, Pressure: .3},
					{X: 1000, Y: 1000, Speed: 2, Direction: 1, Width: 3, Pressure: .3},
				}},
			}},
			{Lines: []Line{{BrushType: Eraser, BrushSize: Small}}},
		},
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	page := samplePage()

	data, err := page.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, HeaderV5, string(data[:HeaderLen]))

	var got Rm
	require.NoError(t, got.UnmarshalBinary(data))
	assert.Equal(t, page, got)
	assert.Len(t, got.Lines(), 3)
}

func TestUnmarshalV3(t *testing.T) {
	var b bytes.Buffer
	b.WriteString(HeaderV3)
	w := func(v interface{}) { require.NoError(t, binary.Write(&b, binary.LittleEndian, v)) }
	w(uint32(1))
	w(uint32(1))
	w(lineHeader{BrushType: BallPoint, BrushColor: Grey, BrushSize: Small})
	w(uint32(1))
	w(Point{X: 5, Y: 6, Pressure: 1})

	var got Rm
	require.NoError(t, got.UnmarshalBinary(b.Bytes()))
	assert.Equal(t, V3, got.Version)
	require.Len(t, got.Lines(), 1)
	line := got.Lines()[0]
	assert.Equal(t, BallPoint, line.BrushType)
	assert.Equal(t, Grey, line.BrushColor)
	assert.Equal(t, []Point{{X: 5, Y: 6, Pressure: 1}}, line.Points)
}

func TestUnmarshalErrors(t *testing.T) {
	var page Rm
	assert.True(t, errors.Is(page.UnmarshalBinary([]byte("short")), ErrTruncated))

	bad := make([]byte, HeaderLen)
	copy(bad, "not a remarkable file")
	assert.True(t, errors.Is(page.UnmarshalBinary(bad), ErrUnknownHeader))

	sample := samplePage()
	data, err := sample.MarshalBinary()
	require.NoError(t, err)
	assert.True(t, errors.Is(page.UnmarshalBinary(data[:len(data)-30]), ErrTruncated))
}

func TestUnmarshalRejectsHugeCounts(t *testing.T) {
	var page Rm
	layers := append([]byte(HeaderV5), 0xff, 0xff, 0xff, 0xff)
	assert.True(t, errors.Is(page.UnmarshalBinary(layers), ErrTruncated))

	lines := append([]byte(HeaderV5), 1, 0, 0, 0, 0xff, 0xff, 0xff, 0xff)
	assert.True(t, errors.Is(page.UnmarshalBinary(lines), ErrTruncated))
}

func TestUnmarshalV6(t *testing.T) {
	var points bytes.Buffer
	for _, p := range [][2]float32{{10, 20}, {30, 40}} {
		binary.Write(&points, binary.LittleEndian, math.Float32bits(p[0]))
		binary.Write(&points, binary.LittleEndian, math.Float32bits(p[1]))
		binary.Write(&points, binary.LittleEndian, uint16(4))
		binary.Write(&points, binary.LittleEndian, uint16(2))
		points.Write([]byte{0, 255})
	}

	var value bytes.Buffer
	value.WriteByte(lineItemType)
	value.WriteByte(1<<4 | tagByte4)
	binary.Write(&value, binary.LittleEndian, uint32(FinelinerV5))
	value.WriteByte(2<<4 | tagByte4)
	binary.Write(&value, binary.LittleEndian, uint32(Black))
	value.WriteByte(3<<4 | tagByte8)
	binary.Write(&value, binary.LittleEndian, math.Float64bits(2))
	value.WriteByte(5<<4 | tagLength4)
	binary.Write(&value, binary.LittleEndian, uint32(points.Len()))
	value.Write(points.Bytes())

	var item bytes.Buffer
	item.Write([]byte{1<<4 | tagID, 0, 1}) // parent id
	item.Write([]byte{5<<4 | tagByte4, 0, 0, 0, 0})
	item.WriteByte(6<<4 | tagLength4)
	binary.Write(&item, binary.LittleEndian, uint32(value.Len()))
	item.Write(value.Bytes())

	var page bytes.Buffer
	page.WriteString(HeaderV6)
	// an unrelated block first
	binary.Write(&page, binary.LittleEndian, uint32(2))
	page.Write([]byte{0, 1, 1, 0x01, 0xaa, 0xbb})
	binary.Write(&page, binary.LittleEndian, uint32(item.Len()))
	page.Write([]byte{0, 1, 2, blockSceneLineItem})
	page.Write(item.Bytes())

	var got Rm
	require.NoError(t, got.UnmarshalBinary(page.Bytes()))
	assert.Equal(t, V6, got.Version)
	require.Len(t, got.Lines(), 1)

	line := got.Lines()[0]
	assert.Equal(t, FinelinerV5, line.BrushType)
	assert.Equal(t, Medium, line.BrushSize)
	require.Len(t, line.Points, 2)
	assert.Equal(t, float32(30), line.Points[1].X)
	assert.Equal(t, float32(1), line.Points[1].Pressure)
}

func TestBrushDrawable(t *testing.T) {
	assert.True(t, FinelinerV5.Drawable())
	assert.False(t, Eraser.Drawable())
	assert.False(t, EraseArea.Drawable())
	assert.False(t, HighlighterV5.Drawable())
}
