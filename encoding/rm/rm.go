// Package rm decodes reMarkable .rm page files into lines of points. Each
// drawn line is one ink stroke on the board.
package rm

import "errors"

// Version of the .rm format.
type Version int

const (
	V3 Version = iota
	V5
	V6
)

const (
	HeaderV3  = "reMarkable .lines file, version=3          "
	HeaderV5  = "reMarkable .lines file, version=5          "
	HeaderV6  = "reMarkable .lines file, version=6          "
	HeaderLen = 43
)

var (
	// ErrUnknownHeader is returned for files that are not .rm pages.
	ErrUnknownHeader = errors.New("rm: unknown header")
	// ErrTruncated is returned when the data ends inside a record.
	ErrTruncated = errors.New("rm: unexpected end of data")
)

// BrushColor is the stroke color index.
type BrushColor uint32

const (
	Black BrushColor = 0
	Grey  BrushColor = 1
	White BrushColor = 2
)

// BrushType is the pen used for a line.
type BrushType uint32

const (
	PaintBrush    BrushType = 0
	Pencil        BrushType = 1
	BallPoint     BrushType = 2
	Marker        BrushType = 3
	Fineliner     BrushType = 4
	Highlighter   BrushType = 5
	Eraser        BrushType = 6
	MechPencil    BrushType = 7
	EraseArea     BrushType = 8
	PaintBrushV5  BrushType = 12
	MechPencilV5  BrushType = 13
	PencilV5      BrushType = 14
	BallPointV5   BrushType = 15
	MarkerV5      BrushType = 16
	FinelinerV5   BrushType = 17
	HighlighterV5 BrushType = 18
	CalligraphyV5 BrushType = 21
)

// Drawable reports whether lines of this brush leave ink that belongs to
// a symbol. Erasers and highlighters do not.
func (b BrushType) Drawable() bool {
	switch b {
	case Eraser, EraseArea, Highlighter, HighlighterV5:
		return false
	}
	return true
}

// BrushSize is the nominal brush width.
type BrushSize float32

const (
	Small  BrushSize = 1.875
	Medium BrushSize = 2.0
	Large  BrushSize = 2.125
)

// Rm is one decoded page.
type Rm struct {
	Version Version
	Layers  []Layer
}

// Layer groups lines.
type Layer struct {
	Lines []Line
}

// Line is one pen-down..pen-up trace.
type Line struct {
	BrushType  BrushType
	BrushColor BrushColor
	Padding    uint32
	Unknown    float32
	BrushSize  BrushSize
	Points     []Point
}

// Point is a sample of a line in device pixels.
type Point struct {
	X         float32
	Y         float32
	Speed     float32
	Direction float32
	Width     float32
	Pressure  float32
}

// Lines returns every line of every layer, in file order.
func (rm *Rm) Lines() []Line {
	var res []Line
	for _, l := range rm.Layers {
		res = append(res, l.Lines...)
	}
	return res
}
