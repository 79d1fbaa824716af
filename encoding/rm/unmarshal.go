package rm

import (
	"bytes"
	"encoding/binary"
	"strings"

	"github.com/pkg/errors"
)

// UnmarshalBinary implements encoding.BinaryUnmarshaler for .rm pages of
// version 3, 5 and 6.
func (rm *Rm) UnmarshalBinary(data []byte) error {
	version, err := readHeader(data)
	if err != nil {
		return err
	}
	rm.Version = version

	if version == V6 {
		return errors.Wrap(unmarshalV6(rm, data[HeaderLen:]), "v6 page")
	}

	r := bytes.NewReader(data[HeaderLen:])
	nbLayers, err := readNumber(r)
	if err != nil {
		return errors.Wrap(err, "layer count")
	}

	// every layer carries at least its line count
	if int64(nbLayers)*4 > int64(r.Len()) {
		return errors.Wrapf(ErrTruncated, "%d layers", nbLayers)
	}
	rm.Layers = make([]Layer, nbLayers)
	for i := range rm.Layers {
		nbLines, err := readNumber(r)
		if err != nil {
			return errors.Wrapf(err, "layer %d line count", i)
		}
		if int64(nbLines)*minLineLen(version) > int64(r.Len()) {
			return errors.Wrapf(ErrTruncated, "layer %d: %d lines", i, nbLines)
		}
		rm.Layers[i].Lines = make([]Line, nbLines)
		for j := range rm.Layers[i].Lines {
			line, err := readLine(r, version)
			if err != nil {
				return errors.Wrapf(err, "layer %d line %d", i, j)
			}
			rm.Layers[i].Lines[j] = line
		}
	}
	return nil
}

func readHeader(data []byte) (Version, error) {
	if len(data) < HeaderLen {
		return 0, errors.Wrap(ErrTruncated, "header")
	}
	switch h := string(data[:HeaderLen]); {
	case h == HeaderV3:
		return V3, nil
	case h == HeaderV5:
		return V5, nil
	case h == HeaderV6, strings.Contains(h, "version=6"):
		return V6, nil
	}
	return 0, ErrUnknownHeader
}

func readNumber(r *bytes.Reader) (uint32, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return 0, ErrTruncated
	}
	return n, nil
}

// lineHeader is the fixed part of a v3 line; v5 appends one float.
type lineHeader struct {
	BrushType  BrushType
	BrushColor BrushColor
	Padding    uint32
	BrushSize  BrushSize
}

// minLineLen is the size of a line without points.
func minLineLen(version Version) int64 {
	n := int64(binary.Size(lineHeader{})) + 4
	if version == V5 {
		n += 4
	}
	return n
}

func readLine(r *bytes.Reader, version Version) (Line, error) {
	var h lineHeader
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return Line{}, ErrTruncated
	}
	line := Line{
		BrushType:  h.BrushType,
		BrushColor: h.BrushColor,
		Padding:    h.Padding,
		BrushSize:  h.BrushSize,
	}

	if version == V5 {
		if err := binary.Read(r, binary.LittleEndian, &line.Unknown); err != nil {
			return line, ErrTruncated
		}
	}

	nbPoints, err := readNumber(r)
	if err != nil {
		return line, err
	}
	if nbPoints == 0 {
		return line, nil
	}
	if int64(nbPoints)*24 > int64(r.Len()) {
		return line, ErrTruncated
	}

	line.Points = make([]Point, nbPoints)
	if err := binary.Read(r, binary.LittleEndian, line.Points); err != nil {
		return line, ErrTruncated
	}
	return line, nil
}
