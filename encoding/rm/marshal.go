package rm

import (
	"bytes"
	"encoding/binary"
)

// MarshalBinary implements encoding.BinaryMarshaler. Pages are always
// written in the version 5 layout.
func (rm *Rm) MarshalBinary() ([]byte, error) {
	var b bytes.Buffer
	b.WriteString(HeaderV5)

	w := func(v interface{}) {
		// writes to a bytes.Buffer cannot fail
		_ = binary.Write(&b, binary.LittleEndian, v)
	}

	w(uint32(len(rm.Layers)))
	for _, layer := range rm.Layers {
		w(uint32(len(layer.Lines)))
		for _, line := range layer.Lines {
			w(lineHeader{
				BrushType:  line.BrushType,
				BrushColor: line.BrushColor,
				Padding:    line.Padding,
				BrushSize:  line.BrushSize,
			})
			w(line.Unknown)
			w(uint32(len(line.Points)))
			if len(line.Points) > 0 {
				w(line.Points)
			}
		}
	}
	return b.Bytes(), nil
}
