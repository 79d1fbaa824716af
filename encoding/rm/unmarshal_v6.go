package rm

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Version 6 pages are a sequence of blocks; lines live in SceneLineItem
// blocks as tagged values.

const (
	blockSceneLineItem = 0x05
	lineItemType       = 0x03

	pointSizeV1 = 24 // six float32
	pointSizeV2 = 14 // float32 x,y; uint16 speed,width; uint8 direction,pressure
)

// tag types
const (
	tagByte1   = 0x1
	tagByte4   = 0x4
	tagByte8   = 0x8
	tagLength4 = 0xC
	tagID      = 0xF
)

type stream struct {
	data []byte
	pos  int
}

func (s *stream) remaining() int { return len(s.data) - s.pos }

func (s *stream) take(n int) ([]byte, error) {
	if n < 0 || s.pos+n > len(s.data) {
		return nil, ErrTruncated
	}
	b := s.data[s.pos : s.pos+n]
	s.pos += n
	return b, nil
}

func (s *stream) varuint() (uint64, error) {
	var res uint64
	for shift := 0; shift < 64; shift += 7 {
		b, err := s.take(1)
		if err != nil {
			return 0, err
		}
		res |= uint64(b[0]&0x7f) << shift
		if b[0]&0x80 == 0 {
			return res, nil
		}
	}
	return 0, fmt.Errorf("rm: varuint too large")
}

func (s *stream) uint32() (uint32, error) {
	b, err := s.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (s *stream) float32() (float32, error) {
	v, err := s.uint32()
	return math.Float32frombits(v), err
}

func (s *stream) float64() (float64, error) {
	b, err := s.take(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
}

func (s *stream) tag() (index int, kind int, err error) {
	v, err := s.varuint()
	if err != nil {
		return 0, 0, err
	}
	return int(v >> 4), int(v & 0xf), nil
}

// skip consumes the value of a tag of the given kind.
func (s *stream) skip(kind int) error {
	var err error
	switch kind {
	case tagByte1:
		_, err = s.take(1)
	case tagByte4:
		_, err = s.take(4)
	case tagByte8:
		_, err = s.take(8)
	case tagLength4:
		var n uint32
		if n, err = s.uint32(); err == nil {
			_, err = s.take(int(n))
		}
	case tagID:
		if _, err = s.take(1); err == nil {
			_, err = s.varuint()
		}
	default:
		err = fmt.Errorf("rm: unknown tag type %#x", kind)
	}
	return err
}

func unmarshalV6(rm *Rm, data []byte) error {
	var lines []Line

	s := &stream{data: data}
	for s.remaining() >= 8 {
		length, _ := s.uint32()
		head, _ := s.take(4)
		unknown, version, blockType := head[0], head[2], head[3]

		body, err := s.take(int(length))
		if err != nil {
			return err
		}
		if unknown != 0 || blockType != blockSceneLineItem {
			continue
		}

		line, ok, err := parseLineItem(body, version)
		if err != nil {
			return err
		}
		if ok {
			lines = append(lines, line)
		}
	}

	rm.Layers = []Layer{}
	if len(lines) > 0 {
		rm.Layers = []Layer{{Lines: lines}}
	}
	return nil
}

// parseLineItem reads the tagged scene item header and the line value in
// subblock 6. ok is false for deleted items, which carry no value.
func parseLineItem(block []byte, version uint8) (Line, bool, error) {
	s := &stream{data: block}
	for s.remaining() > 0 {
		index, kind, err := s.tag()
		if err != nil {
			return Line{}, false, err
		}
		if index != 6 || kind != tagLength4 {
			if err := s.skip(kind); err != nil {
				return Line{}, false, err
			}
			continue
		}

		n, err := s.uint32()
		if err != nil {
			return Line{}, false, err
		}
		value, err := s.take(int(n))
		if err != nil {
			return Line{}, false, err
		}
		line, err := parseLineValue(value, version)
		if err != nil {
			return Line{}, false, err
		}
		return line, len(line.Points) > 0, nil
	}
	return Line{}, false, nil
}

func parseLineValue(value []byte, version uint8) (Line, error) {
	s := &stream{data: value}
	itemType, err := s.take(1)
	if err != nil {
		return Line{}, err
	}
	if itemType[0] != lineItemType {
		return Line{}, fmt.Errorf("rm: unexpected item type %d", itemType[0])
	}

	var line Line
	for s.remaining() > 0 {
		index, kind, err := s.tag()
		if err != nil {
			return line, err
		}
		switch {
		case index == 1 && kind == tagByte4:
			v, err := s.uint32()
			if err != nil {
				return line, err
			}
			line.BrushType = BrushType(v)
		case index == 2 && kind == tagByte4:
			v, err := s.uint32()
			if err != nil {
				return line, err
			}
			line.BrushColor = BrushColor(v)
		case index == 3 && kind == tagByte8:
			v, err := s.float64()
			if err != nil {
				return line, err
			}
			line.BrushSize = BrushSize(v)
		case index == 4 && kind == tagByte4:
			v, err := s.float32()
			if err != nil {
				return line, err
			}
			line.Unknown = v
		case index == 5 && kind == tagLength4:
			n, err := s.uint32()
			if err != nil {
				return line, err
			}
			raw, err := s.take(int(n))
			if err != nil {
				return line, err
			}
			if line.Points, err = parsePoints(raw, version); err != nil {
				return line, err
			}
		default:
			if err := s.skip(kind); err != nil {
				return line, err
			}
		}
	}
	return line, nil
}

func parsePoints(raw []byte, version uint8) ([]Point, error) {
	size := pointSizeV2
	if version < 2 {
		size = pointSizeV1
	}
	if len(raw)%size != 0 {
		return nil, fmt.Errorf("rm: points data length %d not multiple of %d", len(raw), size)
	}

	points := make([]Point, 0, len(raw)/size)
	for off := 0; off < len(raw); off += size {
		p := raw[off : off+size]
		var pt Point
		pt.X = math.Float32frombits(binary.LittleEndian.Uint32(p[0:]))
		pt.Y = math.Float32frombits(binary.LittleEndian.Uint32(p[4:]))
		if size == pointSizeV1 {
			pt.Speed = math.Float32frombits(binary.LittleEndian.Uint32(p[8:]))
			pt.Direction = math.Float32frombits(binary.LittleEndian.Uint32(p[12:]))
			pt.Width = math.Float32frombits(binary.LittleEndian.Uint32(p[16:]))
			pt.Pressure = math.Float32frombits(binary.LittleEndian.Uint32(p[20:]))
		} else {
			pt.Speed = float32(binary.LittleEndian.Uint16(p[8:]))
			pt.Width = float32(binary.LittleEndian.Uint16(p[10:]))
			pt.Direction = float32(p[12])
			pt.Pressure = float32(p[13]) / 255
		}
		if !finite(pt.X) || !finite(pt.Y) {
			continue
		}
		points = append(points, pt)
	}
	return points, nil
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
