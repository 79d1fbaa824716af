package server

import (
	"github.com/mathboard/mathboard/recognize"
	"github.com/mathboard/mathboard/segment"
	"github.com/mathboard/mathboard/stroke"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// StrokeJSON is one uploaded stroke: a base64 PNG patch placed at X,Y.
// Pixels above zero are ink.
type StrokeJSON struct {
	ID  uint32  `json:"id"`
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
	PNG string  `json:"png"`
}

type SegmentRequest struct {
	Strokes []StrokeJSON `json:"strokes"`
}

type RectJSON struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type SymbolJSON struct {
	Label      string   `json:"label"`
	Confidence float64  `json:"confidence"`
	Strokes    []uint32 `json:"strokes"`
	Rect       RectJSON `json:"rect"`
}

type PairJSON [2]uint32

type SegmentResponse struct {
	RequestID string         `json:"request_id"`
	Text      string         `json:"text"`
	Score     float64        `json:"score"`
	Best      []SymbolJSON   `json:"best"`
	Groups    [][]SymbolJSON `json:"groups"`
	Pairs     []PairJSON     `json:"pairs"`
}

func rectToJSON(r stroke.Rect) RectJSON {
	return RectJSON{X: r.Min.X, Y: r.Min.Y, Width: r.Width(), Height: r.Height()}
}

func groupToJSON(arena stroke.Arena, g segment.Group) []SymbolJSON {
	res := make([]SymbolJSON, 0, len(g))
	for _, h := range g {
		ids := make([]uint32, 0, len(h.Strokes))
		for _, id := range h.IDs(arena) {
			ids = append(ids, uint32(id))
		}
		res = append(res, SymbolJSON{
			Label:      h.Label.String(),
			Confidence: h.Confidence,
			Strokes:    ids,
			Rect:       rectToJSON(h.Rect),
		})
	}
	return res
}

func resultToJSON(res *recognize.Result) SegmentResponse {
	out := SegmentResponse{
		RequestID: res.RequestID,
		Text:      res.Text,
		Score:     res.Score,
		Best:      groupToJSON(res.Arena, res.Best),
		Groups:    make([][]SymbolJSON, 0, len(res.Groups)),
		Pairs:     make([]PairJSON, 0, len(res.Pairs)),
	}
	for _, g := range res.Groups {
		out.Groups = append(out.Groups, groupToJSON(res.Arena, g))
	}
	for _, p := range res.Pairs {
		out.Pairs = append(out.Pairs, PairJSON{uint32(p.A), uint32(p.B)})
	}
	return out
}
