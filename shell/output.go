package shell

import (
	"encoding/json"

	"github.com/abiosoft/ishell"

	"github.com/mathboard/mathboard/segment"
	"github.com/mathboard/mathboard/stroke"
)

type StrokeJSON struct {
	ID     uint32     `json:"id"`
	Bounds [4]float64 `json:"bounds"`
}

type SymbolJSON struct {
	Label      string   `json:"label"`
	Confidence float64  `json:"confidence"`
	Strokes    []uint32 `json:"strokes"`
}

type GroupJSON struct {
	Text    string       `json:"text"`
	Score   float64      `json:"score"`
	Symbols []SymbolJSON `json:"symbols"`
}

func strokesToJSON(arena stroke.Arena) []StrokeJSON {
	res := make([]StrokeJSON, len(arena))
	for i, s := range arena {
		bb := s.BoundingBox()
		res[i] = StrokeJSON{ID: uint32(s.ID), Bounds: [4]float64{bb.Min.X, bb.Min.Y, bb.Max.X, bb.Max.Y}}
	}
	return res
}

func groupsToJSON(arena stroke.Arena, groups []segment.Group) []GroupJSON {
	res := make([]GroupJSON, len(groups))
	for i, g := range groups {
		symbols := make([]SymbolJSON, len(g))
		for j, h := range g {
			var ids []uint32
			for _, id := range h.IDs(arena) {
				ids = append(ids, uint32(id))
			}
			symbols[j] = SymbolJSON{Label: h.Label.String(), Confidence: h.Confidence, Strokes: ids}
		}
		res[i] = GroupJSON{Text: g.Text(), Score: segment.Score(g), Symbols: symbols}
	}
	return res
}

func printJSON(c *ishell.Context, v interface{}) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	c.Println(string(output))
	return nil
}
