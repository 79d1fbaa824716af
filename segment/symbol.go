// Package segment groups strokes into symbols: it ranks candidate stroke
// combinations with a classifier, walks the board to build complete
// segmentations and scores them.
package segment

import (
	"fmt"
	"image"
	"sort"
	"strconv"
	"strings"

	"github.com/mathboard/mathboard/classifier"
	"github.com/mathboard/mathboard/stroke"
)

// MergeFunc composes the strokes at the given arena indices into the
// raster handed to the classifier.
type MergeFunc func(arena stroke.Arena, idx []int) image.Image

// Hypothesis is one accepted reading of a set of strokes.
type Hypothesis struct {
	// Position is the hypothesis's place inside its group.
	Position int
	// Combination is the index of the chosen candidate in the ranked list.
	Combination int
	Label       classifier.Label
	Confidence  float64
	// Strokes are arena indices, ascending.
	Strokes []int
	Rect    stroke.Rect
}

// IDs returns the stroke IDs of the hypothesis.
func (h Hypothesis) IDs(arena stroke.Arena) []stroke.ID {
	return arena.IDs(h.Strokes)
}

func (h Hypothesis) String() string {
	return fmt.Sprintf("%s(%.3f) %v", h.Label, h.Confidence, h.Strokes)
}

// Group is one complete segmentation of the board.
type Group []Hypothesis

// Text returns the labels of the group ordered left to right.
func (g Group) Text() string {
	sorted := make(Group, len(g))
	copy(sorted, g)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Rect.Min.X < sorted[j].Rect.Min.X
	})
	var sb strings.Builder
	for _, h := range sorted {
		sb.WriteRune(rune(h.Label))
	}
	return sb.String()
}

// keyOf normalizes a combination to its sorted stroke IDs.
func keyOf(arena stroke.Arena, idx []int) string {
	ids := arena.IDs(idx)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	var sb strings.Builder
	for i, id := range ids {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatUint(uint64(id), 10))
	}
	return sb.String()
}
