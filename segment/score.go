package segment

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/mathboard/mathboard/stroke"
)

// Weights of the group score terms.
const (
	meanWeight      = 1.0
	minWeight       = 0.5
	varianceWeight  = 0.3
	containedWeight = 0.1
)

// Score rates a segmentation: confident and uniform symbols score high,
// symbols nested inside each other are penalized. An empty group scores
// negative infinity.
func Score(g Group) float64 {
	if len(g) == 0 {
		return math.Inf(-1)
	}
	conf := make([]float64, len(g))
	for i, h := range g {
		conf[i] = h.Confidence
	}
	mean, variance := stat.PopMeanVariance(conf, nil)
	min := floats.Min(conf)

	return meanWeight*mean + minWeight*min - varianceWeight*variance - containedWeight*float64(contained(g))
}

// contained counts ordered pairs of distinct rects where one holds the
// other.
func contained(g Group) int {
	n := 0
	for i := range g {
		for j := range g {
			if i == j {
				continue
			}
			a, b := g[i].Rect, g[j].Rect
			if a == b {
				continue
			}
			if stroke.Nested(a, b) {
				n++
			}
		}
	}
	return n
}

// SelectBest returns the highest scoring group. The first group wins ties.
func SelectBest(groups []Group) (Group, float64, error) {
	if len(groups) == 0 {
		return nil, math.Inf(-1), ErrNoSegmentation
	}
	best, bestScore := 0, Score(groups[0])
	for i := 1; i < len(groups); i++ {
		if s := Score(groups[i]); s > bestScore {
			best, bestScore = i, s
		}
	}
	return groups[best], bestScore, nil
}
