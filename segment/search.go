package segment

import (
	"context"
	"errors"

	"github.com/mathboard/mathboard/combination"
	"github.com/mathboard/mathboard/grid"
	"github.com/mathboard/mathboard/log"
	"github.com/mathboard/mathboard/stroke"
)

var (
	// ErrNoStrokes is returned when a search is started on an empty board.
	ErrNoStrokes = errors.New("segment: no strokes")
	// ErrNoSegmentation is returned when no group is available to choose from.
	ErrNoSegmentation = errors.New("segment: no segmentation available")
)

// DefaultMaxCandidates caps the strokes combined around one target.
const DefaultMaxCandidates = 12

// Reuse decides whether a stroke may appear in more than one group.
type Reuse int

const (
	// ReuseShared restarts every pass from the whole board.
	ReuseShared Reuse = iota
	// ReuseExclusive reserves strokes after their first use, so only one
	// segmentation is produced.
	ReuseExclusive
)

func (r Reuse) String() string {
	switch r {
	case ReuseShared:
		return "shared"
	case ReuseExclusive:
		return "exclusive"
	}
	return "unknown"
}

// ParseReuse maps a configuration value to a policy.
func ParseReuse(s string) (Reuse, bool) {
	switch s {
	case "", "shared":
		return ReuseShared, true
	case "exclusive":
		return ReuseExclusive, true
	}
	return ReuseShared, false
}

// Searcher produces alternative segmentations of a board.
type Searcher struct {
	Ranker *Ranker
	// Index narrows candidate lookup. When nil every remaining stroke is
	// tested.
	Index         *grid.Index
	MaxCandidates int
	Reuse         Reuse
}

// Run walks the board pass after pass. Each pass visits strokes in arena
// order, combines each target with the remaining strokes overlapping it and
// accepts the best unseen combination. A pass that finds no unseen
// combination ends the search and is dropped.
func (s *Searcher) Run(ctx context.Context, arena stroke.Arena) ([]Group, error) {
	if len(arena) == 0 {
		return nil, ErrNoStrokes
	}

	seen := make(map[string]struct{})
	var groups []Group
	for pass := 0; ; pass++ {
		group, foundUnseen, err := s.pass(ctx, arena, seen)
		if err != nil {
			return groups, err
		}
		if !foundUnseen {
			log.Trace.Printf("Search: pass %d found nothing new, stopping", pass)
			break
		}
		log.Trace.Printf("Search: pass %d produced %d symbols", pass, len(group))
		groups = append(groups, group)
		for _, h := range group {
			seen[keyOf(arena, h.Strokes)] = struct{}{}
		}
		if s.Reuse == ReuseExclusive {
			break
		}
	}
	return groups, nil
}

func (s *Searcher) pass(ctx context.Context, arena stroke.Arena, seen map[string]struct{}) (Group, bool, error) {
	remaining := make([]bool, len(arena))
	left := len(arena)
	for i := range remaining {
		remaining[i] = true
	}

	var group Group
	foundUnseen := false
	target := 0
	for left > 0 && target < len(arena) {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}

		candidates := s.candidates(arena, target, remaining)
		if len(candidates) == 0 {
			target++
			continue
		}

		combos, err := combination.Generate(candidates)
		if err != nil {
			return nil, false, err
		}

		var unseen [][]int
		for _, c := range combos {
			if _, ok := seen[keyOf(arena, c)]; !ok {
				unseen = append(unseen, c)
			}
		}

		pool := unseen
		if len(unseen) == 0 {
			pool = combos
		}
		best, ok, err := s.Ranker.RankBest(ctx, arena, pool)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			target++
			continue
		}
		if len(unseen) > 0 {
			foundUnseen = true
			target++
		}

		for _, i := range best.Strokes {
			if remaining[i] {
				remaining[i] = false
				left--
			}
		}
		best.Position = len(group)
		group = append(group, best)
	}
	return group, foundUnseen, nil
}

// candidates returns the remaining strokes whose bounding box overlaps the
// target's, ascending.
func (s *Searcher) candidates(arena stroke.Arena, target int, remaining []bool) []int {
	box := arena[target].BoundingBox()

	var pool []int
	if s.Index != nil {
		pool = s.Index.CandidatesFor(target)
	} else {
		pool = make([]int, len(arena))
		for i := range pool {
			pool[i] = i
		}
	}

	var res []int
	for _, i := range pool {
		if remaining[i] && box.Overlaps(arena[i].BoundingBox()) {
			res = append(res, i)
		}
	}
	return s.limit(arena, target, res)
}

func (s *Searcher) limit(arena stroke.Arena, target int, cands []int) []int {
	max := s.MaxCandidates
	if max <= 0 {
		max = DefaultMaxCandidates
	}
	if len(cands) <= max {
		return cands
	}
	log.Warning.Printf("stroke %d overlaps %d strokes, keeping %d", arena[target].ID, len(cands), max)

	res := make([]int, 0, max)
	keepTarget := false
	for _, i := range cands {
		if i == target {
			keepTarget = true
		}
	}
	if keepTarget {
		max--
	}
	for _, i := range cands {
		if i == target {
			continue
		}
		if len(res) == max {
			break
		}
		res = append(res, i)
	}
	if keepTarget {
		res = insertSorted(res, target)
	}
	return res
}

func insertSorted(s []int, v int) []int {
	pos := len(s)
	for i, x := range s {
		if x > v {
			pos = i
			break
		}
	}
	s = append(s, 0)
	copy(s[pos+1:], s[pos:])
	s[pos] = v
	return s
}
