package segment

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/mathboard/mathboard/classifier"
	"github.com/mathboard/mathboard/log"
	"github.com/mathboard/mathboard/stroke"
)

// DefaultGroupThreshold is the confidence a multi-stroke combination must
// beat to be preferred over single strokes.
const DefaultGroupThreshold = 0.95

// Ranker picks the best hypothesis among stroke combinations.
type Ranker struct {
	Classifier     classifier.Classifier
	Merge          MergeFunc
	GroupThreshold float64
	// Concurrency bounds parallel classifier calls. Values below 2 classify
	// sequentially.
	Concurrency int
}

// RankBest classifies every combination and applies the selection policy in
// combination order. A multi-stroke combination wins when it beats the group
// floor, which then rises to its confidence. A combination beats the single
// floor only while no group has cleared the group floor. ok is false when
// combos is empty.
func (r *Ranker) RankBest(ctx context.Context, arena stroke.Arena, combos [][]int) (best Hypothesis, ok bool, err error) {
	if len(combos) == 0 {
		return Hypothesis{}, false, nil
	}

	preds, err := r.classify(ctx, arena, combos)
	if err != nil {
		return Hypothesis{}, false, err
	}

	groupFloor := r.GroupThreshold
	singleFloor := 0.0
	groupBeaten := false
	chosen := -1
	for i, combo := range combos {
		c := preds[i].Confidence
		if len(combo) > 1 && c > groupFloor {
			groupFloor = c
			groupBeaten = true
			chosen = i
		} else if !groupBeaten && c > singleFloor {
			singleFloor = c
			chosen = i
		}
	}
	if chosen < 0 {
		log.Trace.Printf("RankBest: no combination above zero confidence, keeping %v", combos[0])
		chosen = 0
	}

	best = Hypothesis{
		Combination: chosen,
		Label:       preds[chosen].Label,
		Confidence:  preds[chosen].Confidence,
		Strokes:     append([]int(nil), combos[chosen]...),
		Rect:        arena.BoundingBox(combos[chosen]),
	}
	log.Trace.Printf("RankBest: %d combinations, chose %s", len(combos), best)
	return best, true, nil
}

func (r *Ranker) classify(ctx context.Context, arena stroke.Arena, combos [][]int) ([]classifier.Prediction, error) {
	preds := make([]classifier.Prediction, len(combos))
	predict := func(ctx context.Context, i int) error {
		p, err := r.Classifier.Predict(ctx, r.Merge(arena, combos[i]))
		if err != nil {
			return err
		}
		if err := p.Check(); err != nil {
			return err
		}
		preds[i] = p
		return nil
	}

	if r.Concurrency < 2 || len(combos) == 1 {
		for i := range combos {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := predict(ctx, i); err != nil {
				return nil, err
			}
		}
		return preds, nil
	}

	sem := semaphore.NewWeighted(int64(r.Concurrency))
	g, gctx := errgroup.WithContext(ctx)
	for i := range combos {
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		i := i
		g.Go(func() error {
			defer sem.Release(1)
			return predict(gctx, i)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return preds, nil
}
