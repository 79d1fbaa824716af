// Package combination enumerates candidate symbol hypotheses: every
// non-empty subset of a small set of strokes.
package combination

import (
	"errors"
	"fmt"
)

// MaxElements is the largest input Generate accepts. The number of subsets
// grows as 2^n, so callers should cap their input far below this.
const MaxElements = 62

// ErrTooManyElements is returned when the subset count would overflow.
var ErrTooManyElements = errors.New("combination: too many elements")

// Count returns the number of non-empty subsets of n elements.
func Count(n int) int {
	if n <= 0 {
		return 0
	}
	return 1<<uint(n) - 1
}

// Generate returns every non-empty subset of elems. Subset i-1 holds
// element j iff bit j of i is set, for i in 1..2^n-1. The order is stable and
// later used for tie-breaking.
func Generate[T any](elems []T) ([][]T, error) {
	n := len(elems)
	if n > MaxElements {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyElements, n, MaxElements)
	}

	total := Count(n)
	res := make([][]T, 0, total)
	for mask := uint64(1); mask <= uint64(total); mask++ {
		subset := make([]T, 0, popcount(mask))
		for j := 0; j < n; j++ {
			if mask&(1<<uint(j)) != 0 {
				subset = append(subset, elems[j])
			}
		}
		res = append(res, subset)
	}
	return res, nil
}

func popcount(x uint64) int {
	c := 0
	for ; x != 0; x &= x - 1 {
		c++
	}
	return c
}
