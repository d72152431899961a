package population

import (
	"errors"
	"fmt"
	"math"
)

// ErrSelectionFailed signals malformed selection inputs (non-positive or
// non-finite total fitness, probabilities that do not reach 1). It is a
// fatal error, never retried.
var ErrSelectionFailed = errors.New("fitness proportional selection failed")

// probabilityTolerance absorbs floating point drift in the cumulative sum
const probabilityTolerance = 1e-9

// MatingProbabilities returns fitness[i] / sum(fitness). A population whose
// fitness is uniformly zero gets equal probabilities.
func MatingProbabilities(fitness []float64) ([]float64, error) {
	if len(fitness) == 0 {
		return nil, fmt.Errorf("%w: empty population", ErrSelectionFailed)
	}

	total := sum(fitness)
	probs := make([]float64, len(fitness))

	if total == 0 && allZero(fitness) {
		for i := range probs {
			probs[i] = 1 / float64(len(probs))
		}
		return probs, nil
	}
	if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return nil, fmt.Errorf("%w: total fitness %v", ErrSelectionFailed, total)
	}

	for i, f := range fitness {
		probs[i] = f / total
	}
	return probs, nil
}

// SelectIndex walks the cumulative distribution and returns the first index
// whose cumulative probability is >= p.
func SelectIndex(probs []float64, p float64) (int, error) {
	cumulative := 0.0
	last := -1
	for i, prob := range probs {
		cumulative += prob
		if prob > 0 {
			last = i
		}
		if p <= cumulative {
			return i, nil
		}
	}
	// p landed in the rounding gap above a sum that is 1 within tolerance
	if last >= 0 && math.Abs(cumulative-1) <= probabilityTolerance {
		return last, nil
	}
	return -1, fmt.Errorf("%w: draw %v exceeds cumulative probability %v", ErrSelectionFailed, p, cumulative)
}

// Roulette draws n indices with SelectIndex using rng
func Roulette(probs []float64, n int, rng interface{ Float64() float64 }) ([]int, error) {
	out := make([]int, n)
	for k := range out {
		idx, err := SelectIndex(probs, rng.Float64())
		if err != nil {
			return nil, err
		}
		out[k] = idx
	}
	return out, nil
}

func allZero(values []float64) bool {
	for _, v := range values {
		if v != 0 {
			return false
		}
	}
	return true
}
