package dataset

import (
	"fmt"
	"math/rand/v2"
)

// Default split parameters.
const (
	DefaultTrainFraction = 0.7
	DefaultSeed          = 5
)

// Split shuffles a copy of rows with a generator seeded by seed and cuts
// it into the first int(trainFraction*len(rows)) rows and the rest.
// The same seed always yields the same partition.
func Split(rows []Example, trainFraction float64, seed uint64) (train, test []Example, err error) {
	if trainFraction <= 0 || trainFraction > 1 {
		return nil, nil, fmt.Errorf("%w: train fraction %v not in (0,1]", ErrFraction, trainFraction)
	}
	shuffled := append([]Example(nil), rows...)
	rng := rand.New(rand.NewPCG(seed, seed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	n := int(trainFraction * float64(len(shuffled)))

	return shuffled[:n:n], shuffled[n:], nil
}

// Filter keeps the examples whose sequence is non-empty and at most maxLen
// long, preserving order.
func Filter(rows []Example, maxLen int) ([]Example, error) {
	if maxLen <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrMaxLen, maxLen)
	}
	out := make([]Example, 0, len(rows))
	for _, ex := range rows {
		if n := len(ex.Sequence); n > 0 && n <= maxLen {
			out = append(out, ex)
		}
	}

	return out, nil
}
