// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package algorithm

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// KNN classifies by majority vote among the k nearest training rows under
// Euclidean distance. Ties in the vote go to the smallest label.
type KNN struct {
	// K is the number of neighbours consulted (default 3).
	K int

	train *mat.Dense
	y     []float64
}

// Fit stores the training data.
func (m *KNN) Fit(X *mat.Dense, y []float64) error {
	n, _ := X.Dims()
	if len(y) != n {
		return fmt.Errorf("X has %d rows but y has %d values", n, len(y))
	}
	k := m.K
	if k <= 0 {
		k = 3
	}
	if k > n {
		return fmt.Errorf("k=%d exceeds the %d training rows", k, n)
	}
	m.train = mat.DenseCopyOf(X)
	m.y = append([]float64(nil), y...)
	return nil
}

// Predict returns the majority label among the k nearest neighbours of
// each row of X.
func (m *KNN) Predict(X *mat.Dense) ([]float64, error) {
	if m.train == nil {
		return nil, fmt.Errorf("model has not been fitted")
	}
	n, p := X.Dims()
	trainN, trainP := m.train.Dims()
	if p != trainP {
		return nil, fmt.Errorf("model was fitted on %d features, X has %d", trainP, p)
	}

	k := m.K
	if k <= 0 {
		k = 3
	}

	type neighbour struct {
		dist  float64
		label float64
	}

	preds := make([]float64, n)
	for i := 0; i < n; i++ {
		neighbours := make([]neighbour, trainN)
		for t := 0; t < trainN; t++ {
			var sum float64
			for j := 0; j < p; j++ {
				diff := X.At(i, j) - m.train.At(t, j)
				sum += diff * diff
			}
			neighbours[t] = neighbour{dist: math.Sqrt(sum), label: m.y[t]}
		}
		sort.Slice(neighbours, func(a, b int) bool {
			if neighbours[a].dist != neighbours[b].dist {
				return neighbours[a].dist < neighbours[b].dist
			}
			return neighbours[a].label < neighbours[b].label
		})

		votes := make(map[float64]int)
		for _, nb := range neighbours[:k] {
			votes[nb.label]++
		}
		best := neighbours[0].label
		bestCount := 0
		for label, count := range votes {
			if count > bestCount || (count == bestCount && label < best) {
				best = label
				bestCount = count
			}
		}
		preds[i] = best
	}
	return preds, nil
}
