// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package algorithm

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// KMeans clusters rows into K groups with Lloyd's algorithm. Centroids
// initialise to K distinct rows chosen by the seeded shuffle, so runs with
// the same seed are reproducible.
type KMeans struct {
	// K is the number of clusters (default 2).
	K int

	// MaxIter bounds the Lloyd iterations (default 100).
	MaxIter int

	// Tol stops iteration once the largest centroid shift falls below it
	// (default 1e-6).
	Tol float64

	// Seed fixes centroid initialisation.
	Seed int64

	// Centroids holds the fitted cluster centres after Fit, one row per
	// cluster.
	Centroids [][]float64
}

// Fit learns K centroids from the rows of X.
func (m *KMeans) Fit(X *mat.Dense) error {
	n, p := X.Dims()

	k := m.K
	if k <= 0 {
		k = 2
	}
	if k > n {
		return fmt.Errorf("k=%d exceeds the %d rows", k, n)
	}
	maxIter := m.MaxIter
	if maxIter <= 0 {
		maxIter = 100
	}
	tol := m.Tol
	if tol <= 0 {
		tol = 1e-6
	}

	rng := rand.New(rand.NewSource(m.Seed))
	order := rng.Perm(n)

	centroids := make([][]float64, k)
	for c := 0; c < k; c++ {
		centroids[c] = mat.Row(nil, order[c], X)
	}

	assignments := make([]int, n)
	for iter := 0; iter < maxIter; iter++ {
		for i := 0; i < n; i++ {
			assignments[i] = nearestCentroid(X, i, centroids)
		}

		shift := 0.0
		for c := 0; c < k; c++ {
			sum := make([]float64, p)
			count := 0
			for i := 0; i < n; i++ {
				if assignments[i] != c {
					continue
				}
				for j := 0; j < p; j++ {
					sum[j] += X.At(i, j)
				}
				count++
			}
			if count == 0 {
				// Empty cluster keeps its centroid.
				continue
			}
			for j := 0; j < p; j++ {
				sum[j] /= float64(count)
				if d := math.Abs(sum[j] - centroids[c][j]); d > shift {
					shift = d
				}
			}
			centroids[c] = sum
		}

		if shift < tol {
			break
		}
	}

	m.Centroids = centroids
	return nil
}

// Assign returns the index of the nearest centroid for each row of X.
func (m *KMeans) Assign(X *mat.Dense) ([]int, error) {
	if m.Centroids == nil {
		return nil, fmt.Errorf("model has not been fitted")
	}
	n, p := X.Dims()
	if p != len(m.Centroids[0]) {
		return nil, fmt.Errorf("model was fitted on %d features, X has %d", len(m.Centroids[0]), p)
	}

	assignments := make([]int, n)
	for i := 0; i < n; i++ {
		assignments[i] = nearestCentroid(X, i, m.Centroids)
	}
	return assignments, nil
}

// Inertia returns the mean squared distance from each row of X to its
// nearest centroid.
func (m *KMeans) Inertia(X *mat.Dense) (float64, error) {
	assignments, err := m.Assign(X)
	if err != nil {
		return 0, err
	}
	n, _ := X.Dims()
	if n == 0 {
		return 0, fmt.Errorf("X has no rows")
	}

	var total float64
	for i, c := range assignments {
		for j, v := range m.Centroids[c] {
			diff := X.At(i, j) - v
			total += diff * diff
		}
	}
	return total / float64(n), nil
}

func nearestCentroid(X *mat.Dense, row int, centroids [][]float64) int {
	best := 0
	bestDist := math.Inf(1)
	for c, centroid := range centroids {
		var sum float64
		for j, v := range centroid {
			diff := X.At(row, j) - v
			sum += diff * diff
		}
		if sum < bestDist {
			bestDist = sum
			best = c
		}
	}
	return best
}
