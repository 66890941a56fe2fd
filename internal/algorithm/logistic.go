// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package algorithm

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// LogisticRegression fits a binary classifier by batch gradient descent.
// Targets must be 0 or 1; Predict returns probabilities.
type LogisticRegression struct {
	// LearningRate is the gradient descent step size (default 0.1).
	LearningRate float64

	// Epochs is the number of full passes over the data (default 1000).
	Epochs int

	weights []float64
	bias    float64
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// Fit trains weights and bias with batch gradient descent on the
// cross-entropy loss.
func (m *LogisticRegression) Fit(X *mat.Dense, y []float64) error {
	n, p := X.Dims()
	if len(y) != n {
		return fmt.Errorf("X has %d rows but y has %d values", n, len(y))
	}
	for i, v := range y {
		if v != 0 && v != 1 {
			return fmt.Errorf("logistic regression needs 0/1 targets, row %d has %g", i, v)
		}
	}

	rate := m.LearningRate
	if rate <= 0 {
		rate = 0.1
	}
	epochs := m.Epochs
	if epochs <= 0 {
		epochs = 1000
	}

	m.weights = make([]float64, p)
	m.bias = 0

	gradW := make([]float64, p)
	for epoch := 0; epoch < epochs; epoch++ {
		for j := range gradW {
			gradW[j] = 0
		}
		gradB := 0.0

		for i := 0; i < n; i++ {
			z := m.bias
			for j := 0; j < p; j++ {
				z += X.At(i, j) * m.weights[j]
			}
			residual := sigmoid(z) - y[i]
			for j := 0; j < p; j++ {
				gradW[j] += residual * X.At(i, j)
			}
			gradB += residual
		}

		for j := 0; j < p; j++ {
			m.weights[j] -= rate * gradW[j] / float64(n)
		}
		m.bias -= rate * gradB / float64(n)
	}
	return nil
}

// Predict returns the probability of class 1 for each row of X.
func (m *LogisticRegression) Predict(X *mat.Dense) ([]float64, error) {
	if m.weights == nil {
		return nil, fmt.Errorf("model has not been fitted")
	}
	n, p := X.Dims()
	if len(m.weights) != p {
		return nil, fmt.Errorf("model was fitted on %d features, X has %d", len(m.weights), p)
	}

	probs := make([]float64, n)
	for i := 0; i < n; i++ {
		z := m.bias
		for j := 0; j < p; j++ {
			z += X.At(i, j) * m.weights[j]
		}
		probs[i] = sigmoid(z)
	}
	return probs, nil
}

// Classify thresholds predicted probabilities at 0.5.
func (m *LogisticRegression) Classify(X *mat.Dense) ([]float64, error) {
	probs, err := m.Predict(X)
	if err != nil {
		return nil, err
	}
	classes := make([]float64, len(probs))
	for i, p := range probs {
		if p >= 0.5 {
			classes[i] = 1
		}
	}
	return classes, nil
}
