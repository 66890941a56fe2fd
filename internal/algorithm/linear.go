// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package algorithm

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// LinearRegression fits ordinary least squares via QR decomposition.
type LinearRegression struct {
	// Intercept controls whether an intercept term is fitted.
	Intercept bool

	// Coeffs holds the fitted coefficients after Fit. When Intercept is
	// true the intercept is Coeffs[0] and feature weights follow.
	Coeffs []float64
}

// Fit solves min ||Xb - y|| for b. X must have at least as many rows as
// unknowns.
func (m *LinearRegression) Fit(X *mat.Dense, y []float64) error {
	n, p := X.Dims()
	if len(y) != n {
		return fmt.Errorf("X has %d rows but y has %d values", n, len(y))
	}

	unknowns := p
	if m.Intercept {
		unknowns++
	}
	if n < unknowns {
		return fmt.Errorf("need at least %d rows to fit %d coefficients, have %d", unknowns, unknowns, n)
	}

	A := X
	if m.Intercept {
		A = mat.NewDense(n, unknowns, nil)
		for i := 0; i < n; i++ {
			A.Set(i, 0, 1)
			for j := 0; j < p; j++ {
				A.Set(i, j+1, X.At(i, j))
			}
		}
	}

	var qr mat.QR
	qr.Factorize(A)

	var beta mat.VecDense
	if err := qr.SolveVecTo(&beta, false, mat.NewVecDense(n, y)); err != nil {
		return fmt.Errorf("solving least squares: %w", err)
	}

	m.Coeffs = make([]float64, unknowns)
	for i := range m.Coeffs {
		m.Coeffs[i] = beta.AtVec(i)
	}
	return nil
}

// Predict returns Xb for each row of X.
func (m *LinearRegression) Predict(X *mat.Dense) ([]float64, error) {
	if m.Coeffs == nil {
		return nil, fmt.Errorf("model has not been fitted")
	}
	n, p := X.Dims()

	weights := m.Coeffs
	bias := 0.0
	if m.Intercept {
		bias = m.Coeffs[0]
		weights = m.Coeffs[1:]
	}
	if len(weights) != p {
		return nil, fmt.Errorf("model was fitted on %d features, X has %d", len(weights), p)
	}

	preds := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := bias
		for j := 0; j < p; j++ {
			sum += X.At(i, j) * weights[j]
		}
		preds[i] = sum
	}
	return preds, nil
}
