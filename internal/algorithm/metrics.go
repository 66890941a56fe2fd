// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package algorithm

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// MSE returns the mean squared error between truth and predictions.
func MSE(yTrue, yPred []float64) (float64, error) {
	if len(yTrue) != len(yPred) {
		return 0, fmt.Errorf("truth has %d values, predictions %d", len(yTrue), len(yPred))
	}
	if len(yTrue) == 0 {
		return 0, fmt.Errorf("no values to score")
	}
	var sum float64
	for i := range yTrue {
		diff := yTrue[i] - yPred[i]
		sum += diff * diff
	}
	return sum / float64(len(yTrue)), nil
}

// R2 returns the coefficient of determination. A model predicting the mean
// scores 0; perfect predictions score 1.
func R2(yTrue, yPred []float64) (float64, error) {
	if len(yTrue) != len(yPred) {
		return 0, fmt.Errorf("truth has %d values, predictions %d", len(yTrue), len(yPred))
	}
	if len(yTrue) == 0 {
		return 0, fmt.Errorf("no values to score")
	}

	mean := stat.Mean(yTrue, nil)
	var ssRes, ssTot float64
	for i := range yTrue {
		res := yTrue[i] - yPred[i]
		tot := yTrue[i] - mean
		ssRes += res * res
		ssTot += tot * tot
	}
	if ssTot == 0 {
		return 0, fmt.Errorf("truth values are constant, R2 is undefined")
	}
	return 1 - ssRes/ssTot, nil
}

// Accuracy returns the fraction of predictions that exactly match the truth.
func Accuracy(yTrue, yPred []float64) (float64, error) {
	if len(yTrue) != len(yPred) {
		return 0, fmt.Errorf("truth has %d values, predictions %d", len(yTrue), len(yPred))
	}
	if len(yTrue) == 0 {
		return 0, fmt.Errorf("no values to score")
	}
	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(yTrue)), nil
}
