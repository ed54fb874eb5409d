// SPDX-License-Identifier: MIT

package vector

import (
	"fmt"

	"github.com/katalvlaran/kentmix/matrix"
)

// WeightedSum returns Σ w_i x_i. A nil weights slice means unit weights.
func WeightedSum(data []Vector, weights []float64) (Vector, error) {
	if len(data) == 0 {
		return nil, ErrEmptyData
	}
	if weights != nil && len(weights) != len(data) {
		return nil, fmt.Errorf("WeightedSum: %d weights for %d points: %w", len(weights), len(data), ErrDimension)
	}
	d := len(data[0])
	sum := make(Vector, d)
	var (
		i, j int
		w    float64
	)
	for i = range data {
		w = 1
		if weights != nil {
			w = weights[i]
		}
		for j = 0; j < d; j++ {
			sum[j] += w * data[i][j]
		}
	}

	return sum, nil
}

// Dispersion returns the weighted scatter matrix Σ w_i x_i x_iᵀ (not divided by
// the total weight). A nil weights slice means unit weights.
func Dispersion(data []Vector, weights []float64) (*matrix.Dense, error) {
	if len(data) == 0 {
		return nil, ErrEmptyData
	}
	if weights != nil && len(weights) != len(data) {
		return nil, fmt.Errorf("Dispersion: %d weights for %d points: %w", len(weights), len(data), ErrDimension)
	}
	d := len(data[0])
	acc := make([]float64, d*d)
	var (
		i, r, c int
		w       float64
		x       Vector
	)
	for i, x = range data {
		w = 1
		if weights != nil {
			w = weights[i]
		}
		if w == 0 {
			continue
		}
		for r = 0; r < d; r++ {
			for c = r; c < d; c++ {
				acc[r*d+c] += w * x[r] * x[c]
			}
		}
	}
	m, err := matrix.NewDense(d, d)
	if err != nil {
		return nil, fmt.Errorf("Dispersion: %w", err)
	}
	for r = 0; r < d; r++ {
		for c = r; c < d; c++ {
			_ = m.Set(r, c, acc[r*d+c])
			_ = m.Set(c, r, acc[r*d+c])
		}
	}

	return m, nil
}
