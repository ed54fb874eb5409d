// SPDX-License-Identifier: MIT

package kent

import (
	"math"

	"github.com/katalvlaran/kentmix/vector"
)

// LogKernel returns κ·γ1·x + β[(γ2·x)² − (γ3·x)²], the unnormalised log density.
// x is not renormalised.
func (k Kent) LogKernel(x vector.Vector) float64 {
	a := vector.Dot(k.major, x)
	b := vector.Dot(k.minor, x)

	return k.kappa*vector.Dot(k.mean, x) + k.beta*(a*a-b*b)
}

// LogDensity returns log f(x). A parameter set whose constant is non-finite
// yields −Inf or NaN; nothing panics. Panics only if len(x) != 3.
func (k Kent) LogDensity(x vector.Vector) float64 {
	return k.LogKernel(x) - k.consts.LogC
}

// Density returns f(x).
func (k Kent) Density(x vector.Vector) float64 {
	return math.Exp(k.LogDensity(x))
}

// Stats are the weighted sufficient statistics of a sample:
// N = Σw, Sum = Σw·x and Scatter = Σw·x·xᵀ (row-major 3×3).
//
// Every likelihood used by the estimators is O(1) in the sample size once
// Stats are built.
type Stats struct {
	N       float64
	Sum     [3]float64
	Scatter [3][3]float64
}

// NewStats accumulates the sufficient statistics; weights == nil means unit
// weights.
//
// Errors:
//   - ErrDimension if a point is not a 3-vector or len(weights) != len(data);
//   - ErrEmptyData if the total weight is not positive.
func NewStats(data []vector.Vector, weights []float64) (Stats, error) {
	const op = "NewStats"
	var s Stats
	if weights != nil && len(weights) != len(data) {
		return s, kentErrorf(op, ErrDimension)
	}
	for i := range data {
		if len(data[i]) != 3 {
			return s, kentErrorf(op, ErrDimension)
		}
		if weights == nil {
			s.N++
		} else {
			s.N += weights[i]
		}
	}
	if !(s.N > 0) {
		return s, kentErrorf(op, ErrEmptyData)
	}

	sum, err := vector.WeightedSum(data, weights)
	if err != nil {
		return s, kentErrorf(op, err)
	}
	scatter, err := vector.Dispersion(data, weights)
	if err != nil {
		return s, kentErrorf(op, err)
	}
	var a, b int
	for a = 0; a < 3; a++ {
		s.Sum[a] = sum[a]
		for b = 0; b < 3; b++ {
			// indices are in range for a 3×3 Dense
			s.Scatter[a][b], _ = scatter.At(a, b)
		}
	}

	return s, nil
}

// quadForm returns vᵀ·S·v for the scatter matrix.
func (s Stats) quadForm(v vector.Vector) float64 {
	var out float64
	var a, b int
	for a = 0; a < 3; a++ {
		for b = 0; b < 3; b++ {
			out += v[a] * s.Scatter[a][b] * v[b]
		}
	}

	return out
}

func (s Stats) sumDot(v vector.Vector) float64 {
	return s.Sum[0]*v[0] + s.Sum[1]*v[1] + s.Sum[2]*v[2]
}

// NegLogLikelihoodStats returns N·log c − κ·γ1·Σwx − β(γ2ᵀSγ2 − γ3ᵀSγ3), in nits.
func (k Kent) NegLogLikelihoodStats(s Stats) float64 {
	return negLogLikelihood(s, k.mean, k.major, k.minor, k.kappa, k.beta, k.consts.LogC)
}

func negLogLikelihood(s Stats, mean, major, minor vector.Vector, kappa, beta, logC float64) float64 {
	return s.N*logC - kappa*s.sumDot(mean) - beta*(s.quadForm(major)-s.quadForm(minor))
}

// NegativeLogLikelihood builds Stats and scores them. Errors as NewStats.
func (k Kent) NegativeLogLikelihood(data []vector.Vector, weights []float64) (float64, error) {
	s, err := NewStats(data, weights)
	if err != nil {
		return 0, err
	}

	return k.NegLogLikelihoodStats(s), nil
}
