// SPDX-License-Identifier: MIT

package specfunc

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// LogGamma returns log|Γ(x)|.
func LogGamma(x float64) float64 {
	v, _ := math.Lgamma(x)

	return v
}

// LogSumExp returns log Σ exp(s_i) without overflow. An empty slice yields −Inf.
func LogSumExp(s []float64) float64 {
	if len(s) == 0 {
		return math.Inf(-1)
	}
	// floats.LogSumExp returns NaN when every entry is −Inf
	allNegInf := true
	for _, v := range s {
		if !math.IsInf(v, -1) {
			allNegInf = false
			break
		}
	}
	if allNegInf {
		return math.Inf(-1)
	}

	return floats.LogSumExp(s)
}

// LogAddExp returns log(exp(a) + exp(b)).
func LogAddExp(a, b float64) float64 {
	if math.IsInf(a, -1) {
		return b
	}
	if math.IsInf(b, -1) {
		return a
	}
	if a < b {
		a, b = b, a
	}

	return a + math.Log1p(math.Exp(b-a))
}
