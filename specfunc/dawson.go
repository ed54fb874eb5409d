// SPDX-License-Identifier: MIT

package specfunc

import (
	"math"

	"gonum.org/v1/gonum/integrate/quad"
)

// dawsonBaseNodes is the Gauss–Legendre node count for |x| <= 1; wider
// intervals add nodes in proportion to |x|.
const dawsonBaseNodes = 64

// Dawson returns Dawson's integral F(x) = exp(−x²) ∫_0^x exp(t²) dt.
//
// The integrand exp(t² − x²) stays in (0,1] on [0,x], so fixed-order
// Gauss–Legendre quadrature is accurate without any rescaling. F is odd.
func Dawson(x float64) float64 {
	if x == 0 || math.IsNaN(x) {
		return x
	}
	if x < 0 {
		return -Dawson(-x)
	}
	if math.IsInf(x, 1) {
		return 0
	}
	n := dawsonBaseNodes + int(32*math.Ceil(x))
	f := func(t float64) float64 {
		return math.Exp((t - x) * (t + x))
	}

	return quad.Fixed(f, 0, x, n, quad.Legendre{}, 0)
}
