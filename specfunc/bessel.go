// SPDX-License-Identifier: MIT

package specfunc

import (
	"math"
)

const (
	// besselMaxTerms caps the power series in LogBesselI; exceeding it
	// returns the +Inf divergence sentinel.
	besselMaxTerms = 200000

	// besselRescale is the running-sum magnitude at which the power series
	// folds its partial sum into a log-scale accumulator.
	besselRescale = 1e280

	// besselRecurrencePad is the number of extra backward-recurrence steps
	// taken above max(order, x) before the ratios are trusted.
	besselRecurrencePad = 64
)

// LogBesselI returns log I_nu(x), the modified Bessel function of the first
// kind, for nu >= 0 and x >= 0, from its power series
//
//	I_nu(x) = Σ_m (x/2)^(2m+nu) / (m! Γ(m+nu+1)).
//
// The partial sum is kept in scaled form, so arguments in the thousands do
// not overflow. Returns:
//   - NaN for negative or NaN input;
//   - −Inf for x == 0 and nu > 0;
//   - +Inf when the series does not settle within its term budget.
func LogBesselI(nu, x float64) float64 {
	if math.IsNaN(nu) || math.IsNaN(x) || nu < 0 || x < 0 {
		return math.NaN()
	}
	if math.IsInf(x, 1) {
		return math.Inf(1)
	}
	if x == 0 {
		if nu == 0 {
			return 0
		}
		return math.Inf(-1)
	}

	var (
		q        = 0.25 * x * x
		term     = 1.0
		sum      = 1.0
		logScale float64
		m        int
	)
	for m = 0; m < besselMaxTerms; m++ {
		term *= q / (float64(m+1) * (float64(m) + nu + 1))
		sum += term
		// past the peak and negligible
		if term < 1e-17*sum && float64(m+1)*(float64(m)+nu+1) > q {
			break
		}
		if sum > besselRescale {
			logScale += math.Log(sum)
			term /= sum
			sum = 1
		}
	}
	if m == besselMaxTerms {
		return math.Inf(1)
	}

	return nu*math.Log(0.5*x) - LogGamma(nu+1) + logScale + math.Log(sum)
}

// LogBesselIHalfOrders returns log I_{k+1/2}(x) for k = 0..n-1.
//
// Implementation:
//   - Stage 1: closed form I_{1/2}(x) = sqrt(2/(πx))·sinh(x), in log space.
//   - Stage 2: ratios r_k = I_{k+3/2}/I_{k+1/2} by backward recurrence
//     r_{k-1} = 1/((2k+1)/x + r_k), started well above max(n, x) where the
//     recurrence is strongly damped.
//   - Stage 3: log I_{k+3/2} = log I_{k+1/2} + log r_k.
//
// Returns nil for n <= 0. For x == 0 every entry is −Inf; for NaN or negative
// x every entry is NaN.
//
// Complexity: O(n + x) time, O(n) space.
func LogBesselIHalfOrders(x float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	if math.IsNaN(x) || x < 0 || math.IsInf(x, 1) {
		v := math.NaN()
		if math.IsInf(x, 1) {
			v = math.Inf(1)
		}
		for i := range out {
			out[i] = v
		}
		return out
	}
	if x == 0 {
		for i := range out {
			out[i] = math.Inf(-1)
		}
		return out
	}

	// ν_k = k + 1/2
	top := n + int(math.Ceil(x)) + besselRecurrencePad
	ratios := make([]float64, n)
	nuTop := float64(top) + 0.5
	// asymptotic starting ratio; its error is damped away on the way down
	r := x / (nuTop + 1 + math.Sqrt((nuTop+1)*(nuTop+1)+x*x))
	var k int
	for k = top; k >= 1; k-- {
		// r holds r_k = I_{k+3/2}/I_{k+1/2}; step to r_{k-1}
		if k < n {
			ratios[k] = r
		}
		r = 1 / ((2*float64(k)+1)/x + r)
	}
	// r now holds r_0 = I_{3/2}/I_{1/2}
	ratios[0] = r

	out[0] = 0.5*math.Log(2/(math.Pi*x)) + logSinh(x)
	for k = 1; k < n; k++ {
		out[k] = out[k-1] + math.Log(ratios[k-1])
	}

	return out
}

// logSinh returns log(sinh(x)) for x > 0 without overflow.
func logSinh(x float64) float64 {
	if x < 1 {
		return math.Log(math.Sinh(x))
	}

	return x + math.Log1p(-math.Exp(-2*x)) - math.Ln2
}
