// SPDX-License-Identifier: MIT

package kent

import (
	"math"
	"math/rand"

	"github.com/katalvlaran/kentmix/matrix"
	"github.com/katalvlaran/kentmix/vector"
)

// ExpectedMean returns E[x] = E[y1]·γ1.
func (k Kent) ExpectedMean() vector.Vector {
	return vector.Scale(k.mean, expectationsOf(k.consts).E1)
}

// ExpectedDispersion returns E[x·xᵀ] = G·diag(E[y1²], E[y2²], E[y3²])·Gᵀ
// with G = [γ1 γ2 γ3].
func (k Kent) ExpectedDispersion() *matrix.Dense {
	e := expectationsOf(k.consts)
	// every operand is 3×3; the kernels cannot fail
	g, _ := matrix.NewFromColumns(k.mean, k.major, k.minor)
	d, _ := matrix.NewFromRows([][]float64{{e.E11, 0, 0}, {0, e.E22, 0}, {0, 0, e.E33}})
	gt, _ := matrix.Transpose(g)
	gd, _ := matrix.Mul(g, d)
	m, _ := matrix.Mul(gd, gt)

	return m
}

func (k Kent) expectedScatter() [3][3]float64 {
	e := expectationsOf(k.consts)
	var out [3][3]float64
	var a, b int
	for a = 0; a < 3; a++ {
		for b = 0; b < 3; b++ {
			out[a][b] = e.E11*k.mean[a]*k.mean[b] + e.E22*k.major[a]*k.major[b] + e.E33*k.minor[a]*k.minor[b]
		}
	}

	return out
}

// expectedStats returns the sufficient statistics of one expected observation.
func (k Kent) expectedStats() Stats {
	m := k.ExpectedMean()

	return Stats{N: 1, Sum: [3]float64{m[0], m[1], m[2]}, Scatter: k.expectedScatter()}
}

// KLDivergence returns KL(k ‖ other) in bits, in closed form:
//
//	KL = log c_g − log c_f + E_f[log-kernel_f] − E_f[log-kernel_g]
//
// where the expectations need only E_f[x] and E_f[x·xᵀ].
//
// Errors: ErrNonFinite if either normalisation constant is non-finite.
func (k Kent) KLDivergence(other Kent) (float64, error) {
	if !k.consts.Finite() || !other.consts.Finite() {
		return 0, kentErrorf("KLDivergence", ErrNonFinite)
	}
	s := k.expectedStats()
	// NLL of one expected observation is −E_f[log density]
	kl := other.NegLogLikelihoodStats(s) - k.NegLogLikelihoodStats(s)

	return math.Max(kl, 0) / math.Ln2, nil
}

// KLDivergenceMC estimates KL(k ‖ other) in bits from n samples of k.
func (k Kent) KLDivergenceMC(other Kent, n int, rng *rand.Rand) (float64, error) {
	const op = "KLDivergenceMC"
	if n <= 0 {
		return 0, kentErrorf(op, ErrEmptyData)
	}
	if !k.consts.Finite() || !other.consts.Finite() {
		return 0, kentErrorf(op, ErrNonFinite)
	}
	var sum float64
	for _, x := range k.Generate(n, rng) {
		sum += k.LogDensity(x) - other.LogDensity(x)
	}

	return sum / float64(n) / math.Ln2, nil
}
