// SPDX-License-Identifier: MIT

package kent

import (
	"math"

	"github.com/katalvlaran/kentmix/specfunc"
)

const (
	// minKappa floors κ inside the series; the uniform limit is reached well
	// before this value.
	minKappa = 1e-10

	// seriesDepth is how many nats below its leading terms the series is
	// followed before truncation.
	seriesDepth = 25

	// seriesPad adds terms past the depth estimate.
	seriesPad = 8

	// seriesKappaPad bounds the series length at int(κ)+seriesKappaPad; the
	// terms past the peak near j ≈ βe/(1−e) decay faster than the ratio e^2j.
	seriesKappaPad = 100

	// maxSeriesTerms is the term budget; longer series report +Inf.
	maxSeriesTerms = 50000
)

// Constants holds log c(κ, β) and the logs of its partial derivatives.
//
// Partials that vanish (c_β and c_κβ at β = 0) are −Inf. A parameter set
// whose series cannot be evaluated has LogC = +Inf and every other field
// set to NaN.
type Constants struct {
	LogC   float64 // log c
	LogCk  float64 // log ∂c/∂κ
	LogCkk float64 // log ∂²c/∂κ²
	LogCb  float64 // log ∂c/∂β
	LogCbb float64 // log ∂²c/∂β²
	LogCkb float64 // log ∂²c/∂κ∂β
}

// Finite reports whether the normalisation constant could be evaluated.
func (c Constants) Finite() bool {
	return !math.IsInf(c.LogC, 0) && !math.IsNaN(c.LogC)
}

func nonFiniteConstants() Constants {
	nan := math.NaN()

	return Constants{LogC: math.Inf(1), LogCk: nan, LogCkk: nan, LogCb: nan, LogCbb: nan, LogCkb: nan}
}

// seriesLength returns the number of j-terms needed for (κ, β), or -1 when
// the budget would be exceeded.
func seriesLength(kappa, beta float64) int {
	if beta <= 0 {
		return 2
	}
	e := 2 * beta / kappa
	if e >= 1 {
		return -1
	}
	n := int(math.Ceil(seriesDepth/(-math.Log(e)))) + seriesPad
	if limit := int(kappa) + seriesKappaPad; n > limit {
		n = limit
	}
	if n < 2 {
		n = 2
	}
	if n > maxSeriesTerms {
		return -1
	}

	return n
}

// computeConstants evaluates
//
//	c(κ, β) = 2π Σ_j Γ(j+½)/Γ(j+1) · β^{2j} · (κ/2)^{−2j−½} · I_{2j+½}(κ)
//
// and its first and second partials from a single Bessel sequence.
//
// Implementation:
//   - Stage 1: log I_{k+½}(κ) for k = 0..2J by specfunc.LogBesselIHalfOrders.
//   - Stage 2: per j, the log of each term of c and of its partials:
//     ∂/∂κ shifts the Bessel order by one, ∂²/∂κ² uses I_{ν+2} + I_{ν+1}/κ,
//     ∂/∂β and ∂²/∂β² differentiate β^{2j}.
//   - Stage 3: log-sum-exp of each column, plus log 2π.
//
// Complexity: O(J + κ) time, O(J) space.
func computeConstants(kappa, beta float64) Constants {
	if validateConcentration(kappa, beta) != nil {
		return nonFiniteConstants()
	}
	k := math.Max(kappa, minKappa)
	terms := seriesLength(k, beta)
	if terms < 0 {
		return nonFiniteConstants()
	}

	logI := specfunc.LogBesselIHalfOrders(k, 2*terms+1)
	var (
		logHalfK = math.Log(0.5 * k)
		logK     = math.Log(k)
		logBeta  = math.Log(beta) // −Inf at β = 0; only used with a positive power
		logGR    = 0.5 * math.Log(math.Pi)

		l0  = make([]float64, 0, terms)
		lk  = make([]float64, 0, terms)
		lkk = make([]float64, 0, terms)
		lb  = make([]float64, 0, terms)
		lbb = make([]float64, 0, terms)
		lkb = make([]float64, 0, terms)
	)
	betaPow := func(p int) float64 {
		if p == 0 {
			return 0
		}

		return float64(p) * logBeta
	}

	var j int
	for j = 0; j < terms; j++ {
		fj := float64(j)
		if j > 0 {
			logGR += math.Log(fj-0.5) - math.Log(fj)
		}
		a := logGR - (2*fj+0.5)*logHalfK
		even := a + betaPow(2*j)

		l0 = append(l0, even+logI[2*j])
		lk = append(lk, even+logI[2*j+1])
		lkk = append(lkk, even+specfunc.LogAddExp(logI[2*j+2], logI[2*j+1]-logK))
		if j >= 1 {
			l2j := math.Log(2 * fj)
			lb = append(lb, a+l2j+betaPow(2*j-1)+logI[2*j])
			lbb = append(lbb, a+math.Log(2*fj*(2*fj-1))+betaPow(2*j-2)+logI[2*j])
			lkb = append(lkb, a+l2j+betaPow(2*j-1)+logI[2*j+1])
		}
	}

	for _, col := range [][]float64{l0, lk, lkk, lb, lbb, lkb} {
		for _, v := range col {
			if math.IsNaN(v) || math.IsInf(v, 1) {
				return nonFiniteConstants()
			}
		}
	}

	log2Pi := math.Log(2 * math.Pi)
	out := Constants{
		LogC:   log2Pi + specfunc.LogSumExp(l0),
		LogCk:  log2Pi + specfunc.LogSumExp(lk),
		LogCkk: log2Pi + specfunc.LogSumExp(lkk),
		LogCb:  log2Pi + specfunc.LogSumExp(lb),
		LogCbb: log2Pi + specfunc.LogSumExp(lbb),
		LogCkb: log2Pi + specfunc.LogSumExp(lkb),
	}
	if !out.Finite() {
		return nonFiniteConstants()
	}

	return out
}

// Expectations are the canonical-frame moments of y = (γ1·x, γ2·x, γ3·x).
type Expectations struct {
	E1  float64 // E[y1]
	E11 float64 // E[y1²]
	E22 float64 // E[y2²]
	E33 float64 // E[y3²]
	Eb  float64 // E[y2² − y3²]
}

// Expectations derives the canonical moments from the constants:
// E[y1] = c_κ/c, E[y1²] = c_κκ/c, E[y2² − y3²] = c_β/c, and y2² + y3² = 1 − y1².
func (k Kent) Expectations() Expectations {
	return expectationsOf(k.consts)
}

func expectationsOf(c Constants) Expectations {
	e1 := math.Exp(c.LogCk - c.LogC)
	e11 := math.Exp(c.LogCkk - c.LogC)
	eb := math.Exp(c.LogCb - c.LogC)

	return Expectations{
		E1:  e1,
		E11: e11,
		E22: 0.5 * (1 - e11 + eb),
		E33: 0.5 * (1 - e11 - eb),
		Eb:  eb,
	}
}

// logCHessian returns the Hessian of log c in (κ, β) as (hkk, hbb, hkb).
func logCHessian(c Constants) (hkk, hbb, hkb float64) {
	e1 := math.Exp(c.LogCk - c.LogC)
	eb := math.Exp(c.LogCb - c.LogC)
	hkk = math.Exp(c.LogCkk-c.LogC) - e1*e1
	hbb = math.Exp(c.LogCbb-c.LogC) - eb*eb
	hkb = math.Exp(c.LogCkb-c.LogC) - e1*eb

	return hkk, hbb, hkb
}
