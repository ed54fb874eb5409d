// SPDX-License-Identifier: MIT

package kent

import (
	"math"

	"github.com/katalvlaran/kentmix/vector"
)

// DefaultAOM is the default accuracy of measurement of each coordinate of an
// observation.
const DefaultAOM = 0.001

// numParams is the number of free parameters of one Kent component.
const numParams = 5

// LatticeConstant approximates the quantisation term for d free parameters:
//
//	−(d/2)·log(2π) + ½·log(dπ)
func LatticeConstant(d int) float64 {
	fd := float64(d)

	return -0.5*fd*math.Log(2*math.Pi) + 0.5*math.Log(fd*math.Pi)
}

// logScalePrior returns log h(κ, β) = log h(κ) + log h(β|κ) with
// h(κ) = 4κ²/(π(1+κ²)²) and h(β|κ) = 2/κ on [0, κ/2).
func logScalePrior(kappa float64) float64 {
	return math.Log(8/math.Pi) + math.Log(kappa) - 2*math.Log1p(kappa*kappa)
}

// logAxesNorm is the normaliser 4π² of the axes prior sin α/(4π²). The sin α
// cancels against the Jacobian of the axes Fisher term.
var logAxesNorm = math.Log(4 * math.Pi * math.Pi)

// logFisher returns ½·log det F for a component fitted to n observations:
//
//	det F = n⁵ · det(∇² log c) · F_ψ · F_α · F_η
//
// Each factor is floored at one so that the cost stays bounded as β → 0,
// where the major/minor split carries no information.
func logFisher(kappa, beta float64, c Constants, n float64) float64 {
	hkk, hbb, hkb := logCHessian(c)
	detH := hkk*hbb - hkb*hkb
	e := expectationsOf(c)
	fPsi := 4 * beta * (e.E22 - e.E33)
	fAlpha := kappa*e.E1 + 2*beta*(e.E11-e.E33)
	fEta := kappa*e.E1 - 2*beta*(e.E11-e.E22)

	logDet := floorLog(n*n*detH) + floorLog(n*fPsi) + floorLog(n*fAlpha) + floorLog(n*fEta)

	return 0.5 * logDet
}

func floorLog(v float64) float64 {
	if math.IsNaN(v) || v < 1 {
		return 0
	}

	return math.Log(v)
}

// logParameterCost is −log h(κ,β) + log 4π² + ½·log det F, in nits.
func logParameterCost(kappa, beta float64, c Constants, n float64) float64 {
	if !c.Finite() || !(kappa > 0) {
		return math.Inf(1)
	}

	return -logScalePrior(kappa) + logAxesNorm + logFisher(kappa, beta, c, n)
}

// LogParameterCost returns the cost in nits of stating this component's
// parameters to the precision warranted by n observations. The mixture
// message length sums it over components.
func (k Kent) LogParameterCost(n float64) float64 {
	return logParameterCost(k.kappa, k.beta, k.consts, n)
}

// MessageLength returns the two-part message length of the data summarised
// by s under this component, in bits, with the DefaultAOM.
func (k Kent) MessageLength(s Stats) float64 {
	return k.messageLength(s, DefaultAOM)
}

// MessageLengthAOM is MessageLength with an explicit accuracy of measurement.
func (k Kent) MessageLengthAOM(s Stats, aom float64) float64 {
	return k.messageLength(s, aom)
}

func (k Kent) messageLength(s Stats, aom float64) float64 {
	return messageLengthNits(s, k.mean, k.major, k.minor, k.kappa, k.beta, k.consts, aom) / math.Ln2
}

// messageLengthNits is the single-component message length in nits.
func messageLengthNits(s Stats, mean, major, minor vector.Vector, kappa, beta float64, c Constants, aom float64) float64 {
	cost := logParameterCost(kappa, beta, c, s.N)
	nll := negLogLikelihood(s, mean, major, minor, kappa, beta, c.LogC)
	v := cost + LatticeConstant(numParams) + nll - 2*s.N*math.Log(aom)
	if math.IsNaN(v) {
		return math.Inf(1)
	}

	return v
}
