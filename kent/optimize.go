// SPDX-License-Identifier: MIT

package kent

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"

	"github.com/katalvlaran/kentmix/vector"
)

const (
	// stallIterations is how many Nelder–Mead iterations may pass without an
	// improvement above Options.Tolerance before the search stops.
	stallIterations = 50

	// logitFloor keeps the reparameterised start away from ±Inf.
	logitFloor = 1e-9

	// thirdStep is the finite-difference step of the third directional derivative.
	thirdStep = 1e-2
)

// central3rd is a second-order accurate centred stencil for the third derivative:
//
//	f'''(x) ≈ [−½f(x−2h) + f(x−h) − f(x+h) + ½f(x+2h)] / h³
var central3rd = fd.Formula{
	Stencil:    []fd.Point{{Loc: -2, Coeff: -0.5}, {Loc: -1, Coeff: 1}, {Loc: 1, Coeff: -1}, {Loc: 2, Coeff: 0.5}},
	Derivative: 3,
	Step:       thirdStep,
}

// objective scores a full parameter set against s, in nits.
type objective func(s Stats, mean, major, minor vector.Vector, kappa, beta float64, c Constants, aom float64) float64

func nllObjective(s Stats, mean, major, minor vector.Vector, kappa, beta float64, c Constants, _ float64) float64 {
	return negLogLikelihood(s, mean, major, minor, kappa, beta, c.LogC)
}

// posteriorObjective is the negative log-posterior under the scale prior.
// The axes prior is left out: in Euler angles its sin α factor would pull the
// mean away from the poles.
func posteriorObjective(s Stats, mean, major, minor vector.Vector, kappa, beta float64, c Constants, _ float64) float64 {
	return negLogLikelihood(s, mean, major, minor, kappa, beta, c.LogC) - logScalePrior(kappa)
}

func msglenObjective(s Stats, mean, major, minor vector.Vector, kappa, beta float64, c Constants, aom float64) float64 {
	return messageLengthNits(s, mean, major, minor, kappa, beta, c, aom)
}

// Reparameterisation: κ = MaxKappa·σ(u), β = ovalnessCap·κ·σ(v). Every real
// (u, v) is admissible.

func sigmoid(x float64) float64 { return 1 / (1 + math.Exp(-x)) }

func logit(p float64) float64 {
	p = math.Min(math.Max(p, logitFloor), 1-logitFloor)

	return math.Log(p / (1 - p))
}

func toUnconstrained(kappa, beta, maxKappa float64) (u, v float64) {
	u = logit(kappa / maxKappa)
	if kappa > 0 {
		v = logit(beta / (ovalnessCap * kappa))
	} else {
		v = logit(0)
	}

	return u, v
}

func fromUnconstrained(u, v, maxKappa float64) (kappa, beta float64) {
	kappa = maxKappa * sigmoid(u)
	beta = ovalnessCap * kappa * sigmoid(v)

	return kappa, beta
}

func finiteOr(v float64) float64 {
	if math.IsNaN(v) {
		return math.Inf(1)
	}

	return v
}

// minimizeFull runs Nelder–Mead over (ψ, α, η, u, v) from start and returns
// the best point found. A start with a non-finite objective is returned
// unchanged with ErrNonFinite.
func minimizeFull(s Stats, start Kent, opts Options, obj objective) (Kent, error) {
	const op = "minimizeFull"
	psi, alpha, eta := start.Angles()
	u, v := toUnconstrained(start.kappa, start.beta, opts.MaxKappa)
	x0 := []float64{psi, alpha, eta, u, v}

	f := func(x []float64) float64 {
		kappa, beta := fromUnconstrained(x[3], x[4], opts.MaxKappa)
		c := computeConstants(kappa, beta)
		if !c.Finite() {
			return math.Inf(1)
		}
		mean, major, minor := frameFromAngles(x[0], x[1], x[2])

		return finiteOr(obj(s, mean, major, minor, kappa, beta, c, opts.AOM))
	}
	f0 := f(x0)
	if math.IsInf(f0, 0) {
		return start, kentErrorf(op, ErrNonFinite)
	}

	res, err := optimize.Minimize(
		optimize.Problem{Func: f},
		x0,
		&optimize.Settings{
			Converger:       &optimize.FunctionConverge{Absolute: opts.Tolerance, Iterations: stallIterations},
			MajorIterations: opts.MaxIterations,
		},
		&optimize.NelderMead{},
	)
	if res == nil {
		return start, fmt.Errorf("%s: %w", op, err)
	}
	if !(res.F < f0) {
		return start, nil
	}

	kappa, beta := fromUnconstrained(res.X[3], res.X[4], opts.MaxKappa)
	mean, major, minor := frameFromAngles(res.X[0], res.X[1], res.X[2])

	return newUnchecked(mean, major, minor, kappa, beta), nil
}

// minimizeScale minimises the message length over (κ, β) with the axes of
// start held fixed.
//
// Implementation:
//   - Stage 1: central-difference gradient g and Hessian H in (u, v).
//   - Stage 2: Newton direction d = −H⁻¹g; steepest descent when H is
//     singular or d is not a descent direction.
//   - Stage 3 (halley only): a Halley step along d using first, second and
//     third directional derivatives.
//   - Stage 4: backtracking until the objective improves; stop when the
//     improvement falls below Options.Tolerance or nothing improves.
func minimizeScale(s Stats, start Kent, opts Options, halley bool) (Kent, error) {
	const op = "minimizeScale"
	mean, major, minor := start.mean, start.major, start.minor
	g := func(x []float64) float64 {
		kappa, beta := fromUnconstrained(x[0], x[1], opts.MaxKappa)
		c := computeConstants(kappa, beta)
		if !c.Finite() {
			return math.Inf(1)
		}

		return finiteOr(messageLengthNits(s, mean, major, minor, kappa, beta, c, opts.AOM))
	}

	u, v := toUnconstrained(start.kappa, start.beta, opts.MaxKappa)
	x := []float64{u, v}
	fx := g(x)
	if math.IsInf(fx, 0) {
		return start, kentErrorf(op, ErrNonFinite)
	}

	var (
		settings = &fd.Settings{Formula: fd.Central}
		grad     = make([]float64, 2)
		hess     = mat.NewSymDense(2, nil)
		cand     = make([]float64, 2)
		it, h    int
	)
	for it = 0; it < opts.NewtonIterations; it++ {
		fd.Gradient(grad, g, x, settings)
		fd.Hessian(hess, g, x, settings)
		if !allFinite(grad) {
			break
		}
		dir, length := newtonDirection(hess, grad)
		if length == 0 {
			break
		}
		t := length
		if halley {
			t = halleyStep(g, x, dir, fx, length)
		}

		improved := false
		var fc float64
		for h = 0; h < maxHalvings; h++ {
			floats.AddScaledTo(cand, x, t, dir)
			if fc = g(cand); fc < fx {
				improved = true
				break
			}
			t *= 0.5
		}
		if !improved {
			break
		}
		gain := fx - fc
		copy(x, cand)
		fx = fc
		if gain < opts.Tolerance {
			break
		}
	}

	kappa, beta := fromUnconstrained(x[0], x[1], opts.MaxKappa)

	return newUnchecked(mean.Clone(), major.Clone(), minor.Clone(), kappa, beta), nil
}

// newtonDirection returns a unit descent direction and the Newton step
// length along it.
func newtonDirection(hess *mat.SymDense, grad []float64) ([]float64, float64) {
	var d mat.VecDense
	neg := []float64{-grad[0], -grad[1]}
	if err := d.SolveVec(hess, mat.NewVecDense(2, neg)); err == nil {
		dir := []float64{d.AtVec(0), d.AtVec(1)}
		if n := floats.Norm(dir, 2); n > 0 && allFinite(dir) && floats.Dot(dir, grad) < 0 {
			floats.Scale(1/n, dir)

			return dir, n
		}
	}
	// steepest descent with unit trial length
	n := floats.Norm(neg, 2)
	if n == 0 || math.IsNaN(n) {
		return nil, 0
	}
	floats.Scale(1/n, neg)

	return neg, 1
}

// halleyStep returns the Halley update −2φ′φ″/(2φ″² − φ′φ‴) for
// φ(t) = g(x + t·dir), falling back to newton when it is not a positive
// finite step.
func halleyStep(g func([]float64) float64, x, dir []float64, fx, newton float64) float64 {
	pt := make([]float64, len(x))
	phi := func(t float64) float64 {
		floats.AddScaledTo(pt, x, t, dir)

		return g(pt)
	}
	d1 := fd.Derivative(phi, 0, &fd.Settings{Formula: fd.Central})
	d2 := fd.Derivative(phi, 0, &fd.Settings{Formula: fd.Central2nd, OriginKnown: true, OriginValue: fx})
	d3 := fd.Derivative(phi, 0, &fd.Settings{Formula: central3rd})

	den := 2*d2*d2 - d1*d3
	t := -2 * d1 * d2 / den
	if math.IsNaN(t) || math.IsInf(t, 0) || t <= 0 || den <= 0 {
		return newton
	}

	return t
}

func allFinite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}

	return true
}
