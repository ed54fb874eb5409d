// SPDX-License-Identifier: MIT

package kent

import (
	"math"

	"github.com/katalvlaran/kentmix/matrix"
	"github.com/katalvlaran/kentmix/vector"
)

const (
	// eigenTol is the Jacobi convergence tolerance on the projected scatter.
	eigenTol = 1e-12
	// eigenMaxIter bounds the Jacobi sweeps; 3×3 converges in a handful.
	eigenMaxIter = 100

	// momentMaxIter and momentTol control the 2-D Newton refinement.
	momentMaxIter = 100
	momentTol     = 1e-12
	// maxHalvings bounds backtracking within one Newton step.
	maxHalvings = 40

	// ovalnessCap keeps β strictly inside β < κ/2.
	ovalnessCap = 0.4999
)

// MomentEstimates returns the moment estimate under DefaultOptions.
func MomentEstimates(s Stats) (Kent, error) {
	return momentEstimates(s, DefaultMaxKappa)
}

// momentEstimates fits the frame from the first two sample moments and
// solves ∂log c/∂κ = r1, ∂log c/∂β = r2 for the concentration.
//
// Implementation:
//   - Stage 1: mean = Σwx/|Σwx|, r1 = |Σwx|/N.
//   - Stage 2: P = (I − mmᵀ)(S/N)(I − mmᵀ); Jacobi eigenpairs of P. The
//     eigenvector most aligned with the mean is dropped; of the remaining two
//     the larger eigenvalue gives the major axis. r2 = λ_major − λ_minor.
//   - Stage 3: solveMoments from Kent's asymptotic starting point.
//
// Errors: ErrEmptyData, ErrDegenerate (zero resultant), ErrNonFinite.
func momentEstimates(s Stats, maxKappa float64) (Kent, error) {
	const op = "MomentEstimates"
	if !(s.N > 0) {
		return Kent{}, kentErrorf(op, ErrEmptyData)
	}
	resultant := vector.Vector{s.Sum[0], s.Sum[1], s.Sum[2]}
	mean, err := vector.Normalize(resultant)
	if err != nil {
		return Kent{}, kentErrorf(op, ErrDegenerate)
	}
	r1 := math.Min(vector.Norm(resultant)/s.N, 1-1e-12)

	major, r2, err := principalAxis(s, mean)
	if err != nil {
		return Kent{}, kentErrorf(op, err)
	}
	minor, err := vector.Cross(mean, major)
	if err != nil {
		return Kent{}, kentErrorf(op, err)
	}

	kappa, beta := solveMoments(r1, r2, maxKappa)

	return newUnchecked(mean, major, minor, kappa, beta), nil
}

// principalAxis returns the major axis orthogonal to mean and the eigenvalue
// gap of the projected scatter.
func principalAxis(s Stats, mean vector.Vector) (vector.Vector, float64, error) {
	proj := make([][]float64, 3)
	scatter := make([][]float64, 3)
	var a, b, c int
	for a = 0; a < 3; a++ {
		proj[a] = make([]float64, 3)
		scatter[a] = make([]float64, 3)
		for b = 0; b < 3; b++ {
			proj[a][b] = -mean[a] * mean[b]
			scatter[a][b] = s.Scatter[a][b] / s.N
		}
		proj[a][a]++
	}
	p, err := matrix.NewFromRows(proj)
	if err != nil {
		return nil, 0, err
	}
	sn, err := matrix.NewFromRows(scatter)
	if err != nil {
		return nil, 0, err
	}
	ps, err := matrix.Mul(p, sn)
	if err != nil {
		return nil, 0, err
	}
	out, err := matrix.Mul(ps, p)
	if err != nil {
		return nil, 0, err
	}
	outT, err := matrix.Transpose(out)
	if err != nil {
		return nil, 0, err
	}
	// symmetrise P·(S/N)·P against round-off
	m, _ := matrix.NewDense(3, 3)
	var x, y float64
	for a = 0; a < 3; a++ {
		for b = 0; b < 3; b++ {
			x, _ = out.At(a, b)
			y, _ = outT.At(a, b)
			_ = m.Set(a, b, 0.5*(x+y))
		}
	}
	if err = matrix.ValidateFinite(m); err != nil {
		return nil, 0, ErrNonFinite
	}
	vals, vecs, err := matrix.Eigen(m, eigenTol, eigenMaxIter)
	if err != nil {
		return nil, 0, ErrNonFinite
	}

	drop, best := 0, -1.0
	for c = 0; c < 3; c++ {
		if al := math.Abs(vector.Dot(vecs.Col(c), mean)); al > best {
			drop, best = c, al
		}
	}
	i, j := (drop+1)%3, (drop+2)%3
	if vals[j] > vals[i] {
		i, j = j, i
	}

	// re-orthogonalise against the mean
	major := vector.Vector(vecs.Col(i))
	major = vector.Sub(major, vector.Scale(mean, vector.Dot(major, mean)))
	major, err = vector.Normalize(major)
	if err != nil {
		return nil, 0, ErrDegenerate
	}

	return major, math.Max(vals[i]-vals[j], 0), nil
}

// solveMoments solves E[y1](κ,β) = r1 and E[y2²−y3²](κ,β) = r2 by damped
// Newton iteration on the gradient of log c, whose Jacobian is the Hessian
// of log c. Iterates stay inside 0 <= β <= ovalnessCap·κ, κ <= maxKappa.
// A non-converged solve returns its best iterate.
func solveMoments(r1, r2, maxKappa float64) (kappa, beta float64) {
	kappa, beta = kentStart(r1, r2, maxKappa)
	c := computeConstants(kappa, beta)
	if !c.Finite() {
		return kappa, beta
	}
	f1, f2 := momentResidual(c, r1, r2)
	res := math.Hypot(f1, f2)

	var it, h int
	for it = 0; it < momentMaxIter && res > momentTol; it++ {
		hkk, hbb, hkb := logCHessian(c)
		jac, err := matrix.NewFromRows([][]float64{{hkk, hkb}, {hkb, hbb}})
		if err != nil {
			break
		}
		inv, err := matrix.Inverse(jac)
		if err != nil {
			break
		}
		step, err := matrix.MatVec(inv, []float64{f1, f2})
		if err != nil || math.IsNaN(step[0]) || math.IsNaN(step[1]) {
			break
		}

		improved := false
		scale := 1.0
		for h = 0; h < maxHalvings; h++ {
			nk := math.Min(kappa-scale*step[0], maxKappa)
			if nk > minKappa {
				nb := math.Min(math.Max(beta-scale*step[1], 0), ovalnessCap*nk)
				nc := computeConstants(nk, nb)
				if nc.Finite() {
					g1, g2 := momentResidual(nc, r1, r2)
					if nr := math.Hypot(g1, g2); nr < res {
						kappa, beta, c, f1, f2, res = nk, nb, nc, g1, g2, nr
						improved = true
						break
					}
				}
			}
			scale *= 0.5
		}
		if !improved {
			break
		}
	}

	return kappa, beta
}

// kentStart is Kent's large-κ approximation
//
//	κ ≈ 1/(2−2r1−r2) + 1/(2−2r1+r2),  β ≈ ½[1/(2−2r1−r2) − 1/(2−2r1+r2)]
//
// clamped into the admissible region.
func kentStart(r1, r2, maxKappa float64) (float64, float64) {
	a := 2 - 2*r1 - r2
	b := 2 - 2*r1 + r2
	if a <= 0 || b <= 0 {
		return maxKappa, 0
	}
	kappa := math.Min(math.Max(1/a+1/b, 1e-3), maxKappa)
	beta := math.Min(math.Max(0.5*(1/a-1/b), 0), ovalnessCap*kappa)

	return kappa, beta
}

func momentResidual(c Constants, r1, r2 float64) (float64, float64) {
	e := expectationsOf(c)

	return e.E1 - r1, e.Eb - r2
}
