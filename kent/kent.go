// SPDX-License-Identifier: MIT

package kent

import (
	"fmt"
	"math"

	"github.com/katalvlaran/kentmix/matrix"
	"github.com/katalvlaran/kentmix/vector"
)

const (
	// frameTol is the unit-norm and orthogonality tolerance for the axes.
	frameTol = 1e-6

	opNew = "New"
)

// Kent is an FB5 distribution on the unit sphere:
//
//	f(x) = exp(κ·γ1·x + β[(γ2·x)² − (γ3·x)²]) / c(κ, β)
//
// where γ1 is the mean direction, γ2 the major axis and γ3 the minor axis.
// A Kent value is immutable; the normalisation constant and its partials are
// computed once at construction.
type Kent struct {
	mean, major, minor vector.Vector
	kappa, beta        float64

	consts Constants
}

// New validates the frame and the concentration and returns the distribution.
//
// Requirements:
//   - mean, major, minor are unit 3-vectors, pairwise orthogonal within 1e-6;
//   - kappa, beta finite with 0 <= 2·beta < kappa, or kappa == beta == 0
//     (the uniform distribution).
//
// Errors: ErrDimension, ErrNotOrthonormal, ErrInvalidParameters.
func New(mean, major, minor vector.Vector, kappa, beta float64) (Kent, error) {
	if len(mean) != 3 || len(major) != 3 || len(minor) != 3 {
		return Kent{}, kentErrorf(opNew, ErrDimension)
	}
	if err := validateConcentration(kappa, beta); err != nil {
		return Kent{}, kentErrorf(opNew, err)
	}
	for _, v := range []vector.Vector{mean, major, minor} {
		if math.Abs(vector.Norm(v)-1) > frameTol {
			return Kent{}, kentErrorf(opNew, ErrNotOrthonormal)
		}
	}
	if math.Abs(vector.Dot(mean, major)) > frameTol ||
		math.Abs(vector.Dot(mean, minor)) > frameTol ||
		math.Abs(vector.Dot(major, minor)) > frameTol {
		return Kent{}, kentErrorf(opNew, ErrNotOrthonormal)
	}

	return newUnchecked(mean.Clone(), major.Clone(), minor.Clone(), kappa, beta), nil
}

// NewCanonical returns the distribution in the canonical frame:
// mean +Z, major +X, minor +Y.
func NewCanonical(kappa, beta float64) (Kent, error) {
	return New(vector.ZAxis, vector.XAxis, vector.YAxis, kappa, beta)
}

// FromAngles places the canonical frame with R = Rz(eta)·Ry(alpha)·Rz(psi):
// mean = R·e3, major = R·e1, minor = R·e2.
func FromAngles(psi, alpha, eta, kappa, beta float64) (Kent, error) {
	if err := validateConcentration(kappa, beta); err != nil {
		return Kent{}, kentErrorf("FromAngles", err)
	}
	mean, major, minor := frameFromAngles(psi, alpha, eta)

	return newUnchecked(mean, major, minor, kappa, beta), nil
}

// frameFromAngles returns the columns of Rz(eta)·Ry(alpha)·Rz(psi).
func frameFromAngles(psi, alpha, eta float64) (mean, major, minor vector.Vector) {
	r := matrix.OrthogonalTransform(psi, alpha, eta)

	return vector.Vector(r.Col(2)), vector.Vector(r.Col(0)), vector.Vector(r.Col(1))
}

func newUnchecked(mean, major, minor vector.Vector, kappa, beta float64) Kent {
	return Kent{
		mean:   mean,
		major:  major,
		minor:  minor,
		kappa:  kappa,
		beta:   beta,
		consts: computeConstants(kappa, beta),
	}
}

func validateConcentration(kappa, beta float64) error {
	if math.IsNaN(kappa) || math.IsNaN(beta) || math.IsInf(kappa, 0) || math.IsInf(beta, 0) {
		return ErrInvalidParameters
	}
	if kappa < 0 || beta < 0 {
		return ErrInvalidParameters
	}
	if kappa == 0 && beta == 0 {
		return nil
	}
	if 2*beta >= kappa {
		return ErrInvalidParameters
	}

	return nil
}

// Mean returns a copy of the mean direction.
func (k Kent) Mean() vector.Vector { return k.mean.Clone() }

// Major returns a copy of the major axis.
func (k Kent) Major() vector.Vector { return k.major.Clone() }

// Minor returns a copy of the minor axis.
func (k Kent) Minor() vector.Vector { return k.minor.Clone() }

// Kappa returns the concentration.
func (k Kent) Kappa() float64 { return k.kappa }

// Beta returns the ovalness.
func (k Kent) Beta() float64 { return k.beta }

// Constants returns the memoised normalisation constant and its partials.
func (k Kent) Constants() Constants { return k.consts }

// LogNormalizationConstant returns log c(κ, β), or +Inf when the series
// could not be evaluated.
func (k Kent) LogNormalizationConstant() float64 { return k.consts.LogC }

// Eccentricity returns 2β/κ in [0, 1); 0 for the uniform distribution.
func (k Kent) Eccentricity() float64 {
	if k.kappa == 0 {
		return 0
	}

	return 2 * k.beta / k.kappa
}

// Degenerate reports β <= threshold. Such a component is indistinguishable
// from a von Mises–Fisher one and its axes are ill-determined.
func (k Kent) Degenerate(threshold float64) bool {
	return k.beta <= threshold
}

// Angles recovers (psi, alpha, eta) with FromAngles(Angles()) reproducing
// the frame. alpha is in [0, π]; psi and eta are in (−π, π].
func (k Kent) Angles() (psi, alpha, eta float64) {
	mz := math.Max(-1, math.Min(1, k.mean[2]))
	alpha = math.Acos(mz)
	eta = math.Atan2(k.mean[1], k.mean[0])

	// undo Rz(eta) then Ry(alpha); what is left of the major axis is Rz(psi)·e1
	se, ce := math.Sincos(eta)
	u0 := ce*k.major[0] + se*k.major[1]
	u1 := -se*k.major[0] + ce*k.major[1]
	u2 := k.major[2]
	sa, ca := math.Sincos(alpha)
	w0 := ca*u0 - sa*u2
	psi = math.Atan2(u1, w0)

	return psi, alpha, eta
}

// String renders the parameters in the persistence/iteration-log layout.
func (k Kent) String() string {
	return fmt.Sprintf("mu=(%.10f,%.10f,%.10f)\tkap=%.10f\tbeta=%.10f\tmaj=(%.10f,%.10f,%.10f)\tmin=(%.10f,%.10f,%.10f)",
		k.mean[0], k.mean[1], k.mean[2], k.kappa, k.beta,
		k.major[0], k.major[1], k.major[2],
		k.minor[0], k.minor[1], k.minor[2])
}
