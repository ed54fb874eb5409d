// SPDX-License-Identifier: MIT

package matrix

import "math"

const opAlign = "AlignZAxis"

// RotationY returns the 3×3 right-handed rotation by angle about +Y.
func RotationY(angle float64) *Dense {
	s, c := math.Sincos(angle)

	return &Dense{r: 3, c: 3, data: []float64{
		c, 0, s,
		0, 1, 0,
		-s, 0, c,
	}}
}

// RotationZ returns the 3×3 right-handed rotation by angle about +Z.
func RotationZ(angle float64) *Dense {
	s, c := math.Sincos(angle)

	return &Dense{r: 3, c: 3, data: []float64{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	}}
}

// OrthogonalTransform composes Rz(eta)·Ry(alpha)·Rz(psi).
//
// Applied to the canonical frame (+Z mean, +X major, +Y minor) it places the
// mean at polar angle alpha and azimuth eta, with the major axis turned by psi
// about the mean.
func OrthogonalTransform(psi, alpha, eta float64) *Dense {
	// rotations are always 3×3, Mul cannot fail here
	inner, _ := Mul(RotationY(alpha), RotationZ(psi))
	out, _ := Mul(RotationZ(eta), inner)

	return out
}

// AlignZAxis returns the rotation Rz(phi)·Ry(theta) that carries +Z onto the
// direction of v, where (theta, phi) are the polar and azimuthal angles of v.
//
// Errors:
//   - ErrDimensionMismatch if len(v) != 3.
//   - ErrZeroVector if v has zero length.
func AlignZAxis(v []float64) (*Dense, error) {
	if len(v) != 3 {
		return nil, matrixErrorf(opAlign, ErrDimensionMismatch)
	}
	r := math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if r == 0 || math.IsNaN(r) {
		return nil, matrixErrorf(opAlign, ErrZeroVector)
	}
	ct := v[2] / r
	if ct > 1 {
		ct = 1
	} else if ct < -1 {
		ct = -1
	}
	theta := math.Acos(ct)
	phi := math.Atan2(v[1], v[0])

	return Mul(RotationZ(phi), RotationY(theta))
}
