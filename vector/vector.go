// SPDX-License-Identifier: MIT

package vector

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ErrZeroVector is returned when a direction is requested for a vector of zero length.
var ErrZeroVector = errors.New("vector: zero-length vector")

// ErrDimension indicates operands of incompatible length.
var ErrDimension = errors.New("vector: dimension mismatch")

// ErrEmptyData is returned by loaders and reducers when no observations are available.
var ErrEmptyData = errors.New("vector: empty data")

// Vector is an ordered sequence of reals. Directional observations, means and
// axes are 3-vectors; the helpers below work for any length unless noted.
type Vector []float64

// Canonical axes of R³.
var (
	XAxis = Vector{1, 0, 0}
	YAxis = Vector{0, 1, 0}
	ZAxis = Vector{0, 0, 1}
)

// New returns the 3-vector (x, y, z).
func New(x, y, z float64) Vector {
	return Vector{x, y, z}
}

// Clone returns an independent copy of v.
func (v Vector) Clone() Vector {
	out := make(Vector, len(v))
	copy(out, v)

	return out
}

// Dot returns a·b. Panics on length mismatch (programmer error), like floats.Dot.
func Dot(a, b Vector) float64 {
	return floats.Dot(a, b)
}

// Norm returns the Euclidean length of v.
func Norm(v Vector) float64 {
	return floats.Norm(v, 2)
}

// Normalize returns v/|v| or ErrZeroVector.
func Normalize(v Vector) (Vector, error) {
	n := Norm(v)
	if n == 0 || math.IsNaN(n) {
		return nil, ErrZeroVector
	}
	out := v.Clone()
	floats.Scale(1/n, out)

	return out, nil
}

// Scale returns s·v as a new vector.
func Scale(v Vector, s float64) Vector {
	out := v.Clone()
	floats.Scale(s, out)

	return out
}

// Add returns a+b as a new vector.
func Add(a, b Vector) Vector {
	out := make(Vector, len(a))
	floats.AddTo(out, a, b)

	return out
}

// Sub returns a−b as a new vector.
func Sub(a, b Vector) Vector {
	out := make(Vector, len(a))
	floats.SubTo(out, a, b)

	return out
}

// Cross returns a×b. Both operands must be 3-vectors.
func Cross(a, b Vector) (Vector, error) {
	if len(a) != 3 || len(b) != 3 {
		return nil, fmt.Errorf("Cross(%d,%d): %w", len(a), len(b), ErrDimension)
	}

	return Vector{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}, nil
}

// CartesianToSpherical converts a 3-vector to (r, theta, phi): theta is the
// polar angle measured from +Z in [0,π], phi the azimuth from +X in [0,2π).
func CartesianToSpherical(v Vector) (r, theta, phi float64) {
	r = Norm(v)
	if r == 0 {
		return 0, 0, 0
	}
	cosTheta := v[2] / r
	// clamp rounding noise before acos
	if cosTheta > 1 {
		cosTheta = 1
	} else if cosTheta < -1 {
		cosTheta = -1
	}
	theta = math.Acos(cosTheta)
	phi = math.Atan2(v[1], v[0])
	if phi < 0 {
		phi += 2 * math.Pi
	}

	return r, theta, phi
}

// SphericalToCartesian is the inverse of CartesianToSpherical.
func SphericalToCartesian(r, theta, phi float64) Vector {
	st, ct := math.Sincos(theta)
	sp, cp := math.Sincos(phi)

	return Vector{r * st * cp, r * st * sp, r * ct}
}

// AngleBetween returns the angle in radians between two non-zero vectors.
func AngleBetween(a, b Vector) float64 {
	c := Dot(a, b) / (Norm(a) * Norm(b))
	if c > 1 {
		c = 1
	} else if c < -1 {
		c = -1
	}

	return math.Acos(c)
}
