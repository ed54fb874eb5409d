// SPDX-License-Identifier: MIT

package kent

import (
	"math"

	"gonum.org/v1/gonum/integrate/quad"
)

// IntegrateDensity integrates f over the sphere in the distribution's own
// frame with nested Gauss–Legendre rules: nTheta nodes in the polar angle
// from the mean and nPhi nodes in the azimuth. A valid distribution
// integrates to 1.
//
// Concentrated densities need nTheta of order 10·sqrt(κ).
func (k Kent) IntegrateDensity(nTheta, nPhi int) float64 {
	if nTheta <= 0 || nPhi <= 0 {
		return math.NaN()
	}
	inner := func(theta float64) float64 {
		st, ct := math.Sincos(theta)
		f := func(phi float64) float64 {
			sp, cp := math.Sincos(phi)
			x := k.toFrame(st*cp, st*sp, ct)

			return k.Density(x)
		}

		return st * quad.Fixed(f, 0, 2*math.Pi, nPhi, quad.Legendre{}, 0)
	}

	return quad.Fixed(inner, 0, math.Pi, nTheta, quad.Legendre{}, 0)
}
