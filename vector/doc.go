// Package vector holds the small numeric toolkit shared by the Kent and
// mixture packages: dot and cross products, norms, spherical coordinates,
// weighted sums and scatter (dispersion) matrices, and a plain-text loader
// for directional observations.
//
// All directional data is represented as unit 3-vectors:
//
//	x := vector.New(0, 0, 1)          // the north pole
//	r, theta, phi := vector.CartesianToSpherical(x)
//
// Reducers accept an optional weights slice; nil means every observation
// carries weight 1.
package vector
