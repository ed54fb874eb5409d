// Package matrix provides the small dense linear-algebra layer used by the
// Kent estimators.
//
// 🚀 What is in here?
//
//   - Dense: a row-major float64 matrix with error-returning At/Set.
//   - Mul, Transpose, MatVec: eager kernels returning fresh *Dense values.
//   - Eigen: Jacobi rotations for symmetric matrices (dispersion matrices).
//   - LU, Inverse: Doolittle factorization without pivoting (2×2 Hessians).
//   - RotationY/Z, OrthogonalTransform, AlignZAxis: frames on the sphere.
//
// ⚙️ Usage:
//
//	s, _ := matrix.NewFromRows([][]float64{{2, 1}, {1, 2}})
//	vals, vecs, err := matrix.Eigen(s, 1e-12, 100)
//
// All failures are sentinel errors from errors.go, wrapped with the
// operation name; match them with errors.Is.
package matrix
