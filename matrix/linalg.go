// SPDX-License-Identifier: MIT
// Package matrix provides the linear-algebra kernels the Kent estimators rely
// on: multiplication, transpose, matrix-vector products, Jacobi symmetric
// eigendecomposition and LU-based inversion.
//
// Notes:
//   - Every kernel validates its inputs through validators.go and wraps
//     failures with its operation tag via matrixErrorf.
//   - Inputs are converted once with toDense; the arithmetic then runs on
//     the flat row-major buffer with fixed loop orders.

package matrix

import (
	"fmt"
	"math"
)

// ZeroPivot is the sentinel for detecting a zero pivot in LU/Inverse routines.
const ZeroPivot = 0.0

// Operation name constants for unified error wrapping.
const (
	opMul       = "Mul"
	opTranspose = "Transpose"
	opMatVec    = "MatVec"
	opEigen     = "Eigen"
	opInverse   = "Inverse"
	opLU        = "LU"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// Use only when err != nil.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// Mul returns the product a*b as a new Dense.
//
// Errors:
//   - ErrNilMatrix (nil input), ErrDimensionMismatch (a.Cols != b.Rows).
//
// Complexity:
//   - Time O(r*n*c), Space O(r*c). Zero entries of a are skipped.
func Mul(a, b Matrix) (*Dense, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	da, err := toDense(a)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	db, err := toDense(b)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	res, err := NewDense(da.r, db.c)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	var (
		i, j, k int
		av      float64
	)
	// i→k→j keeps both b and res accessed along rows
	for i = 0; i < da.r; i++ {
		for k = 0; k < da.c; k++ {
			av = da.data[i*da.c+k]
			if av == 0 {
				continue
			}
			for j = 0; j < db.c; j++ {
				res.data[i*res.c+j] += av * db.data[k*db.c+j]
			}
		}
	}

	return res, nil
}

// Transpose returns mᵀ as a new Dense; m is never mutated.
// Complexity: Time O(r*c), Space O(r*c).
func Transpose(m Matrix) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	dm, err := toDense(m)
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	res, err := NewDense(dm.c, dm.r)
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	var i, j int
	for i = 0; i < dm.r; i++ {
		for j = 0; j < dm.c; j++ {
			res.data[j*dm.r+i] = dm.data[i*dm.c+j]
		}
	}

	return res, nil
}

// MatVec computes y = m * x for a column vector x.
//
// Contract: m non-nil; len(x) == m.Cols().
// Complexity: Time O(r*c), Space O(r) for y.
func MatVec(m Matrix, x []float64) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	if err := ValidateVecLen(x, m.Cols()); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	d, err := toDense(m)
	if err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	y := make([]float64, d.r)
	var (
		i, j int
		acc  float64
	)
	for i = 0; i < d.r; i++ {
		acc = 0
		for j = 0; j < d.c; j++ {
			acc += d.data[i*d.c+j] * x[j]
		}
		y[i] = acc
	}

	return y, nil
}

// Eigen computes eigenvalues and eigenvectors of a symmetric matrix via Jacobi rotations.
//
// Implementation:
//   - Stage 1: Validate symmetric square input within tol.
//   - Stage 2: Repeatedly pick (p,q) with the largest |A[p,q]| in i→j order and
//     apply a Jacobi rotation; accumulate the rotations into Q.
//
// Inputs:
//   - m: symmetric Matrix (within tol).
//   - tol: convergence threshold on the largest off-diagonal magnitude.
//   - maxIter: safety cap on rotations.
//
// Returns:
//   - []float64: eigenvalues in diagonal order (unsorted).
//   - *Dense: Q whose columns are the matching unit eigenvectors.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrAsymmetry, ErrMatrixEigenFailed.
//
// Complexity:
//   - Time O(maxIter * n²) for the pivot scans, Space O(n²).
func Eigen(m Matrix, tol float64, maxIter int) ([]float64, *Dense, error) {
	if err := ValidateSymmetric(m, tol); err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	src, err := toDense(m)
	if err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	n := src.r
	a := src.Clone().(*Dense)
	q, err := NewIdentity(n)
	if err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}

	var (
		iter, i, j, p, q2 int
		maxOff, off       float64
		app, aqq, apq     float64
		aip, aiq          float64
		theta, t, c, s    float64
	)
	for iter = 0; iter < maxIter; iter++ {
		// J.1: pivot with the largest off-diagonal magnitude
		maxOff = 0
		for i = 0; i < n; i++ {
			for j = i + 1; j < n; j++ {
				off = math.Abs(a.data[i*n+j])
				if off > maxOff {
					maxOff, p, q2 = off, i, j
				}
			}
		}
		// J.2: converged
		if maxOff < tol {
			break
		}

		// J.3: rotation parameters
		app = a.data[p*n+p]
		aqq = a.data[q2*n+q2]
		apq = a.data[p*n+q2]
		theta = (aqq - app) / (2 * apq)
		t = math.Copysign(1.0/(math.Abs(theta)+math.Hypot(theta, 1)), theta)
		c = 1.0 / math.Sqrt(t*t+1)
		s = t * c

		// J.4: rotate rows/cols p and q of A
		for i = 0; i < n; i++ {
			if i == p || i == q2 {
				continue
			}
			aip = a.data[i*n+p]
			aiq = a.data[i*n+q2]
			a.data[i*n+p], a.data[p*n+i] = c*aip-s*aiq, c*aip-s*aiq
			a.data[i*n+q2], a.data[q2*n+i] = s*aip+c*aiq, s*aip+c*aiq
		}
		a.data[p*n+p] = c*c*app - 2*c*s*apq + s*s*aqq
		a.data[q2*n+q2] = s*s*app + 2*c*s*apq + c*c*aqq
		a.data[p*n+q2], a.data[q2*n+p] = 0, 0

		// J.5: accumulate into Q
		for i = 0; i < n; i++ {
			aip = q.data[i*n+p]
			aiq = q.data[i*n+q2]
			q.data[i*n+p] = c*aip - s*aiq
			q.data[i*n+q2] = s*aip + c*aiq
		}
	}

	maxOff = 0
	for i = 0; i < n; i++ {
		for j = i + 1; j < n; j++ {
			if off = math.Abs(a.data[i*n+j]); off > maxOff {
				maxOff = off
			}
		}
	}
	if maxOff >= tol {
		return nil, nil, matrixErrorf(opEigen, ErrMatrixEigenFailed)
	}

	eigs := make([]float64, n)
	for i = 0; i < n; i++ {
		eigs[i] = a.data[i*n+i]
	}

	return eigs, q, nil
}

// LU computes the Doolittle factorization A = L*U with unit diagonal on L (no pivoting).
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrSingular (zero pivot).
//
// Complexity:
//   - Time O(n³), Space O(n²).
func LU(m Matrix) (*Dense, *Dense, error) {
	if err := ValidateSquare(m); err != nil {
		return nil, nil, matrixErrorf(opLU, err)
	}
	a, err := toDense(m)
	if err != nil {
		return nil, nil, matrixErrorf(opLU, err)
	}
	n := a.r
	l, err := NewIdentity(n)
	if err != nil {
		return nil, nil, matrixErrorf(opLU, err)
	}
	u, err := NewDense(n, n)
	if err != nil {
		return nil, nil, matrixErrorf(opLU, err)
	}

	var (
		i, j, k int
		sum     float64
	)
	for i = 0; i < n; i++ {
		// row i of U
		for j = i; j < n; j++ {
			sum = 0
			for k = 0; k < i; k++ {
				sum += l.data[i*n+k] * u.data[k*n+j]
			}
			u.data[i*n+j] = a.data[i*n+j] - sum
		}
		if u.data[i*n+i] == ZeroPivot {
			return nil, nil, matrixErrorf(opLU, ErrSingular)
		}
		// column i of L
		for j = i + 1; j < n; j++ {
			sum = 0
			for k = 0; k < i; k++ {
				sum += l.data[j*n+k] * u.data[k*n+i]
			}
			l.data[j*n+i] = (a.data[j*n+i] - sum) / u.data[i*n+i]
		}
	}

	return l, u, nil
}

// Inverse computes A⁻¹ from the Doolittle factors, solving one unit column at a time.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrSingular.
//
// Complexity:
//   - Time O(n³), Space O(n²).
//
// Notes:
//   - No pivoting. The estimators only invert small symmetric positive
//     definite Hessians, for which Doolittle without pivoting is stable.
func Inverse(m Matrix) (*Dense, error) {
	l, u, err := LU(m)
	if err != nil {
		return nil, matrixErrorf(opInverse, err)
	}
	n := l.r
	inv, err := NewDense(n, n)
	if err != nil {
		return nil, matrixErrorf(opInverse, err)
	}
	var (
		col, i, k int
		sum       float64
		y         = make([]float64, n)
		x         = make([]float64, n)
	)
	for col = 0; col < n; col++ {
		// forward: L*y = e_col
		for i = 0; i < n; i++ {
			sum = 0
			for k = 0; k < i; k++ {
				sum += l.data[i*n+k] * y[k]
			}
			if i == col {
				y[i] = 1 - sum
			} else {
				y[i] = -sum
			}
		}
		// backward: U*x = y
		for i = n - 1; i >= 0; i-- {
			sum = 0
			for k = i + 1; k < n; k++ {
				sum += u.data[i*n+k] * x[k]
			}
			x[i] = (y[i] - sum) / u.data[i*n+i]
		}
		for i = 0; i < n; i++ {
			inv.data[i*n+col] = x[i]
		}
	}

	return inv, nil
}
