// SPDX-License-Identifier: MIT
// Package kent: sentinel error set.
// Every message is prefixed with "kent: ..." and operations wrap with
// kentErrorf("Op", ErrX) so callers still match with errors.Is.

package kent

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameters indicates kappa/beta outside 0 <= 2·beta < kappa,
	// or a non-finite concentration.
	ErrInvalidParameters = errors.New("kent: invalid concentration parameters")

	// ErrNotOrthonormal indicates that mean, major and minor are not unit
	// vectors or are not mutually orthogonal within tolerance.
	ErrNotOrthonormal = errors.New("kent: axes are not orthonormal")

	// ErrEmptyData indicates an estimation request on zero total weight.
	ErrEmptyData = errors.New("kent: empty data")

	// ErrNonFinite indicates a non-finite normalisation constant, likelihood
	// or objective value.
	ErrNonFinite = errors.New("kent: non-finite value")

	// ErrDegenerate indicates an estimate whose beta fell below the
	// degeneracy threshold.
	ErrDegenerate = errors.New("kent: degenerate estimate")

	// ErrDimension indicates that an observation or axis is not a 3-vector,
	// or that data and weights disagree in length.
	ErrDimension = errors.New("kent: dimension mismatch")
)

// kentErrorf tags err with the operation name, keeping errors.Is intact.
func kentErrorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
