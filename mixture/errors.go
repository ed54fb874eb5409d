// SPDX-License-Identifier: MIT
// Package mixture: sentinel error set.
// Every message is prefixed with "mixture: ..."; operations wrap with
// mixtureErrorf("Op", ErrX) so callers still match with errors.Is.

package mixture

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyData indicates a mixture built or fitted on no observations.
	ErrEmptyData = errors.New("mixture: empty data")

	// ErrInvalidInput indicates lengths of components, weights,
	// responsibilities or data that disagree, or out-of-range options.
	ErrInvalidInput = errors.New("mixture: invalid input")

	// ErrInvalidComponent indicates a component index out of range, or a
	// structural operation the current K cannot support.
	ErrInvalidComponent = errors.New("mixture: invalid component")

	// ErrNonFinite indicates a NaN or infinite responsibility, likelihood or
	// message length.
	ErrNonFinite = errors.New("mixture: non-finite value")

	// ErrMessageLengthIncreased indicates an EM iteration that increased the
	// message length beyond the monotone tolerance.
	ErrMessageLengthIncreased = errors.New("mixture: message length increased during EM")

	// ErrInvariant indicates a broken internal invariant, such as
	// responsibilities not summing to one for a point.
	ErrInvariant = errors.New("mixture: invariant violated")

	// ErrMalformedLine indicates a persisted component line that could not be parsed.
	ErrMalformedLine = errors.New("mixture: malformed component line")

	// ErrNotInitialized indicates an operation that needs fitted
	// responsibilities on a mixture that has none.
	ErrNotInitialized = errors.New("mixture: not initialized")
)

func mixtureErrorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
