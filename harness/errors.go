// SPDX-License-Identifier: MIT
// Package harness: sentinel error set.

package harness

import "github.com/pkg/errors"

var (
	// ErrRetriesExhausted indicates a trial whose every draw gave a
	// degenerate or failed estimate within the retry budget.
	ErrRetriesExhausted = errors.New("harness: retries exhausted")

	// ErrNoFit indicates a sweep in which no K could be fitted.
	ErrNoFit = errors.New("harness: no mixture could be fitted")

	// ErrInvalidOptions indicates out-of-range experiment or search options.
	ErrInvalidOptions = errors.New("harness: invalid options")
)
