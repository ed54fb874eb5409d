// SPDX-License-Identifier: MIT

package kent

import (
	"fmt"
	"math"
)

// Method identifies an estimator.
type Method int

const (
	// Moment solves the first two moment equations.
	Moment Method = iota
	// MLE minimises the negative log-likelihood over all five parameters.
	MLE
	// MAP minimises the negative log-posterior over all five parameters.
	MAP
	// MMLNewton minimises the message length in (κ, β) with Newton steps,
	// axes fixed at the MLE.
	MMLNewton
	// MMLHalley is MMLNewton with a Halley line step along each direction.
	MMLHalley
	// MMLComplete minimises the message length over all five parameters.
	MMLComplete

	numMethods
)

// Methods lists every estimator in the order EstimateAll reports them.
var Methods = []Method{Moment, MLE, MAP, MMLNewton, MMLHalley, MMLComplete}

// String returns the estimator name.
func (m Method) String() string {
	switch m {
	case Moment:
		return "moment"
	case MLE:
		return "mle"
	case MAP:
		return "map"
	case MMLNewton:
		return "mml_newton"
	case MMLHalley:
		return "mml_halley"
	case MMLComplete:
		return "mml_complete"
	default:
		return fmt.Sprintf("method(%d)", int(m))
	}
}

// DefaultMaxKappa bounds the concentration searched by every estimator.
const DefaultMaxKappa = 5000

// Options configures the estimators.
//
// Fields:
//   - MaxKappa: upper bound on κ (default DefaultMaxKappa).
//   - AOM: accuracy of measurement for message lengths (default DefaultAOM).
//   - Tolerance: absolute objective improvement below which an
//     optimiser stops (default 1e-8).
//   - MaxIterations: Nelder–Mead major-iteration budget (default 2000).
//   - NewtonIterations: MMLNewton/MMLHalley iteration budget (default 100).
type Options struct {
	MaxKappa         float64
	AOM              float64
	Tolerance        float64
	MaxIterations    int
	NewtonIterations int
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		MaxKappa:         DefaultMaxKappa,
		AOM:              DefaultAOM,
		Tolerance:        1e-8,
		MaxIterations:    2000,
		NewtonIterations: 100,
	}
}

// withDefaults fills zero fields.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MaxKappa <= 0 {
		o.MaxKappa = d.MaxKappa
	}
	if o.AOM <= 0 {
		o.AOM = d.AOM
	}
	if o.Tolerance <= 0 {
		o.Tolerance = d.Tolerance
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = d.MaxIterations
	}
	if o.NewtonIterations <= 0 {
		o.NewtonIterations = d.NewtonIterations
	}

	return o
}

// Estimates is the result of one estimator.
//
// NegLogLikelihood is in nits and MessageLength in bits, both evaluated on
// the Stats the estimate was fitted to. Err is non-nil (wrapping
// ErrNonFinite) when the estimator could not produce a finite fit; in that
// case Distribution holds its starting point.
type Estimates struct {
	Method           Method
	Distribution     Kent
	NegLogLikelihood float64
	MessageLength    float64
	Err              error
}

// EstimateAll runs every estimator on s and returns one entry per Method,
// in the order of Methods.
//
// Every estimator starts from the moment estimate; the MML variants start
// from the MLE. A failure of one estimator is reported in its entry and does
// not stop the others.
//
// Errors: ErrEmptyData, or the moment estimator's error, when nothing can be fitted.
func EstimateAll(s Stats, opts Options) ([]Estimates, error) {
	opts = opts.withDefaults()
	moment, err := momentEstimates(s, opts.MaxKappa)
	if err != nil {
		return nil, err
	}

	out := make([]Estimates, numMethods)
	out[Moment] = newEstimates(Moment, moment, s, opts, nil)

	mle, err := minimizeFull(s, moment, opts, nllObjective)
	out[MLE] = newEstimates(MLE, mle, s, opts, err)

	mapEst, err := minimizeFull(s, moment, opts, posteriorObjective)
	out[MAP] = newEstimates(MAP, mapEst, s, opts, err)

	newton, err := minimizeScale(s, mle, opts, false)
	out[MMLNewton] = newEstimates(MMLNewton, newton, s, opts, err)

	halley, err := minimizeScale(s, mle, opts, true)
	out[MMLHalley] = newEstimates(MMLHalley, halley, s, opts, err)

	complete, err := minimizeFull(s, mle, opts, msglenObjective)
	out[MMLComplete] = newEstimates(MMLComplete, complete, s, opts, err)

	return out, nil
}

// Estimate runs a single estimator; see EstimateAll.
func Estimate(s Stats, m Method, opts Options) (Estimates, error) {
	opts = opts.withDefaults()
	moment, err := momentEstimates(s, opts.MaxKappa)
	if err != nil {
		return Estimates{}, err
	}

	var (
		fit  Kent
		ferr error
	)
	switch m {
	case Moment:
		fit = moment
	case MLE:
		fit, ferr = minimizeFull(s, moment, opts, nllObjective)
	case MAP:
		fit, ferr = minimizeFull(s, moment, opts, posteriorObjective)
	case MMLNewton, MMLHalley, MMLComplete:
		mle, merr := minimizeFull(s, moment, opts, nllObjective)
		if merr != nil {
			return newEstimates(m, mle, s, opts, merr), nil
		}
		switch m {
		case MMLNewton:
			fit, ferr = minimizeScale(s, mle, opts, false)
		case MMLHalley:
			fit, ferr = minimizeScale(s, mle, opts, true)
		default:
			fit, ferr = minimizeFull(s, mle, opts, msglenObjective)
		}
	default:
		return Estimates{}, kentErrorf("Estimate", ErrInvalidParameters)
	}

	return newEstimates(m, fit, s, opts, ferr), nil
}

func newEstimates(m Method, k Kent, s Stats, opts Options, err error) Estimates {
	e := Estimates{
		Method:           m,
		Distribution:     k,
		NegLogLikelihood: k.NegLogLikelihoodStats(s),
		MessageLength:    k.messageLength(s, opts.AOM),
		Err:              err,
	}
	if e.Err == nil && (!k.consts.Finite() || math.IsNaN(e.NegLogLikelihood) || math.IsInf(e.MessageLength, 0)) {
		e.Err = kentErrorf(m.String(), ErrNonFinite)
	}

	return e
}
