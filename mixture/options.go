// SPDX-License-Identifier: MIT

package mixture

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/kentmix/kent"
)

// Mode selects the EM objective.
type Mode int

const (
	// MML stops EM on message-length improvement and picks, per component,
	// the estimate with the shortest message length.
	MML Mode = iota
	// ML stops EM on negative log-likelihood improvement and uses the MLE.
	ML
)

// String returns "mml" or "ml".
func (m Mode) String() string {
	if m == ML {
		return "ml"
	}

	return "mml"
}

// Defaults.
const (
	DefaultMaxComponents     = 100
	DefaultImprovementRate   = 1e-9
	DefaultMinIterations     = 10
	DefaultMaxIterations     = 500
	DefaultMonotoneTolerance = 1e-9
	DefaultMinSampleSize     = 5
	DefaultResidualFloor     = 1e-10
)

// Options configures a mixture and its EM runs.
//
// Fields:
//   - MaxComponents: bound used to encode K (Ik = log MaxComponents).
//   - ImprovementRate: relative improvement below which EM stops.
//   - MinIterations: EM never stops before this many iterations.
//   - MaxIterations: hard bound on EM iterations.
//   - MonotoneTolerance: relative message-length increase tolerated
//     between iterations before ErrMessageLengthIncreased.
//   - AOM: accuracy of measurement.
//   - Workers: size of the E/M worker pool; <= 1 runs sequentially.
//   - Mode: MML or ML.
//   - MinSampleSize: components with a smaller effective sample keep
//     their previous parameters.
//   - ResidualFloor: lower bound on the 1−w and 1−r divisors in Kill.
//   - Estimator: options passed to kent.EstimateAll.
//   - Logger: structured logger; nil discards.
//   - LogSink: per-iteration parameter log; nil discards.
//   - Metrics: Prometheus collectors; nil disables.
//   - IDs: source of mixture IDs; nil uses a package-level source.
type Options struct {
	MaxComponents     int
	ImprovementRate   float64
	MinIterations     int
	MaxIterations     int
	MonotoneTolerance float64
	AOM               float64
	Workers           int
	Mode              Mode
	MinSampleSize     float64
	ResidualFloor     float64
	Estimator         kent.Options

	Logger  logrus.FieldLogger
	LogSink io.Writer
	Metrics *Metrics
	IDs     *IDSource
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		MaxComponents:     DefaultMaxComponents,
		ImprovementRate:   DefaultImprovementRate,
		MinIterations:     DefaultMinIterations,
		MaxIterations:     DefaultMaxIterations,
		MonotoneTolerance: DefaultMonotoneTolerance,
		AOM:               kent.DefaultAOM,
		Workers:           1,
		Mode:              MML,
		MinSampleSize:     DefaultMinSampleSize,
		ResidualFloor:     DefaultResidualFloor,
		Estimator:         kent.DefaultOptions(),
	}
}

var defaultIDs = &IDSource{}

// withDefaults fills zero fields and returns the result. The estimator
// always uses the mixture's AOM.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MaxComponents <= 0 {
		o.MaxComponents = d.MaxComponents
	}
	if o.ImprovementRate <= 0 {
		o.ImprovementRate = d.ImprovementRate
	}
	if o.MinIterations <= 0 {
		o.MinIterations = d.MinIterations
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = d.MaxIterations
	}
	if o.MonotoneTolerance <= 0 {
		o.MonotoneTolerance = d.MonotoneTolerance
	}
	if o.AOM <= 0 {
		o.AOM = d.AOM
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.MinSampleSize <= 0 {
		o.MinSampleSize = d.MinSampleSize
	}
	if o.ResidualFloor <= 0 {
		o.ResidualFloor = d.ResidualFloor
	}
	o.Estimator.AOM = o.AOM
	if o.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		o.Logger = l
	}
	if o.IDs == nil {
		o.IDs = defaultIDs
	}

	return o
}
