// SPDX-License-Identifier: MIT

package harness

import (
	"context"
	"io"
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/kentmix/kent"
)

// DefaultDegenerateBeta is the β at or below which an MMLComplete fit is
// treated as a collapsed von Mises–Fisher fit and the trial is redrawn.
const DefaultDegenerateBeta = 1e-5

// Options configures Run.
//
// Fields:
//   - Trials: number of recorded trials.
//   - SampleSize: observations drawn per trial.
//   - MaxRetries: redraws allowed per trial after a degenerate or failed fit.
//   - DegenerateBeta: see DefaultDegenerateBeta.
//   - Workers: trials run concurrently; <= 1 runs sequentially.
//   - Seed: parent seed of the per-trial streams.
//   - Estimator: options passed to kent.EstimateAll.
//   - Logger: structured logger; nil discards.
type Options struct {
	Trials         int
	SampleSize     int
	MaxRetries     int
	DegenerateBeta float64
	Workers        int
	Seed           int64
	Estimator      kent.Options
	Logger         logrus.FieldLogger
}

// DefaultOptions returns 100 trials of 100 observations with 10 retries.
func DefaultOptions() Options {
	return Options{
		Trials:         100,
		SampleSize:     100,
		MaxRetries:     10,
		DegenerateBeta: DefaultDegenerateBeta,
		Workers:        1,
		Seed:           kent.DefaultSeed,
		Estimator:      kent.DefaultOptions(),
	}
}

func (o Options) validate() error {
	switch {
	case o.Trials < 1:
		return errors.Wrapf(ErrInvalidOptions, "trials must be >= 1, got %d", o.Trials)
	case o.SampleSize < 2:
		return errors.Wrapf(ErrInvalidOptions, "sample size must be >= 2, got %d", o.SampleSize)
	case o.MaxRetries < 0:
		return errors.Wrapf(ErrInvalidOptions, "max retries must be >= 0, got %d", o.MaxRetries)
	case o.DegenerateBeta < 0:
		return errors.Wrapf(ErrInvalidOptions, "degenerate beta must be >= 0, got %g", o.DegenerateBeta)
	}

	return nil
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)

	return l
}

// Trial is one recorded draw.
//
// Estimates holds one entry per kent.Methods in that order. KL[j] is
// KL(truth ‖ Estimates[j].Distribution) in bits, NaN when that estimator
// failed. Discarded counts the redraws that preceded this trial.
type Trial struct {
	Index     int
	Discarded int
	Estimates []kent.Estimates
	KL        []float64
}

// Report is the result of Run.
type Report struct {
	Truth      kent.Kent
	SampleSize int
	Trials     []Trial
	// Discarded is the total number of redrawn samples over all trials.
	Discarded int
	Methods   []MethodSummary
}

// Run draws Options.Trials samples from truth, fits every estimator to each
// and summarises the results per estimator.
//
// Each trial draws until its MMLComplete estimate is finite and
// non-degenerate, at most MaxRetries+1 times.
//
// Errors: ErrInvalidOptions, ErrRetriesExhausted wrapped with the trial
// index, or ctx.Err().
func Run(ctx context.Context, truth kent.Kent, opts Options) (*Report, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = discardLogger()
	}

	// streams are derived up front so that results do not depend on scheduling
	base := kent.NewRand(opts.Seed)
	streams := make([]*rand.Rand, opts.Trials)
	for i := range streams {
		streams[i] = kent.DeriveRand(base, uint64(i))
	}

	trials := make([]Trial, opts.Trials)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.Workers, 1))
	for i := range trials {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			t, err := runTrial(truth, i, streams[i], opts)
			if err != nil {
				return err
			}
			trials[i] = t

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rep := &Report{
		Truth:      truth,
		SampleSize: opts.SampleSize,
		Trials:     trials,
	}
	for _, t := range trials {
		rep.Discarded += t.Discarded
	}
	rep.Methods = summarize(truth, trials)

	log := opts.Logger.WithFields(logrus.Fields{
		"action":    "experiment",
		"kappa":     truth.Kappa(),
		"beta":      truth.Beta(),
		"trials":    opts.Trials,
		"discarded": rep.Discarded,
	})
	if rep.Discarded > 0 {
		log.Warn("degenerate samples were redrawn; summaries exclude them")
	} else {
		log.Info("experiment finished")
	}

	return rep, nil
}

// runTrial draws and fits until the MMLComplete estimate is usable.
func runTrial(truth kent.Kent, index int, rng *rand.Rand, opts Options) (Trial, error) {
	t := Trial{Index: index}
	for attempt := 0; attempt <= opts.MaxRetries; attempt++ {
		est, reason := fitSample(truth, rng, opts)
		if reason == "" {
			t.Estimates = est
			t.KL = divergences(truth, est)

			return t, nil
		}
		t.Discarded++
		opts.Logger.WithFields(logrus.Fields{
			"action":  "experiment_retry",
			"trial":   index,
			"attempt": attempt + 1,
			"reason":  reason,
		}).Debug("sample discarded")
	}

	return Trial{}, errors.Wrapf(ErrRetriesExhausted, "trial %d after %d draws", index, opts.MaxRetries+1)
}

// fitSample returns the estimates of one fresh sample, or a non-empty
// reason when the sample has to be redrawn.
func fitSample(truth kent.Kent, rng *rand.Rand, opts Options) ([]kent.Estimates, string) {
	data := truth.Generate(opts.SampleSize, rng)
	s, err := kent.NewStats(data, nil)
	if err != nil {
		return nil, err.Error()
	}
	est, err := kent.EstimateAll(s, opts.Estimator)
	if err != nil {
		return nil, err.Error()
	}
	mml := est[kent.MMLComplete]
	switch {
	case mml.Err != nil:
		return nil, mml.Err.Error()
	case mml.Distribution.Degenerate(opts.DegenerateBeta):
		return nil, "degenerate"
	}

	return est, ""
}

func divergences(truth kent.Kent, est []kent.Estimates) []float64 {
	kl := make([]float64, len(est))
	for j, e := range est {
		kl[j] = math.NaN()
		if e.Err != nil {
			continue
		}
		if v, err := truth.KLDivergence(e.Distribution); err == nil {
			kl[j] = v
		}
	}

	return kl
}
