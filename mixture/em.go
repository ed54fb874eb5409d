// SPDX-License-Identifier: MIT

package mixture

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/kentmix/kent"
	"github.com/katalvlaran/kentmix/vector"
)

// columnTol bounds |Σ_k r_k(i) − 1| after the E-step.
const columnTol = 1e-6

// logMixtureDensity returns log Σ_k w_k·f_k(x) and leaves
// log w_k + log f_k(x) in buf.
func logMixtureDensity(weights []float64, components []kent.Kent, x vector.Vector, buf []float64) float64 {
	for j, c := range components {
		buf[j] = math.Log(weights[j]) + c.LogDensity(x)
	}

	return floats.LogSumExp(buf)
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Initialize assigns every observation to a uniformly random component, then
// derives sample sizes, weights and components from that hard assignment.
// rng == nil uses kent.NewRand(kent.DefaultSeed).
//
// Errors: ErrEmptyData for a mixture without data, or any M-step error.
func (m *Mixture) Initialize(rng *rand.Rand) error {
	return m.initialize(context.Background(), rng)
}

func (m *Mixture) initialize(ctx context.Context, rng *rand.Rand) error {
	const op = "Initialize"
	if len(m.data) == 0 {
		return mixtureErrorf(op, ErrEmptyData)
	}
	if rng == nil {
		rng = kent.NewRand(kent.DefaultSeed)
	}
	if m.resp == nil {
		m.resp = newResponsibilities(m.k, len(m.data))
	}
	var i, j int
	for i = range m.data {
		pick := rng.Intn(m.k)
		for j = 0; j < m.k; j++ {
			m.resp[j][i] = 0
		}
		m.resp[pick][i] = 1
	}
	if err := m.updateSampleSizes(ctx); err != nil {
		return mixtureErrorf(op, err)
	}
	m.updateWeights()
	if err := m.updateComponents(ctx, false); err != nil {
		return mixtureErrorf(op, err)
	}
	if _, err := m.computeMessageLength(ctx); err != nil {
		return mixtureErrorf(op, err)
	}
	m.initialized = true
	m.opts.Logger.WithFields(logrus.Fields{
		"action":     "em_initialize",
		"mixture_id": m.id,
		"components": m.k,
		"msglen":     m.msglen,
	}).Debug("mixture initialized")

	return nil
}

// updateResponsibilities is the E-step:
// r_k(i) = exp(log w_k + log f_k(x_i) − log Σ_j w_j f_j(x_i)).
func (m *Mixture) updateResponsibilities(ctx context.Context) error {
	const op = "updateResponsibilities"

	return parallelFor(ctx, m.opts.Workers, len(m.data), func(lo, hi int) error {
		buf := make([]float64, m.k)
		var i, j int
		for i = lo; i < hi; i++ {
			lse := logMixtureDensity(m.weights, m.components, m.data[i], buf)
			if !finite(lse) {
				return fmt.Errorf("%s: point %d: %w", op, i, ErrNonFinite)
			}
			var sum float64
			for j = 0; j < m.k; j++ {
				r := math.Exp(buf[j] - lse)
				m.resp[j][i] = r
				sum += r
			}
			if math.Abs(sum-1) > columnTol {
				return fmt.Errorf("%s: point %d: responsibilities sum to %g: %w", op, i, sum, ErrInvariant)
			}
		}

		return nil
	})
}

// updateSampleSizes sets n_k = Σ_i r_k(i)·dw(i).
func (m *Mixture) updateSampleSizes(ctx context.Context) error {
	return parallelFor(ctx, m.opts.Workers, m.k, func(lo, hi int) error {
		for j := lo; j < hi; j++ {
			m.sampleSize[j] = floats.Dot(m.resp[j], m.dataWeights)
		}

		return nil
	})
}

// updateWeights uses (n_k + ½)/(N + K/2) in MML mode and n_k/N in ML mode.
func (m *Mixture) updateWeights() {
	kf := float64(m.k)
	for j, n := range m.sampleSize {
		if m.opts.Mode == ML {
			m.weights[j] = n / m.total
			continue
		}
		m.weights[j] = (n + 0.5) / (m.total + kf/2)
	}
}

// updateComponents is the M-step. When havePrev is false there are no
// previous parameters to fall back on, and a component whose weighted data
// cannot be fitted is estimated from the whole dataset instead.
func (m *Mixture) updateComponents(ctx context.Context, havePrev bool) error {
	next := make([]kent.Kent, m.k)
	err := parallelFor(ctx, m.opts.Workers, m.k, func(lo, hi int) error {
		w := make([]float64, len(m.data))
		for j := lo; j < hi; j++ {
			c, err := m.estimateComponent(j, w, havePrev)
			if err != nil {
				return err
			}
			next[j] = c
		}

		return nil
	})
	if err != nil {
		return err
	}
	m.components = next

	return nil
}

func (m *Mixture) estimateComponent(j int, w []float64, havePrev bool) (kent.Kent, error) {
	const op = "updateComponents"
	if havePrev && m.sampleSize[j] < m.opts.MinSampleSize {
		return m.components[j], nil
	}
	floats.MulTo(w, m.resp[j], m.dataWeights)
	if s, err := kent.NewStats(m.data, w); err == nil {
		if c, ok := m.selectEstimate(s, j, havePrev); ok {
			return c, nil
		}
	}
	if havePrev {
		return m.components[j], nil
	}

	s, err := kent.NewStats(m.data, m.dataWeights)
	if err != nil {
		return kent.Kent{}, fmt.Errorf("%s: component %d: %w", op, j, err)
	}
	c, ok := m.selectEstimate(s, j, false)
	if !ok {
		return kent.Kent{}, fmt.Errorf("%s: component %d: %w", op, j, ErrNonFinite)
	}

	return c, nil
}

// selectEstimate returns the MLE in ML mode. In MML mode it returns the
// candidate with the shortest message length for s, the previous component
// included when havePrev is set.
func (m *Mixture) selectEstimate(s kent.Stats, j int, havePrev bool) (kent.Kent, bool) {
	if m.opts.Mode == ML {
		e, err := kent.Estimate(s, kent.MLE, m.opts.Estimator)
		if err != nil || e.Err != nil {
			return kent.Kent{}, false
		}

		return e.Distribution, true
	}

	var (
		best    kent.Kent
		bestLen = math.Inf(1)
		ok      bool
	)
	if havePrev {
		prev := m.components[j]
		if l := prev.MessageLengthAOM(s, m.opts.AOM); finite(l) {
			best, bestLen, ok = prev, l, true
		}
	}
	all, err := kent.EstimateAll(s, m.opts.Estimator)
	if err != nil {
		return best, ok
	}
	for _, e := range all {
		if e.Err == nil && finite(e.MessageLength) && e.MessageLength < bestLen {
			best, bestLen, ok = e.Distribution, e.MessageLength, true
		}
	}

	return best, ok
}

// dataNegLogLikelihood returns −Σ_i dw(i)·log Σ_k w_k f_k(x_i), in nits.
// The per-point terms are summed in index order whatever the worker count.
func (m *Mixture) dataNegLogLikelihood(ctx context.Context) (float64, error) {
	ll := make([]float64, len(m.data))
	err := parallelFor(ctx, m.opts.Workers, len(m.data), func(lo, hi int) error {
		buf := make([]float64, m.k)
		for i := lo; i < hi; i++ {
			ll[i] = logMixtureDensity(m.weights, m.components, m.data[i], buf)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return -floats.Dot(ll, m.dataWeights), nil
}

// Estimate runs EM to convergence and returns the final message length in
// bits. An uninitialised mixture is first initialised with the default seed.
// See EstimateContext.
func (m *Mixture) Estimate() (float64, error) {
	return m.EstimateContext(context.Background())
}

// EstimateContext runs EM until the stopping rule of Options.Mode fires or
// Options.MaxIterations is reached.
//
// Stopping rules (after more than Options.MinIterations iterations):
//   - MML: (prev − cur) <= ImprovementRate·prev on the message length and
//     the gain is no larger than that of the previous iteration;
//   - ML:  |prev − cur| <= ImprovementRate·|prev| on the negative log-likelihood.
//
// Errors:
//   - ErrEmptyData for a mixture without data;
//   - ErrNonFinite when a responsibility or the message length is not finite;
//   - ErrInvariant when responsibilities do not sum to one;
//   - ErrMessageLengthIncreased (MML only) when an iteration lengthens the
//     message by more than MonotoneTolerance relative to the previous one;
//   - ctx.Err() on cancellation.
//
// On error the mixture holds the state of the failing iteration.
func (m *Mixture) EstimateContext(ctx context.Context) (float64, error) {
	const op = "Estimate"
	if len(m.data) == 0 {
		return 0, mixtureErrorf(op, ErrEmptyData)
	}
	if !m.initialized {
		if err := m.initialize(ctx, nil); err != nil {
			m.opts.Metrics.failure("initialize")
			return 0, err
		}
	}

	var (
		prev, prevNLL float64
		iter          int
	)
	prevGain := math.Inf(1)
	for iter = 1; iter <= m.opts.MaxIterations; iter++ {
		if err := m.iterate(ctx); err != nil {
			m.opts.Metrics.failure(failureReason(err))
			return m.msglen, mixtureErrorf(op, err)
		}
		cur, nll := m.msglen, m.nll
		m.opts.Metrics.iteration()
		m.opts.Logger.WithFields(logrus.Fields{
			"action":     "em_iteration",
			"mixture_id": m.id,
			"iteration":  iter,
			"msglen":     cur,
		}).Debug("em iteration")
		m.logIteration(iter)

		if !finite(cur) {
			m.opts.Metrics.failure("non_finite")
			return cur, mixtureErrorf(op, ErrNonFinite)
		}
		if iter > 1 && m.opts.Mode == MML {
			if cur-prev > m.opts.MonotoneTolerance*math.Abs(prev) {
				m.opts.Metrics.failure("msglen_increased")
				return cur, fmt.Errorf("%s: iteration %d: %.6f > %.6f bits: %w",
					op, iter, cur, prev, ErrMessageLengthIncreased)
			}
			gain := prev - cur
			if iter > m.opts.MinIterations && gain <= m.opts.ImprovementRate*prev && gain <= prevGain {
				break
			}
			prevGain = gain
		}
		if iter > 1 && m.opts.Mode == ML && iter > m.opts.MinIterations &&
			math.Abs(prevNLL-nll) <= m.opts.ImprovementRate*math.Abs(prevNLL) {
			break
		}
		prev, prevNLL = cur, nll
	}

	m.opts.Metrics.converged(m.k, m.msglen)
	m.opts.Logger.WithFields(logrus.Fields{
		"action":     "em_converged",
		"mixture_id": m.id,
		"components": m.k,
		"iterations": min(iter, m.opts.MaxIterations),
		"msglen":     m.msglen,
	}).Debug("em converged")

	return m.msglen, nil
}

// iterate runs one E-step and M-step and refreshes the message length.
func (m *Mixture) iterate(ctx context.Context) error {
	if err := m.updateResponsibilities(ctx); err != nil {
		return err
	}
	if err := m.updateSampleSizes(ctx); err != nil {
		return err
	}
	m.updateWeights()
	if err := m.updateComponents(ctx, true); err != nil {
		return err
	}
	_, err := m.computeMessageLength(ctx)

	return err
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrNonFinite):
		return "non_finite"
	case errors.Is(err, ErrInvariant):
		return "invariant"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "other"
	}
}
