// SPDX-License-Identifier: MIT

package mixture

import (
	"context"
	"math"

	"github.com/katalvlaran/kentmix/kent"
	"github.com/katalvlaran/kentmix/specfunc"
	"github.com/katalvlaran/kentmix/vector"
)

// freeParams is the number of free parameters counted by the lattice term and
// by AIC/BIC: (D+1)·K − 1 with D = 3.
func freeParams(k int) int { return 4*k - 1 }

// computeMessageLength refreshes the negative log-likelihood and the message
// length of the current state.
func (m *Mixture) computeMessageLength(ctx context.Context) (float64, error) {
	nll, err := m.dataNegLogLikelihood(ctx)
	if err != nil {
		return 0, err
	}
	m.nll = nll
	m.msglen, m.part1, m.part2 = m.messageLengthOf(nll)

	return m.msglen, nil
}

// messageLengthOf returns the total, first-part and second-part lengths in
// bits for a given data negative log-likelihood (nits).
//
//	Ik = log MaxComponents
//	Iw = ((K−1)/2)·log N − log Γ(K) − ½·Σ log w_k
//	Il = NLL − 2N·log AOM
//	It = Σ_k comp_k.LogParameterCost(n_k)
//	cd = lattice constant for P = 4K−1
func (m *Mixture) messageLengthOf(nll float64) (total, part1, part2 float64) {
	kf := float64(m.k)
	ik := math.Log(float64(m.opts.MaxComponents))
	iw := (kf-1)/2*math.Log(m.total) - specfunc.LogGamma(kf)
	for _, w := range m.weights {
		iw -= 0.5 * math.Log(w)
	}
	il := nll - 2*m.total*math.Log(m.opts.AOM)
	var it float64
	for j, c := range m.components {
		it += c.LogParameterCost(m.sampleSize[j])
	}
	p := freeParams(m.k)
	cd := kent.LatticeConstant(p)

	total = (ik + iw + il + it + cd) / math.Ln2
	part2 = (il + float64(p)/2) / math.Ln2
	part1 = total - part2

	return total, part1, part2
}

// MinimumMessageLength recomputes the message length of the current state,
// in bits.
//
// Errors: ErrNotInitialized for a mixture without fitted state.
func (m *Mixture) MinimumMessageLength() (float64, error) {
	if !m.initialized {
		return 0, mixtureErrorf("MinimumMessageLength", ErrNotInitialized)
	}

	return m.computeMessageLength(context.Background())
}

// NullModelMessageLength returns the length in bits of stating the data
// under the uniform distribution on the sphere: N·(log 4π − 2·log AOM)/ln2.
func (m *Mixture) NullModelMessageLength() float64 {
	return m.total * (math.Log(4*math.Pi) - 2*math.Log(m.opts.AOM)) / math.Ln2
}

// NegativeLogLikelihood returns −Σ log Σ_k w_k·f_k(x) over sample, in nits.
//
// Errors: ErrEmptyData for an empty sample; ErrInvalidInput for a point that
// is not a 3-vector.
func (m *Mixture) NegativeLogLikelihood(sample []vector.Vector) (float64, error) {
	const op = "NegativeLogLikelihood"
	if len(sample) == 0 {
		return 0, mixtureErrorf(op, ErrEmptyData)
	}
	buf := make([]float64, m.k)
	var nll float64
	for _, x := range sample {
		if len(x) != 3 {
			return 0, mixtureErrorf(op, ErrInvalidInput)
		}
		nll -= logMixtureDensity(m.weights, m.components, x, buf)
	}

	return nll, nil
}

// informationLoss is NLL − 2N·log AOM over the mixture's own data, in nits.
func (m *Mixture) informationLoss() (float64, error) {
	if !m.initialized {
		return 0, ErrNotInitialized
	}
	nll, err := m.dataNegLogLikelihood(context.Background())
	if err != nil {
		return 0, err
	}

	return nll - 2*m.total*math.Log(m.opts.AOM), nil
}

// AIC returns the Akaike information criterion 2k + 2L in bits, with
// k = 4K−1 and L = NLL − 2N·log AOM.
func (m *Mixture) AIC() (float64, error) {
	l, err := m.informationLoss()
	if err != nil {
		return 0, mixtureErrorf("AIC", err)
	}

	return (2*float64(freeParams(m.k)) + 2*l) / math.Ln2, nil
}

// BIC returns the Bayesian information criterion k·log N + 2L in bits.
func (m *Mixture) BIC() (float64, error) {
	l, err := m.informationLoss()
	if err != nil {
		return 0, mixtureErrorf("BIC", err)
	}

	return (float64(freeParams(m.k))*math.Log(m.total) + 2*l) / math.Ln2, nil
}

// KLDivergence estimates KL(m ‖ other) in bits as the mean of
// log m(x) − log other(x) over sample, which should be drawn from m.
//
// Errors: ErrEmptyData for an empty sample.
func (m *Mixture) KLDivergence(other *Mixture, sample []vector.Vector) (float64, error) {
	if len(sample) == 0 {
		return 0, mixtureErrorf("KLDivergence", ErrEmptyData)
	}
	bf := make([]float64, m.k)
	bg := make([]float64, other.k)
	var sum float64
	for _, x := range sample {
		sum += logMixtureDensity(m.weights, m.components, x, bf) -
			logMixtureDensity(other.weights, other.components, x, bg)
	}

	return sum / (float64(len(sample)) * math.Ln2), nil
}
