// SPDX-License-Identifier: MIT

package mixture

import (
	"math"

	"github.com/katalvlaran/kentmix/kent"
	"github.com/katalvlaran/kentmix/vector"
)

// weightTol is the slack allowed when checking that weights form a simplex.
const weightTol = 1e-6

// Mixture is a finite mixture of Kent components over a shared dataset.
//
// A Mixture is not safe for concurrent mutation. The structural operators
// Split, Kill and Join never touch the receiver; they return a new mixture
// that shares the (read-only) data slice.
type Mixture struct {
	id          int64
	k           int
	components  []kent.Kent
	weights     []float64
	sampleSize  []float64
	resp        [][]float64 // K×N
	data        []vector.Vector
	dataWeights []float64
	total       float64 // Σ dataWeights
	opts        Options

	msglen, part1, part2 float64
	nll                  float64
	initialized          bool
}

// FromComponents returns an evaluation or generation mixture with no data.
// Weights are normalised to sum to one.
//
// Errors: ErrInvalidInput on empty or mismatched inputs, negative weights or
// a non-positive weight total.
func FromComponents(components []kent.Kent, weights []float64, opts Options) (*Mixture, error) {
	const op = "FromComponents"
	if len(components) == 0 || len(components) != len(weights) {
		return nil, mixtureErrorf(op, ErrInvalidInput)
	}
	w, err := normalizedWeights(weights)
	if err != nil {
		return nil, mixtureErrorf(op, err)
	}
	opts = opts.withDefaults()

	return &Mixture{
		id:         opts.IDs.Next(),
		k:          len(components),
		components: append([]kent.Kent(nil), components...),
		weights:    w,
		sampleSize: make([]float64, len(components)),
		opts:       opts,
	}, nil
}

// FromData returns an unfitted K-component mixture over data. dataWeights
// == nil means unit weights. Initialize (or Estimate, which initialises on
// demand) must run before the mixture can be evaluated.
//
// Errors:
//   - ErrEmptyData if data is empty;
//   - ErrInvalidInput if k < 1, a point is not a 3-vector, or
//     len(dataWeights) != len(data) or a data weight is negative.
func FromData(k int, data []vector.Vector, dataWeights []float64, opts Options) (*Mixture, error) {
	const op = "FromData"
	if len(data) == 0 {
		return nil, mixtureErrorf(op, ErrEmptyData)
	}
	if k < 1 {
		return nil, mixtureErrorf(op, ErrInvalidInput)
	}
	dw, total, err := checkData(data, dataWeights)
	if err != nil {
		return nil, mixtureErrorf(op, err)
	}
	opts = opts.withDefaults()

	return &Mixture{
		id:          opts.IDs.Next(),
		k:           k,
		weights:     make([]float64, k),
		sampleSize:  make([]float64, k),
		resp:        newResponsibilities(k, len(data)),
		data:        data,
		dataWeights: dw,
		total:       total,
		opts:        opts,
	}, nil
}

// FromFullState assembles a mixture from an existing EM state. The inputs are
// copied, except data which is shared read-only.
//
// Errors: ErrEmptyData for empty data; ErrInvalidInput when any length
// disagrees with k or len(data).
func FromFullState(
	k int,
	components []kent.Kent,
	weights, sampleSize []float64,
	responsibility [][]float64,
	data []vector.Vector,
	dataWeights []float64,
	opts Options,
) (*Mixture, error) {
	const op = "FromFullState"
	if len(data) == 0 {
		return nil, mixtureErrorf(op, ErrEmptyData)
	}
	if k < 1 || len(components) != k || len(weights) != k || len(sampleSize) != k || len(responsibility) != k {
		return nil, mixtureErrorf(op, ErrInvalidInput)
	}
	for _, row := range responsibility {
		if len(row) != len(data) {
			return nil, mixtureErrorf(op, ErrInvalidInput)
		}
	}
	dw, total, err := checkData(data, dataWeights)
	if err != nil {
		return nil, mixtureErrorf(op, err)
	}
	w, err := normalizedWeights(weights)
	if err != nil {
		return nil, mixtureErrorf(op, err)
	}
	opts = opts.withDefaults()

	m := &Mixture{
		id:          opts.IDs.Next(),
		k:           k,
		components:  append([]kent.Kent(nil), components...),
		weights:     w,
		sampleSize:  append([]float64(nil), sampleSize...),
		resp:        cloneRows(responsibility),
		data:        data,
		dataWeights: dw,
		total:       total,
		opts:        opts,
		initialized: true,
	}

	return m, nil
}

func checkData(data []vector.Vector, dataWeights []float64) ([]float64, float64, error) {
	if dataWeights != nil && len(dataWeights) != len(data) {
		return nil, 0, ErrInvalidInput
	}
	dw := make([]float64, len(data))
	var total float64
	for i, x := range data {
		if len(x) != 3 {
			return nil, 0, ErrInvalidInput
		}
		dw[i] = 1
		if dataWeights != nil {
			dw[i] = dataWeights[i]
		}
		if dw[i] < 0 || math.IsNaN(dw[i]) || math.IsInf(dw[i], 0) {
			return nil, 0, ErrInvalidInput
		}
		total += dw[i]
	}
	if !(total > 0) {
		return nil, 0, ErrEmptyData
	}

	return dw, total, nil
}

func normalizedWeights(weights []float64) ([]float64, error) {
	var sum float64
	for _, w := range weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, ErrInvalidInput
		}
		sum += w
	}
	if !(sum > 0) {
		return nil, ErrInvalidInput
	}
	out := make([]float64, len(weights))
	for i, w := range weights {
		out[i] = w / sum
	}

	return out, nil
}

func newResponsibilities(k, n int) [][]float64 {
	buf := make([]float64, k*n)
	rows := make([][]float64, k)
	for j := range rows {
		rows[j] = buf[j*n : (j+1)*n : (j+1)*n]
	}

	return rows
}

func cloneRows(rows [][]float64) [][]float64 {
	if rows == nil {
		return nil
	}
	out := newResponsibilities(len(rows), len(rows[0]))
	for j := range rows {
		copy(out[j], rows[j])
	}

	return out
}

// ID returns the run-scoped identifier of the mixture.
func (m *Mixture) ID() int64 { return m.id }

// K returns the number of components.
func (m *Mixture) K() int { return m.k }

// N returns the number of observations, or 0 for a mixture without data.
func (m *Mixture) N() int { return len(m.data) }

// Components returns a copy of the components.
func (m *Mixture) Components() []kent.Kent { return append([]kent.Kent(nil), m.components...) }

// Weights returns a copy of the mixing weights.
func (m *Mixture) Weights() []float64 { return append([]float64(nil), m.weights...) }

// SampleSizes returns a copy of the effective sample sizes n_k = Σ r_k(i)·dw(i).
func (m *Mixture) SampleSizes() []float64 { return append([]float64(nil), m.sampleSize...) }

// Responsibilities returns a copy of the K×N responsibility matrix.
func (m *Mixture) Responsibilities() [][]float64 { return cloneRows(m.resp) }

// MessageLength returns the last computed message length in bits.
func (m *Mixture) MessageLength() float64 { return m.msglen }

// MessageLengthParts returns the first part (model) and second part (data)
// of the last computed message length, in bits.
func (m *Mixture) MessageLengthParts() (part1, part2 float64) { return m.part1, m.part2 }

// Initialized reports whether the mixture holds fitted responsibilities.
func (m *Mixture) Initialized() bool { return m.initialized }

// LogProbability returns log Σ_k w_k·f_k(x), in nits.
func (m *Mixture) LogProbability(x vector.Vector) float64 {
	return logMixtureDensity(m.weights, m.components, x, make([]float64, m.k))
}
