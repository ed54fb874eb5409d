// SPDX-License-Identifier: MIT

package mixture

import (
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/kentmix/kent"
	"github.com/katalvlaran/kentmix/vector"
)

// Generate draws n observations from the mixture and returns them with the
// index of the component each one came from.
//
// Each label is the first component whose cumulative weight is >= u for a
// uniform u. Points of the same component are then drawn in one batch from
// that component's sampler, so a fixed rng gives a fixed sample.
// rng == nil uses kent.NewRand(kent.DefaultSeed).
func (m *Mixture) Generate(n int, rng *rand.Rand) ([]vector.Vector, []int) {
	if n <= 0 {
		return nil, nil
	}
	if rng == nil {
		rng = kent.NewRand(kent.DefaultSeed)
	}
	cum := floats.CumSum(make([]float64, m.k), m.weights)

	labels := make([]int, n)
	counts := make([]int, m.k)
	var i, j int
	for i = 0; i < n; i++ {
		j = sort.SearchFloat64s(cum, rng.Float64())
		if j >= m.k {
			j = m.k - 1
		}
		labels[i] = j
		counts[j]++
	}

	drawn := make([][]vector.Vector, m.k)
	for j = 0; j < m.k; j++ {
		drawn[j] = m.components[j].Generate(counts[j], rng)
	}
	out := make([]vector.Vector, n)
	next := make([]int, m.k)
	for i, j = range labels {
		out[i] = drawn[j][next[j]]
		next[j]++
	}

	return out, labels
}

// Classify returns, for each observation, the component with the largest
// responsibility.
//
// Errors: ErrNotInitialized for a mixture without fitted state.
func (m *Mixture) Classify() ([]int, error) {
	if !m.initialized {
		return nil, mixtureErrorf("Classify", ErrNotInitialized)
	}
	out := make([]int, len(m.data))
	var i, j int
	for i = range out {
		best := 0
		for j = 1; j < m.k; j++ {
			if m.resp[j][i] > m.resp[best][i] {
				best = j
			}
		}
		out[i] = best
	}

	return out, nil
}
