// SPDX-License-Identifier: MIT

package mixture

import (
	"context"
	"math"
	"math/rand"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/kentmix/kent"
)

// checkStructural validates that m has fitted state and c indexes a component.
func (m *Mixture) checkStructural(op string, c ...int) error {
	if !m.initialized {
		return mixtureErrorf(op, ErrNotInitialized)
	}
	for _, j := range c {
		if j < 0 || j >= m.k {
			return mixtureErrorf(op, ErrInvalidComponent)
		}
	}

	return nil
}

// state is a structural edit of a mixture before EM runs on it.
type state struct {
	comps   []kent.Kent
	weights []float64
	resp    [][]float64
}

func newState(k int) state {
	return state{
		comps:   make([]kent.Kent, 0, k),
		weights: make([]float64, 0, k),
		resp:    make([][]float64, 0, k),
	}
}

func (s *state) add(c kent.Kent, w float64, r []float64) {
	s.comps = append(s.comps, c)
	s.weights = append(s.weights, w)
	s.resp = append(s.resp, r)
}

// Split replaces component c by two children and runs EM on the result.
//
// Steps:
//  1. Fit a 2-component child mixture to the data weighted by r_c(i)·dw(i).
//  2. Scale child weights by w_c and child responsibilities by r_c(i).
//  3. Put the children at positions c and c+1; every other component keeps
//     its relative order.
//  4. Run EM on the K+1 mixture.
//
// The receiver is not modified. rng seeds the child's initial assignment.
//
// Errors: ErrNotInitialized, ErrInvalidComponent, or any EM error of the
// child or the merged mixture.
func (m *Mixture) Split(c int, rng *rand.Rand) (*Mixture, error) {
	const op = "Split"
	if err := m.checkStructural(op, c); err != nil {
		return nil, err
	}
	st, err := m.splitState(c, rng)
	if err != nil {
		return nil, mixtureErrorf(op, err)
	}
	out, err := m.rebuild(op, st)
	if err != nil {
		return nil, err
	}
	m.logOperation(op, out, logrus.Fields{"component": c})

	return out, nil
}

func (m *Mixture) splitState(c int, rng *rand.Rand) (state, error) {
	ctx := context.Background()
	n := len(m.data)
	childW := make([]float64, n)
	var i, j int
	for i = 0; i < n; i++ {
		childW[i] = m.resp[c][i] * m.dataWeights[i]
	}
	child, err := FromData(2, m.data, childW, m.opts)
	if err != nil {
		return state{}, err
	}
	if err = child.initialize(ctx, rng); err != nil {
		return state{}, err
	}
	if _, err = child.EstimateContext(ctx); err != nil {
		return state{}, err
	}

	st := newState(m.k + 1)
	for j = 0; j < m.k; j++ {
		if j != c {
			st.add(m.components[j], m.weights[j], m.resp[j])
			continue
		}
		for x := 0; x < 2; x++ {
			row := make([]float64, n)
			for i = 0; i < n; i++ {
				row[i] = child.resp[x][i] * m.resp[c][i]
			}
			st.add(child.components[x], child.weights[x]*m.weights[c], row)
		}
	}

	return st, nil
}

// Kill removes component c and runs EM on the K−1 mixture. The remaining
// weights are divided by max(1 − w_c, ResidualFloor) and each point's
// remaining responsibilities by max(1 − r_c(i), ResidualFloor).
//
// Errors: ErrNotInitialized; ErrInvalidComponent for an out-of-range c or
// when K == 1; any EM error.
func (m *Mixture) Kill(c int) (*Mixture, error) {
	const op = "Kill"
	if err := m.checkStructural(op, c); err != nil {
		return nil, err
	}
	if m.k == 1 {
		return nil, mixtureErrorf(op, ErrInvalidComponent)
	}
	out, err := m.rebuild(op, m.killState(c))
	if err != nil {
		return nil, err
	}
	m.logOperation(op, out, logrus.Fields{"component": c})

	return out, nil
}

func (m *Mixture) killState(c int) state {
	n := len(m.data)
	floor := m.opts.ResidualFloor
	denom := math.Max(1-m.weights[c], floor)

	st := newState(m.k - 1)
	var i, j int
	for j = 0; j < m.k; j++ {
		if j == c {
			continue
		}
		row := make([]float64, n)
		for i = 0; i < n; i++ {
			row[i] = m.resp[j][i] / math.Max(1-m.resp[c][i], floor)
		}
		st.add(m.components[j], m.weights[j]/denom, row)
	}

	return st
}

// Join merges components c1 and c2 and runs EM on the K−1 mixture. The other
// components keep their order and the merged component is appended with
// weight w1+w2 and responsibility r1+r2. Its parameters come from a
// one-component fit to the data weighted by (r1+r2)·dw.
//
// Errors: ErrNotInitialized; ErrInvalidComponent for out-of-range or equal
// indices; any EM error.
func (m *Mixture) Join(c1, c2 int) (*Mixture, error) {
	const op = "Join"
	if err := m.checkStructural(op, c1, c2); err != nil {
		return nil, err
	}
	if c1 == c2 {
		return nil, mixtureErrorf(op, ErrInvalidComponent)
	}
	st, err := m.joinState(c1, c2)
	if err != nil {
		return nil, mixtureErrorf(op, err)
	}
	out, err := m.rebuild(op, st)
	if err != nil {
		return nil, err
	}
	m.logOperation(op, out, logrus.Fields{"components": []int{c1, c2}})

	return out, nil
}

func (m *Mixture) joinState(c1, c2 int) (state, error) {
	n := len(m.data)
	st := newState(m.k - 1)
	var i, j int
	for j = 0; j < m.k; j++ {
		if j == c1 || j == c2 {
			continue
		}
		st.add(m.components[j], m.weights[j], m.resp[j])
	}

	merged := make([]float64, n)
	fitW := make([]float64, n)
	for i = 0; i < n; i++ {
		merged[i] = m.resp[c1][i] + m.resp[c2][i]
		fitW[i] = merged[i] * m.dataWeights[i]
	}
	single, err := FromData(1, m.data, fitW, m.opts)
	if err != nil {
		return state{}, err
	}
	if err = single.initialize(context.Background(), nil); err != nil {
		return state{}, err
	}
	st.add(single.components[0], m.weights[c1]+m.weights[c2], merged)

	return st, nil
}

// rebuild assembles a mixture from a modified state, recomputes its sample
// sizes and runs EM on it.
func (m *Mixture) rebuild(op string, st state) (*Mixture, error) {
	ctx := context.Background()
	k := len(st.comps)
	out, err := FromFullState(k, st.comps, st.weights, make([]float64, k), st.resp, m.data, m.dataWeights, m.opts)
	if err != nil {
		return nil, mixtureErrorf(op, err)
	}
	if err = out.updateSampleSizes(ctx); err != nil {
		return nil, mixtureErrorf(op, err)
	}
	if _, err = out.EstimateContext(ctx); err != nil {
		return nil, mixtureErrorf(op, err)
	}

	return out, nil
}

func (m *Mixture) logOperation(op string, out *Mixture, fields logrus.Fields) {
	name := strings.ToLower(op)
	m.opts.Metrics.operation(name)
	m.opts.Logger.WithFields(fields).WithFields(logrus.Fields{
		"action":     name,
		"mixture_id": m.id,
		"result_id":  out.id,
		"from_k":     m.k,
		"to_k":       out.k,
		"msglen":     out.msglen,
	}).Info("structural operation finished")
}
