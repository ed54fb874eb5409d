package mixture

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/kentmix/kent"
)

// fittedPair fits a two-component mixture to two clusters at right angles.
func fittedPair(t *testing.T) *Mixture {
	t.Helper()
	a, err := kent.NewCanonical(60, 10)
	require.NoError(t, err)
	b, err := kent.FromAngles(0, math.Pi/2, 0, 60, 10)
	require.NoError(t, err)
	rng := kent.NewRand(8)
	data := append(a.Generate(100, rng), b.Generate(100, rng)...)

	m, err := FromData(2, data, nil, DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, m.Initialize(kent.NewRand(2)))
	_, err = m.Estimate()
	require.NoError(t, err)

	return m
}

func TestKillState_RenormalisesWeights(t *testing.T) {
	m := fittedPair(t)
	st := m.killState(0)
	require.Len(t, st.weights, 1)
	assert.InDelta(t, 1.0, st.weights[0], 1e-12)
	for i, r := range st.resp[0] {
		want := m.resp[1][i] / math.Max(1-m.resp[0][i], m.opts.ResidualFloor)
		assert.Equal(t, want, r)
	}
}

func TestSplitThenJoinState_WeightIsChildSum(t *testing.T) {
	m := fittedPair(t)
	split, err := m.Split(1, kent.NewRand(4))
	require.NoError(t, err)
	require.Equal(t, 3, split.k)

	st, err := split.joinState(1, 2)
	require.NoError(t, err)
	require.Len(t, st.weights, 2)
	assert.Equal(t, split.weights[1]+split.weights[2], st.weights[1], "merged component is appended")
	assert.Equal(t, split.weights[0], st.weights[0])
	for i := range st.resp[1] {
		assert.Equal(t, split.resp[1][i]+split.resp[2][i], st.resp[1][i])
	}
}

func TestSplitState_PlacesChildrenInPlace(t *testing.T) {
	m := fittedPair(t)
	st, err := m.splitState(0, kent.NewRand(6))
	require.NoError(t, err)
	require.Len(t, st.comps, 3)
	assert.Equal(t, m.components[1].Mean(), st.comps[2].Mean(), "components after c shift by one")
	assert.InDelta(t, m.weights[0], st.weights[0]+st.weights[1], 1e-12)
	for i := range m.data {
		assert.InDelta(t, m.resp[0][i], st.resp[0][i]+st.resp[1][i], 1e-9)
	}
}

func TestParallelFor_RecoversPanics(t *testing.T) {
	err := parallelFor(context.Background(), 3, 10, func(lo, hi int) error {
		if lo == 0 {
			panic("boom")
		}
		return nil
	})
	assert.ErrorIs(t, err, ErrInvariant)

	seen := make([]int, 10)
	require.NoError(t, parallelFor(context.Background(), 4, 10, func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			seen[i]++
		}
		return nil
	}))
	for i, c := range seen {
		assert.Equal(t, 1, c, "slot %d", i)
	}
}
