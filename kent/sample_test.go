package kent_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/kentmix/kent"
	"github.com/katalvlaran/kentmix/vector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_UnitVectorsAndDeterminism(t *testing.T) {
	k, err := kent.FromAngles(1.2, 0.7, -0.4, 30, 10)
	require.NoError(t, err)

	a := k.Generate(500, kent.NewRand(42))
	b := k.Generate(500, kent.NewRand(42))
	require.Len(t, a, 500)
	assert.Equal(t, a, b, "same seed must reproduce the sample")
	for _, x := range a {
		assert.InDelta(t, 1.0, vector.Norm(x), 1e-12)
	}
	assert.Nil(t, k.Generate(0, nil))
	assert.Len(t, k.Generate(3, nil), 3, "nil rng uses the default stream")
}

func TestGenerate_MatchesExpectedMoments(t *testing.T) {
	cases := [][2]float64{{0.5, 0.1}, {10, 4}, {100, 30}}
	for _, p := range cases {
		k, err := kent.FromAngles(0.5, 2.0, 1.0, p[0], p[1])
		require.NoError(t, err)
		data := k.Generate(20000, kent.NewRand(9))

		var e1, eb float64
		for _, x := range data {
			y1 := vector.Dot(k.Mean(), x)
			y2 := vector.Dot(k.Major(), x)
			y3 := vector.Dot(k.Minor(), x)
			e1 += y1
			eb += y2*y2 - y3*y3
		}
		n := float64(len(data))
		want := k.Expectations()
		assert.InDelta(t, want.E1, e1/n, 0.02, "E[y1] κ=%g β=%g", p[0], p[1])
		assert.InDelta(t, want.Eb, eb/n, 0.02, "E[y2²−y3²] κ=%g β=%g", p[0], p[1])
	}
}

func TestDeriveRand_IndependentStreams(t *testing.T) {
	base := kent.NewRand(5)
	a := kent.DeriveRand(base, 1).Int63()
	b := kent.DeriveRand(base, 1).Int63()
	assert.NotEqual(t, a, b, "each derivation consumes the parent")

	x := kent.DeriveRand(nil, 3).Int63()
	y := kent.DeriveRand(nil, 3).Int63()
	assert.Equal(t, x, y, "nil parent is the default seed")
	assert.Equal(t, kent.NewRand(0).Int63(), kent.NewRand(kent.DefaultSeed).Int63())
	assert.False(t, math.IsNaN(float64(x)))
}
