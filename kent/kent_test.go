package kent_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/kentmix/kent"
	"github.com/katalvlaran/kentmix/vector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mustCanonical builds a canonical-frame Kent or fails the test.
func mustCanonical(t testing.TB, kappa, beta float64) kent.Kent {
	t.Helper()
	k, err := kent.NewCanonical(kappa, beta)
	require.NoError(t, err)

	return k
}

func TestNew_Validation(t *testing.T) {
	_, err := kent.New(vector.ZAxis, vector.XAxis, vector.YAxis, 10, 5)
	assert.ErrorIs(t, err, kent.ErrInvalidParameters, "2β == κ is outside the support")

	_, err = kent.New(vector.ZAxis, vector.XAxis, vector.YAxis, -1, 0)
	assert.ErrorIs(t, err, kent.ErrInvalidParameters)

	_, err = kent.New(vector.ZAxis, vector.XAxis, vector.YAxis, math.NaN(), 0)
	assert.ErrorIs(t, err, kent.ErrInvalidParameters)

	_, err = kent.New(vector.ZAxis, vector.XAxis, vector.XAxis, 10, 1)
	assert.ErrorIs(t, err, kent.ErrNotOrthonormal)

	_, err = kent.New(vector.New(0, 0, 2), vector.XAxis, vector.YAxis, 10, 1)
	assert.ErrorIs(t, err, kent.ErrNotOrthonormal)

	_, err = kent.New(vector.Vector{0, 1}, vector.XAxis, vector.YAxis, 10, 1)
	assert.ErrorIs(t, err, kent.ErrDimension)

	u, err := kent.NewCanonical(0, 0)
	require.NoError(t, err, "κ = β = 0 is the uniform distribution")
	assert.InDelta(t, math.Log(4*math.Pi), u.LogNormalizationConstant(), 1e-9)
}

func TestNew_CopiesAxes(t *testing.T) {
	mean := vector.New(0, 0, 1)
	k, err := kent.New(mean, vector.XAxis, vector.YAxis, 5, 1)
	require.NoError(t, err)
	mean[2] = 7
	assert.Equal(t, 1.0, k.Mean()[2])
	m := k.Mean()
	m[0] = 3
	assert.Equal(t, 0.0, k.Mean()[0])
}

func TestFromAngles_RoundTrip(t *testing.T) {
	const psi, alpha, eta = 0.4, 1.1, -2.0
	k, err := kent.FromAngles(psi, alpha, eta, 20, 6)
	require.NoError(t, err)

	assert.InDelta(t, math.Sin(alpha)*math.Cos(eta), k.Mean()[0], 1e-12)
	assert.InDelta(t, math.Cos(alpha), k.Mean()[2], 1e-12)

	p, a, e := k.Angles()
	assert.InDelta(t, psi, p, 1e-12)
	assert.InDelta(t, alpha, a, 1e-12)
	assert.InDelta(t, eta, e, 1e-12)

	// frame is right-handed: mean × major = minor
	c, err := vector.Cross(k.Mean(), k.Major())
	require.NoError(t, err)
	for i := range c {
		assert.InDelta(t, k.Minor()[i], c[i], 1e-12)
	}
}

func TestEccentricityAndDegenerate(t *testing.T) {
	k := mustCanonical(t, 40, 10)
	assert.InDelta(t, 0.5, k.Eccentricity(), 1e-15)
	assert.False(t, k.Degenerate(1e-5))
	assert.True(t, mustCanonical(t, 40, 0).Degenerate(1e-5))
	assert.Equal(t, 0.0, mustCanonical(t, 0, 0).Eccentricity())
}

func TestString_Layout(t *testing.T) {
	k := mustCanonical(t, 12.5, 3)
	s := k.String()
	assert.Contains(t, s, "mu=(0.0000000000,0.0000000000,1.0000000000)")
	assert.Contains(t, s, "kap=12.5000000000")
	assert.Contains(t, s, "beta=3.0000000000")
	assert.Contains(t, s, "maj=(1.0000000000,0.0000000000,0.0000000000)")
}
