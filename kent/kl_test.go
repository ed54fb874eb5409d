package kent_test

import (
	"testing"

	"github.com/katalvlaran/kentmix/kent"
	"github.com/katalvlaran/kentmix/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKLDivergence_SelfIsZero(t *testing.T) {
	k, err := kent.FromAngles(0.3, 1.0, 2.0, 35, 12)
	require.NoError(t, err)
	kl, err := k.KLDivergence(k)
	require.NoError(t, err)
	assert.InDelta(t, 0, kl, 1e-9)
}

func TestKLDivergence_AgreesWithMonteCarlo(t *testing.T) {
	f, err := kent.FromAngles(0.3, 1.0, 2.0, 35, 12)
	require.NoError(t, err)
	g, err := kent.FromAngles(0.1, 1.1, 2.1, 20, 3)
	require.NoError(t, err)

	exact, err := f.KLDivergence(g)
	require.NoError(t, err)
	assert.Greater(t, exact, 0.0)

	mc, err := f.KLDivergenceMC(g, 40000, kent.NewRand(17))
	require.NoError(t, err)
	assert.InDelta(t, exact, mc, 0.05*exact+0.02)

	_, err = f.KLDivergenceMC(g, 0, nil)
	assert.ErrorIs(t, err, kent.ErrEmptyData)
}

func TestExpectedDispersion_TraceIsOne(t *testing.T) {
	k, err := kent.FromAngles(0.3, 1.0, 2.0, 35, 12)
	require.NoError(t, err)
	d := k.ExpectedDispersion()
	var tr float64
	for i := 0; i < 3; i++ {
		v, err := d.At(i, i)
		require.NoError(t, err)
		tr += v
	}
	assert.InDelta(t, 1.0, tr, 1e-12)

	m := k.ExpectedMean()
	e := k.Expectations()
	for i := range m {
		assert.InDelta(t, e.E1*k.Mean()[i], m[i], 1e-15)
	}

	// the frame axes are eigenvectors with eigenvalues E[y1²], E[y2²], E[y3²]
	for _, ax := range []struct {
		v    []float64
		want float64
	}{
		{k.Mean(), e.E11},
		{k.Major(), e.E22},
		{k.Minor(), e.E33},
	} {
		dv, err := matrix.MatVec(d, ax.v)
		require.NoError(t, err)
		for i := range dv {
			assert.InDelta(t, ax.want*ax.v[i], dv[i], 1e-12)
		}
	}
	require.NoError(t, matrix.ValidateSymmetric(d, 1e-14))
}
