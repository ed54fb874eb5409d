package kent_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/kentmix/kent"
	"github.com/katalvlaran/kentmix/vector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogNormalizationConstant_VonMisesFisherLimit(t *testing.T) {
	// β = 0: c = 4π·sinh(κ)/κ
	for _, kappa := range []float64{0.5, 3, 100, 1500} {
		k := mustCanonical(t, kappa, 0)
		var want float64
		if kappa < 20 {
			want = math.Log(4 * math.Pi * math.Sinh(kappa) / kappa)
		} else {
			want = math.Log(2*math.Pi) + kappa - math.Log(kappa) + math.Log1p(-math.Exp(-2*kappa))
		}
		assert.InDelta(t, want, k.LogNormalizationConstant(), 1e-9*math.Max(1, want), "κ=%g", kappa)

		e := k.Expectations()
		assert.InDelta(t, 1/math.Tanh(kappa)-1/kappa, e.E1, 1e-9, "E[y1] at κ=%g", kappa)
		assert.Equal(t, 0.0, e.Eb)
	}
}

func TestConstants_ReferenceValues(t *testing.T) {
	cases := []struct {
		kappa, beta       float64
		logC, e1, e11, eb float64
	}{
		{1, 0.2, 2.6973323217240543, 0.3121975614474333, 0.37287101893836955, 0.04865897688030383},
		{10, 4, 9.797186614726026, 0.8540919542753572, 0.7507950740997743, 0.14543697161507488},
		{100, 30, 97.4435918327776, 0.9849804956124885, 0.9704761593894401, 0.017113163337010094},
	}
	for _, tc := range cases {
		k := mustCanonical(t, tc.kappa, tc.beta)
		assert.InDelta(t, tc.logC, k.LogNormalizationConstant(), 1e-9, "log c(%g,%g)", tc.kappa, tc.beta)
		e := k.Expectations()
		assert.InDelta(t, tc.e1, e.E1, 1e-9)
		assert.InDelta(t, tc.e11, e.E11, 1e-9)
		assert.InDelta(t, tc.eb, e.Eb, 1e-9)
		assert.InDelta(t, 1.0, e.E11+e.E22+e.E33, 1e-12, "second moments sum to one")
	}
}

func TestConstants_PartialsMatchFiniteDifferences(t *testing.T) {
	const kappa, beta, h = 25.0, 8.0, 1e-5
	logc := func(k, b float64) float64 {
		d, err := kent.NewCanonical(k, b)
		require.NoError(t, err)

		return d.LogNormalizationConstant()
	}
	c := mustCanonical(t, kappa, beta).Constants()

	dk := (logc(kappa+h, beta) - logc(kappa-h, beta)) / (2 * h)
	db := (logc(kappa, beta+h) - logc(kappa, beta-h)) / (2 * h)
	assert.InDelta(t, math.Exp(c.LogCk-c.LogC), dk, 1e-6)
	assert.InDelta(t, math.Exp(c.LogCb-c.LogC), db, 1e-6)
}

func TestConstants_NearBoundaryAndLargeKappa(t *testing.T) {
	for _, p := range [][2]float64{{50, 24.975}, {500, 249.75}, {3000, 1000}} {
		k := mustCanonical(t, p[0], p[1])
		c := k.Constants()
		require.True(t, c.Finite(), "κ=%g β=%g", p[0], p[1])
		e := k.Expectations()
		assert.True(t, e.E1 > 0 && e.E1 < 1)
		assert.True(t, e.E33 > 0 && e.E22 > e.E33)
	}
}

func TestIntegrateDensity_IsOne(t *testing.T) {
	for _, p := range [][2]float64{{0, 0}, {1, 0.2}, {10, 4}, {50, 20}} {
		k, err := kent.FromAngles(0.3, 0.9, 1.7, p[0], p[1])
		require.NoError(t, err)
		assert.InDelta(t, 1.0, k.IntegrateDensity(200, 128), 1e-6, "κ=%g β=%g", p[0], p[1])
	}
	assert.True(t, math.IsNaN(mustCanonical(t, 1, 0).IntegrateDensity(0, 10)))
}

func TestLogDensity_Mode(t *testing.T) {
	k := mustCanonical(t, 10, 4)
	atMean := k.LogDensity(vector.ZAxis)
	assert.InDelta(t, 10-k.LogNormalizationConstant(), atMean, 1e-12)
	assert.InDelta(t, math.Exp(atMean), k.Density(vector.ZAxis), 1e-12)
	// along the major axis the density falls slower than along the minor axis
	tilt := 0.3
	onMajor := vector.New(math.Sin(tilt), 0, math.Cos(tilt))
	onMinor := vector.New(0, math.Sin(tilt), math.Cos(tilt))
	assert.Greater(t, k.LogDensity(onMajor), k.LogDensity(onMinor))
}
