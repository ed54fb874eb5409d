package specfunc_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/kentmix/specfunc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// logIHalfClosed returns log I_{1/2}(x) and log I_{3/2}(x) from their elementary forms.
func logIHalfClosed(x float64) (float64, float64) {
	pre := math.Sqrt(2 / (math.Pi * x))
	return math.Log(pre * math.Sinh(x)), math.Log(pre * (math.Cosh(x) - math.Sinh(x)/x))
}

func TestLogBesselI_ClosedForms(t *testing.T) {
	for _, x := range []float64{0.05, 0.9, 3, 12, 40} {
		i12, i32 := logIHalfClosed(x)
		assert.InDelta(t, i12, specfunc.LogBesselI(0.5, x), 1e-12*math.Max(1, math.Abs(i12)), "I_1/2(%g)", x)
		assert.InDelta(t, i32, specfunc.LogBesselI(1.5, x), 1e-10*math.Max(1, math.Abs(i32)), "I_3/2(%g)", x)
	}
	// I_0(1) = 1.2660658777520082
	assert.InDelta(t, math.Log(1.2660658777520082), specfunc.LogBesselI(0, 1), 1e-14)
}

func TestLogBesselI_LargeArgumentStaysFinite(t *testing.T) {
	// I_nu(x) ~ e^x / sqrt(2πx) for x ≫ nu²
	for _, x := range []float64{800, 2000, 5000} {
		v := specfunc.LogBesselI(0.5, x)
		require.False(t, math.IsInf(v, 0) || math.IsNaN(v), "x=%g must not overflow", x)
		assert.InDelta(t, x-0.5*math.Log(2*math.Pi*x), v, 1e-3)
	}
}

func TestLogBesselI_EdgeCases(t *testing.T) {
	assert.Equal(t, 0.0, specfunc.LogBesselI(0, 0))
	assert.True(t, math.IsInf(specfunc.LogBesselI(2, 0), -1))
	assert.True(t, math.IsNaN(specfunc.LogBesselI(-1, 2)))
	assert.True(t, math.IsNaN(specfunc.LogBesselI(1, -2)))
	assert.True(t, math.IsInf(specfunc.LogBesselI(1, math.Inf(1)), 1))
}

func TestLogBesselIHalfOrders_MatchesSeries(t *testing.T) {
	const n = 24
	for _, x := range []float64{0.01, 0.7, 5, 50, 300, 1500} {
		seq := specfunc.LogBesselIHalfOrders(x, n)
		require.Len(t, seq, n)
		for _, k := range []int{0, 1, 5, 11, 23} {
			want := specfunc.LogBesselI(float64(k)+0.5, x)
			assert.InDelta(t, want, seq[k], 1e-9*math.Max(1, math.Abs(want)), "x=%g k=%d", x, k)
		}
	}
}

func TestLogBesselIHalfOrders_Edges(t *testing.T) {
	assert.Nil(t, specfunc.LogBesselIHalfOrders(1, 0))
	for _, v := range specfunc.LogBesselIHalfOrders(0, 3) {
		assert.True(t, math.IsInf(v, -1))
	}
	for _, v := range specfunc.LogBesselIHalfOrders(-1, 3) {
		assert.True(t, math.IsNaN(v))
	}
}

func TestDawson_ReferenceValues(t *testing.T) {
	cases := []struct{ x, want float64 }{
		{0.5, 0.42443638350202229},
		{1, 0.53807950691276841},
		{2, 0.30134038892379197},
		{10, 0.05025384718759478},
	}
	for _, tc := range cases {
		assert.InDelta(t, tc.want, specfunc.Dawson(tc.x), 1e-8, "F(%g)", tc.x)
		assert.InDelta(t, -tc.want, specfunc.Dawson(-tc.x), 1e-8, "F is odd")
	}
	assert.Equal(t, 0.0, specfunc.Dawson(0))
}

func TestLogSumExp(t *testing.T) {
	assert.InDelta(t, math.Log(6), specfunc.LogSumExp([]float64{0, math.Log(2), math.Log(3)}), 1e-14)
	assert.InDelta(t, 1000+math.Log(2), specfunc.LogSumExp([]float64{1000, 1000}), 1e-12)
	assert.True(t, math.IsInf(specfunc.LogSumExp(nil), -1))
	assert.True(t, math.IsInf(specfunc.LogSumExp([]float64{math.Inf(-1), math.Inf(-1)}), -1))
	assert.InDelta(t, math.Log(3), specfunc.LogAddExp(0, math.Log(2)), 1e-14)
	assert.Equal(t, 5.0, specfunc.LogAddExp(math.Inf(-1), 5))
}

func TestLogGamma(t *testing.T) {
	assert.InDelta(t, 0.5*math.Log(math.Pi), specfunc.LogGamma(0.5), 1e-14)
	assert.InDelta(t, math.Log(120), specfunc.LogGamma(6), 1e-12)
}
