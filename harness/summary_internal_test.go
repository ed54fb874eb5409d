package harness

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarizeParam(t *testing.T) {
	s := summarizeParam([]float64{4, 1, 3, 2}, 2)
	assert.InDelta(t, 2.5, s.Mean, 1e-15)
	assert.InDelta(t, 0.5, s.Bias, 1e-15)
	assert.InDelta(t, 5.0/3, s.Variance, 1e-12)
	assert.InDelta(t, 1.0, s.MAE, 1e-15)
	assert.InDelta(t, 1.5, s.MSE, 1e-15)
	assert.Equal(t, 2.0, s.Median, "empirical quantile picks the lower middle")

	one := summarizeParam([]float64{7}, 5)
	assert.Equal(t, 0.0, one.Variance)
	assert.Equal(t, 7.0, one.Median)

	none := summarizeParam(nil, 1)
	assert.True(t, math.IsNaN(none.Mean))
	assert.True(t, math.IsNaN(none.MSE))
}
