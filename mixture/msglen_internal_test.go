package mixture

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreeParams_FourPerComponentLessOne(t *testing.T) {
	for k, want := range map[int]int{1: 3, 2: 7, 3: 11, 10: 39} {
		assert.Equal(t, want, freeParams(k), "K=%d", k)
	}
}

func TestAICAndBIC_CountFourKMinusOne(t *testing.T) {
	m := fittedPair(t)
	l, err := m.informationLoss()
	require.NoError(t, err)

	aic, err := m.AIC()
	require.NoError(t, err)
	assert.InDelta(t, (2*7+2*l)/math.Ln2, aic, 1e-9)

	bic, err := m.BIC()
	require.NoError(t, err)
	assert.InDelta(t, (7*math.Log(m.total)+2*l)/math.Ln2, bic, 1e-9)
}
