package vector_test

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/kentmix/vector"
)

func TestNormalizeAndCross(t *testing.T) {
	u, err := vector.Normalize(vector.New(3, 0, 4))
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.6, 0, 0.8}, []float64(u), 1e-15)

	_, err = vector.Normalize(vector.New(0, 0, 0))
	assert.ErrorIs(t, err, vector.ErrZeroVector)

	z, err := vector.Cross(vector.XAxis, vector.YAxis)
	require.NoError(t, err)
	assert.Equal(t, vector.ZAxis, z)

	_, err = vector.Cross(vector.Vector{1, 2}, vector.XAxis)
	assert.ErrorIs(t, err, vector.ErrDimension)
}

func TestSphericalRoundTrip(t *testing.T) {
	for _, v := range []vector.Vector{{1, 2, 3}, {-1, 0.5, -2}, {0, -1, 0}} {
		r, theta, phi := vector.CartesianToSpherical(v)
		assert.InDeltaSlice(t, []float64(v), []float64(vector.SphericalToCartesian(r, theta, phi)), 1e-12)
		assert.GreaterOrEqual(t, phi, 0.0)
		assert.Less(t, phi, 2*math.Pi)
	}
	assert.InDelta(t, math.Pi/2, vector.AngleBetween(vector.XAxis, vector.ZAxis), 1e-15)
}

func TestWeightedSumAndDispersion(t *testing.T) {
	data := []vector.Vector{vector.XAxis, vector.ZAxis}
	sum, err := vector.WeightedSum(data, []float64{2, 1})
	require.NoError(t, err)
	assert.Equal(t, vector.Vector{2, 0, 1}, sum)

	d, err := vector.Dispersion(data, []float64{2, 1})
	require.NoError(t, err)
	xx, err := d.At(0, 0)
	require.NoError(t, err)
	zz, err := d.At(2, 2)
	require.NoError(t, err)
	xz, err := d.At(0, 2)
	require.NoError(t, err)
	assert.Equal(t, 2.0, xx)
	assert.Equal(t, 1.0, zz)
	assert.Equal(t, 0.0, xz)

	_, err = vector.Dispersion(data, []float64{1})
	assert.ErrorIs(t, err, vector.ErrDimension)
	_, err = vector.WeightedSum(nil, nil)
	assert.ErrorIs(t, err, vector.ErrEmptyData)
}

func TestParseWriteReadFile(t *testing.T) {
	in := "# x y z\n0 0 2\n\n1,0,0\n0;3;4\n"
	data, err := vector.Parse(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, data, 3)
	assert.InDeltaSlice(t, []float64{0, 0.6, 0.8}, []float64(data[2]), 1e-15)

	var buf bytes.Buffer
	require.NoError(t, vector.Write(&buf, data))
	path := filepath.Join(t.TempDir(), "data.txt")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	back, err := vector.ReadFile(path)
	require.NoError(t, err)
	for i := range data {
		assert.InDeltaSlice(t, []float64(data[i]), []float64(back[i]), 1e-9)
	}

	_, err = vector.Parse(strings.NewReader("1 2\n"))
	assert.ErrorIs(t, err, vector.ErrMalformedRow)
	_, err = vector.Parse(strings.NewReader("1 2 x\n"))
	assert.ErrorIs(t, err, vector.ErrMalformedRow)
	_, err = vector.Parse(strings.NewReader("0 0 0\n"))
	assert.ErrorIs(t, err, vector.ErrZeroVector)
	_, err = vector.Parse(strings.NewReader("# only a comment\n"))
	assert.ErrorIs(t, err, vector.ErrEmptyData)
}
