package baseline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nominalLC() []float64 {
	c := make([]float64, NumLCCoeffs)
	c[0] = 1
	return c
}

func TestCenterTime(t *testing.T) {
	ts := CenterTime([]float64{3, 1, 2, 5, 4})
	assert.InDelta(t, 0, ts[0], 1e-12) // the median element 3 maps to zero
	assert.InDelta(t, -2, ts[1], 1e-12)
	assert.InDelta(t, 2, ts[3], 1e-12)
}

func TestCenterTimeEvenLength(t *testing.T) {
	// even-length input centers on the mean of the middle pair
	ts := CenterTime([]float64{4, 1, 3, 2})
	assert.InDelta(t, 1.5, ts[0], 1e-12)
	assert.InDelta(t, -1.5, ts[1], 1e-12)
	assert.InDelta(t, 0.5, ts[2], 1e-12)
	assert.InDelta(t, -0.5, ts[3], 1e-12)
}

func TestLCBasisNominal(t *testing.T) {
	ts := []float64{-1, 0, 1, 2}
	b, err := LCBasis(nominalLC(), ts, nil)
	require.NoError(t, err)
	for i := range b {
		assert.Equal(t, 1.0, b[i])
	}
}

func TestLCBasisPolynomialAndAux(t *testing.T) {
	c := nominalLC()
	c[1] = 0.5  // linear time
	c[5] = 2.0  // linear in first aux column
	c[6] = -1.0 // quadratic in first aux column

	ts := []float64{0, 1}
	aux := [][]float64{{2, 3}}
	b, err := LCBasis(c, ts, aux)
	require.NoError(t, err)
	assert.InDelta(t, 1+2*2-1*4, b[0], 1e-12)
	assert.InDelta(t, 1+0.5+2*3-1*9, b[1], 1e-12)
}

func TestRVBasisNominal(t *testing.T) {
	b, err := RVBasis(make([]float64, NumRVCoeffs), []float64{-1, 0, 3}, nil)
	require.NoError(t, err)
	for i := range b {
		assert.Equal(t, 0.0, b[i])
	}
}

func TestBasisCoeffLength(t *testing.T) {
	_, err := LCBasis(make([]float64, 5), []float64{0}, nil)
	require.ErrorIs(t, err, ErrCoeffLength)

	_, err = RVBasis(make([]float64, NumLCCoeffs), []float64{0}, nil)
	require.ErrorIs(t, err, ErrCoeffLength)
}

func TestBasisIgnoresExtraAuxColumns(t *testing.T) {
	// columns beyond the basis capacity must not contribute
	aux := make([][]float64, MaxAuxLC+2)
	for i := range aux {
		aux[i] = []float64{7}
	}
	b, err := LCBasis(nominalLC(), []float64{0}, aux)
	require.NoError(t, err)
	assert.Equal(t, 1.0, b[0])
}
