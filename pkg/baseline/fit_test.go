package baseline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luminastro/orbitfit/pkg/params"
)

func fixedLCCoeffs() []params.Param {
	ps := make([]params.Param, NumLCCoeffs)
	for i := range ps {
		ps[i] = params.Fix(0)
	}
	ps[0] = params.Fix(1)
	return ps
}

func TestFitLCAllFixedSkipsSolver(t *testing.T) {
	ts := []float64{-0.5, 0, 0.5}
	flux := []float64{2, 3, 4} // deliberately far from the model
	physical := []float64{1, 1, 1}

	got, err := FitLC(fixedLCCoeffs(), ts, nil, flux, physical)
	require.NoError(t, err)
	assert.Equal(t, 1.0, got[0])
	for _, c := range got[1:] {
		assert.Equal(t, 0.0, c)
	}
}

func TestFitLCRecoversSlope(t *testing.T) {
	const slope = 0.01
	n := 60
	ts := make([]float64, n)
	flux := make([]float64, n)
	physical := make([]float64, n)
	for i := range ts {
		ts[i] = float64(i)/float64(n-1) - 0.5
		physical[i] = 1
		flux[i] = 1 + slope*ts[i]
	}

	coeffs := fixedLCCoeffs()
	coeffs[1] = params.Unif(-1, 0, 1)

	got, err := FitLC(coeffs, ts, nil, flux, physical)
	require.NoError(t, err)
	assert.InDelta(t, slope, got[1], 1e-6)
	assert.Equal(t, 1.0, got[0]) // fixed coefficients stay untouched
}

func TestFitLCRecoversAuxTrend(t *testing.T) {
	n := 60
	ts := make([]float64, n)
	am := make([]float64, n)
	flux := make([]float64, n)
	physical := make([]float64, n)
	for i := range ts {
		ts[i] = float64(i)/float64(n-1) - 0.5
		am[i] = 1 + 0.5*ts[i]*ts[i]
		physical[i] = 1
		flux[i] = 1 + 0.03*am[i]
	}

	coeffs := fixedLCCoeffs()
	coeffs[5] = params.Unif(-1, 0, 1) // linear term of the first aux column

	got, err := FitLC(coeffs, ts, [][]float64{am}, flux, physical)
	require.NoError(t, err)
	assert.InDelta(t, 0.03, got[5], 1e-6)
}

func TestFitRVRecoversDrift(t *testing.T) {
	const drift = 5.0
	n := 50
	ts := make([]float64, n)
	rvData := make([]float64, n)
	physical := make([]float64, n)
	for i := range ts {
		ts[i] = float64(i)/float64(n-1) - 0.5
		rvData[i] = drift * ts[i]
	}

	coeffs := make([]params.Param, NumRVCoeffs)
	for i := range coeffs {
		coeffs[i] = params.Fix(0)
	}
	coeffs[0] = params.Norm(0, 10)

	got, err := FitRV(coeffs, ts, nil, rvData, physical)
	require.NoError(t, err)
	assert.InDelta(t, drift, got[0], 1e-6)
}

func TestFitLCJointOffsetAndSlope(t *testing.T) {
	n := 80
	ts := make([]float64, n)
	flux := make([]float64, n)
	physical := make([]float64, n)
	for i := range ts {
		ts[i] = float64(i)/float64(n-1) - 0.5
		physical[i] = 1
		flux[i] = 0.98 + 0.01*ts[i]
	}

	coeffs := fixedLCCoeffs()
	coeffs[0] = params.Unif(0.5, 1, 1.5)
	coeffs[1] = params.Unif(-1, 0, 1)

	got, err := FitLC(coeffs, ts, nil, flux, physical)
	require.NoError(t, err)
	assert.InDelta(t, 0.98, got[0], 1e-6)
	assert.InDelta(t, 0.01, got[1], 1e-6)
}
