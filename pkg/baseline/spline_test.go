package baseline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplineFit1D(t *testing.T) {
	cfg := &SplineConfig{
		Dim:    1,
		Knots:  [2]float64{0.25, 0},
		Degree: [2]int{3, 0},
	}

	n := 120
	x := make([]float64, n)
	res := make([]float64, n)
	for i := range x {
		x[i] = float64(i) / float64(n-1)
		res[i] = 0.5*x[i]*x[i] - 0.2*x[i]
	}

	got, err := cfg.Fit(x, nil, res)
	require.NoError(t, err)
	require.Len(t, got, n)
	for i := range got {
		assert.InDelta(t, res[i], got[i], 1e-8, "x=%g", x[i])
	}
}

func TestSplineFit1DPeriodic(t *testing.T) {
	cfg := &SplineConfig{
		Dim:    1,
		Knots:  [2]float64{0.2, 0},
		Degree: [2]int{3, 0},
		Period: [2]float64{1.0, 0},
	}

	n := 150
	x := make([]float64, n)
	res := make([]float64, n)
	for i := range x {
		x[i] = 0.9 * float64(i) / float64(n-1)
		res[i] = math.Sin(2 * math.Pi * x[i])
	}

	got, err := cfg.Fit(x, nil, res)
	require.NoError(t, err)
	for i := range got {
		assert.InDelta(t, res[i], got[i], 5e-2, "x=%g", x[i])
	}
}

func TestSplineFit2D(t *testing.T) {
	cfg := &SplineConfig{
		Dim:    2,
		Knots:  [2]float64{0.5, 0.5},
		Degree: [2]int{1, 1},
	}

	var x1, x2, res []float64
	for i := 0; i < 12; i++ {
		for j := 0; j < 12; j++ {
			a := float64(i) / 11
			b := float64(j) / 11
			x1 = append(x1, a)
			x2 = append(x2, b)
			res = append(res, 1+2*a-b)
		}
	}

	got, err := cfg.Fit(x1, x2, res)
	require.NoError(t, err)
	for i := range got {
		assert.InDelta(t, res[i], got[i], 1e-8)
	}
}

func TestSplineFitDimError(t *testing.T) {
	cfg := &SplineConfig{Dim: 3}
	_, err := cfg.Fit([]float64{0, 1}, nil, []float64{0, 0})
	require.ErrorIs(t, err, ErrSplineDim)
}
