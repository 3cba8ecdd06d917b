package numeric

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpline1DReproducesCubic(t *testing.T) {
	poly := func(x float64) float64 { return x*x*x - 2*x + 1 }

	x := make([]float64, 80)
	y := make([]float64, 80)
	for i := range x {
		x[i] = 2 * float64(i) / float64(len(x)-1)
		y[i] = poly(x[i])
	}

	spl, err := FitSpline1D(x, y, []float64{0.5, 1.0, 1.5}, 3)
	require.NoError(t, err)

	// a cubic spline space contains every cubic polynomial exactly
	for _, xq := range []float64{0.13, 0.77, 1.01, 1.64, 1.97} {
		assert.InDelta(t, poly(xq), spl.Evaluate(xq), 1e-8, "x=%g", xq)
	}
}

func TestSpline1DHoldsBoundary(t *testing.T) {
	x := []float64{0, 0.5, 1, 1.5, 2, 2.5, 3}
	y := []float64{1, 2, 3, 4, 5, 6, 7}
	spl, err := FitSpline1D(x, y, nil, 1)
	require.NoError(t, err)

	assert.InDelta(t, spl.Evaluate(0), spl.Evaluate(-5), 1e-12)
	assert.InDelta(t, spl.Evaluate(3), spl.Evaluate(42), 1e-12)
}

func TestSpline1DUnsortedInput(t *testing.T) {
	x := []float64{2, 0, 1, 3, 0.5, 2.5, 1.5}
	y := make([]float64, len(x))
	for i, xi := range x {
		y[i] = 2*xi - 1
	}
	spl, err := FitSpline1D(x, y, nil, 1)
	require.NoError(t, err)
	assert.InDelta(t, 2*1.7-1, spl.Evaluate(1.7), 1e-8)
}

func TestSpline1DValidation(t *testing.T) {
	_, err := FitSpline1D([]float64{0, 1}, []float64{0}, nil, 1)
	require.Error(t, err)

	_, err = FitSpline1D([]float64{0, 1}, []float64{0, 1}, nil, 0)
	require.Error(t, err)

	// two points cannot constrain a cubic
	_, err = FitSpline1D([]float64{0, 1}, []float64{0, 1}, nil, 3)
	require.Error(t, err)
}

func TestSpline2DReproducesBilinear(t *testing.T) {
	f := func(x, y float64) float64 { return 2 + x + 3*y }

	var x1, x2, y []float64
	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			a := float64(i) / 7 * 2
			b := float64(j) / 7 * 2
			x1 = append(x1, a)
			x2 = append(x2, b)
			y = append(y, f(a, b))
		}
	}

	spl, err := FitSpline2D(x1, x2, y, []float64{1.0}, []float64{1.0}, 1, 1)
	require.NoError(t, err)

	assert.InDelta(t, f(0.7, 1.3), spl.Evaluate(0.7, 1.3), 1e-8)
	assert.InDelta(t, f(1.9, 0.2), spl.Evaluate(1.9, 0.2), 1e-8)

	out := spl.EvaluateAll(x1, x2)
	require.Len(t, out, len(y))
	for i := range out {
		assert.InDelta(t, y[i], out[i], 1e-8)
	}
}
