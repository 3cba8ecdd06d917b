package rv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelCircularOrbit(t *testing.T) {
	m := &Model{
		T0:     []float64{0},
		Per:    []float64{2},
		K:      []float64{3},
		Sesinw: []float64{0},
		Secosw: []float64{0},
	}

	// K*cos(ta) on a circular orbit reduces to -K*sin(2*pi*(t-t0)/per)
	times := []float64{0, 0.5, 1.0, 1.5, 0.25}
	want := []float64{0, -3, 0, 3, -3 * math.Sin(math.Pi/4)}

	total, comps, err := m.Eval(times)
	require.NoError(t, err)
	require.Len(t, comps, 1)
	for i := range want {
		assert.InDelta(t, want[i], total[i], 1e-9, "t=%g", times[i])
		assert.InDelta(t, want[i], comps["pl_1"][i], 1e-9)
	}
}

func TestModelGammaOffset(t *testing.T) {
	m := &Model{
		T0:     []float64{0},
		Per:    []float64{2},
		K:      []float64{3},
		Sesinw: []float64{0},
		Secosw: []float64{0},
		Gamma:  12.5,
	}
	total, comps, err := m.Eval([]float64{0})
	require.NoError(t, err)

	// the systemic velocity shifts the total but not the components
	assert.InDelta(t, 12.5, total[0], 1e-9)
	assert.InDelta(t, 0, comps["pl_1"][0], 1e-9)
}

func TestModelMultiPlanetSum(t *testing.T) {
	m := &Model{
		T0:     []float64{0, 0.3},
		Per:    []float64{2, 5},
		K:      []float64{3, 8},
		Sesinw: []float64{0, 0.2},
		Secosw: []float64{0, 0.1},
	}
	times := []float64{0.1, 0.7, 1.9, 3.3}
	total, comps, err := m.Eval(times)
	require.NoError(t, err)
	require.Len(t, comps, 2)

	for i := range times {
		sum := comps["pl_1"][i] + comps["pl_2"][i]
		assert.InDelta(t, sum, total[i], 1e-12)
	}
}

func TestModelEccentricOffset(t *testing.T) {
	// an eccentric orbit carries a constant K*e*sin(w) offset in addition
	// to the Keplerian modulation; the curve mean over a full period must
	// not equal zero when sesinw is nonzero
	m := &Model{
		T0:     []float64{0},
		Per:    []float64{2},
		K:      []float64{10},
		Sesinw: []float64{0.4},
		Secosw: []float64{0.1},
	}
	var times []float64
	for ti := 0.0; ti < 2.0; ti += 0.001 {
		times = append(times, ti)
	}
	total, _, err := m.Eval(times)
	require.NoError(t, err)

	var mean float64
	for _, v := range total {
		mean += v
	}
	mean /= float64(len(total))
	assert.Greater(t, math.Abs(mean), 0.1)
}

func TestModelValidation(t *testing.T) {
	m := &Model{T0: []float64{0}, Per: []float64{2}, K: []float64{3, 4},
		Sesinw: []float64{0}, Secosw: []float64{0}}
	_, _, err := m.Eval([]float64{0})
	require.ErrorIs(t, err, ErrPlanetMismatch)
}
