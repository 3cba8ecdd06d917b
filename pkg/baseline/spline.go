package baseline

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/luminastro/orbitfit/pkg/numeric"
)

// ErrSplineDim is returned for spline dimensions other than 1 or 2.
var ErrSplineDim = errors.New("baseline: spline dimension must be 1 or 2")

// SplineConfig describes the smoothing-spline part of a baseline: which
// auxiliary columns drive it, the interior-knot spacing per axis, the spline
// degree per axis and an optional period for periodic padding. The
// configuration is static per dataset and safe for concurrent read-only
// sharing; knot positions depend on the data range and are therefore never
// cached across calls.
type SplineConfig struct {
	Dim    int        // 1 or 2
	Cols   [2]int     // auxiliary-column indices (Cols[1] unused for Dim 1)
	Knots  [2]float64 // interior-knot spacing; <= 0 spans the full range with no interior knots
	Degree [2]int     // spline degree per axis
	Period [2]float64 // > 0 pads the axis periodically before fitting
}

// Fit fits the smoothing spline to the residual res against the selected
// column(s) x1 (and x2 for a 2-D spline) and evaluates it back at the
// original abscissas.
func (cfg *SplineConfig) Fit(x1, x2, res []float64) ([]float64, error) {
	switch cfg.Dim {
	case 1:
		return cfg.fit1D(x1, res)
	case 2:
		return cfg.fit2D(x1, x2, res)
	default:
		return nil, errors.Wrapf(ErrSplineDim, "got %d", cfg.Dim)
	}
}

func (cfg *SplineConfig) fit1D(x, res []float64) ([]float64, error) {
	lo, hi := minMax(x)
	knots := knotGrid(lo, hi, cfg.Knots[0])

	xs, ys := x, res
	if per := cfg.Period[0]; per > 0 && hi-lo < per {
		xs, ys = padPeriodic(x, res, per)
		knots = padKnots(knots, per)
	}

	spl, err := numeric.FitSpline1D(xs, ys, knots, cfg.Degree[0])
	if err != nil {
		return nil, errors.Wrap(err, "unable to fit 1-D baseline spline")
	}
	return spl.EvaluateAll(x), nil
}

func (cfg *SplineConfig) fit2D(x1, x2, res []float64) ([]float64, error) {
	lo1, hi1 := minMax(x1)
	lo2, hi2 := minMax(x2)
	knots1 := knotGrid(lo1, hi1, cfg.Knots[0])
	knots2 := knotGrid(lo2, hi2, cfg.Knots[1])

	x1s, x2s, ys := x1, x2, res
	if cfg.Period[0] > 0 || cfg.Period[1] > 0 {
		x1s = tileShifted(x1, cfg.Period[0])
		x2s = tileShifted(x2, cfg.Period[1])
		ys = tile3(res)
		if cfg.Period[0] > 0 {
			knots1 = padKnots(knots1, cfg.Period[0])
		}
		if cfg.Period[1] > 0 {
			knots2 = padKnots(knots2, cfg.Period[1])
		}
	}

	spl, err := numeric.FitSpline2D(x1s, x2s, ys, knots1, knots2, cfg.Degree[0], cfg.Degree[1])
	if err != nil {
		return nil, errors.Wrap(err, "unable to fit 2-D baseline spline")
	}
	return spl.EvaluateAll(x1, x2), nil
}

// knotGrid places interior knots at lo+spacing, lo+2*spacing, ... < hi.
// Non-positive spacing yields no interior knots (a single polynomial span).
func knotGrid(lo, hi, spacing float64) []float64 {
	if spacing <= 0 {
		return nil
	}
	var knots []float64
	for k := lo + spacing; k < hi; k += spacing {
		knots = append(knots, k)
	}
	return knots
}

// padPeriodic triples the data shifted by -period, 0, +period so the fit
// wraps around the cycle boundary.
func padPeriodic(x, y []float64, period float64) (xs, ys []float64) {
	return tileShifted(x, period), tile3(y)
}

func tileShifted(x []float64, period float64) []float64 {
	out := make([]float64, 0, 3*len(x))
	for _, shift := range []float64{-period, 0, period} {
		for _, v := range x {
			out = append(out, v+shift)
		}
	}
	return out
}

func tile3(y []float64) []float64 {
	out := make([]float64, 0, 3*len(y))
	for i := 0; i < 3; i++ {
		out = append(out, y...)
	}
	return out
}

func padKnots(knots []float64, period float64) []float64 {
	out := make([]float64, 0, 3*len(knots))
	for _, shift := range []float64{-period, 0, period} {
		for _, k := range knots {
			out = append(out, k+shift)
		}
	}
	sort.Float64s(out)
	return out
}

func minMax(x []float64) (lo, hi float64) {
	lo, hi = x[0], x[0]
	for _, v := range x[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
