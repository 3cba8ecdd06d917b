package numeric

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Spline2D is a tensor-product least-squares B-spline over scattered
// (x1, x2) points with explicit interior knots per axis.
type Spline2D struct {
	knots1, knots2 []float64
	deg1, deg2     int
	nb1, nb2       int
	coef           []float64 // row-major nb1 x nb2
	x1min, x1max   float64
	x2min, x2max   float64
}

// FitSpline2D fits a tensor-product B-spline to z sampled at the scattered
// points (x1[i], x2[i]).
func FitSpline2D(x1, x2, z []float64, interior1, interior2 []float64, deg1, deg2 int) (*Spline2D, error) {
	if len(x1) != len(x2) || len(x1) != len(z) {
		return nil, errors.Errorf("numeric: spline data length mismatch: %d, %d, %d", len(x1), len(x2), len(z))
	}
	if deg1 < 1 || deg2 < 1 {
		return nil, errors.Errorf("numeric: spline degrees must be >= 1, got %d and %d", deg1, deg2)
	}

	x1min, x1max := minMax(x1)
	x2min, x2max := minMax(x2)
	knots1 := clampedKnots(x1min, x1max, interior1, deg1)
	knots2 := clampedKnots(x2min, x2max, interior2, deg2)
	nb1 := len(interior1) + deg1 + 1
	nb2 := len(interior2) + deg2 + 1
	if len(z) < nb1*nb2 {
		return nil, errors.Errorf("numeric: %d points cannot constrain %d spline coefficients", len(z), nb1*nb2)
	}

	a := mat.NewDense(len(z), nb1*nb2, nil)
	for i := range z {
		s1 := findSpan(knots1, deg1, nb1, x1[i])
		s2 := findSpan(knots2, deg2, nb2, x2[i])
		b1 := basisFuns(knots1, s1, deg1, x1[i])
		b2 := basisFuns(knots2, s2, deg2, x2[i])
		for j1, v1 := range b1 {
			row := s1 - deg1 + j1
			for j2, v2 := range b2 {
				col := s2 - deg2 + j2
				a.Set(i, row*nb2+col, v1*v2)
			}
		}
	}

	coef, err := solveLSQ(a, z)
	if err != nil {
		return nil, err
	}
	return &Spline2D{
		knots1: knots1, knots2: knots2,
		deg1: deg1, deg2: deg2,
		nb1: nb1, nb2: nb2,
		coef:  coef,
		x1min: x1min, x1max: x1max,
		x2min: x2min, x2max: x2max,
	}, nil
}

// Evaluate returns the surface value at (x1, x2) with hold-constant
// extrapolation per axis.
func (s *Spline2D) Evaluate(x1, x2 float64) float64 {
	x1 = clampScalar(x1, s.x1min, s.x1max)
	x2 = clampScalar(x2, s.x2min, s.x2max)
	s1 := findSpan(s.knots1, s.deg1, s.nb1, x1)
	s2 := findSpan(s.knots2, s.deg2, s.nb2, x2)
	b1 := basisFuns(s.knots1, s1, s.deg1, x1)
	b2 := basisFuns(s.knots2, s2, s.deg2, x2)
	var v float64
	for j1, v1 := range b1 {
		row := s1 - s.deg1 + j1
		for j2, v2 := range b2 {
			col := s2 - s.deg2 + j2
			v += v1 * v2 * s.coef[row*s.nb2+col]
		}
	}
	return v
}

// EvaluateAll evaluates the surface at every scattered point pair.
func (s *Spline2D) EvaluateAll(x1, x2 []float64) []float64 {
	out := make([]float64, len(x1))
	for i := range x1 {
		out[i] = s.Evaluate(x1[i], x2[i])
	}
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

func clampScalar(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
