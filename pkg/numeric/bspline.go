package numeric

import (
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ErrSplineFit is returned when the spline least-squares system cannot be
// solved, typically because a knot interval contains no data
// (Schoenberg-Whitney violation).
var ErrSplineFit = errors.New("numeric: spline least-squares system is singular")

// Spline1D is a least-squares B-spline with explicit interior knots.
// Evaluation outside the fitted x-range holds the boundary value constant.
type Spline1D struct {
	knots []float64 // full clamped knot vector
	deg   int
	coef  []float64
	xmin  float64
	xmax  float64
}

// FitSpline1D fits a degree-deg B-spline with the given interior knots to
// (x, y) in the least-squares sense. x does not need to be sorted.
func FitSpline1D(x, y []float64, interior []float64, deg int) (*Spline1D, error) {
	if len(x) != len(y) {
		return nil, errors.Errorf("numeric: spline data length mismatch: %d vs %d", len(x), len(y))
	}
	if deg < 1 {
		return nil, errors.Errorf("numeric: spline degree must be >= 1, got %d", deg)
	}
	xs := make([]float64, len(x))
	ys := make([]float64, len(y))
	copy(xs, x)
	copy(ys, y)
	sort.Sort(byX{xs, ys})

	xmin, xmax := xs[0], xs[len(xs)-1]
	knots := clampedKnots(xmin, xmax, interior, deg)
	nb := len(interior) + deg + 1
	if len(xs) < nb {
		return nil, errors.Errorf("numeric: %d points cannot constrain %d spline coefficients", len(xs), nb)
	}

	a := mat.NewDense(len(xs), nb, nil)
	for i, xi := range xs {
		span := findSpan(knots, deg, nb, xi)
		bas := basisFuns(knots, span, deg, xi)
		for j, v := range bas {
			a.Set(i, span-deg+j, v)
		}
	}

	coef, err := solveLSQ(a, ys)
	if err != nil {
		return nil, err
	}
	return &Spline1D{knots: knots, deg: deg, coef: coef, xmin: xmin, xmax: xmax}, nil
}

// Evaluate returns the spline value at xq, holding boundary values constant
// outside the fitted range.
func (s *Spline1D) Evaluate(xq float64) float64 {
	if xq < s.xmin {
		xq = s.xmin
	}
	if xq > s.xmax {
		xq = s.xmax
	}
	nb := len(s.coef)
	span := findSpan(s.knots, s.deg, nb, xq)
	bas := basisFuns(s.knots, span, s.deg, xq)
	var v float64
	for j, b := range bas {
		v += b * s.coef[span-s.deg+j]
	}
	return v
}

// EvaluateAll evaluates the spline at every point of xq.
func (s *Spline1D) EvaluateAll(xq []float64) []float64 {
	out := make([]float64, len(xq))
	for i, x := range xq {
		out[i] = s.Evaluate(x)
	}
	return out
}

// byX sorts parallel x/y slices by x.
type byX struct{ x, y []float64 }

func (s byX) Len() int           { return len(s.x) }
func (s byX) Less(i, j int) bool { return s.x[i] < s.x[j] }
func (s byX) Swap(i, j int) {
	s.x[i], s.x[j] = s.x[j], s.x[i]
	s.y[i], s.y[j] = s.y[j], s.y[i]
}

// clampedKnots builds a clamped knot vector: deg+1 copies of each boundary
// around the interior knots.
func clampedKnots(xmin, xmax float64, interior []float64, deg int) []float64 {
	knots := make([]float64, 0, 2*(deg+1)+len(interior))
	for i := 0; i <= deg; i++ {
		knots = append(knots, xmin)
	}
	knots = append(knots, interior...)
	for i := 0; i <= deg; i++ {
		knots = append(knots, xmax)
	}
	return knots
}

// findSpan locates the knot span index containing x (NURBS book A2.1).
func findSpan(knots []float64, deg, nbasis int, x float64) int {
	if x >= knots[nbasis] {
		return nbasis - 1
	}
	if x <= knots[deg] {
		return deg
	}
	lo, hi := deg, nbasis
	for {
		mid := (lo + hi) / 2
		if x < knots[mid] {
			hi = mid
		} else if x >= knots[mid+1] {
			lo = mid
		} else {
			return mid
		}
	}
}

// basisFuns evaluates the deg+1 non-vanishing basis functions at x on the
// given span (NURBS book A2.2).
func basisFuns(knots []float64, span, deg int, x float64) []float64 {
	n := make([]float64, deg+1)
	left := make([]float64, deg+1)
	right := make([]float64, deg+1)
	n[0] = 1
	for j := 1; j <= deg; j++ {
		left[j] = x - knots[span+1-j]
		right[j] = knots[span+j] - x
		saved := 0.0
		for r := 0; r < j; r++ {
			tmp := n[r] / (right[r+1] + left[j-r])
			n[r] = saved + right[r+1]*tmp
			saved = left[j-r] * tmp
		}
		n[j] = saved
	}
	return n
}

// solveLSQ solves min ||A c - y|| by QR.
func solveLSQ(a *mat.Dense, y []float64) ([]float64, error) {
	_, nb := a.Dims()
	var qr mat.QR
	qr.Factorize(a)
	b := mat.NewDense(len(y), 1, y)
	var c mat.Dense
	if err := qr.SolveTo(&c, false, b); err != nil {
		return nil, errors.Wrap(ErrSplineFit, err.Error())
	}
	coef := make([]float64, nb)
	for i := range coef {
		coef[i] = c.At(i, 0)
	}
	return coef, nil
}
