// Package baseline removes instrumental and astrophysical trends from a
// dataset concurrently with physical-model evaluation: a parametric
// polynomial+harmonic regression against time and auxiliary columns,
// optionally followed by a least-squares smoothing spline on the remaining
// residual. Both are re-fit inside every model evaluation and never touch
// the physical parameters.
package baseline

import (
	"math"
	"sort"

	"github.com/pkg/errors"
)

const (
	// NumLCCoeffs is the length of the light-curve coefficient vector:
	// offset, ts..ts^4, linear+quadratic per auxiliary column (6 columns),
	// harmonic amplitude/frequency/phase.
	NumLCCoeffs = 20
	// NumRVCoeffs is the length of the radial-velocity coefficient vector:
	// ts, ts^2, linear+quadratic per auxiliary column (3 columns), harmonic.
	NumRVCoeffs = 11

	// MaxAuxLC and MaxAuxRV cap the auxiliary columns entering each basis.
	MaxAuxLC = 6
	MaxAuxRV = 3
)

// ErrCoeffLength is returned when a coefficient vector has the wrong length
// for its basis.
var ErrCoeffLength = errors.New("baseline: coefficient vector has wrong length")

// CenterTime returns t shifted by its median, the abscissa of both
// parametric bases.
func CenterTime(t []float64) []float64 {
	s := make([]float64, len(t))
	copy(s, t)
	med := median(s)
	ts := make([]float64, len(t))
	for i, ti := range t {
		ts[i] = ti - med
	}
	return ts
}

// median averages the middle pair for even-length input. scratch is
// caller-owned and gets sorted in place.
func median(scratch []float64) float64 {
	sort.Float64s(scratch)
	n := len(scratch)
	if n%2 == 1 {
		return scratch[n/2]
	}
	return 0.5 * (scratch[n/2-1] + scratch[n/2])
}

// LCBasis evaluates the multiplicative light-curve baseline. ts is
// median-centered time; aux holds up to MaxAuxLC columns (missing columns
// contribute nothing). The nominal baseline is coeff[0] = 1 with all other
// coefficients zero.
func LCBasis(coeff, ts []float64, aux [][]float64) ([]float64, error) {
	if len(coeff) != NumLCCoeffs {
		return nil, errors.Wrapf(ErrCoeffLength, "got %d, want %d", len(coeff), NumLCCoeffs)
	}
	if len(aux) > MaxAuxLC {
		aux = aux[:MaxAuxLC]
	}
	b := make([]float64, len(ts))
	for i, t := range ts {
		v := coeff[0] + coeff[1]*t + coeff[2]*t*t + coeff[3]*t*t*t + coeff[4]*t*t*t*t
		for k, col := range aux {
			c := col[i]
			v += coeff[5+2*k]*c + coeff[6+2*k]*c*c
		}
		v += coeff[17] * math.Sin(coeff[18]*t+coeff[19])
		b[i] = v
	}
	return b, nil
}

// RVBasis evaluates the additive radial-velocity baseline. The nominal
// baseline is all-zero.
func RVBasis(coeff, ts []float64, aux [][]float64) ([]float64, error) {
	if len(coeff) != NumRVCoeffs {
		return nil, errors.Wrapf(ErrCoeffLength, "got %d, want %d", len(coeff), NumRVCoeffs)
	}
	if len(aux) > MaxAuxRV {
		aux = aux[:MaxAuxRV]
	}
	b := make([]float64, len(ts))
	for i, t := range ts {
		v := coeff[0]*t + coeff[1]*t*t
		for k, col := range aux {
			c := col[i]
			v += coeff[2+2*k]*c + coeff[3+2*k]*c*c
		}
		v += coeff[8] * math.Sin(coeff[9]*t+coeff[10])
		b[i] = v
	}
	return b, nil
}
