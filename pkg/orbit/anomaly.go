package orbit

import (
	"math"

	"github.com/pkg/errors"
)

var (
	// ErrNonPositivePeriod is returned when an orbital period is zero or negative.
	ErrNonPositivePeriod = errors.New("orbit: period must be positive")
	// ErrEccentricityRange is returned when an eccentricity lies outside [0,1).
	ErrEccentricityRange = errors.New("orbit: eccentricity must be in [0,1)")
)

const (
	// MaxEccentricity is the ceiling applied to eccentric orbits. Values at or
	// above it are clamped so sampler exploration near the boundary stays
	// well-defined.
	MaxEccentricity = 0.99

	// circularTol is the eccentricity below which an orbit is treated as
	// exactly circular, avoiding the singular inverse mapping of omega.
	circularTol = 1e-5
)

// wrap2Pi maps an angle into [0, 2pi).
func wrap2Pi(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// solveKeplerSeries returns the eccentric anomaly for a mean anomaly ma and
// eccentricity ecc using a fixed 6th-order trigonometric series expansion of
// Kepler's equation. The series is exact to O(ecc^7): at ecc=0.3 the
// truncation error is about 1e-6 rad and it grows toward the 0.99 ceiling.
// The closed form trades that error for a branch-free evaluation per sample,
// which is what a sampler hammering this function wants.
func solveKeplerSeries(ma, ecc float64) float64 {
	e2 := ecc * ecc
	e3 := e2 * ecc
	e4 := e3 * ecc
	e5 := e4 * ecc
	e6 := e5 * ecc

	s1, s2 := math.Sin(ma), math.Sin(2*ma)
	s3, s4 := math.Sin(3*ma), math.Sin(4*ma)
	s5, s6 := math.Sin(5*ma), math.Sin(6*ma)

	ea := ma + s1*ecc + 0.5*s2*e2 +
		(3./8.*s3-1./8.*s1)*e3 +
		(1./3.*s4-1./6.*s2)*e4 +
		(1./192.*s1-27./128.*s3+125./384.*s5)*e5 +
		(1./48.*s2+27./80.*s6-4./15.*s4)*e6
	return wrap2Pi(ea)
}

// trueFromEccentric converts an eccentric anomaly to the true anomaly through
// the half-angle identity, wrapped to [0,2pi).
func trueFromEccentric(ea, ecc float64) float64 {
	ta := 2 * math.Atan2(
		math.Sqrt(1+ecc)*math.Sin(ea/2),
		math.Sqrt(1-ecc)*math.Cos(ea/2),
	)
	return wrap2Pi(ta)
}

// eccentricFromTrue is the inverse half-angle conversion.
func eccentricFromTrue(ta, ecc float64) float64 {
	ea := 2 * math.Atan2(
		math.Sqrt(1-ecc)*math.Sin(ta/2),
		math.Sqrt(1+ecc)*math.Cos(ta/2),
	)
	return wrap2Pi(ea)
}

// PeriastronTime returns the time of periastron passage for a planet with
// mid-transit time t0, period per, eccentricity ecc and argument of
// periastron omega (radians). At inferior conjunction the true anomaly is
// pi/2-omega; walking that back through the eccentric and mean anomaly gives
// the offset from t0.
func PeriastronTime(t0, per, ecc, omega float64) float64 {
	taTra := wrap2Pi(math.Pi/2 - omega)
	eaTra := eccentricFromTrue(taTra, ecc)
	maTra := wrap2Pi(eaTra - ecc*math.Sin(eaTra))
	meanMotion := 2 * math.Pi / per
	return t0 - maTra/meanMotion
}

// Anomalies computes the eccentric and true anomaly for every timestamp in t,
// for a planet with mid-transit time t0, period per, eccentricity ecc and
// argument of periastron omega (radians). Both returned arrays are wrapped to
// [0,2pi). Eccentricities at or above MaxEccentricity are clamped; below
// circularTol the orbit is treated as exactly circular.
func Anomalies(t []float64, t0, per, ecc, omega float64) (ea, ta []float64, err error) {
	if per <= 0 {
		return nil, nil, ErrNonPositivePeriod
	}
	if ecc < 0 || ecc >= 1 {
		return nil, nil, errors.Wrapf(ErrEccentricityRange, "got %g", ecc)
	}
	if ecc >= MaxEccentricity {
		ecc = MaxEccentricity
	}
	if ecc < circularTol {
		ecc = 0
	}

	tPeri := PeriastronTime(t0, per, ecc, omega)
	meanMotion := 2 * math.Pi / per

	ea = make([]float64, len(t))
	ta = make([]float64, len(t))
	for i, ti := range t {
		ma := wrap2Pi((ti - tPeri) * meanMotion)
		ea[i] = solveKeplerSeries(ma, ecc)
		ta[i] = trueFromEccentric(ea[i], ecc)
	}
	return ea, ta, nil
}
