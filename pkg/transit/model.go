// Package transit computes the normalized light curve of one or more
// transiting planets: sky-projected Keplerian geometry, the quadratic
// limb-darkened occultation integral on the transit branch, a rescaled
// zero-limb-darkening eclipse on the occultation branch, and optional
// atmospheric, ellipsoidal and Doppler-beaming phase-curve terms.
package transit

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/luminastro/orbitfit/pkg/occult"
	"github.com/luminastro/orbitfit/pkg/orbit"
)

var (
	// ErrPlanetMismatch is returned when per-planet parameter slices differ
	// in length.
	ErrPlanetMismatch = errors.New("transit: per-planet parameter slices must have equal length")
	// ErrNoScale is returned when neither a stellar density nor a transit
	// duration is available to set the scaled semi-major axis.
	ErrNoScale = errors.New("transit: either stellar density or transit duration must be positive")
)

// Model holds the physical parameters of a multi-planet light-curve model.
// Amplitudes (Occ, Aatm, Aev, Adb) are given in parts per million. The
// scaled semi-major axis is derived from RhoStar when positive, otherwise
// from the transit duration Dur.
type Model struct {
	RhoStar float64 // stellar density, g/cm^3
	Dur     float64 // total transit duration, days

	T0     []float64 // mid-transit time per planet, days
	RpRs   []float64 // radius ratio per planet (negative allowed)
	B      []float64 // impact parameter per planet
	Per    []float64 // orbital period per planet, days
	Sesinw []float64 // sqrt(e)*sin(w) per planet
	Secosw []float64 // sqrt(e)*cos(w) per planet

	Q1, Q2 float64 // triangular limb-darkening parameters

	Occ   float64 // occultation depth / dayside flux, ppm
	Aatm  float64 // atmospheric phase-curve semi-amplitude, ppm
	Delta float64 // hotspot offset, degrees
	Aev   float64 // ellipsoidal variation amplitude, ppm
	Adb   float64 // Doppler beaming amplitude, ppm
}

// NPlanets returns the number of planets described by the model.
func (m *Model) NPlanets() int { return len(m.T0) }

func (m *Model) validate() error {
	npl := len(m.T0)
	if len(m.RpRs) != npl || len(m.B) != npl || len(m.Per) != npl ||
		len(m.Sesinw) != npl || len(m.Secosw) != npl {
		return ErrPlanetMismatch
	}
	for _, per := range m.Per {
		if per <= 0 {
			return orbit.ErrNonPositivePeriod
		}
	}
	if m.RhoStar <= 0 && m.Dur <= 0 {
		return ErrNoScale
	}
	return nil
}

// Eval computes the normalized flux at the timestamps t. A non-nil
// Supersampler evaluates the physics on the oversampled grid and rebins to
// the native cadence; vcont is the third-light contamination factor. It
// returns the aggregate flux and the per-planet component curves keyed
// "pl_1", "pl_2", ...
func (m *Model) Eval(t []float64, ss *Supersampler, vcont float64) ([]float64, map[string][]float64, error) {
	if err := m.validate(); err != nil {
		return nil, nil, err
	}

	tt := t
	if ss != nil {
		tt = ss.Supersample(t)
	}

	u1, u2 := QtoU(m.Q1, m.Q2)
	occDepth := m.Occ * 1e-6
	aatm := m.Aatm * 1e-6
	aev := m.Aev * 1e-6
	adb := m.Adb * 1e-6

	plSum := make([]float64, len(t))
	components := make(map[string][]float64, m.NPlanets())

	for n := 0; n < m.NPlanets(); n++ {
		ecc, ome := orbit.EccOmega(m.Sesinw[n], m.Secosw[n])

		var aR float64
		if m.RhoStar > 0 {
			aR = orbit.RhoToAR(m.RhoStar, m.Per[n])
		} else {
			aR = orbit.TdurToAR(m.Dur, m.B[n], m.RpRs[n], m.Per[n], ecc, ome)
		}

		ea, ta, err := orbit.Anomalies(tt, m.T0[n], m.Per[n], ecc, ome)
		if err != nil {
			return nil, nil, err
		}

		z, y := project(ea, ta, aR, m.B[n], ecc, ome)

		mm0, trIdx, occIdx, err := m.branchFlux(z, y, u1, u2, m.RpRs[n], occDepth)
		if err != nil {
			return nil, nil, err
		}

		phase := orbit.PhaseFold(tt, m.Per[n], m.T0[n], -0.5)
		ellps := EllipsoidalVariation(phase, aev)
		dopp := DopplerBeaming(phase, adb)

		lc := make([]float64, len(tt))
		if aatm != 0 {
			// keep the branches separate so the atmospheric modulation only
			// touches the planetary (occultation) flux
			fTrans := onesLike(tt)
			fOcc := onesLike(tt)
			for _, i := range trIdx {
				fTrans[i] = mm0[i]
			}
			for _, i := range occIdx {
				fOcc[i] = mm0[i]
			}
			fOcc = rescale01(fOcc)
			atm := CosineAtmVariation(phase, occDepth, aatm, m.Delta)
			for i := range lc {
				lc[i] = fTrans[i]*(1+ellps[i]+dopp[i]) + fOcc[i]*atm.PC[i]
			}
		} else {
			for i := range lc {
				lc[i] = mm0[i] * (1 + ellps[i] + dopp[i])
			}
		}

		if ss != nil {
			if lc, err = ss.Rebin(lc); err != nil {
				return nil, nil, err
			}
		}

		comp := make([]float64, len(lc))
		copy(comp, lc)
		components[fmt.Sprintf("pl_%d", n+1)] = comp
		for i := range plSum {
			plSum[i] += lc[i] - 1
		}
	}

	// third-light contamination dilutes every planetary signal equally
	total := make([]float64, len(plSum))
	for i := range total {
		total[i] = plSum[i]/(vcont+1) + 1
	}
	return total, components, nil
}

// project maps anomalies to the sky-projected star-planet separation z and
// the line-of-sight discriminant y; y >= 0 selects the transit branch
// (planet in front), y < 0 the occultation branch. This assumes inferior
// conjunction near phase zero.
func project(ea, ta []float64, aR, b, ecc, ome float64) (z, y []float64) {
	z = make([]float64, len(ea))
	y = make([]float64, len(ea))
	for i := range ea {
		sep := aR * (1 - ecc*math.Cos(ea[i]))
		bt := b * (1 - ecc*math.Cos(ea[i]))
		ang := ta[i] + ome - math.Pi/2
		x := sep * math.Sin(ang)
		y[i] = math.Sqrt(sep*sep-bt*bt) * math.Cos(ang)
		zc := -bt * math.Cos(ang)
		z[i] = math.Hypot(x, zc)
	}
	return z, y
}

// branchFlux evaluates the occultation integral separately on the transit
// and occultation branches and merges the results in time order.
func (m *Model) branchFlux(z, y []float64, u1, u2, rpRs, occDepth float64) (mm0 []float64, trIdx, occIdx []int, err error) {
	for i := range y {
		if y[i] >= 0 {
			trIdx = append(trIdx, i)
		} else {
			occIdx = append(occIdx, i)
		}
	}

	mm0 = onesLike(z)

	if len(trIdx) > 0 {
		zt := gather(z, trIdx)
		ft, _, err := occult.Quad(zt, u1, u2, math.Abs(rpRs))
		if err != nil {
			return nil, nil, nil, err
		}
		if rpRs < 0 {
			// negative depths: reflect the absorption profile about unity
			for i := range ft {
				ft[i] = 2 - ft[i]
			}
		}
		scatter(mm0, trIdx, ft)
	}

	if len(occIdx) > 0 {
		zo := gather(z, occIdx)
		fo, _, err := occult.Quad(zo, 0, 0, math.Abs(rpRs))
		if err != nil {
			return nil, nil, nil, err
		}
		// the un-darkened eclipse shape carries the transit depth; rescale it
		// to a dayside-flux eclipse of depth occDepth
		fo = rescale01(fo)
		for i := range fo {
			fo[i] = 1 + occDepth*(fo[i]-1)
		}
		scatter(mm0, occIdx, fo)
	}
	return mm0, trIdx, occIdx, nil
}

// rescale01 maps a slice onto [0,1]; a constant slice is returned unchanged.
func rescale01(x []float64) []float64 {
	lo, hi := floats.Min(x), floats.Max(x)
	if lo == hi {
		return x
	}
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = (v - lo) / (hi - lo)
	}
	return out
}

func onesLike(x []float64) []float64 {
	out := make([]float64, len(x))
	for i := range out {
		out[i] = 1
	}
	return out
}

func gather(x []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, j := range idx {
		out[i] = x[j]
	}
	return out
}

func scatter(dst []float64, idx []int, v []float64) {
	for i, j := range idx {
		dst[j] = v[i]
	}
}
