package orbit

import "math"

// gravitational constant in cm^3 g^-1 s^-2 and seconds per day, used by the
// stellar-density form of Kepler's third law.
const (
	gravConstCGS  = 6.67430e-8
	secondsPerDay = 86400.0
)

// RhoToAR converts a stellar density rho (g/cm^3) to the scaled semi-major
// axis a/Rs of a planet with orbital period per (days) via Kepler's third
// law, assuming Mp << Ms.
func RhoToAR(rho, per float64) float64 {
	ps := per * secondsPerDay
	return math.Cbrt(rho * gravConstCGS * ps * ps / (3 * math.Pi))
}

// ARToRho is the inverse of RhoToAR, recovering the stellar density (g/cm^3)
// from the scaled semi-major axis and period (days).
func ARToRho(per, aR float64) float64 {
	ps := per * secondsPerDay
	return 3 * math.Pi * aR * aR * aR / (gravConstCGS * ps * ps)
}

// TdurToAR converts a total transit duration tdur (days) to the scaled
// semi-major axis, for impact parameter b, radius ratio rpRs, period per
// (days), eccentricity ecc and argument of periastron omega (radians).
// The exact inverse of ARToTdur.
func TdurToAR(tdur, b, rpRs, per, ecc, omega float64) float64 {
	eccFac := math.Sqrt(1-ecc*ecc) / (1 + ecc*math.Sin(omega))
	sd := math.Sin(math.Pi * tdur / (per * eccFac))
	return math.Sqrt(((1+rpRs)*(1+rpRs)-b*b)/(sd*sd) + b*b)
}

// ARToTdur converts a scaled semi-major axis to the total transit duration in
// days, with eccentricity entering as a multiplicative duration factor.
func ARToTdur(aR, b, rpRs, per, ecc, omega float64) float64 {
	eccFac := math.Sqrt(1-ecc*ecc) / (1 + ecc*math.Sin(omega))
	factr := ((1+rpRs)*(1+rpRs) - b*b) / (aR*aR - b*b)
	return (per / math.Pi) * math.Asin(math.Sqrt(factr)) * eccFac
}

// PhaseFold folds timestamps on the period per about the reference epoch t0.
// Phases run from phase0 (default convention -0.5) over one cycle.
func PhaseFold(t []float64, per, t0, phase0 float64) []float64 {
	ph := make([]float64, len(t))
	for i, ti := range t {
		p := math.Mod((ti-t0)/per, 1)
		p = math.Mod(p-phase0, 1)
		if p < 0 {
			p += 1
		}
		ph[i] = p + phase0
	}
	return ph
}
