package orbit

import "math"

// EccOmega converts the (sesinw, secosw) = (sqrt(e)*sin(w), sqrt(e)*cos(w))
// parameterization to eccentricity and argument of periastron in [0,2pi).
// The parameterization avoids the omega singularity at zero eccentricity and
// keeps uniform priors on (sesinw, secosw) uniform in e.
//
// Eccentricities at or above MaxEccentricity are clamped, with the sine
// component re-derived from the cosine component so downstream quantities
// stay self-consistent. Eccentricities at or below circularTol force an
// exactly circular orbit with omega=0.
func EccOmega(sesinw, secosw float64) (ecc, omega float64) {
	ecc = sesinw*sesinw + secosw*secosw

	if ecc >= MaxEccentricity {
		ecc = MaxEccentricity
		se := math.Sqrt(ecc)
		var ome2 float64
		if secosw/se < 1 {
			ome2 = math.Acos(secosw / se)
		}
		sesinw = se * math.Sin(ome2)
	}

	if ecc <= circularTol {
		return 0, 0
	}

	// reference angle in the first quadrant, then resolve the quadrant from
	// the sign pattern of (sesinw, secosw); plain atan alone folds the circle
	// onto half of it.
	ome := math.Atan(math.Abs(sesinw / secosw))
	switch {
	case sesinw >= 0 && secosw >= 0:
		omega = ome
	case sesinw >= 0 && secosw < 0:
		omega = math.Pi - ome
	case sesinw < 0 && secosw < 0:
		omega = math.Pi + ome
	default: // sesinw < 0, secosw >= 0
		omega = 2*math.Pi - ome
	}
	return ecc, omega
}

// Parameterize is the inverse of EccOmega, mapping eccentricity and argument
// of periastron (radians) to (sesinw, secosw).
func Parameterize(ecc, omega float64) (sesinw, secosw float64) {
	se := math.Sqrt(ecc)
	return se * math.Sin(omega), se * math.Cos(omega)
}
