package transit

import "math"

// QtoU converts the Kipping (2013) triangular limb-darkening parameters
// (q1, q2) to the quadratic-law coefficients (u1, u2). The triangular
// parameterization keeps uniform sampling of the unit square physical.
func QtoU(q1, q2 float64) (u1, u2 float64) {
	sq := math.Sqrt(q1)
	return 2 * sq * q2, sq * (1 - 2*q2)
}

// UtoQ is the inverse of QtoU.
func UtoQ(u1, u2 float64) (q1, q2 float64) {
	s := u1 + u2
	return s * s, u1 / (2 * s)
}

// CtoU converts the (c1, c2) = (2*u1+u2, u1-u2) combination back to
// quadratic coefficients.
func CtoU(c1, c2 float64) (u1, u2 float64) {
	return (c1 + c2) / 3, (c1 - 2*c2) / 3
}

// UtoC is the inverse of CtoU.
func UtoC(u1, u2 float64) (c1, c2 float64) {
	return 2*u1 + u2, u1 - u2
}
