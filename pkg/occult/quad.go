// Package occult evaluates the closed-form Mandel & Agol (2002) occultation
// integral for a quadratic limb-darkening law. It is the flux kernel behind
// the transit and occultation branches of the light-curve model.
package occult

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mathext"
)

// ErrNegativeSeparation is returned when a projected separation is negative;
// the integral is defined for z >= 0 only.
var ErrNegativeSeparation = errors.New("occult: projected separation must be non-negative")

// tolerance for snapping separations onto the special-case boundaries where
// the elliptic moduli become singular.
const zTol = 1e-9

// Quad returns the limb-darkened and uniform-source fluxes of a star of unit
// radius occulted by an opaque disk of radius p (in stellar radii) at the
// projected center-to-center separations z. u1 and u2 are the quadratic
// limb-darkening coefficients. Fluxes are normalized to 1 out of occultation.
func Quad(z []float64, u1, u2, p float64) (ld, uniform []float64, err error) {
	p = math.Abs(p)
	ld = make([]float64, len(z))
	uniform = make([]float64, len(z))
	omega := 1 - u1/3 - u2/6

	for i, d := range z {
		if d < 0 {
			return nil, nil, errors.Wrapf(ErrNegativeSeparation, "z[%d]=%g", i, d)
		}
		ld[i], uniform[i] = quadPoint(d, u1, u2, p, omega)
	}
	return ld, uniform, nil
}

// quadPoint evaluates one separation. The case analysis follows Table 1 of
// Mandel & Agol (2002): lambdaE is the uniform-source obscured fraction,
// lambdaD and etaD carry the limb-darkened corrections.
func quadPoint(d, u1, u2, p, omega float64) (ld, uniform float64) {
	if p == 0 || d >= 1+p {
		return 1, 1
	}

	// snap onto singular boundaries of the elliptic moduli
	if math.Abs(p-d) < zTol*(p+d) {
		d = p
	}
	if math.Abs(d-(1-p)) < zTol {
		d = 1 - p
	}
	if d < zTol {
		d = 0
	}

	// complete occultation
	if p >= 1 && d <= p-1 {
		lambdaE := 1.0
		ld = 1 - ((1-u1-2*u2)*lambdaE + (u1+2*u2)*(2./3.) + u2*0.5) / omega
		return ld, 0
	}

	x1 := (p - d) * (p - d)
	x2 := (p + d) * (p + d)
	x3 := p*p - d*d

	var kap0, kap1, lambdaE float64

	// occulting disk crosses the stellar limb
	if d >= math.Abs(1-p) && d <= 1+p {
		kap1 = math.Acos(math.Min((1-p*p+d*d)/(2*d), 1))
		kap0 = math.Acos(math.Min((p*p+d*d-1)/(2*p*d), 1))
		lambdaE = p*p*kap0 + kap1
		lambdaE = (lambdaE - 0.5*math.Sqrt(math.Max(4*d*d-(1+d*d-p*p)*(1+d*d-p*p), 0))) / math.Pi
	}
	// disk fully on the stellar face
	if d <= 1-p {
		lambdaE = p * p
	}
	uniform = 1 - lambdaE

	var lambdaD, etaD float64
	switch {
	// edge of the occulting disk at the stellar center
	case d == p:
		switch {
		case p < 0.5:
			q := 2 * p
			kk := mathext.CompleteK(q * q)
			ek := mathext.CompleteE(q * q)
			lambdaD = 1./3. + 2./(9.*math.Pi)*(4*(2*p*p-1)*ek+(1-4*p*p)*kk)
			etaD = p * p / 2 * (p*p + 2*d*d)
		case p > 0.5:
			q := 0.5 / p
			kk := mathext.CompleteK(q * q)
			ek := mathext.CompleteE(q * q)
			lambdaD = 1./3. + 16.*p/(9.*math.Pi)*(2*p*p-1)*ek -
				(32*p*p*p*p-20*p*p+3)/(9.*math.Pi*p)*kk
			etaD = eta1(d, p, x1, x2, kap0, kap1)
		default: // p == 0.5
			lambdaD = 1./3. - 4./(9.*math.Pi)
			etaD = 3. / 32.
		}

	// disk crosses the limb while covering the stellar center side
	case (d > 0.5+math.Abs(p-0.5) && d < 1+p) || (p > 0.5 && d > math.Abs(1-p) && d < p):
		q2 := (1 - x1) / (4 * d * p)
		kk := mathext.CompleteK(q2)
		ek := mathext.CompleteE(q2)
		pk := ellpicBulirsch(1/x1-1, math.Sqrt(q2))
		lambdaD = 1. / (9. * math.Pi * math.Sqrt(p*d)) *
			(((1-x2)*(2*x2+x1-3)-3*x3*(x2-2))*kk +
				4*p*d*(d*d+7*p*p-4)*ek - 3*(x3/x1)*pk)
		if d < p {
			lambdaD += 2. / 3.
		}
		etaD = eta1(d, p, x1, x2, kap0, kap1)

	// disk fully on the stellar face
	case d <= 1-p:
		etaD = p * p / 2 * (p*p + 2*d*d)
		switch {
		case d == 1-p:
			lambdaD = 2./(3.*math.Pi)*math.Acos(1-2*p) -
				4./(9.*math.Pi)*math.Sqrt(p*(1-p))*(3+2*p-8*p*p)
		case d == 0:
			lambdaD = 2. / 3. * (1 - math.Pow(1-p*p, 1.5))
		default:
			q2 := (x2 - x1) / (1 - x1)
			kk := mathext.CompleteK(q2)
			ek := mathext.CompleteE(q2)
			pk := ellpicBulirsch(x2/x1-1, math.Sqrt(q2))
			lambdaD = 2. / (9. * math.Pi * math.Sqrt(1-x1)) *
				((1-5*d*d+p*p+x3*x3)*kk +
					(1-x1)*(d*d+7*p*p-4)*ek - 3*(x3/x1)*pk)
			if d < p {
				lambdaD += 2. / 3.
			}
		}
	}

	ld = 1 - ((1-u1-2*u2)*lambdaE + (u1+2*u2)*lambdaD + u2*etaD) / omega
	return ld, uniform
}

// eta1 is the limb-crossing eta term of Mandel & Agol Table 1.
func eta1(d, p, x1, x2, kap0, kap1 float64) float64 {
	return 1. / (2. * math.Pi) * (kap1 + p*p*(p*p+2*d*d)*kap0 -
		0.25*(1+5*p*p+d*d)*math.Sqrt((1-x1)*(x2-1)))
}

// ellpicBulirsch computes the complete elliptic integral of the third kind
// Pi(n,k) with Bulirsch's cel algorithm (a=b=1, p=n+1).
func ellpicBulirsch(n, k float64) float64 {
	kc := math.Sqrt(1 - k*k)
	p := math.Sqrt(n + 1)
	m0 := 1.0
	c := 1.0
	d := 1.0 / p
	e := kc
	for iter := 0; iter < 10000; iter++ {
		f := c
		c = d/p + c
		g := e / p
		d = 2 * (f*g + d)
		p = g + p
		g = m0
		m0 = kc + m0
		if math.Abs(1-kc/g) > 1e-8 {
			kc = 2 * math.Sqrt(e)
			e = kc * m0
		} else {
			return 0.5 * math.Pi * (c*m0 + d) / (m0 * (m0 + p))
		}
	}
	return 0
}
