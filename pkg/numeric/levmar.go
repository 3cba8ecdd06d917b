// Package numeric provides the small numerical-optimization kernels consumed
// by the baseline detrender: a box-bounded Levenberg-Marquardt least-squares
// solver and least-squares B-spline fitting with explicit knots. Linear
// algebra is delegated to gonum/mat.
package numeric

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ErrNoConvergence is returned when the damped least-squares iteration
// exhausts its iteration budget without meeting the tolerances. Callers must
// propagate it; substituting a default silently would poison the outer fit.
var ErrNoConvergence = errors.New("numeric: least-squares fit did not converge")

// ResidualFunc maps a parameter vector to a residual vector. The residual
// length must not change between calls.
type ResidualFunc func(params []float64) []float64

// LMOptions tunes the Levenberg-Marquardt iteration.
type LMOptions struct {
	MaxIter int     // iteration budget, default 200
	Tol     float64 // relative cost-decrease tolerance, default 1e-10
}

const fdStep = 1.4901161193847656e-08 // sqrt(machine epsilon)

// Levenberg minimizes 0.5*sum(f(p)^2) over p starting at start, keeping every
// parameter inside [lo[i], hi[i]]. Either bound slice may be nil for an
// unbounded fit. It returns the fitted parameters or ErrNoConvergence.
func Levenberg(f ResidualFunc, start, lo, hi []float64, opts *LMOptions) ([]float64, error) {
	maxIter, tol := 200, 1e-10
	if opts != nil {
		if opts.MaxIter > 0 {
			maxIter = opts.MaxIter
		}
		if opts.Tol > 0 {
			tol = opts.Tol
		}
	}

	n := len(start)
	p := make([]float64, n)
	copy(p, start)
	clampInto(p, lo, hi)

	r := f(p)
	cost := halfSquaredNorm(r)
	lambda := 1e-3

	for iter := 0; iter < maxIter; iter++ {
		jac := jacobian(f, p, r, lo, hi)

		// normal equations: (J'J + lambda*diag(J'J)) delta = -J'r
		jtj := mat.NewSymDense(n, nil)
		g := mat.NewVecDense(n, nil)
		m := len(r)
		for i := 0; i < n; i++ {
			for j := i; j < n; j++ {
				var s float64
				for k := 0; k < m; k++ {
					s += jac.At(k, i) * jac.At(k, j)
				}
				jtj.SetSym(i, j, s)
			}
			var s float64
			for k := 0; k < m; k++ {
				s += jac.At(k, i) * r[k]
			}
			g.SetVec(i, -s)
		}

		accepted := false
		for ; lambda <= 1e14; lambda *= 4 {
			damped := mat.NewSymDense(n, nil)
			for i := 0; i < n; i++ {
				for j := i; j < n; j++ {
					v := jtj.At(i, j)
					if i == j {
						diag := jtj.At(i, i)
						if diag == 0 {
							diag = 1
						}
						v += lambda * diag
					}
					damped.SetSym(i, j, v)
				}
			}

			var chol mat.Cholesky
			if ok := chol.Factorize(damped); !ok {
				continue
			}
			delta := mat.NewVecDense(n, nil)
			if err := chol.SolveVecTo(delta, g); err != nil {
				continue
			}

			trial := make([]float64, n)
			maxStep := 0.0
			for i := 0; i < n; i++ {
				trial[i] = p[i] + delta.AtVec(i)
				maxStep = math.Max(maxStep, math.Abs(delta.AtVec(i)))
			}
			clampInto(trial, lo, hi)

			if maxStep < 1e-14 {
				return p, nil
			}

			rTrial := f(trial)
			costTrial := halfSquaredNorm(rTrial)
			if costTrial < cost {
				converged := cost-costTrial <= tol*math.Max(cost, 1e-300)
				p, r, cost = trial, rTrial, costTrial
				lambda = math.Max(lambda/3, 1e-12)
				accepted = true
				if converged {
					return p, nil
				}
				break
			}
		}
		if !accepted {
			// damping exhausted without any acceptable step: we are at a
			// (possibly constrained) stationary point
			return p, nil
		}
	}
	return nil, errors.Wrapf(ErrNoConvergence, "after %d iterations, cost %g", maxIter, cost)
}

// jacobian builds the forward-difference Jacobian of f at p, flipping the
// difference direction where a bound would be crossed.
func jacobian(f ResidualFunc, p, r []float64, lo, hi []float64) *mat.Dense {
	n := len(p)
	m := len(r)
	jac := mat.NewDense(m, n, nil)
	pj := make([]float64, n)
	for j := 0; j < n; j++ {
		h := fdStep * math.Max(math.Abs(p[j]), 1)
		if hi != nil && p[j]+h > hi[j] && (lo == nil || p[j]-h >= lo[j]) {
			h = -h
		}
		copy(pj, p)
		pj[j] += h
		rj := f(pj)
		for i := 0; i < m; i++ {
			jac.Set(i, j, (rj[i]-r[i])/h)
		}
	}
	return jac
}

func clampInto(p, lo, hi []float64) {
	for i := range p {
		if lo != nil && p[i] < lo[i] {
			p[i] = lo[i]
		}
		if hi != nil && p[i] > hi[i] {
			p[i] = hi[i]
		}
	}
}

func halfSquaredNorm(r []float64) float64 {
	var s float64
	for _, v := range r {
		s += v * v
	}
	return 0.5 * s
}
