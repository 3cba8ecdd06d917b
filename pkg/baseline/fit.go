package baseline

import (
	"github.com/luminastro/orbitfit/pkg/numeric"
	"github.com/luminastro/orbitfit/pkg/params"
)

// FitLC refits the free light-curve baseline coefficients by bounded
// least squares against flux - basis*physical and returns the full updated
// coefficient vector. With no free coefficients the least-squares step is
// skipped entirely and the fixed values are returned as-is.
func FitLC(coeffs []params.Param, ts []float64, aux [][]float64, flux, physical []float64) ([]float64, error) {
	return fitCoeffs(coeffs, func(full []float64) ([]float64, error) {
		basis, err := LCBasis(full, ts, aux)
		if err != nil {
			return nil, err
		}
		res := make([]float64, len(flux))
		for i := range res {
			res[i] = flux[i] - basis[i]*physical[i]
		}
		return res, nil
	})
}

// FitRV refits the free radial-velocity baseline coefficients against
// rv - physical - basis. Semantics match FitLC otherwise.
func FitRV(coeffs []params.Param, ts []float64, aux [][]float64, rvData, physical []float64) ([]float64, error) {
	return fitCoeffs(coeffs, func(full []float64) ([]float64, error) {
		basis, err := RVBasis(full, ts, aux)
		if err != nil {
			return nil, err
		}
		res := make([]float64, len(rvData))
		for i := range res {
			res[i] = rvData[i] - physical[i] - basis[i]
		}
		return res, nil
	})
}

// fitCoeffs runs the bounded Levenberg-Marquardt step on the free subset of
// coeffs, leaving fixed coefficients untouched.
func fitCoeffs(coeffs []params.Param, residual func(full []float64) ([]float64, error)) ([]float64, error) {
	full := params.Values(coeffs)
	free := params.FreeIndices(coeffs)
	if len(free) == 0 {
		return full, nil
	}

	// validate the basis once up front so shape errors surface before the
	// solver loop
	if _, err := residual(full); err != nil {
		return nil, err
	}

	start := make([]float64, len(free))
	lo := make([]float64, len(free))
	hi := make([]float64, len(free))
	for i, j := range free {
		start[i] = coeffs[j].Value
		lo[i], hi[i] = coeffs[j].Bounds()
	}

	scratch := make([]float64, len(full))
	fitted, err := numeric.Levenberg(func(p []float64) []float64 {
		copy(scratch, full)
		for i, j := range free {
			scratch[j] = p[i]
		}
		res, _ := residual(scratch)
		return res
	}, start, lo, hi, nil)
	if err != nil {
		return nil, err
	}

	for i, j := range free {
		full[j] = fitted[i]
	}
	return full, nil
}
