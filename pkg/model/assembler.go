package model

import (
	"github.com/pkg/errors"

	"github.com/luminastro/orbitfit/pkg/baseline"
	"github.com/luminastro/orbitfit/pkg/params"
	"github.com/luminastro/orbitfit/pkg/rv"
	"github.com/luminastro/orbitfit/pkg/transit"
)

// PhotometricInput bundles everything needed to evaluate one light curve:
// the physical transit model, an optional finite-exposure supersampler, the
// third-light contamination factor, the parametric baseline coefficients and
// an optional spline configuration.
type PhotometricInput struct {
	Transit       *transit.Model
	Supersampler  *transit.Supersampler
	Contamination float64
	Baseline      []params.Param // baseline.NumLCCoeffs entries
	Spline        *baseline.SplineConfig
}

// RVInput is the radial-velocity counterpart of PhotometricInput.
type RVInput struct {
	RV       *rv.Model
	Baseline []params.Param // baseline.NumRVCoeffs entries
	Spline   *baseline.SplineConfig
}

// Output is one assembled model evaluation. For light curves the full model
// is Physical*Baseline*Spline and Detrended is data/(Baseline*Spline); for
// radial velocities the combination is additive throughout. Detrended is nil
// for a model-only evaluation.
type Output struct {
	Full      []float64
	Physical  []float64
	Baseline  []float64
	Spline    []float64
	Detrended []float64

	Components map[string][]float64 // per-planet physical curves, "pl_1", ...
	Coeffs     []float64            // baseline coefficients after re-fitting
}

// EvaluatePhotometric evaluates the transit model on the dataset, re-fits the
// free baseline coefficients against the data, fits the residual spline and
// assembles the multiplicative full model.
func EvaluatePhotometric(ds *Dataset, in *PhotometricInput) (*Output, error) {
	if err := ds.validate(); err != nil {
		return nil, err
	}

	physical, comps, err := in.Transit.Eval(ds.Time, in.Supersampler, in.Contamination)
	if err != nil {
		return nil, err
	}

	ts := baseline.CenterTime(ds.Time)
	coeffs := params.Values(in.Baseline)
	if len(ds.Value) > 0 {
		if coeffs, err = baseline.FitLC(in.Baseline, ts, ds.Aux, ds.Value, physical); err != nil {
			return nil, errors.Wrap(err, "unable to fit light-curve baseline")
		}
	}
	basis, err := baseline.LCBasis(coeffs, ts, ds.Aux)
	if err != nil {
		return nil, err
	}

	spl := constSlice(len(ds.Time), 1)
	if in.Spline != nil && len(ds.Value) > 0 {
		target := make([]float64, len(ds.Time))
		for i := range target {
			target[i] = ds.Value[i] / physical[i] / basis[i]
		}
		if spl, err = fitSpline(ds, in.Spline, target); err != nil {
			return nil, err
		}
	}

	out := &Output{
		Full:       make([]float64, len(ds.Time)),
		Physical:   physical,
		Baseline:   basis,
		Spline:     spl,
		Components: comps,
		Coeffs:     coeffs,
	}
	for i := range out.Full {
		out.Full[i] = physical[i] * basis[i] * spl[i]
	}
	if len(ds.Value) > 0 {
		out.Detrended = make([]float64, len(ds.Time))
		for i := range out.Detrended {
			out.Detrended[i] = ds.Value[i] / (basis[i] * spl[i])
		}
	}
	return out, nil
}

// EvaluateRV evaluates the radial-velocity model on the dataset, re-fits the
// free baseline coefficients and assembles the additive full model.
func EvaluateRV(ds *Dataset, in *RVInput) (*Output, error) {
	if err := ds.validate(); err != nil {
		return nil, err
	}

	physical, comps, err := in.RV.Eval(ds.Time)
	if err != nil {
		return nil, err
	}

	ts := baseline.CenterTime(ds.Time)
	coeffs := params.Values(in.Baseline)
	if len(ds.Value) > 0 {
		if coeffs, err = baseline.FitRV(in.Baseline, ts, ds.Aux, ds.Value, physical); err != nil {
			return nil, errors.Wrap(err, "unable to fit radial-velocity baseline")
		}
	}
	basis, err := baseline.RVBasis(coeffs, ts, ds.Aux)
	if err != nil {
		return nil, err
	}

	spl := constSlice(len(ds.Time), 0)
	if in.Spline != nil && len(ds.Value) > 0 {
		target := make([]float64, len(ds.Time))
		for i := range target {
			target[i] = ds.Value[i] - physical[i] - basis[i]
		}
		if spl, err = fitSpline(ds, in.Spline, target); err != nil {
			return nil, err
		}
	}

	out := &Output{
		Full:       make([]float64, len(ds.Time)),
		Physical:   physical,
		Baseline:   basis,
		Spline:     spl,
		Components: comps,
		Coeffs:     coeffs,
	}
	for i := range out.Full {
		out.Full[i] = physical[i] + basis[i] + spl[i]
	}
	if len(ds.Value) > 0 {
		out.Detrended = make([]float64, len(ds.Time))
		for i := range out.Detrended {
			out.Detrended[i] = ds.Value[i] - basis[i] - spl[i]
		}
	}
	return out, nil
}

func fitSpline(ds *Dataset, cfg *baseline.SplineConfig, target []float64) ([]float64, error) {
	x1, err := ds.auxColumn(cfg.Cols[0])
	if err != nil {
		return nil, err
	}
	var x2 []float64
	if cfg.Dim == 2 {
		if x2, err = ds.auxColumn(cfg.Cols[1]); err != nil {
			return nil, err
		}
	}
	return cfg.Fit(x1, x2, target)
}

func constSlice(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
