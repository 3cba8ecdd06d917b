// Package params defines the tagged parameter variant used throughout the
// model: a parameter is either fixed at a value or free with a uniform or
// normal prior. Priors are resolved once at configuration load, keeping
// string-flag branching out of the evaluation path.
package params

import "math"

// Kind discriminates the parameter variants.
type Kind int

const (
	// Fixed pins the parameter at Value.
	Fixed Kind = iota
	// Uniform frees the parameter inside [Lo, Hi] starting from Value.
	Uniform
	// Normal frees the parameter with a Gaussian prior (Mean, Sigma).
	Normal
)

// Param is one tagged model parameter.
type Param struct {
	Kind  Kind
	Value float64 // current (or starting) value
	Lo    float64 // lower bound, Uniform
	Hi    float64 // upper bound, Uniform
	Mean  float64 // prior mean, Normal
	Sigma float64 // prior width, Normal
}

// Fix returns a parameter pinned at v.
func Fix(v float64) Param {
	return Param{Kind: Fixed, Value: v}
}

// Unif returns a free parameter bounded to [lo, hi] starting at start.
func Unif(lo, start, hi float64) Param {
	return Param{Kind: Uniform, Value: start, Lo: lo, Hi: hi}
}

// Norm returns a free parameter with a Gaussian prior, starting at the mean.
func Norm(mean, sigma float64) Param {
	return Param{Kind: Normal, Value: mean, Mean: mean, Sigma: sigma,
		Lo: math.Inf(-1), Hi: math.Inf(1)}
}

// Free reports whether the parameter participates in fitting.
func (p Param) Free() bool { return p.Kind != Fixed }

// Bounds returns the box constraints for fitting; a Normal parameter is
// unbounded.
func (p Param) Bounds() (lo, hi float64) {
	if p.Kind == Uniform {
		return p.Lo, p.Hi
	}
	return math.Inf(-1), math.Inf(1)
}

// Values extracts the current value of every parameter.
func Values(ps []Param) []float64 {
	out := make([]float64, len(ps))
	for i, p := range ps {
		out[i] = p.Value
	}
	return out
}

// FreeIndices returns the indices of the free parameters.
func FreeIndices(ps []Param) []int {
	var idx []int
	for i, p := range ps {
		if p.Free() {
			idx = append(idx, i)
		}
	}
	return idx
}
