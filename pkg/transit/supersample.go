package transit

import "github.com/pkg/errors"

// ErrShapeMismatch is returned when a rebinned array length is not an exact
// multiple of the supersampling factor. Silent truncation would desync the
// model from the data, so this is always an error.
var ErrShapeMismatch = errors.New("transit: supersampled length not divisible by factor")

// Supersampler expands timestamps of long-exposure observations into evenly
// spaced sub-exposures and rebins model values back to the native cadence,
// approximating finite-exposure smearing. The configuration is immutable
// after construction and safe for concurrent read-only sharing.
type Supersampler struct {
	ExpTime float64 // exposure duration, same unit as the time array
	Factor  int     // sub-exposures per timestamp

	offsets []float64
}

// NewSupersampler precomputes the sub-exposure offsets spanning +-ExpTime/2.
// A factor below 2 yields an identity sampler.
func NewSupersampler(expTime float64, factor int) *Supersampler {
	if factor < 1 {
		factor = 1
	}
	offsets := make([]float64, factor)
	if factor > 1 {
		step := expTime / float64(factor-1)
		for i := range offsets {
			offsets[i] = -expTime/2 + float64(i)*step
		}
	}
	return &Supersampler{ExpTime: expTime, Factor: factor, offsets: offsets}
}

// Supersample expands each timestamp into Factor sub-times. The result has
// length len(t)*Factor.
func (s *Supersampler) Supersample(t []float64) []float64 {
	out := make([]float64, 0, len(t)*s.Factor)
	for _, ti := range t {
		for _, off := range s.offsets {
			out = append(out, ti+off)
		}
	}
	return out
}

// Rebin averages each contiguous block of Factor values back to the native
// cadence. The input length must be an exact multiple of Factor.
func (s *Supersampler) Rebin(v []float64) ([]float64, error) {
	if len(v)%s.Factor != 0 {
		return nil, errors.Wrapf(ErrShapeMismatch, "len %d, factor %d", len(v), s.Factor)
	}
	out := make([]float64, len(v)/s.Factor)
	for i := range out {
		var sum float64
		for j := 0; j < s.Factor; j++ {
			sum += v[i*s.Factor+j]
		}
		out[i] = sum / float64(s.Factor)
	}
	return out, nil
}
