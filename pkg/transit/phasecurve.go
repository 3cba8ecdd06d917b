package transit

import "math"

// AtmVariation is a cosine approximation of a planetary atmospheric phase
// curve with peak-to-peak amplitude Fmax-Fmin and a hotspot offset.
type AtmVariation struct {
	Delta  float64 // hotspot offset, radians
	Fmin   float64
	Fmax   float64
	Fnight float64
	PC     []float64 // planetary flux per input phase
}

// CosineAtmVariation evaluates the atmospheric phase variation at the given
// orbital phases (cycles, [-0.5,0.5)). fd is the dayside flux (occultation
// depth), amp the semi-amplitude (Fmax-Fmin)/2, deltaDeg the hotspot offset
// in degrees.
func CosineAtmVariation(phase []float64, fd, amp, deltaDeg float64) *AtmVariation {
	delta := deltaDeg * math.Pi / 180
	fmin := fd - amp*(1-math.Cos(math.Pi+delta))
	pc := make([]float64, len(phase))
	for i, ph := range phase {
		pc[i] = fmin + amp*(1-math.Cos(2*math.Pi*ph+delta))
	}
	return &AtmVariation{
		Delta:  delta,
		Fmin:   fmin,
		Fmax:   2*amp + fmin,
		Fnight: fd - 2*amp*math.Cos(delta),
		PC:     pc,
	}
}

// EllipsoidalVariation returns the tidal-distortion flux modulation
// aev*(1-cos(4*pi*phase)), peaking at the quadratures.
func EllipsoidalVariation(phase []float64, aev float64) []float64 {
	out := make([]float64, len(phase))
	for i, ph := range phase {
		out[i] = aev * (1 - math.Cos(4*math.Pi*ph))
	}
	return out
}

// DopplerBeaming returns the relativistic beaming modulation
// adb*sin(2*pi*phase).
func DopplerBeaming(phase []float64, adb float64) []float64 {
	out := make([]float64, len(phase))
	for i, ph := range phase {
		out[i] = adb * math.Sin(2*math.Pi*ph)
	}
	return out
}
