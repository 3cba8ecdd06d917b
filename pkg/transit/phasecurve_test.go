package transit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosineAtmVariation(t *testing.T) {
	const fd, amp = 1e-4, 2e-5
	atm := CosineAtmVariation([]float64{-0.5, -0.25, 0, 0.25, 0.5}, fd, amp, 0)

	// with no hotspot offset the dayside flux is reached at occultation
	// (phase +-0.5) and the nightside minimum at transit (phase 0)
	assert.InDelta(t, fd, atm.PC[0], 1e-15)
	assert.InDelta(t, fd, atm.PC[4], 1e-15)
	assert.InDelta(t, fd-2*amp, atm.PC[2], 1e-15)
	assert.InDelta(t, fd-amp, atm.PC[1], 1e-15)

	assert.InDelta(t, fd, atm.Fmax, 1e-15)
	assert.InDelta(t, fd-2*amp, atm.Fmin, 1e-15)
	assert.InDelta(t, fd-2*amp, atm.Fnight, 1e-15)
}

func TestCosineAtmVariationHotspotOffset(t *testing.T) {
	const fd, amp = 1e-4, 2e-5
	atm := CosineAtmVariation([]float64{0.5}, fd, amp, 30)

	// an offset hotspot shifts the peak away from mid-occultation, so the
	// flux there sits below the dayside maximum
	assert.Less(t, atm.PC[0], atm.Fmax)
	assert.Greater(t, atm.PC[0], atm.Fmin)
}

func TestEllipsoidalVariation(t *testing.T) {
	const aev = 5e-5
	out := EllipsoidalVariation([]float64{0, 0.25, -0.25, 0.5}, aev)

	// vanishes at conjunctions, peaks at the quadratures
	assert.InDelta(t, 0, out[0], 1e-18)
	assert.InDelta(t, 2*aev, out[1], 1e-18)
	assert.InDelta(t, 2*aev, out[2], 1e-18)
	assert.InDelta(t, 0, out[3], 1e-15)
}

func TestDopplerBeaming(t *testing.T) {
	const adb = 3e-6
	out := DopplerBeaming([]float64{0, 0.25, -0.25}, adb)
	assert.InDelta(t, 0, out[0], 1e-18)
	assert.InDelta(t, adb, out[1], 1e-15)
	assert.InDelta(t, -adb, out[2], 1e-15)
}
