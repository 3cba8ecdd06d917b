package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luminastro/orbitfit/pkg/baseline"
)

const testConfig = `
star:
  rho: 1.41
planets:
  - name: b
    t0: 0.5
    rprs: 0.1
    b: 0.2
    per: 3.0
    k: 10.0
limb_darkening:
  q1: 0.25
  q2: 0.3
phase_curve:
  occ: 150
lightcurves:
  - file: lc1.dat
    exp_time: 0.02
    supersample: 5
    contamination: 0.1
    baseline:
      coeffs:
        - index: 1
          kind: uniform
          lo: -1
          value: 0
          hi: 1
    spline:
      dim: 1
      cols: [0, 0]
      knots: [0.25, 0]
rvs:
  - file: rv1.dat
    gamma: 12.5
    baseline:
      coeffs:
        - index: 0
          kind: normal
          mean: 0
          sigma: 5
output:
  dir: out
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.InDelta(t, 1.41, cfg.Star.Rho, 1e-12)
	require.Len(t, cfg.Planets, 1)
	assert.Equal(t, "b", cfg.Planets[0].Name)
	assert.InDelta(t, 3.0, cfg.Planets[0].Per, 1e-12)
	assert.InDelta(t, 150.0, cfg.PhaseCurve.Occ, 1e-12)

	require.Len(t, cfg.LightCurves, 1)
	lc := cfg.LightCurves[0]
	assert.Equal(t, "lc1.dat", lc.File)
	assert.InDelta(t, 0.1, lc.Contamination, 1e-12)

	ss := lc.Supersampler()
	require.NotNil(t, ss)
	assert.Equal(t, 5, ss.Factor)

	spl := lc.Spline.Resolve()
	require.NotNil(t, spl)
	assert.Equal(t, 1, spl.Dim)
	assert.Equal(t, 3, spl.Degree[0]) // cubic default

	require.Len(t, cfg.RVs, 1)
	assert.InDelta(t, 12.5, cfg.RVs[0].Gamma, 1e-12)
}

func TestConfigModels(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, testConfig))
	require.NoError(t, err)

	tm := cfg.TransitModel()
	assert.Equal(t, 1, tm.NPlanets())
	assert.InDelta(t, 0.1, tm.RpRs[0], 1e-12)
	assert.InDelta(t, 150.0, tm.Occ, 1e-12)

	rm := cfg.RVModel(cfg.RVs[0].Gamma)
	assert.Equal(t, 1, rm.NPlanets())
	assert.InDelta(t, 10.0, rm.K[0], 1e-12)
	assert.InDelta(t, 12.5, rm.Gamma, 1e-12)

	t0s, pers := cfg.Ephemeris()
	assert.Equal(t, []float64{0.5}, t0s)
	assert.Equal(t, []float64{3.0}, pers)
}

func TestResolveBaselines(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, testConfig))
	require.NoError(t, err)

	lcCoeffs, err := cfg.LightCurves[0].Baseline.ResolveLC()
	require.NoError(t, err)
	require.Len(t, lcCoeffs, baseline.NumLCCoeffs)
	assert.False(t, lcCoeffs[0].Free())
	assert.InDelta(t, 1.0, lcCoeffs[0].Value, 1e-12) // nominal offset
	assert.True(t, lcCoeffs[1].Free())

	rvCoeffs, err := cfg.RVs[0].Baseline.ResolveRV()
	require.NoError(t, err)
	require.Len(t, rvCoeffs, baseline.NumRVCoeffs)
	assert.True(t, rvCoeffs[0].Free())
	assert.Zero(t, rvCoeffs[1].Value)
}

func TestResolveBaselineErrors(t *testing.T) {
	bad := BaselineConfig{Coeffs: []CoeffSpec{{Index: 99, Kind: "fixed"}}}
	_, err := bad.ResolveLC()
	require.Error(t, err)

	bad = BaselineConfig{Coeffs: []CoeffSpec{{Index: 1, Kind: "uniform", Lo: 2, Hi: 1}}}
	_, err = bad.ResolveLC()
	require.Error(t, err)

	bad = BaselineConfig{Coeffs: []CoeffSpec{{Index: 1, Kind: "bogus"}}}
	_, err = bad.ResolveLC()
	require.Error(t, err)

	bad = BaselineConfig{Coeffs: []CoeffSpec{{Index: 1, Kind: "normal", Sigma: 0}}}
	_, err = bad.ResolveLC()
	require.Error(t, err)
}

func TestConfigValidation(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "planets: []\n"))
	require.Error(t, err)

	_, err = LoadConfig(writeConfig(t, `
planets:
  - {name: b, per: -1}
`))
	require.Error(t, err)

	_, err = LoadConfig(writeConfig(t, `
planets:
  - {name: b, per: 3}
lightcurves:
  - file: lc.dat
    spline: {dim: 4}
`))
	require.Error(t, err)
}

func TestSaveAndReloadDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	require.NoError(t, SaveConfig(DefaultConfig(), path))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Len(t, cfg.Planets, 1)
	assert.InDelta(t, 1.41, cfg.Star.Rho, 1e-12)
	assert.Equal(t, "out", cfg.Output.Dir)
}

func TestSupersamplerDisabled(t *testing.T) {
	lc := LightCurveConfig{ExpTime: 0.02, Supersample: 1}
	assert.Nil(t, lc.Supersampler())

	lc = LightCurveConfig{ExpTime: 0, Supersample: 5}
	assert.Nil(t, lc.Supersampler())
}
