package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/luminastro/orbitfit/pkg/baseline"
	"github.com/luminastro/orbitfit/pkg/params"
	"github.com/luminastro/orbitfit/pkg/rv"
	"github.com/luminastro/orbitfit/pkg/transit"
)

// Config represents the full model configuration: the star, its planets,
// limb darkening and phase-curve amplitudes shared by all light curves, and
// the per-dataset sections.
type Config struct {
	Star        StarConfig         `yaml:"star" mapstructure:"star"`
	Planets     []PlanetConfig     `yaml:"planets" mapstructure:"planets"`
	LimbDark    LimbDarkConfig     `yaml:"limb_darkening" mapstructure:"limb_darkening"`
	PhaseCurve  PhaseCurveConfig   `yaml:"phase_curve" mapstructure:"phase_curve"`
	LightCurves []LightCurveConfig `yaml:"lightcurves" mapstructure:"lightcurves"`
	RVs         []RVConfig         `yaml:"rvs" mapstructure:"rvs"`
	Output      OutputConfig       `yaml:"output" mapstructure:"output"`
}

// StarConfig sets the orbit scale: the stellar density when positive,
// otherwise the total transit duration of the first planet.
type StarConfig struct {
	Rho float64 `yaml:"rho" mapstructure:"rho"` // g/cm^3
	Dur float64 `yaml:"dur" mapstructure:"dur"` // days
}

// PlanetConfig contains the per-planet orbital parameters.
type PlanetConfig struct {
	Name   string  `yaml:"name" mapstructure:"name"`
	T0     float64 `yaml:"t0" mapstructure:"t0"`
	RpRs   float64 `yaml:"rprs" mapstructure:"rprs"`
	B      float64 `yaml:"b" mapstructure:"b"`
	Per    float64 `yaml:"per" mapstructure:"per"`
	Sesinw float64 `yaml:"sesinw" mapstructure:"sesinw"`
	Secosw float64 `yaml:"secosw" mapstructure:"secosw"`
	K      float64 `yaml:"k" mapstructure:"k"` // RV semi-amplitude
}

// LimbDarkConfig contains the triangular limb-darkening parameters shared by
// all light curves.
type LimbDarkConfig struct {
	Q1 float64 `yaml:"q1" mapstructure:"q1"`
	Q2 float64 `yaml:"q2" mapstructure:"q2"`
}

// PhaseCurveConfig contains the occultation depth and phase-curve amplitudes,
// all in parts per million except the hotspot offset.
type PhaseCurveConfig struct {
	Occ   float64 `yaml:"occ" mapstructure:"occ"`
	Aatm  float64 `yaml:"aatm" mapstructure:"aatm"`
	Delta float64 `yaml:"delta" mapstructure:"delta"` // degrees
	Aev   float64 `yaml:"aev" mapstructure:"aev"`
	Adb   float64 `yaml:"adb" mapstructure:"adb"`
}

// CoeffSpec declares the prior of one baseline coefficient by index.
// Kind is "fixed", "uniform" or "normal"; coefficients not listed stay at
// their nominal fixed value.
type CoeffSpec struct {
	Index int     `yaml:"index" mapstructure:"index"`
	Kind  string  `yaml:"kind" mapstructure:"kind"`
	Value float64 `yaml:"value" mapstructure:"value"`
	Lo    float64 `yaml:"lo" mapstructure:"lo"`
	Hi    float64 `yaml:"hi" mapstructure:"hi"`
	Mean  float64 `yaml:"mean" mapstructure:"mean"`
	Sigma float64 `yaml:"sigma" mapstructure:"sigma"`
}

func (c CoeffSpec) resolve() (params.Param, error) {
	switch strings.ToLower(c.Kind) {
	case "", "fixed":
		return params.Fix(c.Value), nil
	case "uniform":
		if c.Lo >= c.Hi {
			return params.Param{}, fmt.Errorf("uniform prior needs lo < hi, got [%g, %g]", c.Lo, c.Hi)
		}
		return params.Unif(c.Lo, c.Value, c.Hi), nil
	case "normal":
		if c.Sigma <= 0 {
			return params.Param{}, fmt.Errorf("normal prior needs sigma > 0, got %g", c.Sigma)
		}
		return params.Norm(c.Mean, c.Sigma), nil
	default:
		return params.Param{}, fmt.Errorf("unknown prior kind %q", c.Kind)
	}
}

// BaselineConfig lists the non-nominal baseline coefficients of a dataset.
type BaselineConfig struct {
	Coeffs []CoeffSpec `yaml:"coeffs" mapstructure:"coeffs"`
}

func (b BaselineConfig) resolve(n int, nominal []float64) ([]params.Param, error) {
	out := make([]params.Param, n)
	for i := range out {
		out[i] = params.Fix(nominal[i])
	}
	for _, spec := range b.Coeffs {
		if spec.Index < 0 || spec.Index >= n {
			return nil, fmt.Errorf("baseline coefficient index %d out of range [0, %d)", spec.Index, n)
		}
		p, err := spec.resolve()
		if err != nil {
			return nil, fmt.Errorf("baseline coefficient %d: %w", spec.Index, err)
		}
		out[spec.Index] = p
	}
	return out, nil
}

// ResolveLC resolves the light-curve baseline priors; the nominal baseline is
// a constant 1.
func (b BaselineConfig) ResolveLC() ([]params.Param, error) {
	nominal := make([]float64, baseline.NumLCCoeffs)
	nominal[0] = 1
	return b.resolve(baseline.NumLCCoeffs, nominal)
}

// ResolveRV resolves the radial-velocity baseline priors; the nominal
// baseline is zero.
func (b BaselineConfig) ResolveRV() ([]params.Param, error) {
	return b.resolve(baseline.NumRVCoeffs, make([]float64, baseline.NumRVCoeffs))
}

// SplineSpec configures the residual smoothing spline of a dataset.
type SplineSpec struct {
	Dim    int        `yaml:"dim" mapstructure:"dim"`
	Cols   [2]int     `yaml:"cols" mapstructure:"cols"`
	Knots  [2]float64 `yaml:"knots" mapstructure:"knots"`
	Degree [2]int     `yaml:"degree" mapstructure:"degree"`
	Period [2]float64 `yaml:"period" mapstructure:"period"`
}

// Resolve converts the spec into the baseline spline configuration, filling
// in the cubic default degree.
func (s *SplineSpec) Resolve() *baseline.SplineConfig {
	if s == nil {
		return nil
	}
	cfg := &baseline.SplineConfig{
		Dim:    s.Dim,
		Cols:   s.Cols,
		Knots:  s.Knots,
		Period: s.Period,
		Degree: s.Degree,
	}
	for i := range cfg.Degree {
		if cfg.Degree[i] == 0 {
			cfg.Degree[i] = 3
		}
	}
	return cfg
}

// LightCurveConfig describes one photometric dataset.
type LightCurveConfig struct {
	File          string         `yaml:"file" mapstructure:"file"`
	ExpTime       float64        `yaml:"exp_time" mapstructure:"exp_time"` // days
	Supersample   int            `yaml:"supersample" mapstructure:"supersample"`
	Contamination float64        `yaml:"contamination" mapstructure:"contamination"`
	Baseline      BaselineConfig `yaml:"baseline" mapstructure:"baseline"`
	Spline        *SplineSpec    `yaml:"spline" mapstructure:"spline"`
}

// Supersampler builds the finite-exposure supersampler, or nil when the
// dataset needs none.
func (lc LightCurveConfig) Supersampler() *transit.Supersampler {
	if lc.Supersample <= 1 || lc.ExpTime <= 0 {
		return nil
	}
	return transit.NewSupersampler(lc.ExpTime, lc.Supersample)
}

// RVConfig describes one radial-velocity dataset.
type RVConfig struct {
	File     string         `yaml:"file" mapstructure:"file"`
	Gamma    float64        `yaml:"gamma" mapstructure:"gamma"`
	Baseline BaselineConfig `yaml:"baseline" mapstructure:"baseline"`
	Spline   *SplineSpec    `yaml:"spline" mapstructure:"spline"`
}

// OutputConfig sets where evaluation tables are written.
type OutputConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// TransitModel assembles the shared physical light-curve model from the
// configuration.
func (c *Config) TransitModel() *transit.Model {
	m := &transit.Model{
		RhoStar: c.Star.Rho,
		Dur:     c.Star.Dur,
		Q1:      c.LimbDark.Q1,
		Q2:      c.LimbDark.Q2,
		Occ:     c.PhaseCurve.Occ,
		Aatm:    c.PhaseCurve.Aatm,
		Delta:   c.PhaseCurve.Delta,
		Aev:     c.PhaseCurve.Aev,
		Adb:     c.PhaseCurve.Adb,
	}
	for _, pl := range c.Planets {
		m.T0 = append(m.T0, pl.T0)
		m.RpRs = append(m.RpRs, pl.RpRs)
		m.B = append(m.B, pl.B)
		m.Per = append(m.Per, pl.Per)
		m.Sesinw = append(m.Sesinw, pl.Sesinw)
		m.Secosw = append(m.Secosw, pl.Secosw)
	}
	return m
}

// RVModel assembles the physical radial-velocity model for one dataset.
func (c *Config) RVModel(gamma float64) *rv.Model {
	m := &rv.Model{Gamma: gamma}
	for _, pl := range c.Planets {
		m.T0 = append(m.T0, pl.T0)
		m.Per = append(m.Per, pl.Per)
		m.K = append(m.K, pl.K)
		m.Sesinw = append(m.Sesinw, pl.Sesinw)
		m.Secosw = append(m.Secosw, pl.Secosw)
	}
	return m
}

// Ephemeris returns the per-planet epochs and periods for phase folding.
func (c *Config) Ephemeris() (t0s, pers []float64) {
	for _, pl := range c.Planets {
		t0s = append(t0s, pl.T0)
		pers = append(pers, pl.Per)
	}
	return t0s, pers
}

// DefaultConfig returns a single-planet configuration that evaluates out of
// the box.
func DefaultConfig() *Config {
	return &Config{
		Star: StarConfig{Rho: 1.41},
		Planets: []PlanetConfig{{
			Name: "b",
			T0:   0,
			RpRs: 0.1,
			B:    0.1,
			Per:  3.0,
			K:    10,
		}},
		LimbDark: LimbDarkConfig{Q1: 0.25, Q2: 0.3},
		Output:   OutputConfig{Dir: "out"},
	}
}

// LoadConfig loads the configuration from path; an empty path searches the
// working directory and ./configs for config.yaml. ORBITFIT_* environment
// variables override file values.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	v.SetEnvPrefix("ORBITFIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &config, nil
}

// SaveConfig writes the configuration as YAML to path, creating parent
// directories as needed.
func SaveConfig(config *Config, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func validateConfig(config *Config) error {
	if len(config.Planets) == 0 {
		return fmt.Errorf("at least one planet must be specified")
	}
	for i, pl := range config.Planets {
		if pl.Per <= 0 {
			return fmt.Errorf("planet %d: period must be positive, got %g", i+1, pl.Per)
		}
	}
	for i, lc := range config.LightCurves {
		if lc.File == "" {
			return fmt.Errorf("lightcurve %d: file cannot be empty", i+1)
		}
		if lc.Contamination < 0 {
			return fmt.Errorf("lightcurve %d: contamination cannot be negative", i+1)
		}
		if err := validateSpline(lc.Spline); err != nil {
			return fmt.Errorf("lightcurve %d: %w", i+1, err)
		}
	}
	for i, r := range config.RVs {
		if r.File == "" {
			return fmt.Errorf("rv %d: file cannot be empty", i+1)
		}
		if err := validateSpline(r.Spline); err != nil {
			return fmt.Errorf("rv %d: %w", i+1, err)
		}
	}
	return nil
}

func validateSpline(s *SplineSpec) error {
	if s == nil {
		return nil
	}
	if s.Dim != 1 && s.Dim != 2 {
		return fmt.Errorf("spline dimension must be 1 or 2, got %d", s.Dim)
	}
	return nil
}
