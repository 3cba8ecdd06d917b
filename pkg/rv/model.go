// Package rv computes the stellar radial-velocity curve induced by one or
// more planets on Keplerian orbits.
package rv

import (
	"fmt"
	"math"

	"github.com/pkg/errors"

	"github.com/luminastro/orbitfit/pkg/orbit"
)

// ErrPlanetMismatch is returned when per-planet parameter slices differ in
// length.
var ErrPlanetMismatch = errors.New("rv: per-planet parameter slices must have equal length")

// Model holds the per-planet radial-velocity parameters plus the systemic
// velocity Gamma, in the same unit as K.
type Model struct {
	T0     []float64 // mid-transit time per planet, days
	Per    []float64 // orbital period per planet, days
	K      []float64 // RV semi-amplitude per planet
	Sesinw []float64 // sqrt(e)*sin(w) per planet
	Secosw []float64 // sqrt(e)*cos(w) per planet
	Gamma  float64   // systemic velocity
}

// NPlanets returns the number of planets described by the model.
func (m *Model) NPlanets() int { return len(m.T0) }

// Eval returns the radial velocity at the timestamps t (systemic velocity
// included) and the per-planet components keyed "pl_1", "pl_2", ...
// (systemic velocity excluded).
func (m *Model) Eval(t []float64) ([]float64, map[string][]float64, error) {
	npl := m.NPlanets()
	if len(m.Per) != npl || len(m.K) != npl || len(m.Sesinw) != npl || len(m.Secosw) != npl {
		return nil, nil, ErrPlanetMismatch
	}

	total := make([]float64, len(t))
	components := make(map[string][]float64, npl)

	for n := 0; n < npl; n++ {
		ecc, ome := orbit.EccOmega(m.Sesinw[n], m.Secosw[n])

		_, ta, err := orbit.Anomalies(t, m.T0[n], m.Per[n], ecc, ome)
		if err != nil {
			return nil, nil, err
		}

		comp := make([]float64, len(t))
		for i := range t {
			comp[i] = m.K[n] * (math.Cos(ta[i]+ome) + ecc*math.Sin(ome))
		}
		components[fmt.Sprintf("pl_%d", n+1)] = comp
		for i := range total {
			total[i] += comp[i]
		}
	}

	for i := range total {
		total[i] += m.Gamma
	}
	return total, components, nil
}
