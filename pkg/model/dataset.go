// Package model assembles the full per-dataset forward model: the physical
// light-curve or radial-velocity model combined with the re-fitted parametric
// baseline and optional smoothing spline.
package model

import (
	"github.com/pkg/errors"

	"github.com/luminastro/orbitfit/pkg/dataio"
)

// ErrDatasetShape is returned when dataset columns differ in length.
var ErrDatasetShape = errors.New("model: dataset columns must have equal length")

// Dataset is one observed time series. Aux holds the auxiliary columns
// (airmass, detector position, ...) in file order; they feed the parametric
// and spline baselines. Value and Err may be empty for a model-only
// evaluation, in which case no baseline coefficients are re-fitted.
type Dataset struct {
	Time  []float64
	Value []float64
	Err   []float64
	Aux   [][]float64
}

// Load reads a dataset table: column 0 is time, 1 the observable, 2 its
// uncertainty, and any further columns are auxiliary.
func Load(path string) (*Dataset, error) {
	cols, err := dataio.ReadColumns(path)
	if err != nil {
		return nil, err
	}
	if len(cols) < 3 {
		return nil, errors.Errorf("model: %s has %d columns, want at least 3", path, len(cols))
	}
	return &Dataset{
		Time:  cols[0],
		Value: cols[1],
		Err:   cols[2],
		Aux:   cols[3:],
	}, nil
}

func (d *Dataset) validate() error {
	n := len(d.Time)
	if n == 0 {
		return errors.Wrap(ErrDatasetShape, "empty time column")
	}
	if len(d.Value) > 0 && (len(d.Value) != n || len(d.Err) != n) {
		return errors.Wrapf(ErrDatasetShape, "time %d, value %d, err %d", n, len(d.Value), len(d.Err))
	}
	for i, col := range d.Aux {
		if len(col) != n {
			return errors.Wrapf(ErrDatasetShape, "aux column %d has %d rows, want %d", i, len(col), n)
		}
	}
	return nil
}

// auxColumn returns the auxiliary column at index i, or an error when it does
// not exist.
func (d *Dataset) auxColumn(i int) ([]float64, error) {
	if i < 0 || i >= len(d.Aux) {
		return nil, errors.Errorf("model: auxiliary column %d out of range (have %d)", i, len(d.Aux))
	}
	return d.Aux[i], nil
}
