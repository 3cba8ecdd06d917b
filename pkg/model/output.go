package model

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/luminastro/orbitfit/pkg/orbit"
)

// WriteTable writes the assembled evaluation as a whitespace table with the
// columns time, data, error, full_mod, base, model, det_data, spl_fit and one
// orbital-phase column per planet. t0s and pers give the per-planet ephemeris
// for the phase columns.
func WriteTable(w io.Writer, ds *Dataset, out *Output, t0s, pers []float64) error {
	if len(ds.Value) == 0 || out.Detrended == nil {
		return errors.New("model: output table requires observed data")
	}
	if len(t0s) != len(pers) {
		return errors.Errorf("model: %d ephemeris epochs for %d periods", len(t0s), len(pers))
	}

	header := []string{"time", "data", "error", "full_mod", "base", "model", "det_data", "spl_fit"}
	for n := range t0s {
		header = append(header, fmt.Sprintf("phase_%d", n+1))
	}
	var sb strings.Builder
	sb.WriteString("# ")
	for i, h := range header {
		if i > 0 {
			sb.WriteByte('\t')
		}
		fmt.Fprintf(&sb, "%-14s", h)
	}
	sb.WriteByte('\n')
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return errors.Wrap(err, "unable to write table header")
	}

	phases := make([][]float64, len(t0s))
	for n := range t0s {
		phases[n] = orbit.PhaseFold(ds.Time, pers[n], t0s[n], -0.5)
	}

	for i := range ds.Time {
		row := []float64{
			ds.Time[i], ds.Value[i], ds.Err[i],
			out.Full[i], out.Baseline[i], out.Physical[i],
			out.Detrended[i], out.Spline[i],
		}
		for n := range phases {
			row = append(row, phases[n][i])
		}
		sb.Reset()
		for j, v := range row {
			if j > 0 {
				sb.WriteByte('\t')
			}
			fmt.Fprintf(&sb, "%14.8f", v)
		}
		sb.WriteByte('\n')
		if _, err := io.WriteString(w, sb.String()); err != nil {
			return errors.Wrapf(err, "unable to write table row %d", i)
		}
	}
	return nil
}

// WriteTableFile writes the evaluation table to path, creating or truncating
// the file.
func WriteTableFile(path string, ds *Dataset, out *Output, t0s, pers []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "unable to create output table %s", path)
	}
	if err := WriteTable(f, ds, out, t0s, pers); err != nil {
		f.Close()
		return err
	}
	return errors.Wrapf(f.Close(), "unable to close output table %s", path)
}
