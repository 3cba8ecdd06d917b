// Package dataio reads and writes the whitespace-delimited text tables used
// for photometric and radial-velocity datasets.
package dataio

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ReadColumns loads a whitespace-delimited table, skipping blank lines and
// '#' comments, and returns it column-major. Every row must have the same
// number of fields.
func ReadColumns(path string) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open table %s", path)
	}
	defer f.Close()

	var cols [][]float64
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 1024*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if cols == nil {
			cols = make([][]float64, len(fields))
		}
		if len(fields) != len(cols) {
			return nil, errors.Errorf("dataio: %s line %d has %d fields, want %d", path, line, len(fields), len(cols))
		}
		for i, fv := range fields {
			v, err := strconv.ParseFloat(fv, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "dataio: %s line %d column %d", path, line, i+1)
			}
			cols[i] = append(cols[i], v)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrapf(err, "unable to read table %s", path)
	}
	if cols == nil {
		return nil, errors.Errorf("dataio: %s contains no data rows", path)
	}
	return cols, nil
}
