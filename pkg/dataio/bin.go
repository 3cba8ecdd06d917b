package dataio

import (
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// BinData averages the series y into contiguous time bins of the given width,
// returning the mean abscissa and mean value per non-empty bin. The input
// does not need to be sorted. Diagnostics only; the model never bins.
func BinData(t, y []float64, width float64) (bt, by []float64, err error) {
	if len(t) != len(y) {
		return nil, nil, errors.Errorf("dataio: bin length mismatch: %d vs %d", len(t), len(y))
	}
	if len(t) == 0 {
		return nil, nil, errors.New("dataio: nothing to bin")
	}
	if width <= 0 {
		return nil, nil, errors.Errorf("dataio: bin width must be positive, got %g", width)
	}

	ts := make([]float64, len(t))
	ys := make([]float64, len(y))
	copy(ts, t)
	copy(ys, y)
	sort.Sort(byCol{ts, ys})

	start := ts[0]
	lo := 0
	for i := 1; i <= len(ts); i++ {
		if i < len(ts) && ts[i] < start+width {
			continue
		}
		bt = append(bt, stat.Mean(ts[lo:i], nil))
		by = append(by, stat.Mean(ys[lo:i], nil))
		if i < len(ts) {
			lo = i
			// skip empty bins by re-anchoring on the next sample
			start += width * float64(int((ts[i]-start)/width))
		}
	}
	return bt, by, nil
}

// byCol sorts parallel slices by the first column.
type byCol struct{ t, y []float64 }

func (s byCol) Len() int           { return len(s.t) }
func (s byCol) Less(i, j int) bool { return s.t[i] < s.t[j] }
func (s byCol) Swap(i, j int) {
	s.t[i], s.t[j] = s.t[j], s.t[i]
	s.y[i], s.y[j] = s.y[j], s.y[i]
}
