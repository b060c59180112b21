package stats

import (
	"sort"
)

// Distribution is the capability set shared by the two distribution
// variants: the discrete frequency-weighted IntCounter and the continuous
// unweighted Floats.
type Distribution interface {
	Count() int64
	Min() (float64, error)
	Max() (float64, error)
	Average() (float64, error)
	Median() (float64, error)
	Variance() (float64, error)
	Sum() (float64, error)
	// Histogram returns ordered bin edges (len(counts)+1 of them) and
	// per-bin counts.
	Histogram(bins int) ([]float64, []int64, error)
}

var (
	_ Distribution = (*IntCounter)(nil)
	_ Distribution = (*Floats)(nil)
)

// Floats holds a fixed array of real values (e.g. one RPKM per reference)
// and computes unweighted statistics over it.  The values are copied at
// construction and never mutated afterward.
type Floats struct {
	values []float64
	sorted []float64 // lazily built by Median
}

// NewFloats returns a distribution over a copy of values.
func NewFloats(values []float64) *Floats {
	v := make([]float64, len(values))
	copy(v, values)
	return &Floats{values: v}
}

// Values returns the underlying array.  Callers must not modify it.
func (f *Floats) Values() []float64 {
	return f.values
}

// Count returns the number of values.
func (f *Floats) Count() int64 {
	return int64(len(f.values))
}

// Sum returns the sum of the values.
func (f *Floats) Sum() (float64, error) {
	if len(f.values) == 0 {
		return 0, &EmptyDistributionError{Stat: "sum"}
	}
	var sum float64
	for _, v := range f.values {
		sum += v
	}
	return sum, nil
}

// Average returns the arithmetic mean.
func (f *Floats) Average() (float64, error) {
	sum, err := f.Sum()
	if err != nil {
		return 0, &EmptyDistributionError{Stat: "average"}
	}
	return sum / float64(len(f.values)), nil
}

// Min returns the smallest value.
func (f *Floats) Min() (float64, error) {
	if len(f.values) == 0 {
		return 0, &EmptyDistributionError{Stat: "min"}
	}
	min := f.values[0]
	for _, v := range f.values[1:] {
		if v < min {
			min = v
		}
	}
	return min, nil
}

// Max returns the largest value.
func (f *Floats) Max() (float64, error) {
	if len(f.values) == 0 {
		return 0, &EmptyDistributionError{Stat: "max"}
	}
	max := f.values[0]
	for _, v := range f.values[1:] {
		if v > max {
			max = v
		}
	}
	return max, nil
}

// Median returns the middle value, the lower of the two middle values when
// the count is even.
func (f *Floats) Median() (float64, error) {
	if len(f.values) == 0 {
		return 0, &EmptyDistributionError{Stat: "median"}
	}
	if f.sorted == nil {
		f.sorted = make([]float64, len(f.values))
		copy(f.sorted, f.values)
		sort.Float64s(f.sorted)
	}
	return f.sorted[(len(f.sorted)-1)/2], nil
}

// Variance returns the population variance.
func (f *Floats) Variance() (float64, error) {
	if len(f.values) == 0 {
		return 0, &EmptyDistributionError{Stat: "variance"}
	}
	mean, _ := f.Average()
	var ss float64
	for _, v := range f.values {
		d := v - mean
		ss += d * d
	}
	return ss / float64(len(f.values)), nil
}

// Histogram partitions the data range into bins equal-width intervals and
// counts membership.  Every bin is half-open on the right except the last,
// which is closed so the data maximum lands in it.
func (f *Floats) Histogram(bins int) ([]float64, []int64, error) {
	return f.HistogramRange(bins, nil, nil)
}

// HistogramRange is Histogram with explicit range bounds.  A nil bound
// defaults to the corresponding data extreme.  It fails with
// *InvalidRangeError when max <= min (a degenerate all-equal data range is
// widened by half a unit on each side instead, so implicit bounds never
// fail on nonempty data).
func (f *Floats) HistogramRange(bins int, rangeMin, rangeMax *float64) ([]float64, []int64, error) {
	if len(f.values) == 0 {
		return nil, nil, &EmptyDistributionError{Stat: "histogram"}
	}
	if bins < 1 {
		return nil, nil, &InvalidRangeError{Bins: bins}
	}
	lo, _ := f.Min()
	hi, _ := f.Max()
	implicit := rangeMin == nil && rangeMax == nil
	if rangeMin != nil {
		lo = *rangeMin
	}
	if rangeMax != nil {
		hi = *rangeMax
	}
	if hi <= lo {
		if !implicit || hi < lo {
			return nil, nil, &InvalidRangeError{Min: lo, Max: hi, Bins: bins}
		}
		lo -= 0.5
		hi += 0.5
	}
	width := (hi - lo) / float64(bins)
	edges := make([]float64, bins+1)
	for i := 0; i < bins; i++ {
		edges[i] = lo + float64(i)*width
	}
	edges[bins] = hi
	counts := make([]int64, bins)
	for _, v := range f.values {
		if v < lo || v > hi {
			continue
		}
		i := int((v - lo) / width)
		if i >= bins {
			// The maximum belongs to the last (right-closed) bin.
			i = bins - 1
		}
		counts[i]++
	}
	return edges, counts, nil
}
