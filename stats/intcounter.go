package stats

import (
	"sort"
)

// IntCounter is a sparse frequency table over non-negative integer keys.
// The zero value is not usable; call NewIntCounter.
//
// Merge is commutative and associative, so independent partial counters
// built by concurrent workers can be reduced into a single counter after
// all workers finish.
type IntCounter struct {
	counts map[int]int64
	n      int64
}

// NewIntCounter returns an empty counter.
func NewIntCounter() *IntCounter {
	return &IntCounter{counts: make(map[int]int64)}
}

// Increment adds one occurrence of key.
func (c *IntCounter) Increment(key int) {
	c.counts[key]++
	c.n++
}

// Add adds n occurrences of key.  n must be non-negative.
func (c *IntCounter) Add(key int, n int64) {
	if n == 0 {
		return
	}
	c.counts[key] += n
	c.n += n
}

// Merge adds all of other's observations into c.  other is not modified.
func (c *IntCounter) Merge(other *IntCounter) {
	for key, n := range other.counts {
		c.counts[key] += n
	}
	c.n += other.n
}

// Count returns the total number of observations.
func (c *IntCounter) Count() int64 {
	return c.n
}

// Frequency returns the number of observations of key.  Absent keys have
// frequency zero.
func (c *IntCounter) Frequency(key int) int64 {
	return c.counts[key]
}

// Keys returns the observed keys in ascending order.
func (c *IntCounter) Keys() []int {
	keys := make([]int, 0, len(c.counts))
	for key := range c.counts {
		keys = append(keys, key)
	}
	sort.Ints(keys)
	return keys
}

// Sum returns the frequency-weighted sum of the keys.
func (c *IntCounter) Sum() (float64, error) {
	if c.n == 0 {
		return 0, &EmptyDistributionError{Stat: "sum"}
	}
	var sum float64
	for key, n := range c.counts {
		sum += float64(key) * float64(n)
	}
	return sum, nil
}

// Average returns the frequency-weighted mean of the keys.
func (c *IntCounter) Average() (float64, error) {
	sum, err := c.Sum()
	if err != nil {
		return 0, &EmptyDistributionError{Stat: "average"}
	}
	return sum / float64(c.n), nil
}

// Min returns the smallest key with nonzero frequency.
func (c *IntCounter) Min() (float64, error) {
	if c.n == 0 {
		return 0, &EmptyDistributionError{Stat: "min"}
	}
	first := true
	min := 0
	for key := range c.counts {
		if first || key < min {
			min = key
			first = false
		}
	}
	return float64(min), nil
}

// Max returns the largest key with nonzero frequency.
func (c *IntCounter) Max() (float64, error) {
	if c.n == 0 {
		return 0, &EmptyDistributionError{Stat: "max"}
	}
	first := true
	max := 0
	for key := range c.counts {
		if first || key > max {
			max = key
			first = false
		}
	}
	return float64(max), nil
}

// Median returns the key at the cumulative-frequency midpoint.  With an
// even number of observations the lower of the two middle values is
// returned.
func (c *IntCounter) Median() (float64, error) {
	if c.n == 0 {
		return 0, &EmptyDistributionError{Stat: "median"}
	}
	// 0-based rank of the lower middle observation.
	target := (c.n - 1) / 2
	var cum int64
	for _, key := range c.Keys() {
		cum += c.counts[key]
		if cum > target {
			return float64(key), nil
		}
	}
	panic("stats: cumulative frequency never reached the midpoint")
}

// Variance returns the frequency-weighted population variance of the keys.
func (c *IntCounter) Variance() (float64, error) {
	if c.n == 0 {
		return 0, &EmptyDistributionError{Stat: "variance"}
	}
	mean, _ := c.Average()
	var ss float64
	for key, n := range c.counts {
		d := float64(key) - mean
		ss += d * d * float64(n)
	}
	return ss / float64(c.n), nil
}

// Histogram returns one bin per key between the smallest and the largest
// observed key, including zero-frequency keys in between so a rendered
// histogram has no gaps.  Bin i covers the half-open interval
// [edges[i], edges[i+1]).  The bins argument is ignored; a counter's
// binning is fixed by its keys.
func (c *IntCounter) Histogram(bins int) ([]float64, []int64, error) {
	if c.n == 0 {
		return nil, nil, &EmptyDistributionError{Stat: "histogram"}
	}
	minf, _ := c.Min()
	maxf, _ := c.Max()
	min, max := int(minf), int(maxf)
	nBins := max - min + 1
	edges := make([]float64, nBins+1)
	counts := make([]int64, nBins)
	for i := 0; i <= nBins; i++ {
		edges[i] = float64(min + i)
	}
	for key, n := range c.counts {
		counts[key-min] += n
	}
	return edges, counts, nil
}
