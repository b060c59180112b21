package bamstats

import (
	"errors"
	"fmt"
	"sort"

	"github.com/pziarsolo/bam-crumbs/stats"
)

// CoverageStats computes one depth-of-coverage histogram per configured
// mapping-quality threshold.  For every pileup column and every threshold
// t, the number of contributing reads with quality strictly greater than t
// is counted and recorded as one observation in t's counter.
//
// Each column costs O(reads + 256): qualities are bucketed once and the
// per-threshold counts are read off a suffix-sum over the 8-bit quality
// range, not recounted per threshold.
type CoverageStats struct {
	thresholds []int // ascending, deduplicated
	counters   map[int]*stats.IntCounter
}

// NewCoverageStats returns an aggregator for the given quality thresholds.
// The set is deduplicated; it must not be empty.
func NewCoverageStats(thresholds []int) (*CoverageStats, error) {
	if len(thresholds) == 0 {
		return nil, errors.New("bamstats: coverage needs at least one quality threshold")
	}
	s := &CoverageStats{counters: make(map[int]*stats.IntCounter)}
	for _, t := range thresholds {
		if _, ok := s.counters[t]; ok {
			continue
		}
		s.counters[t] = stats.NewIntCounter()
		s.thresholds = append(s.thresholds, t)
	}
	sort.Ints(s.thresholds)
	return s, nil
}

// Thresholds returns the configured thresholds in ascending order.
// Callers must not modify the returned slice.
func (s *CoverageStats) Thresholds() []int {
	return s.thresholds
}

// AddColumn consumes one pileup column given the mapping qualities of the
// reads overlapping it.
func (s *CoverageStats) AddColumn(quals []byte) {
	var buckets [256]int64
	for _, q := range quals {
		buckets[q]++
	}
	// suffix[q] counts qualities >= q; quality > t is then suffix[t+1].
	var suffix [257]int64
	for q := 255; q >= 0; q-- {
		suffix[q] = suffix[q+1] + buckets[q]
	}
	for _, t := range s.thresholds {
		var depth int64
		switch {
		case t < 0:
			depth = int64(len(quals))
		case t > 255:
			depth = 0
		default:
			depth = suffix[t+1]
		}
		s.counters[t].Increment(int(depth))
	}
}

// CounterFor returns the depth counter for threshold t, or (nil, false) if
// t is not configured.
func (s *CoverageStats) CounterFor(t int) (*stats.IntCounter, bool) {
	c, ok := s.counters[t]
	return c, ok
}

// Merge adds other's observations into s.  The two aggregators must be
// configured with the same threshold set.
func (s *CoverageStats) Merge(other *CoverageStats) error {
	if len(s.thresholds) != len(other.thresholds) {
		return fmt.Errorf("bamstats: cannot merge coverage over thresholds %v with %v", s.thresholds, other.thresholds)
	}
	for i, t := range s.thresholds {
		if other.thresholds[i] != t {
			return fmt.Errorf("bamstats: cannot merge coverage over thresholds %v with %v", s.thresholds, other.thresholds)
		}
	}
	for t, c := range other.counters {
		s.counters[t].Merge(c)
	}
	return nil
}

// CollectCoverage drains iter into a fresh CoverageStats configured with
// thresholds.
func CollectCoverage(iter ColumnIterator, thresholds []int) (*CoverageStats, error) {
	s, err := NewCoverageStats(thresholds)
	if err != nil {
		return nil, err
	}
	for iter.Scan() {
		s.AddColumn(iter.Quals())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return s, nil
}
