package bamstats

import (
	"math/bits"

	"github.com/grailbio/hts/sam"

	"github.com/pziarsolo/bam-crumbs/stats"
)

// nFlagCategories is the number of canonical alignment-flag bits.
const nFlagCategories = 12

// canonicalFlagMask covers the 12 canonical flag bits.
const canonicalFlagMask = sam.Flags(1<<nFlagCategories - 1)

// flagNames maps bit position to the conventional category name.
var flagNames = [nFlagCategories]string{
	"read paired",
	"proper pair",
	"unmapped",
	"mate unmapped",
	"reverse strand",
	"mate reverse strand",
	"first in pair",
	"second in pair",
	"secondary alignment",
	"failed QC",
	"duplicate",
	"supplementary",
}

// FlagName returns the category name for a single canonical flag bit, or
// "" for anything else.
func FlagName(flag sam.Flags) string {
	if flag&canonicalFlagMask == 0 || flag&(flag-1) != 0 {
		return ""
	}
	return flagNames[bits.TrailingZeros16(uint16(flag))]
}

// FlagCount is one named flag category and the number of events that had
// its bit set.
type FlagCount struct {
	Flag  sam.Flags
	Name  string
	Count int64
}

// FlagStats decomposes alignment flag bitmasks into per-category counts
// and collects the mapping-quality distribution of mapped reads.
type FlagStats struct {
	categories [nFlagCategories]int64
	mapq       *stats.IntCounter
}

// NewFlagStats returns an empty FlagStats.
func NewFlagStats() *FlagStats {
	return &FlagStats{mapq: stats.NewIntCounter()}
}

// Record consumes one alignment event.  Every canonical bit set in the
// event's flags increments its category; the mapq distribution only
// observes mapped reads.
func (s *FlagStats) Record(ev Aligned) {
	for f := ev.Flags & canonicalFlagMask; f != 0; f &= f - 1 {
		s.categories[bits.TrailingZeros16(uint16(f))]++
	}
	if !ev.Unmapped {
		s.mapq.Increment(int(ev.MapQ))
	}
}

// Merge adds other's counts into s.  other is not modified.
func (s *FlagStats) Merge(other *FlagStats) {
	for i, n := range other.categories {
		s.categories[i] += n
	}
	s.mapq.Merge(other.mapq)
}

// Count returns the number of events that had the given canonical flag
// bit set.  flag must be a single canonical bit.
func (s *FlagStats) Count(flag sam.Flags) int64 {
	if flag&canonicalFlagMask == 0 || flag&(flag-1) != 0 {
		return 0
	}
	return s.categories[bits.TrailingZeros16(uint16(flag))]
}

// Counts returns all categories in bit order.
func (s *FlagStats) Counts() []FlagCount {
	out := make([]FlagCount, nFlagCategories)
	for i, n := range s.categories {
		out[i] = FlagCount{Flag: 1 << uint(i), Name: flagNames[i], Count: n}
	}
	return out
}

// Mapq returns the mapping-quality distribution of the mapped reads seen
// so far.
func (s *FlagStats) Mapq() *stats.IntCounter {
	return s.mapq
}

// CollectFlagStats drains iter into a fresh FlagStats.
func CollectFlagStats(iter ReadIterator) (*FlagStats, error) {
	s := NewFlagStats()
	for iter.Scan() {
		s.Record(iter.Read())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return s, nil
}
