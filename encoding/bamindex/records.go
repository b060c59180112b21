package bamindex

import (
	"fmt"

	"github.com/grailbio/hts/sam"

	"github.com/pziarsolo/bam-crumbs/bamstats"
)

// RefRecords combines a BAM header's reference list with the read counts
// from its index into the per-reference records the expression aggregator
// consumes.  References the index carries no statistics for get zero
// counts.
func RefRecords(refs []*sam.Reference, idx *Index) ([]bamstats.RefRecord, error) {
	if len(refs) != len(idx.Refs) {
		return nil, fmt.Errorf("bamindex: header has %d references, index has %d", len(refs), len(idx.Refs))
	}
	records := make([]bamstats.RefRecord, len(refs))
	for i, ref := range refs {
		records[i] = bamstats.RefRecord{
			Name:   ref.Name(),
			Length: ref.Len(),
		}
		if stats := idx.Refs[i].Stats; stats != nil {
			records[i].Mapped = int64(stats.Mapped)
			records[i].Unmapped = int64(stats.Unmapped)
		}
	}
	return records, nil
}
