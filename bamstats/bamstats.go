package bamstats

import (
	"fmt"

	"github.com/grailbio/hts/sam"
)

// Aligned is one parsed alignment event.
type Aligned struct {
	// Flags is the alignment flag bitmask.
	Flags sam.Flags
	// MapQ is the mapping quality.
	MapQ byte
	// RefID is the reference index the read aligns to, or -1 when the
	// read is unmapped.
	RefID int
	// Unmapped mirrors the unmapped flag bit.
	Unmapped bool
}

// RefRecord is one reference sequence's index statistics: its name and
// length from the header, and the number of reads mapped to it and of
// placed-but-unmapped reads associated with it.
type RefRecord struct {
	Name     string
	Length   int
	Mapped   int64
	Unmapped int64
}

// ReadIterator is a finite sequence of alignment events.  The usual loop
// is
//
//	for iter.Scan() {
//		ev := iter.Read()
//		...
//	}
//	err := iter.Err()
type ReadIterator interface {
	Scan() bool
	Read() Aligned
	Err() error
	Close() error
}

// ColumnIterator is a finite sequence of pileup columns; Quals returns the
// mapping qualities of the reads overlapping the current column.  The
// returned slice is only valid until the next Scan call.
type ColumnIterator interface {
	Scan() bool
	Quals() []byte
	Err() error
	Close() error
}

// ConsistencyError reports that multiple reference-record sources disagree
// on the reference set they describe.  Aggregation stops at the first
// mismatch with no partial result.
type ConsistencyError struct {
	// Source is the index of the disagreeing source.
	Source int
	// Index is the reference index at which the mismatch was found, or -1
	// when the sources disagree on the number of references.
	Index int
	// Field names what disagreed: "count", "name" or "length".
	Field string
	// Want and Got describe the first source's value and the disagreeing
	// source's value.
	Want, Got string
}

func (e *ConsistencyError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("bamstats: source %d reference %s mismatch: %s references, first source has %s",
			e.Source, e.Field, e.Got, e.Want)
	}
	return fmt.Sprintf("bamstats: source %d reference %d %s mismatch: %q, first source has %q",
		e.Source, e.Index, e.Field, e.Got, e.Want)
}

// DegenerateInputError reports that a required denominator is zero or
// otherwise invalid, making the requested statistic undefined.
type DegenerateInputError struct {
	// Quantity names the degenerate quantity, e.g. "total reads".
	Quantity string
	Value    float64
}

func (e *DegenerateInputError) Error() string {
	return fmt.Sprintf("bamstats: %s is %g, statistic undefined", e.Quantity, e.Value)
}
