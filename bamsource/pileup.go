package bamsource

import (
	"context"
	"io"

	"github.com/grailbio/hts/bam"
	"github.com/grailbio/hts/sam"
	"github.com/pkg/errors"
	"v.io/x/lib/vlog"

	"github.com/pziarsolo/bam-crumbs/bamstats"
)

// PileupOpts configures pileup column generation.
type PileupOpts struct {
	// FlagExclude drops reads whose flags intersect it before piling.
	FlagExclude sam.Flags
}

// DefaultPileupOpts excludes the reads samtools mpileup excludes by
// default.
var DefaultPileupOpts = PileupOpts{
	FlagExclude: sam.Unmapped | sam.Secondary | sam.QCFail | sam.Duplicate,
}

// Columns opens a pass over the file's pileup columns.  The records must
// be coordinate sorted.
func (b BAM) Columns(ctx context.Context, opts PileupOpts) (bamstats.ColumnIterator, error) {
	r, closer, err := b.open(ctx)
	if err != nil {
		return nil, err
	}
	return newPileupIterator(bamRecordReader{r}, closer, opts), nil
}

// recordReader yields successive records, io.EOF at the end.  It is the
// seam that lets tests drive the pileup sweep with in-memory records.
type recordReader interface {
	Read() (*sam.Record, error)
}

type bamRecordReader struct {
	r *bam.Reader
}

func (b bamRecordReader) Read() (*sam.Record, error) { return b.r.Read() }

// activeRead is one read overlapping the sweep position.
type activeRead struct {
	end  int
	mapq byte
}

// pileupIterator sweeps coordinate-sorted records position by position,
// maintaining the set of reads overlapping the current position.  Columns
// are only emitted for covered positions; each column costs O(depth).
type pileupIterator struct {
	r      recordReader
	closer func() error
	opts   PileupOpts

	pending *sam.Record
	refID   int
	pos     int
	active  []activeRead
	quals   []byte
	nCols   int64
	err     error
	done    bool
}

func newPileupIterator(r recordReader, closer func() error, opts PileupOpts) *pileupIterator {
	return &pileupIterator{r: r, closer: closer, opts: opts, refID: -1}
}

// fill advances pending to the next pile-able record.
func (it *pileupIterator) fill() {
	for it.pending == nil && !it.done && it.err == nil {
		rec, err := it.r.Read()
		if err == io.EOF {
			it.done = true
			return
		}
		if err != nil {
			it.err = errors.Wrap(err, "bamsource: pileup read")
			return
		}
		if rec.Flags&it.opts.FlagExclude != 0 || rec.Ref == nil {
			continue
		}
		it.pending = rec
	}
}

func (it *pileupIterator) Scan() bool {
	if it.err != nil {
		return false
	}
	for {
		it.fill()
		if it.err != nil {
			return false
		}
		if len(it.active) == 0 {
			if it.pending == nil {
				vlog.VI(1).Infof("pileup: emitted %d columns", it.nCols)
				return false
			}
			it.refID = it.pending.Ref.ID()
			it.pos = it.pending.Pos
		}
		if it.pending != nil {
			id := it.pending.Ref.ID()
			if id < it.refID || (id == it.refID && it.pending.Pos < it.pos) {
				it.err = errors.Errorf("bamsource: record %s at %s:%d breaks coordinate order",
					it.pending.Name, it.pending.Ref.Name(), it.pending.Pos)
				return false
			}
		}
		// Admit every read starting at the sweep position.
		for it.pending != nil && it.pending.Ref.ID() == it.refID && it.pending.Pos == it.pos {
			it.active = append(it.active, activeRead{end: it.pending.End(), mapq: it.pending.MapQ})
			it.pending = nil
			it.fill()
			if it.err != nil {
				return false
			}
		}
		// Retire reads that end at or before the sweep position.
		live := it.active[:0]
		for _, a := range it.active {
			if a.end > it.pos {
				live = append(live, a)
			}
		}
		it.active = live
		if len(it.active) > 0 {
			it.quals = it.quals[:0]
			for _, a := range it.active {
				it.quals = append(it.quals, a.mapq)
			}
			it.pos++
			it.nCols++
			return true
		}
		if it.pending == nil {
			vlog.VI(1).Infof("pileup: emitted %d columns", it.nCols)
			return false
		}
		// A coverage gap: jump straight to the next read.  A reference
		// switch is handled at the top of the loop once active is empty.
		if it.pending.Ref.ID() == it.refID {
			it.pos = it.pending.Pos
		}
	}
}

func (it *pileupIterator) Quals() []byte { return it.quals }

func (it *pileupIterator) Err() error { return it.err }

func (it *pileupIterator) Close() error {
	if it.closer == nil {
		return nil
	}
	return it.closer()
}
