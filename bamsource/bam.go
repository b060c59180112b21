package bamsource

import (
	"context"
	"io"

	"github.com/grailbio/base/file"
	"github.com/grailbio/hts/bam"
	"github.com/grailbio/hts/sam"
	"github.com/pkg/errors"

	"github.com/pziarsolo/bam-crumbs/bamstats"
	"github.com/pziarsolo/bam-crumbs/encoding/bamindex"
)

// BAM points at one alignment file.  Every Reads or Columns call opens a
// fresh pass over the file, so a BAM can drive several aggregations.
type BAM struct {
	// Path is the BAM file path.
	Path string
	// IndexPath is the .bai path.  Defaults to Path + ".bai".
	IndexPath string
	// DecompressShards is the bgzf decompression parallelism handed to the
	// BAM reader.  Defaults to 1.
	DecompressShards int
}

func (b BAM) indexPath() string {
	if b.IndexPath != "" {
		return b.IndexPath
	}
	return b.Path + ".bai"
}

func (b BAM) shards() int {
	if b.DecompressShards > 0 {
		return b.DecompressShards
	}
	return 1
}

// open returns a BAM reader and a closer releasing both the reader and
// the underlying file.
func (b BAM) open(ctx context.Context) (*bam.Reader, func() error, error) {
	in, err := file.Open(ctx, b.Path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "bamsource: open %s", b.Path)
	}
	r, err := bam.NewReader(in.Reader(ctx), b.shards())
	if err != nil {
		_ = in.Close(ctx)
		return nil, nil, errors.Wrapf(err, "bamsource: read BAM header of %s", b.Path)
	}
	closer := func() error {
		err := r.Close()
		if cerr := in.Close(ctx); err == nil {
			err = cerr
		}
		return err
	}
	return r, closer, nil
}

// Header reads just the BAM header.
func (b BAM) Header(ctx context.Context) (*sam.Header, error) {
	r, closer, err := b.open(ctx)
	if err != nil {
		return nil, err
	}
	header := r.Header()
	if err := closer(); err != nil {
		return nil, errors.Wrapf(err, "bamsource: close %s", b.Path)
	}
	return header, nil
}

// RefRecords combines the BAM header with the .bai metadata counts into
// per-reference index records.
func (b BAM) RefRecords(ctx context.Context) ([]bamstats.RefRecord, error) {
	header, err := b.Header(ctx)
	if err != nil {
		return nil, err
	}
	in, err := file.Open(ctx, b.indexPath())
	if err != nil {
		return nil, errors.Wrapf(err, "bamsource: open index %s", b.indexPath())
	}
	idx, err := bamindex.Read(in.Reader(ctx))
	if cerr := in.Close(ctx); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, errors.Wrapf(err, "bamsource: read index %s", b.indexPath())
	}
	return bamindex.RefRecords(header.Refs(), idx)
}

// Reads opens a pass over the file's alignment events.
func (b BAM) Reads(ctx context.Context) (bamstats.ReadIterator, error) {
	r, closer, err := b.open(ctx)
	if err != nil {
		return nil, err
	}
	return &readIterator{path: b.Path, r: r, closer: closer}, nil
}

type readIterator struct {
	path   string
	r      *bam.Reader
	closer func() error
	ev     bamstats.Aligned
	err    error
	done   bool
}

func (it *readIterator) Scan() bool {
	if it.done || it.err != nil {
		return false
	}
	rec, err := it.r.Read()
	if err == io.EOF {
		it.done = true
		return false
	}
	if err != nil {
		it.err = errors.Wrapf(err, "bamsource: read %s", it.path)
		return false
	}
	refID := -1
	if rec.Ref != nil {
		refID = rec.Ref.ID()
	}
	it.ev = bamstats.Aligned{
		Flags:    rec.Flags,
		MapQ:     rec.MapQ,
		RefID:    refID,
		Unmapped: rec.Flags&sam.Unmapped != 0,
	}
	sam.PutInFreePool(rec)
	return true
}

func (it *readIterator) Read() bamstats.Aligned { return it.ev }

func (it *readIterator) Err() error { return it.err }

func (it *readIterator) Close() error { return it.closer() }
