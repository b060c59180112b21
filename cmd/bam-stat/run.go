package main

import (
	"context"

	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"

	"github.com/pziarsolo/bam-crumbs/bamsource"
	"github.com/pziarsolo/bam-crumbs/bamstats"
)

type runOpts struct {
	OutPrefix   string
	TopK        int
	Bins        int
	Thresholds  []int
	Gzip        bool
	Parallelism int
}

// filePartial is one BAM's contribution, accumulated by a private worker
// and merged after every worker finishes.
type filePartial struct {
	refRecords []bamstats.RefRecord
	flags      *bamstats.FlagStats
	coverage   *bamstats.CoverageStats
}

func aggregateFile(ctx context.Context, path string, opts runOpts) (p filePartial, err error) {
	src := bamsource.BAM{Path: path, DecompressShards: opts.Parallelism}

	if p.refRecords, err = src.RefRecords(ctx); err != nil {
		return p, err
	}

	reads, err := src.Reads(ctx)
	if err != nil {
		return p, err
	}
	if p.flags, err = bamstats.CollectFlagStats(reads); err != nil {
		return p, err
	}

	cols, err := src.Columns(ctx, bamsource.DefaultPileupOpts)
	if err != nil {
		return p, err
	}
	if p.coverage, err = bamstats.CollectCoverage(cols, opts.Thresholds); err != nil {
		return p, err
	}
	log.Debug.Printf("aggregated %s: %d references", path, len(p.refRecords))
	return p, nil
}

func run(ctx context.Context, paths []string, opts runOpts) error {
	partials := make([]filePartial, len(paths))
	err := traverse.Each(len(paths), func(i int) error {
		p, err := aggregateFile(ctx, paths[i], opts)
		if err != nil {
			return err
		}
		partials[i] = p
		return nil
	})
	if err != nil {
		return err
	}

	sources := make([][]bamstats.RefRecord, len(partials))
	flags := bamstats.NewFlagStats()
	coverage, err := bamstats.NewCoverageStats(opts.Thresholds)
	if err != nil {
		return err
	}
	for i, p := range partials {
		sources[i] = p.refRecords
		flags.Merge(p.flags)
		if err := coverage.Merge(p.coverage); err != nil {
			return err
		}
	}

	expr, err := bamstats.ReferenceExpression(sources, bamstats.ExprOpts{TopK: opts.TopK})
	if err != nil {
		return err
	}
	return writeReports(ctx, expr, flags, coverage, opts)
}
