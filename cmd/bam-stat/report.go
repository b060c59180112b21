package main

import (
	"context"
	"fmt"
	"io"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/klauspost/compress/gzip"

	"github.com/pziarsolo/bam-crumbs/bamstats"
	"github.com/pziarsolo/bam-crumbs/stats"
)

func writeReports(ctx context.Context, expr *bamstats.ExprResult, flags *bamstats.FlagStats, coverage *bamstats.CoverageStats, opts runOpts) error {
	reports := []struct {
		suffix string
		body   func(io.Writer) error
	}{
		{".refstats.txt", func(w io.Writer) error { return writeRefStats(w, expr, opts.Bins) }},
		{".mapq.txt", func(w io.Writer) error { return writeFlagStats(w, flags) }},
		{".coverage.txt", func(w io.Writer) error { return writeCoverage(w, coverage) }},
		{".rpkm.tsv", func(w io.Writer) error { return writeRPKMTable(w, expr) }},
	}
	for _, report := range reports {
		path := opts.OutPrefix + report.suffix
		if err := writeReport(ctx, path, opts.Gzip, report.body); err != nil {
			return err
		}
	}
	log.Printf("reports written to %s.{refstats,mapq,coverage}.txt and %s.rpkm.tsv", opts.OutPrefix, opts.OutPrefix)
	return nil
}

func writeReport(ctx context.Context, path string, gz bool, body func(io.Writer) error) (err error) {
	if gz {
		path += ".gz"
	}
	var dst file.File
	if dst, err = file.Create(ctx, path); err != nil {
		return err
	}
	defer file.CloseAndReport(ctx, dst, &err)
	w := io.Writer(dst.Writer(ctx))
	if gz {
		zw := gzip.NewWriter(w)
		defer func() {
			if e := zw.Close(); e != nil && err == nil {
				err = e
			}
		}()
		w = zw
	}
	return body(w)
}

func writeRefStats(w io.Writer, expr *bamstats.ExprResult, bins int) error {
	fmt.Fprintf(w, "RPKMs:\n")
	summary, err := stats.Summary(expr.RPKM(), stats.DefaultLabels, bins)
	if err != nil {
		return err
	}
	fmt.Fprint(w, summary)

	fmt.Fprintf(w, "\nMost abundant references:\n")
	for _, e := range expr.Top() {
		fmt.Fprintf(w, "%s: %s\n", e.ID, stats.FormatValue(e.Score))
	}

	fmt.Fprintf(w, "\nReference lengths:\n")
	labels := stats.DefaultLabels
	labels.Variance = ""
	lines, err := stats.SummaryLines(expr.Lengths(), labels)
	if err != nil {
		return err
	}
	fmt.Fprint(w, lines)
	return nil
}

func writeFlagStats(w io.Writer, flags *bamstats.FlagStats) error {
	fmt.Fprintf(w, "Flag counts:\n")
	for _, fc := range flags.Counts() {
		fmt.Fprintf(w, "%s: %s\n", fc.Name, stats.FormatInt(fc.Count))
	}
	fmt.Fprintf(w, "\nMapqs:\n")
	summary, err := stats.Summary(flags.Mapq(), stats.DefaultLabels, 0)
	if err != nil {
		return err
	}
	fmt.Fprint(w, summary)
	return nil
}

func writeCoverage(w io.Writer, coverage *bamstats.CoverageStats) error {
	for _, t := range coverage.Thresholds() {
		counter, ok := coverage.CounterFor(t)
		if !ok {
			continue
		}
		fmt.Fprintf(w, "Coverage distribution for reads with mapq > %d:\n", t)
		summary, err := stats.Summary(counter, stats.DefaultLabels, 0)
		if err != nil {
			return err
		}
		fmt.Fprint(w, summary)
		fmt.Fprintf(w, "\n")
	}
	return nil
}

func writeRPKMTable(w io.Writer, expr *bamstats.ExprResult) error {
	tsvw := tsv.NewWriter(w)
	tsvw.WriteString("#REF")
	tsvw.WriteString("RPKM")
	if err := tsvw.EndLine(); err != nil {
		return err
	}
	for _, e := range expr.PerRef() {
		tsvw.WriteString(e.ID)
		tsvw.WriteString(stats.FormatValue(e.Score))
		if err := tsvw.EndLine(); err != nil {
			return err
		}
	}
	return tsvw.Flush()
}
