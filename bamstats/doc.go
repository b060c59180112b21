// Package bamstats aggregates parsed alignment events into summary
// statistics: per-reference expression levels (RPKM), alignment-flag and
// mapping-quality distributions, and per-quality-threshold
// depth-of-coverage histograms.
//
// The package performs no I/O.  Events are supplied through the
// ReadIterator, ColumnIterator and reference-record inputs declared here;
// package bamsource and package bamindex provide implementations backed by
// real BAM files and .bai indexes.  Each aggregator owns its working
// counters exclusively while accumulating, and every accumulator type has
// a Merge method so independent partial aggregations can run concurrently
// and be reduced afterward.
package bamstats
