/*
bam-stat summarizes one or more BAM files: per-reference expression levels
(RPKM) with the most abundant references, alignment-flag and
mapping-quality distributions, and depth-of-coverage histograms at a set
of mapping-quality thresholds.

Reference read counts come from the .bai indexes, so RPKM computation does
not scan the alignments.  When several BAMs are given they must be aligned
against the same reference set; their counts are aggregated as if the
reads came from one run.

Sample usage:

	bam-stat \
	    -out sample1 \
	    -cov-thresholds 0,20,30 \
	    sample1_lane1.bam sample1_lane2.bam
*/
package main
