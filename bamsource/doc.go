// Package bamsource feeds the bamstats aggregators from BAM files: it
// iterates alignment events, derives reference-index records from a BAM
// header and its .bai index, and generates pileup columns by a sweep over
// coordinate-sorted records.
package bamsource
