// Package stats implements the streaming counters, distribution estimators
// and bounded top-K selection used by the BAM statistics aggregators.
//
// The two distribution variants share one capability set (Distribution):
// IntCounter treats each integer key as a value weighted by its observed
// frequency, while Floats computes the same statistics unweighted over a
// fixed array of reals.  All statistic accessors fail with
// *EmptyDistributionError on zero observations instead of returning NaN.
package stats
