package stats

import "fmt"

// EmptyDistributionError is returned when a statistic is requested on a
// distribution with zero observations.
type EmptyDistributionError struct {
	// Stat is the name of the statistic that was requested.
	Stat string
}

func (e *EmptyDistributionError) Error() string {
	return fmt.Sprintf("stats: %s requested on an empty distribution", e.Stat)
}

// InvalidRangeError is returned when a histogram range is malformed, i.e.
// when Max <= Min, or when a non-positive bin count is requested.
type InvalidRangeError struct {
	Min  float64
	Max  float64
	Bins int
}

func (e *InvalidRangeError) Error() string {
	if e.Bins < 1 {
		return fmt.Sprintf("stats: invalid histogram bin count %d", e.Bins)
	}
	return fmt.Sprintf("stats: invalid histogram range [%g, %g]: max must exceed min", e.Min, e.Max)
}
