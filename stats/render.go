package stats

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Labels configures which summary lines Summary renders and the label text
// used for each.  Variance, Sum and Items are suppressible: an empty label
// omits that line.
type Labels struct {
	Minimum  string
	Maximum  string
	Average  string
	Variance string
	Sum      string
	Items    string
}

// DefaultLabels renders every summary line with its plain name.
var DefaultLabels = Labels{
	Minimum:  "minimum",
	Maximum:  "maximum",
	Average:  "average",
	Variance: "variance",
	Sum:      "sum",
	Items:    "items",
}

// maxBarWidth is the widest histogram bar Summary draws.
const maxBarWidth = 40

// Summary renders the conventional text report for a distribution: one
// "label: value" line per statistic (integers comma-grouped, reals to two
// decimals) followed by an ASCII histogram with bins bins.  An empty
// distribution renders as the empty string.
func Summary(d Distribution, labels Labels, bins int) (string, error) {
	lines, err := SummaryLines(d, labels)
	if err != nil || lines == "" {
		return lines, err
	}
	edges, counts, err := d.Histogram(bins)
	if err != nil {
		return "", err
	}
	return lines + "\n" + DrawHistogram(edges, counts), nil
}

// SummaryLines renders just the per-statistic lines, no histogram.  A
// counter whose keys span a wide range renders an unreadable per-key
// histogram, so callers print its lines alone.
func SummaryLines(d Distribution, labels Labels) (string, error) {
	if d.Count() == 0 {
		return "", nil
	}
	var b strings.Builder
	min, err := d.Min()
	if err != nil {
		return "", err
	}
	max, err := d.Max()
	if err != nil {
		return "", err
	}
	avg, err := d.Average()
	if err != nil {
		return "", err
	}
	fmt.Fprintf(&b, "%s: %s\n", labels.Minimum, FormatValue(min))
	fmt.Fprintf(&b, "%s: %s\n", labels.Maximum, FormatValue(max))
	fmt.Fprintf(&b, "%s: %s\n", labels.Average, FormatValue(avg))
	if labels.Variance != "" {
		v, err := d.Variance()
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "%s: %s\n", labels.Variance, FormatValue(v))
	}
	if labels.Sum != "" {
		s, err := d.Sum()
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "%s: %s\n", labels.Sum, FormatValue(s))
	}
	if labels.Items != "" {
		fmt.Fprintf(&b, "%s: %s\n", labels.Items, FormatInt(d.Count()))
	}
	return b.String(), nil
}

// DrawHistogram renders bins as rows of the form
//
//	[     10.00,      20.00): ********** (42)
//
// with bar lengths scaled so the fullest bin spans maxBarWidth
// characters.  The last bin is drawn right-closed.
func DrawHistogram(edges []float64, counts []int64) string {
	if len(counts) == 0 || len(edges) != len(counts)+1 {
		return ""
	}
	var maxCount int64
	for _, n := range counts {
		if n > maxCount {
			maxCount = n
		}
	}
	boundWidth := 0
	bounds := make([]string, len(edges))
	for i, e := range edges {
		bounds[i] = FormatValue(e)
		if len(bounds[i]) > boundWidth {
			boundWidth = len(bounds[i])
		}
	}
	var b strings.Builder
	for i, n := range counts {
		closing := ")"
		if i == len(counts)-1 {
			closing = "]"
		}
		bar := 0
		if maxCount > 0 {
			bar = int(n * maxBarWidth / maxCount)
		}
		fmt.Fprintf(&b, "[%*s, %*s%s: %s (%d)\n",
			boundWidth, bounds[i], boundWidth, bounds[i+1], closing,
			strings.Repeat("*", bar), n)
	}
	return b.String()
}

// FormatValue renders an integral value comma-grouped and any other value
// with two decimals.
func FormatValue(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return FormatInt(int64(v))
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatInt renders n with comma-grouped thousands.
func FormatInt(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var groups []string
	for len(s) > 3 {
		groups = append([]string{s[len(s)-3:]}, groups...)
		s = s[:len(s)-3]
	}
	groups = append([]string{s}, groups...)
	out := strings.Join(groups, ",")
	if neg {
		out = "-" + out
	}
	return out
}
