package stats

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatInt(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-1234567, "-1,234,567"},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, FormatInt(test.n))
	}
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "1,000,000", FormatValue(1e6))
	assert.Equal(t, "3.14", FormatValue(3.14159))
	assert.Equal(t, "0.67", FormatValue(2.0/3.0))
	assert.Equal(t, "42", FormatValue(42))
}

func TestSummaryLines(t *testing.T) {
	c := NewIntCounter()
	c.Add(10, 2)
	c.Add(12, 2)
	out, err := Summary(c, DefaultLabels, 0)
	require.NoError(t, err)
	assert.Contains(t, out, "minimum: 10\n")
	assert.Contains(t, out, "maximum: 12\n")
	assert.Contains(t, out, "average: 11\n")
	assert.Contains(t, out, "variance: 1\n")
	assert.Contains(t, out, "sum: 44\n")
	assert.Contains(t, out, "items: 4\n")
	// One histogram row per key between min and max, gaps included.
	assert.Equal(t, 3, strings.Count(out, "["))
}

func TestSummarySuppressesUnlabeledLines(t *testing.T) {
	c := NewIntCounter()
	c.Increment(1)
	labels := Labels{Minimum: "minimum", Maximum: "maximum", Average: "average"}
	out, err := Summary(c, labels, 0)
	require.NoError(t, err)
	assert.NotContains(t, out, "variance")
	assert.NotContains(t, out, "sum")
	assert.NotContains(t, out, "items")
}

func TestSummaryEmptyDistribution(t *testing.T) {
	out, err := Summary(NewIntCounter(), DefaultLabels, 10)
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestDrawHistogram(t *testing.T) {
	out := DrawHistogram([]float64{0, 10, 20}, []int64{4, 2})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "): "+strings.Repeat("*", maxBarWidth)+" (4)")
	assert.Contains(t, lines[1], "]: "+strings.Repeat("*", maxBarWidth/2)+" (2)")
}
