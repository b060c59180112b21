package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopKKeepsHighestScores(t *testing.T) {
	tk := NewTopK(2)
	tk.Consider("a", 1)
	tk.Consider("b", 5)
	tk.Consider("c", 3)
	tk.Consider("d", 4)
	assert.Equal(t, []RankedEntry{{"b", 5}, {"d", 4}}, tk.Finalize())
}

func TestTopKSingleCapacity(t *testing.T) {
	// The RPKM worked example: with K=1 only the most abundant reference
	// survives.
	tk := NewTopK(1)
	tk.Consider("A", 500000)
	tk.Consider("B", 1000000)
	assert.Equal(t, []RankedEntry{{"B", 1000000}}, tk.Finalize())
}

func TestTopKRejectsTiesWithMinimum(t *testing.T) {
	tk := NewTopK(2)
	tk.Consider("first", 3)
	tk.Consider("top", 9)
	// Equal to the current minimum: rejected, first-seen wins.
	tk.Consider("late", 3)
	assert.Equal(t, []RankedEntry{{"top", 9}, {"first", 3}}, tk.Finalize())
}

func TestTopKFinalizeOrdersTiesByID(t *testing.T) {
	tk := NewTopK(3)
	tk.Consider("b", 7)
	tk.Consider("a", 7)
	tk.Consider("c", 7)
	assert.Equal(t, []RankedEntry{{"a", 7}, {"b", 7}, {"c", 7}}, tk.Finalize())
}

func TestTopKInvalidCapacity(t *testing.T) {
	assert.Panics(t, func() { NewTopK(0) })
}

func TestTopKMergeMatchesSinglePass(t *testing.T) {
	stream := []RankedEntry{
		{"a", 10}, {"b", 3}, {"c", 17}, {"d", 3}, {"e", 25},
		{"f", 17}, {"g", 1}, {"h", 12}, {"i", 25}, {"j", 8},
	}
	for _, k := range []int{1, 3, 5, 10} {
		single := NewTopK(k)
		for _, e := range stream {
			single.Consider(e.ID, e.Score)
		}
		for split := 0; split <= len(stream); split++ {
			left, right := NewTopK(k), NewTopK(k)
			for _, e := range stream[:split] {
				left.Consider(e.ID, e.Score)
			}
			for _, e := range stream[split:] {
				right.Consider(e.ID, e.Score)
			}
			left.Merge(right)
			got := left.Finalize()
			want := single.Finalize()
			require.Len(t, got, len(want), "k=%d split=%d", k, split)
			for i := range want {
				assert.Equal(t, want[i].Score, got[i].Score, "k=%d split=%d entry %d", k, split, i)
			}
		}
	}
}
