package stats

import (
	"container/heap"
	"fmt"
	"sort"
)

// RankedEntry is one (identifier, score) pair held by a TopK selector.
type RankedEntry struct {
	ID    string
	Score float64
}

// TopK maintains the K highest-scoring entries seen so far over a stream
// of (identifier, score) pairs, using a bounded min-heap so each
// consideration costs O(log K).
//
// Tie handling is deterministic: a candidate whose score equals the
// current minimum is rejected (first-seen wins), and when several held
// entries share the minimum score the one with the lexicographically
// largest identifier is evicted first.  Finalize orders by descending
// score, then ascending identifier.
type TopK struct {
	k int
	h rankedHeap
}

// NewTopK returns a selector with capacity k.  k must be at least 1.
func NewTopK(k int) *TopK {
	if k < 1 {
		panic(fmt.Sprintf("stats: top-K capacity must be at least 1, got %d", k))
	}
	return &TopK{k: k, h: make(rankedHeap, 0, k)}
}

// K returns the selector's capacity.
func (t *TopK) K() int {
	return t.k
}

// Consider offers one entry to the selector.
func (t *TopK) Consider(id string, score float64) {
	if len(t.h) < t.k {
		heap.Push(&t.h, RankedEntry{ID: id, Score: score})
		return
	}
	if score > t.h[0].Score {
		t.h[0] = RankedEntry{ID: id, Score: score}
		heap.Fix(&t.h, 0)
	}
}

// Merge re-offers all of other's entries to t, in other's finalize order so
// the outcome does not depend on how the input stream was partitioned
// across workers.  other is not modified.
func (t *TopK) Merge(other *TopK) {
	for _, e := range other.Finalize() {
		t.Consider(e.ID, e.Score)
	}
}

// Finalize returns the held entries sorted by descending score, ties
// broken by ascending identifier.  The selector remains usable.
func (t *TopK) Finalize() []RankedEntry {
	out := make([]RankedEntry, len(t.h))
	copy(out, t.h)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// rankedHeap is a min-heap by score; among equal scores the entry with the
// largest identifier is at the root so it is evicted first.
type rankedHeap []RankedEntry

func (h rankedHeap) Len() int { return len(h) }

func (h rankedHeap) Less(i, j int) bool {
	if h[i].Score != h[j].Score {
		return h[i].Score < h[j].Score
	}
	return h[i].ID > h[j].ID
}

func (h rankedHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *rankedHeap) Push(x interface{}) {
	*h = append(*h, x.(RankedEntry))
}

func (h *rankedHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
