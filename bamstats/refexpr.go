package bamstats

import (
	"strconv"

	"github.com/grailbio/base/traverse"

	"github.com/pziarsolo/bam-crumbs/stats"
)

// ExprOpts configures a ReferenceExpression aggregation.
type ExprOpts struct {
	// TopK is how many most-abundant references to keep.
	TopK int
}

// DefaultExprOpts is the configuration used by the bam-stat tool when no
// flags override it.
var DefaultExprOpts = ExprOpts{
	TopK: 10,
}

// ExprResult is the immutable outcome of a ReferenceExpression run.
type ExprResult struct {
	rpkm    *stats.Floats
	lengths *stats.IntCounter
	top     []stats.RankedEntry
	perRef  []stats.RankedEntry
}

// RPKM returns the distribution of per-reference RPKM values.
func (r *ExprResult) RPKM() *stats.Floats { return r.rpkm }

// Lengths returns the reference length-frequency distribution.
func (r *ExprResult) Lengths() *stats.IntCounter { return r.lengths }

// Top returns the most abundant references, descending by RPKM.
func (r *ExprResult) Top() []stats.RankedEntry { return r.top }

// PerRef returns (name, RPKM) for every reference in header order.
func (r *ExprResult) PerRef() []stats.RankedEntry { return r.perRef }

// exprPartial holds one source's contribution to the aggregation.
type exprPartial struct {
	mapped     []int64
	totalReads int64
}

// ReferenceExpression merges per-reference read counts from one or more
// sources over the same reference set into RPKM values:
//
//	rpk[i]  = mapped[i] / (length[i] / 1000)
//	rpkm[i] = rpk[i] / (totalReads / 1e6)
//
// where totalReads sums mapped and unmapped reads over all references and
// sources.  All sources must describe the same references, in the same
// order, with the same lengths; the first disagreement aborts with a
// *ConsistencyError.  A zero totalReads aborts with a
// *DegenerateInputError rather than dividing by zero.
//
// Per-source sums are computed concurrently; the reduction into the final
// result is a single sequential pass.
func ReferenceExpression(sources [][]RefRecord, opts ExprOpts) (*ExprResult, error) {
	if len(sources) == 0 {
		return nil, &DegenerateInputError{Quantity: "reference record sources", Value: 0}
	}
	first := sources[0]
	for si, src := range sources[1:] {
		if err := checkConsistent(first, src, si+1); err != nil {
			return nil, err
		}
	}

	partials := make([]exprPartial, len(sources))
	err := traverse.Each(len(sources), func(si int) error {
		p := exprPartial{mapped: make([]int64, len(sources[si]))}
		for i, rec := range sources[si] {
			p.mapped[i] = rec.Mapped
			p.totalReads += rec.Mapped + rec.Unmapped
		}
		partials[si] = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	totalMapped := make([]int64, len(first))
	var totalReads int64
	for _, p := range partials {
		for i, n := range p.mapped {
			totalMapped[i] += n
		}
		totalReads += p.totalReads
	}
	if totalReads == 0 {
		return nil, &DegenerateInputError{Quantity: "total reads", Value: 0}
	}

	millionReads := float64(totalReads) / 1e6
	rpkm := make([]float64, len(first))
	lengths := stats.NewIntCounter()
	k := opts.TopK
	if k < 1 {
		k = DefaultExprOpts.TopK
	}
	topK := stats.NewTopK(k)
	perRef := make([]stats.RankedEntry, len(first))
	for i, rec := range first {
		rpk := float64(totalMapped[i]) / (float64(rec.Length) / 1000.0)
		rpkm[i] = rpk / millionReads
		lengths.Increment(rec.Length)
		topK.Consider(rec.Name, rpkm[i])
		perRef[i] = stats.RankedEntry{ID: rec.Name, Score: rpkm[i]}
	}
	return &ExprResult{
		rpkm:    stats.NewFloats(rpkm),
		lengths: lengths,
		top:     topK.Finalize(),
		perRef:  perRef,
	}, nil
}

// checkConsistent verifies src against the first source.  si is src's
// position among all sources, used in error context.
func checkConsistent(first, src []RefRecord, si int) error {
	if len(src) != len(first) {
		return &ConsistencyError{
			Source: si,
			Index:  -1,
			Field:  "count",
			Want:   strconv.Itoa(len(first)),
			Got:    strconv.Itoa(len(src)),
		}
	}
	for i, rec := range src {
		if rec.Name != first[i].Name {
			return &ConsistencyError{
				Source: si,
				Index:  i,
				Field:  "name",
				Want:   first[i].Name,
				Got:    rec.Name,
			}
		}
		if rec.Length != first[i].Length {
			return &ConsistencyError{
				Source: si,
				Index:  i,
				Field:  "length",
				Want:   strconv.Itoa(first[i].Length),
				Got:    strconv.Itoa(rec.Length),
			}
		}
	}
	return nil
}
