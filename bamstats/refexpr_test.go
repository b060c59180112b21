package bamstats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceExpressionRPKM(t *testing.T) {
	source := []RefRecord{
		{Name: "A", Length: 1000, Mapped: 10},
		{Name: "B", Length: 500, Mapped: 10},
	}
	result, err := ReferenceExpression([][]RefRecord{source}, ExprOpts{TopK: 1})
	require.NoError(t, err)

	// total reads 20 -> 2e-5 million reads; rpk 10 and 20.
	values := result.RPKM().Values()
	require.Len(t, values, 2)
	assert.InDelta(t, 500000, values[0], 1e-6)
	assert.InDelta(t, 1000000, values[1], 1e-6)
	top := result.Top()
	require.Len(t, top, 1)
	assert.Equal(t, "B", top[0].ID)
	assert.InDelta(t, 1000000, top[0].Score, 1e-6)
	assert.Equal(t, int64(1), result.Lengths().Frequency(1000))
	assert.Equal(t, int64(1), result.Lengths().Frequency(500))
	perRef := result.PerRef()
	require.Len(t, perRef, 2)
	assert.Equal(t, "A", perRef[0].ID)
	assert.Equal(t, "B", perRef[1].ID)
}

func TestReferenceExpressionMultiSource(t *testing.T) {
	src1 := []RefRecord{
		{Name: "chr1", Length: 2000, Mapped: 6, Unmapped: 1},
		{Name: "chr2", Length: 1000, Mapped: 2},
	}
	src2 := []RefRecord{
		{Name: "chr1", Length: 2000, Mapped: 4},
		{Name: "chr2", Length: 1000, Mapped: 6, Unmapped: 1},
	}
	result, err := ReferenceExpression([][]RefRecord{src1, src2}, DefaultExprOpts)
	require.NoError(t, err)

	// mapped sums 10 and 8; total reads 20.
	// chr1: rpk = 10/2 = 5 -> rpkm 5/2e-5 = 250000
	// chr2: rpk = 8/1 = 8 -> rpkm 8/2e-5 = 400000
	values := result.RPKM().Values()
	require.Len(t, values, 2)
	assert.InDelta(t, 250000, values[0], 1e-6)
	assert.InDelta(t, 400000, values[1], 1e-6)
	top := result.Top()
	require.NotEmpty(t, top)
	assert.Equal(t, "chr2", top[0].ID)
	assert.InDelta(t, 400000, top[0].Score, 1e-6)
	// Lengths come from the first source only, once per reference.
	assert.Equal(t, int64(1), result.Lengths().Frequency(2000))
	assert.Equal(t, int64(1), result.Lengths().Frequency(1000))
	assert.Equal(t, int64(2), result.Lengths().Count())
}

func TestReferenceExpressionReorderedSourcesFail(t *testing.T) {
	src1 := []RefRecord{
		{Name: "chr1", Length: 100, Mapped: 1},
		{Name: "chr2", Length: 200, Mapped: 1},
	}
	src2 := []RefRecord{
		{Name: "chr2", Length: 200, Mapped: 1},
		{Name: "chr1", Length: 100, Mapped: 1},
	}
	_, err := ReferenceExpression([][]RefRecord{src1, src2}, DefaultExprOpts)
	require.Error(t, err)
	cerr, ok := err.(*ConsistencyError)
	require.True(t, ok, "want *ConsistencyError, got %T", err)
	assert.Equal(t, 1, cerr.Source)
	assert.Equal(t, 0, cerr.Index)
	assert.Equal(t, "name", cerr.Field)
}

func TestReferenceExpressionConsistency(t *testing.T) {
	base := []RefRecord{
		{Name: "chr1", Length: 100, Mapped: 1},
		{Name: "chr2", Length: 200, Mapped: 1},
	}
	tests := []struct {
		name      string
		other     []RefRecord
		wantIndex int
		wantField string
	}{
		{
			name:      "missing reference",
			other:     base[:1],
			wantIndex: -1,
			wantField: "count",
		},
		{
			name: "length mismatch",
			other: []RefRecord{
				{Name: "chr1", Length: 100, Mapped: 1},
				{Name: "chr2", Length: 201, Mapped: 1},
			},
			wantIndex: 1,
			wantField: "length",
		},
	}
	for _, test := range tests {
		_, err := ReferenceExpression([][]RefRecord{base, test.other}, DefaultExprOpts)
		require.Error(t, err, test.name)
		cerr, ok := err.(*ConsistencyError)
		require.True(t, ok, test.name)
		assert.Equal(t, test.wantIndex, cerr.Index, test.name)
		assert.Equal(t, test.wantField, cerr.Field, test.name)
	}
}

func TestReferenceExpressionNoReadsFails(t *testing.T) {
	source := []RefRecord{
		{Name: "chr1", Length: 100},
		{Name: "chr2", Length: 200},
	}
	_, err := ReferenceExpression([][]RefRecord{source, source}, DefaultExprOpts)
	require.Error(t, err)
	assert.IsType(t, &DegenerateInputError{}, err)

	_, err = ReferenceExpression(nil, DefaultExprOpts)
	require.Error(t, err)
	assert.IsType(t, &DegenerateInputError{}, err)
}
