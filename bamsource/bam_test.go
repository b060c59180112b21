package bamsource

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/grailbio/base/file"
	"github.com/grailbio/hts/bam"
	"github.com/grailbio/hts/sam"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pziarsolo/bam-crumbs/bamstats"
)

func writeTestBAM(t *testing.T, ctx context.Context, path string, recs []*sam.Record) {
	out, err := file.Create(ctx, path)
	require.NoError(t, err)
	bamWriter, err := bam.NewWriter(out.Writer(ctx), testHeader, 1)
	require.NoError(t, err)
	for _, r := range recs {
		require.NoError(t, bamWriter.Write(r))
	}
	require.NoError(t, bamWriter.Close())
	require.NoError(t, out.Close(ctx))
}

func unmappedRecord(name string, mapq byte) *sam.Record {
	r := sam.GetFromFreePool()
	r.Name = name
	r.Ref = nil
	r.Pos = -1
	r.MatePos = -1
	r.MapQ = mapq
	r.Flags = sam.Unmapped
	return r
}

func TestBAMReads(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	ctx := context.Background()
	bampath := filepath.Join(tempDir, "test.bam")
	writeTestBAM(t, ctx, bampath, []*sam.Record{
		newRecord("r1", chr1, 0, 5, 30, sam.Paired | sam.Read1),
		newRecord("r2", chr2, 10, 5, 60, sam.Paired | sam.Read2 | sam.Reverse),
		unmappedRecord("r3", 7),
	})

	src := BAM{Path: bampath}
	iter, err := src.Reads(ctx)
	require.NoError(t, err)
	flags, err := bamstats.CollectFlagStats(iter)
	require.NoError(t, err)

	expect.EQ(t, int64(2), flags.Count(sam.Paired))
	expect.EQ(t, int64(1), flags.Count(sam.Reverse))
	expect.EQ(t, int64(1), flags.Count(sam.Unmapped))
	// The unmapped read stays out of the mapq distribution.
	expect.EQ(t, int64(2), flags.Mapq().Count())
	expect.EQ(t, int64(0), flags.Mapq().Frequency(7))

	// A BAM is multi-pass: a second iteration sees the same events.
	iter, err = src.Reads(ctx)
	require.NoError(t, err)
	n := 0
	for iter.Scan() {
		n++
	}
	require.NoError(t, iter.Err())
	require.NoError(t, iter.Close())
	assert.Equal(t, 3, n)
}

func TestBAMHeader(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	ctx := context.Background()
	bampath := filepath.Join(tempDir, "test.bam")
	writeTestBAM(t, ctx, bampath, nil)

	header, err := BAM{Path: bampath}.Header(ctx)
	require.NoError(t, err)
	refs := header.Refs()
	require.Len(t, refs, 2)
	expect.EQ(t, "chr1", refs[0].Name())
	expect.EQ(t, 1000, refs[0].Len())
}

func TestBAMColumnsFromFile(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	ctx := context.Background()
	bampath := filepath.Join(tempDir, "test.bam")
	writeTestBAM(t, ctx, bampath, []*sam.Record{
		newRecord("r1", chr1, 0, 4, 50, 0),
		newRecord("r2", chr1, 2, 4, 10, 0),
	})

	iter, err := BAM{Path: bampath}.Columns(ctx, DefaultPileupOpts)
	require.NoError(t, err)
	var depths []int
	for iter.Scan() {
		depths = append(depths, len(iter.Quals()))
	}
	require.NoError(t, iter.Err())
	require.NoError(t, iter.Close())
	assert.Equal(t, []int{1, 1, 2, 2, 1, 1}, depths)
}

func TestBAMMissingFile(t *testing.T) {
	ctx := context.Background()
	_, err := BAM{Path: "/nonexistent/no.bam"}.Reads(ctx)
	assert.Error(t, err)
}
