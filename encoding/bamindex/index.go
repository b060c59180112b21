// Package bamindex reads .bai index files.  Besides the bin and linear
// interval data, a .bai carries one optional metadata pseudo-bin per
// reference with the mapped and unmapped read counts for that reference;
// those counts are the reference-index statistics the bamstats aggregators
// consume, without scanning the BAM itself.
package bamindex

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/grailbio/hts/bgzf"
)

// metadataBinNum is the pseudo-bin number that carries per-reference read
// counts instead of chunk offsets.
const metadataBinNum = 37450

var baiMagic = [4]byte{'B', 'A', 'I', 0x1}

// Index is the parsed content of a .bai file.
type Index struct {
	// Refs holds per-reference index data in BAM header order.
	Refs []Reference
	// Unplaced is the number of unmapped reads without a coordinate, when
	// the index records it.
	Unplaced *uint64
}

// Reference is the index data for one reference sequence.
type Reference struct {
	Bins      []Bin
	Intervals []bgzf.Offset
	// Stats holds the read counts from the metadata pseudo-bin, or nil
	// when the index does not carry them for this reference.
	Stats *ReadStats
}

// Bin is one index bin and its chunk list.
type Bin struct {
	Num    uint32
	Chunks []Chunk
}

// Chunk is a half-open virtual-offset range within the BAM.
type Chunk struct {
	Begin bgzf.Offset
	End   bgzf.Offset
}

// ReadStats are the per-reference read counts from the metadata
// pseudo-bin.
type ReadStats struct {
	Mapped   uint64
	Unmapped uint64
}

// Read parses a .bai from r.
func Read(r io.Reader) (*Index, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, err
	}
	if magic != baiMagic {
		return nil, fmt.Errorf("bamindex: invalid magic %v", magic)
	}
	var nRefs int32
	if err := binary.Read(r, binary.LittleEndian, &nRefs); err != nil {
		return nil, err
	}
	idx := &Index{Refs: make([]Reference, nRefs)}
	for i := range idx.Refs {
		if err := readRef(r, &idx.Refs[i]); err != nil {
			return nil, fmt.Errorf("bamindex: reference %d: %v", i, err)
		}
	}
	var unplaced uint64
	switch err := binary.Read(r, binary.LittleEndian, &unplaced); err {
	case nil:
		idx.Unplaced = &unplaced
	case io.EOF, io.ErrUnexpectedEOF:
		// The trailing count is optional.
	default:
		return nil, err
	}
	return idx, nil
}

func readRef(r io.Reader, ref *Reference) error {
	var nBins int32
	if err := binary.Read(r, binary.LittleEndian, &nBins); err != nil {
		return err
	}
	ref.Bins = make([]Bin, 0, nBins)
	for b := int32(0); b < nBins; b++ {
		bin, err := readBin(r)
		if err != nil {
			return err
		}
		if bin.Num == metadataBinNum {
			stats, err := metadataStats(bin)
			if err != nil {
				return err
			}
			ref.Stats = stats
			continue
		}
		ref.Bins = append(ref.Bins, bin)
	}
	var nIntervals int32
	if err := binary.Read(r, binary.LittleEndian, &nIntervals); err != nil {
		return err
	}
	ref.Intervals = make([]bgzf.Offset, nIntervals)
	for i := range ref.Intervals {
		var voffset uint64
		if err := binary.Read(r, binary.LittleEndian, &voffset); err != nil {
			return err
		}
		ref.Intervals[i] = toOffset(voffset)
	}
	return nil
}

func readBin(r io.Reader) (Bin, error) {
	var bin Bin
	if err := binary.Read(r, binary.LittleEndian, &bin.Num); err != nil {
		return bin, err
	}
	var nChunks int32
	if err := binary.Read(r, binary.LittleEndian, &nChunks); err != nil {
		return bin, err
	}
	bin.Chunks = make([]Chunk, nChunks)
	for c := range bin.Chunks {
		var begin, end uint64
		if err := binary.Read(r, binary.LittleEndian, &begin); err != nil {
			return bin, err
		}
		if err := binary.Read(r, binary.LittleEndian, &end); err != nil {
			return bin, err
		}
		bin.Chunks[c] = Chunk{Begin: toOffset(begin), End: toOffset(end)}
	}
	return bin, nil
}

// metadataStats decodes the pseudo-bin's two pseudo-chunks: the first
// holds the unmapped-region offsets, the second the mapped and unmapped
// read counts.
func metadataStats(bin Bin) (*ReadStats, error) {
	if len(bin.Chunks) != 2 {
		return nil, fmt.Errorf("metadata pseudo-bin has %d chunks, want 2", len(bin.Chunks))
	}
	return &ReadStats{
		Mapped:   fromOffset(bin.Chunks[1].Begin),
		Unmapped: fromOffset(bin.Chunks[1].End),
	}, nil
}

func toOffset(voffset uint64) bgzf.Offset {
	return bgzf.Offset{
		File:  int64(voffset >> 16),
		Block: uint16(voffset),
	}
}

func fromOffset(offset bgzf.Offset) uint64 {
	return uint64(offset.File<<16) | uint64(offset.Block)
}
