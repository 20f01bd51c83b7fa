// Package readdb implements the read-only façade (component C10) over a
// 2-bit-packed read block, plus the .idx/.bps readers and record encoders
// it is built from (the .db text stub is not read). Everything downstream of this package — the
// seed index builder, seed merger, wavefront aligner and trace refiner —
// consumes a Block purely through the Facade interface.
package readdb

import (
	"context"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/dalign/biosimd"
	"github.com/grailbio/dalign/errtype"
)

// baseSentinel marks the start/end of every read in a contiguous code
// buffer, matching the 4-valued sentinel base used throughout the wavefront
// aligner to detect a clipped boundary.
const baseSentinel = byte(4)

// Facade is the read-only view exposed to the seed index builder, seed
// merger, diagonal filter, wavefront aligner and trace refiner.
type Facade interface {
	// NumReads returns the number of reads in the (possibly trimmed) block.
	NumReads() int
	// Bases returns the base-code slice (values 0..3) for read id, with no
	// sentinel included; callers that walk past either end observe
	// baseSentinel via BaseAt instead.
	Bases(id int) []byte
	// Length returns the length in bases of read id.
	Length(id int) int
	// BaseAt returns the base code at position pos of read id, or
	// baseSentinel if pos is out of [0, Length(id)).
	BaseAt(id, pos int) byte
	// FreqVector returns the block's per-base frequency vector, in A,C,G,T
	// order.
	FreqVector() [4]float32
}

// Block is an in-memory read block: the façade plus the bookkeeping needed
// to trim it and to build a reverse-complemented sibling view.
type Block struct {
	reads []ReadRecord
	codes []byte // per-read base codes, concatenated, no separators
	off   []int  // off[i] = start offset of read i's codes within codes
	freq  [4]float32

	cutoff       int32
	all          bool
	traceSpace   int32
	trimmedReads int64
}

var _ Facade = (*Block)(nil)

// NumReads implements Facade.
func (b *Block) NumReads() int { return len(b.reads) }

// Bases implements Facade.
func (b *Block) Bases(id int) []byte {
	lo := b.off[id]
	return b.codes[lo : lo+int(b.reads[id].RLen)]
}

// Length implements Facade.
func (b *Block) Length(id int) int { return int(b.reads[id].RLen) }

// BaseAt implements Facade.
func (b *Block) BaseAt(id, pos int) byte {
	if pos < 0 || pos >= b.Length(id) {
		return baseSentinel
	}
	return b.codes[b.off[id]+pos]
}

// FreqVector implements Facade.
func (b *Block) FreqVector() [4]float32 { return b.freq }

// Record returns the read metadata record for read id.
func (b *Block) Record(id int) ReadRecord { return b.reads[id] }

// TraceSpace returns the trace-point spacing the block's overlaps should be
// produced with, as recorded in the .idx header.
func (b *Block) TraceSpace() int32 { return b.traceSpace }

// NewFromBases builds an in-memory Block directly from a set of ASCII
// sequences for testing and for small command-line utilities that don't
// need the on-disk .idx/.bps pair. Non-ACGT bytes are rejected.
func NewFromBases(seqs []string) (*Block, error) {
	var asciiToCode [256]int8
	for i := range asciiToCode {
		asciiToCode[i] = -1
	}
	asciiToCode['A'], asciiToCode['a'] = 0, 0
	asciiToCode['C'], asciiToCode['c'] = 1, 1
	asciiToCode['G'], asciiToCode['g'] = 2, 2
	asciiToCode['T'], asciiToCode['t'] = 3, 3

	reads := make([]ReadRecord, len(seqs))
	off := make([]int, len(seqs))
	var codes []byte
	var freqCount [4]int64
	for i, s := range seqs {
		off[i] = len(codes)
		for _, ch := range []byte(s) {
			c := asciiToCode[ch]
			if c < 0 {
				return nil, errors.E(errtype.UserError, "readdb.NewFromBases: non-ACGT base", string(ch))
			}
			codes = append(codes, byte(c))
			freqCount[c]++
		}
		reads[i] = ReadRecord{RLen: int32(len(s))}
	}
	var freq [4]float32
	total := freqCount[0] + freqCount[1] + freqCount[2] + freqCount[3]
	if total > 0 {
		for i := range freq {
			freq[i] = float32(freqCount[i]) / float32(total)
		}
	} else {
		freq = [4]float32{0.25, 0.25, 0.25, 0.25}
	}
	return &Block{reads: reads, codes: codes, off: off, freq: freq, traceSpace: 100}, nil
}

// Open reads the root.idx and root.bps files of a block and returns a
// Block holding every read recorded in the index, unpacked into base
// codes. Trim must be called separately to apply a length/best-of-well
// cutoff.
func Open(ctx context.Context, root string) (*Block, error) {
	idxBytes, err := readAll(ctx, root+".idx")
	if err != nil {
		return nil, errors.E(err, "readdb.Open: reading index", root+".idx")
	}
	if len(idxBytes) < idxHeaderSize {
		return nil, errors.E(errtype.CorruptFile, "readdb.Open: short index header", root+".idx")
	}
	hdr := unmarshalIdxHeader(idxBytes[:idxHeaderSize])
	want := idxHeaderSize + int(hdr.NReads)*readRecordSize
	if len(idxBytes) != want {
		return nil, errors.E(errtype.CorruptFile, "readdb.Open: index size mismatch", root+".idx")
	}

	reads := make([]ReadRecord, hdr.NReads)
	for i := range reads {
		lo := idxHeaderSize + i*readRecordSize
		reads[i] = unmarshalReadRecord(idxBytes[lo : lo+readRecordSize])
	}

	bps, err := readAll(ctx, root+".bps")
	if err != nil {
		return nil, errors.E(err, "readdb.Open: reading bases", root+".bps")
	}

	off := make([]int, len(reads))
	total := 0
	for _, r := range reads {
		total += int(r.RLen)
	}
	codes := make([]byte, total)
	pos := 0
	for i, r := range reads {
		off[i] = pos
		n := int(r.RLen)
		packedLen := (n + 3) / 4
		byteOff := r.BOff
		if byteOff < 0 || int(byteOff)+packedLen > len(bps) {
			return nil, errors.E(errtype.CorruptFile, "readdb.Open: read offset out of range", root+".bps")
		}
		copy(codes[pos:pos+n], Unpack2Bit(bps[byteOff:byteOff+int64(packedLen)], n))
		pos += n
	}

	return &Block{
		reads:      reads,
		codes:      codes,
		off:        off,
		freq:       hdr.Freq,
		cutoff:     hdr.Cutoff,
		all:        hdr.All != 0,
		traceSpace: hdr.TraceSpace,
	}, nil
}

func readAll(ctx context.Context, path string) ([]byte, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer f.Close(ctx) // nolint: errcheck
	info, err := f.Stat(ctx)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, info.Size())
	if _, err := io.ReadFull(f.Reader(ctx), buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// Trim filters the block down to reads of length >= cutoff (and, if
// bestOfWell is set, also requires FlagBestOfWell) and compacts the
// surviving reads into a contiguous array, matching the "read-only,
// trimmed once" lifecycle of spec'd invariant.
func (b *Block) Trim(cutoff int32, bestOfWell bool) {
	newReads := b.reads[:0]
	newOff := make([]int, 0, len(b.reads))
	newCodes := make([]byte, 0, len(b.codes))
	for i, r := range b.reads {
		if r.RLen < cutoff {
			continue
		}
		if bestOfWell && r.Flags&FlagBestOfWell == 0 {
			continue
		}
		newOff = append(newOff, len(newCodes))
		newCodes = append(newCodes, b.codes[b.off[i]:b.off[i]+int(r.RLen)]...)
		newReads = append(newReads, r)
	}
	b.reads = append([]ReadRecord(nil), newReads...)
	b.off = newOff
	b.codes = newCodes
	b.cutoff = cutoff
	b.trimmedReads = int64(len(b.reads))
}

// Complement returns a new Block representing the reverse complement of
// every read, with the frequency vector swapped A<->T, C<->G as the
// original engine does when building the second index of a comparison
// pass. The two blocks' ReadRecords describe the same logical reads.
func (b *Block) Complement() *Block {
	codes := make([]byte, len(b.codes))
	off := make([]int, len(b.off))
	pos := 0
	for i, r := range b.reads {
		n := int(r.RLen)
		off[i] = pos
		biosimd.ReverseComp2(codes[pos:pos+n], b.codes[b.off[i]:b.off[i]+n])
		pos += n
	}
	return &Block{
		reads:      append([]ReadRecord(nil), b.reads...),
		codes:      codes,
		off:        off,
		freq:       [4]float32{b.freq[3], b.freq[2], b.freq[1], b.freq[0]},
		cutoff:     b.cutoff,
		all:        b.all,
		traceSpace: b.traceSpace,
	}
}
