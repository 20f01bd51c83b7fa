// Package radix implements the parallel least-significant-digit byte-radix
// sort shared by the seed index builder and the seed merger. It is the analogue, generalized from BAM coordinate
// keys to arbitrary fixed-width records, of the partitioned-scan idiom used
// throughout this lineage's sort paths.
package radix

import (
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/dalign/errtype"
)

const buckets = 256

// Sort performs a stable LSD byte-radix sort of fixed-width records held in
// data, using scratch as working space (len(scratch) must equal len(data)).
// recSize is the size in bytes of one record (R); offsets lists the byte
// offsets within a record that make up the sort key, ordered from most to
// least significant (the pass order is the reverse of this list, since LSD
// sorts the least significant key byte first). nthread is the worker count
// (P); it need not be a power of two for correctness here, though callers
// that also drive C9's partitioning should keep it one.
//
// Sort returns whichever of data/scratch holds the final sorted sequence;
// the two buffers are swapped once per byte examined, so the caller must
// not assume the result is data.
func Sort(data, scratch []byte, recSize int, offsets []int, nthread int) ([]byte, error) {
	if recSize <= 0 || len(data)%recSize != 0 || len(data) != len(scratch) {
		return nil, errtype.UserError
	}
	for _, off := range offsets {
		if off < 0 || off >= recSize {
			return nil, errtype.UserError
		}
	}
	n := len(data) / recSize
	if n <= 1 || len(offsets) == 0 {
		copy(scratch, data)
		return data, nil
	}
	if nthread < 1 {
		nthread = 1
	}

	src, dst := data, scratch
	// Process offsets from least to most significant.
	for pass := len(offsets) - 1; pass >= 0; pass-- {
		byteOff := offsets[pass]
		if err := countingPass(src, dst, recSize, byteOff, n, nthread); err != nil {
			return nil, err
		}
		src, dst = dst, src
	}
	return src, nil
}

// countingPass stably partitions src's n records into dst by the byte at
// byteOff, using a two-level count: each of nthread segments counts its own
// 256-bucket histogram, then every segment's per-bucket write cursor is
// derived from the global bucket start plus the sum of the preceding
// segments' counts for that bucket. This keeps the scatter step itself
// fully parallel while preserving input order within equal keys.
func countingPass(src, dst []byte, recSize, byteOff, n, nthread int) error {
	if nthread > n {
		nthread = n
	}
	segSize := (n + nthread - 1) / nthread
	nseg := (n + segSize - 1) / segSize
	if nseg == 0 {
		nseg = 1
	}

	localCounts := make([][buckets]int, nseg)
	if err := traverse.Each(nseg, func(seg int) error {
		lo, hi := segBounds(seg, segSize, n)
		var counts [buckets]int
		for i := lo; i < hi; i++ {
			counts[src[i*recSize+byteOff]]++
		}
		localCounts[seg] = counts
		return nil
	}); err != nil {
		return err
	}

	// cursor[seg][bucket] = write offset in dst for the first record of
	// bucket "bucket" found in segment "seg".
	var globalStart [buckets]int
	var totals [buckets]int
	for seg := 0; seg < nseg; seg++ {
		for b := 0; b < buckets; b++ {
			totals[b] += localCounts[seg][b]
		}
	}
	running := 0
	for b := 0; b < buckets; b++ {
		globalStart[b] = running
		running += totals[b]
	}

	cursor := make([][buckets]int, nseg)
	for b := 0; b < buckets; b++ {
		acc := globalStart[b]
		for seg := 0; seg < nseg; seg++ {
			cursor[seg][b] = acc
			acc += localCounts[seg][b]
		}
	}

	return traverse.Each(nseg, func(seg int) error {
		lo, hi := segBounds(seg, segSize, n)
		c := &cursor[seg]
		for i := lo; i < hi; i++ {
			b := src[i*recSize+byteOff]
			pos := c[b]
			c[b]++
			copy(dst[pos*recSize:pos*recSize+recSize], src[i*recSize:i*recSize+recSize])
		}
		return nil
	})
}

func segBounds(seg, segSize, n int) (int, int) {
	lo := seg * segSize
	hi := lo + segSize
	if hi > n {
		hi = n
	}
	return lo, hi
}
