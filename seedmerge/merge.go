// Package seedmerge implements the seed merger (C3): a two-way merge of
// two sorted k-mer tuple lists into a seed-pair list, with self-comparison
// deduplication and frequency-cap suppression. Grounded on the
// sharded-hashtable histogram bucketing idiom used for candidate-pair
// generation in this lineage's RNA-fusion k-mer index, adapted here from a
// hash-bucketed join to a merge-join since both input lists are already
// sorted by code.
package seedmerge

import (
	"github.com/grailbio/dalign/kmerseed"
	"github.com/grailbio/dalign/radix"
)

// SeedPairSize is the on-the-wire size of one seed pair: four 32-bit
// fields (spec's "128-bit record").
const SeedPairSize = 16

// SeedPair is a candidate seed, emitted whenever an A-side and a B-side
// tuple share a k-mer code.
type SeedPair struct {
	BRead, ARead uint32
	APos, BPos   uint32
}

// Merge walks sorted tuple lists a and b and emits the Cartesian product of
// their occurrence lists for every code present in both, subject to the
// adaptive cap: a code whose |A_code|*|B_code| exceeds cap is skipped
// entirely. When self is true (comparing a block against itself in the
// same orientation), only pairs with b.Read > a.Read are emitted, per
// invariant I3.
//
// The result is sorted by (bread, aread, apos, bpos) as C4 requires.
func Merge(a, b []kmerseed.Tuple, self bool, cap int, nthread int) ([]SeedPair, error) {
	var pairs []SeedPair
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].Code < b[j].Code:
			i++
		case a[i].Code > b[j].Code:
			j++
		default:
			code := a[i].Code
			ie, je := i, j
			for ie < len(a) && a[ie].Code == code {
				ie++
			}
			for je < len(b) && b[je].Code == code {
				je++
			}
			na, nb := ie-i, je-j
			if cap <= 0 || na*nb <= cap {
				for x := i; x < ie; x++ {
					for y := j; y < je; y++ {
						if self && !(b[y].Read > a[x].Read) {
							continue
						}
						pairs = append(pairs, SeedPair{
							BRead: b[y].Read,
							ARead: a[x].Read,
							APos:  a[x].Pos,
							BPos:  b[y].Pos,
						})
					}
				}
			}
			i, j = ie, je
		}
	}
	return sortPairs(pairs, nthread)
}

func marshalPair(p SeedPair, buf []byte) {
	putU32(buf[0:4], p.BRead)
	putU32(buf[4:8], p.ARead)
	putU32(buf[8:12], p.APos)
	putU32(buf[12:16], p.BPos)
}

func unmarshalPair(buf []byte) SeedPair {
	return SeedPair{
		BRead: getU32(buf[0:4]),
		ARead: getU32(buf[4:8]),
		APos:  getU32(buf[8:12]),
		BPos:  getU32(buf[12:16]),
	}
}

func putU32(b []byte, v uint32) {
	b[0], b[1], b[2], b[3] = byte(v), byte(v>>8), byte(v>>16), byte(v>>24)
}
func getU32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func sortPairs(pairs []SeedPair, nthread int) ([]SeedPair, error) {
	if len(pairs) == 0 {
		return pairs, nil
	}
	buf := make([]byte, len(pairs)*SeedPairSize)
	for i, p := range pairs {
		marshalPair(p, buf[i*SeedPairSize:(i+1)*SeedPairSize])
	}
	scratch := make([]byte, len(buf))
	// Most-to-least-significant: BRead, ARead, APos, BPos, each
	// big-endian-ordered within its own 4 bytes.
	var offsets []int
	for _, field := range []int{0, 4, 8, 12} {
		for b := field + 3; b >= field; b-- {
			offsets = append(offsets, b)
		}
	}
	sorted, err := radix.Sort(buf, scratch, SeedPairSize, offsets, nthread)
	if err != nil {
		return nil, err
	}
	out := make([]SeedPair, len(pairs))
	for i := range out {
		out[i] = unmarshalPair(sorted[i*SeedPairSize : (i+1)*SeedPairSize])
	}
	return out, nil
}
