package wavefront

import "math/bits"

// trimWindow is the number of trailing alignment columns the trim table
// judges at once (spec's 15-bit suffix).
const trimWindow = 15

// biasFactor scales the allowed mismatch rate down as a read block's base
// composition departs from 50/50 GC, indexed by a minor-base-frequency
// bucket in [0,9]; a block with balanced composition (bucket 9) gets
// bias=1 and the unscaled mismatch rate, a block at the 80/20 floor
// (bucket 0-3) gets the most conservative trim criterion.
var biasFactor = [10]float64{.690, .690, .690, .690, .780, .850, .900, .933, .966, 1.000}

// biasBucket maps a block's per-base frequency vector (A,C,G,T order) to
// the biasFactor index its minor-base frequency falls into.
func biasBucket(freq [4]float32) int {
	if freq == ([4]float32{}) {
		return 9
	}
	match := float64(freq[0] + freq[3])
	if match > 0.5 {
		match = 1 - match
	}
	if match < 0.2 {
		return 3
	}
	bucket := int((match+.025)*20 - 1)
	if bucket < 0 {
		bucket = 0
	}
	if bucket > 9 {
		bucket = 9
	}
	return bucket
}

// buildTrimTable precomputes, for every possible popcount of a trimWindow-
// wide match/mismatch bitstring, whether that window scores non-negative
// under the trim criterion: allowed mismatch rate bias*(1-c), where bias
// comes from freq's minor-base-frequency bucket. Because the score is a
// linear function of the number of set bits alone, the 2^15-entry table
// the aligner consults collapses to a lookup on popcount; we still
// materialize the full table so callers index it the way the algorithm
// describes.
func buildTrimTable(correlation float64, freq [4]float32) *[1 << trimWindow]bool {
	mismatchRate := biasFactor[biasBucket(freq)] * (1 - correlation)
	match := mismatchRate / (1 - mismatchRate)
	mismatch := -1.0
	var byPop [trimWindow + 1]bool
	for ones := 0; ones <= trimWindow; ones++ {
		score := float64(ones)*match + float64(trimWindow-ones)*mismatch
		byPop[ones] = score >= 0
	}
	var table [1 << trimWindow]bool
	for x := 0; x < (1 << trimWindow); x++ {
		table[x] = byPop[bits.OnesCount16(uint16(x))]
	}
	return &table
}

// passesTrim reports whether the last 2*trimWindow columns recorded in t
// are "prefix-positive": both the low 15 bits and the next 15 bits pass
// the table test.
func passesTrim(t uint64, table *[1 << trimWindow]bool) bool {
	lo := uint32(t) & ((1 << trimWindow) - 1)
	hi := uint32(t>>trimWindow) & ((1 << trimWindow) - 1)
	return table[lo] && table[hi]
}
