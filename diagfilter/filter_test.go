package diagfilter

import (
	"testing"

	"github.com/grailbio/dalign/seedmerge"
	"github.com/stretchr/testify/assert"
)

func diag(aread, bread, apos, bpos uint32) seedmerge.SeedPair {
	return seedmerge.SeedPair{ARead: aread, BRead: bread, APos: apos, BPos: bpos}
}

func TestFilterSurvivesDenseDiagonal(t *testing.T) {
	opts := Opts{BinWidth: 6, HitThreshold: 20, KmerLength: 14}
	var pairs []seedmerge.SeedPair
	for i := uint32(0); i < 10; i++ {
		pairs = append(pairs, diag(0, 1, i*14, i*14))
	}
	out := Filter(pairs, opts)
	assert.NotEmpty(t, out)
	for _, e := range out {
		assert.Equal(t, uint32(0), e.ARead)
		assert.Equal(t, uint32(1), e.BRead)
	}
}

func TestFilterDropsSparseScatteredSeeds(t *testing.T) {
	opts := Opts{BinWidth: 6, HitThreshold: 1000, KmerLength: 14}
	pairs := []seedmerge.SeedPair{
		diag(0, 1, 10, 5),
		diag(0, 1, 4000, 50),
		diag(0, 1, 9000, 9500),
	}
	out := Filter(pairs, opts)
	assert.Empty(t, out)
}

func TestFilterGroupsByReadPairIndependently(t *testing.T) {
	opts := Opts{BinWidth: 6, HitThreshold: 35, KmerLength: 14}
	var pairs []seedmerge.SeedPair
	for i := uint32(0); i < 10; i++ {
		pairs = append(pairs, diag(0, 1, i*14, i*14))
	}
	for i := uint32(0); i < 2; i++ {
		pairs = append(pairs, diag(0, 2, i*14, i*14))
	}
	out := Filter(pairs, opts)
	sawPair2 := false
	for _, e := range out {
		if e.BRead == 2 {
			sawPair2 = true
		}
	}
	assert.False(t, sawPair2, "sparse (0,2) group should not survive the same threshold as dense (0,1)")
}

func TestFilterSuppressesRedundantSameDiagonalHits(t *testing.T) {
	opts := Opts{BinWidth: 6, HitThreshold: 20, KmerLength: 14}
	var pairs []seedmerge.SeedPair
	for i := uint32(0); i < 50; i++ {
		pairs = append(pairs, diag(0, 1, i*2, i*2))
	}
	out := Filter(pairs, opts)
	for i := 1; i < len(out); i++ {
		assert.True(t, out[i].APos-out[i-1].APos >= uint32(opts.KmerLength) || out[i].APos < out[i-1].APos)
	}
}
