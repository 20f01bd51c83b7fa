package seedmerge

import (
	"testing"

	"github.com/grailbio/dalign/kmerseed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeEmitsSharedCodesOnly(t *testing.T) {
	a := []kmerseed.Tuple{{Code: 1, Read: 0, Pos: 0}, {Code: 2, Read: 0, Pos: 1}}
	b := []kmerseed.Tuple{{Code: 2, Read: 5, Pos: 7}, {Code: 3, Read: 5, Pos: 8}}
	pairs, err := Merge(a, b, false, 0, 1)
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, SeedPair{BRead: 5, ARead: 0, APos: 1, BPos: 7}, pairs[0])
}

func TestMergeSelfComparisonEnforcesStrictOrder(t *testing.T) {
	a := []kmerseed.Tuple{{Code: 1, Read: 0, Pos: 0}, {Code: 1, Read: 1, Pos: 0}}
	pairs, err := Merge(a, a, true, 0, 1)
	require.NoError(t, err)
	for _, p := range pairs {
		assert.True(t, p.BRead > p.ARead)
	}
}

func TestMergeRespectsCap(t *testing.T) {
	a := []kmerseed.Tuple{{Code: 1, Read: 0}, {Code: 1, Read: 1}, {Code: 1, Read: 2}}
	b := []kmerseed.Tuple{{Code: 1, Read: 10}, {Code: 1, Read: 11}, {Code: 1, Read: 12}}
	pairs, err := Merge(a, b, false, 4 /* 3*3=9 > 4 */, 1)
	require.NoError(t, err)
	assert.Len(t, pairs, 0)
}

func TestMergeOutputSortedByBreadAreadAposBpos(t *testing.T) {
	a := []kmerseed.Tuple{{Code: 1, Read: 9, Pos: 1}, {Code: 1, Read: 3, Pos: 1}}
	b := []kmerseed.Tuple{{Code: 1, Read: 1, Pos: 1}}
	pairs, err := Merge(a, b, false, 0, 2)
	require.NoError(t, err)
	for i := 1; i < len(pairs); i++ {
		p, q := pairs[i-1], pairs[i]
		assert.True(t, p.BRead < q.BRead || (p.BRead == q.BRead && (p.ARead < q.ARead ||
			(p.ARead == q.ARead && (p.APos < q.APos || (p.APos == q.APos && p.BPos <= q.BPos)))))),
			"pairs %d and %d out of (bread, aread, apos, bpos) order", i-1, i)
	}
}
