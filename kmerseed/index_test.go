package kmerseed

import (
	"testing"

	"github.com/grailbio/dalign/readdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildUnbiasedEmitsEveryWindow(t *testing.T) {
	block, err := readdb.NewFromBases([]string{"ACGTACGTAC"})
	require.NoError(t, err)
	tuples, err := Build(block, Opts{KmerLength: 4, NThread: 1}, nil)
	require.NoError(t, err)
	assert.Equal(t, 7, len(tuples)) // 10 - 4 + 1
	assert.True(t, SortedByCode(tuples))
}

func TestBuildIsSortedByCodeThenReadThenPos(t *testing.T) {
	block, err := readdb.NewFromBases([]string{"AAAA", "AAAA"})
	require.NoError(t, err)
	tuples, err := Build(block, Opts{KmerLength: 4, NThread: 2}, nil)
	require.NoError(t, err)
	require.Len(t, tuples, 2)
	assert.Equal(t, tuples[0].Code, tuples[1].Code)
	assert.True(t, tuples[0].Read < tuples[1].Read)
}

func TestMaskSkipsInterval(t *testing.T) {
	block, err := readdb.NewFromBases([]string{"ACGTACGTAC"})
	require.NoError(t, err)
	tuples, err := Build(block, Opts{KmerLength: 4, NThread: 1}, map[int][]Interval{0: {{Start: 0, End: 5}}})
	require.NoError(t, err)
	for _, tup := range tuples {
		assert.True(t, tup.Pos >= 5 || tup.Pos == 5)
	}
}

func TestHistogramAndApplyCap(t *testing.T) {
	tuples := []Tuple{
		{Code: 1, Read: 0, Pos: 0},
		{Code: 1, Read: 0, Pos: 1},
		{Code: 1, Read: 1, Pos: 0},
		{Code: 2, Read: 0, Pos: 2},
	}
	h := Histogram(tuples)
	assert.Equal(t, int64(1), h[3]) // code 1 occurs 3 times
	assert.Equal(t, int64(1), h[1]) // code 2 occurs once

	capped := ApplyCap(append([]Tuple(nil), tuples...), 2)
	for _, tup := range capped {
		assert.NotEqual(t, Code(1), tup.Code)
	}
	assert.Len(t, capped, 1)
}

func TestBuildAppliesFrequencyCap(t *testing.T) {
	block, err := readdb.NewFromBases([]string{"AAAAAAAAAA"})
	require.NoError(t, err)
	tuples, err := Build(block, Opts{KmerLength: 4, NThread: 1, FrequencyCap: 3}, nil)
	require.NoError(t, err)
	assert.Empty(t, tuples) // all 7 windows share one code, over the cap of 3
}

func TestAdaptiveCapShrinksUnderTightBudget(t *testing.T) {
	hA := map[int]int64{1: 100, 5: 10, 50: 1}
	hB := map[int]int64{1: 100, 5: 10, 50: 1}
	cap := AdaptiveCap(hA, hB, 1<<16, 16)
	assert.True(t, cap >= 1 && cap < 50)
}
