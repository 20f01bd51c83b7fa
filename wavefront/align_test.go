package wavefront

import (
	"strings"
	"testing"

	"github.com/grailbio/dalign/errtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encode(s string) []byte {
	code := map[byte]byte{'A': 0, 'C': 1, 'G': 2, 'T': 3}
	out := make([]byte, len(s)+2)
	out[0] = 4
	for i := 0; i < len(s); i++ {
		out[i+1] = code[s[i]]
	}
	out[len(s)+1] = 4
	return out
}

func repeatSeq(unit string, n int) string { return strings.Repeat(unit, n) }

func TestAlignIdenticalSequencesCoverFullLength(t *testing.T) {
	seq := repeatSeq("ACGTACGTAC", 150) // 1500bp
	a := encode(seq)
	b := encode(seq)
	seed := Seed{ARead: 0, BRead: 1, APos: 10, BPos: 10}
	opts := Opts{Correlation: 0.70, TraceSpacing: 100, MinLength: 500, ArenaLimit: 1 << 16}
	ov, err := Align(a, b, seed, opts)
	require.NoError(t, err)
	assert.Equal(t, int32(0), ov.Diffs)
	assert.True(t, ov.AEPos-ov.ABPos > 1000)

	var sumDelta, sumDiff int32
	for _, tp := range ov.Trace {
		sumDelta += tp.DeltaB
		sumDiff += tp.Diffs
	}
	assert.Equal(t, ov.BEPos-ov.BBPos, sumDelta)
	assert.Equal(t, ov.Diffs, sumDiff)
}

func TestAlignUnrelatedSequencesFailsDivergent(t *testing.T) {
	a := encode(repeatSeq("AAAA", 400))
	b := encode(repeatSeq("CGCG", 400))
	seed := Seed{ARead: 0, BRead: 1, APos: 10, BPos: 10}
	opts := Opts{Correlation: 0.70, TraceSpacing: 100, MinLength: 500, ArenaLimit: 1 << 16, MaxDif: 50}
	_, err := Align(a, b, seed, opts)
	require.Error(t, err)
	assert.ErrorIs(t, err, errtype.AlignmentTooDivergent)
}
