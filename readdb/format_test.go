package readdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdxHeaderRoundTrip(t *testing.T) {
	h := idxHeader{
		NReads:       1234,
		Cutoff:       1000,
		All:          1,
		Freq:         [4]float32{0.3, 0.2, 0.2, 0.3},
		MaxLen:       50000,
		TotLen:       9000000,
		TrimmedReads: 1200,
		TraceSpace:   100,
	}
	buf := h.marshal()
	assert.Len(t, buf, idxHeaderSize)
	got := unmarshalIdxHeader(buf)
	assert.Equal(t, h, got)
}

func TestReadRecordRoundTrip(t *testing.T) {
	r := ReadRecord{Origin: 5, RLen: 2000, FPulse: 10, BOff: 4096, COff: 8192, Flags: FlagBestOfWell}
	buf := marshalReadRecord(r)
	assert.Len(t, buf, readRecordSize)
	got := unmarshalReadRecord(buf)
	assert.Equal(t, r, got)
}
