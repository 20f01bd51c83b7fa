package radix

import (
	"encoding/binary"
	"math/rand"
	"sort"
	"testing"

	"blainsmith.com/go/seahash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// record: 8 bytes key (big-endian uint64) + 4 bytes payload.
const recSize = 12

func makeRecords(n int, seed int64) []byte {
	r := rand.New(rand.NewSource(seed))
	buf := make([]byte, n*recSize)
	for i := 0; i < n; i++ {
		key := r.Uint64() % 997 // force collisions, exercising stability
		binary.BigEndian.PutUint64(buf[i*recSize:], key)
		binary.BigEndian.PutUint32(buf[i*recSize+8:], uint32(i)) // original index, for stability check
	}
	return buf
}

func TestSortMatchesStableComparisonSort(t *testing.T) {
	n := 5000
	data := makeRecords(n, 42)
	scratch := make([]byte, len(data))
	offsets := []int{0, 1, 2, 3, 4, 5, 6, 7}

	got, err := Sort(append([]byte(nil), data...), scratch, recSize, offsets, 4)
	require.NoError(t, err)

	type rec struct {
		key   uint64
		index uint32
	}
	recs := make([]rec, n)
	for i := 0; i < n; i++ {
		recs[i] = rec{
			key:   binary.BigEndian.Uint64(data[i*recSize:]),
			index: binary.BigEndian.Uint32(data[i*recSize+8:]),
		}
	}
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].key < recs[j].key })

	for i := 0; i < n; i++ {
		wantKey := recs[i].key
		wantIdx := recs[i].index
		gotKey := binary.BigEndian.Uint64(got[i*recSize:])
		gotIdx := binary.BigEndian.Uint32(got[i*recSize+8:])
		assert.Equal(t, wantKey, gotKey, "position %d", i)
		assert.Equal(t, wantIdx, gotIdx, "position %d (stability)", i)
	}
}

func TestSortRejectsBadArguments(t *testing.T) {
	data := make([]byte, 12)
	scratch := make([]byte, 12)
	_, err := Sort(data, scratch, 5, []int{0}, 1)
	assert.Error(t, err)

	_, err = Sort(data, scratch, 12, []int{12}, 1)
	assert.Error(t, err)
}

// TestSortChecksumMatchesComparisonSort hashes the radix-sorted byte
// stream and a stable-comparison-sorted copy of the same records with
// seahash and checks the checksums agree, the same "hash both orderings
// and compare" property check the teacher's own dependency set
// (blainsmith.com/go/seahash) is used for elsewhere in the pack.
func TestSortChecksumMatchesComparisonSort(t *testing.T) {
	n := 3000
	data := makeRecords(n, 7)
	scratch := make([]byte, len(data))
	offsets := []int{0, 1, 2, 3, 4, 5, 6, 7}

	got, err := Sort(append([]byte(nil), data...), scratch, recSize, offsets, 3)
	require.NoError(t, err)

	type rec struct {
		key   uint64
		index uint32
	}
	recs := make([]rec, n)
	for i := 0; i < n; i++ {
		recs[i] = rec{
			key:   binary.BigEndian.Uint64(data[i*recSize:]),
			index: binary.BigEndian.Uint32(data[i*recSize+8:]),
		}
	}
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].key < recs[j].key })
	want := make([]byte, len(data))
	for i, r := range recs {
		binary.BigEndian.PutUint64(want[i*recSize:], r.key)
		binary.BigEndian.PutUint32(want[i*recSize+8:], r.index)
	}

	assert.Equal(t, seahash.Sum64(want), seahash.Sum64(got))
}

func TestSortEmptyAndSingleton(t *testing.T) {
	empty, err := Sort([]byte{}, []byte{}, recSize, []int{0}, 4)
	require.NoError(t, err)
	assert.Empty(t, empty)

	data := makeRecords(1, 1)
	scratch := make([]byte, len(data))
	got, err := Sort(data, scratch, recSize, []int{0}, 4)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}
