// Package seedkey defines the strict total orders of overlap records,
// (aread, bread, comp, abpos), and of the seed pairs that precede them,
// (bread, aread, apos, bpos). The comparator methods mirror the Coord/CoordRange convenience
// methods used elsewhere in this lineage for genomic coordinates.
package seedkey

// OverlapKey is the sort key invariant I5 is defined over: the output file
// of a per-pair run is strictly ordered by this 4-tuple, with no two
// records sharing the full key.
type OverlapKey struct {
	ARead, BRead int32
	Comp         bool // true if B was reverse-complemented
	ABPos        int32
}

func compBit(c bool) int32 {
	if c {
		return 1
	}
	return 0
}

// Compare returns a negative, zero, or positive int as k sorts before,
// equal to, or after k1.
func (k OverlapKey) Compare(k1 OverlapKey) int {
	if k.ARead != k1.ARead {
		return int(k.ARead - k1.ARead)
	}
	if k.BRead != k1.BRead {
		return int(k.BRead - k1.BRead)
	}
	if d := compBit(k.Comp) - compBit(k1.Comp); d != 0 {
		return int(d)
	}
	return int(k.ABPos - k1.ABPos)
}

// LT returns true iff k < k1.
func (k OverlapKey) LT(k1 OverlapKey) bool { return k.Compare(k1) < 0 }

// LE returns true iff k <= k1.
func (k OverlapKey) LE(k1 OverlapKey) bool { return k.Compare(k1) <= 0 }

// GE returns true iff k >= k1.
func (k OverlapKey) GE(k1 OverlapKey) bool { return k.Compare(k1) >= 0 }

// GT returns true iff k > k1.
func (k OverlapKey) GT(k1 OverlapKey) bool { return k.Compare(k1) > 0 }

// EQ returns true iff k and k1 are the identical key (the I5 duplicate
// check consumes this directly).
func (k OverlapKey) EQ(k1 OverlapKey) bool { return k.Compare(k1) == 0 }

// SeedPairKey is the sort key C3 orders seed pairs by before C4 consumes
// them: (bread, aread, apos, bpos).
type SeedPairKey struct {
	BRead, ARead int32
	APos, BPos   int32
}

// Compare returns a negative, zero, or positive int as k sorts before,
// equal to, or after k1.
func (k SeedPairKey) Compare(k1 SeedPairKey) int {
	if k.BRead != k1.BRead {
		return int(k.BRead - k1.BRead)
	}
	if k.ARead != k1.ARead {
		return int(k.ARead - k1.ARead)
	}
	if k.APos != k1.APos {
		return int(k.APos - k1.APos)
	}
	return int(k.BPos - k1.BPos)
}

// LT returns true iff k < k1.
func (k SeedPairKey) LT(k1 SeedPairKey) bool { return k.Compare(k1) < 0 }
