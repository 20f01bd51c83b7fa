package tracerefine

// midThreshold bounds the recursion base case: segments at or below this
// size are refined directly with the full matrix instead of being split
// further.
const midThreshold = 32

// refineMID finds the half-diagonal of the local optimum via a
// bidirectional linear-space cost sweep, then recurses on both halves.
// This is the space-efficient bisection form of the bidirectional wave
// spec describes, producing the same split-and-recurse structure without
// materializing a full matrix for large segments.
func refineMID(aSeg, bSeg []byte, pool *Pool) []Op {
	if len(aSeg) <= midThreshold || len(bSeg) <= midThreshold {
		ops, _ := refinePTS(aSeg, bSeg, pool)
		return ops
	}

	mid := len(aSeg) / 2
	fwd := costRow(aSeg[:mid], bSeg, pool)
	bwd := costRow(reverseBytes(aSeg[mid:]), reverseBytes(bSeg), pool)

	bestJ, bestCost := 0, int32(1<<30)
	for j := 0; j <= len(bSeg); j++ {
		c := fwd[j] + bwd[len(bSeg)-j]
		if c < bestCost {
			bestCost, bestJ = c, j
		}
	}
	pool.putRow(fwd)
	pool.putRow(bwd)

	left := refineMID(aSeg[:mid], bSeg[:bestJ], pool)
	right := refineMID(aSeg[mid:], bSeg[bestJ:], pool)
	return append(left, offsetOps(right, int32(mid), int32(bestJ))...)
}

// costRow returns the final row of the Needleman-Wunsch cost table for
// aSeg against bSeg, computed in O(|bSeg|) space.
func costRow(aSeg, bSeg []byte, pool *Pool) []int32 {
	prev := pool.getRow(len(bSeg) + 1)
	cur := pool.getRow(len(bSeg) + 1)
	for j := range prev {
		prev[j] = int32(j)
	}
	for i := 1; i <= len(aSeg); i++ {
		cur[0] = int32(i)
		for j := 1; j <= len(bSeg); j++ {
			if aSeg[i-1] == bSeg[j-1] {
				cur[j] = prev[j-1]
				continue
			}
			best := prev[j-1] + 1
			if prev[j]+1 < best {
				best = prev[j] + 1
			}
			if cur[j-1]+1 < best {
				best = cur[j-1] + 1
			}
			cur[j] = best
		}
		prev, cur = cur, prev
	}
	out := make([]int32, len(prev))
	copy(out, prev)
	pool.putRow(cur)
	pool.putRow(prev)
	return out
}

func reverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		out[len(b)-1-i] = c
	}
	return out
}
