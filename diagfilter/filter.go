// Package diagfilter implements the diagonal filter (C4): per (aread,
// bread) group, bin seeds by diagonal, score each bin by non-overlapping
// seed coverage, and walk survivors forward picking dispatch points for
// the wavefront aligner. Grounded on the diagonal/tube-banding approach of
// the PALS q-gram filter, adapted from that filter's fixed tube-offset
// banding to this spec's power-of-two bin granularity and survivor-walk
// domination rule.
package diagfilter

import (
	"github.com/grailbio/dalign/seedmerge"
)

// Opts controls the filter.
type Opts struct {
	// BinWidth is w: seeds are binned at diagonal granularity 2^w.
	BinWidth int
	// HitThreshold is h, in bases: a bin survives if its score plus its
	// neighbors' scores reaches this.
	HitThreshold int
	// KmerLength is k, used both for the non-overlap coverage score and
	// for the "within k bases" same-diagonal domination check.
	KmerLength int
}

// DefaultOpts matches the published defaults: w=6 (64-diagonal bins), h=35bp.
var DefaultOpts = Opts{BinWidth: 6, HitThreshold: 35, KmerLength: 14}

// EntryPoint is a seed dispatched to the wavefront aligner as an extension
// origin.
type EntryPoint struct {
	ARead, BRead uint32
	APos, BPos   uint32
}

func bucketOf(apos, bpos uint32, w int) int32 {
	diag := int64(apos) - int64(bpos)
	// floor division by 2^w, correct for negative diag.
	return int32(diag >> uint(w))
}

// Filter processes pairs — already sorted by (bread, aread, apos, bpos) —
// and returns, per (aread,bread) group, the set of seeds that survive
// diagonal scoring and are not dominated by an already-dispatched
// survivor.
func Filter(pairs []seedmerge.SeedPair, opts Opts) []EntryPoint {
	var out []EntryPoint
	i := 0
	for i < len(pairs) {
		j := i + 1
		for j < len(pairs) && pairs[j].BRead == pairs[i].BRead && pairs[j].ARead == pairs[i].ARead {
			j++
		}
		out = append(out, filterGroup(pairs[i:j], opts)...)
		i = j
	}
	return out
}

func filterGroup(group []seedmerge.SeedPair, opts Opts) []EntryPoint {
	w := opts.BinWidth
	k := int64(opts.KmerLength)

	score := map[int32]int64{}
	lastAPos := map[int32]int64{}
	touched := make([]int32, 0, len(group))

	for _, s := range group {
		d := bucketOf(s.APos, s.BPos, w)
		last, ok := lastAPos[d]
		if !ok {
			last = -(1 << 32)
			touched = append(touched, d)
		}
		advance := int64(s.APos) - last
		if advance > k {
			advance = k
		}
		if advance < 0 {
			advance = 0
		}
		score[d] += advance
		lastAPos[d] = int64(s.APos)
	}

	survives := func(d int32) bool {
		return score[d-1]+score[d]+score[d+1] >= int64(opts.HitThreshold)
	}

	var out []EntryPoint
	lastDispatchAPos := map[int32]int64{}
	globalLastAPos := int64(-(1 << 32))
	for _, s := range group {
		d := bucketOf(s.APos, s.BPos, w)
		if !survives(d) {
			continue
		}
		if last, ok := lastDispatchAPos[d]; ok && int64(s.APos)-last < k {
			continue // dominated: same diagonal, within k bases of last dispatch
		}
		if _, ok := lastDispatchAPos[d]; !ok && int64(s.APos) <= globalLastAPos {
			continue // dominated: different diagonal but behind the last survivor
		}
		lastDispatchAPos[d] = int64(s.APos)
		if int64(s.APos) > globalLastAPos {
			globalLastAPos = int64(s.APos)
		}
		out = append(out, EntryPoint{ARead: s.ARead, BRead: s.BRead, APos: s.APos, BPos: s.BPos})
	}

	// touched is retained for parity with the described "small scratch
	// list" reset strategy; scores/lastAPos here are already
	// per-group-local maps so no explicit reset step is needed.
	_ = touched
	return out
}
