// Package pipeline implements the pipeline coordinator (C9): for every
// block pair (X,Y), build indices, run the seed-merge/diagonal-filter/
// wavefront chain twice (forward and X-complemented), and stream the
// resulting overlaps to a worker shard. Grounded on the block-pair driver
// shape of this lineage's fusion-detection command (open inputs, build
// indices once per block, invoke the seed/filter/align chain, advance) —
// generalized from a single annotated-gene index to the two-orientation,
// two-block index pairing this engine compares.
package pipeline

import (
	"context"
	"errors"

	"github.com/grailbio/dalign/diagfilter"
	"github.com/grailbio/dalign/errtype"
	"github.com/grailbio/dalign/kmerseed"
	"github.com/grailbio/dalign/overlap"
	"github.com/grailbio/dalign/readdb"
	"github.com/grailbio/dalign/seedmerge"
	"github.com/grailbio/dalign/sortmerge"
	"github.com/grailbio/dalign/wavefront"
	"v.io/x/lib/vlog"
)

// Opts configures one comparison pass.
type Opts struct {
	Kmer         kmerseed.Opts
	Diag         diagfilter.Opts
	Align        wavefront.Opts
	MemoryBudget int64
	NThread      int
	CompressTmp  bool
	// Masks gives per-read low-complexity/repeat intervals to exclude
	// from k-mer emission on the X side (spec's "-m" repeat track).
	Masks map[int][]kmerseed.Interval
	// TrimCutoff discards reads shorter than this many bases before
	// indexing (spec's "-H" minimum A-length); 0 keeps every read.
	TrimCutoff int32
	// TrimBestOfWell additionally requires FlagBestOfWell when trimming.
	TrimBestOfWell bool
}

// DefaultOpts wires the per-component defaults together.
var DefaultOpts = Opts{
	Kmer:         kmerseed.DefaultOpts,
	Diag:         diagfilter.DefaultOpts,
	Align:        wavefront.DefaultOpts,
	MemoryBudget: 1 << 30,
	NThread:      4,
	CompressTmp:  true,
}

// ComparePair opens the blocks rooted at xRoot and yRoot (the same root
// names a self-comparison), builds their seed indices plus an X-
// complement index, runs both orientations of the seed/filter/align
// chain, and streams resulting overlaps to outPath as an unsorted worker
// shard. It returns the number of overlaps written.
func ComparePair(ctx context.Context, xRoot, yRoot, outPath string, opts Opts) (int64, error) {
	x, err := readdb.Open(ctx, xRoot)
	if err != nil {
		return 0, err
	}
	self := xRoot == yRoot
	y := x
	if !self {
		y, err = readdb.Open(ctx, yRoot)
		if err != nil {
			return 0, err
		}
	}

	x.Trim(opts.TrimCutoff, opts.TrimBestOfWell)
	if !self {
		y.Trim(opts.TrimCutoff, opts.TrimBestOfWell)
	}
	opts.Align.Freq = x.FreqVector()

	xTuples, err := kmerseed.Build(x, opts.Kmer, opts.Masks)
	if err != nil {
		return 0, err
	}
	xComp := x.Complement()
	// Mirror each mask interval into the reverse-complemented read's
	// coordinates so the complement pass skips the same bases.
	var xCompMasks map[int][]kmerseed.Interval
	if opts.Masks != nil {
		xCompMasks = make(map[int][]kmerseed.Interval, len(opts.Masks))
		for id, ivs := range opts.Masks {
			if id < 0 || id >= xComp.NumReads() {
				continue
			}
			n := int32(xComp.Length(id))
			for _, iv := range ivs {
				xCompMasks[id] = append(xCompMasks[id], kmerseed.Interval{Start: n - iv.End, End: n - iv.Start})
			}
		}
	}
	xCompTuples, err := kmerseed.Build(xComp, opts.Kmer, xCompMasks)
	if err != nil {
		return 0, err
	}
	yTuples := xTuples
	if !self {
		yTuples, err = kmerseed.Build(y, opts.Kmer, nil)
		if err != nil {
			return 0, err
		}
	}

	capLimit := kmerseed.AdaptiveCap(kmerseed.Histogram(xTuples), kmerseed.Histogram(yTuples), opts.MemoryBudget, seedmerge.SeedPairSize)

	w, err := sortmerge.CreateShardWriter(outPath, opts.Align.TraceSpacing, opts.CompressTmp)
	if err != nil {
		return 0, err
	}

	var total int64
	emit := func(tuplesA, tuplesB []kmerseed.Tuple, aBasesOf func(int) []byte, selfPass bool, complement bool) error {
		pairs, err := seedmerge.Merge(tuplesA, tuplesB, selfPass, capLimit, opts.NThread)
		if err != nil {
			return err
		}
		entries := diagfilter.Filter(pairs, opts.Diag)
		vlog.VI(1).Infof("pipeline.ComparePair: %s x %s (complement=%v): %d seed pairs, %d dispatch points", xRoot, yRoot, complement, len(pairs), len(entries))
		for _, e := range entries {
			aBases := aBasesOf(int(e.ARead))
			bBases := y.Bases(int(e.BRead))
			seed := wavefront.Seed{ARead: e.ARead, BRead: e.BRead, APos: int32(e.APos), BPos: int32(e.BPos)}
			ov, err := wavefront.Align(aBases, bBases, seed, opts.Align)
			if err != nil {
				if errors.Is(err, errtype.AlignmentTooDivergent) {
					continue
				}
				return err
			}
			rec := overlapFromAlignment(ov, x.Length(int(e.ARead)), y.Length(int(e.BRead)), complement)
			if err := w.Write(rec); err != nil {
				return err
			}
			total++
		}
		return nil
	}

	if err := emit(xTuples, yTuples, x.Bases, self, false); err != nil {
		w.Close()
		return 0, err
	}
	if err := emit(xCompTuples, yTuples, xComp.Bases, self, true); err != nil {
		w.Close()
		return 0, err
	}

	if err := w.Close(); err != nil {
		return 0, err
	}
	return total, nil
}

func overlapFromAlignment(ov *wavefront.Overlap, alen, blen int, complement bool) overlap.Record {
	trace := make([]uint16, len(ov.Trace))
	for i, tp := range ov.Trace {
		trace[i] = uint16(tp.DeltaB)
	}
	var flags overlap.Flags
	if complement {
		flags |= overlap.FlagComplement
	}
	return overlap.Record{
		ARead: int32(ov.ARead), BRead: int32(ov.BRead),
		ALen: int32(alen), BLen: int32(blen),
		Flags: flags,
		Diffs: ov.Diffs,
		ABPos: ov.ABPos, BBPos: ov.BBPos,
		AEPos: ov.AEPos, BEPos: ov.BEPos,
		Trace: trace,
	}
}
