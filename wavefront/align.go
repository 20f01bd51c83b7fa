// Package wavefront implements the adaptive wavefront local aligner (C5):
// given a seed point in the edit graph between two reads, extend forward
// and backward under a statistical trim criterion and emit a compact
// trace-point path. Grounded on the component structure of an Aligner
// type holding per-diagonal wave arrays and reused via an object pool,
// adapted from gap-affine WFA scoring to this engine's trim statistic; the
// append-only pebble arena replaces the pointer-in-struct trace design
// called out as needing re-architecture.
package wavefront

import (
	"sync"

	"github.com/grailbio/dalign/errtype"
)

// Opts configures one alignment attempt.
type Opts struct {
	// Correlation is the target per-base correlation c used to derive the
	// trim table's match/mismatch weights.
	Correlation float64
	// Freq is the comparison's per-base frequency vector (A,C,G,T order),
	// used to bias the trim table's mismatch tolerance toward the block's
	// actual composition; the zero value is treated as balanced (25% each).
	Freq [4]float32
	// TraceSpacing is T, the number of A columns between trace points.
	TraceSpacing int32
	// MinLength is L: an alignment is kept only if its combined span
	// (aepos-abpos)+(bepos-bbpos) is at least 2*L.
	MinLength int32
	// ArenaLimit bounds the pebble arena; 0 means unbounded.
	ArenaLimit int
	// MaxDif bounds the number of wave iterations; 0 means unbounded
	// (termination relies solely on the statistical criteria).
	MaxDif int32
}

// DefaultOpts matches the published defaults (c=.70, T=100, L=1000).
var DefaultOpts = Opts{
	Correlation:  0.70,
	Freq:         [4]float32{0.25, 0.25, 0.25, 0.25},
	TraceSpacing: 100,
	MinLength:    1000,
	ArenaLimit:   1 << 22,
}

// Seed is a dispatch point handed off by the diagonal filter.
type Seed struct {
	ARead, BRead uint32
	APos, BPos   int32
}

// TracePoint is one (diffs, delta_b) segment of a compact trace.
type TracePoint struct {
	Diffs  int32
	DeltaB int32
}

// Overlap is the local alignment produced by one Align call.
type Overlap struct {
	ARead, BRead uint32
	ABPos, BBPos int32
	AEPos, BEPos int32
	Diffs        int32
	Trace        []TracePoint
}

// aligner holds the scratch an Align call needs; pooled across calls the
// way the teacher pools its per-thread aligner state.
type aligner struct {
	trimTable *[1 << trimWindow]bool
	corr      float64
	freq      [4]float32
}

var pool = sync.Pool{
	New: func() interface{} { return &aligner{} },
}

func getAligner(correlation float64, freq [4]float32) *aligner {
	a := pool.Get().(*aligner)
	if a.trimTable == nil || a.corr != correlation || a.freq != freq {
		a.trimTable = buildTrimTable(correlation, freq)
		a.corr = correlation
		a.freq = freq
	}
	return a
}

func putAligner(a *aligner) { pool.Put(a) }

func reversed(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		out[len(b)-1-i] = c
	}
	return out
}

// Align extends seed into a maximal local alignment between aBases and
// bBases (both 2-bit read codes with sentinel 4 at termini). Coordinates
// in the returned Overlap are absolute read positions.
func Align(aBases, bBases []byte, seed Seed, opts Opts) (*Overlap, error) {
	al := getAligner(opts.Correlation, opts.Freq)
	defer putAligner(al)

	fwdArena := newArena(opts.ArenaLimit)
	revArena := newArena(opts.ArenaLimit)

	fwd, err := extend(aBases[seed.APos:], bBases[seed.BPos:], opts.TraceSpacing, al.trimTable, fwdArena, opts.MaxDif)
	if err != nil {
		return nil, err
	}
	rev, err := extend(reversed(aBases[:seed.APos]), reversed(bBases[:seed.BPos]), opts.TraceSpacing, al.trimTable, revArena, opts.MaxDif)
	if err != nil {
		return nil, err
	}
	if !fwd.found && !rev.found {
		return nil, errtype.AlignmentTooDivergent
	}

	abpos := seed.APos - rev.a
	bbpos := seed.BPos - rev.b
	aepos := seed.APos + fwd.a
	bepos := seed.BPos + fwd.b
	totalDiffs := rev.dif + fwd.dif

	if (aepos-abpos)+(bepos-bbpos) < 2*opts.MinLength {
		return nil, errtype.AlignmentTooDivergent
	}

	type marker struct {
		b, dif int32
	}
	var markers []marker
	markers = append(markers, marker{b: bbpos, dif: 0})

	revPebbles := revArena.walk(rev.pebbleHead)
	for i := len(revPebbles) - 1; i >= 0; i-- {
		p := revPebbles[i]
		markers = append(markers, marker{
			b:   seed.BPos - p.bpos,
			dif: rev.dif - p.dif,
		})
	}
	fwdPebbles := fwdArena.walk(fwd.pebbleHead)
	for _, p := range fwdPebbles {
		markers = append(markers, marker{
			b:   seed.BPos + p.bpos,
			dif: rev.dif + p.dif,
		})
	}
	markers = append(markers, marker{b: bepos, dif: totalDiffs})

	trace := make([]TracePoint, 0, len(markers)-1)
	for i := 1; i < len(markers); i++ {
		trace = append(trace, TracePoint{
			Diffs:  markers[i].dif - markers[i-1].dif,
			DeltaB: markers[i].b - markers[i-1].b,
		})
	}

	return &Overlap{
		ARead: seed.ARead, BRead: seed.BRead,
		ABPos: abpos, BBPos: bbpos,
		AEPos: aepos, BEPos: bepos,
		Diffs: totalDiffs,
		Trace: trace,
	}, nil
}
