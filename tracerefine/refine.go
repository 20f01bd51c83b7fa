// Package tracerefine implements the trace refiner (C6): given a Path's
// compact trace points and the two underlying reads, reconstruct the
// exact edit trace segment by segment. Grounded on the dynamic-programming
// matrix and traceback-operation idiom of this lineage's barcode
// Levenshtein distance (matrix reuse, operation marking to choose the
// traceback direction), generalized from whole-barcode distance to
// per-segment edit distance with a reusable thread-local matrix pool.
package tracerefine

import (
	"github.com/grailbio/dalign/errtype"
	"github.com/grailbio/dalign/wavefront"
	"github.com/pkg/errors"
)

// Algorithm selects which of the two trace-refinement strategies to run.
type Algorithm int

const (
	// PTS runs a direct O(NP)-equivalent edit distance per segment: fast,
	// near-optimal.
	PTS Algorithm = iota
	// MID finds the half-diagonal of the local optimum via a bidirectional
	// sweep before recursing, producing better alignments across segment
	// boundaries at roughly twice the cost.
	MID
)

// RefineTrace reconstructs the exact edit trace for a Path. aBases/bBases
// are the full underlying reads; abpos/bbpos/aepos/bepos and trace come
// from the Path produced by the wavefront aligner.
func RefineTrace(aBases, bBases []byte, abpos, bbpos, aepos, bepos int32, trace []wavefront.TracePoint, traceSpacing int32, algo Algorithm, pool *Pool) ([]Op, error) {
	if len(trace) == 0 {
		return nil, nil
	}
	aBreaks := make([]int32, 0, len(trace)+1)
	aBreaks = append(aBreaks, abpos)
	firstGrid := (abpos/traceSpacing + 1) * traceSpacing
	for p := firstGrid; p < aepos; p += traceSpacing {
		aBreaks = append(aBreaks, p)
	}
	aBreaks = append(aBreaks, aepos)
	if len(aBreaks)-1 != len(trace) {
		return nil, errors.Wrapf(errtype.CorruptFile, "trace grid mismatch: %d breaks for %d trace points", len(aBreaks)-1, len(trace))
	}

	bBreaks := make([]int32, len(trace)+1)
	bBreaks[0] = bbpos
	for i, tp := range trace {
		bBreaks[i+1] = bBreaks[i] + tp.DeltaB
	}
	if bBreaks[len(trace)] != bepos {
		return nil, errors.Wrapf(errtype.CorruptFile, "trace delta_b sum %d does not reach bepos %d", bBreaks[len(trace)], bepos)
	}

	var full []Op
	for i := range trace {
		aSeg := aBases[aBreaks[i]:aBreaks[i+1]]
		bSeg := bBases[bBreaks[i]:bBreaks[i+1]]
		var ops []Op
		switch algo {
		case MID:
			ops = refineMID(aSeg, bSeg, pool)
		default:
			var err error
			ops, err = refinePTS(aSeg, bSeg, pool)
			if err != nil {
				return nil, err
			}
		}
		full = append(full, offsetOps(ops, aBreaks[i], bBreaks[i])...)
	}
	return full, nil
}
