package wavefront

import "math/bits"

// diagState is the per-diagonal wave state: the furthest-reaching
// a-coordinate, the last 64 slid columns of match/mismatch history, its
// popcount, the pebble-arena head for each side, and the next a/b
// coordinate at which a trace point must be recorded.
type diagState struct {
	v      int32
	t      uint64
	m      int8
	ha, hb int32
	na, nb int32
	active bool
}

// waveRow is a dense, dynamically-recentered array of diagState indexed by
// diagonal k, the way the source keeps fixed per-diagonal arrays and
// recenters them as the active window shifts.
type waveRow struct {
	lo int32
	d  []diagState
}

func (w *waveRow) get(k int32) diagState {
	i := k - w.lo
	if i < 0 || int(i) >= len(w.d) {
		return diagState{v: -1}
	}
	return w.d[i]
}

func (w *waveRow) ensure(loK, hghK int32) {
	if len(w.d) == 0 {
		w.lo = loK
		w.d = make([]diagState, hghK-loK+1)
		return
	}
	if loK < w.lo {
		pre := w.lo - loK
		nd := make([]diagState, int32(len(w.d))+pre)
		copy(nd[pre:], w.d)
		w.d = nd
		w.lo = loK
	}
	curHgh := w.lo + int32(len(w.d)) - 1
	if hghK > curHgh {
		add := hghK - curHgh
		w.d = append(w.d, make([]diagState, add)...)
	}
}

func (w *waveRow) set(k int32, s diagState) {
	w.ensure(k, k)
	w.d[k-w.lo] = s
}

// waveResult is what one directional extension (forward or reverse)
// produces from a seed.
type waveResult struct {
	diag       int32
	a, b       int32 // trim-point coordinates, relative to the seed origin
	dif        int32
	pebbleHead int32
	found      bool
}

// extend runs the adaptive wave from the seed outward through aBases,
// bBases (already sliced and oriented so the seed sits at (0,0) and
// "forward" always means increasing index). It stops after TRIM_MLAG waves
// without an improved trim point, when no diagonal can advance any further
// inside either sequence, when no diagonal is left inside
// [best-WAVE_LAG, best], or after maxDif waves when maxDif > 0. Clipping
// against a sentinel base is not tracked per boundary and does not by
// itself end the extension.
func extend(aBases, bBases []byte, traceSpacing int32, trimTable *[1 << trimWindow]bool, ar *arena, maxDif int32) (waveResult, error) {
	const (
		traceMlag = 200
		waveLag   = 30
	)
	lenA, lenB := int32(len(aBases)), int32(len(bBases))

	prev := &waveRow{}
	prev.set(0, diagState{v: -1, ha: noParent, hb: noParent, na: traceSpacing, nb: traceSpacing, active: true})

	var best waveResult
	lastImprove := int32(0)
	lo, hgh := int32(0), int32(0)

	slide := func(s *diagState, k int32) (aClip, bClip bool) {
		a := s.v
		b := a - k
		for a < lenA && b < lenB {
			ca, cb := aBases[a], bBases[b]
			if ca == 4 || cb == 4 {
				if ca == 4 {
					aClip = true
				}
				if cb == 4 {
					bClip = true
				}
				break
			}
			match := ca == cb
			a++
			b++
			s.t = (s.t << 1)
			if match {
				s.t |= 1
			}
		}
		s.m = int8(bits.OnesCount64(s.t))
		s.v = a
		return
	}

	recordTrace := func(s *diagState, k, dif int32) error {
		a := s.v
		b := a - k
		for a >= s.na && s.na <= lenA {
			head, err := ar.append(s.ha, k, a, b, dif)
			if err != nil {
				return err
			}
			s.ha = head
			s.na += traceSpacing
		}
		for b >= s.nb && s.nb <= lenB {
			head, err := ar.append(s.hb, k, a, b, dif)
			if err != nil {
				return err
			}
			s.hb = head
			s.nb += traceSpacing
		}
		return nil
	}

	for dif := int32(0); maxDif <= 0 || dif <= maxDif; dif++ {
		next := &waveRow{}
		anyActive := false
		for k := lo - 1; k <= hgh+1; k++ {
			left := prev.get(k - 1)
			right := prev.get(k + 1)
			same := prev.get(k)

			cand := int32(-1)
			var src diagState
			if left.active && left.v+1 > cand {
				cand, src = left.v+1, left
			}
			if right.active && right.v > cand {
				cand, src = right.v, right
			}
			if same.active && same.v+1 > cand {
				cand, src = same.v+1, same
			}
			if cand < 0 {
				continue
			}
			b := cand - k
			if cand > lenA || b > lenB || cand < 0 || b < 0 {
				continue
			}
			ns := src
			ns.v = cand
			ns.active = true
			aClip, bClip := slide(&ns, k)
			_ = aClip
			_ = bClip
			if err := recordTrace(&ns, k, dif); err != nil {
				return waveResult{}, err
			}
			next.set(k, ns)
			anyActive = true

			if passesTrim(ns.t, trimTable) {
				if !best.found || ns.v > best.a {
					best = waveResult{diag: k, a: ns.v, b: ns.v - k, dif: dif, pebbleHead: ns.ha, found: true}
					lastImprove = dif
				}
			}
		}
		if !anyActive {
			break
		}
		if dif-lastImprove >= traceMlag {
			break
		}
		// prune to [best-waveLag, best] around the current best a-reaching
		// diagonal's position; widen the active window by one each wave.
		lo--
		hgh++
		if best.found {
			anyInWindow := false
			for k := lo; k <= hgh; k++ {
				s := next.get(k)
				if s.active && s.v < best.a-waveLag {
					s.active = false
					next.set(k, s)
					continue
				}
				if s.active {
					anyInWindow = true
				}
			}
			if !anyInWindow {
				prev = next
				break
			}
		}
		prev = next
	}
	return best, nil
}
