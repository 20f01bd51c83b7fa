package wavefront

import "github.com/grailbio/dalign/errtype"

// pebble is one cell of the append-only trace-point arena: a parent link
// plus the diagonal and coordinate at which a trace point was recorded.
// The arena owns its storage; cells are never mutated after insertion and
// no cycles exist, since a cell's parent index is always smaller than its
// own index.
type pebble struct {
	parent int32
	diag   int32
	apos   int32
	bpos   int32
	dif    int32
}

const noParent = -1

// arena is thread-local: one instance per extension direction of an Align
// call, never shared across goroutines.
type arena struct {
	cells []pebble
	limit int
}

func newArena(limit int) *arena {
	return &arena{limit: limit}
}

func (a *arena) append(parent int32, diag, apos, bpos, dif int32) (int32, error) {
	if a.limit > 0 && len(a.cells) >= a.limit {
		return 0, errtype.ResourceExhausted
	}
	a.cells = append(a.cells, pebble{parent: parent, diag: diag, apos: apos, bpos: bpos, dif: dif})
	return int32(len(a.cells) - 1), nil
}

// walk follows parent pointers from head back to the root, returning
// pebbles in root-to-head order.
func (a *arena) walk(head int32) []pebble {
	var rev []pebble
	for head != noParent {
		c := a.cells[head]
		rev = append(rev, c)
		head = c.parent
	}
	out := make([]pebble, len(rev))
	for i, c := range rev {
		out[len(rev)-1-i] = c
	}
	return out
}
