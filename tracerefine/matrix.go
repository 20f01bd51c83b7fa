package tracerefine

import "sync"

// matrix is a reusable row-major edit-distance matrix, grown on demand and
// kept between calls the way the barcode-distance matrix is rebuilt cell
// by cell as the comparison window widens.
type matrix struct {
	nRow, nCol int
	data       []int32
}

func (m *matrix) reset(rows, cols int) {
	need := rows * cols
	if cap(m.data) < need {
		m.data = make([]int32, need)
	} else {
		m.data = m.data[:need]
	}
	m.nRow, m.nCol = rows, cols
}

func (m *matrix) at(i, j int) int32     { return m.data[i*m.nCol+j] }
func (m *matrix) set(i, j int, v int32) { m.data[i*m.nCol+j] = v }

// Pool hands out thread-local matrix scratch, reused across RefineTrace
// calls the way the trace refiner is required to reuse its O(D^2) wave
// matrix from a thread-local pool instead of reallocating per segment.
type Pool struct {
	matrices sync.Pool
	rows     sync.Pool
}

// NewPool returns a fresh, empty pool.
func NewPool() *Pool {
	return &Pool{
		matrices: sync.Pool{New: func() interface{} { return &matrix{} }},
		rows:     sync.Pool{New: func() interface{} { return &[]int32{} }},
	}
}

func (p *Pool) getMatrix() *matrix { return p.matrices.Get().(*matrix) }
func (p *Pool) putMatrix(m *matrix) { p.matrices.Put(m) }

func (p *Pool) getRow(n int) []int32 {
	r := p.rows.Get().(*[]int32)
	if cap(*r) < n {
		*r = make([]int32, n)
	}
	return (*r)[:n]
}
func (p *Pool) putRow(r []int32) { p.rows.Put(&r) }
