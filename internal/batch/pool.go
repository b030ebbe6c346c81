package batch

import (
	"sync"

	"github.com/san-kum/sixdof/internal/joint"
)

// RowPool recycles row buffers between steps.
type RowPool struct {
	pool sync.Pool
}

func NewRowPool() *RowPool {
	return &RowPool{}
}

// Get returns a zeroed buffer of length n.
func (p *RowPool) Get(n int) []joint.Row {
	if v, ok := p.pool.Get().(*[]joint.Row); ok && cap(*v) >= n {
		rows := (*v)[:n]
		clear(rows)
		return rows
	}
	return make([]joint.Row, n)
}

// Put returns rows to the pool. Buffers are stored as *[]joint.Row.
func (p *RowPool) Put(rows []joint.Row) {
	if cap(rows) == 0 {
		return
	}
	rows = rows[:0]
	p.pool.Put(&rows)
}
