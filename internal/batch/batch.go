// Package batch allocates and fills many independent joints in parallel into
// one shared row buffer.
package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/sixdof/internal/joint"
	"github.com/san-kum/sixdof/internal/lcp"
)

var ErrDuplicateJoint = errors.New("batch: joint listed twice")

type Options struct {
	// Workers caps concurrent goroutines; zero uses GOMAXPROCS.
	Workers int
	// MinChunk is the smallest number of joints handed to one goroutine.
	MinChunk int
	Params   joint.SolverParams
}

func DefaultOptions() Options {
	return Options{MinChunk: 8, Params: joint.DefaultSolverParams()}
}

// Result holds the rows of one batch. Rows[Offsets[i]:Offsets[i]+Allocations[i].Rows]
// belong to joint i.
type Result struct {
	Allocations []*joint.Allocation
	Offsets     []int
	Rows        []joint.Row
	Nub         int
}

// Process runs the allocate phase for every joint, lays the rows out
// back to back and runs the fill phase. Joints may share bodies but must not
// repeat. Tracers installed on the joints are called from worker goroutines.
func Process(ctx context.Context, joints []*joint.Joint, opts Options, pool *RowPool) (*Result, error) {
	seen := make(map[*joint.Joint]struct{}, len(joints))
	for i, j := range joints {
		if _, dup := seen[j]; dup {
			return nil, fmt.Errorf("%w: index %d", ErrDuplicateJoint, i)
		}
		seen[j] = struct{}{}
	}

	res := &Result{
		Allocations: make([]*joint.Allocation, len(joints)),
		Offsets:     make([]int, len(joints)),
	}

	err := forChunks(ctx, len(joints), opts, func(start, end int) error {
		for i := start; i < end; i++ {
			res.Allocations[i] = joints[i].Allocate()
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("allocate: %w", err)
	}

	total := 0
	for i, a := range res.Allocations {
		res.Offsets[i] = total
		total += a.Rows
		res.Nub += a.Nub
	}
	if pool != nil {
		res.Rows = pool.Get(total)
	} else {
		res.Rows = make([]joint.Row, total)
	}

	err = forChunks(ctx, len(joints), opts, func(start, end int) error {
		for i := start; i < end; i++ {
			if err := joints[i].Fill(res.Allocations[i], res.Rows, res.Offsets[i], opts.Params); err != nil {
				return fmt.Errorf("joint %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		if pool != nil {
			pool.Put(res.Rows)
		}
		return nil, fmt.Errorf("fill: %w", err)
	}
	return res, nil
}

// Blocks slices the rows into per-joint solver blocks.
func (r *Result) Blocks(joints []*joint.Joint) []lcp.Block {
	blocks := make([]lcp.Block, len(joints))
	for i, j := range joints {
		off := r.Offsets[i]
		blocks[i] = lcp.Block{
			Rows: r.Rows[off : off+r.Allocations[i].Rows],
			A:    j.BodyA(),
			B:    j.BodyB(),
		}
	}
	return blocks
}

// forChunks splits [0, n) into contiguous chunks and runs fn on each in its
// own goroutine.
func forChunks(ctx context.Context, n int, opts Options, fn func(start, end int) error) error {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	minChunk := opts.MinChunk
	if minChunk < 1 {
		minChunk = 1
	}
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}
	chunk := (n + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(start, end)
		})
	}
	return g.Wait()
}
