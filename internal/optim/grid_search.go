package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
)

var ErrNoCandidate = errors.New("optim: no grid point could be evaluated")

// Evaluate runs one candidate and returns its metrics.
type Evaluate func(ctx context.Context, params map[string]float64) (map[string]float64, error)

// GridSearch evaluates every combination of parameter values and keeps the
// one that minimizes a metric.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("optim: %d parameters but %d ranges", len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("optim: empty range for %s", params[i])
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Trial is one evaluated grid point.
type Trial struct {
	Params map[string]float64
	Score  float64
	Err    error
}

// Size is the number of grid points.
func (g *GridSearch) Size() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search evaluates the grid and returns the best trial and all trials sorted
// by score. Failed trials score +Inf. Cancellation stops the search.
func (g *GridSearch) Search(ctx context.Context, eval Evaluate, metricName string) (Trial, []Trial, error) {
	trials := make([]Trial, 0, g.Size())
	if err := g.searchRecursive(ctx, 0, make(map[string]float64), eval, metricName, &trials); err != nil {
		return Trial{}, trials, err
	}

	sort.SliceStable(trials, func(i, j int) bool { return trials[i].Score < trials[j].Score })
	if len(trials) == 0 || trials[0].Err != nil {
		return Trial{}, trials, ErrNoCandidate
	}
	return trials[0], trials, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	eval Evaluate,
	metricName string,
	trials *[]Trial,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		params := make(map[string]float64, len(current))
		for k, v := range current {
			params[k] = v
		}
		t := Trial{Params: params, Score: math.Inf(1)}
		m, err := eval(ctx, params)
		switch {
		case err != nil:
			t.Err = err
		default:
			v, ok := m[metricName]
			if !ok {
				return fmt.Errorf("optim: metric %q not reported", metricName)
			}
			t.Score = v
		}
		*trials = append(*trials, t)
		return nil
	}

	name := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		current[name] = val
		if err := g.searchRecursive(ctx, depth+1, current, eval, metricName, trials); err != nil {
			return err
		}
	}
	delete(current, name)
	return nil
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	return out
}
