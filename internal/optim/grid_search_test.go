package optim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quadratic(ctx context.Context, p map[string]float64) (map[string]float64, error) {
	x, y := p["x"], p["y"]
	return map[string]float64{"cost": (x-1)*(x-1) + (y+2)*(y+2)}, nil
}

func TestGridSearch(t *testing.T) {
	g, err := NewGridSearch([]string{"x", "y"}, [][]float64{Linspace(-2, 2, 5), Linspace(-3, 0, 4)})
	require.NoError(t, err)
	assert.Equal(t, 20, g.Size())

	best, trials, err := g.Search(context.Background(), quadratic, "cost")
	require.NoError(t, err)
	assert.Len(t, trials, 20)
	assert.Equal(t, 1.0, best.Params["x"])
	assert.Equal(t, -2.0, best.Params["y"])
	assert.Zero(t, best.Score)
	for i := 1; i < len(trials); i++ {
		assert.LessOrEqual(t, trials[i-1].Score, trials[i].Score)
	}
}

func TestGridSearchFailures(t *testing.T) {
	g, err := NewGridSearch([]string{"x"}, [][]float64{{1, 2, 3}})
	require.NoError(t, err)

	boom := errors.New("boom")
	eval := func(ctx context.Context, p map[string]float64) (map[string]float64, error) {
		if p["x"] == 2 {
			return nil, boom
		}
		return map[string]float64{"cost": p["x"]}, nil
	}
	best, trials, err := g.Search(context.Background(), eval, "cost")
	require.NoError(t, err)
	assert.Equal(t, 1.0, best.Params["x"])
	assert.True(t, math.IsInf(trials[2].Score, 1))
	assert.ErrorIs(t, trials[2].Err, boom)

	_, _, err = g.Search(context.Background(), eval, "missing")
	assert.Error(t, err)

	allFail := func(ctx context.Context, p map[string]float64) (map[string]float64, error) { return nil, boom }
	_, _, err = g.Search(context.Background(), allFail, "cost")
	assert.ErrorIs(t, err, ErrNoCandidate)
}

func TestGridSearchCanceled(t *testing.T) {
	g, err := NewGridSearch([]string{"x"}, [][]float64{{1, 2}})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = g.Search(ctx, quadratic, "cost")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewGridSearchValidates(t *testing.T) {
	_, err := NewGridSearch([]string{"x", "y"}, [][]float64{{1}})
	assert.Error(t, err)
	_, err = NewGridSearch([]string{"x"}, [][]float64{{}})
	assert.Error(t, err)
}

func TestLinspace(t *testing.T) {
	assert.Equal(t, []float64{0, 0.5, 1}, Linspace(0, 1, 3))
	assert.Equal(t, []float64{4}, Linspace(4, 9, 1))
}
