package lcp

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/sixdof/internal/body"
	"github.com/san-kum/sixdof/internal/joint"
	"github.com/san-kum/sixdof/internal/spatial"
)

func bodies() (*body.Body, *body.Body) {
	a := body.New("a", 1, mgl64.Vec3{1, 1, 1}, spatial.Identity())
	b := body.New("b", 1, mgl64.Vec3{1, 1, 1}, spatial.Identity())
	return a, b
}

func TestSolveReachesBias(t *testing.T) {
	a, b := bodies()
	rows := []joint.Row{{
		J1Linear: mgl64.Vec3{1, 0, 0},
		J2Linear: mgl64.Vec3{-1, 0, 0},
		Lower:    math.Inf(-1),
		Upper:    math.Inf(1),
		Bias:     2,
	}}

	res, err := New(DefaultConfig()).SolveBlocks([]Block{{Rows: rows, A: a, B: b}})
	require.NoError(t, err)

	vel := rows[0].Velocity(a.LinearVelocity(), a.AngularVelocity(), b.LinearVelocity(), b.AngularVelocity())
	assert.InDelta(t, 2, vel, 1e-9)
	assert.InDelta(t, 1, res.Impulses[0][0], 1e-9)
}

func TestSolveClampsImpulse(t *testing.T) {
	a, b := bodies()
	rows := []joint.Row{{
		J1Angular: mgl64.Vec3{0, 0, 1},
		J2Angular: mgl64.Vec3{0, 0, -1},
		Lower:     -0.1,
		Upper:     0.1,
		Bias:      5,
	}}

	res, err := New(Config{Iterations: 5}).SolveBlocks([]Block{{Rows: rows, A: a, B: b}})
	require.NoError(t, err)
	assert.InDelta(t, 0.1, res.Impulses[0][0], 1e-12)
	assert.InDelta(t, 0.1, a.AngularVelocity()[2], 1e-12)
	assert.InDelta(t, -0.1, b.AngularVelocity()[2], 1e-12)
}

func TestSolveOneSidedBound(t *testing.T) {
	a, b := bodies()
	// the row wants to pull but may only push
	rows := []joint.Row{{
		J1Linear: mgl64.Vec3{0, 1, 0},
		J2Linear: mgl64.Vec3{0, -1, 0},
		Lower:    0,
		Upper:    math.Inf(1),
		Bias:     -3,
	}}
	res, err := New(DefaultConfig()).SolveBlocks([]Block{{Rows: rows, A: a, B: b}})
	require.NoError(t, err)
	assert.Zero(t, res.Impulses[0][0])
	assert.Equal(t, mgl64.Vec3{}, a.LinearVelocity())
}

func TestSolveStaticBody(t *testing.T) {
	w := body.World()
	b := body.New("b", 2, mgl64.Vec3{1, 1, 1}, spatial.Identity())
	rows := []joint.Row{{
		J1Linear: mgl64.Vec3{1, 0, 0},
		J2Linear: mgl64.Vec3{-1, 0, 0},
		Lower:    math.Inf(-1),
		Upper:    math.Inf(1),
		Bias:     1,
	}}
	require.NoError(t, New(DefaultConfig()).Solve(rows, w, b))
	assert.InDelta(t, -1, b.LinearVelocity()[0], 1e-9)
	assert.Equal(t, mgl64.Vec3{}, w.LinearVelocity())
}

func TestSolveMissingBody(t *testing.T) {
	a, _ := bodies()
	_, err := New(DefaultConfig()).SolveBlocks([]Block{{A: a}})
	assert.True(t, errors.Is(err, ErrNoBody))
}
