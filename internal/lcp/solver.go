// Package lcp is a projected Gauss-Seidel solver for joint rows. It applies
// clamped accumulated impulses row by row until the impulses settle.
package lcp

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/sixdof/internal/body"
	"github.com/san-kum/sixdof/internal/joint"
	"github.com/san-kum/sixdof/internal/spatial"
)

var (
	ErrNoBody   = errors.New("lcp: block without body")
	ErrDiverged = errors.New("lcp: impulse diverged")
)

// Block is a run of rows acting between the same two bodies.
type Block struct {
	Rows []joint.Row
	A    body.RigidBody
	B    body.RigidBody
}

type Config struct {
	Iterations int
	// Tolerance stops iterating once no impulse changes by more than it.
	Tolerance float64
}

func DefaultConfig() Config {
	return Config{Iterations: 20, Tolerance: 1e-9}
}

type Result struct {
	Iterations int
	MaxDelta   float64
	// Impulses holds the final impulse of every row, per block.
	Impulses [][]float64
}

type Solver struct {
	cfg Config
}

func New(cfg Config) *Solver {
	if cfg.Iterations <= 0 {
		cfg.Iterations = DefaultConfig().Iterations
	}
	return &Solver{cfg: cfg}
}

// row caches the inverse-mass weighted Jacobian of one row.
type row struct {
	r          *joint.Row
	a, b       body.RigidBody
	linA, angA mgl64.Vec3
	linB, angB mgl64.Vec3
	denom      float64
	lambda     float64
}

func prepare(r *joint.Row, a, b body.RigidBody) row {
	pr := row{r: r, a: a, b: b}
	imA, imB := a.InvMass(), b.InvMass()
	pr.linA = r.J1Linear.Mul(imA)
	pr.angA = a.InvInertiaWorld().Mul3x1(r.J1Angular)
	pr.linB = r.J2Linear.Mul(imB)
	pr.angB = b.InvInertiaWorld().Mul3x1(r.J2Angular)
	pr.denom = r.J1Linear.Dot(pr.linA) + r.J1Angular.Dot(pr.angA) +
		r.J2Linear.Dot(pr.linB) + r.J2Angular.Dot(pr.angB)
	return pr
}

func (pr *row) velocity() float64 {
	return pr.r.Velocity(
		pr.a.LinearVelocity(), pr.a.AngularVelocity(),
		pr.b.LinearVelocity(), pr.b.AngularVelocity(),
	)
}

// Solve is SolveBlocks for a single body pair.
func (s *Solver) Solve(rows []joint.Row, a, b body.RigidBody) error {
	_, err := s.SolveBlocks([]Block{{Rows: rows, A: a, B: b}})
	return err
}

// SolveBlocks iterates all rows of all blocks and applies the impulses to the
// bodies.
func (s *Solver) SolveBlocks(blocks []Block) (Result, error) {
	var prepared []row
	starts := make([]int, len(blocks))
	for i, blk := range blocks {
		if blk.A == nil || blk.B == nil {
			return Result{}, fmt.Errorf("%w: block %d", ErrNoBody, i)
		}
		starts[i] = len(prepared)
		for k := range blk.Rows {
			prepared = append(prepared, prepare(&blk.Rows[k], blk.A, blk.B))
		}
	}

	res := Result{}
	for it := 0; it < s.cfg.Iterations; it++ {
		res.Iterations = it + 1
		res.MaxDelta = 0
		for i := range prepared {
			pr := &prepared[i]
			d := pr.denom + pr.r.CFM
			if d < spatial.Epsilon {
				continue
			}
			delta := (pr.r.Bias - pr.velocity() - pr.r.CFM*pr.lambda) / d
			next := mgl64.Clamp(pr.lambda+delta, pr.r.Lower, pr.r.Upper)
			delta = next - pr.lambda
			if math.IsNaN(delta) {
				return res, fmt.Errorf("%w: iteration %d row %d", ErrDiverged, it, i)
			}
			pr.lambda = next
			if delta != 0 {
				pr.a.ApplyImpulse(pr.linA, pr.angA, delta)
				pr.b.ApplyImpulse(pr.linB, pr.angB, delta)
			}
			res.MaxDelta = math.Max(res.MaxDelta, math.Abs(delta))
		}
		if res.MaxDelta <= s.cfg.Tolerance {
			break
		}
	}

	res.Impulses = make([][]float64, len(blocks))
	for i, blk := range blocks {
		imp := make([]float64, len(blk.Rows))
		for k := range imp {
			imp[k] = prepared[starts[i]+k].lambda
		}
		res.Impulses[i] = imp
	}
	return res, nil
}
