package scenario

import (
	"context"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/san-kum/sixdof/internal/body"
	"github.com/san-kum/sixdof/internal/joint"
	"github.com/san-kum/sixdof/internal/lcp"
	"github.com/san-kum/sixdof/internal/spatial"
)

// Runner drives one joint between two bodies through a sweep or a settle.
type Runner struct {
	joint     *joint.Joint
	a, b      *body.Body
	cfg       Config
	solver    *lcp.Solver
	metrics   []Metric
	observers []Observer
	log       *zap.Logger
}

func New(j *joint.Joint, a, b *body.Body, cfg Config, log *zap.Logger) (*Runner, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{
		joint:  j,
		a:      a,
		b:      b,
		cfg:    cfg,
		solver: lcp.New(lcp.Config{Iterations: cfg.Iterations, Tolerance: lcp.DefaultConfig().Tolerance}),
		log:    log.Named("scenario"),
	}, nil
}

func (r *Runner) Joint() *joint.Joint              { return r.joint }
func (r *Runner) Bodies() (*body.Body, *body.Body) { return r.a, r.b }
func (r *Runner) Config() Config                   { return r.cfg }

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

type bodyState struct {
	t      spatial.Transform
	v, w   mgl64.Vec3
	target *body.Body
}

func save(b *body.Body) bodyState {
	return bodyState{t: b.CenterOfMassTransform(), v: b.LinearVelocity(), w: b.AngularVelocity(), target: b}
}

func (s bodyState) restore() {
	s.target.SetTransform(s.t)
	s.target.SetLinearVelocity(s.v)
	s.target.SetAngularVelocity(s.w)
}

// Checkpoint captures the pose and velocity of both bodies. The returned
// function restores them and clears the joint's accumulated impulses.
func (r *Runner) Checkpoint() func() {
	a, b := save(r.a), save(r.b)
	return func() {
		a.restore()
		b.restore()
		r.joint.ResetAccumulatedImpulses()
	}
}

// Pose places body B so that the joint frames coincide except for value
// along ax.
func (r *Runner) Pose(ax joint.Axis, value float64) {
	var delta spatial.Transform
	if ax.Kind() == joint.Angular {
		var angles mgl64.Vec3
		angles[ax.Index()] = -value
		delta = spatial.FromEulerXYZ(mgl64.Vec3{}, angles)
	} else {
		var offset mgl64.Vec3
		offset[ax.Index()] = value
		delta = spatial.Translation(offset)
	}
	frameA := r.a.CenterOfMassTransform().Mul(r.joint.FrameOffsetA())
	frameB := frameA.Mul(delta)
	r.b.SetTransform(frameB.Mul(r.joint.FrameOffsetB().Inverse()))
}

// Sweep poses B at samples evenly spaced values of ax between from and to and
// solves each pose from the initial velocities. Bodies are restored after.
func (r *Runner) Sweep(ctx context.Context, ax joint.Axis, from, to float64, samples int) (*Result, error) {
	if !ax.Valid() {
		return nil, fmt.Errorf("%w: %d", joint.ErrAxisIndex, int(ax))
	}
	if samples < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrSamples, samples)
	}
	initA, initB := save(r.a), save(r.b)
	defer initA.restore()
	defer initB.restore()

	r.reset()
	res := &Result{Samples: make([]Sample, 0, samples), Metrics: make(map[string]float64)}
	for i := 0; i < samples; i++ {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}

		v := from + (to-from)*float64(i)/float64(samples-1)
		initA.restore()
		initB.restore()
		r.Pose(ax, v)

		s, err := r.step(i, v)
		if err != nil {
			return res, err
		}
		r.record(res, s)
	}
	r.finish(res)
	r.log.Debug("sweep complete",
		zap.Stringer("axis", ax),
		zap.Float64("from", from),
		zap.Float64("to", to),
		zap.Int("samples", res.Steps),
	)
	return res, nil
}

// Settle advances the joint for steps frames of 1/FPS, optionally integrating
// the bodies in between.
func (r *Runner) Settle(ctx context.Context, steps int) (*Result, error) {
	if steps <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrSteps, steps)
	}

	r.reset()
	res := &Result{Samples: make([]Sample, 0, steps), Metrics: make(map[string]float64)}
	t := 0.0
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}

		s, err := r.Advance(i, t)
		if err != nil {
			return res, err
		}
		t = s.Coordinate
		r.record(res, s)
	}
	r.finish(res)
	r.log.Debug("settle complete", zap.Int("steps", res.Steps), zap.Float64("time", t))
	return res, nil
}

// Advance runs settle step i starting at time t: gravity, one solve and the
// optional integration. The sample's Coordinate is the time after the step.
func (r *Runner) Advance(i int, t float64) (Sample, error) {
	dt := 1 / r.cfg.Params.FPS
	for _, b := range []*body.Body{r.a, r.b} {
		if !b.IsStatic() {
			b.SetLinearVelocity(b.LinearVelocity().Add(r.cfg.Gravity.Mul(dt)))
		}
	}

	s, err := r.step(i, t)
	if err != nil {
		return s, err
	}
	if r.cfg.Integrate {
		r.a.Integrate(dt)
		r.b.Integrate(dt)
	}
	s.Coordinate = t + dt
	s.KineticEnergy = r.a.KineticEnergy() + r.b.KineticEnergy()
	return s, nil
}

func (r *Runner) step(i int, coord float64) (Sample, error) {
	s, err := r.solve(i, coord)
	if err != nil {
		return s, &StepError{Step: i, Coordinate: coord, Err: err}
	}
	return s, nil
}

func (r *Runner) solve(i int, coord float64) (Sample, error) {
	alloc := r.joint.Allocate()
	rows := make([]joint.Row, alloc.Rows)
	if err := r.joint.Fill(alloc, rows, 0, r.cfg.Params); err != nil {
		return Sample{}, err
	}

	s := Sample{
		Step:       i,
		Coordinate: coord,
		Status:     alloc.Status,
		Axes:       append([]joint.Axis(nil), alloc.Order...),
		Rows:       rows,
	}

	switch r.cfg.Method {
	case MethodSequential:
		r.joint.ResetAccumulatedImpulses()
		dt := 1 / r.cfg.Params.FPS
		for it := 0; it < r.cfg.Iterations; it++ {
			if err := r.joint.SolveSequential(alloc, dt); err != nil {
				return s, err
			}
		}
		s.Impulses = make([]float64, len(alloc.Order))
		for k, ax := range alloc.Order {
			s.Impulses[k] = r.joint.Motor(ax).AccumulatedImpulse
		}
	default:
		out, err := r.solver.SolveBlocks([]lcp.Block{{Rows: rows, A: r.a, B: r.b}})
		if err != nil {
			return s, err
		}
		s.Impulses = out.Impulses[0]
	}
	s.KineticEnergy = r.a.KineticEnergy() + r.b.KineticEnergy()
	return s, nil
}

func (r *Runner) reset() {
	for _, m := range r.metrics {
		m.Reset()
	}
}

func (r *Runner) record(res *Result, s Sample) {
	res.Samples = append(res.Samples, s)
	res.Steps++
	sp := &res.Samples[len(res.Samples)-1]
	for _, m := range r.metrics {
		m.Observe(sp)
	}
	for _, o := range r.observers {
		o.OnSample(sp)
	}
	if !sp.Valid() {
		r.log.Warn("non-finite sample", zap.Int("step", sp.Step))
	}
}

func (r *Runner) finish(res *Result) {
	for _, m := range r.metrics {
		res.Metrics[m.Name()] = m.Value()
	}
}
