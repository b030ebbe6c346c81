package scenario

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/sixdof/internal/body"
	"github.com/san-kum/sixdof/internal/config"
	"github.com/san-kum/sixdof/internal/joint"
)

func newRunner(t *testing.T, preset string, cfg Config) (*Runner, *joint.Joint, *body.Body, *body.Body) {
	t.Helper()
	jc := config.GetPreset(preset)
	if jc == nil {
		t.Fatalf("no preset %q", preset)
	}
	j, a, b, err := jc.Build()
	if err != nil {
		t.Fatalf("build %s: %v", preset, err)
	}
	r, err := New(j, a, b, cfg, nil)
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	return r, j, a, b
}

type countMetric struct {
	rows, samples int
}

func (c *countMetric) Name() string      { return "rows" }
func (c *countMetric) Observe(s *Sample) { c.rows += len(s.Rows); c.samples++ }
func (c *countMetric) Value() float64    { return float64(c.rows) / float64(c.samples) }
func (c *countMetric) Reset()            { c.rows, c.samples = 0, 0 }

func TestPose(t *testing.T) {
	r, j, _, _ := newRunner(t, "free", DefaultConfig())

	for _, ax := range joint.Axes() {
		r.Pose(ax, 0.3)
		g := j.CalculateTransforms()
		for _, other := range joint.Axes() {
			want := 0.0
			if other == ax {
				want = 0.3
			}
			if got := g.Value(other); math.Abs(got-want) > 1e-9 {
				t.Errorf("pose %v: %v = %v, expected %v", ax, other, got, want)
			}
		}
	}
}

func TestSweepAngularLimit(t *testing.T) {
	r, _, _, b := newRunner(t, "cone", DefaultConfig())
	initial := b.CenterOfMassTransform()

	m := &countMetric{}
	r.AddMetric(m)
	var seen int
	r.AddObserver(ObserverFunc(func(*Sample) { seen++ }))

	res, err := r.Sweep(context.Background(), joint.AngularZ, -0.5, 0.5, 3)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if res.Steps != 3 || seen != 3 {
		t.Fatalf("expected 3 samples, got %d (observed %d)", res.Steps, seen)
	}

	wantRows := []int{4, 3, 4}
	wantState := []joint.LimitState{joint.AtLow, joint.Free, joint.AtHigh}
	for i, s := range res.Samples {
		if len(s.Rows) != wantRows[i] {
			t.Errorf("sample %d: got %d rows, expected %d", i, len(s.Rows), wantRows[i])
		}
		if got := s.Status[joint.AngularZ].State; got != wantState[i] {
			t.Errorf("sample %d: state %v, expected %v", i, got, wantState[i])
		}
		if len(s.Impulses) != len(s.Rows) {
			t.Errorf("sample %d: %d impulses for %d rows", i, len(s.Impulses), len(s.Rows))
		}
	}

	if got := res.Samples[0].MaxError(); math.Abs(got-0.25) > 1e-9 {
		t.Errorf("max error: got %v, expected 0.25", got)
	}
	if limit := res.Samples[2].Impulses[3]; limit == 0 {
		t.Error("expected a non-zero limit impulse")
	}
	if got := res.Metrics["rows"]; math.Abs(got-11.0/3) > 1e-12 {
		t.Errorf("rows metric: got %v", got)
	}
	if !b.CenterOfMassTransform().ApproxEqual(initial, 1e-12) {
		t.Error("sweep should restore body B")
	}
}

func TestSweepLinearLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Method = MethodSequential
	r, _, _, _ := newRunner(t, "slider", cfg)

	res, err := r.Sweep(context.Background(), joint.LinearX, -2, 2, 3)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	wantState := []joint.LimitState{joint.AtLow, joint.Free, joint.AtHigh}
	for i, s := range res.Samples {
		if got := s.Status[joint.LinearX].State; got != wantState[i] {
			t.Errorf("sample %d: state %v, expected %v", i, got, wantState[i])
		}
		if len(s.Impulses) != len(s.Axes) {
			t.Errorf("sample %d: %d impulses for %d axes", i, len(s.Impulses), len(s.Axes))
		}
	}
	if got := res.Samples[0].Status[joint.LinearX].Error; math.Abs(got+1) > 1e-12 {
		t.Errorf("low error: got %v, expected -1", got)
	}
}

func TestSweepErrors(t *testing.T) {
	r, _, _, _ := newRunner(t, "hinge", DefaultConfig())

	if _, err := r.Sweep(context.Background(), joint.AngularZ, 0, 1, 1); !errors.Is(err, ErrSamples) {
		t.Errorf("expected ErrSamples, got %v", err)
	}
	if _, err := r.Sweep(context.Background(), joint.Axis(9), 0, 1, 4); !errors.Is(err, joint.ErrAxisIndex) {
		t.Errorf("expected ErrAxisIndex, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Sweep(ctx, joint.AngularZ, 0, 1, 4); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSettleWeldStopsBody(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Integrate = false
	r, _, _, b := newRunner(t, "weld", cfg)
	b.SetLinearVelocity(mgl64.Vec3{1, 0, 0})

	res, err := r.Settle(context.Background(), 10)
	if err != nil {
		t.Fatalf("settle failed: %v", err)
	}
	if res.Steps != 10 {
		t.Fatalf("expected 10 steps, got %d", res.Steps)
	}
	if ke := res.Samples[9].KineticEnergy; ke > 1e-6 {
		t.Errorf("weld should remove all motion, kinetic energy %v", ke)
	}
	if got := res.Samples[9].Coordinate; math.Abs(got-10.0/60) > 1e-12 {
		t.Errorf("time: got %v", got)
	}
}

func TestSettleSequentialMotor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Method = MethodSequential
	cfg.Integrate = false
	r, _, _, b := newRunner(t, "motor_hinge", cfg)

	if _, err := r.Settle(context.Background(), 60); err != nil {
		t.Fatalf("settle failed: %v", err)
	}
	w := b.AngularVelocity()
	if math.Abs(w[2]+1.5) > 0.05 {
		t.Errorf("motor should drive the relative rate to 1.5, body B spins at %v", w)
	}
	if math.Abs(w[0]) > 1e-3 || math.Abs(w[1]) > 1e-3 {
		t.Errorf("locked axes should not rotate: %v", w)
	}
}

func TestSettleFreeKeepsEnergy(t *testing.T) {
	r, _, _, b := newRunner(t, "free", DefaultConfig())
	b.SetAngularVelocity(mgl64.Vec3{0, 0, 2})
	b.SetLinearVelocity(mgl64.Vec3{0.5, 0, 0})

	res, err := r.Settle(context.Background(), 30)
	if err != nil {
		t.Fatalf("settle failed: %v", err)
	}
	first, last := res.Samples[0].KineticEnergy, res.Samples[29].KineticEnergy
	if math.Abs(first-last) > 1e-9 {
		t.Errorf("free joint changed energy: %v -> %v", first, last)
	}
	for _, s := range res.Samples {
		if len(s.Rows) != 0 {
			t.Fatalf("free joint produced %d rows", len(s.Rows))
		}
	}
}

func TestSettleErrors(t *testing.T) {
	r, _, _, _ := newRunner(t, "weld", DefaultConfig())
	if _, err := r.Settle(context.Background(), 0); !errors.Is(err, ErrSteps) {
		t.Errorf("expected ErrSteps, got %v", err)
	}
}

func TestNewValidatesConfig(t *testing.T) {
	jc := config.GetPreset("weld")
	j, a, b, err := jc.Build()
	if err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	cfg.Method = "newton"
	if _, err := New(j, a, b, cfg, nil); !errors.Is(err, ErrMethod) {
		t.Errorf("expected ErrMethod, got %v", err)
	}

	cfg = DefaultConfig()
	cfg.Params.FPS = 0
	if _, err := New(j, a, b, cfg, nil); !errors.Is(err, joint.ErrTimestep) {
		t.Errorf("expected ErrTimestep, got %v", err)
	}
}

func TestStepErrorUnwraps(t *testing.T) {
	var err error = &StepError{Step: 3, Coordinate: 0.05, Err: joint.ErrTimestep}
	if !errors.Is(err, joint.ErrTimestep) {
		t.Errorf("expected wrapped ErrTimestep, got %v", err)
	}
	var se *StepError
	if !errors.As(err, &se) || se.Step != 3 {
		t.Errorf("expected StepError at step 3, got %v", err)
	}
}
