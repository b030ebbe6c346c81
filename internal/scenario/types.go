package scenario

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/sixdof/internal/joint"
)

var (
	ErrSamples = errors.New("scenario: a sweep needs at least two samples")
	ErrSteps   = errors.New("scenario: steps must be positive")
	ErrMethod  = errors.New("scenario: unknown solve method")
)

// StepError wraps a failure with the sample it happened at.
type StepError struct {
	Step       int
	Coordinate float64
	Err        error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d at %g: %v", e.Step, e.Coordinate, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Method selects how rows are turned into impulses.
type Method string

const (
	// MethodLCP fills rows and hands them to the projected Gauss-Seidel solver.
	MethodLCP Method = "lcp"
	// MethodSequential runs the joint's own accumulated-impulse iterations.
	MethodSequential Method = "sequential"
)

func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodLCP, MethodSequential:
		return Method(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrMethod, s)
}

type Config struct {
	Params     joint.SolverParams
	Iterations int
	Method     Method
	// Integrate advances body poses after every settle step.
	Integrate bool
	// Gravity is added to the dynamic bodies' velocity every settle step.
	Gravity mgl64.Vec3
}

func DefaultConfig() Config {
	return Config{
		Params:     joint.DefaultSolverParams(),
		Iterations: 20,
		Method:     MethodLCP,
		Integrate:  true,
	}
}

func (c Config) validate() error {
	if c.Params.FPS <= 0 {
		return fmt.Errorf("%w: fps %v", joint.ErrTimestep, c.Params.FPS)
	}
	if c.Iterations <= 0 {
		return fmt.Errorf("iterations must be positive, got %d", c.Iterations)
	}
	if _, err := ParseMethod(string(c.Method)); err != nil {
		return err
	}
	return nil
}

// Sample is the joint state recorded at one sweep point or settle step.
type Sample struct {
	Step int
	// Coordinate is the swept value, or the simulated time when settling.
	Coordinate float64
	Status     [joint.NumAxes]joint.AxisStatus
	Axes       []joint.Axis
	Rows       []joint.Row
	// Impulses holds one solved impulse per entry of Axes.
	Impulses      []float64
	KineticEnergy float64
}

// MaxError is the largest limit violation over all limited axes.
func (s *Sample) MaxError() float64 {
	worst := 0.0
	for _, st := range s.Status {
		if st.State != joint.Free {
			worst = math.Max(worst, math.Abs(st.Error))
		}
	}
	return worst
}

// Valid reports whether every row and impulse is finite.
func (s *Sample) Valid() bool {
	for _, v := range s.Impulses {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	for i := range s.Rows {
		if math.IsNaN(s.Rows[i].Bias) {
			return false
		}
	}
	return !math.IsNaN(s.KineticEnergy)
}

type Metric interface {
	Name() string
	Observe(s *Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnSample(s *Sample)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(s *Sample)

func (f ObserverFunc) OnSample(s *Sample) { f(s) }

type Result struct {
	Samples []Sample
	Metrics map[string]float64
	Steps   int
}

// Series extracts one value per sample.
func (r *Result) Series(fn func(*Sample) float64) []float64 {
	out := make([]float64, len(r.Samples))
	for i := range r.Samples {
		out[i] = fn(&r.Samples[i])
	}
	return out
}
