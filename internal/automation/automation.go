package automation

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/sixdof/internal/config"
	"github.com/san-kum/sixdof/internal/joint"
	"github.com/san-kum/sixdof/internal/metrics"
	"github.com/san-kum/sixdof/internal/scenario"
)

var ErrStep = errors.New("automation: invalid step")

const (
	KindSweep  = "sweep"
	KindSettle = "settle"
)

// Script is a scripted sequence of joint runs.
type Script struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step is a single run in a script. Joint, when set, is a joint config file
// and takes precedence over Preset.
type Step struct {
	Preset string `yaml:"preset"`
	Joint  string `yaml:"joint"`
	Kind   string `yaml:"kind"`
	Method string `yaml:"method"`

	Axis    string  `yaml:"axis"`
	From    float64 `yaml:"from"`
	To      float64 `yaml:"to"`
	Samples int     `yaml:"samples"`

	Steps     int     `yaml:"steps"`
	PoseAxis  string  `yaml:"pose_axis"`
	PoseValue float64 `yaml:"pose_value"`
	Gravity   float64 `yaml:"gravity"`
	// NoIntegrate keeps body poses fixed while settling.
	NoIntegrate bool `yaml:"no_integrate"`

	Threshold float64 `yaml:"threshold"`
	Save      bool    `yaml:"save"`
}

// StepResult is the outcome of one script step.
type StepResult struct {
	Step   Step
	Joint  *config.JointConfig
	Config scenario.Config
	Result *scenario.Result
}

// LoadScript loads a script from a YAML file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &script, nil
}

func (s Step) jointConfig() (*config.JointConfig, error) {
	if s.Joint != "" {
		return config.Load(s.Joint)
	}
	jc := config.GetPreset(s.Preset)
	if jc == nil {
		return nil, fmt.Errorf("%w: unknown preset %q", ErrStep, s.Preset)
	}
	return jc, nil
}

func (s Step) runConfig(solver config.SolverConfig) (scenario.Config, error) {
	cfg := scenario.Config{
		Params:     solver.Params(),
		Iterations: solver.Iterations,
		Method:     scenario.MethodLCP,
		Integrate:  !s.NoIntegrate,
		Gravity:    mgl64.Vec3{0, -s.Gravity, 0},
	}
	if s.Method != "" {
		m, err := scenario.ParseMethod(s.Method)
		if err != nil {
			return cfg, err
		}
		cfg.Method = m
	}
	return cfg, nil
}

// RunScript executes all steps in order and stops at the first failure. The
// results of the steps that finished are returned along with the error.
func RunScript(ctx context.Context, script *Script, solver config.SolverConfig, log *zap.Logger) ([]StepResult, error) {
	if log == nil {
		log = zap.NewNop()
	}
	results := make([]StepResult, 0, len(script.Steps))

	for i, step := range script.Steps {
		res, err := runStep(ctx, step, solver)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		log.Info("script step finished",
			zap.Int("step", i+1),
			zap.Int("of", len(script.Steps)),
			zap.String("joint", res.Joint.Name),
			zap.String("kind", step.Kind),
			zap.Int("samples", res.Result.Steps),
		)
		results = append(results, res)
	}

	return results, nil
}

func runStep(ctx context.Context, step Step, solver config.SolverConfig) (StepResult, error) {
	jc, err := step.jointConfig()
	if err != nil {
		return StepResult{}, err
	}
	cfg, err := step.runConfig(solver)
	if err != nil {
		return StepResult{}, err
	}
	j, a, b, err := jc.Build()
	if err != nil {
		return StepResult{}, err
	}
	r, err := scenario.New(j, a, b, cfg, nil)
	if err != nil {
		return StepResult{}, err
	}

	threshold := step.Threshold
	if threshold == 0 {
		threshold = 0.01
	}
	for _, m := range metrics.Standard(threshold) {
		r.AddMetric(m)
	}

	if step.PoseAxis != "" {
		ax, err := joint.ParseAxis(step.PoseAxis)
		if err != nil {
			return StepResult{}, err
		}
		r.Pose(ax, step.PoseValue)
	}

	var res *scenario.Result
	switch step.Kind {
	case KindSweep:
		ax, err := joint.ParseAxis(step.Axis)
		if err != nil {
			return StepResult{}, err
		}
		samples := step.Samples
		if samples == 0 {
			samples = 41
		}
		res, err = r.Sweep(ctx, ax, step.From, step.To, samples)
		if err != nil {
			return StepResult{}, err
		}
	case KindSettle:
		res, err = r.Settle(ctx, step.Steps)
		if err != nil {
			return StepResult{}, err
		}
	default:
		return StepResult{}, fmt.Errorf("%w: unknown kind %q", ErrStep, step.Kind)
	}

	return StepResult{Step: step, Joint: jc, Config: cfg, Result: res}, nil
}
