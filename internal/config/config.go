package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/sixdof/internal/body"
	"github.com/san-kum/sixdof/internal/joint"
	"github.com/san-kum/sixdof/internal/spatial"
)

const (
	DefaultMass            = 1.0
	DefaultAngularSoftness = 0.5
	DefaultLinearSoftness  = 0.7
	DefaultDamping         = 1.0
	DefaultAngularMaxMotor = 0.1
	DefaultStopERP         = 0.2
)

var ErrInvalid = errors.New("config: invalid joint configuration")

// JointConfig describes two bodies and the joint between them.
type JointConfig struct {
	Name   string      `yaml:"name"`
	BodyA  BodyConfig  `yaml:"body_a"`
	BodyB  BodyConfig  `yaml:"body_b"`
	FrameA FrameConfig `yaml:"frame_a"`
	FrameB FrameConfig `yaml:"frame_b"`

	UseLinearReferenceFrameA bool `yaml:"use_linear_reference_frame_a"`
	UseFrameOffset           bool `yaml:"use_frame_offset"`
	// AttachToWorld replaces body A with the static world. Frame A is then
	// derived from body B's pose and frame_a is ignored.
	AttachToWorld bool `yaml:"attach_to_world,omitempty"`

	Linear  AxesConfig `yaml:"linear"`
	Angular AxesConfig `yaml:"angular"`
}

// BodyConfig describes a box body. Zero mass makes it static.
type BodyConfig struct {
	Mass     float64    `yaml:"mass"`
	Extents  [3]float64 `yaml:"extents,flow"`
	Position [3]float64 `yaml:"position,flow"`
	Rotation [3]float64 `yaml:"rotation,flow"`
}

// FrameConfig is a joint frame relative to its body: an origin and XYZ Euler
// angles in radians.
type FrameConfig struct {
	Origin   [3]float64 `yaml:"origin,flow"`
	Rotation [3]float64 `yaml:"rotation,flow"`
}

type AxesConfig struct {
	X AxisConfig `yaml:"x"`
	Y AxisConfig `yaml:"y"`
	Z AxisConfig `yaml:"z"`
}

// AxisConfig sets the limits and motor of one freedom. Lower > Upper leaves
// the axis free and Lower == Upper locks it.
type AxisConfig struct {
	Lower    float64     `yaml:"lower"`
	Upper    float64     `yaml:"upper"`
	Motor    MotorConfig `yaml:"motor"`
	Softness float64     `yaml:"softness"`
	Damping  float64     `yaml:"damping"`
	Bounce   float64     `yaml:"bounce"`
	// MaxLimitForce of zero keeps the joint default.
	MaxLimitForce float64 `yaml:"max_limit_force,omitempty"`

	StopERP *float64 `yaml:"stop_erp,omitempty"`
	StopCFM *float64 `yaml:"stop_cfm,omitempty"`
	CFM     *float64 `yaml:"cfm,omitempty"`
}

type MotorConfig struct {
	Enabled        bool    `yaml:"enabled"`
	TargetVelocity float64 `yaml:"target_velocity"`
	MaxForce       float64 `yaml:"max_force"`
}

func (a *AxesConfig) axis(i int) *AxisConfig {
	switch i {
	case 0:
		return &a.X
	case 1:
		return &a.Y
	}
	return &a.Z
}

func defaultAngular() AxisConfig {
	return AxisConfig{
		Lower:    1,
		Upper:    -1,
		Motor:    MotorConfig{MaxForce: DefaultAngularMaxMotor},
		Softness: DefaultAngularSoftness,
		Damping:  DefaultDamping,
	}
}

func defaultLinear() AxisConfig {
	return AxisConfig{Softness: DefaultLinearSoftness, Damping: DefaultDamping}
}

// DefaultJointConfig is a static body A and a unit cube B one unit below it,
// joined halfway with locked translation and free rotation.
func DefaultJointConfig() *JointConfig {
	return &JointConfig{
		Name:   "default",
		BodyA:  BodyConfig{Extents: [3]float64{1, 1, 1}},
		BodyB:  BodyConfig{Mass: DefaultMass, Extents: [3]float64{1, 1, 1}, Position: [3]float64{0, -1, 0}},
		FrameA: FrameConfig{Origin: [3]float64{0, -0.5, 0}},
		FrameB: FrameConfig{Origin: [3]float64{0, 0.5, 0}},

		UseLinearReferenceFrameA: true,

		Linear:  AxesConfig{X: defaultLinear(), Y: defaultLinear(), Z: defaultLinear()},
		Angular: AxesConfig{X: defaultAngular(), Y: defaultAngular(), Z: defaultAngular()},
	}
}

func Load(path string) (*JointConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultJointConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *JointConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *JointConfig) Validate() error {
	for _, b := range []struct {
		name string
		cfg  BodyConfig
	}{{"body_a", c.BodyA}, {"body_b", c.BodyB}} {
		if b.cfg.Mass < 0 {
			return fmt.Errorf("%w: %s mass %v", ErrInvalid, b.name, b.cfg.Mass)
		}
		if b.cfg.Mass > 0 {
			for _, e := range b.cfg.Extents {
				if e <= 0 {
					return fmt.Errorf("%w: %s extents must be positive", ErrInvalid, b.name)
				}
			}
		}
	}
	for _, ax := range joint.Axes() {
		a := c.axisConfig(ax)
		if a.Softness < 0 || a.Damping < 0 || a.Bounce < 0 {
			return fmt.Errorf("%w: %v has a negative softness, damping or bounce", ErrInvalid, ax)
		}
		if a.Motor.MaxForce < 0 || a.MaxLimitForce < 0 {
			return fmt.Errorf("%w: %v forces must be non-negative", ErrInvalid, ax)
		}
	}
	return nil
}

func (c *JointConfig) axisConfig(ax joint.Axis) *AxisConfig {
	if ax.Kind() == joint.Angular {
		return c.Angular.axis(ax.Index())
	}
	return c.Linear.axis(ax.Index())
}

// Axis returns the configuration of one freedom for in-place edits.
func (c *JointConfig) Axis(ax joint.Axis) *AxisConfig {
	return c.axisConfig(ax)
}

func vec(a [3]float64) mgl64.Vec3 { return mgl64.Vec3(a) }

func (f FrameConfig) Transform() spatial.Transform {
	return spatial.FromEulerXYZ(vec(f.Origin), vec(f.Rotation))
}

func (b BodyConfig) Build(name string) *body.Body {
	t := spatial.FromEulerXYZ(vec(b.Position), vec(b.Rotation))
	if b.Mass <= 0 {
		return body.NewStatic(name, t)
	}
	return body.NewBox(name, b.Mass, vec(b.Extents), t)
}

// Build creates both bodies and the configured joint.
func (c *JointConfig) Build() (*joint.Joint, *body.Body, *body.Body, error) {
	if err := c.Validate(); err != nil {
		return nil, nil, nil, err
	}
	b := c.BodyB.Build("b")
	var (
		a *body.Body
		j *joint.Joint
	)
	if c.AttachToWorld {
		j = joint.NewWithWorld(b, c.FrameB.Transform(), c.UseLinearReferenceFrameA)
		a = j.BodyA().(*body.Body)
	} else {
		a = c.BodyA.Build("a")
		j = joint.New(a, b, c.FrameA.Transform(), c.FrameB.Transform(), c.UseLinearReferenceFrameA)
	}
	if err := c.Apply(j); err != nil {
		return nil, nil, nil, err
	}
	return j, a, b, nil
}

// Apply copies limits, motors and overrides onto an existing joint.
func (c *JointConfig) Apply(j *joint.Joint) error {
	j.SetUseLinearReferenceFrameA(c.UseLinearReferenceFrameA)
	j.SetUseFrameOffset(c.UseFrameOffset)
	for _, ax := range joint.Axes() {
		a := c.axisConfig(ax)
		if err := j.SetLimit(int(ax), a.Lower, a.Upper); err != nil {
			return err
		}
		m := j.Motor(ax)
		m.EnableMotor = a.Motor.Enabled
		m.TargetVelocity = a.Motor.TargetVelocity
		m.MaxMotorForce = a.Motor.MaxForce
		m.Softness = a.Softness
		m.Damping = a.Damping
		m.Bounce = a.Bounce
		if a.MaxLimitForce > 0 {
			m.MaxLimitForce = a.MaxLimitForce
		}
		for _, o := range []struct {
			p joint.Param
			v *float64
		}{{joint.ParamStopERP, a.StopERP}, {joint.ParamStopCFM, a.StopCFM}, {joint.ParamCFM, a.CFM}} {
			if o.v == nil {
				continue
			}
			if err := j.SetParam(o.p, *o.v, int(ax)); err != nil {
				return err
			}
		}
	}
	return nil
}
