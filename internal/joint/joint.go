package joint

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/sixdof/internal/body"
	"github.com/san-kum/sixdof/internal/spatial"
)

// Joint couples two rigid bodies through six independently limited or
// motorized freedoms.
type Joint struct {
	bodyA body.RigidBody
	bodyB body.RigidBody

	frameA spatial.Transform
	frameB spatial.Transform

	motors [NumAxes]LimitMotor
	flags  paramFlags

	useLinearReferenceFrameA bool
	useOffset                bool

	geometry   Geometry
	generation uint64
	tracer     Tracer
}

// New creates a joint between a and b. frameA and frameB are the joint frames
// relative to each body's center of mass.
func New(a, b body.RigidBody, frameA, frameB spatial.Transform, useLinearReferenceFrameA bool) *Joint {
	j := &Joint{
		bodyA:                    a,
		bodyB:                    b,
		frameA:                   frameA,
		frameB:                   frameB,
		useLinearReferenceFrameA: useLinearReferenceFrameA,
	}
	for _, ax := range Axes() {
		if ax.Kind() == Angular {
			j.motors[ax] = DefaultAngularMotor()
		} else {
			j.motors[ax] = DefaultLinearMotor()
		}
	}
	j.CalculateTransforms()
	return j
}

// NewWithWorld attaches b to a static world body. Frame A is chosen so that
// both frames coincide in b's current pose.
func NewWithWorld(b body.RigidBody, frameB spatial.Transform, useLinearReferenceFrameB bool) *Joint {
	frameA := b.CenterOfMassTransform().Mul(frameB)
	return New(body.World(), b, frameA, frameB, useLinearReferenceFrameB)
}

func (j *Joint) BodyA() body.RigidBody { return j.bodyA }
func (j *Joint) BodyB() body.RigidBody { return j.bodyB }

// SetTracer installs t. Pass nil to disable tracing.
func (j *Joint) SetTracer(t Tracer) { j.tracer = t }

// CalculateTransforms recomputes the geometry from the current body poses and
// returns it. It does not change the latest allocation.
func (j *Joint) CalculateTransforms() Geometry {
	j.geometry = ComputeGeometry(
		j.bodyA.CenterOfMassTransform(), j.bodyB.CenterOfMassTransform(),
		j.frameA, j.frameB,
		j.bodyA.InvMass(), j.bodyB.InvMass(),
		j.useOffset,
	)
	if j.tracer != nil {
		j.tracer.OnGeometry(j.geometry)
	}
	return j.geometry
}

// Geometry returns the most recently computed snapshot.
func (j *Joint) Geometry() Geometry { return j.geometry }

func (j *Joint) FrameOffsetA() spatial.Transform { return j.frameA }
func (j *Joint) FrameOffsetB() spatial.Transform { return j.frameB }

func (j *Joint) SetFrames(frameA, frameB spatial.Transform) {
	j.frameA, j.frameB = frameA, frameB
	j.CalculateTransforms()
}

func (j *Joint) SetFrameA(frameA spatial.Transform) {
	j.frameA = frameA
	j.CalculateTransforms()
}

func (j *Joint) SetFrameB(frameB spatial.Transform) {
	j.frameB = frameB
	j.CalculateTransforms()
}

// SetAxis rebuilds both frames from two world-space directions: axis1 becomes
// the joint z axis and axis2, with its axis1 component removed, the y axis.
// The frame keeps frame A's current world origin.
func (j *Joint) SetAxis(axis1, axis2 mgl64.Vec3) error {
	z := spatial.SafeNormalize(axis1)
	x := spatial.SafeNormalize(axis2).Cross(z)
	if spatial.FuzzyZero(x.LenSqr()) {
		return fmt.Errorf("joint: set axis: %v and %v are parallel or zero", axis1, axis2)
	}
	x = x.Normalize()
	y := z.Cross(x)
	world := spatial.FromAxes(x, y, z, j.geometry.TransformA.Origin)
	j.frameA = j.bodyA.CenterOfMassTransform().InverseTimes(world)
	j.frameB = j.bodyB.CenterOfMassTransform().InverseTimes(world)
	j.CalculateTransforms()
	return nil
}

func (j *Joint) UseFrameOffset() bool { return j.useOffset }

// SetUseFrameOffset toggles mass-weighted offset stabilization.
func (j *Joint) SetUseFrameOffset(on bool) {
	j.useOffset = on
	j.CalculateTransforms()
}

func (j *Joint) UseLinearReferenceFrameA() bool { return j.useLinearReferenceFrameA }

func (j *Joint) SetUseLinearReferenceFrameA(on bool) { j.useLinearReferenceFrameA = on }

// Motor returns the limit motor of axis a for direct configuration.
func (j *Joint) Motor(a Axis) *LimitMotor {
	return &j.motors[a]
}

func (j *Joint) motor(index int) (*LimitMotor, error) {
	if index < 0 || index >= NumAxes {
		return nil, fmt.Errorf("%w: %d", ErrAxisIndex, index)
	}
	return &j.motors[index], nil
}

// SetLimit sets the limits of axis index 0..5. Angular limits are normalized
// into [-π, π]; a normalized pair that ends up inverted leaves the axis free.
func (j *Joint) SetLimit(index int, lo, hi float64) error {
	m, err := j.motor(index)
	if err != nil {
		return err
	}
	if Axis(index).Kind() == Angular {
		lo, hi = spatial.NormalizeAngle(lo), spatial.NormalizeAngle(hi)
	}
	m.LowLimit, m.HighLimit = lo, hi
	return nil
}

// IsLimited reports whether axis index 0..5 has a range or lock.
func (j *Joint) IsLimited(index int) bool {
	m, err := j.motor(index)
	if err != nil {
		return false
	}
	return m.IsLimited()
}

func (j *Joint) SetLinearLowerLimit(v mgl64.Vec3) {
	for i := range v {
		j.motors[LinearX+Axis(i)].LowLimit = v[i]
	}
}

func (j *Joint) SetLinearUpperLimit(v mgl64.Vec3) {
	for i := range v {
		j.motors[LinearX+Axis(i)].HighLimit = v[i]
	}
}

func (j *Joint) SetAngularLowerLimit(v mgl64.Vec3) {
	for i := range v {
		j.motors[AngularX+Axis(i)].LowLimit = spatial.NormalizeAngle(v[i])
	}
}

func (j *Joint) SetAngularUpperLimit(v mgl64.Vec3) {
	for i := range v {
		j.motors[AngularX+Axis(i)].HighLimit = spatial.NormalizeAngle(v[i])
	}
}

func (j *Joint) LinearLowerLimit() mgl64.Vec3  { return j.limits(LinearX, true) }
func (j *Joint) LinearUpperLimit() mgl64.Vec3  { return j.limits(LinearX, false) }
func (j *Joint) AngularLowerLimit() mgl64.Vec3 { return j.limits(AngularX, true) }
func (j *Joint) AngularUpperLimit() mgl64.Vec3 { return j.limits(AngularX, false) }

func (j *Joint) limits(first Axis, low bool) mgl64.Vec3 {
	var v mgl64.Vec3
	for i := range v {
		m := j.motors[first+Axis(i)]
		if low {
			v[i] = m.LowLimit
		} else {
			v[i] = m.HighLimit
		}
	}
	return v
}

// SetMotor enables or disables the motor of axis a.
func (j *Joint) SetMotor(a Axis, enable bool, targetVelocity, maxForce float64) {
	m := &j.motors[a]
	m.EnableMotor = enable
	m.TargetVelocity = targetVelocity
	m.MaxMotorForce = maxForce
}

// ResetAccumulatedImpulses clears the warm-start state of the sequential path.
func (j *Joint) ResetAccumulatedImpulses() {
	for i := range j.motors {
		j.motors[i].AccumulatedImpulse = 0
	}
}
