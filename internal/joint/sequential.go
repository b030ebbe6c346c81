package joint

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/sixdof/internal/spatial"
)

// SolveSequential runs one accumulated-impulse pass over every active axis of
// a, applying impulses straight to the bodies. Callers iterate it to converge.
func (j *Joint) SolveSequential(a *Allocation, dt float64) error {
	if err := j.checkAllocation(a); err != nil {
		assert(false, err.Error())
		return err
	}
	if dt <= 0 {
		return fmt.Errorf("%w: dt %v", ErrTimestep, dt)
	}
	for _, ax := range a.Order {
		j.solveAxis(a, ax, dt)
	}
	return nil
}

// SolveAxis corrects a single axis and returns the impulse applied by this
// call. Inactive axes are left untouched.
func (j *Joint) SolveAxis(a *Allocation, ax Axis, dt float64) (float64, error) {
	if err := j.checkAllocation(a); err != nil {
		return 0, err
	}
	if !ax.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrAxisIndex, int(ax))
	}
	if dt <= 0 {
		return 0, fmt.Errorf("%w: dt %v", ErrTimestep, dt)
	}
	if !a.Active(ax) {
		return 0, nil
	}
	return j.solveAxis(a, ax, dt), nil
}

// sequentialJacobian builds the row for ax used by the sequential path. Linear
// rows act at the anchor and follow the configured reference frame.
func (j *Joint) sequentialJacobian(g *Geometry, ax Axis) Row {
	var r Row
	if ax.Kind() == Angular {
		dir := g.Axes[ax.Index()]
		r.J1Angular = dir
		r.J2Angular = dir.Mul(-1)
		return r
	}
	frame := g.TransformB
	if j.useLinearReferenceFrameA {
		frame = g.TransformA
	}
	dir := frame.Column(ax.Index())
	rA := g.Anchor.Sub(g.BodyA.Origin)
	rB := g.Anchor.Sub(g.BodyB.Origin)
	r.J1Linear = dir
	r.J1Angular = spatial.ZeroCheck(rA.Cross(dir))
	r.J2Linear = dir.Mul(-1)
	r.J2Angular = spatial.ZeroCheck(rB.Cross(dir).Mul(-1))
	return r
}

func (j *Joint) solveAxis(a *Allocation, ax Axis, dt float64) float64 {
	g := &a.Geometry
	m := &j.motors[ax]
	st := a.Status[ax]
	sign := ax.rowSign()
	r := j.sequentialJacobian(g, ax)

	imA, imB := j.bodyA.InvMass(), j.bodyB.InvMass()
	angA := j.bodyA.InvInertiaWorld().Mul3x1(r.J1Angular)
	angB := j.bodyB.InvInertiaWorld().Mul3x1(r.J2Angular)
	k := imA*r.J1Linear.LenSqr() + r.J1Angular.Dot(angA) +
		imB*r.J2Linear.LenSqr() + r.J2Angular.Dot(angB)
	if k < spatial.Epsilon {
		return 0
	}

	var target, maxForce float64
	switch {
	case st.State != Free:
		target = -sign * m.StopERP * st.Error / dt
		maxForce = m.MaxLimitForce
	case m.EnableMotor:
		target = sign * m.TargetVelocity
		maxForce = m.MaxMotorForce
	default:
		return 0
	}

	rowVel := r.Velocity(
		j.bodyA.LinearVelocity(), j.bodyA.AngularVelocity(),
		j.bodyB.LinearVelocity(), j.bodyB.AngularVelocity(),
	)
	relVel := m.Softness * (target - m.Damping*rowVel)
	if spatial.FuzzyZero(relVel) {
		return 0
	}
	impulse := (1 + m.Bounce) * relVel / k

	lo, hi := -maxForce*dt, maxForce*dt
	if st.State != Free && !m.IsLocked() {
		if pushDirection(sign, st.State) > 0 {
			lo = 0
		} else {
			hi = 0
		}
	}
	old := m.AccumulatedImpulse
	m.AccumulatedImpulse = mgl64.Clamp(old+impulse, lo, hi)
	delta := m.AccumulatedImpulse - old

	if delta != 0 {
		j.bodyA.ApplyImpulse(r.J1Linear.Mul(imA), angA, delta)
		j.bodyB.ApplyImpulse(r.J2Linear.Mul(imB), angB, delta)
	}
	if j.tracer != nil {
		j.tracer.OnImpulse(ax, delta, m.AccumulatedImpulse)
	}
	return delta
}
