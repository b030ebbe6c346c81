package joint

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/sixdof/internal/spatial"
)

type velocities struct {
	linA, angA mgl64.Vec3
	linB, angB mgl64.Vec3
}

func (j *Joint) velocities() velocities {
	return velocities{
		linA: j.bodyA.LinearVelocity(),
		angA: j.bodyA.AngularVelocity(),
		linB: j.bodyB.LinearVelocity(),
		angB: j.bodyB.AngularVelocity(),
	}
}

// Fill writes a.Rows consecutive rows into rows starting at offset. Nothing
// is written when the allocation is stale or the storage is too small.
func (j *Joint) Fill(a *Allocation, rows []Row, offset int, p SolverParams) error {
	if err := j.checkAllocation(a); err != nil {
		assert(false, err.Error())
		return err
	}
	if p.FPS <= 0 {
		return fmt.Errorf("%w: fps %v", ErrTimestep, p.FPS)
	}
	if offset < 0 || offset+a.Rows > len(rows) {
		err := &FillError{Offset: offset, Rows: a.Rows, Capacity: len(rows), Wrapped: ErrRowStorage}
		assert(false, err.Error())
		return err
	}
	vel := j.velocities()
	for k, ax := range a.Order {
		r := j.buildRow(a, ax, p, vel)
		rows[offset+k] = r
		if j.tracer != nil {
			j.tracer.OnRow(ax, offset+k, r)
		}
	}
	return nil
}

func (j *Joint) buildRow(a *Allocation, ax Axis, p SolverParams, vel velocities) Row {
	g := &a.Geometry
	m := &j.motors[ax]
	st := a.Status[ax]
	rp := j.resolveParams(ax, p)
	dir := g.Direction(ax)
	sign := ax.rowSign()

	var r Row
	var primaryVel float64
	if ax.Kind() == Angular {
		r.J1Angular = dir
		r.J2Angular = dir.Mul(-1)
		primaryVel = dir.Dot(vel.angA) - dir.Dot(vel.angB)
	} else {
		r.J1Linear = dir
		r.J2Linear = dir.Mul(-1)
		r.J1Angular, r.J2Angular = linearTorque(g, dir, st, j.rotationAllowed(ax))
		primaryVel = dir.Dot(vel.linA) - dir.Dot(vel.linB)
	}
	r.J1Linear = spatial.ZeroCheck(r.J1Linear)
	r.J1Angular = spatial.ZeroCheck(r.J1Angular)
	r.J2Linear = spatial.ZeroCheck(r.J2Linear)
	r.J2Angular = spatial.ZeroCheck(r.J2Angular)

	limited := st.State != Free
	if m.Powered(st) {
		r.CFM = rp.normalCFM
		if !limited {
			f := MotorFactor(st.Value, m.LowLimit, m.HighLimit, m.TargetVelocity, p.FPS*rp.stopERP)
			r.Bias += sign * f * m.TargetVelocity
			r.Lower = -m.MaxMotorForce / p.FPS
			r.Upper = m.MaxMotorForce / p.FPS
		}
	}
	if !limited {
		return r
	}

	r.Bias += -sign * p.FPS * rp.stopERP * st.Error
	r.CFM = rp.stopCFM
	if m.IsLocked() {
		r.Lower, r.Upper = math.Inf(-1), math.Inf(1)
		return r
	}
	push := pushDirection(sign, st.State)
	if push > 0 {
		r.Lower, r.Upper = 0, math.Inf(1)
	} else {
		r.Lower, r.Upper = math.Inf(-1), 0
	}
	if m.Bounce > 0 && primaryVel*push < 0 {
		if c := -m.Bounce * primaryVel; c*push > r.Bias*push {
			r.Bias = c
		}
	}
	return r
}

// pushDirection is the sign of the row impulse that moves a value back
// inside its limits.
func pushDirection(sign float64, s LimitState) float64 {
	if s == AtHigh {
		return -sign
	}
	return sign
}

// rotationAllowed is false when both angular axes orthogonal to linear axis
// ax are locked.
func (j *Joint) rotationAllowed(ax Axis) bool {
	i := ax.Index()
	m1 := &j.motors[AngularX+Axis((i+1)%3)]
	m2 := &j.motors[AngularX+Axis((i+2)%3)]
	return !(m1.IsLocked() && m2.IsLocked())
}

// linearTorque returns the angular Jacobian terms of a translational row.
func linearTorque(g *Geometry, dir mgl64.Vec3, st AxisStatus, rotAllowed bool) (mgl64.Vec3, mgl64.Vec3) {
	if !g.UseOffset {
		c := g.TransformB.Origin.Sub(g.BodyA.Origin)
		tA := c.Cross(dir)
		c = g.TransformB.Origin.Sub(g.BodyB.Origin)
		return tA, c.Cross(dir).Mul(-1)
	}

	relB := g.TransformB.Origin.Sub(g.BodyB.Origin)
	projB := dir.Mul(relB.Dot(dir))
	orthoB := relB.Sub(projB)
	relA := g.TransformA.Origin.Sub(g.BodyA.Origin)
	projA := dir.Mul(relA.Dot(dir))
	orthoA := relA.Sub(projA)

	desired := st.Value - st.Error
	total := projA.Add(dir.Mul(desired)).Sub(projB)
	relA = orthoA.Add(total.Mul(g.FactA))
	relB = orthoB.Sub(total.Mul(g.FactB))

	tA := relA.Cross(dir)
	tB := relB.Cross(dir)
	if g.HasStaticBody && !rotAllowed {
		tA = tA.Mul(g.FactA)
		tB = tB.Mul(g.FactB)
	}
	return tA, tB.Mul(-1)
}

func adjustAngle(v float64, m *LimitMotor) float64 {
	return spatial.AdjustAngleToLimits(v, m.LowLimit, m.HighLimit)
}
