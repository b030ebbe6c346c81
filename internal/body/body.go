package body

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/sixdof/internal/spatial"
)

// RigidBody is the view of a body the joint solver needs: pose, velocities,
// inverse mass properties and a way to receive impulses.
type RigidBody interface {
	CenterOfMassTransform() spatial.Transform
	LinearVelocity() mgl64.Vec3
	AngularVelocity() mgl64.Vec3
	InvMass() float64
	InvInertiaWorld() mgl64.Mat3
	// ApplyImpulse adds linear*magnitude to the linear velocity and
	// angular*magnitude to the angular velocity. The components are already
	// scaled by the inverse mass and inverse world inertia.
	ApplyImpulse(linear, angular mgl64.Vec3, magnitude float64)
}

// Body is a plain rigid body with a diagonal local inertia tensor.
type Body struct {
	Name string

	transform    spatial.Transform
	linVel       mgl64.Vec3
	angVel       mgl64.Vec3
	invMass      float64
	invInertiaLo mgl64.Vec3
}

// New creates a dynamic body. A non-positive mass makes the body static.
func New(name string, mass float64, inertia mgl64.Vec3, t spatial.Transform) *Body {
	b := &Body{Name: name, transform: t}
	if mass > 0 {
		b.invMass = 1 / mass
		for i := range inertia {
			if inertia[i] > 0 {
				b.invInertiaLo[i] = 1 / inertia[i]
			}
		}
	}
	return b
}

// NewStatic creates an immovable body.
func NewStatic(name string, t spatial.Transform) *Body {
	return &Body{Name: name, transform: t}
}

// NewBox creates a solid box body with the given full extents.
func NewBox(name string, mass float64, extents mgl64.Vec3, t spatial.Transform) *Body {
	x2, y2, z2 := extents[0]*extents[0], extents[1]*extents[1], extents[2]*extents[2]
	inertia := mgl64.Vec3{
		mass / 12 * (y2 + z2),
		mass / 12 * (x2 + z2),
		mass / 12 * (x2 + y2),
	}
	return New(name, mass, inertia, t)
}

// World returns the fixed body used when a joint attaches to the world.
func World() *Body {
	return NewStatic("world", spatial.Identity())
}

func (b *Body) CenterOfMassTransform() spatial.Transform { return b.transform }
func (b *Body) LinearVelocity() mgl64.Vec3               { return b.linVel }
func (b *Body) AngularVelocity() mgl64.Vec3              { return b.angVel }
func (b *Body) InvMass() float64                         { return b.invMass }
func (b *Body) IsStatic() bool                           { return b.invMass == 0 }

func (b *Body) SetTransform(t spatial.Transform) { b.transform = t }
func (b *Body) SetLinearVelocity(v mgl64.Vec3)  { b.linVel = v }
func (b *Body) SetAngularVelocity(w mgl64.Vec3) { b.angVel = w }

// InvInertiaWorld returns R·diag(I⁻¹)·Rᵀ.
func (b *Body) InvInertiaWorld() mgl64.Mat3 {
	r := b.transform.Basis
	return r.Mul3(mgl64.Diag3(b.invInertiaLo)).Mul3(r.Transpose())
}

func (b *Body) ApplyImpulse(linear, angular mgl64.Vec3, magnitude float64) {
	if b.invMass == 0 {
		return
	}
	b.linVel = b.linVel.Add(linear.Mul(magnitude))
	b.angVel = b.angVel.Add(angular.Mul(magnitude))
}

// VelocityAt returns the velocity of a world point rigidly attached to b.
func (b *Body) VelocityAt(p mgl64.Vec3) mgl64.Vec3 {
	rel := p.Sub(b.transform.Origin)
	return b.linVel.Add(b.angVel.Cross(rel))
}

// Integrate advances the pose by dt using the current velocities. Static
// bodies do not move.
func (b *Body) Integrate(dt float64) {
	if b.invMass == 0 {
		return
	}
	b.transform.Origin = b.transform.Origin.Add(b.linVel.Mul(dt))
	angle := b.angVel.Len() * dt
	if angle < spatial.Epsilon {
		return
	}
	rot := mgl64.QuatRotate(angle, b.angVel.Normalize()).Mat4().Mat3()
	b.transform.Basis = orthonormalize(rot.Mul3(b.transform.Basis))
}

// KineticEnergy returns ½mv² + ½ωᵀIω.
func (b *Body) KineticEnergy() float64 {
	if b.invMass == 0 {
		return 0
	}
	ke := 0.5 * b.linVel.LenSqr() / b.invMass
	local := b.transform.Basis.Transpose().Mul3x1(b.angVel)
	for i := range local {
		if b.invInertiaLo[i] > 0 {
			ke += 0.5 * local[i] * local[i] / b.invInertiaLo[i]
		}
	}
	return ke
}

// Gram-Schmidt on the columns.
func orthonormalize(m mgl64.Mat3) mgl64.Mat3 {
	x := m.Col(0).Normalize()
	y := m.Col(1)
	y = y.Sub(x.Mul(x.Dot(y))).Normalize()
	z := x.Cross(y)
	if math.IsNaN(z[0]) {
		return m
	}
	return mgl64.Mat3FromCols(x, y, z)
}
