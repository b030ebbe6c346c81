package spatial

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Transform is a rigid transform. Basis is assumed orthonormal.
type Transform struct {
	Basis  mgl64.Mat3
	Origin mgl64.Vec3
}

func Identity() Transform {
	return Transform{Basis: mgl64.Ident3()}
}

func NewTransform(basis mgl64.Mat3, origin mgl64.Vec3) Transform {
	return Transform{Basis: basis, Origin: origin}
}

// Translation returns a transform with an identity basis.
func Translation(origin mgl64.Vec3) Transform {
	return Transform{Basis: mgl64.Ident3(), Origin: origin}
}

// FromEulerXYZ builds a transform whose basis is Rx(x)·Ry(y)·Rz(z).
func FromEulerXYZ(origin, angles mgl64.Vec3) Transform {
	basis := mgl64.Rotate3DX(angles[0]).
		Mul3(mgl64.Rotate3DY(angles[1])).
		Mul3(mgl64.Rotate3DZ(angles[2]))
	return Transform{Basis: basis, Origin: origin}
}

func FromQuat(q mgl64.Quat, origin mgl64.Vec3) Transform {
	return Transform{Basis: q.Normalize().Mat4().Mat3(), Origin: origin}
}

// FromAxes builds a basis from three world-space axis columns.
func FromAxes(x, y, z, origin mgl64.Vec3) Transform {
	return Transform{Basis: mgl64.Mat3FromCols(x, y, z), Origin: origin}
}

// Apply maps a point from the local frame into the parent frame.
func (t Transform) Apply(p mgl64.Vec3) mgl64.Vec3 {
	return t.Basis.Mul3x1(p).Add(t.Origin)
}

// ApplyVector rotates a direction without translating it.
func (t Transform) ApplyVector(v mgl64.Vec3) mgl64.Vec3 {
	return t.Basis.Mul3x1(v)
}

// Mul composes t with o; the result applies o first.
func (t Transform) Mul(o Transform) Transform {
	return Transform{
		Basis:  t.Basis.Mul3(o.Basis),
		Origin: t.Apply(o.Origin),
	}
}

func (t Transform) Inverse() Transform {
	inv := t.Basis.Transpose()
	return Transform{
		Basis:  inv,
		Origin: inv.Mul3x1(t.Origin).Mul(-1),
	}
}

// InverseTimes returns t⁻¹·o, the pose of o expressed in t's frame.
func (t Transform) InverseTimes(o Transform) Transform {
	inv := t.Basis.Transpose()
	return Transform{
		Basis:  inv.Mul3(o.Basis),
		Origin: inv.Mul3x1(o.Origin.Sub(t.Origin)),
	}
}

// Column returns basis axis i (0..2) in the parent frame.
func (t Transform) Column(i int) mgl64.Vec3 {
	return t.Basis.Col(i)
}

// ApproxEqual compares every component with an absolute tolerance.
func (t Transform) ApproxEqual(o Transform, eps float64) bool {
	near := func(a, b float64) bool { return math.Abs(a-b) <= eps }
	return t.Basis.ApproxFuncEqual(o.Basis, near) &&
		t.Origin.ApproxFuncEqual(o.Origin, near)
}
