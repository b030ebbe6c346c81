package joint

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/sixdof/internal/spatial"
)

// Geometry is the relative pose of the two joint frames at one instant.
// It is computed by [ComputeGeometry] and never mutated afterwards.
type Geometry struct {
	// BodyA and BodyB are the center-of-mass transforms the snapshot was
	// computed from.
	BodyA spatial.Transform
	BodyB spatial.Transform

	// TransformA and TransformB are the joint frames in world space.
	TransformA spatial.Transform
	TransformB spatial.Transform

	// LinearDiff is originB-originA expressed in frame A.
	LinearDiff mgl64.Vec3
	// Angles are the XYZ Euler angles of frame A relative to frame B.
	Angles mgl64.Vec3
	// Singular is set at the y=±π/2 Euler singularity.
	Singular bool
	// Axes are the world-space rotational constraint axes.
	Axes [3]mgl64.Vec3

	// Anchor splits the gap between the frame origins by inverse mass.
	Anchor mgl64.Vec3

	UseOffset     bool
	FactA         float64
	FactB         float64
	HasStaticBody bool
}

// ComputeGeometry places both joint frames in world space and derives the
// relative displacement, angles and constraint axes.
func ComputeGeometry(comA, comB, frameA, frameB spatial.Transform, invMassA, invMassB float64, useOffset bool) Geometry {
	g := Geometry{
		BodyA:      comA,
		BodyB:      comB,
		TransformA: comA.Mul(frameA),
		TransformB: comB.Mul(frameB),
		UseOffset:  useOffset,
		FactA:      0.5,
		FactB:      0.5,
	}

	diff := g.TransformB.Origin.Sub(g.TransformA.Origin)
	g.LinearDiff = g.TransformA.Basis.Transpose().Mul3x1(diff)

	rel := g.TransformB.Basis.Transpose().Mul3(g.TransformA.Basis)
	angles, ok := spatial.EulerXYZ(rel)
	g.Angles, g.Singular = angles, !ok

	bx := g.TransformB.Column(0)
	az := g.TransformA.Column(2)
	g.Axes[1] = az.Cross(bx)
	g.Axes[0] = g.Axes[1].Cross(az)
	g.Axes[2] = bx.Cross(g.Axes[1])
	for i := range g.Axes {
		g.Axes[i] = spatial.SafeNormalize(g.Axes[i])
	}

	weight := 1.0
	if !spatial.FuzzyZero(invMassB) {
		weight = invMassA / (invMassA + invMassB)
	}
	g.Anchor = g.TransformA.Origin.Mul(weight).Add(g.TransformB.Origin.Mul(1 - weight))

	if useOffset {
		g.HasStaticBody = invMassA < spatial.Epsilon || invMassB < spatial.Epsilon
		if sum := invMassA + invMassB; sum > 0 {
			g.FactA = invMassB / sum
		}
		g.FactB = 1 - g.FactA
	}
	return g
}

// Axis returns the world-space rotational constraint axis i.
func (g Geometry) Axis(i int) mgl64.Vec3 { return g.Axes[i] }

// Angle returns the relative Euler angle about axis i.
func (g Geometry) Angle(i int) float64 { return g.Angles[i] }

// RelativePivotPosition returns the displacement along frame A's axis i.
func (g Geometry) RelativePivotPosition(i int) float64 { return g.LinearDiff[i] }

// LinearAxis returns frame A's axis i in world space.
func (g Geometry) LinearAxis(i int) mgl64.Vec3 { return g.TransformA.Column(i) }

// Direction returns the world-space direction of a row for axis a.
func (g Geometry) Direction(a Axis) mgl64.Vec3 {
	if a.Kind() == Angular {
		return g.Axes[a.Index()]
	}
	return g.LinearAxis(a.Index())
}

// Value returns the raw axis value before any angle wrapping.
func (g Geometry) Value(a Axis) float64 {
	if a.Kind() == Angular {
		return g.Angles[a.Index()]
	}
	return g.LinearDiff[a.Index()]
}
