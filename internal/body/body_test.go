package body

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/sixdof/internal/spatial"
)

func TestStaticBodyIgnoresImpulse(t *testing.T) {
	w := World()
	w.ApplyImpulse(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0}, 5)

	assert.True(t, w.IsStatic())
	assert.Equal(t, mgl64.Vec3{}, w.LinearVelocity())
	assert.Equal(t, mgl64.Vec3{}, w.AngularVelocity())
	assert.Equal(t, mgl64.Mat3{}, w.InvInertiaWorld())
}

func TestApplyImpulse(t *testing.T) {
	b := New("b", 2, mgl64.Vec3{1, 1, 1}, spatial.Identity())
	b.ApplyImpulse(mgl64.Vec3{0.5, 0, 0}, mgl64.Vec3{0, 0, 1}, 2)

	assert.Equal(t, mgl64.Vec3{1, 0, 0}, b.LinearVelocity())
	assert.Equal(t, mgl64.Vec3{0, 0, 2}, b.AngularVelocity())
}

func TestInvInertiaWorldRotates(t *testing.T) {
	tr := spatial.FromEulerXYZ(mgl64.Vec3{}, mgl64.Vec3{0, 0, math.Pi / 2})
	b := New("b", 1, mgl64.Vec3{1, 2, 4}, tr)

	inv := b.InvInertiaWorld()
	// local x maps to world y
	assert.InDelta(t, 1.0, inv.At(1, 1), 1e-12)
	assert.InDelta(t, 0.5, inv.At(0, 0), 1e-12)
	assert.InDelta(t, 0.25, inv.At(2, 2), 1e-12)
}

func TestNewBoxInertia(t *testing.T) {
	b := NewBox("box", 12, mgl64.Vec3{1, 1, 1}, spatial.Identity())
	require.False(t, b.IsStatic())
	assert.InDelta(t, 1.0/12, b.InvMass(), 1e-12)

	b.SetAngularVelocity(mgl64.Vec3{1, 0, 0})
	// I = 12/12·(1+1) = 2, so ½·2·1 = 1
	assert.InDelta(t, 1.0, b.KineticEnergy(), 1e-12)
}

func TestIntegrate(t *testing.T) {
	b := New("b", 1, mgl64.Vec3{1, 1, 1}, spatial.Identity())
	b.SetLinearVelocity(mgl64.Vec3{1, 0, 0})
	b.SetAngularVelocity(mgl64.Vec3{0, 0, math.Pi / 2})
	b.Integrate(1)

	tr := b.CenterOfMassTransform()
	assert.True(t, tr.Origin.ApproxEqualThreshold(mgl64.Vec3{1, 0, 0}, 1e-12))
	assert.InDelta(t, 0, tr.Column(0)[0], 1e-9)
	assert.InDelta(t, 1, tr.Column(0)[1], 1e-9)
}

func TestVelocityAt(t *testing.T) {
	b := New("b", 1, mgl64.Vec3{1, 1, 1}, spatial.Translation(mgl64.Vec3{1, 0, 0}))
	b.SetAngularVelocity(mgl64.Vec3{0, 0, 1})
	v := b.VelocityAt(mgl64.Vec3{2, 0, 0})
	assert.InDelta(t, 1.0, v[1], 1e-12)
}
