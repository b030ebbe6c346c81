package joint

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/sixdof/internal/body"
	"github.com/san-kum/sixdof/internal/spatial"
)

func unitBody(name string, t spatial.Transform) *body.Body {
	return body.New(name, 1, mgl64.Vec3{1, 1, 1}, t)
}

func identityJoint() (*Joint, *body.Body, *body.Body) {
	a := unitBody("a", spatial.Identity())
	b := unitBody("b", spatial.Identity())
	return New(a, b, spatial.Identity(), spatial.Identity(), true), a, b
}

func setAll(j *Joint, lo, hi float64) {
	for _, ax := range Axes() {
		m := j.Motor(ax)
		m.LowLimit, m.HighLimit = lo, hi
	}
}

// rotateB poses body b so the relative angle about one joint axis equals v.
func rotateB(b *body.Body, ax Axis, v float64) {
	var angles mgl64.Vec3
	angles[ax.Index()] = -v
	b.SetTransform(spatial.FromEulerXYZ(mgl64.Vec3{}, angles))
}
