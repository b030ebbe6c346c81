package viz

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/sixdof/internal/joint"
	"github.com/san-kum/sixdof/internal/spatial"
)

// Camera is an orbiting perspective projection onto a Canvas.
type Camera struct {
	Distance   float64
	RotX, RotY float64
	Zoom       float64
}

func NewCamera() *Camera {
	return &Camera{Distance: 8, RotX: 0.4, RotY: -0.6, Zoom: 1}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

// Project maps a world point to canvas pixels. ok is false behind the camera.
func (c *Camera) Project(p mgl64.Vec3, pw, ph int) (x, y int, depth float64, ok bool) {
	rot := mgl64.Rotate3DX(c.RotX).Mul3(mgl64.Rotate3DY(c.RotY))
	v := rot.Mul3x1(p).Mul(c.Zoom)
	if v[2] >= c.Distance-0.1 {
		return 0, 0, 0, false
	}
	scale := c.Distance / (c.Distance - v[2]) * math.Min(float64(pw), float64(ph)) / 4
	x = int(v[0]*scale) + pw/2
	y = int(-v[1]*scale) + ph/2
	return x, y, v[2], true
}

type Edge struct {
	Start, End mgl64.Vec3
}

// Wireframe is a set of world-space edges.
type Wireframe struct{ Edges []Edge }

func (w *Wireframe) Add(s, e mgl64.Vec3) { w.Edges = append(w.Edges, Edge{s, e}) }

// AddFrame draws the three basis axes of t, with length l.
func (w *Wireframe) AddFrame(t spatial.Transform, l float64) {
	for i := 0; i < 3; i++ {
		w.Add(t.Origin, t.Origin.Add(t.Column(i).Mul(l)))
	}
}

// AddBox draws the edges of a box of the given half extents posed by t.
func (w *Wireframe) AddBox(t spatial.Transform, half mgl64.Vec3) {
	var corners [8]mgl64.Vec3
	for i := range corners {
		local := half
		for k := 0; k < 3; k++ {
			if i&(1<<k) == 0 {
				local[k] = -local[k]
			}
		}
		corners[i] = t.Apply(local)
	}
	for i := range corners {
		for k := 0; k < 3; k++ {
			if j := i | 1<<k; j != i {
				w.Add(corners[i], corners[j])
			}
		}
	}
}

// JointWireframe draws both joint frames, the anchor and, when valid, the
// three constraint axes at the anchor.
func JointWireframe(g joint.Geometry, half mgl64.Vec3) *Wireframe {
	w := &Wireframe{}
	w.AddBox(g.BodyA, half)
	w.AddBox(g.BodyB, half)
	w.AddFrame(g.TransformA, 0.6)
	w.AddFrame(g.TransformB, 0.4)
	if !g.Singular {
		for _, ax := range g.Axes {
			w.Add(g.Anchor, g.Anchor.Add(ax.Mul(0.8)))
		}
	}
	return w
}

// Render draws w onto c.
func Render(c *Canvas, w *Wireframe, cam *Camera) {
	pw, ph := c.PixelSize()
	for _, e := range w.Edges {
		x1, y1, _, ok1 := cam.Project(e.Start, pw, ph)
		x2, y2, _, ok2 := cam.Project(e.End, pw, ph)
		if ok1 && ok2 {
			c.DrawLine(x1, y1, x2, y2)
		}
	}
}
