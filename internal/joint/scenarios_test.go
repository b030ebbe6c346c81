package joint_test

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/sixdof/internal/body"
	"github.com/san-kum/sixdof/internal/joint"
	"github.com/san-kum/sixdof/internal/lcp"
	"github.com/san-kum/sixdof/internal/spatial"
)

const fps = 60.0

func newJoint() (*joint.Joint, *body.Body, *body.Body) {
	a := body.New("a", 1, mgl64.Vec3{1, 1, 1}, spatial.Identity())
	b := body.New("b", 1, mgl64.Vec3{1, 1, 1}, spatial.Identity())
	return joint.New(a, b, spatial.Identity(), spatial.Identity(), true), a, b
}

func limitAll(j *joint.Joint, lo, hi float64) {
	for _, ax := range joint.Axes() {
		m := j.Motor(ax)
		m.LowLimit, m.HighLimit = lo, hi
	}
}

var _ = Describe("Joint", func() {
	params := joint.SolverParams{FPS: fps, ERP: 0.2}

	Describe("free axes", func() {
		It("never produce rows for any displacement", func() {
			for _, v := range []float64{0, 1e6, -1e6, math.Inf(1), math.Inf(-1)} {
				m := joint.LimitMotor{LowLimit: 1, HighLimit: -1}
				Expect(m.Test(v).State).To(Equal(joint.Free))
			}

			j, _, b := newJoint()
			limitAll(j, 1, -1)
			b.SetTransform(spatial.FromEulerXYZ(mgl64.Vec3{3, -2, 1}, mgl64.Vec3{0.4, 0.2, -1}))
			a := j.Allocate()
			Expect(a.Rows).To(Equal(0))
			Expect(a.Nub).To(Equal(6))
		})
	})

	Describe("locked axes", func() {
		It("are violated away from the limit and suppress the motor", func() {
			m := joint.LimitMotor{LowLimit: 0.3, HighLimit: 0.3, EnableMotor: true, TargetVelocity: 5}
			for _, v := range []float64{0.3 - 1e-6, 0.3 + 1e-6, -4, 4} {
				st := m.Test(v)
				Expect(st.State).NotTo(Equal(joint.Free))
				Expect(m.Powered(st)).To(BeFalse())
			}
		})
	})

	Describe("all six axes locked", func() {
		It("reports six rows and zero bias at rest", func() {
			j, a, b := newJoint()
			limitAll(j, 0, 0)

			alloc := j.Allocate()
			Expect(alloc.Rows).To(Equal(6))
			Expect(alloc.Nub).To(Equal(0))

			rows := make([]joint.Row, alloc.Rows)
			Expect(j.Fill(alloc, rows, 0, params)).To(Succeed())
			for _, r := range rows {
				Expect(r.Bias).To(BeNumerically("~", 0, 1e-12))
			}

			solver := lcp.New(lcp.Config{Iterations: 10})
			Expect(solver.Solve(rows, a, b)).To(Succeed())
			Expect(a.LinearVelocity().Len()).To(BeNumerically("~", 0, 1e-12))
			Expect(b.AngularVelocity().Len()).To(BeNumerically("~", 0, 1e-12))
		})
	})

	Describe("linear motor on a free axis", func() {
		It("contributes one row bounded by the force over one step", func() {
			j, _, _ := newJoint()
			limitAll(j, 0, 0)
			j.Motor(joint.LinearX).LowLimit = 1
			j.Motor(joint.LinearX).HighLimit = -1
			j.SetMotor(joint.LinearX, true, 1.0, 100)

			alloc := j.Allocate()
			Expect(alloc.Active(joint.LinearX)).To(BeTrue())
			Expect(alloc.Status[joint.LinearX].State).To(Equal(joint.Free))

			rows := make([]joint.Row, alloc.Rows)
			Expect(j.Fill(alloc, rows, 0, params)).To(Succeed())

			r := rows[0]
			Expect(r.Lower).To(BeNumerically("~", -100/fps, 1e-12))
			Expect(r.Upper).To(BeNumerically("~", 100/fps, 1e-12))
			Expect(r.Bias).NotTo(BeZero())
			Expect(math.Abs(r.Bias)).To(BeNumerically("~", 1.0, 1e-12))
		})
	})

	Describe("angular axis past its high limit", func() {
		It("reports the error and pushes the angle back", func() {
			j, _, b := newJoint()
			limitAll(j, 1, -1)
			Expect(j.SetLimit(int(joint.AngularX), -0.5, 0.5)).To(Succeed())
			b.SetTransform(spatial.FromEulerXYZ(mgl64.Vec3{}, mgl64.Vec3{-0.8, 0, 0}))

			alloc := j.Allocate()
			st := alloc.Status[joint.AngularX]
			Expect(st.State).To(Equal(joint.AtHigh))
			Expect(st.Error).To(BeNumerically("~", 0.3, 1e-9))

			rows := make([]joint.Row, alloc.Rows)
			Expect(j.Fill(alloc, rows, 0, params)).To(Succeed())
			// angular row velocity is the angle rate, so a negative bias
			// drives the angle down toward 0.5
			Expect(rows[0].Bias).To(BeNumerically("<", 0))
			Expect(rows[0].Upper).To(BeZero())
		})
	})

	Describe("sequential path", func() {
		It("keeps the accumulated impulse within the force budget", func() {
			dt := 1 / fps
			for _, target := range []float64{-10, 10} {
				j, _, _ := newJoint()
				limitAll(j, 1, -1)
				j.SetMotor(joint.AngularY, true, target, 4)

				for i := 0; i < 25; i++ {
					alloc := j.Allocate()
					Expect(j.SolveSequential(alloc, dt)).To(Succeed())
					Expect(math.Abs(j.Motor(joint.AngularY).AccumulatedImpulse)).
						To(BeNumerically("<=", 4*dt+1e-15))
				}
			}
		})
	})

	Describe("restitution", func() {
		It("never weakens the positional correction", func() {
			for _, bounce := range []float64{0.1, 0.5, 1, 2} {
				for _, w := range []float64{0.1, 1, 5, 20, 100} {
					j, a, b := newJoint()
					limitAll(j, 1, -1)
					Expect(j.SetLimit(int(joint.AngularZ), -0.2, 0.2)).To(Succeed())
					b.SetTransform(spatial.FromEulerXYZ(mgl64.Vec3{}, mgl64.Vec3{0, 0, 0.6}))

					alloc := j.Allocate()
					rows := make([]joint.Row, alloc.Rows)
					Expect(j.Fill(alloc, rows, 0, params)).To(Succeed())
					positional := rows[0].Bias

					j.Motor(joint.AngularZ).Bounce = bounce
					a.SetAngularVelocity(mgl64.Vec3{0, 0, -w})
					alloc = j.Allocate()
					Expect(j.Fill(alloc, rows, 0, params)).To(Succeed())

					// at the low limit the row pushes in the positive direction
					Expect(rows[0].Bias).To(BeNumerically(">=", positional))
				}
			}
		})
	})
})
