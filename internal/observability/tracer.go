package observability

import (
	"go.uber.org/zap"

	"github.com/san-kum/sixdof/internal/joint"
)

// JointTracer logs joint internals at debug level.
type JointTracer struct {
	log *zap.Logger
}

var _ joint.Tracer = (*JointTracer)(nil)

func NewJointTracer(log *zap.Logger, name string) *JointTracer {
	return &JointTracer{log: log.Named("joint").With(zap.String("joint", name))}
}

func (t *JointTracer) OnGeometry(g joint.Geometry) {
	if ce := t.log.Check(zap.DebugLevel, "geometry"); ce != nil {
		ce.Write(
			zap.Float64s("angles", g.Angles[:]),
			zap.Float64s("linear_diff", g.LinearDiff[:]),
			zap.Bool("singular", g.Singular),
			zap.Float64("fact_a", g.FactA),
		)
	}
}

func (t *JointTracer) OnAllocate(a *joint.Allocation) {
	if ce := t.log.Check(zap.DebugLevel, "allocate"); ce != nil {
		active := make([]string, len(a.Order))
		for i, ax := range a.Order {
			active[i] = ax.String()
		}
		ce.Write(zap.Int("rows", a.Rows), zap.Int("nub", a.Nub), zap.Strings("axes", active))
	}
}

func (t *JointTracer) OnRow(axis joint.Axis, index int, r joint.Row) {
	if ce := t.log.Check(zap.DebugLevel, "row"); ce != nil {
		ce.Write(
			zap.Stringer("axis", axis),
			zap.Int("index", index),
			zap.Float64("bias", r.Bias),
			zap.Float64("lower", r.Lower),
			zap.Float64("upper", r.Upper),
			zap.Float64("cfm", r.CFM),
		)
	}
}

func (t *JointTracer) OnImpulse(axis joint.Axis, delta, accumulated float64) {
	if ce := t.log.Check(zap.DebugLevel, "impulse"); ce != nil {
		ce.Write(zap.Stringer("axis", axis), zap.Float64("delta", delta), zap.Float64("accumulated", accumulated))
	}
}
