package joint

import (
	"math"

	"github.com/san-kum/sixdof/internal/spatial"
)

// LimitState classifies an axis value against its limits.
type LimitState int

const (
	Free LimitState = iota
	AtLow
	AtHigh
)

func (s LimitState) String() string {
	switch s {
	case AtLow:
		return "at-low"
	case AtHigh:
		return "at-high"
	default:
		return "free"
	}
}

// LimitMotor holds the limit and motor configuration of one axis.
//
// LowLimit > HighLimit leaves the axis free, LowLimit == HighLimit locks it
// and LowLimit < HighLimit restricts it to the range. TargetVelocity is the
// desired rate of change of the axis value.
type LimitMotor struct {
	LowLimit  float64
	HighLimit float64

	EnableMotor    bool
	TargetVelocity float64
	MaxMotorForce  float64
	MaxLimitForce  float64

	Softness float64
	Damping  float64
	Bounce   float64

	NormalCFM float64
	StopCFM   float64
	StopERP   float64

	// AccumulatedImpulse is the running impulse of the sequential path.
	AccumulatedImpulse float64
}

// AxisStatus is the per-step classification of one axis.
type AxisStatus struct {
	Value float64
	State LimitState
	// Error is value-lo at the low limit and value-hi at the high limit.
	Error float64
}

// DefaultAngularMotor returns a free, unpowered rotational axis.
func DefaultAngularMotor() LimitMotor {
	return LimitMotor{
		LowLimit:      1,
		HighLimit:     -1,
		MaxMotorForce: 0.1,
		MaxLimitForce: 300,
		Softness:      0.5,
		Damping:       1,
		StopERP:       0.2,
	}
}

// DefaultLinearMotor returns a locked translational axis.
func DefaultLinearMotor() LimitMotor {
	return LimitMotor{
		MaxMotorForce: 0,
		MaxLimitForce: math.Inf(1),
		Softness:      0.7,
		Damping:       1,
		StopERP:       0.2,
	}
}

// IsFree reports whether the axis has no limits at all.
func (m *LimitMotor) IsFree() bool { return m.LowLimit > m.HighLimit }

// IsLimited reports whether a range or lock is configured.
func (m *LimitMotor) IsLimited() bool { return !m.IsFree() }

// IsLocked reports whether both limits coincide.
func (m *LimitMotor) IsLocked() bool {
	return !m.IsFree() && spatial.FuzzyEqual(m.LowLimit, m.HighLimit)
}

// Test classifies value against the limits. A locked axis is never Free.
func (m *LimitMotor) Test(value float64) AxisStatus {
	st := AxisStatus{Value: value}
	switch {
	case m.IsFree():
	case m.IsLocked():
		if value <= m.LowLimit {
			st.State, st.Error = AtLow, value-m.LowLimit
		} else {
			st.State, st.Error = AtHigh, value-m.HighLimit
		}
	case value < m.LowLimit:
		st.State, st.Error = AtLow, value-m.LowLimit
	case value > m.HighLimit:
		st.State, st.Error = AtHigh, value-m.HighLimit
	}
	return st
}

// NeedsRow reports whether the axis contributes a solver row in state st.
func (m *LimitMotor) NeedsRow(st AxisStatus) bool {
	return st.State != Free || m.EnableMotor
}

// Powered reports whether the motor acts in state st. A locked axis at its
// limit suppresses the motor.
func (m *LimitMotor) Powered(st AxisStatus) bool {
	if !m.EnableMotor {
		return false
	}
	return !(st.State != Free && m.IsLocked())
}

// MotorFactor scales a motor so it does not drive a value past its limits
// within one correction step. timeFact is fps·ERP.
func MotorFactor(pos, lo, hi, vel, timeFact float64) float64 {
	if lo > hi {
		return 1
	}
	if lo == hi {
		return 0
	}
	deltaMax := vel / timeFact
	switch {
	case deltaMax < 0:
		if pos >= lo && pos < lo-deltaMax {
			return (lo - pos) / deltaMax
		}
		if pos < lo {
			return 0
		}
		return 1
	case deltaMax > 0:
		if pos <= hi && pos > hi-deltaMax {
			return (hi - pos) / deltaMax
		}
		if pos > hi {
			return 0
		}
		return 1
	}
	return 0
}
