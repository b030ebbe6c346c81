package spatial

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon is the threshold below which a scalar or vector component is
// treated as zero.
const Epsilon = 1e-10

const twoPi = 2 * math.Pi

func FuzzyZero(x float64) bool {
	return math.Abs(x) < Epsilon
}

// FuzzyEqual compares with an absolute tolerance of Epsilon.
func FuzzyEqual(a, b float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) < Epsilon
}

// ZeroCheck flushes every component whose magnitude is below Epsilon.
func ZeroCheck(v mgl64.Vec3) mgl64.Vec3 {
	for i := range v {
		if FuzzyZero(v[i]) {
			v[i] = 0
		}
	}
	return v
}

// SafeNormalize returns the unit vector along v, or the zero vector when v is
// too short to have a direction.
func SafeNormalize(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l < Epsilon {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}

// NormalizeAngle maps an angle into [-π, π].
func NormalizeAngle(angle float64) float64 {
	angle = math.Mod(angle, twoPi)
	if angle < -math.Pi {
		return angle + twoPi
	}
	if angle > math.Pi {
		return angle - twoPi
	}
	return angle
}

// AdjustAngleToLimits shifts an out-of-range angle by a full turn when that
// brings it closer to the nearer limit. Free ranges (lo >= hi) are left alone.
func AdjustAngleToLimits(angle, lo, hi float64) float64 {
	if lo >= hi {
		return angle
	}
	if angle < lo {
		diffLo := math.Abs(NormalizeAngle(lo - angle))
		diffHi := math.Abs(NormalizeAngle(hi - angle))
		if diffLo < diffHi {
			return angle
		}
		return angle + twoPi
	}
	if angle > hi {
		diffHi := math.Abs(NormalizeAngle(angle - hi))
		diffLo := math.Abs(NormalizeAngle(angle - lo))
		if diffLo < diffHi {
			return angle - twoPi
		}
		return angle
	}
	return angle
}

// EulerXYZ decomposes m = Rx(x)·Ry(y)·Rz(z). The second result is false when
// m is at the y = ±π/2 singularity, where x and z are not unique and z is
// reported as zero.
func EulerXYZ(m mgl64.Mat3) (mgl64.Vec3, bool) {
	s := m.At(0, 2)
	switch {
	case s >= 1:
		return mgl64.Vec3{math.Atan2(m.At(1, 0), m.At(1, 1)), math.Pi / 2, 0}, false
	case s <= -1:
		return mgl64.Vec3{-math.Atan2(m.At(1, 0), m.At(1, 1)), -math.Pi / 2, 0}, false
	}
	return mgl64.Vec3{
		math.Atan2(-m.At(1, 2), m.At(2, 2)),
		math.Asin(s),
		math.Atan2(-m.At(0, 1), m.At(0, 0)),
	}, true
}
