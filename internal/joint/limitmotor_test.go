package joint

import (
	"math"
	"testing"
)

func TestLimitMotorTest(t *testing.T) {
	tests := []struct {
		name   string
		lo, hi float64
		value  float64
		state  LimitState
		err    float64
	}{
		{"free zero", 1, -1, 0, Free, 0},
		{"free +inf", 1, -1, math.Inf(1), Free, 0},
		{"free -inf", 1, -1, math.Inf(-1), Free, 0},
		{"inside", -1, 1, 0.5, Free, 0},
		{"below", -1, 1, -1.5, AtLow, -0.5},
		{"above", -1, 1, 1.25, AtHigh, 0.25},
		{"on low bound", -1, 1, -1, Free, 0},
		{"locked exact", 0, 0, 0, AtLow, 0},
		{"locked below", 0.2, 0.2, 0.1, AtLow, -0.1},
		{"locked above", 0.2, 0.2, 0.5, AtHigh, 0.3},
	}

	for _, tt := range tests {
		m := LimitMotor{LowLimit: tt.lo, HighLimit: tt.hi}
		st := m.Test(tt.value)
		if st.State != tt.state {
			t.Errorf("%s: state got %v, expected %v", tt.name, st.State, tt.state)
		}
		if math.Abs(st.Error-tt.err) > 1e-12 {
			t.Errorf("%s: error got %v, expected %v", tt.name, st.Error, tt.err)
		}
	}
}

func TestNeedsRowAndPowered(t *testing.T) {
	free := LimitMotor{LowLimit: 1, HighLimit: -1}
	if free.NeedsRow(free.Test(3)) {
		t.Error("unpowered free axis should not need a row")
	}
	free.EnableMotor = true
	st := free.Test(3)
	if !free.NeedsRow(st) || !free.Powered(st) {
		t.Error("motorized free axis should need a powered row")
	}

	locked := LimitMotor{EnableMotor: true}
	st = locked.Test(0.4)
	if !locked.NeedsRow(st) {
		t.Error("locked axis should need a row")
	}
	if locked.Powered(st) {
		t.Error("motor on a locked axis should be suppressed")
	}

	ranged := LimitMotor{LowLimit: -1, HighLimit: 1, EnableMotor: true}
	if !ranged.Powered(ranged.Test(2)) {
		t.Error("motor alongside a range limit stays powered")
	}
}

func TestMotorFactor(t *testing.T) {
	tests := []struct {
		name                     string
		pos, lo, hi, vel, tfact  float64
		want                     float64
	}{
		{"free range", 0, 1, -1, 2, 10, 1},
		{"locked", 0, 0, 0, 2, 10, 0},
		{"zero velocity", 0, -1, 1, 0, 10, 0},
		{"far from high", 0, -1, 1, 1, 10, 1},
		{"near high", 0.95, -1, 1, 1, 10, 0.5},
		{"past high", 1.5, -1, 1, 1, 10, 0},
		{"near low", -0.95, -1, 1, -1, 10, 0.5},
		{"past low", -1.5, -1, 1, -1, 10, 0},
		{"moving away from low", -1.5, -1, 1, 1, 10, 1},
	}

	for _, tt := range tests {
		got := MotorFactor(tt.pos, tt.lo, tt.hi, tt.vel, tt.tfact)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%s: got %v, expected %v", tt.name, got, tt.want)
		}
	}
}

func TestDefaultMotors(t *testing.T) {
	ang := DefaultAngularMotor()
	if !ang.IsFree() {
		t.Error("default angular motor should be free")
	}
	lin := DefaultLinearMotor()
	if !lin.IsLocked() {
		t.Error("default linear motor should be locked")
	}
}
