package joint

import "fmt"

// Param selects an explicit softening or error-reduction override.
type Param int

const (
	// ParamStopERP overrides the error reduction applied at a limit.
	ParamStopERP Param = iota + 1
	// ParamStopCFM overrides the constraint force mixing at a limit.
	ParamStopCFM
	// ParamCFM overrides the constraint force mixing while motoring.
	ParamCFM
)

func (p Param) String() string {
	switch p {
	case ParamStopERP:
		return "stop_erp"
	case ParamStopCFM:
		return "stop_cfm"
	case ParamCFM:
		return "cfm"
	}
	return fmt.Sprintf("param(%d)", int(p))
}

// paramFlags packs three override bits per axis.
type paramFlags uint32

const (
	flagCFMNorm paramFlags = 1 << iota
	flagCFMStop
	flagERPStop

	flagsAxisShift = 3
)

func (f paramFlags) has(a Axis, bit paramFlags) bool {
	return f>>(uint(a)*flagsAxisShift)&bit != 0
}

func (f *paramFlags) set(a Axis, bit paramFlags) {
	*f |= bit << (uint(a) * flagsAxisShift)
}

func (p Param) flag() (paramFlags, error) {
	switch p {
	case ParamStopERP:
		return flagERPStop, nil
	case ParamStopCFM:
		return flagCFMStop, nil
	case ParamCFM:
		return flagCFMNorm, nil
	}
	return 0, fmt.Errorf("%w: %v", ErrParam, p)
}

// SetParam stores an override for axis index 0..5, or for every axis when
// axis is -1. Axes without an override use the solver defaults in Fill.
func (j *Joint) SetParam(p Param, value float64, axis int) error {
	bit, err := p.flag()
	if err != nil {
		return err
	}
	if axis == -1 {
		for _, a := range Axes() {
			j.setParam(p, bit, value, a)
		}
		return nil
	}
	if axis < 0 || axis >= NumAxes {
		return fmt.Errorf("%w: %d", ErrAxisIndex, axis)
	}
	j.setParam(p, bit, value, Axis(axis))
	return nil
}

func (j *Joint) setParam(p Param, bit paramFlags, value float64, a Axis) {
	m := &j.motors[a]
	switch p {
	case ParamStopERP:
		m.StopERP = value
	case ParamStopCFM:
		m.StopCFM = value
	case ParamCFM:
		m.NormalCFM = value
	}
	j.flags.set(a, bit)
}

// Param returns the override for axis index 0..5. It fails with ErrParam when
// no override was set.
func (j *Joint) Param(p Param, axis int) (float64, error) {
	bit, err := p.flag()
	if err != nil {
		return 0, err
	}
	if axis < 0 || axis >= NumAxes {
		return 0, fmt.Errorf("%w: %d", ErrAxisIndex, axis)
	}
	a := Axis(axis)
	if !j.flags.has(a, bit) {
		return 0, fmt.Errorf("%w: %v not set on %v", ErrParam, p, a)
	}
	m := j.motors[a]
	switch p {
	case ParamStopERP:
		return m.StopERP, nil
	case ParamStopCFM:
		return m.StopCFM, nil
	}
	return m.NormalCFM, nil
}

// rowParams resolves the CFM and ERP values a row uses for axis a.
type rowParams struct {
	normalCFM float64
	stopCFM   float64
	stopERP   float64
}

func (j *Joint) resolveParams(a Axis, sp SolverParams) rowParams {
	m := &j.motors[a]
	rp := rowParams{normalCFM: sp.CFM, stopCFM: sp.CFM, stopERP: sp.ERP}
	if j.flags.has(a, flagCFMNorm) {
		rp.normalCFM = m.NormalCFM
	}
	if j.flags.has(a, flagCFMStop) {
		rp.stopCFM = m.StopCFM
	}
	if j.flags.has(a, flagERPStop) {
		rp.stopERP = m.StopERP
	}
	return rp
}
