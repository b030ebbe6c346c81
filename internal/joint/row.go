package joint

import "github.com/go-gl/mathgl/mgl64"

// Row is one scalar velocity constraint for a global solver. Its velocity is
// J1Linear·vA + J1Angular·wA + J2Linear·vB + J2Angular·wB and a positive
// impulse pushes that velocity up.
type Row struct {
	J1Linear  mgl64.Vec3
	J1Angular mgl64.Vec3
	J2Linear  mgl64.Vec3
	J2Angular mgl64.Vec3

	// Lower and Upper bound the row impulse.
	Lower float64
	Upper float64
	// Bias is the target row velocity.
	Bias float64
	CFM  float64
}

// Velocity evaluates the row against body velocities.
func (r *Row) Velocity(vA, wA, vB, wB mgl64.Vec3) float64 {
	return r.J1Linear.Dot(vA) + r.J1Angular.Dot(wA) + r.J2Linear.Dot(vB) + r.J2Angular.Dot(wB)
}

// SolverParams carries the global solver's defaults into Fill.
type SolverParams struct {
	// FPS is the inverse timestep.
	FPS float64
	// ERP and CFM apply to axes without an explicit override.
	ERP float64
	CFM float64
}

// DefaultSolverParams returns 60 Hz with ERP 0.2 and no softening.
func DefaultSolverParams() SolverParams {
	return SolverParams{FPS: 60, ERP: 0.2, CFM: 0}
}
