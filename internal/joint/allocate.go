package joint

// Allocation is the result of the counting phase. It pins the geometry and
// axis states that Fill and SolveSequential consume.
type Allocation struct {
	joint      *Joint
	generation uint64

	Geometry Geometry
	Status   [NumAxes]AxisStatus
	// Order lists the axes that need a row, in fill order.
	Order []Axis
	// Rows is the number of rows Fill writes.
	Rows int
	// Nub is the number of unconstrained freedoms.
	Nub int
}

// Active reports whether axis a contributes a row.
func (a *Allocation) Active(ax Axis) bool {
	for _, o := range a.Order {
		if o == ax {
			return true
		}
	}
	return false
}

// FillOrder returns the order axes are written in: angular first when offset
// stabilization is on, linear first otherwise.
func FillOrder(useOffset bool) [NumAxes]Axis {
	if useOffset {
		return [NumAxes]Axis{AngularX, AngularY, AngularZ, LinearX, LinearY, LinearZ}
	}
	return Axes()
}

// Allocate recomputes the geometry, classifies every axis and counts the rows
// the next Fill will write. Calling it again supersedes earlier allocations.
func (j *Joint) Allocate() *Allocation {
	g := j.CalculateTransforms()
	j.generation++
	a := &Allocation{
		joint:      j,
		generation: j.generation,
		Geometry:   g,
		Order:      make([]Axis, 0, NumAxes),
		Nub:        NumAxes,
	}
	for _, ax := range Axes() {
		m := &j.motors[ax]
		v := g.Value(ax)
		if ax.Kind() == Angular {
			v = adjustAngle(v, m)
		}
		a.Status[ax] = m.Test(v)
	}
	for _, ax := range FillOrder(g.UseOffset) {
		if j.motors[ax].NeedsRow(a.Status[ax]) {
			a.Order = append(a.Order, ax)
		}
	}
	a.Rows = len(a.Order)
	a.Nub -= a.Rows
	if j.tracer != nil {
		j.tracer.OnAllocate(a)
	}
	return a
}

func (j *Joint) checkAllocation(a *Allocation) error {
	if a == nil {
		return ErrNotAllocated
	}
	if a.joint != j || a.generation != j.generation {
		return ErrStaleAllocation
	}
	return nil
}
