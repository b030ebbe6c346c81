package joint

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAllocated indicates Fill or a solve was called without an allocation.
	ErrNotAllocated = errors.New("joint: fill called without allocation")

	// ErrStaleAllocation indicates the allocation is not the joint's latest one
	// or belongs to another joint.
	ErrStaleAllocation = errors.New("joint: allocation is stale")

	// ErrRowStorage indicates the destination cannot hold the allocated rows.
	ErrRowStorage = errors.New("joint: insufficient row storage")

	// ErrAxisIndex indicates an axis index outside 0..5.
	ErrAxisIndex = errors.New("joint: axis index out of range")

	// ErrParam indicates an unknown parameter or one that was never overridden.
	ErrParam = errors.New("joint: invalid parameter")

	// ErrTimestep indicates a non-positive timestep or solver frequency.
	ErrTimestep = errors.New("joint: timestep must be positive")
)

// FillError wraps a protocol violation with the row context it was detected in.
type FillError struct {
	Offset   int
	Rows     int
	Capacity int
	Wrapped  error
}

func (e *FillError) Error() string {
	return fmt.Sprintf("%v (offset %d, rows %d, capacity %d)", e.Wrapped, e.Offset, e.Rows, e.Capacity)
}

func (e *FillError) Unwrap() error {
	return e.Wrapped
}
