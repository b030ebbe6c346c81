// Package joint implements a generic six-degree-of-freedom constraint between
// two rigid bodies.
//
// Every relative freedom (three translations, three rotations) owns a
// [LimitMotor] that can leave the axis free, restrict it to a range, lock it,
// or drive it at a target velocity. A step runs in two phases:
//
//   - [Joint.Allocate] computes an immutable [Geometry] snapshot, classifies
//     every axis and reports how many solver rows are needed.
//   - [Joint.Fill] writes exactly that many [Row] values into caller-owned
//     storage for a global velocity solver.
//
// Callers that do not run a global solver use [Joint.SolveSequential], which
// applies clamped accumulated impulses directly to the bodies.
//
// # Thread Safety
//
// A Joint is owned by a single goroutine. Different joints may be allocated
// and filled concurrently as long as no two of them write the same rows; see
// package batch.
package joint
