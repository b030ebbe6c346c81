package joint

// Tracer observes the internals of a joint step. All methods are called
// synchronously on the goroutine driving the joint. A nil tracer disables
// tracing.
type Tracer interface {
	OnGeometry(g Geometry)
	OnAllocate(a *Allocation)
	OnRow(axis Axis, index int, r Row)
	OnImpulse(axis Axis, delta, accumulated float64)
}
