// Package spatial provides the rigid-transform and angle helpers shared by the
// joint solver.
//
// Vectors and matrices are [mgl64] types. A [Transform] stores its rotation as
// a basis whose columns are the frame's x, y and z axes expressed in the
// parent frame, so Basis.Col(i) is axis i in world space.
//
//   - [Transform]: rotation basis plus origin, composed with [Transform.Mul]
//   - [EulerXYZ]: decomposition of a basis into Rx·Ry·Rz angles
//   - [NormalizeAngle], [AdjustAngleToLimits]: canonical angle handling
//   - [ZeroCheck]: flushes numerically negligible vector components
package spatial
