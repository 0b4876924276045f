// Package vmath provides double-precision vector and scalar math.
//
// The package defines two value types and a set of scalar helpers:
//
//   - [Vector3]: 3D vector used for body positions and velocities
//   - [Vector2]: 2D counterpart with rotation helpers
//   - scalar functions ([Clamp], [Lerp], [SmoothDamp], [Approximately], ...)
//
// # Equality
//
// [Vector3.Equal] and [Vector2.Equal] are approximate: two vectors are equal
// when the squared magnitude of their difference is below [EpsilonNormalSqrt].
// Compare components directly when bit-exact equality is required.
//
// # Mutation
//
// Value receivers never mutate. Only Normalize, Set, Scale and (2D) Rotate
// take pointer receivers and change the vector in place.
package vmath
