package vmath

import (
	"fmt"
	"math"
)

const (
	// VectorEpsilon is the magnitude at or below which a vector normalizes to zero.
	VectorEpsilon = 1e-5
	// EpsilonNormalSqrt bounds the squared difference of two equal vectors.
	EpsilonNormalSqrt = 1e-15
)

// Vector3 is a double-precision 3D vector.
type Vector3 struct {
	X, Y, Z float64
}

var (
	Zero3    = Vector3{0, 0, 0}
	One3     = Vector3{1, 1, 1}
	Up3      = Vector3{0, 1, 0}
	Down3    = Vector3{0, -1, 0}
	Left3    = Vector3{-1, 0, 0}
	Right3   = Vector3{1, 0, 0}
	Forward3 = Vector3{0, 0, 1}
	Back3    = Vector3{0, 0, -1}
)

func Vec3(x, y, z float64) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

// Component returns X, Y or Z for index 0, 1 or 2.
func (v Vector3) Component(i int) (float64, error) {
	switch i {
	case 0:
		return v.X, nil
	case 1:
		return v.Y, nil
	case 2:
		return v.Z, nil
	default:
		return 0, fmt.Errorf("%w: %d (Vector3)", ErrIndexOutOfRange, i)
	}
}

func (v *Vector3) SetComponent(i int, value float64) error {
	switch i {
	case 0:
		v.X = value
	case 1:
		v.Y = value
	case 2:
		v.Z = value
	default:
		return fmt.Errorf("%w: %d (Vector3)", ErrIndexOutOfRange, i)
	}
	return nil
}

// Set overwrites all three components.
func (v *Vector3) Set(x, y, z float64) {
	v.X, v.Y, v.Z = x, y, z
}

// Scale multiplies v component-wise by s in place.
func (v *Vector3) Scale(s Vector3) {
	v.X *= s.X
	v.Y *= s.Y
	v.Z *= s.Z
}

// Normalize scales v to unit length in place, or sets it to zero when its
// magnitude is at or below VectorEpsilon.
func (v *Vector3) Normalize() {
	*v = v.Normalized()
}

func (v Vector3) Magnitude() float64 {
	return math.Sqrt(v.SqrMagnitude())
}

// SqrMagnitude avoids the square root; prefer it for comparisons.
func (v Vector3) SqrMagnitude() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Normalized returns v scaled to unit length. Vectors with magnitude at or
// below VectorEpsilon yield the zero vector.
func (v Vector3) Normalized() Vector3 {
	mag := v.Magnitude()
	if mag > VectorEpsilon {
		return v.Div(mag)
	}
	return Zero3
}

func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vector3) Neg() Vector3 {
	return Vector3{-v.X, -v.Y, -v.Z}
}

func (v Vector3) Mul(s float64) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vector3) Div(s float64) Vector3 {
	return Vector3{v.X / s, v.Y / s, v.Z / s}
}

// Scaled returns the component-wise product of v and o.
func (v Vector3) Scaled(o Vector3) Vector3 {
	return Vector3{v.X * o.X, v.Y * o.Y, v.Z * o.Z}
}

func (v Vector3) Dot(o Vector3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vector3) Cross(o Vector3) Vector3 {
	return Vector3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

func (v Vector3) Distance(o Vector3) float64 {
	return v.Sub(o).Magnitude()
}

// Equal reports approximate equality: |v-o|^2 < EpsilonNormalSqrt.
func (v Vector3) Equal(o Vector3) bool {
	return v.Sub(o).SqrMagnitude() < EpsilonNormalSqrt
}

// IsFinite reports whether no component is NaN or infinite.
func (v Vector3) IsFinite() bool {
	return isFinite(v.X) && isFinite(v.Y) && isFinite(v.Z)
}

// XY drops the Z component.
func (v Vector3) XY() Vector2 {
	return Vector2{X: v.X, Y: v.Y}
}

func (v Vector3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

// Lerp3 interpolates from a to b with t clamped to [0, 1].
func Lerp3(a, b Vector3, t float64) Vector3 {
	return LerpUnclamped3(a, b, Clamp01(t))
}

func LerpUnclamped3(a, b Vector3, t float64) Vector3 {
	return Vector3{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
		Z: a.Z + (b.Z-a.Z)*t,
	}
}

// ClampMagnitude3 caps the length of v at maxLength, keeping its direction.
func ClampMagnitude3(v Vector3, maxLength float64) Vector3 {
	if v.SqrMagnitude() > maxLength*maxLength {
		return v.Normalized().Mul(maxLength)
	}
	return v
}

// MoveTowards3 moves current toward target by at most maxDelta.
func MoveTowards3(current, target Vector3, maxDelta float64) Vector3 {
	delta := target.Sub(current)
	mag := delta.Magnitude()
	if mag <= maxDelta || mag == 0 {
		return target
	}
	return current.Add(delta.Div(mag).Mul(maxDelta))
}

// SmoothDamp3 gradually moves current toward target using a critically
// damped spring. It returns the new value and the updated velocity.
func SmoothDamp3(current, target, velocity Vector3, smoothTime, maxSpeed, deltaTime float64) (Vector3, Vector3) {
	smoothTime = math.Max(0.0001, smoothTime)
	omega := 2 / smoothTime
	x := omega * deltaTime
	decay := 1 / (1 + x + 0.479999989271164*x*x + 0.234999999403954*x*x*x)

	goal := target
	change := ClampMagnitude3(current.Sub(target), maxSpeed*smoothTime)
	target = current.Sub(change)

	temp := velocity.Add(change.Mul(omega)).Mul(deltaTime)
	velocity = velocity.Sub(temp.Mul(omega)).Mul(decay)
	out := target.Add(change.Add(temp).Mul(decay))

	// overshoot: snap to goal
	if goal.Sub(current).Dot(out.Sub(goal)) > 0 {
		out = goal
		velocity = Zero3
	}
	return out, velocity
}

// Reflect3 reflects dir off the plane defined by normal.
func Reflect3(dir, normal Vector3) Vector3 {
	return normal.Mul(-2 * normal.Dot(dir)).Add(dir)
}

// Project3 projects v onto onNormal. A near-zero normal yields zero.
func Project3(v, onNormal Vector3) Vector3 {
	sqr := onNormal.Dot(onNormal)
	if sqr < Epsilon {
		return Zero3
	}
	return onNormal.Mul(v.Dot(onNormal) / sqr)
}

// Exclude3 removes the component of v along dir.
func Exclude3(dir, v Vector3) Vector3 {
	return v.Sub(Project3(v, dir))
}

// Angle3 returns the unsigned angle between a and b in degrees.
func Angle3(a, b Vector3) float64 {
	return math.Acos(Clamp(a.Normalized().Dot(b.Normalized()), -1, 1)) * Rad2Deg
}

func Min3(a, b Vector3) Vector3 {
	return Vector3{math.Min(a.X, b.X), math.Min(a.Y, b.Y), math.Min(a.Z, b.Z)}
}

func Max3(a, b Vector3) Vector3 {
	return Vector3{math.Max(a.X, b.X), math.Max(a.Y, b.Y), math.Max(a.Z, b.Z)}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
