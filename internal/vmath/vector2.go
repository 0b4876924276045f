package vmath

import (
	"fmt"
	"math"
)

// Vector2 is a double-precision 2D vector.
type Vector2 struct {
	X, Y float64
}

var (
	Zero2  = Vector2{0, 0}
	One2   = Vector2{1, 1}
	Up2    = Vector2{0, 1}
	Down2  = Vector2{0, -1}
	Left2  = Vector2{-1, 0}
	Right2 = Vector2{1, 0}
)

func Vec2(x, y float64) Vector2 {
	return Vector2{X: x, Y: y}
}

func (v Vector2) Component(i int) (float64, error) {
	switch i {
	case 0:
		return v.X, nil
	case 1:
		return v.Y, nil
	default:
		return 0, fmt.Errorf("%w: %d (Vector2)", ErrIndexOutOfRange, i)
	}
}

func (v *Vector2) SetComponent(i int, value float64) error {
	switch i {
	case 0:
		v.X = value
	case 1:
		v.Y = value
	default:
		return fmt.Errorf("%w: %d (Vector2)", ErrIndexOutOfRange, i)
	}
	return nil
}

func (v *Vector2) Set(x, y float64) {
	v.X, v.Y = x, y
}

func (v *Vector2) Scale(s Vector2) {
	v.X *= s.X
	v.Y *= s.Y
}

func (v *Vector2) Normalize() {
	*v = v.Normalized()
}

// Rotate rotates v counter-clockwise by angle radians in place.
func (v *Vector2) Rotate(angle float64) {
	sin, cos := math.Sincos(angle)
	v.Set(v.X*cos-v.Y*sin, v.X*sin+v.Y*cos)
}

// Rotated returns a copy of v rotated by angle radians.
func (v Vector2) Rotated(angle float64) Vector2 {
	v.Rotate(angle)
	return v
}

func (v Vector2) Magnitude() float64    { return math.Sqrt(v.SqrMagnitude()) }
func (v Vector2) SqrMagnitude() float64 { return v.X*v.X + v.Y*v.Y }

func (v Vector2) Normalized() Vector2 {
	mag := v.Magnitude()
	if mag > VectorEpsilon {
		return v.Div(mag)
	}
	return Zero2
}

func (v Vector2) Add(o Vector2) Vector2      { return Vector2{v.X + o.X, v.Y + o.Y} }
func (v Vector2) Sub(o Vector2) Vector2      { return Vector2{v.X - o.X, v.Y - o.Y} }
func (v Vector2) Neg() Vector2               { return Vector2{-v.X, -v.Y} }
func (v Vector2) Mul(s float64) Vector2      { return Vector2{v.X * s, v.Y * s} }
func (v Vector2) Div(s float64) Vector2      { return Vector2{v.X / s, v.Y / s} }
func (v Vector2) Scaled(o Vector2) Vector2   { return Vector2{v.X * o.X, v.Y * o.Y} }
func (v Vector2) Dot(o Vector2) float64      { return v.X*o.X + v.Y*o.Y }
func (v Vector2) Distance(o Vector2) float64 { return v.Sub(o).Magnitude() }

// Cross returns the Z component of the 3D cross product of v and o.
func (v Vector2) Cross(o Vector2) float64 {
	return v.X*o.Y - v.Y*o.X
}

func (v Vector2) Equal(o Vector2) bool {
	return v.Sub(o).SqrMagnitude() < EpsilonNormalSqrt
}

func (v Vector2) IsFinite() bool {
	return isFinite(v.X) && isFinite(v.Y)
}

// To3 extends v with Z = 0.
func (v Vector2) To3() Vector3 {
	return Vector3{X: v.X, Y: v.Y}
}

func (v Vector2) String() string {
	return fmt.Sprintf("(%g, %g)", v.X, v.Y)
}

func Lerp2(a, b Vector2, t float64) Vector2 {
	return LerpUnclamped2(a, b, Clamp01(t))
}

func LerpUnclamped2(a, b Vector2, t float64) Vector2 {
	return Vector2{a.X + (b.X-a.X)*t, a.Y + (b.Y-a.Y)*t}
}

func ClampMagnitude2(v Vector2, maxLength float64) Vector2 {
	if v.SqrMagnitude() > maxLength*maxLength {
		return v.Normalized().Mul(maxLength)
	}
	return v
}

func MoveTowards2(current, target Vector2, maxDelta float64) Vector2 {
	delta := target.Sub(current)
	mag := delta.Magnitude()
	if mag <= maxDelta || mag == 0 {
		return target
	}
	return current.Add(delta.Div(mag).Mul(maxDelta))
}

// SmoothDamp2 is the 2D form of SmoothDamp3.
func SmoothDamp2(current, target, velocity Vector2, smoothTime, maxSpeed, deltaTime float64) (Vector2, Vector2) {
	out, vel := SmoothDamp3(current.To3(), target.To3(), velocity.To3(), smoothTime, maxSpeed, deltaTime)
	return out.XY(), vel.XY()
}

func Reflect2(dir, normal Vector2) Vector2 {
	return normal.Mul(-2 * normal.Dot(dir)).Add(dir)
}

// Angle2 returns the unsigned angle between a and b in degrees.
func Angle2(a, b Vector2) float64 {
	return math.Acos(Clamp(a.Normalized().Dot(b.Normalized()), -1, 1)) * Rad2Deg
}

func Min2(a, b Vector2) Vector2 {
	return Vector2{math.Min(a.X, b.X), math.Min(a.Y, b.Y)}
}

func Max2(a, b Vector2) Vector2 {
	return Vector2{math.Max(a.X, b.X), math.Max(a.Y, b.Y)}
}
