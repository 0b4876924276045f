package vmath

import "math"

const (
	Deg2Rad = math.Pi / 180
	Rad2Deg = 180 / math.Pi

	// Epsilon is the smallest positive single-precision value. It marks values
	// that are zero for every practical purpose, e.g. massless marker bodies.
	Epsilon = 1.401298e-45

	approxFloor = 1.121039e-44
)

func Sin(x float64) float64      { return math.Sin(x) }
func Cos(x float64) float64      { return math.Cos(x) }
func Tan(x float64) float64      { return math.Tan(x) }
func Asin(x float64) float64     { return math.Asin(x) }
func Acos(x float64) float64     { return math.Acos(x) }
func Atan(x float64) float64     { return math.Atan(x) }
func Atan2(y, x float64) float64 { return math.Atan2(y, x) }
func Sqrt(x float64) float64     { return math.Sqrt(x) }
func Abs(x float64) float64      { return math.Abs(x) }
func Pow(x, p float64) float64   { return math.Pow(x, p) }
func Exp(x float64) float64      { return math.Exp(x) }
func Log(x float64) float64      { return math.Log(x) }
func Log10(x float64) float64    { return math.Log10(x) }
func Ceil(x float64) float64     { return math.Ceil(x) }
func Floor(x float64) float64    { return math.Floor(x) }

// LogBase returns the logarithm of x in base b.
func LogBase(x, b float64) float64 {
	return math.Log(x) / math.Log(b)
}

// Round rounds half to even.
func Round(x float64) float64 { return math.RoundToEven(x) }

func CeilToInt(x float64) int  { return int(math.Ceil(x)) }
func FloorToInt(x float64) int { return int(math.Floor(x)) }
func RoundToInt(x float64) int { return int(math.RoundToEven(x)) }

// Min returns the smallest argument, or 0 when called without arguments.
func Min(values ...float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// Max returns the largest argument, or 0 when called without arguments.
func Max(values ...float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// Sign returns 1 for x >= 0 and -1 otherwise.
func Sign(x float64) float64 {
	if x >= 0 {
		return 1
	}
	return -1
}

func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func Clamp01(x float64) float64 {
	return Clamp(x, 0, 1)
}

// Lerp interpolates between a and b with t clamped to [0, 1].
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*Clamp01(t)
}

func LerpUnclamped(a, b, t float64) float64 {
	return a + (b-a)*t
}

// LerpAngle interpolates between two angles in degrees along the shortest arc.
func LerpAngle(a, b, t float64) float64 {
	d := Repeat(b-a, 360)
	if d > 180 {
		d -= 360
	}
	return a + d*Clamp01(t)
}

// InverseLerp returns where value lies between from and to, in [0, 1].
func InverseLerp(from, to, value float64) float64 {
	if from < to {
		if value < from {
			return 0
		}
		if value > to {
			return 1
		}
		return (value - from) / (to - from)
	}
	if from <= to {
		return 0
	}
	if value < to {
		return 1
	}
	if value > from {
		return 0
	}
	return 1 - (value-to)/(from-to)
}

func MoveTowards(current, target, maxDelta float64) float64 {
	if math.Abs(target-current) <= maxDelta {
		return target
	}
	return current + Sign(target-current)*maxDelta
}

func MoveTowardsAngle(current, target, maxDelta float64) float64 {
	return MoveTowards(current, current+DeltaAngle(current, target), maxDelta)
}

// SmoothStep interpolates with a cubic Hermite ease between a and b.
func SmoothStep(a, b, t float64) float64 {
	t = Clamp01(t)
	t = -2*t*t*t + 3*t*t
	return b*t + a*(1-t)
}

// SmoothDamp moves current toward target with a critically damped spring
// and returns the new value together with the updated velocity.
func SmoothDamp(current, target, velocity, smoothTime, maxSpeed, deltaTime float64) (float64, float64) {
	smoothTime = math.Max(0.0001, smoothTime)
	omega := 2 / smoothTime
	x := omega * deltaTime
	decay := 1 / (1 + x + 0.479999989271164*x*x + 0.234999999403954*x*x*x)

	goal := target
	maxChange := maxSpeed * smoothTime
	change := Clamp(current-target, -maxChange, maxChange)
	target = current - change

	temp := (velocity + omega*change) * deltaTime
	velocity = (velocity - omega*temp) * decay
	out := target + (change+temp)*decay

	if (goal-current > 0) == (out > goal) {
		out = goal
		velocity = 0
	}
	return out, velocity
}

func SmoothDampAngle(current, target, velocity, smoothTime, maxSpeed, deltaTime float64) (float64, float64) {
	target = current + DeltaAngle(current, target)
	return SmoothDamp(current, target, velocity, smoothTime, maxSpeed, deltaTime)
}

// Gamma applies a power curve to |value| relative to absmax, keeping the sign.
func Gamma(value, absmax, gamma float64) float64 {
	neg := value < 0
	abs := math.Abs(value)
	out := abs
	if abs <= absmax {
		out = math.Pow(abs/absmax, gamma) * absmax
	}
	if neg {
		return -out
	}
	return out
}

// Approximately compares with a relative tolerance of 1e-6 and a tiny
// absolute floor.
func Approximately(a, b float64) bool {
	return math.Abs(b-a) < math.Max(1e-6*math.Max(math.Abs(a), math.Abs(b)), approxFloor)
}

// Repeat wraps t into [0, length).
func Repeat(t, length float64) float64 {
	return t - math.Floor(t/length)*length
}

// PingPong bounces t between 0 and length.
func PingPong(t, length float64) float64 {
	t = Repeat(t, length*2)
	return length - math.Abs(t-length)
}

// DeltaAngle returns the shortest signed difference between two angles in degrees.
func DeltaAngle(current, target float64) float64 {
	d := Repeat(target-current, 360)
	if d > 180 {
		d -= 360
	}
	return d
}

// LineIntersection intersects the infinite lines p1-p2 and p3-p4.
func LineIntersection(p1, p2, p3, p4 Vector2) (Vector2, bool) {
	d1 := p2.Sub(p1)
	d2 := p4.Sub(p3)
	den := d1.Cross(d2)
	if den == 0 {
		return Vector2{}, false
	}
	w := p3.Sub(p1)
	t := w.Cross(d2) / den
	return p1.Add(d1.Mul(t)), true
}

// LineSegmentIntersection intersects the segments p1-p2 and p3-p4.
func LineSegmentIntersection(p1, p2, p3, p4 Vector2) (Vector2, bool) {
	d1 := p2.Sub(p1)
	d2 := p4.Sub(p3)
	den := d1.Cross(d2)
	if den == 0 {
		return Vector2{}, false
	}
	w := p3.Sub(p1)
	t := w.Cross(d2) / den
	if t < 0 || t > 1 {
		return Vector2{}, false
	}
	u := w.Cross(d1) / den
	if u < 0 || u > 1 {
		return Vector2{}, false
	}
	return p1.Add(d1.Mul(t)), true
}
