package orbit

import (
	"math"

	"github.com/san-kum/gravlace/internal/vmath"
)

// Elements are classical Keplerian orbital elements. Angles are in radians.
type Elements struct {
	SemiMajorAxis float64
	Eccentricity  float64
	Inclination   float64
	Node          float64 // longitude of the ascending node
	Periapsis     float64 // argument of periapsis
	MeanAnomaly   float64
}

// ToCartesian converts e to a position and velocity relative to the central
// body with gravitational parameter mu.
func (e Elements) ToCartesian(mu float64) State {
	E := e.eccentricAnomaly()
	sinE, cosE := math.Sincos(E)
	ecc := e.Eccentricity
	a := e.SemiMajorAxis
	q := math.Sqrt(1 - ecc*ecc)

	// perifocal frame
	x := a * (cosE - ecc)
	y := a * q * sinE
	n := math.Sqrt(mu / (a * a * a))
	rr := 1 - ecc*cosE
	vx := -a * n * sinE / rr
	vy := a * n * q * cosE / rr

	so, co := math.Sincos(e.Node)
	sw, cw := math.Sincos(e.Periapsis)
	si, ci := math.Sincos(e.Inclination)

	r11 := co*cw - so*sw*ci
	r12 := -co*sw - so*cw*ci
	r21 := so*cw + co*sw*ci
	r22 := -so*sw + co*cw*ci
	r31 := sw * si
	r32 := cw * si

	return State{
		Position: vmath.Vec3(r11*x+r12*y, r21*x+r22*y, r31*x+r32*y),
		Velocity: vmath.Vec3(r11*vx+r12*vy, r21*vx+r22*vy, r31*vx+r32*vy),
	}
}

// eccentricAnomaly solves M = E - e sin E by Newton iteration.
func (e Elements) eccentricAnomaly() float64 {
	E := e.MeanAnomaly
	if e.Eccentricity > 0.8 {
		E = math.Pi
	}
	for i := 0; i < 50; i++ {
		d := (E - e.Eccentricity*math.Sin(E) - e.MeanAnomaly) / (1 - e.Eccentricity*math.Cos(E))
		E -= d
		if math.Abs(d) < 1e-12 {
			break
		}
	}
	return E
}

func (e Elements) PeriapsisDistance() float64 { return e.SemiMajorAxis * (1 - e.Eccentricity) }
func (e Elements) ApoapsisDistance() float64  { return e.SemiMajorAxis * (1 + e.Eccentricity) }

// Period returns the orbital period about mu.
func (e Elements) Period(mu float64) float64 {
	return Period(e.SemiMajorAxis, mu)
}

// FromCartesian recovers the elements of a bound orbit from a relative
// position and velocity.
func FromCartesian(s State, mu float64) Elements {
	pos, vel := s.Position, s.Velocity
	h := pos.Cross(vel)
	r := pos.Magnitude()
	v := vel.Magnitude()

	eVec := vel.Cross(h).Div(mu).Sub(pos.Div(r))
	ecc := eVec.Magnitude()
	a := 1 / (2/r - v*v/mu)

	inc := 0.0
	if hm := h.Magnitude(); hm > 0 {
		inc = math.Acos(vmath.Clamp(h.Z/hm, -1, 1))
	}

	n := vmath.Forward3.Cross(h)
	node := 0.0
	if n.Magnitude() > 1e-10 {
		node = math.Atan2(n.Y, n.X)
		if node < 0 {
			node += 2 * math.Pi
		}
	}

	peri := 0.0
	if ecc > 1e-10 {
		if n.Magnitude() > 1e-10 {
			peri = math.Acos(vmath.Clamp(n.Dot(eVec)/(n.Magnitude()*ecc), -1, 1))
			if eVec.Z < 0 {
				peri = 2*math.Pi - peri
			}
		} else {
			peri = math.Atan2(eVec.Y, eVec.X)
			if h.Z < 0 {
				peri = -peri
			}
			if peri < 0 {
				peri += 2 * math.Pi
			}
		}
	}

	mean := 0.0
	if ecc > 1e-10 {
		E := math.Acos(vmath.Clamp((1-r/a)/ecc, -1, 1))
		if pos.Dot(vel) < 0 {
			E = 2*math.Pi - E
		}
		mean = E - ecc*math.Sin(E)
	}

	return Elements{
		SemiMajorAxis: a,
		Eccentricity:  ecc,
		Inclination:   inc,
		Node:          node,
		Periapsis:     peri,
		MeanAnomaly:   mean,
	}
}
