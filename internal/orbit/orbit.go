// Package orbit computes initial conditions and reference values for
// Keplerian orbits.
package orbit

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/gravlace/internal/vmath"
)

var ErrInvalidOrbit = errors.New("orbit: invalid orbit parameters")

// Period returns the Kepler period of an orbit with semi-major axis a about a
// central gravitational parameter mu = G(M+m).
func Period(a, mu float64) float64 {
	return 2 * math.Pi * math.Sqrt(a*a*a/mu)
}

// CircularSpeed is the relative speed of a circular orbit of radius r.
func CircularSpeed(mu, r float64) float64 {
	return math.Sqrt(mu / r)
}

// State is a position and velocity pair.
type State struct {
	Position vmath.Vector3
	Velocity vmath.Vector3
}

// TwoBodyCircular places m1 and m2 on a circular orbit about their common
// barycenter at the origin. The separation lies along +x (m2 on the positive
// side) and the motion is counter-clockwise in the XY plane, so the total
// momentum is zero.
func TwoBodyCircular(m1, m2, sep, g float64) (State, State, error) {
	if m1 < 0 || m2 < 0 || m1+m2 <= 0 || sep <= 0 || g <= 0 {
		return State{}, State{}, fmt.Errorf("%w: m1=%g m2=%g sep=%g g=%g", ErrInvalidOrbit, m1, m2, sep, g)
	}
	total := m1 + m2
	v := CircularSpeed(g*total, sep)

	a := State{
		Position: vmath.Vec3(-sep*m2/total, 0, 0),
		Velocity: vmath.Vec3(0, -v*m2/total, 0),
	}
	b := State{
		Position: vmath.Vec3(sep*m1/total, 0, 0),
		Velocity: vmath.Vec3(0, v*m1/total, 0),
	}
	return a, b, nil
}

// CircularVelocity returns the velocity a satellite at satPos needs for a
// circular orbit around a primary at primaryPos moving with primaryVel. The
// orbit is counter-clockwise about +z; a separation parallel to z falls back
// to the +x axis.
func CircularVelocity(mu float64, primaryPos, primaryVel, satPos vmath.Vector3) vmath.Vector3 {
	r := satPos.Sub(primaryPos)
	dist := r.Magnitude()
	if dist <= vmath.VectorEpsilon {
		return primaryVel
	}
	dir := vmath.Forward3.Cross(r).Normalized()
	if dir == vmath.Zero3 {
		dir = r.Cross(vmath.Right3).Normalized()
	}
	return primaryVel.Add(dir.Mul(CircularSpeed(mu, dist)))
}
