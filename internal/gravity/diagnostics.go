package gravity

import (
	"math"

	"github.com/san-kum/gravlace/internal/vmath"
)

// Acceleration returns the acceleration attractor imparts on subject. Pairs
// closer than vmath.VectorEpsilon yield zero, matching the integrator.
func Acceleration(attractor, subject Body, g float64) vmath.Vector3 {
	r := subject.Position.Sub(attractor.Position)
	sqr := r.SqrMagnitude()
	dist := math.Sqrt(sqr)
	if dist <= vmath.VectorEpsilon {
		return vmath.Zero3
	}
	return r.Div(dist).Mul(-g * attractor.Mass / sqr)
}

// PairForce returns the force that from exerts on on.
func PairForce(on, from Body, g float64) vmath.Vector3 {
	return Acceleration(from, on, g).Mul(on.Mass)
}

func TotalMomentum(bodies []Body) vmath.Vector3 {
	var p vmath.Vector3
	for _, b := range bodies {
		p = p.Add(b.Velocity.Mul(b.Mass))
	}
	return p
}

// MomentumScale is the sum of |m v|, the natural scale for relative
// momentum drift.
func MomentumScale(bodies []Body) float64 {
	s := 0.0
	for _, b := range bodies {
		s += b.Mass * b.Velocity.Magnitude()
	}
	return s
}

func KineticEnergy(bodies []Body) float64 {
	ke := 0.0
	for _, b := range bodies {
		ke += 0.5 * b.Mass * b.Velocity.SqrMagnitude()
	}
	return ke
}

// PotentialEnergy sums -G m_i m_j / r over distinct pairs, skipping
// coincident pairs.
func PotentialEnergy(bodies []Body, g float64) float64 {
	pe := 0.0
	for i := range bodies {
		for j := i + 1; j < len(bodies); j++ {
			r := bodies[i].Position.Distance(bodies[j].Position)
			if r <= vmath.VectorEpsilon {
				continue
			}
			pe -= g * bodies[i].Mass * bodies[j].Mass / r
		}
	}
	return pe
}

func TotalEnergy(bodies []Body, g float64) float64 {
	return KineticEnergy(bodies) + PotentialEnergy(bodies, g)
}

// AngularMomentum returns the sum of m r x v about the origin.
func AngularMomentum(bodies []Body) vmath.Vector3 {
	var l vmath.Vector3
	for _, b := range bodies {
		l = l.Add(b.Position.Cross(b.Velocity).Mul(b.Mass))
	}
	return l
}

// CenterOfMass returns the mass-weighted mean position, or the origin when
// the total mass is zero.
func CenterOfMass(bodies []Body) vmath.Vector3 {
	var sum vmath.Vector3
	total := 0.0
	for _, b := range bodies {
		sum = sum.Add(b.Position.Mul(b.Mass))
		total += b.Mass
	}
	if total == 0 {
		return vmath.Zero3
	}
	return sum.Div(total)
}

// TotalMomentum returns the momentum of the live bodies.
func (s *Simulation) TotalMomentum() vmath.Vector3 {
	return TotalMomentum(s.Snapshot())
}

// TotalEnergy returns kinetic plus potential energy using Params.G.
func (s *Simulation) TotalEnergy() float64 {
	return TotalEnergy(s.Snapshot(), s.params.G)
}

func (s *Simulation) AngularMomentum() vmath.Vector3 {
	return AngularMomentum(s.Snapshot())
}

func (s *Simulation) CenterOfMass() vmath.Vector3 {
	return CenterOfMass(s.Snapshot())
}
