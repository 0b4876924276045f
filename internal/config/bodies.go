package config

import (
	"fmt"
	"log/slog"

	"github.com/san-kum/gravlace/internal/driver"
	"github.com/san-kum/gravlace/internal/gravity"
	"github.com/san-kum/gravlace/internal/orbit"
	"github.com/san-kum/gravlace/internal/vmath"
)

// Specs resolves the body list into absolute simulation-space specs, in
// file order. With Barycentric set the result is shifted so that the center
// of mass sits at the origin with zero total momentum.
func (c *Config) Specs() ([]driver.BodySpec, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	g := c.Physics.G
	specs := make([]driver.BodySpec, 0, len(c.Bodies))
	index := make(map[string]int, len(c.Bodies))

	for _, b := range c.Bodies {
		spec := driver.BodySpec{
			Name:     b.Name,
			Mass:     b.Mass,
			Position: vec(b.Position),
			Velocity: vec(b.Velocity),
		}

		if b.Orbit != "" {
			parent := specs[index[b.Orbit]]
			mu := g * (parent.Mass + b.Mass)

			switch {
			case b.Elements != nil:
				rel := b.Elements.elements().ToCartesian(mu)
				spec.Position = parent.Position.Add(rel.Position)
				spec.Velocity = parent.Velocity.Add(rel.Velocity)
			case spec.Velocity == vmath.Zero3:
				spec.Velocity = orbit.CircularVelocity(mu, parent.Position, parent.Velocity, spec.Position)
			}
		}

		index[b.Name] = len(specs)
		specs = append(specs, spec)
	}

	if c.Barycentric {
		recenter(specs)
	}
	return specs, nil
}

// Build creates a simulation and driver populated with the resolved bodies.
func (c *Config) Build(logger *slog.Logger) (*driver.Driver, error) {
	specs, err := c.Specs()
	if err != nil {
		return nil, err
	}

	sim, err := gravity.New(c.Params(), logger)
	if err != nil {
		return nil, err
	}
	d, err := driver.New(sim, c.SpaceScale(), logger)
	if err != nil {
		return nil, err
	}
	for _, s := range specs {
		if _, err := d.Create(s); err != nil {
			return nil, fmt.Errorf("config %q: %w", c.Name, err)
		}
	}
	return d, nil
}

func recenter(specs []driver.BodySpec) {
	bodies := make([]gravity.Body, len(specs))
	total := 0.0
	for i, s := range specs {
		bodies[i] = gravity.Body{Mass: s.Mass, Position: s.Position, Velocity: s.Velocity}
		total += s.Mass
	}
	if total == 0 {
		return
	}
	com := gravity.CenterOfMass(bodies)
	drift := gravity.TotalMomentum(bodies).Div(total)
	for i := range specs {
		specs[i].Position = specs[i].Position.Sub(com)
		specs[i].Velocity = specs[i].Velocity.Sub(drift)
	}
}

func (e *ElementsConfig) elements() orbit.Elements {
	return orbit.Elements{
		SemiMajorAxis: e.SemiMajorAxis,
		Eccentricity:  e.Eccentricity,
		Inclination:   e.Inclination * vmath.Deg2Rad,
		Node:          e.Node * vmath.Deg2Rad,
		Periapsis:     e.Periapsis * vmath.Deg2Rad,
		MeanAnomaly:   e.MeanAnomaly * vmath.Deg2Rad,
	}
}
