// Package driver hosts a gravity simulation the way a game loop would: it
// creates and destroys named entities, converts host time and render
// positions through a space.Scale, and runs fixed-timestep loops with
// observers and metrics.
package driver

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/san-kum/gravlace/internal/gravity"
	"github.com/san-kum/gravlace/internal/logging"
	"github.com/san-kum/gravlace/internal/space"
	"github.com/san-kum/gravlace/internal/vmath"
)

type Driver struct {
	sim    *gravity.Simulation
	scale  space.Scale
	logger *slog.Logger

	entities []*Entity
	byName   map[string]*Entity

	metrics   []Metric
	observers []Observer

	tick int
	time float64
}

func New(sim *gravity.Simulation, scale space.Scale, logger *slog.Logger) (*Driver, error) {
	if err := scale.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Driver{
		sim:       sim,
		scale:     scale,
		logger:    logger.With("component", "driver"),
		byName:    make(map[string]*Entity),
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}, nil
}

func (d *Driver) AddMetric(m Metric)     { d.metrics = append(d.metrics, m) }
func (d *Driver) AddObserver(o Observer) { d.observers = append(d.observers, o) }

func (d *Driver) Simulation() *gravity.Simulation { return d.sim }
func (d *Driver) Scale() space.Scale              { return d.scale }
func (d *Driver) Tick() int                       { return d.tick }
func (d *Driver) Time() float64                   { return d.time }

// Create registers a body given in simulation space.
func (d *Driver) Create(spec BodySpec) (*Entity, error) {
	if spec.Name == "" {
		return nil, ErrEmptyName
	}
	if _, ok := d.byName[spec.Name]; ok {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateName, spec.Name)
	}

	h, err := d.sim.Register(spec.Mass, spec.Position, spec.Velocity)
	if err != nil {
		return nil, fmt.Errorf("create %q: %w", spec.Name, err)
	}

	e := &Entity{
		Name:   spec.Name,
		Mass:   spec.Mass,
		Handle: h,
		Render: d.scale.ToRender(spec.Position),
	}
	d.entities = append(d.entities, e)
	d.byName[e.Name] = e

	d.logger.Debug("entity created", "name", e.Name, "mass", e.Mass, "handle", h)
	return e, nil
}

// CreateRender registers a body placed in render space; velocity is in
// render units per host second.
func (d *Driver) CreateRender(name string, mass float64, pos, vel mgl32.Vec3) (*Entity, error) {
	return d.Create(BodySpec{
		Name:     name,
		Mass:     mass,
		Position: d.scale.ToSim(pos),
		Velocity: d.scale.VelocityToSim(vel),
	})
}

// Destroy unregisters the named entity.
func (d *Driver) Destroy(name string) error {
	e, ok := d.byName[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownEntity, name)
	}
	if err := d.sim.Unregister(e.Handle); err != nil {
		return fmt.Errorf("destroy %q: %w", name, err)
	}

	delete(d.byName, name)
	for i, x := range d.entities {
		if x == e {
			d.entities = append(d.entities[:i], d.entities[i+1:]...)
			break
		}
	}

	d.logger.Debug("entity destroyed", "name", name)
	return nil
}

func (d *Driver) Entity(name string) (*Entity, bool) {
	e, ok := d.byName[name]
	return e, ok
}

// Entities returns the live entities in creation order.
func (d *Driver) Entities() []*Entity {
	out := make([]*Entity, len(d.entities))
	copy(out, d.entities)
	return out
}

func (d *Driver) Names() []string {
	names := make([]string, len(d.entities))
	for i, e := range d.entities {
		names[i] = e.Name
	}
	return names
}

// Step advances the simulation by hostDt host seconds and syncs every
// entity's render position.
func (d *Driver) Step(hostDt float64) error {
	dt := d.scale.SimDelta(hostDt)
	if err := d.sim.Tick(dt); err != nil {
		return err
	}
	d.tick++
	d.time += dt

	f := d.Frame()
	for i, b := range f.Bodies {
		if !b.Position.IsFinite() || !b.Velocity.IsFinite() {
			return fmt.Errorf("%w: body %q", ErrDiverged, b.Name)
		}
		d.entities[i].Render = d.scale.ToRender(b.Position)
	}

	if d.logger.Enabled(context.Background(), logging.LevelTrace) {
		d.logger.Log(context.Background(), logging.LevelTrace, "tick",
			"tick", d.tick, "time", d.time, "sim_dt", dt, "bodies", len(f.Bodies))
	}
	return nil
}

// Frame snapshots every entity in creation order.
func (d *Driver) Frame() Frame {
	byHandle := make(map[gravity.Handle]gravity.Body, len(d.entities))
	for _, e := range d.sim.Bodies() {
		byHandle[e.Handle] = e.Body
	}

	f := Frame{Tick: d.tick, Time: d.time, Bodies: make([]BodyState, 0, len(d.entities))}
	for _, e := range d.entities {
		b := byHandle[e.Handle]
		f.Bodies = append(f.Bodies, BodyState{
			Name:     e.Name,
			Mass:     b.Mass,
			Position: b.Position,
			Velocity: b.Velocity,
		})
	}
	return f
}

// Run steps the simulation cfg.Ticks times, checking ctx between ticks. On
// cancellation it returns the partial result with ctx.Err().
func (d *Driver) Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	if err := validateRun(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Names:   d.Names(),
		Frames:  make([]Frame, 0, cfg.Ticks/cfg.RecordEvery+2),
		Metrics: make(map[string]float64),
	}

	for _, m := range d.metrics {
		m.Reset()
	}

	g := d.sim.Params().G
	start := d.Frame()
	startTime := d.time
	e0 := gravity.TotalEnergy(start.Gravity(), g)
	p0 := gravity.TotalMomentum(start.Gravity())
	pScale := gravity.MomentumScale(start.Gravity())

	result.Frames = append(result.Frames, start)
	for _, m := range d.metrics {
		m.Observe(start)
	}

	d.logger.Info("run started", "bodies", len(d.entities), "ticks", cfg.Ticks, "host_dt", cfg.HostDt,
		"sim_dt", d.scale.SimDelta(cfg.HostDt))

	last := start
	for i := 0; i < cfg.Ticks; i++ {
		select {
		case <-ctx.Done():
			d.finish(result, last, startTime, e0, p0, pScale, g)
			return result, ctx.Err()
		default:
		}

		if err := d.Step(cfg.HostDt); err != nil {
			d.finish(result, last, startTime, e0, p0, pScale, g)
			return result, &TickError{Tick: d.tick, Time: d.time, Wrapped: err}
		}
		result.TicksTaken++

		f := d.Frame()
		last = f
		for _, m := range d.metrics {
			m.Observe(f)
		}
		for _, obs := range d.observers {
			obs.OnTick(f)
		}

		if (i+1)%cfg.RecordEvery == 0 || i == cfg.Ticks-1 {
			result.Frames = append(result.Frames, f)
		}
	}

	d.finish(result, last, startTime, e0, p0, pScale, g)
	d.logger.Info("run finished", "ticks", result.TicksTaken, "sim_time", result.SimTime,
		"energy_drift", result.EnergyDrift, "momentum_drift", result.MomentumDrift)
	return result, nil
}

func (d *Driver) finish(result *Result, last Frame, startTime, e0 float64, p0 vmath.Vector3, pScale, g float64) {
	result.SimTime = d.time - startTime

	bodies := last.Gravity()
	if e0 != 0 {
		result.EnergyDrift = math.Abs(gravity.TotalEnergy(bodies, g)-e0) / math.Abs(e0)
	}
	if pScale != 0 {
		result.MomentumDrift = gravity.TotalMomentum(bodies).Sub(p0).Magnitude() / pScale
	}

	for _, m := range d.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func validateRun(cfg RunConfig) error {
	if math.IsNaN(cfg.HostDt) || math.IsInf(cfg.HostDt, 0) || cfg.HostDt <= 0 {
		return fmt.Errorf("%w: host dt must be positive, got %g", ErrInvalidRun, cfg.HostDt)
	}
	if cfg.Ticks <= 0 {
		return fmt.Errorf("%w: ticks must be positive, got %d", ErrInvalidRun, cfg.Ticks)
	}
	if cfg.RecordEvery <= 0 {
		return fmt.Errorf("%w: record_every must be positive, got %d", ErrInvalidRun, cfg.RecordEvery)
	}
	return nil
}
