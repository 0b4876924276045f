package driver

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/san-kum/gravlace/internal/gravity"
	"github.com/san-kum/gravlace/internal/logging"
	"github.com/san-kum/gravlace/internal/space"
	"github.com/san-kum/gravlace/internal/vmath"
)

// unit scale: one render unit per metre, one simulated second per host second
var unitScale = space.Scale{DistanceFactor: 1, TimeFactor: 1}

func newDriver(t *testing.T, g float64, substeps int) *Driver {
	t.Helper()
	p := gravity.DefaultParams()
	p.G = g
	p.Substeps = substeps
	sim, err := gravity.New(p, nil)
	if err != nil {
		t.Fatal(err)
	}
	d, err := New(sim, unitScale, nil)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func addPair(t *testing.T, d *Driver) {
	t.Helper()
	if _, err := d.Create(BodySpec{Name: "a", Mass: 1, Position: vmath.Vec3(-0.5, 0, 0), Velocity: vmath.Vec3(0, -0.5, 0)}); err != nil {
		t.Fatal(err)
	}
	if _, err := d.Create(BodySpec{Name: "b", Mass: 1, Position: vmath.Vec3(0.5, 0, 0), Velocity: vmath.Vec3(0, 0.5, 0)}); err != nil {
		t.Fatal(err)
	}
}

type countingObserver struct{ ticks []int }

func (c *countingObserver) OnTick(f Frame) { c.ticks = append(c.ticks, f.Tick) }

type maxSpeed struct{ v float64 }

func (m *maxSpeed) Name() string { return "max_speed" }
func (m *maxSpeed) Observe(f Frame) {
	for _, b := range f.Bodies {
		m.v = math.Max(m.v, b.Velocity.Magnitude())
	}
}
func (m *maxSpeed) Value() float64 { return m.v }
func (m *maxSpeed) Reset()         { m.v = 0 }

func TestNewRejectsInvalidScale(t *testing.T) {
	sim, _ := gravity.New(gravity.DefaultParams(), nil)
	if _, err := New(sim, space.Scale{}, nil); !errors.Is(err, space.ErrInvalidScale) {
		t.Errorf("New() error = %v, want ErrInvalidScale", err)
	}
}

func TestCreateDestroy(t *testing.T) {
	d := newDriver(t, 1, 1)
	addPair(t, d)

	if _, err := d.Create(BodySpec{Name: "a", Mass: 1}); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("duplicate Create() error = %v", err)
	}
	if _, err := d.Create(BodySpec{Mass: 1}); !errors.Is(err, ErrEmptyName) {
		t.Errorf("unnamed Create() error = %v", err)
	}
	if _, err := d.Create(BodySpec{Name: "c", Mass: -1}); !errors.Is(err, gravity.ErrInvalidMass) {
		t.Errorf("negative mass Create() error = %v", err)
	}

	if err := d.Destroy("a"); err != nil {
		t.Fatalf("Destroy() error: %v", err)
	}
	if err := d.Destroy("a"); !errors.Is(err, ErrUnknownEntity) {
		t.Errorf("second Destroy() error = %v", err)
	}
	if d.Simulation().Len() != 1 {
		t.Errorf("registry Len() = %d, want 1", d.Simulation().Len())
	}
	if names := d.Names(); len(names) != 1 || names[0] != "b" {
		t.Errorf("Names() = %v", names)
	}
}

func TestCreateRenderConvertsUnits(t *testing.T) {
	sim, _ := gravity.New(gravity.DefaultParams(), nil)
	d, err := New(sim, space.Scale{DistanceFactor: 1000, TimeFactor: 10}, nil)
	if err != nil {
		t.Fatal(err)
	}

	e, err := d.CreateRender("probe", 1, mgl32.Vec3{2, 0, 0}, mgl32.Vec3{0, 1, 0})
	if err != nil {
		t.Fatal(err)
	}

	b, _ := sim.Body(e.Handle)
	if b.Position != vmath.Vec3(2000, 0, 0) {
		t.Errorf("sim position = %v, want (2000, 0, 0)", b.Position)
	}
	if b.Velocity != vmath.Vec3(0, 100, 0) {
		t.Errorf("sim velocity = %v, want (0, 100, 0)", b.Velocity)
	}
	if e.Render != (mgl32.Vec3{2, 0, 0}) {
		t.Errorf("render = %v", e.Render)
	}
}

func TestStepSyncsRender(t *testing.T) {
	sim, _ := gravity.New(gravity.DefaultParams(), nil)
	d, _ := New(sim, space.Scale{DistanceFactor: 10, TimeFactor: 2}, nil)

	e, err := d.Create(BodySpec{Name: "drifter", Mass: 1, Velocity: vmath.Vec3(5, 0, 0)})
	if err != nil {
		t.Fatal(err)
	}

	if err := d.Step(1); err != nil {
		t.Fatal(err)
	}

	// 1 host second = 2 sim seconds at 5 m/s = 10 m = 1 render unit
	if math.Abs(float64(e.Render[0])-1) > 1e-6 {
		t.Errorf("render x = %v, want 1", e.Render[0])
	}
	if d.Time() != 2 || d.Tick() != 1 {
		t.Errorf("time = %v tick = %d", d.Time(), d.Tick())
	}
}

func TestRun(t *testing.T) {
	d := newDriver(t, 1, 10)
	addPair(t, d)

	obs := &countingObserver{}
	d.AddObserver(obs)
	d.AddMetric(&maxSpeed{})

	result, err := d.Run(context.Background(), RunConfig{HostDt: 0.01, Ticks: 25, RecordEvery: 10})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if result.TicksTaken != 25 {
		t.Errorf("TicksTaken = %d, want 25", result.TicksTaken)
	}
	// initial, 10, 20, 25
	if len(result.Frames) != 4 {
		t.Errorf("len(Frames) = %d, want 4", len(result.Frames))
	}
	if last := result.Frames[len(result.Frames)-1]; last.Tick != 25 {
		t.Errorf("last frame tick = %d, want 25", last.Tick)
	}
	if len(obs.ticks) != 25 || obs.ticks[0] != 1 {
		t.Errorf("observer ticks = %v", obs.ticks)
	}
	if math.Abs(result.SimTime-0.25) > 1e-12 {
		t.Errorf("SimTime = %v, want 0.25", result.SimTime)
	}
	if result.Metrics["max_speed"] <= 0 {
		t.Errorf("max_speed metric not recorded: %v", result.Metrics)
	}
	if result.MomentumDrift > 1e-12 {
		t.Errorf("MomentumDrift = %g", result.MomentumDrift)
	}
	if result.EnergyDrift > 1e-2 {
		t.Errorf("EnergyDrift = %g", result.EnergyDrift)
	}
	if len(result.Names) != 2 || result.Names[0] != "a" {
		t.Errorf("Names = %v", result.Names)
	}
}

func TestRunInvalidConfig(t *testing.T) {
	d := newDriver(t, 1, 1)

	tests := []struct {
		name string
		cfg  RunConfig
	}{
		{"zero dt", RunConfig{HostDt: 0, Ticks: 1, RecordEvery: 1}},
		{"negative dt", RunConfig{HostDt: -1, Ticks: 1, RecordEvery: 1}},
		{"zero ticks", RunConfig{HostDt: 1, Ticks: 0, RecordEvery: 1}},
		{"zero record", RunConfig{HostDt: 1, Ticks: 1, RecordEvery: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := d.Run(context.Background(), tt.cfg); !errors.Is(err, ErrInvalidRun) {
				t.Errorf("Run() error = %v, want ErrInvalidRun", err)
			}
		})
	}
}

func TestRunCanceled(t *testing.T) {
	d := newDriver(t, 1, 1)
	addPair(t, d)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := d.Run(ctx, RunConfig{HostDt: 0.01, Ticks: 100, RecordEvery: 1})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if result == nil || result.TicksTaken != 0 || len(result.Frames) != 1 {
		t.Errorf("partial result = %+v", result)
	}
}

func TestRunDiverged(t *testing.T) {
	sim, _ := gravity.New(gravity.DefaultParams(), nil)
	d, _ := New(sim, space.Scale{DistanceFactor: 1, TimeFactor: 1e300}, nil)
	if _, err := d.Create(BodySpec{Name: "fast", Mass: 1, Velocity: vmath.Vec3(1e10, 0, 0)}); err != nil {
		t.Fatal(err)
	}

	_, err := d.Run(context.Background(), RunConfig{HostDt: 1, Ticks: 3, RecordEvery: 1})
	var tickErr *TickError
	if !errors.As(err, &tickErr) {
		t.Fatalf("Run() error = %v, want *TickError", err)
	}
	if !errors.Is(err, ErrDiverged) {
		t.Errorf("Run() error = %v, want ErrDiverged", err)
	}
	if tickErr.Tick != 1 {
		t.Errorf("TickError.Tick = %d, want 1", tickErr.Tick)
	}
}

func TestStepTraceLog(t *testing.T) {
	sim, _ := gravity.New(gravity.Params{G: 1, Substeps: 1, Workers: 1}, nil)

	var buf bytes.Buffer
	d, err := New(sim, unitScale, logging.NewLogger("trace", &buf))
	if err != nil {
		t.Fatal(err)
	}
	addPair(t, d)
	for i := 0; i < 3; i++ {
		if err := d.Step(0.01); err != nil {
			t.Fatal(err)
		}
	}
	if n := strings.Count(buf.String(), "level=TRACE msg=tick"); n != 3 {
		t.Errorf("trace records = %d, want 3:\n%s", n, buf.String())
	}

	buf.Reset()
	d, _ = New(sim, unitScale, logging.NewLogger("debug", &buf))
	_ = d.Step(0.01)
	if strings.Contains(buf.String(), "TRACE") {
		t.Errorf("debug logger emitted trace records:\n%s", buf.String())
	}
}
