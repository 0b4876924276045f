package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/san-kum/gravlace/internal/gravity"
	"github.com/san-kum/gravlace/internal/vmath"
)

func twoBody() *Config {
	cfg := DefaultConfig()
	cfg.Bodies = []BodyConfig{
		{Name: "earth", Mass: EarthMass},
		{Name: "moon", Mass: MoonMass, Position: [3]float64{EarthMoonDistance, 0, 0}, Orbit: "earth"},
	}
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Name != DefaultName {
		t.Errorf("Name = %q, want %q", cfg.Name, DefaultName)
	}
	if cfg.Physics.G != gravity.G {
		t.Errorf("G = %g, want %g", cfg.Physics.G, gravity.G)
	}
	if cfg.Run.HostDt <= 0 || cfg.Run.Ticks <= 0 || cfg.Run.RecordEvery <= 0 {
		t.Errorf("run defaults not positive: %+v", cfg.Run)
	}
	if err := cfg.Params().Validate(); err != nil {
		t.Errorf("default params invalid: %v", err)
	}
	if err := cfg.SpaceScale().Validate(); err != nil {
		t.Errorf("default scale invalid: %v", err)
	}
	// no bodies yet
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
	}
}

func TestGetPreset(t *testing.T) {
	for _, name := range ListPresets() {
		t.Run(name, func(t *testing.T) {
			cfg := GetPreset(name)
			if cfg == nil {
				t.Fatal("GetPreset() = nil")
			}
			if cfg.Name != name {
				t.Errorf("Name = %q, want %q", cfg.Name, name)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("Validate() error: %v", err)
			}
			if _, err := cfg.Specs(); err != nil {
				t.Errorf("Specs() error: %v", err)
			}
		})
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestGetPresetReturnsCopy(t *testing.T) {
	cfg := GetPreset("earth-moon")
	cfg.Bodies[0].Mass = 1
	cfg.Run.Ticks = 1

	again := GetPreset("earth-moon")
	if again.Bodies[0].Mass != EarthMass || again.Run.Ticks == 1 {
		t.Error("mutating a preset copy changed the registered preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	want := []string{"binary", "earth-moon", "figure-eight", "sun-earth", "sun-earth-moon"}
	if len(names) != len(want) {
		t.Fatalf("ListPresets() = %v, want %v", names, want)
	}
	if !sort.StringsAreSorted(names) {
		t.Errorf("ListPresets() not sorted: %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("ListPresets()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty name", func(c *Config) { c.Name = "" }},
		{"zero G", func(c *Config) { c.Physics.G = 0 }},
		{"zero substeps", func(c *Config) { c.Physics.Substeps = 0 }},
		{"zero workers", func(c *Config) { c.Physics.Workers = 0 }},
		{"negative distance factor", func(c *Config) { c.Scale.DistanceFactor = -1 }},
		{"zero time factor", func(c *Config) { c.Scale.TimeFactor = 0 }},
		{"zero host dt", func(c *Config) { c.Run.HostDt = 0 }},
		{"nan host dt", func(c *Config) { c.Run.HostDt = math.NaN() }},
		{"zero ticks", func(c *Config) { c.Run.Ticks = 0 }},
		{"zero record every", func(c *Config) { c.Run.RecordEvery = 0 }},
		{"no bodies", func(c *Config) { c.Bodies = nil }},
		{"unnamed body", func(c *Config) { c.Bodies[1].Name = "" }},
		{"duplicate body", func(c *Config) { c.Bodies[1].Name = "earth" }},
		{"negative mass", func(c *Config) { c.Bodies[0].Mass = -1 }},
		{"infinite mass", func(c *Config) { c.Bodies[0].Mass = math.Inf(1) }},
		{"unknown parent", func(c *Config) { c.Bodies[1].Orbit = "sun" }},
		{"self parent", func(c *Config) { c.Bodies[0].Orbit = "earth" }},
		{"elements without parent", func(c *Config) {
			c.Bodies[1].Orbit = ""
			c.Bodies[1].Elements = &ElementsConfig{SemiMajorAxis: 1}
		}},
		{"hyperbolic elements", func(c *Config) {
			c.Bodies[1].Elements = &ElementsConfig{SemiMajorAxis: 1, Eccentricity: 1.5}
		}},
	}

	if err := twoBody().Validate(); err != nil {
		t.Fatalf("baseline Validate() error: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := twoBody()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestSpecsCircularOrbit(t *testing.T) {
	specs, err := twoBody().Specs()
	if err != nil {
		t.Fatal(err)
	}

	moon := specs[1]
	want := math.Sqrt(gravity.G * (EarthMass + MoonMass) / EarthMoonDistance)
	if got := moon.Velocity.Magnitude(); math.Abs(got-want) > 1e-9*want {
		t.Errorf("moon speed = %v, want %v", got, want)
	}
	// counter-clockwise about +z from +x means +y
	if moon.Velocity.Y <= 0 || moon.Velocity.X != 0 || moon.Velocity.Z != 0 {
		t.Errorf("moon velocity = %v, want along +y", moon.Velocity)
	}
	if specs[0].Velocity != vmath.Zero3 {
		t.Errorf("earth velocity = %v, want zero", specs[0].Velocity)
	}
}

func TestSpecsKeepsExplicitVelocity(t *testing.T) {
	cfg := twoBody()
	cfg.Bodies[1].Velocity = [3]float64{0, 0, 5}

	specs, err := cfg.Specs()
	if err != nil {
		t.Fatal(err)
	}
	if specs[1].Velocity != vmath.Vec3(0, 0, 5) {
		t.Errorf("velocity = %v, want (0, 0, 5)", specs[1].Velocity)
	}
}

func TestSpecsElements(t *testing.T) {
	cfg := twoBody()
	cfg.Bodies[0].Position = [3]float64{10, 0, 0}
	cfg.Bodies[1].Elements = &ElementsConfig{SemiMajorAxis: EarthMoonDistance, MeanAnomaly: 90}

	specs, err := cfg.Specs()
	if err != nil {
		t.Fatal(err)
	}

	rel := specs[1].Position.Sub(specs[0].Position)
	if d := rel.Magnitude(); math.Abs(d-EarthMoonDistance) > 1e-6*EarthMoonDistance {
		t.Errorf("separation = %v, want %v", d, EarthMoonDistance)
	}
	// quarter of the way round a circular orbit in the XY plane
	if math.Abs(rel.X) > 1e-6*EarthMoonDistance || rel.Y <= 0 {
		t.Errorf("relative position = %v, want along +y", rel)
	}
}

func TestSpecsBarycentric(t *testing.T) {
	cfg := twoBody()
	cfg.Barycentric = true

	specs, err := cfg.Specs()
	if err != nil {
		t.Fatal(err)
	}

	bodies := make([]gravity.Body, len(specs))
	scale := 0.0
	for i, s := range specs {
		bodies[i] = gravity.Body{Mass: s.Mass, Position: s.Position, Velocity: s.Velocity}
		scale += s.Mass * s.Velocity.Magnitude()
	}

	if p := gravity.TotalMomentum(bodies).Magnitude(); p > 1e-12*scale {
		t.Errorf("total momentum = %g, want ~0", p)
	}
	if com := gravity.CenterOfMass(bodies).Magnitude(); com > 1e-6 {
		t.Errorf("center of mass = %g m from origin", com)
	}
	// separation is preserved
	if d := specs[1].Position.Distance(specs[0].Position); math.Abs(d-EarthMoonDistance) > 1e-6 {
		t.Errorf("separation = %v, want %v", d, EarthMoonDistance)
	}
}

func TestBuild(t *testing.T) {
	cfg := GetPreset("figure-eight")

	d, err := cfg.Build(nil)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if d.Simulation().Len() != 3 {
		t.Errorf("Len() = %d, want 3", d.Simulation().Len())
	}
	if d.Simulation().Params().G != 1 {
		t.Errorf("G = %g, want 1", d.Simulation().Params().G)
	}
	names := d.Names()
	if len(names) != 3 || names[0] != "a" || names[2] != "c" {
		t.Errorf("Names() = %v", names)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	cfg := GetPreset("sun-earth-moon")
	cfg.Bodies[2].Elements = &ElementsConfig{SemiMajorAxis: EarthMoonDistance, Eccentricity: 0.05, Inclination: 5}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if loaded.Name != cfg.Name || loaded.Physics != cfg.Physics || loaded.Run != cfg.Run || !loaded.Barycentric {
		t.Errorf("Load() = %+v, want %+v", loaded, cfg)
	}
	if len(loaded.Bodies) != 3 || loaded.Bodies[2].Elements == nil || *loaded.Bodies[2].Elements != *cfg.Bodies[2].Elements {
		t.Errorf("bodies = %+v", loaded.Bodies)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := `name: partial
physics:
  substeps: 8
bodies:
  - name: rock
    mass: 1000
    position: [1, 2, 3]
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Physics.Substeps != 8 {
		t.Errorf("Substeps = %d, want 8", cfg.Physics.Substeps)
	}
	if cfg.Physics.G != gravity.G || cfg.Run.Ticks != DefaultTicks {
		t.Errorf("defaults lost: %+v", cfg)
	}
	if cfg.Bodies[0].Position != [3]float64{1, 2, 3} {
		t.Errorf("position = %v", cfg.Bodies[0].Position)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.yaml")
	os.WriteFile(bad, []byte("bodies: [unterminated"), 0644)
	if _, err := Load(bad); err == nil {
		t.Error("expected parse error")
	}

	empty := filepath.Join(dir, "empty.yaml")
	os.WriteFile(empty, []byte("name: nothing\n"), 0644)
	if _, err := Load(empty); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Load() error = %v, want ErrInvalidConfig", err)
	}
}

func TestOverlay(t *testing.T) {
	t.Setenv("GRAVLACE_TICKS", "42")

	v := NewViper()
	v.Set(KeySubsteps, 7)
	v.Set(KeyLogLevel, "debug")

	cfg := GetPreset("binary")
	Overlay(cfg, v)

	if cfg.Physics.Substeps != 7 {
		t.Errorf("Substeps = %d, want 7", cfg.Physics.Substeps)
	}
	if cfg.Run.Ticks != 42 {
		t.Errorf("Ticks = %d, want 42 from environment", cfg.Run.Ticks)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.Physics.G != gravity.G {
		t.Errorf("G = %g, should be untouched", cfg.Physics.G)
	}
}
