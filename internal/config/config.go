package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravlace/internal/driver"
	"github.com/san-kum/gravlace/internal/gravity"
	"github.com/san-kum/gravlace/internal/space"
	"github.com/san-kum/gravlace/internal/vmath"
)

const (
	DefaultName        = "custom"
	DefaultHostDt      = 0.02
	DefaultTicks       = 500
	DefaultRecordEvery = 5
	DefaultLogLevel    = "info"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Name        string        `yaml:"name"`
	Physics     PhysicsConfig `yaml:"physics"`
	Scale       ScaleConfig   `yaml:"scale"`
	Run         RunConfig     `yaml:"run"`
	LogLevel    string        `yaml:"log_level"`
	Barycentric bool          `yaml:"barycentric"`
	Bodies      []BodyConfig  `yaml:"bodies"`
}

type PhysicsConfig struct {
	G           float64 `yaml:"g"`
	Substeps    int     `yaml:"substeps"`
	MassEpsilon float64 `yaml:"mass_epsilon"`
	Workers     int     `yaml:"workers"`
}

type ScaleConfig struct {
	DistanceFactor float64 `yaml:"distance_factor"`
	TimeFactor     float64 `yaml:"time_factor"`
}

type RunConfig struct {
	HostDt      float64 `yaml:"host_dt"`
	Ticks       int     `yaml:"ticks"`
	RecordEvery int     `yaml:"record_every"`
}

// BodyConfig places one body. Position and velocity are absolute unless
// Orbit names an earlier body: then a missing velocity becomes a circular
// orbit around it, and Elements, when given, replace both relative to it.
type BodyConfig struct {
	Name     string          `yaml:"name"`
	Mass     float64         `yaml:"mass"`
	Position [3]float64      `yaml:"position,flow"`
	Velocity [3]float64      `yaml:"velocity,flow"`
	Orbit    string          `yaml:"orbit,omitempty"`
	Elements *ElementsConfig `yaml:"elements,omitempty"`
}

// ElementsConfig holds Keplerian elements; angles are in degrees.
type ElementsConfig struct {
	SemiMajorAxis float64 `yaml:"a"`
	Eccentricity  float64 `yaml:"e"`
	Inclination   float64 `yaml:"i"`
	Node          float64 `yaml:"node"`
	Periapsis     float64 `yaml:"periapsis"`
	MeanAnomaly   float64 `yaml:"mean_anomaly"`
}

func DefaultConfig() *Config {
	p := gravity.DefaultParams()
	s := space.DefaultScale()
	return &Config{
		Name: DefaultName,
		Physics: PhysicsConfig{
			G:           p.G,
			Substeps:    p.Substeps,
			MassEpsilon: p.MassEpsilon,
			Workers:     p.Workers,
		},
		Scale: ScaleConfig{
			DistanceFactor: s.DistanceFactor,
			TimeFactor:     s.TimeFactor,
		},
		Run: RunConfig{
			HostDt:      DefaultHostDt,
			Ticks:       DefaultTicks,
			RecordEvery: DefaultRecordEvery,
		},
		LogLevel: DefaultLogLevel,
	}
}

// Load reads a YAML file over DefaultConfig and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Params() gravity.Params {
	return gravity.Params{
		G:           c.Physics.G,
		Substeps:    c.Physics.Substeps,
		MassEpsilon: c.Physics.MassEpsilon,
		Workers:     c.Physics.Workers,
	}
}

func (c *Config) SpaceScale() space.Scale {
	return space.Scale{DistanceFactor: c.Scale.DistanceFactor, TimeFactor: c.Scale.TimeFactor}
}

func (c *Config) RunConfig() driver.RunConfig {
	return driver.RunConfig{HostDt: c.Run.HostDt, Ticks: c.Run.Ticks, RecordEvery: c.Run.RecordEvery}
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Bodies = make([]BodyConfig, len(c.Bodies))
	for i, b := range c.Bodies {
		out.Bodies[i] = b
		if b.Elements != nil {
			el := *b.Elements
			out.Bodies[i].Elements = &el
		}
	}
	return &out
}

func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidConfig)
	}
	if err := c.Params().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.SpaceScale().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if math.IsNaN(c.Run.HostDt) || math.IsInf(c.Run.HostDt, 0) || c.Run.HostDt <= 0 {
		return fmt.Errorf("%w: run.host_dt must be positive, got %g", ErrInvalidConfig, c.Run.HostDt)
	}
	if c.Run.Ticks <= 0 {
		return fmt.Errorf("%w: run.ticks must be positive, got %d", ErrInvalidConfig, c.Run.Ticks)
	}
	if c.Run.RecordEvery <= 0 {
		return fmt.Errorf("%w: run.record_every must be positive, got %d", ErrInvalidConfig, c.Run.RecordEvery)
	}
	if len(c.Bodies) == 0 {
		return fmt.Errorf("%w: no bodies", ErrInvalidConfig)
	}

	seen := make(map[string]bool, len(c.Bodies))
	for i, b := range c.Bodies {
		if b.Name == "" {
			return fmt.Errorf("%w: body %d has no name", ErrInvalidConfig, i)
		}
		if seen[b.Name] {
			return fmt.Errorf("%w: duplicate body %q", ErrInvalidConfig, b.Name)
		}
		if math.IsNaN(b.Mass) || math.IsInf(b.Mass, 0) || b.Mass < 0 {
			return fmt.Errorf("%w: body %q mass %g", ErrInvalidConfig, b.Name, b.Mass)
		}
		if b.Orbit != "" && !seen[b.Orbit] {
			return fmt.Errorf("%w: body %q orbits %q, which is not defined before it", ErrInvalidConfig, b.Name, b.Orbit)
		}
		if el := b.Elements; el != nil {
			if b.Orbit == "" {
				return fmt.Errorf("%w: body %q has elements but no orbit parent", ErrInvalidConfig, b.Name)
			}
			if el.SemiMajorAxis <= 0 || el.Eccentricity < 0 || el.Eccentricity >= 1 {
				return fmt.Errorf("%w: body %q needs a > 0 and 0 <= e < 1", ErrInvalidConfig, b.Name)
			}
		}
		seen[b.Name] = true
	}
	return nil
}

func vec(a [3]float64) vmath.Vector3 {
	return vmath.Vec3(a[0], a[1], a[2])
}
