package config

import (
	"sort"

	"github.com/san-kum/gravlace/internal/gravity"
	"github.com/san-kum/gravlace/internal/space"
	"github.com/san-kum/gravlace/internal/vmath"
)

const (
	SunMass           = 1.989e30
	EarthMass         = 5.972e24
	MoonMass          = 7.342e22
	EarthMoonDistance = 3.84e8
)

var Presets = map[string]*Config{
	"earth-moon": {
		Name:        "earth-moon",
		Physics:     PhysicsConfig{G: gravity.G, Substeps: 100, MassEpsilon: vmath.Epsilon, Workers: 1},
		Scale:       ScaleConfig{DistanceFactor: EarthMoonDistance / 10, TimeFactor: 86400},
		Run:         RunConfig{HostDt: 0.02, Ticks: 2000, RecordEvery: 10},
		LogLevel:    DefaultLogLevel,
		Barycentric: true,
		Bodies: []BodyConfig{
			{Name: "earth", Mass: EarthMass},
			{Name: "moon", Mass: MoonMass, Position: [3]float64{EarthMoonDistance, 0, 0}, Orbit: "earth"},
		},
	},
	"sun-earth": {
		Name:        "sun-earth",
		Physics:     PhysicsConfig{G: gravity.G, Substeps: 100, MassEpsilon: vmath.Epsilon, Workers: 1},
		Scale:       ScaleConfig{DistanceFactor: space.DefaultDistanceScale * space.AstronomicalUnit, TimeFactor: space.DefaultTimeScale * space.SecondsPerYear},
		Run:         RunConfig{HostDt: 0.02, Ticks: 500, RecordEvery: 5},
		LogLevel:    DefaultLogLevel,
		Barycentric: true,
		Bodies: []BodyConfig{
			{Name: "sun", Mass: SunMass},
			{Name: "earth", Mass: EarthMass, Position: [3]float64{space.AstronomicalUnit, 0, 0}, Orbit: "sun"},
		},
	},
	"sun-earth-moon": {
		Name:        "sun-earth-moon",
		Physics:     PhysicsConfig{G: gravity.G, Substeps: 200, MassEpsilon: vmath.Epsilon, Workers: 1},
		Scale:       ScaleConfig{DistanceFactor: space.DefaultDistanceScale * space.AstronomicalUnit, TimeFactor: space.DefaultTimeScale * space.SecondsPerYear},
		Run:         RunConfig{HostDt: 0.02, Ticks: 500, RecordEvery: 5},
		LogLevel:    DefaultLogLevel,
		Barycentric: true,
		Bodies: []BodyConfig{
			{Name: "sun", Mass: SunMass},
			{Name: "earth", Mass: EarthMass, Position: [3]float64{space.AstronomicalUnit, 0, 0}, Orbit: "sun"},
			{Name: "moon", Mass: MoonMass, Position: [3]float64{space.AstronomicalUnit + EarthMoonDistance, 0, 0}, Orbit: "earth"},
		},
	},
	"binary": {
		Name:        "binary",
		Physics:     PhysicsConfig{G: gravity.G, Substeps: 100, MassEpsilon: vmath.Epsilon, Workers: 1},
		Scale:       ScaleConfig{DistanceFactor: space.DefaultDistanceScale * space.AstronomicalUnit, TimeFactor: space.DefaultTimeScale * space.SecondsPerYear},
		Run:         RunConfig{HostDt: 0.02, Ticks: 500, RecordEvery: 5},
		LogLevel:    DefaultLogLevel,
		Barycentric: true,
		Bodies: []BodyConfig{
			{Name: "star-a", Mass: SunMass},
			{Name: "star-b", Mass: SunMass, Position: [3]float64{space.AstronomicalUnit / 2, 0, 0}, Orbit: "star-a"},
		},
	},
	// Chenciner-Montgomery choreography, period about 6.3259 in G=1 units.
	"figure-eight": {
		Name:     "figure-eight",
		Physics:  PhysicsConfig{G: 1, Substeps: 10, MassEpsilon: vmath.Epsilon, Workers: 1},
		Scale:    ScaleConfig{DistanceFactor: 1, TimeFactor: 1},
		Run:      RunConfig{HostDt: 0.001, Ticks: 6326, RecordEvery: 20},
		LogLevel: DefaultLogLevel,
		Bodies: []BodyConfig{
			{Name: "a", Mass: 1, Position: [3]float64{-0.97000436, 0.24308753, 0}, Velocity: [3]float64{0.466203685, 0.43236573, 0}},
			{Name: "b", Mass: 1, Velocity: [3]float64{-0.93240737, -0.86473146, 0}},
			{Name: "c", Mass: 1, Position: [3]float64{0.97000436, -0.24308753, 0}, Velocity: [3]float64{0.466203685, 0.43236573, 0}},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil if it does not exist.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return p.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
