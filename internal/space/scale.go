// Package space converts between render space and simulation space.
//
// Render space is what a host renders: single-precision coordinates and host
// wall-clock seconds. Simulation space is what the gravity core integrates:
// SI metres and seconds in double precision. One Scale policy covers both
// directions.
package space

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/san-kum/gravlace/internal/vmath"
)

const (
	// AstronomicalUnit in metres.
	AstronomicalUnit = 149597870691.0

	// SecondsPerYear is one Julian year plus leap correction, in seconds.
	SecondsPerYear = 31558432.98

	// DefaultDistanceScale maps 1 AU to 10 render units.
	DefaultDistanceScale = 0.1

	// DefaultTimeScale advances one simulated year per ten host seconds.
	DefaultTimeScale = 0.1
)

var ErrInvalidScale = errors.New("space: scale factors must be finite and positive")

// Scale relates render space to simulation space.
type Scale struct {
	// DistanceFactor is the number of metres in one render unit.
	DistanceFactor float64
	// TimeFactor is the number of simulated seconds per host second.
	TimeFactor float64
}

func DefaultScale() Scale {
	return Scale{
		DistanceFactor: AstronomicalUnit * DefaultDistanceScale,
		TimeFactor:     SecondsPerYear * DefaultTimeScale,
	}
}

func (s Scale) Validate() error {
	if !positive(s.DistanceFactor) {
		return fmt.Errorf("%w: distance factor %g", ErrInvalidScale, s.DistanceFactor)
	}
	if !positive(s.TimeFactor) {
		return fmt.Errorf("%w: time factor %g", ErrInvalidScale, s.TimeFactor)
	}
	return nil
}

// ToSim converts a render-space position to metres.
func (s Scale) ToSim(p mgl32.Vec3) vmath.Vector3 {
	return vmath.Vec3(float64(p[0]), float64(p[1]), float64(p[2])).Mul(s.DistanceFactor)
}

// ToRender converts a position in metres to render space.
func (s Scale) ToRender(p vmath.Vector3) mgl32.Vec3 {
	return toVec32(p.Div(s.DistanceFactor))
}

// VelocityToSim converts render units per host second to metres per
// simulated second.
func (s Scale) VelocityToSim(v mgl32.Vec3) vmath.Vector3 {
	return vmath.Vec3(float64(v[0]), float64(v[1]), float64(v[2])).Mul(s.DistanceFactor / s.TimeFactor)
}

func (s Scale) VelocityToRender(v vmath.Vector3) mgl32.Vec3 {
	return toVec32(v.Mul(s.TimeFactor / s.DistanceFactor))
}

// SimDelta converts elapsed host seconds to simulated seconds.
func (s Scale) SimDelta(hostSeconds float64) float64 {
	return hostSeconds * s.TimeFactor
}

// HostDelta is the inverse of SimDelta.
func (s Scale) HostDelta(simSeconds float64) float64 {
	return simSeconds / s.TimeFactor
}

func toVec32(v vmath.Vector3) mgl32.Vec3 {
	return mgl32.Vec3{float32(v.X), float32(v.Y), float32(v.Z)}
}

func positive(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f > 0
}
