package driver

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/san-kum/gravlace/internal/gravity"
	"github.com/san-kum/gravlace/internal/vmath"
)

// BodySpec describes a body in simulation space.
type BodySpec struct {
	Name     string
	Mass     float64
	Position vmath.Vector3
	Velocity vmath.Vector3
}

// Entity is a host-side object backed by one registered body. Render holds
// its last synced render-space position.
type Entity struct {
	Name   string
	Mass   float64
	Handle gravity.Handle
	Render mgl32.Vec3
}

type BodyState struct {
	Name     string
	Mass     float64
	Position vmath.Vector3
	Velocity vmath.Vector3
}

// Frame is the state of every entity after a tick. Time is simulated seconds.
type Frame struct {
	Tick   int
	Time   float64
	Bodies []BodyState
}

// Body returns the named body state.
func (f Frame) Body(name string) (BodyState, bool) {
	for _, b := range f.Bodies {
		if b.Name == name {
			return b, true
		}
	}
	return BodyState{}, false
}

// Gravity converts the frame back to core bodies, in entity order.
func (f Frame) Gravity() []gravity.Body {
	out := make([]gravity.Body, len(f.Bodies))
	for i, b := range f.Bodies {
		out[i] = gravity.Body{Mass: b.Mass, Position: b.Position, Velocity: b.Velocity}
	}
	return out
}

type Observer interface {
	OnTick(f Frame)
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

// RunConfig drives Run: Ticks steps of HostDt host seconds each, recording
// every RecordEvery-th frame (the first and last frames are always kept).
type RunConfig struct {
	HostDt      float64
	Ticks       int
	RecordEvery int
}

type Result struct {
	Names         []string
	Frames        []Frame
	TicksTaken    int
	SimTime       float64
	EnergyDrift   float64
	MomentumDrift float64
	Metrics       map[string]float64
}
