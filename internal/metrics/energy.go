package metrics

import (
	"math"

	"github.com/san-kum/gravlace/internal/driver"
	"github.com/san-kum/gravlace/internal/gravity"
	"github.com/san-kum/gravlace/internal/vmath"
)

// EnergyDrift records the largest relative deviation of total energy from
// the first observed frame. driver.Result reports the drift of the final
// frame only; this catches excursions that recover by the end of a run.
type EnergyDrift struct {
	name     string
	g        float64
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift(g float64) *EnergyDrift {
	return &EnergyDrift{
		name: "max_energy_drift",
		g:    g,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(f driver.Frame) {
	energy := gravity.TotalEnergy(f.Gravity(), e.g)

	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	if e.initial != 0 {
		drift := math.Abs(energy-e.initial) / math.Abs(e.initial)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}

// MomentumDrift records the largest change of total momentum from the first
// observed frame, relative to gravity.MomentumScale of that frame.
type MomentumDrift struct {
	name     string
	initial  vmath.Vector3
	scale    float64
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "max_momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(f driver.Frame) {
	bodies := f.Gravity()
	p := gravity.TotalMomentum(bodies)

	if m.samples == 0 {
		m.initial = p
		m.scale = gravity.MomentumScale(bodies)
	}
	m.samples++

	if m.scale == 0 {
		return
	}
	drift := p.Sub(m.initial).Magnitude() / m.scale
	m.maxDrift = math.Max(m.maxDrift, drift)
}

func (m *MomentumDrift) Value() float64 {
	return m.maxDrift
}

func (m *MomentumDrift) Reset() {
	*m = MomentumDrift{name: m.name}
}
