package gravity

import (
	"fmt"
	"math"

	"github.com/san-kum/gravlace/internal/vmath"
)

// workspace holds dense copies of the live bodies for the duration of a tick.
type workspace struct {
	mass       []float64
	pos        []vmath.Vector3
	vel        []vmath.Vector3
	attractors []int
}

func (w *workspace) load(slots []slot, order []uint32, massEps float64) {
	n := len(order)
	if cap(w.mass) < n {
		w.mass = make([]float64, n)
		w.pos = make([]vmath.Vector3, n)
		w.vel = make([]vmath.Vector3, n)
		w.attractors = make([]int, 0, n)
	}
	w.mass = w.mass[:n]
	w.pos = w.pos[:n]
	w.vel = w.vel[:n]
	w.attractors = w.attractors[:0]

	for i, idx := range order {
		b := slots[idx].body
		w.mass[i] = b.Mass
		w.pos[i] = b.Position
		w.vel[i] = b.Velocity
		if b.Mass > massEps {
			w.attractors = append(w.attractors, i)
		}
	}
}

func (w *workspace) store(slots []slot, order []uint32) {
	for i, idx := range order {
		slots[idx].body.Position = w.pos[i]
		slots[idx].body.Velocity = w.vel[i]
	}
}

// Tick advances every live body by dt. It returns ErrInvalidTimestep without
// touching any body when dt is not finite and positive.
func (s *Simulation) Tick(dt float64) error {
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt <= 0 {
		return fmt.Errorf("%w: %g", ErrInvalidTimestep, dt)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.beginTick()
	defer s.endTick()

	if len(s.order) == 0 {
		return nil
	}

	w := &s.work
	w.load(s.slots, s.order, s.params.MassEpsilon)

	h := dt / float64(s.params.Substeps)
	n := len(w.pos)
	parallel := s.params.Workers > 1 && n >= ParallelThreshold

	for step := 0; step < s.params.Substeps; step++ {
		if parallel {
			parallelFor(n, s.params.Workers, func(start, end int) {
				w.accelerate(start, end, s.params.G, h)
			})
			parallelFor(n, s.params.Workers, func(start, end int) {
				w.drift(start, end, h)
			})
			continue
		}
		w.accelerate(0, n, s.params.G, h)
		w.drift(0, n, h)
	}

	w.store(s.slots, s.order)
	return nil
}

// accelerate applies one substep of gravity to subjects [start, end). Each
// subject sums its attractors in registration order, so splitting subjects
// across workers does not change the result.
func (w *workspace) accelerate(start, end int, g, h float64) {
	for si := start; si < end; si++ {
		v := w.vel[si]
		p := w.pos[si]
		for _, ai := range w.attractors {
			if ai == si {
				continue
			}
			r := p.Sub(w.pos[ai])
			sqr := r.SqrMagnitude()
			dist := math.Sqrt(sqr)
			if dist <= vmath.VectorEpsilon {
				continue
			}
			accel := g * w.mass[ai] / sqr
			v = v.Sub(r.Div(dist).Mul(accel * h))
		}
		w.vel[si] = v
	}
}

func (w *workspace) drift(start, end int, h float64) {
	for i := start; i < end; i++ {
		w.pos[i] = w.pos[i].Add(w.vel[i].Mul(h))
	}
}
