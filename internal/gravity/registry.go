package gravity

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/san-kum/gravlace/internal/vmath"
)

type slot struct {
	body       Body
	generation uint32
	live       bool
}

// Simulation is the registry of live bodies and the integrator that advances
// them. Create one with New; the zero value is not usable.
type Simulation struct {
	params Params
	logger *slog.Logger

	mu    sync.Mutex
	slots []slot
	free  []uint32
	order []uint32

	pendingMu sync.Mutex
	ticking   bool
	pending   []Handle

	work workspace
}

func New(params Params, logger *slog.Logger) (*Simulation, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Simulation{
		params: params,
		logger: logger.With("component", "gravity"),
	}, nil
}

func (s *Simulation) Params() Params { return s.params }

// Register adds a body and returns its handle. It blocks while a tick is
// running.
func (s *Simulation) Register(mass float64, pos, vel vmath.Vector3) (Handle, error) {
	if err := validateBody(mass, pos, vel); err != nil {
		return Handle{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var idx uint32
	if n := len(s.free); n > 0 {
		idx = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		idx = uint32(len(s.slots))
		s.slots = append(s.slots, slot{})
	}

	sl := &s.slots[idx]
	sl.generation++
	sl.live = true
	sl.body = Body{Mass: mass, Position: pos, Velocity: vel}
	s.order = append(s.order, idx)

	h := Handle{index: idx, generation: sl.generation}
	s.logger.Debug("body registered", "handle", h, "mass", mass, "bodies", len(s.order))
	return h, nil
}

// Unregister removes a body. When a tick is in progress the removal is queued
// and applied once the tick completes. A stale or already queued handle is
// rejected with ErrUnknownBody in both cases.
func (s *Simulation) Unregister(h Handle) error {
	s.pendingMu.Lock()
	if s.ticking {
		// the ticking goroutine holds s.mu and never changes slot liveness or
		// generations, so they can be read here
		if !s.valid(h) || slices.Contains(s.pending, h) {
			s.pendingMu.Unlock()
			return fmt.Errorf("%w: %v", ErrUnknownBody, h)
		}
		s.pending = append(s.pending, h)
		s.pendingMu.Unlock()
		s.logger.Debug("removal deferred to tick boundary", "handle", h)
		return nil
	}
	s.pendingMu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remove(h)
}

// remove requires s.mu.
func (s *Simulation) remove(h Handle) error {
	if !s.valid(h) {
		return fmt.Errorf("%w: %v", ErrUnknownBody, h)
	}

	s.slots[h.index].live = false
	s.slots[h.index].body = Body{}
	s.free = append(s.free, h.index)

	for i, idx := range s.order {
		if idx == h.index {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	s.logger.Debug("body unregistered", "handle", h, "bodies", len(s.order))
	return nil
}

func (s *Simulation) valid(h Handle) bool {
	if h.IsZero() || int(h.index) >= len(s.slots) {
		return false
	}
	sl := s.slots[h.index]
	return sl.live && sl.generation == h.generation
}

// Contains reports whether h refers to a live body.
func (s *Simulation) Contains(h Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.valid(h)
}

// Body returns a copy of the body behind h.
func (s *Simulation) Body(h Handle) (Body, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.valid(h) {
		return Body{}, false
	}
	return s.slots[h.index].body, true
}

// Bodies returns copies of all live bodies in registration order.
func (s *Simulation) Bodies() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.order))
	for i, idx := range s.order {
		sl := s.slots[idx]
		out[i] = Entry{Handle: Handle{index: idx, generation: sl.generation}, Body: sl.body}
	}
	return out
}

// Snapshot returns copies of all live bodies in registration order.
func (s *Simulation) Snapshot() []Body {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Body, len(s.order))
	for i, idx := range s.order {
		out[i] = s.slots[idx].body
	}
	return out
}

func (s *Simulation) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

func (s *Simulation) beginTick() {
	s.pendingMu.Lock()
	s.ticking = true
	s.pendingMu.Unlock()
}

// endTick requires s.mu and applies removals queued during the tick.
func (s *Simulation) endTick() {
	s.pendingMu.Lock()
	s.ticking = false
	pending := s.pending
	s.pending = nil
	s.pendingMu.Unlock()

	for _, h := range pending {
		if err := s.remove(h); err != nil {
			s.logger.Warn("dropping deferred removal", "handle", h, "error", err)
		}
	}
}
