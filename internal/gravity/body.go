package gravity

import (
	"fmt"
	"math"

	"github.com/san-kum/gravlace/internal/vmath"
)

// Body is one point mass. Mass stays fixed while the body is registered.
type Body struct {
	Mass     float64
	Position vmath.Vector3
	Velocity vmath.Vector3
}

// Handle addresses a registered body. The zero Handle is never valid.
type Handle struct {
	index      uint32
	generation uint32
}

func (h Handle) IsZero() bool { return h.generation == 0 }

func (h Handle) String() string {
	return fmt.Sprintf("body#%d.%d", h.index, h.generation)
}

// Entry pairs a handle with a copy of its body.
type Entry struct {
	Handle Handle
	Body   Body
}

func validateBody(mass float64, pos, vel vmath.Vector3) error {
	if math.IsNaN(mass) || math.IsInf(mass, 0) || mass < 0 {
		return fmt.Errorf("%w: %g", ErrInvalidMass, mass)
	}
	if !pos.IsFinite() {
		return fmt.Errorf("%w: position %v", ErrNonFinite, pos)
	}
	if !vel.IsFinite() {
		return fmt.Errorf("%w: velocity %v", ErrNonFinite, vel)
	}
	return nil
}
