package gravity

import (
	"fmt"
	"math"

	"github.com/san-kum/gravlace/internal/vmath"
)

const (
	// G is the Newtonian gravitational constant in m^3 kg^-1 s^-2.
	G = 6.674e-11

	DefaultSubsteps = 100

	// ParallelThreshold is the body count from which a Simulation with more
	// than one worker splits each substep across goroutines.
	ParallelThreshold = 64
)

// Params holds the named constants of the integrator. Units of G must match
// the units chosen for mass, distance and time.
type Params struct {
	G           float64
	Substeps    int
	MassEpsilon float64
	Workers     int
}

func DefaultParams() Params {
	return Params{
		G:           G,
		Substeps:    DefaultSubsteps,
		MassEpsilon: vmath.Epsilon,
		Workers:     1,
	}
}

// DistanceUnit labels distances simulated with p: metres when G is the SI
// constant, empty for caller-chosen units such as G = 1.
func (p Params) DistanceUnit() string {
	if p.G == G {
		return "m"
	}
	return ""
}

func (p Params) Validate() error {
	if math.IsNaN(p.G) || math.IsInf(p.G, 0) || p.G <= 0 {
		return fmt.Errorf("%w: G must be finite and positive, got %g", ErrInvalidParams, p.G)
	}
	if p.Substeps < 1 {
		return fmt.Errorf("%w: substeps must be at least 1, got %d", ErrInvalidParams, p.Substeps)
	}
	if math.IsNaN(p.MassEpsilon) || math.IsInf(p.MassEpsilon, 0) || p.MassEpsilon < 0 {
		return fmt.Errorf("%w: mass epsilon must be finite and non-negative, got %g", ErrInvalidParams, p.MassEpsilon)
	}
	if p.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidParams, p.Workers)
	}
	return nil
}
