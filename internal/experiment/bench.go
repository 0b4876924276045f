package experiment

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/san-kum/gravlace/internal/gravity"
	"github.com/san-kum/gravlace/internal/vmath"
)

type BenchPoint struct {
	Bodies  int
	Workers int
	Ticks   int
	PerTick time.Duration
}

// PairsPerSecond is the attractor-subject interactions evaluated per second.
func (p BenchPoint) PairsPerSecond(substeps int) float64 {
	if p.PerTick <= 0 {
		return 0
	}
	pairs := float64(p.Bodies) * float64(p.Bodies-1) * float64(substeps)
	return pairs / p.PerTick.Seconds()
}

// RandomCluster registers n bodies of unit mass at uniform random positions
// within a cube of side 2*radius, at rest.
func RandomCluster(sim *gravity.Simulation, n int, radius float64, seed int64) error {
	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < n; i++ {
		pos := vmath.Vec3(
			(rng.Float64()*2-1)*radius,
			(rng.Float64()*2-1)*radius,
			(rng.Float64()*2-1)*radius,
		)
		if _, err := sim.Register(1, pos, vmath.Zero3); err != nil {
			return err
		}
	}
	return nil
}

// Bench times ticks of a random cluster for each body count.
func Bench(params gravity.Params, bodies []int, ticks int, seed int64) ([]BenchPoint, error) {
	if ticks < 1 {
		return nil, fmt.Errorf("%w: ticks must be at least 1, got %d", ErrInvalidSweep, ticks)
	}

	points := make([]BenchPoint, 0, len(bodies))
	for _, n := range bodies {
		sim, err := gravity.New(params, nil)
		if err != nil {
			return nil, err
		}
		if err := RandomCluster(sim, n, 100, seed); err != nil {
			return nil, err
		}

		start := time.Now()
		for i := 0; i < ticks; i++ {
			if err := sim.Tick(1e-3); err != nil {
				return nil, err
			}
		}
		points = append(points, BenchPoint{
			Bodies:  n,
			Workers: params.Workers,
			Ticks:   ticks,
			PerTick: time.Since(start) / time.Duration(ticks),
		})
	}
	return points, nil
}
