package experiment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/san-kum/gravlace/internal/config"
	"github.com/san-kum/gravlace/internal/driver"
)

var ErrInvalidSweep = errors.New("experiment: invalid sweep")

// Experiment runs variations of one configuration.
type Experiment struct {
	cfg    *config.Config
	logger *slog.Logger
}

func New(cfg *config.Config, logger *slog.Logger) *Experiment {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Experiment{cfg: cfg, logger: logger.With("component", "experiment")}
}

// Run executes the configuration with the substep count replaced.
func (e *Experiment) Run(ctx context.Context, substeps int) (*driver.Result, error) {
	cfg := e.cfg.Clone()
	cfg.Physics.Substeps = substeps

	d, err := cfg.Build(e.logger)
	if err != nil {
		return nil, err
	}
	return d.Run(ctx, cfg.RunConfig())
}

type SweepPoint struct {
	Substeps int
	// Errors is the distance in metres between each body's final position
	// and the reference run's.
	Errors      map[string]float64
	MaxError    float64
	EnergyDrift float64
	Elapsed     time.Duration
}

// SubstepSweep runs the configuration once at the reference substep count
// and once per entry of substeps, reporting how far each run's final state
// lands from the reference.
func (e *Experiment) SubstepSweep(ctx context.Context, substeps []int, reference int) ([]SweepPoint, error) {
	if len(substeps) == 0 {
		return nil, fmt.Errorf("%w: no substep counts", ErrInvalidSweep)
	}
	for _, s := range append([]int{reference}, substeps...) {
		if s < 1 {
			return nil, fmt.Errorf("%w: substeps must be at least 1, got %d", ErrInvalidSweep, s)
		}
	}

	ref, err := e.Run(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("reference run (%d substeps): %w", reference, err)
	}
	want := ref.Frames[len(ref.Frames)-1]
	e.logger.Info("reference run finished", "substeps", reference, "energy_drift", ref.EnergyDrift)

	points := make([]SweepPoint, 0, len(substeps))
	for _, s := range substeps {
		start := time.Now()
		res, err := e.Run(ctx, s)
		if err != nil {
			return points, fmt.Errorf("sweep run (%d substeps): %w", s, err)
		}

		got := res.Frames[len(res.Frames)-1]
		p := SweepPoint{
			Substeps:    s,
			Errors:      make(map[string]float64, len(got.Bodies)),
			EnergyDrift: res.EnergyDrift,
			Elapsed:     time.Since(start),
		}
		for _, b := range got.Bodies {
			rb, _ := want.Body(b.Name)
			dist := b.Position.Distance(rb.Position)
			p.Errors[b.Name] = dist
			p.MaxError = math.Max(p.MaxError, dist)
		}
		points = append(points, p)

		e.logger.Debug("sweep point", "substeps", s, "max_error", p.MaxError, "elapsed", p.Elapsed)
	}
	return points, nil
}

// SubstepSweep is shorthand for New(cfg, nil).SubstepSweep.
func SubstepSweep(ctx context.Context, cfg *config.Config, substeps []int, reference int) ([]SweepPoint, error) {
	return New(cfg, nil).SubstepSweep(ctx, substeps, reference)
}
