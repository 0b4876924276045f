package analysis

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type Stats struct {
	N      int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// Summary describes a series; an empty series yields the zero Stats.
func Summary(samples []float64) Stats {
	if len(samples) == 0 {
		return Stats{}
	}
	s := Stats{
		N:   len(samples),
		Min: floats.Min(samples),
		Max: floats.Max(samples),
	}
	if len(samples) == 1 {
		s.Mean = samples[0]
		return s
	}
	s.Mean, s.StdDev = stat.MeanStdDev(samples, nil)
	return s
}

// Eccentricity estimates orbital eccentricity from a separation series as
// (max - min) / (max + min), i.e. from apoapsis and periapsis distances.
func (s Stats) Eccentricity() float64 {
	if s.Max+s.Min == 0 {
		return 0
	}
	return (s.Max - s.Min) / (s.Max + s.Min)
}
