package metrics

import (
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/gravlace/internal/analysis"
	"github.com/san-kum/gravlace/internal/driver"
)

// Separation samples the distance between two named bodies. Value reports
// the mean; Stats gives the full summary.
type Separation struct {
	name    string
	a, b    string
	samples []float64
}

func NewSeparation(a, b string) *Separation {
	return &Separation{
		name: "separation_" + a + "_" + b,
		a:    a,
		b:    b,
	}
}

func (s *Separation) Name() string { return s.name }

func (s *Separation) Observe(f driver.Frame) {
	ba, okA := f.Body(s.a)
	bb, okB := f.Body(s.b)
	if !okA || !okB {
		return
	}
	s.samples = append(s.samples, ba.Position.Distance(bb.Position))
}

func (s *Separation) Value() float64 {
	if len(s.samples) == 0 {
		return 0
	}
	return stat.Mean(s.samples, nil)
}

func (s *Separation) Reset() {
	s.samples = s.samples[:0]
}

// Stats summarises the sampled separations; Eccentricity on the result
// estimates the relative orbit's eccentricity.
func (s *Separation) Stats() analysis.Stats {
	return analysis.Summary(s.samples)
}
