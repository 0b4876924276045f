package metrics

import (
	"github.com/san-kum/gravlace/internal/driver"
	"github.com/san-kum/gravlace/internal/gravity"
)

// Boundedness is the fraction of frames in which every body stays within
// radius of the center of mass. A value below 1 flags escapes.
type Boundedness struct {
	name       string
	radius     float64
	violations int
	samples    int
}

func NewBoundedness(radius float64) *Boundedness {
	return &Boundedness{
		name:   "boundedness",
		radius: radius,
	}
}

func (s *Boundedness) Name() string {
	return s.name
}

func (s *Boundedness) Observe(f driver.Frame) {
	s.samples++
	com := gravity.CenterOfMass(f.Gravity())
	for _, b := range f.Bodies {
		if b.Position.Distance(com) > s.radius {
			s.violations++
			break
		}
	}
}

func (s *Boundedness) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Boundedness) Reset() {
	s.violations = 0
	s.samples = 0
}
