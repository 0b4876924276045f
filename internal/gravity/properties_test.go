package gravity_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravlace/internal/gravity"
	"github.com/san-kum/gravlace/internal/vmath"
)

// circularPair registers two bodies on a circular orbit about their
// barycenter, separated along x, and returns their handles.
func circularPair(sim *gravity.Simulation, m1, m2, sep float64) (gravity.Handle, gravity.Handle) {
	g := sim.Params().G
	total := m1 + m2
	v := math.Sqrt(g * total / sep)

	h1, err := sim.Register(m1, vmath.Vec3(-sep*m2/total, 0, 0), vmath.Vec3(0, -v*m2/total, 0))
	Expect(err).NotTo(HaveOccurred())
	h2, err := sim.Register(m2, vmath.Vec3(sep*m1/total, 0, 0), vmath.Vec3(0, v*m1/total, 0))
	Expect(err).NotTo(HaveOccurred())
	return h1, h2
}

func unitSim(substeps int) *gravity.Simulation {
	p := gravity.DefaultParams()
	p.G = 1
	p.Substeps = substeps
	sim, err := gravity.New(p, nil)
	Expect(err).NotTo(HaveOccurred())
	return sim
}

func tickN(sim *gravity.Simulation, n int, dt float64) {
	for i := 0; i < n; i++ {
		Expect(sim.Tick(dt)).To(Succeed())
	}
}

var _ = Describe("Simulation", func() {
	Describe("closed systems", func() {
		It("conserves momentum for two bodies", func() {
			sim := unitSim(50)
			_, _ = circularPair(sim, 1, 0.3, 1.5)
			p0 := sim.TotalMomentum()

			tickN(sim, 100, 0.05)

			Expect(sim.TotalMomentum().Sub(p0).Magnitude()).To(BeNumerically("<", 1e-11))
		})

		It("conserves momentum for three bodies with nonzero net momentum", func() {
			sim := unitSim(25)
			_, _ = sim.Register(3, vmath.Vec3(1, 0, 0), vmath.Vec3(0, 0.5, 0))
			_, _ = sim.Register(4, vmath.Vec3(-1, 0, 0), vmath.Vec3(0, -0.2, 0.1))
			_, _ = sim.Register(5, vmath.Vec3(0, 1.5, 0), vmath.Vec3(0.3, 0, 0))
			p0 := sim.TotalMomentum()

			tickN(sim, 100, 0.01)

			Expect(sim.TotalMomentum().Sub(p0).Magnitude()).To(BeNumerically("<", 1e-10*p0.Magnitude()+1e-12))
		})

		It("keeps energy bounded on a circular orbit", func() {
			sim := unitSim(200)
			_, _ = circularPair(sim, 1, 0.001, 1)
			e0 := sim.TotalEnergy()

			tickN(sim, 200, 0.05)

			Expect(math.Abs((sim.TotalEnergy() - e0) / e0)).To(BeNumerically("<", 1e-3))
		})
	})

	Describe("pair forces", func() {
		It("are equal and opposite", func() {
			a := gravity.Body{Mass: 2, Position: vmath.Vec3(0.5, -1, 2)}
			b := gravity.Body{Mass: 7, Position: vmath.Vec3(-3, 4, 1)}

			fab := gravity.PairForce(b, a, 1)
			fba := gravity.PairForce(a, b, 1)

			Expect(fab.Add(fba).Magnitude()).To(BeNumerically("<", 1e-14))
			Expect(fab.Magnitude()).To(BeNumerically("~", fba.Magnitude(), 1e-14))
		})
	})

	Describe("self-exclusion", func() {
		It("leaves a lone body at rest", func() {
			sim := unitSim(100)
			h, _ := sim.Register(1e6, vmath.Vec3(4, 5, 6), vmath.Zero3)

			tickN(sim, 25, 1)

			b, ok := sim.Body(h)
			Expect(ok).To(BeTrue())
			Expect(b.Position).To(Equal(vmath.Vec3(4, 5, 6)))
			Expect(b.Velocity).To(Equal(vmath.Zero3))
		})
	})

	Describe("zero-mass attractors", func() {
		It("exert no pull but still fall", func() {
			sim := unitSim(10)
			heavy, _ := sim.Register(10, vmath.Zero3, vmath.Zero3)
			ghost, _ := sim.Register(0, vmath.Vec3(2, 0, 0), vmath.Zero3)

			tickN(sim, 5, 0.01)

			hb, _ := sim.Body(heavy)
			Expect(hb.Velocity).To(Equal(vmath.Zero3))
			gb, _ := sim.Body(ghost)
			Expect(gb.Velocity.X).To(BeNumerically("<", 0))
		})
	})

	Describe("coincident bodies", func() {
		It("stay finite after a tick", func() {
			sim := unitSim(100)
			a, _ := sim.Register(1, vmath.Vec3(1, 2, 3), vmath.Zero3)
			b, _ := sim.Register(5, vmath.Vec3(1, 2, 3), vmath.Vec3(0, 0, 0))
			_, _ = sim.Register(1, vmath.Vec3(10, 0, 0), vmath.Zero3)

			tickN(sim, 1, 0.1)

			for _, h := range []gravity.Handle{a, b} {
				body, _ := sim.Body(h)
				Expect(body.Position.IsFinite()).To(BeTrue())
				Expect(body.Velocity.IsFinite()).To(BeTrue())
			}
		})
	})

	Describe("substep convergence", func() {
		finalPosition := func(substeps int) vmath.Vector3 {
			sim := unitSim(substeps)
			_, h := circularPair(sim, 1, 0.001, 1)
			tickN(sim, 4, 0.5)
			b, _ := sim.Body(h)
			return b.Position
		}

		It("reduces the error monotonically as substeps grow", func() {
			reference := finalPosition(4096)

			prev := math.Inf(1)
			for _, s := range []int{1, 4, 16, 64} {
				e := finalPosition(s).Distance(reference)
				Expect(e).To(BeNumerically("<", prev), "substeps=%d", s)
				prev = e
			}
		})
	})

	Describe("Earth-Moon scenario", func() {
		It("returns the Moon to its start after one Kepler period", func() {
			sim, err := gravity.New(gravity.Params{G: gravity.G, Substeps: 10, MassEpsilon: vmath.Epsilon, Workers: 1}, nil)
			Expect(err).NotTo(HaveOccurred())

			const (
				earthMass = 5.972e24
				moonMass  = 7.342e22
				sep       = 3.84e8
			)
			earth, moon := circularPair(sim, earthMass, moonMass, sep)

			period := 2 * math.Pi * math.Sqrt(sep*sep*sep/(gravity.G*(earthMass+moonMass)))
			Expect(period).To(BeNumerically("~", 2.354e6, 1e4))

			const ticks = 1000
			tickN(sim, ticks, period/ticks)

			e, _ := sim.Body(earth)
			m, _ := sim.Body(moon)
			rel := m.Position.Sub(e.Position)

			Expect(rel.Distance(vmath.Vec3(sep, 0, 0))).To(BeNumerically("<", 0.01*sep))
		})
	})

	Describe("normalization", func() {
		It("maps the zero vector to zero", func() {
			Expect(vmath.Zero3.Normalized()).To(Equal(vmath.Zero3))
			Expect(vmath.Zero2.Normalized()).To(Equal(vmath.Zero2))
		})
	})
})
