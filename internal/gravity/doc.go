// Package gravity implements a brute-force Newtonian N-body core.
//
// The package defines the registry and the integrator that advances it:
//
//   - [Body]: one point mass with position and velocity
//   - [Simulation]: registry of live bodies addressed by [Handle]
//   - [Params]: gravitational constant, substep count and mass threshold
//
// Each [Simulation.Tick] splits the elapsed time into Params.Substeps equal
// substeps. Within a substep every subject's velocity is updated from the
// positions at the start of the substep, then every position is advanced with
// the new velocity (semi-implicit Euler).
//
// # Example
//
//	sim, _ := gravity.New(gravity.DefaultParams(), logger)
//	earth, _ := sim.Register(5.972e24, vmath.Zero3, vmath.Zero3)
//	moon, _ := sim.Register(7.342e22, vmath.Vec3(3.84e8, 0, 0), vmath.Vec3(0, 1022, 0))
//	for i := 0; i < 1000; i++ {
//		_ = sim.Tick(60)
//	}
//
// # Reproducibility
//
// Results depend on registration order. Forces are summed in that order and
// floating-point addition is not associative, so two simulations holding the
// same bodies registered in a different order may differ in the last bits.
// The parallel pass sums in the same order as the serial pass and is
// bit-identical to it.
//
// # Thread Safety
//
// A Simulation is safe for concurrent use. Registration and ticks are
// serialized by one lock; an Unregister issued while a tick is running is
// queued and applied when the tick finishes.
package gravity
