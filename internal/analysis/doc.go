// Package analysis extracts orbital quantities from recorded trajectories.
//
//   - [PowerSpectrum]: windowed magnitude spectrum of a sampled series
//   - [DominantPeriod]: period of the strongest oscillation
//   - [Summary]: mean, spread and extremes of a series
//
// # Orbital Period
//
// The separation between two bodies oscillates once per orbit, so its
// dominant period is the orbital period:
//
//	sep, _ := traj.Separation("earth", "moon")
//	period, err := analysis.DominantPeriod(sep, traj.Times[1]-traj.Times[0])
//
// A radial separation of a circular orbit is constant; use a position
// component instead.
package analysis
