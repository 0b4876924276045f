// Package viz draws gravity simulations in the terminal.
//
//   - [Inspector]: a Bubble Tea model that steps a driver in real time and
//     shows each body in both simulation and render coordinates
//   - [Picker]: a preset menu that opens an Inspector
//   - [Canvas]: braille dot canvas
//   - [Camera]: orthographic projection of render space onto a canvas
//   - [Plot]: asciigraph charts of recorded series
//   - [OrbitsSVG]: recorded tracks as an SVG drawing
//
// # Key Bindings
//
//	Space   - Pause/Resume
//	N       - Single step while paused
//	Tab     - Select next body
//	X       - Remove the selected body
//	Arrows  - Rotate the view
//	+/-     - Zoom
//	F       - Fit all bodies
//	T       - Cycle themes
//	?       - Show help
package viz
