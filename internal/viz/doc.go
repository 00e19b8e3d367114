// Package viz renders rigid-body runs in the terminal.
//
// [PlotTrajectory] draws stored trajectory columns with asciigraph. [Model]
// is a Bubble Tea program that steps a scenario live and traces the body on
// a braille [Canvas].
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Reset to the initial state
//	P     - Cycle projection plane
//	+/-   - Steps per frame
//	Q     - Quit
package viz
