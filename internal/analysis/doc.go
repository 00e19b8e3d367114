// Package analysis inspects stored trajectories.
//
//   - [NewPhasePortrait]: one column against another, drawn as ASCII
//   - [Crossings]: times at which a column passes through a level
//   - [CompareKinematics]: deviation of a column from closed-form motion
//
// Crossing times are linearly interpolated between samples, so a
// projectile's landing time can be read off a run directly:
//
//	times, _ := analysis.Crossings(traj, "pz", 0)
package analysis
