// Package control provides feedback controllers for a rigid body.
//
// A [Controller] looks at the body's state before each step and returns a
// force and a torque, which the simulator adds to the step's constant loads:
//
//   - [PID]: per-axis position hold toward a target point
//   - [Damper]: torque opposing angular velocity
//   - [None]: zero output
//
// # Usage
//
//	pid := control.NewPID(20, 2, 8, vecmath.Vector3{0, 0, 10})
//	cfg.Controller = pid
//	// Compute is called once per step, before the force is applied
package control
