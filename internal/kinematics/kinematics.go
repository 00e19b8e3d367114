// Package kinematics evaluates uniform-acceleration motion along one axis:
//
//	x(t) = x0 + v0*t + a*t²/2
//	v(t) = v0 + a*t
//
// Inputs are not validated; NaN and Inf propagate through the formulas.
package kinematics

import "math"

// Kinematics is an immutable point-mass motion model.
type Kinematics struct {
	initialPosition float64
	initialVelocity float64
	acceleration    float64
}

func New(initialPosition, initialVelocity, acceleration float64) Kinematics {
	return Kinematics{
		initialPosition: initialPosition,
		initialVelocity: initialVelocity,
		acceleration:    acceleration,
	}
}

func (k Kinematics) InitialPosition() float64 { return k.initialPosition }
func (k Kinematics) InitialVelocity() float64 { return k.initialVelocity }
func (k Kinematics) Acceleration() float64    { return k.acceleration }

// Displacement returns the position at elapsed time t. Negative t evaluates
// the trajectory before the reference instant.
func (k Kinematics) Displacement(t float64) float64 {
	return k.initialPosition + k.initialVelocity*t + 0.5*k.acceleration*t*t
}

// Velocity returns the velocity at elapsed time t.
func (k Kinematics) Velocity(t float64) float64 {
	return k.initialVelocity + k.acceleration*t
}

// SpeedAt returns |v| once the body is s away from its initial position,
// from v² = v0² + 2as. Displacements the motion never reaches give NaN.
func (k Kinematics) SpeedAt(s float64) float64 {
	return math.Sqrt(k.initialVelocity*k.initialVelocity + 2*k.acceleration*s)
}
