// Package body integrates a single rigid body with semi-implicit Euler.
//
// A step has two phases the caller drives explicitly:
//
//  1. ApplyForce / ApplyTorque: change linear / angular velocity immediately.
//  2. Update: advance position and orientation from the current velocities.
//
// There is no force accumulator. Each ApplyForce call is an impulse of
// force*dt applied on the spot, so calling it N times before Update is the
// same as one call with the summed impulse.
package body

import (
	"github.com/san-kum/physcore/internal/dynamo"
	"github.com/san-kum/physcore/internal/vecmath"
)

// RigidBody is a mutable body owned by a single caller.
type RigidBody struct {
	position        vecmath.Vector3
	velocity        vecmath.Vector3
	angularVelocity vecmath.Vector3
	orientation     vecmath.Quaternion
	mass            float64
	inertia         vecmath.Matrix3

	invInertia   vecmath.Matrix3
	haveInvCache bool
}

// State is a value snapshot of a body.
type State struct {
	Position        vecmath.Vector3
	Velocity        vecmath.Vector3
	AngularVelocity vecmath.Vector3
	Orientation     vecmath.Quaternion
	Mass            float64
	Inertia         vecmath.Matrix3
}

// New creates a body at rest rotationally, with identity orientation.
// Neither mass nor inertia is validated here: a degenerate mass surfaces
// from ApplyForce, a singular inertia from ApplyTorque.
func New(position, velocity vecmath.Vector3, mass float64, inertia vecmath.Matrix3) *RigidBody {
	return &RigidBody{
		position:    position,
		velocity:    velocity,
		orientation: vecmath.QuatIdentity(),
		mass:        mass,
		inertia:     inertia,
	}
}

// ApplyForce adds (force/mass)*dt to the velocity. Negative dt integrates
// backward. Mass that is not strictly positive (zero, negative, NaN) yields ErrDegenerateMass and
// leaves the body untouched.
func (b *RigidBody) ApplyForce(force vecmath.Vector3, dt float64) error {
	if !(b.mass > 0) {
		return &dynamo.OpError{Op: "apply_force", Err: dynamo.ErrDegenerateMass}
	}
	accel := vecmath.Scale(force, 1/b.mass)
	b.velocity = vecmath.Add(b.velocity, vecmath.Scale(accel, dt))
	return nil
}

// ApplyTorque adds (I⁻¹·torque)*dt to the angular velocity. A singular
// inertia tensor yields ErrSingularMatrix and leaves the body untouched.
func (b *RigidBody) ApplyTorque(torque vecmath.Vector3, dt float64) error {
	inv, err := b.inverseInertia()
	if err != nil {
		return &dynamo.OpError{Op: "apply_torque", Err: err}
	}
	alpha := vecmath.MatVec(inv, torque)
	b.angularVelocity = vecmath.Add(b.angularVelocity, vecmath.Scale(alpha, dt))
	return nil
}

// ApplyWrench applies a force and a torque over the same dt. Both are checked
// before either lands, so a failure leaves every velocity untouched. A zero
// force or torque is skipped and cannot fail.
func (b *RigidBody) ApplyWrench(force, torque vecmath.Vector3, dt float64) error {
	var zero vecmath.Vector3
	if force != zero && !(b.mass > 0) {
		return &dynamo.OpError{Op: "apply_force", Err: dynamo.ErrDegenerateMass}
	}
	var inv vecmath.Matrix3
	if torque != zero {
		var err error
		if inv, err = b.inverseInertia(); err != nil {
			return &dynamo.OpError{Op: "apply_torque", Err: err}
		}
	}

	if force != zero {
		b.velocity = vecmath.Add(b.velocity, vecmath.Scale(force, dt/b.mass))
	}
	if torque != zero {
		b.angularVelocity = vecmath.Add(b.angularVelocity, vecmath.Scale(vecmath.MatVec(inv, torque), dt))
	}
	return nil
}

func (b *RigidBody) inverseInertia() (vecmath.Matrix3, error) {
	if b.haveInvCache {
		return b.invInertia, nil
	}
	inv, err := vecmath.Invert(b.inertia)
	if err != nil {
		return vecmath.Matrix3{}, err
	}
	b.invInertia = inv
	b.haveInvCache = true
	return inv, nil
}

// Update advances position by velocity*dt and orientation by the current
// angular velocity. Velocities are not touched; dt may be zero or negative.
func (b *RigidBody) Update(dt float64) {
	b.position = vecmath.Add(b.position, vecmath.Scale(b.velocity, dt))
	b.orientation = vecmath.IntegrateOrientation(b.orientation, b.angularVelocity, dt)
}

func (b *RigidBody) Position() vecmath.Vector3        { return b.position }
func (b *RigidBody) Velocity() vecmath.Vector3        { return b.velocity }
func (b *RigidBody) AngularVelocity() vecmath.Vector3 { return b.angularVelocity }
func (b *RigidBody) Orientation() vecmath.Quaternion  { return b.orientation }
func (b *RigidBody) Mass() float64                    { return b.mass }
func (b *RigidBody) Inertia() vecmath.Matrix3         { return b.inertia }

// Snapshot returns a copy of every field.
func (b *RigidBody) Snapshot() State {
	return State{
		Position:        b.position,
		Velocity:        b.velocity,
		AngularVelocity: b.angularVelocity,
		Orientation:     b.orientation,
		Mass:            b.mass,
		Inertia:         b.inertia,
	}
}

// KineticEnergy returns the body's current linear plus rotational energy.
func (b *RigidBody) KineticEnergy() float64 {
	return b.Snapshot().KineticEnergy()
}

// KineticEnergy returns ½m|v|² + ½ωᵀIω.
func (s State) KineticEnergy() float64 {
	v := s.Velocity
	w := s.AngularVelocity
	linear := 0.5 * s.Mass * v.Dot(v)
	angular := 0.5 * w.Dot(vecmath.MatVec(s.Inertia, w))
	return linear + angular
}
