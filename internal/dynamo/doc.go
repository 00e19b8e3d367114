// Package dynamo holds the primitives shared by the physics core packages.
//
// The core is split into leaf packages that never log and never perform I/O:
//
//   - [github.com/san-kum/physcore/internal/vecmath]: Vector3, Matrix3 and quaternion math
//   - [github.com/san-kum/physcore/internal/kinematics]: closed-form 1D uniform acceleration
//   - [github.com/san-kum/physcore/internal/body]: semi-implicit Euler rigid body
//
// This package defines the error taxonomy they report and a chunked
// [ParallelFor] used by the batch helpers.
//
// # Example
//
//	rb := body.New(vecmath.Vector3{}, vecmath.Vector3{1, 0, 0}, 10, vecmath.Identity())
//	if err := rb.ApplyForce(vecmath.Vector3{10, 0, 0}, 1.0); err != nil {
//		if errors.Is(err, dynamo.ErrDegenerateMass) { ... }
//	}
//	rb.Update(1.0)
//
// # Thread Safety
//
// Bodies are NOT safe for concurrent mutation. Callers serialize ApplyForce,
// ApplyTorque and Update on a given body; reads are safe only while no
// mutation is in flight.
package dynamo
