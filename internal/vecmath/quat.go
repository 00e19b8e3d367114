package vecmath

import "github.com/go-gl/mathgl/mgl64"

// Quaternion is a W + (x, y, z) quaternion. Orientations are kept unit length.
type Quaternion = mgl64.Quat

// QuatIdentity returns the identity rotation.
func QuatIdentity() Quaternion {
	return mgl64.QuatIdent()
}

// IntegrateOrientation advances q by angular velocity w over dt using the
// first-order update normalize(q + 0.5*dt*quat(0, w)*q). If the unnormalized
// result collapses to zero length, q is returned unchanged.
func IntegrateOrientation(q Quaternion, w Vector3, dt float64) Quaternion {
	spin := mgl64.Quat{W: 0, V: w}.Mul(q).Scale(0.5 * dt)
	next := q.Add(spin)
	if next.Len() == 0 {
		return q
	}
	return next.Normalize()
}
