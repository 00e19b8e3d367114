// Package vecmath provides the fixed-size vector, matrix and quaternion
// primitives used by the rigid body integrator.
//
// All types are value types backed by mgl64 arrays: arithmetic returns new
// values and copies never alias.
package vecmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vector3 is an (x, y, z) triple.
type Vector3 = mgl64.Vec3

// Add returns the componentwise sum a + b.
func Add(a, b Vector3) Vector3 {
	return a.Add(b)
}

// Scale returns v with every component multiplied by s.
func Scale(v Vector3, s float64) Vector3 {
	return v.Mul(s)
}

// IsFinite reports whether no component is NaN or Inf.
func IsFinite(v Vector3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
