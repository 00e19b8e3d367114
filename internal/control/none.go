package control

import (
	"github.com/san-kum/physcore/internal/body"
	"github.com/san-kum/physcore/internal/vecmath"
)

type None struct{}

func (None) Compute(s body.State, t float64) (vecmath.Vector3, vecmath.Vector3) {
	return vecmath.Vector3{}, vecmath.Vector3{}
}

func (None) Reset() {}

// Damper brakes rotation with a torque of -Kd*ω.
type Damper struct {
	Kd float64
}

func NewDamper(kd float64) *Damper { return &Damper{Kd: kd} }

func (d *Damper) Compute(s body.State, t float64) (vecmath.Vector3, vecmath.Vector3) {
	return vecmath.Vector3{}, vecmath.Scale(s.AngularVelocity, -d.Kd)
}

func (d *Damper) Reset() {}
