package control

import (
	"github.com/san-kum/physcore/internal/body"
	"github.com/san-kum/physcore/internal/vecmath"
)

// PID drives the body's position toward Target, each axis independently.
type PID struct {
	Kp       float64
	Ki       float64
	Kd       float64
	Target   vecmath.Vector3
	integral vecmath.Vector3
	prevErr  vecmath.Vector3
	prevT    float64
	first    bool
}

func NewPID(kp, ki, kd float64, target vecmath.Vector3) *PID {
	return &PID{
		Kp:     kp,
		Ki:     ki,
		Kd:     kd,
		Target: target,
		first:  true,
	}
}

func (p *PID) Compute(s body.State, t float64) (vecmath.Vector3, vecmath.Vector3) {
	err := p.Target.Sub(s.Position)

	if p.first {
		p.prevErr = err
		p.prevT = t
		p.first = false
		return vecmath.Scale(err, p.Kp), vecmath.Vector3{}
	}

	dt := t - p.prevT
	if dt <= 0 {
		return vecmath.Scale(err, p.Kp), vecmath.Vector3{}
	}

	p.integral = vecmath.Add(p.integral, vecmath.Scale(err, dt))
	derivative := vecmath.Scale(err.Sub(p.prevErr), 1/dt)

	u := vecmath.Add(vecmath.Scale(err, p.Kp), vecmath.Scale(p.integral, p.Ki))
	u = vecmath.Add(u, vecmath.Scale(derivative, p.Kd))

	p.prevErr = err
	p.prevT = t
	return u, vecmath.Vector3{}
}

// Reset clears integral and derivative state.
func (p *PID) Reset() {
	p.integral = vecmath.Vector3{}
	p.prevErr = vecmath.Vector3{}
	p.first = true
}
