package control

import (
	"fmt"

	"github.com/san-kum/physcore/internal/body"
	"github.com/san-kum/physcore/internal/config"
	"github.com/san-kum/physcore/internal/vecmath"
)

type Controller interface {
	Compute(s body.State, t float64) (force, torque vecmath.Vector3)
	Reset()
}

// FromConfig builds the controller a scenario asks for. An empty type
// yields nil.
func FromConfig(cc config.ControllerConfig) (Controller, error) {
	switch cc.Type {
	case "":
		return nil, nil
	case config.ControllerNone:
		return None{}, nil
	case config.ControllerPID:
		return NewPID(cc.Kp, cc.Ki, cc.Kd, vecmath.Vector3(cc.Target)), nil
	case config.ControllerDamper:
		return NewDamper(cc.Kd), nil
	}
	return nil, fmt.Errorf("%w: unknown controller %q", config.ErrInvalidConfig, cc.Type)
}
