package sim

import (
	"fmt"

	"github.com/san-kum/physcore/internal/body"
	"github.com/san-kum/physcore/internal/config"
	"github.com/san-kum/physcore/internal/control"
	"github.com/san-kum/physcore/internal/vecmath"
)

// Metric accumulates a scalar over the states a run passes through.
type Metric interface {
	Name() string
	Observe(s body.State, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(step int, s body.State, t float64)
}

// Config drives a fixed-step run. Force and Torque are held constant for the
// whole run; Gravity is scaled by the body's mass each step. A Controller,
// if set, adds its output to both every step.
type Config struct {
	Dt         float64
	Duration   float64
	Force      vecmath.Vector3
	Torque     vecmath.Vector3
	Gravity    vecmath.Vector3
	Controller control.Controller
}

func DefaultConfig() Config {
	return Config{
		Dt:       config.DefaultDt,
		Duration: config.DefaultDuration,
	}
}

// FromScenario builds the body and run settings described by a scenario file.
// Each call gets its own controller instance.
func FromScenario(c *config.Config) (*body.RigidBody, Config, error) {
	ctrl, err := control.FromConfig(c.Controller)
	if err != nil {
		return nil, Config{}, err
	}
	rb := body.New(c.InitialPosition(), c.InitialVelocity(), c.Body.Mass, c.Inertia())
	return rb, Config{
		Dt:         c.Dt,
		Duration:   c.Duration,
		Force:      c.ForceVector(),
		Torque:     c.TorqueVector(),
		Gravity:    c.GravityVector(),
		Controller: ctrl,
	}, nil
}

type Result struct {
	Times      []float64
	States     []body.State
	Metrics    map[string]float64
	StepsTaken int
}

// Final returns the last recorded state.
func (r *Result) Final() body.State {
	return r.States[len(r.States)-1]
}

// StepError wraps a core failure with the step it happened on.
type StepError struct {
	Step int
	Time float64
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
