package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/san-kum/physcore/internal/kinematics"
	"github.com/san-kum/physcore/internal/vecmath"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt       = 0.01
	DefaultDuration = 10.0
	DefaultMass     = 1.0
	DefaultSamples  = 100
)

// MaxSteps caps the number of fixed steps one run may take.
const MaxSteps = 100_000_000

var ErrInvalidConfig = errors.New("config: invalid scenario")

type Config struct {
	Name       string           `yaml:"name"`
	Dt         float64          `yaml:"dt"`
	Duration   float64          `yaml:"duration"`
	Body       BodyConfig       `yaml:"body"`
	Force      [3]float64       `yaml:"force"`
	Torque     [3]float64       `yaml:"torque"`
	Gravity    [3]float64       `yaml:"gravity"`
	Controller ControllerConfig `yaml:"controller"`
	Kinematics KinematicsConfig `yaml:"kinematics"`
}

type BodyConfig struct {
	Position [3]float64    `yaml:"position"`
	Velocity [3]float64    `yaml:"velocity"`
	Mass     float64       `yaml:"mass"`
	Inertia  [3][3]float64 `yaml:"inertia"`
}

const (
	ControllerNone   = "none"
	ControllerPID    = "pid"
	ControllerDamper = "damper"
)

// ControllerConfig selects feedback applied on top of the constant loads.
// Target is the PID setpoint; Kd alone configures the damper.
type ControllerConfig struct {
	Type   string     `yaml:"type,omitempty"`
	Kp     float64    `yaml:"kp,omitempty"`
	Ki     float64    `yaml:"ki,omitempty"`
	Kd     float64    `yaml:"kd,omitempty"`
	Target [3]float64 `yaml:"target"`
}

type KinematicsConfig struct {
	X0       float64 `yaml:"x0"`
	V0       float64 `yaml:"v0"`
	A        float64 `yaml:"a"`
	Duration float64 `yaml:"duration"`
	Samples  int     `yaml:"samples"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:     "default",
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		Body: BodyConfig{
			Mass:    DefaultMass,
			Inertia: vecmath.Identity(),
		},
		Kinematics: KinematicsConfig{
			Duration: DefaultDuration,
			Samples:  DefaultSamples,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the driver settings. Body mass and inertia are left to the
// core, which reports them when a force or torque is applied.
func (c *Config) Validate() error {
	if !(c.Dt > 0) {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidConfig, c.Dt)
	}
	if !(c.Duration > 0) {
		return fmt.Errorf("%w: duration must be positive, got %g", ErrInvalidConfig, c.Duration)
	}
	if _, err := c.Steps(); err != nil {
		return err
	}
	switch c.Controller.Type {
	case "", ControllerNone, ControllerPID, ControllerDamper:
	default:
		return fmt.Errorf("%w: unknown controller %q", ErrInvalidConfig, c.Controller.Type)
	}
	if c.Kinematics.Samples < 0 {
		return fmt.Errorf("%w: kinematics samples must not be negative, got %d", ErrInvalidConfig, c.Kinematics.Samples)
	}
	return nil
}

// Fingerprint hashes the canonical YAML encoding, so two scenarios with the
// same parameters share a fingerprint regardless of file formatting.
func (c *Config) Fingerprint() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(data)), nil
}

func (c *Config) Steps() (int, error) {
	return StepCount(c.Dt, c.Duration)
}

// StepCount rounds duration/dt to the nearest whole step.
func StepCount(dt, duration float64) (int, error) {
	n := math.Floor(duration/dt + 0.5)
	if math.IsNaN(n) || n > MaxSteps {
		return 0, fmt.Errorf("%w: duration/dt = %g steps, limit is %d", ErrInvalidConfig, duration/dt, MaxSteps)
	}
	return int(n), nil
}

func (c *Config) InitialPosition() vecmath.Vector3 { return vecmath.Vector3(c.Body.Position) }
func (c *Config) InitialVelocity() vecmath.Vector3 { return vecmath.Vector3(c.Body.Velocity) }
func (c *Config) Inertia() vecmath.Matrix3         { return vecmath.Matrix3(c.Body.Inertia) }
func (c *Config) ForceVector() vecmath.Vector3     { return vecmath.Vector3(c.Force) }
func (c *Config) TorqueVector() vecmath.Vector3    { return vecmath.Vector3(c.Torque) }
func (c *Config) GravityVector() vecmath.Vector3   { return vecmath.Vector3(c.Gravity) }

func (c *Config) KinematicsModel() kinematics.Kinematics {
	return kinematics.New(c.Kinematics.X0, c.Kinematics.V0, c.Kinematics.A)
}
