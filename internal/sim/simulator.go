package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/physcore/internal/body"
	"github.com/san-kum/physcore/internal/config"
	"github.com/san-kum/physcore/internal/vecmath"
	"go.uber.org/zap"
)

// Simulator advances one body with the two-phase discipline: apply the
// step's force and torque, then Update.
type Simulator struct {
	body      *body.RigidBody
	logger    *zap.Logger
	metrics   []Metric
	observers []Observer
	t         float64
	step      int
}

func New(rb *body.RigidBody, logger *zap.Logger) *Simulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Simulator{
		body:      rb,
		logger:    logger,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Body() *body.RigidBody { return s.body }
func (s *Simulator) Time() float64         { return s.t }

// Step applies one step of cfg to the body. On failure the body and the
// clock are left as they were, so the step can be retried.
func (s *Simulator) Step(cfg Config) error {
	force := vecmath.Add(cfg.Force, vecmath.Scale(cfg.Gravity, s.body.Mass()))
	torque := cfg.Torque
	if cfg.Controller != nil {
		f, tq := cfg.Controller.Compute(s.body.Snapshot(), s.t)
		force = vecmath.Add(force, f)
		torque = vecmath.Add(torque, tq)
	}

	if err := s.body.ApplyWrench(force, torque, cfg.Dt); err != nil {
		return &StepError{Step: s.step, Time: s.t, Err: err}
	}

	s.body.Update(cfg.Dt)
	s.t += cfg.Dt
	s.step++

	state := s.body.Snapshot()
	for _, m := range s.metrics {
		m.Observe(state, s.t)
	}
	for _, obs := range s.observers {
		obs.OnStep(s.step, state, s.t)
	}
	return nil
}

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps, err := config.StepCount(cfg.Dt, cfg.Duration)
	if err != nil {
		return nil, err
	}
	result := &Result{
		Times:   make([]float64, 0, steps+1),
		States:  make([]body.State, 0, steps+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}
	if cfg.Controller != nil {
		cfg.Controller.Reset()
	}

	s.logger.Debug("run started",
		zap.Float64("dt", cfg.Dt),
		zap.Float64("duration", cfg.Duration),
		zap.Int("steps", steps),
	)

	initial := s.body.Snapshot()
	result.Times = append(result.Times, s.t)
	result.States = append(result.States, initial)
	for _, m := range s.metrics {
		m.Observe(initial, s.t)
	}

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.logger.Info("run canceled", zap.Int("step", s.step))
			return result, ctx.Err()
		default:
		}

		if err := s.Step(cfg); err != nil {
			s.logger.Warn("step failed", zap.Int("step", s.step), zap.Error(err))
			return result, err
		}

		result.StepsTaken++
		result.Times = append(result.Times, s.t)
		result.States = append(result.States, s.body.Snapshot())
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	final := result.Final().Position
	s.logger.Info("run finished",
		zap.Int("steps", result.StepsTaken),
		zap.Float64("t", s.t),
		zap.Float64s("position", final[:]),
	)

	return result, nil
}

func validateConfig(cfg Config) error {
	if !(cfg.Dt > 0) || math.IsInf(cfg.Dt, 1) {
		return fmt.Errorf("%w: dt must be positive, got %g", config.ErrInvalidConfig, cfg.Dt)
	}
	if !(cfg.Duration > 0) || math.IsInf(cfg.Duration, 1) {
		return fmt.Errorf("%w: duration must be positive, got %g", config.ErrInvalidConfig, cfg.Duration)
	}
	_, err := config.StepCount(cfg.Dt, cfg.Duration)
	return err
}

// RunWithCallback steps until the duration elapses or callback returns false.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(body.State, float64) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	end := s.t + cfg.Duration
	for s.t < end-cfg.Dt/2 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := s.Step(cfg); err != nil {
			return err
		}
		if !callback(s.body.Snapshot(), s.t) {
			return nil
		}
	}

	return nil
}
