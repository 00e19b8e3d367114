// Package automation runs parameter sweeps over a scenario: the same body
// rerun once per value of a single parameter, concurrently, then ranked by a
// metric.
package automation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"runtime"
	"sort"
	"strings"

	"github.com/san-kum/physcore/internal/body"
	"github.com/san-kum/physcore/internal/config"
	"github.com/san-kum/physcore/internal/sim"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

var ErrUnknownParam = errors.New("automation: unknown parameter")

// Sweep describes a sweep file.
type Sweep struct {
	Name     string    `yaml:"name"`
	Preset   string    `yaml:"preset"`
	Scenario string    `yaml:"scenario"`
	Param    string    `yaml:"param"`
	Values   []float64 `yaml:"values"`
	Metric   string    `yaml:"metric"`
}

func LoadSweep(path string) (*Sweep, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sw Sweep
	if err := yaml.Unmarshal(data, &sw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if sw.Param == "" || len(sw.Values) == 0 {
		return nil, fmt.Errorf("%s: sweep needs a param and at least one value", path)
	}
	return &sw, nil
}

// Base resolves the scenario the sweep varies: a scenario file if given,
// else a preset.
func (sw *Sweep) Base() (*config.Config, error) {
	if sw.Scenario != "" {
		return config.Load(sw.Scenario)
	}
	sc := config.GetPreset(sw.Preset)
	if sc == nil {
		return nil, fmt.Errorf("unknown preset: %q (available: %v)", sw.Preset, config.ListPresets())
	}
	return sc, nil
}

var axes = map[string]int{"x": 0, "y": 1, "z": 2}

// Params lists the names Apply understands.
func Params() []string {
	names := []string{"dt", "duration", "mass"}
	for _, vec := range []string{"position", "velocity", "force", "torque", "gravity"} {
		for _, a := range []string{"x", "y", "z"} {
			names = append(names, vec+"."+a)
		}
	}
	return names
}

// Apply sets one named parameter on sc.
func Apply(sc *config.Config, param string, v float64) error {
	switch param {
	case "dt":
		sc.Dt = v
		return nil
	case "duration":
		sc.Duration = v
		return nil
	case "mass":
		sc.Body.Mass = v
		return nil
	}

	vec, axis, ok := strings.Cut(param, ".")
	i, known := axes[axis]
	if !ok || !known {
		return fmt.Errorf("%w: %q", ErrUnknownParam, param)
	}
	switch vec {
	case "position":
		sc.Body.Position[i] = v
	case "velocity":
		sc.Body.Velocity[i] = v
	case "force":
		sc.Force[i] = v
	case "torque":
		sc.Torque[i] = v
	case "gravity":
		sc.Gravity[i] = v
	default:
		return fmt.Errorf("%w: %q", ErrUnknownParam, param)
	}
	return nil
}

// Point is the outcome of one sweep value. Err is set when that run failed;
// the other points are unaffected.
type Point struct {
	Value   float64
	Final   body.State
	Steps   int
	Metrics map[string]float64
	Err     error
}

// Run executes base once per value of param. Metrics come fresh from
// newMetrics for every run. Only cancellation of ctx fails the whole sweep.
func Run(ctx context.Context, base *config.Config, param string, values []float64, newMetrics func() []sim.Metric, logger *zap.Logger) ([]Point, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	scenarios := make([]*config.Config, len(values))
	for i, v := range values {
		sc := *base
		if err := Apply(&sc, param, v); err != nil {
			return nil, err
		}
		scenarios[i] = &sc
	}

	points := make([]Point, len(values))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, sc := range scenarios {
		g.Go(func() error {
			points[i].Value = values[i]
			if err := sc.Validate(); err != nil {
				points[i].Err = err
				return nil
			}

			rb, cfg, err := sim.FromScenario(sc)
			if err != nil {
				points[i].Err = err
				return nil
			}
			s := sim.New(rb, logger.With(zap.String("param", param), zap.Float64("value", values[i])))
			if newMetrics != nil {
				for _, m := range newMetrics() {
					s.AddMetric(m)
				}
			}

			res, err := s.Run(ctx, cfg)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				points[i].Err = err
				return nil
			}
			points[i].Final = res.Final()
			points[i].Steps = res.StepsTaken
			points[i].Metrics = res.Metrics
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return points, nil
}

// Best returns the successful point with the lowest value of metric.
func Best(points []Point, metric string) (Point, bool) {
	best := math.Inf(1)
	idx := -1
	for i, p := range points {
		if p.Err != nil {
			continue
		}
		v, ok := p.Metrics[metric]
		if !ok || math.IsNaN(v) {
			continue
		}
		if v < best || idx < 0 {
			best = v
			idx = i
		}
	}
	if idx < 0 {
		return Point{}, false
	}
	return points[idx], true
}

// Ranked returns the successful points ordered by metric, lowest first.
func Ranked(points []Point, metric string) []Point {
	out := make([]Point, 0, len(points))
	for _, p := range points {
		if p.Err == nil {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Metrics[metric] < out[j].Metrics[metric]
	})
	return out
}
