package metrics

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/physcore/internal/body"
	"github.com/san-kum/physcore/internal/sim"
	"github.com/san-kum/physcore/internal/vecmath"
)

func state(pos, vel vecmath.Vector3, mass float64) body.State {
	return body.State{Position: pos, Velocity: vel, Mass: mass, Inertia: vecmath.Identity()}
}

func TestEnergy(t *testing.T) {
	m := NewEnergy()

	m.Observe(state(vecmath.Vector3{}, vecmath.Vector3{3, 4, 0}, 2), 0)
	if math.Abs(m.Value()-25) > 1e-12 {
		t.Errorf("expected energy 25, got %f", m.Value())
	}

	m.Observe(state(vecmath.Vector3{}, vecmath.Vector3{}, 2), 1)
	if math.Abs(m.Value()-12.5) > 1e-12 {
		t.Errorf("expected mean energy 12.5, got %f", m.Value())
	}
}

func TestEnergyReset(t *testing.T) {
	m := NewEnergy()

	m.Observe(state(vecmath.Vector3{}, vecmath.Vector3{1, 1, 1}, 1), 0)
	if m.Value() == 0 {
		t.Error("expected non-zero energy")
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestEnergyDrift(t *testing.T) {
	m := NewEnergyDrift()

	m.Observe(state(vecmath.Vector3{}, vecmath.Vector3{2, 0, 0}, 1), 0)
	m.Observe(state(vecmath.Vector3{}, vecmath.Vector3{2, 0, 0}, 1), 1)
	if m.Value() != 0 {
		t.Errorf("expected no drift, got %f", m.Value())
	}

	// energy 2 -> 4.5
	m.Observe(state(vecmath.Vector3{}, vecmath.Vector3{3, 0, 0}, 1), 2)
	if math.Abs(m.Value()-1.25) > 1e-12 {
		t.Errorf("expected drift 1.25, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero drift after reset")
	}
}

func TestStability(t *testing.T) {
	m := NewStability(10)

	if m.Value() != 1.0 {
		t.Errorf("expected 1.0 with no samples, got %f", m.Value())
	}

	m.Observe(state(vecmath.Vector3{1, 0, 0}, vecmath.Vector3{}, 1), 0)
	m.Observe(state(vecmath.Vector3{20, 0, 0}, vecmath.Vector3{}, 1), 1)
	m.Observe(state(vecmath.Vector3{0, 0, 0}, vecmath.Vector3{math.NaN(), 0, 0}, 1), 2)
	m.Observe(state(vecmath.Vector3{0, 9, 0}, vecmath.Vector3{}, 1), 3)

	if m.Value() != 0.5 {
		t.Errorf("expected 0.5, got %f", m.Value())
	}
}

func TestMaxSpeedAndPathLength(t *testing.T) {
	speed := NewMaxSpeed()
	path := NewPathLength()

	points := []vecmath.Vector3{{0, 0, 0}, {3, 4, 0}, {3, 4, 0}, {3, 4, 2}}
	speeds := []vecmath.Vector3{{1, 0, 0}, {0, -5, 0}, {0, 2, 0}, {0, 0, 0}}
	for i := range points {
		s := state(points[i], speeds[i], 1)
		speed.Observe(s, float64(i))
		path.Observe(s, float64(i))
	}

	if speed.Value() != 5 {
		t.Errorf("expected max speed 5, got %f", speed.Value())
	}
	if math.Abs(path.Value()-7) > 1e-12 {
		t.Errorf("expected path length 7, got %f", path.Value())
	}

	path.Reset()
	path.Observe(state(vecmath.Vector3{100, 0, 0}, vecmath.Vector3{}, 1), 0)
	if path.Value() != 0 {
		t.Errorf("expected zero path after reset, got %f", path.Value())
	}
}

func TestMotionIncludesInitialState(t *testing.T) {
	tests := []struct {
		name      string
		force     float64
		wantSpeed float64
		wantPath  float64
	}{
		{"accelerating", 10, 2, 2},
		{"braking", -10, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rb := body.New(vecmath.Vector3{}, vecmath.Vector3{1, 0, 0}, 10, vecmath.Identity())
			s := sim.New(rb, nil)
			for _, m := range Defaults() {
				s.AddMetric(m)
			}

			res, err := s.Run(context.Background(), sim.Config{Dt: 1, Duration: 1, Force: vecmath.Vector3{tt.force, 0, 0}})
			if err != nil {
				t.Fatal(err)
			}
			if got := res.Metrics["max_speed"]; got != tt.wantSpeed {
				t.Errorf("max_speed = %v, want %v", got, tt.wantSpeed)
			}
			if got := res.Metrics["path_length"]; got != tt.wantPath {
				t.Errorf("path_length = %v, want %v", got, tt.wantPath)
			}
		})
	}
}

func TestDefaults(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range Defaults() {
		if seen[m.Name()] {
			t.Errorf("duplicate metric %s", m.Name())
		}
		seen[m.Name()] = true
	}
	if len(seen) != 5 {
		t.Errorf("expected 5 metrics, got %d", len(seen))
	}
}
