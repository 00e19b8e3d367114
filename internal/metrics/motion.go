package metrics

import (
	"math"

	"github.com/san-kum/physcore/internal/body"
	"github.com/san-kum/physcore/internal/sim"
	"github.com/san-kum/physcore/internal/vecmath"
)

// MaxSpeed is the largest |v| observed.
type MaxSpeed struct {
	max float64
}

func NewMaxSpeed() *MaxSpeed { return &MaxSpeed{} }

func (m *MaxSpeed) Name() string { return "max_speed" }

func (m *MaxSpeed) Observe(s body.State, t float64) {
	m.max = math.Max(m.max, s.Velocity.Len())
}

func (m *MaxSpeed) Value() float64 { return m.max }
func (m *MaxSpeed) Reset()         { m.max = 0 }

// PathLength sums the distance between consecutive observed positions.
type PathLength struct {
	last    vecmath.Vector3
	total   float64
	started bool
}

func NewPathLength() *PathLength { return &PathLength{} }

func (p *PathLength) Name() string { return "path_length" }

func (p *PathLength) Observe(s body.State, t float64) {
	if p.started {
		p.total += s.Position.Sub(p.last).Len()
	}
	p.last = s.Position
	p.started = true
}

func (p *PathLength) Value() float64 { return p.total }

func (p *PathLength) Reset() {
	p.last = vecmath.Vector3{}
	p.total = 0
	p.started = false
}

// Defaults is the metric set the CLI attaches to every run.
func Defaults() []sim.Metric {
	return []sim.Metric{
		NewEnergy(),
		NewEnergyDrift(),
		NewStability(1e6),
		NewMaxSpeed(),
		NewPathLength(),
	}
}
