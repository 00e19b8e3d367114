package metrics

import (
	"github.com/san-kum/physcore/internal/body"
	"github.com/san-kum/physcore/internal/vecmath"
)

// Stability is the fraction of samples whose position is finite and within
// threshold of the origin.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(st body.State, t float64) {
	s.samples++
	if !vecmath.IsFinite(st.Position) || !vecmath.IsFinite(st.Velocity) || st.Position.Len() > s.threshold {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
