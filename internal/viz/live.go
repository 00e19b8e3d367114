package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/physcore/internal/config"
	"github.com/san-kum/physcore/internal/sim"
	"go.uber.org/zap"
)

const (
	canvasWidth     = 60
	canvasHeight    = 20
	trailCapacity   = 2000
	energyCapacity  = 120
	maxStepsPerTick = 64
)

// Plane selects which pair of world axes the live view projects onto.
type Plane int

const (
	PlaneXY Plane = iota
	PlaneXZ
	PlaneYZ
)

func (p Plane) String() string {
	switch p {
	case PlaneXZ:
		return "x/z"
	case PlaneYZ:
		return "y/z"
	default:
		return "x/y"
	}
}

func (p Plane) axes() (int, int) {
	switch p {
	case PlaneXZ:
		return 0, 2
	case PlaneYZ:
		return 1, 2
	default:
		return 0, 1
	}
}

type TickMsg time.Time

// Model steps a scenario in real time and draws its trajectory.
type Model struct {
	scenario     *config.Config
	logger       *zap.Logger
	sim          *sim.Simulator
	cfg          sim.Config
	plane        Plane
	stepsPerTick int
	running      bool
	done         bool
	err          error
	trail        [][3]float64
	energy       []float64
	canvas       *Canvas
}

func NewModel(scenario *config.Config, logger *zap.Logger) (Model, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := Model{
		scenario:     scenario,
		logger:       logger,
		stepsPerTick: 1,
		running:      true,
		canvas:       NewCanvas(canvasWidth, canvasHeight),
	}
	if err := m.reset(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func (m *Model) reset() error {
	rb, cfg, err := sim.FromScenario(m.scenario)
	if err != nil {
		return err
	}
	m.sim = sim.New(rb, m.logger)
	m.cfg = cfg
	m.done = false
	m.err = nil
	m.trail = m.trail[:0]
	m.energy = m.energy[:0]
	m.record()
	return nil
}

func (m *Model) record() {
	p := m.sim.Body().Position()
	m.trail = append(m.trail, [3]float64{p[0], p[1], p[2]})
	if len(m.trail) > trailCapacity {
		m.trail = m.trail[len(m.trail)-trailCapacity:]
	}
	m.energy = append(m.energy, m.sim.Body().KineticEnergy())
	if len(m.energy) > energyCapacity {
		m.energy = m.energy[len(m.energy)-energyCapacity:]
	}
}

func (m *Model) advance() {
	for i := 0; i < m.stepsPerTick; i++ {
		if m.cfg.Duration > 0 && m.sim.Time() >= m.cfg.Duration-m.cfg.Dt/2 {
			m.done = true
			m.running = false
			return
		}
		if err := m.sim.Step(m.cfg); err != nil {
			m.logger.Warn("live step failed", zap.Error(err))
			m.err = err
			m.running = false
			return
		}
		m.record()
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if m.err == nil && !m.done {
				m.running = !m.running
			}
		case "r":
			if err := m.reset(); err != nil {
				m.err = err
				break
			}
			m.running = true
		case "p":
			m.plane = (m.plane + 1) % 3
		case "+", "=":
			if m.stepsPerTick < maxStepsPerTick {
				m.stepsPerTick *= 2
			}
		case "-", "_":
			if m.stepsPerTick > 1 {
				m.stepsPerTick /= 2
			}
		}
	case TickMsg:
		if m.running {
			m.advance()
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) draw() string {
	m.canvas.Clear()
	if len(m.trail) == 0 {
		return m.canvas.String()
	}
	a, b := m.plane.axes()
	xs := make([]float64, len(m.trail))
	ys := make([]float64, len(m.trail))
	bounds := Bounds{MinX: m.trail[0][a], MaxX: m.trail[0][a], MinY: m.trail[0][b], MaxY: m.trail[0][b]}
	for i, p := range m.trail {
		xs[i], ys[i] = p[a], p[b]
		bounds = bounds.Expand(p[a], p[b])
	}
	m.canvas.Polyline(bounds, xs, ys)
	return m.canvas.String()
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return StatusFailed.Render("FAILED")
	case m.done:
		return StatusPaused.Render("DONE")
	case m.running:
		return StatusRunning.Render("RUNNING")
	default:
		return StatusPaused.Render("PAUSED")
	}
}

func (m Model) View() string {
	rb := m.sim.Body()
	p, v, w := rb.Position(), rb.Velocity(), rb.AngularVelocity()
	q := rb.Orientation()

	var stats strings.Builder
	stats.WriteString(Title.Render(m.scenario.Name) + "  " + m.status() + "\n\n")
	stats.WriteString(Row("time", fmt.Sprintf("%.3f s", m.sim.Time())) + "\n")
	stats.WriteString(Row("position", fmt.Sprintf("%.3f %.3f %.3f", p[0], p[1], p[2])) + "\n")
	stats.WriteString(Row("velocity", fmt.Sprintf("%.3f %.3f %.3f", v[0], v[1], v[2])) + "\n")
	stats.WriteString(Row("angular vel", fmt.Sprintf("%.3f %.3f %.3f", w[0], w[1], w[2])) + "\n")
	stats.WriteString(Row("orientation", fmt.Sprintf("%.3f %.3f %.3f %.3f", q.W, q.V[0], q.V[1], q.V[2])) + "\n")
	stats.WriteString(Row("kinetic", fmt.Sprintf("%.4f J", rb.KineticEnergy())) + "\n")
	stats.WriteString(Row("plane", m.plane.String()) + "\n")
	stats.WriteString(Row("speed", fmt.Sprintf("%dx", m.stepsPerTick)) + "\n")
	if m.err != nil {
		stats.WriteString("\n" + StatusFailed.Render(m.err.Error()) + "\n")
	}
	if len(m.energy) > 1 {
		stats.WriteString("\n" + PlotSeries(m.energy, "kinetic energy", 36, 6) + "\n")
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		Panel.Render(m.draw()),
		Panel.Render(stats.String()),
	)
	help := KeyHint.Render("space pause  r reset  p plane  +/- speed  q quit")
	return body + "\n" + help + "\n"
}
