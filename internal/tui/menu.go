package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/physcore/internal/config"
	"github.com/san-kum/physcore/internal/viz"
	"go.uber.org/zap"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

var presetInfo = map[string]string{
	"cruise":     "constant thrust along x",
	"freefall":   "drop under gravity",
	"hover":      "PID holding 10 m altitude",
	"projectile": "ballistic arc",
	"spin":       "torque about z",
	"thruster":   "heavy body, thrust and pitch torque",
}

// field is one editable scenario parameter.
type field struct {
	name string
	ref  func(c *config.Config) *float64
}

var fields = []field{
	{"dt", func(c *config.Config) *float64 { return &c.Dt }},
	{"duration", func(c *config.Config) *float64 { return &c.Duration }},
	{"mass", func(c *config.Config) *float64 { return &c.Body.Mass }},
	{"vx", func(c *config.Config) *float64 { return &c.Body.Velocity[0] }},
	{"vy", func(c *config.Config) *float64 { return &c.Body.Velocity[1] }},
	{"vz", func(c *config.Config) *float64 { return &c.Body.Velocity[2] }},
	{"force x", func(c *config.Config) *float64 { return &c.Force[0] }},
	{"force y", func(c *config.Config) *float64 { return &c.Force[1] }},
	{"force z", func(c *config.Config) *float64 { return &c.Force[2] }},
	{"torque x", func(c *config.Config) *float64 { return &c.Torque[0] }},
	{"torque y", func(c *config.Config) *float64 { return &c.Torque[1] }},
	{"torque z", func(c *config.Config) *float64 { return &c.Torque[2] }},
	{"gravity z", func(c *config.Config) *float64 { return &c.Gravity[2] }},
}

type state int

const (
	stateMenu state = iota
	stateConfig
	stateSim
)

type model struct {
	state   state
	cursor  int
	presets []string

	scenario *config.Config
	field    int
	editing  bool
	editBuf  string
	err      error

	live   viz.Model
	logger *zap.Logger
}

// NewApp returns the preset browser. Selecting a preset opens its
// parameters for editing; starting hands over to the live view.
func NewApp(logger *zap.Logger) tea.Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	return model{presets: config.ListPresets(), logger: logger}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == stateSim {
		if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
			m.state = stateConfig
			return m, tea.ClearScreen
		}
		next, cmd := m.live.Update(msg)
		m.live = next.(viz.Model)
		return m, cmd
	}

	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.state == stateConfig {
		return m.configKey(k)
	}
	return m.menuKey(k)
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.scenario = config.GetPreset(m.presets[m.cursor])
		m.field = 0
		m.err = nil
		m.state = stateConfig
	}
	return m, nil
}

func (m model) configKey(msg tea.KeyMsg) (model, tea.Cmd) {
	if m.editing {
		switch msg.String() {
		case "enter":
			if v, err := strconv.ParseFloat(m.editBuf, 64); err == nil {
				*fields[m.field].ref(m.scenario) = v
			}
			m.editing = false
			m.editBuf = ""
		case "esc":
			m.editing = false
			m.editBuf = ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if s := msg.String(); len(s) == 1 && strings.ContainsAny(s, "0123456789.-e") {
				m.editBuf += s
			}
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.field > 0 {
			m.field--
		}
	case "down", "j":
		if m.field < len(fields)-1 {
			m.field++
		}
	case "left", "h":
		*fields[m.field].ref(m.scenario) = nudge(*fields[m.field].ref(m.scenario), -1)
	case "right", "l":
		*fields[m.field].ref(m.scenario) = nudge(*fields[m.field].ref(m.scenario), 1)
	case "enter", " ":
		m.editing = true
		m.editBuf = strconv.FormatFloat(*fields[m.field].ref(m.scenario), 'g', -1, 64)
	case "s":
		if err := m.scenario.Validate(); err != nil {
			m.err = err
			return m, nil
		}
		sc := *m.scenario
		live, err := viz.NewModel(&sc, m.logger)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.live = live
		m.state = stateSim
		return m, tea.Batch(tea.ClearScreen, m.live.Init())
	}
	return m, nil
}

// nudge moves v by 10% of its magnitude, or by 0.1 near zero.
func nudge(v, dir float64) float64 {
	step := 0.1
	if math.Abs(v) > 1 {
		step = math.Abs(v) * 0.1
	}
	return v + dir*step
}

func (m model) View() string {
	switch m.state {
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.live.View() + dim.Render("esc back to parameters") + "\n"
	}
	return m.viewMenu()
}

func (m model) viewMenu() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("           " + cyan.Render("p h y s c o r e") + "\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("\n")

	for i, name := range m.presets {
		desc := presetInfo[name]
		if i == m.cursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-12s", name)) + dim.Render(desc) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-12s", name)) + dimmer.Render(desc) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select   enter configure   q quit") + "\n")
	return b.String()
}

func (m model) viewConfig() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("      " + cyan.Render(m.scenario.Name) + "  " + dim.Render(presetInfo[m.scenario.Name]) + "\n")
	b.WriteString(dimmer.Render("      "+strings.Repeat("─", 30)) + "\n\n")

	for i, f := range fields {
		val := fmt.Sprintf("%10.4g", *f.ref(m.scenario))
		if m.editing && i == m.field {
			val = fmt.Sprintf("%10s", m.editBuf+"▋")
		}
		if i == m.field {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-10s", f.name)) + magenta.Render(val) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-10s", f.name)) + dim.Render(val) + "\n")
		}
	}

	if m.err != nil {
		b.WriteString("\n      " + red.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select  ←→ adjust  enter edit  s start  esc back") + "\n")
	return b.String()
}

// Run starts the browser on the alternate screen.
func Run(logger *zap.Logger) error {
	p := tea.NewProgram(NewApp(logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
