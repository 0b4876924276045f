package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/san-kum/gravlace/internal/driver"
	"github.com/san-kum/gravlace/internal/gravity"
)

const (
	canvasCols     = 60
	canvasRows     = 22
	trailCapacity  = 240
	energyCapacity = 300
	frameInterval  = time.Second / 30
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Inspector steps a driver in real time and shows every body's simulation
// and render coordinates next to a projected view of the system.
type Inspector struct {
	d      *driver.Driver
	hostDt float64
	title  string

	canvas *Canvas
	camera *Camera
	trails [][]mgl32.Vec3

	e0     float64
	drift  []float64
	err    error
	theme  int
	cursor int

	running  bool
	showHelp bool
}

func NewInspector(d *driver.Driver, hostDt float64, title string) Inspector {
	m := Inspector{
		d:       d,
		hostDt:  hostDt,
		title:   title,
		canvas:  NewCanvas(canvasCols, canvasRows),
		camera:  NewCamera(),
		trails:  make([][]mgl32.Vec3, len(d.Entities())),
		drift:   make([]float64, 0, energyCapacity),
		running: true,
	}
	m.e0 = m.energy()
	m.fit()
	return m
}

func (m Inspector) Init() tea.Cmd { return tick() }

func (m Inspector) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "n":
			if !m.running {
				m.step()
			}
		case "tab":
			if n := len(m.d.Entities()); n > 0 {
				m.cursor = (m.cursor + 1) % n
			}
		case "x":
			m.destroySelected()
		case "f":
			m.fit()
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		case "left", "h":
			m.camera.Rotate(-0.1, 0)
		case "right", "l":
			m.camera.Rotate(0.1, 0)
		case "up", "k":
			m.camera.Rotate(0, 0.1)
		case "down", "j":
			m.camera.Rotate(0, -0.1)
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Inspector) step() {
	if m.err != nil {
		return
	}
	if err := m.d.Step(m.hostDt); err != nil {
		m.err = err
		m.running = false
		return
	}

	for i, e := range m.d.Entities() {
		if i >= len(m.trails) {
			m.trails = append(m.trails, nil)
		}
		m.trails[i] = append(m.trails[i], e.Render)
		if len(m.trails[i]) > trailCapacity {
			m.trails[i] = m.trails[i][1:]
		}
	}

	if m.e0 != 0 {
		m.drift = append(m.drift, (m.energy()-m.e0)/math.Abs(m.e0))
		if len(m.drift) > energyCapacity {
			m.drift = m.drift[1:]
		}
	}
}

// destroySelected removes the selected body. Energy drift restarts from the
// reduced system.
func (m *Inspector) destroySelected() {
	entities := m.d.Entities()
	if len(entities) <= 1 || m.cursor >= len(entities) {
		return
	}
	if err := m.d.Destroy(entities[m.cursor].Name); err != nil {
		m.err = err
		return
	}
	if m.cursor < len(m.trails) {
		m.trails = append(m.trails[:m.cursor], m.trails[m.cursor+1:]...)
	}
	if m.cursor >= len(entities)-1 {
		m.cursor = 0
	}
	m.e0 = m.energy()
	m.drift = m.drift[:0]
}

func (m *Inspector) energy() float64 {
	return gravity.TotalEnergy(m.d.Frame().Gravity(), m.d.Simulation().Params().G)
}

func (m *Inspector) fit() {
	entities := m.d.Entities()
	points := make([]mgl32.Vec3, len(entities))
	for i, e := range entities {
		points[i] = e.Render
	}
	w, h := m.canvas.Size()
	m.camera.Fit(points, w, h)
}

func (m Inspector) draw() {
	m.canvas.Clear()
	w, h := m.canvas.Size()
	for _, trail := range m.trails {
		for _, p := range trail {
			if x, y, ok := m.camera.Project(p, w, h); ok {
				m.canvas.Set(x, y)
			}
		}
	}
	for i, e := range m.d.Entities() {
		radius := 1
		if i == m.cursor {
			radius = 2
		}
		x, y, _ := m.camera.Project(e.Render, w, h)
		m.canvas.Disc(x, y, radius)
	}
}

func (m Inspector) View() string {
	m.draw()
	theme := Themes[m.theme]
	view := canvasStyle.Foreground(theme.Canvas).Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.title)) + "\n")
	switch {
	case m.err != nil:
		s.WriteString(errorStyle.Render("HALTED: "+m.err.Error()) + "\n\n")
	case m.running:
		s.WriteString(runningStyle.Render("RUNNING") + "\n\n")
	default:
		s.WriteString(pausedStyle.Render("PAUSED") + "\n\n")
	}

	s.WriteString(labelStyle.Render("tick") + valueStyle.Render(fmt.Sprintf("%d", m.d.Tick())) + "\n")
	unit := m.d.Simulation().Params().DistanceUnit()
	simTime := fmt.Sprintf("%.3f", m.d.Time())
	if unit != "" {
		simTime = formatDuration(m.d.Time())
	}
	s.WriteString(labelStyle.Render("sim time") + valueStyle.Render(simTime) + "\n")
	s.WriteString(labelStyle.Render("bodies") + valueStyle.Render(fmt.Sprintf("%d", m.d.Simulation().Len())) + "\n")
	if n := len(m.drift); n > 0 {
		s.WriteString(labelStyle.Render("dE/E0") + valueStyle.Render(fmt.Sprintf("%+.3e", m.drift[n-1])) + "\n")
	}
	s.WriteString("\n")

	frame := m.d.Frame()
	for i, e := range m.d.Entities() {
		b := frame.Bodies[i]
		name := fmt.Sprintf("  %-10s", e.Name)
		if i == m.cursor {
			name = selectedStyle.Render(fmt.Sprintf("▸ %-10s", e.Name))
		}
		s.WriteString(name + "\n")
		pos := fmt.Sprintf("    sim    (%.4e, %.4e, %.4e)", b.Position.X, b.Position.Y, b.Position.Z)
		if unit != "" {
			pos += " " + unit
		}
		s.WriteString(subtleStyle.Render(pos) + "\n")
		s.WriteString(subtleStyle.Render(fmt.Sprintf("    render (%.3f, %.3f, %.3f)", e.Render.X(), e.Render.Y(), e.Render.Z())) + "\n")
	}

	if len(m.drift) > 1 {
		chart := Plot([]Series{{Name: "energy drift", Values: m.drift}}, 36, 5, "relative energy drift", theme)
		s.WriteString("\n" + chart + "\n")
	}

	s.WriteString("\n" + keyHints("space", "pause", "n", "step", "tab", "select", "q", "quit") + "\n")
	s.WriteString(keyHints("←→↑↓", "rotate", "+/-", "zoom", "f", "fit", "x", "remove", "?", "help"))

	main := lipgloss.JoinHorizontal(lipgloss.Top, view, panelStyle.Render(s.String()))
	if m.showHelp {
		return helpText + "\n" + main
	}
	return main
}

const helpText = `
  space   pause or resume
  n       single step while paused
  tab     select next body
  x       remove the selected body
  arrows  rotate the view (h/j/k/l also work)
  + -     zoom
  f       fit every body in view
  t       cycle theme
  q       quit
`

// formatDuration renders simulated SI seconds in the largest sensible unit.
func formatDuration(seconds float64) string {
	const (
		day  = 86400.0
		year = 365.25 * day
	)
	switch abs := math.Abs(seconds); {
	case abs >= year:
		return fmt.Sprintf("%.3f yr", seconds/year)
	case abs >= day:
		return fmt.Sprintf("%.3f d", seconds/day)
	default:
		return fmt.Sprintf("%.3f s", seconds)
	}
}
