package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/sixdof/internal/joint"
	"github.com/san-kum/sixdof/internal/scenario"
)

const (
	canvasWidth     = 48
	canvasHeight    = 18
	historyCapacity = 240
)

type TickMsg time.Time

// WatchModel steps a scenario runner on every tick and shows the joint frames,
// the axis table and the recent limit error and energy.
type WatchModel struct {
	name    string
	runner  *scenario.Runner
	restore func()
	canvas  *Canvas
	camera  *Camera
	theme   int

	running bool
	step    int
	t       float64
	last    scenario.Sample
	alloc   *joint.Allocation
	err     error

	errHistory    []float64
	energyHistory []float64
}

func NewWatchModel(name string, r *scenario.Runner) WatchModel {
	return WatchModel{
		name:          name,
		runner:        r,
		restore:       r.Checkpoint(),
		canvas:        NewCanvas(canvasWidth, canvasHeight),
		camera:        NewCamera(),
		running:       true,
		alloc:         r.Joint().Allocate(),
		errHistory:    make([]float64, 0, historyCapacity),
		energyHistory: make([]float64, 0, historyCapacity),
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m WatchModel) Init() tea.Cmd {
	return tick()
}

func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "n":
			if !m.running {
				m.advance()
			}
		case "r":
			m.reset()
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
		case "x":
			m.camera.RotateX(0.1)
		case "X":
			m.camera.RotateX(-0.1)
		case "y":
			m.camera.RotateY(0.1)
		case "Y":
			m.camera.RotateY(-0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		}
	case TickMsg:
		if m.running && m.err == nil {
			m.advance()
		}
		return m, tick()
	}
	return m, nil
}

func (m *WatchModel) advance() {
	s, err := m.runner.Advance(m.step, m.t)
	if err != nil {
		m.err = err
		m.running = false
		return
	}
	m.last = s
	m.step++
	m.t = s.Coordinate
	m.alloc = m.runner.Joint().Allocate()
	m.errHistory = pushHistory(m.errHistory, s.MaxError())
	m.energyHistory = pushHistory(m.energyHistory, s.KineticEnergy)
}

func pushHistory(h []float64, v float64) []float64 {
	if len(h) == historyCapacity {
		copy(h, h[1:])
		h = h[:len(h)-1]
	}
	return append(h, v)
}

func (m *WatchModel) reset() {
	m.restore()
	m.step, m.t, m.err = 0, 0, nil
	m.last = scenario.Sample{}
	m.alloc = m.runner.Joint().Allocate()
	m.errHistory = m.errHistory[:0]
	m.energyHistory = m.energyHistory[:0]
}

// Steps returns how many settle steps have run since the last reset.
func (m WatchModel) Steps() int { return m.step }

func (m WatchModel) View() string {
	theme := Themes[m.theme]

	m.canvas.Clear()
	Render(m.canvas, JointWireframe(m.alloc.Geometry, mgl64.Vec3{0.5, 0.5, 0.5}), m.camera)
	canvasView := Panel.BorderForeground(theme.Muted).Render(
		lipgloss.NewStyle().Foreground(theme.Accent).Render(m.canvas.String()))

	var s strings.Builder
	s.WriteString(Title.Foreground(theme.Primary).Render(strings.ToUpper(m.name)) + "\n")
	switch {
	case m.err != nil:
		s.WriteString(StatusError.Render("ERROR: "+m.err.Error()) + "\n")
	case m.running:
		s.WriteString(StatusRunning.Render("RUNNING") + "\n")
	default:
		s.WriteString(StatusPaused.Render("PAUSED") + "\n")
	}
	s.WriteString(MetricLabel.Render("time") + MetricValue.Render(fmt.Sprintf("%.3fs", m.t)) + "\n")
	s.WriteString(MetricLabel.Render("rows") + MetricValue.Render(fmt.Sprintf("%d", m.alloc.Rows)) + "\n")
	s.WriteString(MetricLabel.Render("energy") + MetricValue.Render(num(m.last.KineticEnergy)) + "\n")
	s.WriteString(MetricLabel.Render("limit error") + SparklineChart(m.errHistory, 30) + "\n")
	if len(m.energyHistory) > 1 {
		s.WriteString(Plot(m.energyHistory, "kinetic energy", 30, 4) + "\n")
	}

	j := m.runner.Joint()
	s.WriteString("\n")
	for _, ax := range joint.Axes() {
		mt := j.Motor(ax)
		st := m.alloc.Status[ax]
		s.WriteString(fmt.Sprintf("%-10s ", ax) + LimitGauge(st.Value, mt.LowLimit, mt.HighLimit, 16) + " " + theme.State(st.State).Render(st.State.String()) + "\n")
	}

	top := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, Panel.BorderForeground(theme.Muted).Render(s.String()))
	help := KeyHint.Render("space pause · n step · r reset · t theme · x/y rotate · +/- zoom · q quit")
	return lipgloss.JoinVertical(lipgloss.Left, top, AxisTable(j, m.alloc, theme), help)
}
