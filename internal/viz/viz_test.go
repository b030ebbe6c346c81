package viz

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/sixdof/internal/config"
	"github.com/san-kum/sixdof/internal/joint"
	"github.com/san-kum/sixdof/internal/scenario"
)

func TestCanvas(t *testing.T) {
	c := NewCanvas(4, 2)
	if w, h := c.PixelSize(); w != 8 || h != 8 {
		t.Fatalf("pixel size: got %dx%d", w, h)
	}

	c.Set(3, 5)
	if !c.IsSet(3, 5) {
		t.Error("pixel should be set")
	}
	c.Set(-1, 0)
	c.Set(100, 100)

	lines := strings.Split(strings.TrimSuffix(c.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	for _, l := range lines {
		if n := len([]rune(l)); n != 4 {
			t.Errorf("expected 4 cells per line, got %d", n)
		}
	}

	c.Clear()
	if c.IsSet(3, 5) {
		t.Error("clear should reset pixels")
	}
}

func TestDrawLine(t *testing.T) {
	c := NewCanvas(8, 4)
	c.DrawLine(0, 0, 7, 7)
	for i := 0; i < 8; i++ {
		if !c.IsSet(i, i) {
			t.Errorf("diagonal pixel %d not set", i)
		}
	}
	c.Clear()
	c.DrawLine(5, 2, 0, 2)
	for x := 0; x <= 5; x++ {
		if !c.IsSet(x, 2) {
			t.Errorf("horizontal pixel %d not set", x)
		}
	}
}

func TestCameraProjectsOriginToCenter(t *testing.T) {
	cam := NewCamera()
	x, y, _, ok := cam.Project(mgl64.Vec3{}, 100, 60)
	if !ok || x != 50 || y != 30 {
		t.Errorf("origin projected to (%d, %d, %v)", x, y, ok)
	}

	cam.Distance = 1
	cam.RotX, cam.RotY = 0, 0
	if _, _, _, ok := cam.Project(mgl64.Vec3{0, 0, 5}, 100, 60); ok {
		t.Error("point behind the camera should not project")
	}
}

func buildJoint(t *testing.T, preset string) (*joint.Joint, *scenario.Runner) {
	t.Helper()
	j, a, b, err := config.GetPreset(preset).Build()
	if err != nil {
		t.Fatal(err)
	}
	cfg := scenario.DefaultConfig()
	cfg.Gravity = mgl64.Vec3{0, -9.81, 0}
	r, err := scenario.New(j, a, b, cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	return j, r
}

func TestJointWireframe(t *testing.T) {
	j, _ := buildJoint(t, "hinge")
	w := JointWireframe(j.CalculateTransforms(), mgl64.Vec3{0.5, 0.5, 0.5})
	if len(w.Edges) != 2*12+2*3+3 {
		t.Errorf("expected 33 edges, got %d", len(w.Edges))
	}

	c := NewCanvas(40, 15)
	Render(c, w, NewCamera())
	if strings.Trim(c.String(), "⠀\n") == "" {
		t.Error("render produced a blank canvas")
	}
}

func TestLimitGauge(t *testing.T) {
	if got := lipgloss.Width(LimitGauge(0, -1, 1, 11)); got != 13 {
		t.Errorf("gauge width: got %d", got)
	}
	if got := LimitGauge(0, 1, -1, 5); !strings.Contains(got, "·····") {
		t.Errorf("free gauge: got %q", got)
	}
	low := LimitGauge(-5, -1, 1, 5)
	if !strings.HasPrefix(low, "[") || strings.Index(low, "●") != 1 {
		t.Errorf("out of range value should pin left: %q", low)
	}
}

func TestSparklineChart(t *testing.T) {
	if got := SparklineChart(nil, 5); got != "─────" {
		t.Errorf("empty sparkline: got %q", got)
	}
	values := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	if got := lipgloss.Width(SparklineChart(values, 4)); got != 4 {
		t.Errorf("sparkline width: got %d", got)
	}
}

func TestTables(t *testing.T) {
	j, _ := buildJoint(t, "slider")
	a := j.Allocate()
	rows := make([]joint.Row, a.Rows)
	if err := j.Fill(a, rows, 0, joint.DefaultSolverParams()); err != nil {
		t.Fatal(err)
	}

	axes := AxisTable(j, a, ThemeOcean)
	for _, ax := range joint.Axes() {
		if !strings.Contains(axes, ax.String()) {
			t.Errorf("axis table missing %s", ax)
		}
	}
	if !strings.Contains(axes, "state") {
		t.Error("axis table missing header")
	}

	rt := RowTable(rows, a.Order)
	if !strings.Contains(rt, "bias") || !strings.Contains(rt, "angular-z") {
		t.Errorf("row table incomplete:\n%s", rt)
	}

	mt := MetricsTable([]string{"row_load"}, map[string]float64{"row_load": 5})
	if !strings.Contains(mt, "row_load") || !strings.Contains(mt, "5") {
		t.Errorf("metrics table: %s", mt)
	}
}

func TestPlot(t *testing.T) {
	if Plot(nil, "x", 10, 3) != "" {
		t.Error("empty plot should be empty")
	}
	if got := Plot([]float64{1, 2, 3}, "energy", 20, 3); !strings.Contains(got, "energy") {
		t.Errorf("plot missing caption:\n%s", got)
	}
	if got := PlotMany([][]float64{{1, 2}, nil, {2, 1}}, "both", 20, 3); !strings.Contains(got, "both") {
		t.Errorf("plot many missing caption:\n%s", got)
	}
	if PlotMany([][]float64{nil}, "none", 20, 3) != "" {
		t.Error("plot of empty series should be empty")
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("ocean").Name != "ocean" {
		t.Error("expected ocean theme")
	}
	if GetTheme("missing").Name != ThemeCyberpunk.Name {
		t.Error("unknown theme should fall back")
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("theme names mismatch")
	}
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestWatchModel(t *testing.T) {
	_, r := buildJoint(t, "ball")
	_, b := r.Bodies()
	start := b.CenterOfMassTransform()

	var m tea.Model = NewWatchModel("ball", r)
	if m.Init() == nil {
		t.Fatal("init should schedule a tick")
	}

	m, cmd := m.Update(TickMsg{})
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
	m, _ = m.Update(TickMsg{})
	if got := m.(WatchModel).Steps(); got != 2 {
		t.Fatalf("expected 2 steps, got %d", got)
	}

	m, _ = m.Update(key(" "))
	m, _ = m.Update(TickMsg{})
	if got := m.(WatchModel).Steps(); got != 2 {
		t.Errorf("paused model advanced to %d", got)
	}
	m, _ = m.Update(key("n"))
	if got := m.(WatchModel).Steps(); got != 3 {
		t.Errorf("single step: got %d", got)
	}

	view := m.View()
	if !strings.Contains(view, "BALL") || !strings.Contains(view, "PAUSED") {
		t.Errorf("unexpected view:\n%s", view)
	}

	m, _ = m.Update(key("r"))
	if got := m.(WatchModel).Steps(); got != 0 {
		t.Errorf("reset should clear steps, got %d", got)
	}
	if !b.CenterOfMassTransform().ApproxEqual(start, 1e-12) {
		t.Error("reset should restore the bodies")
	}

	_, cmd = m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected quit message")
	}
}
