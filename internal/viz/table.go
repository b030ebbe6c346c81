package viz

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/sixdof/internal/joint"
)

var (
	headerCell = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ffff")).Padding(0, 1)
	cell       = lipgloss.NewStyle().Padding(0, 1)
)

func num(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}

func vec(v mgl64.Vec3) string {
	return fmt.Sprintf("%6.3f %6.3f %6.3f", v[0], v[1], v[2])
}

// AxisTable lists the value, limits and state of every axis of an
// allocation, with the row each active axis was given.
func AxisTable(j *joint.Joint, a *joint.Allocation, theme Theme) string {
	rowOf := make(map[joint.Axis]int, len(a.Order))
	for i, ax := range a.Order {
		rowOf[ax] = i
	}

	rows := make([][]string, 0, joint.NumAxes)
	for _, ax := range joint.Axes() {
		m := j.Motor(ax)
		st := a.Status[ax]
		lo, hi := num(m.LowLimit), num(m.HighLimit)
		if m.IsFree() {
			lo, hi = "-", "-"
		}
		row := "-"
		if i, ok := rowOf[ax]; ok {
			row = strconv.Itoa(i)
		}
		motor := "off"
		if m.EnableMotor {
			motor = num(m.TargetVelocity)
		}
		rows = append(rows, []string{ax.String(), num(st.Value), lo, hi, st.State.String(), num(st.Error), motor, row})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Muted)).
		Headers("axis", "value", "low", "high", "state", "error", "motor", "row").
		Rows(rows...).
		StyleFunc(func(r, c int) lipgloss.Style {
			if r == table.HeaderRow {
				return headerCell
			}
			if c == 4 {
				return theme.State(a.Status[r].State).Padding(0, 1)
			}
			return cell
		}).
		String()
}

// RowTable lists filled rows. axes names the axis of each row.
func RowTable(rows []joint.Row, axes []joint.Axis) string {
	data := make([][]string, len(rows))
	for i, r := range rows {
		name := "?"
		if i < len(axes) {
			name = axes[i].String()
		}
		data[i] = []string{
			strconv.Itoa(i), name,
			vec(r.J1Linear), vec(r.J1Angular), vec(r.J2Linear), vec(r.J2Angular),
			num(r.Lower), num(r.Upper), num(r.Bias), num(r.CFM),
		}
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "axis", "J1 linear", "J1 angular", "J2 linear", "J2 angular", "lower", "upper", "bias", "cfm").
		Rows(data...).
		StyleFunc(func(r, c int) lipgloss.Style {
			if r == table.HeaderRow {
				return headerCell
			}
			return cell
		}).
		String()
}

// MetricsTable renders run metrics sorted by name.
func MetricsTable(names []string, values map[string]float64) string {
	rows := make([][]string, 0, len(names))
	for _, n := range names {
		rows = append(rows, []string{n, num(values[n])})
	}
	return table.New().
		Border(lipgloss.HiddenBorder()).
		Rows(rows...).
		StyleFunc(func(r, c int) lipgloss.Style {
			if c == 0 {
				return MetricLabel
			}
			return MetricValue
		}).
		String()
}
