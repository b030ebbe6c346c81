package export

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/san-kum/sixdof/internal/viz"
)

func TestCanvasToSVG(t *testing.T) {
	assert.Empty(t, CanvasToSVG(nil, 2, "#fff"))

	c := viz.NewCanvas(4, 2)
	c.Set(0, 0)
	c.Set(7, 7)
	svg := CanvasToSVG(c, 2, "#00ff00")

	assert.True(t, strings.HasPrefix(svg, "<?xml"))
	assert.Contains(t, svg, `width="16" height="16"`)
	assert.Contains(t, svg, `fill="#00ff00"`)
	assert.Equal(t, 2, strings.Count(svg, "<circle"))
	assert.Contains(t, svg, `<circle cx="1.0" cy="1.0" r="0.8"/>`)
	assert.Contains(t, svg, `<circle cx="15.0" cy="15.0" r="0.8"/>`)
}

func TestSeriesToSVG(t *testing.T) {
	assert.Empty(t, SeriesToSVG([]float64{1}, []float64{1}, 100, 50, "red"))

	xs := []float64{0, 1, 2, 3}
	ys := []float64{0, math.NaN(), 1, 0}
	svg := SeriesToSVG(xs, ys, 100, 50, "red")
	assert.Contains(t, svg, `stroke="red"`)
	assert.Equal(t, 2, strings.Count(svg, " L"))
	assert.True(t, strings.HasSuffix(svg, "</svg>"))
}
