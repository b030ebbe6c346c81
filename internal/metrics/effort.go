package metrics

import (
	"math"

	"github.com/san-kum/sixdof/internal/scenario"
)

// ImpulseEffort is the mean summed impulse magnitude per sample.
type ImpulseEffort struct {
	name    string
	sum     float64
	samples int
}

func NewImpulseEffort() *ImpulseEffort {
	return &ImpulseEffort{name: "impulse_effort"}
}

func (c *ImpulseEffort) Name() string {
	return c.name
}

func (c *ImpulseEffort) Observe(s *scenario.Sample) {
	for _, v := range s.Impulses {
		c.sum += math.Abs(v)
	}
	c.samples++
}

func (c *ImpulseEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ImpulseEffort) Reset() {
	c.sum = 0
	c.samples = 0
}

// ImpulsePeak is the largest single impulse magnitude.
type ImpulsePeak struct {
	name string
	peak float64
}

func NewImpulsePeak() *ImpulsePeak {
	return &ImpulsePeak{name: "impulse_peak"}
}

func (p *ImpulsePeak) Name() string { return p.name }

func (p *ImpulsePeak) Observe(s *scenario.Sample) {
	for _, v := range s.Impulses {
		p.peak = math.Max(p.peak, math.Abs(v))
	}
}

func (p *ImpulsePeak) Value() float64 { return p.peak }
func (p *ImpulsePeak) Reset()         { p.peak = 0 }

// RowLoad is the mean number of rows a joint contributed per sample.
type RowLoad struct {
	name    string
	rows    int
	samples int
}

func NewRowLoad() *RowLoad {
	return &RowLoad{name: "row_load"}
}

func (r *RowLoad) Name() string { return r.name }

func (r *RowLoad) Observe(s *scenario.Sample) {
	r.rows += len(s.Axes)
	r.samples++
}

func (r *RowLoad) Value() float64 {
	if r.samples == 0 {
		return 0
	}
	return float64(r.rows) / float64(r.samples)
}

func (r *RowLoad) Reset() {
	r.rows = 0
	r.samples = 0
}

// Standard returns the metrics every run records.
func Standard(threshold float64) []scenario.Metric {
	return []scenario.Metric{
		NewEnergy(),
		NewEnergyDrift(),
		NewStability(threshold),
		NewLimitViolation(),
		NewImpulseEffort(),
		NewImpulsePeak(),
		NewRowLoad(),
		NewFinalError(),
	}
}
