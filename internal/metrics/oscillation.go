package metrics

import (
	"math"

	"github.com/san-kum/sixdof/internal/analysis"
	"github.com/san-kum/sixdof/internal/joint"
	"github.com/san-kum/sixdof/internal/scenario"
)

// Oscillation is the dominant frequency in Hz of one axis value, for samples
// taken at rate Hz.
type Oscillation struct {
	name   string
	axis   joint.Axis
	rate   float64
	values []float64
}

func NewOscillation(axis joint.Axis, rate float64) *Oscillation {
	return &Oscillation{name: "oscillation_hz", axis: axis, rate: rate}
}

func (o *Oscillation) Name() string { return o.name }

func (o *Oscillation) Observe(s *scenario.Sample) {
	o.values = append(o.values, s.Status[o.axis].Value)
}

func (o *Oscillation) Value() float64 {
	return analysis.DominantFrequency(o.values, o.rate)
}

func (o *Oscillation) Reset() { o.values = o.values[:0] }

// FinalError is the worst limit error of the last sample. A non-finite
// sample reports math.MaxFloat64.
type FinalError struct {
	name string
	last float64
}

func NewFinalError() *FinalError {
	return &FinalError{name: "final_error"}
}

func (f *FinalError) Name() string { return f.name }

func (f *FinalError) Observe(s *scenario.Sample) {
	f.last = s.MaxError()
	if !s.Valid() {
		f.last = math.MaxFloat64
	}
}

func (f *FinalError) Value() float64 { return f.last }
func (f *FinalError) Reset()         { f.last = 0 }
