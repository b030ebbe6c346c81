package metrics

import (
	"math"

	"github.com/san-kum/sixdof/internal/scenario"
)

// Stability is the fraction of samples that are finite and whose worst limit
// violation stays within threshold.
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

func (s *Stability) Observe(sample *scenario.Sample) {
	s.samples++
	if !sample.Valid() || sample.MaxError() > s.threshold {
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

// LimitViolation is the worst limit error seen in any sample.
type LimitViolation struct {
	name  string
	worst float64
}

func NewLimitViolation() *LimitViolation {
	return &LimitViolation{name: "limit_violation"}
}

func (l *LimitViolation) Name() string { return l.name }

func (l *LimitViolation) Observe(s *scenario.Sample) {
	l.worst = math.Max(l.worst, s.MaxError())
}

func (l *LimitViolation) Value() float64 { return l.worst }
func (l *LimitViolation) Reset()         { l.worst = 0 }
