package scale

import (
	"math"
	"strconv"
)

// Linear is a linear scale over plain numbers.
type Linear struct {
	continuous
}

// NewLinear returns a linear scale with domain and range [0, 1].
func NewLinear() *Linear {
	return &Linear{continuous{d1: 1, r1: 1}}
}

// Nice rounds the domain outwards to multiples of the tick step for ten
// ticks, iterating until the step settles.
func (s *Linear) Nice() {
	lo, hi, rev := s.ordered()
	if lo == hi || math.IsNaN(lo) || math.IsNaN(hi) {
		return
	}
	var prev float64
	for range 10 {
		step := tickIncrement(lo, hi, 10)
		if step == prev {
			break
		}
		switch {
		case step > 0:
			lo = math.Floor(lo/step) * step
			hi = math.Ceil(hi/step) * step
		case step < 0:
			lo = math.Ceil(lo*step) / step
			hi = math.Floor(hi*step) / step
		default:
			return
		}
		prev = step
	}
	s.setOrdered(lo, hi, rev)
}

func (s *Linear) Ticks(count int) []float64 {
	return linearTicks(s.d0, s.d1, count)
}

func (s *Linear) TickFormat(count int) func(float64) string {
	lo, hi, _ := s.ordered()
	prec := 0
	if lo != hi {
		prec = precision(tickStep(lo, hi, count))
	}
	return func(v float64) string {
		return strconv.FormatFloat(v, 'f', prec, 64)
	}
}

func (s *Linear) Clone() Scale {
	c := *s
	return &c
}

var _ Scale = (*Linear)(nil)
