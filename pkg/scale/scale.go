// Package scale maps time values onto pixel ranges.
//
// Two continuous scales are provided: [Linear] for plain numbers and [Time]
// for Unix millisecond timestamps with calendar-aware ticks. Both follow
// the conventions of the d3 scales the timeline layout was designed
// around: a domain is "niced" outwards to round tick boundaries, and a
// degenerate domain (lo == hi) projects every value onto the middle of the
// range.
package scale

import "math"

// Scale is a continuous mapping from a domain of values to a pixel range.
type Scale interface {
	Domain() (lo, hi float64)
	SetDomain(lo, hi float64)
	Range() (lo, hi float64)
	SetRange(lo, hi float64)

	// Nice extends the domain outwards to round tick boundaries.
	// Degenerate domains are left unchanged.
	Nice()

	// Project maps a domain value to the range.
	Project(v float64) float64

	// Ticks returns roughly count representative values inside the domain.
	Ticks(count int) []float64

	// TickFormat returns a formatter suitable for the values returned by
	// Ticks(count).
	TickFormat(count int) func(float64) string

	// Clone returns an independent copy.
	Clone() Scale
}

// Kind names a scale implementation in configuration files.
type Kind string

const (
	KindTime   Kind = "time"
	KindLinear Kind = "linear"
)

// New returns a fresh scale of the given kind with a unit domain and range.
// Unknown kinds yield nil.
func New(kind Kind) Scale {
	switch kind {
	case KindTime, "":
		return NewTime()
	case KindLinear:
		return NewLinear()
	default:
		return nil
	}
}

// continuous holds the domain/range state shared by both scales.
type continuous struct {
	d0, d1 float64
	r0, r1 float64
}

func (c *continuous) Domain() (lo, hi float64) { return c.d0, c.d1 }
func (c *continuous) SetDomain(lo, hi float64) { c.d0, c.d1 = lo, hi }
func (c *continuous) Range() (lo, hi float64)  { return c.r0, c.r1 }
func (c *continuous) SetRange(lo, hi float64)  { c.r0, c.r1 = lo, hi }

func (c *continuous) Project(v float64) float64 {
	span := c.d1 - c.d0
	if span == 0 || math.IsNaN(span) {
		return (c.r0 + c.r1) / 2
	}
	return c.r0 + (v-c.d0)/span*(c.r1-c.r0)
}

// ordered returns the domain with lo <= hi and whether it was reversed.
func (c *continuous) ordered() (lo, hi float64, reversed bool) {
	if c.d1 < c.d0 {
		return c.d1, c.d0, true
	}
	return c.d0, c.d1, false
}

func (c *continuous) setOrdered(lo, hi float64, reversed bool) {
	if reversed {
		lo, hi = hi, lo
	}
	c.d0, c.d1 = lo, hi
}
