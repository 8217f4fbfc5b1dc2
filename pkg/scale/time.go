package scale

import (
	"math"
	"sort"
	"time"
)

// Time is a linear scale over Unix millisecond timestamps. Nice and Ticks
// snap to calendar boundaries in UTC.
type Time struct {
	continuous
}

// NewTime returns a time scale over the year 2000 with range [0, 1].
func NewTime() *Time {
	lo := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	hi := time.Date(2000, 1, 2, 0, 0, 0, 0, time.UTC)
	return &Time{continuous{d0: ms(lo), d1: ms(hi), r1: 1}}
}

// Millis converts t to the scale's domain unit.
func Millis(t time.Time) float64 { return ms(t) }

// FromMillis converts a domain value back to a UTC time.
func FromMillis(v float64) time.Time {
	return time.UnixMilli(int64(math.Round(v))).UTC()
}

func ms(t time.Time) float64 { return float64(t.UnixMilli()) }

type unit int

const (
	unitMilli unit = iota
	unitSecond
	unitMinute
	unitHour
	unitDay
	unitWeek
	unitMonth
	unitYear
)

const (
	durSecond = 1000.0
	durMinute = durSecond * 60
	durHour   = durMinute * 60
	durDay    = durHour * 24
	durWeek   = durDay * 7
	durMonth  = durDay * 30
	durYear   = durDay * 365
)

// interval is a calendar step: every step units.
type interval struct {
	unit unit
	step int
	dur  float64 // approximate length, for choosing an interval
}

var tickIntervals = []interval{
	{unitSecond, 1, durSecond},
	{unitSecond, 5, 5 * durSecond},
	{unitSecond, 15, 15 * durSecond},
	{unitSecond, 30, 30 * durSecond},
	{unitMinute, 1, durMinute},
	{unitMinute, 5, 5 * durMinute},
	{unitMinute, 15, 15 * durMinute},
	{unitMinute, 30, 30 * durMinute},
	{unitHour, 1, durHour},
	{unitHour, 3, 3 * durHour},
	{unitHour, 6, 6 * durHour},
	{unitHour, 12, 12 * durHour},
	{unitDay, 1, durDay},
	{unitDay, 2, 2 * durDay},
	{unitWeek, 1, durWeek},
	{unitMonth, 1, durMonth},
	{unitMonth, 3, 3 * durMonth},
	{unitYear, 1, durYear},
}

// chooseInterval picks the calendar interval whose length is closest to
// (stop-start)/count.
func chooseInterval(start, stop float64, count int) interval {
	target := math.Abs(stop-start) / float64(max(count, 1))
	i := sort.Search(len(tickIntervals), func(i int) bool { return tickIntervals[i].dur >= target })
	switch {
	case i == len(tickIntervals):
		step := tickStep(start/durYear, stop/durYear, count)
		return interval{unitYear, max(1, int(step)), durYear}
	case i == 0:
		step := tickStep(start, stop, count)
		return interval{unitMilli, max(1, int(step)), 1}
	}
	if target/tickIntervals[i-1].dur < tickIntervals[i].dur/target {
		return tickIntervals[i-1]
	}
	return tickIntervals[i]
}

func (iv interval) fixed() float64 {
	switch iv.unit {
	case unitMilli:
		return float64(iv.step)
	case unitSecond:
		return float64(iv.step) * durSecond
	case unitMinute:
		return float64(iv.step) * durMinute
	case unitHour:
		return float64(iv.step) * durHour
	}
	return 0
}

// floor rounds v down to the interval boundary.
func (iv interval) floor(v float64) float64 {
	if d := iv.fixed(); d > 0 {
		return math.Floor(v/d) * d
	}
	t := FromMillis(math.Floor(v))
	y, m, day := t.Date()
	switch iv.unit {
	case unitDay:
		day -= (day - 1) % iv.step
		t = time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	case unitWeek:
		t = time.Date(y, m, day-int(t.Weekday()), 0, 0, 0, 0, time.UTC)
	case unitMonth:
		t = time.Date(y, m-time.Month((int(m)-1)%iv.step), 1, 0, 0, 0, 0, time.UTC)
	case unitYear:
		y -= mod(y, iv.step)
		t = time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return ms(t)
}

// next returns the first boundary strictly after the boundary v.
func (iv interval) next(v float64) float64 {
	if d := iv.fixed(); d > 0 {
		return v + d
	}
	t := FromMillis(v)
	switch iv.unit {
	case unitDay:
		t = t.AddDate(0, 0, iv.step)
	case unitWeek:
		t = t.AddDate(0, 0, 7*iv.step)
	case unitMonth:
		t = t.AddDate(0, iv.step, 0)
	case unitYear:
		t = t.AddDate(iv.step, 0, 0)
	}
	n := iv.floor(ms(t))
	if n <= v {
		return ms(t)
	}
	return n
}

func (iv interval) ceil(v float64) float64 {
	f := iv.floor(v)
	if f == v {
		return v
	}
	return iv.next(f)
}

func mod(a, b int) int {
	r := a % b
	if r < 0 {
		r += b
	}
	return r
}

// Nice extends the domain to the boundaries of the interval that would be
// used for ten ticks.
func (s *Time) Nice() {
	lo, hi, rev := s.ordered()
	if lo == hi || math.IsNaN(lo) || math.IsNaN(hi) {
		return
	}
	iv := chooseInterval(lo, hi, 10)
	s.setOrdered(iv.floor(lo), iv.ceil(hi), rev)
}

func (s *Time) Ticks(count int) []float64 {
	lo, hi, rev := s.ordered()
	if count <= 0 || math.IsNaN(lo) || math.IsNaN(hi) {
		return nil
	}
	if lo == hi {
		return []float64{lo}
	}
	iv := chooseInterval(lo, hi, count)
	var ticks []float64
	for v := iv.ceil(lo); v <= hi; v = iv.next(v) {
		ticks = append(ticks, v)
	}
	if rev {
		for i, j := 0, len(ticks)-1; i < j; i, j = i+1, j-1 {
			ticks[i], ticks[j] = ticks[j], ticks[i]
		}
	}
	return ticks
}

// TickFormat formats each tick at the coarsest calendar unit that still
// distinguishes it: milliseconds, seconds, minutes, hours, days, months,
// then years.
func (s *Time) TickFormat(int) func(float64) string {
	return formatTime
}

func formatTime(v float64) string {
	t := FromMillis(v)
	switch {
	case t.Nanosecond() != 0:
		return t.Format(".000")
	case t.Second() != 0:
		return t.Format(":05")
	case t.Minute() != 0:
		return t.Format("03:04")
	case t.Hour() != 0:
		return t.Format("03 PM")
	case t.Day() != 1:
		if t.Weekday() != time.Sunday {
			return t.Format("Mon 02")
		}
		return t.Format("Jan 02")
	case t.Month() != time.January:
		return t.Format("January")
	default:
		return t.Format("2006")
	}
}

func (s *Time) Clone() Scale {
	c := *s
	return &c
}

var _ Scale = (*Time)(nil)
