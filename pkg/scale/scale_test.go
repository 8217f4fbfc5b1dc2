package scale

import (
	"slices"
	"testing"
	"time"
)

func TestLinearNice(t *testing.T) {
	tests := []struct {
		name           string
		lo, hi         float64
		wantLo, wantHi float64
	}{
		{"fractional", 0.13, 9.7, 0, 10},
		{"integers", 3, 97, 0, 100},
		{"reversed", 9.7, 0.13, 10, 0},
		{"degenerate", 10, 10, 10, 10},
		{"already nice", 0, 10, 0, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewLinear()
			s.SetDomain(tt.lo, tt.hi)
			s.Nice()
			lo, hi := s.Domain()
			if lo != tt.wantLo || hi != tt.wantHi {
				t.Errorf("Nice() domain = [%v, %v], want [%v, %v]", lo, hi, tt.wantLo, tt.wantHi)
			}
		})
	}
}

func TestLinearNiceIdempotent(t *testing.T) {
	s := NewLinear()
	s.SetDomain(1.7, 83.2)
	s.Nice()
	lo1, hi1 := s.Domain()
	s.Nice()
	lo2, hi2 := s.Domain()
	if lo1 != lo2 || hi1 != hi2 {
		t.Errorf("second Nice() changed domain: [%v,%v] -> [%v,%v]", lo1, hi1, lo2, hi2)
	}
}

func TestLinearProject(t *testing.T) {
	s := NewLinear()
	s.SetDomain(0, 10)
	s.SetRange(0, 100)
	if got := s.Project(2.5); got != 25 {
		t.Errorf("Project(2.5) = %v, want 25", got)
	}
	if got := s.Project(-1); got != -10 {
		t.Errorf("Project(-1) = %v, want -10 (no clamping)", got)
	}

	s.SetDomain(10, 10)
	s.SetRange(0, 400)
	if got := s.Project(10); got != 200 {
		t.Errorf("degenerate Project = %v, want range midpoint 200", got)
	}
}

func TestLinearTicks(t *testing.T) {
	tests := []struct {
		name   string
		lo, hi float64
		count  int
		want   []float64
	}{
		{"integer step", 0, 10, 5, []float64{0, 2, 4, 6, 8, 10}},
		{"fractional step", 0, 1, 10, []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1}},
		{"inside domain", 1, 9, 4, []float64{2, 4, 6, 8}},
		{"degenerate", 5, 5, 10, []float64{5}},
		{"zero count", 0, 10, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewLinear()
			s.SetDomain(tt.lo, tt.hi)
			if got := s.Ticks(tt.count); !slices.Equal(got, tt.want) {
				t.Errorf("Ticks(%d) = %v, want %v", tt.count, got, tt.want)
			}
		})
	}
}

func TestLinearTickFormat(t *testing.T) {
	s := NewLinear()
	s.SetDomain(0, 1)
	if got := s.TickFormat(10)(0.5); got != "0.5" {
		t.Errorf("format = %q, want 0.5", got)
	}
	s.SetDomain(0, 100)
	if got := s.TickFormat(10)(40); got != "40" {
		t.Errorf("format = %q, want 40", got)
	}
}

func utc(y int, m time.Month, d, h, mi int) float64 {
	return Millis(time.Date(y, m, d, h, mi, 0, 0, time.UTC))
}

func TestTimeNice(t *testing.T) {
	tests := []struct {
		name           string
		lo, hi         float64
		wantLo, wantHi float64
	}{
		{"months", utc(2024, 1, 1, 0, 0), utc(2024, 12, 31, 0, 0), utc(2024, 1, 1, 0, 0), utc(2025, 1, 1, 0, 0)},
		{"hours", utc(2024, 3, 10, 1, 17), utc(2024, 3, 10, 9, 42), utc(2024, 3, 10, 1, 0), utc(2024, 3, 10, 10, 0)},
		{"degenerate", utc(2024, 3, 10, 1, 17), utc(2024, 3, 10, 1, 17), utc(2024, 3, 10, 1, 17), utc(2024, 3, 10, 1, 17)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewTime()
			s.SetDomain(tt.lo, tt.hi)
			s.Nice()
			lo, hi := s.Domain()
			if lo != tt.wantLo || hi != tt.wantHi {
				t.Errorf("Nice() = [%v, %v], want [%v, %v]", FromMillis(lo), FromMillis(hi), FromMillis(tt.wantLo), FromMillis(tt.wantHi))
			}
		})
	}
}

func TestTimeTicks(t *testing.T) {
	s := NewTime()
	s.SetDomain(utc(2024, 1, 1, 0, 0), utc(2025, 1, 1, 0, 0))
	want := []float64{
		utc(2024, 1, 1, 0, 0),
		utc(2024, 4, 1, 0, 0),
		utc(2024, 7, 1, 0, 0),
		utc(2024, 10, 1, 0, 0),
		utc(2025, 1, 1, 0, 0),
	}
	if got := s.Ticks(4); !slices.Equal(got, want) {
		t.Errorf("Ticks(4) = %v, want %v", got, want)
	}

	format := s.TickFormat(4)
	if got := format(want[0]); got != "2024" {
		t.Errorf("format(Jan 1) = %q, want 2024", got)
	}
	if got := format(want[1]); got != "April" {
		t.Errorf("format(Apr 1) = %q, want April", got)
	}
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{utc(2024, 3, 10, 12, 0), "12 PM"},
		{utc(2024, 3, 10, 9, 30), "09:30"},
		{utc(2024, 3, 10, 0, 0), "Mar 10"}, // a Sunday
		{utc(2024, 3, 11, 0, 0), "Mon 11"},
		{utc(2024, 3, 11, 0, 0) + 1000, ":01"},
		{utc(2024, 3, 11, 0, 0) + 250, ".250"},
	}

	for _, tt := range tests {
		if got := formatTime(tt.v); got != tt.want {
			t.Errorf("formatTime(%v) = %q, want %q", FromMillis(tt.v), got, tt.want)
		}
	}
}

func TestIntervalFloor(t *testing.T) {
	week := interval{unit: unitWeek, step: 1}
	if got, want := week.floor(utc(2024, 3, 13, 15, 0)), utc(2024, 3, 10, 0, 0); got != want {
		t.Errorf("week floor = %v, want %v", FromMillis(got), FromMillis(want))
	}
	quarter := interval{unit: unitMonth, step: 3}
	if got, want := quarter.floor(utc(2024, 8, 20, 0, 0)), utc(2024, 7, 1, 0, 0); got != want {
		t.Errorf("quarter floor = %v, want %v", FromMillis(got), FromMillis(want))
	}
	decade := interval{unit: unitYear, step: 10}
	if got, want := decade.ceil(utc(2013, 2, 1, 0, 0)), utc(2020, 1, 1, 0, 0); got != want {
		t.Errorf("decade ceil = %v, want %v", FromMillis(got), FromMillis(want))
	}
}

func TestNew(t *testing.T) {
	if _, ok := New(KindTime).(*Time); !ok {
		t.Error("New(time) should return *Time")
	}
	if _, ok := New("").(*Time); !ok {
		t.Error("New(\"\") should default to *Time")
	}
	if _, ok := New(KindLinear).(*Linear); !ok {
		t.Error("New(linear) should return *Linear")
	}
	if New("log") != nil {
		t.Error("New(log) should return nil")
	}
}

func TestClone(t *testing.T) {
	s := NewLinear()
	s.SetDomain(0, 10)
	c := s.Clone()
	c.SetDomain(5, 6)
	if lo, hi := s.Domain(); lo != 0 || hi != 10 {
		t.Errorf("clone shares state with original: [%v, %v]", lo, hi)
	}
}
