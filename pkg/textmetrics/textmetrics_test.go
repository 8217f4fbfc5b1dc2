package textmetrics

import (
	"math"
	"testing"
)

func TestParseFontSize(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"", 12},
		{"14", 14},
		{"14px", 14},
		{" 9pt ", 12},
		{"1.5em", 18},
		{"big", 12},
		{"-3px", 12},
	}

	for _, tt := range tests {
		if got := ParseFontSize(tt.in); got != tt.want {
			t.Errorf("ParseFontSize(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestStyleFromCSS(t *testing.T) {
	s := StyleFromCSS(map[string]string{
		"font-size":   "16px",
		"font-weight": "700",
		"font-style":  "italic",
		"fill":        "#fff",
	})
	want := Style{Size: 16, Bold: true, Italic: true}
	if s != want {
		t.Errorf("StyleFromCSS() = %+v, want %+v", s, want)
	}
	if got := variant(s); got != "bolditalic" {
		t.Errorf("variant = %q, want bolditalic", got)
	}
	if got := variant(Style{Family: "Go Mono", Bold: true}); got != "mono" {
		t.Errorf("variant(mono) = %q", got)
	}
}

func TestFontsMeasure(t *testing.T) {
	f := New()
	defer f.Close()

	empty, err := f.Measure("", Style{Size: 12})
	if err != nil {
		t.Fatal(err)
	}
	if empty.Width != 0 || empty.Height <= 0 {
		t.Errorf("empty text box = %+v, want zero width and a positive line height", empty)
	}

	short, _ := f.Measure("A", Style{Size: 12})
	long, _ := f.Measure("A much longer label", Style{Size: 12})
	if !(long.Width > short.Width && short.Width > 0) {
		t.Errorf("widths not monotonic: short %v, long %v", short.Width, long.Width)
	}
	if short.Height != long.Height {
		t.Errorf("line height depends on text: %v vs %v", short.Height, long.Height)
	}
	if short.Y >= 0 {
		t.Errorf("box Y = %v, want negative (above the baseline)", short.Y)
	}

	big, _ := f.Measure("A much longer label", Style{Size: 24})
	if math.Abs(big.Width-2*long.Width) > 1 {
		t.Errorf("width should scale with size: 12px %v, 24px %v", long.Width, big.Width)
	}

	again, _ := f.Measure("A", Style{})
	if again != short {
		t.Errorf("default size measurement %+v differs from 12px %+v", again, short)
	}
}

func TestFontsFaceCacheIsBounded(t *testing.T) {
	f := New()
	defer f.Close()

	for i := range 500 {
		if _, err := f.Measure("label", Style{Size: 8 + float64(i)*0.37}); err != nil {
			t.Fatal(err)
		}
	}
	f.mu.Lock()
	n := len(f.faces)
	f.mu.Unlock()
	if n > maxFaces {
		t.Errorf("cached faces = %d, want at most %d", n, maxFaces)
	}

	a, _ := f.Measure("label", Style{Size: 12})
	b, _ := f.Measure("label", Style{Size: 12.01})
	if a != b {
		t.Errorf("sizes within a quarter pixel measure differently: %+v vs %+v", a, b)
	}
}

func TestFontsMonoIsFixedPitch(t *testing.T) {
	f := New()
	defer f.Close()
	s := Style{Family: "monospace", Size: 10}
	i, _ := f.Measure("iiii", s)
	w, _ := f.Measure("WWWW", s)
	if i.Width != w.Width {
		t.Errorf("monospace widths differ: %v vs %v", i.Width, w.Width)
	}
}

func TestFixed(t *testing.T) {
	m := Fixed{CharWidth: 0.5, LineHeight: 1.25}
	b, err := m.Measure("héllo", Style{Size: 8})
	if err != nil {
		t.Fatal(err)
	}
	if b.Width != 20 || b.Height != 10 {
		t.Errorf("Fixed.Measure = %+v, want width 20 height 10", b)
	}
}
