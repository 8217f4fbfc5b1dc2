package scene

import (
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/timeline/pkg/errors"
	"github.com/matzehuels/timeline/pkg/textmetrics"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) add(d time.Duration) time.Time {
	c.now = c.now.Add(d)
	return c.now
}

func newTestScene() (*Scene, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	s := New(
		WithClock(clock.Now),
		WithDuration(250*time.Millisecond),
		WithMeasurer(textmetrics.Fixed{CharWidth: 0.5, LineHeight: 1.25}),
	)
	return s, clock
}

func TestTreeOperations(t *testing.T) {
	s, _ := newTestScene()
	layer := s.Root().Append("g").Classed("layer", true)
	a := layer.Append("circle").Classed("dot", true).SetKey("a")
	layer.Append("rect").Classed("dot", true).SetKey("b")
	layer.Append("circle").Classed("end-dot", true)

	if got := len(layer.SelectAll("circle.dot")); got != 1 {
		t.Errorf("SelectAll(circle.dot) = %d elements, want 1", got)
	}
	if got := len(layer.SelectAll(".dot")); got != 2 {
		t.Errorf("SelectAll(.dot) = %d elements, want 2", got)
	}
	if got := layer.Select("rect"); got == nil || got.Key() != "b" {
		t.Errorf("Select(rect) = %v", got)
	}
	if !a.Attached() {
		t.Error("appended element should be attached")
	}

	a.Remove()
	if a.Attached() || a.Parent() != nil {
		t.Error("removed element should be detached")
	}
	if got := len(layer.Children()); got != 2 {
		t.Errorf("children after remove = %d, want 2", got)
	}
	a.Remove() // removing twice is harmless
}

func TestClassed(t *testing.T) {
	s, _ := newTestScene()
	e := s.Root().Append("g").Classed("a", true).Classed("a", true).Classed("b", true)
	if !e.HasClass("a") || !e.HasClass("b") || len(e.classes) != 2 {
		t.Errorf("classes = %v", e.classes)
	}
	e.Classed("a", false)
	if e.HasClass("a") {
		t.Error("class a should be removed")
	}
}

func TestTransitionInterpolates(t *testing.T) {
	s, clock := newTestScene()
	e := s.Root().Append("circle").SetAttrNum("cx", 0)

	e.Animate().AttrNum("cx", 100)
	if s.Pending() != 1 || !e.Active() {
		t.Fatalf("Pending = %d, want 1", s.Pending())
	}
	if e.Attr("cx") != "0" {
		t.Errorf("cx before advancing = %q, want 0", e.Attr("cx"))
	}

	s.Advance(clock.add(125 * time.Millisecond))
	if got := e.AttrNum("cx"); got != 50 {
		t.Errorf("cx at midpoint = %v, want 50", got)
	}

	s.Advance(clock.add(125 * time.Millisecond))
	if e.Attr("cx") != "100" || s.Pending() != 0 {
		t.Errorf("cx at end = %q (pending %d), want 100 and no pending", e.Attr("cx"), s.Pending())
	}
}

func TestTransitionSupersedes(t *testing.T) {
	s, clock := newTestScene()
	e := s.Root().Append("circle").SetAttrNum("cx", 0).SetAttrNum("cy", 0)

	e.Animate().AttrNum("cx", 100).AttrNum("cy", 100)
	clock.add(125 * time.Millisecond)

	// the new transition starts from where the old one is now
	e.Animate().AttrNum("cx", 0)
	if got := e.AttrNum("cx"); got != 50 {
		t.Errorf("cx after interrupt = %v, want 50", got)
	}
	if s.Pending() != 1 {
		t.Errorf("Pending = %d, want 1 (no stacking)", s.Pending())
	}

	s.Advance(clock.add(125 * time.Millisecond))
	if got := e.AttrNum("cx"); got != 25 {
		t.Errorf("cx half way back = %v, want 25", got)
	}
	if got := e.AttrNum("cy"); got != 75 {
		t.Errorf("cy keeps heading to its old target: %v, want 75", got)
	}

	s.Advance(clock.add(125 * time.Millisecond))
	if e.Attr("cx") != "0" || e.Attr("cy") != "100" {
		t.Errorf("final cx, cy = %q, %q; want 0, 100", e.Attr("cx"), e.Attr("cy"))
	}
}

func TestSetAttrDropsTween(t *testing.T) {
	s, clock := newTestScene()
	e := s.Root().Append("rect").SetAttrNum("width", 0)
	e.Animate().AttrNum("width", 10)
	e.SetAttrNum("width", 3)
	s.Advance(clock.add(time.Second))
	if e.Attr("width") != "3" {
		t.Errorf("width = %q, want the directly set 3", e.Attr("width"))
	}
}

func TestSettleAndRemove(t *testing.T) {
	s, _ := newTestScene()
	g := s.Root().Append("g")
	a := g.Append("rect")
	b := g.Append("rect")
	a.Animate().AttrNum("x", 10).Style("fill", "#fff")
	b.Animate().AttrNum("x", 20)

	b.Remove()
	if s.Pending() != 1 {
		t.Errorf("Pending after remove = %d, want 1", s.Pending())
	}
	s.Settle()
	if s.Pending() != 0 || a.Attr("x") != "10" || a.Style("fill") != "#fff" {
		t.Errorf("after Settle: pending %d, x %q, fill %q", s.Pending(), a.Attr("x"), a.Style("fill"))
	}

	g.Append("rect").Animate()
	g.Remove()
	if s.Pending() != 0 {
		t.Errorf("removing a group should cancel descendant transitions, pending %d", s.Pending())
	}
}

func TestAnimateDetachedOrInstant(t *testing.T) {
	s, _ := newTestScene()
	detached := s.Root().Append("rect")
	detached.Remove()
	detached.Animate().AttrNum("x", 5)
	if detached.Attr("x") != "5" || s.Pending() != 0 {
		t.Errorf("detached animate should apply immediately, x = %q", detached.Attr("x"))
	}

	instant := New(WithDuration(0), WithMeasurer(textmetrics.Fixed{}))
	e := instant.Root().Append("rect")
	e.Animate().AttrNum("x", 7)
	if e.Attr("x") != "7" || instant.Pending() != 0 {
		t.Errorf("zero duration should apply immediately, x = %q", e.Attr("x"))
	}
}

func TestInterpolation(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		at       float64
		want     string
	}{
		{"translate", "translate(0,0)", "translate(10,20)", 0.5, "translate(5,10)"},
		{"em unit", "0em", "1em", 0.25, "0.25em"},
		{"hex colors", "#000", "#ffffff", 0.5, "rgb(128, 128, 128)"},
		{"upper case hex", "#FF0000", "#0000ff", 0.5, "rgb(128, 0, 128)"},
		{"rgb function", "rgb(0, 0, 0)", "rgb(255, 0, 100)", 0.5, "rgb(128, 0, 50)"},
		{"out of gamut clamps", "rgb(300, 0, 0)", "#000", 0, "rgb(255, 0, 0)"},
		{"bad hex is not a color", "#gg0000", "#000000", 0.5, "#000000"},
		{"no numbers", "none", "block", 0.1, "block"},
		{"from empty", "", "12", 0.5, "12"},
		{"extra numbers", "M0,0", "M10,10 L20,20", 0.5, "M5,5 L20,20"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := newTween(tt.from, tt.to).at(tt.at); got != tt.want {
				t.Errorf("interpolate(%q, %q)(%v) = %q, want %q", tt.from, tt.to, tt.at, got, tt.want)
			}
		})
	}
}

func TestBBox(t *testing.T) {
	s, _ := newTestScene()
	layer := s.Root().Append("g").SetStyle("font-size", "10px")
	text := layer.Append("text").SetText("abcd").SetAttrNum("x", 4).SetAttrNum("y", 3).SetAttr("dy", "1em")

	box, err := text.BBox()
	if err != nil {
		t.Fatal(err)
	}
	if box.Width != 20 || box.Height != 12.5 || box.X != 4 {
		t.Errorf("BBox = %+v, want width 20 height 12.5 x 4", box)
	}
	if box.Y != -10+3+10 {
		t.Errorf("BBox.Y = %v, want 3", box.Y)
	}

	text.Remove()
	if _, err := text.BBox(); !errors.Is(err, errors.ErrCodeMeasure) {
		t.Errorf("BBox on detached element: err = %v, want MEASURE_FAILED", err)
	}
}

func TestHandlers(t *testing.T) {
	s, _ := newTestScene()
	e := s.Root().Append("circle")
	var got PointerEvent
	e.On("click", func(ev PointerEvent) { got = ev })

	if !e.Fire("click", 1, 2) || got.Target != e || got.X != 1 || got.Type != "click" {
		t.Errorf("Fire(click) delivered %+v", got)
	}
	if e.Fire("mouseover", 0, 0) {
		t.Error("Fire without handler should report false")
	}
	e.On("click", nil)
	if e.HasHandler("click") {
		t.Error("nil handler should unregister")
	}
}

func TestWriteSVG(t *testing.T) {
	s, _ := newTestScene()
	g := s.Root().Append("g").SetAttr("transform", "translate(40,20)")
	g.Append("circle").Classed("dot", true).SetAttrNum("r", 3).SetAttrNum("cx", 10).SetStyle("fill", "#222")
	g.Append("path").Classed("link", true).SetAttr("d", "M0,0 L1,1")
	g.Append("text").SetText("a<b & c")

	out, err := s.SVG(400.5, 300)
	if err != nil {
		t.Fatal(err)
	}
	doc := string(out)
	for _, want := range []string{
		`width="401"`,
		`transform="translate(40,20)"`,
		`<circle class="dot" cx="10" r="3" style="fill:#222"></circle>`,
		`d="M0,0 L1,1"`,
		`class="link"`,
		`a&lt;b &amp; c`,
		`</svg>`,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("SVG output missing %q:\n%s", want, doc)
		}
	}
}
