package scene

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

// Transition animates attributes and styles of one element from their
// current values to new ones. Starting a new transition on an element
// interrupts the running one: values stay where the old transition left
// them and continue from there, and tweens the new transition does not
// override keep heading to their old targets.
type Transition struct {
	el       *Element
	start    time.Time
	duration time.Duration
	attrs    map[string]tween
	styles   map[string]tween
}

type tween struct {
	to string
	at func(t float64) string
}

// Animate starts a transition on e using the scene's clock and duration.
func (e *Element) Animate() *Transition {
	s := e.scene
	now := s.clock()
	tr := &Transition{
		el:       e,
		start:    now,
		duration: s.duration,
		attrs:    make(map[string]tween),
		styles:   make(map[string]tween),
	}
	if prev := s.active[e]; prev != nil {
		prev.apply(now)
		for name, tw := range prev.attrs {
			tr.attrs[name] = newTween(e.attrs[name], tw.to)
		}
		for name, tw := range prev.styles {
			tr.styles[name] = newTween(e.styles[name], tw.to)
		}
		delete(s.active, e)
	}
	if tr.duration > 0 && e.Attached() {
		s.active[e] = tr
	} else {
		tr.finish()
	}
	return tr
}

// Active reports whether e has a transition in flight.
func (e *Element) Active() bool {
	_, ok := e.scene.active[e]
	return ok
}

func (t *Transition) immediate() bool {
	return t.el.scene.active[t.el] != t
}

// Attr animates an attribute to value.
func (t *Transition) Attr(name, value string) *Transition {
	if t.immediate() {
		t.el.SetAttr(name, value)
		return t
	}
	t.attrs[name] = newTween(t.el.attrs[name], value)
	return t
}

// AttrNum animates a numeric attribute.
func (t *Transition) AttrNum(name string, v float64) *Transition {
	return t.Attr(name, FormatNum(v))
}

// Style animates an inline style property to value.
func (t *Transition) Style(name, value string) *Transition {
	if t.immediate() {
		t.el.SetStyle(name, value)
		return t
	}
	t.styles[name] = newTween(t.el.styles[name], value)
	return t
}

// apply writes the interpolated values for time now and reports whether
// the transition has ended.
func (t *Transition) apply(now time.Time) bool {
	p := float64(now.Sub(t.start)) / float64(t.duration)
	if p >= 1 {
		t.finish()
		return true
	}
	p = cubicInOut(math.Max(0, p))
	for name, tw := range t.attrs {
		t.el.ensureMaps()
		t.el.attrs[name] = tw.at(p)
	}
	for name, tw := range t.styles {
		t.el.ensureMaps()
		t.el.styles[name] = tw.at(p)
	}
	return false
}

func (t *Transition) finish() {
	t.el.ensureMaps()
	for name, tw := range t.attrs {
		t.el.attrs[name] = tw.to
	}
	for name, tw := range t.styles {
		t.el.styles[name] = tw.to
	}
}

func (e *Element) ensureMaps() {
	if e.attrs == nil {
		e.attrs = make(map[string]string)
	}
	if e.styles == nil {
		e.styles = make(map[string]string)
	}
}

func cubicInOut(t float64) float64 {
	t *= 2
	if t <= 1 {
		return t * t * t / 2
	}
	t -= 2
	return (t*t*t + 2) / 2
}

func newTween(from, to string) tween {
	if a, ok := parseColor(from); ok {
		if b, ok := parseColor(to); ok {
			return tween{to: to, at: func(t float64) string { return colorString(a.BlendRgb(b, t)) }}
		}
	}
	return tween{to: to, at: interpolateString(from, to)}
}

var numberRE = regexp.MustCompile(`[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`)

type segment struct {
	lit      string
	from, to float64
	numeric  bool
}

// interpolateString pairs the numbers embedded in from and to by position
// and interpolates them; everything else is taken from to.
func interpolateString(from, to string) func(float64) string {
	fromNums := numberRE.FindAllString(from, -1)
	matches := numberRE.FindAllStringIndex(to, -1)

	var segs []segment
	last := 0
	for i, m := range matches {
		segs = append(segs, segment{lit: to[last:m[0]]})
		last = m[1]
		if i >= len(fromNums) {
			segs = append(segs, segment{lit: to[m[0]:m[1]]})
			continue
		}
		a, errA := strconv.ParseFloat(fromNums[i], 64)
		b, errB := strconv.ParseFloat(to[m[0]:m[1]], 64)
		if errA != nil || errB != nil || a == b {
			segs = append(segs, segment{lit: to[m[0]:m[1]]})
			continue
		}
		segs = append(segs, segment{from: a, to: b, numeric: true})
	}
	segs = append(segs, segment{lit: to[last:]})

	return func(t float64) string {
		var b strings.Builder
		for _, s := range segs {
			if s.numeric {
				b.WriteString(FormatNum(s.from + (s.to-s.from)*t))
				continue
			}
			b.WriteString(s.lit)
		}
		return b.String()
	}
}

// colorString writes c the way browsers serialise computed colours.
func colorString(c colorful.Color) string {
	r, g, b := c.Clamped().RGB255()
	return fmt.Sprintf("rgb(%d, %d, %d)", r, g, b)
}

// parseColor understands #rgb, #rrggbb and rgb(r, g, b).
func parseColor(s string) (colorful.Color, bool) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		if len(s) != 4 && len(s) != 7 {
			return colorful.Color{}, false
		}
		c, err := colorful.Hex(strings.ToLower(s))
		return c, err == nil
	}
	inner, ok := strings.CutPrefix(s, "rgb(")
	if !ok || !strings.HasSuffix(inner, ")") {
		return colorful.Color{}, false
	}
	parts := strings.Split(strings.TrimSuffix(inner, ")"), ",")
	if len(parts) != 3 {
		return colorful.Color{}, false
	}
	var v [3]float64
	for i, p := range parts {
		n, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return colorful.Color{}, false
		}
		v[i] = n / 255
	}
	return colorful.Color{R: v[0], G: v[1], B: v[2]}, true
}
