package timeline

import (
	"github.com/matzehuels/timeline/pkg/layout"
	"github.com/matzehuels/timeline/pkg/scale"
	"github.com/matzehuels/timeline/pkg/scene"
)

// Axis draws the time axis: a domain line plus one tick group per tick
// value. Options.FormatAxis receives the axis before every draw and may
// change any field.
type Axis struct {
	Orient        layout.Orient
	Scale         scale.Scale
	TickCount     int
	TickValues    []float64            // overrides Scale.Ticks when non-nil
	TickFormat    func(float64) string // overrides Scale.TickFormat when set
	TickSizeInner float64
	TickSizeOuter float64
	TickPadding   float64
}

func newAxis(orient layout.Orient, sc scale.Scale) *Axis {
	return &Axis{
		Orient:        orient,
		Scale:         sc,
		TickCount:     10,
		TickSizeInner: 6,
		TickSizeOuter: 6,
		TickPadding:   3,
	}
}

// Ticks returns the tick values the axis will draw.
func (a *Axis) Ticks() []float64 {
	if a.TickValues != nil {
		return a.TickValues
	}
	return a.Scale.Ticks(a.TickCount)
}

func (a *Axis) vertical() bool {
	return a.Orient == layout.OrientLeft || a.Orient == layout.OrientRight
}

// sign is -1 when ticks point up or left.
func (a *Axis) sign() float64 {
	if a.Orient == layout.OrientTop || a.Orient == layout.OrientLeft {
		return -1
	}
	return 1
}

func (a *Axis) anchor() string {
	switch a.Orient {
	case layout.OrientLeft:
		return "end"
	case layout.OrientRight:
		return "start"
	}
	return "middle"
}

func (a *Axis) textDY() string {
	switch a.Orient {
	case layout.OrientTop:
		return "0em"
	case layout.OrientBottom:
		return "0.71em"
	}
	return "0.32em"
}

func (a *Axis) domainPath() string {
	k, outer := a.sign(), a.TickSizeOuter
	r0, r1 := a.Scale.Range()
	f := scene.FormatNum
	if a.vertical() {
		return "M" + f(k*outer) + "," + f(r0) + "H0V" + f(r1) + "H" + f(k*outer)
	}
	return "M" + f(r0) + "," + f(k*outer) + "V0H" + f(r1) + "V" + f(k*outer)
}

func (a *Axis) tickTransform(pos float64) string {
	if a.vertical() {
		return translate(0, pos)
	}
	return translate(pos, 0)
}

// draw renders the axis into layer, reconciling tick groups by value.
func (a *Axis) draw(layer *scene.Element) JoinStats {
	layer.SetAttr("fill", "none").
		SetAttr("font-size", "10").
		SetAttr("font-family", "sans-serif").
		SetAttr("text-anchor", a.anchor())

	domain := layer.Select("path.domain")
	if domain == nil {
		domain = layer.Append("path").Classed("domain", true)
	}
	domain.SetAttr("stroke", "currentColor").SetAttr("d", a.domainPath())

	values := a.Ticks()
	format := a.TickFormat
	if format == nil {
		format = a.Scale.TickFormat(a.TickCount)
	}
	ids := make([]string, len(values))
	for i, v := range values {
		ids[i] = scene.FormatNum(v)
	}

	lineAttr, textAttr := "y2", "y"
	if a.vertical() {
		lineAttr, textAttr = "x2", "x"
	}
	k := a.sign()
	spacing := max(a.TickSizeInner, 0) + a.TickPadding

	build := func(tick *scene.Element, i int, animate bool) {
		line := tick.Select("line")
		if line == nil {
			line = tick.Append("line").SetAttr("stroke", "currentColor")
		}
		text := tick.Select("text")
		if text == nil {
			text = tick.Append("text").SetAttr("fill", "currentColor")
		}
		line.SetAttrNum(lineAttr, k*a.TickSizeInner)
		text.SetAttrNum(textAttr, k*spacing).SetAttr("dy", a.textDY()).SetText(format(values[i]))

		pos := a.Scale.Project(values[i])
		if animate {
			tick.Animate().Attr("transform", a.tickTransform(pos))
			return
		}
		tick.SetAttr("transform", a.tickTransform(pos))
	}

	return join(layer, "g.tick", "g", ids,
		func(el *scene.Element, i int) {
			el.Classed("tick", true)
			build(el, i, false)
		},
		func(el *scene.Element, i int) { build(el, i, true) })
}

func translate(x, y float64) string {
	return "translate(" + scene.FormatNum(x) + "," + scene.FormatNum(y) + ")"
}
