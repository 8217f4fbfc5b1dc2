package timeline

import (
	"github.com/matzehuels/timeline/pkg/layout"
	"github.com/matzehuels/timeline/pkg/scale"
	"github.com/matzehuels/timeline/pkg/scene"
)

var dotEvents = map[string]string{
	"click":      "dotClick",
	"mouseover":  "dotMouseover",
	"mousemove":  "dotMousemove",
	"mouseout":   "dotMouseout",
	"mouseenter": "dotMouseenter",
	"mouseleave": "dotMouseleave",
}

// markerTag is the element a marker of the given color is drawn with.
func markerTag(color string) string {
	if color == Transparent {
		return "rect"
	}
	return "circle"
}

// markerProps places a marker at pos on the time axis, offset away from
// it. The transparent sentinel turns the circle into a stroked tick that
// sticks out perpendicular to the axis.
func markerProps(g layout.Geometry, color, lineColor string, pos, offset, radius float64) shapeProps {
	var p shapeProps
	x, y := g.XY(pos, offset)
	if color == Transparent {
		w, h := g.XY(1, radius)
		p.num("x", x).num("y", y).num("width", w).num("height", h).style("stroke", lineColor)
		return p
	}
	p.num("cx", x).num("cy", y).num("r", radius).style("fill", color)
	return p
}

// durationProps spans a one pixel wide bar from start to end along the
// axis. An end before the start yields a zero-length bar at the start.
func durationProps(g layout.Geometry, lineColor string, start, end, offset float64) shapeProps {
	var p shapeProps
	x, y := g.XY(start, offset)
	w, h := g.XY(max(0, end-start), 1)
	p.num("x", x).num("y", y).num("width", w).num("height", h).style("stroke", lineColor)
	return p
}

type markerFamily struct {
	selector string
	class    string
	tag      string
	props    []shapeProps
}

// drawDots reconciles markers, end markers and duration bars.
func (t *Timeline) drawDots(layer *scene.Element, recs []record, sc scale.Scale, g layout.Geometry) (markers, ends, bars JoinStats) {
	o := &t.opts
	ids := keys(recs)

	start := make([]float64, len(recs))
	dots := markerFamily{selector: ".dot", class: "dot", tag: markerTag(o.DotColor), props: make([]shapeProps, len(recs))}
	for i := range recs {
		r := &recs[i]
		start[i] = sc.Project(r.time) + r.offsets.OffsetTangent
		dots.props[i] = markerProps(g, o.DotColor, o.LineColor, start[i], r.offsets.Offset, o.DotRadius)
	}

	markers = t.joinMarkers(layer, dots, recs, ids, dotEvents)

	var endKeys []string
	endDots := markerFamily{selector: ".end-dot", class: "end-dot", tag: markerTag(o.EndDotColor)}
	var barProps []shapeProps
	if o.EndTimeFn.IsSet() {
		endKeys = ids
		endDots.props = make([]shapeProps, len(recs))
		barProps = make([]shapeProps, len(recs))
		for i := range recs {
			r := &recs[i]
			end := sc.Project(r.endTime) + r.offsets.OffsetTangent
			endDots.props[i] = markerProps(g, o.EndDotColor, o.LineColor, end, r.offsets.Offset, o.DotRadius)
			barProps[i] = durationProps(g, o.LineColor, start[i], end, r.offsets.Offset)
		}
	}

	ends = t.joinMarkers(layer, endDots, recs, endKeys, nil)
	bars = join(layer, "rect.time-duration", "rect", endKeys,
		func(el *scene.Element, i int) {
			el.Classed("time-duration", true).SetDatum(recs[i].datum)
			barProps[i].set(el)
		},
		func(el *scene.Element, i int) {
			el.SetDatum(recs[i].datum)
			barProps[i].animate(el)
		})
	return markers, ends, bars
}

func (t *Timeline) joinMarkers(layer *scene.Element, f markerFamily, recs []record, keys []string, events map[string]string) JoinStats {
	return join(layer, f.selector, f.tag, keys,
		func(el *scene.Element, i int) {
			el.Classed(f.class, true).SetDatum(recs[i].datum)
			for native, custom := range events {
				el.On(native, t.chart.DispatchAs(custom))
			}
			f.props[i].set(el)
		},
		func(el *scene.Element, i int) {
			el.SetDatum(recs[i].datum)
			f.props[i].animate(el)
		})
}
