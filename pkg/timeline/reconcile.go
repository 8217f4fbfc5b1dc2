package timeline

import (
	"github.com/matzehuels/timeline/pkg/observability"
	"github.com/matzehuels/timeline/pkg/scene"
)

// JoinStats counts what one keyed join did to a shape family.
type JoinStats struct {
	Entered int
	Updated int
	Exited  int
}

func (s JoinStats) add(o JoinStats) JoinStats {
	return JoinStats{s.Entered + o.Entered, s.Updated + o.Updated, s.Exited + o.Exited}
}

// PassStats is the outcome of one render pass per shape family.
type PassStats struct {
	Events     int
	Layers     int
	Markers    JoinStats
	EndMarkers JoinStats
	Durations  JoinStats
	Labels     JoinStats
	Links      JoinStats
	Ticks      JoinStats
}

// Total sums the event-keyed families; axis ticks are not included.
func (s PassStats) Total() JoinStats {
	return s.Markers.add(s.EndMarkers).add(s.Durations).add(s.Labels).add(s.Links)
}

func (s PassStats) observed() observability.PassStats {
	t := s.Total()
	return observability.PassStats{
		Events:  s.Events,
		Entered: t.Entered,
		Updated: t.Updated,
		Exited:  t.Exited,
		Layers:  s.Layers,
	}
}

// shapeProps is the full attribute and style set of one shape, computed
// before the shape is touched.
type shapeProps struct {
	attrs  []prop
	styles []prop
}

type prop struct{ name, value string }

func (p *shapeProps) attr(name, value string) *shapeProps {
	p.attrs = append(p.attrs, prop{name, value})
	return p
}

func (p *shapeProps) num(name string, v float64) *shapeProps {
	return p.attr(name, scene.FormatNum(v))
}

func (p *shapeProps) style(name, value string) *shapeProps {
	p.styles = append(p.styles, prop{name, value})
	return p
}

// set writes the props immediately.
func (p *shapeProps) set(el *scene.Element) {
	for _, a := range p.attrs {
		el.SetAttr(a.name, a.value)
	}
	for _, s := range p.styles {
		el.SetStyle(s.name, s.value)
	}
}

// animate transitions el to the props.
func (p *shapeProps) animate(el *scene.Element) {
	tr := el.Animate()
	for _, a := range p.attrs {
		tr.Attr(a.name, a.value)
	}
	for _, s := range p.styles {
		tr.Style(s.name, s.value)
	}
}

// join reconciles the children of layer matching selector against keys.
// Children whose key is gone, or whose tag differs from tag, are removed;
// missing keys get a new <tag> element passed to enter; the rest are
// passed to update. Both callbacks receive the index into keys.
func join(layer *scene.Element, selector, tag string, keys []string,
	enter, update func(el *scene.Element, i int)) JoinStats {
	var stats JoinStats
	want := make(map[string]bool, len(keys))
	for _, k := range keys {
		want[k] = true
	}

	existing := make(map[string]*scene.Element)
	for _, el := range layer.SelectAll(selector) {
		if !want[el.Key()] || el.Tag() != tag || existing[el.Key()] != nil {
			el.Remove()
			stats.Exited++
			continue
		}
		existing[el.Key()] = el
	}

	for i, k := range keys {
		if el, ok := existing[k]; ok {
			update(el, i)
			stats.Updated++
			continue
		}
		el := layer.Append(tag).SetKey(k)
		enter(el, i)
		stats.Entered++
	}
	return stats
}
