// Package timeline draws a set of time-stamped events as a labelled
// timeline and keeps the drawing up to date as data and size change.
//
// A [Timeline] subscribes to the data and resize signals of a
// [chart.Chart]. Every signal runs one render pass:
//
//  1. evaluate every accessor for every event
//  2. configure the scale from the data (or Options.Domain)
//  3. measure each label and build one [layout.Node] per event
//  4. resolve label overlap and lay the labels out in layers
//  5. optionally grow the container to fit (Options.AutoFit)
//  6. reconcile the axis, markers, end markers, duration bars, labels and
//     connectors against what is already drawn, keyed by event identity
//
// Shapes for keys that are new are created, shapes for keys that are gone
// are removed, and the rest animate to their new attributes. Passes do not
// keep state other than the drawn shapes themselves, so a failed pass is
// fixed by correcting the input and running another.
package timeline

import (
	"time"

	"github.com/matzehuels/timeline/pkg/chart"
	"github.com/matzehuels/timeline/pkg/layout"
	"github.com/matzehuels/timeline/pkg/observability"
	"github.com/matzehuels/timeline/pkg/scene"
)

// Layer names registered on the chart.
const (
	LayerDummy = "dummy"
	LayerMain  = "main"
	LayerAxis  = "main/axis"
	LayerLink  = "main/link"
	LayerDot   = "main/dot"
	LayerLabel = "main/label"
)

// EventNames are the custom events a timeline dispatches through its
// chart.
var EventNames = []string{
	"dotClick",
	"dotMouseover",
	"dotMousemove",
	"dotMouseout",
	"dotMouseenter",
	"dotMouseleave",
	"labelClick",
	"labelMouseover",
	"labelMousemove",
	"labelMouseenter",
	"labelMouseleave",
	"labelMouseout",
	"labelDrag",
	"labelDragStart",
	"labelDragEnd",
}

// Timeline renders events into a chart.
type Timeline struct {
	chart    *chart.Chart
	opts     Options
	measurer *labelMeasurer
	layers   map[string]*scene.Element

	nodes []*layout.Node // last pass, for ResizeToFit
	stats PassStats
	axis  *Axis
}

// New attaches a timeline to c. The options are validated up front; an
// unknown direction is an error.
func New(c *chart.Chart, opts Options) (*Timeline, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	c.AddLayers(LayerDummy, LayerAxis, LayerLink, LayerDot, LayerLabel)
	c.RegisterEvents(EventNames...)

	t := &Timeline{chart: c, opts: opts, layers: make(map[string]*scene.Element)}
	for _, name := range []string{LayerDummy, LayerMain, LayerAxis, LayerLink, LayerDot, LayerLabel} {
		l, err := c.Layer(name)
		if err != nil {
			return nil, err
		}
		t.layers[name] = l
	}
	t.layers[LayerAxis].Classed("axis", true)
	t.layers[LayerDummy].SetStyle("visibility", "hidden")
	t.measurer = newLabelMeasurer(t.layers[LayerDummy])

	c.On(chart.SignalData, t.Visualize)
	c.On(chart.SignalResize, t.Visualize)
	return t, nil
}

// Chart returns the host chart.
func (t *Timeline) Chart() *chart.Chart { return t.chart }

// Options returns the current options.
func (t *Timeline) Options() Options { return t.opts }

// SetOptions replaces the options. It does not run a pass; bind data or
// resize the chart to redraw.
func (t *Timeline) SetOptions(opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	t.opts = opts
	t.measurer.reset()
	return nil
}

// Nodes returns the resolved nodes of the last successful pass.
func (t *Timeline) Nodes() []*layout.Node { return t.nodes }

// Stats returns what the last successful pass did.
func (t *Timeline) Stats() PassStats { return t.stats }

// Axis returns the axis drawn by the last pass, nil before the first.
func (t *Timeline) Axis() *Axis { return t.axis }

// Visualize runs one render pass. It is a no-op while the chart has no
// data or no drawable area.
func (t *Timeline) Visualize() (err error) {
	c := t.chart
	if !c.HasData() || !c.HasNonZeroArea() {
		return nil
	}
	o := &t.opts
	g, err := layout.GeometryFor(o.Direction)
	if err != nil {
		return err
	}

	data := c.Data()
	hooks := observability.Render()
	hooks.OnPassStart(string(o.Direction), len(data))
	start := time.Now()
	var stats PassStats
	defer func() {
		hooks.OnPassComplete(string(o.Direction), stats.observed(), time.Since(start), err)
	}()

	acc := o.accessors()
	recs, err := acc.evaluate(data)
	if err != nil {
		return err
	}
	stats.Events = len(recs)

	configureScale(o.Scale, recs, o.Domain, g.RangeExtent(c.InnerWidth(), c.InnerHeight()))
	nodes, err := t.buildNodes(recs, o.Scale, g)
	if err != nil {
		return err
	}
	pe, nodeHeight, err := t.arrange(nodes, g)
	if err != nil {
		return err
	}
	stats.Layers = layerCount(nodes)

	if o.AutoFit && len(nodes) > 0 {
		t.applyFit(layout.Fit(g, nodes, c.Options().Margin))
	}

	stats.Ticks = t.drawAxes(g)
	stats.Markers, stats.EndMarkers, stats.Durations = t.drawDots(t.layers[LayerDot], recs, o.Scale, g)
	stats.Labels = t.drawLabels(t.layers[LayerLabel], recs, nodes, g, nodeHeight)
	stats.Links = t.drawLinks(t.layers[LayerLink], recs, nodes, g, pe)

	t.nodes, t.stats = nodes, stats
	return nil
}

func (t *Timeline) drawAxes(g layout.Geometry) JoinStats {
	c := t.chart
	pt := g.AxisTransform(c.InnerWidth(), c.InnerHeight())
	t.layers[LayerMain].SetAttr("transform", translate(pt.X, pt.Y))

	t.axis = newAxis(g.Orient, t.opts.Scale)
	if t.opts.FormatAxis != nil {
		t.opts.FormatAxis(t.axis)
	}
	return t.axis.draw(t.layers[LayerAxis])
}

func (t *Timeline) applyFit(r layout.FitResult) {
	if r.HasWidth {
		t.chart.SetWidth(r.Width)
	}
	if r.HasHeight {
		t.chart.SetHeight(r.Height)
	}
}

// ResizeToFit grows or shrinks the chart on the displacement axis so every
// label of the last pass fits, then redraws at the new size. Called from
// inside a pass it only resizes.
func (t *Timeline) ResizeToFit() (layout.FitResult, error) {
	g, err := layout.GeometryFor(t.opts.Direction)
	if err != nil {
		return layout.FitResult{}, err
	}
	r := layout.Fit(g, t.nodes, t.chart.Options().Margin)
	t.applyFit(r)
	if t.chart.InPass() {
		return r, nil
	}
	return r, t.chart.Fire(chart.SignalResize)
}
