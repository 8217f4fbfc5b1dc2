// Package chart is the host container a timeline draws into.
//
// A [Chart] owns the drawing surface (a [scene.Scene]), the margins, the
// bound data, a registry of named layers and two lifecycle signals: "data"
// fires after [Chart.SetData] and "resize" after [Chart.Resize]. Drawing
// code subscribes to both with [Chart.On] and re-renders on each.
//
// Pointer events on shapes are forwarded to named custom events through
// [Chart.DispatchAs]; applications subscribe with [Chart.OnEvent].
package chart

import (
	"io"
	"slices"
	"strings"

	"github.com/matzehuels/timeline/pkg/errors"
	"github.com/matzehuels/timeline/pkg/layout"
	"github.com/matzehuels/timeline/pkg/scene"
)

// Lifecycle signals.
const (
	SignalData   = "data"
	SignalResize = "resize"
)

// Options configures the container.
type Options struct {
	Margin        layout.Margin `json:"margin" toml:"margin"`
	InitialWidth  float64       `json:"initial_width" toml:"initial_width"`
	InitialHeight float64       `json:"initial_height" toml:"initial_height"`
}

// DefaultOptions returns a 400x400 container with room for a left axis.
func DefaultOptions() Options {
	return Options{
		Margin:        layout.Margin{Left: 40, Right: 20, Top: 20, Bottom: 20},
		InitialWidth:  400,
		InitialHeight: 400,
	}
}

// Event is a custom event forwarded from a shape.
type Event struct {
	Name    string
	Datum   any
	Pointer scene.PointerEvent
}

// Chart is a sized drawing surface with bound data. It is not safe for
// concurrent use: passes run to completion on the caller's goroutine.
type Chart struct {
	opts   Options
	scene  *scene.Scene
	root   *scene.Element
	layers map[string]*scene.Element

	width, height float64
	data          []any
	hasData       bool

	listeners map[string][]func() error
	custom    map[string][]func(Event)
	names     []string
	inPass    bool
}

// New creates a chart. Zero initial sizes fall back to the defaults.
func New(opts Options, sceneOpts ...scene.Option) *Chart {
	def := DefaultOptions()
	if opts.InitialWidth <= 0 {
		opts.InitialWidth = def.InitialWidth
	}
	if opts.InitialHeight <= 0 {
		opts.InitialHeight = def.InitialHeight
	}
	sc := scene.New(sceneOpts...)
	c := &Chart{
		opts:      opts,
		scene:     sc,
		root:      sc.Root().Append("g").Classed("root", true),
		layers:    make(map[string]*scene.Element),
		width:     opts.InitialWidth,
		height:    opts.InitialHeight,
		listeners: make(map[string][]func() error),
		custom:    make(map[string][]func(Event)),
	}
	c.updateRoot()
	return c
}

// Options returns the container options.
func (c *Chart) Options() Options { return c.opts }

// Scene returns the drawing surface.
func (c *Chart) Scene() *scene.Scene { return c.scene }

// SetMargin changes the margins without firing a pass.
func (c *Chart) SetMargin(m layout.Margin) {
	c.opts.Margin = m
	c.updateRoot()
}

func (c *Chart) updateRoot() {
	m := c.opts.Margin
	c.root.SetAttr("transform", "translate("+scene.FormatNum(m.Left)+","+scene.FormatNum(m.Top)+")")
}

// Width is the outer width.
func (c *Chart) Width() float64 { return c.width }

// Height is the outer height.
func (c *Chart) Height() float64 { return c.height }

// SetWidth changes the outer width without firing a pass.
func (c *Chart) SetWidth(w float64) { c.width = w }

// SetHeight changes the outer height without firing a pass.
func (c *Chart) SetHeight(h float64) { c.height = h }

// InnerWidth is the width minus the left and right margins.
func (c *Chart) InnerWidth() float64 {
	return c.width - c.opts.Margin.Left - c.opts.Margin.Right
}

// InnerHeight is the height minus the top and bottom margins.
func (c *Chart) InnerHeight() float64 {
	return c.height - c.opts.Margin.Top - c.opts.Margin.Bottom
}

// HasNonZeroArea reports whether there is room to draw.
func (c *Chart) HasNonZeroArea() bool {
	return c.InnerWidth() > 0 && c.InnerHeight() > 0
}

// Data returns the bound data, nil if none.
func (c *Chart) Data() []any { return c.data }

// HasData reports whether data has been bound. An empty, non-nil slice
// counts as data.
func (c *Chart) HasData() bool { return c.hasData }

// SetData binds data and fires the data signal.
func (c *Chart) SetData(data []any) error {
	c.data = data
	c.hasData = data != nil
	return c.Fire(SignalData)
}

// Resize changes the outer size and fires the resize signal.
func (c *Chart) Resize(width, height float64) error {
	c.width, c.height = width, height
	return c.Fire(SignalResize)
}

// On subscribes fn to a lifecycle signal.
func (c *Chart) On(signal string, fn func() error) {
	c.listeners[signal] = append(c.listeners[signal], fn)
}

// Fire runs the listeners of a signal in subscription order and stops at
// the first error. Firing while a pass is running fails.
func (c *Chart) Fire(signal string) error {
	if c.inPass {
		return errors.New(errors.ErrCodeReentrantPass, "%s signal fired during a render pass", signal)
	}
	c.inPass = true
	defer func() { c.inPass = false }()
	for _, fn := range c.listeners[signal] {
		if err := fn(); err != nil {
			return err
		}
	}
	return nil
}

// InPass reports whether a signal is being handled.
func (c *Chart) InPass() bool { return c.inPass }

// AddLayers creates layers by slash-separated path, e.g. "main/axis".
// Parent layers are created as needed and existing layers are kept.
func (c *Chart) AddLayers(paths ...string) {
	for _, p := range paths {
		parent := c.root
		parts := strings.Split(p, "/")
		for i, name := range parts {
			full := strings.Join(parts[:i+1], "/")
			l, ok := c.layers[full]
			if !ok {
				l = parent.Append("g").Classed(name+"-layer", true)
				c.layers[full] = l
			}
			parent = l
		}
	}
}

// Layer returns a layer created by AddLayers.
func (c *Chart) Layer(path string) (*scene.Element, error) {
	l, ok := c.layers[path]
	if !ok {
		return nil, errors.New(errors.ErrCodeLayerMissing, "layer %q does not exist", path)
	}
	return l, nil
}

// RegisterEvents declares the custom event names the chart can dispatch.
func (c *Chart) RegisterEvents(names ...string) {
	for _, n := range names {
		if !slices.Contains(c.names, n) {
			c.names = append(c.names, n)
		}
	}
}

// EventNames lists the registered custom events.
func (c *Chart) EventNames() []string { return slices.Clone(c.names) }

// OnEvent subscribes fn to a registered custom event.
func (c *Chart) OnEvent(name string, fn func(Event)) error {
	if !slices.Contains(c.names, name) {
		return errors.New(errors.ErrCodeInvalidInput, "unknown event %q", name)
	}
	c.custom[name] = append(c.custom[name], fn)
	return nil
}

// DispatchAs returns a pointer handler that re-emits the native event as
// the named custom event, carrying the target's bound datum.
func (c *Chart) DispatchAs(name string) scene.Handler {
	return func(pe scene.PointerEvent) {
		ev := Event{Name: name, Pointer: pe}
		if pe.Target != nil {
			ev.Datum = pe.Target.Datum()
		}
		for _, fn := range c.custom[name] {
			fn(ev)
		}
	}
}

// WriteSVG writes the chart at its current size.
func (c *Chart) WriteSVG(w io.Writer) error {
	return c.scene.WriteSVG(w, c.width, c.height)
}
