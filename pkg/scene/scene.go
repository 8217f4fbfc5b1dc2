// Package scene is a small retained-mode vector scene: a tree of SVG-like
// elements with attributes, styles, keyed identity, pointer handlers and
// per-element animated transitions.
//
// A [Scene] owns the root element and the transition clock. Transitions
// never run on their own: callers drive them with [Scene.Advance] (for
// example from a UI tick) or finish them with [Scene.Settle] before
// writing the scene out with [Scene.WriteSVG].
package scene

import (
	"time"

	"github.com/matzehuels/timeline/pkg/textmetrics"
)

// DefaultDuration is the length of a transition unless configured.
const DefaultDuration = 250 * time.Millisecond

// Scene is the root of an element tree. It is not safe for concurrent use.
type Scene struct {
	root     *Element
	clock    func() time.Time
	duration time.Duration
	measurer textmetrics.Measurer
	active   map[*Element]*Transition
}

// Option configures a Scene.
type Option func(*Scene)

// WithClock sets the time source used to start transitions.
func WithClock(now func() time.Time) Option { return func(s *Scene) { s.clock = now } }

// WithDuration sets the transition length. Zero or negative durations
// apply every transition immediately.
func WithDuration(d time.Duration) Option { return func(s *Scene) { s.duration = d } }

// WithMeasurer sets the text metrics used by [Element.BBox].
func WithMeasurer(m textmetrics.Measurer) Option { return func(s *Scene) { s.measurer = m } }

// New creates an empty scene whose root is an <svg> element.
func New(opts ...Option) *Scene {
	s := &Scene{
		clock:    time.Now,
		duration: DefaultDuration,
		active:   make(map[*Element]*Transition),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.measurer == nil {
		s.measurer = textmetrics.New()
	}
	s.root = &Element{tag: "svg", scene: s}
	return s
}

// Root returns the <svg> element.
func (s *Scene) Root() *Element { return s.root }

// Now reads the scene clock.
func (s *Scene) Now() time.Time { return s.clock() }

// Duration is the configured transition length.
func (s *Scene) Duration() time.Duration { return s.duration }

// Pending is the number of transitions still in flight.
func (s *Scene) Pending() int { return len(s.active) }

// Advance applies every in-flight transition at time now and retires the
// ones that have finished.
func (s *Scene) Advance(now time.Time) {
	for el, tr := range s.active {
		if tr.apply(now) {
			delete(s.active, el)
		}
	}
}

// Settle jumps every in-flight transition to its end state.
func (s *Scene) Settle() {
	for el, tr := range s.active {
		tr.finish()
		delete(s.active, el)
	}
}

func (s *Scene) cancel(el *Element) {
	delete(s.active, el)
}
