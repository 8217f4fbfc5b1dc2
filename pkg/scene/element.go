package scene

import (
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/timeline/pkg/errors"
	"github.com/matzehuels/timeline/pkg/textmetrics"
)

// PointerEvent is what a handler receives when an element is clicked,
// hovered or dragged.
type PointerEvent struct {
	Type   string // native event type: click, mouseover, drag, ...
	X, Y   float64
	Target *Element
}

// Handler reacts to a pointer event on an element.
type Handler func(ev PointerEvent)

// Element is a node in the scene tree.
type Element struct {
	tag      string
	key      string
	classes  []string
	attrs    map[string]string
	styles   map[string]string
	text     string
	datum    any
	handlers map[string]Handler

	scene    *Scene
	parent   *Element
	children []*Element
}

// Tag returns the element name, e.g. "circle".
func (e *Element) Tag() string { return e.tag }

// Key returns the identity the element was joined with.
func (e *Element) Key() string { return e.key }

// SetKey sets the join identity.
func (e *Element) SetKey(k string) *Element {
	e.key = k
	return e
}

// Datum returns the data bound to the element.
func (e *Element) Datum() any { return e.datum }

// SetDatum binds data to the element.
func (e *Element) SetDatum(d any) *Element {
	e.datum = d
	return e
}

// Parent returns the parent element, or nil for the root and detached
// elements.
func (e *Element) Parent() *Element { return e.parent }

// Children returns the element's children in document order.
func (e *Element) Children() []*Element { return slices.Clone(e.children) }

// Append creates a child element at the end of e.
func (e *Element) Append(tag string) *Element {
	c := &Element{tag: tag, scene: e.scene, parent: e}
	e.children = append(e.children, c)
	return c
}

// Remove detaches e from its parent and cancels its transitions and those
// of its descendants.
func (e *Element) Remove() {
	e.cancelTree()
	if e.parent == nil {
		return
	}
	p := e.parent
	if i := slices.Index(p.children, e); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
	}
	e.parent = nil
}

func (e *Element) cancelTree() {
	e.scene.cancel(e)
	for _, c := range e.children {
		c.cancelTree()
	}
}

// Attached reports whether e is reachable from the scene root.
func (e *Element) Attached() bool {
	for n := e; n != nil; n = n.parent {
		if n == e.scene.root {
			return true
		}
	}
	return false
}

// Classed adds or removes a class.
func (e *Element) Classed(name string, on bool) *Element {
	i := slices.Index(e.classes, name)
	switch {
	case on && i < 0:
		e.classes = append(e.classes, name)
	case !on && i >= 0:
		e.classes = slices.Delete(e.classes, i, i+1)
	}
	return e
}

// HasClass reports whether the element carries the class.
func (e *Element) HasClass(name string) bool { return slices.Contains(e.classes, name) }

// Attr returns an attribute value, or "" when unset.
func (e *Element) Attr(name string) string { return e.attrs[name] }

// SetAttr sets an attribute immediately. An in-flight transition of the
// same attribute is dropped.
func (e *Element) SetAttr(name, value string) *Element {
	if e.attrs == nil {
		e.attrs = make(map[string]string)
	}
	e.attrs[name] = value
	if tr := e.scene.active[e]; tr != nil {
		delete(tr.attrs, name)
	}
	return e
}

// SetAttrNum sets a numeric attribute.
func (e *Element) SetAttrNum(name string, v float64) *Element {
	return e.SetAttr(name, FormatNum(v))
}

// AttrNum parses a numeric attribute. Unset or malformed values read as 0.
func (e *Element) AttrNum(name string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimSpace(e.attrs[name]), 64)
	return v
}

// Style returns an inline style property, or "" when unset.
func (e *Element) Style(name string) string { return e.styles[name] }

// SetStyle sets an inline style property immediately.
func (e *Element) SetStyle(name, value string) *Element {
	if e.styles == nil {
		e.styles = make(map[string]string)
	}
	e.styles[name] = value
	if tr := e.scene.active[e]; tr != nil {
		delete(tr.styles, name)
	}
	return e
}

// Text returns the text content.
func (e *Element) Text() string { return e.text }

// SetText sets the text content.
func (e *Element) SetText(s string) *Element {
	e.text = s
	return e
}

// On registers h for the native event type. A nil handler removes it.
func (e *Element) On(event string, h Handler) *Element {
	if h == nil {
		delete(e.handlers, event)
		return e
	}
	if e.handlers == nil {
		e.handlers = make(map[string]Handler)
	}
	e.handlers[event] = h
	return e
}

// HasHandler reports whether a handler is registered for event.
func (e *Element) HasHandler(event string) bool {
	_, ok := e.handlers[event]
	return ok
}

// Fire delivers a pointer event to the element's handler, if any.
func (e *Element) Fire(event string, x, y float64) bool {
	h, ok := e.handlers[event]
	if !ok {
		return false
	}
	h(PointerEvent{Type: event, X: x, Y: y, Target: e})
	return true
}

// Matches reports whether e matches a simple selector: "tag", ".class"
// or "tag.class".
func (e *Element) Matches(selector string) bool {
	tag, class, _ := strings.Cut(selector, ".")
	if tag != "" && tag != e.tag {
		return false
	}
	return class == "" || e.HasClass(class)
}

// SelectAll returns the direct children matching selector.
func (e *Element) SelectAll(selector string) []*Element {
	var out []*Element
	for _, c := range e.children {
		if c.Matches(selector) {
			out = append(out, c)
		}
	}
	return out
}

// Select returns the first direct child matching selector, or nil.
func (e *Element) Select(selector string) *Element {
	for _, c := range e.children {
		if c.Matches(selector) {
			return c
		}
	}
	return nil
}

// inheritedStyle resolves a style property through the ancestors.
func (e *Element) inheritedStyle(name string) string {
	for n := e; n != nil; n = n.parent {
		if v, ok := n.styles[name]; ok {
			return v
		}
	}
	return ""
}

// FontStyle is the text style the element renders with, including
// properties inherited from its ancestors.
func (e *Element) FontStyle() textmetrics.Style {
	css := make(map[string]string, 4)
	for _, k := range []string{"font-family", "font-size", "font-weight", "font-style"} {
		css[k] = e.inheritedStyle(k)
	}
	return textmetrics.StyleFromCSS(css)
}

// BBox returns the bounding box of a text element in its own user space,
// including the x, y and dy attributes. Only attached elements can be
// measured.
func (e *Element) BBox() (textmetrics.Box, error) {
	if !e.Attached() {
		return textmetrics.Box{}, errors.New(errors.ErrCodeMeasure, "cannot measure detached <%s>", e.tag)
	}
	style := e.FontStyle()
	box, err := e.scene.measurer.Measure(e.text, style)
	if err != nil {
		return textmetrics.Box{}, errors.Wrap(errors.ErrCodeMeasure, err, "measure %q", e.text)
	}
	box.X += e.AttrNum("x")
	box.Y += e.AttrNum("y") + Length(e.attrs["dy"], style.Size)
	return box, nil
}

// Length resolves an SVG length ("4", "4px", "0.85em") against a font
// size.
func Length(v string, fontSize float64) float64 {
	v = strings.TrimSpace(v)
	if em, ok := strings.CutSuffix(v, "em"); ok {
		n, _ := strconv.ParseFloat(em, 64)
		return n * fontSize
	}
	n, _ := strconv.ParseFloat(strings.TrimSuffix(v, "px"), 64)
	return n
}

// FormatNum formats a coordinate the way attributes are written.
func FormatNum(v float64) string {
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
