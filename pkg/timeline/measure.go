package timeline

import (
	"github.com/matzehuels/timeline/pkg/errors"
	"github.com/matzehuels/timeline/pkg/observability"
	"github.com/matzehuels/timeline/pkg/scene"
)

type measureKey struct {
	text  string
	style string
}

type footprint struct{ w, h float64 }

// labelMeasurer sizes labels by laying their text out in the hidden dummy
// layer. Raw text boxes are cached per text and style; padding is added
// on every call.
type labelMeasurer struct {
	layer *scene.Element
	cache map[measureKey]footprint
}

func newLabelMeasurer(layer *scene.Element) *labelMeasurer {
	return &labelMeasurer{layer: layer, cache: make(map[measureKey]footprint)}
}

func (m *labelMeasurer) reset() {
	clear(m.cache)
}

// measure returns the padded label box for r.
func (m *labelMeasurer) measure(r *record, o *Options) (w, h float64, err error) {
	key := measureKey{r.text, r.styleKey()}
	box, ok := m.cache[key]
	observability.Render().OnLabelMeasured(ok)
	if !ok {
		if box, err = m.render(r, o); err != nil {
			return 0, 0, err
		}
		m.cache[key] = box
	}
	p := o.LabelPadding
	return box.w + p.Left + p.Right, box.h + p.Top + p.Bottom, nil
}

func (m *labelMeasurer) render(r *record, o *Options) (footprint, error) {
	text := m.layer.Append("text").Classed("label-text", true)
	defer text.Remove()

	setLabelText(text, r, o, nil)
	box, err := text.BBox()
	if err != nil {
		return footprint{}, errors.Wrap(errors.ErrCodeMeasure, err, "label of event %d", r.index)
	}
	return footprint{box.Width, box.Height}, nil
}

// setLabelText writes the text, position and style of a label. With a
// transition the position and style are animated; the text itself always
// changes at once.
func setLabelText(el *scene.Element, r *record, o *Options, tr *scene.Transition) {
	el.SetText(r.text)
	p := o.LabelPadding
	if tr == nil {
		el.SetAttr("dy", o.TextYOffset).SetAttrNum("x", p.Left).SetAttrNum("y", p.Top)
		for _, s := range r.style {
			el.SetStyle(s.name, s.value)
		}
		return
	}
	tr.Attr("dy", o.TextYOffset).AttrNum("x", p.Left).AttrNum("y", p.Top)
	for _, s := range r.style {
		tr.Style(s.name, s.value)
	}
}
