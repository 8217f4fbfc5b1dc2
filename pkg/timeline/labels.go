package timeline

import (
	"github.com/matzehuels/timeline/pkg/layout"
	"github.com/matzehuels/timeline/pkg/scene"
)

var labelEvents = map[string]string{
	"click":      "labelClick",
	"mouseover":  "labelMouseover",
	"mousemove":  "labelMousemove",
	"mouseenter": "labelMouseenter",
	"mouseleave": "labelMouseleave",
	"mouseout":   "labelMouseout",
	"dragstart":  "labelDragStart",
	"drag":       "labelDrag",
	"dragend":    "labelDragEnd",
}

// drawLabels reconciles one label group per resolved node. nodes[i]
// belongs to recs[i].
func (t *Timeline) drawLabels(layer *scene.Element, recs []record, nodes []*layout.Node, g layout.Geometry, nodeHeight float64) JoinStats {
	o := &t.opts
	transforms := make([]string, len(nodes))
	bgs := make([]shapeProps, len(nodes))
	for i, n := range nodes {
		pt := g.LabelTransform(n, nodeHeight, recs[i].offsets)
		transforms[i] = translate(pt.X, pt.Y)
		bgs[i].num("width", n.Width).num("height", n.Height).style("fill", recs[i].labelBg)
	}

	return join(layer, "g.label-g", "g", keys(recs),
		func(el *scene.Element, i int) {
			el.Classed("label-g", true).SetDatum(recs[i].datum).SetAttr("transform", transforms[i])
			for native, custom := range labelEvents {
				el.On(native, t.chart.DispatchAs(custom))
			}
			bg := el.Append("rect").Classed("label-bg", true).SetAttrNum("rx", 2).SetAttrNum("ry", 2)
			bgs[i].set(bg)
			text := el.Append("text").Classed("label-text", true)
			setLabelText(text, &recs[i], o, nil)
		},
		func(el *scene.Element, i int) {
			el.SetDatum(recs[i].datum)
			el.Animate().Attr("transform", transforms[i])
			if bg := el.Select("rect.label-bg"); bg != nil {
				bgs[i].animate(bg)
			}
			if text := el.Select("text.label-text"); text != nil {
				setLabelText(text, &recs[i], o, text.Animate())
			}
		})
}
