package timeline

import (
	"github.com/matzehuels/timeline/pkg/layout"
	"github.com/matzehuels/timeline/pkg/scene"
)

// linkProps is the connector of one resolved node: the engine's path,
// shifted by the event's offsets in screen order.
func linkProps(pe layout.PathEngine, g layout.Geometry, n *layout.Node, r *record) shapeProps {
	var p shapeProps
	lt := g.LinkTransform(r.offsets)
	p.attr("d", pe.GeneratePath(n)).attr("transform", translate(lt.X, lt.Y))
	p.style("stroke", r.link).style("fill", "none")
	return p
}

// drawLinks reconciles one connector per resolved node.
func (t *Timeline) drawLinks(layer *scene.Element, recs []record, nodes []*layout.Node, g layout.Geometry, pe layout.PathEngine) JoinStats {
	props := make([]shapeProps, len(nodes))
	for i, n := range nodes {
		props[i] = linkProps(pe, g, n, &recs[i])
	}
	return join(layer, "path.link", "path", keys(recs),
		func(el *scene.Element, i int) {
			el.Classed("link", true).SetDatum(recs[i].datum)
			props[i].set(el)
		},
		func(el *scene.Element, i int) {
			el.SetDatum(recs[i].datum)
			props[i].animate(el)
		})
}
