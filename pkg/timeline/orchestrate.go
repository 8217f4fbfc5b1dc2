package timeline

import (
	"math"

	"github.com/matzehuels/timeline/pkg/errors"
	"github.com/matzehuels/timeline/pkg/layout"
	"github.com/matzehuels/timeline/pkg/scale"
)

// configureScale sets the domain from the override or the data extent
// (niced) and the range from the axis length. Non-finite times do not
// count towards the extent.
func configureScale(sc scale.Scale, recs []record, domain []float64, extent float64) {
	switch {
	case domain != nil:
		sc.SetDomain(domain[0], domain[1])
	default:
		if lo, hi, ok := timeExtent(recs); ok {
			sc.SetDomain(lo, hi)
			sc.Nice()
		}
	}
	sc.SetRange(0, extent)
}

func timeExtent(recs []record) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for i := range recs {
		v := recs[i].time
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo, hi, ok = min(lo, v), max(hi, v), true
	}
	return lo, hi, ok
}

// buildNodes creates one node per record, in record order.
func (t *Timeline) buildNodes(recs []record, sc scale.Scale, g layout.Geometry) ([]*layout.Node, error) {
	nodes := make([]*layout.Node, 0, len(recs))
	for i := range recs {
		r := &recs[i]
		w, h, err := t.measurer.measure(r, &t.opts)
		if err != nil {
			return nil, err
		}
		n := layout.NewNode(sc.Project(r.time), g.PrimaryExtent(w, h), r.datum)
		n.Width, n.Height, n.Index = w, h, r.index
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// arrange resolves overlaps with a fresh resolver and lets the path
// engine assign screen boxes. It returns the engine and the node height
// it was seeded with. An empty node set is left alone.
func (t *Timeline) arrange(nodes []*layout.Node, g layout.Geometry) (layout.PathEngine, float64, error) {
	o := &t.opts
	nodeHeight := layout.MaxSecondaryExtent(g, nodes)
	pe := o.pathEngine(layout.PathConfig{
		NodeHeight: nodeHeight,
		LayerGap:   o.LayerGap,
		LayerGapFn: o.LayerGapFn,
		Direction:  o.Direction,
	})
	if len(nodes) == 0 {
		return pe, nodeHeight, nil
	}
	if err := o.resolver().Resolve(nodes); err != nil {
		code := errors.GetCode(err)
		if code == "" {
			code = errors.ErrCodeInternal
		}
		return nil, 0, errors.Wrap(code, err, "resolve label overlap")
	}
	pe.Layout(nodes)
	return pe, nodeHeight, nil
}

func layerCount(nodes []*layout.Node) int {
	n := 0
	for _, node := range nodes {
		n = max(n, node.Layer+1)
	}
	return n
}
