package layout

// Resolver removes label overlap along the primary axis. Implementations
// mutate Current and Layer in place and must keep the time order of nodes
// within each layer.
type Resolver interface {
	Resolve(nodes []*Node) error
}

// PathConfig seeds a path engine.
type PathConfig struct {
	NodeHeight float64                 // label extent perpendicular to the axis
	LayerGap   float64                 // gap in front of every layer
	LayerGapFn func(layer int) float64 // overrides LayerGap per layer when set
	Direction  Direction
}

// Gap returns the gap in front of the given layer.
func (c PathConfig) Gap(layer int) float64 {
	if c.LayerGapFn != nil {
		return c.LayerGapFn(layer)
	}
	return c.LayerGap
}

// LayerPos is the distance from the axis to the near edge of a layer.
func (c PathConfig) LayerPos(layer int) float64 {
	var pos float64
	for i := 0; i <= layer; i++ {
		pos += c.Gap(i)
	}
	return pos + float64(layer)*c.NodeHeight
}

// PathEngine assigns screen boxes to resolved nodes and draws connectors
// from each node's time position to its label.
type PathEngine interface {
	Layout(nodes []*Node)
	GeneratePath(n *Node) string
}

// MaxSecondaryExtent is the node height a path engine should be seeded
// with: the largest label extent perpendicular to the axis.
func MaxSecondaryExtent(g Geometry, nodes []*Node) float64 {
	var m float64
	for _, n := range nodes {
		m = max(m, g.SecondaryExtent(n))
	}
	return m
}
