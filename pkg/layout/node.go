package layout

// Node is one label on the timeline for the duration of a single render
// pass. The builder fills Position, Size, Width, Height and Data; the
// resolver fills Current and Layer; the path engine fills X, Y, DX and DY.
type Node struct {
	Position float64 // ideal centre on the primary axis (projected time)
	Size     float64 // extent on the primary axis
	Width    float64 // full label box, independent of direction
	Height   float64
	Index    int // position of the source event in the pass input
	Data     any // source event, not owned

	Current float64 // resolved centre on the primary axis
	Layer   int     // resolved layer, 0 is closest to the axis

	X, Y, DX, DY float64 // screen box relative to the axis group
}

// NewNode creates a node at its ideal position.
func NewNode(position, size float64, data any) *Node {
	return &Node{Position: position, Size: size, Current: position, Data: data}
}

// ResolvedPosition is the start of the node's resolved interval on the
// primary axis.
func (n *Node) ResolvedPosition() float64 { return n.Current - n.Size/2 }

// ResolvedSize is the length of the node's resolved interval.
func (n *Node) ResolvedSize() float64 { return n.Size }

// ResolvedEnd is ResolvedPosition + ResolvedSize.
func (n *Node) ResolvedEnd() float64 { return n.Current + n.Size/2 }

// Displacement is how far resolution moved the node from its ideal spot.
func (n *Node) Displacement() float64 { return n.Current - n.Position }

// Overlaps reports whether n and o share a layer and their resolved
// intervals intersect by more than eps. Touching intervals do not overlap.
func (n *Node) Overlaps(o *Node, eps float64) bool {
	if n.Layer != o.Layer {
		return false
	}
	return n.ResolvedPosition() < o.ResolvedEnd()-eps && o.ResolvedPosition() < n.ResolvedEnd()-eps
}
