package layout

import (
	"math"

	"github.com/matzehuels/timeline/pkg/errors"
)

// Direction is the side of the axis the labels hang towards.
type Direction string

// The four supported orientations.
const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// Directions lists every supported direction in a stable order.
var Directions = []Direction{Right, Left, Up, Down}

// Axis names a screen axis.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) String() string {
	if a == AxisX {
		return "x"
	}
	return "y"
}

// Orient is the side on which axis ticks are drawn.
type Orient int

const (
	OrientTop Orient = iota
	OrientRight
	OrientBottom
	OrientLeft
)

func (o Orient) String() string {
	return [...]string{"top", "right", "bottom", "left"}[o]
}

// Point is a screen-space translation.
type Point struct {
	X, Y float64
}

// Offsets are the per-event displacements applied on top of the resolved
// layout.
type Offsets struct {
	Offset        float64 // perpendicular, applied to marker, label and link
	OffsetTangent float64 // along the axis, applied to marker and link
	TextOffset    float64 // along the axis, applied to the label only
}

// Geometry is the per-direction formula table.
type Geometry struct {
	Direction Direction
	Primary   Axis   // time axis
	Secondary Axis   // displacement axis
	Orient    Orient // where the axis ticks attach

	rangeExtent   func(innerW, innerH float64) float64
	axisTransform func(innerW, innerH float64) Point
	label         func(n *Node, nodeHeight float64, o Offsets) Point
	fitExtent     func(n *Node) float64
}

var geometries = map[Direction]Geometry{
	Right: {
		Direction: Right, Primary: AxisY, Secondary: AxisX, Orient: OrientLeft,
		rangeExtent:   func(_, h float64) float64 { return h },
		axisTransform: func(_, _ float64) Point { return Point{} },
		label: func(n *Node, _ float64, o Offsets) Point {
			return Point{n.X + o.Offset, o.OffsetTangent + o.TextOffset + n.Y - n.DY/2}
		},
		fitExtent: func(n *Node) float64 { return math.Abs(n.X + n.DX) },
	},
	Left: {
		Direction: Left, Primary: AxisY, Secondary: AxisX, Orient: OrientRight,
		rangeExtent:   func(_, h float64) float64 { return h },
		axisTransform: func(w, _ float64) Point { return Point{X: w} },
		label: func(n *Node, nodeHeight float64, o Offsets) Point {
			return Point{n.X + nodeHeight - n.Width - o.Offset, o.OffsetTangent + o.TextOffset + n.Y - n.DY/2}
		},
		fitExtent: func(n *Node) float64 { return math.Abs(n.X) },
	},
	Up: {
		Direction: Up, Primary: AxisX, Secondary: AxisY, Orient: OrientBottom,
		rangeExtent:   func(w, _ float64) float64 { return w },
		axisTransform: func(_, h float64) Point { return Point{Y: h} },
		label: func(n *Node, _ float64, o Offsets) Point {
			return Point{o.OffsetTangent + o.TextOffset + n.X - n.DX/2, n.Y + o.Offset}
		},
		fitExtent: func(n *Node) float64 { return math.Abs(n.Y) },
	},
	Down: {
		Direction: Down, Primary: AxisX, Secondary: AxisY, Orient: OrientTop,
		rangeExtent:   func(w, _ float64) float64 { return w },
		axisTransform: func(_, _ float64) Point { return Point{} },
		label: func(n *Node, _ float64, o Offsets) Point {
			return Point{o.OffsetTangent + o.TextOffset + n.X - n.DX/2, n.Y - o.Offset}
		},
		fitExtent: func(n *Node) float64 { return math.Abs(n.Y + n.DY) },
	},
}

// ParseDirection converts s to a Direction, failing on unknown values.
func ParseDirection(s string) (Direction, error) {
	if err := errors.ValidateDirection(s); err != nil {
		return "", err
	}
	return Direction(s), nil
}

// GeometryFor returns the formula table for d.
func GeometryFor(d Direction) (Geometry, error) {
	g, ok := geometries[d]
	if !ok {
		return Geometry{}, errors.ValidateDirection(string(d))
	}
	return g, nil
}

// Vertical reports whether the time axis runs top to bottom.
func (d Direction) Vertical() bool { return d == Left || d == Right }

// RangeExtent is the pixel length of the time axis for a container of the
// given inner size.
func (g Geometry) RangeExtent(innerW, innerH float64) float64 {
	return g.rangeExtent(innerW, innerH)
}

// AxisTransform is the translation of the main group so the axis sits on
// the correct edge.
func (g Geometry) AxisTransform(innerW, innerH float64) Point {
	return g.axisTransform(innerW, innerH)
}

// LabelTransform is the final translation of a resolved node's label box.
func (g Geometry) LabelTransform(n *Node, nodeHeight float64, o Offsets) Point {
	return g.label(n, nodeHeight, o)
}

// LinkTransform is the translation applied to a connector path. Path
// engines emit axis-agnostic coordinates, so offsets are swapped into
// screen order here.
func (g Geometry) LinkTransform(o Offsets) Point {
	if g.Primary == AxisY {
		return Point{o.Offset, o.OffsetTangent}
	}
	return Point{o.OffsetTangent, o.Offset}
}

// FitExtent is the distance from the axis to the far edge of n's label.
func (g Geometry) FitExtent(n *Node) float64 {
	return g.fitExtent(n)
}

// XY maps a (primary, secondary) coordinate pair to screen order.
func (g Geometry) XY(primary, secondary float64) (x, y float64) {
	if g.Primary == AxisY {
		return secondary, primary
	}
	return primary, secondary
}

// SecondaryExtent is the label's extent perpendicular to the axis: its
// width when labels hang sideways, its height otherwise.
func (g Geometry) SecondaryExtent(n *Node) float64 {
	if g.Primary == AxisY {
		return n.Width
	}
	return n.Height
}

// PrimaryExtent is the label's extent along the axis.
func (g Geometry) PrimaryExtent(width, height float64) float64 {
	if g.Primary == AxisY {
		return height
	}
	return width
}
