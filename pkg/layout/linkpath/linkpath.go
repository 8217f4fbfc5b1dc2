// Package linkpath places resolved labels in layers and draws the
// connectors between the axis and each label.
//
// Coordinates are produced in the axis group's frame: the axis runs
// through the origin, and labels hang towards positive X (right), negative
// X (left), negative Y (up) or positive Y (down).
package linkpath

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/timeline/pkg/layout"
)

// Renderer implements layout.PathEngine.
type Renderer struct {
	cfg layout.PathConfig
}

// New creates a renderer for the given configuration.
func New(cfg layout.PathConfig) *Renderer {
	return &Renderer{cfg: cfg}
}

// Config returns the renderer's configuration.
func (r *Renderer) Config() layout.PathConfig { return r.cfg }

// Layout sets the screen box of every node from its layer and resolved
// position.
func (r *Renderer) Layout(nodes []*layout.Node) {
	h := r.cfg.NodeHeight
	for _, n := range nodes {
		pos := r.cfg.LayerPos(n.Layer)
		switch r.cfg.Direction {
		case layout.Left:
			n.X, n.Y, n.DX, n.DY = -pos-h, n.Current, h, n.Size
		case layout.Right:
			n.X, n.Y, n.DX, n.DY = pos, n.Current, h, n.Size
		case layout.Up:
			n.X, n.Y, n.DX, n.DY = n.Current, -pos-h, n.Size, h
		case layout.Down:
			n.X, n.Y, n.DX, n.DY = n.Current, pos, n.Size, h
		}
	}
}

// waypoint is (along the axis, away from the axis).
type waypoint struct{ along, away float64 }

// waypoints runs from the event's time on the axis to the near edge of its
// label, crossing every layer in front of it in a straight line.
func (r *Renderer) waypoints(n *layout.Node) []waypoint {
	pts := []waypoint{{n.Position, 0}}
	for l := 0; l < n.Layer; l++ {
		pos := r.cfg.LayerPos(l)
		pts = append(pts, waypoint{n.Current, pos}, waypoint{n.Current, pos + r.cfg.NodeHeight})
	}
	return append(pts, waypoint{n.Current, r.cfg.LayerPos(n.Layer)})
}

// GeneratePath returns an SVG path: a smooth S-curve out of the axis into
// the first layer, straight runs through each crossed layer.
func (r *Renderer) GeneratePath(n *layout.Node) string {
	pts := r.waypoints(n)
	var b strings.Builder
	x, y := r.screen(pts[0])
	fmt.Fprintf(&b, "M%s,%s", num(x), num(y))
	for i := 1; i < len(pts); i++ {
		prev, cur := pts[i-1], pts[i]
		if prev.along == cur.along {
			x, y = r.screen(cur)
			fmt.Fprintf(&b, " L%s,%s", num(x), num(y))
			continue
		}
		mid := (prev.away + cur.away) / 2
		c1x, c1y := r.screen(waypoint{prev.along, mid})
		c2x, c2y := r.screen(waypoint{cur.along, mid})
		x, y = r.screen(cur)
		fmt.Fprintf(&b, " C%s,%s %s,%s %s,%s", num(c1x), num(c1y), num(c2x), num(c2y), num(x), num(y))
	}
	return b.String()
}

func (r *Renderer) screen(p waypoint) (x, y float64) {
	switch r.cfg.Direction {
	case layout.Left:
		return -p.away, p.along
	case layout.Up:
		return p.along, -p.away
	case layout.Down:
		return p.along, p.away
	default:
		return p.away, p.along
	}
}

func num(v float64) string {
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var _ layout.PathEngine = (*Renderer)(nil)
