package linkpath

import (
	"strings"
	"testing"

	"github.com/matzehuels/timeline/pkg/layout"
)

func resolved(position, current float64, layer int) *layout.Node {
	n := layout.NewNode(position, 20, nil)
	n.Current = current
	n.Layer = layer
	return n
}

func TestLayoutBoxes(t *testing.T) {
	cfg := layout.PathConfig{NodeHeight: 50, LayerGap: 60}
	tests := []struct {
		dir          layout.Direction
		x, y, dx, dy float64
	}{
		{layout.Right, 60, 100, 50, 20},
		{layout.Left, -110, 100, 50, 20},
		{layout.Down, 100, 60, 20, 50},
		{layout.Up, 100, -110, 20, 50},
	}

	for _, tt := range tests {
		t.Run(string(tt.dir), func(t *testing.T) {
			cfg.Direction = tt.dir
			n := resolved(100, 100, 0)
			New(cfg).Layout([]*layout.Node{n})
			if n.X != tt.x || n.Y != tt.y || n.DX != tt.dx || n.DY != tt.dy {
				t.Errorf("box = (%v,%v,%v,%v), want (%v,%v,%v,%v)", n.X, n.Y, n.DX, n.DY, tt.x, tt.y, tt.dx, tt.dy)
			}
		})
	}
}

func TestLayoutSecondLayer(t *testing.T) {
	cfg := layout.PathConfig{NodeHeight: 50, LayerGap: 60, Direction: layout.Right}
	n := resolved(100, 100, 1)
	New(cfg).Layout([]*layout.Node{n})
	if n.X != 170 {
		t.Errorf("X = %v, want 170 (two gaps plus one layer)", n.X)
	}
}

func TestLayerGapFn(t *testing.T) {
	cfg := layout.PathConfig{
		NodeHeight: 10,
		LayerGap:   99,
		LayerGapFn: func(layer int) float64 { return float64(layer+1) * 5 },
		Direction:  layout.Down,
	}
	n := resolved(0, 0, 2)
	New(cfg).Layout([]*layout.Node{n})
	// gaps 5+10+15 plus two layers of 10
	if n.Y != 50 {
		t.Errorf("Y = %v, want 50", n.Y)
	}
}

func TestGeneratePath(t *testing.T) {
	tests := []struct {
		name string
		dir  layout.Direction
		node *layout.Node
		want string
	}{
		{"right straight", layout.Right, resolved(100, 100, 0), "M0,100 L60,100"},
		{"right curve", layout.Right, resolved(100, 120, 0), "M0,100 C30,100 30,120 60,120"},
		{"left curve", layout.Left, resolved(100, 120, 0), "M0,100 C-30,100 -30,120 -60,120"},
		{"up curve", layout.Up, resolved(100, 120, 0), "M100,0 C100,-30 120,-30 120,-60"},
		{"down curve", layout.Down, resolved(100, 120, 0), "M100,0 C100,30 120,30 120,60"},
		{"right second layer", layout.Right, resolved(100, 100, 1), "M0,100 L60,100 L110,100 L170,100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(layout.PathConfig{NodeHeight: 50, LayerGap: 60, Direction: tt.dir})
			if got := r.GeneratePath(tt.node); got != tt.want {
				t.Errorf("GeneratePath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGeneratePathStartsOnAxis(t *testing.T) {
	for _, dir := range layout.Directions {
		r := New(layout.PathConfig{NodeHeight: 30, LayerGap: 20, Direction: dir})
		p := r.GeneratePath(resolved(42, 80, 0))
		want := "M0,42"
		if !dir.Vertical() {
			want = "M42,0"
		}
		if !strings.HasPrefix(p, want) {
			t.Errorf("%s: path %q does not start at %s", dir, p, want)
		}
	}
}
