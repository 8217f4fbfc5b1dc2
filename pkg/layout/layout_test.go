package layout

import (
	"testing"

	"github.com/matzehuels/timeline/pkg/errors"
)

func TestParseDirection(t *testing.T) {
	for _, d := range Directions {
		got, err := ParseDirection(string(d))
		if err != nil || got != d {
			t.Errorf("ParseDirection(%q) = %q, %v", d, got, err)
		}
	}
	if _, err := ParseDirection("sideways"); !errors.Is(err, errors.ErrCodeInvalidDirection) {
		t.Errorf("ParseDirection(sideways) error = %v, want INVALID_DIRECTION", err)
	}
	if _, err := GeometryFor("diagonal"); err == nil {
		t.Error("GeometryFor(diagonal) should fail")
	}
}

func TestGeometryAxes(t *testing.T) {
	tests := []struct {
		dir       Direction
		primary   Axis
		orient    Orient
		extent    float64
		transform Point
	}{
		{Right, AxisY, OrientLeft, 300, Point{}},
		{Left, AxisY, OrientRight, 300, Point{X: 200}},
		{Up, AxisX, OrientBottom, 200, Point{Y: 300}},
		{Down, AxisX, OrientTop, 200, Point{}},
	}

	for _, tt := range tests {
		t.Run(string(tt.dir), func(t *testing.T) {
			g, err := GeometryFor(tt.dir)
			if err != nil {
				t.Fatal(err)
			}
			if g.Primary != tt.primary || g.Orient != tt.orient {
				t.Errorf("primary/orient = %v/%v, want %v/%v", g.Primary, g.Orient, tt.primary, tt.orient)
			}
			if g.Secondary == g.Primary {
				t.Error("secondary axis equals primary")
			}
			if got := g.RangeExtent(200, 300); got != tt.extent {
				t.Errorf("RangeExtent = %v, want %v", got, tt.extent)
			}
			if got := g.AxisTransform(200, 300); got != tt.transform {
				t.Errorf("AxisTransform = %v, want %v", got, tt.transform)
			}
		})
	}
}

func TestLabelTransformMirrors(t *testing.T) {
	right, _ := GeometryFor(Right)
	left, _ := GeometryFor(Left)
	o := Offsets{Offset: 5, OffsetTangent: 2, TextOffset: 1}

	rn := &Node{X: 60, Y: 100, DX: 50, DY: 20, Width: 50}
	if got, want := right.LabelTransform(rn, 50, o), (Point{65, 93}); got != want {
		t.Errorf("right LabelTransform = %v, want %v", got, want)
	}

	// left: a narrower label is pushed against the axis side of the layer
	ln := &Node{X: -110, Y: 100, DX: 50, DY: 20, Width: 30}
	if got, want := left.LabelTransform(ln, 50, o), (Point{-95, 93}); got != want {
		t.Errorf("left LabelTransform = %v, want %v", got, want)
	}
}

func TestLinkTransform(t *testing.T) {
	o := Offsets{Offset: 3, OffsetTangent: 7}
	right, _ := GeometryFor(Right)
	down, _ := GeometryFor(Down)
	if got := right.LinkTransform(o); got != (Point{3, 7}) {
		t.Errorf("right LinkTransform = %v", got)
	}
	if got := down.LinkTransform(o); got != (Point{7, 3}) {
		t.Errorf("down LinkTransform = %v", got)
	}
}

func TestFit(t *testing.T) {
	m := Margin{Left: 40, Right: 20, Top: 20, Bottom: 20}
	tests := []struct {
		dir        Direction
		node       *Node
		wantWidth  float64
		wantHeight float64
	}{
		{Right, &Node{X: 60, DX: 50}, 170, 0},
		{Left, &Node{X: -110, DX: 50}, 170, 0},
		{Down, &Node{Y: 60, DY: 30}, 0, 130},
		{Up, &Node{Y: -90, DY: 30}, 0, 130},
	}

	for _, tt := range tests {
		t.Run(string(tt.dir), func(t *testing.T) {
			g, _ := GeometryFor(tt.dir)
			got := Fit(g, []*Node{tt.node}, m)
			if got.Width != tt.wantWidth || got.Height != tt.wantHeight {
				t.Errorf("Fit = %+v, want width %v height %v", got, tt.wantWidth, tt.wantHeight)
			}
			if got.HasWidth == got.HasHeight {
				t.Errorf("exactly one dimension should be set: %+v", got)
			}
		})
	}
}

func TestFitEmpty(t *testing.T) {
	g, _ := GeometryFor(Down)
	got := Fit(g, nil, Margin{Top: 20, Bottom: 20})
	if got.Height != 40 || got.Extent != 0 {
		t.Errorf("Fit(empty) = %+v, want height 40", got)
	}
}

func TestLayerPos(t *testing.T) {
	c := PathConfig{NodeHeight: 20, LayerGap: 60}
	for layer, want := range []float64{60, 140, 220} {
		if got := c.LayerPos(layer); got != want {
			t.Errorf("LayerPos(%d) = %v, want %v", layer, got, want)
		}
	}
}

func TestMaxSecondaryExtent(t *testing.T) {
	nodes := []*Node{{Width: 40, Height: 15}, {Width: 80, Height: 12}}
	right, _ := GeometryFor(Right)
	up, _ := GeometryFor(Up)
	if got := MaxSecondaryExtent(right, nodes); got != 80 {
		t.Errorf("right = %v, want 80", got)
	}
	if got := MaxSecondaryExtent(up, nodes); got != 15 {
		t.Errorf("up = %v, want 15", got)
	}
}

func TestNodeOverlaps(t *testing.T) {
	a := NewNode(10, 10, nil)
	b := NewNode(20, 10, nil)
	if a.Overlaps(b, 1e-9) {
		t.Error("touching intervals should not overlap")
	}
	b.Current = 15
	if !a.Overlaps(b, 1e-9) {
		t.Error("intersecting intervals should overlap")
	}
	b.Layer = 1
	if a.Overlaps(b, 1e-9) {
		t.Error("nodes on different layers never overlap")
	}
	if b.Displacement() != -5 {
		t.Errorf("Displacement = %v, want -5", b.Displacement())
	}
}
