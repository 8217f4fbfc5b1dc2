package layout

// Margin is the space between the container edge and the drawing area.
type Margin struct {
	Left   float64 `json:"left" toml:"left"`
	Right  float64 `json:"right" toml:"right"`
	Top    float64 `json:"top" toml:"top"`
	Bottom float64 `json:"bottom" toml:"bottom"`
}

// FitResult is the container size requested by [Fit]. Exactly one of
// Width and Height is set.
type FitResult struct {
	Width, Height float64
	HasWidth      bool
	HasHeight     bool
	Extent        float64 // largest label extent, before margins
}

// Fit computes the container size that contains every resolved node on
// the secondary axis. Up and down grow the height, left and right the
// width. An empty node set yields an extent of 0.
func Fit(g Geometry, nodes []*Node, m Margin) FitResult {
	var extent float64
	for _, n := range nodes {
		extent = max(extent, g.FitExtent(n))
	}
	if g.Secondary == AxisY {
		return FitResult{Height: extent + m.Top + m.Bottom, HasHeight: true, Extent: extent}
	}
	return FitResult{Width: extent + m.Left + m.Right, HasWidth: true, Extent: extent}
}
