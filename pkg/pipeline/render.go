package pipeline

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/matzehuels/timeline/pkg/chart"
	"github.com/matzehuels/timeline/pkg/config"
	"github.com/matzehuels/timeline/pkg/layout"
	"github.com/matzehuels/timeline/pkg/scale"
	"github.com/matzehuels/timeline/pkg/scene"
	"github.com/matzehuels/timeline/pkg/textmetrics"
	"github.com/matzehuels/timeline/pkg/timeline"
)

// Drawing is a settled timeline ready to serialise.
type Drawing struct {
	Chart    *chart.Chart
	Timeline *timeline.Timeline
}

// Draw renders events into a new chart in a single settled pass. The
// chart may have grown if auto-fit is on. A nil measurer uses the
// embedded Go fonts. Transitions are off unless sceneOpts set a
// duration; they then apply to later passes on the returned drawing.
func Draw(events []timeline.Event, cfg config.File, m textmetrics.Measurer, sceneOpts ...scene.Option) (*Drawing, error) {
	data := timeline.Data(events)
	if data == nil {
		data = []any{}
	}
	opts, err := cfg.TimelineOptions(data)
	if err != nil {
		return nil, err
	}
	sceneOpts = append([]scene.Option{scene.WithDuration(0), scene.WithMeasurer(m)}, sceneOpts...)
	c := chart.New(cfg.ChartOptions(), sceneOpts...)
	tl, err := timeline.New(c, opts)
	if err != nil {
		return nil, err
	}
	if err := c.SetData(data); err != nil {
		return nil, err
	}
	c.Scene().Settle()
	return &Drawing{Chart: c, Timeline: tl}, nil
}

// SVG serialises the drawing.
func (d *Drawing) SVG() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Chart.WriteSVG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Layout is the JSON export of a drawing: where every label ended up.
type Layout struct {
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Direction string  `json:"direction"`
	Layers    int     `json:"layers"`
	Labels    []Label `json:"labels"`
}

// Label is one placed label. X and Y are relative to the axis group.
type Label struct {
	Key     string   `json:"key,omitempty"`
	Text    string   `json:"text"`
	Time    float64  `json:"time"`
	Date    string   `json:"date,omitempty"` // set for time scales
	EndTime *float64 `json:"end_time,omitempty"`
	Layer   int      `json:"layer"`
	X       float64  `json:"x"`
	Y       float64  `json:"y"`
	Width   float64  `json:"width"`
	Height  float64  `json:"height"`
}

// Layout extracts the label placements of the last pass.
func (d *Drawing) Layout() Layout {
	opts := d.Timeline.Options()
	_, isTime := opts.Scale.(*scale.Time)

	nodes := d.Timeline.Nodes()
	out := Layout{
		Width:     d.Chart.Width(),
		Height:    d.Chart.Height(),
		Direction: string(opts.Direction),
		Layers:    d.Timeline.Stats().Layers,
		Labels:    make([]Label, 0, len(nodes)),
	}
	for _, n := range nodes {
		out.Labels = append(out.Labels, label(n, isTime))
	}
	return out
}

func label(n *layout.Node, isTime bool) Label {
	l := Label{
		Layer:  n.Layer,
		X:      n.X,
		Y:      n.Y,
		Width:  n.Width,
		Height: n.Height,
	}
	if ev, ok := n.Data.(timeline.Event); ok {
		l.Key, l.Text, l.Time, l.EndTime = ev.Key, ev.Text, ev.Time, ev.EndTime
		if isTime {
			l.Date = scale.FromMillis(ev.Time).Format(time.RFC3339)
		}
	}
	return l
}

// JSON serialises the layout.
func (d *Drawing) JSON() ([]byte, error) {
	return json.MarshalIndent(d.Layout(), "", "  ")
}
