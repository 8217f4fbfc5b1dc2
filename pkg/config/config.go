// Package config reads render settings from TOML files.
//
// A configuration file overrides the defaults key by key; keys it does not
// mention keep their default values. Unknown keys are rejected so typos do
// not pass silently:
//
//	[chart]
//	width = 600
//	height = 400
//
//	[timeline]
//	direction = "down"
//	scale = "time"
//	domain = ["2024-01-01", "2024-12-31"]
//	label_bg_color = "#1f77b4"
//
//	[timeline.force]
//	node_spacing = 4
//	max_layers = 2
//
//	[output]
//	formats = ["svg", "png"]
//	png_scale = 2
package config

import (
	"io"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/timeline/pkg/chart"
	"github.com/matzehuels/timeline/pkg/errors"
	"github.com/matzehuels/timeline/pkg/layout"
	"github.com/matzehuels/timeline/pkg/layout/force"
	"github.com/matzehuels/timeline/pkg/render"
	"github.com/matzehuels/timeline/pkg/scale"
	"github.com/matzehuels/timeline/pkg/source"
	"github.com/matzehuels/timeline/pkg/timeline"
)

// File is a complete render configuration.
type File struct {
	Chart    Chart    `toml:"chart" json:"chart"`
	Timeline Timeline `toml:"timeline" json:"timeline"`
	Output   Output   `toml:"output" json:"output"`
}

// Chart sizes the drawing.
type Chart struct {
	Width  float64       `toml:"width" json:"width"`
	Height float64       `toml:"height" json:"height"`
	Margin layout.Margin `toml:"margin" json:"margin"`
}

// Timeline holds the timeline options that can be written down. Colors
// apply to every event.
type Timeline struct {
	Direction      string            `toml:"direction" json:"direction"`
	Scale          string            `toml:"scale" json:"scale"`
	Domain         []source.Stamp    `toml:"domain" json:"domain,omitempty"`
	DotRadius      float64           `toml:"dot_radius" json:"dot_radius"`
	LayerGap       float64           `toml:"layer_gap" json:"layer_gap"`
	DotColor       string            `toml:"dot_color" json:"dot_color"`
	EndDotColor    string            `toml:"end_dot_color" json:"end_dot_color"`
	LabelBgColor   string            `toml:"label_bg_color" json:"label_bg_color"`
	LabelTextColor string            `toml:"label_text_color" json:"label_text_color"`
	LineColor      string            `toml:"line_color" json:"line_color"`
	LinkColor      string            `toml:"link_color" json:"link_color"`
	LabelPadding   timeline.Padding  `toml:"label_padding" json:"label_padding"`
	TextYOffset    string            `toml:"text_y_offset" json:"text_y_offset"`
	TextStyle      map[string]string `toml:"text_style" json:"text_style,omitempty"`
	AutoFit        bool              `toml:"auto_fit" json:"auto_fit"`

	// EndTimes draws durations. Unset: on when any event has an end time.
	EndTimes *bool `toml:"end_times" json:"end_times,omitempty"`

	Force force.Options `toml:"force" json:"force"`
}

// Output selects what a render produces.
type Output struct {
	Formats  []string `toml:"formats" json:"formats"`
	PNGScale float64  `toml:"png_scale" json:"png_scale"`
}

// Default returns the settings used when no file is given.
func Default() File {
	c := chart.DefaultOptions()
	t := timeline.DefaultOptions()
	return File{
		Chart: Chart{Width: c.InitialWidth, Height: 600, Margin: c.Margin},
		Timeline: Timeline{
			Direction:      string(t.Direction),
			Scale:          string(scale.KindTime),
			DotRadius:      t.DotRadius,
			LayerGap:       t.LayerGap,
			DotColor:       t.DotColor,
			EndDotColor:    t.EndDotColor,
			LabelBgColor:   "#222",
			LabelTextColor: t.LabelTextColor,
			LineColor:      t.LineColor,
			LinkColor:      "#222",
			LabelPadding:   t.LabelPadding,
			TextYOffset:    t.TextYOffset,
			AutoFit:        true,
			Force:          force.DefaultOptions(),
		},
		Output: Output{Formats: []string{render.FormatSVG}, PNGScale: 2},
	}
}

// Load reads a configuration file over the defaults.
func Load(path string) (File, error) {
	if err := errors.ValidatePath(path); err != nil {
		return File{}, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return File{}, errors.New(errors.ErrCodeFileNotFound, "config file %s does not exist", path)
	}
	if err != nil {
		return File{}, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return File{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", path)
	}
	return cfg, nil
}

// Decode reads TOML over the defaults and validates the result.
func Decode(r io.Reader) (File, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return File{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse TOML")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return File{}, errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return File{}, err
	}
	return cfg, nil
}

// Validate checks every value that would fail later in a render.
func (f File) Validate() error {
	if f.Chart.Width <= 0 || f.Chart.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"chart size must be positive, got %vx%v", f.Chart.Width, f.Chart.Height)
	}
	if err := errors.ValidateDirection(f.Timeline.Direction); err != nil {
		return err
	}
	if scale.New(scale.Kind(f.Timeline.Scale)) == nil {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown scale %q (must be time or linear)", f.Timeline.Scale)
	}
	if err := errors.ValidateDomain(f.domain()); err != nil {
		return err
	}
	if len(f.Output.Formats) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "at least one output format is required")
	}
	for _, format := range f.Output.Formats {
		if err := errors.ValidateFormat(format, render.Formats...); err != nil {
			return err
		}
	}
	if f.Output.PNGScale <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "png_scale must be positive, got %v", f.Output.PNGScale)
	}
	return f.Timeline.Force.Validate()
}

func (f File) domain() []float64 {
	if f.Timeline.Domain == nil {
		return nil
	}
	d := make([]float64, len(f.Timeline.Domain))
	for i, v := range f.Timeline.Domain {
		d[i] = float64(v)
	}
	return d
}

// ChartOptions returns the container settings.
func (f File) ChartOptions() chart.Options {
	return chart.Options{
		Margin:        f.Chart.Margin,
		InitialWidth:  f.Chart.Width,
		InitialHeight: f.Chart.Height,
	}
}

// TimelineOptions returns timeline options for rendering data. A fresh
// scale is created on every call.
func (f File) TimelineOptions(data []any) (timeline.Options, error) {
	if err := f.Validate(); err != nil {
		return timeline.Options{}, err
	}
	t := f.Timeline
	o := timeline.DefaultOptions()
	o.Scale = scale.New(scale.Kind(t.Scale))
	o.Domain = f.domain()
	o.Direction = layout.Direction(t.Direction)
	o.DotRadius = t.DotRadius
	o.LayerGap = t.LayerGap
	o.Force = t.Force
	o.DotColor = t.DotColor
	o.EndDotColor = t.EndDotColor
	o.LabelBgColor = timeline.Const(t.LabelBgColor)
	o.LabelTextColor = t.LabelTextColor
	o.LineColor = t.LineColor
	o.LinkColor = timeline.Const(t.LinkColor)
	o.LabelPadding = t.LabelPadding
	o.TextYOffset = t.TextYOffset
	o.AutoFit = t.AutoFit

	if len(t.TextStyle) > 0 {
		o.TextStyle = make(map[string]timeline.Functor[string], len(t.TextStyle))
		for k, v := range t.TextStyle {
			o.TextStyle[k] = timeline.Const(v)
		}
	}

	endTimes := timeline.HasEndTimes(data)
	if t.EndTimes != nil {
		endTimes = *t.EndTimes
	}
	if endTimes {
		o.EndTimeFn = timeline.EventEndTime
	}
	return o, o.Validate()
}
