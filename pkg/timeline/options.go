package timeline

import (
	"github.com/matzehuels/timeline/pkg/errors"
	"github.com/matzehuels/timeline/pkg/layout"
	"github.com/matzehuels/timeline/pkg/layout/force"
	"github.com/matzehuels/timeline/pkg/layout/linkpath"
	"github.com/matzehuels/timeline/pkg/scale"
)

// Transparent is the DotColor/EndDotColor sentinel that draws markers as
// thin stroked ticks instead of filled circles.
const Transparent = "transparent"

// Padding is the space between a label's text and its background.
type Padding struct {
	Left   float64 `json:"left" toml:"left"`
	Right  float64 `json:"right" toml:"right"`
	Top    float64 `json:"top" toml:"top"`
	Bottom float64 `json:"bottom" toml:"bottom"`
}

// Options configures a Timeline. Start from DefaultOptions; every Functor
// left unset falls back to its default accessor.
type Options struct {
	Scale      scale.Scale // mutated by every pass
	Domain     []float64   // nil: derived from the data and niced
	Direction  layout.Direction
	DotRadius  float64
	FormatAxis func(*Axis)

	LayerGap   float64
	LayerGapFn func(layer int) float64
	Force      force.Options

	KeyFn           Functor[string]
	TimeFn          Functor[float64]
	EndTimeFn       Functor[float64] // durations are drawn only when set
	TextFn          Functor[string]
	OffsetFn        Functor[float64]
	OffsetTangentFn Functor[float64]
	TextOffsetFn    Functor[float64]

	EndDotColor    string
	DotColor       string
	LabelBgColor   Functor[string]
	LabelTextColor string
	LineColor      string
	LinkColor      Functor[string]
	LabelPadding   Padding
	TextYOffset    string

	// TextStyle holds extra style properties for label text. "fill"
	// defaults to LabelTextColor.
	TextStyle map[string]Functor[string]

	// AutoFit grows the container after every pass so all labels fit.
	AutoFit bool

	// NewResolver and NewPathEngine build the layout collaborators for a
	// pass. Nil selects the force and linkpath packages.
	NewResolver   func(force.Options) layout.Resolver
	NewPathEngine func(layout.PathConfig) layout.PathEngine
}

// DefaultOptions returns a right-facing time scale timeline.
func DefaultOptions() Options {
	return Options{
		Scale:          scale.NewTime(),
		Direction:      layout.Right,
		DotRadius:      3,
		LayerGap:       60,
		Force:          force.DefaultOptions(),
		EndDotColor:    "#009900",
		DotColor:       "#222",
		LabelBgColor:   Const("#222"),
		LabelTextColor: "#fff",
		LineColor:      "#222",
		LinkColor:      Const("#222"),
		LabelPadding:   Padding{Left: 4, Right: 4, Top: 3, Bottom: 2},
		TextYOffset:    "0.85em",
	}
}

// Validate checks the values that would otherwise produce broken geometry.
// The direction is always checked; a bad direction fails fast.
func (o Options) Validate() error {
	if err := errors.ValidateDirection(string(o.Direction)); err != nil {
		return err
	}
	if err := errors.ValidateDomain(o.Domain); err != nil {
		return err
	}
	if o.Scale == nil {
		return errors.New(errors.ErrCodeInvalidConfig, "scale is required")
	}
	if o.DotRadius < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "dot radius must be non-negative, got %v", o.DotRadius)
	}
	if o.LayerGap < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "layer gap must be non-negative, got %v", o.LayerGap)
	}
	return o.Force.Validate()
}

// accessors is Options with every functor resolved.
type accessors struct {
	key           Functor[string]
	time          Functor[float64]
	endTime       Functor[float64]
	text          Functor[string]
	offset        Functor[float64]
	offsetTangent Functor[float64]
	textOffset    Functor[float64]
	labelBg       Functor[string]
	link          Functor[string]
	textStyle     map[string]Functor[string]
}

func (o *Options) accessors() accessors {
	style := make(map[string]Functor[string], len(o.TextStyle)+1)
	for k, f := range o.TextStyle {
		if f.IsSet() {
			style[k] = f
		}
	}
	if _, ok := style["fill"]; !ok {
		style["fill"] = Const(o.LabelTextColor)
	}
	return accessors{
		key:           o.KeyFn.Or(Func(eventKey)),
		time:          o.TimeFn.Or(EventTime),
		endTime:       o.EndTimeFn,
		text:          o.TextFn.Or(EventText),
		offset:        o.OffsetFn.Or(EventOffset),
		offsetTangent: o.OffsetTangentFn.Or(EventOffsetTangent),
		textOffset:    o.TextOffsetFn.Or(EventTextOffset),
		labelBg:       o.LabelBgColor.Or(Const("#222")),
		link:          o.LinkColor.Or(Const("#222")),
		textStyle:     style,
	}
}

func (o *Options) resolver() layout.Resolver {
	if o.NewResolver != nil {
		return o.NewResolver(o.Force)
	}
	return force.New(o.Force)
}

func (o *Options) pathEngine(cfg layout.PathConfig) layout.PathEngine {
	if o.NewPathEngine != nil {
		return o.NewPathEngine(cfg)
	}
	return linkpath.New(cfg)
}
