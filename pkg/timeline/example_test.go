package timeline_test

import (
	"fmt"

	"github.com/matzehuels/timeline/pkg/chart"
	"github.com/matzehuels/timeline/pkg/scale"
	"github.com/matzehuels/timeline/pkg/scene"
	"github.com/matzehuels/timeline/pkg/textmetrics"
	"github.com/matzehuels/timeline/pkg/timeline"
)

func Example() {
	c := chart.New(chart.DefaultOptions(),
		scene.WithDuration(0),
		scene.WithMeasurer(textmetrics.Fixed{CharWidth: 0.5, LineHeight: 1.25}))

	opts := timeline.DefaultOptions()
	opts.Scale = scale.NewLinear()
	tl, err := timeline.New(c, opts)
	if err != nil {
		panic(err)
	}

	err = c.SetData(timeline.Data([]timeline.Event{
		{Key: "kickoff", Time: 0, Text: "Kickoff"},
		{Key: "beta", Time: 5, Text: "Beta"},
		{Key: "launch", Time: 10, Text: "Launch"},
	}))
	if err != nil {
		panic(err)
	}

	for _, n := range tl.Nodes() {
		fmt.Printf("layer %d at %g\n", n.Layer, n.Current)
	}
	// Output:
	// layer 0 at 10
	// layer 0 at 180
	// layer 0 at 360
}
