// Package pipeline turns an event source into rendered files.
//
// A run has three stages:
//
//  1. Load: read events from a [source.Source]
//  2. Render: draw the timeline once, with transitions disabled, and
//     serialise it as SVG and as a JSON label layout
//  3. Convert: produce PNG and PDF from the SVG with rsvg-convert
//
// Artifacts are cached by the content hash of the events and the render
// configuration, so re-running on unchanged input does no work. The CLI,
// the HTTP server and the preview all go through a [Runner]:
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source: source.File{Path: "events.yaml"},
//	    Config: config.Default(),
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/timeline/pkg/config"
	"github.com/matzehuels/timeline/pkg/errors"
	"github.com/matzehuels/timeline/pkg/source"
	"github.com/matzehuels/timeline/pkg/timeline"
)

// Options configures one run.
type Options struct {
	Source source.Source
	Config config.File

	// Refresh ignores cached entries; fresh results are still stored.
	Refresh bool

	// CacheEvents caches what Source loads for cache.TTLEvents. Meant for
	// remote stores; files are cheap to re-read.
	CacheEvents bool

	// Logger overrides the runner's logger for this run.
	Logger *log.Logger
}

// Validate checks the options before any work is done.
func (o *Options) Validate() error {
	if o.Source == nil {
		return errors.New(errors.ErrCodeInvalidInput, "an event source is required")
	}
	return o.Config.Validate()
}

// Result is the outcome of a run.
type Result struct {
	Events     []timeline.Event
	EventsHash string

	// Artifacts holds the output of every requested format.
	Artifacts map[string][]byte

	// Drawing is nil when every artifact came from the cache.
	Drawing *Drawing

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats records timings and sizes of a run.
type Stats struct {
	EventCount int
	Layers     int
	LoadTime   time.Duration
	RenderTime time.Duration
}

// CacheInfo records which stages were served from the cache.
type CacheInfo struct {
	EventsHit bool
	RenderHit bool // every artifact was cached
}
