package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/timeline/pkg/cache"
	"github.com/matzehuels/timeline/pkg/config"
	"github.com/matzehuels/timeline/pkg/observability"
	"github.com/matzehuels/timeline/pkg/render"
	"github.com/matzehuels/timeline/pkg/textmetrics"
	"github.com/matzehuels/timeline/pkg/timeline"
)

// Runner executes pipelines against a cache. It keeps no per-run state,
// so one Runner may serve concurrent runs.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Logger   *log.Logger
	Measurer textmetrics.Measurer

	// convert produces PNG and PDF; replaced in tests.
	convert func(ctx context.Context, svg []byte, format string, pngScale float64) ([]byte, error)
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// selects the default keyer and a nil logger the default logger. Labels
// are measured with the embedded Go fonts.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:    c,
		Keyer:    keyer,
		Logger:   logger,
		Measurer: textmetrics.New(),
		convert:  convert,
	}
}

func convert(ctx context.Context, svg []byte, format string, pngScale float64) ([]byte, error) {
	if format == render.FormatPNG {
		return render.ToPNG(ctx, svg, pngScale)
	}
	return render.ToPDF(ctx, svg)
}

// Execute loads, renders and converts, serving what it can from the
// cache.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	logger := r.logger(opts)

	loadStart := time.Now()
	events, hit, err := r.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result := &Result{Events: events}
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.EventCount = len(events)
	result.CacheInfo.EventsHit = hit

	if result.EventsHash, err = cache.HashJSON(events); err != nil {
		return nil, fmt.Errorf("hash events: %w", err)
	}

	start := time.Now()
	artifacts, drawing, renderHit, err := r.RenderWithCacheInfo(ctx, events, result.EventsHash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Drawing = drawing
	result.CacheInfo.RenderHit = renderHit
	result.Stats.RenderTime = time.Since(start)
	if drawing != nil {
		result.Stats.Layers = drawing.Timeline.Stats().Layers
	}

	logger.Info("rendered timeline",
		"source", opts.Source.ID(),
		"events", len(events),
		"formats", opts.Config.Output.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)
	return result, nil
}

// LoadWithCacheInfo loads the events of opts.Source and reports whether
// they came from the cache.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts Options) ([]timeline.Event, bool, error) {
	logger := r.logger(opts)
	id := opts.Source.ID()
	key := r.Keyer.EventsKey(id)

	if opts.CacheEvents && !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var events []timeline.Event
			if err := json.Unmarshal(data, &events); err == nil {
				observability.Cache().OnCacheHit(ctx, cache.KeyTypeEvents)
				logger.Debug("events from cache", "source", id, "events", len(events))
				return events, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, cache.KeyTypeEvents)
	}

	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, id)
	start := time.Now()
	events, err := opts.Source.Load(ctx)
	hooks.OnLoadComplete(ctx, id, len(events), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}
	logger.Debug("loaded events", "source", id, "events", len(events), "duration", time.Since(start))

	if opts.CacheEvents {
		if data, err := json.Marshal(events); err == nil {
			if err := r.Cache.Set(ctx, key, data, cache.TTLEvents); err != nil {
				logger.Warn("cache write failed", "key", key, "err", err)
			} else {
				observability.Cache().OnCacheSet(ctx, cache.KeyTypeEvents, len(data))
			}
		}
	}
	return events, false, nil
}

// RenderWithCacheInfo produces every format in opts.Config.Output. Cached
// artifacts are reused; the timeline is drawn only if something is
// missing. renderHit is true when nothing had to be drawn.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, events []timeline.Event, eventsHash string, opts Options) (artifacts map[string][]byte, drawing *Drawing, renderHit bool, err error) {
	logger := r.logger(opts)
	cfg := opts.Config
	configHash, err := cache.HashJSON(struct {
		Chart    config.Chart
		Timeline config.Timeline
	}{cfg.Chart, cfg.Timeline})
	if err != nil {
		return nil, nil, false, err
	}

	formats := dedupe(cfg.Output.Formats)
	keys := make(map[string]string, len(formats))
	artifacts = make(map[string][]byte, len(formats))
	var missing []string
	for _, format := range formats {
		keyOpts := cache.ArtifactKeyOpts{Format: format, ConfigHash: configHash}
		if format == render.FormatPNG {
			keyOpts.PNGScale = cfg.Output.PNGScale
		}
		keys[format] = r.Keyer.ArtifactKey(eventsHash, keyOpts)

		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, keys[format]); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, cache.KeyTypeArtifact)
				artifacts[format] = data
				continue
			}
		}
		observability.Cache().OnCacheMiss(ctx, cache.KeyTypeArtifact)
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, nil, true, nil
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, missing)
	start := time.Now()
	drawing, fresh, err := r.produce(ctx, events, cfg, missing)
	hooks.OnRenderComplete(ctx, missing, time.Since(start), err)
	if err != nil {
		return nil, nil, false, err
	}

	for format, data := range fresh {
		artifacts[format] = data
		if err := r.Cache.Set(ctx, keys[format], data, cache.TTLArtifact); err != nil {
			logger.Warn("cache write failed", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, cache.KeyTypeArtifact, len(data))
	}
	return artifacts, drawing, false, nil
}

// produce draws the timeline and serialises it in every format.
// Conversions run concurrently.
func (r *Runner) produce(ctx context.Context, events []timeline.Event, cfg config.File, formats []string) (*Drawing, map[string][]byte, error) {
	drawing, err := Draw(events, cfg, r.Measurer)
	if err != nil {
		return nil, nil, err
	}
	svg, err := drawing.SVG()
	if err != nil {
		return nil, nil, err
	}

	out := make(map[string][]byte, len(formats))
	var pending []string
	for _, format := range formats {
		switch {
		case format == render.FormatSVG:
			out[format] = svg
		case format == render.FormatJSON:
			if out[format], err = drawing.JSON(); err != nil {
				return nil, nil, err
			}
		case render.NeedsConverter(format):
			pending = append(pending, format)
		}
	}

	conv := r.convert
	if conv == nil {
		conv = convert
	}
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, format := range pending {
		g.Go(func() error {
			data, err := conv(gctx, svg, format, cfg.Output.PNGScale)
			if err != nil {
				return err
			}
			mu.Lock()
			out[format] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return drawing, out, nil
}

// Close releases the cache and the measurer's fonts.
func (r *Runner) Close() error {
	if c, ok := r.Measurer.(io.Closer); ok {
		_ = c.Close()
	}
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}

func dedupe(formats []string) []string {
	out := make([]string, 0, len(formats))
	for _, f := range formats {
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}
