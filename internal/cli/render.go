package cli

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/timeline/pkg/config"
	"github.com/matzehuels/timeline/pkg/errors"
	"github.com/matzehuels/timeline/pkg/pipeline"
	"github.com/matzehuels/timeline/pkg/render"
	"github.com/matzehuels/timeline/pkg/source"
	"github.com/matzehuels/timeline/pkg/source/mongo"
)

// renderOpts holds the flags of the render command. Zero values leave the
// configuration file (or its defaults) untouched.
type renderOpts struct {
	configPath  string
	formats     string
	output      string
	inputFormat string

	direction string
	scale     string
	width     float64
	height    float64
	pngScale  float64

	noCache bool
	refresh bool

	mongoURI   string
	database   string
	collection string
}

// addInputFlags registers the flags shared by render and preview.
func (o *renderOpts) addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.configPath, "config", "c", "", "TOML render configuration")
	cmd.Flags().StringVar(&o.inputFormat, "input-format", "", "event encoding: json, yaml, csv (default: from extension)")
	cmd.Flags().StringVarP(&o.direction, "direction", "d", "", "axis direction: right, left, up, down")
	cmd.Flags().StringVar(&o.scale, "scale", "", "scale kind: time, linear")
	cmd.Flags().Float64Var(&o.width, "width", 0, "chart width")
	cmd.Flags().Float64Var(&o.height, "height", 0, "chart height")
	cmd.Flags().StringVar(&o.mongoURI, "mongo-uri", "", "read events from MongoDB (env "+envMongoURI+")")
	cmd.Flags().StringVar(&o.database, "db", "timeline", "MongoDB database")
	cmd.Flags().StringVar(&o.collection, "collection", "events", "MongoDB collection")
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [events]",
		Short: "Render events to SVG, PNG, PDF or a JSON layout",
		Long: `Render events to SVG, PNG, PDF or a JSON layout.

Events come from a JSON, YAML or CSV file, from an http(s) URL serving one
of those, or from a MongoDB collection with --mongo-uri. Settings are read
from --config and overridden by the flags below.

Results are cached locally; unchanged input renders instantly.
PNG and PDF output need rsvg-convert (librsvg) on the PATH.`,
		Example: `  timeline render events.yaml
  timeline render events.csv -f svg,png -d down --width 800
  timeline render https://example.com/events.json -o release.svg
  timeline render --mongo-uri mongodb://localhost --db ops --collection incidents`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input string
			if len(args) == 1 {
				input = args[0]
			}
			return c.runRender(cmd.Context(), input, opts)
		},
	}

	opts.addInputFlags(cmd)
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg, png, pdf, json (comma-separated; default from config)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format), base path (multiple) or - for stdout")
	cmd.Flags().Float64Var(&opts.pngScale, "png-scale", 0, "PNG zoom factor")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")

	return cmd
}

// runRender loads, renders and writes every requested format.
func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	cfg, err := opts.config()
	if err != nil {
		return err
	}
	src, cacheEvents, closeSource, err := opts.source(ctx, input)
	if err != nil {
		return err
	}
	defer closeSource()

	logger := loggerFromContext(ctx)
	runner, err := newRunner(logger, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Rendering "+src.ID()+"...")
	spinner.Start()

	result, err := runner.Execute(ctx, pipeline.Options{
		Source:      src,
		Config:      cfg,
		Refresh:     opts.refresh,
		CacheEvents: cacheEvents,
		Logger:      logger,
	})
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if opts.output == "-" {
		if len(cfg.Output.Formats) != 1 {
			return errors.New(errors.ErrCodeInvalidInput, "writing to stdout needs exactly one format")
		}
		_, err := os.Stdout.Write(result.Artifacts[cfg.Output.Formats[0]])
		return err
	}

	paths, err := writeArtifacts(result.Artifacts, cfg.Output.Formats, outputBase(opts.output, input, opts.collection), opts.output)
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", src.ID())
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.EventCount, result.Stats.Layers, result.CacheInfo.RenderHit)
	if input != "" && !isURL(input) {
		printNewline()
		printNextStep("Explore interactively", "timeline preview "+input)
	}
	return nil
}

// config reads the configuration file and applies the flags over it.
func (o renderOpts) config() (config.File, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return config.File{}, err
		}
	}
	if o.formats != "" {
		cfg.Output.Formats = parseFormats(o.formats)
	}
	if o.direction != "" {
		cfg.Timeline.Direction = strings.ToLower(o.direction)
	}
	if o.scale != "" {
		cfg.Timeline.Scale = strings.ToLower(o.scale)
	}
	if o.width > 0 {
		cfg.Chart.Width = o.width
	}
	if o.height > 0 {
		cfg.Chart.Height = o.height
	}
	if o.pngScale > 0 {
		cfg.Output.PNGScale = o.pngScale
	}
	return cfg, cfg.Validate()
}

// source picks the event source for input. Remote sources report
// cacheEvents so repeated renders skip the round trip.
func (o renderOpts) source(ctx context.Context, input string) (src source.Source, cacheEvents bool, closeFn func(), err error) {
	closeFn = func() {}

	var format source.Format
	if o.inputFormat != "" {
		if format, err = source.ParseFormat(o.inputFormat); err != nil {
			return nil, false, closeFn, err
		}
	}

	uri := o.mongoURI
	if uri == "" && input == "" {
		uri = os.Getenv(envMongoURI)
	}
	switch {
	case input != "" && uri != "":
		return nil, false, closeFn, errors.New(errors.ErrCodeInvalidInput, "give either an event file or --mongo-uri, not both")
	case uri != "":
		store, err := mongo.Connect(ctx, uri, o.database, o.collection)
		if err != nil {
			return nil, false, closeFn, err
		}
		closeFn = func() { _ = store.Close(context.Background()) }
		return mongo.Query{Store: store}, true, closeFn, nil
	case input == "":
		return nil, false, closeFn, errors.New(errors.ErrCodeInvalidInput,
			"no events given: pass a file, an http(s) URL or --mongo-uri")
	case isURL(input):
		return source.URL{URL: input, Format: format}, true, closeFn, nil
	}
	return source.File{Path: input, Format: format}, false, closeFn, nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// outputBase derives the output path without extension. An explicit
// output wins; otherwise the input's name is used next to it, the last
// URL path segment, or the collection name.
func outputBase(output, input, collection string) string {
	if output != "" {
		return stripFormatExt(output)
	}
	switch {
	case input == "":
		return collection
	case isURL(input):
		name := "timeline"
		if u, err := url.Parse(input); err == nil {
			if b := path.Base(u.Path); b != "/" && b != "." {
				name = b
			}
		}
		return stripExt(name)
	}
	return stripExt(input)
}

func stripExt(p string) string {
	return strings.TrimSuffix(p, filepath.Ext(p))
}

// stripFormatExt removes an output format extension such as .svg.
func stripFormatExt(p string) string {
	ext := strings.TrimPrefix(filepath.Ext(p), ".")
	for _, f := range render.Formats {
		if strings.EqualFold(ext, f) {
			return stripExt(p)
		}
	}
	return p
}

// writeArtifacts writes one file per format and returns the paths. A
// single format with an explicit output path is written to that path
// unchanged.
func writeArtifacts(artifacts map[string][]byte, formats []string, base, output string) ([]string, error) {
	var paths []string
	for _, format := range formats {
		p := base + "." + format
		if len(formats) == 1 && output != "" {
			p = output
		}
		if slices.Contains(paths, p) {
			continue
		}
		if dir := filepath.Dir(p); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", dir)
			}
		}
		if err := os.WriteFile(p, artifacts[format], 0o644); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", p)
		}
		paths = append(paths, p)
	}
	return paths, nil
}
