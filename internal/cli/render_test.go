package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/timeline/pkg/errors"
	"github.com/matzehuels/timeline/pkg/source"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{"svg"}},
		{"svg", []string{"svg"}},
		{"svg,png,pdf", []string{"svg", "png", "pdf"}},
		{" SVG , json ,", []string{"svg", "json"}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseFormats(tt.input); !slices.Equal(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestOutputBase(t *testing.T) {
	tests := []struct {
		name       string
		output     string
		input      string
		collection string
		want       string
	}{
		{"from input", "", "data/events.yaml", "", "data/events"},
		{"explicit with format ext", "out/release.svg", "events.yaml", "", "out/release"},
		{"explicit without format ext", "out/release.v2", "events.yaml", "", "out/release.v2"},
		{"url", "", "https://example.com/feeds/launch.json?x=1", "", "launch"},
		{"url without path", "", "https://example.com", "", "timeline"},
		{"mongo", "", "", "incidents", "incidents"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputBase(tt.output, tt.input, tt.collection); got != tt.want {
				t.Errorf("outputBase() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderOptsConfig(t *testing.T) {
	cfg, err := renderOpts{direction: "DOWN", width: 900, formats: "svg,json", pngScale: 3}.config()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Timeline.Direction != "down" || cfg.Chart.Width != 900 || cfg.Output.PNGScale != 3 {
		t.Errorf("flags not applied: %+v", cfg)
	}
	if !slices.Equal(cfg.Output.Formats, []string{"svg", "json"}) {
		t.Errorf("formats = %v", cfg.Output.Formats)
	}

	path := filepath.Join(t.TempDir(), "timeline.toml")
	if err := os.WriteFile(path, []byte("[chart]\nheight = 300\n[timeline]\ndirection = \"up\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = renderOpts{configPath: path, direction: "left"}.config()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Chart.Height != 300 || cfg.Timeline.Direction != "left" {
		t.Errorf("file + flags = %+v", cfg.Chart)
	}

	tests := []struct {
		name string
		opts renderOpts
		code errors.Code
	}{
		{"bad direction", renderOpts{direction: "sideways"}, errors.ErrCodeInvalidDirection},
		{"bad format", renderOpts{formats: "gif"}, errors.ErrCodeInvalidFormat},
		{"bad scale", renderOpts{scale: "log"}, errors.ErrCodeInvalidConfig},
		{"missing file", renderOpts{configPath: "nope.toml"}, errors.ErrCodeFileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.opts.config(); !errors.Is(err, tt.code) {
				t.Errorf("config() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestRenderOptsSource(t *testing.T) {
	t.Setenv(envMongoURI, "")
	ctx := context.Background()

	tests := []struct {
		name  string
		opts  renderOpts
		input string
		want  source.Source
		cache bool
		code  errors.Code
	}{
		{"file", renderOpts{}, "events.csv", source.File{Path: "events.csv"}, false, ""},
		{"file with format", renderOpts{inputFormat: "yml"}, "events.txt", source.File{Path: "events.txt", Format: source.FormatYAML}, false, ""},
		{"url", renderOpts{}, "https://example.com/e.json", source.URL{URL: "https://example.com/e.json"}, true, ""},
		{"nothing", renderOpts{}, "", nil, false, errors.ErrCodeInvalidInput},
		{"file and mongo", renderOpts{mongoURI: "mongodb://localhost"}, "events.csv", nil, false, errors.ErrCodeInvalidInput},
		{"bad mongo uri", renderOpts{mongoURI: "postgres://localhost"}, "", nil, false, errors.ErrCodeInvalidInput},
		{"bad input format", renderOpts{inputFormat: "xml"}, "events.xml", nil, false, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, cacheEvents, closeFn, err := tt.opts.source(ctx, tt.input)
			defer closeFn()
			if tt.code != "" {
				if !errors.Is(err, tt.code) {
					t.Errorf("source() error = %v, want %s", err, tt.code)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if src != tt.want || cacheEvents != tt.cache {
				t.Errorf("source() = %#v, %v; want %#v, %v", src, cacheEvents, tt.want, tt.cache)
			}
		})
	}
}

func TestRunRender(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	dir := t.TempDir()
	input := filepath.Join(dir, "events.yaml")
	events := `events:
  - key: kickoff
    time: 2024-01-01
    text: Kickoff
  - key: beta
    time: 2024-02-10
    end_time: 2024-03-01
    text: Beta
  - key: launch
    time: 2024-04-01
    text: Launch
`
	if err := os.WriteFile(input, []byte(events), 0o644); err != nil {
		t.Fatal(err)
	}

	var logs strings.Builder
	c := New(io.Discard, LogInfo)
	ctx := withLogger(context.Background(), newLogger(&logs, LogInfo))
	if err := c.runRender(ctx, input, renderOpts{formats: "svg,json"}); err != nil {
		t.Fatal(err)
	}

	svg, err := os.ReadFile(filepath.Join(dir, "events.svg"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(svg), "Launch") {
		t.Error("SVG lacks the Launch label")
	}
	if _, err := os.Stat(filepath.Join(dir, "events.json")); err != nil {
		t.Errorf("JSON layout not written: %v", err)
	}
	if !strings.Contains(logs.String(), "rendered timeline") {
		t.Errorf("render did not log through the context logger: %q", logs.String())
	}

	out := filepath.Join(dir, "out", "custom.svg")
	if err := c.runRender(ctx, input, renderOpts{output: out}); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("explicit output not written: %v", err)
	}
}

func TestWriteArtifactsSinglePath(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "release.img")
	paths, err := writeArtifacts(map[string][]byte{"svg": []byte("<svg/>")}, []string{"svg"}, filepath.Join(dir, "release.img"), out)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 1 || paths[0] != out {
		t.Errorf("paths = %v, want [%s]", paths, out)
	}
}
