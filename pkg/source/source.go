// Package source loads timeline events from files and URLs. The mongo
// subpackage adds a MongoDB collection as a source.
//
// Three encodings are supported, chosen by file extension:
//
//   - JSON: an array of events, or an object with an "events" array
//   - YAML: the same shapes as JSON
//   - CSV: a header row naming the columns, one event per row
//
// Times are either numbers (milliseconds since the Unix epoch, or plain
// values for linear scales) or date strings such as "2024-03-01" or
// RFC 3339 timestamps, which are converted to epoch milliseconds.
package source

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/timeline/pkg/errors"
	"github.com/matzehuels/timeline/pkg/timeline"
)

// Format is an event file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// Formats lists the supported encodings.
var Formats = []string{string(FormatJSON), string(FormatYAML), string(FormatCSV)}

// Source yields a set of events. ID identifies the source in logs.
type Source interface {
	ID() string
	Load(ctx context.Context) ([]timeline.Event, error)
}

// DetectFormat picks the encoding from the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".csv":
		return FormatCSV, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat,
		"cannot tell the format of %q (use .json, .yaml, .yml or .csv)", path)
}

// ParseFormat validates a format name given on the command line.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "yml" {
		s = string(FormatYAML)
	}
	if err := errors.ValidateFormat(s, Formats...); err != nil {
		return "", err
	}
	return Format(s), nil
}

// File is an event file on disk.
type File struct {
	Path   string
	Format Format // empty: detected from Path
}

// ID returns the path.
func (f File) ID() string { return f.Path }

// Load reads and decodes the file.
func (f File) Load(ctx context.Context) ([]timeline.Event, error) {
	if err := errors.ValidatePath(f.Path); err != nil {
		return nil, err
	}
	format := f.Format
	if format == "" {
		var err error
		if format, err = DetectFormat(f.Path); err != nil {
			return nil, err
		}
	}
	data, err := os.ReadFile(f.Path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "event file %s does not exist", f.Path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", f.Path)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Decode(bytes.NewReader(data), format)
}

// Events is an in-memory source, used for events that arrive in a request
// body.
type Events struct {
	Name  string
	Items []timeline.Event
}

// ID returns the name.
func (e Events) ID() string { return e.Name }

// Load returns the items.
func (e Events) Load(context.Context) ([]timeline.Event, error) { return e.Items, nil }

// Decode reads events in the given encoding.
func Decode(r io.Reader, format Format) ([]timeline.Event, error) {
	switch format {
	case FormatJSON:
		return decodeJSON(r)
	case FormatYAML:
		return decodeYAML(r)
	case FormatCSV:
		return decodeCSV(r)
	}
	return nil, errors.ValidateFormat(string(format), Formats...)
}

// Stamp is a time value that accepts numbers and date strings.
type Stamp float64

// UnmarshalJSON accepts a number or a string.
func (s *Stamp) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		v, err := ParseTime(str)
		*s = Stamp(v)
		return err
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return errors.New(errors.ErrCodeInvalidEvent, "time %s is neither a number nor a date", b)
	}
	*s = Stamp(v)
	return nil
}

// UnmarshalYAML accepts a number, a timestamp or a string.
func (s *Stamp) UnmarshalYAML(n *yaml.Node) error {
	v, err := ParseTime(n.Value)
	*s = Stamp(v)
	return err
}

// UnmarshalText accepts a number or a date string, for TOML and other
// text encodings.
func (s *Stamp) UnmarshalText(b []byte) error {
	v, err := ParseTime(string(b))
	*s = Stamp(v)
	return err
}

// record is the wire form of an event.
type record struct {
	Key           string  `json:"key" yaml:"key"`
	Time          *Stamp  `json:"time" yaml:"time"`
	EndTime       *Stamp  `json:"end_time" yaml:"end_time"`
	Text          string  `json:"text" yaml:"text"`
	Offset        float64 `json:"offset" yaml:"offset"`
	OffsetTangent float64 `json:"offset_tangent" yaml:"offset_tangent"`
	TextOffset    float64 `json:"text_offset" yaml:"text_offset"`
}

type document struct {
	Events []record `json:"events" yaml:"events"`
}

func (r record) event(i int) (timeline.Event, error) {
	if r.Time == nil {
		return timeline.Event{}, errors.New(errors.ErrCodeInvalidEvent, "event %d has no time", i)
	}
	ev := timeline.Event{
		Key:           r.Key,
		Time:          float64(*r.Time),
		Text:          r.Text,
		Offset:        r.Offset,
		OffsetTangent: r.OffsetTangent,
		TextOffset:    r.TextOffset,
	}
	if r.EndTime != nil {
		end := float64(*r.EndTime)
		ev.EndTime = &end
	}
	return ev, nil
}

func toEvents(recs []record) ([]timeline.Event, error) {
	out := make([]timeline.Event, 0, len(recs))
	for i, r := range recs {
		ev, err := r.event(i)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, nil
}

func decodeJSON(r io.Reader) ([]timeline.Event, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var recs []record
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		var doc document
		err = json.Unmarshal(trimmed, &doc)
		recs = doc.Events
	} else {
		err = json.Unmarshal(trimmed, &recs)
	}
	if err != nil {
		return nil, wrapDecode(err, "JSON")
	}
	return toEvents(recs)
}

func decodeYAML(r io.Reader) ([]timeline.Event, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		if err == io.EOF {
			return []timeline.Event{}, nil
		}
		return nil, wrapDecode(err, "YAML")
	}
	var recs []record
	var err error
	if len(root.Content) > 0 && root.Content[0].Kind == yaml.MappingNode {
		var doc document
		err = root.Decode(&doc)
		recs = doc.Events
	} else {
		err = root.Decode(&recs)
	}
	if err != nil {
		return nil, wrapDecode(err, "YAML")
	}
	return toEvents(recs)
}

func wrapDecode(err error, format string) error {
	if errors.GetCode(err) != "" {
		return err
	}
	return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s events", format)
}

// dateLayouts are tried in order after numeric parsing fails.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006-01",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
}

// ParseTime converts a number or a date string to a time value. Dates
// become milliseconds since the Unix epoch, in UTC unless the string
// carries a zone.
func ParseTime(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New(errors.ErrCodeInvalidEvent, "empty time value")
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return float64(t.UnixMilli()), nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidEvent, "cannot parse time %q", s)
}
