package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/timeline/pkg/errors"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"events.json", FormatJSON, false},
		{"events.YAML", FormatYAML, false},
		{"events.yml", FormatYAML, false},
		{"data/events.csv", FormatCSV, false},
		{"events.txt", "", true},
		{"events", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := DetectFormat(tt.path)
			if (err != nil) != tt.wantErr || got != tt.want {
				t.Errorf("DetectFormat(%q) = %q, %v", tt.path, got, err)
			}
		})
	}
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"42", 42, false},
		{"-1.5", -1.5, false},
		{"1970-01-02", 86400000, false},
		{"1970-01-01T00:00:01Z", 1000, false},
		{"1970-01-01T01:00:00+01:00", 0, false},
		{"1970-01-01 00:01", 60000, false},
		{"01/02/1970", 86400000, false},
		{"yesterday", 0, true},
		{"  ", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTime(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTime(%q) error = %v", tt.in, err)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseTime(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"array", `[{"key":"a","time":1,"text":"One"},{"time":"1970-01-01T00:00:02Z","end_time":3000,"text":"Two"}]`},
		{"document", `{"events":[{"key":"a","time":1,"text":"One"},{"time":"1970-01-01T00:00:02Z","end_time":3000,"text":"Two"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := Decode(strings.NewReader(tt.in), FormatJSON)
			if err != nil {
				t.Fatal(err)
			}
			if len(events) != 2 {
				t.Fatalf("got %d events", len(events))
			}
			if events[0].Key != "a" || events[0].Time != 1 || events[0].EndTime != nil {
				t.Errorf("first event = %+v", events[0])
			}
			if events[1].Time != 2000 || events[1].EndTime == nil || *events[1].EndTime != 3000 {
				t.Errorf("second event = %+v", events[1])
			}
		})
	}
}

func TestDecodeYAML(t *testing.T) {
	in := `
events:
  - key: kickoff
    time: 2024-01-01
    text: Kickoff
  - time: 1704153600000
    end_time: "2024-01-03T00:00:00Z"
    text: Sprint
    offset: 4
`
	events, err := Decode(strings.NewReader(in), FormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events", len(events))
	}
	if events[0].Time != 1704067200000 || events[0].Text != "Kickoff" {
		t.Errorf("first event = %+v", events[0])
	}
	if *events[1].EndTime != 1704240000000 || events[1].Offset != 4 {
		t.Errorf("second event = %+v", events[1])
	}

	empty, err := Decode(strings.NewReader(""), FormatYAML)
	if err != nil || len(empty) != 0 {
		t.Errorf("empty YAML = %v, %v", empty, err)
	}
}

func TestDecodeCSV(t *testing.T) {
	in := "ID,Date,Title,End,Offset\n" +
		"a,2024-01-01,New year,,\n" +
		"b,2024-01-02,Sprint,2024-01-04,5\n"
	events, err := Decode(strings.NewReader(in), FormatCSV)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events", len(events))
	}
	if events[0].Key != "a" || events[0].Text != "New year" || events[0].EndTime != nil {
		t.Errorf("first event = %+v", events[0])
	}
	if events[1].EndTime == nil || events[1].Offset != 5 {
		t.Errorf("second event = %+v", events[1])
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		format Format
		code   errors.Code
	}{
		{"json syntax", `[{"time":`, FormatJSON, errors.ErrCodeInvalidFormat},
		{"json missing time", `[{"text":"x"}]`, FormatJSON, errors.ErrCodeInvalidEvent},
		{"json bad date", `[{"time":"soon"}]`, FormatJSON, errors.ErrCodeInvalidEvent},
		{"yaml bad date", "- time: soon\n", FormatYAML, errors.ErrCodeInvalidEvent},
		{"csv no time column", "key,text\na,b\n", FormatCSV, errors.ErrCodeInvalidEvent},
		{"csv bad offset", "time,offset\n1,far\n", FormatCSV, errors.ErrCodeInvalidEvent},
		{"unknown format", "", Format("xml"), errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.in), tt.format)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestFileLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "events.json")
	if err := os.WriteFile(path, []byte(`[{"time":5,"text":"x"}]`), 0o644); err != nil {
		t.Fatal(err)
	}

	events, err := File{Path: path}.Load(context.Background())
	if err != nil || len(events) != 1 {
		t.Fatalf("Load = %v, %v", events, err)
	}

	_, err = File{Path: filepath.Join(dir, "missing.json")}.Load(context.Background())
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v", err)
	}
}
