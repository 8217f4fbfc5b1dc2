package source

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/timeline/pkg/errors"
	"github.com/matzehuels/timeline/pkg/timeline"
)

// columnAliases maps accepted CSV header names (lower case) to event
// fields.
var columnAliases = map[string]string{
	"key":            "key",
	"id":             "key",
	"time":           "time",
	"timestamp":      "time",
	"date":           "time",
	"start":          "time",
	"end_time":       "end_time",
	"end":            "end_time",
	"text":           "text",
	"title":          "text",
	"label":          "text",
	"offset":         "offset",
	"offset_tangent": "offset_tangent",
	"text_offset":    "text_offset",
}

func decodeCSV(r io.Reader) ([]timeline.Event, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return []timeline.Event{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read CSV header")
	}

	columns := make(map[string]int)
	for i, name := range header {
		if field, ok := columnAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
			if _, dup := columns[field]; !dup {
				columns[field] = i
			}
		}
	}
	if _, ok := columns["time"]; !ok {
		return nil, errors.New(errors.ErrCodeInvalidEvent,
			"CSV has no time column (expected one of time, timestamp, date, start); columns: %v", header)
	}

	var events []timeline.Event
	for row := 1; ; row++ {
		cells, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read CSV")
		}
		ev, err := csvEvent(cells, columns)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidEvent, err, "CSV row %d", row)
		}
		events = append(events, ev)
	}
	if events == nil {
		events = []timeline.Event{}
	}
	return events, nil
}

func csvEvent(cells []string, columns map[string]int) (timeline.Event, error) {
	cell := func(field string) string {
		if i, ok := columns[field]; ok && i < len(cells) {
			return strings.TrimSpace(cells[i])
		}
		return ""
	}
	number := func(field string) (float64, error) {
		s := cell(field)
		if s == "" {
			return 0, nil
		}
		return strconv.ParseFloat(s, 64)
	}

	var ev timeline.Event
	var err error
	ev.Key = cell("key")
	ev.Text = cell("text")
	if ev.Time, err = ParseTime(cell("time")); err != nil {
		return ev, err
	}
	if s := cell("end_time"); s != "" {
		end, err := ParseTime(s)
		if err != nil {
			return ev, err
		}
		ev.EndTime = &end
	}
	if ev.Offset, err = number("offset"); err != nil {
		return ev, err
	}
	if ev.OffsetTangent, err = number("offset_tangent"); err != nil {
		return ev, err
	}
	if ev.TextOffset, err = number("text_offset"); err != nil {
		return ev, err
	}
	return ev, nil
}
