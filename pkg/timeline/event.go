package timeline

import (
	"strconv"

	"github.com/matzehuels/timeline/pkg/errors"
)

// Event is the built-in datum the default accessors read. Any other type
// can be used as long as the accessors in Options are set to match.
type Event struct {
	Key           string   `json:"key,omitempty" yaml:"key,omitempty" bson:"key,omitempty"`
	Time          float64  `json:"time" yaml:"time" bson:"time"`
	EndTime       *float64 `json:"end_time,omitempty" yaml:"end_time,omitempty" bson:"end_time,omitempty"`
	Text          string   `json:"text" yaml:"text" bson:"text"`
	Offset        float64  `json:"offset,omitempty" yaml:"offset,omitempty" bson:"offset,omitempty"`
	OffsetTangent float64  `json:"offset_tangent,omitempty" yaml:"offset_tangent,omitempty" bson:"offset_tangent,omitempty"`
	TextOffset    float64  `json:"text_offset,omitempty" yaml:"text_offset,omitempty" bson:"text_offset,omitempty"`
}

// Data converts a typed slice into the []any a chart binds.
func Data[T any](items []T) []any {
	if items == nil {
		return nil
	}
	out := make([]any, len(items))
	for i, v := range items {
		out[i] = v
	}
	return out
}

func asEvent(d Datum) (Event, bool) {
	switch e := d.(type) {
	case Event:
		return e, true
	case *Event:
		if e != nil {
			return *e, true
		}
	}
	return Event{}, false
}

// field builds a default accessor reading one field of an Event.
func field[T any](name string, get func(Event) T) Functor[T] {
	return Func(func(d Datum, i int) (T, error) {
		e, ok := asEvent(d)
		if !ok {
			var zero T
			return zero, errors.New(errors.ErrCodeAccessor,
				"default %s accessor: event %d is %T, not timeline.Event", name, i, d)
		}
		return get(e), nil
	})
}

// Default accessors for Event.
var (
	EventTime          = field("time", func(e Event) float64 { return e.Time })
	EventText          = field("text", func(e Event) string { return e.Text })
	EventOffset        = field("offset", func(e Event) float64 { return e.Offset })
	EventOffsetTangent = field("offsetTangent", func(e Event) float64 { return e.OffsetTangent })
	EventTextOffset    = field("textOffset", func(e Event) float64 { return e.TextOffset })

	// EventEndTime reads EndTime, falling back to Time when absent. It is
	// not enabled by default: set Options.EndTimeFn to draw durations.
	EventEndTime = field("endTime", func(e Event) float64 {
		if e.EndTime == nil {
			return e.Time
		}
		return *e.EndTime
	})
)

// eventKey is the identity used when no KeyFn is configured: an Event's
// Key when it has one, its position in the data otherwise.
func eventKey(d Datum, i int) (string, error) {
	if e, ok := asEvent(d); ok && e.Key != "" {
		return e.Key, nil
	}
	return strconv.Itoa(i), nil
}

// HasEndTimes reports whether any Event in data carries an end time.
func HasEndTimes(data []any) bool {
	for _, d := range data {
		if e, ok := asEvent(d); ok && e.EndTime != nil {
			return true
		}
	}
	return false
}
