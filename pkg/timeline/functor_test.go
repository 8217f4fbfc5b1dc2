package timeline

import (
	"fmt"
	"testing"

	"github.com/matzehuels/timeline/pkg/errors"
)

func TestFunctor(t *testing.T) {
	var unset Functor[float64]
	if unset.IsSet() {
		t.Error("zero functor reports set")
	}
	if v, err := unset.Get("x", 0); v != 0 || err != nil {
		t.Errorf("unset Get = %v, %v", v, err)
	}
	if Func[float64](nil).IsSet() || Map[float64](nil).IsSet() {
		t.Error("nil accessor should leave the functor unset")
	}

	c := Const(4.5)
	if v, _ := c.Get(nil, 9); v != 4.5 {
		t.Errorf("Const Get = %v", v)
	}

	idx := Func(func(_ Datum, i int) (int, error) { return i * 2, nil })
	if v, _ := idx.Get(nil, 3); v != 6 {
		t.Errorf("Func Get = %v, want 6", v)
	}

	if got := unset.Or(c); !got.IsSet() {
		t.Error("Or should fall back to the default")
	}
	if v, _ := Const(1.0).Or(c).Get(nil, 0); v != 1 {
		t.Errorf("Or replaced a set functor: %v", v)
	}
}

func TestDefaultAccessors(t *testing.T) {
	end := 12.0
	ev := Event{Key: "k", Time: 3, EndTime: &end, Text: "hi", Offset: 1, OffsetTangent: 2, TextOffset: 5}

	tests := []struct {
		name string
		fn   Functor[float64]
		d    Datum
		want float64
	}{
		{"time", EventTime, ev, 3},
		{"time pointer", EventTime, &ev, 3},
		{"end time", EventEndTime, ev, 12},
		{"end time absent", EventEndTime, Event{Time: 7}, 7},
		{"offset", EventOffset, ev, 1},
		{"offset tangent", EventOffsetTangent, ev, 2},
		{"text offset", EventTextOffset, ev, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn.Get(tt.d, 0)
			if err != nil || got != tt.want {
				t.Errorf("Get = %v, %v; want %v", got, err, tt.want)
			}
		})
	}

	if _, err := EventTime.Get(map[string]any{"time": 1}, 4); !errors.Is(err, errors.ErrCodeAccessor) {
		t.Errorf("foreign datum error = %v, want ACCESSOR_FAILED", err)
	}
}

func TestEventKey(t *testing.T) {
	if k, _ := eventKey(Event{Key: "launch"}, 3); k != "launch" {
		t.Errorf("key = %q", k)
	}
	if k, _ := eventKey(Event{}, 3); k != "3" {
		t.Errorf("positional key = %q, want 3", k)
	}
	if k, _ := eventKey("plain", 0); k != "0" {
		t.Errorf("foreign datum key = %q, want 0", k)
	}
}

func TestHasEndTimes(t *testing.T) {
	end := 1.0
	if HasEndTimes(Data([]Event{{Time: 1}, {Time: 2}})) {
		t.Error("no event has an end time")
	}
	if !HasEndTimes(Data([]Event{{Time: 1}, {Time: 0, EndTime: &end}})) {
		t.Error("second event has an end time")
	}
}

func TestEvaluateWrapsAccessorErrors(t *testing.T) {
	o := DefaultOptions()
	o.TextFn = Func(func(_ Datum, i int) (string, error) {
		if i == 2 {
			return "", fmt.Errorf("boom")
		}
		return "ok", nil
	})
	acc := o.accessors()
	_, err := acc.evaluate(Data([]Event{{Time: 1}, {Time: 2}, {Time: 3}}))
	if !errors.Is(err, errors.ErrCodeAccessor) {
		t.Fatalf("error = %v, want ACCESSOR_FAILED", err)
	}
}
