package timeline

import (
	"maps"
	"slices"

	"github.com/matzehuels/timeline/pkg/errors"
	"github.com/matzehuels/timeline/pkg/layout"
)

// record is every accessor value of one event, evaluated up front so that
// a failing accessor aborts the pass before any shape is touched.
type record struct {
	index   int
	datum   Datum
	key     string
	time    float64
	endTime float64
	hasEnd  bool
	text    string
	offsets layout.Offsets
	labelBg string
	link    string
	style   []styleProp // sorted by name
}

type styleProp struct{ name, value string }

func (r *record) styleKey() string {
	var b []byte
	for _, p := range r.style {
		b = append(b, p.name...)
		b = append(b, ':')
		b = append(b, p.value...)
		b = append(b, ';')
	}
	return string(b)
}

func accessorError(err error, name string, i int) error {
	return errors.Wrap(errors.ErrCodeAccessor, err, "%s accessor failed for event %d", name, i)
}

// evaluate runs every accessor over data. Keys must be unique.
func (a *accessors) evaluate(data []any) ([]record, error) {
	recs := make([]record, len(data))
	seen := make(map[string]int, len(data))
	styleNames := slices.Sorted(maps.Keys(a.textStyle))

	for i, d := range data {
		r := &recs[i]
		r.index, r.datum = i, d

		var err error
		if r.key, err = a.key.Get(d, i); err != nil {
			return nil, accessorError(err, "key", i)
		}
		if err := errors.ValidateKey(r.key); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidEvent, err, "event %d", i)
		}
		if prev, dup := seen[r.key]; dup {
			return nil, errors.New(errors.ErrCodeDuplicateKey, "events %d and %d share key %q", prev, i, r.key)
		}
		seen[r.key] = i

		if r.time, err = a.time.Get(d, i); err != nil {
			return nil, accessorError(err, "time", i)
		}
		if a.endTime.IsSet() {
			if r.endTime, err = a.endTime.Get(d, i); err != nil {
				return nil, accessorError(err, "endTime", i)
			}
			r.hasEnd = true
		}
		if r.text, err = a.text.Get(d, i); err != nil {
			return nil, accessorError(err, "text", i)
		}
		if r.offsets.Offset, err = a.offset.Get(d, i); err != nil {
			return nil, accessorError(err, "offset", i)
		}
		if r.offsets.OffsetTangent, err = a.offsetTangent.Get(d, i); err != nil {
			return nil, accessorError(err, "offsetTangent", i)
		}
		if r.offsets.TextOffset, err = a.textOffset.Get(d, i); err != nil {
			return nil, accessorError(err, "textOffset", i)
		}
		if r.labelBg, err = a.labelBg.Get(d, i); err != nil {
			return nil, accessorError(err, "labelBgColor", i)
		}
		if r.link, err = a.link.Get(d, i); err != nil {
			return nil, accessorError(err, "linkColor", i)
		}

		r.style = make([]styleProp, 0, len(styleNames))
		for _, name := range styleNames {
			v, err := a.textStyle[name].Get(d, i)
			if err != nil {
				return nil, accessorError(err, "textStyle."+name, i)
			}
			r.style = append(r.style, styleProp{name, v})
		}
	}
	return recs, nil
}

func keys(recs []record) []string {
	out := make([]string, len(recs))
	for i := range recs {
		out[i] = recs[i].key
	}
	return out
}
