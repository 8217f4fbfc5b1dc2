// Package textmetrics measures label text without rendering it.
//
// [Fonts] lays text out with the Go font family (golang.org/x/image/font/gofont)
// and reports the same box a browser's getBBox would for a single line of
// SVG text: the advance width and the ascent plus descent of the face.
// [Fixed] is a deterministic stand-in for tests and headless callers.
package textmetrics

import (
	"math"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/timeline/pkg/errors"
)

// DefaultFontSize is used when a style carries no usable font-size.
const DefaultFontSize = 12.0

// Box is a text bounding box. Y is relative to the baseline, so it is
// negative for any face with a non-zero ascent.
type Box struct {
	X, Y, Width, Height float64
}

// Style selects the face a text is measured with.
type Style struct {
	Family string  // "monospace" selects Go Mono, anything else Go Regular
	Size   float64 // pixels
	Bold   bool
	Italic bool
}

// Measurer reports the bounding box of a single line of text.
type Measurer interface {
	Measure(text string, s Style) (Box, error)
}

// StyleFromCSS reads the font properties out of an SVG style map
// (font-family, font-size, font-weight, font-style). Unknown keys are
// ignored.
func StyleFromCSS(css map[string]string) Style {
	s := Style{Family: css["font-family"], Size: ParseFontSize(css["font-size"])}
	switch w := strings.TrimSpace(css["font-weight"]); w {
	case "bold", "bolder":
		s.Bold = true
	default:
		if n, err := strconv.Atoi(w); err == nil && n >= 600 {
			s.Bold = true
		}
	}
	switch strings.TrimSpace(css["font-style"]) {
	case "italic", "oblique":
		s.Italic = true
	}
	return s
}

// ParseFontSize converts a CSS font size ("12", "12px", "9pt", "1.5em") to
// pixels. Empty or malformed values yield DefaultFontSize.
func ParseFontSize(v string) float64 {
	v = strings.TrimSpace(v)
	mul, div := 1.0, 1.0
	switch {
	case strings.HasSuffix(v, "px"):
		v = strings.TrimSuffix(v, "px")
	case strings.HasSuffix(v, "pt"):
		v, mul, div = strings.TrimSuffix(v, "pt"), 4, 3
	case strings.HasSuffix(v, "em"):
		v, mul = strings.TrimSuffix(v, "em"), DefaultFontSize
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || n <= 0 {
		return DefaultFontSize
	}
	return n * mul / div
}

type faceKey struct {
	variant string
	size    float64
}

const (
	// maxFaces bounds the face cache; sizes come from user styles.
	maxFaces = 64
	// sizeStep is the granularity font sizes are rounded to.
	sizeStep = 0.25
)

// Fonts measures text with the embedded Go fonts. Faces are created
// lazily and cached per variant and size, sizes rounded to a quarter
// pixel. At most maxFaces faces are kept. Safe for concurrent use.
type Fonts struct {
	mu     sync.Mutex
	parsed map[string]*opentype.Font
	faces  map[faceKey]font.Face
}

// New returns an empty font cache.
func New() *Fonts {
	return &Fonts{
		parsed: make(map[string]*opentype.Font),
		faces:  make(map[faceKey]font.Face),
	}
}

var sources = map[string][]byte{
	"regular":    goregular.TTF,
	"bold":       gobold.TTF,
	"italic":     goitalic.TTF,
	"bolditalic": gobolditalic.TTF,
	"mono":       gomono.TTF,
}

func variant(s Style) string {
	if strings.Contains(strings.ToLower(s.Family), "mono") {
		return "mono"
	}
	switch {
	case s.Bold && s.Italic:
		return "bolditalic"
	case s.Bold:
		return "bold"
	case s.Italic:
		return "italic"
	}
	return "regular"
}

// Measure returns the box of text laid out on one line. Newlines are
// treated as spaces, as SVG text does.
func (f *Fonts) Measure(text string, s Style) (Box, error) {
	if s.Size <= 0 {
		s.Size = DefaultFontSize
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	face, err := f.face(variant(s), s.Size)
	if err != nil {
		return Box{}, err
	}
	text = strings.ReplaceAll(text, "\n", " ")
	m := face.Metrics()
	return Box{
		Y:      -toFloat(m.Ascent),
		Width:  toFloat(font.MeasureString(face, text)),
		Height: toFloat(m.Ascent + m.Descent),
	}, nil
}

func (f *Fonts) face(v string, size float64) (font.Face, error) {
	size = max(math.Round(size/sizeStep)*sizeStep, sizeStep)
	key := faceKey{v, size}
	if face, ok := f.faces[key]; ok {
		return face, nil
	}
	if len(f.faces) >= maxFaces {
		for k, old := range f.faces {
			old.Close()
			delete(f.faces, k)
			break
		}
	}
	fnt, ok := f.parsed[v]
	if !ok {
		var err error
		fnt, err = opentype.Parse(sources[v])
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeMeasure, err, "parse %s font", v)
		}
		f.parsed[v] = fnt
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMeasure, err, "create %s face at %vpx", v, size)
	}
	f.faces[key] = face
	return face, nil
}

// Close releases every cached face.
func (f *Fonts) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, face := range f.faces {
		face.Close()
		delete(f.faces, k)
	}
	return nil
}

func toFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }

// Fixed measures every rune as CharWidth ems wide and every line as
// LineHeight ems tall.
type Fixed struct {
	CharWidth  float64
	LineHeight float64
}

// Measure implements Measurer.
func (m Fixed) Measure(text string, s Style) (Box, error) {
	size := s.Size
	if size <= 0 {
		size = DefaultFontSize
	}
	n := float64(len([]rune(text)))
	return Box{Y: -size * m.LineHeight * 0.8, Width: n * m.CharWidth * size, Height: m.LineHeight * size}, nil
}

var (
	_ Measurer = (*Fonts)(nil)
	_ Measurer = Fixed{}
)
