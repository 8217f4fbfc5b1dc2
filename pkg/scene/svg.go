package scene

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"slices"
	"strings"

	svg "github.com/ajstarks/svgo"
)

// WriteSVG serialises the scene as a standalone SVG document of the given
// size. Attributes and style properties are written in sorted order so
// the output is stable across runs.
func (s *Scene) WriteSVG(w io.Writer, width, height float64) error {
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(int(math.Ceil(width)), int(math.Ceil(height)))
	for _, c := range s.root.children {
		writeElement(canvas, c, 1)
	}
	canvas.End()
	return ew.err
}

// SVG returns the document as bytes.
func (s *Scene) SVG(width, height float64) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.WriteSVG(&buf, width, height); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeElement(canvas *svg.SVG, e *Element, depth int) {
	indent := strings.Repeat("  ", depth)
	switch {
	case e.tag == "g":
		fmt.Fprint(canvas.Writer, indent)
		canvas.Group(e.attrList("")...)
		for _, c := range e.children {
			writeElement(canvas, c, depth+1)
		}
		fmt.Fprint(canvas.Writer, indent)
		canvas.Gend()
	case e.tag == "path":
		fmt.Fprint(canvas.Writer, indent)
		canvas.Path(e.attrs["d"], e.attrList("d")...)
	case len(e.children) == 0:
		fmt.Fprintf(canvas.Writer, "%s<%s %s>%s</%s>\n", indent, e.tag, strings.Join(e.attrList(""), " "), escapeXML(e.text), e.tag)
	default:
		fmt.Fprintf(canvas.Writer, "%s<%s %s>%s\n", indent, e.tag, strings.Join(e.attrList(""), " "), escapeXML(e.text))
		for _, c := range e.children {
			writeElement(canvas, c, depth+1)
		}
		fmt.Fprintf(canvas.Writer, "%s</%s>\n", indent, e.tag)
	}
}

// attrList renders class, attributes and style as name="value" pairs,
// leaving out skip.
func (e *Element) attrList(skip string) []string {
	var out []string
	if len(e.classes) > 0 {
		out = append(out, fmt.Sprintf(`class="%s"`, escapeXML(strings.Join(e.classes, " "))))
	}
	for _, k := range sortedKeys(e.attrs) {
		if k == skip {
			continue
		}
		out = append(out, fmt.Sprintf(`%s="%s"`, k, escapeXML(e.attrs[k])))
	}
	if len(e.styles) > 0 {
		var css []string
		for _, k := range sortedKeys(e.styles) {
			css = append(css, k+":"+e.styles[k])
		}
		out = append(out, fmt.Sprintf(`style="%s"`, escapeXML(strings.Join(css, ";"))))
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// errWriter remembers the first write error so the canvas calls, which do
// not return errors, can be checked once at the end.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) Write(p []byte) (int, error) {
	if ew.err != nil {
		return len(p), nil
	}
	n, err := ew.w.Write(p)
	ew.err = err
	return n, err
}
