package render

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json" // resolved label layout
)

// Formats lists every output format.
var Formats = []string{FormatSVG, FormatPNG, FormatPDF, FormatJSON}

// NeedsConverter reports whether format is produced by rsvg-convert.
func NeedsConverter(format string) bool {
	return format == FormatPNG || format == FormatPDF
}
