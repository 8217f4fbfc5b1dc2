// Package render converts SVG documents to raster and print formats.
//
// Conversion shells out to rsvg-convert from librsvg, which must be on
// PATH:
//
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2) // 2x resolution
//
// SVG output itself needs no conversion; it is written by the scene the
// timeline draws into.
package render
