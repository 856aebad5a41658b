// Package render draws resolved badges for preview and print hand-off.
//
// # Overview
//
// The editor core never rasterizes; this package is the boundary to the
// outside rasterizer. It provides:
//
//   - [RenderSVG]: a vector rendition of an [export.Badge]
//   - [RenderPNG]: a raster preview drawn with gg and the Go fonts
//   - [ToPDF] and [ToPNG]: conversion of any SVG through rsvg-convert
//   - Element tree diagrams (in the [nodelink] subpackage)
//
// Elements are drawn in paint order. Each element is placed with the
// transform translate(x, y) rotate(rotation) scale(scaleX, scaleY) and then
// drawn in its local box (0, 0, width, height), so rotation pivots on the
// element origin.
//
//	badge := export.Resolve(doc, attendee, export.Options{})
//	svg := render.RenderSVG(badge)
//	pdf, err := render.ToPDF(svg)
//
// # Colors
//
// Colors are #RRGGBB or #RRGGBBAA. An empty color means no paint.
package render
