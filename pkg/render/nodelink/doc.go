// Package nodelink renders the element tree of a badge document as a
// node-link diagram.
//
// # Overview
//
// The canvas is the root node. Top-level elements hang off the canvas and
// group members hang off their group, left to right in paint order. The
// diagram is a debugging aid for nested groups; it shows structure, not
// geometry.
//
// # Usage
//
// Convert a document to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(doc, nodelink.Options{Detailed: false})
//	svg, err := nodelink.RenderSVG(dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(dot)
//	png, err := nodelink.RenderPNG(dot, 2.0)  // 2x scale
//
// # Options
//
//   - Detailed: When true, node labels include kind-specific properties and
//     the element geometry.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
