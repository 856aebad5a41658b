package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/badgeboard/pkg/document"
	"github.com/matzehuels/badgeboard/pkg/element"
	"github.com/matzehuels/badgeboard/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes properties and geometry in node labels.
	// When false, only the kind and id are shown.
	Detailed bool
}

// canvasNode is the DOT id of the root node. Element ids cannot contain
// spaces, so it never collides.
const canvasNode = "canvas root"

// ToDOT converts a document to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
//
// Group containers are drawn as folders and hidden elements with dashed
// outlines and grey fill.
func ToDOT(d *document.Document, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	c := d.Canvas()
	fmt.Fprintf(&buf, "  %q [label=%q, shape=note];\n", canvasNode, fmt.Sprintf("canvas %gx%g", c.Width, c.Height))
	for _, e := range d.Elements() {
		attrs := fmtAttrs(e, fmtLabel(e, opts.Detailed))
		fmt.Fprintf(&buf, "  %q [%s];\n", e.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, id := range d.TopLevel() {
		fmt.Fprintf(&buf, "  %q -> %q;\n", canvasNode, id)
	}
	for _, e := range d.Elements() {
		for _, c := range e.Children() {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.ID, c)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(e element.Element, detailed bool) string {
	label := string(e.Kind()) + "\n" + shortID(e.ID)
	if !detailed {
		return label
	}

	parts := []string{fmt.Sprintf("at %.0f,%.0f size %.0fx%.0f", e.X, e.Y, e.Width, e.Height)}
	if e.Rotation != 0 {
		parts = append(parts, fmt.Sprintf("rotation: %g", e.Rotation))
	}
	switch p := e.Payload.(type) {
	case element.Text:
		parts = append(parts, "content: "+truncate(p.Content, 24))
	case element.QR:
		parts = append(parts, "data: "+truncate(p.Data, 24))
	case element.Image:
		parts = append(parts, "source: "+truncate(p.Source, 24))
	case element.Shape:
		parts = append(parts, "shape: "+string(p.Shape))
	case element.Line:
		parts = append(parts, fmt.Sprintf("length: %.0f", p.Length()))
	case element.Polygon:
		parts = append(parts, fmt.Sprintf("sides: %d", p.Sides))
	case element.Table:
		parts = append(parts, fmt.Sprintf("cells: %dx%d", p.Rows, p.Cols))
	case element.Group:
		parts = append(parts, fmt.Sprintf("members: %d", len(p.ChildIDs)))
	}
	return label + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(e element.Element, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if e.IsGroup() {
		attrs = append(attrs, "shape=folder")
	}
	if e.Hidden {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	return attrs
}

// shortID abbreviates generated uuids to their first block.
func shortID(id string) string {
	if len(id) == 36 && id[8] == '-' {
		return id[:8]
	}
	return id
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if r := []rune(s); len(r) > n {
		return string(r[:n-1]) + "…"
	}
	return s
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPDF].
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPNG].
//
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
