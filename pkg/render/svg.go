package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/matzehuels/badgeboard/pkg/element"
	"github.com/matzehuels/badgeboard/pkg/export"
	"github.com/matzehuels/badgeboard/pkg/fonts"
)

// lineHeight is the baseline advance for multi-line text, in ems.
const lineHeight = 1.2

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	background string
	outline    bool
}

// WithBackground paints the canvas before any element.
func WithBackground(c string) SVGOption { return func(r *svgRenderer) { r.background = c } }

// WithOutline draws a hairline around the printable area.
func WithOutline() SVGOption { return func(r *svgRenderer) { r.outline = true } }

// RenderSVG draws b as a standalone SVG document sized to the canvas.
// Elements that cannot be drawn, such as a QR payload too long to encode,
// are replaced by an empty frame.
func RenderSVG(b export.Badge, opts ...SVGOption) []byte {
	r := svgRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	w, h := b.Canvas.Width, b.Canvas.Height
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s">`+"\n",
		num(w), num(h), num(w), num(h))
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="%s" height="%s" fill="%s"/>`+"\n", num(w), num(h), svgPaint(r.background))
	}
	for _, e := range b.Elements {
		writeElement(&buf, e)
	}
	if r.outline {
		fmt.Fprintf(&buf, `  <rect width="%s" height="%s" fill="none" stroke="#999999" stroke-width="0.5" stroke-dasharray="4 2"/>`+"\n", num(w), num(h))
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func writeElement(buf *bytes.Buffer, e element.Element) {
	fmt.Fprintf(buf, `  <g id="%s" transform="%s">`+"\n", esc(e.ID), transform(e.Geometry))
	switch p := e.Payload.(type) {
	case element.Text:
		writeText(buf, p, e.Width)
	case element.Image:
		writeImage(buf, p, e.Width, e.Height)
	case element.QR:
		writeQR(buf, p, e.Width, e.Height)
	case element.Shape:
		writeShape(buf, p, e.Width, e.Height)
	case element.Line:
		writeLine(buf, p)
	case element.Polygon:
		pts := make([]string, 0, p.Sides)
		for _, v := range p.Vertices() {
			pts = append(pts, num(v[0])+","+num(v[1]))
		}
		fmt.Fprintf(buf, `    <polygon points="%s"%s/>`+"\n", strings.Join(pts, " "), paintAttrs(p.Fill, p.Stroke, p.StrokeWidth))
	case element.Table:
		writeTable(buf, p, e.Width, e.Height)
	case element.Group:
		// Groups carry no paint of their own.
	default:
		panic(fmt.Sprintf("render: unhandled payload %T", e.Payload))
	}
	buf.WriteString("  </g>\n")
}

func transform(g element.Geometry) string {
	t := "translate(" + num(g.X) + " " + num(g.Y) + ")"
	if g.Rotation != 0 {
		t += " rotate(" + num(g.Rotation) + ")"
	}
	if g.ScaleX != 1 || g.ScaleY != 1 {
		t += " scale(" + num(g.ScaleX) + " " + num(g.ScaleY) + ")"
	}
	return t
}

func writeText(buf *bytes.Buffer, p element.Text, w float64) {
	x, anchor := 0.0, "start"
	switch p.Align {
	case element.AlignCenter:
		x, anchor = w/2, "middle"
	case element.AlignRight:
		x, anchor = w, "end"
	}
	family := fonts.FontFamily
	if p.FontFamily != "" {
		family = "'" + p.FontFamily + "', " + family
	}
	attrs := fmt.Sprintf(`font-family="%s" font-size="%s" fill="%s" text-anchor="%s"`,
		esc(family), num(p.FontSize), svgPaint(p.Color), anchor)
	if p.Bold {
		attrs += ` font-weight="bold"`
	}
	if p.Italic {
		attrs += ` font-style="italic"`
	}
	fmt.Fprintf(buf, `    <text %s>`, attrs)
	for i, line := range strings.Split(p.Content, "\n") {
		y := p.FontSize + float64(i)*p.FontSize*lineHeight
		fmt.Fprintf(buf, `<tspan x="%s" y="%s">%s</tspan>`, num(x), num(y), esc(line))
	}
	buf.WriteString("</text>\n")
}

func writeImage(buf *bytes.Buffer, p element.Image, w, h float64) {
	if p.Source == "" {
		fmt.Fprintf(buf, `    <rect width="%s" height="%s" fill="#eeeeee" stroke="#bbbbbb"/>`+"\n", num(w), num(h))
		return
	}
	aspect := "xMidYMid meet"
	switch p.Fit {
	case element.FitCover:
		aspect = "xMidYMid slice"
	case element.FitFill:
		aspect = "none"
	}
	fmt.Fprintf(buf, `    <image href="%s" width="%s" height="%s" preserveAspectRatio="%s"/>`+"\n",
		esc(p.Source), num(w), num(h), aspect)
}

func writeQR(buf *bytes.Buffer, p element.QR, w, h float64) {
	if p.Background != "" {
		fmt.Fprintf(buf, `    <rect width="%s" height="%s" fill="%s"/>`+"\n", num(w), num(h), svgPaint(p.Background))
	}
	modules, err := qrModules(p)
	if err != nil || len(modules) == 0 {
		return
	}
	size, ox, oy := qrGrid(len(modules), w, h)
	var path strings.Builder
	for y, row := range modules {
		for x, dark := range row {
			if dark {
				fmt.Fprintf(&path, "M%s %sh%sv%sh-%sz", num(ox+float64(x)*size), num(oy+float64(y)*size), num(size), num(size), num(size))
			}
		}
	}
	fmt.Fprintf(buf, `    <path d="%s" fill="%s" shape-rendering="crispEdges"/>`+"\n", path.String(), svgPaint(p.Foreground))
}

func writeShape(buf *bytes.Buffer, p element.Shape, w, h float64) {
	paint := paintAttrs(p.Fill, p.Stroke, p.StrokeWidth)
	switch p.Shape {
	case element.ShapeEllipse:
		fmt.Fprintf(buf, `    <ellipse cx="%s" cy="%s" rx="%s" ry="%s"%s/>`+"\n", num(w/2), num(h/2), num(w/2), num(h/2), paint)
	case element.ShapeTriangle:
		fmt.Fprintf(buf, `    <polygon points="%s,0 %s,%s 0,%s"%s/>`+"\n", num(w/2), num(w), num(h), num(h), paint)
	default:
		rx := ""
		if p.CornerRadius > 0 {
			rx = ` rx="` + num(p.CornerRadius) + `"`
		}
		fmt.Fprintf(buf, `    <rect width="%s" height="%s"%s%s/>`+"\n", num(w), num(h), rx, paint)
	}
}

func writeLine(buf *bytes.Buffer, p element.Line) {
	x1, y1, x2, y2 := p.Points[0], p.Points[1], p.Points[2], p.Points[3]
	dash := ""
	if len(p.Dash) > 0 {
		parts := make([]string, len(p.Dash))
		for i, d := range p.Dash {
			parts[i] = num(d)
		}
		dash = ` stroke-dasharray="` + strings.Join(parts, " ") + `"`
	}
	fmt.Fprintf(buf, `    <line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%s"%s/>`+"\n",
		num(x1), num(y1), num(x2), num(y2), svgPaint(p.Stroke), num(p.StrokeWidth), dash)
	if p.Arrow {
		head := arrowHead(p)
		fmt.Fprintf(buf, `    <polygon points="%s,%s %s,%s %s,%s" fill="%s"/>`+"\n",
			num(head[0][0]), num(head[0][1]), num(head[1][0]), num(head[1][1]), num(head[2][0]), num(head[2][1]), svgPaint(p.Stroke))
	}
}

func writeTable(buf *bytes.Buffer, p element.Table, w, h float64) {
	cw, ch := w/float64(p.Cols), h/float64(p.Rows)
	stroke := svgPaint(p.BorderColor)
	fmt.Fprintf(buf, `    <rect width="%s" height="%s" fill="none" stroke="%s"/>`+"\n", num(w), num(h), stroke)
	for r := 1; r < p.Rows; r++ {
		fmt.Fprintf(buf, `    <line x1="0" y1="%s" x2="%s" y2="%s" stroke="%s"/>`+"\n", num(float64(r)*ch), num(w), num(float64(r)*ch), stroke)
	}
	for c := 1; c < p.Cols; c++ {
		fmt.Fprintf(buf, `    <line x1="%s" y1="0" x2="%s" y2="%s" stroke="%s"/>`+"\n", num(float64(c)*cw), num(float64(c)*cw), num(h), stroke)
	}
	for r, row := range p.Cells {
		for c, cell := range row {
			if cell == "" {
				continue
			}
			fmt.Fprintf(buf, `    <text x="%s" y="%s" font-family="%s" font-size="%s" dominant-baseline="middle">%s</text>`+"\n",
				num(float64(c)*cw+cellPadding), num(float64(r)*ch+ch/2), esc(fonts.FontFamily), num(p.FontSize), esc(cell))
		}
	}
}

const cellPadding = 4

func paintAttrs(fill, stroke string, width float64) string {
	s := ` fill="` + svgPaint(fill) + `"`
	if stroke != "" && width > 0 {
		s += ` stroke="` + svgPaint(stroke) + `" stroke-width="` + num(width) + `"`
	}
	return s
}

// arrowHead returns the three corners of the arrow tip at the second
// endpoint of p.
func arrowHead(p element.Line) [3][2]float64 {
	x1, y1, x2, y2 := p.Points[0], p.Points[1], p.Points[2], p.Points[3]
	l := p.Length()
	if l == 0 {
		return [3][2]float64{{x2, y2}, {x2, y2}, {x2, y2}}
	}
	dx, dy := (x2-x1)/l, (y2-y1)/l
	size := max(6, 3*p.StrokeWidth)
	bx, by := x2-size*dx, y2-size*dy
	nx, ny := -dy*size/2, dx*size/2
	return [3][2]float64{{x2, y2}, {bx + nx, by + ny}, {bx - nx, by - ny}}
}

func num(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	if s == "-0" {
		return "0"
	}
	return s
}

func esc(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
