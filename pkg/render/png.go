package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/fogleman/gg"

	"github.com/matzehuels/badgeboard/pkg/element"
	"github.com/matzehuels/badgeboard/pkg/export"
	"github.com/matzehuels/badgeboard/pkg/fonts"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale      float64
	background string
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// WithPNGBackground sets the canvas color (default white).
func WithPNGBackground(c string) PNGOption {
	return func(r *pngRenderer) { r.background = c }
}

// RenderPNG rasterizes b in process. Only data: image sources are drawn;
// remote images are shown as placeholders, use [ToPNG] on the SVG when they
// matter.
func RenderPNG(b export.Badge, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 2.0, background: "#FFFFFF"}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 {
		return nil, fmt.Errorf("scale must be positive, got %g", r.scale)
	}

	dc := gg.NewContext(int(b.Canvas.Width*r.scale+0.5), int(b.Canvas.Height*r.scale+0.5))
	if c, ok := parseHex(r.background); ok {
		dc.SetColor(c)
		dc.Clear()
	}
	dc.Scale(r.scale, r.scale)

	for _, e := range b.Elements {
		dc.Push()
		dc.Translate(e.X, e.Y)
		dc.Rotate(gg.Radians(e.Rotation))
		dc.Scale(e.ScaleX, e.ScaleY)
		err := drawElement(dc, e)
		dc.Pop()
		if err != nil {
			return nil, fmt.Errorf("draw %s: %w", e.ID, err)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func drawElement(dc *gg.Context, e element.Element) error {
	w, h := e.Width, e.Height
	switch p := e.Payload.(type) {
	case element.Text:
		return drawText(dc, p, w)
	case element.Image:
		drawImage(dc, p, w, h)
	case element.QR:
		if c, ok := parseHex(p.Background); ok {
			dc.SetColor(c)
			dc.DrawRectangle(0, 0, w, h)
			dc.Fill()
		}
		modules, err := qrModules(p)
		if err != nil {
			return err
		}
		if len(modules) == 0 {
			return nil
		}
		size, ox, oy := qrGrid(len(modules), w, h)
		for y, row := range modules {
			for x, dark := range row {
				if dark {
					dc.DrawRectangle(ox+float64(x)*size, oy+float64(y)*size, size, size)
				}
			}
		}
		fg, _ := parseHex(p.Foreground)
		dc.SetColor(fg)
		dc.Fill()
	case element.Shape:
		switch p.Shape {
		case element.ShapeEllipse:
			dc.DrawEllipse(w/2, h/2, w/2, h/2)
		case element.ShapeTriangle:
			dc.MoveTo(w/2, 0)
			dc.LineTo(w, h)
			dc.LineTo(0, h)
			dc.ClosePath()
		default:
			if p.CornerRadius > 0 {
				dc.DrawRoundedRectangle(0, 0, w, h, p.CornerRadius)
			} else {
				dc.DrawRectangle(0, 0, w, h)
			}
		}
		paint(dc, p.Fill, p.Stroke, p.StrokeWidth)
	case element.Line:
		c, _ := parseHex(p.Stroke)
		dc.SetColor(c)
		dc.SetLineWidth(p.StrokeWidth)
		dc.SetDash(p.Dash...)
		dc.DrawLine(p.Points[0], p.Points[1], p.Points[2], p.Points[3])
		dc.Stroke()
		dc.SetDash()
		if p.Arrow {
			head := arrowHead(p)
			dc.MoveTo(head[0][0], head[0][1])
			dc.LineTo(head[1][0], head[1][1])
			dc.LineTo(head[2][0], head[2][1])
			dc.ClosePath()
			dc.Fill()
		}
	case element.Polygon:
		for i, v := range p.Vertices() {
			if i == 0 {
				dc.MoveTo(v[0], v[1])
			} else {
				dc.LineTo(v[0], v[1])
			}
		}
		dc.ClosePath()
		paint(dc, p.Fill, p.Stroke, p.StrokeWidth)
	case element.Table:
		return drawTable(dc, p, w, h)
	case element.Group:
	default:
		panic(fmt.Sprintf("render: unhandled payload %T", e.Payload))
	}
	return nil
}

// paint fills and strokes the current path, then clears it.
func paint(dc *gg.Context, fill, stroke string, width float64) {
	if c, ok := parseHex(fill); ok {
		dc.SetColor(c)
		dc.FillPreserve()
	}
	if c, ok := parseHex(stroke); ok && width > 0 {
		dc.SetColor(c)
		dc.SetLineWidth(width)
		dc.StrokePreserve()
	}
	dc.ClearPath()
}

func drawText(dc *gg.Context, p element.Text, w float64) error {
	face, err := fonts.Face(fonts.Style{Bold: p.Bold, Italic: p.Italic}, p.FontSize)
	if err != nil {
		return err
	}
	defer face.Close()
	dc.SetFontFace(face)
	c, _ := parseHex(p.Color)
	dc.SetColor(c)

	x, ax := 0.0, 0.0
	switch p.Align {
	case element.AlignCenter:
		x, ax = w/2, 0.5
	case element.AlignRight:
		x, ax = w, 1
	}
	for i, line := range strings.Split(p.Content, "\n") {
		dc.DrawStringAnchored(line, x, p.FontSize+float64(i)*p.FontSize*lineHeight, ax, 0)
	}
	return nil
}

func drawTable(dc *gg.Context, p element.Table, w, h float64) error {
	cw, ch := w/float64(p.Cols), h/float64(p.Rows)
	border, ok := parseHex(p.BorderColor)
	if !ok {
		border = color.NRGBA{A: 0xff}
	}
	dc.SetColor(border)
	dc.SetLineWidth(1)
	dc.DrawRectangle(0, 0, w, h)
	for r := 1; r < p.Rows; r++ {
		dc.DrawLine(0, float64(r)*ch, w, float64(r)*ch)
	}
	for c := 1; c < p.Cols; c++ {
		dc.DrawLine(float64(c)*cw, 0, float64(c)*cw, h)
	}
	dc.Stroke()

	face, err := fonts.Face(fonts.Style{}, p.FontSize)
	if err != nil {
		return err
	}
	defer face.Close()
	dc.SetFontFace(face)
	dc.SetColor(color.Black)
	for r, row := range p.Cells {
		for c, cell := range row {
			dc.DrawStringAnchored(cell, float64(c)*cw+cellPadding, float64(r)*ch+ch/2, 0, 0.35)
		}
	}
	return nil
}

func drawImage(dc *gg.Context, p element.Image, w, h float64) {
	img, ok := decodeDataURI(p.Source)
	if !ok {
		dc.DrawRectangle(0, 0, w, h)
		paint(dc, "#EEEEEE", "#BBBBBB", 1)
		return
	}
	iw, ih := float64(img.Bounds().Dx()), float64(img.Bounds().Dy())
	sx, sy := w/iw, h/ih
	switch p.Fit {
	case element.FitContain:
		sx = min(sx, sy)
		sy = sx
	case element.FitCover:
		sx = max(sx, sy)
		sy = sx
	}
	dc.Push()
	dc.DrawRectangle(0, 0, w, h)
	dc.Clip()
	dc.Translate((w-iw*sx)/2, (h-ih*sy)/2)
	dc.Scale(sx, sy)
	dc.DrawImage(img, 0, 0)
	dc.ResetClip()
	dc.Pop()
}

// decodeDataURI decodes a base64 data: image. Remote references are not
// fetched.
func decodeDataURI(src string) (image.Image, bool) {
	_, data, found := strings.Cut(src, ";base64,")
	if !found || !strings.HasPrefix(src, "data:image/") {
		return nil, false
	}
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, false
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, false
	}
	return img, true
}
