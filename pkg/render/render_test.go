package render

import (
	"bytes"
	"encoding/xml"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/matzehuels/badgeboard/pkg/document"
	"github.com/matzehuels/badgeboard/pkg/element"
	"github.com/matzehuels/badgeboard/pkg/export"
	"github.com/matzehuels/badgeboard/pkg/fields"
)

// onePixelPNG is a 1x1 red PNG.
const onePixelPNG = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mP8z8DwHwAFBQIAX8jx0gAAAABJRU5ErkJggg=="

func sampleBadge(t *testing.T) export.Badge {
	t.Helper()
	line := element.NewLine(0, 0, 120, 0, element.WithID("rule"), element.At(20, 300))
	lp := line.Payload.(element.Line)
	lp.Arrow = true
	lp.Dash = []float64{4, 2}
	line.Payload = lp

	d, err := document.FromElements(document.DefaultCanvas, []element.Element{
		element.NewShape(element.ShapeRounded, element.WithID("bg"), element.Sized(384, 576)),
		element.NewShape(element.ShapeEllipse, element.WithID("dot"), element.At(10, 10)),
		element.NewShape(element.ShapeTriangle, element.WithID("tri"), element.At(200, 10)),
		element.NewText("Hello <"+fields.TokenName+">\nsecond line", element.WithID("name"), element.At(20, 200), element.Rotated(15)),
		element.NewQR(fields.TokenIdentifier, element.WithID("qr"), element.At(130, 400)),
		element.NewImage(onePixelPNG, element.WithID("logo"), element.At(250, 20), element.Scaled(0.5, 0.5)),
		element.NewImage("https://cdn.example.com/logo.png", element.WithID("remote"), element.At(250, 160)),
		line,
		element.NewPolygon(5, 30, element.WithID("star"), element.At(300, 300)),
		element.NewTable(2, 2, element.WithID("tbl"), element.At(20, 320)),
	})
	if err != nil {
		t.Fatal(err)
	}
	return export.Resolve(d, fields.Attendee{"identifier": "ABC123", "name": "Ada & Co"}, export.Options{})
}

func TestRenderSVG(t *testing.T) {
	svg := RenderSVG(sampleBadge(t), WithBackground("#FFFFFF80"), WithOutline())

	// Well-formed XML.
	dec := xml.NewDecoder(bytes.NewReader(svg))
	for {
		if _, err := dec.Token(); err != nil {
			if err != io.EOF {
				t.Fatalf("invalid SVG: %v\n%s", err, svg)
			}
			break
		}
	}

	s := string(svg)
	for _, want := range []string{
		`viewBox="0 0 384 576"`,
		`<g id="name" transform="translate(20 200) rotate(15)">`,
		`Hello &lt;Ada &amp; Co&gt;`,
		`<tspan x="0" y="52.8">second line</tspan>`,
		`<ellipse cx="60" cy="40" rx="60" ry="40"`,
		`rx="8"`,
		`stroke-dasharray="4 2"`,
		`scale(0.5 0.5)`,
		`preserveAspectRatio="xMidYMid meet"`,
		`shape-rendering="crispEdges"`,
		`rgba(255,255,255,0.502)`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
}

func TestRenderSVGEmptyQR(t *testing.T) {
	d, _ := document.FromElements(document.DefaultCanvas, []element.Element{
		element.NewQR(fields.TokenIdentifier, element.WithID("qr")),
	})
	b := export.Resolve(d, fields.Attendee{}, export.Options{})
	if s := string(RenderSVG(b)); strings.Contains(s, "<path") {
		t.Error("empty QR payload should draw no modules")
	}
}

func TestRenderPNG(t *testing.T) {
	b := sampleBadge(t)
	for _, scale := range []float64{1, 2} {
		data, err := RenderPNG(b, WithScale(scale))
		if err != nil {
			t.Fatalf("RenderPNG() error = %v", err)
		}
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got, want := img.Bounds().Dx(), int(384*scale); got != want {
			t.Errorf("width = %d, want %d", got, want)
		}
	}
	if _, err := RenderPNG(b, WithScale(0)); err == nil {
		t.Error("zero scale should fail")
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in    string
		ok    bool
		alpha uint8
		paint string
	}{
		{"#000000", true, 0xff, "#000000"},
		{"#FF8800", true, 0xff, "#ff8800"},
		{"#ff880000", true, 0, "rgba(255,136,0,0)"},
		{"", false, 0, "none"},
		{"red", false, 0, "none"},
		{"#12345", false, 0, "none"},
	}
	for _, tt := range tests {
		c, ok := parseHex(tt.in)
		if ok != tt.ok || c.A != tt.alpha {
			t.Errorf("parseHex(%q) = %v, %v", tt.in, c, ok)
		}
		if got := svgPaint(tt.in); got != tt.paint {
			t.Errorf("svgPaint(%q) = %q, want %q", tt.in, got, tt.paint)
		}
	}
}

func TestQRModules(t *testing.T) {
	m, err := qrModules(element.QR{Data: "ABC123", Level: element.LevelH})
	if err != nil {
		t.Fatal(err)
	}
	// Version 1 codes are 21x21 without the quiet zone.
	if len(m) != 21 || len(m[0]) != 21 {
		t.Errorf("matrix = %dx%d, want 21x21", len(m), len(m[0]))
	}
	size, ox, oy := qrGrid(21, 210, 105)
	if size != 5 || ox != 52.5 || oy != 0 {
		t.Errorf("qrGrid = %v, %v, %v", size, ox, oy)
	}
}

func TestNum(t *testing.T) {
	for in, want := range map[float64]string{0: "0", 1.5: "1.5", 2.004: "2", -0.001: "0", 100: "100", 52.8: "52.8"} {
		if got := num(in); got != want {
			t.Errorf("num(%v) = %q, want %q", in, got, want)
		}
	}
}
