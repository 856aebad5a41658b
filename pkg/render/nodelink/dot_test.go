package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/badgeboard/pkg/arrange"
	"github.com/matzehuels/badgeboard/pkg/document"
	"github.com/matzehuels/badgeboard/pkg/element"
)

func groupedDoc(t *testing.T) *document.Document {
	t.Helper()
	d, err := document.FromElements(document.DefaultCanvas, []element.Element{
		element.NewText("Name", element.WithID("name")),
		element.NewQR("x", element.WithID("qr")),
		element.NewShape(element.ShapeRect, element.WithID("box"), element.Hidden()),
	})
	if err != nil {
		t.Fatal(err)
	}
	p, err := arrange.Group(d, []string{"name", "qr"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.Apply(p.Op); err != nil {
		t.Fatal(err)
	}
	return d
}

func TestToDOT(t *testing.T) {
	d := groupedDoc(t)
	gid, _ := d.GroupOf("name")
	dot := ToDOT(d, Options{})

	for _, want := range []string{
		`"canvas root" [label="canvas 384x576", shape=note];`,
		`"canvas root" -> "` + gid + `";`,
		`"canvas root" -> "box";`,
		`"` + gid + `" -> "name";`,
		`"` + gid + `" -> "qr";`,
		`"name" [label="text\nname"];`,
		"shape=folder",
		"dashed",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q\n%s", want, dot)
		}
	}
	if strings.Contains(dot, `"canvas root" -> "name"`) {
		t.Error("members must hang off their group, not the canvas")
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(groupedDoc(t), Options{Detailed: true})
	for _, want := range []string{"content: Name", "data: x", "members: 2", "shape: rect"} {
		if !strings.Contains(dot, want) {
			t.Errorf("detailed DOT missing %q", want)
		}
	}
}

func TestToDOTDetailedCoversEveryKind(t *testing.T) {
	d, err := document.FromElements(document.DefaultCanvas, []element.Element{
		element.NewLine(0, 0, 30, 40, element.WithID("rule")),
		element.NewPolygon(6, 20, element.WithID("hex")),
		element.NewImage("data:image/png;base64,AAAA", element.WithID("logo")),
	})
	if err != nil {
		t.Fatal(err)
	}
	dot := ToDOT(d, Options{Detailed: true})
	for _, want := range []string{"length: 50", "sides: 6", "source: data:image"} {
		if !strings.Contains(dot, want) {
			t.Errorf("detailed DOT missing %q\n%s", want, dot)
		}
	}
}

func TestShortIDAndTruncate(t *testing.T) {
	if got := shortID("0f8fad5b-d9cb-469f-a165-70867728950e"); got != "0f8fad5b" {
		t.Errorf("shortID(uuid) = %q", got)
	}
	if got := shortID("title"); got != "title" {
		t.Errorf("shortID(title) = %q", got)
	}
	if got := truncate("a\nb", 10); got != "a b" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("abcdefgh", 4); got != "abc…" {
		t.Errorf("truncate = %q", got)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(ToDOT(groupedDoc(t), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error = %v", err)
	}
	if !strings.Contains(string(svg), `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0`) {
		t.Errorf("unexpected SVG header: %.200s", svg)
	}
}
