package element

import (
	"fmt"
	"math"
	"testing"

	"github.com/matzehuels/badgeboard/pkg/errors"
)

func TestConstructorsArePaintable(t *testing.T) {
	for _, k := range Kinds {
		if k == KindGroup {
			continue
		}
		t.Run(string(k), func(t *testing.T) {
			e := NewOfKind(k)
			if e.Kind() != k {
				t.Fatalf("Kind() = %s, want %s", e.Kind(), k)
			}
			if e.ID == "" {
				t.Error("constructor should assign an id")
			}
			if e.ScaleX != 1 || e.ScaleY != 1 || e.Rotation != 0 {
				t.Errorf("geometry not identity: %+v", e.Geometry)
			}
			b := Bounds(e)
			if b.Width <= 0 || b.Height <= 0 {
				t.Errorf("Bounds() = %+v, want non-zero size", b)
			}
			if err := Validate(e); err != nil {
				t.Errorf("Validate() = %v", err)
			}
		})
	}
}

func TestConstructorOptions(t *testing.T) {
	e := NewText("Hi", WithID("t1"), At(10, 20), Sized(50, 20), Rotated(15), Hidden())
	if e.ID != "t1" || e.X != 10 || e.Y != 20 || e.Width != 50 || e.Height != 20 || e.Rotation != 15 || !e.Hidden {
		t.Errorf("options not applied: %+v", e)
	}
	if got := e.Payload.(Text).Content; got != "Hi" {
		t.Errorf("Content = %q", got)
	}
}

func TestDerivedSizes(t *testing.T) {
	line := NewLine(10, 40, 70, 0, Sized(999, 999))
	if line.Width != 60 || line.Height != 40 {
		t.Errorf("line size = %gx%g, want 60x40", line.Width, line.Height)
	}
	poly := NewPolygon(5, 30)
	if poly.Width != 60 || poly.Height != 60 {
		t.Errorf("polygon size = %gx%g, want 60x60", poly.Width, poly.Height)
	}
}

func TestBounds(t *testing.T) {
	tests := []struct {
		name string
		e    Element
		want Rect
	}{
		{"plain", NewShape(ShapeRect, At(10, 5), Sized(30, 30)), Rect{10, 5, 30, 30}},
		{"scaled", NewShape(ShapeRect, At(0, 0), Sized(10, 20), Scaled(2, 3)), Rect{0, 0, 20, 60}},
		{"mirrored", NewShape(ShapeRect, At(100, 0), Sized(10, 10), Scaled(-1, 1)), Rect{90, 0, 10, 10}},
		{"horizontal line", NewLine(0, 0, 100, 0, At(5, 5)), Rect{4, 4, 102, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Bounds(tt.e); !rectNear(got, tt.want) {
				t.Errorf("Bounds() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBoundsRotated(t *testing.T) {
	e := NewShape(ShapeRect, At(0, 0), Sized(10, 20), Rotated(90))
	want := Rect{X: -20, Y: 0, Width: 20, Height: 10}
	if got := Bounds(e); !rectNear(got, want) {
		t.Errorf("Bounds() = %+v, want %+v", got, want)
	}
}

func TestBoundsOf(t *testing.T) {
	a := NewText("A", At(10, 10), Sized(50, 20))
	b := NewShape(ShapeRect, At(40, 5), Sized(30, 30))
	got, ok := BoundsOf([]Element{a, b})
	if !ok {
		t.Fatal("BoundsOf() ok = false")
	}
	if want := (Rect{10, 5, 60, 30}); got != want {
		t.Errorf("BoundsOf() = %+v, want %+v", got, want)
	}
	if _, ok := BoundsOf(nil); ok {
		t.Error("BoundsOf(nil) ok = true")
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := NewTable(2, 2)
	orig.Payload.(Table).Cells[0][0] = "x"
	c := orig.Clone()
	c.Payload.(Table).Cells[0][0] = "changed"
	if orig.Payload.(Table).Cells[0][0] != "x" {
		t.Error("Clone shares table cells")
	}

	g := NewGroup([]string{"a", "b"})
	gc := g.Clone()
	gc.Payload.(Group).ChildIDs[0] = "z"
	if g.Children()[0] != "a" {
		t.Error("Clone shares group children")
	}
}

func TestEqual(t *testing.T) {
	a := NewLine(0, 0, 10, 0, WithID("l"))
	b := a.Clone()
	if !a.Equal(b) {
		t.Error("clone should be equal")
	}
	p := b.Payload.(Line)
	p.Dash = []float64{}
	b.Payload = p
	if !a.Equal(b) {
		t.Error("nil and empty dash should compare equal")
	}
	b.X = 1
	if a.Equal(b) {
		t.Error("different geometry should not be equal")
	}
	if PayloadEqual(DefaultPayload(KindText), DefaultPayload(KindQR)) {
		t.Error("payloads of different kinds should not be equal")
	}
}

func TestPatchApply(t *testing.T) {
	e := NewText("Hi", WithID("t"), At(0, 0))

	moved, err := Move(5, 6).Apply(e)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if moved.X != 5 || moved.Y != 6 {
		t.Errorf("moved to %g,%g", moved.X, moved.Y)
	}
	if e.X != 0 {
		t.Error("Apply modified its input")
	}

	p := e.Payload.(Text)
	p.Content = "Bye"
	changed, err := Patch{Payload: p, Hidden: Ptr(true)}.Apply(e)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if changed.Payload.(Text).Content != "Bye" || !changed.Hidden {
		t.Errorf("payload patch not applied: %+v", changed)
	}
}

func TestPatchApplyErrors(t *testing.T) {
	text := NewText("Hi", WithID("t"))
	group := NewGroup([]string{"a", "b"}, WithID("g"))

	tests := []struct {
		name string
		e    Element
		p    Patch
		code errors.Code
	}{
		{"kind mismatch", text, Patch{Payload: DefaultPayload(KindQR)}, errors.ErrCodeInvalidKind},
		{"group payload", group, Patch{Payload: Group{ChildIDs: []string{"c", "d"}}}, errors.ErrCodeInvalidInput},
		{"negative width", text, Patch{Width: Ptr(-1.0)}, errors.ErrCodeInvalidElement},
		{"zero scale", text, Patch{ScaleX: Ptr(0.0)}, errors.ErrCodeInvalidElement},
		{"bad color", text, Patch{Payload: Text{FontSize: 10, Align: AlignLeft, Color: "red"}}, errors.ErrCodeInvalidColor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.p.Apply(tt.e)
			if !errors.Is(err, tt.code) {
				t.Errorf("Apply() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestPatchResyncsLine(t *testing.T) {
	e := NewLine(0, 0, 10, 0)
	p := e.Payload.(Line)
	p.Points = [4]float64{0, 0, 30, 40}
	out, err := Patch{Payload: p, Width: Ptr(1.0)}.Apply(e)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if out.Width != 30 || out.Height != 40 {
		t.Errorf("line size = %gx%g, want 30x40", out.Width, out.Height)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		e    Element
	}{
		{"empty id", NewText("x", WithID(""))},
		{"degenerate line", NewLine(5, 5, 5, 5)},
		{"two sided polygon", NewPolygon(2, 10)},
		{"empty qr", NewQR("")},
		{"bad image", NewImage("ftp://x/y.png")},
		{"empty group", NewGroup(nil)},
		{"duplicate member", NewGroup([]string{"a", "a"})},
		{"ragged table", func() Element {
			e := NewTable(2, 2)
			e.Payload = Table{Rows: 2, Cols: 2, Cells: [][]string{{"a"}, {"b", "c"}}, FontSize: 12}
			return e
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Validate(tt.e); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	if k, err := ParseKind("qr"); err != nil || k != KindQR {
		t.Errorf("ParseKind(qr) = %v, %v", k, err)
	}
	if _, err := ParseKind("bezier"); !errors.Is(err, errors.ErrCodeInvalidKind) {
		t.Errorf("ParseKind(bezier) error = %v", err)
	}
}

func TestPolygonVertices(t *testing.T) {
	v := Polygon{Sides: 4, Radius: 10}.Vertices()
	if len(v) != 4 {
		t.Fatalf("len = %d", len(v))
	}
	if math.Abs(v[0][0]-10) > 1e-9 || math.Abs(v[0][1]) > 1e-9 {
		t.Errorf("first vertex = %v, want (10, 0)", v[0])
	}
}

func rectNear(a, b Rect) bool {
	const eps = 1e-9
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps &&
		math.Abs(a.Width-b.Width) < eps && math.Abs(a.Height-b.Height) < eps
}

func ExampleBoundsOf() {
	a := NewText("A", At(10, 10), Sized(50, 20))
	b := NewShape(ShapeRect, At(40, 5), Sized(30, 30))
	r, _ := BoundsOf([]Element{a, b})
	fmt.Printf("x=%g y=%g w=%g h=%g\n", r.X, r.Y, r.Width, r.Height)
	// Output: x=10 y=5 w=60 h=30
}
