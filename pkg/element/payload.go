package element

import (
	"fmt"
	"math"
	"slices"
)

// Payload is the kind-specific part of an element. It is implemented only by
// the variant types in this package.
type Payload interface {
	Kind() Kind
	sealed()
}

// Align is horizontal text alignment.
type Align string

// Text alignments.
const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Text is a run of text. Content may embed field tokens.
type Text struct {
	Content    string  `json:"content"`
	FontFamily string  `json:"fontFamily"`
	FontSize   float64 `json:"fontSize"`
	Bold       bool    `json:"bold,omitempty"`
	Italic     bool    `json:"italic,omitempty"`
	Align      Align   `json:"align"`
	Color      string  `json:"color"`
}

// Fit controls how an image fills its frame.
type Fit string

// Image fit modes.
const (
	FitContain Fit = "contain"
	FitCover   Fit = "cover"
	FitFill    Fit = "fill"
)

// Image references a ready-to-render picture. An empty Source paints as a
// placeholder frame.
type Image struct {
	Source string `json:"source"`
	Fit    Fit    `json:"fit"`
}

// QR error correction levels.
const (
	LevelL = "L"
	LevelM = "M"
	LevelQ = "Q"
	LevelH = "H"
)

// QR is a scannable code. Data is either literal or a field token.
type QR struct {
	Data       string `json:"data"`
	Level      string `json:"level"`
	Foreground string `json:"foreground"`
	Background string `json:"background"`
}

// ShapeKind is the subtype of a [Shape].
type ShapeKind string

// Shape subtypes.
const (
	ShapeRect     ShapeKind = "rect"
	ShapeRounded  ShapeKind = "rounded"
	ShapeEllipse  ShapeKind = "ellipse"
	ShapeTriangle ShapeKind = "triangle"
)

// Shape is a filled and/or stroked primitive filling the element box.
type Shape struct {
	Shape        ShapeKind `json:"shape"`
	Fill         string    `json:"fill"`
	Stroke       string    `json:"stroke"`
	StrokeWidth  float64   `json:"strokeWidth"`
	CornerRadius float64   `json:"cornerRadius,omitempty"`
}

// Line is a straight segment. Points holds x1, y1, x2, y2 relative to the
// element origin.
type Line struct {
	Points      [4]float64 `json:"points"`
	Stroke      string     `json:"stroke"`
	StrokeWidth float64    `json:"strokeWidth"`
	Arrow       bool       `json:"arrow,omitempty"`
	Dash        []float64  `json:"dash,omitempty"`
}

func (l Line) extent() (minX, minY, maxX, maxY float64) {
	return math.Min(l.Points[0], l.Points[2]), math.Min(l.Points[1], l.Points[3]),
		math.Max(l.Points[0], l.Points[2]), math.Max(l.Points[1], l.Points[3])
}

// Length returns the distance between the endpoints.
func (l Line) Length() float64 {
	return math.Hypot(l.Points[2]-l.Points[0], l.Points[3]-l.Points[1])
}

// Polygon is a regular polygon inscribed in a circle of Radius whose centre
// sits at (Radius, Radius) in local coordinates.
type Polygon struct {
	Sides       int     `json:"sides"`
	Radius      float64 `json:"radius"`
	Fill        string  `json:"fill"`
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"strokeWidth"`
}

// Vertices returns the polygon corners in local coordinates, first vertex
// pointing up.
func (p Polygon) Vertices() [][2]float64 {
	pts := make([][2]float64, p.Sides)
	for i := range pts {
		a := -math.Pi/2 + 2*math.Pi*float64(i)/float64(p.Sides)
		pts[i] = [2]float64{p.Radius + p.Radius*math.Cos(a), p.Radius + p.Radius*math.Sin(a)}
	}
	return pts
}

// Table is a grid of text cells. Cells is indexed [row][col].
type Table struct {
	Rows        int        `json:"rows"`
	Cols        int        `json:"cols"`
	Cells       [][]string `json:"cells"`
	FontSize    float64    `json:"fontSize"`
	BorderColor string     `json:"borderColor"`
}

// Group owns the membership of its children.
type Group struct {
	ChildIDs []string `json:"childIds"`
}

func (Text) Kind() Kind    { return KindText }
func (Image) Kind() Kind   { return KindImage }
func (QR) Kind() Kind      { return KindQR }
func (Shape) Kind() Kind   { return KindShape }
func (Line) Kind() Kind    { return KindLine }
func (Polygon) Kind() Kind { return KindPolygon }
func (Table) Kind() Kind   { return KindTable }
func (Group) Kind() Kind   { return KindGroup }

func (Text) sealed()    {}
func (Image) sealed()   {}
func (QR) sealed()      {}
func (Shape) sealed()   {}
func (Line) sealed()    {}
func (Polygon) sealed() {}
func (Table) sealed()   {}
func (Group) sealed()   {}

// DefaultPayload returns the payload a freshly created element of kind k
// carries.
func DefaultPayload(k Kind) Payload {
	switch k {
	case KindText:
		return Text{Content: "Text", FontFamily: DefaultFontFamily, FontSize: 24, Align: AlignLeft, Color: "#000000"}
	case KindImage:
		return Image{Fit: FitContain}
	case KindQR:
		return QR{Data: "https://example.com", Level: LevelM, Foreground: "#000000", Background: "#FFFFFF"}
	case KindShape:
		return Shape{Shape: ShapeRect, Fill: "#D9D9D9", Stroke: "#000000", StrokeWidth: 1}
	case KindLine:
		return Line{Points: [4]float64{0, 0, 150, 0}, Stroke: "#000000", StrokeWidth: 2}
	case KindPolygon:
		return Polygon{Sides: 6, Radius: 50, Fill: "#D9D9D9", Stroke: "#000000", StrokeWidth: 1}
	case KindTable:
		return Table{Rows: 2, Cols: 2, Cells: emptyCells(2, 2), FontSize: 12, BorderColor: "#000000"}
	case KindGroup:
		return Group{}
	default:
		panic(fmt.Sprintf("element: unhandled kind %q", k))
	}
}

// DefaultFontFamily is used by text and table elements unless overridden.
const DefaultFontFamily = "Helvetica"

func emptyCells(rows, cols int) [][]string {
	cells := make([][]string, rows)
	for i := range cells {
		cells[i] = make([]string, cols)
	}
	return cells
}

func clonePayload(p Payload) Payload {
	switch v := p.(type) {
	case nil:
		return nil
	case Text, Image, QR, Shape, Polygon:
		return v
	case Line:
		v.Dash = slices.Clone(v.Dash)
		return v
	case Table:
		cells := make([][]string, len(v.Cells))
		for i, row := range v.Cells {
			cells[i] = slices.Clone(row)
		}
		v.Cells = cells
		return v
	case Group:
		v.ChildIDs = slices.Clone(v.ChildIDs)
		return v
	default:
		panic(fmt.Sprintf("element: unhandled payload %T", p))
	}
}

// PayloadEqual reports whether two payloads are structurally identical.
// A nil slice and an empty slice compare equal.
func PayloadEqual(a, b Payload) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case Text:
		return x == b.(Text)
	case Image:
		return x == b.(Image)
	case QR:
		return x == b.(QR)
	case Shape:
		return x == b.(Shape)
	case Polygon:
		return x == b.(Polygon)
	case Line:
		y := b.(Line)
		return x.Points == y.Points && x.Stroke == y.Stroke && x.StrokeWidth == y.StrokeWidth &&
			x.Arrow == y.Arrow && slices.Equal(x.Dash, y.Dash)
	case Table:
		y := b.(Table)
		return x.Rows == y.Rows && x.Cols == y.Cols && x.FontSize == y.FontSize &&
			x.BorderColor == y.BorderColor &&
			slices.EqualFunc(x.Cells, y.Cells, func(r1, r2 []string) bool { return slices.Equal(r1, r2) })
	case Group:
		return slices.Equal(x.ChildIDs, b.(Group).ChildIDs)
	default:
		panic(fmt.Sprintf("element: unhandled payload %T", a))
	}
}
