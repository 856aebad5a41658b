package element

import "slices"

// Option configures an element under construction.
type Option func(*Element)

// WithID sets the element id instead of generating one.
func WithID(id string) Option {
	return func(e *Element) { e.ID = id }
}

// At sets the element origin.
func At(x, y float64) Option {
	return func(e *Element) { e.X, e.Y = x, y }
}

// Sized sets the element size. It has no effect on lines and polygons,
// whose size is derived from the payload.
func Sized(w, h float64) Option {
	return func(e *Element) { e.Width, e.Height = w, h }
}

// Scaled sets the element scale factors.
func Scaled(sx, sy float64) Option {
	return func(e *Element) { e.ScaleX, e.ScaleY = sx, sy }
}

// Rotated sets the rotation in degrees.
func Rotated(deg float64) Option {
	return func(e *Element) { e.Rotation = deg }
}

// Hidden marks the element as hidden from export.
func Hidden() Option {
	return func(e *Element) { e.Hidden = true }
}

// DefaultSize returns the width and height given to a new element of kind k.
func DefaultSize(k Kind) (w, h float64) {
	switch k {
	case KindText:
		return 200, 40
	case KindImage, KindQR:
		return 120, 120
	case KindShape:
		return 120, 80
	case KindTable:
		return 200, 80
	case KindLine:
		return 150, 0
	case KindPolygon:
		return 100, 100
	case KindGroup:
		return 1, 1
	}
	return 1, 1
}

// New builds an element around payload p with default geometry for its kind.
func New(p Payload, opts ...Option) Element {
	w, h := DefaultSize(p.Kind())
	e := Element{
		ID:       NewID(),
		Geometry: Geometry{Width: w, Height: h, ScaleX: 1, ScaleY: 1},
		Payload:  clonePayload(p),
	}
	for _, opt := range opts {
		opt(&e)
	}
	e.Sync()
	return e
}

// NewOfKind builds an element of kind k with its default payload.
func NewOfKind(k Kind, opts ...Option) Element {
	return New(DefaultPayload(k), opts...)
}

// NewText builds a text element with default styling.
func NewText(content string, opts ...Option) Element {
	p := DefaultPayload(KindText).(Text)
	p.Content = content
	return New(p, opts...)
}

// NewImage builds an image element referencing src.
func NewImage(src string, opts ...Option) Element {
	p := DefaultPayload(KindImage).(Image)
	p.Source = src
	return New(p, opts...)
}

// NewQR builds a QR element encoding data.
func NewQR(data string, opts ...Option) Element {
	p := DefaultPayload(KindQR).(QR)
	p.Data = data
	return New(p, opts...)
}

// NewShape builds a shape element of the given subtype.
func NewShape(shape ShapeKind, opts ...Option) Element {
	p := DefaultPayload(KindShape).(Shape)
	p.Shape = shape
	if shape == ShapeRounded {
		p.CornerRadius = 8
	}
	return New(p, opts...)
}

// NewLine builds a line between two points given relative to the origin.
func NewLine(x1, y1, x2, y2 float64, opts ...Option) Element {
	p := DefaultPayload(KindLine).(Line)
	p.Points = [4]float64{x1, y1, x2, y2}
	return New(p, opts...)
}

// NewPolygon builds a regular polygon.
func NewPolygon(sides int, radius float64, opts ...Option) Element {
	p := DefaultPayload(KindPolygon).(Polygon)
	p.Sides, p.Radius = sides, radius
	return New(p, opts...)
}

// NewTable builds a table with empty cells.
func NewTable(rows, cols int, opts ...Option) Element {
	p := DefaultPayload(KindTable).(Table)
	p.Rows, p.Cols, p.Cells = rows, cols, emptyCells(rows, cols)
	return New(p, opts...)
}

// NewGroup builds a group container over childIDs. Its geometry must be set
// by the caller, usually to the union of the children's bounds.
func NewGroup(childIDs []string, opts ...Option) Element {
	return New(Group{ChildIDs: slices.Clone(childIDs)}, opts...)
}
