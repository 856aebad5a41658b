package element

import "math"

// Rect is an axis-aligned rectangle.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Union returns the smallest rectangle containing r and o.
func (r Rect) Union(o Rect) Rect {
	x, y := math.Min(r.X, o.X), math.Min(r.Y, o.Y)
	return Rect{X: x, Y: y, Width: math.Max(r.Right(), o.Right()) - x, Height: math.Max(r.Bottom(), o.Bottom()) - y}
}

// Contains reports whether o lies entirely inside r.
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// localRect is the untransformed extent of e relative to its origin.
func localRect(e Element) Rect {
	switch p := e.Payload.(type) {
	case Line:
		minX, minY, maxX, maxY := p.extent()
		pad := p.StrokeWidth / 2
		return Rect{X: minX - pad, Y: minY - pad, Width: maxX - minX + 2*pad, Height: maxY - minY + 2*pad}
	case Text, Image, QR, Shape, Polygon, Table, Group:
		return Rect{Width: e.Width, Height: e.Height}
	default:
		panic("element: unhandled payload in localRect")
	}
}

// Bounds returns the axis-aligned bounding box of e after scale and rotation.
func Bounds(e Element) Rect {
	l := localRect(e)
	x0, y0 := l.X*e.ScaleX, l.Y*e.ScaleY
	x1, y1 := l.Right()*e.ScaleX, l.Bottom()*e.ScaleY
	if e.Rotation == 0 {
		return Rect{
			X:      e.X + math.Min(x0, x1),
			Y:      e.Y + math.Min(y0, y1),
			Width:  math.Abs(x1 - x0),
			Height: math.Abs(y1 - y0),
		}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range [4][2]float64{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}} {
		px, py := RotatePoint(c[0], c[1], e.Rotation)
		minX, maxX = math.Min(minX, px), math.Max(maxX, px)
		minY, maxY = math.Min(minY, py), math.Max(maxY, py)
	}
	return Rect{X: e.X + minX, Y: e.Y + minY, Width: maxX - minX, Height: maxY - minY}
}

// BoundsOf returns the union of the bounds of elems. ok is false when elems
// is empty.
func BoundsOf(elems []Element) (r Rect, ok bool) {
	for i, e := range elems {
		b := Bounds(e)
		if i == 0 {
			r = b
			continue
		}
		r = r.Union(b)
	}
	return r, len(elems) > 0
}

// RotatePoint rotates (x, y) by deg degrees around the origin.
func RotatePoint(x, y, deg float64) (float64, float64) {
	if deg == 0 {
		return x, y
	}
	s, c := math.Sincos(deg * math.Pi / 180)
	return x*c - y*s, x*s + y*c
}
