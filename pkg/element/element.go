package element

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/matzehuels/badgeboard/pkg/errors"
)

// Kind identifies an element variant.
type Kind string

// Element kinds.
const (
	KindText    Kind = "text"
	KindImage   Kind = "image"
	KindQR      Kind = "qr"
	KindShape   Kind = "shape"
	KindLine    Kind = "line"
	KindPolygon Kind = "polygon"
	KindTable   Kind = "table"
	KindGroup   Kind = "group"
)

// Kinds lists every element kind in toolbar order.
var Kinds = []Kind{KindText, KindImage, KindQR, KindShape, KindLine, KindPolygon, KindTable, KindGroup}

// ParseKind converts a string to a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if slices.Contains(Kinds, k) {
		return k, nil
	}
	return "", errors.New(errors.ErrCodeInvalidKind, "unknown element kind %q", s)
}

// Geometry holds the placement shared by every kind.
type Geometry struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	ScaleX   float64 `json:"scaleX"`
	ScaleY   float64 `json:"scaleY"`
	Rotation float64 `json:"rotation"`
}

// Transformed reports whether the geometry has a non-identity scale or a
// rotation.
func (g Geometry) Transformed() bool {
	return g.ScaleX != 1 || g.ScaleY != 1 || g.Rotation != 0
}

// Element is one placeable unit of a badge document.
//
// Group membership is not stored on the member. The owning document derives
// it from [Group.ChildIDs].
type Element struct {
	ID string
	Geometry
	Payload Payload
	Hidden  bool
}

// Kind returns the kind of the element's payload.
func (e Element) Kind() Kind {
	if e.Payload == nil {
		return ""
	}
	return e.Payload.Kind()
}

// IsGroup reports whether e is a group container.
func (e Element) IsGroup() bool {
	_, ok := e.Payload.(Group)
	return ok
}

// Children returns the member ids of a group, or nil for any other kind.
// The returned slice is a copy.
func (e Element) Children() []string {
	if g, ok := e.Payload.(Group); ok {
		return slices.Clone(g.ChildIDs)
	}
	return nil
}

// String returns a short description such as "text(6f1c2a9e)".
func (e Element) String() string {
	id := e.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("%s(%s)", e.Kind(), id)
}

// Clone returns a deep copy of e. Slices inside the payload are not shared.
func (e Element) Clone() Element {
	c := e
	c.Payload = clonePayload(e.Payload)
	return c
}

// Equal reports whether two elements are structurally identical.
func (e Element) Equal(o Element) bool {
	if e.ID != o.ID || e.Geometry != o.Geometry || e.Hidden != o.Hidden {
		return false
	}
	return PayloadEqual(e.Payload, o.Payload)
}

// Sync recomputes the size of kinds whose size is derived from the payload.
// Other kinds are left untouched.
func (e *Element) Sync() {
	switch p := e.Payload.(type) {
	case Line:
		minX, minY, maxX, maxY := p.extent()
		e.Width, e.Height = maxX-minX, maxY-minY
	case Polygon:
		e.Width, e.Height = 2*p.Radius, 2*p.Radius
	}
}

// NewID returns a fresh random element identifier.
func NewID() string {
	return uuid.NewString()
}
