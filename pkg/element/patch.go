package element

import (
	"github.com/matzehuels/badgeboard/pkg/errors"
)

// Patch is a partial update of an element. Nil fields are left unchanged.
// Payload, when set, replaces the whole payload and must be of the same kind.
type Patch struct {
	X        *float64 `json:"x,omitempty"`
	Y        *float64 `json:"y,omitempty"`
	Width    *float64 `json:"width,omitempty"`
	Height   *float64 `json:"height,omitempty"`
	ScaleX   *float64 `json:"scaleX,omitempty"`
	ScaleY   *float64 `json:"scaleY,omitempty"`
	Rotation *float64 `json:"rotation,omitempty"`
	Hidden   *bool    `json:"hidden,omitempty"`
	Payload  Payload  `json:"-"`
}

// Ptr returns a pointer to v. It keeps patch literals short:
//
//	element.Patch{X: element.Ptr(10.0)}
func Ptr[T any](v T) *T { return &v }

// Move returns a patch that sets the origin.
func Move(x, y float64) Patch {
	return Patch{X: &x, Y: &y}
}

// Resize returns a patch that sets the size.
func Resize(w, h float64) Patch {
	return Patch{Width: &w, Height: &h}
}

// IsEmpty reports whether p changes nothing.
func (p Patch) IsEmpty() bool {
	return !p.TouchesGeometry() && p.Hidden == nil && p.Payload == nil
}

// TouchesGeometry reports whether p sets any geometry field.
func (p Patch) TouchesGeometry() bool {
	return p.X != nil || p.Y != nil || p.Width != nil || p.Height != nil ||
		p.ScaleX != nil || p.ScaleY != nil || p.Rotation != nil
}

// Apply returns a copy of e with p merged in. The input is not modified.
// The result is synced and validated.
func (p Patch) Apply(e Element) (Element, error) {
	out := e.Clone()
	if p.Payload != nil {
		if _, ok := e.Payload.(Group); ok {
			return e, errors.New(errors.ErrCodeInvalidInput, "group membership of %s cannot be patched", e.ID)
		}
		if p.Payload.Kind() != e.Kind() {
			return e, errors.New(errors.ErrCodeInvalidKind, "cannot patch %s payload onto %s element %s", p.Payload.Kind(), e.Kind(), e.ID)
		}
		out.Payload = clonePayload(p.Payload)
	}
	set(&out.X, p.X)
	set(&out.Y, p.Y)
	set(&out.Width, p.Width)
	set(&out.Height, p.Height)
	set(&out.ScaleX, p.ScaleX)
	set(&out.ScaleY, p.ScaleY)
	set(&out.Rotation, p.Rotation)
	set(&out.Hidden, p.Hidden)
	out.Sync()
	if err := Validate(out); err != nil {
		return e, err
	}
	return out, nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
