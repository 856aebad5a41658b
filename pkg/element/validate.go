package element

import (
	"fmt"
	"math"
	"slices"

	"github.com/matzehuels/badgeboard/pkg/errors"
)

// Limits enforced by [Validate].
const (
	MaxPolygonSides = 64
	MaxTableCells   = 50
)

// Validate checks that e is well formed on its own. Cross-element rules such
// as group membership are checked by the document.
func Validate(e Element) error {
	if err := errors.ValidateElementID(e.ID); err != nil {
		return err
	}
	if e.Payload == nil {
		return errors.New(errors.ErrCodeInvalidElement, "element %s has no payload", e.ID)
	}
	if err := validateGeometry(e); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidElement, err, "element %s", e.ID)
	}
	if err := validatePayload(e.Payload); err != nil {
		code := errors.GetCode(err)
		if code == "" {
			code = errors.ErrCodeInvalidElement
		}
		return errors.Wrap(code, err, "%s element %s", e.Kind(), e.ID)
	}
	return nil
}

func validateGeometry(e Element) error {
	for _, v := range []float64{e.X, e.Y, e.Width, e.Height, e.ScaleX, e.ScaleY, e.Rotation} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("geometry must be finite")
		}
	}
	if e.ScaleX == 0 || e.ScaleY == 0 {
		return fmt.Errorf("scale must be non-zero")
	}
	if _, ok := e.Payload.(Line); ok {
		if e.Width == 0 && e.Height == 0 {
			return fmt.Errorf("line endpoints must differ")
		}
		return nil
	}
	if e.Width <= 0 || e.Height <= 0 {
		return fmt.Errorf("size must be positive, got %gx%g", e.Width, e.Height)
	}
	return nil
}

func validateColors(colors ...string) error {
	for _, c := range colors {
		if err := errors.ValidateHexColor(c); err != nil {
			return err
		}
	}
	return nil
}

func validatePayload(p Payload) error {
	switch v := p.(type) {
	case Text:
		if v.FontSize <= 0 {
			return fmt.Errorf("font size must be positive")
		}
		switch v.Align {
		case AlignLeft, AlignCenter, AlignRight:
		default:
			return fmt.Errorf("unknown alignment %q", v.Align)
		}
		return validateColors(v.Color)
	case Image:
		switch v.Fit {
		case FitContain, FitCover, FitFill:
		default:
			return fmt.Errorf("unknown fit %q", v.Fit)
		}
		if v.Source == "" {
			return nil
		}
		return errors.ValidateImageRef(v.Source)
	case QR:
		if v.Data == "" {
			return fmt.Errorf("qr data cannot be empty")
		}
		switch v.Level {
		case LevelL, LevelM, LevelQ, LevelH:
		default:
			return fmt.Errorf("unknown error correction level %q", v.Level)
		}
		return validateColors(v.Foreground, v.Background)
	case Shape:
		switch v.Shape {
		case ShapeRect, ShapeRounded, ShapeEllipse, ShapeTriangle:
		default:
			return fmt.Errorf("unknown shape %q", v.Shape)
		}
		if v.StrokeWidth < 0 || v.CornerRadius < 0 {
			return fmt.Errorf("stroke width and corner radius cannot be negative")
		}
		return validateColors(v.Fill, v.Stroke)
	case Line:
		for _, c := range v.Points {
			if math.IsNaN(c) || math.IsInf(c, 0) {
				return fmt.Errorf("line points must be finite")
			}
		}
		if v.StrokeWidth <= 0 {
			return fmt.Errorf("stroke width must be positive")
		}
		if slices.ContainsFunc(v.Dash, func(d float64) bool { return d < 0 }) {
			return fmt.Errorf("dash lengths cannot be negative")
		}
		return validateColors(v.Stroke)
	case Polygon:
		if v.Sides < 3 || v.Sides > MaxPolygonSides {
			return fmt.Errorf("polygon needs 3 to %d sides, got %d", MaxPolygonSides, v.Sides)
		}
		if v.Radius <= 0 || v.StrokeWidth < 0 {
			return fmt.Errorf("radius must be positive and stroke width non-negative")
		}
		return validateColors(v.Fill, v.Stroke)
	case Table:
		if v.Rows < 1 || v.Cols < 1 || v.Rows > MaxTableCells || v.Cols > MaxTableCells {
			return fmt.Errorf("table needs 1 to %d rows and columns, got %dx%d", MaxTableCells, v.Rows, v.Cols)
		}
		if len(v.Cells) != v.Rows {
			return fmt.Errorf("table has %d rows but %d cell rows", v.Rows, len(v.Cells))
		}
		for i, row := range v.Cells {
			if len(row) != v.Cols {
				return fmt.Errorf("table row %d has %d cells, want %d", i, len(row), v.Cols)
			}
		}
		if v.FontSize <= 0 {
			return fmt.Errorf("font size must be positive")
		}
		return validateColors(v.BorderColor)
	case Group:
		if len(v.ChildIDs) == 0 {
			return fmt.Errorf("group has no members")
		}
		seen := make(map[string]bool, len(v.ChildIDs))
		for _, id := range v.ChildIDs {
			if err := errors.ValidateElementID(id); err != nil {
				return err
			}
			if seen[id] {
				return errors.New(errors.ErrCodeDuplicateID, "member %s listed twice", id)
			}
			seen[id] = true
		}
		return nil
	default:
		panic(fmt.Sprintf("element: unhandled payload %T", p))
	}
}
