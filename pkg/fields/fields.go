// Package fields resolves dynamic field tokens embedded in badge elements.
//
// A token such as {{attendee.name}} is stored verbatim in a text element's
// content or a QR element's data. The design surface shows it literally so
// the designer can see what is bound; export substitutes the attendee's
// value. Resolution is a pure function of token and attendee record and
// never panics: a record that lacks the attribute yields an error carrying
// [errors.ErrCodeMissingAttribute] that callers degrade to a placeholder.
package fields

import (
	"regexp"
	"strings"

	"github.com/matzehuels/badgeboard/pkg/element"
	"github.com/matzehuels/badgeboard/pkg/errors"
)

// Well-known tokens.
const (
	TokenIdentifier   = "{{attendee.identifier}}"
	TokenName         = "{{attendee.name}}"
	TokenOrganization = "{{attendee.organization}}"
	TokenGuestType    = "{{attendee.guest_type}}"
)

// Field describes one bindable attendee attribute.
type Field struct {
	Token     string `json:"token"`
	Label     string `json:"label"`
	Attribute string `json:"attribute"`
	// Scannable fields are bound as QR data rather than visible text.
	Scannable bool `json:"scannable,omitempty"`
}

var catalogue = []Field{
	{Token: TokenIdentifier, Label: "Attendee ID", Attribute: "identifier", Scannable: true},
	{Token: TokenName, Label: "Full Name", Attribute: "name"},
	{Token: TokenOrganization, Label: "Organization", Attribute: "organization"},
	{Token: TokenGuestType, Label: "Guest Type", Attribute: "guest_type"},
}

// ErrMissingAttribute is wrapped by every missing-attribute failure.
var ErrMissingAttribute = errors.New(errors.ErrCodeMissingAttribute, "missing attribute")

// List returns the bindable fields in display order.
func List() []Field {
	out := make([]Field, len(catalogue))
	copy(out, catalogue)
	return out
}

// Lookup returns the field for token.
func Lookup(token string) (Field, error) {
	for _, f := range catalogue {
		if f.Token == token {
			return f, nil
		}
	}
	return Field{}, errors.New(errors.ErrCodeUnknownField, "unknown field %q", token)
}

// IsToken reports whether s is exactly one known token.
func IsToken(s string) bool {
	_, err := Lookup(s)
	return err == nil
}

// Attendee is an attendee record keyed by attribute name.
type Attendee map[string]string

// ID returns the attendee identifier, or "" when absent.
func (a Attendee) ID() string {
	return strings.TrimSpace(a["identifier"])
}

// Resolve returns the attendee's value for token. Blank values count as
// missing.
func Resolve(token string, a Attendee) (string, error) {
	f, err := Lookup(token)
	if err != nil {
		return "", err
	}
	v := strings.TrimSpace(a[f.Attribute])
	if v == "" {
		return "", errors.Wrap(errors.ErrCodeMissingAttribute, ErrMissingAttribute, "attendee has no %s", f.Attribute)
	}
	return v, nil
}

// tokenRegex matches any {{scope.attribute}} token, known or not.
var tokenRegex = regexp.MustCompile(`\{\{\s*[a-z_]+\.[a-z_]+\s*\}\}`)

func normalize(raw string) string {
	inner := strings.TrimSpace(raw[2 : len(raw)-2])
	return "{{" + inner + "}}"
}

// Tokens returns the known tokens embedded in s, in order of appearance,
// without duplicates.
func Tokens(s string) []string {
	var out []string
	seen := map[string]bool{}
	for _, m := range tokenRegex.FindAllString(s, -1) {
		tok := normalize(m)
		if IsToken(tok) && !seen[tok] {
			seen[tok] = true
			out = append(out, tok)
		}
	}
	return out
}

// ResolveText substitutes every known token in s. Missing values are
// replaced by placeholder and their tokens returned in missing. Unknown
// tokens are left as literal text.
func ResolveText(s string, a Attendee, placeholder string) (out string, missing []string) {
	out = tokenRegex.ReplaceAllStringFunc(s, func(m string) string {
		tok := normalize(m)
		v, err := Resolve(tok, a)
		switch {
		case err == nil:
			return v
		case errors.Is(err, errors.ErrCodeMissingAttribute):
			missing = append(missing, tok)
			return placeholder
		default:
			return m
		}
	})
	return out, missing
}

// DesignText replaces known tokens in s with bracketed labels, e.g.
// "Hello [Full Name]".
func DesignText(s string) string {
	return tokenRegex.ReplaceAllStringFunc(s, func(m string) string {
		f, err := Lookup(normalize(m))
		if err != nil {
			return m
		}
		return "[" + f.Label + "]"
	})
}

// NewElement creates the element a designer gets when dropping field token
// onto the canvas at (x, y): a QR code for scannable fields, text otherwise.
func NewElement(token string, x, y float64) (element.Element, error) {
	f, err := Lookup(token)
	if err != nil {
		return element.Element{}, err
	}
	if f.Scannable {
		return element.NewQR(f.Token, element.At(x, y)), nil
	}
	return element.NewText(f.Token, element.At(x, y)), nil
}

// Bind returns a copy of e bound to token. Text content or QR data is set
// to the raw token. Binding a scannable field to a text element converts it
// into a QR element with the same id and origin. Other kinds cannot be
// bound.
func Bind(e element.Element, token string) (element.Element, error) {
	f, err := Lookup(token)
	if err != nil {
		return e, err
	}
	out := e.Clone()
	switch p := e.Payload.(type) {
	case element.QR:
		p.Data = f.Token
		out.Payload = p
	case element.Text:
		if f.Scannable {
			qr := element.NewQR(f.Token, element.WithID(e.ID), element.At(e.X, e.Y), element.Rotated(e.Rotation))
			qr.Hidden = e.Hidden
			return qr, nil
		}
		p.Content = f.Token
		out.Payload = p
	case element.Image, element.Shape, element.Line, element.Polygon, element.Table, element.Group:
		return e, errors.New(errors.ErrCodeInvalidKind, "%s elements cannot be bound to a field", e.Kind())
	default:
		panic("fields: unhandled payload in Bind")
	}
	return out, nil
}
