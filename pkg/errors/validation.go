package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxIDLength bounds element and template identifiers.
const maxIDLength = 128

// ValidateElementID validates an element identifier.
// Identifiers are opaque, but they travel through JSON, DOT labels and store
// keys, so control characters and whitespace are rejected.
func ValidateElementID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidElement, "element id cannot be empty")
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidElement, "element id too long (max %d characters)", maxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidElement, "element id contains invalid characters: %q", id)
		}
	}
	return nil
}

// templateIDRegex matches template ids usable as file names and store keys.
var templateIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateTemplateID validates a template identifier for safety.
// It rejects ids that could be used for path traversal in the file store.
//
// The validation rules are intentionally conservative:
//   - No empty ids
//   - No path separators or traversal sequences
//   - Letters, digits, dot, dash and underscore only
//   - Maximum length of 128 characters
func ValidateTemplateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "template id cannot be empty")
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidInput, "template id too long (max %d characters)", maxIDLength)
	}
	if strings.Contains(id, "..") {
		return New(ErrCodeInvalidInput, "template id cannot contain %q", "..")
	}
	if !templateIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid template id: %q", id)
	}
	return nil
}

// ValidatePath validates a relative asset path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// dataImageRegex matches base64 image data URIs.
var dataImageRegex = regexp.MustCompile(`^data:image/(png|jpeg|gif|webp|svg\+xml);base64,[A-Za-z0-9+/=]+$`)

// ValidateImageRef validates the source reference stored on an image element.
// Raw uploads are validated by the host application; the editor only accepts
// references that are ready to render: an http(s) URL, a base64 image data URI
// or a relative asset path.
func ValidateImageRef(ref string) error {
	switch {
	case ref == "":
		return New(ErrCodeInvalidInput, "image reference cannot be empty")
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		if strings.ContainsAny(ref, " \t\r\n\"<>") {
			return New(ErrCodeInvalidInput, "image URL contains invalid characters")
		}
		return nil
	case strings.HasPrefix(ref, "data:"):
		if !dataImageRegex.MatchString(ref) {
			return New(ErrCodeInvalidInput, "image data URI must be a base64 encoded png, jpeg, gif, webp or svg")
		}
		return nil
	case strings.Contains(ref, "://"):
		return New(ErrCodeInvalidInput, "image URL must use http or https scheme")
	default:
		return ValidatePath(ref)
	}
}

// hexColorRegex matches #RRGGBB and #RRGGBBAA (case insensitive).
var hexColorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}([0-9A-Fa-f]{2})?$`)

// ValidateHexColor validates a color string. The empty string means
// "no paint" and is accepted.
func ValidateHexColor(color string) error {
	if color == "" {
		return nil
	}
	if !hexColorRegex.MatchString(color) {
		return New(ErrCodeInvalidColor, "invalid hex color %q, expected #RRGGBB or #RRGGBBAA", color)
	}
	return nil
}
