package io

import (
	"bytes"
	"strings"

	"github.com/matzehuels/badgeboard/pkg/document"
	"github.com/matzehuels/badgeboard/pkg/errors"
)

// Format is a tree encoding.
type Format string

// Supported encodings.
const (
	FormatJSON Format = "json"
	FormatCBOR Format = "cbor"
)

// ParseFormat converts a name or file extension to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(s), ".") {
	case "json", "":
		return FormatJSON, nil
	case "cbor":
		return FormatCBOR, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown document format %q (valid: json, cbor)", s)
}

// Encode serializes d in format f.
func Encode(d *document.Document, f Format) ([]byte, error) {
	switch f {
	case FormatCBOR:
		return MarshalCBOR(d)
	case FormatJSON:
		var buf bytes.Buffer
		if err := WriteJSON(d, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown document format %q", f)
}

// Decode reads a document in either encoding. A payload whose first
// non-space byte is '{' is treated as JSON, anything else as CBOR.
func Decode(data []byte) (*document.Document, error) {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		return ReadJSON(bytes.NewReader(trimmed))
	}
	return UnmarshalCBOR(data)
}
