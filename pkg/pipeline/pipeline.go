// Package pipeline provides the resolve → render preview pipeline for
// badge documents.
//
// This package is shared by the CLI and the HTTP server so both render
// previews the same way and share one caching scheme.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Resolve: Substitute one attendee's values into the document, or keep
//     tokens for a design preview
//  2. Render: Generate output in the requested formats (SVG, PNG, PDF, JSON)
//
// Rendered artifacts are cached under a key derived from the deterministic
// CBOR encoding of the document and every option that changes the output.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, doc, pipeline.Options{
//	    Attendee: fields.Attendee{"identifier": "ABC123"},
//	    Formats:  []string{"svg", "png"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/badgeboard/pkg/errors"
	"github.com/matzehuels/badgeboard/pkg/export"
	"github.com/matzehuels/badgeboard/pkg/fields"
)

// DefaultScale is the PNG scale factor.
const DefaultScale = 2.0

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// Options contains all configuration for a preview run.
type Options struct {
	// Attendee supplies field values. Ignored when Design is set.
	Attendee fields.Attendee `json:"attendee,omitempty"`
	// Design keeps tokens literal instead of resolving them.
	Design      bool   `json:"design,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`

	Formats    []string `json:"formats,omitempty"`
	Scale      float64  `json:"scale,omitempty"`
	Background string   `json:"background,omitempty"`
	Outline    bool     `json:"outline,omitempty"`

	// Refresh bypasses cached artifacts.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Badge is the resolved badge. It is the zero value when every
	// artifact came from the cache.
	Badge export.Badge

	// DocHash is the content hash of the document.
	DocHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing information.
	Stats Stats

	// CacheHit reports whether all artifacts came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ResolveTime time.Duration
	RenderTime  time.Duration
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateAndSetDefaults checks the options and applies defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	for _, f := range o.Formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "invalid scale: %g", o.Scale)
	}
	return nil
}

func (o Options) exportOptions() export.Options {
	return export.Options{Placeholder: o.Placeholder, Logger: o.Logger}
}
