// Package cache stores rendered badge previews keyed by content hash.
//
// Keys are derived from the deterministic CBOR encoding of a document plus
// everything else that influences the output (attendee record, format,
// scale, placeholder), so an edited document or attendee never hits a
// stale entry. The CLI uses [FileCache] under the XDG cache directory; the
// HTTP server can run with [NullCache] to disable caching.
package cache

import (
	"context"
	"time"
)

// TTLPreview is how long rendered previews are kept.
const TTLPreview = 7 * 24 * time.Hour

// Cache is a byte store with optional per-entry expiry.
type Cache interface {
	// Get returns the entry for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// PreviewKey returns the key of a rendered badge for the document whose
	// encoding hashes to docHash.
	PreviewKey(docHash string, opts PreviewKeyOpts) string
}

// PreviewKeyOpts lists the inputs besides the document that change a
// rendered preview.
type PreviewKeyOpts struct {
	Attendee    map[string]string `json:"attendee,omitempty"`
	Design      bool              `json:"design,omitempty"`
	Format      string            `json:"format"`
	Scale       float64           `json:"scale,omitempty"`
	Background  string            `json:"background,omitempty"`
	Outline     bool              `json:"outline,omitempty"`
	Placeholder string            `json:"placeholder,omitempty"`
}

// DefaultKeyer hashes key inputs with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// PreviewKey implements Keyer.
func (DefaultKeyer) PreviewKey(docHash string, opts PreviewKeyOpts) string {
	return hashKey("preview", docHash, opts)
}
