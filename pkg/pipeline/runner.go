package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/badgeboard/pkg/cache"
	"github.com/matzehuels/badgeboard/pkg/document"
	"github.com/matzehuels/badgeboard/pkg/export"
	badgeio "github.com/matzehuels/badgeboard/pkg/io"
	"github.com/matzehuels/badgeboard/pkg/observability"
)

// cacheKeyType labels preview entries in cache hooks.
const cacheKeyType = "preview"

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options, as long as each uses its own document.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute resolves d and renders every requested format, reusing cached
// artifacts when all of them are present.
func (r *Runner) Execute(ctx context.Context, d *document.Document, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	hooks := observability.Cache()

	encoded, err := badgeio.MarshalCBOR(d)
	if err != nil {
		return nil, fmt.Errorf("hash document: %w", err)
	}
	result := &Result{DocHash: cache.Hash(encoded), Artifacts: make(map[string][]byte)}

	keys := make(map[string]string, len(opts.Formats))
	for _, format := range opts.Formats {
		keys[format] = r.Keyer.PreviewKey(result.DocHash, r.keyOpts(opts, format))
	}

	if !opts.Refresh {
		for _, format := range opts.Formats {
			data, hit, err := r.Cache.Get(ctx, keys[format])
			if err != nil || !hit {
				hooks.OnCacheMiss(ctx, cacheKeyType)
				break
			}
			hooks.OnCacheHit(ctx, cacheKeyType)
			result.Artifacts[format] = data
		}
		if len(result.Artifacts) == len(opts.Formats) {
			result.CacheHit = true
			r.Logger.Debug("preview from cache", "formats", opts.Formats, "doc", result.DocHash[:12])
			return result, nil
		}
	}

	// Stage 1: Resolve
	resolveStart := time.Now()
	if opts.Design {
		result.Badge = export.Design(d)
	} else {
		result.Badge = export.Resolve(d, opts.Attendee, opts.exportOptions())
	}
	result.Stats.ResolveTime = time.Since(resolveStart)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, err := Render(result.Badge, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	for format, data := range artifacts {
		if err := r.Cache.Set(ctx, keys[format], data, cache.TTLPreview); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "err", err)
			continue
		}
		hooks.OnCacheSet(ctx, cacheKeyType, len(data))
	}

	r.Logger.Info("rendered badge",
		"attendee", result.Badge.Attendee,
		"formats", opts.Formats,
		"missing", len(result.Badge.Missing),
		"duration", result.Stats.ResolveTime+result.Stats.RenderTime)
	return result, nil
}

func (r *Runner) keyOpts(opts Options, format string) cache.PreviewKeyOpts {
	k := cache.PreviewKeyOpts{Design: opts.Design, Format: format}
	if !opts.Design {
		k.Attendee = opts.Attendee
		k.Placeholder = opts.Placeholder
	}
	switch format {
	case FormatPNG:
		k.Scale = opts.Scale
		k.Background = opts.Background
	case FormatSVG, FormatPDF:
		k.Background = opts.Background
		k.Outline = opts.Outline
	}
	return k
}
