// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about editing sessions, badge export, and preview caching.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so the editor packages
// never import a metrics backend.
//
// # Usage
//
// Register hooks at application startup. The serve command installs its
// Prometheus collectors this way:
//
//	m := metrics.NewMetrics()
//	m.Register(reg)
//	m.Install() // SetEditorHooks, SetExportHooks, SetCacheHooks
//
// Libraries call hooks to emit events:
//
//	observability.Editor().OnCommit(label, elementCount)
//	observability.Export().OnResolve(ctx, missing, duration)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Editor Hooks
// =============================================================================

// EditorHooks receives events from editing sessions. The editor core is
// synchronous and has no request context, so these hooks take none.
type EditorHooks interface {
	// OnCommit records a history entry being committed.
	OnCommit(label string, elementCount int)

	// OnUndo and OnRedo record history navigation.
	OnUndo(label string)
	OnRedo(label string)

	// OnEvict records history entries dropped to respect the depth bound.
	OnEvict(count int)

	// OnRejected records an operation refused with a validation error.
	OnRejected(op string, code string)
}

// =============================================================================
// Export Hooks
// =============================================================================

// ExportHooks receives events from per-attendee badge resolution.
type ExportHooks interface {
	// OnResolve records one badge resolved for one attendee.
	OnResolve(ctx context.Context, missing int, duration time.Duration)

	// OnMissingAttribute records a token that degraded to a placeholder.
	OnMissingAttribute(ctx context.Context, token string)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopEditorHooks is a no-op implementation of EditorHooks.
type NoopEditorHooks struct{}

func (NoopEditorHooks) OnCommit(string, int)      {}
func (NoopEditorHooks) OnUndo(string)             {}
func (NoopEditorHooks) OnRedo(string)             {}
func (NoopEditorHooks) OnEvict(int)               {}
func (NoopEditorHooks) OnRejected(string, string) {}

// NoopExportHooks is a no-op implementation of ExportHooks.
type NoopExportHooks struct{}

func (NoopExportHooks) OnResolve(context.Context, int, time.Duration) {}
func (NoopExportHooks) OnMissingAttribute(context.Context, string)    {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	editorHooks EditorHooks = NoopEditorHooks{}
	exportHooks ExportHooks = NoopExportHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	hooksMu     sync.RWMutex
)

// SetEditorHooks registers custom editor hooks.
// This should be called once at application startup before any session is opened.
func SetEditorHooks(h EditorHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		editorHooks = h
	}
}

// SetExportHooks registers custom export hooks.
// This should be called once at application startup before any badge is resolved.
func SetExportHooks(h ExportHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		exportHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Editor returns the registered editor hooks.
func Editor() EditorHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return editorHooks
}

// Export returns the registered export hooks.
func Export() ExportHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return exportHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	editorHooks = NoopEditorHooks{}
	exportHooks = NoopExportHooks{}
	cacheHooks = NoopCacheHooks{}
}
