package cache

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var errPermanent = errors.New("permanent")

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func newTestFileCache(t *testing.T) (*FileCache, *time.Time) {
	t.Helper()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "previews"))
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestFileCache(t)
	defer c.Close()

	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Fatalf("empty cache Get = %v, %v", hit, err)
	}
	png := []byte{0x89, 'P', 'N', 'G', 0, 0xff}
	if err := c.Set(ctx, "k", png, 0); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || !bytes.Equal(data, png) {
		t.Errorf("Get = %v, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("deleting a missing key should succeed: %v", err)
	}

	_ = c.Set(ctx, "a", []byte("1"), 0)
	if err := c.Clear(); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("Clear should drop entries")
	}
	if _, err := os.Stat(c.Dir()); err != nil {
		t.Errorf("Clear should keep the directory: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, now := newTestFileCache(t)

	if err := c.Set(ctx, "k", []byte("svg"), time.Hour); err != nil {
		t.Fatal(err)
	}
	*now = now.Add(59 * time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); !hit {
		t.Fatal("entry should live until its ttl")
	}
	*now = now.Add(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Errorf("expired entry should be removed, stat err = %v", err)
	}
}

func TestFileCacheTruncatedEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestFileCache(t)

	path := c.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte{1, 2, 3}, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("truncated entry Get = %v, %v", hit, err)
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	base := PreviewKeyOpts{Attendee: map[string]string{"identifier": "A1"}, Format: "svg"}
	k1 := k.PreviewKey("doc1", base)
	if k1 != k.PreviewKey("doc1", base) {
		t.Error("PreviewKey should be deterministic")
	}
	if !strings.HasPrefix(k1, "preview:") {
		t.Errorf("PreviewKey unexpected: %s", k1)
	}

	variants := []PreviewKeyOpts{
		{Attendee: map[string]string{"identifier": "A2"}, Format: "svg"},
		{Attendee: base.Attendee, Format: "png"},
		{Attendee: base.Attendee, Format: "svg", Scale: 2},
		{Attendee: base.Attendee, Format: "svg", Placeholder: "-"},
		{Design: true, Format: "svg"},
	}
	for _, v := range variants {
		if k.PreviewKey("doc1", v) == k1 {
			t.Errorf("PreviewKey(%+v) collides with base key", v)
		}
	}
	if k.PreviewKey("doc2", base) == k1 {
		t.Error("different documents should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "serve:")

	opts := PreviewKeyOpts{Format: "png"}
	if got, want := scoped.PreviewKey("h", opts), "serve:"+inner.PreviewKey("h", opts); got != want {
		t.Errorf("ScopedKeyer PreviewKey = %s, want %s", got, want)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.PreviewKey("h", PreviewKeyOpts{})
	if !strings.HasPrefix(key, "prefix:preview:") {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestRetryableError(t *testing.T) {
	// Retryable(nil) returns nil
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	// Non-nil error is wrapped
	err := Retryable(ErrNetwork)
	if err == nil {
		t.Fatal("Retryable should return wrapped error")
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}

	// Error message is preserved
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}

	// Non-wrapped errors are not retryable
	if IsRetryable(errPermanent) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestBackoffRetry(t *testing.T) {
	fast := Backoff{Attempts: 3, Delay: time.Millisecond}
	flaky := func(failures int) (func() error, *int) {
		calls := 0
		return func() error {
			calls++
			if calls <= failures {
				return Retryable(ErrNetwork)
			}
			return nil
		}, &calls
	}

	tests := []struct {
		name      string
		fn        func() (func() error, *int)
		wantErr   error
		wantCalls int
	}{
		{"success", func() (func() error, *int) { return flaky(0) }, nil, 1},
		{"recovers", func() (func() error, *int) { return flaky(1) }, nil, 2},
		{"exhausted", func() (func() error, *int) { return flaky(5) }, ErrNetwork, 3},
		{"permanent", func() (func() error, *int) {
			calls := 0
			return func() error { calls++; return errPermanent }, &calls
		}, errPermanent, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, calls := tt.fn()
			err := fast.Retry(context.Background(), fn)
			if !errors.Is(err, tt.wantErr) || (tt.wantErr == nil && err != nil) {
				t.Errorf("Retry() error = %v, want %v", err, tt.wantErr)
			}
			if *calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", *calls, tt.wantCalls)
			}
		})
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}
