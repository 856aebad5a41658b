package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/badgeboard/pkg/document"
	"github.com/matzehuels/badgeboard/pkg/element"
	"github.com/matzehuels/badgeboard/pkg/fields"
)

// memCache is an in-memory cache that counts writes.
type memCache struct {
	mu   sync.Mutex
	m    map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{m: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.m[key]
	return v, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = data
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func quiet() *log.Logger { return log.New(&bytes.Buffer{}) }

func badgeDoc(t *testing.T) *document.Document {
	t.Helper()
	d, err := document.FromElements(document.DefaultCanvas, []element.Element{
		element.NewText(fields.TokenName, element.WithID("name"), element.At(20, 40)),
		element.NewQR(fields.TokenIdentifier, element.WithID("qr"), element.At(130, 400)),
	})
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	var o Options
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if len(o.Formats) != 1 || o.Formats[0] != FormatSVG || o.Scale != DefaultScale {
		t.Errorf("defaults = %+v", o)
	}

	bad := Options{Formats: []string{"gif"}}
	if err := bad.ValidateAndSetDefaults(); err == nil {
		t.Error("unknown format should fail")
	}
	neg := Options{Scale: -1}
	if err := neg.ValidateAndSetDefaults(); err == nil {
		t.Error("negative scale should fail")
	}
}

func TestExecuteResolvesAndCaches(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := NewRunner(c, nil, quiet())
	d := badgeDoc(t)
	opts := Options{Attendee: fields.Attendee{"identifier": "ABC123", "name": "Ada"}, Formats: []string{"svg", "json"}}

	first, err := r.Execute(ctx, d, opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if first.CacheHit {
		t.Error("first run should miss the cache")
	}
	if !strings.Contains(string(first.Artifacts["svg"]), ">Ada</tspan>") {
		t.Error("svg should contain the resolved name")
	}
	var badge map[string]any
	if err := json.Unmarshal(first.Artifacts["json"], &badge); err != nil || badge["attendee"] != "ABC123" {
		t.Errorf("json artifact = %s (%v)", first.Artifacts["json"], err)
	}
	if c.sets != 2 {
		t.Errorf("cache writes = %d, want 2", c.sets)
	}

	second, err := r.Execute(ctx, d, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheHit || !bytes.Equal(second.Artifacts["svg"], first.Artifacts["svg"]) {
		t.Error("second run should come from the cache")
	}

	// A different attendee, an edited document and Refresh all re-render.
	other := opts
	other.Attendee = fields.Attendee{"identifier": "XYZ"}
	if res, _ := r.Execute(ctx, d, other); res.CacheHit {
		t.Error("different attendee hit the cache")
	}
	e, _ := d.Get("name")
	e.X += 10
	if _, err := d.Apply(document.Replace{Elements: []element.Element{e}}); err != nil {
		t.Fatal(err)
	}
	if res, _ := r.Execute(ctx, d, opts); res.CacheHit {
		t.Error("edited document hit the cache")
	}
	refresh := opts
	refresh.Refresh = true
	if res, _ := r.Execute(ctx, d, refresh); res.CacheHit {
		t.Error("Refresh should bypass the cache")
	}
}

func TestExecuteDesign(t *testing.T) {
	r := NewRunner(nil, nil, quiet())
	res, err := r.Execute(context.Background(), badgeDoc(t), Options{Design: true, Formats: []string{"svg", "png"}})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(res.Artifacts["svg"]), "{{attendee.name}}") {
		t.Error("design preview should keep tokens")
	}
	if !bytes.HasPrefix(res.Artifacts["png"], []byte("\x89PNG")) {
		t.Error("png artifact is not a PNG")
	}
}

func TestKeyOptsIgnoreIrrelevantOptions(t *testing.T) {
	r := NewRunner(nil, nil, quiet())
	a := Options{Design: true, Attendee: fields.Attendee{"identifier": "1"}, Scale: 2}
	b := Options{Design: true, Attendee: fields.Attendee{"identifier": "2"}, Scale: 3}
	if r.Keyer.PreviewKey("h", r.keyOpts(a, FormatSVG)) != r.Keyer.PreviewKey("h", r.keyOpts(b, FormatSVG)) {
		t.Error("design SVG keys should not depend on attendee or scale")
	}
	if r.Keyer.PreviewKey("h", r.keyOpts(a, FormatPNG)) == r.Keyer.PreviewKey("h", r.keyOpts(b, FormatPNG)) {
		t.Error("PNG keys should depend on scale")
	}
}
