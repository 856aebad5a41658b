package export

import (
	"context"
	"encoding/json"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/badgeboard/pkg/document"
	"github.com/matzehuels/badgeboard/pkg/element"
	"github.com/matzehuels/badgeboard/pkg/fields"
	badgeio "github.com/matzehuels/badgeboard/pkg/io"
	"github.com/matzehuels/badgeboard/pkg/observability"
)

// Options configures resolution.
type Options struct {
	// Placeholder replaces any token whose attribute is missing. The zero
	// value resolves missing data to an empty string.
	Placeholder string

	// Logger receives missing-attribute warnings. Defaults to log.Default().
	Logger *log.Logger

	// Hooks receives export events. Defaults to observability.Export().
	Hooks observability.ExportHooks
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	if o.Hooks == nil {
		o.Hooks = observability.Export()
	}
	return o
}

// Badge is one document resolved for one attendee.
type Badge struct {
	// Attendee is the attendee identifier, empty for design badges.
	Attendee string
	Canvas   document.Canvas
	// Elements are the visible leaf elements in paint order.
	Elements []element.Element
	// Fields maps every known token used by the document to its resolved
	// value.
	Fields map[string]string
	// Missing lists the tokens that fell back to the placeholder, sorted.
	Missing []string
}

// Complete reports whether every referenced attribute was present.
func (b Badge) Complete() bool { return len(b.Missing) == 0 }

// MarshalJSON encodes elements in the portable node format.
func (b Badge) MarshalJSON() ([]byte, error) {
	nodes := make([]badgeio.Node, len(b.Elements))
	for i, e := range b.Elements {
		nodes[i] = badgeio.NewNode(e)
	}
	return json.Marshal(struct {
		Attendee string            `json:"attendee,omitempty"`
		Canvas   document.Canvas   `json:"canvas"`
		Elements []badgeio.Node    `json:"elements"`
		Fields   map[string]string `json:"fields"`
		Missing  []string          `json:"missing,omitempty"`
	}{b.Attendee, b.Canvas, nodes, b.Fields, b.Missing})
}

// Design returns the badge shown on the design surface: tokens are kept
// literally and Fields maps each used token to its human label.
func Design(d *document.Document) Badge {
	b := Badge{Canvas: d.Canvas(), Elements: visible(d), Fields: map[string]string{}}
	for _, tok := range usedTokens(b.Elements) {
		if f, err := fields.Lookup(tok); err == nil {
			b.Fields[tok] = f.Label
		}
	}
	return b
}

// Resolve substitutes attendee values into d.
func Resolve(d *document.Document, a fields.Attendee, opts Options) Badge {
	return resolve(context.Background(), d, a, opts.withDefaults())
}

// ResolveBatch resolves d for every attendee in order. It checks ctx
// between attendees and returns the badges completed so far together with
// the context error.
func ResolveBatch(ctx context.Context, d *document.Document, attendees []fields.Attendee, opts Options) ([]Badge, error) {
	opts = opts.withDefaults()
	out := make([]Badge, 0, len(attendees))
	incomplete := 0
	for _, a := range attendees {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		b := resolve(ctx, d, a, opts)
		if !b.Complete() {
			incomplete++
		}
		out = append(out, b)
	}
	opts.Logger.Debug("resolved badges", "count", len(out), "incomplete", incomplete)
	return out, nil
}

func resolve(ctx context.Context, d *document.Document, a fields.Attendee, opts Options) Badge {
	start := time.Now()
	b := Badge{Attendee: a.ID(), Canvas: d.Canvas(), Fields: map[string]string{}}

	missing := map[string]bool{}
	sub := func(s string) string {
		out, miss := fields.ResolveText(s, a, opts.Placeholder)
		for _, tok := range miss {
			missing[tok] = true
		}
		return out
	}

	for _, e := range visible(d) {
		switch p := e.Payload.(type) {
		case element.Text:
			p.Content = sub(p.Content)
			e.Payload = p
		case element.QR:
			p.Data = sub(p.Data)
			e.Payload = p
		case element.Table:
			for r, row := range p.Cells {
				for c, cell := range row {
					p.Cells[r][c] = sub(cell)
				}
			}
			e.Payload = p
		case element.Image, element.Shape, element.Line, element.Polygon:
		default:
			panic("export: unhandled payload in resolve")
		}
		b.Elements = append(b.Elements, e)
	}

	for _, tok := range usedTokens(d.Elements()) {
		v, err := fields.Resolve(tok, a)
		if err != nil {
			v = opts.Placeholder
		}
		b.Fields[tok] = v
	}
	for tok := range missing {
		b.Missing = append(b.Missing, tok)
	}
	slices.Sort(b.Missing)
	for _, tok := range b.Missing {
		opts.Logger.Warn("missing attribute", "attendee", b.Attendee, "token", tok)
		opts.Hooks.OnMissingAttribute(ctx, tok)
	}

	opts.Hooks.OnResolve(ctx, len(b.Missing), time.Since(start))
	return b
}

// visible returns clones of the leaf elements that are neither hidden nor
// inside a hidden group, in paint order.
func visible(d *document.Document) []element.Element {
	var out []element.Element
	for _, e := range d.Elements() {
		if e.IsGroup() || e.Hidden {
			continue
		}
		hidden := false
		for _, g := range d.Ancestors(e.ID) {
			if ge, _ := d.Get(g); ge.Hidden {
				hidden = true
				break
			}
		}
		if !hidden {
			out = append(out, e)
		}
	}
	return out
}

// usedTokens lists the known tokens referenced by elems, sorted.
func usedTokens(elems []element.Element) []string {
	seen := map[string]bool{}
	add := func(s string) {
		for _, tok := range fields.Tokens(s) {
			seen[tok] = true
		}
	}
	for _, e := range elems {
		switch p := e.Payload.(type) {
		case element.Text:
			add(p.Content)
		case element.QR:
			add(p.Data)
		case element.Table:
			for _, row := range p.Cells {
				for _, cell := range row {
					add(cell)
				}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for tok := range seen {
		out = append(out, tok)
	}
	slices.Sort(out)
	return out
}
