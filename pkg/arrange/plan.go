package arrange

import (
	"slices"

	"github.com/matzehuels/badgeboard/pkg/document"
	"github.com/matzehuels/badgeboard/pkg/element"
)

// Plan is a document change ready to apply.
type Plan struct {
	Label string
	// Op is nil when the request is valid but changes nothing, such as
	// bringing the topmost element forward.
	Op document.Op
	// Select is the selection after Op. Nil keeps the current selection.
	Select []string
}

// Noop reports whether applying the plan would change nothing.
func (p Plan) Noop() bool { return p.Op == nil }

// unit returns id and its descendants in paint order.
func unit(d *document.Document, id string) []string {
	ids := append([]string{id}, d.Descendants(id)...)
	slices.SortFunc(ids, func(a, b string) int { return d.IndexOf(a) - d.IndexOf(b) })
	return ids
}

// unitsOf returns the union of the units of ids in paint order.
func unitsOf(d *document.Document, ids []string) []string {
	set := map[string]bool{}
	for _, id := range ids {
		for _, u := range unit(d, id) {
			set[u] = true
		}
	}
	var out []string
	for _, id := range d.IDs() {
		if set[id] {
			out = append(out, id)
		}
	}
	return out
}

// without returns order minus the ids in drop.
func without(order, drop []string) []string {
	return slices.DeleteFunc(slices.Clone(order), func(id string) bool { return slices.Contains(drop, id) })
}

// placeBlock returns order with block removed and reinserted at index pos
// of the remaining sequence. pos is clamped.
func placeBlock(order, block []string, pos int) []string {
	rest := without(order, block)
	pos = max(0, min(pos, len(rest)))
	return slices.Insert(rest, pos, block...)
}

// reorderOp returns nil when next equals the current order.
func reorderOp(d *document.Document, next []string) document.Op {
	if slices.Equal(next, d.IDs()) {
		return nil
	}
	return document.Reorder{Order: next}
}

func parentOf(d *document.Document, id string) string {
	g, _ := d.GroupOf(id)
	return g
}

func dedupe(ids []string) []string {
	var out []string
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

func elements(d *document.Document, ids []string) []element.Element {
	out := make([]element.Element, 0, len(ids))
	for _, id := range ids {
		if e, ok := d.Get(id); ok {
			out = append(out, e)
		}
	}
	return out
}

func batch(ops ...document.Op) document.Op {
	flat := document.Flatten(ops...)
	switch len(flat) {
	case 0:
		return nil
	case 1:
		return flat[0]
	default:
		return document.Batch{Ops: flat}
	}
}
