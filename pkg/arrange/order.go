package arrange

import (
	"slices"

	"github.com/matzehuels/badgeboard/pkg/document"
)

// Reorder plans moving the unit of id to index among its siblings: the
// top-level units for a top-level element, the other members of its group
// for a member. The index is clamped to the valid range. A group's members
// always stay in one block directly after the group.
func Reorder(d *document.Document, id string, index int) (Plan, error) {
	return moveAmongSiblings(d, id, "Reorder", func(int, int) int { return index })
}

// BringToFront plans moving the unit of id above all of its siblings.
func BringToFront(d *document.Document, id string) (Plan, error) {
	return moveAmongSiblings(d, id, "Bring to front", func(_, n int) int { return n })
}

// SendToBack plans moving the unit of id below all of its siblings.
func SendToBack(d *document.Document, id string) (Plan, error) {
	return moveAmongSiblings(d, id, "Send to back", func(int, int) int { return 0 })
}

// BringForward plans moving the unit of id above the sibling unit directly
// above it. It is a no-op for the topmost unit.
func BringForward(d *document.Document, id string) (Plan, error) {
	return moveAmongSiblings(d, id, "Bring forward", func(pos, _ int) int { return pos + 1 })
}

// SendBackward plans moving the unit of id below the sibling unit directly
// beneath it. It is a no-op for the bottom unit.
func SendBackward(d *document.Document, id string) (Plan, error) {
	return moveAmongSiblings(d, id, "Send backward", func(pos, _ int) int { return pos - 1 })
}

// moveAmongSiblings removes id from its sibling list and reinserts it at
// target(pos, n), where pos is its current position and n the number of
// remaining siblings.
func moveAmongSiblings(d *document.Document, id, label string, target func(pos, n int) int) (Plan, error) {
	if _, err := d.MustGet(id); err != nil {
		return Plan{}, err
	}
	parent := parentOf(d, id)
	heads := siblings(d, parent)
	pos := slices.Index(heads, id)
	rest := slices.Delete(slices.Clone(heads), pos, pos+1)
	at := max(0, min(target(pos, len(rest)), len(rest)))
	next := slices.Insert(rest, at, id)
	return Plan{Label: label, Op: reorderOp(d, layoutSiblings(d, parent, next))}, nil
}

// siblings returns the elements whose parent is parent, in paint order.
// An empty parent selects the top-level elements.
func siblings(d *document.Document, parent string) []string {
	var out []string
	for _, id := range d.IDs() {
		if parentOf(d, id) == parent {
			out = append(out, id)
		}
	}
	return out
}

// layoutSiblings returns the document order with the units of heads laid
// out in that order. Under a group they form one block directly after the
// group; everything outside keeps its relative order.
func layoutSiblings(d *document.Document, parent string, heads []string) []string {
	var block []string
	for _, h := range heads {
		block = append(block, unit(d, h)...)
	}
	if parent == "" {
		return block
	}
	rest := without(d.IDs(), block)
	return slices.Insert(rest, slices.Index(rest, parent)+1, block...)
}
