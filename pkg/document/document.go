package document

import (
	"slices"

	"github.com/matzehuels/badgeboard/pkg/element"
	"github.com/matzehuels/badgeboard/pkg/errors"
)

// Canvas is the fixed printable area of a badge, in pixels.
type Canvas struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DefaultCanvas is a 4x6 inch badge at 96 dpi.
var DefaultCanvas = Canvas{Width: 384, Height: 576}

// Validate checks that both dimensions are positive.
func (c Canvas) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "canvas size must be positive, got %gx%g", c.Width, c.Height)
	}
	return nil
}

// Document is an ordered element collection with a selection.
// It is not safe for concurrent use; one editing session owns it.
type Document struct {
	canvas    Canvas
	elems     []element.Element
	index     map[string]int
	parent    map[string]string
	selection []string
}

// New returns an empty document. A zero canvas is replaced by
// [DefaultCanvas].
func New(canvas Canvas) *Document {
	if canvas == (Canvas{}) {
		canvas = DefaultCanvas
	}
	d := &Document{canvas: canvas}
	d.reindex()
	return d
}

// FromElements builds a document from elems in paint order. Every element
// is validated and the document invariants are checked.
func FromElements(canvas Canvas, elems []element.Element) (*Document, error) {
	d := New(canvas)
	if err := d.canvas.Validate(); err != nil {
		return nil, err
	}
	items := make([]Item, len(elems))
	for i, e := range elems {
		items[i] = Item{Index: i, Element: e}
	}
	if _, err := d.Apply(Insert{Items: items}); err != nil {
		return nil, err
	}
	return d, nil
}

// Canvas returns the printable area.
func (d *Document) Canvas() Canvas { return d.canvas }

// Len returns the number of elements, group containers included.
func (d *Document) Len() int { return len(d.elems) }

// Elements returns copies of all elements in paint order.
func (d *Document) Elements() []element.Element {
	out := make([]element.Element, len(d.elems))
	for i, e := range d.elems {
		out[i] = e.Clone()
	}
	return out
}

// IDs returns all element ids in paint order.
func (d *Document) IDs() []string {
	ids := make([]string, len(d.elems))
	for i, e := range d.elems {
		ids[i] = e.ID
	}
	return ids
}

// Get returns a copy of the element with the given id.
func (d *Document) Get(id string) (element.Element, bool) {
	i, ok := d.index[id]
	if !ok {
		return element.Element{}, false
	}
	return d.elems[i].Clone(), true
}

// MustGet is like Get but returns an ELEMENT_NOT_FOUND error.
func (d *Document) MustGet(id string) (element.Element, error) {
	e, ok := d.Get(id)
	if !ok {
		return e, errors.New(errors.ErrCodeElementNotFound, "element %s not found", id)
	}
	return e, nil
}

// Has reports whether an element with id exists.
func (d *Document) Has(id string) bool {
	_, ok := d.index[id]
	return ok
}

// IndexOf returns the paint index of id, or -1.
func (d *Document) IndexOf(id string) int {
	if i, ok := d.index[id]; ok {
		return i
	}
	return -1
}

// GroupOf returns the id of the group that owns id.
func (d *Document) GroupOf(id string) (string, bool) {
	g, ok := d.parent[id]
	return g, ok
}

// Ancestors returns the owning groups of id, innermost first.
func (d *Document) Ancestors(id string) []string {
	var out []string
	for g, ok := d.parent[id]; ok; g, ok = d.parent[g] {
		out = append(out, g)
	}
	return out
}

// Root returns the top-level element containing id (id itself when it is
// top-level).
func (d *Document) Root(id string) string {
	for g, ok := d.parent[id]; ok; g, ok = d.parent[id] {
		id = g
	}
	return id
}

// Descendants returns every element nested below id, depth first in child
// order. It returns nil for non-groups.
func (d *Document) Descendants(id string) []string {
	var out []string
	var walk func(string)
	walk = func(gid string) {
		i, ok := d.index[gid]
		if !ok {
			return
		}
		g, ok := d.elems[i].Payload.(element.Group)
		if !ok {
			return
		}
		for _, c := range g.ChildIDs {
			out = append(out, c)
			walk(c)
		}
	}
	walk(id)
	return out
}

// TopLevel returns the ids of elements that belong to no group, in paint
// order.
func (d *Document) TopLevel() []string {
	var out []string
	for _, e := range d.elems {
		if _, ok := d.parent[e.ID]; !ok {
			out = append(out, e.ID)
		}
	}
	return out
}

// Selection returns the selected ids in selection order.
func (d *Document) Selection() []string {
	return slices.Clone(d.selection)
}

// IsSelected reports whether id is selected.
func (d *Document) IsSelected(id string) bool {
	return slices.Contains(d.selection, id)
}

// Select replaces the selection. Unknown and repeated ids are dropped.
func (d *Document) Select(ids ...string) {
	d.selection = d.selection[:0:0]
	for _, id := range ids {
		if d.Has(id) && !slices.Contains(d.selection, id) {
			d.selection = append(d.selection, id)
		}
	}
}

// ClearSelection empties the selection.
func (d *Document) ClearSelection() {
	d.selection = nil
}

// SelectedElements returns copies of the selected elements.
func (d *Document) SelectedElements() []element.Element {
	out := make([]element.Element, 0, len(d.selection))
	for _, id := range d.selection {
		out = append(out, d.elems[d.index[id]].Clone())
	}
	return out
}

// Clone returns an independent copy of d, selection included.
func (d *Document) Clone() *Document {
	c := &Document{
		canvas:    d.canvas,
		elems:     d.Elements(),
		selection: slices.Clone(d.selection),
	}
	c.reindex()
	return c
}

// Equal reports whether d and o have the same canvas and the same elements
// in the same order. Selection is not compared.
func (d *Document) Equal(o *Document) bool {
	return d.canvas == o.canvas && slices.EqualFunc(d.elems, o.elems, element.Element.Equal)
}

func (d *Document) reindex() {
	d.index = make(map[string]int, len(d.elems))
	d.parent = make(map[string]string)
	for i, e := range d.elems {
		d.index[e.ID] = i
	}
	for _, e := range d.elems {
		if g, ok := e.Payload.(element.Group); ok {
			for _, c := range g.ChildIDs {
				if _, taken := d.parent[c]; !taken {
					d.parent[c] = e.ID
				}
			}
		}
	}
}

func (d *Document) pruneSelection() {
	d.selection = slices.DeleteFunc(d.selection, func(id string) bool { return !d.Has(id) })
}
