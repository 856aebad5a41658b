package document

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/badgeboard/pkg/element"
	"github.com/matzehuels/badgeboard/pkg/errors"
)

// Op is a primitive reversible document operation.
type Op interface {
	// Describe returns a short human readable summary.
	Describe() string
	isOp()
}

// Item is an element placed at a paint index.
type Item struct {
	Index   int
	Element element.Element
}

// Insert places elements at the given final indices. Items are applied in
// ascending index order, so a set of indices recorded by [Delete] puts
// every element back where it was.
type Insert struct {
	Items []Item
}

// Delete removes elements by id.
type Delete struct {
	IDs []string
}

// Replace swaps existing elements for new versions with the same ids. The
// kind may change.
type Replace struct {
	Elements []element.Element
}

// Reorder sets the paint order. Order must be a permutation of the current
// ids.
type Reorder struct {
	Order []string
}

// Batch applies Ops in sequence as one operation.
type Batch struct {
	Ops []Op
}

func (Insert) isOp()  {}
func (Delete) isOp()  {}
func (Replace) isOp() {}
func (Reorder) isOp() {}
func (Batch) isOp()   {}

func (o Insert) Describe() string  { return fmt.Sprintf("insert %d", len(o.Items)) }
func (o Delete) Describe() string  { return fmt.Sprintf("delete %d", len(o.IDs)) }
func (o Replace) Describe() string { return fmt.Sprintf("replace %d", len(o.Elements)) }
func (o Reorder) Describe() string { return fmt.Sprintf("reorder %d", len(o.Order)) }

func (o Batch) Describe() string {
	parts := make([]string, len(o.Ops))
	for i, op := range o.Ops {
		parts[i] = op.Describe()
	}
	return "batch[" + strings.Join(parts, ", ") + "]"
}

// Flatten returns ops with nested batches expanded and nil entries removed.
func Flatten(ops ...Op) []Op {
	var out []Op
	for _, op := range ops {
		switch v := op.(type) {
		case nil:
		case Batch:
			out = append(out, Flatten(v.Ops...)...)
		default:
			out = append(out, op)
		}
	}
	return out
}

// Apply performs op and returns its inverse. On error the document is left
// exactly as it was before the call.
func (d *Document) Apply(op Op) (Op, error) {
	snapElems := slices.Clone(d.elems)
	snapSel := slices.Clone(d.selection)

	inv, err := d.apply(op)
	if err == nil {
		err = d.Check()
	}
	if err != nil {
		d.elems = snapElems
		d.selection = snapSel
		d.reindex()
		return nil, err
	}
	d.pruneSelection()
	return inv, nil
}

func (d *Document) apply(op Op) (Op, error) {
	switch o := op.(type) {
	case Insert:
		return d.insert(o)
	case Delete:
		return d.delete(o)
	case Replace:
		return d.replace(o)
	case Reorder:
		return d.reorder(o)
	case Batch:
		invs := make([]Op, 0, len(o.Ops))
		for _, sub := range o.Ops {
			inv, err := d.apply(sub)
			if err != nil {
				return nil, err
			}
			invs = append(invs, inv)
		}
		slices.Reverse(invs)
		return Batch{Ops: invs}, nil
	case nil:
		return nil, errors.New(errors.ErrCodeInternal, "nil operation")
	default:
		panic(fmt.Sprintf("document: unhandled op %T", op))
	}
}

func (d *Document) insert(o Insert) (Op, error) {
	items := slices.Clone(o.Items)
	slices.SortStableFunc(items, func(a, b Item) int { return a.Index - b.Index })

	ids := make([]string, 0, len(items))
	for _, it := range items {
		e := it.Element.Clone()
		e.Sync()
		if err := element.Validate(e); err != nil {
			return nil, err
		}
		if d.Has(e.ID) {
			return nil, errors.New(errors.ErrCodeDuplicateID, "element %s already exists", e.ID)
		}
		if it.Index < 0 || it.Index > len(d.elems) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "insert index %d out of range [0, %d]", it.Index, len(d.elems))
		}
		d.elems = slices.Insert(d.elems, it.Index, e)
		d.reindex()
		ids = append(ids, e.ID)
	}
	return Delete{IDs: ids}, nil
}

func (d *Document) delete(o Delete) (Op, error) {
	items := make([]Item, 0, len(o.IDs))
	for _, id := range o.IDs {
		i, ok := d.index[id]
		if !ok {
			return nil, errors.New(errors.ErrCodeElementNotFound, "element %s not found", id)
		}
		if slices.ContainsFunc(items, func(it Item) bool { return it.Element.ID == id }) {
			return nil, errors.New(errors.ErrCodeDuplicateID, "element %s deleted twice", id)
		}
		items = append(items, Item{Index: i, Element: d.elems[i]})
	}
	slices.SortFunc(items, func(a, b Item) int { return a.Index - b.Index })
	for k := len(items) - 1; k >= 0; k-- {
		d.elems = slices.Delete(d.elems, items[k].Index, items[k].Index+1)
	}
	d.reindex()
	return Insert{Items: items}, nil
}

func (d *Document) replace(o Replace) (Op, error) {
	prev := make([]element.Element, 0, len(o.Elements))
	for _, e := range o.Elements {
		i, ok := d.index[e.ID]
		if !ok {
			return nil, errors.New(errors.ErrCodeElementNotFound, "element %s not found", e.ID)
		}
		e = e.Clone()
		e.Sync()
		if err := element.Validate(e); err != nil {
			return nil, err
		}
		prev = append(prev, d.elems[i])
		d.elems[i] = e
	}
	d.reindex()
	slices.Reverse(prev)
	return Replace{Elements: prev}, nil
}

func (d *Document) reorder(o Reorder) (Op, error) {
	if len(o.Order) != len(d.elems) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "reorder lists %d ids, document has %d", len(o.Order), len(d.elems))
	}
	prev := d.IDs()
	next := make([]element.Element, 0, len(o.Order))
	seen := make(map[string]bool, len(o.Order))
	for _, id := range o.Order {
		i, ok := d.index[id]
		if !ok {
			return nil, errors.New(errors.ErrCodeElementNotFound, "element %s not found", id)
		}
		if seen[id] {
			return nil, errors.New(errors.ErrCodeDuplicateID, "element %s listed twice in reorder", id)
		}
		seen[id] = true
		next = append(next, d.elems[i])
	}
	d.elems = next
	d.reindex()
	return Reorder{Order: prev}, nil
}
