package arrange

import (
	"slices"

	"github.com/matzehuels/badgeboard/pkg/document"
	"github.com/matzehuels/badgeboard/pkg/element"
	"github.com/matzehuels/badgeboard/pkg/errors"
)

// Group plans wrapping ids in a new group whose geometry is the bounding box
// of their current bounds. At least two distinct elements sharing the same
// parent are required. The group takes the paint position of the topmost
// member, members keep their relative order, and the new group becomes the
// selection. If the members belong to a group, the new group replaces them
// in that group.
func Group(d *document.Document, ids []string) (Plan, error) {
	ids = dedupe(ids)
	if len(ids) < 2 {
		return Plan{}, errors.New(errors.ErrCodeInvalidSelection, "grouping needs at least 2 elements, got %d", len(ids))
	}
	for _, id := range ids {
		if !d.Has(id) {
			return Plan{}, errors.New(errors.ErrCodeElementNotFound, "element %s not found", id)
		}
	}
	parent := parentOf(d, ids[0])
	for _, id := range ids[1:] {
		if parentOf(d, id) != parent {
			return Plan{}, errors.New(errors.ErrCodeInvalidSelection, "elements in different groups cannot be grouped together")
		}
	}

	members := slices.Clone(ids)
	slices.SortFunc(members, func(a, b string) int { return d.IndexOf(a) - d.IndexOf(b) })
	bounds, _ := element.BoundsOf(elements(d, members))

	g := element.NewGroup(members,
		element.At(bounds.X, bounds.Y),
		element.Sized(bounds.Width, bounds.Height),
	)

	block := unitsOf(d, members)
	order := d.IDs()
	top := d.IndexOf(block[len(block)-1])
	pos := 0
	for _, id := range order[:top+1] {
		if !slices.Contains(block, id) {
			pos++
		}
	}
	next := placeBlock(order, block, pos)
	next = slices.Insert(next, pos, g.ID)

	ops := []document.Op{document.Insert{Items: []document.Item{{Index: d.Len(), Element: g}}}}
	if parent != "" {
		p, _ := d.Get(parent)
		pg := p.Payload.(element.Group)
		var kids []string
		inserted := false
		for _, c := range pg.ChildIDs {
			if slices.Contains(members, c) {
				if !inserted {
					kids = append(kids, g.ID)
					inserted = true
				}
				continue
			}
			kids = append(kids, c)
		}
		p.Payload = element.Group{ChildIDs: kids}
		ops = append(ops, document.Replace{Elements: []element.Element{p}})
	}
	ops = append(ops, document.Reorder{Order: next})

	return Plan{Label: "Group", Op: batch(ops...), Select: []string{g.ID}}, nil
}

// Ungroup plans dissolving group gid. Children keep their geometry, move up
// to the group's parent (or to the top level), and become the selection.
func Ungroup(d *document.Document, gid string) (Plan, error) {
	g, err := groupElement(d, gid)
	if err != nil {
		return Plan{}, err
	}
	children := g.Children()

	var ops []document.Op
	if parent := parentOf(d, gid); parent != "" {
		p, _ := d.Get(parent)
		var kids []string
		for _, c := range p.Children() {
			if c == gid {
				kids = append(kids, children...)
				continue
			}
			kids = append(kids, c)
		}
		p.Payload = element.Group{ChildIDs: kids}
		ops = append(ops, document.Replace{Elements: []element.Element{p}})
	}
	ops = append(ops, document.Delete{IDs: []string{gid}})

	return Plan{Label: "Ungroup", Op: batch(ops...), Select: children}, nil
}

func groupElement(d *document.Document, gid string) (element.Element, error) {
	g, err := d.MustGet(gid)
	if err != nil {
		return g, err
	}
	if !g.IsGroup() {
		return g, errors.New(errors.ErrCodeInvalidSelection, "%s is not a group", g)
	}
	return g, nil
}
