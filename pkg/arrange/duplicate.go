package arrange

import (
	"github.com/matzehuels/badgeboard/pkg/document"
	"github.com/matzehuels/badgeboard/pkg/element"
)

// Duplicate plans a deep copy of the unit of id with fresh ids, shifted by
// (dx, dy) and painted directly above the original unit. The copy is
// top-level even when the original is a group member. The copy becomes the
// selection.
func Duplicate(d *document.Document, id string, dx, dy float64) (Plan, error) {
	if _, err := d.MustGet(id); err != nil {
		return Plan{}, err
	}
	block := unit(d, id)

	ids := make(map[string]string, len(block))
	for _, old := range block {
		ids[old] = element.NewID()
	}

	at := d.IndexOf(block[len(block)-1]) + 1
	items := make([]document.Item, 0, len(block))
	for i, old := range block {
		e, _ := d.Get(old)
		e.ID = ids[old]
		e.X += dx
		e.Y += dy
		if g, ok := e.Payload.(element.Group); ok {
			kids := make([]string, len(g.ChildIDs))
			for k, c := range g.ChildIDs {
				kids[k] = ids[c]
			}
			e.Payload = element.Group{ChildIDs: kids}
		}
		items = append(items, document.Item{Index: at + i, Element: e})
	}
	return Plan{
		Label:  "Duplicate",
		Op:     document.Insert{Items: items},
		Select: []string{ids[id]},
	}, nil
}
