package document

import (
	"github.com/matzehuels/badgeboard/pkg/element"
	"github.com/matzehuels/badgeboard/pkg/errors"
)

// Check verifies the document invariants. Apply runs it after every
// operation; it is exported for callers that assemble documents by other
// means.
func (d *Document) Check() error {
	seen := make(map[string]bool, len(d.elems))
	for _, e := range d.elems {
		if seen[e.ID] {
			return errors.New(errors.ErrCodeDuplicateID, "element %s appears twice", e.ID)
		}
		seen[e.ID] = true
	}

	owner := make(map[string]string)
	for _, e := range d.elems {
		g, ok := e.Payload.(element.Group)
		if !ok {
			continue
		}
		if len(g.ChildIDs) == 0 {
			return errors.New(errors.ErrCodeInvalidDocument, "group %s is empty", e.ID)
		}
		for _, c := range g.ChildIDs {
			if c == e.ID {
				return errors.New(errors.ErrCodeInvalidDocument, "group %s contains itself", e.ID)
			}
			if !seen[c] {
				return errors.New(errors.ErrCodeInvalidDocument, "group %s references missing element %s", e.ID, c)
			}
			if prev, dup := owner[c]; dup {
				return errors.New(errors.ErrCodeInvalidDocument, "element %s belongs to groups %s and %s", c, prev, e.ID)
			}
			owner[c] = e.ID
		}
	}

	// With single ownership, a cycle is a chain of owners that never reaches
	// a top-level element.
	for id := range owner {
		steps := 0
		for cur, ok := id, true; ok; cur, ok = owner[cur] {
			steps++
			if steps > len(d.elems) {
				return errors.New(errors.ErrCodeInvalidDocument, "group cycle through %s", id)
			}
		}
	}
	return nil
}
