package editor

import (
	"github.com/matzehuels/badgeboard/pkg/arrange"
	"github.com/matzehuels/badgeboard/pkg/document"
	"github.com/matzehuels/badgeboard/pkg/element"
	"github.com/matzehuels/badgeboard/pkg/history"
)

// gesture holds the state from before a continuous manipulation started.
type gesture struct {
	label     string
	selection []string
	// original versions of every element the gesture has touched
	before map[string]element.Element
}

// UpdateElement merges patch into element id. Moving, scaling or rotating a
// group carries its members along; editing a member refits untransformed
// ancestor groups.
//
// With record=false the change is applied to the live document only and
// becomes part of the current gesture. With record=true the change is
// applied and the whole gesture, or just this change when no gesture is
// pending, is committed as one history entry.
func (s *Session) UpdateElement(id string, patch element.Patch, record bool) error {
	if err := s.ensureOpen(); err != nil {
		return err
	}
	plan, err := arrange.Update(s.doc, id, patch)
	if s.gesture == nil && record {
		// A plain recorded update commits directly.
		return s.run("update", plan, err)
	}
	if err != nil {
		return s.reject("update", err)
	}
	if s.gesture == nil {
		s.gesture = &gesture{selection: s.doc.Selection(), before: map[string]element.Element{}}
	}

	if plan.Op != nil {
		for _, e := range plan.Op.(document.Replace).Elements {
			if _, seen := s.gesture.before[e.ID]; !seen {
				orig, _ := s.doc.Get(e.ID)
				s.gesture.before[e.ID] = orig
			}
		}
		if _, err := s.doc.Apply(plan.Op); err != nil {
			return s.reject("update", err)
		}
	}
	s.gesture.label = plan.Label
	if record {
		return s.flush()
	}
	return nil
}

// CommitGesture folds a pending gesture into one history entry. A gesture
// that ends where it started records nothing.
func (s *Session) CommitGesture() error {
	if err := s.ensureOpen(); err != nil {
		return err
	}
	return s.flush()
}

// CancelGesture reverts a pending gesture without recording it.
func (s *Session) CancelGesture() error {
	if err := s.ensureOpen(); err != nil {
		return err
	}
	g := s.gesture
	if g == nil {
		return nil
	}
	s.gesture = nil
	before, _ := g.ops(s.doc)
	if before == nil {
		return nil
	}
	_, err := s.doc.Apply(before)
	s.doc.Select(g.selection...)
	return err
}

func (s *Session) flush() error {
	g := s.gesture
	if g == nil {
		return nil
	}
	s.gesture = nil
	inverse, forward := g.ops(s.doc)
	if forward == nil {
		return nil
	}
	s.record(history.Entry{
		Label:           g.label,
		Forward:         forward,
		Inverse:         inverse,
		SelectionBefore: g.selection,
		SelectionAfter:  s.doc.Selection(),
	})
	return nil
}

// pending reports whether a gesture has changed the document since it
// started.
func (s *Session) pending() bool {
	if s.gesture == nil {
		return false
	}
	_, forward := s.gesture.ops(s.doc)
	return forward != nil
}

// ops returns Replace operations restoring the pre-gesture state and
// reaching the current one, skipping elements that ended unchanged. Both are
// nil when nothing changed.
func (g *gesture) ops(d *document.Document) (before, after document.Op) {
	var prev, cur []element.Element
	for _, id := range d.IDs() {
		orig, ok := g.before[id]
		if !ok {
			continue
		}
		now, _ := d.Get(id)
		if now.Equal(orig) {
			continue
		}
		prev = append(prev, orig)
		cur = append(cur, now)
	}
	if len(cur) == 0 {
		return nil, nil
	}
	return document.Replace{Elements: prev}, document.Replace{Elements: cur}
}
