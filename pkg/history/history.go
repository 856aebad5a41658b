// Package history keeps the linear undo and redo stacks of an editing
// session.
//
// Each [Entry] pairs a forward operation with its inverse. Pushing a new
// entry discards the redo stack. The undo stack is bounded: when it grows
// past its depth the oldest entries are evicted, which limits how far back
// undo can go but never leaves the remaining entries inconsistent, because
// each entry only needs the document state that directly precedes it.
package history

import (
	"slices"
	"time"

	"github.com/matzehuels/badgeboard/pkg/document"
)

// DefaultDepth is the undo depth used when none is configured.
const DefaultDepth = 100

// Entry is one committed user action.
type Entry struct {
	Seq     uint64
	Label   string
	Time    time.Time
	Forward document.Op
	Inverse document.Op

	// Selection around the action, restored by undo and redo.
	SelectionBefore []string
	SelectionAfter  []string
}

// History is a bounded pair of undo and redo stacks.
// It is not safe for concurrent use.
type History struct {
	depth int
	seq   uint64
	undo  []Entry
	redo  []Entry
}

// New returns an empty history holding at most depth undo entries.
// A depth of zero or less selects [DefaultDepth].
func New(depth int) *History {
	if depth <= 0 {
		depth = DefaultDepth
	}
	return &History{depth: depth}
}

// Depth returns the maximum number of undo entries.
func (h *History) Depth() int { return h.depth }

// Push records e, assigning its sequence number. The redo stack is cleared.
// Entries evicted to respect the depth bound are returned oldest first.
func (h *History) Push(e Entry) (pushed Entry, evicted []Entry) {
	h.seq++
	e.Seq = h.seq
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	h.redo = nil
	h.undo = append(h.undo, e)
	if n := len(h.undo) - h.depth; n > 0 {
		evicted = slices.Clone(h.undo[:n])
		h.undo = slices.Delete(h.undo, 0, n)
	}
	return e, evicted
}

// CanUndo reports whether an entry can be undone.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether an entry can be redone.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Len returns the sizes of the undo and redo stacks.
func (h *History) Len() (undo, redo int) { return len(h.undo), len(h.redo) }

// PeekUndo returns the entry the next Undo would revert.
func (h *History) PeekUndo() (Entry, bool) {
	if len(h.undo) == 0 {
		return Entry{}, false
	}
	return h.undo[len(h.undo)-1], true
}

// PeekRedo returns the entry the next Redo would reapply.
func (h *History) PeekRedo() (Entry, bool) {
	if len(h.redo) == 0 {
		return Entry{}, false
	}
	return h.redo[len(h.redo)-1], true
}

// Undo pops the newest entry and passes it to revert, which is expected to
// apply e.Inverse. On success the entry moves to the redo stack. If revert
// fails the entry stays on the undo stack. An empty stack is a no-op and
// reports ok=false.
func (h *History) Undo(revert func(e Entry) error) (e Entry, ok bool, err error) {
	if len(h.undo) == 0 {
		return Entry{}, false, nil
	}
	e = h.undo[len(h.undo)-1]
	if err := revert(e); err != nil {
		return e, false, err
	}
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, e)
	return e, true, nil
}

// Redo pops the newest undone entry and passes it to reapply, which is
// expected to apply e.Forward. On success the entry moves back to the undo
// stack.
func (h *History) Redo(reapply func(e Entry) error) (e Entry, ok bool, err error) {
	if len(h.redo) == 0 {
		return Entry{}, false, nil
	}
	e = h.redo[len(h.redo)-1]
	if err := reapply(e); err != nil {
		return e, false, err
	}
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, e)
	return e, true, nil
}

// Labels returns the undo stack labels, oldest first.
func (h *History) Labels() []string {
	out := make([]string, len(h.undo))
	for i, e := range h.undo {
		out[i] = e.Label
	}
	return out
}

// Clear drops both stacks. Sequence numbers keep increasing.
func (h *History) Clear() {
	h.undo, h.redo = nil, nil
}
