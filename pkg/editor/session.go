package editor

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/badgeboard/pkg/arrange"
	"github.com/matzehuels/badgeboard/pkg/document"
	"github.com/matzehuels/badgeboard/pkg/element"
	"github.com/matzehuels/badgeboard/pkg/errors"
	"github.com/matzehuels/badgeboard/pkg/fields"
	"github.com/matzehuels/badgeboard/pkg/history"
	"github.com/matzehuels/badgeboard/pkg/observability"
)

// DefaultDuplicateOffset is how far a duplicate is shifted from its source.
const DefaultDuplicateOffset = 10

// Options configures a session.
type Options struct {
	// HistoryDepth bounds the undo stack. Zero selects history.DefaultDepth.
	HistoryDepth int
	// DuplicateOffset shifts duplicates right and down. Zero selects
	// DefaultDuplicateOffset.
	DuplicateOffset float64
	// MemberPolicy decides whether a group member can be removed on its own.
	MemberPolicy arrange.MemberPolicy

	Logger *log.Logger               // nil discards logs
	Hooks  observability.EditorHooks // nil uses the registered hooks
}

func (o *Options) setDefaults() {
	if o.DuplicateOffset == 0 {
		o.DuplicateOffset = DefaultDuplicateOffset
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Hooks == nil {
		o.Hooks = observability.Editor()
	}
}

// Session is one editing session over one document.
// It is not safe for concurrent use.
type Session struct {
	doc    *document.Document
	hist   *history.History
	opts   Options
	closed bool

	gesture *gesture
}

// Open starts a session on doc. A nil doc starts a blank badge on the
// default canvas. The session takes ownership of doc.
func Open(doc *document.Document, opts Options) *Session {
	opts.setDefaults()
	if doc == nil {
		doc = document.New(document.DefaultCanvas)
	}
	s := &Session{
		doc:  doc,
		hist: history.New(opts.HistoryDepth),
		opts: opts,
	}
	s.opts.Logger.Debug("session opened", "elements", doc.Len(), "depth", s.hist.Depth())
	return s
}

// Close ends the session. A pending gesture is committed first. Closing
// twice is harmless.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	err := s.flush()
	s.closed = true
	s.opts.Logger.Debug("session closed", "elements", s.doc.Len())
	return err
}

// Closed reports whether Close has been called.
func (s *Session) Closed() bool { return s.closed }

// Snapshot returns an independent copy of the current document.
func (s *Session) Snapshot() *document.Document { return s.doc.Clone() }

// Element returns a copy of the element with the given id.
func (s *Session) Element(id string) (element.Element, bool) { return s.doc.Get(id) }

// Elements returns copies of all elements in paint order.
func (s *Session) Elements() []element.Element { return s.doc.Elements() }

// Selection returns the selected ids.
func (s *Session) Selection() []string { return s.doc.Selection() }

// CanUndo reports whether Undo would change anything.
func (s *Session) CanUndo() bool { return s.pending() || s.hist.CanUndo() }

// CanRedo reports whether Redo would change anything.
func (s *Session) CanRedo() bool { return !s.pending() && s.hist.CanRedo() }

// HistoryLabels returns the labels on the undo stack, oldest first.
func (s *Session) HistoryLabels() []string { return s.hist.Labels() }

func (s *Session) ensureOpen() error {
	if s.closed {
		return errors.New(errors.ErrCodeSessionClosed, "editing session is closed")
	}
	return nil
}

// begin is called by every command: it rejects closed sessions and folds a
// pending gesture into history.
func (s *Session) begin() error {
	if err := s.ensureOpen(); err != nil {
		return err
	}
	return s.flush()
}

// run applies plan and records it. err is the planning error, if any.
func (s *Session) run(name string, plan arrange.Plan, err error) error {
	if err != nil {
		return s.reject(name, err)
	}
	if plan.Op == nil {
		if plan.Select != nil {
			s.doc.Select(plan.Select...)
		}
		return nil
	}
	before := s.doc.Selection()
	inv, err := s.doc.Apply(plan.Op)
	if err != nil {
		return s.reject(name, err)
	}
	if plan.Select != nil {
		s.doc.Select(plan.Select...)
	}
	s.record(history.Entry{
		Label:           plan.Label,
		Forward:         plan.Op,
		Inverse:         inv,
		SelectionBefore: before,
		SelectionAfter:  s.doc.Selection(),
	})
	return nil
}

func (s *Session) record(e history.Entry) {
	e, evicted := s.hist.Push(e)
	s.opts.Logger.Debug("committed", "label", e.Label, "seq", e.Seq, "op", e.Forward.Describe())
	s.opts.Hooks.OnCommit(e.Label, s.doc.Len())
	if len(evicted) > 0 {
		s.opts.Logger.Debug("history evicted", "count", len(evicted), "oldest", evicted[0].Seq)
		s.opts.Hooks.OnEvict(len(evicted))
	}
}

func (s *Session) reject(name string, err error) error {
	s.opts.Logger.Debug("rejected", "op", name, "err", err)
	s.opts.Hooks.OnRejected(name, string(errors.GetCode(err)))
	return err
}

// AddElement appends e on top of the paint order and selects it. It fails
// with DUPLICATE_ID if an element with the same id exists.
func (s *Session) AddElement(e element.Element) (string, error) {
	if err := s.begin(); err != nil {
		return "", err
	}
	if e.Payload == nil {
		return "", s.reject("add", errors.New(errors.ErrCodeInvalidElement, "element has no payload"))
	}
	plan := arrange.Plan{
		Label:  "Add " + string(e.Kind()),
		Op:     document.Insert{Items: []document.Item{{Index: s.doc.Len(), Element: e}}},
		Select: []string{e.ID},
	}
	if err := s.run("add", plan, nil); err != nil {
		return "", err
	}
	return e.ID, nil
}

// AddField drops the element for a dynamic field at (x, y): a QR code for
// the attendee identifier, text for every other field.
func (s *Session) AddField(token string, x, y float64) (string, error) {
	if err := s.ensureOpen(); err != nil {
		return "", err
	}
	e, err := fields.NewElement(token, x, y)
	if err != nil {
		return "", s.reject("add field", err)
	}
	return s.AddElement(e)
}

// BindField binds element id to a dynamic field token.
func (s *Session) BindField(id, token string) error {
	if err := s.begin(); err != nil {
		return err
	}
	cur, err := s.doc.MustGet(id)
	if err != nil {
		return s.reject("bind", err)
	}
	next, err := fields.Bind(cur, token)
	if err != nil {
		return s.reject("bind", err)
	}
	plan := arrange.Plan{Label: "Bind field"}
	if !next.Equal(cur) {
		plan.Op = document.Replace{Elements: []element.Element{next}}
	}
	return s.run("bind", plan, nil)
}

// RemoveElement deletes id. Groups are deleted with everything nested in
// them. Removing a group member on its own follows Options.MemberPolicy.
func (s *Session) RemoveElement(id string) error {
	if err := s.begin(); err != nil {
		return err
	}
	plan, err := arrange.Remove(s.doc, []string{id}, s.opts.MemberPolicy)
	return s.run("remove", plan, err)
}

// DeleteGroup deletes group gid and all of its descendants.
func (s *Session) DeleteGroup(gid string) error {
	if err := s.begin(); err != nil {
		return err
	}
	plan, err := arrange.DeleteGroup(s.doc, gid)
	return s.run("delete group", plan, err)
}

// DeleteSelection deletes every selected element as one history entry.
func (s *Session) DeleteSelection() error {
	if err := s.begin(); err != nil {
		return err
	}
	plan, err := arrange.Remove(s.doc, s.doc.Selection(), s.opts.MemberPolicy)
	return s.run("delete selection", plan, err)
}

// Reorder moves the unit of id to index among its siblings. Group members
// only move within their group.
func (s *Session) Reorder(id string, index int) error {
	if err := s.begin(); err != nil {
		return err
	}
	plan, err := arrange.Reorder(s.doc, id, index)
	return s.run("reorder", plan, err)
}

// BringToFront moves the unit of id to the top.
func (s *Session) BringToFront(id string) error {
	if err := s.begin(); err != nil {
		return err
	}
	plan, err := arrange.BringToFront(s.doc, id)
	return s.run("bring to front", plan, err)
}

// SendToBack moves the unit of id to the bottom.
func (s *Session) SendToBack(id string) error {
	if err := s.begin(); err != nil {
		return err
	}
	plan, err := arrange.SendToBack(s.doc, id)
	return s.run("send to back", plan, err)
}

// BringForward moves the unit of id one sibling up.
func (s *Session) BringForward(id string) error {
	if err := s.begin(); err != nil {
		return err
	}
	plan, err := arrange.BringForward(s.doc, id)
	return s.run("bring forward", plan, err)
}

// SendBackward moves the unit of id one sibling down.
func (s *Session) SendBackward(id string) error {
	if err := s.begin(); err != nil {
		return err
	}
	plan, err := arrange.SendBackward(s.doc, id)
	return s.run("send backward", plan, err)
}

// Duplicate deep-copies the unit of id with fresh ids and selects the copy.
func (s *Session) Duplicate(id string) (string, error) {
	if err := s.begin(); err != nil {
		return "", err
	}
	off := s.opts.DuplicateOffset
	plan, err := arrange.Duplicate(s.doc, id, off, off)
	if err := s.run("duplicate", plan, err); err != nil {
		return "", err
	}
	return plan.Select[0], nil
}

// GroupSelection groups the selected elements and selects the new group.
func (s *Session) GroupSelection() (string, error) {
	if err := s.begin(); err != nil {
		return "", err
	}
	plan, err := arrange.Group(s.doc, s.doc.Selection())
	if err := s.run("group", plan, err); err != nil {
		return "", err
	}
	return plan.Select[0], nil
}

// Ungroup dissolves group gid and selects its former children.
func (s *Session) Ungroup(gid string) error {
	if err := s.begin(); err != nil {
		return err
	}
	plan, err := arrange.Ungroup(s.doc, gid)
	return s.run("ungroup", plan, err)
}

// Select replaces the selection. Unknown ids are ignored. Selection changes
// are not recorded in history.
func (s *Session) Select(ids ...string) error {
	if err := s.ensureOpen(); err != nil {
		return err
	}
	s.doc.Select(ids...)
	return nil
}

// ClearSelection empties the selection.
func (s *Session) ClearSelection() error {
	if err := s.ensureOpen(); err != nil {
		return err
	}
	s.doc.ClearSelection()
	return nil
}

// Undo reverts the newest history entry and restores the selection that
// preceded it. With nothing to undo it does nothing.
func (s *Session) Undo() error {
	if err := s.begin(); err != nil {
		return err
	}
	e, ok, err := s.hist.Undo(func(e history.Entry) error {
		_, err := s.doc.Apply(e.Inverse)
		return err
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "undo %s", e.Label)
	}
	if ok {
		s.doc.Select(e.SelectionBefore...)
		s.opts.Logger.Debug("undo", "label", e.Label, "seq", e.Seq)
		s.opts.Hooks.OnUndo(e.Label)
	}
	return nil
}

// Redo reapplies the newest undone entry and restores the selection that
// followed it. With nothing to redo it does nothing.
func (s *Session) Redo() error {
	if err := s.begin(); err != nil {
		return err
	}
	e, ok, err := s.hist.Redo(func(e history.Entry) error {
		_, err := s.doc.Apply(e.Forward)
		return err
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "redo %s", e.Label)
	}
	if ok {
		s.doc.Select(e.SelectionAfter...)
		s.opts.Logger.Debug("redo", "label", e.Label, "seq", e.Seq)
		s.opts.Hooks.OnRedo(e.Label)
	}
	return nil
}
