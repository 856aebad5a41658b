// Package editor runs one badge editing session.
//
// # Overview
//
// A [Session] owns a [document.Document] and its [history.History]. Every
// toolbar, canvas and properties-panel action goes through a Session
// method; the session plans the change with the arrange package, applies
// it atomically, and records the forward and inverse operations as one
// history entry:
//
//	s := editor.Open(nil, editor.Options{})
//	defer s.Close()
//
//	title, _ := s.AddElement(element.NewText("Welcome"))
//	_ = s.UpdateElement(title, element.Move(24, 40), true)
//	_ = s.Undo()
//
// # Gestures
//
// Continuous manipulation such as dragging calls UpdateElement with
// record=false for every intermediate frame. Those updates change the live
// document but not history. The final call with record=true, or
// [Session.CommitGesture], folds the pre-gesture state and the final state
// into a single entry, so one undo reverts the whole drag. Any other
// command flushes a pending gesture first. [Session.CancelGesture] reverts
// it instead.
//
// # Errors
//
// Validation failures leave the document in its last good state and are
// returned as *errors.Error values. Undo and redo on empty stacks are
// no-ops. After [Session.Close] every method fails with SESSION_CLOSED.
package editor
