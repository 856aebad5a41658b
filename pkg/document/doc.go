// Package document holds the canonical state of one badge design.
//
// # Overview
//
// A [Document] is an ordered sequence of elements plus the current
// selection. Sequence position is paint order: later elements are drawn on
// top. The document is the single source of truth and changes only through
// [Document.Apply], which takes one of the primitive operations:
//
//   - [Insert]: place elements at given indices
//   - [Delete]: remove elements by id
//   - [Replace]: swap elements for new versions with the same ids
//   - [Reorder]: set a new paint order
//   - [Batch]: apply several operations as one
//
// Operations reference elements by id only, so they stay valid after the
// document has been cloned or serialized and read back.
//
// # Atomicity
//
// Apply returns the inverse operation. If any step fails, or the result
// breaks a document invariant, the document is restored to the state it had
// before the call and the error is returned. Callers never observe a half
// applied operation.
//
// # Group index
//
// Membership is stored once, in each group's ChildIDs. The member to group
// direction is derived into an index after every operation and exposed
// through [Document.GroupOf]. The invariants checked by [Document.Check]:
//
//   - element ids are unique
//   - every child id names an existing element
//   - no element belongs to more than one group
//   - groups do not contain themselves, directly or transitively
//   - groups are non-empty
//
// # Selection
//
// Selection is an ordered set of ids. Unknown ids are dropped silently by
// [Document.Select] and the selection is pruned after every operation.
package document
