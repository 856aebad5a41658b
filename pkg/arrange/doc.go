// Package arrange implements the selection and grouping algebra of the
// badge editor.
//
// Every function here is a planner: it reads a [document.Document] and
// returns a [Plan] describing the change as one primitive operation plus the
// selection that should follow it. Nothing is mutated. The editor session
// applies the plan and records it in history, which keeps the algebra easy
// to test and keeps undo uniform across operations.
//
// # Units
//
// A unit is an element together with everything nested below it. Z-order
// operations, duplication and group deletion always act on whole units, so
// a group and its members move through paint order together.
//
// # Coordinates
//
// Member geometry is stored in canvas coordinates. Grouping and ungrouping
// therefore never move anything. Transforming a group maps the same change
// onto every descendant (see [Update]).
package arrange
