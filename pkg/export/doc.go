// Package export turns a badge document into per-attendee badges ready for
// a rasterizer.
//
// The document stores field tokens, never values. [Resolve] substitutes
// them from one attendee record: text content, QR data and table cells are
// rewritten, hidden elements and group containers are dropped, and the
// remaining elements are returned in paint order. Member geometry is
// already absolute, so no group transform needs to be applied.
//
// Missing attributes never abort a badge. The affected token resolves to
// [Options.Placeholder], is reported in [Badge.Missing], and is logged at
// WARN level:
//
//	badge := export.Resolve(doc, fields.Attendee{"identifier": "ABC123"}, export.Options{})
//	qr := badge.Elements[0].Payload.(element.QR)
//	fmt.Println(qr.Data) // ABC123
//
// [ResolveBatch] resolves a whole attendee list and stops between attendees
// when its context is cancelled.
package export
