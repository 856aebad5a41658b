// Package element defines the atomic unit of a badge design.
//
// # Overview
//
// An [Element] is one placeable item on a badge: a piece of text, an image,
// a QR code, a shape, a line, a regular polygon, a table or a group of other
// elements. Every element shares the same [Geometry] (position, size, scale
// and rotation) and carries a kind-specific [Payload].
//
// # Kinds
//
// The set of kinds is closed. [Payload] is a sealed interface implemented
// only by the variant structs in this package:
//
//   - [Text]: textual content with font and alignment
//   - [Image]: a ready-to-render image reference
//   - [QR]: scannable data, either literal or a field token
//   - [Shape]: rect, rounded rect, ellipse or triangle
//   - [Line]: two endpoints with an optional arrow head
//   - [Polygon]: a regular polygon described by side count and radius
//   - [Table]: a rows x cols grid of cell strings
//   - [Group]: the ids of member elements
//
// Code that inspects payloads switches on the concrete type and panics on an
// unknown variant. Adding a kind therefore fails loudly at the first switch
// that forgot it instead of rendering nothing.
//
// # Construction
//
// Constructors populate every payload field and supply a default geometry
// with non-zero size and identity scale, so a freshly built element is
// immediately paintable:
//
//	title := element.NewText("Welcome", element.At(24, 40))
//	code := element.NewQR("{{attendee.identifier}}", element.At(132, 400))
//
// # Geometry
//
// Rotation is expressed in degrees around the element origin (X, Y). Scale
// multiplies the local size. [Bounds] returns the axis-aligned box of the
// transformed local rectangle, which is what selection and grouping use.
//
// Line and polygon sizes are derived from their payloads; [Element.Sync]
// recomputes them and is applied by every constructor and by [Patch.Apply].
package element
