// Package io converts badge documents to and from a portable tree.
//
// # Overview
//
// The tree is the entire persistence contract of the editor: templates are
// stored as trees, the HTTP boundary exchanges trees, and export hands a
// tree to the rasterizer. Two encodings are supported, indented JSON for
// people and diffs, and deterministic CBOR for compact storage and content
// hashing.
//
// # Format
//
//	{
//	  "version": 1,
//	  "canvas": {"width": 384, "height": 576},
//	  "elements": [
//	    {"id": "a", "kind": "text", "geometry": {...}, "groupId": "g",
//	     "text": {"content": "{{attendee.name}}", ...}},
//	    {"id": "g", "kind": "group", "geometry": {...}, "groupId": null,
//	     "childIds": ["a", "b"]}
//	  ]
//	}
//
// Elements are listed in paint order. Each carries exactly one payload
// object named after its kind; groups carry childIds instead. Group
// relations appear in both directions: groupId on the member and childIds
// on the group.
//
// # Import
//
// [ReadJSON], [ReadCBOR] and [Decode] reject a tree instead of repairing
// it. An import fails with INVALID_DOCUMENT when:
//
//   - an id is duplicated
//   - a kind is unknown or its payload object is missing
//   - a groupId names a missing element or a non-group
//   - a childIds entry names a missing element
//   - groupId and childIds disagree
//
// Element-level validation (sizes, colors, image references) runs as well.
//
// # Export
//
// [WriteJSON], [WriteCBOR] and [ExportJSON] never fail on a valid document
// other than for I/O errors. [Serialize] followed by [Deserialize] yields a
// structurally equal document.
package io
