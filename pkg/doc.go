// Package pkg provides the core libraries for Badgeboard, an editor and
// exporter for event badge designs.
//
// # Overview
//
// A badge design is a canvas holding an ordered list of elements: text,
// images, shapes, QR codes and groups. Text and QR elements may carry
// attendee field tokens such as {{name}} that are substituted per attendee
// at export time. The pkg directory is organized into four areas:
//
//  1. Model - [element], [fields], [document]
//  2. Editing - [history], [arrange], [editor]
//  3. Output - [io], [export], [render], [pipeline]
//  4. Infrastructure - [store], [cache], [observability], [errors], [fonts]
//
// # Architecture
//
// The typical data flow through Badgeboard:
//
//	editor.Session (commands, gestures, undo/redo)
//	         ↓
//	    [document] arena (elements in paint order)
//	         ↓
//	    [io] JSON or CBOR tree
//	         ↓
//	    [export] resolved badge per attendee
//	         ↓
//	    [render] SVG/PNG/PDF output
//
// # Quick Start
//
// Build a design and resolve it for one attendee:
//
//	s := editor.Open(nil, editor.Options{})
//	defer s.Close()
//
//	s.AddField(fields.TokenName, 20, 40)
//	s.AddField(fields.TokenIdentifier, 200, 20)
//
//	badge := export.Resolve(s.Snapshot(), fields.Attendee{
//	    "name":       "Ada Lovelace",
//	    "identifier": "A-001",
//	}, export.Options{Placeholder: "-"})
//
//	svg := render.RenderSVG(badge, render.WithOutline())
//
// # Main Packages
//
// [element] - Element values, the sealed payload variants and per-kind
// validation.
//
// [fields] - The field catalog and token substitution against attendee
// records.
//
// [document] - The element arena. Every mutation is an [document.Op] whose
// Apply returns its inverse, which is what [history] records.
//
// [arrange] - Pure planners for reorder, duplicate, group and ungroup.
//
// [editor] - The editing session: selection, gesture coalescing and
// bounded undo/redo.
//
// [io] - Deterministic JSON and CBOR tree codecs with format detection.
//
// [export] - Attendee resolution, hidden-element pruning and batch export.
//
// [render] - SVG and PNG rasterization, QR generation and PDF conversion.
// [render/nodelink] draws the element tree through Graphviz.
//
// [pipeline] - Cached resolve and render runner shared by the CLI and the
// HTTP server.
//
// [store] - Named template storage backed by files, Redis or MongoDB.
//
// [cache] - Content-addressed byte cache for rendered artifacts.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/editor/...    # Specific package
//	go test -run Example        # Examples only
//
// [element]: https://pkg.go.dev/github.com/matzehuels/badgeboard/pkg/element
// [fields]: https://pkg.go.dev/github.com/matzehuels/badgeboard/pkg/fields
// [document]: https://pkg.go.dev/github.com/matzehuels/badgeboard/pkg/document
// [document.Op]: https://pkg.go.dev/github.com/matzehuels/badgeboard/pkg/document#Op
// [history]: https://pkg.go.dev/github.com/matzehuels/badgeboard/pkg/history
// [arrange]: https://pkg.go.dev/github.com/matzehuels/badgeboard/pkg/arrange
// [editor]: https://pkg.go.dev/github.com/matzehuels/badgeboard/pkg/editor
// [io]: https://pkg.go.dev/github.com/matzehuels/badgeboard/pkg/io
// [export]: https://pkg.go.dev/github.com/matzehuels/badgeboard/pkg/export
// [render]: https://pkg.go.dev/github.com/matzehuels/badgeboard/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/badgeboard/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/badgeboard/pkg/pipeline
// [store]: https://pkg.go.dev/github.com/matzehuels/badgeboard/pkg/store
// [cache]: https://pkg.go.dev/github.com/matzehuels/badgeboard/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/badgeboard/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/badgeboard/pkg/errors
// [fonts]: https://pkg.go.dev/github.com/matzehuels/badgeboard/pkg/fonts
package pkg
