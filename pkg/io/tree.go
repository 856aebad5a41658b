package io

import (
	"slices"

	"github.com/matzehuels/badgeboard/pkg/document"
	"github.com/matzehuels/badgeboard/pkg/element"
	"github.com/matzehuels/badgeboard/pkg/errors"
)

// Version is the tree format written by this package.
const Version = 1

// Tree is the portable form of a document.
type Tree struct {
	Version  int             `json:"version"`
	Canvas   document.Canvas `json:"canvas"`
	Elements []Node          `json:"elements"`
}

// Node is the portable form of one element.
type Node struct {
	ID       string           `json:"id"`
	Kind     element.Kind     `json:"kind"`
	Geometry element.Geometry `json:"geometry"`
	Hidden   bool             `json:"hidden,omitempty"`
	GroupID  *string          `json:"groupId"`
	ChildIDs []string         `json:"childIds,omitempty"`

	Text    *element.Text    `json:"text,omitempty"`
	Image   *element.Image   `json:"image,omitempty"`
	QR      *element.QR      `json:"qr,omitempty"`
	Shape   *element.Shape   `json:"shape,omitempty"`
	Line    *element.Line    `json:"line,omitempty"`
	Polygon *element.Polygon `json:"polygon,omitempty"`
	Table   *element.Table   `json:"table,omitempty"`
}

// Serialize converts d into a tree. Both directions of every group
// relation are written from the document's single membership index, so
// they always agree.
func Serialize(d *document.Document) Tree {
	elems := d.Elements()
	t := Tree{Version: Version, Canvas: d.Canvas(), Elements: make([]Node, len(elems))}
	for i, e := range elems {
		n := NewNode(e)
		if g, ok := d.GroupOf(e.ID); ok {
			n.GroupID = &g
		}
		t.Elements[i] = n
	}
	return t
}

// NewNode converts a single element. GroupID is left nil; only a document
// knows membership.
func NewNode(e element.Element) Node {
	n := Node{ID: e.ID, Kind: e.Kind(), Geometry: e.Geometry, Hidden: e.Hidden}
	switch p := e.Payload.(type) {
	case element.Text:
		n.Text = &p
	case element.Image:
		n.Image = &p
	case element.QR:
		n.QR = &p
	case element.Shape:
		n.Shape = &p
	case element.Line:
		n.Line = &p
	case element.Polygon:
		n.Polygon = &p
	case element.Table:
		n.Table = &p
	case element.Group:
		n.ChildIDs = p.ChildIDs
	default:
		panic("io: unhandled payload in NewNode")
	}
	return n
}

// Deserialize builds a document from t, rejecting inconsistent trees.
func Deserialize(t Tree) (*document.Document, error) {
	if t.Version > Version {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "tree version %d is newer than supported version %d", t.Version, Version)
	}
	if err := t.Canvas.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "canvas")
	}

	byID := make(map[string]*Node, len(t.Elements))
	for i := range t.Elements {
		n := &t.Elements[i]
		if _, dup := byID[n.ID]; dup {
			return nil, errors.New(errors.ErrCodeInvalidDocument, "duplicate element id %q", n.ID)
		}
		byID[n.ID] = n
	}

	elems := make([]element.Element, 0, len(t.Elements))
	for _, n := range t.Elements {
		if err := checkRelations(n, byID); err != nil {
			return nil, err
		}
		p, err := n.payload()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "element %s", n.ID)
		}
		elems = append(elems, element.Element{ID: n.ID, Geometry: n.Geometry, Payload: p, Hidden: n.Hidden})
	}

	d, err := document.FromElements(t.Canvas, elems)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "invalid document")
	}
	return d, nil
}

func checkRelations(n Node, byID map[string]*Node) error {
	if n.GroupID != nil {
		g, ok := byID[*n.GroupID]
		switch {
		case !ok:
			return errors.New(errors.ErrCodeInvalidDocument, "element %s references missing group %q", n.ID, *n.GroupID)
		case g.Kind != element.KindGroup:
			return errors.New(errors.ErrCodeInvalidDocument, "element %s references %s element %s as its group", n.ID, g.Kind, g.ID)
		case !slices.Contains(g.ChildIDs, n.ID):
			return errors.New(errors.ErrCodeInvalidDocument, "element %s claims group %s, which does not list it", n.ID, g.ID)
		}
	}
	for _, c := range n.ChildIDs {
		child, ok := byID[c]
		if !ok {
			return errors.New(errors.ErrCodeInvalidDocument, "group %s lists missing element %q", n.ID, c)
		}
		if child.GroupID == nil || *child.GroupID != n.ID {
			return errors.New(errors.ErrCodeInvalidDocument, "group %s lists %s, whose groupId disagrees", n.ID, c)
		}
	}
	return nil
}

func (n Node) payload() (element.Payload, error) {
	k, err := element.ParseKind(string(n.Kind))
	if err != nil {
		return nil, err
	}
	if k != element.KindGroup && len(n.ChildIDs) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "%s element cannot have childIds", k)
	}
	var p element.Payload
	switch k {
	case element.KindText:
		p = deref(n.Text)
	case element.KindImage:
		p = deref(n.Image)
	case element.KindQR:
		p = deref(n.QR)
	case element.KindShape:
		p = deref(n.Shape)
	case element.KindLine:
		p = deref(n.Line)
	case element.KindPolygon:
		p = deref(n.Polygon)
	case element.KindTable:
		p = deref(n.Table)
	case element.KindGroup:
		if len(n.ChildIDs) == 0 {
			return nil, errors.New(errors.ErrCodeInvalidDocument, "group has no childIds")
		}
		p = element.Group{ChildIDs: n.ChildIDs}
	}
	if p == nil {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "missing %s payload", k)
	}
	return p, nil
}

// deref returns *v as a Payload, or nil when v is nil.
func deref[T element.Payload](v *T) element.Payload {
	if v == nil {
		return nil
	}
	return *v
}
