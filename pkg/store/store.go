// Package store persists badge templates.
//
// A template is a named document tree. Backends implement [Store]:
//   - file: JSON files in a directory, for the CLI and single-node servers
//   - redis: CBOR values in Redis, for multi-instance deployments
//   - mongo: one document per template in a MongoDB collection
//
// # Usage
//
//	s, err := store.NewFileStore("")  // Uses ~/.config/badgeboard/templates/
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	t, err := store.NewTemplate("conf-2026", "Conference 2026", doc)
//	if err != nil {
//	    return err
//	}
//	if _, err := s.Put(ctx, t); err != nil {
//	    return err
//	}
//
//	t, err = s.Get(ctx, "conf-2026")
//	if errors.Is(err, store.ErrNotFound) {
//	    // No such template
//	}
//	doc, err := t.Document()
package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/badgeboard/pkg/document"
	"github.com/matzehuels/badgeboard/pkg/errors"
	badgeio "github.com/matzehuels/badgeboard/pkg/io"
)

// ErrNotFound is returned when a template does not exist. It carries the
// TEMPLATE_NOT_FOUND code.
var ErrNotFound = errors.New(errors.ErrCodeTemplateNotFound, "template not found")

// Template is a stored badge design.
type Template struct {
	ID        string       `json:"id" bson:"_id"`
	Name      string       `json:"name" bson:"name"`
	Tree      badgeio.Tree `json:"tree" bson:"tree"`
	CreatedAt time.Time    `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time    `json:"updatedAt" bson:"updated_at"`
}

// NewTemplate snapshots d under id. Name defaults to id.
func NewTemplate(id, name string, d *document.Document) (Template, error) {
	if err := errors.ValidateTemplateID(id); err != nil {
		return Template{}, err
	}
	if strings.TrimSpace(name) == "" {
		name = id
	}
	return Template{ID: id, Name: name, Tree: badgeio.Serialize(d)}, nil
}

// Document rebuilds the stored document, validating it on the way.
func (t Template) Document() (*document.Document, error) {
	d, err := badgeio.Deserialize(t.Tree)
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", t.ID, err)
	}
	return d, nil
}

// Summary is the listing form of a template.
type Summary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Elements  int       `json:"elements"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Summary returns the listing form of t.
func (t Template) Summary() Summary {
	return Summary{ID: t.ID, Name: t.Name, Elements: len(t.Tree.Elements), UpdatedAt: t.UpdatedAt}
}

// Store persists templates. Implementations are safe for concurrent use.
type Store interface {
	// Get returns the template with id, or an error wrapping ErrNotFound.
	Get(ctx context.Context, id string) (Template, error)
	// Put creates or replaces a template and returns it with timestamps
	// set. CreatedAt of an existing template is preserved.
	Put(ctx context.Context, t Template) (Template, error)
	// Delete removes a template, or returns an error wrapping ErrNotFound.
	Delete(ctx context.Context, id string) error
	// List returns all templates ordered by id.
	List(ctx context.Context) ([]Summary, error)
	Close() error
}

// prepare validates t and stamps it. prev is the stored version, if any.
func prepare(t Template, prev *Template, now time.Time) (Template, error) {
	if err := errors.ValidateTemplateID(t.ID); err != nil {
		return t, err
	}
	if _, err := t.Document(); err != nil {
		return t, err
	}
	if t.Name == "" {
		t.Name = t.ID
	}
	t.CreatedAt = now
	if prev != nil {
		t.CreatedAt = prev.CreatedAt
	}
	t.UpdatedAt = now
	return t, nil
}

func notFound(id string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}
