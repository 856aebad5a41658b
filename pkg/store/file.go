package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/badgeboard/pkg/errors"
)

// FileStore is a file-based template store.
// Templates are stored as JSON files in a directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
	now     func() time.Time
}

// NewFileStore creates a new file-based template store.
// If baseDir is empty, defaults to ~/.config/badgeboard/templates/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "badgeboard", "templates")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create template dir: %w", err)
	}
	return &FileStore{baseDir: baseDir, now: time.Now}, nil
}

func (s *FileStore) templatePath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *FileStore) Get(ctx context.Context, id string) (Template, error) {
	if err := errors.ValidateTemplateID(id); err != nil {
		return Template{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(id)
}

func (s *FileStore) read(id string) (Template, error) {
	data, err := os.ReadFile(s.templatePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return Template{}, notFound(id)
		}
		return Template{}, fmt.Errorf("read template file: %w", err)
	}
	var t Template
	if err := json.Unmarshal(data, &t); err != nil {
		return Template{}, fmt.Errorf("parse template %s: %w", id, err)
	}
	return t, nil
}

func (s *FileStore) Put(ctx context.Context, t Template) (Template, error) {
	if err := errors.ValidateTemplateID(t.ID); err != nil {
		return t, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var prev *Template
	if old, err := s.read(t.ID); err == nil {
		prev = &old
	}
	t, err := prepare(t, prev, s.now())
	if err != nil {
		return t, err
	}

	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return t, fmt.Errorf("marshal template: %w", err)
	}
	// Rename is atomic; readers never see a partial template.
	tmp := s.templatePath(t.ID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return t, fmt.Errorf("write template file: %w", err)
	}
	if err := os.Rename(tmp, s.templatePath(t.ID)); err != nil {
		return t, fmt.Errorf("write template file: %w", err)
	}
	return t, nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := errors.ValidateTemplateID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.templatePath(id)); err != nil {
		if os.IsNotExist(err) {
			return notFound(id)
		}
		return fmt.Errorf("remove template file: %w", err)
	}
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read template dir: %w", err)
	}
	var out []Summary
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		t, err := s.read(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			continue
		}
		out = append(out, t.Summary())
	}
	slices.SortFunc(out, func(a, b Summary) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for template files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
