package server

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/badgeboard/pkg/buildinfo"
	"github.com/matzehuels/badgeboard/pkg/document"
	"github.com/matzehuels/badgeboard/pkg/errors"
	"github.com/matzehuels/badgeboard/pkg/export"
	"github.com/matzehuels/badgeboard/pkg/fields"
	badgeio "github.com/matzehuels/badgeboard/pkg/io"
	"github.com/matzehuels/badgeboard/pkg/pipeline"
	"github.com/matzehuels/badgeboard/pkg/store"
)

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json; charset=utf-8",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleFields(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"fields": fields.List()})
}

// ValidateResponse reports a document that passed import validation.
type ValidateResponse struct {
	Valid    bool            `json:"valid"`
	Elements int             `json:"elements"`
	Canvas   document.Canvas `json:"canvas"`
	Fields   []string        `json:"fields"`
}

// handleValidate accepts a raw document in JSON or CBOR.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	data, err := s.readBody(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	d, err := badgeio.Decode(data)
	if err != nil {
		s.writeError(w, err)
		return
	}
	used := make([]string, 0)
	for token := range export.Design(d).Fields {
		used = append(used, token)
	}
	sort.Strings(used)
	s.writeJSON(w, http.StatusOK, ValidateResponse{
		Valid:    true,
		Elements: d.Len(),
		Canvas:   d.Canvas(),
		Fields:   used,
	})
}

// ResolveRequest asks for one badge per attendee.
type ResolveRequest struct {
	Document    json.RawMessage   `json:"document"`
	Attendees   []fields.Attendee `json:"attendees"`
	Placeholder *string           `json:"placeholder,omitempty"`
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	d, err := decodeDocument(req.Document)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if len(req.Attendees) == 0 {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "attendees cannot be empty"))
		return
	}

	opts := export.Options{Placeholder: s.cfg.Placeholder, Logger: s.cfg.Logger}
	if req.Placeholder != nil {
		opts.Placeholder = *req.Placeholder
	}
	badges, err := export.ResolveBatch(r.Context(), d, req.Attendees, opts)
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "resolve cancelled"))
		return
	}

	incomplete := 0
	for _, b := range badges {
		if !b.Complete() {
			incomplete++
		}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"badges":     badges,
		"incomplete": incomplete,
	})
}

// RenderRequest asks for a preview of one badge.
type RenderRequest struct {
	Document   json.RawMessage `json:"document"`
	Attendee   fields.Attendee `json:"attendee,omitempty"`
	Design     bool            `json:"design,omitempty"`
	Scale      float64         `json:"scale,omitempty"`
	Background string          `json:"background,omitempty"`
	Outline    bool            `json:"outline,omitempty"`
}

// handleRender renders one format chosen by the format query parameter
// (svg by default).
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, err)
		return
	}
	var req RenderRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Background != "" {
		if err := errors.ValidateHexColor(req.Background); err != nil {
			s.writeError(w, err)
			return
		}
	}
	d, err := decodeDocument(req.Document)
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.cfg.Runner.Execute(r.Context(), d, pipeline.Options{
		Attendee:    req.Attendee,
		Design:      req.Design,
		Placeholder: s.cfg.Placeholder,
		Formats:     []string{format},
		Scale:       req.Scale,
		Background:  req.Background,
		Outline:     req.Outline,
		Logger:      s.cfg.Logger,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	cacheStatus := "MISS"
	if result.CacheHit {
		cacheStatus = "HIT"
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Cache", cacheStatus)
	w.Header().Set("ETag", `"`+result.DocHash[:16]+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Artifacts[format]); err != nil {
		s.cfg.Logger.Error("write artifact", "err", err)
	}
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	list, err := s.cfg.Store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"templates": list})
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	t, err := s.cfg.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, t)
}

// PutTemplateRequest creates or replaces a template.
type PutTemplateRequest struct {
	Name     string          `json:"name,omitempty"`
	Document json.RawMessage `json:"document"`
}

func (s *Server) handlePutTemplate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateTemplateID(id); err != nil {
		s.writeError(w, err)
		return
	}
	var req PutTemplateRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	d, err := decodeDocument(req.Document)
	if err != nil {
		s.writeError(w, err)
		return
	}
	t, err := store.NewTemplate(id, req.Name, d)
	if err != nil {
		s.writeError(w, err)
		return
	}
	saved, err := s.cfg.Store.Put(r.Context(), t)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.cfg.Logger.Info("template saved", "id", saved.ID, "elements", d.Len())
	s.writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.cfg.Store.Delete(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	s.cfg.Logger.Info("template deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func decodeDocument(raw json.RawMessage) (*document.Document, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "document is required")
	}
	return badgeio.Decode(raw)
}
