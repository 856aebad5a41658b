package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/badgeboard/internal/metrics"
	"github.com/matzehuels/badgeboard/pkg/cache"
	"github.com/matzehuels/badgeboard/pkg/document"
	"github.com/matzehuels/badgeboard/pkg/element"
	"github.com/matzehuels/badgeboard/pkg/errors"
	"github.com/matzehuels/badgeboard/pkg/fields"
	badgeio "github.com/matzehuels/badgeboard/pkg/io"
	"github.com/matzehuels/badgeboard/pkg/pipeline"
	"github.com/matzehuels/badgeboard/pkg/store"
)

func quiet() *log.Logger { return log.New(io.Discard) }

func newTestServer(t *testing.T) *Server {
	t.Helper()
	st, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	s, err := New(Config{
		Logger:      quiet(),
		Store:       st,
		Runner:      pipeline.NewRunner(c, nil, quiet()),
		Registry:    prometheus.NewRegistry(),
		Metrics:     metrics.NewMetrics(),
		Placeholder: "?",
	})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func docJSON(t *testing.T) json.RawMessage {
	t.Helper()
	d, err := document.FromElements(document.DefaultCanvas, []element.Element{
		element.NewText("Hello "+fields.TokenName, element.WithID("hello"), element.At(20, 40)),
		element.NewQR(fields.TokenIdentifier, element.WithID("qr"), element.At(100, 300)),
	})
	if err != nil {
		t.Fatal(err)
	}
	data, err := badgeio.Encode(d, badgeio.FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case []byte:
		r = bytes.NewReader(b)
	case json.RawMessage:
		r = bytes.NewReader(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(data)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(method, path, r))
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return resp.Error.Code
}

func TestHealthAndFields(t *testing.T) {
	s := newTestServer(t)

	if rec := do(t, s, http.MethodGet, "/healthz", nil); rec.Code != http.StatusOK {
		t.Fatalf("healthz = %d", rec.Code)
	}

	rec := do(t, s, http.MethodGet, "/fields", nil)
	var resp struct {
		Fields []fields.Field `json:"fields"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Fields) != len(fields.List()) {
		t.Errorf("got %d fields, want %d", len(resp.Fields), len(fields.List()))
	}
}

func TestValidate(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/documents/validate", docJSON(t))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var resp ValidateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Valid || resp.Elements != 2 {
		t.Errorf("resp = %+v", resp)
	}
	want := []string{fields.TokenIdentifier, fields.TokenName}
	if strings.Join(resp.Fields, ",") != strings.Join(want, ",") {
		t.Errorf("fields = %v, want %v", resp.Fields, want)
	}

	dupDoc := []byte(`{"version":1,"canvas":{"width":100,"height":100},"elements":[` +
		`{"id":"a","kind":"text","geometry":{"x":0,"y":0,"width":10,"height":10,"scaleX":1,"scaleY":1,"rotation":0},"groupId":null,"text":{"content":"x","fontFamily":"Go","fontSize":12,"align":"left","color":"#000000"}},` +
		`{"id":"a","kind":"text","geometry":{"x":0,"y":0,"width":10,"height":10,"scaleX":1,"scaleY":1,"rotation":0},"groupId":null,"text":{"content":"x","fontFamily":"Go","fontSize":12,"align":"left","color":"#000000"}}]}`)

	tests := []struct {
		name   string
		body   []byte
		status int
		code   string
	}{
		{"malformed", []byte(`{"version":`), http.StatusBadRequest, "INVALID_FORMAT"},
		{"unknown field", []byte(`{"version":1,"canvas":{"width":10,"height":10},"elements":[],"extra":1}`), http.StatusBadRequest, "INVALID_FORMAT"},
		{"duplicate id", dupDoc, http.StatusUnprocessableEntity, "INVALID_DOCUMENT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/documents/validate", tt.body)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.status, rec.Body)
			}
			if code := errorCode(t, rec); code != tt.code {
				t.Errorf("code = %s, want %s", code, tt.code)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/badges/resolve", ResolveRequest{
		Document: docJSON(t),
		Attendees: []fields.Attendee{
			{"identifier": "ABC123", "name": "Grace"},
			{"identifier": "XYZ"},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var resp struct {
		Badges []struct {
			Attendee string   `json:"attendee"`
			Missing  []string `json:"missing"`
			Elements []struct {
				Text *element.Text `json:"text"`
				QR   *element.QR   `json:"qr"`
			} `json:"elements"`
		} `json:"badges"`
		Incomplete int `json:"incomplete"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Badges) != 2 || resp.Incomplete != 1 {
		t.Fatalf("badges = %d, incomplete = %d", len(resp.Badges), resp.Incomplete)
	}
	if got := resp.Badges[0].Elements[1].QR.Data; got != "ABC123" {
		t.Errorf("qr data = %q", got)
	}
	if got := resp.Badges[1].Elements[0].Text.Content; got != "Hello ?" {
		t.Errorf("placeholder text = %q", got)
	}

	rec = do(t, s, http.MethodPost, "/badges/resolve", ResolveRequest{Document: docJSON(t)})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty attendees status = %d", rec.Code)
	}
}

func TestRender(t *testing.T) {
	s := newTestServer(t)
	req := RenderRequest{Document: docJSON(t), Attendee: fields.Attendee{"identifier": "ABC123", "name": "Grace"}}

	rec := do(t, s, http.MethodPost, "/badges/render?format=svg", req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type = %q", ct)
	}
	if rec.Header().Get("X-Cache") != "MISS" {
		t.Errorf("first render should miss the cache")
	}
	if !strings.Contains(rec.Body.String(), "Hello Grace") {
		t.Errorf("svg missing resolved text")
	}

	rec = do(t, s, http.MethodPost, "/badges/render", req)
	if rec.Header().Get("X-Cache") != "HIT" {
		t.Errorf("second render should hit the cache")
	}

	rec = do(t, s, http.MethodPost, "/badges/render?format=png", req)
	if rec.Code != http.StatusOK || !bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")) {
		t.Errorf("png render: status %d", rec.Code)
	}

	rec = do(t, s, http.MethodPost, "/badges/render?format=gif", req)
	if rec.Code != http.StatusBadRequest || errorCode(t, rec) != "INVALID_FORMAT" {
		t.Errorf("bad format: status %d", rec.Code)
	}

	bad := req
	bad.Background = "red"
	if rec := do(t, s, http.MethodPost, "/badges/render", bad); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("bad background: status %d", rec.Code)
	}
}

func TestTemplates(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPut, "/templates/speaker", PutTemplateRequest{Name: "Speaker", Document: docJSON(t)})
	if rec.Code != http.StatusOK {
		t.Fatalf("put status = %d: %s", rec.Code, rec.Body)
	}

	rec = do(t, s, http.MethodGet, "/templates/speaker", nil)
	var tmpl store.Template
	if err := json.Unmarshal(rec.Body.Bytes(), &tmpl); err != nil {
		t.Fatal(err)
	}
	if tmpl.Name != "Speaker" || len(tmpl.Tree.Elements) != 2 {
		t.Errorf("template = %+v", tmpl)
	}

	rec = do(t, s, http.MethodGet, "/templates", nil)
	var list struct {
		Templates []store.Summary `json:"templates"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if len(list.Templates) != 1 || list.Templates[0].ID != "speaker" {
		t.Errorf("list = %+v", list.Templates)
	}

	if rec := do(t, s, http.MethodDelete, "/templates/speaker", nil); rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", rec.Code)
	}
	rec = do(t, s, http.MethodGet, "/templates/speaker", nil)
	if rec.Code != http.StatusNotFound || errorCode(t, rec) != "TEMPLATE_NOT_FOUND" {
		t.Errorf("get after delete: status %d", rec.Code)
	}

	rec = do(t, s, http.MethodPut, "/templates/bad%20id", PutTemplateRequest{Document: docJSON(t)})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	do(t, s, http.MethodGet, "/healthz", nil)

	rec := do(t, s, http.MethodGet, "/metrics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), metrics.MetricHTTPRequestsTotal) {
		t.Error("http metrics not exported")
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{"TEMPLATE_NOT_FOUND", http.StatusNotFound},
		{"INVALID_DOCUMENT", http.StatusUnprocessableEntity},
		{"INVALID_FORMAT", http.StatusBadRequest},
		{"UNSUPPORTED", http.StatusNotImplemented},
		{"", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := statusFor(errors.Code(tt.code)); got != tt.want {
				t.Errorf("statusFor(%q) = %d, want %d", tt.code, got, tt.want)
			}
		})
	}
}
