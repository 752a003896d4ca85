// Package ownpastetest provides an in-memory ownpaste server for tests.
//
// It implements API version 1: discovery at GET /, creation at
// POST /paste/, and GET/PATCH/DELETE at /paste/{id}/. Pastes can be
// addressed by paste_id or private_id. Every request is recorded.
//
//	srv := ownpastetest.NewServer(ownpastetest.Config{})
//	defer srv.Close()
//
//	cfg := &clientcli.Config{Password: srv.Password(), BaseURL: srv.URL}
package ownpastetest

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
)

// Defaults used when Config leaves a field empty.
const (
	DefaultUsername   = "ownpaste"
	DefaultPassword   = "secret"
	DefaultAPIVersion = "1"
)

// DefaultLanguages is the language table served when Config.Languages is nil.
var DefaultLanguages = map[string]string{
	"text":   "Text only",
	"python": "Python",
	"go":     "Go",
}

// Config configures a Server.
type Config struct {
	Username   string
	Password   string
	APIVersion string
	Languages  map[string]string
	// TLS starts the server with a self-signed certificate.
	TLS bool
}

// Request is a recorded request.
type Request struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	// Body is the decoded JSON body, nil if it was empty or not an object.
	Body map[string]any
	// RawBody is the body as sent.
	RawBody []byte
}

// Paste is a stored paste.
type Paste struct {
	PasteID     string
	PrivateID   string
	FileName    *string
	Language    *string
	FileContent string
	Private     bool
}

// Server is a running fake ownpaste server.
type Server struct {
	URL string

	config Config
	srv    *httptest.Server

	mu       sync.Mutex
	nextID   int
	pastes   map[string]*Paste
	requests []Request
}

// NewServer starts a Server. Call Close when done.
func NewServer(cfg Config) *Server {
	if cfg.Username == "" {
		cfg.Username = DefaultUsername
	}
	if cfg.Password == "" {
		cfg.Password = DefaultPassword
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if cfg.Languages == nil {
		cfg.Languages = DefaultLanguages
	}

	s := &Server{
		config: cfg,
		nextID: 1,
		pastes: map[string]*Paste{},
	}

	if cfg.TLS {
		s.srv = httptest.NewTLSServer(s.Router())
	} else {
		s.srv = httptest.NewServer(s.Router())
	}
	s.URL = s.srv.URL
	return s
}

// Close shuts the server down.
func (s *Server) Close() {
	s.srv.Close()
}

// Username returns the accepted username.
func (s *Server) Username() string { return s.config.Username }

// Password returns the accepted password.
func (s *Server) Password() string { return s.config.Password }

// Requests returns a copy of the recorded requests.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// RequestCount returns the number of requests received.
func (s *Server) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// LastRequest returns the most recent request.
func (s *Server) LastRequest() (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Request{}, false
	}
	return s.requests[len(s.requests)-1], true
}

// Paste returns a copy of the stored paste with the given paste_id.
func (s *Server) Paste(pasteID string) (Paste, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pastes[pasteID]
	if !ok {
		return Paste{}, false
	}
	return *p, true
}

// Router returns the server's http.Handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.recordMiddleware)
	r.Use(s.authMiddleware)

	r.Get("/", s.handleRoot)
	r.Post("/paste/", s.handleCreate)
	r.Get("/paste/{id}/", s.handleGet)
	r.Patch("/paste/{id}/", s.handleUpdate)
	r.Delete("/paste/{id}/", s.handleDelete)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
	return r
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"api_version": s.config.APIVersion,
		"languages":   s.config.Languages,
	})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	body, ok := decodeBody(w, r)
	if !ok {
		return
	}

	content, ok := body["file_content"].(string)
	if !ok {
		writeError(w, http.StatusBadRequest, "Missing file_content")
		return
	}

	p := &Paste{FileContent: content}
	if !s.apply(w, p, body) {
		return
	}

	s.mu.Lock()
	p.PasteID = strconv.Itoa(s.nextID)
	s.nextID++
	if p.Private {
		p.PrivateID = newPrivateID()
	}
	s.pastes[p.PasteID] = p
	resp := p.envelope(false)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	p, ok := s.lookup(chi.URLParam(r, "id"))
	var resp map[string]any
	if ok {
		resp = p.envelope(true)
	}
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "Paste not found")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	body, ok := decodeBody(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.lookup(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Paste not found")
		return
	}

	updated := *p
	if v, present := body["file_content"]; present {
		content, isString := v.(string)
		if !isString {
			writeError(w, http.StatusBadRequest, "Invalid file_content")
			return
		}
		updated.FileContent = content
	}
	if !s.apply(w, &updated, body) {
		return
	}
	if updated.Private && updated.PrivateID == "" {
		updated.PrivateID = newPrivateID()
	}
	if !updated.Private {
		updated.PrivateID = ""
	}

	*p = updated
	writeJSON(w, http.StatusOK, p.envelope(false))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.lookup(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Paste not found")
		return
	}
	delete(s.pastes, p.PasteID)
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

// apply copies the optional fields present in body onto p.
func (s *Server) apply(w http.ResponseWriter, p *Paste, body map[string]any) bool {
	if v, present := body["file_name"]; present {
		name, err := optionalString(v)
		if err {
			writeError(w, http.StatusBadRequest, "Invalid file_name")
			return false
		}
		p.FileName = name
	}
	if v, present := body["language"]; present {
		lang, err := optionalString(v)
		if err {
			writeError(w, http.StatusBadRequest, "Invalid language")
			return false
		}
		if lang != nil {
			if _, known := s.config.Languages[*lang]; !known {
				writeError(w, http.StatusBadRequest, "Invalid language")
				return false
			}
		}
		p.Language = lang
	}
	if v, present := body["private"]; present {
		private, isBool := v.(bool)
		if !isBool {
			writeError(w, http.StatusBadRequest, "Invalid private")
			return false
		}
		p.Private = private
	}
	return true
}

// lookup finds a paste by paste_id or private_id. Private pastes are not
// reachable by their public id. The caller must hold s.mu.
func (s *Server) lookup(id string) (*Paste, bool) {
	if p, ok := s.pastes[id]; ok && !p.Private {
		return p, true
	}
	for _, p := range s.pastes {
		if p.Private && p.PrivateID == id {
			return p, true
		}
	}
	return nil, false
}

func (p *Paste) envelope(withContent bool) map[string]any {
	env := map[string]any{
		"status":     "ok",
		"paste_id":   p.PasteID,
		"private_id": nil,
		"file_name":  p.FileName,
		"language":   p.Language,
		"private":    p.Private,
	}
	if p.PrivateID != "" {
		env["private_id"] = p.PrivateID
	}
	if withContent {
		env["file_content"] = p.FileContent
	}
	return env
}

func optionalString(v any) (*string, bool) {
	if v == nil {
		return nil, false
	}
	s, ok := v.(string)
	if !ok {
		return nil, true
	}
	return &s, false
}

func decodeBody(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return nil, false
	}
	if body == nil {
		body = map[string]any{}
	}
	return body, true
}

func newPrivateID() string {
	b := make([]byte, 12)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// writeError writes an ownpaste error envelope.
func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]any{
		"status": "error",
		"error":  message,
	})
}

// writeJSON writes a JSON response with the exact content type ownpaste uses.
func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
