package clientcli

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"
)

// Version is the client version reported in the User-Agent header.
var Version = "0.1"

// SupportedAPIVersions lists the server API versions this client speaks.
var SupportedAPIVersions = []string{"1"}

const contentTypeJSON = "application/json"

// Session is an authenticated connection to an ownpaste server.
//
// A Session is ready once Open returns: the server's API version has been
// checked and its languages are known. All fields are read-only afterwards.
type Session struct {
	config     *Config
	httpClient *http.Client
	logger     *slog.Logger
	userAgent  string

	apiVersion string
	languages  map[string]any
}

// Option configures a Session.
type Option func(*Session)

// WithHTTPClient sets a custom HTTP client.
// The client's TLS and redirect settings are used as given.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Session) {
		s.httpClient = client
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Session) {
		s.httpClient.Timeout = timeout
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(s *Session) {
		s.userAgent = ua
	}
}

// newHTTPClient returns a client that accepts self-signed certificates.
// Redirects are followed by the default policy.
func newHTTPClient() *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //#nosec G402 -- ownpaste servers commonly use self-signed certificates
	return &http.Client{Transport: transport}
}

// Open creates a Session and performs the discovery request.
// It fails with *HTTPError when the server is unreachable, misbehaves or
// advertises an unsupported API version.
func Open(ctx context.Context, cfg *Config, opts ...Option) (*Session, error) {
	if cfg == nil {
		return nil, &ConfigError{Message: ErrConfigRequired.Error(), Err: ErrConfigRequired}
	}
	cfg = cfg.WithDefaults()

	s := &Session{
		config:     cfg,
		httpClient: newHTTPClient(),
		logger:     slog.Default(),
		userAgent:  "op/" + Version,
		languages:  map[string]any{},
	}
	for _, opt := range opts {
		opt(s)
	}

	env, err := s.Get(ctx, "/", nil)
	if err != nil {
		return nil, err
	}

	version := env.String("api_version")
	if !slices.Contains(SupportedAPIVersions, version) {
		return nil, &HTTPError{Message: fmt.Sprintf("Invalid API version: %v", env["api_version"])}
	}
	s.apiVersion = version

	if langs, ok := env["languages"].(map[string]any); ok {
		s.languages = langs
	}

	s.logger.Debug("session ready",
		"base_url", cfg.BaseURL,
		"api_version", version,
		"languages", len(s.languages))
	return s, nil
}

// BaseURL returns the normalized server URL.
func (s *Session) BaseURL() string {
	return s.config.BaseURL
}

// APIVersion returns the API version advertised by the server.
func (s *Session) APIVersion() string {
	return s.apiVersion
}

// Languages returns the known language identifiers, sorted.
func (s *Session) Languages() []string {
	ids := make([]string, 0, len(s.languages))
	for id := range s.languages {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// HasLanguage reports whether id is a known language.
func (s *Session) HasLanguage(id string) bool {
	_, ok := s.languages[id]
	return ok
}

// LanguageName returns the display name of a language, or id itself when
// the server did not send a plain string.
func (s *Session) LanguageName(id string) string {
	if name, ok := s.languages[id].(string); ok {
		return name
	}
	return id
}

// Request sends a JSON request and returns the response envelope when its
// status is "ok". Params without values are left out of the query string.
func (s *Session) Request(ctx context.Context, method, path string, body Payload, params url.Values) (Envelope, error) {
	if body == nil {
		body = Payload{}
	}

	if lang, ok := body["language"]; ok && lang != nil {
		id, isString := lang.(string)
		if !isString || !s.HasLanguage(id) {
			return nil, &HTTPError{Message: fmt.Sprintf("Invalid language: %v", lang)}
		}
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, &HTTPError{Message: "Failed to encode JSON request", Err: err}
	}

	reqURL := s.buildURL(path, params)

	req, err := http.NewRequestWithContext(ctx, strings.ToUpper(method), reqURL, bytes.NewReader(data))
	if err != nil {
		return nil, &HTTPError{Message: fmt.Sprintf("create request: %v", err), URL: reqURL, Err: err}
	}
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set("Content-Type", contentTypeJSON)
	req.Header.Set("User-Agent", s.userAgent)
	req.SetBasicAuth(s.config.Username, s.config.Password)

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &HTTPError{Message: fmt.Sprintf("do request: %v", err), URL: reqURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	s.logger.Debug("http request",
		"method", req.Method,
		"url", reqURL,
		"status", resp.StatusCode,
		"duration", time.Since(start))

	if resp.Header.Get("Content-Type") != contentTypeJSON {
		return nil, &HTTPError{
			Message: "No application/json response found! Please verify your ownpaste server URL!",
			URL:     reqURL,
		}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &HTTPError{Message: fmt.Sprintf("read response: %v", err), URL: reqURL, Err: err}
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil || env == nil {
		return nil, &HTTPError{Message: "Failed to parse JSON response", Err: err}
	}

	if env.String("status") == "ok" {
		return env, nil
	}

	msg, ok := env["error"].(string)
	if !ok {
		msg = fmt.Sprintf("unexpected response status %v", env["status"])
	}
	return nil, &HTTPError{Message: msg, StatusCode: resp.StatusCode, URL: reqURL}
}

// buildURL joins the base URL and path, enforcing a trailing slash.
func (s *Session) buildURL(path string, params url.Values) string {
	u := s.config.BaseURL + strings.TrimRight(path, "/") + "/"

	query := url.Values{}
	for key, values := range params {
		if len(values) > 0 {
			query[key] = values
		}
	}
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// Get sends a GET request.
func (s *Session) Get(ctx context.Context, path string, params url.Values) (Envelope, error) {
	return s.Request(ctx, http.MethodGet, path, nil, params)
}

// Post sends a POST request.
func (s *Session) Post(ctx context.Context, path string, body Payload) (Envelope, error) {
	return s.Request(ctx, http.MethodPost, path, body, nil)
}

// Patch sends a PATCH request.
func (s *Session) Patch(ctx context.Context, path string, body Payload) (Envelope, error) {
	return s.Request(ctx, http.MethodPatch, path, body, nil)
}

// Delete sends a DELETE request.
func (s *Session) Delete(ctx context.Context, path string) (Envelope, error) {
	return s.Request(ctx, http.MethodDelete, path, nil, nil)
}
