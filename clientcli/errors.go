package clientcli

import (
	"errors"
	"fmt"
	"net/http"
)

// ConfigError reports invalid or incomplete local configuration.
// It is always raised before any network activity.
type ConfigError struct {
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	return e.Message
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func configErrorf(format string, args ...any) *ConfigError {
	return &ConfigError{Message: fmt.Sprintf(format, args...)}
}

// HTTPError reports a transport, protocol or application level failure
// returned while talking to an ownpaste server.
//
// StatusCode is zero when the failure did not come with a usable HTTP status
// (transport errors, non-JSON responses, unsupported API versions).
type HTTPError struct {
	Message    string
	StatusCode int
	URL        string
	Err        error
}

func (e *HTTPError) Error() string {
	msg := e.Message
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("Error %d: %s", e.StatusCode, msg)
	}
	if e.URL != "" {
		msg += "; url=" + e.URL
	}
	return msg
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// IsNotFound returns true if the server answered with a 404.
func (e *HTTPError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// APIErrorReason classifies an APIError.
type APIErrorReason int

const (
	// ReasonNotFound means the requested paste does not exist.
	ReasonNotFound APIErrorReason = iota + 1
	// ReasonInput means local input (file or stdin) could not be used.
	ReasonInput
	// ReasonResponse means the server answered with an unusable paste.
	ReasonResponse
)

// APIError is a domain level failure recognized by the Client.
type APIError struct {
	Reason  APIErrorReason
	PasteID string
	Message string
	Err     error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Is reports whether target matches this error.
// It matches if target is an *APIError with the same Reason.
func (e *APIError) Is(target error) bool {
	var t *APIError
	if !errors.As(target, &t) {
		return false
	}
	return t.Reason == e.Reason
}

// IsNotFound returns true if the paste was not found.
func (e *APIError) IsNotFound() bool {
	return e.Reason == ReasonNotFound
}

// CommandError reports misuse of the command line interface.
type CommandError struct {
	Message string
}

func (e *CommandError) Error() string {
	return e.Message
}

// Sentinel errors for use with errors.Is.
var (
	// ErrPasteNotFound matches any APIError raised for a missing paste.
	ErrPasteNotFound = &APIError{Reason: ReasonNotFound}

	// ErrInvalidInput matches any APIError raised for unusable local input.
	ErrInvalidInput = &APIError{Reason: ReasonInput}
)

// Errors for profile operations.
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileExists   = errors.New("profile already exists")
	ErrConfigRequired  = errors.New("config is required")
)

func notFound(pasteID string) *APIError {
	return &APIError{
		Reason:  ReasonNotFound,
		PasteID: pasteID,
		Message: "Paste not found: " + pasteID,
	}
}

// ErrorKind returns the name of the error family err belongs to:
// "ConfigError", "HTTPError", "APIError", "CommandError", or "Error".
func ErrorKind(err error) string {
	var (
		cfgErr  *ConfigError
		httpErr *HTTPError
		apiErr  *APIError
		cmdErr  *CommandError
	)
	switch {
	case errors.As(err, &apiErr):
		return "APIError"
	case errors.As(err, &cfgErr):
		return "ConfigError"
	case errors.As(err, &httpErr):
		return "HTTPError"
	case errors.As(err, &cmdErr):
		return "CommandError"
	default:
		return "Error"
	}
}
