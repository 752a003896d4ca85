package clientcli

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Field is an optional request field.
//
// The zero value is unset and is omitted from the wire payload. A field can
// also be explicitly null, which is sent as JSON null.
type Field[T any] struct {
	value T
	set   bool
	null  bool
}

// Set returns a field holding v.
func Set[T any](v T) Field[T] {
	return Field[T]{value: v, set: true}
}

// Null returns a field that is sent as JSON null.
func Null[T any]() Field[T] {
	return Field[T]{set: true, null: true}
}

// FromPtr returns an unset field for nil and a set field otherwise.
func FromPtr[T any](p *T) Field[T] {
	if p == nil {
		return Field[T]{}
	}
	return Set(*p)
}

// IsSet reports whether the field is part of the payload.
func (f Field[T]) IsSet() bool { return f.set }

// IsNull reports whether the field is set to null.
func (f Field[T]) IsNull() bool { return f.set && f.null }

// Get returns the value and whether a non-null value is present.
func (f Field[T]) Get() (T, bool) {
	return f.value, f.set && !f.null
}

// wire returns the JSON value of the field.
func (f Field[T]) wire() any {
	if f.null {
		return nil
	}
	return f.value
}

// Payload is a JSON request body. Keys that are absent are not sent;
// keys with nil values are sent as null.
type Payload map[string]any

// put stores f under key when it is set.
func put[T any](p Payload, key string, f Field[T]) {
	if f.IsSet() {
		p[key] = f.wire()
	}
}

// Envelope is a parsed response object. Its "status" is always "ok" when
// returned from Session.Request.
type Envelope map[string]any

// String returns the string value at key, or "" if it is absent, null or
// not a string.
func (e Envelope) String(key string) string {
	s, _ := e[key].(string)
	return s
}

// CreateOptions configures paste creation.
type CreateOptions struct {
	FileContent string
	FileName    *string // nil is sent as null
	Language    *string // nil is sent as null
	Private     bool
}

func (o CreateOptions) payload() Payload {
	p := Payload{
		"file_content": o.FileContent,
		"file_name":    nil,
		"language":     nil,
		"private":      o.Private,
	}
	if o.FileName != nil {
		p["file_name"] = *o.FileName
	}
	if o.Language != nil {
		p["language"] = *o.Language
	}
	return p
}

// UpdateOptions configures a paste update. Unset fields are left
// unchanged by the server.
type UpdateOptions struct {
	FileContent Field[string]
	FileName    Field[string]
	Language    Field[string]
	Private     Field[bool]
}

func (o UpdateOptions) payload() Payload {
	p := Payload{}
	put(p, "file_content", o.FileContent)
	put(p, "file_name", o.FileName)
	put(p, "language", o.Language)
	put(p, "private", o.Private)
	return p
}

// Paste is the decoded view of a paste envelope.
type Paste struct {
	PasteID     string  `mapstructure:"paste_id"`
	PrivateID   *string `mapstructure:"private_id"`
	FileName    *string `mapstructure:"file_name"`
	Language    *string `mapstructure:"language"`
	FileContent string  `mapstructure:"file_content"`

	// Private reports whether the paste is private. It comes from the
	// "private" field when the server sends it, and otherwise from the
	// presence of a non-null private_id.
	Private bool `mapstructure:"-"`

	Envelope Envelope `mapstructure:"-"`
}

// ShareID returns the identifier used in user facing links: the private id
// for private pastes and the public id otherwise.
func (p *Paste) ShareID() (string, error) {
	if !p.Private {
		return p.PasteID, nil
	}
	if p.PrivateID == nil || *p.PrivateID == "" {
		return "", &APIError{
			Reason:  ReasonResponse,
			PasteID: p.PasteID,
			Message: "Private paste without private_id: " + p.PasteID,
		}
	}
	return *p.PrivateID, nil
}

// decodePaste converts an envelope into a Paste.
// Numeric ids are accepted and converted to strings.
func decodePaste(env Envelope) (*Paste, error) {
	p := &Paste{Envelope: env}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           p,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create decoder: %w", err)
	}
	if err := dec.Decode(map[string]any(env)); err != nil {
		return nil, &APIError{
			Reason:  ReasonResponse,
			Message: "Failed to decode paste: " + err.Error(),
			Err:     err,
		}
	}

	if v, ok := env["private"].(bool); ok {
		p.Private = v
	} else {
		p.Private = p.PrivateID != nil
	}
	return p, nil
}
