package clientcli

import (
	"context"
	"errors"
	"net/url"
)

// Client performs paste operations against an ownpaste server.
type Client struct {
	session *Session
}

// New opens a Session for cfg and returns a Client using it.
func New(ctx context.Context, cfg *Config, opts ...Option) (*Client, error) {
	s, err := Open(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return NewWithSession(s), nil
}

// NewWithSession returns a Client using an already opened Session.
func NewWithSession(s *Session) *Client {
	return &Client{session: s}
}

// Session returns the underlying session.
func (c *Client) Session() *Session {
	return c.session
}

// Create stores a new paste.
func (c *Client) Create(ctx context.Context, opts CreateOptions) (*Paste, error) {
	env, err := c.session.Post(ctx, "/paste/", opts.payload())
	if err != nil {
		return nil, err
	}
	return decodePaste(env)
}

// Update changes the fields set in opts and leaves the others untouched.
func (c *Client) Update(ctx context.Context, pasteID string, opts UpdateOptions) (*Paste, error) {
	env, err := c.session.Patch(ctx, pastePath(pasteID), opts.payload())
	if err != nil {
		return nil, translateNotFound(err, pasteID)
	}
	return decodePaste(env)
}

// Delete removes a paste.
func (c *Client) Delete(ctx context.Context, pasteID string) (Envelope, error) {
	env, err := c.session.Delete(ctx, pastePath(pasteID))
	if err != nil {
		return nil, translateNotFound(err, pasteID)
	}
	return env, nil
}

// Fetch retrieves a paste, including its content.
func (c *Client) Fetch(ctx context.Context, pasteID string) (*Paste, error) {
	env, err := c.session.Get(ctx, pastePath(pasteID), nil)
	if err != nil {
		return nil, translateNotFound(err, pasteID)
	}
	return decodePaste(env)
}

// Languages returns the language identifiers known to the server.
func (c *Client) Languages() []string {
	return c.session.Languages()
}

// PasteURL returns the link to p on the server. With raw set, the link
// points to the plain text version.
func (c *Client) PasteURL(p *Paste, raw bool) (string, error) {
	id, err := p.ShareID()
	if err != nil {
		return "", err
	}
	u := c.session.BaseURL() + pastePath(id)
	if raw {
		u += "raw/"
	}
	return u, nil
}

func pastePath(pasteID string) string {
	return "/paste/" + url.PathEscape(pasteID) + "/"
}

// translateNotFound turns a 404 into an APIError and returns any other
// error unchanged.
func translateNotFound(err error, pasteID string) error {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr.IsNotFound() {
		nf := notFound(pasteID)
		nf.Err = err
		return nf
	}
	return err
}
