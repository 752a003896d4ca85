package clientcli_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/sagarc03/op/clientcli"
	"github.com/sagarc03/op/clientcli/ownpastetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, srv *ownpastetest.Server) *clientcli.Client {
	t.Helper()
	c, err := clientcli.New(context.Background(), configFor(srv))
	require.NoError(t, err)
	return c
}

func strPtr(s string) *string { return &s }

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func TestClient_Create(t *testing.T) {
	t.Run("exact wire body", func(t *testing.T) {
		var gotMethod, gotPath string
		var gotBody []byte
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if r.URL.Path == "/" {
				_, _ = w.Write([]byte(`{"status":"ok","api_version":"1","languages":{}}`))
				return
			}
			gotMethod = r.Method
			gotPath = r.URL.Path
			gotBody, _ = io.ReadAll(r.Body)
			_, _ = w.Write([]byte(`{"status":"ok","paste_id":"abc123","private_id":null}`))
		}))
		defer srv.Close()

		c, err := clientcli.New(context.Background(), &clientcli.Config{Password: "x", BaseURL: srv.URL})
		require.NoError(t, err)

		p, err := c.Create(context.Background(), clientcli.CreateOptions{
			FileContent: "hello world",
			FileName:    strPtr("a.txt"),
		})
		require.NoError(t, err)

		assert.Equal(t, http.MethodPost, gotMethod)
		assert.Equal(t, "/paste/", gotPath)
		assert.Equal(t, `{"file_content":"hello world","file_name":"a.txt","language":null,"private":false}`, string(gotBody))

		assert.Equal(t, "abc123", p.PasteID)
		assert.Nil(t, p.PrivateID)
		assert.False(t, p.Private)
		assert.Equal(t, "ok", p.Envelope.String("status"))
	})

	t.Run("round trip with fetch", func(t *testing.T) {
		srv := ownpastetest.NewServer(ownpastetest.Config{})
		defer srv.Close()
		c := newClient(t, srv)

		created, err := c.Create(context.Background(), clientcli.CreateOptions{
			FileContent: "package main\n",
			FileName:    strPtr("main.go"),
			Language:    strPtr("go"),
		})
		require.NoError(t, err)

		fetched, err := c.Fetch(context.Background(), created.PasteID)
		require.NoError(t, err)
		assert.Equal(t, "package main\n", fetched.FileContent)
		require.NotNil(t, fetched.FileName)
		assert.Equal(t, "main.go", *fetched.FileName)
		require.NotNil(t, fetched.Language)
		assert.Equal(t, "go", *fetched.Language)
	})

	t.Run("private paste", func(t *testing.T) {
		srv := ownpastetest.NewServer(ownpastetest.Config{})
		defer srv.Close()
		c := newClient(t, srv)

		p, err := c.Create(context.Background(), clientcli.CreateOptions{FileContent: "secret", Private: true})
		require.NoError(t, err)
		assert.True(t, p.Private)
		require.NotNil(t, p.PrivateID)

		u, err := c.PasteURL(p, false)
		require.NoError(t, err)
		assert.Equal(t, srv.URL+"/paste/"+*p.PrivateID+"/", u)

		raw, err := c.PasteURL(p, true)
		require.NoError(t, err)
		assert.Equal(t, srv.URL+"/paste/"+*p.PrivateID+"/raw/", raw)

		fetched, err := c.Fetch(context.Background(), *p.PrivateID)
		require.NoError(t, err)
		assert.Equal(t, "secret", fetched.FileContent)

		_, err = c.Fetch(context.Background(), p.PasteID)
		assert.ErrorIs(t, err, clientcli.ErrPasteNotFound)
	})

	t.Run("unknown language never reaches the server", func(t *testing.T) {
		srv := ownpastetest.NewServer(ownpastetest.Config{})
		defer srv.Close()
		c := newClient(t, srv)
		before := srv.RequestCount()

		_, err := c.Create(context.Background(), clientcli.CreateOptions{
			FileContent: "x",
			Language:    strPtr("brainfuck"),
		})
		requireHTTPError(t, err)
		assert.Equal(t, before, srv.RequestCount())
	})
}

func TestClient_Update(t *testing.T) {
	t.Run("only set fields are sent", func(t *testing.T) {
		srv := ownpastetest.NewServer(ownpastetest.Config{})
		defer srv.Close()
		c := newClient(t, srv)

		created, err := c.Create(context.Background(), clientcli.CreateOptions{
			FileContent: "original",
			Language:    strPtr("python"),
		})
		require.NoError(t, err)

		_, err = c.Update(context.Background(), created.PasteID, clientcli.UpdateOptions{
			FileName: clientcli.Set("renamed.py"),
		})
		require.NoError(t, err)

		req, ok := srv.LastRequest()
		require.True(t, ok)
		assert.Equal(t, http.MethodPatch, req.Method)
		assert.Equal(t, "/paste/"+created.PasteID+"/", req.Path)
		assert.Equal(t, []string{"file_name"}, keys(req.Body))

		stored, ok := srv.Paste(created.PasteID)
		require.True(t, ok)
		assert.Equal(t, "original", stored.FileContent)
		require.NotNil(t, stored.Language)
		assert.Equal(t, "python", *stored.Language)
		require.NotNil(t, stored.FileName)
		assert.Equal(t, "renamed.py", *stored.FileName)
	})

	t.Run("explicit null and false are sent", func(t *testing.T) {
		srv := ownpastetest.NewServer(ownpastetest.Config{})
		defer srv.Close()
		c := newClient(t, srv)

		created, err := c.Create(context.Background(), clientcli.CreateOptions{
			FileContent: "x",
			Language:    strPtr("python"),
		})
		require.NoError(t, err)

		_, err = c.Update(context.Background(), created.PasteID, clientcli.UpdateOptions{
			Language: clientcli.Null[string](),
			Private:  clientcli.Set(false),
		})
		require.NoError(t, err)

		req, ok := srv.LastRequest()
		require.True(t, ok)
		assert.JSONEq(t, `{"language":null,"private":false}`, string(req.RawBody))

		stored, ok := srv.Paste(created.PasteID)
		require.True(t, ok)
		assert.Nil(t, stored.Language)
	})

	t.Run("make private", func(t *testing.T) {
		srv := ownpastetest.NewServer(ownpastetest.Config{})
		defer srv.Close()
		c := newClient(t, srv)

		created, err := c.Create(context.Background(), clientcli.CreateOptions{FileContent: "x"})
		require.NoError(t, err)

		updated, err := c.Update(context.Background(), created.PasteID, clientcli.UpdateOptions{
			Private: clientcli.Set(true),
		})
		require.NoError(t, err)
		assert.True(t, updated.Private)
		require.NotNil(t, updated.PrivateID)

		id, err := updated.ShareID()
		require.NoError(t, err)
		assert.Equal(t, *updated.PrivateID, id)
	})

	t.Run("missing paste", func(t *testing.T) {
		srv := ownpastetest.NewServer(ownpastetest.Config{})
		defer srv.Close()
		c := newClient(t, srv)

		_, err := c.Update(context.Background(), "42", clientcli.UpdateOptions{FileName: clientcli.Set("x")})
		require.Error(t, err)
		var apiErr *clientcli.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "Paste not found: 42", apiErr.Error())
	})
}

func TestClient_Delete(t *testing.T) {
	t.Run("delete then fetch", func(t *testing.T) {
		srv := ownpastetest.NewServer(ownpastetest.Config{})
		defer srv.Close()
		c := newClient(t, srv)

		created, err := c.Create(context.Background(), clientcli.CreateOptions{FileContent: "bye"})
		require.NoError(t, err)

		env, err := c.Delete(context.Background(), created.PasteID)
		require.NoError(t, err)
		assert.Equal(t, "ok", env.String("status"))

		_, err = c.Fetch(context.Background(), created.PasteID)
		require.Error(t, err)

		var apiErr *clientcli.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.True(t, apiErr.IsNotFound())
		assert.Equal(t, created.PasteID, apiErr.PasteID)
		assert.Contains(t, apiErr.Error(), created.PasteID)
		assert.ErrorIs(t, err, clientcli.ErrPasteNotFound)

		var httpErr *clientcli.HTTPError
		require.ErrorAs(t, err, &httpErr, "the 404 stays reachable through Unwrap")
		assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	})

	t.Run("missing paste", func(t *testing.T) {
		srv := ownpastetest.NewServer(ownpastetest.Config{})
		defer srv.Close()
		c := newClient(t, srv)

		_, err := c.Delete(context.Background(), "nope")
		assert.ErrorIs(t, err, clientcli.ErrPasteNotFound)
		assert.EqualError(t, err, "Paste not found: nope")
	})
}

func TestClient_OtherErrorsPropagate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/" {
			_, _ = w.Write([]byte(`{"status":"ok","api_version":"1"}`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": "boom"})
	}))
	defer srv.Close()

	c, err := clientcli.New(context.Background(), &clientcli.Config{Password: "x", BaseURL: srv.URL})
	require.NoError(t, err)

	calls := map[string]func() error{
		"fetch": func() error {
			_, err := c.Fetch(context.Background(), "1")
			return err
		},
		"delete": func() error {
			_, err := c.Delete(context.Background(), "1")
			return err
		},
		"update": func() error {
			_, err := c.Update(context.Background(), "1", clientcli.UpdateOptions{})
			return err
		},
		"create": func() error {
			_, err := c.Create(context.Background(), clientcli.CreateOptions{FileContent: "x"})
			return err
		},
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			err := call()
			httpErr := requireHTTPError(t, err)
			assert.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
			assert.Equal(t, "boom", httpErr.Message)

			var apiErr *clientcli.APIError
			assert.False(t, errors.As(err, &apiErr))
		})
	}
}

func TestClient_Languages(t *testing.T) {
	srv := ownpastetest.NewServer(ownpastetest.Config{Languages: map[string]string{"c": "C", "bash": "Bash"}})
	defer srv.Close()
	c := newClient(t, srv)

	assert.Equal(t, []string{"bash", "c"}, c.Languages())
	assert.Equal(t, "Bash", c.Session().LanguageName("bash"))
}
