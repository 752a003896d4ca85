package clientcli_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/sagarc03/op/clientcli"
	"github.com/stretchr/testify/assert"
)

func TestHTTPError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *clientcli.HTTPError
		want string
	}{
		{
			name: "message only",
			err:  &clientcli.HTTPError{Message: "Invalid API version: 2"},
			want: "Invalid API version: 2",
		},
		{
			name: "with url",
			err:  &clientcli.HTTPError{Message: "bad", URL: "https://example.test/"},
			want: "bad; url=https://example.test/",
		},
		{
			name: "with status and url",
			err:  &clientcli.HTTPError{Message: "Unauthorized", StatusCode: http.StatusUnauthorized, URL: "https://example.test/"},
			want: "Error 401: Unauthorized; url=https://example.test/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAPIError_Is(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &clientcli.APIError{Reason: clientcli.ReasonNotFound, PasteID: "1", Message: "Paste not found: 1"})

	assert.ErrorIs(t, err, clientcli.ErrPasteNotFound)
	assert.NotErrorIs(t, err, clientcli.ErrInvalidInput)
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&clientcli.ConfigError{Message: "x"}, "ConfigError"},
		{&clientcli.HTTPError{Message: "x"}, "HTTPError"},
		{&clientcli.APIError{Reason: clientcli.ReasonNotFound}, "APIError"},
		{&clientcli.CommandError{Message: "x"}, "CommandError"},
		{fmt.Errorf("ctx: %w", &clientcli.HTTPError{Message: "x"}), "HTTPError"},
		{errors.New("plain"), "Error"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, clientcli.ErrorKind(tt.err))
		})
	}

	t.Run("not found wrapping http error is an APIError", func(t *testing.T) {
		err := &clientcli.APIError{
			Reason: clientcli.ReasonNotFound,
			Err:    &clientcli.HTTPError{StatusCode: http.StatusNotFound},
		}
		assert.Equal(t, "APIError", clientcli.ErrorKind(err))
	})
}
