package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	credential "jotter/internal/credential/models"
	"jotter/internal/platform/config"
	"jotter/pkg/platform/httputil"
)

// fakeAPI answers like the real server for the paths a test registers.
type fakeAPI struct {
	mux   *http.ServeMux
	calls map[string]int
}

func newFakeAPI(t *testing.T) (*fakeAPI, *Client) {
	t.Helper()
	api := &fakeAPI{mux: http.NewServeMux(), calls: map[string]int{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.calls[r.URL.Path]++
		api.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	return api, New(config.Client{ServerURL: srv.URL, Timeout: 5 * time.Second})
}

func (a *fakeAPI) ok(pattern, message string, data any) {
	a.mux.HandleFunc(pattern, func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteSuccess(w, http.StatusOK, message, data)
	})
}

func (a *fakeAPI) fail(pattern string, status int, code, message string) {
	a.mux.HandleFunc(pattern, func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, status, httputil.ErrorEnvelope{Error: code, Message: message})
	})
}

func TestClientLoginStoresToken(t *testing.T) {
	api, c := newFakeAPI(t)
	var gotAuth string
	api.mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req credential.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ada@example.com", req.Email)
		httputil.WriteSuccess(w, http.StatusOK, credential.MsgLoginSucceeded,
			credential.LoginResult{Token: "jwt-1", TokenType: "Bearer", ExpiresIn: 900})
	})
	api.mux.HandleFunc("GET /notes", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		httputil.WriteSuccess(w, http.StatusOK, "", []any{})
	})

	msg, res, err := c.Login(context.Background(), "ada@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, credential.MsgLoginSucceeded, msg)
	assert.Equal(t, "jwt-1", res.Token)

	notes, err := c.ListNotes(context.Background())
	require.NoError(t, err)
	assert.Empty(t, notes)
	assert.Equal(t, "Bearer jwt-1", gotAuth)
}

func TestClientAPIError(t *testing.T) {
	api, c := newFakeAPI(t)
	api.fail("POST /auth/login", http.StatusUnauthorized, "unauthorized", credential.MsgInvalidCredentials)

	_, _, err := c.Login(context.Background(), "ada@example.com", "pw")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, credential.MsgInvalidCredentials, apiErr.Message)
	assert.Empty(t, c.Token())
}

func TestClientTransportError(t *testing.T) {
	c := New(config.Client{ServerURL: "http://127.0.0.1:1", Timeout: time.Second})

	_, err := c.RequestPasswordReset(context.Background(), "ada@example.com")

	assert.ErrorIs(t, err, ErrTransport)
}

func TestSecretFieldToggle(t *testing.T) {
	f := SecretField{Value: "pässword"}
	assert.Equal(t, "••••••••", f.Display())

	f.Toggle()
	assert.Equal(t, "pässword", f.Display())

	f.Toggle()
	assert.Equal(t, Masked, f.Visibility)
	assert.Equal(t, "pässword", f.Value)
}
