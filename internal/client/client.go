// Package client drives the jotter HTTP API on behalf of an interactive
// front end. Forms hold the user's input and one State each; Client does
// the HTTP work.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	credential "jotter/internal/credential/models"
	note "jotter/internal/note/models"
	"jotter/internal/platform/config"
)

// ErrTransport wraps failures where no usable response came back.
var ErrTransport = errors.New("transport failure")

// APIError is a non-2xx response carrying the server's error envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

// WithHTTPClient replaces the default client built from the configured timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func New(cfg config.Client, opts ...Option) *Client {
	c := &Client{
		baseURL: cfg.ServerURL,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) Login(ctx context.Context, email, password string) (string, *credential.LoginResult, error) {
	var res credential.LoginResult
	msg, err := c.do(ctx, http.MethodPost, "/auth/login",
		credential.LoginRequest{Email: email, Password: password}, &res)
	if err != nil {
		return "", nil, err
	}
	c.SetToken(res.Token)
	return msg, &res, nil
}

func (c *Client) Register(ctx context.Context, email, password, confirm string) (string, error) {
	return c.do(ctx, http.MethodPost, "/auth/register",
		credential.RegisterRequest{Email: email, Password: password, ConfirmPassword: confirm}, nil)
}

func (c *Client) ChangePassword(ctx context.Context, current, next, confirm string) (string, error) {
	return c.do(ctx, http.MethodPost, "/auth/change-password",
		credential.ChangePasswordRequest{CurrentPassword: current, NewPassword: next, ConfirmPassword: confirm}, nil)
}

func (c *Client) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	return c.do(ctx, http.MethodPost, "/auth/request-password-reset",
		credential.RequestResetRequest{Email: email}, nil)
}

func (c *Client) ResetPassword(ctx context.Context, email, token, next, confirm string) (string, error) {
	return c.do(ctx, http.MethodPost, "/auth/reset-password", credential.ResetPasswordRequest{
		Email: email, Token: token, NewPassword: next, ConfirmPassword: confirm,
	}, nil)
}

func (c *Client) ListNotes(ctx context.Context) ([]note.Note, error) {
	var out []note.Note
	if _, err := c.do(ctx, http.MethodGet, "/notes", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetNote fetches one note; withHTML asks the server to render the body.
func (c *Client) GetNote(ctx context.Context, id string, withHTML bool) (*note.NoteView, error) {
	path := "/notes/" + url.PathEscape(id)
	if withHTML {
		path += "?format=html"
	}
	view := note.NoteView{Note: &note.Note{}}
	if _, err := c.do(ctx, http.MethodGet, path, nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *Client) CreateNote(ctx context.Context, title, body string) (string, string, error) {
	var res note.CreateNoteResult
	msg, err := c.do(ctx, http.MethodPost, "/notes", note.CreateNoteRequest{Title: title, Body: body}, &res)
	return msg, res.ID, err
}

func (c *Client) DeleteNote(ctx context.Context, id string) (string, int64, error) {
	var res note.DeleteNoteResult
	msg, err := c.do(ctx, http.MethodDelete, "/notes/"+url.PathEscape(id), nil, &res)
	return msg, res.Deleted, err
}

// do sends body as JSON and decodes the envelope's data into out. It returns
// the envelope message on success and an *APIError for error envelopes.
func (c *Client) do(ctx context.Context, method, path string, body, out any) (string, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return "", fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return "", fmt.Errorf("%w: decode %s %s: %v", ErrTransport, method, path, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return "", &APIError{Status: resp.StatusCode, Code: env.Error, Message: env.Message}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return "", fmt.Errorf("%w: decode data: %v", ErrTransport, err)
		}
	}
	return env.Message, nil
}
