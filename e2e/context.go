package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"jotter/internal/app"
	credential "jotter/internal/credential/models"
	"jotter/internal/platform/config"
	"jotter/internal/platform/tracer"
)

// mailbox stands in for the email channel: it keeps the last reset token
// sent to each address.
type mailbox struct {
	mu     sync.Mutex
	tokens map[string]string
}

func (m *mailbox) NotifyPasswordReset(_ context.Context, n credential.ResetNotification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[n.Email] = n.Token
	return nil
}

func (m *mailbox) tokenFor(email string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[credential.NormalizeEmail(email)]
	return t, ok
}

// TestContext holds state between steps of one scenario. Each scenario gets
// a fresh in-memory server.
type TestContext struct {
	app    *app.App
	server *httptest.Server
	mail   *mailbox

	HTTPClient       *http.Client
	LastResponse     *http.Response
	LastResponseBody []byte
	AccessToken      string
	ResetToken       string
	NoteIDs          map[string]string
}

func NewTestContext() *TestContext {
	return &TestContext{
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		mail:       &mailbox{tokens: map[string]string{}},
		NoteIDs:    map[string]string{},
	}
}

func (tc *TestContext) start(ctx context.Context) error {
	cfg := config.Server{
		Addr:          ":0",
		Environment:   "test",
		JWTSigningKey: "e2e-signing-key",
		TokenTTL:      15 * time.Minute,
		ResetTTL:      30 * time.Minute,
		Storage:       config.StorageConfig{Backend: config.StorageMemory},
	}
	a, err := app.New(ctx, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)),
		app.WithRegisterer(prometheus.NewRegistry()),
		app.WithTracer(tracer.NewNoop()),
		app.WithNotifier(tc.mail),
	)
	if err != nil {
		return fmt.Errorf("start app: %w", err)
	}
	tc.app = a
	tc.server = httptest.NewServer(a.Router)
	return nil
}

func (tc *TestContext) stop() {
	if tc.server != nil {
		tc.server.Close()
	}
	if tc.app != nil {
		_ = tc.app.Close()
	}
}

// Do sends a request with an optional JSON body and the current bearer
// token, and keeps the response for later assertions.
func (tc *TestContext) Do(method, path string, body any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, tc.server.URL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tc.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+tc.AccessToken)
	}

	resp, err := tc.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	tc.LastResponse = resp
	tc.LastResponseBody, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	return nil
}

// Field reads a dotted path ("data.token") out of the last JSON response.
func (tc *TestContext) Field(path string) (any, error) {
	var cur any
	if err := json.Unmarshal(tc.LastResponseBody, &cur); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	for _, key := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("field %s not found in response", path)
		}
		if cur, ok = obj[key]; !ok {
			return nil, fmt.Errorf("field %s not found in response", path)
		}
	}
	return cur, nil
}

func (tc *TestContext) Status() int {
	if tc.LastResponse == nil {
		return 0
	}
	return tc.LastResponse.StatusCode
}
