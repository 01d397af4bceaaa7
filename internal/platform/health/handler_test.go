package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(h *Handler, path string) (*httptest.ResponseRecorder, Response) {
	r := chi.NewRouter()
	h.Register(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	var body Response
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func TestHealthOK(t *testing.T) {
	h := New("test")
	h.RegisterCheck("storage", func(context.Context) error { return nil })

	rec, body := serve(h, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "up", body.Checks["storage"])
}

func TestHealthDegraded(t *testing.T) {
	h := New("test")
	h.RegisterCheck("redis", func(context.Context) error { return errors.New("connection refused") })

	rec, body := serve(h, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "down: connection refused", body.Checks["redis"])
}

func TestLiveness(t *testing.T) {
	h := New("test")
	h.RegisterCheck("redis", func(context.Context) error { return errors.New("down") })

	rec, body := serve(h, "/health/live")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body.Status)
}
