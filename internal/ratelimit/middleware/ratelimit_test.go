package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"jotter/internal/ratelimit/models"
	"jotter/internal/ratelimit/store/bucket"
	"jotter/pkg/requestcontext"
)

type failingStore struct{}

func (failingStore) Allow(context.Context, string, int, time.Duration, time.Time) (*models.Result, error) {
	return nil, errors.New("redis: connection refused")
}

type MiddlewareSuite struct {
	suite.Suite
	logger *slog.Logger
	now    time.Time
}

func TestMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(MiddlewareSuite))
}

func (s *MiddlewareSuite) SetupTest() {
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (s *MiddlewareSuite) serve(h http.Handler, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	ctx := requestcontext.WithClientMetadata(req.Context(), ip, "test")
	ctx = requestcontext.WithTime(ctx, s.now)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req.WithContext(ctx))
	return rec
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func (s *MiddlewareSuite) TestDeniesOverLimitPerIP() {
	var denied []string
	mw := New(bucket.NewInMemoryBucketStore(), "auth", 2, time.Minute, s.logger,
		WithDenyHook(func(class string) { denied = append(denied, class) }))
	h := mw.Handler(okHandler())

	s.Equal(http.StatusOK, s.serve(h, "203.0.113.7").Code)
	rec := s.serve(h, "203.0.113.7")
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("0", rec.Header().Get("X-RateLimit-Remaining"))

	rec = s.serve(h, "203.0.113.7")
	s.Equal(http.StatusTooManyRequests, rec.Code)
	s.Equal("60", rec.Header().Get("Retry-After"))
	s.JSONEq(`{"error":"rate_limit_exceeded","message":"`+MsgTooManyRequests+`","retry_after":60}`, rec.Body.String())
	s.Equal([]string{"auth"}, denied)

	s.Equal(http.StatusOK, s.serve(h, "198.51.100.1").Code)
}

func (s *MiddlewareSuite) TestFailsOpenOnStoreError() {
	h := New(failingStore{}, "auth", 1, time.Minute, s.logger).Handler(okHandler())

	for range 3 {
		rec := s.serve(h, "203.0.113.7")
		s.Equal(http.StatusOK, rec.Code)
		s.Empty(rec.Header().Get("X-RateLimit-Limit"))
	}
}
