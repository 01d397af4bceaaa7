package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"jotter/internal/ratelimit/models"
	"jotter/pkg/platform/httputil"
	"jotter/pkg/platform/privacy"
	"jotter/pkg/requestcontext"
)

const MsgTooManyRequests = "too many requests, try again later"

type BucketStore interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration, now time.Time) (*models.Result, error)
}

// Middleware limits requests per client IP within one class of endpoints.
type Middleware struct {
	store  BucketStore
	class  string
	limit  int
	window time.Duration
	logger *slog.Logger
	onDeny func(class string)
}

type Option func(*Middleware)

// WithDenyHook is called for every rejected request.
func WithDenyHook(fn func(class string)) Option {
	return func(m *Middleware) {
		m.onDeny = fn
	}
}

func New(store BucketStore, class string, limit int, window time.Duration, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{
		store:  store,
		class:  class,
		limit:  limit,
		window: window,
		logger: logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Handler fails open: a store error is logged and the request proceeds.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ip := requestcontext.ClientIP(ctx)

		result, err := m.store.Allow(ctx, m.class+":"+ip, m.limit, m.window, requestcontext.Now(ctx))
		if err != nil {
			m.logger.ErrorContext(ctx, "failed to check rate limit",
				"error", err,
				"class", m.class,
				"ip_prefix", privacy.AnonymizeIP(ip),
			)
			next.ServeHTTP(w, r)
			return
		}

		addRateLimitHeaders(w, result)

		if !result.Allowed {
			m.logger.WarnContext(ctx, "rate limit exceeded",
				"class", m.class,
				"ip_prefix", privacy.AnonymizeIP(ip),
				"request_id", requestcontext.RequestID(ctx),
			)
			if m.onDeny != nil {
				m.onDeny(m.class)
			}
			writeRateLimitExceeded(w, result)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func addRateLimitHeaders(w http.ResponseWriter, result *models.Result) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

func writeRateLimitExceeded(w http.ResponseWriter, result *models.Result) {
	w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
	httputil.WriteJSON(w, http.StatusTooManyRequests, &models.ExceededResponse{
		Error:      "rate_limit_exceeded",
		Message:    MsgTooManyRequests,
		RetryAfter: result.RetryAfter,
	})
}
