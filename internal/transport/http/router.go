package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	credentialHandler "jotter/internal/credential/handler"
	noteHandler "jotter/internal/note/handler"
	"jotter/internal/platform/health"
	ratelimit "jotter/internal/ratelimit/middleware"
	"jotter/pkg/platform/httputil"
	"jotter/pkg/platform/middleware/auth"
	"jotter/pkg/platform/middleware/metadata"
	"jotter/pkg/platform/middleware/request"
)

const (
	requestTimeout = 30 * time.Second
	maxBodyBytes   = 64 << 10
)

// Deps are the handlers and cross-cutting pieces the router mounts.
// Metadata, Metrics and AuthRateLimit are optional.
type Deps struct {
	Credentials   *credentialHandler.Handler
	Notes         *noteHandler.Handler
	Health        *health.Handler
	Tokens        auth.JWTValidator
	Metadata      *metadata.Middleware
	Metrics       *request.Metrics
	AuthRateLimit *ratelimit.Middleware
	Logger        *slog.Logger
}

// NewRouter wires every public endpoint behind the shared middleware stack.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(request.Recovery(d.Logger))
	r.Use(request.RequestID)
	r.Use(request.RequestTime)
	if d.Metadata != nil {
		r.Use(d.Metadata.Handler)
	}
	r.Use(request.Logger(d.Logger))
	r.Use(request.LatencyMiddleware(d.Metrics))
	r.Use(request.Timeout(requestTimeout))
	r.Use(request.BodyLimit(maxBodyBytes))
	r.Use(request.ContentTypeJSON)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusNotFound, httputil.ErrorEnvelope{
			Error:   "not_found",
			Message: "route not found",
		})
	})

	d.Health.Register(r)

	r.Group(func(r chi.Router) {
		if d.AuthRateLimit != nil {
			r.Use(d.AuthRateLimit.Handler)
		}
		d.Credentials.Register(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(d.Tokens, d.Logger))
		d.Credentials.RegisterProtected(r)
		d.Notes.Register(r)
	})

	return r
}
