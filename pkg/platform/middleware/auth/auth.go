package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"jotter/pkg/platform/httputil"
	"jotter/pkg/requestcontext"
)

// JWTValidator defines the interface for validating bearer tokens.
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// JWTClaims is the subset of token claims the middleware needs.
type JWTClaims struct {
	Subject string
	JTI     string
}

func writeUnauthorized(w http.ResponseWriter, msg string) {
	httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorEnvelope{
		Error:   "unauthorized",
		Message: msg,
	})
}

// RequireAuth validates the bearer token and stores the credential ID it was
// issued for in the request context.
func RequireAuth(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestcontext.RequestID(ctx),
				)
				writeUnauthorized(w, "missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				writeUnauthorized(w, "invalid or expired token")
				return
			}

			if claims.Subject == "" {
				logger.WarnContext(ctx, "unauthorized access - token without subject",
					"request_id", requestcontext.RequestID(ctx),
				)
				writeUnauthorized(w, "invalid or expired token")
				return
			}

			ctx = requestcontext.WithSubject(ctx, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
