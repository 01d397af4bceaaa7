package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	dErrors "jotter/pkg/domain-errors"
	"jotter/pkg/requestcontext"
)

// MsgServerProblem is the only message clients ever see for internal failures.
const MsgServerProblem = "server problem, try again later"

// Envelope is the success body shared by every endpoint.
type Envelope struct {
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ErrorEnvelope is the failure body shared by every endpoint.
type ErrorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; an encode failure cannot change the status.
	_ = json.NewEncoder(w).Encode(response)
}

// WriteSuccess writes the {"message", "data"} envelope.
func WriteSuccess(w http.ResponseWriter, status int, message string, data any) {
	WriteJSON(w, status, Envelope{Message: message, Data: data})
}

type codeMapping struct {
	status int
	name   string
}

// codes maps each client-visible domain code to its status and the "error"
// field of the body. Codes missing here are answered as internal.
var codes = map[dErrors.Code]codeMapping{
	dErrors.CodeNotFound:        {http.StatusNotFound, "not_found"},
	dErrors.CodeBadRequest:      {http.StatusBadRequest, "bad_request"},
	dErrors.CodeValidation:      {http.StatusBadRequest, "validation_error"},
	dErrors.CodeConflict:        {http.StatusConflict, "conflict"},
	dErrors.CodeInvalidState:    {http.StatusConflict, "invalid_state"},
	dErrors.CodeUnauthorized:    {http.StatusUnauthorized, "unauthorized"},
	dErrors.CodePolicyViolation: {http.StatusPreconditionFailed, "policy_violation"},
}

// WriteError answers with the domain error's code and message. Internal and
// non-domain errors only ever show MsgServerProblem.
func WriteError(w http.ResponseWriter, err error) {
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		if m, ok := codes[domainErr.Code]; ok {
			msg := domainErr.Message
			if msg == "" {
				msg = string(domainErr.Code)
			}
			WriteJSON(w, m.status, ErrorEnvelope{Error: m.name, Message: msg})
			return
		}
	}
	WriteJSON(w, http.StatusInternalServerError, ErrorEnvelope{
		Error:   string(dErrors.CodeInternal),
		Message: MsgServerProblem,
	})
}

// RequireSubject extracts the authenticated credential ID from context.
// A missing subject behind RequireAuth is a wiring bug, so it maps to internal.
func RequireSubject(ctx context.Context, logger *slog.Logger) (string, error) {
	subject := requestcontext.Subject(ctx)
	if subject == "" {
		if logger != nil {
			logger.ErrorContext(ctx, "subject missing from context despite auth middleware",
				"request_id", requestcontext.RequestID(ctx))
		}
		return "", dErrors.New(dErrors.CodeInternal, "authentication context error")
	}
	return subject, nil
}
