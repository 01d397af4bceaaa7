package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"

	dErrors "jotter/pkg/domain-errors"
	"jotter/pkg/requestcontext"
)

// DecodeAndPrepare reads a JSON body into T, then runs T's Normalize and
// Validate methods when it has them. On any failure it has already written
// the error response and returns false.
//
//	req, ok := httputil.DecodeAndPrepare[models.LoginRequest](w, r, h.logger)
//	if !ok {
//	    return
//	}
func DecodeAndPrepare[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger) (*T, bool) {
	ctx := r.Context()
	req := new(T)

	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		logger.WarnContext(ctx, "failed to decode request body",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return nil, false
	}

	if n, ok := any(req).(interface{ Normalize() }); ok {
		n.Normalize()
	}
	v, ok := any(req).(interface{ Validate() error })
	if !ok {
		return req, true
	}
	if err := v.Validate(); err != nil {
		logger.WarnContext(ctx, "invalid request",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		if dErrors.CodeOr(err, dErrors.CodeValidation) == dErrors.CodeValidation {
			err = dErrors.Wrap(err, dErrors.CodeValidation, err.Error())
		}
		WriteError(w, err)
		return nil, false
	}
	return req, true
}
