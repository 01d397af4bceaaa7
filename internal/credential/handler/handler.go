package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"jotter/internal/credential/models"
	"jotter/pkg/platform/httputil"
	"jotter/pkg/requestcontext"
)

// Service is the credential workflow surface the HTTP layer needs.
type Service interface {
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResult, error)
	Register(ctx context.Context, req *models.RegisterRequest) (*models.RegisterResult, error)
	ChangePassword(ctx context.Context, subject string, req *models.ChangePasswordRequest) error
	RequestPasswordReset(ctx context.Context, req *models.RequestResetRequest) error
	ResetPassword(ctx context.Context, req *models.ResetPasswordRequest) error
}

type Handler struct {
	credentials Service
	logger      *slog.Logger
}

func New(credentials Service, logger *slog.Logger) *Handler {
	return &Handler{credentials: credentials, logger: logger}
}

// Register mounts the unauthenticated credential routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/login", h.HandleLogin)
	r.Post("/auth/register", h.HandleRegister)
	r.Post("/auth/request-password-reset", h.HandleRequestPasswordReset)
	r.Post("/auth/reset-password", h.HandleResetPassword)
}

// RegisterProtected mounts routes that need RequireAuth applied by the caller.
func (h *Handler) RegisterProtected(r chi.Router) {
	r.Post("/auth/change-password", h.HandleChangePassword)
}

// HandleLogin implements POST /auth/login.
//
// Input: { "email": "...", "password": "..." }
// Output: { "message": "login successful", "data": { "token", "token_type", "expires_in" } }
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeAndPrepare[models.LoginRequest](w, r, h.logger)
	if !ok {
		return
	}
	res, err := h.credentials.Login(r.Context(), req)
	if err != nil {
		h.fail(w, r, "login failed", err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, models.MsgLoginSucceeded, res)
}

// HandleRegister implements POST /auth/register.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeAndPrepare[models.RegisterRequest](w, r, h.logger)
	if !ok {
		return
	}
	res, err := h.credentials.Register(r.Context(), req)
	if err != nil {
		h.fail(w, r, "register failed", err)
		return
	}
	httputil.WriteSuccess(w, http.StatusCreated, models.MsgRegistered, res)
}

// HandleChangePassword implements POST /auth/change-password for the bearer's account.
func (h *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subject, err := httputil.RequireSubject(ctx, h.logger)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.ChangePasswordRequest](w, r, h.logger)
	if !ok {
		return
	}
	if err := h.credentials.ChangePassword(ctx, subject, req); err != nil {
		h.fail(w, r, "change password failed", err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, models.MsgPasswordChanged, nil)
}

// HandleRequestPasswordReset implements POST /auth/request-password-reset.
// The response never reveals whether the account exists.
func (h *Handler) HandleRequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeAndPrepare[models.RequestResetRequest](w, r, h.logger)
	if !ok {
		return
	}
	if err := h.credentials.RequestPasswordReset(r.Context(), req); err != nil {
		h.fail(w, r, "password reset request failed", err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, models.MsgResetRequested, nil)
}

// HandleResetPassword implements POST /auth/reset-password.
func (h *Handler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeAndPrepare[models.ResetPasswordRequest](w, r, h.logger)
	if !ok {
		return
	}
	if err := h.credentials.ResetPassword(r.Context(), req); err != nil {
		h.fail(w, r, "password reset failed", err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, models.MsgPasswordWasReset, nil)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	ctx := r.Context()
	h.logger.WarnContext(ctx, msg,
		"error", err,
		"request_id", requestcontext.RequestID(ctx),
	)
	httputil.WriteError(w, err)
}
