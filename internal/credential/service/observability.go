package service

import (
	"context"

	"jotter/pkg/platform/privacy"
	"jotter/pkg/requestcontext"
)

const (
	eventLogin           = "credential_login"
	eventRegistered      = "credential_registered"
	eventPasswordChanged = "credential_password_changed"
	eventResetRequested  = "credential_reset_requested"
	eventResetCompleted  = "credential_reset_completed"
	eventAuthFailed      = "credential_auth_failed"
)

func (s *Service) logAudit(ctx context.Context, event string, attributes ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", event, "log_type", "audit")
	s.logger.InfoContext(ctx, event, args...)
}

// authFailure logs and counts a rejected credential workflow. Unknown
// accounts are logged masked.
func (s *Service) authFailure(ctx context.Context, workflow, reason, email string) {
	if reason == "unknown_account" {
		email = privacy.MaskEmail(email)
	}
	args := []any{
		"event", eventAuthFailed,
		"workflow", workflow,
		"reason", reason,
		"email", email,
		"log_type", "standard",
	}
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		args = append(args, "request_id", requestID)
	}
	s.logger.WarnContext(ctx, eventAuthFailed, args...)
	if s.metrics != nil {
		s.metrics.IncrementAuthFailures(workflow)
	}
}

func (s *Service) logInternal(ctx context.Context, msg string, err error, attributes ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	s.logger.ErrorContext(ctx, msg, append(attributes, "error", err)...)
}

func (s *Service) incrementLogins() {
	if s.metrics != nil {
		s.metrics.IncrementLogins()
	}
}

func (s *Service) incrementRegistrations() {
	if s.metrics != nil {
		s.metrics.IncrementRegistrations()
	}
}

func (s *Service) incrementPasswordsChanged() {
	if s.metrics != nil {
		s.metrics.IncrementPasswordsChanged()
	}
}

func (s *Service) incrementResetsRequested() {
	if s.metrics != nil {
		s.metrics.IncrementResetsRequested()
	}
}

func (s *Service) incrementResetsCompleted() {
	if s.metrics != nil {
		s.metrics.IncrementResetsCompleted()
	}
}

func (s *Service) incrementNotifierFailures() {
	if s.metrics != nil {
		s.metrics.IncrementNotifierFailures()
	}
}
