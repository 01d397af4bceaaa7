package service

import (
	"context"

	"jotter/internal/credential/device"
	"jotter/internal/credential/models"
	"jotter/internal/platform/tracer"
	"jotter/pkg/platform/privacy"
	"jotter/pkg/requestcontext"
	"jotter/pkg/secrets"
)

// RequestPasswordReset is phase 1. The caller always sees the same result
// whether or not the account exists; only infrastructure failures surface.
func (s *Service) RequestPasswordReset(ctx context.Context, req *models.RequestResetRequest) error {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return err
	}

	var notification *models.ResetNotification
	err := s.locks.WithLock(req.Email, func() error {
		cred, err := s.credentials.GetByID(ctx, req.Email)
		if err != nil {
			return s.internal(ctx, "request reset", err)
		}
		if cred == nil {
			return nil
		}

		token, err := secrets.Generate()
		if err != nil {
			return s.internal(ctx, "generate reset token", err)
		}
		now := requestcontext.Now(ctx)
		cred.StartReset(secrets.Digest(token), now, s.resetTTL)
		if _, err := s.credentials.Insert(ctx, cred); err != nil {
			return s.internal(ctx, "request reset", err)
		}
		notification = &models.ResetNotification{
			Email:     cred.Email,
			Token:     token,
			ExpiresAt: cred.Reset.ExpiresAt,
			Device:    device.DisplayName(requestcontext.UserAgent(ctx)),
		}
		return nil
	})
	if err != nil {
		return err
	}
	if notification == nil {
		s.logger.InfoContext(ctx, "reset requested for unknown account",
			"email", privacy.MaskEmail(req.Email),
			"request_id", requestcontext.RequestID(ctx),
		)
		return nil
	}

	s.logAudit(ctx, eventResetRequested, "email", notification.Email, "device", notification.Device)
	s.incrementResetsRequested()
	s.notify(ctx, *notification)
	return nil
}

// notify logs and counts failures; they never reach the caller.
func (s *Service) notify(ctx context.Context, msg models.ResetNotification) {
	if s.notifier == nil {
		return
	}
	ctx, span := s.tracer.Start(ctx, tracer.SpanNotifyReset)
	err := s.notifier.NotifyPasswordReset(ctx, msg)
	span.End(err)
	if err != nil {
		s.incrementNotifierFailures()
		s.logger.ErrorContext(ctx, "reset notification failed",
			"email", msg.Email,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
}

// ResetPassword is phase 2: missing fields, confirmation match, pending
// request with a matching unexpired token, policy, then one upsert that
// swaps the hash and consumes the request.
func (s *Service) ResetPassword(ctx context.Context, req *models.ResetPasswordRequest) error {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return err
	}
	if req.NewPassword != req.ConfirmPassword {
		return validation(models.MsgPasswordsMismatch)
	}

	err := s.locks.WithLock(req.Email, func() error {
		cred, err := s.credentials.GetByID(ctx, req.Email)
		if err != nil {
			return s.internal(ctx, "reset password", err)
		}
		now := requestcontext.Now(ctx)
		if cred == nil || !cred.CanConsumeReset(req.Token, now) {
			s.authFailure(ctx, "reset_password", "no_pending_request", req.Email)
			return noPendingRequest()
		}
		if !models.MeetsPolicy(req.NewPassword) {
			return policyViolation()
		}

		hash, err := secrets.Hash(req.NewPassword)
		if err != nil {
			return s.internal(ctx, "hash password", err)
		}
		cred.CompleteReset(hash, now)
		if _, err := s.credentials.Insert(ctx, cred); err != nil {
			return s.internal(ctx, "reset password", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logAudit(ctx, eventResetCompleted, "email", req.Email)
	s.incrementResetsCompleted()
	return nil
}
