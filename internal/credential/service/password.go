package service

import (
	"context"

	"jotter/internal/credential/models"
	"jotter/pkg/requestcontext"
	"jotter/pkg/secrets"
)

// ChangePassword checks, in order: missing fields, confirmation match,
// current password, policy. The first failure wins.
func (s *Service) ChangePassword(ctx context.Context, subject string, req *models.ChangePasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if req.NewPassword != req.ConfirmPassword {
		return validation(models.MsgPasswordsMismatch)
	}
	email := models.NormalizeEmail(subject)

	err := s.locks.WithLock(email, func() error {
		cred, err := s.credentials.GetByID(ctx, email)
		if err != nil {
			return s.internal(ctx, "change password", err)
		}
		if cred == nil {
			s.authFailure(ctx, "change_password", "unknown_account", email)
			return invalidCredentials()
		}
		if err := s.verify(ctx, req.CurrentPassword, cred.PasswordHash); err != nil {
			if isUnauthorized(err) {
				s.authFailure(ctx, "change_password", "current_incorrect", email)
				return unauthorized(models.MsgCurrentIncorrect)
			}
			return err
		}
		if !models.MeetsPolicy(req.NewPassword) {
			return policyViolation()
		}

		hash, err := secrets.Hash(req.NewPassword)
		if err != nil {
			return s.internal(ctx, "hash password", err)
		}
		cred.PasswordHash = hash
		cred.UpdatedAt = requestcontext.Now(ctx)
		if _, err := s.credentials.Insert(ctx, cred); err != nil {
			return s.internal(ctx, "change password", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logAudit(ctx, eventPasswordChanged, "email", email)
	s.incrementPasswordsChanged()
	return nil
}
