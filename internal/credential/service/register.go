package service

import (
	"context"

	"jotter/internal/credential/models"
	dErrors "jotter/pkg/domain-errors"
	"jotter/pkg/requestcontext"
	"jotter/pkg/secrets"
)

func (s *Service) Register(ctx context.Context, req *models.RegisterRequest) (*models.RegisterResult, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Password != req.ConfirmPassword {
		return nil, validation(models.MsgPasswordsMismatch)
	}
	if !models.MeetsPolicy(req.Password) {
		return nil, policyViolation()
	}

	err := s.locks.WithLock(req.Email, func() error {
		existing, err := s.credentials.GetByID(ctx, req.Email)
		if err != nil {
			return s.internal(ctx, "register", err)
		}
		if existing != nil {
			return dErrors.New(dErrors.CodeConflict, models.MsgAccountExists)
		}

		hash, err := secrets.Hash(req.Password)
		if err != nil {
			return s.internal(ctx, "hash password", err)
		}
		now := requestcontext.Now(ctx)
		if _, err := s.credentials.Insert(ctx, &models.Credential{
			Email:        req.Email,
			PasswordHash: hash,
			CreatedAt:    now,
			UpdatedAt:    now,
		}); err != nil {
			return s.internal(ctx, "register", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, eventRegistered, "email", req.Email)
	s.incrementRegistrations()
	return &models.RegisterResult{Email: req.Email}, nil
}
