package service

import (
	"context"

	"jotter/internal/credential/models"
	dErrors "jotter/pkg/domain-errors"
	"jotter/pkg/requestcontext"
	"jotter/pkg/secrets"
)

const (
	tokenTypeBearer = "Bearer"
	dummyPassword   = "jotter-timing-equalizer"
)

// Login answers unknown email and wrong password identically; an unknown
// email still pays for one bcrypt comparison.
func (s *Service) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResult, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cred, err := s.credentials.GetByID(ctx, req.Email)
	if err != nil {
		return nil, s.internal(ctx, "login", err)
	}
	if cred == nil {
		_ = secrets.Verify(req.Password, s.dummy())
		s.authFailure(ctx, "login", "unknown_account", req.Email)
		return nil, invalidCredentials()
	}
	if err := s.verify(ctx, req.Password, cred.PasswordHash); err != nil {
		if isUnauthorized(err) {
			s.authFailure(ctx, "login", "wrong_password", req.Email)
			return nil, invalidCredentials()
		}
		return nil, err
	}

	token, expiresAt, err := s.tokens.GenerateAccessToken(ctx, cred.Email)
	if err != nil {
		return nil, s.internal(ctx, "issue token", err)
	}

	s.logAudit(ctx, eventLogin, "email", cred.Email)
	s.incrementLogins()
	return &models.LoginResult{
		Token:     token,
		TokenType: tokenTypeBearer,
		ExpiresIn: int64(expiresAt.Sub(requestcontext.Now(ctx)).Seconds()),
	}, nil
}

// verify returns a CodeUnauthorized error on mismatch and an internal error
// for a corrupt stored hash.
func (s *Service) verify(ctx context.Context, password, hash string) error {
	err := secrets.Verify(password, hash)
	if err == nil || dErrors.HasCode(err, dErrors.CodeUnauthorized) {
		return err
	}
	return s.internal(ctx, "verify password", err)
}

func (s *Service) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = secrets.Hash(dummyPassword)
	})
	return s.dummyHash
}
