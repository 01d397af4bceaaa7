package service

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/mock/gomock"

	"jotter/internal/credential/models"
	dErrors "jotter/pkg/domain-errors"
	"jotter/pkg/requestcontext"
	"jotter/pkg/secrets"
)

func (s *ServiceSuite) pendingCredential(token string, expiresAt time.Time) *models.Credential {
	c := s.credential()
	c.Reset = &models.PasswordReset{
		State:       models.ResetPending,
		TokenHash:   secrets.Digest(token),
		RequestedAt: expiresAt.Add(-30 * time.Minute),
		ExpiresAt:   expiresAt,
	}
	return c
}

func (s *ServiceSuite) TestRequestPasswordReset() {
	s.Run("existing account gets a pending reset and a notification", func() {
		ctx := requestcontext.WithClientMetadata(s.ctx, "10.0.0.1",
			"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
		var saved *models.Credential
		s.mockStore.EXPECT().GetByID(gomock.Any(), testEmail).Return(s.credential(), nil)
		s.mockStore.EXPECT().Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, c *models.Credential) (string, error) {
				saved = c
				return c.Email, nil
			})
		var sent models.ResetNotification
		s.mockNotifier.EXPECT().NotifyPasswordReset(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, msg models.ResetNotification) error {
				sent = msg
				return nil
			})

		err := s.service.RequestPasswordReset(ctx, &models.RequestResetRequest{Email: testEmail})

		s.Require().NoError(err)
		s.Require().NotNil(saved.Reset)
		s.Equal(models.ResetPending, saved.Reset.State)
		s.Equal(fixedNow.Add(30*time.Minute), saved.Reset.ExpiresAt)
		s.Equal(secrets.Digest(sent.Token), saved.Reset.TokenHash)
		s.NotEqual(sent.Token, saved.Reset.TokenHash)
		s.Contains(sent.Device, "Chrome")
		s.Equal(testEmail, sent.Email)
	})

	s.Run("unknown account succeeds silently", func() {
		s.mockStore.EXPECT().GetByID(gomock.Any(), "ghost@example.com").Return(nil, nil)

		err := s.service.RequestPasswordReset(s.ctx, &models.RequestResetRequest{Email: "ghost@example.com"})

		s.NoError(err)
	})

	s.Run("notifier failure does not change the outcome", func() {
		s.mockStore.EXPECT().GetByID(gomock.Any(), testEmail).Return(s.credential(), nil)
		s.mockStore.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(testEmail, nil)
		s.mockNotifier.EXPECT().NotifyPasswordReset(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

		err := s.service.RequestPasswordReset(s.ctx, &models.RequestResetRequest{Email: testEmail})

		s.NoError(err)
		s.Equal(1.0, testutil.ToFloat64(s.metrics.NotifierFailures))
	})

	s.Run("empty email", func() {
		err := s.service.RequestPasswordReset(s.ctx, &models.RequestResetRequest{Email: " "})
		s.assertDomainError(err, dErrors.CodeValidation, models.MsgMissingFields)
	})
}

func (s *ServiceSuite) TestResetPassword() {
	const token = "reset-token"
	valid := func() *models.ResetPasswordRequest {
		return &models.ResetPasswordRequest{
			Email:           testEmail,
			Token:           token,
			NewPassword:     "Newpass1!",
			ConfirmPassword: "Newpass1!",
		}
	}

	s.Run("consumes the pending request", func() {
		s.mockStore.EXPECT().GetByID(gomock.Any(), testEmail).
			Return(s.pendingCredential(token, fixedNow.Add(10*time.Minute)), nil)
		var saved *models.Credential
		s.mockStore.EXPECT().Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, c *models.Credential) (string, error) {
				saved = c
				return c.Email, nil
			})

		s.Require().NoError(s.service.ResetPassword(s.ctx, valid()))
		s.Equal(models.ResetConsumed, saved.Reset.State)
		s.Empty(saved.Reset.TokenHash)
		s.NoError(secrets.Verify("Newpass1!", saved.PasswordHash))
	})

	s.Run("no request on file", func() {
		s.mockStore.EXPECT().GetByID(gomock.Any(), testEmail).Return(s.credential(), nil)
		err := s.service.ResetPassword(s.ctx, valid())
		s.assertDomainError(err, dErrors.CodeInvalidState, models.MsgNoPendingRequest)
	})

	s.Run("expired request", func() {
		s.mockStore.EXPECT().GetByID(gomock.Any(), testEmail).
			Return(s.pendingCredential(token, fixedNow), nil)
		err := s.service.ResetPassword(s.ctx, valid())
		s.assertDomainError(err, dErrors.CodeInvalidState, models.MsgNoPendingRequest)
	})

	s.Run("wrong token", func() {
		s.mockStore.EXPECT().GetByID(gomock.Any(), testEmail).
			Return(s.pendingCredential("other-token", fixedNow.Add(time.Minute)), nil)
		err := s.service.ResetPassword(s.ctx, valid())
		s.assertDomainError(err, dErrors.CodeInvalidState, models.MsgNoPendingRequest)
	})

	s.Run("mismatch wins over missing request", func() {
		req := valid()
		req.ConfirmPassword = "Different1!"
		err := s.service.ResetPassword(s.ctx, req)
		s.assertDomainError(err, dErrors.CodeValidation, models.MsgPasswordsMismatch)
	})

	s.Run("weak password after a valid token", func() {
		s.mockStore.EXPECT().GetByID(gomock.Any(), testEmail).
			Return(s.pendingCredential(token, fixedNow.Add(time.Minute)), nil)
		req := valid()
		req.NewPassword, req.ConfirmPassword = "short", "short"
		err := s.service.ResetPassword(s.ctx, req)
		s.assertDomainError(err, dErrors.CodePolicyViolation, models.MsgPolicyViolation)
	})
}
