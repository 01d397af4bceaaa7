package service

import (
	"go.uber.org/mock/gomock"

	"jotter/internal/credential/models"
	dErrors "jotter/pkg/domain-errors"
	"jotter/pkg/secrets"
)

func (s *ServiceSuite) TestChangePassword() {
	s.Run("replaces the hash with one upsert", func() {
		s.mockStore.EXPECT().GetByID(gomock.Any(), testEmail).Return(s.credential(), nil)
		var saved *models.Credential
		s.mockStore.EXPECT().Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, c *models.Credential) (string, error) {
				saved = c
				return c.Email, nil
			})

		err := s.service.ChangePassword(s.ctx, testEmail, &models.ChangePasswordRequest{
			CurrentPassword: testPassword,
			NewPassword:     "Newpass1!",
			ConfirmPassword: "Newpass1!",
		})

		s.Require().NoError(err)
		s.Require().NotNil(saved)
		s.NoError(secrets.Verify("Newpass1!", saved.PasswordHash))
		s.Equal(fixedNow, saved.UpdatedAt)
	})

	s.Run("mismatch is reported before the current password is checked", func() {
		err := s.service.ChangePassword(s.ctx, testEmail, &models.ChangePasswordRequest{
			CurrentPassword: "whatever",
			NewPassword:     "Newpass1!",
			ConfirmPassword: "Newpass2!",
		})
		s.assertDomainError(err, dErrors.CodeValidation, models.MsgPasswordsMismatch)
	})

	s.Run("wrong current password", func() {
		s.mockStore.EXPECT().GetByID(gomock.Any(), testEmail).Return(s.credential(), nil)

		err := s.service.ChangePassword(s.ctx, testEmail, &models.ChangePasswordRequest{
			CurrentPassword: "Wrong1!!",
			NewPassword:     "short",
			ConfirmPassword: "short",
		})
		s.assertDomainError(err, dErrors.CodeUnauthorized, models.MsgCurrentIncorrect)
	})

	s.Run("weak new password is a policy violation", func() {
		s.mockStore.EXPECT().GetByID(gomock.Any(), testEmail).Return(s.credential(), nil)

		err := s.service.ChangePassword(s.ctx, testEmail, &models.ChangePasswordRequest{
			CurrentPassword: testPassword,
			NewPassword:     "short",
			ConfirmPassword: "short",
		})
		s.assertDomainError(err, dErrors.CodePolicyViolation, models.MsgPolicyViolation)
	})

	s.Run("missing fields", func() {
		err := s.service.ChangePassword(s.ctx, testEmail, &models.ChangePasswordRequest{NewPassword: "x"})
		s.assertDomainError(err, dErrors.CodeValidation, models.MsgMissingFields)
	})

	s.Run("unknown identity", func() {
		s.mockStore.EXPECT().GetByID(gomock.Any(), "ghost@example.com").Return(nil, nil)

		err := s.service.ChangePassword(s.ctx, "ghost@example.com", &models.ChangePasswordRequest{
			CurrentPassword: testPassword,
			NewPassword:     "Newpass1!",
			ConfirmPassword: "Newpass1!",
		})
		s.assertDomainError(err, dErrors.CodeUnauthorized, models.MsgInvalidCredentials)
	})
}

func (s *ServiceSuite) TestRegister() {
	s.Run("creates the credential", func() {
		s.mockStore.EXPECT().GetByID(gomock.Any(), "new@example.com").Return(nil, nil)
		s.mockStore.EXPECT().Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, c *models.Credential) (string, error) {
				s.Equal("new@example.com", c.Email)
				s.NoError(secrets.Verify("Newpass1!", c.PasswordHash))
				return c.Email, nil
			})

		res, err := s.service.Register(s.ctx, &models.RegisterRequest{
			Email:           "New@Example.com",
			Password:        "Newpass1!",
			ConfirmPassword: "Newpass1!",
		})

		s.Require().NoError(err)
		s.Equal("new@example.com", res.Email)
	})

	s.Run("existing account conflicts", func() {
		s.mockStore.EXPECT().GetByID(gomock.Any(), testEmail).Return(s.credential(), nil)

		_, err := s.service.Register(s.ctx, &models.RegisterRequest{
			Email:           testEmail,
			Password:        "Newpass1!",
			ConfirmPassword: "Newpass1!",
		})
		s.assertDomainError(err, dErrors.CodeConflict, models.MsgAccountExists)
	})

	s.Run("invalid email", func() {
		_, err := s.service.Register(s.ctx, &models.RegisterRequest{
			Email:           "not-an-email",
			Password:        "Newpass1!",
			ConfirmPassword: "Newpass1!",
		})
		s.assertDomainError(err, dErrors.CodeValidation, models.MsgInvalidEmail)
	})

	s.Run("weak password", func() {
		_, err := s.service.Register(s.ctx, &models.RegisterRequest{
			Email:           "new@example.com",
			Password:        "short",
			ConfirmPassword: "short",
		})
		s.assertDomainError(err, dErrors.CodePolicyViolation, models.MsgPolicyViolation)
	})
}
