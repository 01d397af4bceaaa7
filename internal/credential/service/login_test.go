package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/mock/gomock"

	"jotter/internal/credential/models"
	dErrors "jotter/pkg/domain-errors"
	"jotter/pkg/platform/httputil"
)

func (s *ServiceSuite) TestLogin() {
	s.Run("success issues a bearer token for the credential", func() {
		s.mockStore.EXPECT().GetByID(gomock.Any(), testEmail).Return(s.credential(), nil)
		s.mockTokens.EXPECT().GenerateAccessToken(gomock.Any(), testEmail).
			Return("signed.jwt", fixedNow.Add(15*time.Minute), nil)

		res, err := s.service.Login(s.ctx, &models.LoginRequest{Email: "  ADA@example.com ", Password: testPassword})

		s.Require().NoError(err)
		s.Equal("signed.jwt", res.Token)
		s.Equal("Bearer", res.TokenType)
		s.Equal(int64(900), res.ExpiresIn)
	})

	s.Run("missing fields never touch the store", func() {
		_, err := s.service.Login(s.ctx, &models.LoginRequest{Email: testEmail, Password: "   "})
		s.assertDomainError(err, dErrors.CodeValidation, models.MsgMissingFields)
	})

	s.Run("unknown email and wrong password are indistinguishable", func() {
		s.mockStore.EXPECT().GetByID(gomock.Any(), "nobody@example.com").Return(nil, nil)
		_, unknownErr := s.service.Login(s.ctx, &models.LoginRequest{Email: "nobody@example.com", Password: testPassword})

		s.mockStore.EXPECT().GetByID(gomock.Any(), testEmail).Return(s.credential(), nil)
		_, wrongErr := s.service.Login(s.ctx, &models.LoginRequest{Email: testEmail, Password: "Wrong1!!"})

		s.assertDomainError(unknownErr, dErrors.CodeUnauthorized, models.MsgInvalidCredentials)
		s.assertDomainError(wrongErr, dErrors.CodeUnauthorized, models.MsgInvalidCredentials)
		s.Equal(unknownErr.Error(), wrongErr.Error())
	})

	s.Run("store failure is reported generically", func() {
		s.mockStore.EXPECT().GetByID(gomock.Any(), testEmail).Return(nil, errStore)

		_, err := s.service.Login(s.ctx, &models.LoginRequest{Email: testEmail, Password: testPassword})

		s.assertDomainError(err, dErrors.CodeInternal, httputil.MsgServerProblem)
		s.ErrorIs(err, errStore)
	})
}

func (s *ServiceSuite) TestLoginCountsFailures() {
	s.mockStore.EXPECT().GetByID(gomock.Any(), testEmail).Return(s.credential(), nil)

	_, err := s.service.Login(s.ctx, &models.LoginRequest{Email: testEmail, Password: "Wrong1!!"})

	s.Require().Error(err)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.AuthFailures.WithLabelValues("login")))
}
